package library

import (
	"reflect"
	"satchel/shared"
	"sort"
)

type Link struct {
	ParentID string
	ChildID  string
}

// ChangeSet is everything that needs to be written to the database to move a
// library from one snapshot to another.
type ChangeSet struct {
	UpsertArtifacts []shared.Artifact
	DeleteArtifacts []string
	UpsertCatalogs  []shared.Catalog
	DeleteCatalogs  []string
	UpsertFolders   []shared.Folder
	DeleteFolders   []string

	AddCatalogArtifacts    []Link
	RemoveCatalogArtifacts []Link
	AddFolderCatalogs      []Link
	RemoveFolderCatalogs   []Link
}

func (c ChangeSet) Empty() bool {
	return len(c.UpsertArtifacts) == 0 &&
		len(c.DeleteArtifacts) == 0 &&
		len(c.UpsertCatalogs) == 0 &&
		len(c.DeleteCatalogs) == 0 &&
		len(c.UpsertFolders) == 0 &&
		len(c.DeleteFolders) == 0 &&
		len(c.AddCatalogArtifacts) == 0 &&
		len(c.RemoveCatalogArtifacts) == 0 &&
		len(c.AddFolderCatalogs) == 0 &&
		len(c.RemoveFolderCatalogs) == 0
}

// Diff computes the change set between two snapshots. Output is sorted by ID
// so the same pair of snapshots always produces the same statements, and new
// links keep the order they have in the after snapshot.
func Diff(before, after Snapshot) ChangeSet {
	var changes ChangeSet

	for _, id := range sortedIDs(after.artifacts) {
		if old, ok := before.artifacts[id]; !ok || !reflect.DeepEqual(old, after.artifacts[id]) {
			changes.UpsertArtifacts = append(changes.UpsertArtifacts, after.artifacts[id])
		}
	}

	for _, id := range sortedIDs(before.artifacts) {
		if _, ok := after.artifacts[id]; !ok {
			changes.DeleteArtifacts = append(changes.DeleteArtifacts, id)
		}
	}

	for _, id := range sortedIDs(after.catalogs) {
		if old, ok := before.catalogs[id]; !ok || !reflect.DeepEqual(old, after.catalogs[id]) {
			changes.UpsertCatalogs = append(changes.UpsertCatalogs, after.catalogs[id])
		}
	}

	for _, id := range sortedIDs(before.catalogs) {
		if _, ok := after.catalogs[id]; !ok {
			changes.DeleteCatalogs = append(changes.DeleteCatalogs, id)
		}
	}

	for _, id := range sortedIDs(after.folders) {
		if old, ok := before.folders[id]; !ok || !reflect.DeepEqual(old, after.folders[id]) {
			changes.UpsertFolders = append(changes.UpsertFolders, after.folders[id])
		}
	}

	for _, id := range sortedIDs(before.folders) {
		if _, ok := after.folders[id]; !ok {
			changes.DeleteFolders = append(changes.DeleteFolders, id)
		}
	}

	changes.AddCatalogArtifacts, changes.RemoveCatalogArtifacts = diffLinks(
		before.catalogArtifacts,
		after.catalogArtifacts)
	changes.AddFolderCatalogs, changes.RemoveFolderCatalogs = diffLinks(
		before.folderCatalogs,
		after.folderCatalogs)

	return changes
}

func diffLinks(before, after map[string][]string) (added []Link, removed []Link) {
	for _, parentID := range sortedIDs(after) {
		existing := toSet(before[parentID])
		for _, childID := range after[parentID] {
			if !existing[childID] {
				added = append(added, Link{ParentID: parentID, ChildID: childID})
			}
		}
	}

	for _, parentID := range sortedIDs(before) {
		remaining := toSet(after[parentID])
		for _, childID := range before[parentID] {
			if !remaining[childID] {
				removed = append(removed, Link{ParentID: parentID, ChildID: childID})
			}
		}
	}

	return added, removed
}

func toSet(ids []string) map[string]bool {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}

	return set
}

func sortedIDs[V any](m map[string]V) []string {
	ids := make([]string, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}

	sort.Strings(ids)
	return ids
}
