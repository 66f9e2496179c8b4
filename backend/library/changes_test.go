package library

import (
	"github.com/google/go-cmp/cmp"
	"satchel/shared"
	"testing"
)

func TestDiff(t *testing.T) {
	before := *querySnapshot()
	after := before.clone()

	if !Diff(before, after).Empty() {
		t.Fatalf("Expected no changes between identical snapshots")
	}

	renamed := after.artifacts["a"]
	renamed.Name = "Renamed"
	after.artifacts["a"] = renamed
	after.artifacts["f"] = shared.Artifact{ID: "f"}
	after.removeArtifact("e")
	after.linkArtifact("unorganized", "f")
	after.removeCatalog("music")
	after.folders["box"] = shared.Folder{ID: "box", Name: "Box"}
	after.linkCatalog("box", "art")

	changes := Diff(before, after)

	expected := ChangeSet{
		UpsertArtifacts: []shared.Artifact{after.artifacts["a"], after.artifacts["f"]},
		DeleteArtifacts: []string{"e"},
		DeleteCatalogs:  []string{"music"},
		UpsertFolders:   []shared.Folder{after.folders["box"]},
		AddCatalogArtifacts: []Link{
			{ParentID: "unorganized", ChildID: "f"},
			{ParentID: "unorganized", ChildID: "c"},
		},
		RemoveCatalogArtifacts: []Link{
			{ParentID: "music", ChildID: "c"},
			{ParentID: "music", ChildID: "b"},
			{ParentID: "unorganized", ChildID: "e"},
		},
		AddFolderCatalogs:    []Link{{ParentID: "box", ChildID: "art"}},
		RemoveFolderCatalogs: []Link{{ParentID: "shelf", ChildID: "music"}},
	}

	if diff := cmp.Diff(expected, changes); diff != "" {
		t.Fatalf("Unexpected change set (-want +got):\n%s", diff)
	}

	// The original snapshot is untouched by changes to the clone
	if _, ok := before.artifacts["e"]; !ok {
		t.Fatalf("Clone shares state with its source")
	}

	if len(before.catalogArtifacts["music"]) != 2 {
		t.Fatalf("Clone shares link slices with its source")
	}
}

func TestSnapshotFromDataDropsDanglingLinks(t *testing.T) {
	snap := snapshotFromData(Data{
		Artifacts: []shared.Artifact{{ID: "a"}},
		Catalogs: []shared.Catalog{
			{ID: "c1", ArtifactIDs: []string{"a", "missing", "a"}},
		},
		Folders: []shared.Folder{
			{ID: "f1", CatalogIDs: []string{"c1", "gone"}},
		},
	})

	if diff := cmp.Diff([]string{"a"}, snap.catalogArtifacts["c1"]); diff != "" {
		t.Fatalf("Unexpected catalog links (-want +got):\n%s", diff)
	}

	if diff := cmp.Diff([]string{"c1"}, snap.folderCatalogs["f1"]); diff != "" {
		t.Fatalf("Unexpected folder links (-want +got):\n%s", diff)
	}

	if catalog := snap.catalogs["c1"]; catalog.ArtifactIDs != nil {
		t.Fatalf("Entities should not keep link lists, got %v", catalog.ArtifactIDs)
	}
}
