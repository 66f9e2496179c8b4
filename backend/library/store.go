package library

import (
	"satchel/shared"
	"satchel/shared/constants"
	"sort"
	"strings"
	"sync"
)

// Snapshot is a normalized copy of one user's library. Entities are stored
// without their link lists; links live in the two ordered link tables and are
// attached to entities on the way out.
type Snapshot struct {
	artifacts        map[string]shared.Artifact
	catalogs         map[string]shared.Catalog
	folders          map[string]shared.Folder
	catalogArtifacts map[string][]string
	folderCatalogs   map[string][]string
}

func newSnapshot() Snapshot {
	return Snapshot{
		artifacts:        make(map[string]shared.Artifact),
		catalogs:         make(map[string]shared.Catalog),
		folders:          make(map[string]shared.Folder),
		catalogArtifacts: make(map[string][]string),
		folderCatalogs:   make(map[string][]string),
	}
}

// Data is the denormalized form of a library as read from the database
type Data struct {
	Artifacts []shared.Artifact
	Catalogs  []shared.Catalog
	Folders   []shared.Folder
}

// snapshotFromData normalizes loaded data, dropping any link that points at a
// missing entity along with duplicate links.
func snapshotFromData(data Data) Snapshot {
	snap := newSnapshot()
	for _, artifact := range data.Artifacts {
		snap.artifacts[artifact.ID] = artifact
	}

	for _, catalog := range data.Catalogs {
		ids := catalog.ArtifactIDs
		catalog.ArtifactIDs = nil
		snap.catalogs[catalog.ID] = catalog
		for _, id := range ids {
			if _, ok := snap.artifacts[id]; ok {
				snap.linkArtifact(catalog.ID, id)
			}
		}
	}

	for _, folder := range data.Folders {
		ids := folder.CatalogIDs
		folder.CatalogIDs = nil
		snap.folders[folder.ID] = folder
		for _, id := range ids {
			if _, ok := snap.catalogs[id]; ok {
				snap.linkCatalog(folder.ID, id)
			}
		}
	}

	return snap
}

func (snap *Snapshot) clone() Snapshot {
	out := Snapshot{
		artifacts:        make(map[string]shared.Artifact, len(snap.artifacts)),
		catalogs:         make(map[string]shared.Catalog, len(snap.catalogs)),
		folders:          make(map[string]shared.Folder, len(snap.folders)),
		catalogArtifacts: make(map[string][]string, len(snap.catalogArtifacts)),
		folderCatalogs:   make(map[string][]string, len(snap.folderCatalogs)),
	}

	for id, artifact := range snap.artifacts {
		out.artifacts[id] = artifact
	}

	for id, catalog := range snap.catalogs {
		out.catalogs[id] = catalog
	}

	for id, folder := range snap.folders {
		out.folders[id] = folder
	}

	for id, links := range snap.catalogArtifacts {
		out.catalogArtifacts[id] = append([]string(nil), links...)
	}

	for id, links := range snap.folderCatalogs {
		out.folderCatalogs[id] = append([]string(nil), links...)
	}

	return out
}

// systemCatalog returns the ID of the system catalog of the given kind, or ""
func (snap *Snapshot) systemCatalog(kind string) string {
	for id, catalog := range snap.catalogs {
		if catalog.Kind == kind {
			return id
		}
	}

	return ""
}

func (snap *Snapshot) spamID() string {
	return snap.systemCatalog(constants.CatalogKindSpam)
}

func (snap *Snapshot) unorganizedID() string {
	return snap.systemCatalog(constants.CatalogKindUnorganized)
}

func (snap *Snapshot) catalog(id string) (shared.Catalog, bool) {
	catalog, ok := snap.catalogs[id]
	if !ok {
		return shared.Catalog{}, false
	}

	catalog.ArtifactIDs = append([]string{}, snap.catalogArtifacts[id]...)
	return catalog, true
}

func (snap *Snapshot) folder(id string) (shared.Folder, bool) {
	folder, ok := snap.folders[id]
	if !ok {
		return shared.Folder{}, false
	}

	folder.CatalogIDs = append([]string{}, snap.folderCatalogs[id]...)
	return folder, true
}

// foldersOf lists the folders containing a catalog, sorted by ID
func (snap *Snapshot) foldersOf(catalogID string) []string {
	folderIDs := []string{}
	for folderID, catalogIDs := range snap.folderCatalogs {
		if indexOf(catalogIDs, catalogID) >= 0 {
			folderIDs = append(folderIDs, folderID)
		}
	}

	sort.Strings(folderIDs)
	return folderIDs
}

// catalogsOf lists the catalogs containing an artifact
func (snap *Snapshot) catalogsOf(artifactID string) []string {
	var catalogIDs []string
	for catalogID, artifactIDs := range snap.catalogArtifacts {
		if indexOf(artifactIDs, artifactID) >= 0 {
			catalogIDs = append(catalogIDs, catalogID)
		}
	}

	return catalogIDs
}

func (snap *Snapshot) linkArtifact(catalogID, artifactID string) bool {
	links := snap.catalogArtifacts[catalogID]
	if indexOf(links, artifactID) >= 0 {
		return false
	}

	snap.catalogArtifacts[catalogID] = append(links, artifactID)
	return true
}

func (snap *Snapshot) unlinkArtifact(catalogID, artifactID string) bool {
	links := snap.catalogArtifacts[catalogID]
	idx := indexOf(links, artifactID)
	if idx < 0 {
		return false
	}

	snap.catalogArtifacts[catalogID] = append(links[:idx:idx], links[idx+1:]...)
	if len(snap.catalogArtifacts[catalogID]) == 0 {
		delete(snap.catalogArtifacts, catalogID)
	}

	return true
}

func (snap *Snapshot) linkCatalog(folderID, catalogID string) bool {
	links := snap.folderCatalogs[folderID]
	if indexOf(links, catalogID) >= 0 {
		return false
	}

	snap.folderCatalogs[folderID] = append(links, catalogID)
	return true
}

func (snap *Snapshot) unlinkCatalog(folderID, catalogID string) bool {
	links := snap.folderCatalogs[folderID]
	idx := indexOf(links, catalogID)
	if idx < 0 {
		return false
	}

	snap.folderCatalogs[folderID] = append(links[:idx:idx], links[idx+1:]...)
	if len(snap.folderCatalogs[folderID]) == 0 {
		delete(snap.folderCatalogs, folderID)
	}

	return true
}

// placeArtifact repairs an artifact's system catalog membership. Spam lives
// in the spam catalog alone; anything else sits in unorganized exactly when
// no user catalog holds it.
func (snap *Snapshot) placeArtifact(artifactID string) {
	artifact, ok := snap.artifacts[artifactID]
	if !ok {
		return
	}

	spamID := snap.spamID()
	unorganizedID := snap.unorganizedID()

	if artifact.IsSpam {
		for _, catalogID := range snap.catalogsOf(artifactID) {
			if catalogID != spamID {
				snap.unlinkArtifact(catalogID, artifactID)
			}
		}

		snap.linkArtifact(spamID, artifactID)
		return
	}

	snap.unlinkArtifact(spamID, artifactID)

	inUserCatalog := false
	for _, catalogID := range snap.catalogsOf(artifactID) {
		if snap.catalogs[catalogID].Kind == constants.CatalogKindUser {
			inUserCatalog = true
			break
		}
	}

	if inUserCatalog {
		snap.unlinkArtifact(unorganizedID, artifactID)
	} else {
		snap.linkArtifact(unorganizedID, artifactID)
	}
}

func (snap *Snapshot) removeArtifact(artifactID string) {
	for _, catalogID := range snap.catalogsOf(artifactID) {
		snap.unlinkArtifact(catalogID, artifactID)
	}

	delete(snap.artifacts, artifactID)
}

// removeCatalog deletes a catalog and its links. Artifacts left without a
// user catalog fall back to unorganized.
func (snap *Snapshot) removeCatalog(catalogID string) {
	orphans := snap.catalogArtifacts[catalogID]
	delete(snap.catalogArtifacts, catalogID)

	for _, folderID := range snap.foldersOf(catalogID) {
		snap.unlinkCatalog(folderID, catalogID)
	}

	delete(snap.catalogs, catalogID)

	for _, artifactID := range orphans {
		snap.placeArtifact(artifactID)
	}
}

func (snap *Snapshot) removeFolder(folderID string) {
	delete(snap.folderCatalogs, folderID)
	delete(snap.folders, folderID)
}

// nameTaken reports whether a catalog (or folder) other than exceptID already
// uses name, ignoring case.
func (snap *Snapshot) nameTaken(name string, folders bool, exceptID string) bool {
	if folders {
		for id, folder := range snap.folders {
			if id != exceptID && strings.EqualFold(folder.Name, name) {
				return true
			}
		}

		return false
	}

	for id, catalog := range snap.catalogs {
		if id != exceptID && strings.EqualFold(catalog.Name, name) {
			return true
		}
	}

	return false
}

func indexOf(ids []string, id string) int {
	for i, item := range ids {
		if item == id {
			return i
		}
	}

	return -1
}

// =============================================================================

// Store holds the live snapshot of one user's library. Readers take the read
// lock; writers go through Service, which serializes them per user.
type Store struct {
	mu   sync.RWMutex
	snap Snapshot
}

func NewStore(data Data) *Store {
	return &Store{snap: snapshotFromData(data)}
}

// Snapshot returns a deep copy of the current state
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap.clone()
}

// Restore replaces the current state with a previously taken snapshot
func (s *Store) Restore(snap Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap = snap
}

func (s *Store) Artifact(id string) (shared.Artifact, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	artifact, ok := s.snap.artifacts[id]
	return artifact, ok
}

func (s *Store) Catalog(id string) (shared.Catalog, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap.catalog(id)
}

func (s *Store) Folder(id string) (shared.Folder, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap.folder(id)
}

func (s *Store) ArtifactCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.snap.artifacts)
}

// SystemCatalogIDs returns the IDs of the spam and unorganized catalogs
func (s *Store) SystemCatalogIDs() (spamID, unorganizedID string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap.spamID(), s.snap.unorganizedID()
}
