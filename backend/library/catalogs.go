package library

import (
	"fmt"
	"github.com/google/uuid"
	"satchel/shared"
	"satchel/shared/constants"
	"sort"
	"strings"
	"unicode/utf8"
)

func cleanName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if len(name) == 0 || utf8.RuneCountInString(name) > constants.MaxNameLen {
		return "", ErrInvalidName
	}

	return name, nil
}

func cleanDescription(description string) (string, error) {
	description = strings.TrimSpace(description)
	if utf8.RuneCountInString(description) > constants.MaxDescriptionLen {
		return "", ErrInvalidDescription
	}

	return description, nil
}

func checkBulk(ids []string) ([]string, error) {
	ids = uniqueIDs(ids)
	if len(ids) > constants.MaxRefreshItems {
		return nil, ErrTooManyItems
	}

	return ids, nil
}

// =============================================================================
// Catalogs
// =============================================================================

// ListCatalogs returns the system catalogs followed by the user's own
// catalogs in name order.
func (s *Service) ListCatalogs(userID string) ([]shared.Catalog, error) {
	var catalogs []shared.Catalog
	err := s.read(userID, func(snap *Snapshot) error {
		catalogs = make([]shared.Catalog, 0, len(snap.catalogs))
		for _, id := range []string{snap.unorganizedID(), snap.spamID()} {
			if catalog, ok := snap.catalog(id); ok {
				catalogs = append(catalogs, catalog)
			}
		}

		var userCatalogs []shared.Catalog
		for id, catalog := range snap.catalogs {
			if catalog.Kind == constants.CatalogKindUser {
				full, _ := snap.catalog(id)
				userCatalogs = append(userCatalogs, full)
			}
		}

		sort.Slice(userCatalogs, func(i, j int) bool {
			cmp := compareFold(userCatalogs[i].Name, userCatalogs[j].Name)
			if cmp == 0 {
				return userCatalogs[i].ID < userCatalogs[j].ID
			}

			return cmp < 0
		})

		catalogs = append(catalogs, userCatalogs...)
		return nil
	})

	return catalogs, err
}

// CatalogView returns a catalog with a filtered page of its artifacts
func (s *Service) CatalogView(userID, catalogID string, q Query) (shared.CatalogResponse, error) {
	var resp shared.CatalogResponse
	err := s.read(userID, func(snap *Snapshot) error {
		catalog, ok := snap.catalog(catalogID)
		if !ok {
			return ErrNotFound
		}

		q.CatalogID = catalogID
		artifacts, total, err := q.run(snap)
		if err != nil {
			return err
		}

		resp = shared.CatalogResponse{
			Catalog:   catalog,
			Artifacts: artifacts,
			Total:     total,
			FolderIDs: snap.foldersOf(catalogID),
		}

		return nil
	})

	return resp, err
}

func (s *Service) CreateCatalog(userID string, newCatalog shared.NewCatalog) (shared.Catalog, error) {
	name, err := cleanName(newCatalog.Name)
	if err != nil {
		return shared.Catalog{}, err
	}

	description, err := cleanDescription(newCatalog.Description)
	if err != nil {
		return shared.Catalog{}, err
	}

	var catalog shared.Catalog
	err = s.mutate(userID, func(snap *Snapshot) error {
		if snap.nameTaken(name, false, "") {
			return ErrDuplicateName
		}

		now := s.now()
		catalog = shared.Catalog{
			ID:          uuid.NewString(),
			Name:        name,
			Description: description,
			Kind:        constants.CatalogKindUser,
			Created:     now,
			Modified:    now,
		}

		snap.catalogs[catalog.ID] = catalog
		return nil
	})

	if err != nil {
		return shared.Catalog{}, err
	}

	catalog.ArtifactIDs = []string{}
	return catalog, nil
}

func (s *Service) UpdateCatalog(userID, catalogID string, mod shared.ModifyItem) (shared.Catalog, error) {
	var catalog shared.Catalog
	err := s.mutate(userID, func(snap *Snapshot) error {
		existing, ok := snap.catalogs[catalogID]
		if !ok {
			return ErrNotFound
		} else if existing.Kind != constants.CatalogKindUser {
			return ErrSystemCatalog
		}

		if mod.Name != nil {
			name, err := cleanName(*mod.Name)
			if err != nil {
				return err
			} else if snap.nameTaken(name, false, catalogID) {
				return ErrDuplicateName
			}

			existing.Name = name
		}

		if mod.Description != nil {
			description, err := cleanDescription(*mod.Description)
			if err != nil {
				return err
			}

			existing.Description = description
		}

		existing.Modified = s.now()
		snap.catalogs[catalogID] = existing
		catalog, _ = snap.catalog(catalogID)
		return nil
	})

	return catalog, err
}

// DeleteCatalog removes a user catalog. Artifacts that were only in this
// catalog move to unorganized.
func (s *Service) DeleteCatalog(userID, catalogID string) error {
	return s.mutate(userID, func(snap *Snapshot) error {
		existing, ok := snap.catalogs[catalogID]
		if !ok {
			return ErrNotFound
		} else if existing.Kind != constants.CatalogKindUser {
			return ErrSystemCatalog
		}

		snap.removeCatalog(catalogID)
		return nil
	})
}

// AddToCatalog files artifacts into a catalog. Adding to the spam catalog
// marks the artifacts as spam, adding to unorganized takes them out of every
// user catalog, and adding to a user catalog clears any spam flag.
func (s *Service) AddToCatalog(userID, catalogID string, artifactIDs []string) (shared.Catalog, error) {
	ids, err := checkBulk(artifactIDs)
	if err != nil {
		return shared.Catalog{}, err
	}

	var catalog shared.Catalog
	err = s.mutate(userID, func(snap *Snapshot) error {
		target, ok := snap.catalogs[catalogID]
		if !ok {
			return ErrNotFound
		}

		for _, id := range ids {
			if _, ok := snap.artifacts[id]; !ok {
				return fmt.Errorf("artifact %s: %w", id, ErrNotFound)
			}
		}

		now := s.now()
		for _, id := range ids {
			artifact := snap.artifacts[id]
			switch target.Kind {
			case constants.CatalogKindSpam:
				setSpamFlag(snap, id, true, now)
			case constants.CatalogKindUnorganized:
				setSpamFlag(snap, id, false, now)
				for _, memberOf := range snap.catalogsOf(id) {
					if snap.catalogs[memberOf].Kind == constants.CatalogKindUser {
						snap.unlinkArtifact(memberOf, id)
					}
				}
			default:
				if artifact.IsSpam {
					setSpamFlag(snap, id, false, now)
				}

				snap.linkArtifact(catalogID, id)
			}

			snap.placeArtifact(id)
		}

		if len(ids) > 0 {
			target.Modified = now
			snap.catalogs[catalogID] = target
		}

		catalog, _ = snap.catalog(catalogID)
		return nil
	})

	return catalog, err
}

// RemoveFromCatalog takes artifacts out of a catalog. Removing from spam
// clears the spam flag; artifacts left without a user catalog fall back to
// unorganized, so removing from unorganized itself isn't possible.
func (s *Service) RemoveFromCatalog(userID, catalogID string, artifactIDs []string) (shared.Catalog, error) {
	ids, err := checkBulk(artifactIDs)
	if err != nil {
		return shared.Catalog{}, err
	}

	var catalog shared.Catalog
	err = s.mutate(userID, func(snap *Snapshot) error {
		target, ok := snap.catalogs[catalogID]
		if !ok {
			return ErrNotFound
		} else if target.Kind == constants.CatalogKindUnorganized {
			return ErrSystemCatalog
		}

		now := s.now()
		changed := false
		for _, id := range ids {
			if indexOf(snap.catalogArtifacts[catalogID], id) < 0 {
				continue
			}

			changed = true
			if target.Kind == constants.CatalogKindSpam {
				setSpamFlag(snap, id, false, now)
			} else {
				snap.unlinkArtifact(catalogID, id)
			}

			snap.placeArtifact(id)
		}

		if changed {
			target.Modified = now
			snap.catalogs[catalogID] = target
		}

		catalog, _ = snap.catalog(catalogID)
		return nil
	})

	return catalog, err
}

// =============================================================================
// Folders
// =============================================================================

func (s *Service) ListFolders(userID string) ([]shared.Folder, error) {
	var folders []shared.Folder
	err := s.read(userID, func(snap *Snapshot) error {
		folders = make([]shared.Folder, 0, len(snap.folders))
		for id := range snap.folders {
			folder, _ := snap.folder(id)
			folders = append(folders, folder)
		}

		sort.Slice(folders, func(i, j int) bool {
			cmp := compareFold(folders[i].Name, folders[j].Name)
			if cmp == 0 {
				return folders[i].ID < folders[j].ID
			}

			return cmp < 0
		})

		return nil
	})

	return folders, err
}

// FolderView returns a folder with its catalogs, in the order they were added
func (s *Service) FolderView(userID, folderID string) (shared.FolderResponse, error) {
	var resp shared.FolderResponse
	err := s.read(userID, func(snap *Snapshot) error {
		folder, ok := snap.folder(folderID)
		if !ok {
			return ErrNotFound
		}

		resp.Folder = folder
		resp.Catalogs = make([]shared.Catalog, 0, len(folder.CatalogIDs))
		for _, catalogID := range folder.CatalogIDs {
			if catalog, ok := snap.catalog(catalogID); ok {
				resp.Catalogs = append(resp.Catalogs, catalog)
			}
		}

		return nil
	})

	return resp, err
}

func (s *Service) CreateFolder(userID string, newFolder shared.NewFolder) (shared.Folder, error) {
	name, err := cleanName(newFolder.Name)
	if err != nil {
		return shared.Folder{}, err
	}

	description, err := cleanDescription(newFolder.Description)
	if err != nil {
		return shared.Folder{}, err
	}

	var folder shared.Folder
	err = s.mutate(userID, func(snap *Snapshot) error {
		if snap.nameTaken(name, true, "") {
			return ErrDuplicateName
		}

		now := s.now()
		folder = shared.Folder{
			ID:          uuid.NewString(),
			Name:        name,
			Description: description,
			Created:     now,
			Modified:    now,
		}

		snap.folders[folder.ID] = folder
		return nil
	})

	if err != nil {
		return shared.Folder{}, err
	}

	folder.CatalogIDs = []string{}
	return folder, nil
}

func (s *Service) UpdateFolder(userID, folderID string, mod shared.ModifyItem) (shared.Folder, error) {
	var folder shared.Folder
	err := s.mutate(userID, func(snap *Snapshot) error {
		existing, ok := snap.folders[folderID]
		if !ok {
			return ErrNotFound
		}

		if mod.Name != nil {
			name, err := cleanName(*mod.Name)
			if err != nil {
				return err
			} else if snap.nameTaken(name, true, folderID) {
				return ErrDuplicateName
			}

			existing.Name = name
		}

		if mod.Description != nil {
			description, err := cleanDescription(*mod.Description)
			if err != nil {
				return err
			}

			existing.Description = description
		}

		existing.Modified = s.now()
		snap.folders[folderID] = existing
		folder, _ = snap.folder(folderID)
		return nil
	})

	return folder, err
}

// DeleteFolder removes a folder. The catalogs inside it are left untouched.
func (s *Service) DeleteFolder(userID, folderID string) error {
	return s.mutate(userID, func(snap *Snapshot) error {
		if _, ok := snap.folders[folderID]; !ok {
			return ErrNotFound
		}

		snap.removeFolder(folderID)
		return nil
	})
}

func (s *Service) AddCatalogsToFolder(userID, folderID string, catalogIDs []string) (shared.Folder, error) {
	ids, err := checkBulk(catalogIDs)
	if err != nil {
		return shared.Folder{}, err
	}

	var folder shared.Folder
	err = s.mutate(userID, func(snap *Snapshot) error {
		existing, ok := snap.folders[folderID]
		if !ok {
			return ErrNotFound
		}

		for _, id := range ids {
			catalog, ok := snap.catalogs[id]
			if !ok {
				return fmt.Errorf("catalog %s: %w", id, ErrNotFound)
			} else if catalog.Kind != constants.CatalogKindUser {
				return ErrSystemCatalog
			}
		}

		changed := false
		for _, id := range ids {
			changed = snap.linkCatalog(folderID, id) || changed
		}

		if changed {
			existing.Modified = s.now()
			snap.folders[folderID] = existing
		}

		folder, _ = snap.folder(folderID)
		return nil
	})

	return folder, err
}

func (s *Service) RemoveCatalogsFromFolder(userID, folderID string, catalogIDs []string) (shared.Folder, error) {
	ids, err := checkBulk(catalogIDs)
	if err != nil {
		return shared.Folder{}, err
	}

	var folder shared.Folder
	err = s.mutate(userID, func(snap *Snapshot) error {
		existing, ok := snap.folders[folderID]
		if !ok {
			return ErrNotFound
		}

		changed := false
		for _, id := range ids {
			changed = snap.unlinkCatalog(folderID, id) || changed
		}

		if changed {
			existing.Modified = s.now()
			snap.folders[folderID] = existing
		}

		folder, _ = snap.folder(folderID)
		return nil
	})

	return folder, err
}
