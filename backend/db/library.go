package db

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"github.com/lib/pq"
	"satchel/backend/library"
	"satchel/shared"
)

const artifactColumns = `id, wallet_id, network, contract_address, token_id,
	name, description, collection_name, token_uri, image_uri, image_url,
	animation_uri, animation_url, external_url, media_type, attributes,
	metadata_status, metadata_error, metadata_updated, is_spam, mirrored,
	created, modified`

// LoadLibrary reads every artifact, catalog and folder owned by the user,
// along with the links between them in the order they were added.
func LoadLibrary(userID string) (library.Data, error) {
	var data library.Data
	var err error

	if data.Artifacts, err = getArtifacts(userID); err != nil {
		return library.Data{}, fmt.Errorf("artifacts: %w", err)
	}

	if data.Catalogs, err = getCatalogs(userID); err != nil {
		return library.Data{}, fmt.Errorf("catalogs: %w", err)
	}

	if data.Folders, err = getFolders(userID); err != nil {
		return library.Data{}, fmt.Errorf("folders: %w", err)
	}

	return data, nil
}

func getArtifacts(userID string) ([]shared.Artifact, error) {
	s := `SELECT ` + artifactColumns + ` FROM artifacts WHERE owner_id = $1`
	rows, err := db.Query(s, userID)
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	var artifacts []shared.Artifact
	for rows.Next() {
		var artifact shared.Artifact
		var attributes []byte
		err = rows.Scan(
			&artifact.ID,
			&artifact.WalletID,
			&artifact.Network,
			&artifact.ContractAddress,
			&artifact.TokenID,
			&artifact.Name,
			&artifact.Description,
			&artifact.CollectionName,
			&artifact.TokenURI,
			&artifact.ImageURI,
			&artifact.ImageURL,
			&artifact.AnimationURI,
			&artifact.AnimationURL,
			&artifact.ExternalURL,
			&artifact.MediaType,
			&attributes,
			&artifact.MetadataStatus,
			&artifact.MetadataError,
			&artifact.MetadataUpdated,
			&artifact.IsSpam,
			&artifact.Mirrored,
			&artifact.Created,
			&artifact.Modified)
		if err != nil {
			return nil, err
		}

		if err = json.Unmarshal(attributes, &artifact.Attributes); err != nil {
			return nil, fmt.Errorf("attributes for %s: %w", artifact.ID, err)
		}

		artifacts = append(artifacts, artifact)
	}

	return artifacts, rows.Err()
}

func getCatalogs(userID string) ([]shared.Catalog, error) {
	s := `SELECT id, name, description, kind, created, modified
	      FROM catalogs
	      WHERE owner_id = $1`
	rows, err := db.Query(s, userID)
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	var catalogs []shared.Catalog
	index := map[string]int{}
	for rows.Next() {
		var catalog shared.Catalog
		err = rows.Scan(
			&catalog.ID,
			&catalog.Name,
			&catalog.Description,
			&catalog.Kind,
			&catalog.Created,
			&catalog.Modified)
		if err != nil {
			return nil, err
		}

		index[catalog.ID] = len(catalogs)
		catalogs = append(catalogs, catalog)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	links, err := getLinks(`
		SELECT l.catalog_id, l.artifact_id
		FROM catalog_artifacts l
		JOIN catalogs c ON c.id = l.catalog_id
		WHERE c.owner_id = $1
		ORDER BY l.position`, userID)
	if err != nil {
		return nil, err
	}

	for _, link := range links {
		if i, ok := index[link.ParentID]; ok {
			catalogs[i].ArtifactIDs = append(catalogs[i].ArtifactIDs, link.ChildID)
		}
	}

	return catalogs, nil
}

func getFolders(userID string) ([]shared.Folder, error) {
	s := `SELECT id, name, description, created, modified
	      FROM folders
	      WHERE owner_id = $1`
	rows, err := db.Query(s, userID)
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	var folders []shared.Folder
	index := map[string]int{}
	for rows.Next() {
		var folder shared.Folder
		err = rows.Scan(
			&folder.ID,
			&folder.Name,
			&folder.Description,
			&folder.Created,
			&folder.Modified)
		if err != nil {
			return nil, err
		}

		index[folder.ID] = len(folders)
		folders = append(folders, folder)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	links, err := getLinks(`
		SELECT l.folder_id, l.catalog_id
		FROM folder_catalogs l
		JOIN folders f ON f.id = l.folder_id
		WHERE f.owner_id = $1
		ORDER BY l.position`, userID)
	if err != nil {
		return nil, err
	}

	for _, link := range links {
		if i, ok := index[link.ParentID]; ok {
			folders[i].CatalogIDs = append(folders[i].CatalogIDs, link.ChildID)
		}
	}

	return folders, nil
}

func getLinks(s string, userID string) ([]library.Link, error) {
	rows, err := db.Query(s, userID)
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	var links []library.Link
	for rows.Next() {
		var link library.Link
		if err = rows.Scan(&link.ParentID, &link.ChildID); err != nil {
			return nil, err
		}

		links = append(links, link)
	}

	return links, rows.Err()
}

// ApplyChanges writes a library change set in a single transaction. Links
// are removed before entities are deleted and added after entities are
// upserted, so the foreign keys hold at every step.
func ApplyChanges(userID string, changes library.ChangeSet) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}

	if err = applyChanges(tx, userID, changes); err != nil {
		_ = tx.Rollback()
		return err
	}

	return tx.Commit()
}

func applyChanges(tx *sql.Tx, userID string, changes library.ChangeSet) error {
	for _, link := range changes.RemoveCatalogArtifacts {
		s := `DELETE FROM catalog_artifacts
		      WHERE catalog_id = $1 AND artifact_id = $2
		      AND catalog_id IN (SELECT id FROM catalogs WHERE owner_id = $3)`
		if _, err := tx.Exec(s, link.ParentID, link.ChildID, userID); err != nil {
			return fmt.Errorf("remove catalog link: %w", err)
		}
	}

	for _, link := range changes.RemoveFolderCatalogs {
		s := `DELETE FROM folder_catalogs
		      WHERE folder_id = $1 AND catalog_id = $2
		      AND folder_id IN (SELECT id FROM folders WHERE owner_id = $3)`
		if _, err := tx.Exec(s, link.ParentID, link.ChildID, userID); err != nil {
			return fmt.Errorf("remove folder link: %w", err)
		}
	}

	for _, deletion := range []struct {
		table string
		ids   []string
	}{
		{"artifacts", changes.DeleteArtifacts},
		{"catalogs", changes.DeleteCatalogs},
		{"folders", changes.DeleteFolders},
	} {
		if len(deletion.ids) == 0 {
			continue
		}

		s := `DELETE FROM ` + deletion.table + ` WHERE owner_id = $1 AND id = ANY($2)`
		if _, err := tx.Exec(s, userID, pq.Array(deletion.ids)); err != nil {
			return fmt.Errorf("delete %s: %w", deletion.table, err)
		}
	}

	for _, artifact := range changes.UpsertArtifacts {
		if err := upsertArtifact(tx, userID, artifact); err != nil {
			return fmt.Errorf("upsert artifact %s: %w", artifact.ID, err)
		}
	}

	for _, catalog := range changes.UpsertCatalogs {
		s := `INSERT INTO catalogs
		      (id, owner_id, name, description, kind, created, modified)
		      VALUES ($1, $2, $3, $4, $5, $6, $7)
		      ON CONFLICT (id) DO UPDATE SET
		          name = EXCLUDED.name,
		          description = EXCLUDED.description,
		          modified = EXCLUDED.modified
		      WHERE catalogs.owner_id = EXCLUDED.owner_id`
		_, err := tx.Exec(
			s,
			catalog.ID,
			userID,
			catalog.Name,
			catalog.Description,
			catalog.Kind,
			catalog.Created,
			catalog.Modified)
		if err != nil {
			return fmt.Errorf("upsert catalog %s: %w", catalog.ID, err)
		}
	}

	for _, folder := range changes.UpsertFolders {
		s := `INSERT INTO folders
		      (id, owner_id, name, description, created, modified)
		      VALUES ($1, $2, $3, $4, $5, $6)
		      ON CONFLICT (id) DO UPDATE SET
		          name = EXCLUDED.name,
		          description = EXCLUDED.description,
		          modified = EXCLUDED.modified
		      WHERE folders.owner_id = EXCLUDED.owner_id`
		_, err := tx.Exec(
			s,
			folder.ID,
			userID,
			folder.Name,
			folder.Description,
			folder.Created,
			folder.Modified)
		if err != nil {
			return fmt.Errorf("upsert folder %s: %w", folder.ID, err)
		}
	}

	for _, link := range changes.AddCatalogArtifacts {
		s := `INSERT INTO catalog_artifacts (catalog_id, artifact_id)
		      VALUES ($1, $2)
		      ON CONFLICT DO NOTHING`
		if _, err := tx.Exec(s, link.ParentID, link.ChildID); err != nil {
			return fmt.Errorf("add catalog link: %w", err)
		}
	}

	for _, link := range changes.AddFolderCatalogs {
		s := `INSERT INTO folder_catalogs (folder_id, catalog_id)
		      VALUES ($1, $2)
		      ON CONFLICT DO NOTHING`
		if _, err := tx.Exec(s, link.ParentID, link.ChildID); err != nil {
			return fmt.Errorf("add folder link: %w", err)
		}
	}

	return nil
}

func upsertArtifact(tx *sql.Tx, userID string, artifact shared.Artifact) error {
	attributes := artifact.Attributes
	if attributes == nil {
		attributes = []shared.Attribute{}
	}

	attributesJSON, err := json.Marshal(attributes)
	if err != nil {
		return err
	}

	s := `INSERT INTO artifacts (owner_id, ` + artifactColumns + `)
	      VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
	              $15, $16, $17, $18, $19, $20, $21, $22, $23, $24)
	      ON CONFLICT (id) DO UPDATE SET
	          wallet_id = EXCLUDED.wallet_id,
	          name = EXCLUDED.name,
	          description = EXCLUDED.description,
	          collection_name = EXCLUDED.collection_name,
	          token_uri = EXCLUDED.token_uri,
	          image_uri = EXCLUDED.image_uri,
	          image_url = EXCLUDED.image_url,
	          animation_uri = EXCLUDED.animation_uri,
	          animation_url = EXCLUDED.animation_url,
	          external_url = EXCLUDED.external_url,
	          media_type = EXCLUDED.media_type,
	          attributes = EXCLUDED.attributes,
	          metadata_status = EXCLUDED.metadata_status,
	          metadata_error = EXCLUDED.metadata_error,
	          metadata_updated = EXCLUDED.metadata_updated,
	          is_spam = EXCLUDED.is_spam,
	          mirrored = EXCLUDED.mirrored,
	          modified = EXCLUDED.modified
	      WHERE artifacts.owner_id = EXCLUDED.owner_id`

	_, err = tx.Exec(
		s,
		userID,
		artifact.ID,
		artifact.WalletID,
		artifact.Network,
		artifact.ContractAddress,
		artifact.TokenID,
		artifact.Name,
		artifact.Description,
		artifact.CollectionName,
		artifact.TokenURI,
		artifact.ImageURI,
		artifact.ImageURL,
		artifact.AnimationURI,
		artifact.AnimationURL,
		artifact.ExternalURL,
		artifact.MediaType,
		string(attributesJSON),
		artifact.MetadataStatus,
		artifact.MetadataError,
		artifact.MetadataUpdated,
		artifact.IsSpam,
		artifact.Mirrored,
		artifact.Created,
		artifact.Modified)
	return err
}
