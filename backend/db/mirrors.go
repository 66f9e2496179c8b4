package db

import (
	"database/sql"
	"errors"
	"satchel/backend/storage"
	"time"
)

// SetMirror records where an artifact's mirrored image is stored, replacing
// any previous record.
func SetMirror(artifactID string, obj storage.Object) error {
	s := `INSERT INTO artifact_mirrors
	      (artifact_id, object_key, remote_id, size, content_type, created)
	      VALUES ($1, $2, $3, $4, $5, $6)
	      ON CONFLICT (artifact_id) DO UPDATE SET
	          object_key = EXCLUDED.object_key,
	          remote_id = EXCLUDED.remote_id,
	          size = EXCLUDED.size,
	          content_type = EXCLUDED.content_type,
	          created = EXCLUDED.created`

	_, err := db.Exec(
		s,
		artifactID,
		obj.Key,
		obj.RemoteID,
		obj.Size,
		obj.ContentType,
		time.Now().UTC())
	return err
}

func DeleteMirror(artifactID string) error {
	s := `DELETE FROM artifact_mirrors WHERE artifact_id = $1`
	_, err := db.Exec(s, artifactID)
	return err
}

func GetMirror(artifactID string) (storage.Object, error) {
	s := `SELECT object_key, remote_id, size, content_type
	      FROM artifact_mirrors
	      WHERE artifact_id = $1`

	var obj storage.Object
	err := db.QueryRow(s, artifactID).Scan(
		&obj.Key,
		&obj.RemoteID,
		&obj.Size,
		&obj.ContentType)
	if errors.Is(err, sql.ErrNoRows) {
		return storage.Object{}, NotFound
	}

	return obj, err
}
