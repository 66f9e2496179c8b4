package db

// GetUsersWithPendingMetadata returns up to limit users that own at least one
// artifact still waiting on the metadata pipeline.
func GetUsersWithPendingMetadata(limit int) ([]string, error) {
	s := `SELECT owner_id
	      FROM artifacts
	      WHERE metadata_status = 'pending'
	      GROUP BY owner_id
	      ORDER BY MIN(created)
	      LIMIT $1`

	rows, err := db.Query(s, limit)
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	var users []string
	for rows.Next() {
		var userID string
		if err = rows.Scan(&userID); err != nil {
			return nil, err
		}

		users = append(users, userID)
	}

	return users, rows.Err()
}

// GetPendingArtifactIDs returns the user's oldest pending artifacts
func GetPendingArtifactIDs(userID string, limit int) ([]string, error) {
	s := `SELECT id
	      FROM artifacts
	      WHERE owner_id = $1 AND metadata_status = 'pending'
	      ORDER BY created, id
	      LIMIT $2`

	rows, err := db.Query(s, userID, limit)
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err = rows.Scan(&id); err != nil {
			return nil, err
		}

		ids = append(ids, id)
	}

	return ids, rows.Err()
}
