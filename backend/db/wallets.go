package db

import (
	"database/sql"
	"errors"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"satchel/shared"
	"time"
)

var WalletAlreadyExists = errors.New("wallet has already been added")
var WalletNotFound = errors.New("wallet not found")

// AddWallet stores a new wallet for the user and returns its ID. Addresses are
// expected to be normalized already.
func AddWallet(userID string, wallet shared.NewWallet) (string, error) {
	id := uuid.NewString()
	s := `INSERT INTO wallets
	      (id, owner_id, address, network, nickname, last_synced, created)
	      VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := db.Exec(
		s,
		id,
		userID,
		wallet.Address,
		wallet.Network,
		wallet.Nickname,
		time.Time{},
		time.Now().UTC())

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return "", WalletAlreadyExists
	} else if err != nil {
		return "", err
	}

	return id, nil
}

func GetWallets(userID string) ([]shared.Wallet, error) {
	s := `SELECT id, address, network, nickname, last_synced, created
	      FROM wallets
	      WHERE owner_id = $1
	      ORDER BY created, id`

	rows, err := db.Query(s, userID)
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	wallets := []shared.Wallet{}
	for rows.Next() {
		var wallet shared.Wallet
		err = rows.Scan(
			&wallet.ID,
			&wallet.Address,
			&wallet.Network,
			&wallet.Nickname,
			&wallet.LastSynced,
			&wallet.Created)
		if err != nil {
			return nil, err
		}

		wallets = append(wallets, wallet)
	}

	return wallets, rows.Err()
}

func GetWallet(userID, walletID string) (shared.Wallet, error) {
	s := `SELECT id, address, network, nickname, last_synced, created
	      FROM wallets
	      WHERE owner_id = $1 AND id = $2`

	var wallet shared.Wallet
	err := db.QueryRow(s, userID, walletID).Scan(
		&wallet.ID,
		&wallet.Address,
		&wallet.Network,
		&wallet.Nickname,
		&wallet.LastSynced,
		&wallet.Created)
	if errors.Is(err, sql.ErrNoRows) {
		return shared.Wallet{}, WalletNotFound
	}

	return wallet, err
}

func DeleteWallet(userID, walletID string) error {
	s := `DELETE FROM wallets WHERE owner_id = $1 AND id = $2`
	result, err := db.Exec(s, userID, walletID)
	if err != nil {
		return err
	}

	if count, err := result.RowsAffected(); err == nil && count == 0 {
		return WalletNotFound
	}

	return nil
}

func SetWalletSynced(walletID string, synced time.Time) error {
	s := `UPDATE wallets SET last_synced = $2 WHERE id = $1`
	_, err := db.Exec(s, walletID, synced)
	return err
}
