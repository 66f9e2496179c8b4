package db

import (
	"satchel/backend/library"
	"satchel/backend/storage"
	"satchel/shared"
	"time"
)

// Remote exposes the library tables to library.Service
type Remote struct{}

func (Remote) LoadLibrary(userID string) (library.Data, error) {
	return LoadLibrary(userID)
}

func (Remote) ApplyChanges(userID string, changes library.ChangeSet) error {
	return ApplyChanges(userID, changes)
}

func (Remote) GetMirror(artifactID string) (storage.Object, error) {
	return GetMirror(artifactID)
}

func (Remote) SetMirror(artifactID string, obj storage.Object) error {
	return SetMirror(artifactID, obj)
}

func (Remote) DeleteMirror(artifactID string) error {
	return DeleteMirror(artifactID)
}

var _ library.Remote = Remote{}

// Wallets exposes the wallets table to the API handlers
type Wallets struct{}

func (Wallets) GetWallets(userID string) ([]shared.Wallet, error) {
	return GetWallets(userID)
}

func (Wallets) GetWallet(userID, walletID string) (shared.Wallet, error) {
	return GetWallet(userID, walletID)
}

func (Wallets) AddWallet(userID string, wallet shared.NewWallet) (string, error) {
	return AddWallet(userID, wallet)
}

func (Wallets) DeleteWallet(userID, walletID string) error {
	return DeleteWallet(userID, walletID)
}

func (Wallets) SetWalletSynced(walletID string, synced time.Time) error {
	return SetWalletSynced(walletID, synced)
}
