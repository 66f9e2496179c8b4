//go:build server_test

package db

import (
	"errors"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"log"
	"os"
	"satchel/backend/library"
	"satchel/backend/storage"
	"satchel/shared"
	"testing"
	"time"
)

func TestMain(m *testing.M) {
	if err := Init(); err != nil {
		log.Fatalf("Unable to initialize database: %v", err)
	}

	code := m.Run()
	Close()
	os.Exit(code)
}

func newTestUser(t *testing.T) string {
	t.Helper()

	id, err := NewUser(User{
		Email:        uuid.NewString() + "@example.com",
		PasswordHash: []byte("hash"),
	})
	require.Nil(t, err)
	return id
}

func TestUsers(t *testing.T) {
	email := uuid.NewString() + "@Example.com"
	id, err := NewUser(User{Email: email, PasswordHash: []byte("hash")})
	require.Nil(t, err)

	_, err = NewUser(User{Email: email, PasswordHash: []byte("hash")})
	assert.True(t, errors.Is(err, UserAlreadyExists))

	user, err := GetUserByEmail(email)
	require.Nil(t, err)
	assert.Equal(t, id, user.ID)

	require.Nil(t, SetUserSessionKey(id, "key"))
	key, err := GetUserSessionKey(id)
	require.Nil(t, err)
	assert.Equal(t, "key", key)

	_, err = GetUserByID("missing")
	assert.True(t, errors.Is(err, NotFound))
}

func TestWallets(t *testing.T) {
	userID := newTestUser(t)
	wallet := shared.NewWallet{Address: "0xabc", Network: shared.NetworkEthereum}

	id, err := AddWallet(userID, wallet)
	require.Nil(t, err)

	_, err = AddWallet(userID, wallet)
	assert.True(t, errors.Is(err, WalletAlreadyExists))

	synced := time.Now().UTC().Truncate(time.Second)
	require.Nil(t, SetWalletSynced(id, synced))

	wallets, err := GetWallets(userID)
	require.Nil(t, err)
	require.Len(t, wallets, 1)
	assert.True(t, synced.Equal(wallets[0].LastSynced))

	require.Nil(t, DeleteWallet(userID, id))
	assert.True(t, errors.Is(DeleteWallet(userID, id), WalletNotFound))
}

func TestLibraryRoundTrip(t *testing.T) {
	userID := newTestUser(t)
	service := library.NewService(Remote{}, library.Options{})

	wallet := shared.Wallet{ID: uuid.NewString(), Network: shared.NetworkEthereum}
	result, err := service.ImportWalletTokens(userID, wallet, []library.Token{
		{ContractAddress: "0xA", TokenID: "1", TokenURI: "ipfs://one"},
		{ContractAddress: "0xA", TokenID: "2", TokenURI: "ipfs://two"},
		{ContractAddress: "0xA", TokenID: "3", TokenURI: "ipfs://three"},
	})
	require.Nil(t, err)
	require.Equal(t, 3, result.Added)

	artifacts, err := service.QueryArtifacts(userID, library.Query{Sort: library.SortTokenID})
	require.Nil(t, err)
	ids := []string{
		artifacts.Artifacts[0].ID,
		artifacts.Artifacts[1].ID,
		artifacts.Artifacts[2].ID,
	}

	catalog, err := service.CreateCatalog(userID, shared.NewCatalog{Name: "Favorites"})
	require.Nil(t, err)
	_, err = service.AddToCatalog(userID, catalog.ID, []string{ids[2], ids[0]})
	require.Nil(t, err)

	folder, err := service.CreateFolder(userID, shared.NewFolder{Name: "Shelf"})
	require.Nil(t, err)
	_, err = service.AddCatalogsToFolder(userID, folder.ID, []string{catalog.ID})
	require.Nil(t, err)

	_, err = service.SetSpam(userID, ids[1:2], true)
	require.Nil(t, err)

	require.Nil(t, SetMirror(ids[0], storage.Object{Key: "k", RemoteID: "r", Size: 3, ContentType: "image/png"}))
	obj, err := GetMirror(ids[0])
	require.Nil(t, err)
	assert.Equal(t, "k", obj.Key)

	// A fresh service reads back exactly what the first one wrote
	reloaded := library.NewService(Remote{}, library.Options{})
	view, err := reloaded.CatalogView(userID, catalog.ID, library.Query{})
	require.Nil(t, err)
	assert.Equal(t, []string{ids[2], ids[0]}, view.Catalog.ArtifactIDs)
	assert.Equal(t, []string{folder.ID}, view.FolderIDs)

	artifact, err := reloaded.GetArtifact(userID, ids[1])
	require.Nil(t, err)
	assert.True(t, artifact.IsSpam)
	assert.Equal(t, shared.MetadataPending, artifact.MetadataStatus)

	pending, err := GetPendingArtifactIDs(userID, 10)
	require.Nil(t, err)
	assert.Len(t, pending, 3)

	_, err = reloaded.DeleteArtifacts(userID, ids[:1])
	require.Nil(t, err)
	_, err = GetMirror(ids[0])
	assert.True(t, errors.Is(err, NotFound))

	require.Nil(t, reloaded.DeleteCatalog(userID, catalog.ID))
	catalogs, err := library.NewService(Remote{}, library.Options{}).ListCatalogs(userID)
	require.Nil(t, err)
	assert.Len(t, catalogs, 2)
}
