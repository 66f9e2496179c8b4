package library

import (
	"context"
	"errors"
	"fmt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"satchel/backend/metadata"
	"satchel/backend/storage"
	"satchel/shared"
	"satchel/shared/constants"
	"strings"
	"sync"
	"testing"
	"time"
)

var errRemoteDown = errors.New("remote unavailable")

// fakeRemote keeps libraries as snapshots and replays every change set onto
// them, so that a reload after eviction shows exactly what was persisted.
type fakeRemote struct {
	mu        sync.Mutex
	libraries map[string]*Snapshot
	mirrors   map[string]storage.Object
	applied   []ChangeSet
	fail      bool
	failApply bool
	loads     int
	onLoad    func(userID string)
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{
		libraries: make(map[string]*Snapshot),
		mirrors:   make(map[string]storage.Object),
	}
}

func (r *fakeRemote) LoadLibrary(userID string) (Data, error) {
	if r.onLoad != nil {
		r.onLoad(userID)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.loads++

	snap, ok := r.libraries[userID]
	if !ok {
		return Data{}, nil
	}

	var data Data
	for _, id := range sortedIDs(snap.artifacts) {
		data.Artifacts = append(data.Artifacts, snap.artifacts[id])
	}

	for _, id := range sortedIDs(snap.catalogs) {
		catalog, _ := snap.catalog(id)
		data.Catalogs = append(data.Catalogs, catalog)
	}

	for _, id := range sortedIDs(snap.folders) {
		folder, _ := snap.folder(id)
		data.Folders = append(data.Folders, folder)
	}

	return data, nil
}

func (r *fakeRemote) ApplyChanges(userID string, changes ChangeSet) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.fail || r.failApply {
		return errRemoteDown
	}

	snap, ok := r.libraries[userID]
	if !ok {
		fresh := newSnapshot()
		snap = &fresh
		r.libraries[userID] = snap
	}

	for _, link := range changes.RemoveCatalogArtifacts {
		snap.unlinkArtifact(link.ParentID, link.ChildID)
	}

	for _, link := range changes.RemoveFolderCatalogs {
		snap.unlinkCatalog(link.ParentID, link.ChildID)
	}

	for _, id := range changes.DeleteArtifacts {
		delete(snap.artifacts, id)
	}

	for _, id := range changes.DeleteCatalogs {
		delete(snap.catalogs, id)
	}

	for _, id := range changes.DeleteFolders {
		delete(snap.folders, id)
	}

	for _, artifact := range changes.UpsertArtifacts {
		snap.artifacts[artifact.ID] = artifact
	}

	for _, catalog := range changes.UpsertCatalogs {
		snap.catalogs[catalog.ID] = catalog
	}

	for _, folder := range changes.UpsertFolders {
		snap.folders[folder.ID] = folder
	}

	for _, link := range changes.AddCatalogArtifacts {
		snap.linkArtifact(link.ParentID, link.ChildID)
	}

	for _, link := range changes.AddFolderCatalogs {
		snap.linkCatalog(link.ParentID, link.ChildID)
	}

	r.applied = append(r.applied, changes)
	return nil
}

func (r *fakeRemote) GetMirror(artifactID string) (storage.Object, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	obj, ok := r.mirrors[artifactID]
	if !ok {
		return storage.Object{}, ErrNotFound
	}

	return obj, nil
}

func (r *fakeRemote) SetMirror(artifactID string, obj storage.Object) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.fail {
		return errRemoteDown
	}

	r.mirrors[artifactID] = obj
	return nil
}

func (r *fakeRemote) DeleteMirror(artifactID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.fail {
		return errRemoteDown
	}

	delete(r.mirrors, artifactID)
	return nil
}

func (r *fakeRemote) setFail(fail bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fail = fail
}

// fakeSource serves metadata documents keyed by token URI
type fakeSource struct {
	docs map[string]metadata.Fields
}

func (f *fakeSource) Fetch(_ context.Context, tokenURI string) (metadata.Fields, error) {
	fields, ok := f.docs[tokenURI]
	if !ok {
		return metadata.Fields{}, metadata.StatusError{StatusCode: 404}
	}

	return fields, nil
}

func (f *fakeSource) SniffContentType(context.Context, string) (string, error) {
	return "", errors.New("no content type")
}

func newTestService(t *testing.T, remote *fakeRemote, source metadata.Source) *Service {
	t.Helper()

	if source == nil {
		source = &fakeSource{}
	}

	resolver := metadata.NewResolver([]string{"https://gw.test"}, "https://ar.test")
	service := NewService(remote, Options{
		Resolver:  resolver,
		Processor: metadata.NewProcessor(source, resolver, 2, time.Millisecond),
	})

	tick := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	var clockMu sync.Mutex
	service.now = func() time.Time {
		clockMu.Lock()
		defer clockMu.Unlock()
		tick = tick.Add(time.Second)
		return tick
	}

	return service
}

var testWallet = shared.Wallet{
	ID:      "wallet-1",
	Address: "0xabc",
	Network: shared.NetworkEthereum,
}

func testTokens(n int) []Token {
	var tokens []Token
	for i := 0; i < n; i++ {
		tokens = append(tokens, Token{
			ContractAddress: "0xCONTRACT",
			TokenID:         fmt.Sprint(i + 1),
			Name:            fmt.Sprintf("Token %d", i+1),
			TokenURI:        fmt.Sprintf("ipfs://QmYwAPJzv5CZsnA625s3Xf2nemtYgPpHdWEz79ojWnPbdG/%d", i+1),
		})
	}

	return tokens
}

// importTokens imports n tokens and returns their artifact IDs sorted by
// token ID.
func importTokens(t *testing.T, service *Service, userID string, n int) []string {
	t.Helper()

	result, err := service.ImportWalletTokens(userID, testWallet, testTokens(n))
	require.Nil(t, err)
	require.Equal(t, n, result.Added)

	resp, err := service.QueryArtifacts(userID, Query{Sort: SortTokenID, Limit: n})
	require.Nil(t, err)

	var ids []string
	for _, artifact := range resp.Artifacts {
		ids = append(ids, artifact.ID)
	}

	return ids
}

// checkInvariants verifies the structural rules every library must hold
// after any operation.
func checkInvariants(t *testing.T, service *Service, userID string) {
	t.Helper()

	store, err := service.Library(userID)
	require.Nil(t, err)
	snap := store.Snapshot()

	spamID, unorganizedID := snap.spamID(), snap.unorganizedID()
	if len(spamID) == 0 || len(unorganizedID) == 0 {
		t.Fatalf("Missing system catalogs (spam=%q unorganized=%q)", spamID, unorganizedID)
	}

	kinds := map[string]int{}
	for _, catalog := range snap.catalogs {
		kinds[catalog.Kind]++
	}

	if kinds[constants.CatalogKindSpam] != 1 || kinds[constants.CatalogKindUnorganized] != 1 {
		t.Fatalf("Expected exactly one of each system catalog, got %v", kinds)
	}

	for id, artifact := range snap.artifacts {
		memberOf := snap.catalogsOf(id)
		inSpam := indexOf(memberOf, spamID) >= 0
		inUnorganized := indexOf(memberOf, unorganizedID) >= 0
		userCatalogs := len(memberOf) - btoi(inSpam) - btoi(inUnorganized)

		if artifact.IsSpam {
			if !inSpam || len(memberOf) != 1 {
				t.Fatalf("Spam artifact %s should only be in spam, is in %v", id, memberOf)
			}

			continue
		}

		if inSpam {
			t.Fatalf("Non-spam artifact %s is in the spam catalog", id)
		} else if inUnorganized == (userCatalogs > 0) {
			t.Fatalf("Artifact %s: unorganized=%v with %d user catalogs",
				id, inUnorganized, userCatalogs)
		}
	}

	for catalogID, artifactIDs := range snap.catalogArtifacts {
		if _, ok := snap.catalogs[catalogID]; !ok {
			t.Fatalf("Links for missing catalog %s", catalogID)
		}

		for _, artifactID := range artifactIDs {
			if _, ok := snap.artifacts[artifactID]; !ok {
				t.Fatalf("Catalog %s links missing artifact %s", catalogID, artifactID)
			}
		}
	}

	for folderID, catalogIDs := range snap.folderCatalogs {
		if _, ok := snap.folders[folderID]; !ok {
			t.Fatalf("Links for missing folder %s", folderID)
		}

		for _, catalogID := range catalogIDs {
			catalog, ok := snap.catalogs[catalogID]
			if !ok {
				t.Fatalf("Folder %s links missing catalog %s", folderID, catalogID)
			} else if catalog.Kind != constants.CatalogKindUser {
				t.Fatalf("Folder %s holds system catalog %s", folderID, catalogID)
			}
		}
	}

	names := map[string]bool{}
	for _, catalog := range snap.catalogs {
		key := strings.ToLower(catalog.Name)
		if names[key] {
			t.Fatalf("Duplicate catalog name %s", catalog.Name)
		}

		names[key] = true
	}
}

func btoi(b bool) int {
	if b {
		return 1
	}

	return 0
}

func TestLoadCreatesSystemCatalogs(t *testing.T) {
	remote := newFakeRemote()
	service := newTestService(t, remote, nil)

	catalogs, err := service.ListCatalogs("user")
	require.Nil(t, err)
	require.Len(t, catalogs, 2)

	assert.Equal(t, constants.CatalogKindUnorganized, catalogs[0].Kind)
	assert.Equal(t, constants.CatalogKindSpam, catalogs[1].Kind)
	assert.Len(t, remote.applied, 1)

	// A second service sees the persisted system catalogs and doesn't
	// create new ones
	other := newTestService(t, remote, nil)
	catalogs, err = other.ListCatalogs("user")
	require.Nil(t, err)
	assert.Len(t, catalogs, 2)
	assert.Len(t, remote.applied, 1)
}

func TestLoadRepairsPlacement(t *testing.T) {
	remote := newFakeRemote()
	snap := newSnapshot()
	snap.artifacts["a"] = shared.Artifact{ID: "a"}
	snap.artifacts["b"] = shared.Artifact{ID: "b", IsSpam: true}
	remote.libraries["user"] = &snap

	service := newTestService(t, remote, nil)
	checkInvariants(t, service, "user")

	store, _ := service.Library("user")
	spamID, unorganizedID := store.SystemCatalogIDs()
	unorganized, _ := store.Catalog(unorganizedID)
	spam, _ := store.Catalog(spamID)
	assert.Equal(t, []string{"a"}, unorganized.ArtifactIDs)
	assert.Equal(t, []string{"b"}, spam.ArtifactIDs)
}

func TestCatalogLifecycle(t *testing.T) {
	remote := newFakeRemote()
	service := newTestService(t, remote, nil)
	ids := importTokens(t, service, "user", 4)
	checkInvariants(t, service, "user")

	catalog, err := service.CreateCatalog("user", shared.NewCatalog{Name: " Favorites "})
	require.Nil(t, err)
	assert.Equal(t, "Favorites", catalog.Name)
	assert.Equal(t, constants.CatalogKindUser, catalog.Kind)

	_, err = service.CreateCatalog("user", shared.NewCatalog{Name: "favorites"})
	assert.True(t, errors.Is(err, ErrDuplicateName))

	_, err = service.CreateCatalog("user", shared.NewCatalog{Name: "SPAM"})
	assert.True(t, errors.Is(err, ErrDuplicateName))

	_, err = service.CreateCatalog("user", shared.NewCatalog{Name: "   "})
	assert.True(t, errors.Is(err, ErrInvalidName))

	catalog, err = service.AddToCatalog("user", catalog.ID, ids[:2])
	require.Nil(t, err)
	assert.Equal(t, ids[:2], catalog.ArtifactIDs)
	checkInvariants(t, service, "user")

	// Adding twice doesn't duplicate links
	catalog, err = service.AddToCatalog("user", catalog.ID, ids[:1])
	require.Nil(t, err)
	assert.Equal(t, ids[:2], catalog.ArtifactIDs)

	_, err = service.AddToCatalog("user", catalog.ID, []string{"missing"})
	assert.True(t, errors.Is(err, ErrNotFound))

	catalog, err = service.RemoveFromCatalog("user", catalog.ID, ids[:1])
	require.Nil(t, err)
	assert.Equal(t, ids[1:2], catalog.ArtifactIDs)
	checkInvariants(t, service, "user")

	name := "Best"
	catalog, err = service.UpdateCatalog("user", catalog.ID, shared.ModifyItem{Name: &name})
	require.Nil(t, err)
	assert.Equal(t, "Best", catalog.Name)

	require.Nil(t, service.DeleteCatalog("user", catalog.ID))
	checkInvariants(t, service, "user")

	_, unorganizedID := mustLibrary(t, service, "user").SystemCatalogIDs()
	view, err := service.CatalogView("user", unorganizedID, Query{})
	require.Nil(t, err)
	assert.Equal(t, 4, view.Total)
}

func TestSystemCatalogsAreProtected(t *testing.T) {
	service := newTestService(t, newFakeRemote(), nil)
	ids := importTokens(t, service, "user", 1)
	spamID, unorganizedID := mustLibrary(t, service, "user").SystemCatalogIDs()

	name := "Junk"
	_, err := service.UpdateCatalog("user", spamID, shared.ModifyItem{Name: &name})
	assert.True(t, errors.Is(err, ErrSystemCatalog))

	err = service.DeleteCatalog("user", unorganizedID)
	assert.True(t, errors.Is(err, ErrSystemCatalog))

	_, err = service.RemoveFromCatalog("user", unorganizedID, ids)
	assert.True(t, errors.Is(err, ErrSystemCatalog))

	folder, err := service.CreateFolder("user", shared.NewFolder{Name: "Shelf"})
	require.Nil(t, err)
	_, err = service.AddCatalogsToFolder("user", folder.ID, []string{spamID})
	assert.True(t, errors.Is(err, ErrSystemCatalog))
	checkInvariants(t, service, "user")
}

func TestSpamMovesArtifacts(t *testing.T) {
	service := newTestService(t, newFakeRemote(), nil)
	ids := importTokens(t, service, "user", 3)
	spamID, unorganizedID := mustLibrary(t, service, "user").SystemCatalogIDs()

	catalog, err := service.CreateCatalog("user", shared.NewCatalog{Name: "Art"})
	require.Nil(t, err)
	_, err = service.AddToCatalog("user", catalog.ID, ids)
	require.Nil(t, err)

	changed, err := service.SetSpam("user", ids[:1], true)
	require.Nil(t, err)
	assert.Equal(t, 1, changed)
	checkInvariants(t, service, "user")

	artifact, err := service.GetArtifact("user", ids[0])
	require.Nil(t, err)
	assert.True(t, artifact.IsSpam)

	// Adding to spam is the same as flagging
	_, err = service.AddToCatalog("user", spamID, ids[1:2])
	require.Nil(t, err)
	checkInvariants(t, service, "user")

	view, err := service.CatalogView("user", spamID, Query{Sort: SortTokenID})
	require.Nil(t, err)
	assert.Equal(t, 2, view.Total)

	// Spam is hidden from regular queries
	resp, err := service.QueryArtifacts("user", Query{})
	require.Nil(t, err)
	assert.Equal(t, 1, resp.Total)

	// Removing from spam clears the flag and lands in unorganized, since
	// flagging dropped the user catalog
	_, err = service.RemoveFromCatalog("user", spamID, ids[:1])
	require.Nil(t, err)
	checkInvariants(t, service, "user")

	view, err = service.CatalogView("user", unorganizedID, Query{})
	require.Nil(t, err)
	assert.Equal(t, 1, view.Total)
	assert.Equal(t, ids[0], view.Artifacts[0].ID)

	// Filing a spam artifact into a user catalog clears the flag
	_, err = service.AddToCatalog("user", catalog.ID, ids[1:2])
	require.Nil(t, err)
	artifact, _ = service.GetArtifact("user", ids[1])
	assert.False(t, artifact.IsSpam)
	checkInvariants(t, service, "user")

	_, err = service.SetSpam("user", []string{"missing"}, true)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestAddToUnorganizedUnfiles(t *testing.T) {
	service := newTestService(t, newFakeRemote(), nil)
	ids := importTokens(t, service, "user", 1)
	_, unorganizedID := mustLibrary(t, service, "user").SystemCatalogIDs()

	first, _ := service.CreateCatalog("user", shared.NewCatalog{Name: "One"})
	second, _ := service.CreateCatalog("user", shared.NewCatalog{Name: "Two"})
	_, _ = service.AddToCatalog("user", first.ID, ids)
	_, _ = service.AddToCatalog("user", second.ID, ids)

	unorganized, err := service.AddToCatalog("user", unorganizedID, ids)
	require.Nil(t, err)
	assert.Equal(t, ids, unorganized.ArtifactIDs)
	checkInvariants(t, service, "user")

	view, _ := service.CatalogView("user", first.ID, Query{})
	assert.Equal(t, 0, view.Total)
}

func TestFolders(t *testing.T) {
	service := newTestService(t, newFakeRemote(), nil)
	ids := importTokens(t, service, "user", 3)

	one, _ := service.CreateCatalog("user", shared.NewCatalog{Name: "One"})
	two, _ := service.CreateCatalog("user", shared.NewCatalog{Name: "Two"})
	_, _ = service.AddToCatalog("user", one.ID, ids[:2])
	_, _ = service.AddToCatalog("user", two.ID, ids[1:])

	folder, err := service.CreateFolder("user", shared.NewFolder{Name: "Shelf"})
	require.Nil(t, err)

	_, err = service.CreateFolder("user", shared.NewFolder{Name: "shelf"})
	assert.True(t, errors.Is(err, ErrDuplicateName))

	folder, err = service.AddCatalogsToFolder("user", folder.ID, []string{one.ID, two.ID})
	require.Nil(t, err)
	assert.Equal(t, []string{one.ID, two.ID}, folder.CatalogIDs)

	// The folder view spans the union of its catalogs
	resp, err := service.QueryArtifacts("user", Query{FolderID: folder.ID})
	require.Nil(t, err)
	assert.Equal(t, 3, resp.Total)

	view, err := service.FolderView("user", folder.ID)
	require.Nil(t, err)
	assert.Len(t, view.Catalogs, 2)

	catalogView, _ := service.CatalogView("user", one.ID, Query{})
	assert.Equal(t, []string{folder.ID}, catalogView.FolderIDs)

	folder, err = service.RemoveCatalogsFromFolder("user", folder.ID, []string{one.ID})
	require.Nil(t, err)
	assert.Equal(t, []string{two.ID}, folder.CatalogIDs)

	// Deleting a catalog drops it from folders
	require.Nil(t, service.DeleteCatalog("user", two.ID))
	view, _ = service.FolderView("user", folder.ID)
	assert.Len(t, view.Catalogs, 0)

	// Deleting a folder leaves its catalogs alone
	require.Nil(t, service.DeleteFolder("user", folder.ID))
	_, err = service.FolderView("user", folder.ID)
	assert.True(t, errors.Is(err, ErrNotFound))
	catalogs, _ := service.ListCatalogs("user")
	assert.Len(t, catalogs, 3)
	checkInvariants(t, service, "user")
}

func TestRemoteFailureRollsBack(t *testing.T) {
	remote := newFakeRemote()
	service := newTestService(t, remote, nil)
	ids := importTokens(t, service, "user", 2)
	before := mustLibrary(t, service, "user").Snapshot()

	remote.setFail(true)
	_, err := service.CreateCatalog("user", shared.NewCatalog{Name: "Doomed"})
	assert.True(t, errors.Is(err, errRemoteDown))

	_, err = service.SetSpam("user", ids, true)
	assert.True(t, errors.Is(err, errRemoteDown))

	_, err = service.DeleteArtifacts("user", ids)
	assert.True(t, errors.Is(err, errRemoteDown))

	after := mustLibrary(t, service, "user").Snapshot()
	assert.True(t, Diff(before, after).Empty())
	checkInvariants(t, service, "user")

	remote.setFail(false)
	_, err = service.CreateCatalog("user", shared.NewCatalog{Name: "Doomed"})
	assert.Nil(t, err)
}

func TestEvictionReloadsPersistedState(t *testing.T) {
	remote := newFakeRemote()
	service := newTestService(t, remote, nil)
	ids := importTokens(t, service, "user", 3)

	catalog, _ := service.CreateCatalog("user", shared.NewCatalog{Name: "Kept"})
	_, _ = service.AddToCatalog("user", catalog.ID, ids[:2])
	folder, _ := service.CreateFolder("user", shared.NewFolder{Name: "Shelf"})
	_, _ = service.AddCatalogsToFolder("user", folder.ID, []string{catalog.ID})
	_, _ = service.SetSpam("user", ids[2:], true)

	before := mustLibrary(t, service, "user").Snapshot()
	loads := remote.loads

	service.Evict("user")
	assert.Equal(t, 0, service.Loaded())

	after := mustLibrary(t, service, "user").Snapshot()
	assert.Equal(t, loads+1, remote.loads)
	assert.True(t, Diff(before, after).Empty(), "%+v", Diff(before, after))
	checkInvariants(t, service, "user")
}

func TestEvictIdle(t *testing.T) {
	service := newTestService(t, newFakeRemote(), nil)
	_, _ = service.Library("a")
	_, _ = service.Library("b")
	require.Equal(t, 2, service.Loaded())

	assert.Equal(t, 0, service.EvictIdle(time.Hour))
	assert.Equal(t, 2, service.EvictIdle(-time.Hour))
	assert.Equal(t, 0, service.Loaded())
}

func TestSlowLoadDoesNotBlockOtherUsers(t *testing.T) {
	remote := newFakeRemote()
	started := make(chan struct{}, 1)
	release := make(chan struct{})
	remote.onLoad = func(userID string) {
		if userID == "slow" {
			started <- struct{}{}
			<-release
		}
	}

	service := newTestService(t, remote, nil)

	const readers = 5
	stores := make(chan *Store, readers)
	for i := 0; i < readers; i++ {
		go func() {
			store, err := service.Library("slow")
			if err != nil {
				t.Errorf("Error loading library: %v", err)
			}
			stores <- store
		}()
	}

	<-started

	done := make(chan error, 1)
	go func() {
		_, err := service.CreateCatalog("fast", shared.NewCatalog{Name: "Quick"})
		done <- err
	}()

	select {
	case err := <-done:
		require.Nil(t, err)
	case <-time.After(5 * time.Second):
		close(release)
		t.Fatal("Loading another user's library was blocked")
	}

	close(release)
	first := <-stores
	require.NotNil(t, first)
	for i := 1; i < readers; i++ {
		assert.Same(t, first, <-stores)
	}

	assert.Equal(t, 2, remote.loads)
	assert.Equal(t, 2, service.Loaded())
	checkInvariants(t, service, "slow")
}

func TestConcurrentMutationsAreSerialized(t *testing.T) {
	service := newTestService(t, newFakeRemote(), nil)
	ids := importTokens(t, service, "user", 10)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			catalog, err := service.CreateCatalog("user", shared.NewCatalog{
				Name: fmt.Sprintf("Catalog %d", i),
			})
			if err != nil {
				t.Errorf("Error creating catalog: %v", err)
				return
			}

			if _, err = service.AddToCatalog("user", catalog.ID, ids[i:i+1]); err != nil {
				t.Errorf("Error adding to catalog: %v", err)
			}

			if i%3 == 0 {
				service.Evict("user")
			}
		}(i)
	}

	wg.Wait()
	checkInvariants(t, service, "user")

	catalogs, err := service.ListCatalogs("user")
	require.Nil(t, err)
	assert.Len(t, catalogs, 12)
}

func TestBulkLimit(t *testing.T) {
	service := newTestService(t, newFakeRemote(), nil)
	ids := make([]string, constants.MaxRefreshItems+1)
	for i := range ids {
		ids[i] = fmt.Sprint(i)
	}

	_, err := service.SetSpam("user", ids, true)
	assert.True(t, errors.Is(err, ErrTooManyItems))

	_, err = service.RefreshMetadata(context.Background(), "user", ids, false)
	assert.True(t, errors.Is(err, ErrTooManyItems))
}

func mustLibrary(t *testing.T, service *Service, userID string) *Store {
	t.Helper()
	store, err := service.Library(userID)
	require.Nil(t, err)
	return store
}
