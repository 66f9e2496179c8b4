package library

import (
	"context"
	"fmt"
	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
	"satchel/backend/logging"
	"satchel/backend/metadata"
	"satchel/backend/storage"
	"satchel/shared"
	"satchel/shared/constants"
	"sync"
	"time"
)

// Remote is the durable copy of every library
type Remote interface {
	LoadLibrary(userID string) (Data, error)
	ApplyChanges(userID string, changes ChangeSet) error
	GetMirror(artifactID string) (storage.Object, error)
	SetMirror(artifactID string, obj storage.Object) error
	DeleteMirror(artifactID string) error
}

// MediaFetcher downloads images for mirroring
type MediaFetcher interface {
	FetchBytes(ctx context.Context, uri string, maxBytes int64) ([]byte, string, error)
}

type Options struct {
	Processor     *metadata.Processor
	Resolver      *metadata.Resolver
	Media         MediaFetcher
	Storage       storage.Backend
	MaxImageBytes int64
}

type userLibrary struct {
	store    *Store
	writeMu  sync.Mutex
	evicted  bool
	lastUsed time.Time
}

// Service owns the in-memory libraries of active users. Every mutation is
// applied to the local store first, then written to the remote as a single
// change set; if the write fails the local store is rolled back.
type Service struct {
	remote        Remote
	processor     *metadata.Processor
	resolver      *metadata.Resolver
	media         MediaFetcher
	storage       storage.Backend
	maxImageBytes int64
	now           func() time.Time

	mu        sync.Mutex
	libraries map[string]*userLibrary
	loading   singleflight.Group
}

func NewService(remote Remote, opts Options) *Service {
	resolver := opts.Resolver
	if resolver == nil {
		resolver = metadata.NewResolver(nil, "")
	}

	processor := opts.Processor
	if processor == nil {
		processor = metadata.NewProcessor(
			metadata.NewFetcher(resolver, metadata.FetcherOptions{}),
			resolver,
			constants.DefaultBatchSize,
			constants.DefaultBatchDelayMS*time.Millisecond)
	}

	maxImageBytes := opts.MaxImageBytes
	if maxImageBytes <= 0 {
		maxImageBytes = 25 * 1024 * 1024
	}

	return &Service{
		remote:        remote,
		processor:     processor,
		resolver:      resolver,
		media:         opts.Media,
		storage:       opts.Storage,
		maxImageBytes: maxImageBytes,
		now:           func() time.Time { return time.Now().UTC() },
		libraries:     make(map[string]*userLibrary),
	}
}

// Library returns the user's store, loading it from the remote on first use
func (s *Service) Library(userID string) (*Store, error) {
	lib, err := s.load(userID)
	if err != nil {
		return nil, err
	}

	return lib.store, nil
}

func (s *Service) load(userID string) (*userLibrary, error) {
	if lib, ok := s.cached(userID); ok {
		return lib, nil
	}

	// Remote round trips run outside s.mu. Concurrent loads of the same user
	// share one result.
	v, err, _ := s.loading.Do(userID, func() (interface{}, error) {
		if lib, ok := s.cached(userID); ok {
			return lib, nil
		}

		data, err := s.remote.LoadLibrary(userID)
		if err != nil {
			return nil, fmt.Errorf("load library: %w", err)
		}

		lib := &userLibrary{store: NewStore(data), lastUsed: s.now()}
		if err = s.repair(userID, lib.store); err != nil {
			return nil, fmt.Errorf("repair library: %w", err)
		}

		s.mu.Lock()
		defer s.mu.Unlock()
		if existing, ok := s.libraries[userID]; ok {
			existing.lastUsed = s.now()
			return existing, nil
		}

		logging.Log.Debugf("Loaded library for %s (%d artifacts)", userID, len(lib.store.snap.artifacts))
		s.libraries[userID] = lib
		return lib, nil
	})
	if err != nil {
		return nil, err
	}

	return v.(*userLibrary), nil
}

func (s *Service) cached(userID string) (*userLibrary, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	lib, ok := s.libraries[userID]
	if ok {
		lib.lastUsed = s.now()
	}

	return lib, ok
}

// repair creates missing system catalogs and fixes any artifact placement
// that doesn't hold up, i.e. after artifacts were inserted outside the
// service.
func (s *Service) repair(userID string, store *Store) error {
	before := store.snap.clone()
	snap := &store.snap
	now := s.now()

	for _, system := range []struct{ kind, name string }{
		{constants.CatalogKindSpam, constants.SpamCatalogName},
		{constants.CatalogKindUnorganized, constants.UnorganizedCatalogName},
	} {
		if len(snap.systemCatalog(system.kind)) > 0 {
			continue
		}

		id := uuid.NewString()
		snap.catalogs[id] = shared.Catalog{
			ID:       id,
			Name:     system.name,
			Kind:     system.kind,
			Created:  now,
			Modified: now,
		}
	}

	spamID, unorganizedID := snap.spamID(), snap.unorganizedID()
	for _, folderID := range sortedIDs(snap.folderCatalogs) {
		snap.unlinkCatalog(folderID, spamID)
		snap.unlinkCatalog(folderID, unorganizedID)
	}

	for _, id := range sortedIDs(snap.artifacts) {
		snap.placeArtifact(id)
	}

	changes := Diff(before, *snap)
	if changes.Empty() {
		return nil
	}

	return s.remote.ApplyChanges(userID, changes)
}

// read runs fn against the user's current snapshot under the read lock
func (s *Service) read(userID string, fn func(snap *Snapshot) error) error {
	lib, err := s.load(userID)
	if err != nil {
		return err
	}

	lib.store.mu.RLock()
	defer lib.store.mu.RUnlock()
	return fn(&lib.store.snap)
}

// mutate applies fn to the user's library and persists the result. Writers
// for a user are serialized for the whole round trip, so a rollback can only
// ever undo its own change.
func (s *Service) mutate(userID string, fn func(snap *Snapshot) error) error {
	for {
		lib, err := s.load(userID)
		if err != nil {
			return err
		}

		lib.writeMu.Lock()
		if lib.evicted {
			// Evicted while waiting, the next load picks up a fresh copy
			lib.writeMu.Unlock()
			continue
		}

		err = s.apply(userID, lib.store, fn)
		lib.writeMu.Unlock()
		return err
	}
}

func (s *Service) apply(userID string, store *Store, fn func(snap *Snapshot) error) error {
	store.mu.Lock()
	before := store.snap.clone()
	if err := fn(&store.snap); err != nil {
		store.snap = before
		store.mu.Unlock()
		return err
	}

	changes := Diff(before, store.snap)
	store.mu.Unlock()

	if changes.Empty() {
		return nil
	}

	if err := s.remote.ApplyChanges(userID, changes); err != nil {
		logging.Log.Errorf("Failed to save library changes for %s, rolling back: %v",
			userID, err)
		store.Restore(before)
		return fmt.Errorf("save library: %w", err)
	}

	return nil
}

// Evict drops a user's library from memory once any in-flight write is done
func (s *Service) Evict(userID string) {
	s.mu.Lock()
	lib, ok := s.libraries[userID]
	s.mu.Unlock()

	if !ok {
		return
	}

	lib.writeMu.Lock()
	defer lib.writeMu.Unlock()
	lib.evicted = true

	s.mu.Lock()
	if s.libraries[userID] == lib {
		delete(s.libraries, userID)
	}
	s.mu.Unlock()
}

// EvictIdle evicts every library that hasn't been used within maxIdle and
// returns how many were dropped.
func (s *Service) EvictIdle(maxIdle time.Duration) int {
	cutoff := s.now().Add(-maxIdle)

	var idle []string
	s.mu.Lock()
	for userID, lib := range s.libraries {
		if lib.lastUsed.Before(cutoff) {
			idle = append(idle, userID)
		}
	}
	s.mu.Unlock()

	for _, userID := range idle {
		s.Evict(userID)
	}

	return len(idle)
}

// Loaded reports how many libraries are currently held in memory
func (s *Service) Loaded() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.libraries)
}

func uniqueIDs(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	var out []string
	for _, id := range ids {
		if len(id) == 0 || seen[id] {
			continue
		}

		seen[id] = true
		out = append(out, id)
	}

	return out
}
