package library

import (
	"context"
	"fmt"
	"github.com/google/uuid"
	"reflect"
	"satchel/backend/logging"
	"satchel/backend/metadata"
	"satchel/backend/storage"
	"satchel/shared"
	"sort"
	"strings"
	"time"
)

// Token is a single token held by a wallet, as reported by an indexer
type Token struct {
	ContractAddress string
	TokenID         string
	Name            string
	Description     string
	CollectionName  string
	TokenURI        string
	ImageURI        string
	AnimationURI    string
	IsSpam          bool
}

// Image is what should be served for an artifact's image: either the bytes
// of a mirrored copy or a gateway URL to redirect to.
type Image struct {
	Data        []byte
	ContentType string
	RedirectURL string
}

func setSpamFlag(snap *Snapshot, artifactID string, spam bool, now time.Time) {
	artifact := snap.artifacts[artifactID]
	if artifact.IsSpam == spam {
		return
	}

	artifact.IsSpam = spam
	artifact.Modified = now
	snap.artifacts[artifactID] = artifact
}

func artifactKey(network shared.Network, contract, tokenID string) string {
	return fmt.Sprintf("%s|%s|%s",
		network,
		shared.NormalizeAddress(network, contract),
		strings.TrimSpace(tokenID))
}

func (s *Service) QueryArtifacts(userID string, q Query) (shared.ArtifactQueryResponse, error) {
	var resp shared.ArtifactQueryResponse
	err := s.read(userID, func(snap *Snapshot) error {
		artifacts, total, err := q.run(snap)
		resp = shared.ArtifactQueryResponse{Artifacts: artifacts, Total: total}
		return err
	})

	return resp, err
}

func (s *Service) GetArtifact(userID, artifactID string) (shared.Artifact, error) {
	var artifact shared.Artifact
	err := s.read(userID, func(snap *Snapshot) error {
		var ok bool
		artifact, ok = snap.artifacts[artifactID]
		if !ok {
			return ErrNotFound
		}

		return nil
	})

	return artifact, err
}

// SetSpam flags (or unflags) artifacts as spam and moves them accordingly.
// Returns the number of artifacts whose flag changed.
func (s *Service) SetSpam(userID string, artifactIDs []string, spam bool) (int, error) {
	ids, err := checkBulk(artifactIDs)
	if err != nil {
		return 0, err
	}

	changed := 0
	err = s.mutate(userID, func(snap *Snapshot) error {
		changed = 0
		for _, id := range ids {
			if _, ok := snap.artifacts[id]; !ok {
				return fmt.Errorf("artifact %s: %w", id, ErrNotFound)
			}
		}

		now := s.now()
		for _, id := range ids {
			if snap.artifacts[id].IsSpam != spam {
				changed++
			}

			setSpamFlag(snap, id, spam, now)
			snap.placeArtifact(id)
		}

		return nil
	})

	return changed, err
}

// DeleteArtifacts removes artifacts from the library entirely. Unknown IDs
// are ignored.
func (s *Service) DeleteArtifacts(userID string, artifactIDs []string) (int, error) {
	ids, err := checkBulk(artifactIDs)
	if err != nil {
		return 0, err
	}

	removed := 0
	var mirrors []storage.Object
	err = s.mutate(userID, func(snap *Snapshot) error {
		removed, mirrors = 0, nil
		for _, id := range ids {
			artifact, ok := snap.artifacts[id]
			if !ok {
				continue
			}

			mirrors = s.collectMirror(mirrors, artifact)
			snap.removeArtifact(id)
			removed++
		}

		return nil
	})

	if err != nil {
		return 0, err
	}

	s.dropMirrors(mirrors)
	return removed, nil
}

// ImportWalletTokens reconciles a wallet's artifacts with the tokens an
// indexer reports for it. New tokens become pending artifacts in
// unorganized, known ones are updated, and artifacts the wallet no longer
// holds are removed.
func (s *Service) ImportWalletTokens(
	userID string,
	wallet shared.Wallet,
	tokens []Token,
) (shared.SyncResponse, error) {
	var result shared.SyncResponse
	var mirrors []storage.Object

	err := s.mutate(userID, func(snap *Snapshot) error {
		result, mirrors = shared.SyncResponse{}, nil
		now := s.now()

		existing := make(map[string]string, len(snap.artifacts))
		for id, artifact := range snap.artifacts {
			existing[artifactKey(artifact.Network, artifact.ContractAddress, artifact.TokenID)] = id
		}

		seen := make(map[string]bool, len(tokens))
		for _, token := range tokens {
			if len(strings.TrimSpace(token.ContractAddress)) == 0 ||
				len(strings.TrimSpace(token.TokenID)) == 0 {
				continue
			}

			key := artifactKey(wallet.Network, token.ContractAddress, token.TokenID)
			if id, ok := existing[key]; ok {
				if seen[id] {
					continue
				}

				seen[id] = true
				current := snap.artifacts[id]
				updated := s.updateFromToken(current, wallet, token)
				if reflect.DeepEqual(current, updated) {
					result.Unchanged++
					continue
				}

				updated.Modified = now
				snap.artifacts[id] = updated
				result.Updated++
				continue
			}

			artifact := s.newArtifact(wallet, token, now)
			snap.artifacts[artifact.ID] = artifact
			snap.placeArtifact(artifact.ID)
			existing[key] = artifact.ID
			seen[artifact.ID] = true
			result.Added++
		}

		for _, id := range sortedIDs(snap.artifacts) {
			artifact := snap.artifacts[id]
			if artifact.WalletID != wallet.ID || seen[id] {
				continue
			}

			mirrors = s.collectMirror(mirrors, artifact)
			snap.removeArtifact(id)
			result.Removed++
		}

		return nil
	})

	if err != nil {
		return shared.SyncResponse{}, err
	}

	s.dropMirrors(mirrors)
	return result, nil
}

func (s *Service) newArtifact(wallet shared.Wallet, token Token, now time.Time) shared.Artifact {
	artifact := shared.Artifact{
		ID:              uuid.NewString(),
		WalletID:        wallet.ID,
		Network:         wallet.Network,
		ContractAddress: shared.NormalizeAddress(wallet.Network, token.ContractAddress),
		TokenID:         strings.TrimSpace(token.TokenID),
		Name:            strings.TrimSpace(token.Name),
		Description:     strings.TrimSpace(token.Description),
		CollectionName:  strings.TrimSpace(token.CollectionName),
		TokenURI:        strings.TrimSpace(token.TokenURI),
		ImageURI:        strings.TrimSpace(token.ImageURI),
		AnimationURI:    strings.TrimSpace(token.AnimationURI),
		Attributes:      []shared.Attribute{},
		MetadataStatus:  shared.MetadataPending,
		IsSpam:          token.IsSpam,
		Created:         now,
		Modified:        now,
	}

	artifact.ImageURL = s.resolver.GatewayURL(artifact.ImageURI)
	artifact.AnimationURL = s.resolver.GatewayURL(artifact.AnimationURI)
	artifact.MediaType = metadata.MediaTypeForFields(
		artifact.ImageURI, "",
		artifact.AnimationURI, "")

	return artifact
}

// updateFromToken refreshes indexer provided fields. Fields the metadata
// pipeline already filled in are kept, and a changed token URI sends the
// artifact back through the pipeline.
func (s *Service) updateFromToken(artifact shared.Artifact, wallet shared.Wallet, token Token) shared.Artifact {
	artifact.WalletID = wallet.ID

	tokenURI := strings.TrimSpace(token.TokenURI)
	if len(tokenURI) > 0 && tokenURI != artifact.TokenURI {
		artifact.TokenURI = tokenURI
		artifact.MetadataStatus = shared.MetadataPending
		artifact.MetadataError = ""
	}

	fill := func(dst *string, value string) {
		value = strings.TrimSpace(value)
		if len(*dst) == 0 && len(value) > 0 {
			*dst = value
		}
	}

	fill(&artifact.Name, token.Name)
	fill(&artifact.Description, token.Description)
	fill(&artifact.CollectionName, token.CollectionName)

	if len(artifact.ImageURI) == 0 && len(strings.TrimSpace(token.ImageURI)) > 0 {
		artifact.ImageURI = strings.TrimSpace(token.ImageURI)
		artifact.ImageURL = s.resolver.GatewayURL(artifact.ImageURI)
		artifact.MediaType = metadata.MediaTypeForFields(
			artifact.ImageURI, "",
			artifact.AnimationURI, "")
	}

	if len(artifact.AnimationURI) == 0 && len(strings.TrimSpace(token.AnimationURI)) > 0 {
		artifact.AnimationURI = strings.TrimSpace(token.AnimationURI)
		artifact.AnimationURL = s.resolver.GatewayURL(artifact.AnimationURI)
		artifact.MediaType = metadata.MediaTypeForFields(
			artifact.ImageURI, "",
			artifact.AnimationURI, "")
	}

	return artifact
}

// RemoveWalletArtifacts deletes every artifact belonging to a wallet
func (s *Service) RemoveWalletArtifacts(userID, walletID string) (int, error) {
	removed := 0
	var mirrors []storage.Object
	err := s.mutate(userID, func(snap *Snapshot) error {
		removed, mirrors = 0, nil
		for _, id := range sortedIDs(snap.artifacts) {
			artifact := snap.artifacts[id]
			if artifact.WalletID != walletID {
				continue
			}

			mirrors = s.collectMirror(mirrors, artifact)
			snap.removeArtifact(id)
			removed++
		}

		return nil
	})

	if err != nil {
		return 0, err
	}

	s.dropMirrors(mirrors)
	return removed, nil
}

// =============================================================================
// Metadata refresh
// =============================================================================

// RefreshMetadata runs the given artifacts through the metadata pipeline.
// Results are saved chunk by chunk, so a cancelled refresh keeps whatever
// finished before it stopped.
func (s *Service) RefreshMetadata(
	ctx context.Context,
	userID string,
	artifactIDs []string,
	force bool,
) (shared.RefreshResponse, error) {
	ids, err := checkBulk(artifactIDs)
	if err != nil {
		return shared.RefreshResponse{}, err
	}

	var artifacts []shared.Artifact
	err = s.read(userID, func(snap *Snapshot) error {
		for _, id := range ids {
			artifact, ok := snap.artifacts[id]
			if !ok {
				return fmt.Errorf("artifact %s: %w", id, ErrNotFound)
			}

			artifacts = append(artifacts, artifact)
		}

		return nil
	})

	if err != nil {
		return shared.RefreshResponse{}, err
	}

	return s.refresh(ctx, userID, artifacts, force), nil
}

// RefreshPending processes up to limit of the user's pending artifacts,
// oldest first.
func (s *Service) RefreshPending(ctx context.Context, userID string, limit int) (shared.RefreshResponse, error) {
	var pending []shared.Artifact
	err := s.read(userID, func(snap *Snapshot) error {
		for _, artifact := range snap.artifacts {
			if artifact.MetadataStatus == shared.MetadataPending {
				pending = append(pending, artifact)
			}
		}

		return nil
	})

	if err != nil {
		return shared.RefreshResponse{}, err
	}

	sort.Slice(pending, func(i, j int) bool {
		if pending[i].Created.Equal(pending[j].Created) {
			return pending[i].ID < pending[j].ID
		}

		return pending[i].Created.Before(pending[j].Created)
	})

	if limit > 0 && len(pending) > limit {
		pending = pending[:limit]
	}

	return s.refresh(ctx, userID, pending, false), nil
}

func (s *Service) refresh(
	ctx context.Context,
	userID string,
	artifacts []shared.Artifact,
	force bool,
) shared.RefreshResponse {
	saveErrs := make(map[string]error)
	results := s.processor.Process(ctx, artifacts, metadata.Options{
		Force: force,
		OnChunk: func(chunk []metadata.Result) {
			if err := s.saveResults(userID, chunk); err != nil {
				for _, result := range chunk {
					saveErrs[result.Artifact.ID] = err
				}
			}
		},
	})

	resp := shared.RefreshResponse{
		Succeeded: []string{},
		Failed:    map[string]string{},
		Skipped:   []string{},
	}

	for _, result := range results {
		id := result.Artifact.ID
		if result.Skipped {
			resp.Skipped = append(resp.Skipped, id)
		} else if err, ok := saveErrs[id]; ok {
			resp.Failed[id] = err.Error()
		} else if result.Err != nil {
			resp.Failed[id] = result.Err.Error()
		} else {
			resp.Succeeded = append(resp.Succeeded, id)
		}
	}

	logging.Log.Debugf("Metadata refresh for %s: %d ok, %d failed, %d skipped",
		userID, len(resp.Succeeded), len(resp.Failed), len(resp.Skipped))
	return resp
}

// saveResults copies the metadata fields of processed artifacts onto the
// current records, leaving anything changed in the meantime (spam flag,
// catalogs) alone. Artifacts deleted during the refresh are skipped.
func (s *Service) saveResults(userID string, results []metadata.Result) error {
	return s.mutate(userID, func(snap *Snapshot) error {
		for _, result := range results {
			if result.Skipped {
				continue
			}

			current, ok := snap.artifacts[result.Artifact.ID]
			if !ok {
				continue
			}

			snap.artifacts[current.ID] = applyMetadata(current, result.Artifact)
		}

		return nil
	})
}

func applyMetadata(dst, src shared.Artifact) shared.Artifact {
	dst.Name = src.Name
	dst.Description = src.Description
	dst.CollectionName = src.CollectionName
	dst.ImageURI = src.ImageURI
	dst.ImageURL = src.ImageURL
	dst.AnimationURI = src.AnimationURI
	dst.AnimationURL = src.AnimationURL
	dst.ExternalURL = src.ExternalURL
	dst.MediaType = src.MediaType
	dst.Attributes = src.Attributes
	dst.MetadataStatus = src.MetadataStatus
	dst.MetadataError = src.MetadataError
	dst.MetadataUpdated = src.MetadataUpdated
	dst.Modified = src.Modified
	return dst
}

// =============================================================================
// Image mirroring
// =============================================================================

// MirrorImage copies an artifact's image into storage so that it no longer
// depends on gateway availability.
func (s *Service) MirrorImage(ctx context.Context, userID, artifactID string) (shared.Artifact, error) {
	if s.storage == nil || s.media == nil {
		return shared.Artifact{}, ErrMirrorDisabled
	}

	artifact, err := s.GetArtifact(userID, artifactID)
	if err != nil {
		return shared.Artifact{}, err
	} else if len(artifact.ImageURI) == 0 {
		return shared.Artifact{}, ErrNoImage
	}

	data, contentType, err := s.media.FetchBytes(ctx, artifact.ImageURI, s.maxImageBytes)
	if err != nil {
		return shared.Artifact{}, fmt.Errorf("fetch image: %w", err)
	} else if metadata.InferMediaType("", contentType) != shared.MediaImage {
		return shared.Artifact{}, ErrNotImage
	}

	var previous *storage.Object
	if artifact.Mirrored {
		if obj, err := s.remote.GetMirror(artifactID); err == nil {
			previous = &obj
		}
	}

	key := storage.ObjectKey(userID, artifactID, uuid.NewString())
	obj, err := s.storage.Put(key, contentType, data)
	if err != nil {
		return shared.Artifact{}, fmt.Errorf("store image: %w", err)
	}

	if err = s.remote.SetMirror(artifactID, obj); err != nil {
		s.dropMirrors([]storage.Object{obj})
		return shared.Artifact{}, fmt.Errorf("save mirror: %w", err)
	}

	err = s.mutate(userID, func(snap *Snapshot) error {
		current, ok := snap.artifacts[artifactID]
		if !ok {
			return ErrNotFound
		}

		current.Mirrored = true
		current.Modified = s.now()
		snap.artifacts[artifactID] = current
		artifact = current
		return nil
	})
	if err != nil {
		s.undoMirror(artifactID, previous, obj)
		return shared.Artifact{}, err
	}

	if previous != nil {
		s.dropMirrors([]storage.Object{*previous})
	}

	return artifact, nil
}

// undoMirror points the mirror record back at the previous object and drops
// the new one. If the record can't be restored the new object stays, since
// the record still references it.
func (s *Service) undoMirror(artifactID string, previous *storage.Object, obj storage.Object) {
	var err error
	if previous != nil {
		err = s.remote.SetMirror(artifactID, *previous)
	} else {
		err = s.remote.DeleteMirror(artifactID)
	}

	if err != nil {
		logging.Log.Errorf("Failed to restore mirror record for %s: %v", artifactID, err)
		return
	}

	s.dropMirrors([]storage.Object{obj})
}

// ImageSource returns the mirrored image if there is one, falling back to a
// redirect to the preferred gateway.
func (s *Service) ImageSource(userID, artifactID string) (Image, error) {
	artifact, err := s.GetArtifact(userID, artifactID)
	if err != nil {
		return Image{}, err
	}

	if artifact.Mirrored && s.storage != nil {
		obj, err := s.remote.GetMirror(artifactID)
		if err == nil {
			data, err := s.storage.Get(obj)
			if err == nil {
				return Image{Data: data, ContentType: obj.ContentType}, nil
			}

			logging.Log.Warnf("Unable to read mirrored image for %s: %v", artifactID, err)
		} else {
			logging.Log.Warnf("Missing mirror record for %s: %v", artifactID, err)
		}
	}

	if metadata.ParseURI(artifact.ImageURI).Scheme == metadata.SchemeData {
		data, contentType, err := metadata.DecodeDataURI(artifact.ImageURI)
		if err != nil {
			return Image{}, err
		}

		return Image{Data: data, ContentType: contentType}, nil
	}

	url := s.resolver.GatewayURL(artifact.ImageURI)
	if len(url) == 0 {
		return Image{}, ErrNoImage
	}

	return Image{RedirectURL: url}, nil
}

func (s *Service) collectMirror(mirrors []storage.Object, artifact shared.Artifact) []storage.Object {
	if !artifact.Mirrored || s.storage == nil {
		return mirrors
	}

	obj, err := s.remote.GetMirror(artifact.ID)
	if err != nil {
		logging.Log.Warnf("Unable to look up mirror for %s: %v", artifact.ID, err)
		return mirrors
	}

	return append(mirrors, obj)
}

func (s *Service) dropMirrors(mirrors []storage.Object) {
	if s.storage == nil {
		return
	}

	for _, obj := range mirrors {
		if err := s.storage.Delete(obj); err != nil {
			logging.Log.Warnf("Unable to delete mirrored image %s: %v", obj.Key, err)
		}
	}
}

