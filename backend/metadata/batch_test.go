package metadata

import (
	"context"
	"errors"
	"fmt"
	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"
	"satchel/shared"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

type fakeSource struct {
	mu          sync.Mutex
	inFlight    int32
	maxInFlight int32
	calls       int32
	fail        map[string]bool
	contentType string
}

func (s *fakeSource) Fetch(ctx context.Context, tokenURI string) (Fields, error) {
	current := atomic.AddInt32(&s.inFlight, 1)
	defer atomic.AddInt32(&s.inFlight, -1)
	atomic.AddInt32(&s.calls, 1)

	s.mu.Lock()
	if current > s.maxInFlight {
		s.maxInFlight = current
	}
	s.mu.Unlock()

	time.Sleep(5 * time.Millisecond)
	if s.fail[tokenURI] {
		return Fields{}, fmt.Errorf("gateway error for %s", tokenURI)
	}

	name := strings.TrimPrefix(tokenURI, "https://example.com/")
	return Fields{Name: name, Image: "https://example.com/" + name + ".png"}, nil
}

func (s *fakeSource) SniffContentType(_ context.Context, _ string) (string, error) {
	if len(s.contentType) == 0 {
		return "", errors.New("no content type")
	}

	return s.contentType, nil
}

func testArtifacts(n int) []shared.Artifact {
	artifacts := make([]shared.Artifact, n)
	for i := range artifacts {
		artifacts[i] = shared.Artifact{
			ID:             fmt.Sprintf("a%d", i),
			TokenURI:       fmt.Sprintf("https://example.com/t%d", i),
			MetadataStatus: shared.MetadataPending,
		}
	}

	return artifacts
}

func TestProcessContinuesOnErrorAndKeepsOrder(t *testing.T) {
	defer goleak.VerifyNone(t)

	source := &fakeSource{fail: map[string]bool{
		"https://example.com/t1": true,
		"https://example.com/t6": true,
	}}

	processor := NewProcessor(source, NewResolver(nil, ""), 3, time.Millisecond)
	artifacts := testArtifacts(8)

	var chunks [][]Result
	results := processor.Process(context.Background(), artifacts, Options{
		OnChunk: func(chunk []Result) {
			chunks = append(chunks, append([]Result(nil), chunk...))
		},
	})

	assert.Len(t, results, 8)
	for i, result := range results {
		assert.Equal(t, artifacts[i].ID, result.Artifact.ID)
		assert.False(t, result.Skipped)

		if i == 1 || i == 6 {
			assert.NotNil(t, result.Err)
			assert.Equal(t, shared.MetadataFailed, result.Artifact.MetadataStatus)
			assert.Contains(t, result.Artifact.MetadataError, "gateway error")
			continue
		}

		assert.Nil(t, result.Err)
		assert.Equal(t, shared.MetadataOK, result.Artifact.MetadataStatus)
		assert.Equal(t, fmt.Sprintf("t%d", i), result.Artifact.Name)
		assert.Equal(t, shared.MediaImage, result.Artifact.MediaType)
	}

	assert.Len(t, chunks, 3)
	assert.Len(t, chunks[0], 3)
	assert.Len(t, chunks[2], 2)
	assert.LessOrEqual(t, source.maxInFlight, int32(3))
}

func TestProcessCancellationSkipsRemainingChunks(t *testing.T) {
	defer goleak.VerifyNone(t)

	source := &fakeSource{}
	processor := NewProcessor(source, NewResolver(nil, ""), 2, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	results := processor.Process(ctx, testArtifacts(5), Options{
		OnChunk: func(_ []Result) { cancel() },
	})

	assert.Equal(t, int32(2), atomic.LoadInt32(&source.calls))
	for i, result := range results {
		if i < 2 {
			assert.False(t, result.Skipped)
			assert.Equal(t, shared.MetadataOK, result.Artifact.MetadataStatus)
			continue
		}

		assert.True(t, result.Skipped)
		assert.True(t, errors.Is(result.Err, context.Canceled))
		assert.Equal(t, shared.MetadataPending, result.Artifact.MetadataStatus)
	}
}

func TestProcessWithoutTokenURI(t *testing.T) {
	processor := NewProcessor(&fakeSource{}, NewResolver(nil, ""), 10, 0)
	results := processor.Process(context.Background(), []shared.Artifact{
		{ID: "bare"},
		{ID: "indexed", ImageURI: "ipfs://" + testCIDv0},
	}, Options{})

	assert.True(t, errors.Is(results[0].Err, ErrNoTokenURI))
	assert.Equal(t, shared.MetadataFailed, results[0].Artifact.MetadataStatus)

	assert.Nil(t, results[1].Err)
	assert.Equal(t, shared.MetadataOK, results[1].Artifact.MetadataStatus)
	assert.Equal(t, "https://ipfs.io/ipfs/"+testCIDv0, results[1].Artifact.ImageURL)
}

func TestProcessSniffsUnknownAnimations(t *testing.T) {
	source := &fakeSource{contentType: "video/mp4"}
	processor := NewProcessor(source, NewResolver(nil, ""), 10, 0)

	artifact := testArtifacts(1)[0]
	artifact.AnimationURI = "ipfs://" + testCIDv0
	results := processor.Process(context.Background(), []shared.Artifact{artifact}, Options{})

	assert.Equal(t, shared.MediaVideo, results[0].Artifact.MediaType)
}

func TestMergeRespectsForce(t *testing.T) {
	resolver := NewResolver(nil, "")
	artifact := shared.Artifact{
		Name:       "Indexed name",
		Attributes: []shared.Attribute{{TraitType: "a", Value: "1"}},
	}

	fields := Fields{
		Name:        "Fetched name",
		Description: "Fetched description",
		Image:       "ar://img",
		Attributes:  []shared.Attribute{{TraitType: "b", Value: "2"}},
	}

	merged := Merge(artifact, fields, resolver, false)
	assert.Equal(t, "Indexed name", merged.Name)
	assert.Equal(t, "Fetched description", merged.Description)
	assert.Equal(t, "a", merged.Attributes[0].TraitType)
	assert.Equal(t, "https://arweave.net/img", merged.ImageURL)
	assert.Equal(t, shared.MetadataOK, merged.MetadataStatus)
	assert.False(t, merged.MetadataUpdated.IsZero())

	forced := Merge(artifact, fields, resolver, true)
	assert.Equal(t, "Fetched name", forced.Name)
	assert.Equal(t, "b", forced.Attributes[0].TraitType)

	failed := MarkFailed(forced, errors.New(strings.Repeat("e", 600)))
	assert.Equal(t, shared.MetadataFailed, failed.MetadataStatus)
	assert.Len(t, failed.MetadataError, 500)
	assert.Equal(t, "Fetched name", failed.Name)
}
