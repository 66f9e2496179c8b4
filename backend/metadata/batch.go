package metadata

import (
	"context"
	"errors"
	"golang.org/x/sync/errgroup"
	"satchel/backend/logging"
	"satchel/shared"
	"strings"
	"time"
)

var ErrNoTokenURI = errors.New("artifact has no token uri")

// Source is the part of Fetcher used by the batch processor
type Source interface {
	Fetch(ctx context.Context, tokenURI string) (Fields, error)
	SniffContentType(ctx context.Context, uri string) (string, error)
}

// Result is the outcome of normalizing a single artifact. Skipped results were
// never attempted (or were interrupted by cancellation) and keep their
// original record.
type Result struct {
	Artifact shared.Artifact
	Err      error
	Skipped  bool
}

type Options struct {
	BatchSize int
	Delay     time.Duration
	Force     bool
	OnChunk   func([]Result)
}

type Processor struct {
	source    Source
	resolver  *Resolver
	batchSize int
	delay     time.Duration
}

func NewProcessor(source Source, resolver *Resolver, batchSize int, delay time.Duration) *Processor {
	return &Processor{
		source:    source,
		resolver:  resolver,
		batchSize: batchSize,
		delay:     delay,
	}
}

// Process normalizes artifacts in fixed size chunks. Every artifact in a chunk
// is fetched concurrently and chunks are separated by a fixed delay so that
// gateways aren't hammered. A failing artifact never stops the batch, and
// results are returned in input order.
func (p *Processor) Process(
	ctx context.Context,
	artifacts []shared.Artifact,
	opts Options,
) []Result {
	results := make([]Result, len(artifacts))

	size := opts.BatchSize
	if size < 1 {
		size = p.batchSize
	}

	if size < 1 {
		size = 1
	}

	delay := opts.Delay
	if delay <= 0 {
		delay = p.delay
	}

	for start := 0; start < len(artifacts); start += size {
		end := start + size
		if end > len(artifacts) {
			end = len(artifacts)
		}

		if start > 0 && delay > 0 {
			timer := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				timer.Stop()
			case <-timer.C:
			}
		}

		if ctx.Err() != nil {
			logging.Log.Debugf("Metadata batch cancelled, skipping %d artifacts",
				len(artifacts)-start)
			for i := start; i < len(artifacts); i++ {
				results[i] = Result{Artifact: artifacts[i], Err: ctx.Err(), Skipped: true}
			}

			break
		}

		var group errgroup.Group
		for i := start; i < end; i++ {
			i := i
			group.Go(func() error {
				results[i] = p.normalize(ctx, artifacts[i], opts.Force)
				return nil
			})
		}

		_ = group.Wait()

		if opts.OnChunk != nil {
			opts.OnChunk(results[start:end])
		}
	}

	return results
}

func (p *Processor) normalize(ctx context.Context, artifact shared.Artifact, force bool) Result {
	if len(strings.TrimSpace(artifact.TokenURI)) == 0 {
		if len(artifact.ImageURI) > 0 || len(artifact.AnimationURI) > 0 {
			// Nothing to fetch, but the indexer may have provided media
			return Result{Artifact: Merge(artifact, Fields{}, p.resolver, force)}
		}

		return Result{Artifact: MarkFailed(artifact, ErrNoTokenURI), Err: ErrNoTokenURI}
	}

	fields, err := p.source.Fetch(ctx, artifact.TokenURI)
	if err != nil {
		if ctx.Err() != nil {
			return Result{Artifact: artifact, Err: ctx.Err(), Skipped: true}
		}

		logging.Log.Debugf("Metadata fetch failed for %s: %v", artifact.ID, err)
		return Result{Artifact: MarkFailed(artifact, err), Err: err}
	}

	merged := Merge(artifact, fields, p.resolver, force)
	if len(merged.AnimationURI) > 0 &&
		InferMediaType(merged.AnimationURI, "") == shared.MediaUnknown {
		contentType, err := p.source.SniffContentType(ctx, merged.AnimationURI)
		if err == nil {
			merged.MediaType = MediaTypeForFields(
				merged.ImageURI, "",
				merged.AnimationURI, contentType)
		}
	}

	return Result{Artifact: merged}
}
