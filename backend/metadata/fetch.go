package metadata

import (
	"context"
	"errors"
	"fmt"
	"golang.org/x/time/rate"
	"io"
	"net/http"
	"net/url"
	"satchel/backend/logging"
	"satchel/shared/constants"
	"sync"
	"time"
)

var ErrNoCandidates = errors.New("no fetchable url for uri")
var ErrTooLarge = errors.New("response exceeds size limit")

// StatusError is returned for any non-200 gateway response
type StatusError struct {
	StatusCode int
}

func (e StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d", e.StatusCode)
}

// Cache stores raw metadata documents between fetches
type Cache interface {
	Get(key string) ([]byte, bool)
	Put(key string, data []byte) error
}

type FetcherOptions struct {
	Timeout           time.Duration
	MaxBytes          int64
	RequestsPerSecond float64
	Cache             Cache
	Client            *http.Client
}

// Fetcher retrieves metadata documents and media through the configured
// gateways, falling back across candidate URLs.
type Fetcher struct {
	resolver *Resolver
	client   *http.Client
	cache    Cache
	maxBytes int64
	rps      float64

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

func NewFetcher(resolver *Resolver, opts FetcherOptions) *Fetcher {
	client := opts.Client
	if client == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = constants.DefaultFetchTimeoutSeconds * time.Second
		}

		client = &http.Client{Timeout: timeout}
	}

	maxBytes := opts.MaxBytes
	if maxBytes <= 0 {
		maxBytes = 5 * 1024 * 1024
	}

	return &Fetcher{
		resolver: resolver,
		client:   client,
		cache:    opts.Cache,
		maxBytes: maxBytes,
		rps:      opts.RequestsPerSecond,
		limiters: make(map[string]*rate.Limiter),
	}
}

// Fetch retrieves and parses the metadata document behind tokenURI. Each
// candidate is tried in order until one returns a parseable document.
func (f *Fetcher) Fetch(ctx context.Context, tokenURI string) (Fields, error) {
	ref := ParseURI(tokenURI)
	if ref.Scheme == SchemeData {
		data, _, err := DecodeDataURI(ref.Path)
		if err != nil {
			return Fields{}, err
		}

		return Parse(data)
	}

	candidates := f.resolver.CandidateURLs(tokenURI)
	if len(candidates) == 0 {
		return Fields{}, fmt.Errorf("%w: %q", ErrNoCandidates, tokenURI)
	}

	cacheKey := ref.CacheKey()
	if f.cache != nil {
		if data, ok := f.cache.Get(cacheKey); ok {
			if fields, err := Parse(data); err == nil {
				logging.Log.Debugf("Metadata cache hit for %s", cacheKey)
				return fields, nil
			}
		}
	}

	var errs []error
	for _, candidate := range candidates {
		if err := ctx.Err(); err != nil {
			return Fields{}, err
		}

		data, _, err := f.get(ctx, http.MethodGet, candidate, f.maxBytes)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", candidate, err))
			continue
		}

		fields, err := Parse(data)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", candidate, err))
			continue
		}

		if f.cache != nil {
			if err = f.cache.Put(cacheKey, data); err != nil {
				logging.Log.Warnf("Unable to cache metadata for %s: %v", cacheKey, err)
			}
		}

		return fields, nil
	}

	return Fields{}, errors.Join(errs...)
}

// FetchBytes downloads binary content (i.e. an image for mirroring), returning
// the body and its content type.
func (f *Fetcher) FetchBytes(
	ctx context.Context,
	uri string,
	maxBytes int64,
) ([]byte, string, error) {
	ref := ParseURI(uri)
	if ref.Scheme == SchemeData {
		data, mediaType, err := DecodeDataURI(ref.Path)
		if err == nil && int64(len(data)) > maxBytes {
			return nil, "", ErrTooLarge
		}

		return data, mediaType, err
	}

	candidates := f.resolver.CandidateURLs(uri)
	if len(candidates) == 0 {
		return nil, "", fmt.Errorf("%w: %q", ErrNoCandidates, uri)
	}

	var errs []error
	for _, candidate := range candidates {
		if err := ctx.Err(); err != nil {
			return nil, "", err
		}

		data, contentType, err := f.get(ctx, http.MethodGet, candidate, maxBytes)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", candidate, err))
			continue
		}

		if len(contentType) == 0 {
			contentType = http.DetectContentType(data)
		}

		return data, contentType, nil
	}

	return nil, "", errors.Join(errs...)
}

// SniffContentType asks the gateways for the content type of uri without
// downloading it.
func (f *Fetcher) SniffContentType(ctx context.Context, uri string) (string, error) {
	ref := ParseURI(uri)
	if ref.Scheme == SchemeData {
		_, mediaType, err := DecodeDataURI(ref.Path)
		return mediaType, err
	}

	candidates := f.resolver.CandidateURLs(uri)
	if len(candidates) == 0 {
		return "", fmt.Errorf("%w: %q", ErrNoCandidates, uri)
	}

	var errs []error
	for _, candidate := range candidates {
		_, contentType, err := f.get(ctx, http.MethodHead, candidate, 0)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", candidate, err))
			continue
		} else if len(contentType) == 0 {
			continue
		}

		return contentType, nil
	}

	return "", errors.Join(errs...)
}

func (f *Fetcher) get(
	ctx context.Context,
	method string,
	target string,
	maxBytes int64,
) ([]byte, string, error) {
	if err := f.wait(ctx, target); err != nil {
		return nil, "", err
	}

	req, err := http.NewRequestWithContext(ctx, method, target, nil)
	if err != nil {
		return nil, "", err
	}

	req.Header.Set("User-Agent", "satchel/"+constants.VERSION)
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, "", err
	}

	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, "", StatusError{StatusCode: resp.StatusCode}
	}

	contentType := resp.Header.Get("Content-Type")
	if method == http.MethodHead {
		return nil, contentType, nil
	}

	if resp.ContentLength > maxBytes {
		return nil, "", ErrTooLarge
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBytes+1))
	if err != nil {
		return nil, "", err
	} else if int64(len(data)) > maxBytes {
		return nil, "", ErrTooLarge
	}

	return data, contentType, nil
}

// wait blocks until the limiter for the target's host allows another request
func (f *Fetcher) wait(ctx context.Context, target string) error {
	if f.rps <= 0 {
		return nil
	}

	u, err := url.Parse(target)
	if err != nil {
		return err
	}

	f.mu.Lock()
	limiter, ok := f.limiters[u.Host]
	if !ok {
		burst := int(f.rps)
		if burst < 1 {
			burst = 1
		}

		limiter = rate.NewLimiter(rate.Limit(f.rps), burst)
		f.limiters[u.Host] = limiter
	}
	f.mu.Unlock()

	return limiter.Wait(ctx)
}
