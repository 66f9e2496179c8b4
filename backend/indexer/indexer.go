// Package indexer lists the tokens held by a wallet through an external
// indexing service and imports them into a user's library.
package indexer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"satchel/backend/library"
	"satchel/backend/logging"
	"satchel/backend/metadata"
	"satchel/shared"
	"satchel/shared/constants"
	"time"
)

var ErrNotConfigured = errors.New("no indexer is configured")
var ErrTooManyPages = errors.New("indexer returned too many pages")

const maxPageBytes = 10 * 1024 * 1024

// Provider lists every token currently held by a wallet
type Provider interface {
	ListTokens(ctx context.Context, wallet shared.Wallet) ([]library.Token, error)
}

type tokenPage struct {
	Tokens []struct {
		ContractAddress string `json:"contractAddress"`
		TokenID         string `json:"tokenId"`
		Name            string `json:"name"`
		Description     string `json:"description"`
		CollectionName  string `json:"collectionName"`
		TokenURI        string `json:"tokenUri"`
		ImageURI        string `json:"imageUri"`
		AnimationURI    string `json:"animationUri"`
		IsSpam          bool   `json:"isSpam"`
	} `json:"tokens"`
	Next string `json:"next"`
}

// HTTPProvider reads tokens from <base>/<network>/<address>, following the
// "next" cursor of each page.
type HTTPProvider struct {
	baseURL  string
	apiKey   string
	maxPages int
	client   *http.Client
}

func NewHTTPProvider(baseURL, apiKey string, maxPages int, timeout time.Duration) *HTTPProvider {
	if maxPages < 1 {
		maxPages = 1
	}

	return &HTTPProvider{
		baseURL:  baseURL,
		apiKey:   apiKey,
		maxPages: maxPages,
		client:   &http.Client{Timeout: timeout},
	}
}

func (p *HTTPProvider) ListTokens(ctx context.Context, wallet shared.Wallet) ([]library.Token, error) {
	var tokens []library.Token
	cursor := ""

	for page := 0; page < p.maxPages; page++ {
		result, err := p.fetchPage(ctx, wallet, cursor)
		if err != nil {
			return nil, err
		}

		for _, token := range result.Tokens {
			tokens = append(tokens, library.Token{
				ContractAddress: token.ContractAddress,
				TokenID:         token.TokenID,
				Name:            token.Name,
				Description:     token.Description,
				CollectionName:  token.CollectionName,
				TokenURI:        token.TokenURI,
				ImageURI:        token.ImageURI,
				AnimationURI:    token.AnimationURI,
				IsSpam:          token.IsSpam,
			})
		}

		if len(result.Next) == 0 {
			return tokens, nil
		}

		cursor = result.Next
	}

	// A partial listing would make the import remove artifacts the wallet
	// still holds, so it's an error rather than a truncated result
	return nil, ErrTooManyPages
}

func (p *HTTPProvider) fetchPage(ctx context.Context, wallet shared.Wallet, cursor string) (tokenPage, error) {
	target := fmt.Sprintf("%s/%s/%s",
		p.baseURL,
		url.PathEscape(string(wallet.Network)),
		url.PathEscape(wallet.Address))
	if len(cursor) > 0 {
		target += "?cursor=" + url.QueryEscape(cursor)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return tokenPage{}, err
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "satchel/"+constants.VERSION)
	if len(p.apiKey) > 0 {
		req.Header.Set("Authorization", "Bearer "+p.apiKey)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return tokenPage{}, err
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return tokenPage{}, fmt.Errorf("indexer: %w", metadata.StatusError{StatusCode: resp.StatusCode})
	}

	var page tokenPage
	err = json.NewDecoder(io.LimitReader(resp.Body, maxPageBytes)).Decode(&page)
	if err != nil {
		return tokenPage{}, fmt.Errorf("invalid indexer response: %w", err)
	}

	return page, nil
}

// Sync imports a wallet's current tokens into the user's library and stamps
// the wallet as synced.
func Sync(
	ctx context.Context,
	provider Provider,
	lib *library.Service,
	userID string,
	wallet shared.Wallet,
	markSynced func(walletID string, synced time.Time) error,
) (shared.SyncResponse, error) {
	if provider == nil {
		return shared.SyncResponse{}, ErrNotConfigured
	}

	tokens, err := provider.ListTokens(ctx, wallet)
	if err != nil {
		return shared.SyncResponse{}, fmt.Errorf("list tokens: %w", err)
	}

	result, err := lib.ImportWalletTokens(userID, wallet, tokens)
	if err != nil {
		return shared.SyncResponse{}, err
	}

	if err = markSynced(wallet.ID, time.Now().UTC()); err != nil {
		logging.Log.Warnf("Unable to update sync time for wallet %s: %v", wallet.ID, err)
	}

	logging.Log.Debugf("Synced wallet %s: %+v", wallet.ID, result)
	return result, nil
}
