// Package collection serves the wallet, artifact, catalog and folder API.
package collection

import (
	"encoding/json"
	"errors"
	"net/http"
	"satchel/backend/db"
	"satchel/backend/indexer"
	"satchel/backend/library"
	"satchel/backend/logging"
	"satchel/backend/metadata"
	"satchel/shared"
	"time"
)

// WalletStore holds the wallets added by each user
type WalletStore interface {
	GetWallets(userID string) ([]shared.Wallet, error)
	GetWallet(userID, walletID string) (shared.Wallet, error)
	AddWallet(userID string, wallet shared.NewWallet) (string, error)
	DeleteWallet(userID, walletID string) error
	SetWalletSynced(walletID string, synced time.Time) error
}

type Handlers struct {
	Library *library.Service
	Wallets WalletStore

	// Indexer is nil when no indexing service is configured
	Indexer indexer.Provider

	// RefreshLimit caps how many pending artifacts a refresh without ids
	// picks up
	RefreshLimit int
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Log.Warnf("Error writing response: %v", err)
	}
}

// writeError maps service errors to an HTTP status. Anything unrecognized is
// logged and hidden behind a 500.
func writeError(w http.ResponseWriter, req *http.Request, err error) {
	var statusErr metadata.StatusError

	switch {
	case errors.Is(err, library.ErrNotFound),
		errors.Is(err, db.WalletNotFound),
		errors.Is(err, library.ErrNoImage):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, library.ErrInvalidName),
		errors.Is(err, library.ErrInvalidDescription),
		errors.Is(err, library.ErrTooManyItems),
		errors.Is(err, library.ErrNotImage),
		errors.Is(err, ErrBadRequest):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, library.ErrDuplicateName),
		errors.Is(err, db.WalletAlreadyExists):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, library.ErrSystemCatalog):
		http.Error(w, err.Error(), http.StatusForbidden)
	case errors.Is(err, library.ErrMirrorDisabled),
		errors.Is(err, indexer.ErrNotConfigured):
		http.Error(w, err.Error(), http.StatusNotImplemented)
	case errors.As(err, &statusErr):
		logging.Log.Warnf("%s %s: upstream error: %v", req.Method, req.URL.Path, err)
		http.Error(w, "Upstream request failed", http.StatusBadGateway)
	default:
		logging.Log.Errorf("%s %s: %v", req.Method, req.URL.Path, err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

var ErrBadRequest = errors.New("invalid request")
