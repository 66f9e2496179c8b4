package collection

import (
	"fmt"
	"net/http"
	"satchel/backend/indexer"
	"satchel/backend/utils"
	"satchel/shared"
	"satchel/shared/constants"
	"satchel/shared/endpoints"
	"strings"
)

// WalletsHandler lists the user's wallets (GET) or adds a new one (POST)
func (h *Handlers) WalletsHandler(w http.ResponseWriter, req *http.Request, userID string) {
	switch req.Method {
	case http.MethodGet:
		wallets, err := h.Wallets.GetWallets(userID)
		if err != nil {
			writeError(w, req, err)
			return
		}

		writeJSON(w, http.StatusOK, wallets)
	case http.MethodPost:
		var newWallet shared.NewWallet
		if utils.LimitedJSONReader(w, req.Body).Decode(&newWallet) != nil {
			writeError(w, req, ErrBadRequest)
			return
		}

		newWallet, err := validateWallet(newWallet)
		if err != nil {
			writeError(w, req, err)
			return
		}

		id, err := h.Wallets.AddWallet(userID, newWallet)
		if err != nil {
			writeError(w, req, err)
			return
		}

		writeJSON(w, http.StatusOK, shared.NewWalletResponse{ID: id})
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// WalletHandler removes a wallet along with every artifact imported from it
func (h *Handlers) WalletHandler(w http.ResponseWriter, req *http.Request, userID string) {
	walletID := utils.GetPathID(req.URL.Path, endpoints.Wallet)
	if len(walletID) == 0 || req.Method != http.MethodDelete {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	if _, err := h.Wallets.GetWallet(userID, walletID); err != nil {
		writeError(w, req, err)
		return
	}

	removed, err := h.Library.RemoveWalletArtifacts(userID, walletID)
	if err != nil {
		writeError(w, req, err)
		return
	}

	if err = h.Wallets.DeleteWallet(userID, walletID); err != nil {
		writeError(w, req, err)
		return
	}

	writeJSON(w, http.StatusOK, shared.DeleteResponse{Removed: removed})
}

// WalletSyncHandler pulls the wallet's current tokens from the indexer and
// imports them into the user's library.
func (h *Handlers) WalletSyncHandler(w http.ResponseWriter, req *http.Request, userID string) {
	walletID := utils.GetPathID(req.URL.Path, endpoints.WalletSync)
	if len(walletID) == 0 {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	wallet, err := h.Wallets.GetWallet(userID, walletID)
	if err != nil {
		writeError(w, req, err)
		return
	}

	result, err := indexer.Sync(
		req.Context(),
		h.Indexer,
		h.Library,
		userID,
		wallet,
		h.Wallets.SetWalletSynced)
	if err != nil {
		writeError(w, req, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func validateWallet(wallet shared.NewWallet) (shared.NewWallet, error) {
	wallet.Network = shared.Network(strings.ToLower(strings.TrimSpace(string(wallet.Network))))
	if !shared.IsValidNetwork(wallet.Network) {
		return wallet, fmt.Errorf("%w: unsupported network %q", ErrBadRequest, wallet.Network)
	}

	wallet.Address = shared.NormalizeAddress(wallet.Network, wallet.Address)
	if !shared.IsValidAddress(wallet.Network, wallet.Address) {
		return wallet, fmt.Errorf("%w: invalid %s address", ErrBadRequest, wallet.Network)
	}

	wallet.Nickname = strings.TrimSpace(wallet.Nickname)
	if len(wallet.Nickname) > constants.MaxNameLen {
		return wallet, fmt.Errorf("%w: nickname is too long", ErrBadRequest)
	}

	return wallet, nil
}
