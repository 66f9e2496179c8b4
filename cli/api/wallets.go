package api

import (
	"net/http"
	"satchel/shared"
	"satchel/shared/endpoints"
)

func (ctx *Context) GetWallets() ([]shared.Wallet, error) {
	var wallets []shared.Wallet
	err := ctx.send(http.MethodGet, endpoints.Wallets.Format(ctx.Server), nil, &wallets)
	return wallets, err
}

// AddWallet registers a wallet address and returns its new ID
func (ctx *Context) AddWallet(wallet shared.NewWallet) (string, error) {
	var resp shared.NewWalletResponse
	err := ctx.send(http.MethodPost, endpoints.Wallets.Format(ctx.Server), wallet, &resp)
	return resp.ID, err
}

// RemoveWallet deletes a wallet and every artifact imported from it,
// returning the number of artifacts removed.
func (ctx *Context) RemoveWallet(walletID string) (int, error) {
	var resp shared.DeleteResponse
	err := ctx.send(http.MethodDelete, endpoints.Wallet.Format(ctx.Server, walletID), nil, &resp)
	return resp.Removed, err
}

func (ctx *Context) SyncWallet(walletID string) (shared.SyncResponse, error) {
	var resp shared.SyncResponse
	err := ctx.send(http.MethodPost, endpoints.WalletSync.Format(ctx.Server, walletID), nil, &resp)
	return resp, err
}
