package server

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"satchel/backend/logging"
	"satchel/backend/server/auth"
	"satchel/backend/server/collection"
	"satchel/backend/server/misc"
	"satchel/backend/server/session"
	"satchel/shared/endpoints"
	"syscall"
	"time"
)

type HttpMethod int

const (
	GET HttpMethod = 1 << iota
	PUT
	POST
	DELETE
	ALL = GET | PUT | POST | DELETE
)

var MethodMap = map[HttpMethod]string{
	GET:    http.MethodGet,
	PUT:    http.MethodPut,
	POST:   http.MethodPost,
	DELETE: http.MethodDelete,
}

// routes maps every API path to its handler. Handlers that fan out to
// gateways or the indexer are limited per user.
func routes(h *collection.Handlers) []RouteDef {
	return []RouteDef{
		// Auth (signup, login/logout, session)
		{POST, endpoints.Signup, LimiterMiddleware(auth.SignupHandler)},
		{POST, endpoints.Login, LimiterMiddleware(auth.LoginHandler)},
		{GET | POST, endpoints.Logout, auth.LogoutHandler},
		{GET, endpoints.Session, session.SessionHandler},

		// Wallets
		{GET | POST, endpoints.Wallets, AuthMiddleware(h.WalletsHandler)},
		{DELETE, endpoints.Wallet, AuthMiddleware(h.WalletHandler)},
		{POST, endpoints.WalletSync, AuthLimiterMiddleware(h.WalletSyncHandler)},

		// Artifacts
		{GET, endpoints.Artifacts, AuthMiddleware(h.ArtifactsHandler)},
		{DELETE, endpoints.Artifacts, AuthMiddleware(h.ArtifactHandler)},
		{GET | DELETE, endpoints.Artifact, AuthMiddleware(h.ArtifactHandler)},
		{PUT, endpoints.ArtifactSpam, AuthMiddleware(h.SpamHandler)},
		{POST, endpoints.ArtifactRefresh, AuthLimiterMiddleware(h.RefreshHandler)},
		{GET, endpoints.ArtifactImage, AuthMiddleware(h.ImageHandler)},
		{POST, endpoints.ArtifactMirror, AuthLimiterMiddleware(h.MirrorHandler)},

		// Catalogs
		{GET | POST, endpoints.Catalogs, AuthMiddleware(h.CatalogsHandler)},
		{GET | PUT | DELETE, endpoints.Catalog, AuthMiddleware(h.CatalogHandler)},
		{POST | DELETE, endpoints.CatalogArtifacts, AuthMiddleware(h.CatalogArtifactsHandler)},

		// Folders
		{GET | POST, endpoints.Folders, AuthMiddleware(h.FoldersHandler)},
		{GET | PUT | DELETE, endpoints.Folder, AuthMiddleware(h.FolderHandler)},
		{POST | DELETE, endpoints.FolderCatalogs, AuthMiddleware(h.FolderCatalogsHandler)},

		// Misc
		{GET, "/up", misc.UpHandler},
		{GET, endpoints.ServerInfo, misc.InfoHandler},
	}
}

// Run maps URL paths to handlers for the server and begins listening on the
// configured address until interrupted.
func Run(addr string, handlers *collection.Handlers) {
	r := newRouter()
	r.AddRoutes(routes(handlers))

	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM)
	defer stop()

	go func() {
		logging.Log.Infof("Running on http://%s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Log.Fatalf("listen and serve returned err: %v", err)
		}
	}()

	<-ctx.Done()
	logging.Log.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.Log.Warnf("Error during shutdown: %v", err)
	}
}
