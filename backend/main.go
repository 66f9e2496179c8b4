package main

import (
	"fmt"
	_ "github.com/joho/godotenv/autoload"
	"satchel/backend/cache"
	"satchel/backend/config"
	"satchel/backend/cron"
	"satchel/backend/db"
	"satchel/backend/indexer"
	"satchel/backend/library"
	"satchel/backend/logging"
	"satchel/backend/metadata"
	"satchel/backend/server"
	"satchel/backend/server/collection"
	"satchel/backend/storage"
	"satchel/backend/utils"
)

func main() {
	defer logging.Sync()

	if err := db.Init(); err != nil {
		logging.Log.Fatalf("Unable to initialize database: %v", err)
	}

	defer db.Close()

	cfg := config.SatchelConfig

	var metadataCache *cache.Cache
	if cfg.Cache.Enabled {
		var err error
		metadataCache, err = cache.Open(cfg.Cache.Dir, cfg.Cache.TTL)
		if err != nil {
			logging.Log.Fatalf("Unable to open metadata cache: %v", err)
		}

		defer metadataCache.Close()
	}

	resolver := metadata.NewResolver(cfg.Metadata.IPFSGateways, cfg.Metadata.ArweaveGateway)
	fetcherOpts := metadata.FetcherOptions{
		Timeout:           cfg.Metadata.FetchTimeout,
		MaxBytes:          cfg.Metadata.MaxMetadataBytes,
		RequestsPerSecond: cfg.Metadata.GatewayRate,
	}

	if metadataCache != nil {
		fetcherOpts.Cache = metadataCache
	}

	fetcher := metadata.NewFetcher(resolver, fetcherOpts)

	opts := library.Options{
		Resolver: resolver,
		Processor: metadata.NewProcessor(
			fetcher,
			resolver,
			cfg.Metadata.BatchSize,
			cfg.Metadata.BatchDelay),
		MaxImageBytes: cfg.Metadata.MaxImageBytes,
	}

	var backend storage.Backend
	if cfg.Metadata.MirrorImages {
		var err error
		backend, err = storage.Init(cfg.StorageType)
		if err != nil {
			logging.Log.Fatalf("Unable to initialize storage: %v", err)
		}

		opts.Storage = backend
		opts.Media = fetcher
	}

	lib := library.NewService(db.Remote{}, opts)

	handlers := &collection.Handlers{
		Library:      lib,
		Wallets:      db.Wallets{},
		RefreshLimit: cfg.Metadata.RefreshLimit,
	}

	if cfg.Indexer.Configured {
		handlers.Indexer = indexer.NewHTTPProvider(
			cfg.Indexer.BaseURL,
			cfg.Indexer.APIKey,
			cfg.Indexer.MaxPages,
			cfg.Metadata.FetchTimeout)
	}

	c := cron.InitCronTasks(cron.Deps{
		Library:   lib,
		Cache:     metadataCache,
		Storage:   backend,
		LimiterFn: server.ManageLimiters,
	})
	defer c.Stop()

	host := utils.GetEnvVar("SATCHEL_HOST", "localhost")
	port := utils.GetEnvVar("SATCHEL_PORT", "8090")

	addr := fmt.Sprintf("%s:%s", host, port)

	server.Run(addr, handlers)
}
