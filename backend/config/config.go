package config

import (
	_ "github.com/joho/godotenv/autoload"
	"log"
	"satchel/backend/logging"
	"satchel/backend/utils"
	"satchel/shared"
	"satchel/shared/constants"
	"strings"
	"time"
)

// =============================================================================
// General configuration
// =============================================================================

const LocalStorage = "local"
const B2Storage = "b2"
const S3Storage = "s3"

var IsDebugMode = utils.GetEnvVarBool("SATCHEL_DEBUG", false)

var storageType = utils.GetEnvVar("SATCHEL_STORAGE", LocalStorage)
var maxNumUsers = utils.GetEnvVarInt("SATCHEL_MAX_NUM_USERS", -1)
var sessionKey = utils.GetEnvVar("SATCHEL_SESSION_KEY", "")
var libraryIdleTime = utils.GetEnvVarDuration("SATCHEL_LIBRARY_IDLE", 30*time.Minute)

// =============================================================================
// Metadata pipeline configuration
// =============================================================================

type MetadataConfig struct {
	IPFSGateways     []string
	ArweaveGateway   string
	BatchSize        int
	BatchDelay       time.Duration
	FetchTimeout     time.Duration
	MaxMetadataBytes int64
	MaxImageBytes    int64
	GatewayRate      float64
	RefreshInterval  int
	RefreshLimit     int
	MirrorImages     bool
}

var metadata = MetadataConfig{
	IPFSGateways: utils.GetEnvVarList(
		"SATCHEL_IPFS_GATEWAYS",
		constants.DefaultIPFSGateways),
	ArweaveGateway: utils.GetEnvVar(
		"SATCHEL_ARWEAVE_GATEWAY",
		constants.DefaultArweaveGateway),
	BatchSize: utils.GetEnvVarInt(
		"SATCHEL_BATCH_SIZE",
		constants.DefaultBatchSize),
	BatchDelay: utils.GetEnvVarDuration(
		"SATCHEL_BATCH_DELAY",
		constants.DefaultBatchDelayMS*time.Millisecond),
	FetchTimeout: utils.GetEnvVarDuration(
		"SATCHEL_FETCH_TIMEOUT",
		constants.DefaultFetchTimeoutSeconds*time.Second),
	MaxMetadataBytes: utils.ParseSizeString(
		utils.GetEnvVar("SATCHEL_MAX_METADATA_SIZE", "5MB")),
	MaxImageBytes: utils.ParseSizeString(
		utils.GetEnvVar("SATCHEL_MAX_IMAGE_SIZE", "25MB")),
	GatewayRate: float64(utils.GetEnvVarInt("SATCHEL_GATEWAY_RPS", 5)),
	RefreshInterval: utils.GetEnvVarInt(
		"SATCHEL_REFRESH_INTERVAL_SECONDS",
		60),
	RefreshLimit: utils.GetEnvVarInt("SATCHEL_REFRESH_LIMIT", 100),
	MirrorImages: utils.GetEnvVarBool("SATCHEL_MIRROR_IMAGES", false),
}

// =============================================================================
// Cache configuration (gateway responses)
// =============================================================================

type CacheConfig struct {
	Enabled bool
	Dir     string
	TTL     time.Duration
}

var cache = CacheConfig{
	Dir: utils.GetEnvVar("SATCHEL_CACHE_DIR", ""),
	TTL: utils.GetEnvVarDuration("SATCHEL_CACHE_TTL", 24*time.Hour),
}

// =============================================================================
// Indexer configuration (wallet token listing)
// =============================================================================

type IndexerConfig struct {
	Configured bool
	BaseURL    string
	APIKey     string
	MaxPages   int
}

var indexer = IndexerConfig{
	BaseURL:  utils.GetEnvVar("SATCHEL_INDEXER_URL", ""),
	APIKey:   utils.GetEnvVar("SATCHEL_INDEXER_API_KEY", ""),
	MaxPages: utils.GetEnvVarInt("SATCHEL_INDEXER_MAX_PAGES", 50),
}

// =============================================================================
// Full server config
// =============================================================================

type ServerConfig struct {
	StorageType     string
	MaxUserCount    int
	SessionKey      string
	LibraryIdleTime time.Duration
	Metadata        MetadataConfig
	Cache           CacheConfig
	Indexer         IndexerConfig
	Version         string
}

var SatchelConfig ServerConfig

func init() {
	if err := logging.Init(IsDebugMode); err != nil {
		log.Fatalf("Unable to initialize logger: %v", err)
	}

	cache.Enabled = len(cache.Dir) > 0
	indexer.Configured = len(indexer.BaseURL) > 0
	indexer.BaseURL = strings.TrimSuffix(indexer.BaseURL, "/")

	if metadata.BatchSize < 1 {
		logWarning("SATCHEL_BATCH_SIZE must be at least 1, using default.")
		metadata.BatchSize = constants.DefaultBatchSize
	}

	var gateways []string
	for _, gateway := range metadata.IPFSGateways {
		gateways = append(gateways, strings.TrimSuffix(gateway, "/"))
	}
	metadata.IPFSGateways = gateways
	metadata.ArweaveGateway = strings.TrimSuffix(metadata.ArweaveGateway, "/")

	if len(sessionKey) == 0 {
		logWarning(
			"Session key is not set, sessions will not survive a restart.",
			"SATCHEL_SESSION_KEY should be set to a ",
			"unique, random value in production.")
	}

	SatchelConfig = ServerConfig{
		StorageType:     storageType,
		MaxUserCount:    maxNumUsers,
		SessionKey:      sessionKey,
		LibraryIdleTime: libraryIdleTime,
		Metadata:        metadata,
		Cache:           cache,
		Indexer:         indexer,
		Version:         constants.VERSION,
	}

	logging.Log.Infof("Configuration:\n"+
		"  Storage:       %s\n"+
		"  Mirror images: %v\n"+
		"  Cache:         %v\n"+
		"  Indexer:       %v\n"+
		"  IPFS gateways: %s\n",
		storageType,
		metadata.MirrorImages,
		cache.Enabled,
		indexer.Configured,
		strings.Join(metadata.IPFSGateways, ", "),
	)

	if IsDebugMode {
		logWarning(
			"DEBUG MODE IS ACTIVE!",
			"DO NOT USE THIS SETTING IN PRODUCTION!")
	}
}

func logWarning(warnings ...string) {
	logging.Log.Warn(strings.Repeat("@", 57))
	for _, warning := range warnings {
		logging.Log.Warn("!!! " + warning)
	}
	logging.Log.Warn(strings.Repeat("@", 57))
}

// GetServerInfoStruct returns the subset of the server config that clients
// are allowed to see.
func GetServerInfoStruct() shared.ServerInfo {
	gateways := make([]string, len(SatchelConfig.Metadata.IPFSGateways))
	copy(gateways, SatchelConfig.Metadata.IPFSGateways)

	return shared.ServerInfo{
		Version:        SatchelConfig.Version,
		StorageBackend: SatchelConfig.StorageType,
		MirrorEnabled:  SatchelConfig.Metadata.MirrorImages,
		IndexerEnabled: SatchelConfig.Indexer.Configured,
		IPFSGateways:   gateways,
		ArweaveGateway: SatchelConfig.Metadata.ArweaveGateway,
	}
}
