package constants

const VERSION = "0.4.0"

const CLIUserAgent = "satchel-cli"

const AuthSessionStore = "auth"

const LimiterSeconds = 30
const LimiterAttempts = 6

// System catalog kinds. Every user library holds exactly one catalog of each
// system kind alongside any number of user catalogs.
const (
	CatalogKindUser        = "user"
	CatalogKindSpam        = "spam"
	CatalogKindUnorganized = "unorganized"
)

const SpamCatalogName = "Spam"
const UnorganizedCatalogName = "Unorganized"

const MaxNameLen = 100
const MaxDescriptionLen = 1000
const MinPasswordLen = 8
const SessionKeyLength = 16

const DefaultBatchSize = 10
const DefaultBatchDelayMS = 500
const DefaultFetchTimeoutSeconds = 15
const DefaultQueryLimit = 100
const MaxQueryLimit = 500
const MaxRefreshItems = 1000

const DefaultArweaveGateway = "https://arweave.net"

var DefaultIPFSGateways = []string{
	"https://ipfs.io",
	"https://cloudflare-ipfs.com",
	"https://gateway.pinata.cloud",
	"https://dweb.link",
}
