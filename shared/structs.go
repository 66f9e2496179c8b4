package shared

import "time"

type Network string

const (
	NetworkEthereum Network = "ethereum"
	NetworkPolygon  Network = "polygon"
	NetworkBase     Network = "base"
	NetworkSolana   Network = "solana"
	NetworkTezos    Network = "tezos"
	NetworkBitcoin  Network = "bitcoin"
)

var Networks = []Network{
	NetworkEthereum,
	NetworkPolygon,
	NetworkBase,
	NetworkSolana,
	NetworkTezos,
	NetworkBitcoin,
}

type MediaType string

const (
	MediaImage   MediaType = "image"
	MediaVideo   MediaType = "video"
	MediaAudio   MediaType = "audio"
	MediaModel   MediaType = "model"
	MediaHTML    MediaType = "html"
	MediaUnknown MediaType = "unknown"
)

type MetadataStatus string

const (
	MetadataPending MetadataStatus = "pending"
	MetadataOK      MetadataStatus = "ok"
	MetadataFailed  MetadataStatus = "failed"
)

type Signup struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type SignupResponse struct {
	ID string `json:"id"`
}

type Login struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type SessionInfo struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type ServerInfo struct {
	Version        string   `json:"version"`
	StorageBackend string   `json:"storageBackend"`
	MirrorEnabled  bool     `json:"mirrorEnabled"`
	IndexerEnabled bool     `json:"indexerEnabled"`
	IPFSGateways   []string `json:"ipfsGateways"`
	ArweaveGateway string   `json:"arweaveGateway"`
}

type Wallet struct {
	ID         string    `json:"id"`
	Address    string    `json:"address"`
	Network    Network   `json:"network"`
	Nickname   string    `json:"nickname"`
	LastSynced time.Time `json:"lastSynced"`
	Created    time.Time `json:"created"`
}

type NewWallet struct {
	Address  string  `json:"address"`
	Network  Network `json:"network"`
	Nickname string  `json:"nickname"`
}

type NewWalletResponse struct {
	ID string `json:"id"`
}

type SyncResponse struct {
	Added     int `json:"added"`
	Updated   int `json:"updated"`
	Removed   int `json:"removed"`
	Unchanged int `json:"unchanged"`
}

type Attribute struct {
	TraitType   string `json:"traitType"`
	Value       string `json:"value"`
	DisplayType string `json:"displayType,omitempty"`
}

type Artifact struct {
	ID              string         `json:"id"`
	WalletID        string         `json:"walletId"`
	Network         Network        `json:"network"`
	ContractAddress string         `json:"contractAddress"`
	TokenID         string         `json:"tokenId"`
	Name            string         `json:"name"`
	Description     string         `json:"description"`
	CollectionName  string         `json:"collectionName"`
	TokenURI        string         `json:"tokenUri"`
	ImageURI        string         `json:"imageUri"`
	ImageURL        string         `json:"imageUrl"`
	AnimationURI    string         `json:"animationUri"`
	AnimationURL    string         `json:"animationUrl"`
	ExternalURL     string         `json:"externalUrl"`
	MediaType       MediaType      `json:"mediaType"`
	Attributes      []Attribute    `json:"attributes"`
	MetadataStatus  MetadataStatus `json:"metadataStatus"`
	MetadataError   string         `json:"metadataError,omitempty"`
	MetadataUpdated time.Time      `json:"metadataUpdated"`
	IsSpam          bool           `json:"isSpam"`
	Mirrored        bool           `json:"mirrored"`
	Created         time.Time      `json:"created"`
	Modified        time.Time      `json:"modified"`
}

type Catalog struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Kind        string    `json:"kind"`
	Created     time.Time `json:"created"`
	Modified    time.Time `json:"modified"`
	ArtifactIDs []string  `json:"artifactIds"`
}

type Folder struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Created     time.Time `json:"created"`
	Modified    time.Time `json:"modified"`
	CatalogIDs  []string  `json:"catalogIds"`
}

type NewCatalog struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type NewFolder struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ModifyItem is used to rename or re-describe a catalog or folder. Nil fields
// are left untouched.
type ModifyItem struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
}

type ItemIDs struct {
	IDs []string `json:"ids"`
}

type SetSpam struct {
	IDs  []string `json:"ids"`
	Spam bool     `json:"spam"`
}

type SpamResponse struct {
	Changed int `json:"changed"`
}

type RefreshRequest struct {
	IDs   []string `json:"ids"`
	Force bool     `json:"force"`
}

type RefreshResponse struct {
	Succeeded []string          `json:"succeeded"`
	Failed    map[string]string `json:"failed"`
	Skipped   []string          `json:"skipped"`
}

type ArtifactQueryResponse struct {
	Artifacts []Artifact `json:"artifacts"`
	Total     int        `json:"total"`
}

type CatalogResponse struct {
	Catalog   Catalog    `json:"catalog"`
	Artifacts []Artifact `json:"artifacts"`
	Total     int        `json:"total"`
	FolderIDs []string   `json:"folderIds"`
}

type FolderResponse struct {
	Folder   Folder    `json:"folder"`
	Catalogs []Catalog `json:"catalogs"`
}

type DeleteResponse struct {
	Removed int `json:"removed"`
}
