package endpoints

import (
	"fmt"
	"strings"
)

const apiVersion = "v1"

type Endpoint string

var (
	Signup     = genEndpoint("/api/%s/signup")
	Login      = genEndpoint("/api/%s/login")
	Logout     = genEndpoint("/api/%s/logout")
	Session    = genEndpoint("/api/%s/session")
	ServerInfo = genEndpoint("/api/%s/info")

	Wallets    = genEndpoint("/api/%s/wallets")
	Wallet     = genEndpoint("/api/%s/wallets/*")
	WalletSync = genEndpoint("/api/%s/wallets/*/sync")

	Artifacts       = genEndpoint("/api/%s/artifacts")
	Artifact        = genEndpoint("/api/%s/artifacts/*")
	ArtifactSpam    = genEndpoint("/api/%s/spam")
	ArtifactRefresh = genEndpoint("/api/%s/refresh")
	ArtifactImage   = genEndpoint("/api/%s/image/*")
	ArtifactMirror  = genEndpoint("/api/%s/mirror/*")

	Catalogs         = genEndpoint("/api/%s/catalogs")
	Catalog          = genEndpoint("/api/%s/catalogs/*")
	CatalogArtifacts = genEndpoint("/api/%s/catalogs/*/artifacts")

	Folders        = genEndpoint("/api/%s/folders")
	Folder         = genEndpoint("/api/%s/folders/*")
	FolderCatalogs = genEndpoint("/api/%s/folders/*/catalogs")
)

var JSVarNameMap = map[Endpoint]string{
	Signup:     "Signup",
	Login:      "Login",
	Logout:     "Logout",
	Session:    "Session",
	ServerInfo: "ServerInfo",

	Wallets:    "Wallets",
	Wallet:     "Wallet",
	WalletSync: "WalletSync",

	Artifacts:       "Artifacts",
	Artifact:        "Artifact",
	ArtifactSpam:    "ArtifactSpam",
	ArtifactRefresh: "ArtifactRefresh",
	ArtifactImage:   "ArtifactImage",
	ArtifactMirror:  "ArtifactMirror",

	Catalogs:         "Catalogs",
	Catalog:          "Catalog",
	CatalogArtifacts: "CatalogArtifacts",

	Folders:        "Folders",
	Folder:         "Folder",
	FolderCatalogs: "FolderCatalogs",
}

func genEndpoint(fmtStr string) Endpoint {
	if !strings.Contains(fmtStr, "%s") {
		return Endpoint(fmtStr)
	}

	return Endpoint(fmt.Sprintf(fmtStr, apiVersion))
}

// Format replaces each wildcard in the endpoint with the provided args (in
// order) and prefixes the result with the server address.
func (e Endpoint) Format(server string, args ...string) string {
	strEndpoint := string(e)
	for _, arg := range args {
		strEndpoint = strings.Replace(strEndpoint, "*", arg, 1)
	}

	// Remove remaining wildcards
	strEndpoint = strings.ReplaceAll(strEndpoint, "*", "")

	server = strings.TrimSuffix(server, "/")
	strEndpoint = strings.TrimPrefix(strEndpoint, "/")
	url := fmt.Sprintf("%s/%s", server, strEndpoint)
	return url
}
