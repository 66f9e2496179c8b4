package endpoints

import (
	"github.com/stretchr/testify/assert"
	"testing"
)

func TestFormat(t *testing.T) {
	url := CatalogArtifacts.Format("http://localhost:8090/", "abc")
	assert.Equal(t, "http://localhost:8090/api/v1/catalogs/abc/artifacts", url)

	url = Catalogs.Format("http://localhost:8090")
	assert.Equal(t, "http://localhost:8090/api/v1/catalogs", url)
}

func TestFormatStripsUnusedWildcards(t *testing.T) {
	url := Wallet.Format("http://localhost:8090")
	assert.Equal(t, "http://localhost:8090/api/v1/wallets/", url)
}

func TestAllEndpointsHaveJSNames(t *testing.T) {
	for _, e := range []Endpoint{
		Signup, Login, Logout, Session, ServerInfo,
		Wallets, Wallet, WalletSync,
		Artifacts, Artifact, ArtifactSpam, ArtifactRefresh, ArtifactImage, ArtifactMirror,
		Catalogs, Catalog, CatalogArtifacts,
		Folders, Folder, FolderCatalogs,
	} {
		_, ok := JSVarNameMap[e]
		assert.True(t, ok, "missing JS name for %s", e)
	}
}
