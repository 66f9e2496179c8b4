package commands

import (
	"bytes"
	"encoding/json"
	"errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"satchel/cli/config"
	"satchel/shared"
	"satchel/shared/endpoints"
	"strings"
	"testing"
)

// setup points the CLI config at a test server, optionally with a saved
// session
func setup(t *testing.T, session string, handler http.HandlerFunc) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	t.Setenv("HOME", t.TempDir())
	paths, err := config.SetupConfigDir()
	require.Nil(t, err)
	require.Nil(t, config.WriteConfig(paths, config.Config{
		Server:   server.URL,
		PageSize: 10,
	}))

	if len(session) > 0 {
		require.Nil(t, paths.SetSession(session))
	}
}

func run(args ...string) (string, error) {
	var out bytes.Buffer

	cmd := NewRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), err
}

func TestSessionRequired(t *testing.T) {
	setup(t, "", func(w http.ResponseWriter, req *http.Request) {
		_ = json.NewEncoder(w).Encode(shared.ServerInfo{Version: "test"})
	})

	_, err := run("wallets", "list")
	assert.True(t, errors.Is(err, errNotLoggedIn))

	_, err = run("catalogs", "add", "c1", "a1")
	assert.True(t, errors.Is(err, errNotLoggedIn))

	out, err := run("info", "--json")
	require.Nil(t, err)
	assert.Contains(t, out, `"version": "test"`)
}

func TestWalletsList(t *testing.T) {
	setup(t, "session", func(w http.ResponseWriter, req *http.Request) {
		if req.URL.Path != string(endpoints.Wallets) {
			w.WriteHeader(http.StatusNotFound)
			return
		}

		_ = json.NewEncoder(w).Encode([]shared.Wallet{{
			ID:       "w1",
			Address:  "0xabc",
			Network:  shared.NetworkBase,
			Nickname: "main",
		}})
	})

	out, err := run("wallets", "list")
	require.Nil(t, err)
	assert.Contains(t, out, "0xabc")
	assert.Contains(t, out, "never")

	out, err = run("wallets", "ls", "--json")
	require.Nil(t, err)

	var wallets []shared.Wallet
	require.Nil(t, json.Unmarshal([]byte(out), &wallets))
	assert.Equal(t, "main", wallets[0].Nickname)
}

func TestWalletsAddValidatesInput(t *testing.T) {
	setup(t, "session", func(w http.ResponseWriter, req *http.Request) {
		http.Error(w, "unexpected request", http.StatusTeapot)
	})

	_, err := run("wallets", "add", "0xabc", "--network", "dogecoin")
	require.NotNil(t, err)
	assert.Contains(t, err.Error(), "unsupported network")

	_, err = run("wallets", "add", "0xabc", "--network", "ethereum")
	require.NotNil(t, err)
	assert.Contains(t, err.Error(), "invalid ethereum address")
}

func TestArtifactsListPaging(t *testing.T) {
	setup(t, "session", func(w http.ResponseWriter, req *http.Request) {
		query := req.URL.Query()
		if query.Get("offset") != "10" || query.Get("limit") != "10" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		if query.Get("network") != "ethereum,base" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		_ = json.NewEncoder(w).Encode(shared.ArtifactQueryResponse{
			Artifacts: []shared.Artifact{{ID: "a1", Name: "Relic", IsSpam: true}},
			Total:     11,
		})
	})

	out, err := run("artifacts", "list", "--network", "ethereum,base", "--page", "2")
	require.Nil(t, err)
	assert.Contains(t, out, "Relic")
	assert.Contains(t, out, "spam")
	assert.Contains(t, out, "Showing 11-11 of 11")
}

func TestCatalogEdit(t *testing.T) {
	var received map[string]any
	setup(t, "session", func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodPut {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}

		_ = json.NewDecoder(req.Body).Decode(&received)
		_ = json.NewEncoder(w).Encode(shared.Catalog{ID: "c1", Name: "Renamed"})
	})

	_, err := run("catalogs", "edit", "c1")
	assert.True(t, errors.Is(err, errNothingToModify))

	out, err := run("catalogs", "rename", "c1", "--name", "Renamed")
	require.Nil(t, err)
	assert.Contains(t, out, "Updated catalog Renamed")
	assert.Equal(t, map[string]any{"name": "Renamed"}, received)
}

func TestRemoveJSONSkipsConfirmation(t *testing.T) {
	setup(t, "session", func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodDelete {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}

		_ = json.NewEncoder(w).Encode(shared.DeleteResponse{Removed: 2})
	})

	out, err := run("artifacts", "rm", "a1,a2", "--json")
	require.Nil(t, err)
	assert.Contains(t, out, `"removed": 2`)
}

func TestServerErrorsSurface(t *testing.T) {
	setup(t, "session", func(w http.ResponseWriter, req *http.Request) {
		http.Error(w, "Image mirroring is not enabled", http.StatusNotImplemented)
	})

	_, err := run("artifacts", "mirror", "a1")
	require.NotNil(t, err)
	assert.Contains(t, err.Error(), "disabled")

	_, err = run("folders", "show", "f1")
	require.NotNil(t, err)
	assert.True(t, strings.Contains(err.Error(), "501"))
}

func TestRenderImage(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 40, 20))
	for x := 0; x < 40; x++ {
		for y := 0; y < 20; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 6), G: 80, B: uint8(y * 12), A: 255})
		}
	}

	var buf bytes.Buffer
	require.Nil(t, png.Encode(&buf, img))

	art, err := renderImage(buf.Bytes(), 20)
	require.Nil(t, err)
	assert.NotEmpty(t, art)

	scaled := downscale(img, 20)
	assert.Equal(t, 20, scaled.Bounds().Dx())
	assert.Equal(t, 5, scaled.Bounds().Dy())

	_, err = renderImage([]byte("not an image"), 20)
	assert.NotNil(t, err)
}
