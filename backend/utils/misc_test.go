package utils

import (
	"github.com/stretchr/testify/assert"
	"net/http/httptest"
	"satchel/shared/endpoints"
	"testing"
	"time"
)

func TestGetEnvVarUnsetsValue(t *testing.T) {
	t.Setenv("SATCHEL_TEST_VALUE", " value ")
	assert.Equal(t, "value", GetEnvVar("SATCHEL_TEST_VALUE", "fallback"))
	assert.Equal(t, "fallback", GetEnvVar("SATCHEL_TEST_VALUE", "fallback"))
}

func TestGetEnvVarTyped(t *testing.T) {
	t.Setenv("SATCHEL_TEST_INT", "42")
	t.Setenv("SATCHEL_TEST_BAD_INT", "forty-two")
	t.Setenv("SATCHEL_TEST_BOOL", "y")
	t.Setenv("SATCHEL_TEST_DURATION", "750ms")
	t.Setenv("SATCHEL_TEST_LIST", "https://a.example, ,https://b.example")

	assert.Equal(t, 42, GetEnvVarInt("SATCHEL_TEST_INT", 1))
	assert.Equal(t, 1, GetEnvVarInt("SATCHEL_TEST_BAD_INT", 1))
	assert.True(t, GetEnvVarBool("SATCHEL_TEST_BOOL", false))
	assert.Equal(t, 750*time.Millisecond,
		GetEnvVarDuration("SATCHEL_TEST_DURATION", time.Second))
	assert.Equal(t,
		[]string{"https://a.example", "https://b.example"},
		GetEnvVarList("SATCHEL_TEST_LIST", nil))
	assert.Equal(t, []string{"x"}, GetEnvVarList("SATCHEL_TEST_MISSING", []string{"x"}))
}

func TestParseSizeString(t *testing.T) {
	assert.Equal(t, int64(5*1024*1024), ParseSizeString("5MB"))
	assert.Equal(t, int64(2*1024*1024*1024), ParseSizeString("2G"))
	assert.Equal(t, int64(1234), ParseSizeString("1234"))
	assert.Equal(t, int64(0), ParseSizeString("lots"))
}

func TestGetTrailingURLSegments(t *testing.T) {
	segments := GetTrailingURLSegments("/api/v1/catalogs/abc", endpoints.Catalog)
	assert.Equal(t, []string{"abc"}, segments)

	segments = GetTrailingURLSegments("/api/v1/catalogs/", endpoints.Catalog)
	assert.Empty(t, segments)
}

func TestGetPathID(t *testing.T) {
	assert.Equal(t, "xyz",
		GetPathID("/api/v1/catalogs/xyz/artifacts", endpoints.CatalogArtifacts))
	assert.Equal(t, "w1", GetPathID("/api/v1/wallets/w1/sync?x=1", endpoints.WalletSync))
	assert.Equal(t, "", GetPathID("/api/v1/catalogs", endpoints.Catalog))
}

func TestGetReqSource(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req.RemoteAddr = "10.0.0.1:5555"

	ip, err := GetReqSource(req)
	assert.Nil(t, err)
	assert.Equal(t, "10.0.0.1", ip)

	req.Header.Set("X-Forwarded-For", "192.168.1.1")
	ip, err = GetReqSource(req)
	assert.Nil(t, err)
	assert.Equal(t, "192.168.1.1", ip)
}
