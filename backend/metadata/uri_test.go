package metadata

import (
	"github.com/stretchr/testify/assert"
	"testing"
)

const (
	testCIDv0 = "QmYwAPJzv5CZsnA625s3Xf2nemtYgPpHdWEz79ojWnPbdG"
	testCIDv1 = "bafybeigdyrzt5sfp7udm7hu76uh7y26nf3efuylqabf3oclgtqy55fbzdi"
)

func TestParseURI(t *testing.T) {
	tests := []struct {
		raw    string
		scheme Scheme
		path   string
	}{
		{"  ipfs://" + testCIDv0 + "/1.json ", SchemeIPFS, testCIDv0 + "/1.json"},
		{"ipfs://ipfs/" + testCIDv0, SchemeIPFS, testCIDv0},
		{"/ipfs/" + testCIDv0 + "/a.png", SchemeIPFS, testCIDv0 + "/a.png"},
		{"https://gateway.pinata.cloud/ipfs/" + testCIDv0 + "/1", SchemeIPFS, testCIDv0 + "/1"},
		{"https://" + testCIDv1 + ".ipfs.dweb.link/meta.json", SchemeIPFS, testCIDv1 + "/meta.json"},
		{testCIDv0, SchemeIPFS, testCIDv0},
		{testCIDv1 + "/2", SchemeIPFS, testCIDv1 + "/2"},
		{"ar://abc123", SchemeArweave, "abc123"},
		{"https://arweave.net/abc123", SchemeArweave, "abc123"},
		{"data:application/json;base64,e30=", SchemeData, "data:application/json;base64,e30="},
		{"https://example.com/1.json", SchemeHTTP, "https://example.com/1.json"},
		{"https://example.com/ipfs/not-a-cid", SchemeHTTP, "https://example.com/ipfs/not-a-cid"},
		{"ftp://example.com/file", SchemeUnknown, ""},
		{"ipfs://", SchemeUnknown, ""},
		{"", SchemeUnknown, ""},
	}

	for _, test := range tests {
		ref := ParseURI(test.raw)
		assert.Equal(t, test.scheme, ref.Scheme, test.raw)
		assert.Equal(t, test.path, ref.Path, test.raw)
	}
}

func TestCandidateURLs(t *testing.T) {
	resolver := NewResolver(
		[]string{"https://a.test/", "https://b.test"},
		"https://ar.test/")

	assert.Equal(t, []string{
		"https://a.test/ipfs/" + testCIDv0 + "/1.json",
		"https://b.test/ipfs/" + testCIDv0 + "/1.json",
	}, resolver.CandidateURLs("ipfs://"+testCIDv0+"/1.json"))

	pinata := "https://gateway.pinata.cloud/ipfs/" + testCIDv0
	assert.Equal(t, []string{
		"https://a.test/ipfs/" + testCIDv0,
		"https://b.test/ipfs/" + testCIDv0,
		pinata,
	}, resolver.CandidateURLs(pinata))

	assert.Equal(t,
		[]string{"https://ar.test/abc"},
		resolver.CandidateURLs("ar://abc"))
	assert.Equal(t,
		[]string{"https://ar.test/abc", "https://arweave.net/abc"},
		resolver.CandidateURLs("https://arweave.net/abc"))
	assert.Equal(t,
		[]string{"https://example.com/1.json"},
		resolver.CandidateURLs("https://example.com/1.json"))
	assert.Empty(t, resolver.CandidateURLs("ftp://example.com"))
}

func TestGatewayURL(t *testing.T) {
	resolver := NewResolver(nil, "")

	assert.Equal(t,
		"https://ipfs.io/ipfs/"+testCIDv0,
		resolver.GatewayURL("ipfs://"+testCIDv0))
	assert.Equal(t,
		"https://arweave.net/xyz",
		resolver.GatewayURL("ar://xyz"))
	assert.Equal(t, "", resolver.GatewayURL(""))
	assert.Equal(t, "", resolver.GatewayURL("not a uri"))
}

func TestCacheKeyIgnoresGateway(t *testing.T) {
	a := ParseURI("https://ipfs.io/ipfs/" + testCIDv0 + "/1.json")
	b := ParseURI("ipfs://" + testCIDv0 + "/1.json")
	assert.Equal(t, a.CacheKey(), b.CacheKey())
}
