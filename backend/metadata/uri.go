package metadata

import (
	"net/url"
	"regexp"
	"satchel/shared/constants"
	"strings"
)

type Scheme int

const (
	SchemeUnknown Scheme = iota
	SchemeIPFS
	SchemeArweave
	SchemeHTTP
	SchemeData
)

// Ref is a parsed content reference. For IPFS and Arweave refs, Path holds the
// gateway-independent "<cid>/<path>" part; for HTTP and data refs it holds
// the full URI.
type Ref struct {
	Scheme   Scheme
	Path     string
	Original string
}

var (
	cidV0 = regexp.MustCompile(`^Qm[1-9A-HJ-NP-Za-km-z]{44}$`)
	cidV1 = regexp.MustCompile(`^b[a-z2-7]{58,}$`)
)

// IsCID reports whether s looks like an IPFS content identifier (base58 CIDv0
// or base32 CIDv1).
func IsCID(s string) bool {
	return cidV0.MatchString(s) || cidV1.MatchString(s)
}

// ParseURI classifies a token, image or animation URI.
func ParseURI(raw string) Ref {
	uri := strings.TrimSpace(raw)
	if len(uri) == 0 {
		return Ref{}
	}

	lower := strings.ToLower(uri)
	switch {
	case strings.HasPrefix(lower, "data:"):
		return Ref{Scheme: SchemeData, Path: uri, Original: uri}
	case strings.HasPrefix(lower, "ipfs://"):
		path := strings.TrimLeft(uri[len("ipfs://"):], "/")
		if strings.HasPrefix(strings.ToLower(path), "ipfs/") {
			path = path[len("ipfs/"):]
		}

		if len(path) == 0 {
			return Ref{Original: uri}
		}

		return Ref{Scheme: SchemeIPFS, Path: path, Original: uri}
	case strings.HasPrefix(lower, "ar://"):
		path := strings.TrimLeft(uri[len("ar://"):], "/")
		if len(path) == 0 {
			return Ref{Original: uri}
		}

		return Ref{Scheme: SchemeArweave, Path: path, Original: uri}
	case strings.HasPrefix(lower, "/ipfs/"):
		return Ref{Scheme: SchemeIPFS, Path: uri[len("/ipfs/"):], Original: uri}
	case strings.HasPrefix(lower, "http://"), strings.HasPrefix(lower, "https://"):
		return parseHTTP(uri)
	}

	cid := strings.SplitN(uri, "/", 2)[0]
	if IsCID(cid) {
		return Ref{Scheme: SchemeIPFS, Path: uri, Original: uri}
	}

	return Ref{Original: uri}
}

// parseHTTP detects URLs that point at a public gateway so that the content
// can be re-requested through the configured gateways instead.
func parseHTTP(uri string) Ref {
	u, err := url.Parse(uri)
	if err != nil {
		return Ref{Scheme: SchemeHTTP, Path: uri, Original: uri}
	}

	suffix := ""
	if len(u.RawQuery) > 0 {
		suffix = "?" + u.RawQuery
	}

	path := u.EscapedPath()
	if idx := strings.Index(path, "/ipfs/"); idx >= 0 {
		contentPath := path[idx+len("/ipfs/"):]
		if IsCID(strings.SplitN(contentPath, "/", 2)[0]) {
			return Ref{Scheme: SchemeIPFS, Path: contentPath + suffix, Original: uri}
		}
	}

	// Subdomain gateways, i.e. https://<cid>.ipfs.dweb.link/path
	host := u.Hostname()
	if idx := strings.Index(host, ".ipfs."); idx > 0 && IsCID(host[:idx]) {
		return Ref{
			Scheme:   SchemeIPFS,
			Path:     host[:idx] + strings.TrimSuffix(path, "/") + suffix,
			Original: uri,
		}
	}

	if strings.EqualFold(host, "arweave.net") && len(strings.Trim(path, "/")) > 0 {
		return Ref{
			Scheme:   SchemeArweave,
			Path:     strings.TrimPrefix(path, "/") + suffix,
			Original: uri,
		}
	}

	return Ref{Scheme: SchemeHTTP, Path: uri, Original: uri}
}

// CacheKey returns a gateway independent key for the content behind a URI
func (ref Ref) CacheKey() string {
	switch ref.Scheme {
	case SchemeIPFS:
		return "ipfs://" + ref.Path
	case SchemeArweave:
		return "ar://" + ref.Path
	default:
		return ref.Path
	}
}

// Resolver rewrites content references into fetchable gateway URLs
type Resolver struct {
	ipfsGateways   []string
	arweaveGateway string
}

func NewResolver(ipfsGateways []string, arweaveGateway string) *Resolver {
	if len(ipfsGateways) == 0 {
		ipfsGateways = constants.DefaultIPFSGateways
	}

	if len(arweaveGateway) == 0 {
		arweaveGateway = constants.DefaultArweaveGateway
	}

	var gateways []string
	for _, gateway := range ipfsGateways {
		gateways = append(gateways, strings.TrimSuffix(gateway, "/"))
	}

	return &Resolver{
		ipfsGateways:   gateways,
		arweaveGateway: strings.TrimSuffix(arweaveGateway, "/"),
	}
}

// CandidateURLs lists the URLs to try, in order, when fetching the content
// behind raw. A gateway URL found in the wild is kept as the last resort
// after the configured gateways.
func (r *Resolver) CandidateURLs(raw string) []string {
	ref := ParseURI(raw)
	var candidates []string

	switch ref.Scheme {
	case SchemeIPFS:
		for _, gateway := range r.ipfsGateways {
			candidates = append(candidates, gateway+"/ipfs/"+ref.Path)
		}
	case SchemeArweave:
		candidates = append(candidates, r.arweaveGateway+"/"+ref.Path)
	case SchemeHTTP, SchemeData:
		return []string{ref.Path}
	default:
		return nil
	}

	lowerOriginal := strings.ToLower(ref.Original)
	if strings.HasPrefix(lowerOriginal, "http://") || strings.HasPrefix(lowerOriginal, "https://") {
		found := false
		for _, candidate := range candidates {
			if candidate == ref.Original {
				found = true
				break
			}
		}

		if !found {
			candidates = append(candidates, ref.Original)
		}
	}

	return candidates
}

// GatewayURL returns the preferred display URL for raw, or an empty string if
// the URI can't be resolved.
func (r *Resolver) GatewayURL(raw string) string {
	candidates := r.CandidateURLs(raw)
	if len(candidates) == 0 {
		return ""
	}

	return candidates[0]
}
