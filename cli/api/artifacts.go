package api

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"satchel/cli/requests"
	"satchel/cli/utils"
	"satchel/shared"
	"satchel/shared/endpoints"
	"strconv"
	"strings"
)

// ArtifactFilter mirrors the query parameters accepted by the artifacts
// endpoint. Zero values are left out of the request.
type ArtifactFilter struct {
	WalletIDs   []string
	Networks    []string
	CatalogID   string
	FolderID    string
	MediaTypes  []string
	Status      string
	Search      string
	IncludeSpam bool
	Sort        string
	Desc        bool
	Offset      int
	Limit       int
}

// Encode returns the filter as a url query string
func (f ArtifactFilter) Encode() string {
	values := url.Values{}
	setList := func(key string, list []string) {
		if len(list) > 0 {
			values.Set(key, strings.Join(list, ","))
		}
	}

	setList("wallet", f.WalletIDs)
	setList("network", f.Networks)
	setList("media", f.MediaTypes)

	for key, value := range map[string]string{
		"catalog": f.CatalogID,
		"folder":  f.FolderID,
		"status":  f.Status,
		"q":       f.Search,
		"sort":    f.Sort,
	} {
		if len(value) > 0 {
			values.Set(key, value)
		}
	}

	if f.IncludeSpam {
		values.Set("spam", "true")
	}

	if f.Desc {
		values.Set("desc", "true")
	}

	if f.Offset > 0 {
		values.Set("offset", strconv.Itoa(f.Offset))
	}

	if f.Limit > 0 {
		values.Set("limit", strconv.Itoa(f.Limit))
	}

	return values.Encode()
}

func withQuery(url string, filter ArtifactFilter) string {
	if query := filter.Encode(); len(query) > 0 {
		return url + "?" + query
	}

	return url
}

func (ctx *Context) GetArtifacts(filter ArtifactFilter) (shared.ArtifactQueryResponse, error) {
	var resp shared.ArtifactQueryResponse
	url := withQuery(endpoints.Artifacts.Format(ctx.Server), filter)
	err := ctx.send(http.MethodGet, url, nil, &resp)
	return resp, err
}

func (ctx *Context) GetArtifact(artifactID string) (shared.Artifact, error) {
	var artifact shared.Artifact
	err := ctx.send(http.MethodGet, endpoints.Artifact.Format(ctx.Server, artifactID), nil, &artifact)
	return artifact, err
}

// DeleteArtifacts removes artifacts from the library, returning how many
// existed and were removed.
func (ctx *Context) DeleteArtifacts(artifactIDs []string) (int, error) {
	var resp shared.DeleteResponse
	err := ctx.send(
		http.MethodDelete,
		endpoints.Artifacts.Format(ctx.Server),
		shared.ItemIDs{IDs: artifactIDs},
		&resp)
	return resp.Removed, err
}

func (ctx *Context) SetSpam(artifactIDs []string, spam bool) (int, error) {
	var resp shared.SpamResponse
	err := ctx.send(
		http.MethodPut,
		endpoints.ArtifactSpam.Format(ctx.Server),
		shared.SetSpam{IDs: artifactIDs, Spam: spam},
		&resp)
	return resp.Changed, err
}

// RefreshMetadata re-runs the metadata pipeline for the given artifacts, or
// for the user's pending artifacts if none are given.
func (ctx *Context) RefreshMetadata(artifactIDs []string, force bool) (shared.RefreshResponse, error) {
	var resp shared.RefreshResponse
	err := ctx.send(
		http.MethodPost,
		endpoints.ArtifactRefresh.Format(ctx.Server),
		shared.RefreshRequest{IDs: artifactIDs, Force: force},
		&resp)
	return resp, err
}

func (ctx *Context) MirrorImage(artifactID string) (shared.Artifact, error) {
	var artifact shared.Artifact
	err := ctx.send(http.MethodPost, endpoints.ArtifactMirror.Format(ctx.Server, artifactID), nil, &artifact)
	return artifact, err
}

// GetImage downloads an artifact's image, following the server's redirect to
// a public gateway without the session cookie. At most maxBytes are read.
func (ctx *Context) GetImage(artifactID string, maxBytes int64) ([]byte, string, error) {
	resp, err := requests.GetRequest(ctx.Session, endpoints.ArtifactImage.Format(ctx.Server, artifactID))
	if err != nil {
		return nil, "", err
	}

	if resp.StatusCode == http.StatusFound {
		location := resp.Header.Get("Location")
		resp.Body.Close()
		if len(location) == 0 {
			return nil, "", fmt.Errorf("image redirect without location")
		}

		resp, err = requests.GetRequest("", location)
		if err != nil {
			return nil, "", err
		}
	}

	if resp.StatusCode != http.StatusOK {
		return nil, "", utils.ParseHTTPError(resp)
	}

	defer resp.Body.Close()
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBytes))
	return data, resp.Header.Get("Content-Type"), err
}
