package library

import (
	"satchel/shared"
	"satchel/shared/constants"
	"sort"
	"strings"
)

const (
	SortName       = "name"
	SortCollection = "collection"
	SortCreated    = "created"
	SortModified   = "modified"
	SortTokenID    = "tokenId"
)

var SortFields = []string{SortName, SortCollection, SortCreated, SortModified, SortTokenID}

// Query filters, sorts and pages a user's artifacts. Empty filters match
// everything.
type Query struct {
	WalletIDs   []string
	Networks    []shared.Network
	CatalogID   string
	FolderID    string
	MediaTypes  []shared.MediaType
	Status      shared.MetadataStatus
	Search      string
	IncludeSpam bool

	Sort   string
	Desc   bool
	Offset int
	Limit  int
}

// run returns the requested page of artifacts along with the number of
// artifacts that matched before paging.
func (q Query) run(snap *Snapshot) ([]shared.Artifact, int, error) {
	var scope map[string]bool

	if len(q.CatalogID) > 0 {
		if _, ok := snap.catalogs[q.CatalogID]; !ok {
			return nil, 0, ErrNotFound
		}

		scope = toSet(snap.catalogArtifacts[q.CatalogID])
	}

	if len(q.FolderID) > 0 {
		if _, ok := snap.folders[q.FolderID]; !ok {
			return nil, 0, ErrNotFound
		}

		folderScope := make(map[string]bool)
		for _, catalogID := range snap.folderCatalogs[q.FolderID] {
			for _, artifactID := range snap.catalogArtifacts[catalogID] {
				if scope == nil || scope[artifactID] {
					folderScope[artifactID] = true
				}
			}
		}

		scope = folderScope
	}

	includeSpam := q.IncludeSpam || (len(q.CatalogID) > 0 && q.CatalogID == snap.spamID())
	wallets := toSet(q.WalletIDs)
	search := strings.ToLower(strings.TrimSpace(q.Search))

	var matches []shared.Artifact
	for id, artifact := range snap.artifacts {
		if scope != nil && !scope[id] {
			continue
		} else if artifact.IsSpam && !includeSpam {
			continue
		} else if len(wallets) > 0 && !wallets[artifact.WalletID] {
			continue
		} else if len(q.Networks) > 0 && !containsNetwork(q.Networks, artifact.Network) {
			continue
		} else if len(q.MediaTypes) > 0 && !containsMediaType(q.MediaTypes, artifact.MediaType) {
			continue
		} else if len(q.Status) > 0 && artifact.MetadataStatus != q.Status {
			continue
		} else if len(search) > 0 && !matchesSearch(artifact, search) {
			continue
		}

		matches = append(matches, artifact)
	}

	sortArtifacts(matches, q.Sort, q.Desc)

	total := len(matches)
	limit := q.Limit
	if limit <= 0 {
		limit = constants.DefaultQueryLimit
	} else if limit > constants.MaxQueryLimit {
		limit = constants.MaxQueryLimit
	}

	offset := q.Offset
	if offset < 0 {
		offset = 0
	}

	if offset >= total {
		return []shared.Artifact{}, total, nil
	}

	end := offset + limit
	if end > total {
		end = total
	}

	return matches[offset:end], total, nil
}

func matchesSearch(artifact shared.Artifact, search string) bool {
	for _, field := range []string{
		artifact.Name,
		artifact.CollectionName,
		artifact.Description,
		artifact.TokenID,
	} {
		if strings.Contains(strings.ToLower(field), search) {
			return true
		}
	}

	return false
}

func containsNetwork(networks []shared.Network, network shared.Network) bool {
	for _, n := range networks {
		if n == network {
			return true
		}
	}

	return false
}

func containsMediaType(mediaTypes []shared.MediaType, mediaType shared.MediaType) bool {
	for _, m := range mediaTypes {
		if m == mediaType {
			return true
		}
	}

	return false
}

func sortArtifacts(artifacts []shared.Artifact, field string, desc bool) {
	compare := func(a, b shared.Artifact) int {
		switch field {
		case SortCollection:
			return compareFold(a.CollectionName, b.CollectionName)
		case SortCreated:
			return a.Created.Compare(b.Created)
		case SortModified:
			return a.Modified.Compare(b.Modified)
		case SortTokenID:
			return compareTokenIDs(a.TokenID, b.TokenID)
		default:
			return compareFold(a.Name, b.Name)
		}
	}

	sort.Slice(artifacts, func(i, j int) bool {
		cmp := compare(artifacts[i], artifacts[j])
		if cmp == 0 {
			cmp = strings.Compare(artifacts[i].ID, artifacts[j].ID)
			return cmp < 0
		}

		if desc {
			return cmp > 0
		}

		return cmp < 0
	})
}

func compareFold(a, b string) int {
	return strings.Compare(strings.ToLower(a), strings.ToLower(b))
}

// compareTokenIDs orders numeric token IDs by value (they routinely exceed 64
// bits) and anything else lexically after them.
func compareTokenIDs(a, b string) int {
	aNumeric, bNumeric := isDigits(a), isDigits(b)
	switch {
	case aNumeric && bNumeric:
		a = strings.TrimLeft(a, "0")
		b = strings.TrimLeft(b, "0")
		if len(a) != len(b) {
			if len(a) < len(b) {
				return -1
			}

			return 1
		}

		return strings.Compare(a, b)
	case aNumeric:
		return -1
	case bNumeric:
		return 1
	}

	return strings.Compare(a, b)
}

func isDigits(s string) bool {
	if len(s) == 0 {
		return false
	}

	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}

	return true
}
