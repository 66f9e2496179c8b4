package collection

import (
	"fmt"
	"net/http"
	"net/url"
	"satchel/backend/library"
	"satchel/backend/utils"
	"satchel/shared"
	"satchel/shared/endpoints"
	"strconv"
	"strings"
)

// ArtifactsHandler returns a filtered, sorted page of the user's artifacts
func (h *Handlers) ArtifactsHandler(w http.ResponseWriter, req *http.Request, userID string) {
	query, err := parseQuery(req.URL.Query())
	if err != nil {
		writeError(w, req, err)
		return
	}

	resp, err := h.Library.QueryArtifacts(userID, query)
	if err != nil {
		writeError(w, req, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// ArtifactHandler returns (GET) or deletes (DELETE) a single artifact. A
// DELETE to the bare artifacts endpoint removes every artifact in the body.
func (h *Handlers) ArtifactHandler(w http.ResponseWriter, req *http.Request, userID string) {
	artifactID := utils.GetPathID(req.URL.Path, endpoints.Artifact)

	switch req.Method {
	case http.MethodGet:
		if len(artifactID) == 0 {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		artifact, err := h.Library.GetArtifact(userID, artifactID)
		if err != nil {
			writeError(w, req, err)
			return
		}

		writeJSON(w, http.StatusOK, artifact)
	case http.MethodDelete:
		ids := []string{artifactID}
		if len(artifactID) == 0 {
			var itemIDs shared.ItemIDs
			if utils.LimitedJSONReader(w, req.Body).Decode(&itemIDs) != nil {
				writeError(w, req, ErrBadRequest)
				return
			}

			ids = itemIDs.IDs
		}

		removed, err := h.Library.DeleteArtifacts(userID, ids)
		if err != nil {
			writeError(w, req, err)
			return
		}

		writeJSON(w, http.StatusOK, shared.DeleteResponse{Removed: removed})
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// SpamHandler flags or unflags a batch of artifacts as spam
func (h *Handlers) SpamHandler(w http.ResponseWriter, req *http.Request, userID string) {
	var spam shared.SetSpam
	if utils.LimitedJSONReader(w, req.Body).Decode(&spam) != nil {
		writeError(w, req, ErrBadRequest)
		return
	}

	changed, err := h.Library.SetSpam(userID, spam.IDs, spam.Spam)
	if err != nil {
		writeError(w, req, err)
		return
	}

	writeJSON(w, http.StatusOK, shared.SpamResponse{Changed: changed})
}

// RefreshHandler runs artifacts through the metadata pipeline. Without ids,
// the user's pending artifacts are refreshed instead.
func (h *Handlers) RefreshHandler(w http.ResponseWriter, req *http.Request, userID string) {
	var refresh shared.RefreshRequest
	if utils.LimitedJSONReader(w, req.Body).Decode(&refresh) != nil {
		writeError(w, req, ErrBadRequest)
		return
	}

	var (
		resp shared.RefreshResponse
		err  error
	)

	if len(refresh.IDs) == 0 {
		resp, err = h.Library.RefreshPending(req.Context(), userID, h.RefreshLimit)
	} else {
		resp, err = h.Library.RefreshMetadata(req.Context(), userID, refresh.IDs, refresh.Force)
	}

	if err != nil {
		writeError(w, req, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// ImageHandler serves the artifact's image, either from the mirror, decoded
// from an inline data uri, or as a redirect to the preferred gateway.
func (h *Handlers) ImageHandler(w http.ResponseWriter, req *http.Request, userID string) {
	artifactID := utils.GetPathID(req.URL.Path, endpoints.ArtifactImage)
	if len(artifactID) == 0 {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	image, err := h.Library.ImageSource(userID, artifactID)
	if err != nil {
		writeError(w, req, err)
		return
	}

	if len(image.RedirectURL) > 0 {
		http.Redirect(w, req, image.RedirectURL, http.StatusFound)
		return
	}

	w.Header().Set("Content-Type", image.ContentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(image.Data)))
	w.Header().Set("Cache-Control", "private, max-age=86400")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	_, _ = w.Write(image.Data)
}

// MirrorHandler copies the artifact's image into the configured storage
func (h *Handlers) MirrorHandler(w http.ResponseWriter, req *http.Request, userID string) {
	artifactID := utils.GetPathID(req.URL.Path, endpoints.ArtifactMirror)
	if len(artifactID) == 0 {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	artifact, err := h.Library.MirrorImage(req.Context(), userID, artifactID)
	if err != nil {
		writeError(w, req, err)
		return
	}

	writeJSON(w, http.StatusOK, artifact)
}

// parseQuery reads artifact filters from the url. List values may be given
// as repeated params or comma separated.
func parseQuery(values url.Values) (library.Query, error) {
	query := library.Query{
		WalletIDs: listParam(values, "wallet"),
		CatalogID: values.Get("catalog"),
		FolderID:  values.Get("folder"),
		Search:    values.Get("q"),
		Sort:      values.Get("sort"),
		Status:    shared.MetadataStatus(values.Get("status")),
	}

	for _, network := range listParam(values, "network") {
		if !shared.IsValidNetwork(shared.Network(network)) {
			return query, fmt.Errorf("%w: unknown network %q", ErrBadRequest, network)
		}

		query.Networks = append(query.Networks, shared.Network(network))
	}

	for _, mediaType := range listParam(values, "media") {
		query.MediaTypes = append(query.MediaTypes, shared.MediaType(mediaType))
	}

	switch query.Status {
	case "", shared.MetadataPending, shared.MetadataOK, shared.MetadataFailed:
	default:
		return query, fmt.Errorf("%w: unknown status %q", ErrBadRequest, query.Status)
	}

	if len(query.Sort) > 0 && !utils.Contains(library.SortFields, query.Sort) {
		return query, fmt.Errorf("%w: unknown sort field %q", ErrBadRequest, query.Sort)
	}

	var err error
	if query.IncludeSpam, err = boolParam(values, "spam"); err != nil {
		return query, err
	} else if query.Desc, err = boolParam(values, "desc"); err != nil {
		return query, err
	} else if query.Offset, err = intParam(values, "offset"); err != nil {
		return query, err
	} else if query.Limit, err = intParam(values, "limit"); err != nil {
		return query, err
	}

	return query, nil
}

func listParam(values url.Values, key string) []string {
	var result []string
	for _, value := range values[key] {
		for _, item := range strings.Split(value, ",") {
			if item = strings.TrimSpace(item); len(item) > 0 {
				result = append(result, item)
			}
		}
	}

	return result
}

func boolParam(values url.Values, key string) (bool, error) {
	value := values.Get(key)
	if len(value) == 0 {
		return false, nil
	}

	result, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("%w: %s must be true or false", ErrBadRequest, key)
	}

	return result, nil
}

func intParam(values url.Values, key string) (int, error) {
	value := values.Get(key)
	if len(value) == 0 {
		return 0, nil
	}

	result, err := strconv.Atoi(value)
	if err != nil || result < 0 {
		return 0, fmt.Errorf("%w: %s must be a positive number", ErrBadRequest, key)
	}

	return result, nil
}
