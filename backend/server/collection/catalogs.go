package collection

import (
	"net/http"
	"satchel/backend/utils"
	"satchel/shared"
	"satchel/shared/endpoints"
)

// CatalogsHandler lists the user's catalogs (GET) or creates one (POST)
func (h *Handlers) CatalogsHandler(w http.ResponseWriter, req *http.Request, userID string) {
	switch req.Method {
	case http.MethodGet:
		catalogs, err := h.Library.ListCatalogs(userID)
		if err != nil {
			writeError(w, req, err)
			return
		}

		writeJSON(w, http.StatusOK, catalogs)
	case http.MethodPost:
		var newCatalog shared.NewCatalog
		if utils.LimitedJSONReader(w, req.Body).Decode(&newCatalog) != nil {
			writeError(w, req, ErrBadRequest)
			return
		}

		catalog, err := h.Library.CreateCatalog(userID, newCatalog)
		if err != nil {
			writeError(w, req, err)
			return
		}

		writeJSON(w, http.StatusOK, catalog)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// CatalogHandler returns a catalog with a page of its artifacts (GET),
// renames or re-describes it (PUT), or deletes it (DELETE).
func (h *Handlers) CatalogHandler(w http.ResponseWriter, req *http.Request, userID string) {
	catalogID := utils.GetPathID(req.URL.Path, endpoints.Catalog)
	if len(catalogID) == 0 {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	switch req.Method {
	case http.MethodGet:
		query, err := parseQuery(req.URL.Query())
		if err != nil {
			writeError(w, req, err)
			return
		}

		view, err := h.Library.CatalogView(userID, catalogID, query)
		if err != nil {
			writeError(w, req, err)
			return
		}

		writeJSON(w, http.StatusOK, view)
	case http.MethodPut:
		var mod shared.ModifyItem
		if utils.LimitedJSONReader(w, req.Body).Decode(&mod) != nil {
			writeError(w, req, ErrBadRequest)
			return
		}

		catalog, err := h.Library.UpdateCatalog(userID, catalogID, mod)
		if err != nil {
			writeError(w, req, err)
			return
		}

		writeJSON(w, http.StatusOK, catalog)
	case http.MethodDelete:
		if err := h.Library.DeleteCatalog(userID, catalogID); err != nil {
			writeError(w, req, err)
			return
		}

		w.WriteHeader(http.StatusOK)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// CatalogArtifactsHandler adds (POST) or removes (DELETE) artifacts from a
// catalog and returns the updated catalog.
func (h *Handlers) CatalogArtifactsHandler(w http.ResponseWriter, req *http.Request, userID string) {
	catalogID := utils.GetPathID(req.URL.Path, endpoints.CatalogArtifacts)
	if len(catalogID) == 0 {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	var itemIDs shared.ItemIDs
	if utils.LimitedJSONReader(w, req.Body).Decode(&itemIDs) != nil {
		writeError(w, req, ErrBadRequest)
		return
	}

	var (
		catalog shared.Catalog
		err     error
	)

	switch req.Method {
	case http.MethodPost:
		catalog, err = h.Library.AddToCatalog(userID, catalogID, itemIDs.IDs)
	case http.MethodDelete:
		catalog, err = h.Library.RemoveFromCatalog(userID, catalogID, itemIDs.IDs)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	if err != nil {
		writeError(w, req, err)
		return
	}

	writeJSON(w, http.StatusOK, catalog)
}
