package collection

import (
	"net/http"
	"satchel/backend/utils"
	"satchel/shared"
	"satchel/shared/endpoints"
)

// FoldersHandler lists the user's folders (GET) or creates one (POST)
func (h *Handlers) FoldersHandler(w http.ResponseWriter, req *http.Request, userID string) {
	switch req.Method {
	case http.MethodGet:
		folders, err := h.Library.ListFolders(userID)
		if err != nil {
			writeError(w, req, err)
			return
		}

		writeJSON(w, http.StatusOK, folders)
	case http.MethodPost:
		var newFolder shared.NewFolder
		if utils.LimitedJSONReader(w, req.Body).Decode(&newFolder) != nil {
			writeError(w, req, ErrBadRequest)
			return
		}

		folder, err := h.Library.CreateFolder(userID, newFolder)
		if err != nil {
			writeError(w, req, err)
			return
		}

		writeJSON(w, http.StatusOK, folder)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (h *Handlers) FolderHandler(w http.ResponseWriter, req *http.Request, userID string) {
	folderID := utils.GetPathID(req.URL.Path, endpoints.Folder)
	if len(folderID) == 0 {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	switch req.Method {
	case http.MethodGet:
		view, err := h.Library.FolderView(userID, folderID)
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

		folder, err := h.Library.UpdateFolder(userID, folderID, mod)
		if err != nil {
			writeError(w, req, err)
			return
		}

		writeJSON(w, http.StatusOK, folder)
	case http.MethodDelete:
		if err := h.Library.DeleteFolder(userID, folderID); err != nil {
			writeError(w, req, err)
			return
		}

		w.WriteHeader(http.StatusOK)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (h *Handlers) FolderCatalogsHandler(w http.ResponseWriter, req *http.Request, userID string) {
	folderID := utils.GetPathID(req.URL.Path, endpoints.FolderCatalogs)
	if len(folderID) == 0 {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	var itemIDs shared.ItemIDs
	if utils.LimitedJSONReader(w, req.Body).Decode(&itemIDs) != nil {
		writeError(w, req, ErrBadRequest)
		return
	}

	var (
		folder shared.Folder
		err    error
	)

	switch req.Method {
	case http.MethodPost:
		folder, err = h.Library.AddCatalogsToFolder(userID, folderID, itemIDs.IDs)
	case http.MethodDelete:
		folder, err = h.Library.RemoveCatalogsFromFolder(userID, folderID, itemIDs.IDs)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	if err != nil {
		writeError(w, req, err)
		return
	}

	writeJSON(w, http.StatusOK, folder)
}
