package library

import (
	"context"
	"net/http"
	"time"

	"tripdesk/filemgr"
	"tripdesk/utils"

	"github.com/julienschmidt/httprouter"
)

// POST /api/library/item/:id/media
// Accepts a multipart "media" image, stores it with a thumbnail, and appends
// its URL to the item's media list.
func (h *Handler) UploadMedia(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid form data")
		return
	}

	file, header, err := r.FormFile("media")
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Media file missing")
		return
	}
	defer file.Close()

	url, err := filemgr.SaveImage(file, header.Filename)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Failed to save media file")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	updated, err := h.store.AddMedia(ctx, ps.ByName("id"), url)
	if err != nil {
		respondStoreError(w, err, "Failed to attach media")
		return
	}

	h.invalidate(ctx)
	utils.RespondWithJSON(w, http.StatusOK, updated)
}
