package printdoc

import (
	"context"
	"net/http"
	"time"

	"tripdesk/itinerary"
	"tripdesk/utils"

	"github.com/julienschmidt/httprouter"
	"github.com/skip2/go-qrcode"
)

// Handler streams itinerary PDFs. Reads only; there is no write-back path
// from the renderer.
type Handler struct {
	store itinerary.Store
}

func NewHandler(store itinerary.Store) *Handler {
	return &Handler{store: store}
}

// GET /api/itineraries/:id/print
func (h *Handler) PrintItinerary(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	it, err := h.store.Get(ctx, id)
	if err != nil {
		switch err {
		case itinerary.ErrNotFound:
			utils.RespondWithError(w, http.StatusNotFound, "Itinerary not found")
		case itinerary.ErrInvalidID:
			utils.RespondWithError(w, http.StatusBadRequest, "Invalid itinerary ID")
		default:
			utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch itinerary")
		}
		return
	}

	// QR resolves back to this itinerary for the front desk
	qrPNG, err := qrcode.Encode("tripdesk://itinerary/"+id, qrcode.Medium, 256)
	if err != nil {
		qrPNG = nil
	}

	pdfBytes, err := Render(it, qrPNG)
	if err == ErrMissingDays {
		utils.RespondWithError(w, http.StatusBadRequest, "Itinerary has no day schedule")
		return
	}
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to generate PDF")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=itinerary-"+id+".pdf")
	w.WriteHeader(http.StatusOK)
	w.Write(pdfBytes)
}
