package httpapi

import (
	"errors"
	"io"
	"net/http"

	"github.com/dmitrijs2005/vaultacks/internal/common"
	"github.com/dmitrijs2005/vaultacks/internal/logging"
	"github.com/dmitrijs2005/vaultacks/internal/netx"
	"github.com/dmitrijs2005/vaultacks/internal/server/services"
)

const emptyDocument = "{}"

// OverviewHandler serves the shared overview document.
type OverviewHandler struct {
	service  *services.OverviewService
	log      logging.Logger
	docID    string
	maxBytes int64
}

func NewOverviewHandler(svc *services.OverviewService, log logging.Logger, maxBytes int64) *OverviewHandler {
	return &OverviewHandler{service: svc, log: log, docID: common.OverviewDocumentID, maxBytes: maxBytes}
}

// HandleGet handles GET /overview. A document that was never written is
// served as "{}" with version 0.
func (h *OverviewHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	o, err := h.service.Get(r.Context(), h.docID)
	if err != nil {
		h.log.Error(r.Context(), "get overview", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		return
	}

	body := o.Body
	if len(body) == 0 {
		body = []byte(emptyDocument)
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("ETag", netx.FormatETag(o.Version))
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

// HandlePut handles PUT /overview. The write is applied only when If-Match
// names the current version.
func (h *OverviewHandler) HandlePut(w http.ResponseWriter, r *http.Request) {
	address, ok := AddressFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}

	tag := r.Header.Get("If-Match")
	if tag == "" {
		writeJSON(w, http.StatusPreconditionRequired, errorResponse("If-Match header required"))
		return
	}
	expected, err := netx.ParseETag(tag)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse("malformed If-Match header"))
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)
	body, err := io.ReadAll(r.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse("request body too large"))
			return
		}
		writeJSON(w, http.StatusBadRequest, errorResponse("invalid request body"))
		return
	}

	next, err := h.service.Put(r.Context(), h.docID, body, expected, address)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrEmptyBody), errors.Is(err, common.ErrInvalidBody):
			writeJSON(w, http.StatusBadRequest, errorResponse(err.Error()))
		case errors.Is(err, common.ErrVersionConflict):
			if cur, gerr := h.service.Get(r.Context(), h.docID); gerr == nil {
				w.Header().Set("ETag", netx.FormatETag(cur.Version))
			}
			writeJSON(w, http.StatusPreconditionFailed, errorResponse(err.Error()))
		default:
			h.log.Error(r.Context(), "put overview", "error", err)
			writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		}
		return
	}

	w.Header().Set("ETag", netx.FormatETag(next))
	writeJSON(w, http.StatusOK, map[string]int64{"version": next})
}

// HandleHealth answers liveness probes.
func HandleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
