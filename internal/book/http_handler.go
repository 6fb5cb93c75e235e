package book

import (
	"bookshelf/internal/httpx"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
)

const (
	msgCreated          = "Buku berhasil ditambahkan"
	msgCreateNoName     = "Gagal menambahkan buku. Mohon isi nama buku"
	msgCreateReadPage   = "Gagal menambahkan buku. readPage tidak boleh lebih besar dari pageCount"
	msgCreateBadPayload = "Gagal menambahkan buku. Payload tidak valid"
	msgCreateFailed     = "Buku gagal ditambahkan"

	msgNotFound = "Buku tidak ditemukan"

	msgUpdated          = "Buku berhasil diperbarui"
	msgUpdateNoName     = "Gagal memperbarui buku. Mohon isi nama buku"
	msgUpdateReadPage   = "Gagal memperbarui buku. readPage tidak boleh lebih besar dari pageCount"
	msgUpdateBadPayload = "Gagal memperbarui buku. Payload tidak valid"
	msgUpdateNotFound   = "Gagal memperbarui buku. Id tidak ditemukan"

	msgDeleted         = "Buku berhasil dihapus"
	msgDeleteNotFound  = "Buku gagal dihapus. Id tidak ditemukan"
	msgInternalFailure = "Terjadi kegagalan pada server"
)

type HTTPHandler struct {
	service *Service
	logger  *slog.Logger
}

func NewHTTPHandler(service *Service, logger *slog.Logger) *HTTPHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &HTTPHandler{service: service, logger: logger}
}

// Create handles POST /books
// @Summary Add a book
// @Tags books
// @Accept json
// @Produce json
// @Param request body Input true "Book payload"
// @Success 201 {object} httpx.Response
// @Failure 400 {object} httpx.Response
// @Failure 500 {object} httpx.Response
// @Router /books [post]
func (h *HTTPHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in Input
	if !decodeInput(w, r, &in, msgCreateBadPayload) {
		return
	}

	id, err := h.service.Create(r.Context(), in)
	if err != nil {
		switch {
		case errors.Is(err, ErrNameRequired):
			httpx.JSONFail(w, http.StatusBadRequest, msgCreateNoName)
		case errors.Is(err, ErrReadPageExceeds):
			httpx.JSONFail(w, http.StatusBadRequest, msgCreateReadPage)
		case errors.Is(err, ErrInsertFailed):
			h.logger.ErrorContext(r.Context(), "book insert not visible", "request_id", httpx.RequestIDFrom(r))
			httpx.JSONError(w, http.StatusInternalServerError, msgCreateFailed)
		default:
			h.internalError(w, r, err)
		}
		return
	}

	httpx.JSONSuccessCreated(w, map[string]string{"bookId": id}, msgCreated)
}

// List handles GET /books
// @Summary List books
// @Tags books
// @Produce json
// @Param name query string false "Exact book name"
// @Param reading query int false "0 or 1"
// @Param finished query int false "0 or 1"
// @Success 200 {object} httpx.Response
// @Router /books [get]
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	books, err := h.service.List(r.Context(), parseListQuery(r.URL.Query()))
	if err != nil {
		h.internalError(w, r, err)
		return
	}

	httpx.JSONSuccess(w, map[string]any{"books": books}, "")
}

// GetByID handles GET /books/{bookId}
func (h *HTTPHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	b, err := h.service.GetByID(r.Context(), r.PathValue("bookId"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.JSONFail(w, http.StatusNotFound, msgNotFound)
			return
		}
		h.internalError(w, r, err)
		return
	}

	httpx.JSONSuccess(w, map[string]any{"book": b}, "")
}

// Update handles PUT /books/{bookId}
func (h *HTTPHandler) Update(w http.ResponseWriter, r *http.Request) {
	var in Input
	if !decodeInput(w, r, &in, msgUpdateBadPayload) {
		return
	}

	if err := h.service.Update(r.Context(), r.PathValue("bookId"), in); err != nil {
		switch {
		case errors.Is(err, ErrNameRequired):
			httpx.JSONFail(w, http.StatusBadRequest, msgUpdateNoName)
		case errors.Is(err, ErrReadPageExceeds):
			httpx.JSONFail(w, http.StatusBadRequest, msgUpdateReadPage)
		case errors.Is(err, ErrNotFound):
			httpx.JSONFail(w, http.StatusNotFound, msgUpdateNotFound)
		default:
			h.internalError(w, r, err)
		}
		return
	}

	httpx.JSONSuccess(w, nil, msgUpdated)
}

// Delete handles DELETE /books/{bookId}
func (h *HTTPHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), r.PathValue("bookId")); err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.JSONFail(w, http.StatusNotFound, msgDeleteNotFound)
			return
		}
		h.internalError(w, r, err)
		return
	}

	httpx.JSONSuccess(w, nil, msgDeleted)
}

func (h *HTTPHandler) internalError(w http.ResponseWriter, r *http.Request, err error) {
	h.logger.ErrorContext(r.Context(), "book request failed",
		"method", r.Method,
		"path", r.URL.Path,
		"request_id", httpx.RequestIDFrom(r),
		"error", err,
	)
	httpx.JSONError(w, http.StatusInternalServerError, msgInternalFailure)
}

// decodeInput writes the failure response itself and reports whether the
// handler may continue.
func decodeInput(w http.ResponseWriter, r *http.Request, in *Input, badPayloadMsg string) bool {
	err := httpx.DecodeJSON(r, in)
	switch {
	case err == nil:
		return true
	case errors.Is(err, httpx.ErrPayloadTooLarge):
		httpx.JSONFail(w, http.StatusRequestEntityTooLarge, httpx.MsgPayloadTooLarge)
	default:
		httpx.JSONFail(w, http.StatusBadRequest, badPayloadMsg)
	}
	return false
}

// parseListQuery reads the optional filters. An empty name and any reading or
// finished value other than "0" and "1" leave that filter unset.
func parseListQuery(query url.Values) ListQuery {
	var q ListQuery
	if name := query.Get("name"); name != "" {
		q.Name = &name
	}
	q.Reading = parseFlag(query.Get("reading"))
	q.Finished = parseFlag(query.Get("finished"))
	return q
}

func parseFlag(s string) *bool {
	var v bool
	switch s {
	case "0":
		v = false
	case "1":
		v = true
	default:
		return nil
	}
	return &v
}
