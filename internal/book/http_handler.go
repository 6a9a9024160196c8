package book

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"mylibrary/internal/hal"
	"mylibrary/internal/httpx"
)

const conflictDetail = "Book with such ISBN already exists"

type HTTPHandler struct {
	service   *Service
	assembler *Assembler
	logger    *slog.Logger
}

func NewHTTPHandler(service *Service, assembler *Assembler, logger *slog.Logger) *HTTPHandler {
	return &HTTPHandler{service: service, assembler: assembler, logger: logger}
}

// Register mounts the book routes on mux.
func (h *HTTPHandler) Register(mux *http.ServeMux) {
	collection := h.assembler.CollectionPath()
	item := h.assembler.ItemPath()

	mux.HandleFunc("GET "+collection, h.List)
	mux.HandleFunc("POST "+collection, h.Create)
	mux.HandleFunc("GET "+item, h.GetByISBN)
	mux.HandleFunc("PUT "+item, h.Update)
	mux.HandleFunc("DELETE "+item, h.Delete)
}

// @Summary Retrieve all Books
// @Tags books
// @Produce application/hal+json
// @Param page query int false "Results page you want to retrieve (0..N)" default(0)
// @Param size query int false "Number of records per page" default(10)
// @Param sort query []string false "Sorting criteria: property(,asc|desc)" collectionFormat(multi)
// @Success 200 {object} PagedResources
// @Failure 400 {object} httpx.Problem
// @Router /books [get]
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	req, err := ParsePageRequest(r.URL.Query())
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	page, err := h.service.List(r.Context(), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeHAL(w, r, http.StatusOK, h.assembler.ToPagedResources(r, page))
}

// @Summary Retrieve a Book resource by identifier
// @Tags books
// @Produce application/hal+json
// @Param isbn path string true "Book ISBN"
// @Success 200 {object} Resource
// @Failure 404 {object} httpx.Problem
// @Router /books/{isbn} [get]
func (h *HTTPHandler) GetByISBN(w http.ResponseWriter, r *http.Request) {
	v, err := h.service.GetByISBN(r.Context(), r.PathValue("isbn"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeHAL(w, r, http.StatusOK, h.assembler.ToResource(r, v))
}

// @Summary Create a book
// @Tags books
// @Accept json
// @Produce application/hal+json
// @Param book body Request true "Book"
// @Success 201 {object} Resource
// @Failure 400 {object} httpx.Problem
// @Failure 409 {object} httpx.Problem
// @Router /books [post]
func (h *HTTPHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req Request
	if !h.decode(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		h.writeError(w, r, err)
		return
	}

	v, err := h.service.Create(r.Context(), req.View())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeHAL(w, r, http.StatusCreated, h.assembler.ToResource(r, v))
}

// @Summary Update a book
// @Description Only the title of an existing book is changed.
// @Tags books
// @Accept json
// @Produce application/hal+json
// @Param isbn path string true "Book ISBN"
// @Param book body Request true "Book"
// @Success 200 {object} Resource
// @Failure 400 {object} httpx.Problem
// @Failure 404 {object} httpx.Problem
// @Router /books/{isbn} [put]
func (h *HTTPHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req Request
	if !h.decode(w, r, &req) {
		return
	}

	isbn := r.PathValue("isbn")
	if req.ISBN == "" {
		req.ISBN = isbn
	}
	if req.ISBN != isbn {
		h.writeError(w, r, &ValidationError{Violations: []FieldViolation{{
			Field:   "isbn",
			Rule:    "path",
			Message: "isbn must match the isbn in the path",
		}}})
		return
	}
	if err := req.Validate(); err != nil {
		h.writeError(w, r, err)
		return
	}

	v, err := h.service.Update(r.Context(), req.View())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeHAL(w, r, http.StatusOK, h.assembler.ToResource(r, v))
}

// @Summary Delete a book
// @Tags books
// @Param isbn path string true "Book ISBN"
// @Success 204
// @Failure 404 {object} httpx.Problem
// @Router /books/{isbn} [delete]
func (h *HTTPHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), r.PathValue("isbn")); err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.NoContent(w)
}

func (h *HTTPHandler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			httpx.WriteProblem(w, r, httpx.PayloadTooLarge())
			return false
		}
		httpx.WriteProblem(w, r, httpx.BadRequest("Request body is not valid JSON"))
		return false
	}
	return true
}

func (h *HTTPHandler) writeHAL(w http.ResponseWriter, r *http.Request, status int, v any) {
	if err := httpx.WriteJSON(w, status, hal.MediaType, v); err != nil {
		h.logger.Warn("write response",
			slog.String("request_id", httpx.RequestIDFrom(r)),
			slog.Any("error", err),
		)
	}
}

func (h *HTTPHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *ValidationError
	switch {
	case errors.Is(err, ErrNotFound):
		httpx.WriteProblem(w, r, httpx.NotFound())
	case errors.Is(err, ErrConflict):
		httpx.WriteProblem(w, r, httpx.Conflict(conflictDetail))
	case errors.As(err, &verr):
		httpx.WriteProblem(w, r, httpx.ValidationFailed(violationProblems(verr)))
	default:
		h.logger.Error("request failed",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("request_id", httpx.RequestIDFrom(r)),
			slog.Any("error", err),
		)
		httpx.WriteProblem(w, r, httpx.Internal())
	}
}

func violationProblems(verr *ValidationError) []httpx.Problem {
	out := make([]httpx.Problem, 0, len(verr.Violations))
	for _, v := range verr.Violations {
		out = append(out, httpx.Problem{
			Title:  "Invalid " + v.Field,
			Detail: v.Message,
			Type:   v.Field + "." + v.Rule,
		})
	}
	return out
}
