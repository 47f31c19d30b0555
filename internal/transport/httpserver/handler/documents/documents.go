package documents

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	documentdomain "record-store-go/internal/domain/document"
	"record-store-go/internal/store"
)

const maxBatchSize = 1000

type createDocumentRequest struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Body  string `json:"body"`
	Tags  string `json:"tags"`
}

type createDocumentsRequest struct {
	Documents []createDocumentRequest `json:"documents"`
}

type updateDocumentRequest struct {
	Title *string `json:"title"`
	Body  *string `json:"body"`
	Tags  *string `json:"tags"`
}

type deleteDocumentsRequest struct {
	IDs []string `json:"ids"`
}

type listDocumentsResponse struct {
	Items []*documentdomain.Document `json:"items"`
}

func (r createDocumentRequest) input() documentdomain.CreateInput {
	return documentdomain.CreateInput{ID: r.ID, Title: r.Title, Body: r.Body, Tags: r.Tags}
}

func (h *Handlers) ListDocuments(w http.ResponseWriter, r *http.Request) {
	ids := parseCSV(r.URL.Query().Get("ids"))
	if len(ids) > maxBatchSize {
		writeError(w, http.StatusBadRequest, "invalid_request", "too many ids")
		return
	}

	docs, err := h.Documents.List(r.Context(), ids)
	if err != nil {
		h.writeServiceError(w, "documents.list", err)
		return
	}
	writeJSON(w, http.StatusOK, listDocumentsResponse{Items: docs})
}

func (h *Handlers) GetDocument(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	doc, err := h.Documents.Get(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, "documents.get", err, "id", id)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (h *Handlers) CreateDocument(w http.ResponseWriter, r *http.Request) {
	var req createDocumentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid json")
		return
	}

	doc, err := h.Documents.Create(r.Context(), req.input())
	if err != nil {
		h.writeServiceError(w, "documents.create", err)
		return
	}
	writeJSON(w, http.StatusCreated, doc)
}

func (h *Handlers) CreateDocuments(w http.ResponseWriter, r *http.Request) {
	var req createDocumentsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid json")
		return
	}
	if len(req.Documents) > maxBatchSize {
		writeError(w, http.StatusBadRequest, "invalid_request", "too many documents")
		return
	}

	inputs := make([]documentdomain.CreateInput, 0, len(req.Documents))
	for _, item := range req.Documents {
		inputs = append(inputs, item.input())
	}

	docs, err := h.Documents.CreateMany(r.Context(), inputs)
	if err != nil {
		h.writeServiceError(w, "documents.create_many", err, "count", len(inputs))
		return
	}
	writeJSON(w, http.StatusCreated, listDocumentsResponse{Items: docs})
}

func (h *Handlers) UpdateDocument(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req updateDocumentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid json")
		return
	}

	doc, err := h.Documents.Update(r.Context(), documentdomain.UpdateInput{
		ID:    id,
		Title: req.Title,
		Body:  req.Body,
		Tags:  req.Tags,
	})
	if err != nil {
		h.writeServiceError(w, "documents.update", err, "id", id)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (h *Handlers) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.Documents.Delete(r.Context(), id); err != nil {
		h.writeServiceError(w, "documents.delete", err, "id", id)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) DeleteDocuments(w http.ResponseWriter, r *http.Request) {
	var req deleteDocumentsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid json")
		return
	}
	if len(req.IDs) > maxBatchSize {
		writeError(w, http.StatusBadRequest, "invalid_request", "too many ids")
		return
	}

	ids := make([]string, 0, len(req.IDs))
	for _, id := range req.IDs {
		ids = append(ids, strings.TrimSpace(id))
	}

	if err := h.Documents.DeleteMany(r.Context(), ids); err != nil {
		h.writeServiceError(w, "documents.delete_many", err, "count", len(ids))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) writeServiceError(w http.ResponseWriter, op string, err error, args ...any) {
	switch {
	case errors.Is(err, documentdomain.ErrDocumentNotFound):
		h.log.BusinessError(op+": document not found", err, args...)
		writeError(w, http.StatusNotFound, "document_not_found", "document not found")
	case errors.Is(err, documentdomain.ErrTitleRequired),
		errors.Is(err, documentdomain.ErrNoFieldsToUpdate),
		errors.Is(err, store.ErrInvalidArgument):
		h.log.BusinessError(op+": invalid request", err, args...)
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, store.ErrBackendFailure):
		h.log.InternalError(op+": backend failed", err, args...)
		writeError(w, http.StatusBadGateway, "backend_failure", "storage backend unavailable")
	default:
		h.log.InternalError(op+": failed", err, args...)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
	}
}
