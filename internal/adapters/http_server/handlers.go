// internal/adapters/http_server/handlers.go
package httpserver

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"flavor_sentiment/internal/app"
	"flavor_sentiment/internal/domain"
)

const maxCommentLimit = 200

// Queries is the read side the handlers serve.
type Queries interface {
	ListSentiments(ctx context.Context) ([]domain.SentimentView, error)
	ListComments(ctx context.Context, flavor string, limit int) ([]domain.CommentView, error)
}

type Handlers struct{ Q Queries }

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

type sentimentsResponse struct {
	Data []domain.SentimentView `json:"data"`
}

type commentsResponse struct {
	Flavor string               `json:"flavor"`
	Data   []domain.CommentView `json:"data"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Get("/v1/sentiments", h.listSentiments)
	s.mux.Get("/v1/flavors/{name}/comments", h.listComments)
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

// writeJSON sends v with a weak ETag, or 304 when the client already has it.
func writeJSON(w http.ResponseWriter, r *http.Request, v any) {
	etag, body := calcETagAndBody(v)
	if body == nil {
		writeProblem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Str("path", r.URL.Path).Msg("failed to write body")
	}
}

func (h *Handlers) listSentiments(w http.ResponseWriter, r *http.Request) {
	out, err := h.Q.ListSentiments(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("list sentiments failed")
		writeProblem(w, http.StatusInternalServerError, "Internal Error", "sentiments unavailable")
		return
	}
	writeJSON(w, r, sentimentsResponse{Data: out})
}

func (h *Handlers) listComments(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if name == "" {
		writeProblem(w, http.StatusBadRequest, "Invalid flavor", "flavor name is required")
		return
	}

	limit := app.DefaultCommentLimit
	if ls := r.URL.Query().Get("limit"); ls != "" {
		l, err := strconv.Atoi(ls)
		if err != nil || l <= 0 || l > maxCommentLimit {
			writeProblem(w, http.StatusBadRequest, "Invalid limit", "limit must be an integer between 1 and 200")
			return
		}
		limit = l
	}

	out, err := h.Q.ListComments(r.Context(), name, limit)
	if err != nil {
		log.Error().Err(err).Str("flavor", name).Msg("list comments failed")
		writeProblem(w, http.StatusInternalServerError, "Internal Error", "comments unavailable")
		return
	}
	writeJSON(w, r, commentsResponse{Flavor: name, Data: out})
}
