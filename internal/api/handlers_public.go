package api

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/inkwell-hq/inkwell/internal/api/respond"
	"github.com/inkwell-hq/inkwell/internal/content"
	"github.com/inkwell-hq/inkwell/internal/model"
)

// PublicHandler serves the cached public reads. Backend failures never
// surface to visitors: listing endpoints degrade to an empty result and the
// error is logged server-side.
type PublicHandler struct {
	fetcher     content.Fetcher
	recentLimit int
	log         zerolog.Logger
}

func NewPublicHandler(f content.Fetcher, recentLimit int, log zerolog.Logger) *PublicHandler {
	return &PublicHandler{fetcher: f, recentLimit: recentLimit, log: log}
}

// ListPosts GET /api/posts
func (h *PublicHandler) ListPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := h.fetcher.ListPosts(r.Context())
	if err != nil {
		h.log.Error().Stack().Err(err).Msg("public posts listing failed")
		posts = []*model.Post{}
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"posts": posts, "count": len(posts)})
}

// GetPost GET /api/posts/{id}
func (h *PublicHandler) GetPost(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	post, err := h.fetcher.GetPost(r.Context(), id)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			respond.WriteNotFound(w, "post not found")
			return
		}
		h.log.Error().Stack().Err(err).Str("id", id).Msg("public post fetch failed")
		respond.WriteInternalError(w, "content unavailable")
		return
	}
	respond.WriteJSON(w, http.StatusOK, post)
}

// ListThoughts GET /api/thoughts
func (h *PublicHandler) ListThoughts(w http.ResponseWriter, r *http.Request) {
	thoughts, err := h.fetcher.ListThoughts(r.Context())
	if err != nil {
		h.log.Error().Stack().Err(err).Msg("public thoughts listing failed")
		thoughts = []*model.Thought{}
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"thoughts": thoughts, "count": len(thoughts)})
}

// ListEvents GET /api/events
func (h *PublicHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.fetcher.ListEvents(r.Context())
	if err != nil {
		h.log.Error().Stack().Err(err).Msg("public events listing failed")
		events = []*model.Event{}
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"events": events, "count": len(events)})
}

// Summary GET /api/summary
func (h *PublicHandler) Summary(w http.ResponseWriter, r *http.Request) {
	sum, err := h.fetcher.Summary(r.Context(), h.recentLimit)
	if err != nil {
		h.log.Error().Stack().Err(err).Msg("summary fetch failed")
		sum = &model.Summary{RecentPosts: []*model.Post{}}
	}
	respond.WriteJSON(w, http.StatusOK, sum)
}
