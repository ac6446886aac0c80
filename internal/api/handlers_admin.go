package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/inkwell-hq/inkwell/internal/api/respond"
	"github.com/inkwell-hq/inkwell/internal/model"
	"github.com/inkwell-hq/inkwell/internal/services"
)

// AdminHandler exposes the mutation actions and unfiltered reads to the
// dashboard. Mutations answer 200 with the action's result shape; the
// dashboard reads success/error out of the body, not the HTTP status.
type AdminHandler struct {
	svc *services.Content
	log zerolog.Logger
}

func NewAdminHandler(svc *services.Content, log zerolog.Logger) *AdminHandler {
	return &AdminHandler{svc: svc, log: log}
}

// Register mounts the per-kind admin routes on r (expected to be the
// /api/admin subrouter, already behind the auth middleware).
func (h *AdminHandler) Register(r *mux.Router) {
	registerKind(r, "posts", h.svc.Posts, h.svc.AllPosts, h.svc.GetPost,
		func(p *model.Post, id string) { p.ID = id })
	registerKind(r, "thoughts", h.svc.Thoughts, h.svc.AllThoughts, h.svc.GetThought,
		func(t *model.Thought, id string) { t.ID = id })
	registerKind(r, "events", h.svc.Events, h.svc.AllEvents, h.svc.GetEvent,
		func(e *model.Event, id string) { e.ID = id })
}

// registerKind wires the identical route set for one content kind. One
// parametrized registration keeps the three kinds from drifting apart.
func registerKind[T any](
	r *mux.Router,
	name string,
	act *services.Actions[T],
	list func(context.Context) ([]*T, error),
	get func(context.Context, string) (*T, error),
	setID func(*T, string),
) {
	r.HandleFunc("/"+name, func(w http.ResponseWriter, req *http.Request) {
		rows, err := list(req.Context())
		if err != nil {
			respond.WriteInternalError(w, err.Error())
			return
		}
		respond.WriteJSON(w, http.StatusOK, map[string]interface{}{name: rows, "count": len(rows)})
	}).Methods("GET")

	r.HandleFunc("/"+name+"/{id}", func(w http.ResponseWriter, req *http.Request) {
		row, err := get(req.Context(), mux.Vars(req)["id"])
		if err != nil {
			if errors.Is(err, model.ErrNotFound) {
				respond.WriteNotFound(w, name+" entry not found")
				return
			}
			respond.WriteInternalError(w, err.Error())
			return
		}
		respond.WriteJSON(w, http.StatusOK, row)
	}).Methods("GET")

	// Create: a payload id, if any, is ignored.
	r.HandleFunc("/"+name, func(w http.ResponseWriter, req *http.Request) {
		var row T
		if err := json.NewDecoder(req.Body).Decode(&row); err != nil {
			respond.WriteBadRequest(w, "Invalid JSON")
			return
		}
		setID(&row, "")
		respond.WriteJSON(w, http.StatusOK, act.Save(req.Context(), &row))
	}).Methods("POST")

	// Update: the path id wins over whatever the body carries.
	r.HandleFunc("/"+name+"/{id}", func(w http.ResponseWriter, req *http.Request) {
		var row T
		if err := json.NewDecoder(req.Body).Decode(&row); err != nil {
			respond.WriteBadRequest(w, "Invalid JSON")
			return
		}
		setID(&row, mux.Vars(req)["id"])
		respond.WriteJSON(w, http.StatusOK, act.Save(req.Context(), &row))
	}).Methods("PUT")

	r.HandleFunc("/"+name+"/{id}", func(w http.ResponseWriter, req *http.Request) {
		respond.WriteJSON(w, http.StatusOK, act.Remove(req.Context(), mux.Vars(req)["id"]))
	}).Methods("DELETE")

	r.HandleFunc("/"+name+"/{id}/status", func(w http.ResponseWriter, req *http.Request) {
		var body struct {
			Status model.Status `json:"status"`
		}
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
			respond.WriteBadRequest(w, "Invalid JSON")
			return
		}
		respond.WriteJSON(w, http.StatusOK, act.UpdateStatus(req.Context(), mux.Vars(req)["id"], body.Status))
	}).Methods("PATCH")
}
