package api

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/inkwell-hq/inkwell/internal/api/respond"
	"github.com/inkwell-hq/inkwell/internal/auth"
	"github.com/inkwell-hq/inkwell/internal/revalidate"
)

// WebhookHandler receives change notifications from the backend data
// service: any row change (insert/update/delete) on a content table, even
// ones made outside the mutation actions, lands here and triggers the same
// invalidation mapping. Delivery retries are the dispatcher's problem;
// re-delivery just re-invalidates already-stale tags.
type WebhookHandler struct {
	secret string
	rev    *revalidate.Revalidator
	log    zerolog.Logger
}

func NewWebhookHandler(secret string, rev *revalidate.Revalidator, log zerolog.Logger) *WebhookHandler {
	return &WebhookHandler{secret: secret, rev: rev, log: log}
}

// webhookPayload mirrors the dispatcher's body. Depending on the operation
// the changed row arrives as "record" or "new"; deletes carry "old_record".
type webhookPayload struct {
	Table     string          `json:"table"`
	Record    json.RawMessage `json:"record"`
	New       json.RawMessage `json:"new"`
	OldRecord json.RawMessage `json:"old_record"`
}

// rowID pulls the id out of whichever row object is present.
func (p *webhookPayload) rowID() string {
	for _, raw := range []json.RawMessage{p.Record, p.New, p.OldRecord} {
		if len(raw) == 0 {
			continue
		}
		var row struct {
			ID string `json:"id"`
		}
		if err := json.Unmarshal(raw, &row); err == nil && row.ID != "" {
			return row.ID
		}
	}
	return ""
}

// Handle POST /api/webhook
func (h *WebhookHandler) Handle(w http.ResponseWriter, r *http.Request) {
	token, err := auth.ExtractBearerToken(r)
	if err != nil || token != h.secret {
		respond.WriteJSON(w, http.StatusUnauthorized, map[string]string{"message": "Unauthorized"})
		return
	}

	var payload webhookPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.log.Error().Stack().Err(err).Msg("webhook body parse failed")
		respond.WriteJSON(w, http.StatusInternalServerError, map[string]string{"message": "Error revalidating"})
		return
	}

	target := revalidate.For(payload.Table, payload.rowID())
	if target.IsZero() {
		// Unrecognized table: acknowledged, nothing to do.
		h.log.Info().Str("table", payload.Table).Msg("webhook for unmapped table")
		respond.WriteJSON(w, http.StatusOK, map[string]string{"message": "Revalidation triggered"})
		return
	}

	if err := h.rev.Apply(r.Context(), target); err != nil {
		// Tags invalidated before the failure stay invalidated.
		h.log.Error().Stack().Err(err).Str("table", payload.Table).Msg("webhook invalidation failed")
		respond.WriteJSON(w, http.StatusInternalServerError, map[string]string{"message": "Error revalidating"})
		return
	}

	h.log.Info().
		Str("table", payload.Table).
		Strs("tags", target.Tags).
		Strs("routes", target.Routes).
		Msg("webhook revalidation applied")
	respond.WriteJSON(w, http.StatusOK, map[string]string{"message": "Revalidation triggered"})
}
