package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkwell-hq/inkwell/internal/cache"
	"github.com/inkwell-hq/inkwell/internal/content"
	"github.com/inkwell-hq/inkwell/internal/model"
	"github.com/inkwell-hq/inkwell/internal/revalidate"
	"github.com/inkwell-hq/inkwell/internal/store/memstore"
)

const testSecret = "hook-secret"

type routeRecorder struct {
	paths []string
}

func (r *routeRecorder) Revalidate(_ context.Context, path string) error {
	r.paths = append(r.paths, path)
	return nil
}

func newWebhookFixture() (*cache.MemoryStore, *routeRecorder, *WebhookHandler) {
	tags := cache.NewMemoryStore()
	routes := &routeRecorder{}
	rev := revalidate.New(tags, routes, zerolog.Nop())
	return tags, routes, NewWebhookHandler(testSecret, rev, zerolog.Nop())
}

func deliver(h *WebhookHandler, token string, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("POST", "/api/webhook", bytes.NewBufferString(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	h.Handle(w, req)
	return w
}

func message(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp struct {
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Message
}

func TestWebhook_MissingToken(t *testing.T) {
	tags, routes, h := newWebhookFixture()
	ctx := context.Background()
	require.NoError(t, tags.Set(ctx, "posts-list", []byte("x"), []string{revalidate.TagPosts}, time.Minute))

	w := deliver(h, "", `{"table":"posts"}`)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Unauthorized", message(t, w))
	_, ok, _ := tags.Get(ctx, "posts-list")
	assert.True(t, ok, "pre-populated entry must remain live")
	assert.Empty(t, routes.paths)
}

func TestWebhook_WrongToken(t *testing.T) {
	tags, routes, h := newWebhookFixture()
	ctx := context.Background()
	require.NoError(t, tags.Set(ctx, "posts-list", []byte("x"), []string{revalidate.TagPosts}, time.Minute))

	w := deliver(h, "not-the-secret", `{"table":"posts"}`)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	_, ok, _ := tags.Get(ctx, "posts-list")
	assert.True(t, ok)
	assert.Empty(t, routes.paths)
}

func TestWebhook_PostsInvalidatesExactly(t *testing.T) {
	tags, routes, h := newWebhookFixture()
	ctx := context.Background()
	require.NoError(t, tags.Set(ctx, "posts-list", []byte("x"), []string{revalidate.TagPosts}, time.Minute))
	require.NoError(t, tags.Set(ctx, "summary:5", []byte("y"), []string{revalidate.TagSummary}, time.Minute))
	require.NoError(t, tags.Set(ctx, "events-list", []byte("z"), []string{revalidate.TagEvents}, time.Minute))

	w := deliver(h, testSecret, `{"table":"posts"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Revalidation triggered", message(t, w))

	_, ok, _ := tags.Get(ctx, "posts-list")
	assert.False(t, ok)
	_, ok, _ = tags.Get(ctx, "summary:5")
	assert.False(t, ok)
	_, ok, _ = tags.Get(ctx, "events-list")
	assert.True(t, ok, "other tables' entries untouched")

	assert.ElementsMatch(t, []string{revalidate.RouteHome, revalidate.RoutePosts}, routes.paths)
}

func TestWebhook_PostsWithRecordIDAddsDetailRoute(t *testing.T) {
	_, routes, h := newWebhookFixture()

	w := deliver(h, testSecret, `{"table":"posts","record":{"id":"p-42","title":"x"}}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.ElementsMatch(t,
		[]string{revalidate.RouteHome, revalidate.RoutePosts, "/posts/p-42"},
		routes.paths)
}

func TestWebhook_NewFieldCarriesID(t *testing.T) {
	_, routes, h := newWebhookFixture()

	w := deliver(h, testSecret, `{"table":"posts","new":{"id":"p-7"}}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, routes.paths, "/posts/p-7")
}

func TestWebhook_UnknownTableIsAcknowledgedNoop(t *testing.T) {
	tags, routes, h := newWebhookFixture()
	ctx := context.Background()
	require.NoError(t, tags.Set(ctx, "posts-list", []byte("x"), []string{revalidate.TagPosts}, time.Minute))

	w := deliver(h, testSecret, `{"table":"profiles","record":{"id":"u1"}}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Revalidation triggered", message(t, w))
	_, ok, _ := tags.Get(ctx, "posts-list")
	assert.True(t, ok)
	assert.Empty(t, routes.paths)
}

func TestWebhook_MalformedBody(t *testing.T) {
	_, _, h := newWebhookFixture()

	w := deliver(h, testSecret, `{"table": posts`)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Error revalidating", message(t, w))
}

func TestWebhook_Idempotent(t *testing.T) {
	_, routes, h := newWebhookFixture()

	for i := 0; i < 2; i++ {
		w := deliver(h, testSecret, `{"table":"thoughts"}`)
		assert.Equal(t, http.StatusOK, w.Code)
	}
	// re-delivery repeats the same route set without error
	assert.Equal(t,
		[]string{revalidate.RouteHome, revalidate.RouteThoughts, revalidate.RouteHome, revalidate.RouteThoughts},
		routes.paths)
}

func TestWebhook_DrivenThoughtEdit(t *testing.T) {
	// A thoughts row is edited outside any mutation action; the webhook
	// delivery must make the next cached read reflect the edit.
	ctx := context.Background()
	st := memstore.New()
	tags := cache.NewMemoryStore()
	rev := revalidate.New(tags, nil, zerolog.Nop())
	h := NewWebhookHandler(testSecret, rev, zerolog.Nop())
	fetcher := content.NewCached(content.NewFetcher(st), tags, zerolog.Nop())

	th, err := st.Thoughts().Insert(ctx, &model.Thought{Content: "before", Author: "a", Status: model.StatusShow})
	require.NoError(t, err)

	listed, err := fetcher.ListThoughts(ctx)
	require.NoError(t, err)
	require.Equal(t, "before", listed[0].Content)

	// direct edit behind the cache's back
	th.Content = "after"
	_, err = st.Thoughts().Update(ctx, th)
	require.NoError(t, err)

	listed, err = fetcher.ListThoughts(ctx)
	require.NoError(t, err)
	require.Equal(t, "before", listed[0].Content, "stale until the webhook lands")

	w := deliver(h, testSecret, `{"table":"thoughts","record":{"id":"`+th.ID+`"}}`)
	require.Equal(t, http.StatusOK, w.Code)

	listed, err = fetcher.ListThoughts(ctx)
	require.NoError(t, err)
	assert.Equal(t, "after", listed[0].Content)
}
