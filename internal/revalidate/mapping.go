// Package revalidate holds the invalidation vocabulary shared by mutation
// actions and the webhook receiver. Both paths resolve their work through
// For so the two triggers cannot drift apart.
package revalidate

import "github.com/inkwell-hq/inkwell/internal/model"

// Cache tags. The closed set: one per table, one aggregate, and a per-post
// detail variant produced by PostTag.
const (
	TagSummary  = "summary"
	TagPosts    = "posts"
	TagThoughts = "thoughts"
	TagEvents   = "events"
)

// PostTag returns the per-post detail tag.
func PostTag(id string) string { return "post-" + id }

// Frontend routes whose static renders depend on content tables.
const (
	RouteHome     = "/"
	RoutePosts    = "/posts"
	RouteThoughts = "/thoughts"
	RouteEvents   = "/events"
)

// PostRoute returns the detail route for one post.
func PostRoute(id string) string { return RoutePosts + "/" + id }

// Target describes the invalidation work for one table change.
type Target struct {
	Tags   []string
	Routes []string
}

// IsZero reports whether the target carries no work (unrecognized table).
func (t Target) IsZero() bool { return len(t.Tags) == 0 && len(t.Routes) == 0 }

// For maps a changed table to the tags and routes that could now be stale.
// id is optional; when present for posts it adds the detail tag and route.
// Unrecognized tables yield a zero Target: the change affects nothing cached.
func For(table string, id string) Target {
	switch model.Kind(table) {
	case model.KindPosts:
		t := Target{
			Tags:   []string{TagPosts, TagSummary},
			Routes: []string{RouteHome, RoutePosts},
		}
		if id != "" {
			t.Tags = append(t.Tags, PostTag(id))
			t.Routes = append(t.Routes, PostRoute(id))
		}
		return t
	case model.KindThoughts:
		return Target{
			Tags:   []string{TagThoughts, TagSummary},
			Routes: []string{RouteHome, RouteThoughts},
		}
	case model.KindEvents:
		return Target{
			Tags:   []string{TagEvents, TagSummary},
			Routes: []string{RouteHome, RouteEvents},
		}
	default:
		return Target{}
	}
}
