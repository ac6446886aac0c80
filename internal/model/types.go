package model

import "time"

// Status gates public visibility of a content row. Only rows with
// StatusShow appear on public listing pages; the dashboard sees both.
type Status string

const (
	StatusShow Status = "show"
	StatusHide Status = "hide"
)

// Valid reports whether s is one of the two recognized statuses.
func (s Status) Valid() bool { return s == StatusShow || s == StatusHide }

// Kind identifies one of the three content tables.
type Kind string

const (
	KindPosts    Kind = "posts"
	KindThoughts Kind = "thoughts"
	KindEvents   Kind = "events"
)

// Kinds lists every content kind in a stable order.
func Kinds() []Kind { return []Kind{KindPosts, KindThoughts, KindEvents} }

// Post is a long-form article rendered from markdown.
type Post struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Content     string     `json:"content"`
	Author      string     `json:"author"`
	Tags        []string   `json:"tags,omitempty"`
	Status      Status     `json:"status"`
	PublishedAt time.Time  `json:"publishedAt"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   *time.Time `json:"updatedAt,omitempty"`
}

// Thought is a short markdown note with optional images.
type Thought struct {
	ID          string     `json:"id"`
	Content     string     `json:"content"`
	Images      []string   `json:"images,omitempty"`
	Author      string     `json:"author"`
	Status      Status     `json:"status"`
	PublishedAt time.Time  `json:"publishedAt"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   *time.Time `json:"updatedAt,omitempty"`
}

// Event is a dated entry shown on the timeline page.
type Event struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Tags        []string   `json:"tags,omitempty"`
	Color       string     `json:"color,omitempty"`
	Status      Status     `json:"status"`
	PublishedAt time.Time  `json:"publishedAt"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   *time.Time `json:"updatedAt,omitempty"`
}

// KindCount holds per-kind totals split by visibility.
type KindCount struct {
	Visible      int `json:"visible"`
	Hidden       int `json:"hidden"`
	VisibleChars int `json:"visibleChars"`
	HiddenChars  int `json:"hiddenChars"`
}

// Summary is the aggregate statistics object returned by the backend's
// get_summary function: counts and character totals per kind plus the
// most recent visible posts.
type Summary struct {
	Posts       KindCount `json:"posts"`
	Thoughts    KindCount `json:"thoughts"`
	Events      KindCount `json:"events"`
	RecentPosts []*Post   `json:"recentPosts"`
}
