package tag

import "time"

// Tag is a free-form label attached to tasks. Tags are created lazily the
// first time a name is used and are never updated or deleted by the resolver.
type Tag struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}
