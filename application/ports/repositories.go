// Package ports defines the interfaces between the application services
// and the infrastructure that backs them. Services depend on these
// interfaces only; concrete implementations live under infrastructure/.
package ports

import (
	"context"
	"io"

	"snapgram-backend/domain/social"
)

// UserRepository persists user records in the document store.
//
// Get returns a NOT_FOUND AppError when the document does not exist —
// callers must treat that as distinct from a malformed-data or transport
// failure (DATABASE).
type UserRepository interface {
	Get(ctx context.Context, id string) (*social.User, error)

	// CreateIfAbsent writes the record only when no document with that id
	// exists yet. When a concurrent duplicate request won the race, the
	// already-stored record is returned instead.
	CreateIfAbsent(ctx context.Context, user *social.User) (*social.User, error)

	UpdateProfile(ctx context.Context, id string, update social.ProfileUpdate) error

	// Edge-set mutations. All four use the store's atomic set primitives:
	// adding is a set union (idempotent, no duplicates), removing is a set
	// difference (absent member is a no-op). Each fails NOT_FOUND when the
	// addressed user document does not exist.
	AddFollowing(ctx context.Context, userID, targetID string) error
	RemoveFollowing(ctx context.Context, userID, targetID string) error
	AddFollower(ctx context.Context, userID, followerID string) error
	RemoveFollower(ctx context.Context, userID, followerID string) error

	// SearchByNamePrefix returns users whose lowercased display name
	// starts with the given lowercased prefix, ordered alphabetically.
	SearchByNamePrefix(ctx context.Context, prefixLower string, limit int) ([]*social.User, error)
}

// PostRepository persists post records in the document store.
type PostRepository interface {
	Create(ctx context.Context, post *social.Post) error
	Get(ctx context.Context, id string) (*social.Post, error)

	// AppendComment atomically appends to the post's comment sequence.
	// It must not read-modify-write the whole list; concurrent appends
	// both survive. Fails NOT_FOUND when the post does not exist.
	AppendComment(ctx context.Context, postID string, comment social.Comment) error

	ListByAuthor(ctx context.Context, authorID string) ([]*social.Post, error)
	ListRecent(ctx context.Context, limit int) ([]*social.Post, error)
}

// BlobStore accepts uploaded bytes and returns a stable retrievable URL.
type BlobStore interface {
	Upload(ctx context.Context, objectPath string, reader io.Reader, size int64, contentType string) (string, error)
}

// Renderer turns a named view and a data context into markup. Rendering
// itself is owned by the template layer behind this interface.
type Renderer interface {
	Render(w io.Writer, view string, data map[string]interface{}) error
}
