package social

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	pkgerrors "snapgram-backend/pkg/errors"
)

// MaxCommentLength is the longest comment text accepted, in characters.
const MaxCommentLength = 200

// Comment is an entry in a post's append-only comment sequence. The
// author name is denormalized at write time; comments are never edited
// or deleted.
type Comment struct {
	AuthorID   string    `json:"author_id"`
	AuthorName string    `json:"author_name"`
	Text       string    `json:"text"`
	CreatedAt  time.Time `json:"created_at"`
}

// NewComment validates and builds a comment.
func NewComment(authorID, authorName, text string, now time.Time) (Comment, error) {
	if authorID == "" {
		return Comment{}, pkgerrors.NewValidationError("comment author cannot be empty")
	}
	if text == "" {
		return Comment{}, pkgerrors.NewValidationError("comment text cannot be empty")
	}
	if len([]rune(text)) > MaxCommentLength {
		return Comment{}, pkgerrors.NewValidationError(
			fmt.Sprintf("comment too long, maximum %d characters", MaxCommentLength))
	}
	return Comment{
		AuthorID:   authorID,
		AuthorName: authorName,
		Text:       text,
		CreatedAt:  now,
	}, nil
}

// Post is an image post. Author display name and profile picture are
// denormalized at creation time; a later profile change does not
// retroactively update past posts.
type Post struct {
	ID                   string    `json:"id"`
	AuthorID             string    `json:"author_id"`
	AuthorName           string    `json:"author_name"`
	AuthorProfilePicture string    `json:"author_profile_picture,omitempty"`
	Caption              string    `json:"caption"`
	ImageURL             string    `json:"image_url"`
	Likes                int       `json:"likes"`
	Comments             []Comment `json:"comments"`
	CreatedAt            time.Time `json:"created_at"`
}

// NewPost creates a post with a generated id, zero likes and no comments.
func NewPost(author *User, caption, imageURL string, now time.Time) (*Post, error) {
	if author == nil || author.ID == "" {
		return nil, pkgerrors.NewValidationError("post author cannot be empty")
	}
	if imageURL == "" {
		return nil, pkgerrors.NewValidationError("post image is required")
	}
	return &Post{
		ID:                   uuid.New().String(),
		AuthorID:             author.ID,
		AuthorName:           author.Name,
		AuthorProfilePicture: author.ProfilePicture,
		Caption:              caption,
		ImageURL:             imageURL,
		Likes:                0,
		Comments:             []Comment{},
		CreatedAt:            now,
	}, nil
}

// Normalize restores invariants on a stored record: comments non-nil,
// like count never negative.
func (p *Post) Normalize() *Post {
	if p.Comments == nil {
		p.Comments = []Comment{}
	}
	if p.Likes < 0 {
		p.Likes = 0
	}
	return p
}
