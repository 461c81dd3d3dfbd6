package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"snapgram-backend/application/ports"
	"snapgram-backend/domain/social"
)

// Posts creates posts, appends comments and lists posts newest-first.
type Posts struct {
	posts  ports.PostRepository
	logger *zap.Logger
}

// NewPosts creates the post service over the given repository.
func NewPosts(posts ports.PostRepository, logger *zap.Logger) *Posts {
	return &Posts{
		posts:  posts,
		logger: logger,
	}
}

// Create stores a new post for the author. Author name and profile
// picture are denormalized onto the post at write time.
func (s *Posts) Create(ctx context.Context, author *social.User, caption, imageURL string) (*social.Post, error) {
	post, err := social.NewPost(author, caption, imageURL, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	if err := s.posts.Create(ctx, post); err != nil {
		return nil, err
	}

	s.logger.Info("Post created",
		zap.String("postID", post.ID),
		zap.String("authorID", post.AuthorID),
	)
	return post, nil
}

// Get returns a single post, or NOT_FOUND.
func (s *Posts) Get(ctx context.Context, id string) (*social.Post, error) {
	post, err := s.posts.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return post.Normalize(), nil
}

// AddComment appends a comment to the post's chronological sequence.
// Fails with a validation error when the text exceeds the length limit
// and NOT_FOUND when the post does not exist.
func (s *Posts) AddComment(ctx context.Context, postID string, author *social.User, text string) error {
	comment, err := social.NewComment(author.ID, author.Name, text, time.Now().UTC())
	if err != nil {
		return err
	}
	return s.posts.AppendComment(ctx, postID, comment)
}

// ListByAuthor returns the author's posts, newest first.
func (s *Posts) ListByAuthor(ctx context.Context, authorID string) ([]*social.Post, error) {
	posts, err := s.posts.ListByAuthor(ctx, authorID)
	if err != nil {
		return nil, err
	}
	return normalizeAll(posts), nil
}

// ListRecent returns the newest posts across all authors.
func (s *Posts) ListRecent(ctx context.Context, limit int) ([]*social.Post, error) {
	posts, err := s.posts.ListRecent(ctx, limit)
	if err != nil {
		return nil, err
	}
	return normalizeAll(posts), nil
}

func normalizeAll(posts []*social.Post) []*social.Post {
	for _, p := range posts {
		p.Normalize()
	}
	return posts
}
