package handlers

import (
	"context"
	"io"
	"sort"
	"strings"
	"sync"

	"snapgram-backend/domain/social"
	pkgerrors "snapgram-backend/pkg/errors"
)

// memUserRepo is a minimal in-memory user repository for handler tests.
type memUserRepo struct {
	mu    sync.Mutex
	users map[string]*social.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[string]*social.User)}
}

func (r *memUserRepo) seed(u *social.User) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[u.ID] = u
}

func (r *memUserRepo) Get(_ context.Context, id string) (*social.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, pkgerrors.NewNotFoundError("user")
}

func (r *memUserRepo) CreateIfAbsent(_ context.Context, user *social.User) (*social.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.users[user.ID]; ok {
		cp := *existing
		return &cp, nil
	}
	r.users[user.ID] = user
	return user, nil
}

func (r *memUserRepo) UpdateProfile(_ context.Context, id string, update social.ProfileUpdate) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return pkgerrors.NewNotFoundError("user")
	}
	u.Name = update.Name
	if update.ProfilePicture != nil {
		u.ProfilePicture = *update.ProfilePicture
	}
	return nil
}

func (r *memUserRepo) AddFollowing(_ context.Context, userID, targetID string) error {
	return r.edge(userID, func(u *social.User) { u.Following = appendUnique(u.Following, targetID) })
}

func (r *memUserRepo) RemoveFollowing(_ context.Context, userID, targetID string) error {
	return r.edge(userID, func(u *social.User) { u.Following = without(u.Following, targetID) })
}

func (r *memUserRepo) AddFollower(_ context.Context, userID, followerID string) error {
	return r.edge(userID, func(u *social.User) { u.Followers = appendUnique(u.Followers, followerID) })
}

func (r *memUserRepo) RemoveFollower(_ context.Context, userID, followerID string) error {
	return r.edge(userID, func(u *social.User) { u.Followers = without(u.Followers, followerID) })
}

func (r *memUserRepo) SearchByNamePrefix(_ context.Context, prefixLower string, limit int) ([]*social.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*social.User
	for _, u := range r.users {
		if strings.HasPrefix(strings.ToLower(u.Name), prefixLower) {
			cp := *u
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].NameLower() < out[j].NameLower() })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *memUserRepo) edge(id string, fn func(*social.User)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return pkgerrors.NewNotFoundError("user")
	}
	fn(u)
	return nil
}

func appendUnique(set []string, member string) []string {
	for _, v := range set {
		if v == member {
			return set
		}
	}
	return append(set, member)
}

func without(set []string, member string) []string {
	out := set[:0]
	for _, v := range set {
		if v != member {
			out = append(out, v)
		}
	}
	return out
}

// memPostRepo is a minimal in-memory post repository for handler tests.
type memPostRepo struct {
	mu    sync.Mutex
	posts []*social.Post
}

func newMemPostRepo() *memPostRepo {
	return &memPostRepo{}
}

func (r *memPostRepo) Create(_ context.Context, post *social.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *post
	r.posts = append(r.posts, &cp)
	return nil
}

func (r *memPostRepo) Get(_ context.Context, id string) (*social.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.posts {
		if p.ID == id {
			cp := *p
			return &cp, nil
		}
	}
	return nil, pkgerrors.NewNotFoundError("post")
}

func (r *memPostRepo) AppendComment(_ context.Context, postID string, comment social.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.posts {
		if p.ID == postID {
			p.Comments = append(p.Comments, comment)
			return nil
		}
	}
	return pkgerrors.NewNotFoundError("post")
}

func (r *memPostRepo) ListByAuthor(_ context.Context, authorID string) ([]*social.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*social.Post
	for _, p := range r.posts {
		if p.AuthorID == authorID {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *memPostRepo) ListRecent(_ context.Context, limit int) ([]*social.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*social.Post, 0, len(r.posts))
	for _, p := range r.posts {
		cp := *p
		out = append(out, &cp)
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// memBlobStore records uploads and hands back deterministic URLs.
type memBlobStore struct {
	mu      sync.Mutex
	uploads []string
}

func (s *memBlobStore) Upload(_ context.Context, objectPath string, reader io.Reader, _ int64, _ string) (string, error) {
	if _, err := io.Copy(io.Discard, reader); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.uploads = append(s.uploads, objectPath)
	return "https://blobs.test/" + objectPath, nil
}
