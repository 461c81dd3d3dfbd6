package services

import (
	"context"
	"sort"
	"strings"
	"sync"

	"snapgram-backend/domain/social"
	pkgerrors "snapgram-backend/pkg/errors"
)

// fakeUserRepo is an in-memory UserRepository with document-store set
// semantics: edge additions deduplicate, removals of absent members are
// no-ops.
type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*social.User

	getCalls    int
	createCalls int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*social.User)}
}

func (r *fakeUserRepo) seed(users ...*social.User) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range users {
		cp := *u
		r.users[u.ID] = &cp
	}
}

func (r *fakeUserRepo) Get(_ context.Context, id string) (*social.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.getCalls++
	u, ok := r.users[id]
	if !ok {
		return nil, pkgerrors.NewNotFoundError("user")
	}
	cp := *u
	cp.Followers = append([]string(nil), u.Followers...)
	cp.Following = append([]string(nil), u.Following...)
	return &cp, nil
}

func (r *fakeUserRepo) CreateIfAbsent(_ context.Context, user *social.User) (*social.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.createCalls++
	if existing, ok := r.users[user.ID]; ok {
		cp := *existing
		return &cp, nil
	}
	cp := *user
	r.users[user.ID] = &cp
	out := cp
	return &out, nil
}

func (r *fakeUserRepo) UpdateProfile(_ context.Context, id string, update social.ProfileUpdate) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return pkgerrors.NewNotFoundError("user")
	}
	u.Name = update.Name
	if update.Username != nil {
		u.Username = *update.Username
	}
	if update.Bio != nil {
		u.Bio = *update.Bio
	}
	if update.Website != nil {
		u.Website = *update.Website
	}
	if update.Phone != nil {
		u.Phone = *update.Phone
	}
	if update.Gender != nil {
		u.Gender = *update.Gender
	}
	if update.PrivateAccount != nil {
		u.PrivateAccount = *update.PrivateAccount
	}
	if update.ProfilePicture != nil {
		u.ProfilePicture = *update.ProfilePicture
	}
	return nil
}

func (r *fakeUserRepo) AddFollowing(_ context.Context, userID, targetID string) error {
	return r.mutate(userID, func(u *social.User) {
		u.Following = addToSet(u.Following, targetID)
	})
}

func (r *fakeUserRepo) RemoveFollowing(_ context.Context, userID, targetID string) error {
	return r.mutate(userID, func(u *social.User) {
		u.Following = removeFromSet(u.Following, targetID)
	})
}

func (r *fakeUserRepo) AddFollower(_ context.Context, userID, followerID string) error {
	return r.mutate(userID, func(u *social.User) {
		u.Followers = addToSet(u.Followers, followerID)
	})
}

func (r *fakeUserRepo) RemoveFollower(_ context.Context, userID, followerID string) error {
	return r.mutate(userID, func(u *social.User) {
		u.Followers = removeFromSet(u.Followers, followerID)
	})
}

func (r *fakeUserRepo) SearchByNamePrefix(_ context.Context, prefixLower string, limit int) ([]*social.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*social.User
	for _, u := range r.users {
		if strings.HasPrefix(strings.ToLower(u.Name), prefixLower) {
			cp := *u
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].NameLower() < out[j].NameLower()
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeUserRepo) mutate(id string, fn func(*social.User)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return pkgerrors.NewNotFoundError("user")
	}
	fn(u)
	return nil
}

func addToSet(set []string, member string) []string {
	for _, v := range set {
		if v == member {
			return set
		}
	}
	return append(set, member)
}

func removeFromSet(set []string, member string) []string {
	out := set[:0]
	for _, v := range set {
		if v != member {
			out = append(out, v)
		}
	}
	return out
}

// fakePostRepo keeps posts in insertion order and appends comments
// atomically under its lock.
type fakePostRepo struct {
	mu    sync.Mutex
	posts []*social.Post
}

func newFakePostRepo() *fakePostRepo {
	return &fakePostRepo{}
}

func (r *fakePostRepo) Create(_ context.Context, post *social.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.posts {
		if p.ID == post.ID {
			return pkgerrors.NewConflictError("post already exists")
		}
	}
	cp := *post
	r.posts = append(r.posts, &cp)
	return nil
}

func (r *fakePostRepo) Get(_ context.Context, id string) (*social.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.posts {
		if p.ID == id {
			cp := *p
			cp.Comments = append([]social.Comment(nil), p.Comments...)
			return &cp, nil
		}
	}
	return nil, pkgerrors.NewNotFoundError("post")
}

func (r *fakePostRepo) AppendComment(_ context.Context, postID string, comment social.Comment) error {
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

func (r *fakePostRepo) ListByAuthor(_ context.Context, authorID string) ([]*social.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*social.Post
	for _, p := range r.posts {
		if p.AuthorID == authorID {
			cp := *p
			out = append(out, &cp)
		}
	}
	sortNewestFirst(out)
	return out, nil
}

func (r *fakePostRepo) ListRecent(_ context.Context, limit int) ([]*social.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*social.Post, 0, len(r.posts))
	for _, p := range r.posts {
		cp := *p
		out = append(out, &cp)
	}
	sortNewestFirst(out)
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func sortNewestFirst(posts []*social.Post) {
	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].CreatedAt.After(posts[j].CreatedAt)
	})
}
