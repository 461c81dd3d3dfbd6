package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"snapgram-backend/application/services"
	"snapgram-backend/domain/social"
	"snapgram-backend/infrastructure/render"
)

type pageFixture struct {
	handler  *PageHandler
	userRepo *memUserRepo
	postRepo *memPostRepo
}

func newPageFixture(t *testing.T) *pageFixture {
	t.Helper()
	logger := zap.NewNop()
	userRepo := newMemUserRepo()
	postRepo := newMemPostRepo()

	renderer, err := render.NewTemplateRenderer()
	require.NoError(t, err)

	handler := NewPageHandler(
		services.NewUserDirectory(userRepo, logger),
		services.NewPosts(postRepo, logger),
		renderer,
		logger,
	)
	return &pageFixture{handler: handler, userRepo: userRepo, postRepo: postRepo}
}

func (f *pageFixture) seedUser(t *testing.T, id, name string) *social.User {
	t.Helper()
	u, err := social.NewUser(id, name, id+"@example.com", time.Now().UTC())
	require.NoError(t, err)
	f.userRepo.seed(u)
	return u
}

func TestHomePage_RendersFeed(t *testing.T) {
	f := newPageFixture(t)
	alice := f.seedUser(t, "alice", "Alice")
	post, err := social.NewPost(alice, "hello feed", "https://img.test/1.jpg", time.Now().UTC())
	require.NoError(t, err)
	require.NoError(t, f.postRepo.Create(context.Background(), post))

	req := asUser(httptest.NewRequest(http.MethodGet, "/", nil), alice, nil)
	rec := httptest.NewRecorder()
	f.handler.Home(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "hello feed")
	assert.Contains(t, rec.Body.String(), "Alice")
}

func TestHomePage_ShowsRenamedAuthorFresh(t *testing.T) {
	f := newPageFixture(t)
	alice := f.seedUser(t, "alice", "Alice")
	post, err := social.NewPost(alice, "old me", "https://img.test/1.jpg", time.Now().UTC())
	require.NoError(t, err)
	require.NoError(t, f.postRepo.Create(context.Background(), post))

	newPicture := "https://img.test/new.jpg"
	require.NoError(t, f.userRepo.UpdateProfile(context.Background(), "alice",
		social.ProfileUpdate{Name: "Alice Cooper", ProfilePicture: &newPicture}))

	req := asUser(httptest.NewRequest(http.MethodGet, "/", nil), alice, nil)
	rec := httptest.NewRecorder()
	f.handler.Home(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Alice Cooper")
	assert.Contains(t, rec.Body.String(), newPicture)
}

func TestHomePage_KeepsStoredAuthorWhenLookupFails(t *testing.T) {
	f := newPageFixture(t)
	alice := f.seedUser(t, "alice", "Alice")
	ghost, err := social.NewUser("ghost", "Ghost", "ghost@example.com", time.Now().UTC())
	require.NoError(t, err)
	post, err := social.NewPost(ghost, "left behind", "https://img.test/2.jpg", time.Now().UTC())
	require.NoError(t, err)
	require.NoError(t, f.postRepo.Create(context.Background(), post))

	req := asUser(httptest.NewRequest(http.MethodGet, "/", nil), alice, nil)
	rec := httptest.NewRecorder()
	f.handler.Home(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Ghost")
}

func TestProfilePage_OwnProfile(t *testing.T) {
	f := newPageFixture(t)
	alice := f.seedUser(t, "alice", "Alice")

	req := asUser(httptest.NewRequest(http.MethodGet, "/profile/alice", nil),
		alice, map[string]string{"userID": "alice"})
	rec := httptest.NewRecorder()
	f.handler.Profile(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Edit profile")
}

func TestProfilePage_OtherUserShowsFollowButton(t *testing.T) {
	f := newPageFixture(t)
	alice := f.seedUser(t, "alice", "Alice")
	f.seedUser(t, "bob", "Bob")

	req := asUser(httptest.NewRequest(http.MethodGet, "/profile/bob", nil),
		alice, map[string]string{"userID": "bob"})
	rec := httptest.NewRecorder()
	f.handler.Profile(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "/follow/bob")
}

func TestProfilePage_MissingUserIs404(t *testing.T) {
	f := newPageFixture(t)
	alice := f.seedUser(t, "alice", "Alice")

	req := asUser(httptest.NewRequest(http.MethodGet, "/profile/ghost", nil),
		alice, map[string]string{"userID": "ghost"})
	rec := httptest.NewRecorder()
	f.handler.Profile(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestFollowersPage_SkipsMissingUsers(t *testing.T) {
	f := newPageFixture(t)
	alice := f.seedUser(t, "alice", "Alice")
	bob, err := social.NewUser("bob", "Bob", "bob@example.com", time.Now().UTC())
	require.NoError(t, err)
	bob.Followers = []string{"alice", "ghost"}
	f.userRepo.seed(bob)

	req := asUser(httptest.NewRequest(http.MethodGet, "/followers/bob", nil),
		alice, map[string]string{"userID": "bob"})
	rec := httptest.NewRecorder()
	f.handler.Followers(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Alice")
	assert.NotContains(t, rec.Body.String(), "ghost")
}

func TestSearchPage_ShowsMatches(t *testing.T) {
	f := newPageFixture(t)
	alice := f.seedUser(t, "alice", "Alice")
	f.seedUser(t, "bob", "Bob")

	req := asUser(httptest.NewRequest(http.MethodGet, "/search?query=bo", nil), alice, nil)
	rec := httptest.NewRecorder()
	f.handler.Search(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Bob")
	assert.NotContains(t, rec.Body.String(), "/profile/ghost")
}

func TestLoginPage_SignedInVisitorGoesHome(t *testing.T) {
	f := newPageFixture(t)
	alice := f.seedUser(t, "alice", "Alice")

	req := asUser(httptest.NewRequest(http.MethodGet, "/login", nil), alice, nil)
	rec := httptest.NewRecorder()
	f.handler.Login(rec, req)

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
}

func TestLoginPage_AnonymousRenders(t *testing.T) {
	f := newPageFixture(t)

	rec := httptest.NewRecorder()
	f.handler.Login(rec, httptest.NewRequest(http.MethodGet, "/login", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "login-form")
}
