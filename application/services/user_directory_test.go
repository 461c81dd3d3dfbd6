package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"snapgram-backend/domain/social"
	"snapgram-backend/pkg/auth"
	pkgerrors "snapgram-backend/pkg/errors"
)

func TestGetOrCreate_CreatesOnFirstSignIn(t *testing.T) {
	repo := newFakeUserRepo()
	dir := NewUserDirectory(repo, zap.NewNop())

	claims := &auth.Claims{
		Subject: "user-1",
		Name:    "Ada Lovelace",
		Email:   "ada@example.com",
		Expiry:  time.Now().Add(time.Hour),
	}

	user, err := dir.GetOrCreate(context.Background(), claims)
	require.NoError(t, err)
	assert.Equal(t, "user-1", user.ID)
	assert.Equal(t, "Ada Lovelace", user.Name)
	assert.Equal(t, "ada@example.com", user.Email)
	assert.Empty(t, user.Followers)
	assert.Empty(t, user.Following)
	assert.Equal(t, 1, repo.createCalls)
}

func TestGetOrCreate_ReturnsExistingWithoutCreate(t *testing.T) {
	repo := newFakeUserRepo()
	dir := NewUserDirectory(repo, zap.NewNop())
	seedUser(t, repo, "user-1", "Ada Lovelace")

	claims := &auth.Claims{Subject: "user-1", Name: "Different Name"}

	user, err := dir.GetOrCreate(context.Background(), claims)
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", user.Name)
	assert.Zero(t, repo.createCalls)
}

func TestGetOrCreate_NameFallsBackToEmailLocalPart(t *testing.T) {
	repo := newFakeUserRepo()
	dir := NewUserDirectory(repo, zap.NewNop())

	claims := &auth.Claims{Subject: "user-2", Email: "grace@example.com"}

	user, err := dir.GetOrCreate(context.Background(), claims)
	require.NoError(t, err)
	assert.Equal(t, "grace", user.Name)
}

func TestGet_EmptyIDRejected(t *testing.T) {
	dir := NewUserDirectory(newFakeUserRepo(), zap.NewNop())

	_, err := dir.Get(context.Background(), "")
	assert.True(t, pkgerrors.IsValidation(err))
}

func TestGet_MissingUserIsNotFound(t *testing.T) {
	dir := NewUserDirectory(newFakeUserRepo(), zap.NewNop())

	_, err := dir.Get(context.Background(), "ghost")
	assert.True(t, pkgerrors.IsNotFound(err))
}

func TestUpdateProfile_RequiresName(t *testing.T) {
	repo := newFakeUserRepo()
	dir := NewUserDirectory(repo, zap.NewNop())
	seedUser(t, repo, "user-1", "Ada")

	err := dir.UpdateProfile(context.Background(), "user-1", profileUpdate("  "))
	assert.True(t, pkgerrors.IsValidation(err))

	require.NoError(t, dir.UpdateProfile(context.Background(), "user-1", profileUpdate("Ada L.")))
	user, err := dir.Get(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, "Ada L.", user.Name)
}

func TestResolveAll_SkipsMissingAndSortsByName(t *testing.T) {
	repo := newFakeUserRepo()
	dir := NewUserDirectory(repo, zap.NewNop())
	seedUser(t, repo, "u1", "charlie")
	seedUser(t, repo, "u2", "Alice")
	seedUser(t, repo, "u3", "Bob")

	users, err := dir.ResolveAll(context.Background(), []string{"u1", "ghost", "u2", "u3"})
	require.NoError(t, err)

	names := make([]string, len(users))
	for i, u := range users {
		names[i] = u.Name
	}
	assert.Equal(t, []string{"Alice", "Bob", "charlie"}, names)
}

func TestResolveAll_EmptyInput(t *testing.T) {
	dir := NewUserDirectory(newFakeUserRepo(), zap.NewNop())

	users, err := dir.ResolveAll(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, users)
}

func profileUpdate(name string) social.ProfileUpdate {
	return social.ProfileUpdate{Name: name}
}
