package services

import (
	"context"
	"sort"
	"time"

	"go.uber.org/zap"

	"snapgram-backend/application/ports"
	"snapgram-backend/domain/social"
	"snapgram-backend/pkg/auth"
	pkgerrors "snapgram-backend/pkg/errors"
)

// UserDirectory reads, creates and updates user records. Every record it
// hands out has been normalized, so follower/following sets are always
// present.
type UserDirectory struct {
	users  ports.UserRepository
	logger *zap.Logger
}

// NewUserDirectory creates a user directory over the given repository.
func NewUserDirectory(users ports.UserRepository, logger *zap.Logger) *UserDirectory {
	return &UserDirectory{
		users:  users,
		logger: logger,
	}
}

// Get returns the user with the given id, or a NOT_FOUND error.
func (d *UserDirectory) Get(ctx context.Context, id string) (*social.User, error) {
	if id == "" {
		return nil, pkgerrors.NewValidationError("user id cannot be empty")
	}
	user, err := d.users.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return user.Normalize(), nil
}

// GetOrCreate resolves the user record for verified claims, creating it
// on first-ever sign-in. Creation is a conditional create-if-absent write,
// so concurrent duplicate requests for the same new identity converge on
// a single document.
func (d *UserDirectory) GetOrCreate(ctx context.Context, claims *auth.Claims) (*social.User, error) {
	user, err := d.users.Get(ctx, claims.Subject)
	if err == nil {
		return user.Normalize(), nil
	}
	if !pkgerrors.IsNotFound(err) {
		return nil, err
	}

	fresh, err := social.NewUser(claims.Subject, claims.DisplayName(), claims.Email, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	created, err := d.users.CreateIfAbsent(ctx, fresh)
	if err != nil {
		return nil, err
	}

	d.logger.Info("User created on first sign-in",
		zap.String("userID", created.ID),
	)
	return created.Normalize(), nil
}

// UpdateProfile applies a partial profile edit.
func (d *UserDirectory) UpdateProfile(ctx context.Context, id string, update social.ProfileUpdate) error {
	if err := update.Validate(); err != nil {
		return err
	}
	return d.users.UpdateProfile(ctx, id, update)
}

// ResolveAll fetches full user records for a list of ids, skipping ids
// whose documents no longer exist, and returns them sorted by lowercased
// name. Used by the follower/following listing pages, where a dangling
// edge must not be fatal.
func (d *UserDirectory) ResolveAll(ctx context.Context, ids []string) ([]*social.User, error) {
	users := make([]*social.User, 0, len(ids))
	for _, id := range ids {
		user, err := d.users.Get(ctx, id)
		if err != nil {
			if pkgerrors.IsNotFound(err) {
				d.logger.Debug("Skipping dangling edge to missing user",
					zap.String("userID", id),
				)
				continue
			}
			return nil, err
		}
		users = append(users, user.Normalize())
	}

	sort.Slice(users, func(i, j int) bool {
		return users[i].NameLower() < users[j].NameLower()
	})
	return users, nil
}
