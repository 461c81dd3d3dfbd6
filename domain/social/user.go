package social

import (
	"strings"
	"time"

	pkgerrors "snapgram-backend/pkg/errors"
)

// User is a user record as stored in the document store. The identity is
// assigned by the external provider and never changes.
type User struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Username       string    `json:"username,omitempty"`
	Bio            string    `json:"bio,omitempty"`
	Website        string    `json:"website,omitempty"`
	Phone          string    `json:"phone,omitempty"`
	Gender         string    `json:"gender,omitempty"`
	PrivateAccount bool      `json:"private_account"`
	ProfilePicture string    `json:"profile_picture,omitempty"`
	Followers      []string  `json:"followers"`
	Following      []string  `json:"following"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// NewUser creates a first-sign-in user record with empty edge sets.
func NewUser(id, name, email string, now time.Time) (*User, error) {
	if id == "" {
		return nil, pkgerrors.NewValidationError("user id cannot be empty")
	}
	return &User{
		ID:        id,
		Name:      name,
		Email:     email,
		Followers: []string{},
		Following: []string{},
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Normalize restores the invariants a stored record may have lost: the
// follower and following sets are always present after any read. Applied
// uniformly on every read path instead of per-field existence checks.
func (u *User) Normalize() *User {
	if u.Followers == nil {
		u.Followers = []string{}
	}
	if u.Following == nil {
		u.Following = []string{}
	}
	return u
}

// NameLower is the case-folded display name used for prefix search and
// alphabetical ordering.
func (u *User) NameLower() string {
	return strings.ToLower(u.Name)
}

// IsFollowing reports whether u follows the given user.
func (u *User) IsFollowing(id string) bool {
	return contains(u.Following, id)
}

// HasFollower reports whether the given user follows u.
func (u *User) HasFollower(id string) bool {
	return contains(u.Followers, id)
}

func contains(set []string, id string) bool {
	for _, v := range set {
		if v == id {
			return true
		}
	}
	return false
}

// ProfileUpdate carries the partial fields of a profile edit. Name is the
// only required field; nil pointers leave the stored value untouched.
type ProfileUpdate struct {
	Name           string
	Username       *string
	Bio            *string
	Website        *string
	Phone          *string
	Gender         *string
	PrivateAccount *bool
	ProfilePicture *string
}

// Validate checks the required fields of a profile edit.
func (p *ProfileUpdate) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return pkgerrors.NewValidationError("name is required")
	}
	return nil
}
