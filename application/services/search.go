package services

import (
	"context"
	"strings"

	"snapgram-backend/domain/social"
)

// searchLimit bounds a single name-prefix search.
const searchLimit = 50

// Search returns users whose display name starts with query,
// case-insensitive, sorted alphabetically. An empty query returns no
// results rather than every user.
func (d *UserDirectory) Search(ctx context.Context, query string) ([]*social.User, error) {
	prefix := strings.ToLower(strings.TrimSpace(query))
	if prefix == "" {
		return []*social.User{}, nil
	}

	users, err := d.users.SearchByNamePrefix(ctx, prefix, searchLimit)
	if err != nil {
		return nil, err
	}

	for _, u := range users {
		u.Normalize()
	}
	return users, nil
}
