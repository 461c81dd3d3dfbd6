package services

import (
	"context"

	"go.uber.org/zap"

	"snapgram-backend/application/ports"
	pkgerrors "snapgram-backend/pkg/errors"
)

// SocialGraph applies idempotent follow/unfollow mutations, keeping the
// two stored views of each directed edge consistent: after Follow(A, B),
// B is in A's following set and A is in B's follower set.
//
// The two sides are two separate writes, not one transaction. A crash
// between them leaves a transient asymmetric edge; both operations are
// idempotent, so retrying repairs it.
type SocialGraph struct {
	users  ports.UserRepository
	logger *zap.Logger
}

// NewSocialGraph creates a social graph mutator over the user repository.
func NewSocialGraph(users ports.UserRepository, logger *zap.Logger) *SocialGraph {
	return &SocialGraph{
		users:  users,
		logger: logger,
	}
}

// Follow adds the directed edge actor -> target. Re-following is a no-op
// by set semantics. Fails with a validation error on self-follow and
// NOT_FOUND when the target does not exist.
func (g *SocialGraph) Follow(ctx context.Context, actorID, targetID string) error {
	if err := g.checkPair(actorID, targetID, "follow"); err != nil {
		return err
	}

	// Resolve the target first so a missing target never leaves a
	// one-sided edge behind.
	if _, err := g.users.Get(ctx, targetID); err != nil {
		return err
	}

	if err := g.users.AddFollowing(ctx, actorID, targetID); err != nil {
		return err
	}
	if err := g.users.AddFollower(ctx, targetID, actorID); err != nil {
		return err
	}

	g.logger.Info("Follow edge added",
		zap.String("actor", actorID),
		zap.String("target", targetID),
	)
	return nil
}

// Unfollow removes the directed edge actor -> target. Removing an edge
// that is not present is a no-op, not an error.
func (g *SocialGraph) Unfollow(ctx context.Context, actorID, targetID string) error {
	if err := g.checkPair(actorID, targetID, "unfollow"); err != nil {
		return err
	}

	if _, err := g.users.Get(ctx, targetID); err != nil {
		return err
	}

	if err := g.users.RemoveFollowing(ctx, actorID, targetID); err != nil {
		return err
	}
	if err := g.users.RemoveFollower(ctx, targetID, actorID); err != nil {
		return err
	}

	g.logger.Info("Follow edge removed",
		zap.String("actor", actorID),
		zap.String("target", targetID),
	)
	return nil
}

func (g *SocialGraph) checkPair(actorID, targetID, verb string) error {
	if actorID == "" || targetID == "" {
		return pkgerrors.NewValidationError("user id cannot be empty")
	}
	if actorID == targetID {
		return pkgerrors.NewValidationError("cannot " + verb + " yourself")
	}
	return nil
}
