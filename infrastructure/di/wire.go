//go:build wireinject
// +build wireinject

package di

import (
	"context"

	"github.com/google/wire"
	"go.uber.org/zap"

	"snapgram-backend/application/ports"
	"snapgram-backend/application/services"
	"snapgram-backend/infrastructure/config"
	"snapgram-backend/interfaces/http/rest"
	"snapgram-backend/pkg/auth"
)

// Container holds all application dependencies
type Container struct {
	Config      *config.Config
	Logger      *zap.Logger
	UserRepo    ports.UserRepository
	PostRepo    ports.PostRepository
	BlobStore   ports.BlobStore
	Renderer    ports.Renderer
	Verifier    *auth.Verifier
	Users       *services.UserDirectory
	Graph       *services.SocialGraph
	Posts       *services.Posts
	RateLimiter *auth.TokenBucketLimiter
	Router      *rest.Router
}

// SuperSet is the main provider set containing all providers
var SuperSet = wire.NewSet(
	ProvideLogger,
	ProvideAWSConfig,
	ProvideDynamoDBClient,
	ProvideUserRepository,
	ProvidePostRepository,
	ProvideVerifier,
	ProvideBlobStore,
	ProvideRenderer,
	ProvideUserDirectory,
	ProvideSocialGraph,
	ProvidePosts,
	ProvideRateLimiter,
	ProvideSessionGate,
	ProvidePageHandler,
	ProvideActionHandler,
	ProvideRouter,
	wire.Struct(new(Container), "*"),
)

// InitializeContainer creates a fully wired container
func InitializeContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	wire.Build(SuperSet)
	return nil, nil // Wire will replace this
}
