package di

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"go.uber.org/zap"

	"snapgram-backend/application/ports"
	"snapgram-backend/application/services"
	"snapgram-backend/infrastructure/config"
	"snapgram-backend/infrastructure/persistence/dynamodb"
	"snapgram-backend/infrastructure/render"
	"snapgram-backend/infrastructure/storage"
	"snapgram-backend/interfaces/http/rest"
	"snapgram-backend/interfaces/http/rest/handlers"
	"snapgram-backend/interfaces/http/rest/middleware"
	"snapgram-backend/pkg/auth"
)

const rateLimitPerMinute = 120

// ProvideLogger creates a new logger instance
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsProduction() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

// ProvideAWSConfig creates AWS configuration
func ProvideAWSConfig(ctx context.Context, cfg *config.Config) (aws.Config, error) {
	return awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.AWSRegion),
	)
}

// ProvideDynamoDBClient creates a DynamoDB client
func ProvideDynamoDBClient(awsCfg aws.Config) *awsdynamodb.Client {
	return awsdynamodb.NewFromConfig(awsCfg)
}

// ProvideUserRepository creates the user repository
func ProvideUserRepository(client *awsdynamodb.Client, cfg *config.Config, logger *zap.Logger) ports.UserRepository {
	return dynamodb.NewUserRepository(client, cfg.Table, cfg.EntityIndexName, logger)
}

// ProvidePostRepository creates the post repository
func ProvidePostRepository(client *awsdynamodb.Client, cfg *config.Config, logger *zap.Logger) ports.PostRepository {
	return dynamodb.NewPostRepository(client, cfg.Table, cfg.EntityIndexName, cfg.AuthorIndexName, logger)
}

// ProvideVerifier creates the identity token verifier
func ProvideVerifier(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*auth.Verifier, error) {
	return auth.NewVerifier(ctx, cfg.Auth.IssuerURL, cfg.Auth.Audience, logger)
}

// ProvideBlobStore creates the image blob store
func ProvideBlobStore(cfg *config.Config, logger *zap.Logger) (ports.BlobStore, error) {
	return storage.NewMinioBlobStore(cfg.Blob, logger)
}

// ProvideRenderer creates the HTML view renderer
func ProvideRenderer() (ports.Renderer, error) {
	return render.NewTemplateRenderer()
}

// ProvideUserDirectory creates the user directory service
func ProvideUserDirectory(users ports.UserRepository, logger *zap.Logger) *services.UserDirectory {
	return services.NewUserDirectory(users, logger)
}

// ProvideSocialGraph creates the social graph service
func ProvideSocialGraph(users ports.UserRepository, logger *zap.Logger) *services.SocialGraph {
	return services.NewSocialGraph(users, logger)
}

// ProvidePosts creates the posts service
func ProvidePosts(posts ports.PostRepository, logger *zap.Logger) *services.Posts {
	return services.NewPosts(posts, logger)
}

// ProvideRateLimiter creates the per-IP request limiter
func ProvideRateLimiter() *auth.TokenBucketLimiter {
	return auth.NewIPRateLimiter(rateLimitPerMinute)
}

// ProvideSessionGate creates the session middleware
func ProvideSessionGate(verifier *auth.Verifier, directory *services.UserDirectory, cfg *config.Config, logger *zap.Logger) *middleware.SessionGate {
	return middleware.NewSessionGate(verifier, directory, cfg.Auth.CookieName, logger)
}

// ProvidePageHandler creates the page handler
func ProvidePageHandler(users *services.UserDirectory, posts *services.Posts, renderer ports.Renderer, logger *zap.Logger) *handlers.PageHandler {
	return handlers.NewPageHandler(users, posts, renderer, logger)
}

// ProvideActionHandler creates the action handler
func ProvideActionHandler(
	verifier *auth.Verifier,
	users *services.UserDirectory,
	graph *services.SocialGraph,
	posts *services.Posts,
	blobs ports.BlobStore,
	cfg *config.Config,
	logger *zap.Logger,
) *handlers.ActionHandler {
	return handlers.NewActionHandler(verifier, users, graph, posts, blobs, cfg.Auth, logger)
}

// ProvideRouter creates the HTTP router
func ProvideRouter(
	cfg *config.Config,
	pages *handlers.PageHandler,
	actions *handlers.ActionHandler,
	session *middleware.SessionGate,
	limiter *auth.TokenBucketLimiter,
	logger *zap.Logger,
) *rest.Router {
	return rest.NewRouter(cfg, pages, actions, session, limiter, logger)
}
