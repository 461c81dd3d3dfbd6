package dynamodb

import (
	"context"
	"errors"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"

	"snapgram-backend/application/ports"
	"snapgram-backend/domain/social"
	pkgerrors "snapgram-backend/pkg/errors"
)

const (
	postSortKey    = "METADATA"
	postEntityType = "POST"
)

// PostRepository implements ports.PostRepository on DynamoDB. Comments are
// a document-local list appended with list_append, so concurrent appends
// never overwrite each other. Two indexes serve the read paths: the entity
// index orders all posts by creation time (global feed) and the author
// index orders one author's posts the same way.
type PostRepository struct {
	client      *dynamodb.Client
	tableName   string
	entityIndex string
	authorIndex string
	logger      *zap.Logger
}

// NewPostRepository creates a new PostRepository.
func NewPostRepository(client *dynamodb.Client, tableName, entityIndex, authorIndex string, logger *zap.Logger) ports.PostRepository {
	return &PostRepository{
		client:      client,
		tableName:   tableName,
		entityIndex: entityIndex,
		authorIndex: authorIndex,
		logger:      logger,
	}
}

// postItem is the DynamoDB item structure for a post document.
type postItem struct {
	PK                   string        `dynamodbav:"PK"`
	SK                   string        `dynamodbav:"SK"`
	EntityType           string        `dynamodbav:"EntityType"`
	GSI1PK               string        `dynamodbav:"GSI1PK"`
	GSI1SK               string        `dynamodbav:"GSI1SK"` // created-at, global recency
	GSI2PK               string        `dynamodbav:"GSI2PK"` // AUTHOR#<id>
	GSI2SK               string        `dynamodbav:"GSI2SK"` // created-at, per-author recency
	PostID               string        `dynamodbav:"PostID"`
	AuthorID             string        `dynamodbav:"AuthorID"`
	AuthorName           string        `dynamodbav:"AuthorName"`
	AuthorProfilePicture string        `dynamodbav:"AuthorProfilePicture,omitempty"`
	Caption              string        `dynamodbav:"Caption"`
	ImageURL             string        `dynamodbav:"ImageURL"`
	Likes                int           `dynamodbav:"Likes"`
	Comments             []commentItem `dynamodbav:"Comments"`
	CreatedAt            string        `dynamodbav:"CreatedAt"`
}

type commentItem struct {
	AuthorID   string `dynamodbav:"AuthorID"`
	AuthorName string `dynamodbav:"AuthorName"`
	Text       string `dynamodbav:"Text"`
	CreatedAt  string `dynamodbav:"CreatedAt"`
}

func postKey(id string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"PK": &types.AttributeValueMemberS{Value: "POST#" + id},
		"SK": &types.AttributeValueMemberS{Value: postSortKey},
	}
}

func toPostItem(p *social.Post) postItem {
	createdAt := p.CreatedAt.Format(time.RFC3339)
	comments := make([]commentItem, 0, len(p.Comments))
	for _, c := range p.Comments {
		comments = append(comments, toCommentItem(c))
	}
	return postItem{
		PK:                   "POST#" + p.ID,
		SK:                   postSortKey,
		EntityType:           postEntityType,
		GSI1PK:               postEntityType,
		GSI1SK:               createdAt,
		GSI2PK:               "AUTHOR#" + p.AuthorID,
		GSI2SK:               createdAt,
		PostID:               p.ID,
		AuthorID:             p.AuthorID,
		AuthorName:           p.AuthorName,
		AuthorProfilePicture: p.AuthorProfilePicture,
		Caption:              p.Caption,
		ImageURL:             p.ImageURL,
		Likes:                p.Likes,
		Comments:             comments,
		CreatedAt:            createdAt,
	}
}

func toCommentItem(c social.Comment) commentItem {
	return commentItem{
		AuthorID:   c.AuthorID,
		AuthorName: c.AuthorName,
		Text:       c.Text,
		CreatedAt:  c.CreatedAt.Format(time.RFC3339),
	}
}

func (item postItem) toPost() *social.Post {
	createdAt, _ := time.Parse(time.RFC3339, item.CreatedAt)
	comments := make([]social.Comment, 0, len(item.Comments))
	for _, c := range item.Comments {
		commentedAt, _ := time.Parse(time.RFC3339, c.CreatedAt)
		comments = append(comments, social.Comment{
			AuthorID:   c.AuthorID,
			AuthorName: c.AuthorName,
			Text:       c.Text,
			CreatedAt:  commentedAt,
		})
	}
	post := &social.Post{
		ID:                   item.PostID,
		AuthorID:             item.AuthorID,
		AuthorName:           item.AuthorName,
		AuthorProfilePicture: item.AuthorProfilePicture,
		Caption:              item.Caption,
		ImageURL:             item.ImageURL,
		Likes:                item.Likes,
		Comments:             comments,
		CreatedAt:            createdAt,
	}
	return post.Normalize()
}

// Create persists a new post document.
func (r *PostRepository) Create(ctx context.Context, post *social.Post) error {
	av, err := attributevalue.MarshalMap(toPostItem(post))
	if err != nil {
		return pkgerrors.NewDatabaseError("marshal post", err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                av,
		ConditionExpression: aws.String("attribute_not_exists(PK)"),
	})
	if err != nil {
		r.logger.Error("Failed to create post",
			zap.Error(err),
			zap.String("postID", post.ID),
		)
		return pkgerrors.NewDatabaseError("create post", err)
	}

	return nil
}

// Get retrieves a post document by id.
func (r *PostRepository) Get(ctx context.Context, id string) (*social.Post, error) {
	result, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       postKey(id),
	})
	if err != nil {
		r.logger.Error("Failed to get post",
			zap.Error(err),
			zap.String("postID", id),
		)
		return nil, pkgerrors.NewDatabaseError("get post", err)
	}
	if result.Item == nil {
		return nil, pkgerrors.NewNotFoundError("post")
	}

	var item postItem
	if err := attributevalue.UnmarshalMap(result.Item, &item); err != nil {
		return nil, pkgerrors.NewDatabaseError("unmarshal post", err)
	}
	return item.toPost(), nil
}

// AppendComment atomically appends one comment to the post's sequence.
// list_append on the stored list keeps concurrent appends from losing
// each other; there is no read-modify-write of the whole list.
func (r *PostRepository) AppendComment(ctx context.Context, postID string, comment social.Comment) error {
	update := expression.Set(
		expression.Name("Comments"),
		expression.ListAppend(
			expression.IfNotExists(expression.Name("Comments"), expression.Value([]commentItem{})),
			expression.Value([]commentItem{toCommentItem(comment)}),
		),
	)

	expr, err := expression.NewBuilder().
		WithUpdate(update).
		WithCondition(expression.AttributeExists(expression.Name("PK"))).
		Build()
	if err != nil {
		return pkgerrors.NewDatabaseError("build comment expression", err)
	}

	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       postKey(postID),
		UpdateExpression:          expr.Update(),
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return pkgerrors.NewNotFoundError("post")
		}
		r.logger.Error("Failed to append comment",
			zap.Error(err),
			zap.String("postID", postID),
		)
		return pkgerrors.NewDatabaseError("append comment", err)
	}

	return nil
}

// ListByAuthor returns one author's posts, newest first.
func (r *PostRepository) ListByAuthor(ctx context.Context, authorID string) ([]*social.Post, error) {
	keyCond := expression.Key("GSI2PK").Equal(expression.Value("AUTHOR#" + authorID))

	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("build author query", err)
	}

	result, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		IndexName:                 aws.String(r.authorIndex),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		ScanIndexForward:          aws.Bool(false),
	})
	if err != nil {
		r.logger.Error("Failed to list posts by author",
			zap.Error(err),
			zap.String("authorID", authorID),
		)
		return nil, pkgerrors.NewDatabaseError("list posts by author", err)
	}

	return r.unmarshalPosts(result.Items), nil
}

// ListRecent returns the newest posts across all authors.
func (r *PostRepository) ListRecent(ctx context.Context, limit int) ([]*social.Post, error) {
	keyCond := expression.Key("GSI1PK").Equal(expression.Value(postEntityType))

	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("build recency query", err)
	}

	result, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		IndexName:                 aws.String(r.entityIndex),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		ScanIndexForward:          aws.Bool(false),
		Limit:                     aws.Int32(int32(limit)),
	})
	if err != nil {
		r.logger.Error("Failed to list recent posts", zap.Error(err))
		return nil, pkgerrors.NewDatabaseError("list recent posts", err)
	}

	return r.unmarshalPosts(result.Items), nil
}

func (r *PostRepository) unmarshalPosts(items []map[string]types.AttributeValue) []*social.Post {
	posts := make([]*social.Post, 0, len(items))
	for _, raw := range items {
		var item postItem
		if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
			r.logger.Warn("Failed to unmarshal post item, skipping", zap.Error(err))
			continue
		}
		posts = append(posts, item.toPost())
	}
	return posts
}
