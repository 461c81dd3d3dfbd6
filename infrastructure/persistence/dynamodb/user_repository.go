package dynamodb

import (
	"context"
	"errors"
	"strings"
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

// Key layout for user documents in the single-table design.
const (
	userSortKey    = "PROFILE"
	userEntityType = "USER"
)

// UserRepository implements ports.UserRepository on DynamoDB. Follower and
// following sets are stored as string sets so ADD/DELETE updates give the
// atomic set-union/set-difference semantics the social graph relies on.
// DynamoDB cannot store an empty string set, so an absent attribute means
// the empty set; domain normalization restores it on read.
type UserRepository struct {
	client      *dynamodb.Client
	tableName   string
	entityIndex string
	logger      *zap.Logger
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(client *dynamodb.Client, tableName, entityIndex string, logger *zap.Logger) ports.UserRepository {
	return &UserRepository{
		client:      client,
		tableName:   tableName,
		entityIndex: entityIndex,
		logger:      logger,
	}
}

// userItem is the DynamoDB item structure for a user document.
type userItem struct {
	PK         string `dynamodbav:"PK"`
	SK         string `dynamodbav:"SK"`
	EntityType string `dynamodbav:"EntityType"`
	GSI1PK     string `dynamodbav:"GSI1PK"`
	// Lowercased name, for prefix search. Omitted when the name is empty:
	// index key attributes cannot hold empty strings, and a nameless user
	// simply stays out of the search index until a name is set.
	GSI1SK         string   `dynamodbav:"GSI1SK,omitempty"`
	UserID         string   `dynamodbav:"UserID"`
	Name           string   `dynamodbav:"Name"`
	Email          string   `dynamodbav:"Email,omitempty"`
	Username       string   `dynamodbav:"Username,omitempty"`
	Bio            string   `dynamodbav:"Bio,omitempty"`
	Website        string   `dynamodbav:"Website,omitempty"`
	Phone          string   `dynamodbav:"Phone,omitempty"`
	Gender         string   `dynamodbav:"Gender,omitempty"`
	PrivateAccount bool     `dynamodbav:"PrivateAccount"`
	ProfilePicture string   `dynamodbav:"ProfilePicture,omitempty"`
	Followers      []string `dynamodbav:"Followers,stringset,omitempty"`
	Following      []string `dynamodbav:"Following,stringset,omitempty"`
	CreatedAt      string   `dynamodbav:"CreatedAt"`
	UpdatedAt      string   `dynamodbav:"UpdatedAt"`
}

func userKey(id string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"PK": &types.AttributeValueMemberS{Value: "USER#" + id},
		"SK": &types.AttributeValueMemberS{Value: userSortKey},
	}
}

func toUserItem(u *social.User) userItem {
	item := userItem{
		PK:             "USER#" + u.ID,
		SK:             userSortKey,
		EntityType:     userEntityType,
		GSI1PK:         userEntityType,
		GSI1SK:         strings.ToLower(u.Name),
		UserID:         u.ID,
		Name:           u.Name,
		Email:          u.Email,
		Username:       u.Username,
		Bio:            u.Bio,
		Website:        u.Website,
		Phone:          u.Phone,
		Gender:         u.Gender,
		PrivateAccount: u.PrivateAccount,
		ProfilePicture: u.ProfilePicture,
		CreatedAt:      u.CreatedAt.Format(time.RFC3339),
		UpdatedAt:      u.UpdatedAt.Format(time.RFC3339),
	}
	if len(u.Followers) > 0 {
		item.Followers = u.Followers
	}
	if len(u.Following) > 0 {
		item.Following = u.Following
	}
	return item
}

func (item userItem) toUser() *social.User {
	createdAt, _ := time.Parse(time.RFC3339, item.CreatedAt)
	updatedAt, _ := time.Parse(time.RFC3339, item.UpdatedAt)

	user := &social.User{
		ID:             item.UserID,
		Name:           item.Name,
		Email:          item.Email,
		Username:       item.Username,
		Bio:            item.Bio,
		Website:        item.Website,
		Phone:          item.Phone,
		Gender:         item.Gender,
		PrivateAccount: item.PrivateAccount,
		ProfilePicture: item.ProfilePicture,
		Followers:      item.Followers,
		Following:      item.Following,
		CreatedAt:      createdAt,
		UpdatedAt:      updatedAt,
	}
	return user.Normalize()
}

// Get retrieves a user document by provider subject id.
func (r *UserRepository) Get(ctx context.Context, id string) (*social.User, error) {
	result, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       userKey(id),
	})
	if err != nil {
		r.logger.Error("Failed to get user",
			zap.Error(err),
			zap.String("userID", id),
		)
		return nil, pkgerrors.NewDatabaseError("get user", err)
	}
	if result.Item == nil {
		return nil, pkgerrors.NewNotFoundError("user")
	}

	var item userItem
	if err := attributevalue.UnmarshalMap(result.Item, &item); err != nil {
		return nil, pkgerrors.NewDatabaseError("unmarshal user", err)
	}
	return item.toUser(), nil
}

// CreateIfAbsent writes the user document only when no document with that
// id exists. When a concurrent duplicate sign-in won the race, the stored
// record is read back and returned instead.
func (r *UserRepository) CreateIfAbsent(ctx context.Context, user *social.User) (*social.User, error) {
	av, err := attributevalue.MarshalMap(toUserItem(user))
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("marshal user", err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                av,
		ConditionExpression: aws.String("attribute_not_exists(PK)"),
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			r.logger.Debug("User already exists, returning stored record",
				zap.String("userID", user.ID),
			)
			return r.Get(ctx, user.ID)
		}
		r.logger.Error("Failed to create user",
			zap.Error(err),
			zap.String("userID", user.ID),
		)
		return nil, pkgerrors.NewDatabaseError("create user", err)
	}

	return user, nil
}

// UpdateProfile applies a partial profile edit to the user document,
// keeping the lowercased-name search key in step with the display name.
func (r *UserRepository) UpdateProfile(ctx context.Context, id string, upd social.ProfileUpdate) error {
	now := time.Now().UTC().Format(time.RFC3339)

	update := expression.
		Set(expression.Name("Name"), expression.Value(upd.Name)).
		Set(expression.Name("GSI1SK"), expression.Value(strings.ToLower(upd.Name))).
		Set(expression.Name("UpdatedAt"), expression.Value(now))

	if upd.Username != nil {
		update = update.Set(expression.Name("Username"), expression.Value(*upd.Username))
	}
	if upd.Bio != nil {
		update = update.Set(expression.Name("Bio"), expression.Value(*upd.Bio))
	}
	if upd.Website != nil {
		update = update.Set(expression.Name("Website"), expression.Value(*upd.Website))
	}
	if upd.Phone != nil {
		update = update.Set(expression.Name("Phone"), expression.Value(*upd.Phone))
	}
	if upd.Gender != nil {
		update = update.Set(expression.Name("Gender"), expression.Value(*upd.Gender))
	}
	if upd.PrivateAccount != nil {
		update = update.Set(expression.Name("PrivateAccount"), expression.Value(*upd.PrivateAccount))
	}
	if upd.ProfilePicture != nil {
		update = update.Set(expression.Name("ProfilePicture"), expression.Value(*upd.ProfilePicture))
	}

	expr, err := expression.NewBuilder().
		WithUpdate(update).
		WithCondition(expression.AttributeExists(expression.Name("PK"))).
		Build()
	if err != nil {
		return pkgerrors.NewDatabaseError("build update expression", err)
	}

	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       userKey(id),
		UpdateExpression:          expr.Update(),
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return pkgerrors.NewNotFoundError("user")
		}
		r.logger.Error("Failed to update user profile",
			zap.Error(err),
			zap.String("userID", id),
		)
		return pkgerrors.NewDatabaseError("update profile", err)
	}

	return nil
}

// AddFollowing adds targetID to the user's following set.
func (r *UserRepository) AddFollowing(ctx context.Context, userID, targetID string) error {
	return r.mutateEdgeSet(ctx, userID, "Following", targetID, true)
}

// RemoveFollowing removes targetID from the user's following set.
func (r *UserRepository) RemoveFollowing(ctx context.Context, userID, targetID string) error {
	return r.mutateEdgeSet(ctx, userID, "Following", targetID, false)
}

// AddFollower adds followerID to the user's follower set.
func (r *UserRepository) AddFollower(ctx context.Context, userID, followerID string) error {
	return r.mutateEdgeSet(ctx, userID, "Followers", followerID, true)
}

// RemoveFollower removes followerID from the user's follower set.
func (r *UserRepository) RemoveFollower(ctx context.Context, userID, followerID string) error {
	return r.mutateEdgeSet(ctx, userID, "Followers", followerID, false)
}

// mutateEdgeSet runs one atomic ADD/DELETE against an edge string set,
// conditional on the user document existing.
func (r *UserRepository) mutateEdgeSet(ctx context.Context, userID, attr, member string, add bool) error {
	memberSet := &types.AttributeValueMemberSS{Value: []string{member}}

	var update expression.UpdateBuilder
	if add {
		update = expression.Add(expression.Name(attr), expression.Value(memberSet))
	} else {
		update = expression.Delete(expression.Name(attr), expression.Value(memberSet))
	}

	expr, err := expression.NewBuilder().
		WithUpdate(update).
		WithCondition(expression.AttributeExists(expression.Name("PK"))).
		Build()
	if err != nil {
		return pkgerrors.NewDatabaseError("build edge expression", err)
	}

	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       userKey(userID),
		UpdateExpression:          expr.Update(),
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return pkgerrors.NewNotFoundError("user")
		}
		r.logger.Error("Failed to mutate edge set",
			zap.Error(err),
			zap.String("userID", userID),
			zap.String("attribute", attr),
			zap.Bool("add", add),
		)
		return pkgerrors.NewDatabaseError("mutate edge set", err)
	}

	return nil
}

// SearchByNamePrefix queries the entity index for users whose lowercased
// name begins with the prefix. Index order is the alphabetical order the
// search page displays.
func (r *UserRepository) SearchByNamePrefix(ctx context.Context, prefixLower string, limit int) ([]*social.User, error) {
	keyCond := expression.Key("GSI1PK").Equal(expression.Value(userEntityType)).
		And(expression.Key("GSI1SK").BeginsWith(prefixLower))

	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("build search expression", err)
	}

	result, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		IndexName:                 aws.String(r.entityIndex),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		Limit:                     aws.Int32(int32(limit)),
	})
	if err != nil {
		r.logger.Error("Failed to search users", zap.Error(err))
		return nil, pkgerrors.NewDatabaseError("search users", err)
	}

	users := make([]*social.User, 0, len(result.Items))
	for _, raw := range result.Items {
		var item userItem
		if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
			r.logger.Warn("Failed to unmarshal user item, skipping", zap.Error(err))
			continue
		}
		users = append(users, item.toUser())
	}
	return users, nil
}
