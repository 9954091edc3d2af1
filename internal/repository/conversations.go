package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"mfc-voice-agent/internal/domain"
)

// ErrConversationNotFound reports a get for an unknown conversation id.
var ErrConversationNotFound = errors.New("repository: conversation not found")

// ConversationStore is the conversation persistence surface used by the
// server variant.
type ConversationStore interface {
	GetConversation(ctx context.Context, id string) (domain.Conversation, error)
	PutConversation(ctx context.Context, conv domain.Conversation) error
	LatestCompletedByPhone(ctx context.Context, phone string) (domain.Conversation, error)
}

// Conversations reads and writes conversation rows keyed by id.
type Conversations struct {
	api   dynamodbAPI
	table string
}

// NewConversations creates a Conversations repository.
func NewConversations(api dynamodbAPI, table string) (*Conversations, error) {
	if api == nil {
		return nil, errors.New("repository: api must not be nil")
	}
	if strings.TrimSpace(table) == "" {
		return nil, errors.New("repository: conversations table name must not be empty")
	}
	return &Conversations{api: api, table: table}, nil
}

// GetConversation fetches one conversation by id.
func (c *Conversations) GetConversation(ctx context.Context, id string) (domain.Conversation, error) {
	out, err := c.api.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(c.table),
		Key: map[string]types.AttributeValue{
			"ID": &types.AttributeValueMemberS{Value: id},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return domain.Conversation{}, fmt.Errorf("repository: GetConversation: %w", err)
	}
	if out == nil || len(out.Item) == 0 {
		return domain.Conversation{}, ErrConversationNotFound
	}

	var conv domain.Conversation
	if err := attributevalue.UnmarshalMap(out.Item, &conv); err != nil {
		return domain.Conversation{}, fmt.Errorf("repository: GetConversation unmarshal: %w", err)
	}
	return conv, nil
}

// PutConversation writes or replaces the full conversation item. The
// transcript is append-only; callers only ever grow it.
func (c *Conversations) PutConversation(ctx context.Context, conv domain.Conversation) error {
	if strings.TrimSpace(conv.ID) == "" {
		return errors.New("repository: PutConversation: conversation id is required")
	}

	item, err := attributevalue.MarshalMap(conv)
	if err != nil {
		return fmt.Errorf("repository: PutConversation marshal: %w", err)
	}
	if _, err := c.api.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(c.table),
		Item:      item,
	}); err != nil {
		return fmt.Errorf("repository: PutConversation: %w", err)
	}
	return nil
}

// LatestCompletedByPhone returns the most recently updated completed
// conversation for a phone number, for returning-caller context.
func (c *Conversations) LatestCompletedByPhone(ctx context.Context, phone string) (domain.Conversation, error) {
	out, err := c.api.Scan(ctx, &dynamodb.ScanInput{
		TableName:        aws.String(c.table),
		FilterExpression: aws.String("PhoneNumber = :phone AND #status = :completed"),
		ExpressionAttributeNames: map[string]string{
			"#status": "Status",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":phone":     &types.AttributeValueMemberS{Value: phone},
			":completed": &types.AttributeValueMemberS{Value: domain.ConversationCompleted},
		},
	})
	if err != nil {
		return domain.Conversation{}, fmt.Errorf("repository: LatestCompletedByPhone scan: %w", err)
	}

	var convs []domain.Conversation
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &convs); err != nil {
		return domain.Conversation{}, fmt.Errorf("repository: LatestCompletedByPhone unmarshal: %w", err)
	}
	if len(convs) == 0 {
		return domain.Conversation{}, ErrConversationNotFound
	}

	latest := convs[0]
	for _, conv := range convs[1:] {
		if conv.UpdatedAt > latest.UpdatedAt {
			latest = conv
		}
	}
	return latest, nil
}

// Count returns the number of conversation rows. Used by the metrics endpoint.
func (c *Conversations) Count(ctx context.Context) (int, error) {
	return countTable(ctx, c.api, c.table)
}
