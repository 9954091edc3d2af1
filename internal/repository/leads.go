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

// LeadWriter is the lead persistence surface consumed by the lead service.
type LeadWriter interface {
	PutLead(ctx context.Context, lead domain.Lead) error
}

// Leads writes and counts lead rows. Every put is a fresh item; the system
// deliberately enforces no dedup key, so identical submissions create
// distinct leads.
type Leads struct {
	api   dynamodbAPI
	table string
}

// NewLeads creates a Leads repository.
func NewLeads(api dynamodbAPI, table string) (*Leads, error) {
	if api == nil {
		return nil, errors.New("repository: api must not be nil")
	}
	if strings.TrimSpace(table) == "" {
		return nil, errors.New("repository: leads table name must not be empty")
	}
	return &Leads{api: api, table: table}, nil
}

// PutLead persists one lead row.
func (l *Leads) PutLead(ctx context.Context, lead domain.Lead) error {
	if strings.TrimSpace(lead.ID) == "" {
		return errors.New("repository: PutLead: lead id is required")
	}

	item, err := attributevalue.MarshalMap(lead)
	if err != nil {
		return fmt.Errorf("repository: PutLead marshal: %w", err)
	}
	if _, err := l.api.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(l.table),
		Item:      item,
	}); err != nil {
		return fmt.Errorf("repository: PutLead: %w", err)
	}
	return nil
}

// Count returns the number of lead rows. Used by the metrics endpoint.
func (l *Leads) Count(ctx context.Context) (int, error) {
	return countTable(ctx, l.api, l.table)
}

// countTable issues a COUNT scan against one table.
func countTable(ctx context.Context, api dynamodbAPI, table string) (int, error) {
	out, err := api.Scan(ctx, &dynamodb.ScanInput{
		TableName: aws.String(table),
		Select:    types.SelectCount,
	})
	if err != nil {
		return 0, fmt.Errorf("repository: count %s: %w", table, err)
	}
	return int(out.Count), nil
}
