package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"mfc-voice-agent/internal/domain"
)

// RoutingReader is the territory/specialist surface consumed by resolution.
type RoutingReader interface {
	ActiveTerritories(ctx context.Context) ([]domain.Territory, error)
	SpecialistsForTerritory(ctx context.Context, territoryCode string) ([]domain.Specialist, error)
	ActiveSpecialists(ctx context.Context) ([]domain.Specialist, error)
}

// Routing reads the territory and specialist reference tables.
type Routing struct {
	api              dynamodbAPI
	territoriesTable string
	specialistsTable string
}

// NewRouting creates a Routing over the two reference tables.
func NewRouting(api dynamodbAPI, territoriesTable, specialistsTable string) (*Routing, error) {
	if api == nil {
		return nil, errors.New("repository: api must not be nil")
	}
	if strings.TrimSpace(territoriesTable) == "" || strings.TrimSpace(specialistsTable) == "" {
		return nil, errors.New("repository: routing table names must not be empty")
	}
	return &Routing{
		api:              api,
		territoriesTable: territoriesTable,
		specialistsTable: specialistsTable,
	}, nil
}

// ActiveTerritories returns all active territories ordered by code, so that
// callers applying "first match wins" get a deterministic answer.
func (r *Routing) ActiveTerritories(ctx context.Context) ([]domain.Territory, error) {
	out, err := r.api.Scan(ctx, &dynamodb.ScanInput{
		TableName:        aws.String(r.territoriesTable),
		FilterExpression: aws.String("Active = :active"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":active": &types.AttributeValueMemberBOOL{Value: true},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("repository: ActiveTerritories scan: %w", err)
	}

	var territories []domain.Territory
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &territories); err != nil {
		return nil, fmt.Errorf("repository: ActiveTerritories unmarshal: %w", err)
	}
	sort.Slice(territories, func(i, j int) bool { return territories[i].Code < territories[j].Code })
	return territories, nil
}

// SpecialistsForTerritory returns active specialists for one territory,
// ordered by id (lowest id is treated as primary).
func (r *Routing) SpecialistsForTerritory(ctx context.Context, territoryCode string) ([]domain.Specialist, error) {
	out, err := r.api.Scan(ctx, &dynamodb.ScanInput{
		TableName:        aws.String(r.specialistsTable),
		FilterExpression: aws.String("Active = :active AND TerritoryCode = :territory"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":active":    &types.AttributeValueMemberBOOL{Value: true},
			":territory": &types.AttributeValueMemberS{Value: territoryCode},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("repository: SpecialistsForTerritory scan: %w", err)
	}

	var specialists []domain.Specialist
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &specialists); err != nil {
		return nil, fmt.Errorf("repository: SpecialistsForTerritory unmarshal: %w", err)
	}
	sort.Slice(specialists, func(i, j int) bool { return specialists[i].ID < specialists[j].ID })
	return specialists, nil
}

// ActiveSpecialists returns every active specialist ordered by id. Used for
// the warehouse-operations contact lookup, which is not territory-scoped.
func (r *Routing) ActiveSpecialists(ctx context.Context) ([]domain.Specialist, error) {
	out, err := r.api.Scan(ctx, &dynamodb.ScanInput{
		TableName:        aws.String(r.specialistsTable),
		FilterExpression: aws.String("Active = :active"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":active": &types.AttributeValueMemberBOOL{Value: true},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("repository: ActiveSpecialists scan: %w", err)
	}

	var specialists []domain.Specialist
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &specialists); err != nil {
		return nil, fmt.Errorf("repository: ActiveSpecialists unmarshal: %w", err)
	}
	sort.Slice(specialists, func(i, j int) bool { return specialists[i].ID < specialists[j].ID })
	return specialists, nil
}
