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

// ProductFilter narrows a product search. Zero-value fields are ignored.
type ProductFilter struct {
	SearchTerm    string
	Category      string
	LivestockType string
	FeaturedOnly  bool
}

// WarehouseFilter narrows a warehouse lookup. Zero-value fields are ignored.
type WarehouseFilter struct {
	Code   string
	City   string
	Region string
}

// CatalogReader is the read-only store surface consumed by the handlers.
type CatalogReader interface {
	SearchProducts(ctx context.Context, f ProductFilter, limit int) ([]domain.Product, error)
	FindWarehouses(ctx context.Context, f WarehouseFilter, limit int) ([]domain.Warehouse, error)
	ActiveKnowledge(ctx context.Context) ([]domain.KnowledgeEntry, error)
}

// Catalog reads the product, warehouse, and knowledge reference tables.
type Catalog struct {
	api             dynamodbAPI
	productsTable   string
	warehousesTable string
	knowledgeTable  string
}

// NewCatalog creates a Catalog over the three reference tables.
func NewCatalog(api dynamodbAPI, productsTable, warehousesTable, knowledgeTable string) (*Catalog, error) {
	if api == nil {
		return nil, errors.New("repository: api must not be nil")
	}
	for _, t := range []string{productsTable, warehousesTable, knowledgeTable} {
		if strings.TrimSpace(t) == "" {
			return nil, errors.New("repository: catalog table names must not be empty")
		}
	}
	return &Catalog{
		api:             api,
		productsTable:   productsTable,
		warehousesTable: warehousesTable,
		knowledgeTable:  knowledgeTable,
	}, nil
}

// SearchProducts scans active products, applying each supplied filter as a
// DynamoDB filter expression. Search terms match name, description, or
// category as lowercase substrings against the SearchText attribute the
// catalog importer maintains.
func (c *Catalog) SearchProducts(ctx context.Context, f ProductFilter, limit int) ([]domain.Product, error) {
	exprs := []string{"Active = :active"}
	values := map[string]types.AttributeValue{
		":active": &types.AttributeValueMemberBOOL{Value: true},
	}

	if term := strings.ToLower(strings.TrimSpace(f.SearchTerm)); term != "" {
		exprs = append(exprs, "contains(SearchText, :term)")
		values[":term"] = &types.AttributeValueMemberS{Value: term}
	}
	if cat := strings.TrimSpace(f.Category); cat != "" {
		exprs = append(exprs, "Category = :category")
		values[":category"] = &types.AttributeValueMemberS{Value: cat}
	}
	if lt := strings.TrimSpace(f.LivestockType); lt != "" {
		exprs = append(exprs, "contains(Livestock, :livestock)")
		values[":livestock"] = &types.AttributeValueMemberS{Value: lt}
	}
	if f.FeaturedOnly {
		exprs = append(exprs, "Featured = :featured")
		values[":featured"] = &types.AttributeValueMemberBOOL{Value: true}
	}

	out, err := c.api.Scan(ctx, &dynamodb.ScanInput{
		TableName:                 aws.String(c.productsTable),
		FilterExpression:          aws.String(strings.Join(exprs, " AND ")),
		ExpressionAttributeValues: values,
	})
	if err != nil {
		return nil, fmt.Errorf("repository: SearchProducts scan: %w", err)
	}

	var products []domain.Product
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &products); err != nil {
		return nil, fmt.Errorf("repository: SearchProducts unmarshal: %w", err)
	}
	sortByCode(products, func(p domain.Product) string { return p.Code })
	return capResults(products, limit), nil
}

// FindWarehouses scans active warehouses by code, city, or region.
func (c *Catalog) FindWarehouses(ctx context.Context, f WarehouseFilter, limit int) ([]domain.Warehouse, error) {
	exprs := []string{"Active = :active"}
	values := map[string]types.AttributeValue{
		":active": &types.AttributeValueMemberBOOL{Value: true},
	}

	if code := strings.TrimSpace(f.Code); code != "" {
		exprs = append(exprs, "Code = :code")
		values[":code"] = &types.AttributeValueMemberS{Value: code}
	}
	if city := strings.TrimSpace(f.City); city != "" {
		exprs = append(exprs, "City = :city")
		values[":city"] = &types.AttributeValueMemberS{Value: city}
	}
	if region := strings.TrimSpace(f.Region); region != "" {
		exprs = append(exprs, "#region = :region")
		values[":region"] = &types.AttributeValueMemberS{Value: region}
	}

	in := &dynamodb.ScanInput{
		TableName:                 aws.String(c.warehousesTable),
		FilterExpression:          aws.String(strings.Join(exprs, " AND ")),
		ExpressionAttributeValues: values,
	}
	if _, ok := values[":region"]; ok {
		in.ExpressionAttributeNames = map[string]string{"#region": "Region"}
	}

	out, err := c.api.Scan(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("repository: FindWarehouses scan: %w", err)
	}

	var warehouses []domain.Warehouse
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &warehouses); err != nil {
		return nil, fmt.Errorf("repository: FindWarehouses unmarshal: %w", err)
	}
	sortByCode(warehouses, func(w domain.Warehouse) string { return w.Code })
	return capResults(warehouses, limit), nil
}

// ActiveKnowledge returns every active knowledge row; keyword ranking happens
// in the usecase layer where it can be tested without a store.
func (c *Catalog) ActiveKnowledge(ctx context.Context) ([]domain.KnowledgeEntry, error) {
	out, err := c.api.Scan(ctx, &dynamodb.ScanInput{
		TableName:        aws.String(c.knowledgeTable),
		FilterExpression: aws.String("Active = :active"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":active": &types.AttributeValueMemberBOOL{Value: true},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("repository: ActiveKnowledge scan: %w", err)
	}

	var entries []domain.KnowledgeEntry
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &entries); err != nil {
		return nil, fmt.Errorf("repository: ActiveKnowledge unmarshal: %w", err)
	}
	sortByCode(entries, func(e domain.KnowledgeEntry) string { return e.ID })
	return entries, nil
}

// sortByCode gives scans a deterministic order; DynamoDB scan order is not
// guaranteed and the voice scripts read results aloud.
func sortByCode[T any](items []T, key func(T) string) {
	sort.Slice(items, func(i, j int) bool { return key(items[i]) < key(items[j]) })
}

func capResults[T any](items []T, limit int) []T {
	if limit > 0 && len(items) > limit {
		return items[:limit]
	}
	return items
}
