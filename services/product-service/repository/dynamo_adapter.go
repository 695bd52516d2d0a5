package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/kushalmahawar2005/Gopi-Misthan-Bhandar-sub000/services/product-service/models"
)

// DynamoAPI is the subset of the DynamoDB client the adapter uses.
type DynamoAPI interface {
	GetItem(ctx context.Context, in *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, in *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	Scan(ctx context.Context, in *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
}

// DynamoAdapter stores products in a table keyed by `product_id` (string).
type DynamoAdapter struct {
	client DynamoAPI
	table  string
}

func NewDynamoAdapter(client DynamoAPI, table string) *DynamoAdapter {
	return &DynamoAdapter{client: client, table: table}
}

type ddbProduct struct {
	ProductID     string  `dynamodbav:"product_id"`
	Name          string  `dynamodbav:"name"`
	Description   *string `dynamodbav:"description,omitempty"`
	Price         float64 `dynamodbav:"price"`
	Category      string  `dynamodbav:"category"`
	Image         *string `dynamodbav:"image,omitempty"`
	Stock         int     `dynamodbav:"stock"`
	IsFeatured    bool    `dynamodbav:"is_featured"`
	DefaultWeight string  `dynamodbav:"default_weight"`
	ShelfLife     *string `dynamodbav:"shelf_life,omitempty"`
	DeliveryTime  *string `dynamodbav:"delivery_time,omitempty"`
	CreatedAt     string  `dynamodbav:"created_at"`
	UpdatedAt     string  `dynamodbav:"updated_at"`
}

func toDDB(p *models.ProductRecord) ddbProduct {
	return ddbProduct{
		ProductID:     p.ID,
		Name:          p.Name,
		Description:   optional(p.Description),
		Price:         p.Price,
		Category:      p.Category,
		Image:         optional(p.Image),
		Stock:         p.Stock,
		IsFeatured:    p.Featured,
		DefaultWeight: p.DefaultWeight,
		ShelfLife:     optional(p.ShelfLife),
		DeliveryTime:  optional(p.DeliveryTime),
		CreatedAt:     p.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:     p.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func (dp ddbProduct) record() models.ProductRecord {
	p := models.ProductRecord{
		ID:            dp.ProductID,
		Name:          dp.Name,
		Description:   deref(dp.Description),
		Price:         dp.Price,
		Category:      dp.Category,
		Image:         deref(dp.Image),
		Stock:         dp.Stock,
		Featured:      dp.IsFeatured,
		DefaultWeight: dp.DefaultWeight,
		ShelfLife:     deref(dp.ShelfLife),
		DeliveryTime:  deref(dp.DeliveryTime),
	}
	if t, err := time.Parse(time.RFC3339, dp.CreatedAt); err == nil {
		p.CreatedAt = t
	}
	if t, err := time.Parse(time.RFC3339, dp.UpdatedAt); err == nil {
		p.UpdatedAt = t
	}
	return p
}

func (d *DynamoAdapter) FindByID(ctx context.Context, id string) (*models.ProductRecord, error) {
	key, err := attributevalue.MarshalMap(map[string]string{"product_id": id})
	if err != nil {
		return nil, fmt.Errorf("marshal key: %w", err)
	}
	out, err := d.client.GetItem(ctx, &dynamodb.GetItemInput{TableName: &d.table, Key: key})
	if err != nil {
		return nil, fmt.Errorf("dynamodb GetItem failed: %w", err)
	}
	if len(out.Item) == 0 {
		return nil, ErrNotFound
	}
	var dp ddbProduct
	if err := attributevalue.UnmarshalMap(out.Item, &dp); err != nil {
		return nil, fmt.Errorf("unmarshal item: %w", err)
	}
	p := dp.record()
	return &p, nil
}

// FindByName scans for an exact name match. Names are unique per catalog.
func (d *DynamoAdapter) FindByName(ctx context.Context, name string) (*models.ProductRecord, error) {
	filter := "#n = :name"
	input := &dynamodb.ScanInput{
		TableName:                 &d.table,
		FilterExpression:          &filter,
		ExpressionAttributeNames:  map[string]string{"#n": "name"},
		ExpressionAttributeValues: map[string]types.AttributeValue{":name": &types.AttributeValueMemberS{Value: name}},
	}
	items, err := d.scan(ctx, input, 1)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrNotFound
	}
	return &items[0], nil
}

// FindAll returns every product, following scan pages.
func (d *DynamoAdapter) FindAll(ctx context.Context) ([]models.ProductRecord, error) {
	return d.scan(ctx, &dynamodb.ScanInput{TableName: &d.table}, 0)
}

func (d *DynamoAdapter) scan(ctx context.Context, input *dynamodb.ScanInput, limit int) ([]models.ProductRecord, error) {
	var results []models.ProductRecord
	paginator := dynamodb.NewScanPaginator(d.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("scan page failed: %w", err)
		}
		for _, it := range page.Items {
			var dp ddbProduct
			if err := attributevalue.UnmarshalMap(it, &dp); err != nil {
				return nil, fmt.Errorf("unmarshal item: %w", err)
			}
			results = append(results, dp.record())
			if limit > 0 && len(results) >= limit {
				return results, nil
			}
		}
	}
	return results, nil
}

// Create puts the product unless its id is already taken.
func (d *DynamoAdapter) Create(ctx context.Context, product *models.ProductRecord) error {
	item, err := attributevalue.MarshalMap(toDDB(product))
	if err != nil {
		return fmt.Errorf("marshal product: %w", err)
	}
	_, err = d.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           &d.table,
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(product_id)"),
	})
	if err != nil {
		var cond *types.ConditionalCheckFailedException
		if errors.As(err, &cond) {
			return ErrAlreadyExists
		}
		return fmt.Errorf("dynamodb PutItem failed: %w", err)
	}
	return nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
