package repository

import (
	"context"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kushalmahawar2005/Gopi-Misthan-Bhandar-sub000/services/product-service/models"
)

type fakeDynamo struct {
	items   map[string]map[string]types.AttributeValue
	order   []string
	lastPut *dynamodb.PutItemInput
}

func newFakeDynamo() *fakeDynamo {
	return &fakeDynamo{items: map[string]map[string]types.AttributeValue{}}
}

func (f *fakeDynamo) GetItem(_ context.Context, in *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	id := in.Key["product_id"].(*types.AttributeValueMemberS).Value
	return &dynamodb.GetItemOutput{Item: f.items[id]}, nil
}

func (f *fakeDynamo) PutItem(_ context.Context, in *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	f.lastPut = in
	id := in.Item["product_id"].(*types.AttributeValueMemberS).Value
	if _, ok := f.items[id]; ok {
		return nil, &types.ConditionalCheckFailedException{}
	}
	f.items[id] = in.Item
	f.order = append(f.order, id)
	return &dynamodb.PutItemOutput{}, nil
}

// Scan honours the "#n = :name" filter only.
func (f *fakeDynamo) Scan(_ context.Context, in *dynamodb.ScanInput, _ ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
	var out []map[string]types.AttributeValue
	for _, id := range f.order {
		item := f.items[id]
		if in.FilterExpression != nil {
			want := in.ExpressionAttributeValues[":name"].(*types.AttributeValueMemberS).Value
			if item["name"].(*types.AttributeValueMemberS).Value != want {
				continue
			}
		}
		out = append(out, item)
	}
	return &dynamodb.ScanOutput{Items: out, Count: int32(len(out))}, nil
}

func sampleRecord(id, name string) *models.ProductRecord {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	return &models.ProductRecord{
		ID: id, Name: name, Price: 320, Category: "Bengali", Stock: 8,
		DefaultWeight: "500g", CreatedAt: now, UpdatedAt: now,
	}
}

func TestDynamoAdapter_CreateAndFind(t *testing.T) {
	ddb := newFakeDynamo()
	repo := NewDynamoAdapter(ddb, "Products")
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, sampleRecord("p1", "Sandesh")))
	require.NoError(t, repo.Create(ctx, sampleRecord("p2", "Mishti Doi")))

	assert.Equal(t, "attribute_not_exists(product_id)", *ddb.lastPut.ConditionExpression)
	var stored ddbProduct
	require.NoError(t, attributevalue.UnmarshalMap(ddb.items["p1"], &stored))
	assert.Nil(t, stored.Description)
	assert.Equal(t, "2026-03-01T10:00:00Z", stored.CreatedAt)

	got, err := repo.FindByID(ctx, "p2")
	require.NoError(t, err)
	assert.Equal(t, "Mishti Doi", got.Name)
	assert.Equal(t, 8, got.Stock)

	byName, err := repo.FindByName(ctx, "Sandesh")
	require.NoError(t, err)
	assert.Equal(t, "p1", byName.ID)

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestDynamoAdapter_Errors(t *testing.T) {
	repo := NewDynamoAdapter(newFakeDynamo(), "Products")
	ctx := context.Background()

	_, err := repo.FindByID(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = repo.FindByName(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, repo.Create(ctx, sampleRecord("p1", "Peda")))
	assert.ErrorIs(t, repo.Create(ctx, sampleRecord("p1", "Peda again")), ErrAlreadyExists)
}
