package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/example/storefront/internal/store"
)

// DynamoDocument mirrors the snapshot document as a single DynamoDB item
// keyed by doc_id. Replace overwrites unconditionally (last writer wins).
type DynamoDocument struct {
	client    *dynamodb.Client
	tableName string
	docID     string
}

// dynamoItem is the DynamoDB item structure.
type dynamoItem struct {
	DocID     string `dynamodbav:"doc_id"`
	Payload   string `dynamodbav:"payload"`
	UpdatedAt string `dynamodbav:"updated_at"`
}

func NewDynamoDocument(client *dynamodb.Client, tableName, docID string) *DynamoDocument {
	return &DynamoDocument{
		client:    client,
		tableName: tableName,
		docID:     docID,
	}
}

func (d *DynamoDocument) Fetch(ctx context.Context) (*store.Document, error) {
	result, err := d.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(d.tableName),
		Key: map[string]types.AttributeValue{
			"doc_id": &types.AttributeValueMemberS{Value: d.docID},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get document: %w", err)
	}

	if result.Item == nil {
		return nil, nil // No document yet
	}

	var item dynamoItem
	if err := attributevalue.UnmarshalMap(result.Item, &item); err != nil {
		return nil, fmt.Errorf("failed to unmarshal document item: %w", err)
	}

	var doc store.Document
	if err := json.Unmarshal([]byte(item.Payload), &doc); err != nil {
		return nil, fmt.Errorf("failed to decode document payload: %w", err)
	}
	return &doc, nil
}

func (d *DynamoDocument) Replace(ctx context.Context, doc *store.Document) error {
	payload, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal document: %w", err)
	}

	item := dynamoItem{
		DocID:     d.docID,
		Payload:   string(payload),
		UpdatedAt: time.Now().Format(time.RFC3339Nano),
	}

	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return fmt.Errorf("failed to marshal document item: %w", err)
	}

	// Overwrite the existing document (no condition)
	_, err = d.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(d.tableName),
		Item:      av,
	})
	if err != nil {
		return fmt.Errorf("failed to put document: %w", err)
	}
	return nil
}
