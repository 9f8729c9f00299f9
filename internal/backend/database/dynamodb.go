package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// DynamoDBAPI is the subset of the DynamoDB client used by DynamoDBDatabase
type DynamoDBAPI interface {
	dynamodb.ScanAPIClient
	DescribeTable(ctx context.Context, params *dynamodb.DescribeTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
}

// DynamoDBDatabase uses an existing table keyed by PartitionKey. The table
// is provisioned outside of this service.
type DynamoDBDatabase struct {
	client    DynamoDBAPI
	tableName string
}

// NewDynamoDBDatabase creates the client. A non-empty endpoint overrides the
// AWS endpoint, e.g. for DynamoDB Local.
func NewDynamoDBDatabase(awsConfig aws.Config, tableName, endpoint string) (DatabaseService, error) {
	if tableName == "" {
		return nil, errors.New("dynamodb table name is required")
	}
	client := dynamodb.NewFromConfig(awsConfig, func(o *dynamodb.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	})
	return NewDynamoDBDatabaseWithClient(client, tableName), nil
}

func NewDynamoDBDatabaseWithClient(client DynamoDBAPI, tableName string) *DynamoDBDatabase {
	return &DynamoDBDatabase{client: client, tableName: tableName}
}

func (d *DynamoDBDatabase) CreateDatabase(ctx context.Context) error {
	return nil
}

func (d *DynamoDBDatabase) DoesDatabaseExist(ctx context.Context) bool {
	_, err := d.client.DescribeTable(ctx, &dynamodb.DescribeTableInput{
		TableName: aws.String(d.tableName),
	})
	return err == nil
}

func (d *DynamoDBDatabase) Close() error {
	return nil
}

func (d *DynamoDBDatabase) CreateRecord(ctx context.Context, record *Record) error {
	item, err := attributevalue.MarshalMap(record)
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}
	_, err = d.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(d.tableName),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("failed to put item: %w", err)
	}
	return nil
}

func (d *DynamoDBDatabase) GetRecordByID(ctx context.Context, id string) (*Record, error) {
	out, err := d.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(d.tableName),
		Key: map[string]types.AttributeValue{
			PartitionKey: &types.AttributeValueMemberS{Value: id},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get item: %w", err)
	}
	if len(out.Item) == 0 {
		return nil, nil
	}

	var record Record
	if err := attributevalue.UnmarshalMap(out.Item, &record); err != nil {
		return nil, fmt.Errorf("failed to unmarshal record: %w", err)
	}
	return &record, nil
}

// GetAllRecords pages through the whole table
func (d *DynamoDBDatabase) GetAllRecords(ctx context.Context) ([]*Record, error) {
	paginator := dynamodb.NewScanPaginator(d.client, &dynamodb.ScanInput{
		TableName: aws.String(d.tableName),
	})

	var records []*Record
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to scan table: %w", err)
		}
		var batch []*Record
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &batch); err != nil {
			return nil, fmt.Errorf("failed to unmarshal records: %w", err)
		}
		records = append(records, batch...)
	}
	return records, nil
}
