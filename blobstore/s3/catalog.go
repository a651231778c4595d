package s3

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/hupe1980/groupcv/plan"
)

// DDBClient is the interface for DynamoDB operations.
type DDBClient interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	dynamodb.ScanAPIClient
}

var _ plan.Catalog = (*Catalog)(nil)

// Catalog implements plan.Catalog on a DynamoDB table keyed by plan name.
type Catalog struct {
	client    DDBClient
	tableName string
}

// NewCatalog creates a Catalog on tableName.
func NewCatalog(client DDBClient, tableName string) *Catalog {
	return &Catalog{client: client, tableName: tableName}
}

// NewDefaultCatalog creates a Catalog using the default AWS credential chain.
func NewDefaultCatalog(ctx context.Context, tableName string, optFns ...Option) (*Catalog, error) {
	o := applyOptions(optFns)

	var loadOpts []func(*config.LoadOptions) error
	if o.region != "" {
		loadOpts = append(loadOpts, config.WithRegion(o.region))
	}

	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, err
	}

	client := dynamodb.NewFromConfig(cfg, func(do *dynamodb.Options) {
		if o.endpoint != "" {
			do.BaseEndpoint = aws.String(o.endpoint)
		}
	})
	return NewCatalog(client, tableName), nil
}

// Register claims e.Name with a conditional write.
func (c *Catalog) Register(ctx context.Context, e plan.Entry) error {
	_, err := c.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(c.tableName),
		Item: map[string]types.AttributeValue{
			"name":       &types.AttributeValueMemberS{Value: e.Name},
			"manifest":   &types.AttributeValueMemberS{Value: e.Manifest},
			"folds":      &types.AttributeValueMemberN{Value: strconv.Itoa(e.Folds)},
			"samples":    &types.AttributeValueMemberN{Value: strconv.Itoa(e.Samples)},
			"created_at": &types.AttributeValueMemberS{Value: e.CreatedAt.UTC().Format(time.RFC3339Nano)},
		},
		ConditionExpression: aws.String("attribute_not_exists(#n)"),
		ExpressionAttributeNames: map[string]string{
			"#n": "name",
		},
	})
	if err != nil {
		var condErr *types.ConditionalCheckFailedException
		if errors.As(err, &condErr) {
			return fmt.Errorf("%w: %s", plan.ErrPlanExists, e.Name)
		}
		return fmt.Errorf("failed to register plan in DynamoDB: %w", err)
	}
	return nil
}

// Lookup reads the entry for name.
func (c *Catalog) Lookup(ctx context.Context, name string) (plan.Entry, error) {
	resp, err := c.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(c.tableName),
		Key: map[string]types.AttributeValue{
			"name": &types.AttributeValueMemberS{Value: name},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return plan.Entry{}, fmt.Errorf("failed to query DynamoDB: %w", err)
	}
	if len(resp.Item) == 0 {
		return plan.Entry{}, fmt.Errorf("%w: %s", plan.ErrPlanNotFound, name)
	}
	return decodeEntry(resp.Item)
}

// Remove deletes the entry for name.
func (c *Catalog) Remove(ctx context.Context, name string) error {
	_, err := c.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(c.tableName),
		Key: map[string]types.AttributeValue{
			"name": &types.AttributeValueMemberS{Value: name},
		},
	})
	return err
}

// List scans the table. Intended for catalogs of modest size.
func (c *Catalog) List(ctx context.Context) ([]plan.Entry, error) {
	var entries []plan.Entry

	paginator := dynamodb.NewScanPaginator(c.client, &dynamodb.ScanInput{
		TableName: aws.String(c.tableName),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		for _, item := range page.Items {
			e, err := decodeEntry(item)
			if err != nil {
				return nil, err
			}
			entries = append(entries, e)
		}
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries, nil
}

func decodeEntry(item map[string]types.AttributeValue) (plan.Entry, error) {
	var e plan.Entry
	var err error

	if e.Name, err = stringAttr(item, "name"); err != nil {
		return e, err
	}
	if e.Manifest, err = stringAttr(item, "manifest"); err != nil {
		return e, err
	}
	if e.Folds, err = intAttr(item, "folds"); err != nil {
		return e, err
	}
	if e.Samples, err = intAttr(item, "samples"); err != nil {
		return e, err
	}

	created, err := stringAttr(item, "created_at")
	if err != nil {
		return e, err
	}
	if e.CreatedAt, err = time.Parse(time.RFC3339Nano, created); err != nil {
		return e, fmt.Errorf("invalid created_at attribute in DynamoDB: %w", err)
	}
	return e, nil
}

func stringAttr(item map[string]types.AttributeValue, name string) (string, error) {
	v, ok := item[name].(*types.AttributeValueMemberS)
	if !ok {
		return "", fmt.Errorf("invalid %s attribute in DynamoDB", name)
	}
	return v.Value, nil
}

func intAttr(item map[string]types.AttributeValue, name string) (int, error) {
	v, ok := item[name].(*types.AttributeValueMemberN)
	if !ok {
		return 0, fmt.Errorf("invalid %s attribute in DynamoDB", name)
	}
	n, err := strconv.Atoi(v.Value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s attribute in DynamoDB: %w", name, err)
	}
	return n, nil
}
