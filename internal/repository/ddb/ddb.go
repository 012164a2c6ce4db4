// Package ddb implements the repository interface using AWS DynamoDB.
// This is the only layer that should have knowledge of DynamoDB specifics.
//
// The board lives in a single partition: node items under NODE#<id> sort
// keys, connection items under CONN#<id>, and the AI endpoint
// configuration under CONFIG.
package ddb

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"tripboard-backend/internal/domain"
	"tripboard-backend/internal/repository"
	appErrors "tripboard-backend/pkg/errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"
)

const (
	skConfig     = "CONFIG"
	skNodePrefix = "NODE#"
	skConnPrefix = "CONN#"

	// DynamoDB BatchWriteItem accepts at most 25 requests per call
	batchLimit = 25
)

// ddbNode represents the structure of a node item in DynamoDB.
type ddbNode struct {
	PK        string  `dynamodbav:"PK"`
	SK        string  `dynamodbav:"SK"`
	NodeID    string  `dynamodbav:"NodeID"`
	X         float64 `dynamodbav:"X"`
	Y         float64 `dynamodbav:"Y"`
	NodeType  string  `dynamodbav:"NodeType"`
	Title     string  `dynamodbav:"Title"`
	Content   string  `dynamodbav:"Content"`
	Date      string  `dynamodbav:"Date"`
	Cost      string  `dynamodbav:"Cost"`
	Weather   int     `dynamodbav:"Weather"`
	Image     string  `dynamodbav:"Image,omitempty"`
	CreatedAt string  `dynamodbav:"CreatedAt"`
	UpdatedAt string  `dynamodbav:"UpdatedAt"`
}

// ddbConnection represents a connection item in DynamoDB.
type ddbConnection struct {
	PK     string `dynamodbav:"PK"`
	SK     string `dynamodbav:"SK"`
	ConnID string `dynamodbav:"ConnID"`
	From   string `dynamodbav:"From"`
	To     string `dynamodbav:"To"`
}

// ddbConfig represents the AI endpoint configuration item.
type ddbConfig struct {
	PK      string `dynamodbav:"PK"`
	SK      string `dynamodbav:"SK"`
	APIKey  string `dynamodbav:"APIKey"`
	Model   string `dynamodbav:"Model"`
	BaseURL string `dynamodbav:"BaseURL"`
}

// ddbRepository is the concrete implementation for DynamoDB.
type ddbRepository struct {
	dbClient  *dynamodb.Client
	tableName string
	boardID   string
}

// NewRepository creates a new instance of the DynamoDB repository.
func NewRepository(dbClient *dynamodb.Client, tableName, boardID string) repository.Repository {
	return &ddbRepository{
		dbClient:  dbClient,
		tableName: tableName,
		boardID:   boardID,
	}
}

func (r *ddbRepository) pk() string {
	return fmt.Sprintf("BOARD#%s", r.boardID)
}

// LoadGraph queries the board partition and splits items by sort key prefix.
func (r *ddbRepository) LoadGraph(ctx context.Context) (*domain.Graph, error) {
	keyCond := expression.Key("PK").Equal(expression.Value(r.pk()))
	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
	if err != nil {
		return nil, appErrors.Wrap(err, "failed to build query expression")
	}

	graph := &domain.Graph{}
	var lastKey map[string]types.AttributeValue
	for {
		out, err := r.dbClient.Query(ctx, &dynamodb.QueryInput{
			TableName:                 aws.String(r.tableName),
			KeyConditionExpression:    expr.KeyCondition(),
			ExpressionAttributeNames:  expr.Names(),
			ExpressionAttributeValues: expr.Values(),
			ExclusiveStartKey:         lastKey,
		})
		if err != nil {
			return nil, mapAWSError(err, "failed to query board partition")
		}

		for _, item := range out.Items {
			sk := stringAttr(item["SK"])
			switch {
			case strings.HasPrefix(sk, skNodePrefix):
				var record ddbNode
				if err := attributevalue.UnmarshalMap(item, &record); err != nil {
					return nil, appErrors.Wrap(err, "failed to unmarshal node item")
				}
				graph.Nodes = append(graph.Nodes, record.toDomain())
			case strings.HasPrefix(sk, skConnPrefix):
				var record ddbConnection
				if err := attributevalue.UnmarshalMap(item, &record); err != nil {
					return nil, appErrors.Wrap(err, "failed to unmarshal connection item")
				}
				graph.Connections = append(graph.Connections, domain.Connection{
					ID:   record.ConnID,
					From: record.From,
					To:   record.To,
				})
			}
		}

		lastKey = out.LastEvaluatedKey
		if lastKey == nil {
			break
		}
	}

	return graph, nil
}

// SaveGraph replaces the stored node/connection items with the given graph.
// Items no longer present are deleted alongside the puts.
func (r *ddbRepository) SaveGraph(ctx context.Context, graph *domain.Graph) error {
	existing, err := r.existingSortKeys(ctx)
	if err != nil {
		return err
	}

	var writes []types.WriteRequest
	keep := make(map[string]bool, len(graph.Nodes)+len(graph.Connections))

	for _, node := range graph.Nodes {
		sk := skNodePrefix + node.ID
		keep[sk] = true
		item, err := attributevalue.MarshalMap(newDDBNode(r.pk(), sk, node))
		if err != nil {
			return appErrors.Wrap(err, "failed to marshal node item")
		}
		writes = append(writes, types.WriteRequest{PutRequest: &types.PutRequest{Item: item}})
	}

	for _, conn := range graph.Connections {
		sk := skConnPrefix + conn.ID
		keep[sk] = true
		item, err := attributevalue.MarshalMap(ddbConnection{
			PK: r.pk(), SK: sk, ConnID: conn.ID, From: conn.From, To: conn.To,
		})
		if err != nil {
			return appErrors.Wrap(err, "failed to marshal connection item")
		}
		writes = append(writes, types.WriteRequest{PutRequest: &types.PutRequest{Item: item}})
	}

	for _, sk := range existing {
		if keep[sk] || sk == skConfig {
			continue
		}
		key, err := attributevalue.MarshalMap(map[string]string{"PK": r.pk(), "SK": sk})
		if err != nil {
			return appErrors.Wrap(err, "failed to marshal delete key")
		}
		writes = append(writes, types.WriteRequest{DeleteRequest: &types.DeleteRequest{Key: key}})
	}

	for start := 0; start < len(writes); start += batchLimit {
		end := start + batchLimit
		if end > len(writes) {
			end = len(writes)
		}
		_, err := r.dbClient.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{
			RequestItems: map[string][]types.WriteRequest{r.tableName: writes[start:end]},
		})
		if err != nil {
			return mapAWSError(err, "failed to write board items")
		}
	}

	return nil
}

// LoadAIConfig reads the CONFIG item; absence yields the zero config.
func (r *ddbRepository) LoadAIConfig(ctx context.Context) (domain.AIConfig, error) {
	key, err := attributevalue.MarshalMap(map[string]string{"PK": r.pk(), "SK": skConfig})
	if err != nil {
		return domain.AIConfig{}, appErrors.Wrap(err, "failed to marshal config key")
	}

	out, err := r.dbClient.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       key,
	})
	if err != nil {
		return domain.AIConfig{}, mapAWSError(err, "failed to read config item")
	}
	if out.Item == nil {
		return domain.AIConfig{}, nil
	}

	var record ddbConfig
	if err := attributevalue.UnmarshalMap(out.Item, &record); err != nil {
		return domain.AIConfig{}, appErrors.Wrap(err, "failed to unmarshal config item")
	}
	return domain.AIConfig{APIKey: record.APIKey, Model: record.Model, BaseURL: record.BaseURL}, nil
}

// SaveAIConfig writes the CONFIG item immediately.
func (r *ddbRepository) SaveAIConfig(ctx context.Context, cfg domain.AIConfig) error {
	item, err := attributevalue.MarshalMap(ddbConfig{
		PK: r.pk(), SK: skConfig, APIKey: cfg.APIKey, Model: cfg.Model, BaseURL: cfg.BaseURL,
	})
	if err != nil {
		return appErrors.Wrap(err, "failed to marshal config item")
	}

	_, err = r.dbClient.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	if err != nil {
		return mapAWSError(err, "failed to write config item")
	}
	return nil
}

// existingSortKeys lists the sort keys currently stored in the partition.
func (r *ddbRepository) existingSortKeys(ctx context.Context) ([]string, error) {
	keyCond := expression.Key("PK").Equal(expression.Value(r.pk()))
	proj := expression.NamesList(expression.Name("SK"))
	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).WithProjection(proj).Build()
	if err != nil {
		return nil, appErrors.Wrap(err, "failed to build projection expression")
	}

	var keys []string
	var lastKey map[string]types.AttributeValue
	for {
		out, err := r.dbClient.Query(ctx, &dynamodb.QueryInput{
			TableName:                 aws.String(r.tableName),
			KeyConditionExpression:    expr.KeyCondition(),
			ProjectionExpression:      expr.Projection(),
			ExpressionAttributeNames:  expr.Names(),
			ExpressionAttributeValues: expr.Values(),
			ExclusiveStartKey:         lastKey,
		})
		if err != nil {
			return nil, mapAWSError(err, "failed to list board sort keys")
		}
		for _, item := range out.Items {
			keys = append(keys, stringAttr(item["SK"]))
		}
		lastKey = out.LastEvaluatedKey
		if lastKey == nil {
			break
		}
	}
	return keys, nil
}

func newDDBNode(pk, sk string, node domain.Node) ddbNode {
	return ddbNode{
		PK:        pk,
		SK:        sk,
		NodeID:    node.ID,
		X:         node.X,
		Y:         node.Y,
		NodeType:  string(node.Type),
		Title:     node.Title,
		Content:   node.Content,
		Date:      node.Date,
		Cost:      node.Cost,
		Weather:   node.Weather,
		Image:     node.Image,
		CreatedAt: node.CreatedAt.Format(time.RFC3339),
		UpdatedAt: node.UpdatedAt.Format(time.RFC3339),
	}
}

// toDomain converts a stored item to a domain node. Persisted data may be
// stale or partial, so fields are sanitized on the way in.
func (d ddbNode) toDomain() domain.Node {
	node := domain.Node{
		ID:      d.NodeID,
		X:       d.X,
		Y:       d.Y,
		Type:    domain.NodeType(d.NodeType),
		Title:   d.Title,
		Content: d.Content,
		Date:    d.Date,
		Cost:    d.Cost,
		Weather: d.Weather,
		Image:   d.Image,
	}
	if t, err := time.Parse(time.RFC3339, d.CreatedAt); err == nil {
		node.CreatedAt = t
	}
	if t, err := time.Parse(time.RFC3339, d.UpdatedAt); err == nil {
		node.UpdatedAt = t
	}
	node.Sanitize()
	return node
}

func stringAttr(av types.AttributeValue) string {
	if s, ok := av.(*types.AttributeValueMemberS); ok {
		return s.Value
	}
	return ""
}

// mapAWSError classifies SDK failures into the application error taxonomy.
func mapAWSError(err error, message string) error {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "ResourceNotFoundException":
			return appErrors.NewNotFound(message + ": table not found")
		case "ProvisionedThroughputExceededException", "ThrottlingException":
			return appErrors.NewUnavailable(message + ": throttled")
		}
	}
	return appErrors.Wrap(err, message)
}
