package storage

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"

	"github.com/Benvin-888/electronic-voting-backened/logging"
)

type AuditStorage interface {
	Record(ctx context.Context, actorID *string, action, entityKind string, entityID *string, detail map[string]string) error
	GetAll(ctx context.Context) ([]*AuditEntry, error)
}

type DynamoAuditStorage struct {
	Client    DynamoClient
	TableName string
}

func (s *DynamoAuditStorage) Record(ctx context.Context, actorID *string, action, entityKind string, entityID *string, detail map[string]string) error {
	entry := &AuditEntry{
		ID:         uuid.NewString(),
		ActorID:    actorID,
		Action:     action,
		EntityKind: entityKind,
		EntityID:   entityID,
		Detail:     detail,
		CreatedAt:  time.Now().UTC(),
	}
	item, err := attributevalue.MarshalMap(entry)
	if err != nil {
		logging.Log.Errorf("AUDIT: failed to marshal entry: %v", err)
		return err
	}

	_, err = s.Client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: &s.TableName,
		Item:      item,
	})
	if err != nil {
		logging.Log.Errorf("AUDIT: failed to record %s/%s: %v", action, entityKind, err)
		return err
	}
	return nil
}

func (s *DynamoAuditStorage) GetAll(ctx context.Context) ([]*AuditEntry, error) {
	var entries []*AuditEntry
	var startKey map[string]types.AttributeValue
	for {
		out, err := s.Client.Scan(ctx, &dynamodb.ScanInput{
			TableName:         &s.TableName,
			ExclusiveStartKey: startKey,
		})
		if err != nil {
			logging.Log.Errorf("AUDIT: scan failed: %v", err)
			return nil, err
		}

		var page []*AuditEntry
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &page); err != nil {
			logging.Log.Errorf("AUDIT: failed to unmarshal entries: %v", err)
			return nil, err
		}
		entries = append(entries, page...)

		if len(out.LastEvaluatedKey) == 0 {
			return entries, nil
		}
		startKey = out.LastEvaluatedKey
	}
}
