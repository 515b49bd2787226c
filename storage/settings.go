package storage

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/Benvin-888/electronic-voting-backened/logging"
)

const (
	SettingPortalOpen       = "voting_portal_open"
	SettingVotingDeadline   = "voting_deadline"
	SettingScheduleStart    = "voting_schedule_start"
	SettingScheduleEnd      = "voting_schedule_end"
	SettingResultsPublished = "results_published"
)

// SettingStorage is the versioned key/value store gating the election.
// Readers on the submission path must call it fresh, never from a cache.
type SettingStorage interface {
	Get(ctx context.Context, key string) (*Setting, error)
	GetBool(ctx context.Context, key string) (bool, error)
	Set(ctx context.Context, key, value string) error
	EnsureDefault(ctx context.Context, key, value string) error
}

type DynamoSettingStorage struct {
	Client    DynamoClient
	TableName string
}

func (s *DynamoSettingStorage) Get(ctx context.Context, key string) (*Setting, error) {
	marshalled, err := attributevalue.MarshalMap(map[string]string{"PK": key})
	if err != nil {
		logging.Log.Errorf("SETTING: failed to marshal key: %v", err)
		return nil, err
	}

	out, err := s.Client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: &s.TableName,
		Key:       marshalled,
		// the portal gate must see the latest committed write
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		logging.Log.Errorf("SETTING: GET storage failed: %v", err)
		return nil, err
	}
	if out.Item == nil {
		return nil, ErrSettingNotFound
	}

	var setting *Setting
	if err := attributevalue.UnmarshalMap(out.Item, &setting); err != nil {
		logging.Log.Errorf("SETTING: failed to unmarshal result: %v", err)
		return nil, err
	}
	return setting, nil
}

// GetBool treats an absent setting as false.
func (s *DynamoSettingStorage) GetBool(ctx context.Context, key string) (bool, error) {
	setting, err := s.Get(ctx, key)
	if err != nil {
		if errors.Is(err, ErrSettingNotFound) {
			return false, nil
		}
		return false, err
	}
	value, err := strconv.ParseBool(setting.Value)
	if err != nil {
		logging.Log.Warnf("SETTING: %s holds non-boolean value %q", key, setting.Value)
		return false, nil
	}
	return value, nil
}

func (s *DynamoSettingStorage) Set(ctx context.Context, key, value string) error {
	_, err := s.Client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(s.TableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: key},
		},
		UpdateExpression: aws.String("SET #v = :value, UpdatedAt = :now ADD Version :one"),
		ExpressionAttributeNames: map[string]string{
			"#v": "Value",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":value": &types.AttributeValueMemberS{Value: value},
			":now":   &types.AttributeValueMemberS{Value: time.Now().UTC().Format(time.RFC3339)},
			":one":   &types.AttributeValueMemberN{Value: "1"},
		},
	})
	if err != nil {
		logging.Log.Errorf("SETTING: update %s failed: %v", key, err)
		return err
	}
	return nil
}

// EnsureDefault creates the setting only when it does not exist yet, so
// bootstrap never clobbers an administrator's change.
func (s *DynamoSettingStorage) EnsureDefault(ctx context.Context, key, value string) error {
	setting := &Setting{
		Key:       key,
		Value:     value,
		Version:   1,
		UpdatedAt: time.Now().UTC(),
	}
	item, err := attributevalue.MarshalMap(setting)
	if err != nil {
		logging.Log.Errorf("SETTING: failed to marshal default: %v", err)
		return err
	}

	_, err = s.Client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           &s.TableName,
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(PK)"),
	})
	if err != nil {
		var conditionFailed *types.ConditionalCheckFailedException
		if errors.As(err, &conditionFailed) {
			return nil
		}
		logging.Log.Errorf("SETTING: seeding default %s failed: %v", key, err)
		return err
	}
	logging.Log.Infof("SETTING: seeded default %s=%s", key, value)
	return nil
}
