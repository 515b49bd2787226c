package storage

import (
	"context"
	"errors"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/Benvin-888/electronic-voting-backened/logging"
)

type CandidateStorage interface {
	Get(ctx context.Context, id string) (*Candidate, error)
	GetAll(ctx context.Context) ([]*Candidate, error)
	GetAllActive(ctx context.Context) ([]*Candidate, error)
	Put(ctx context.Context, candidate *Candidate) error
	Update(ctx context.Context, candidate *Candidate) error
	Deactivate(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}

type DynamoCandidateStorage struct {
	Client    DynamoClient
	TableName string
}

func (s *DynamoCandidateStorage) Get(ctx context.Context, id string) (*Candidate, error) {
	key, err := attributevalue.MarshalMap(map[string]string{"PK": id})
	if err != nil {
		logging.Log.Errorf("CANDIDATE: failed to marshal key: %v", err)
		return nil, err
	}

	out, err := s.Client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: &s.TableName,
		Key:       key,
	})
	if err != nil {
		logging.Log.Errorf("CANDIDATE: GET storage failed: %v", err)
		return nil, err
	}
	if out.Item == nil {
		return nil, ErrCandidateNotFound
	}

	var candidate *Candidate
	if err := attributevalue.UnmarshalMap(out.Item, &candidate); err != nil {
		logging.Log.Errorf("CANDIDATE: failed to unmarshal result: %v", err)
		return nil, err
	}
	return candidate, nil
}

func (s *DynamoCandidateStorage) GetAll(ctx context.Context) ([]*Candidate, error) {
	var candidates []*Candidate
	var startKey map[string]types.AttributeValue
	for {
		out, err := s.Client.Scan(ctx, &dynamodb.ScanInput{
			TableName:         &s.TableName,
			ExclusiveStartKey: startKey,
		})
		if err != nil {
			logging.Log.Errorf("CANDIDATE: SCAN storage failed: %v", err)
			return nil, err
		}

		var page []*Candidate
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &page); err != nil {
			logging.Log.Errorf("CANDIDATE: failed to unmarshal list: %v", err)
			return nil, err
		}
		candidates = append(candidates, page...)

		if len(out.LastEvaluatedKey) == 0 {
			return candidates, nil
		}
		startKey = out.LastEvaluatedKey
	}
}

func (s *DynamoCandidateStorage) GetAllActive(ctx context.Context) ([]*Candidate, error) {
	var candidates []*Candidate
	var startKey map[string]types.AttributeValue
	for {
		out, err := s.Client.Scan(ctx, &dynamodb.ScanInput{
			TableName:         &s.TableName,
			FilterExpression:  aws.String("IsActive = :active"),
			ExclusiveStartKey: startKey,
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":active": &types.AttributeValueMemberBOOL{Value: true},
			},
		})
		if err != nil {
			logging.Log.Errorf("CANDIDATE: active scan failed: %v", err)
			return nil, err
		}

		var page []*Candidate
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &page); err != nil {
			logging.Log.Errorf("CANDIDATE: failed to unmarshal active list: %v", err)
			return nil, err
		}
		candidates = append(candidates, page...)

		if len(out.LastEvaluatedKey) == 0 {
			return candidates, nil
		}
		startKey = out.LastEvaluatedKey
	}
}

func (s *DynamoCandidateStorage) Put(ctx context.Context, candidate *Candidate) error {
	if candidate.CreatedAt.IsZero() {
		candidate.CreatedAt = time.Now().UTC()
	}
	item, err := attributevalue.MarshalMap(candidate)
	if err != nil {
		logging.Log.Errorf("CANDIDATE: failed to marshal candidate: %v", err)
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
			return ErrItemAlreadyExists
		}
		logging.Log.Errorf("CANDIDATE: PUT storage failed: %v", err)
		return err
	}
	return nil
}

// Update rewrites the mutable candidate fields. VoteCount is deliberately
// not touched here; it only moves through the ballot transaction.
func (s *DynamoCandidateStorage) Update(ctx context.Context, candidate *Candidate) error {
	_, err := s.Client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(s.TableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: candidate.ID},
		},
		UpdateExpression: aws.String(
			"SET FullName = :name, PoliticalParty = :party, Constituency = :constituency, Ward = :ward"),
		ConditionExpression: aws.String("attribute_exists(PK)"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":name":         &types.AttributeValueMemberS{Value: candidate.FullName},
			":party":        &types.AttributeValueMemberS{Value: candidate.PoliticalParty},
			":constituency": &types.AttributeValueMemberS{Value: candidate.Constituency},
			":ward":         &types.AttributeValueMemberS{Value: candidate.Ward},
		},
	})
	if err != nil {
		var conditionFailed *types.ConditionalCheckFailedException
		if errors.As(err, &conditionFailed) {
			return ErrCandidateNotFound
		}
		logging.Log.Errorf("CANDIDATE: update failed: %v", err)
		return err
	}
	return nil
}

func (s *DynamoCandidateStorage) Deactivate(ctx context.Context, id string) error {
	_, err := s.Client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(s.TableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: id},
		},
		UpdateExpression:          aws.String("SET IsActive = :val"),
		ConditionExpression:       aws.String("attribute_exists(PK)"),
		ExpressionAttributeValues: map[string]types.AttributeValue{":val": &types.AttributeValueMemberBOOL{Value: false}},
	})
	if err != nil {
		var conditionFailed *types.ConditionalCheckFailedException
		if errors.As(err, &conditionFailed) {
			return ErrCandidateNotFound
		}
		logging.Log.Errorf("CANDIDATE: deactivate failed: %v", err)
		return err
	}
	return nil
}

func (s *DynamoCandidateStorage) Delete(ctx context.Context, id string) error {
	key, err := attributevalue.MarshalMap(map[string]string{"PK": id})
	if err != nil {
		logging.Log.Errorf("CANDIDATE: failed to marshal key: %v", err)
		return err
	}

	_, err = s.Client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: &s.TableName,
		Key:       key,
	})
	if err != nil {
		logging.Log.Errorf("CANDIDATE: DEL storage item failed: %v", err)
		return err
	}
	return nil
}
