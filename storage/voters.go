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

type VoterStorage interface {
	Get(ctx context.Context, votingNumber string) (*Voter, error)
	GetAll(ctx context.Context) ([]*Voter, error)
	FindByNationalIDOrEmail(ctx context.Context, nationalID, email string) (*Voter, error)
	Put(ctx context.Context, voter *Voter) error
	Deactivate(ctx context.Context, votingNumber string) error
}

type DynamoVoterStorage struct {
	Client    DynamoClient
	TableName string
}

func (s *DynamoVoterStorage) Get(ctx context.Context, votingNumber string) (*Voter, error) {
	key, err := attributevalue.MarshalMap(map[string]string{"PK": votingNumber})
	if err != nil {
		logging.Log.Errorf("VOTER: failed to marshal key: %v", err)
		return nil, err
	}

	out, err := s.Client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: &s.TableName,
		Key:       key,
	})
	if err != nil {
		logging.Log.Errorf("VOTER: GET storage failed: %v", err)
		return nil, err
	}
	if out.Item == nil {
		return nil, ErrVoterNotFound
	}

	var voter *Voter
	if err := attributevalue.UnmarshalMap(out.Item, &voter); err != nil {
		logging.Log.Errorf("VOTER: failed to unmarshal result: %v", err)
		return nil, err
	}
	return voter, nil
}

// GetAll follows LastEvaluatedKey across pages; turnout figures count
// every registered voter, so a truncated scan would undercount.
func (s *DynamoVoterStorage) GetAll(ctx context.Context) ([]*Voter, error) {
	var voters []*Voter
	var startKey map[string]types.AttributeValue
	for {
		out, err := s.Client.Scan(ctx, &dynamodb.ScanInput{
			TableName:         &s.TableName,
			ExclusiveStartKey: startKey,
		})
		if err != nil {
			logging.Log.Errorf("VOTER: SCAN storage failed: %v", err)
			return nil, err
		}

		var page []*Voter
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &page); err != nil {
			logging.Log.Errorf("VOTER: failed to unmarshal list: %v", err)
			return nil, err
		}
		voters = append(voters, page...)

		if len(out.LastEvaluatedKey) == 0 {
			return voters, nil
		}
		startKey = out.LastEvaluatedKey
	}
}

// FindByNationalIDOrEmail backs the registration duplicate check. Returns
// nil, nil when no voter matches. The filter is applied after each page
// is read, so an empty page does not mean no match and the scan must run
// to the last page.
func (s *DynamoVoterStorage) FindByNationalIDOrEmail(ctx context.Context, nationalID, email string) (*Voter, error) {
	var startKey map[string]types.AttributeValue
	for {
		out, err := s.Client.Scan(ctx, &dynamodb.ScanInput{
			TableName:         &s.TableName,
			FilterExpression:  aws.String("NationalID = :nid OR Email = :email"),
			ExclusiveStartKey: startKey,
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":nid":   &types.AttributeValueMemberS{Value: nationalID},
				":email": &types.AttributeValueMemberS{Value: email},
			},
		})
		if err != nil {
			logging.Log.Errorf("VOTER: duplicate-check scan failed: %v", err)
			return nil, err
		}

		if len(out.Items) > 0 {
			var voters []*Voter
			if err := attributevalue.UnmarshalListOfMaps(out.Items, &voters); err != nil {
				logging.Log.Errorf("VOTER: failed to unmarshal duplicate-check result: %v", err)
				return nil, err
			}
			return voters[0], nil
		}

		if len(out.LastEvaluatedKey) == 0 {
			return nil, nil
		}
		startKey = out.LastEvaluatedKey
	}
}

func (s *DynamoVoterStorage) Put(ctx context.Context, voter *Voter) error {
	if voter.RegistrationDate.IsZero() {
		voter.RegistrationDate = time.Now().UTC()
	}
	item, err := attributevalue.MarshalMap(voter)
	if err != nil {
		logging.Log.Errorf("VOTER: failed to marshal voter: %v", err)
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
		logging.Log.Errorf("VOTER: PUT storage failed: %v", err)
		return err
	}
	return nil
}

func (s *DynamoVoterStorage) Deactivate(ctx context.Context, votingNumber string) error {
	_, err := s.Client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(s.TableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: votingNumber},
		},
		UpdateExpression:          aws.String("SET IsActive = :val"),
		ConditionExpression:       aws.String("attribute_exists(PK)"),
		ExpressionAttributeValues: map[string]types.AttributeValue{":val": &types.AttributeValueMemberBOOL{Value: false}},
	})
	if err != nil {
		var conditionFailed *types.ConditionalCheckFailedException
		if errors.As(err, &conditionFailed) {
			return ErrVoterNotFound
		}
		logging.Log.Errorf("VOTER: deactivate failed: %v", err)
		return err
	}
	return nil
}
