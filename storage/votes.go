package storage

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/Benvin-888/electronic-voting-backened/logging"
)

type VoteStorage interface {
	GetAll(ctx context.Context) ([]*Vote, error)
	GetByVotingNumber(ctx context.Context, votingNumber string) ([]*Vote, error)
}

type DynamoVoteStorage struct {
	Client    DynamoClient
	TableName string
}

// GetAll follows LastEvaluatedKey across pages; tallies recompute from
// the full vote set, so a truncated scan would silently undercount.
func (s *DynamoVoteStorage) GetAll(ctx context.Context) ([]*Vote, error) {
	var votes []*Vote
	var startKey map[string]types.AttributeValue
	for {
		out, err := s.Client.Scan(ctx, &dynamodb.ScanInput{
			TableName:         &s.TableName,
			ExclusiveStartKey: startKey,
		})
		if err != nil {
			logging.Log.Errorf("VOTE: scan failed: %v", err)
			return nil, err
		}

		var page []*Vote
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &page); err != nil {
			logging.Log.Errorf("VOTE: failed to unmarshal vote list: %v", err)
			return nil, err
		}
		votes = append(votes, page...)

		if len(out.LastEvaluatedKey) == 0 {
			return votes, nil
		}
		startKey = out.LastEvaluatedKey
	}
}

func (s *DynamoVoteStorage) GetByVotingNumber(ctx context.Context, votingNumber string) ([]*Vote, error) {
	out, err := s.Client.Query(ctx, &dynamodb.QueryInput{
		TableName:              &s.TableName,
		KeyConditionExpression: aws.String("PK = :pk"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk": &types.AttributeValueMemberS{Value: votingNumber},
		},
	})
	if err != nil {
		logging.Log.Errorf("VOTE: query by voting number failed: %v", err)
		return nil, err
	}

	var votes []*Vote
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &votes); err != nil {
		logging.Log.Errorf("VOTE: failed to unmarshal votes: %v", err)
		return nil, err
	}
	return votes, nil
}
