package storage

import (
	"context"
	"errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/Benvin-888/electronic-voting-backened/logging"
)

// Ballot is a fully validated submission ready to be committed: the vote
// records to insert and the candidates whose counters they feed.
type Ballot struct {
	VotingNumber string
	Votes        []*Vote
	CandidateIDs []string
}

// BallotCommitter persists a ballot as a single all-or-nothing unit.
type BallotCommitter interface {
	Commit(ctx context.Context, ballot *Ballot) error
}

// DynamoBallotCommitter commits a ballot with one TransactWriteItems call:
// a conditional Put per vote, an atomic VoteCount increment per chosen
// candidate and the voter's HasVoted flip. Every item carries a condition,
// so a concurrent submission for the same credential cancels the whole
// transaction and leaves no partial state.
type DynamoBallotCommitter struct {
	Client          DynamoClient
	VotesTable      string
	CandidatesTable string
	VotersTable     string
}

func (s *DynamoBallotCommitter) Commit(ctx context.Context, ballot *Ballot) error {
	items := make([]types.TransactWriteItem, 0, len(ballot.Votes)+len(ballot.CandidateIDs)+1)

	for _, vote := range ballot.Votes {
		item, err := attributevalue.MarshalMap(vote)
		if err != nil {
			logging.Log.Errorf("BALLOT: failed to marshal vote: %v", err)
			return err
		}
		items = append(items, types.TransactWriteItem{
			Put: &types.Put{
				TableName:           aws.String(s.VotesTable),
				Item:                item,
				ConditionExpression: aws.String("attribute_not_exists(PK) AND attribute_not_exists(SK)"),
			},
		})
	}

	for _, candidateID := range ballot.CandidateIDs {
		items = append(items, types.TransactWriteItem{
			Update: &types.Update{
				TableName: aws.String(s.CandidatesTable),
				Key: map[string]types.AttributeValue{
					"PK": &types.AttributeValueMemberS{Value: candidateID},
				},
				UpdateExpression:    aws.String("ADD VoteCount :one"),
				ConditionExpression: aws.String("attribute_exists(PK) AND IsActive = :active"),
				ExpressionAttributeValues: map[string]types.AttributeValue{
					":one":    &types.AttributeValueMemberN{Value: "1"},
					":active": &types.AttributeValueMemberBOOL{Value: true},
				},
			},
		})
	}

	items = append(items, types.TransactWriteItem{
		Update: &types.Update{
			TableName: aws.String(s.VotersTable),
			Key: map[string]types.AttributeValue{
				"PK": &types.AttributeValueMemberS{Value: ballot.VotingNumber},
			},
			UpdateExpression:    aws.String("SET HasVoted = :voted"),
			ConditionExpression: aws.String("attribute_exists(PK) AND HasVoted = :notVoted AND IsActive = :active"),
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":voted":    &types.AttributeValueMemberBOOL{Value: true},
				":notVoted": &types.AttributeValueMemberBOOL{Value: false},
				":active":   &types.AttributeValueMemberBOOL{Value: true},
			},
		},
	})

	_, err := s.Client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: items,
	})
	if err != nil {
		var cancelled *types.TransactionCanceledException
		if errors.As(err, &cancelled) {
			// CancellationReasons mirrors TransactItems order: the vote
			// puts, then the candidate counters, then the voter flip.
			for i, reason := range cancelled.CancellationReasons {
				if reason.Code == nil || *reason.Code != "ConditionalCheckFailed" {
					continue
				}
				if i >= len(ballot.Votes) && i < len(ballot.Votes)+len(ballot.CandidateIDs) {
					logging.Log.Warnf("BALLOT: candidate %s became unavailable during commit for %s",
						ballot.CandidateIDs[i-len(ballot.Votes)], ballot.VotingNumber)
					return ErrCandidateUnavailable
				}
				logging.Log.Warnf("BALLOT: commit for %s lost to a concurrent submission", ballot.VotingNumber)
				return ErrBallotConflict
			}
		}
		logging.Log.Errorf("BALLOT: transaction failed: %v", err)
		return err
	}
	return nil
}
