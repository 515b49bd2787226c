package storage

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCandidateGetAllActiveFollowsPagination(t *testing.T) {
	pageOne := marshalItems(t, &Candidate{ID: "cand-1", Position: "governor", IsActive: true})
	pageTwo := marshalItems(t, &Candidate{ID: "cand-2", Position: "mp", IsActive: true})

	client := &fakeDynamoClient{scanFn: func(in *dynamodb.ScanInput) (*dynamodb.ScanOutput, error) {
		require.NotNil(t, in.FilterExpression)
		if in.ExclusiveStartKey == nil {
			return &dynamodb.ScanOutput{
				Items: pageOne,
				LastEvaluatedKey: map[string]types.AttributeValue{
					"PK": &types.AttributeValueMemberS{Value: "cand-1"},
				},
			}, nil
		}
		return &dynamodb.ScanOutput{Items: pageTwo}, nil
	}}

	s := &DynamoCandidateStorage{Client: client, TableName: "Candidates"}
	candidates, err := s.GetAllActive(context.Background())
	require.NoError(t, err)
	assert.Len(t, candidates, 2)
	assert.Equal(t, "cand-2", candidates[1].ID)
}
