package controllers

import (
	"context"
	"net/http"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	testutils "github.com/Benvin-888/electronic-voting-backened/api/controllers/testing"
	"github.com/Benvin-888/electronic-voting-backened/api/models"
	"github.com/Benvin-888/electronic-voting-backened/storage"
)

func fullBallot(votingNumber string, candidateByPosition map[string]string) models.SubmitBallotRequest {
	votes := make([]models.BallotChoice, 0, len(candidateByPosition))
	for _, position := range []string{"governor", "women_representative", "mp", "mca"} {
		votes = append(votes, models.BallotChoice{
			Position:    position,
			CandidateID: candidateByPosition[position],
		})
	}
	return models.SubmitBallotRequest{VotingNumber: votingNumber, Votes: votes}
}

func TestCheckEligibility(t *testing.T) {
	t.Run("Happy path - eligible voter sees area candidates", func(t *testing.T) {
		env := setupTestEnv(t)
		env.openPortal(t)
		env.seedVoter(t, "VN1", "Mwea", "Mwea")
		env.seedMweaBallotSetup(t)
		// same position, different ward: must not appear on this ballot
		env.seedCandidate(t, "cand-mca-other", "mca", "Unity Party", "Mwea", "Tebere")

		res := testutils.PerformRequest(env.router, http.MethodGet, "/api/eligibility/VN1", nil, nil)
		require.Equal(t, http.StatusOK, res.Code)

		var response models.EligibilityResponse
		testutils.DecodeBody(t, res, &response)
		assert.True(t, response.Eligible)
		assert.Equal(t, "Mwea", response.Constituency)
		assert.Len(t, response.Positions, 4, "One ballot section per position")

		byPosition := make(map[string][]models.CandidateSummary)
		for _, p := range response.Positions {
			byPosition[p.Position] = p.Candidates
		}
		require.Len(t, byPosition["mca"], 1)
		assert.Equal(t, "cand-mca", byPosition["mca"][0].ID, "Only the voter's ward MCA candidate is eligible")
		require.Len(t, byPosition["governor"], 1)
		assert.Equal(t, "cand-gov", byPosition["governor"][0].ID)
	})

	t.Run("Happy path - repeated checks are idempotent", func(t *testing.T) {
		env := setupTestEnv(t)
		env.openPortal(t)
		env.seedVoter(t, "VN1", "Mwea", "Mwea")
		env.seedMweaBallotSetup(t)

		first := testutils.PerformRequest(env.router, http.MethodGet, "/api/eligibility/VN1", nil, nil)
		second := testutils.PerformRequest(env.router, http.MethodGet, "/api/eligibility/VN1", nil, nil)

		assert.Equal(t, http.StatusOK, first.Code)
		assert.Equal(t, http.StatusOK, second.Code)
		assert.JSONEq(t, first.Body.String(), second.Body.String(), "Eligibility check must not mutate state")

		voter, err := env.voters.Get(context.Background(), "VN1")
		require.NoError(t, err)
		assert.False(t, voter.HasVoted)
	})

	t.Run("Unhappy path - portal closed", func(t *testing.T) {
		env := setupTestEnv(t)
		env.seedVoter(t, "VN1", "Mwea", "Mwea")

		res := testutils.PerformRequest(env.router, http.MethodGet, "/api/eligibility/VN1", nil, nil)
		require.Equal(t, http.StatusForbidden, res.Code)

		var errRes models.ErrorResponse
		testutils.DecodeBody(t, res, &errRes)
		assert.Equal(t, models.CodePortalClosed, errRes.Code)
	})

	t.Run("Unhappy path - unknown voting number", func(t *testing.T) {
		env := setupTestEnv(t)
		env.openPortal(t)

		res := testutils.PerformRequest(env.router, http.MethodGet, "/api/eligibility/NOPE1234", nil, nil)
		require.Equal(t, http.StatusNotFound, res.Code)

		var errRes models.ErrorResponse
		testutils.DecodeBody(t, res, &errRes)
		assert.Equal(t, models.CodeInvalidCredential, errRes.Code)
	})

	t.Run("Unhappy path - inactive voter looks unknown", func(t *testing.T) {
		env := setupTestEnv(t)
		env.openPortal(t)
		voter := env.seedVoter(t, "VN1", "Mwea", "Mwea")
		require.NoError(t, env.voters.Deactivate(context.Background(), voter.VotingNumber))

		res := testutils.PerformRequest(env.router, http.MethodGet, "/api/eligibility/VN1", nil, nil)
		assert.Equal(t, http.StatusNotFound, res.Code)
	})

	t.Run("Unhappy path - voter already voted", func(t *testing.T) {
		env := setupTestEnv(t)
		env.openPortal(t)
		env.seedVoter(t, "VN1", "Mwea", "Mwea")
		candidates := env.seedMweaBallotSetup(t)
		submitRes := testutils.PerformRequest(env.router, http.MethodPost, "/api/vote", fullBallot("VN1", candidates), nil)
		require.Equal(t, http.StatusOK, submitRes.Code)

		res := testutils.PerformRequest(env.router, http.MethodGet, "/api/eligibility/VN1", nil, nil)
		require.Equal(t, http.StatusConflict, res.Code)

		var errRes models.ErrorResponse
		testutils.DecodeBody(t, res, &errRes)
		assert.Equal(t, models.CodeAlreadyVoted, errRes.Code)
	})
}

func TestSubmitBallot(t *testing.T) {
	t.Run("Happy path - full ballot commits atomically", func(t *testing.T) {
		env := setupTestEnv(t)
		env.openPortal(t)
		env.seedVoter(t, "VN1", "Mwea", "Mwea")
		candidates := env.seedMweaBallotSetup(t)

		res := testutils.PerformRequest(env.router, http.MethodPost, "/api/vote", fullBallot("VN1", candidates), nil)
		require.Equal(t, http.StatusOK, res.Code, "Submission should succeed: %s", res.Body.String())

		var response models.SubmitBallotResponse
		testutils.DecodeBody(t, res, &response)
		assert.Len(t, response.Positions, 4)
		assert.False(t, response.VotedAt.IsZero())

		votes, err := env.votes.GetByVotingNumber(context.Background(), "VN1")
		require.NoError(t, err)
		assert.Len(t, votes, 4, "Exactly one vote per required position")
		for _, v := range votes {
			assert.Equal(t, "Mwea", v.Constituency, "Vote carries the voter's geography")
			assert.Equal(t, "Mwea", v.Ward)
		}

		voter, err := env.voters.Get(context.Background(), "VN1")
		require.NoError(t, err)
		assert.True(t, voter.HasVoted)

		for _, id := range candidates {
			candidate, err := env.candidates.Get(context.Background(), id)
			require.NoError(t, err)
			assert.Equal(t, 1, candidate.VoteCount, "Each chosen candidate gains exactly one vote")
		}
	})

	t.Run("Happy path - side effects fire without voter identity", func(t *testing.T) {
		env := setupTestEnv(t)
		env.openPortal(t)
		env.seedVoter(t, "VN1", "Mwea", "Mwea")
		candidates := env.seedMweaBallotSetup(t)

		res := testutils.PerformRequest(env.router, http.MethodPost, "/api/vote", fullBallot("VN1", candidates), nil)
		require.Equal(t, http.StatusOK, res.Code)

		require.Len(t, env.broadcaster.voteEvents, 1)
		event := env.broadcaster.voteEvents[0]
		assert.Equal(t, "Mwea", event.Constituency)
		assert.Len(t, event.Positions, 4)

		require.Len(t, env.notifier.summaries, 1)
		assert.Equal(t, "VN1@example.com", env.notifier.summaries[0].Email)

		entries, err := env.audit.GetAll(context.Background())
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "vote_cast", entries[0].Action)
		assert.Nil(t, entries[0].ActorID, "Ballot audit entries carry no voter identity")
		assert.Nil(t, entries[0].EntityID)
		assert.Equal(t, "Mwea", entries[0].Detail["constituency"])
	})

	t.Run("Happy path - notification failure does not fail the vote", func(t *testing.T) {
		env := setupTestEnv(t)
		env.openPortal(t)
		env.seedVoter(t, "VN1", "Mwea", "Mwea")
		candidates := env.seedMweaBallotSetup(t)
		env.notifier.fail = assert.AnError

		res := testutils.PerformRequest(env.router, http.MethodPost, "/api/vote", fullBallot("VN1", candidates), nil)
		assert.Equal(t, http.StatusOK, res.Code, "The committed vote must not be rolled back by a notification failure")
	})

	t.Run("Unhappy path - missing position rejects whole ballot", func(t *testing.T) {
		env := setupTestEnv(t)
		env.openPortal(t)
		env.seedVoter(t, "VN1", "Mwea", "Mwea")
		candidates := env.seedMweaBallotSetup(t)

		ballot := fullBallot("VN1", candidates)
		ballot.Votes = ballot.Votes[:3] // drop mca

		res := testutils.PerformRequest(env.router, http.MethodPost, "/api/vote", ballot, nil)
		require.Equal(t, http.StatusBadRequest, res.Code)

		var errRes models.ErrorResponse
		testutils.DecodeBody(t, res, &errRes)
		assert.Equal(t, models.CodeMissingPosition, errRes.Code)

		votes, err := env.votes.GetAll(context.Background())
		require.NoError(t, err)
		assert.Empty(t, votes, "No partial ballot may be written")
	})

	t.Run("Unhappy path - duplicate position rejects whole ballot", func(t *testing.T) {
		env := setupTestEnv(t)
		env.openPortal(t)
		env.seedVoter(t, "VN1", "Mwea", "Mwea")
		candidates := env.seedMweaBallotSetup(t)

		ballot := fullBallot("VN1", candidates)
		ballot.Votes[3] = ballot.Votes[0]

		res := testutils.PerformRequest(env.router, http.MethodPost, "/api/vote", ballot, nil)
		require.Equal(t, http.StatusBadRequest, res.Code)

		var errRes models.ErrorResponse
		testutils.DecodeBody(t, res, &errRes)
		assert.Equal(t, models.CodeDuplicatePosition, errRes.Code)
	})

	t.Run("Unhappy path - unknown position", func(t *testing.T) {
		env := setupTestEnv(t)
		env.openPortal(t)
		env.seedVoter(t, "VN1", "Mwea", "Mwea")
		candidates := env.seedMweaBallotSetup(t)

		ballot := fullBallot("VN1", candidates)
		ballot.Votes[0].Position = "senator"

		res := testutils.PerformRequest(env.router, http.MethodPost, "/api/vote", ballot, nil)
		require.Equal(t, http.StatusBadRequest, res.Code)

		var errRes models.ErrorResponse
		testutils.DecodeBody(t, res, &errRes)
		assert.Equal(t, models.CodeInvalidRequest, errRes.Code)
	})

	t.Run("Unhappy path - portal closed mid-flight blocks commit", func(t *testing.T) {
		env := setupTestEnv(t)
		env.seedVoter(t, "VN1", "Mwea", "Mwea")
		candidates := env.seedMweaBallotSetup(t)

		res := testutils.PerformRequest(env.router, http.MethodPost, "/api/vote", fullBallot("VN1", candidates), nil)
		require.Equal(t, http.StatusForbidden, res.Code)

		var errRes models.ErrorResponse
		testutils.DecodeBody(t, res, &errRes)
		assert.Equal(t, models.CodePortalClosed, errRes.Code)
	})

	t.Run("Unhappy path - mca candidate from another ward", func(t *testing.T) {
		env := setupTestEnv(t)
		env.openPortal(t)
		env.seedVoter(t, "VN1", "Mwea", "Mwea")
		candidates := env.seedMweaBallotSetup(t)
		env.seedCandidate(t, "cand-mca-other", "mca", "Progress Party", "Mwea", "Tebere")
		candidates["mca"] = "cand-mca-other"

		res := testutils.PerformRequest(env.router, http.MethodPost, "/api/vote", fullBallot("VN1", candidates), nil)
		require.Equal(t, http.StatusBadRequest, res.Code)

		var errRes models.ErrorResponse
		testutils.DecodeBody(t, res, &errRes)
		assert.Equal(t, models.CodeIneligibleCandidate, errRes.Code)

		votes, err := env.votes.GetAll(context.Background())
		require.NoError(t, err)
		assert.Empty(t, votes, "One ineligible choice rejects the whole submission")
	})

	t.Run("Unhappy path - unknown candidate", func(t *testing.T) {
		env := setupTestEnv(t)
		env.openPortal(t)
		env.seedVoter(t, "VN1", "Mwea", "Mwea")
		candidates := env.seedMweaBallotSetup(t)
		candidates["mp"] = "no-such-candidate"

		res := testutils.PerformRequest(env.router, http.MethodPost, "/api/vote", fullBallot("VN1", candidates), nil)
		require.Equal(t, http.StatusBadRequest, res.Code)

		var errRes models.ErrorResponse
		testutils.DecodeBody(t, res, &errRes)
		assert.Equal(t, models.CodeInvalidCandidate, errRes.Code)
	})

	t.Run("Unhappy path - deactivated candidate", func(t *testing.T) {
		env := setupTestEnv(t)
		env.openPortal(t)
		env.seedVoter(t, "VN1", "Mwea", "Mwea")
		candidates := env.seedMweaBallotSetup(t)
		require.NoError(t, env.candidates.Deactivate(context.Background(), "cand-mp"))

		res := testutils.PerformRequest(env.router, http.MethodPost, "/api/vote", fullBallot("VN1", candidates), nil)
		require.Equal(t, http.StatusBadRequest, res.Code)

		var errRes models.ErrorResponse
		testutils.DecodeBody(t, res, &errRes)
		assert.Equal(t, models.CodeInvalidCandidate, errRes.Code)
	})

	t.Run("Unhappy path - candidate removed between validation and commit", func(t *testing.T) {
		env := setupTestEnv(t)
		env.openPortal(t)
		env.seedVoter(t, "VN1", "Mwea", "Mwea")
		candidates := env.seedMweaBallotSetup(t)
		env.committer.forceErr = storage.ErrCandidateUnavailable

		res := testutils.PerformRequest(env.router, http.MethodPost, "/api/vote", fullBallot("VN1", candidates), nil)
		require.Equal(t, http.StatusBadRequest, res.Code)

		var errRes models.ErrorResponse
		testutils.DecodeBody(t, res, &errRes)
		assert.Equal(t, models.CodeInvalidCandidate, errRes.Code,
			"A voter who has not voted must not be told they already did")

		voter, err := env.voters.Get(context.Background(), "VN1")
		require.NoError(t, err)
		assert.False(t, voter.HasVoted)
	})

	t.Run("Unhappy path - second submission conflicts", func(t *testing.T) {
		env := setupTestEnv(t)
		env.openPortal(t)
		env.seedVoter(t, "VN1", "Mwea", "Mwea")
		candidates := env.seedMweaBallotSetup(t)

		first := testutils.PerformRequest(env.router, http.MethodPost, "/api/vote", fullBallot("VN1", candidates), nil)
		require.Equal(t, http.StatusOK, first.Code)

		second := testutils.PerformRequest(env.router, http.MethodPost, "/api/vote", fullBallot("VN1", candidates), nil)
		require.Equal(t, http.StatusConflict, second.Code)

		var errRes models.ErrorResponse
		testutils.DecodeBody(t, second, &errRes)
		assert.Equal(t, models.CodeAlreadyVoted, errRes.Code)
	})
}

func TestSubmitBallotConcurrent(t *testing.T) {
	env := setupTestEnv(t)
	env.openPortal(t)
	env.seedVoter(t, "VN1", "Mwea", "Mwea")
	candidates := env.seedMweaBallotSetup(t)

	const attempts = 8
	codes := make([]int, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			res := testutils.PerformRequest(env.router, http.MethodPost, "/api/vote", fullBallot("VN1", candidates), nil)
			codes[i] = res.Code
		}(i)
	}
	wg.Wait()

	okCount := 0
	for _, code := range codes {
		switch code {
		case http.StatusOK:
			okCount++
		case http.StatusConflict:
		default:
			t.Fatalf("unexpected status %d from concurrent submission", code)
		}
	}
	assert.Equal(t, 1, okCount, "At most one concurrent submission may commit")

	votes, err := env.votes.GetByVotingNumber(context.Background(), "VN1")
	require.NoError(t, err)
	assert.Len(t, votes, 4, "The losing attempts leave no vote records behind")

	for _, id := range candidates {
		candidate, err := env.candidates.Get(context.Background(), id)
		require.NoError(t, err)
		assert.Equal(t, 1, candidate.VoteCount)
	}
}

func TestGetBallotReceipt(t *testing.T) {
	t.Run("Happy path - receipt lists positions only", func(t *testing.T) {
		env := setupTestEnv(t)
		env.openPortal(t)
		env.seedVoter(t, "VN1", "Mwea", "Mwea")
		candidates := env.seedMweaBallotSetup(t)
		submitRes := testutils.PerformRequest(env.router, http.MethodPost, "/api/vote", fullBallot("VN1", candidates), nil)
		require.Equal(t, http.StatusOK, submitRes.Code)

		res := testutils.PerformRequest(env.router, http.MethodGet, "/api/vote/VN1", nil, nil)
		require.Equal(t, http.StatusOK, res.Code)

		var receipt models.BallotReceiptResponse
		testutils.DecodeBody(t, res, &receipt)
		assert.Len(t, receipt.Votes, 4)
		assert.NotContains(t, res.Body.String(), "candidateId", "A receipt never reveals the choices")
	})

	t.Run("Unhappy path - no ballot recorded", func(t *testing.T) {
		env := setupTestEnv(t)

		res := testutils.PerformRequest(env.router, http.MethodGet, "/api/vote/VN1", nil, nil)
		assert.Equal(t, http.StatusNotFound, res.Code)
	})
}
