package controllers

import (
	"context"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/Benvin-888/electronic-voting-backened/geo"
	"github.com/Benvin-888/electronic-voting-backened/logging"
	"github.com/Benvin-888/electronic-voting-backened/storage"
)

const testAdminToken = "secret"

type testEnv struct {
	router      *gin.Engine
	voters      *memVoterStorage
	candidates  *memCandidateStorage
	votes       *memVoteStorage
	committer   *memBallotCommitter
	settings    *memSettingStorage
	audit       *memAuditStorage
	broadcaster *recordingBroadcaster
	notifier    *recordingNotifier
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	logging.Log = logrus.New()
	t.Setenv("ADMIN_TOKEN", testAdminToken)

	env := &testEnv{
		voters:      newMemVoterStorage(),
		candidates:  newMemCandidateStorage(),
		votes:       newMemVoteStorage(),
		settings:    newMemSettingStorage(),
		audit:       &memAuditStorage{},
		broadcaster: &recordingBroadcaster{},
		notifier:    &recordingNotifier{},
	}
	env.committer = &memBallotCommitter{
		voters:     env.voters,
		candidates: env.candidates,
		votes:      env.votes,
	}

	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewVotingController(env.voters, env.candidates, env.votes, env.committer, env.settings, env.audit, env.broadcaster, env.notifier).RegisterRoutes(r)
	NewResultsController(env.votes, env.candidates, env.voters, env.settings, env.audit).RegisterRoutes(r)
	NewVoterController(env.voters, env.audit).RegisterRoutes(r)
	NewCandidateMetaController(env.candidates, env.audit).RegisterRoutes(r)
	NewAdminController(env.settings, env.audit, env.broadcaster).RegisterRoutes(r)
	env.router = r

	return env
}

func adminHeaders() map[string]string {
	return map[string]string{"x-admin-token": testAdminToken}
}

func (e *testEnv) openPortal(t *testing.T) {
	t.Helper()
	if err := e.settings.Set(context.Background(), storage.SettingPortalOpen, "true"); err != nil {
		t.Fatalf("failed to open portal: %v", err)
	}
}

func (e *testEnv) seedVoter(t *testing.T, votingNumber, constituency, ward string) *storage.Voter {
	t.Helper()
	voter := &storage.Voter{
		VotingNumber:     votingNumber,
		NationalID:       "ID-" + votingNumber,
		FullName:         "Voter " + votingNumber,
		Email:            votingNumber + "@example.com",
		PhoneNumber:      "+254700000000",
		County:           geo.CountyName,
		Constituency:     constituency,
		Ward:             ward,
		IsActive:         true,
		RegistrationDate: time.Now().UTC(),
	}
	if err := e.voters.Put(context.Background(), voter); err != nil {
		t.Fatalf("failed to seed voter: %v", err)
	}
	return voter
}

func (e *testEnv) seedCandidate(t *testing.T, id, position, party, constituency, ward string) *storage.Candidate {
	t.Helper()
	candidate := &storage.Candidate{
		ID:             id,
		FullName:       "Candidate " + id,
		Position:       position,
		PoliticalParty: party,
		County:         geo.CountyName,
		Constituency:   constituency,
		Ward:           ward,
		IsActive:       true,
		CreatedAt:      time.Now().UTC(),
	}
	if err := e.candidates.Put(context.Background(), candidate); err != nil {
		t.Fatalf("failed to seed candidate: %v", err)
	}
	return candidate
}

// seedMweaBallotSetup registers one candidate per position matching a
// voter in Mwea constituency, Mwea ward, and returns the candidate ids
// keyed by position.
func (e *testEnv) seedMweaBallotSetup(t *testing.T) map[string]string {
	t.Helper()
	e.seedCandidate(t, "cand-gov", "governor", "Unity Party", "", "")
	e.seedCandidate(t, "cand-wr", "women_representative", "Unity Party", "", "")
	e.seedCandidate(t, "cand-mp", "mp", "Unity Party", "Mwea", "")
	e.seedCandidate(t, "cand-mca", "mca", "Unity Party", "Mwea", "Mwea")
	return map[string]string{
		"governor":             "cand-gov",
		"women_representative": "cand-wr",
		"mp":                   "cand-mp",
		"mca":                  "cand-mca",
	}
}
