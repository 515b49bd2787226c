package controllers

import (
	"context"
	"sync"
	"time"

	"github.com/Benvin-888/electronic-voting-backened/broadcast"
	"github.com/Benvin-888/electronic-voting-backened/notify"
	"github.com/Benvin-888/electronic-voting-backened/storage"
)

// In-memory storages mirroring the DynamoDB conditional-write semantics,
// so controller tests run without a live table.

type memVoterStorage struct {
	mu     sync.Mutex
	voters map[string]*storage.Voter
}

func newMemVoterStorage() *memVoterStorage {
	return &memVoterStorage{voters: make(map[string]*storage.Voter)}
}

func (s *memVoterStorage) Get(_ context.Context, votingNumber string) (*storage.Voter, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	voter, ok := s.voters[votingNumber]
	if !ok {
		return nil, storage.ErrVoterNotFound
	}
	copied := *voter
	return &copied, nil
}

func (s *memVoterStorage) GetAll(context.Context) ([]*storage.Voter, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*storage.Voter, 0, len(s.voters))
	for _, v := range s.voters {
		copied := *v
		out = append(out, &copied)
	}
	return out, nil
}

func (s *memVoterStorage) FindByNationalIDOrEmail(_ context.Context, nationalID, email string) (*storage.Voter, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, v := range s.voters {
		if v.NationalID == nationalID || v.Email == email {
			copied := *v
			return &copied, nil
		}
	}
	return nil, nil
}

func (s *memVoterStorage) Put(_ context.Context, voter *storage.Voter) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.voters[voter.VotingNumber]; exists {
		return storage.ErrItemAlreadyExists
	}
	copied := *voter
	s.voters[voter.VotingNumber] = &copied
	return nil
}

func (s *memVoterStorage) Deactivate(_ context.Context, votingNumber string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	voter, ok := s.voters[votingNumber]
	if !ok {
		return storage.ErrVoterNotFound
	}
	voter.IsActive = false
	return nil
}

type memCandidateStorage struct {
	mu         sync.Mutex
	candidates map[string]*storage.Candidate
}

func newMemCandidateStorage() *memCandidateStorage {
	return &memCandidateStorage{candidates: make(map[string]*storage.Candidate)}
}

func (s *memCandidateStorage) Get(_ context.Context, id string) (*storage.Candidate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	candidate, ok := s.candidates[id]
	if !ok {
		return nil, storage.ErrCandidateNotFound
	}
	copied := *candidate
	return &copied, nil
}

func (s *memCandidateStorage) GetAll(context.Context) ([]*storage.Candidate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*storage.Candidate, 0, len(s.candidates))
	for _, c := range s.candidates {
		copied := *c
		out = append(out, &copied)
	}
	return out, nil
}

func (s *memCandidateStorage) GetAllActive(ctx context.Context) ([]*storage.Candidate, error) {
	all, _ := s.GetAll(ctx)
	active := make([]*storage.Candidate, 0, len(all))
	for _, c := range all {
		if c.IsActive {
			active = append(active, c)
		}
	}
	return active, nil
}

func (s *memCandidateStorage) Put(_ context.Context, candidate *storage.Candidate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.candidates[candidate.ID]; exists {
		return storage.ErrItemAlreadyExists
	}
	copied := *candidate
	s.candidates[candidate.ID] = &copied
	return nil
}

func (s *memCandidateStorage) Update(_ context.Context, candidate *storage.Candidate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.candidates[candidate.ID]
	if !ok {
		return storage.ErrCandidateNotFound
	}
	existing.FullName = candidate.FullName
	existing.PoliticalParty = candidate.PoliticalParty
	existing.Constituency = candidate.Constituency
	existing.Ward = candidate.Ward
	return nil
}

func (s *memCandidateStorage) Deactivate(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	candidate, ok := s.candidates[id]
	if !ok {
		return storage.ErrCandidateNotFound
	}
	candidate.IsActive = false
	return nil
}

func (s *memCandidateStorage) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.candidates, id)
	return nil
}

type voteKey struct {
	votingNumber string
	position     string
}

type memVoteStorage struct {
	mu    sync.Mutex
	votes map[voteKey]*storage.Vote
}

func newMemVoteStorage() *memVoteStorage {
	return &memVoteStorage{votes: make(map[voteKey]*storage.Vote)}
}

func (s *memVoteStorage) GetAll(context.Context) ([]*storage.Vote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*storage.Vote, 0, len(s.votes))
	for _, v := range s.votes {
		copied := *v
		out = append(out, &copied)
	}
	return out, nil
}

func (s *memVoteStorage) GetByVotingNumber(_ context.Context, votingNumber string) ([]*storage.Vote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*storage.Vote, 0)
	for key, v := range s.votes {
		if key.votingNumber == votingNumber {
			copied := *v
			out = append(out, &copied)
		}
	}
	return out, nil
}

// memBallotCommitter reproduces the all-or-nothing transaction over the
// in-memory stores: every condition is checked under one lock and
// nothing is written unless all of them hold.
type memBallotCommitter struct {
	voters     *memVoterStorage
	candidates *memCandidateStorage
	votes      *memVoteStorage
	forceErr   error
}

func (s *memBallotCommitter) Commit(_ context.Context, ballot *storage.Ballot) error {
	if s.forceErr != nil {
		return s.forceErr
	}
	s.voters.mu.Lock()
	defer s.voters.mu.Unlock()
	s.candidates.mu.Lock()
	defer s.candidates.mu.Unlock()
	s.votes.mu.Lock()
	defer s.votes.mu.Unlock()

	voter, ok := s.voters.voters[ballot.VotingNumber]
	if !ok || !voter.IsActive || voter.HasVoted {
		return storage.ErrBallotConflict
	}
	for _, vote := range ballot.Votes {
		if _, exists := s.votes.votes[voteKey{vote.VotingNumber, vote.Position}]; exists {
			return storage.ErrBallotConflict
		}
	}
	for _, id := range ballot.CandidateIDs {
		candidate, ok := s.candidates.candidates[id]
		if !ok || !candidate.IsActive {
			return storage.ErrCandidateUnavailable
		}
	}

	for _, vote := range ballot.Votes {
		copied := *vote
		s.votes.votes[voteKey{vote.VotingNumber, vote.Position}] = &copied
	}
	for _, id := range ballot.CandidateIDs {
		s.candidates.candidates[id].VoteCount++
	}
	voter.HasVoted = true
	return nil
}

type memSettingStorage struct {
	mu       sync.Mutex
	settings map[string]*storage.Setting
}

func newMemSettingStorage() *memSettingStorage {
	return &memSettingStorage{settings: make(map[string]*storage.Setting)}
}

func (s *memSettingStorage) Get(_ context.Context, key string) (*storage.Setting, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	setting, ok := s.settings[key]
	if !ok {
		return nil, storage.ErrSettingNotFound
	}
	copied := *setting
	return &copied, nil
}

func (s *memSettingStorage) GetBool(ctx context.Context, key string) (bool, error) {
	setting, err := s.Get(ctx, key)
	if err != nil {
		return false, nil
	}
	return setting.Value == "true", nil
}

func (s *memSettingStorage) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	setting, ok := s.settings[key]
	if !ok {
		s.settings[key] = &storage.Setting{Key: key, Value: value, Version: 1, UpdatedAt: time.Now().UTC()}
		return nil
	}
	setting.Value = value
	setting.Version++
	setting.UpdatedAt = time.Now().UTC()
	return nil
}

func (s *memSettingStorage) EnsureDefault(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.settings[key]; ok {
		return nil
	}
	s.settings[key] = &storage.Setting{Key: key, Value: value, Version: 1, UpdatedAt: time.Now().UTC()}
	return nil
}

type memAuditStorage struct {
	mu      sync.Mutex
	entries []*storage.AuditEntry
}

func (s *memAuditStorage) Record(_ context.Context, actorID *string, action, entityKind string, entityID *string, detail map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, &storage.AuditEntry{
		ActorID:    actorID,
		Action:     action,
		EntityKind: entityKind,
		EntityID:   entityID,
		Detail:     detail,
		CreatedAt:  time.Now().UTC(),
	})
	return nil
}

func (s *memAuditStorage) GetAll(context.Context) ([]*storage.AuditEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*storage.AuditEntry, len(s.entries))
	copy(out, s.entries)
	return out, nil
}

type recordingBroadcaster struct {
	mu           sync.Mutex
	voteEvents   []broadcast.VoteRecordedEvent
	portalEvents []broadcast.PortalStatusEvent
}

func (b *recordingBroadcaster) VoteRecorded(_ context.Context, event broadcast.VoteRecordedEvent) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.voteEvents = append(b.voteEvents, event)
	return nil
}

func (b *recordingBroadcaster) PortalStatus(_ context.Context, event broadcast.PortalStatusEvent) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.portalEvents = append(b.portalEvents, event)
	return nil
}

func (b *recordingBroadcaster) Close() error { return nil }

type recordingNotifier struct {
	mu        sync.Mutex
	summaries []notify.VoterSummary
	fail      error
}

func (n *recordingNotifier) SendVoteConfirmation(_ context.Context, voter notify.VoterSummary) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.fail != nil {
		return n.fail
	}
	n.summaries = append(n.summaries, voter)
	return nil
}
