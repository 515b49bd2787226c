package storage

import "time"

type Voter struct {
	VotingNumber     string    `dynamodbav:"PK" json:"votingNumber"`
	NationalID       string    `dynamodbav:"NationalID" json:"nationalId"`
	FullName         string    `dynamodbav:"FullName" json:"fullName"`
	Email            string    `dynamodbav:"Email" json:"email"`
	PhoneNumber      string    `dynamodbav:"PhoneNumber" json:"phoneNumber"`
	County           string    `dynamodbav:"County" json:"county"`
	Constituency     string    `dynamodbav:"Constituency" json:"constituency"`
	Ward             string    `dynamodbav:"Ward" json:"ward"`
	HasVoted         bool      `dynamodbav:"HasVoted" json:"hasVoted"`
	IsActive         bool      `dynamodbav:"IsActive" json:"isActive"`
	RegistrationDate time.Time `dynamodbav:"RegistrationDate" json:"registrationDate"`
}

type Candidate struct {
	ID             string    `dynamodbav:"PK" json:"id"`
	FullName       string    `dynamodbav:"FullName" json:"fullName"`
	Position       string    `dynamodbav:"Position" json:"position"`
	PoliticalParty string    `dynamodbav:"PoliticalParty" json:"politicalParty"`
	County         string    `dynamodbav:"County" json:"county"`
	Constituency   string    `dynamodbav:"Constituency" json:"constituency,omitempty"`
	Ward           string    `dynamodbav:"Ward" json:"ward,omitempty"`
	VoteCount      int       `dynamodbav:"VoteCount" json:"voteCount"`
	IsActive       bool      `dynamodbav:"IsActive" json:"isActive"`
	CreatedAt      time.Time `dynamodbav:"CreatedAt" json:"createdAt"`
}

// Vote is one credential's choice for one position. The (PK, SK) pair is
// the at-most-one-vote-per-position constraint; geography is copied from
// the voter at cast time so tallies can group without a join.
type Vote struct {
	VotingNumber string    `dynamodbav:"PK" json:"votingNumber"`
	Position     string    `dynamodbav:"SK" json:"position"`
	CandidateID  string    `dynamodbav:"CandidateID" json:"candidateId"`
	County       string    `dynamodbav:"County" json:"county"`
	Constituency string    `dynamodbav:"Constituency" json:"constituency"`
	Ward         string    `dynamodbav:"Ward" json:"ward"`
	VotedAt      time.Time `dynamodbav:"VotedAt" json:"votedAt"`
}

type Setting struct {
	Key       string    `dynamodbav:"PK" json:"key"`
	Value     string    `dynamodbav:"Value" json:"value"`
	Version   int       `dynamodbav:"Version" json:"version"`
	UpdatedAt time.Time `dynamodbav:"UpdatedAt" json:"updatedAt"`
}

// AuditEntry never carries voter identity for ballot actions; vote-cast
// entries hold area and position detail only.
type AuditEntry struct {
	ID         string            `dynamodbav:"PK" json:"id"`
	ActorID    *string           `dynamodbav:"ActorID" json:"actorId,omitempty"`
	Action     string            `dynamodbav:"Action" json:"action"`
	EntityKind string            `dynamodbav:"EntityKind" json:"entityKind"`
	EntityID   *string           `dynamodbav:"EntityID" json:"entityId,omitempty"`
	Detail     map[string]string `dynamodbav:"Detail" json:"detail,omitempty"`
	CreatedAt  time.Time         `dynamodbav:"CreatedAt" json:"createdAt"`
}
