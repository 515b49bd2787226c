package models

import (
	"time"

	"github.com/Benvin-888/electronic-voting-backened/storage"
)

type CandidateCreateRequest struct {
	FullName       string `json:"fullName" binding:"required"`
	Position       string `json:"position" binding:"required"`
	PoliticalParty string `json:"politicalParty" binding:"required"`
	Constituency   string `json:"constituency"`
	Ward           string `json:"ward"`
}

type CandidateUpdateRequest struct {
	FullName       string `json:"fullName"`
	PoliticalParty string `json:"politicalParty"`
	Constituency   string `json:"constituency"`
	Ward           string `json:"ward"`
}

type CandidateResponse struct {
	ID             string    `json:"id"`
	FullName       string    `json:"fullName"`
	Position       string    `json:"position"`
	PoliticalParty string    `json:"politicalParty"`
	County         string    `json:"county"`
	Constituency   string    `json:"constituency,omitempty"`
	Ward           string    `json:"ward,omitempty"`
	VoteCount      int       `json:"voteCount"`
	IsActive       bool      `json:"isActive"`
	CreatedAt      time.Time `json:"createdAt"`
}

func TransformCandidateFromStorage(c *storage.Candidate) CandidateResponse {
	return CandidateResponse{
		ID:             c.ID,
		FullName:       c.FullName,
		Position:       c.Position,
		PoliticalParty: c.PoliticalParty,
		County:         c.County,
		Constituency:   c.Constituency,
		Ward:           c.Ward,
		VoteCount:      c.VoteCount,
		IsActive:       c.IsActive,
		CreatedAt:      c.CreatedAt,
	}
}

// CandidateSummary is the slimmed shape shown to voters on the ballot.
type CandidateSummary struct {
	ID             string `json:"id"`
	FullName       string `json:"fullName"`
	PoliticalParty string `json:"politicalParty"`
}

func TransformCandidateToSummary(c *storage.Candidate) CandidateSummary {
	return CandidateSummary{
		ID:             c.ID,
		FullName:       c.FullName,
		PoliticalParty: c.PoliticalParty,
	}
}
