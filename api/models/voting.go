package models

import "time"

type PositionBallot struct {
	Position   string             `json:"position"`
	Label      string             `json:"label"`
	Candidates []CandidateSummary `json:"candidates"`
}

type EligibilityResponse struct {
	Eligible     bool             `json:"eligible"`
	VotingNumber string           `json:"votingNumber"`
	Constituency string           `json:"constituency"`
	Ward         string           `json:"ward"`
	Deadline     string           `json:"deadline,omitempty"`
	Positions    []PositionBallot `json:"positions"`
}

type BallotChoice struct {
	Position    string `json:"position"`
	CandidateID string `json:"candidateId"`
}

type SubmitBallotRequest struct {
	VotingNumber string         `json:"votingNumber"`
	Votes        []BallotChoice `json:"votes"`
}

type SubmitBallotResponse struct {
	Message   string    `json:"message"`
	VotedAt   time.Time `json:"votedAt"`
	Positions []string  `json:"positions"`
}

// BallotReceiptEntry deliberately omits the candidate chosen.
type BallotReceiptEntry struct {
	Position string    `json:"position"`
	VotedAt  time.Time `json:"votedAt"`
}

type BallotReceiptResponse struct {
	VotingNumber string               `json:"votingNumber"`
	Votes        []BallotReceiptEntry `json:"votes"`
}
