package models

type TallyEntryResponse struct {
	CandidateID    string  `json:"candidateId"`
	FullName       string  `json:"fullName"`
	PoliticalParty string  `json:"politicalParty"`
	Votes          int     `json:"votes"`
	Percentage     float64 `json:"percentage"`
}

type PositionResultResponse struct {
	Position     string               `json:"position"`
	Label        string               `json:"label"`
	Constituency string               `json:"constituency,omitempty"`
	Ward         string               `json:"ward,omitempty"`
	TotalVotes   int                  `json:"totalVotes"`
	Results      []TallyEntryResponse `json:"results"`
	Winner       *TallyEntryResponse  `json:"winner,omitempty"`
}

type TurnoutResponse struct {
	Constituency string  `json:"constituency,omitempty"`
	Ward         string  `json:"ward,omitempty"`
	TotalVoters  int     `json:"totalVoters"`
	Voted        int     `json:"voted"`
	TurnoutRate  float64 `json:"turnoutRate"`
}

type FinalResultsResponse struct {
	Published bool                     `json:"published"`
	Turnout   TurnoutResponse          `json:"turnout"`
	Positions []PositionResultResponse `json:"positions"`
}
