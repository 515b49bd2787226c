package models

import (
	"time"

	"github.com/Benvin-888/electronic-voting-backened/storage"
)

// RegisterVoterRequest carries the registration fields. For the
// OCR-assisted flow the ID-document extraction happens upstream; the
// request arrives with the extracted values already filled in.
type RegisterVoterRequest struct {
	NationalID   string `json:"nationalId" binding:"required"`
	FullName     string `json:"fullName" binding:"required"`
	Email        string `json:"email" binding:"required,email"`
	PhoneNumber  string `json:"phoneNumber" binding:"required"`
	Constituency string `json:"constituency" binding:"required"`
	Ward         string `json:"ward" binding:"required"`
}

type VoterResponse struct {
	VotingNumber     string    `json:"votingNumber"`
	NationalID       string    `json:"nationalId"`
	FullName         string    `json:"fullName"`
	Email            string    `json:"email"`
	PhoneNumber      string    `json:"phoneNumber"`
	County           string    `json:"county"`
	Constituency     string    `json:"constituency"`
	Ward             string    `json:"ward"`
	HasVoted         bool      `json:"hasVoted"`
	IsActive         bool      `json:"isActive"`
	RegistrationDate time.Time `json:"registrationDate"`
}

func TransformVoterFromStorage(v *storage.Voter) VoterResponse {
	return VoterResponse{
		VotingNumber:     v.VotingNumber,
		NationalID:       v.NationalID,
		FullName:         v.FullName,
		Email:            v.Email,
		PhoneNumber:      v.PhoneNumber,
		County:           v.County,
		Constituency:     v.Constituency,
		Ward:             v.Ward,
		HasVoted:         v.HasVoted,
		IsActive:         v.IsActive,
		RegistrationDate: v.RegistrationDate,
	}
}

type VoterStatsResponse struct {
	Constituency string `json:"constituency"`
	Registered   int    `json:"registered"`
	Voted        int    `json:"voted"`
}
