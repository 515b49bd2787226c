package models

type Position string

const (
	PositionGovernor Position = "governor"
	PositionWomenRep Position = "women_representative"
	PositionMP       Position = "mp"
	PositionMCA      Position = "mca"
)

// ValidPositions maps position keys to display labels. Every ballot must
// cover exactly this set.
var ValidPositions = map[Position]string{
	PositionGovernor: "Governor",
	PositionWomenRep: "Women Representative",
	PositionMP:       "Member of Parliament",
	PositionMCA:      "Member of County Assembly",
}

// Alphabet for generated voting numbers.
var Alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// VotingNumberLength is fixed; a number is generated once at registration
// and never regenerated.
const VotingNumberLength = 8
