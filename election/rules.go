// Package election holds the pure domain rules of the county election:
// which candidates a voter may see on the ballot, and how raw vote
// records turn into tallies, winners and turnout figures. Everything in
// here is side-effect free so the eligibility and submission paths can
// share one rule and never disagree.
package election

import (
	"github.com/Benvin-888/electronic-voting-backened/api/models"
	"github.com/Benvin-888/electronic-voting-backened/storage"
)

// RequiredPositions is the full position set every ballot must cover.
func RequiredPositions() []models.Position {
	return []models.Position{
		models.PositionGovernor,
		models.PositionWomenRep,
		models.PositionMP,
		models.PositionMCA,
	}
}

// ConstituencyRequired reports whether a position is contested at
// constituency level or below.
func ConstituencyRequired(p models.Position) bool {
	return p == models.PositionMP || p == models.PositionMCA
}

// WardRequired reports whether a position is contested at ward level.
func WardRequired(p models.Position) bool {
	return p == models.PositionMCA
}

// CandidateEligible is the single area-matching rule: it decides whether
// a candidate stands in the race this voter participates in for the
// candidate's position. Governor and women representative are county
// races, MP a constituency race, MCA a ward race.
func CandidateEligible(c *storage.Candidate, v *storage.Voter) bool {
	if !c.IsActive {
		return false
	}
	if c.County != v.County {
		return false
	}
	switch models.Position(c.Position) {
	case models.PositionGovernor, models.PositionWomenRep:
		return true
	case models.PositionMP:
		return c.Constituency == v.Constituency
	case models.PositionMCA:
		return c.Constituency == v.Constituency && c.Ward == v.Ward
	default:
		return false
	}
}

// EligibleCandidates filters the active candidates a voter may choose
// from for one position.
func EligibleCandidates(candidates []*storage.Candidate, voter *storage.Voter, position models.Position) []*storage.Candidate {
	eligible := make([]*storage.Candidate, 0)
	for _, c := range candidates {
		if models.Position(c.Position) == position && CandidateEligible(c, voter) {
			eligible = append(eligible, c)
		}
	}
	return eligible
}

// SameSeat reports whether two candidates contest the same seat: same
// position and same area at that position's scope. Combined with the
// party it backs the one-active-candidate-per-party-per-seat rule.
func SameSeat(a, b *storage.Candidate) bool {
	if a.Position != b.Position || a.County != b.County {
		return false
	}
	switch models.Position(a.Position) {
	case models.PositionGovernor, models.PositionWomenRep:
		return true
	case models.PositionMP:
		return a.Constituency == b.Constituency
	case models.PositionMCA:
		return a.Constituency == b.Constituency && a.Ward == b.Ward
	default:
		return false
	}
}
