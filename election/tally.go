package election

import (
	"math"
	"sort"

	"github.com/Benvin-888/electronic-voting-backened/storage"
)

// Filter selects the vote records feeding a tally. Empty fields match
// everything, so a zero Filter with just Position set is a county-wide
// race for that position.
type Filter struct {
	Position     string
	Constituency string
	Ward         string
}

func (f Filter) matches(v *storage.Vote) bool {
	if f.Position != "" && v.Position != f.Position {
		return false
	}
	if f.Constituency != "" && v.Constituency != f.Constituency {
		return false
	}
	if f.Ward != "" && v.Ward != f.Ward {
		return false
	}
	return true
}

type TallyEntry struct {
	CandidateID    string
	FullName       string
	PoliticalParty string
	Votes          int
	Percentage     float64
}

// Tally groups the matching votes by candidate, attaches candidate
// metadata, and ranks by vote count descending. Equal counts order by
// candidate id ascending so repeated queries return a stable ranking.
// Percentages are of the filtered total, rounded to two decimals, and
// zero when the total is zero. Rollups at any granularity always run
// over the raw vote records, never over lower-level aggregates.
func Tally(votes []*storage.Vote, candidates []*storage.Candidate, filter Filter) []TallyEntry {
	byID := make(map[string]*storage.Candidate, len(candidates))
	for _, c := range candidates {
		byID[c.ID] = c
	}

	counts := make(map[string]int)
	total := 0
	for _, v := range votes {
		if !filter.matches(v) {
			continue
		}
		counts[v.CandidateID]++
		total++
	}

	entries := make([]TallyEntry, 0, len(counts))
	for candidateID, count := range counts {
		entry := TallyEntry{
			CandidateID: candidateID,
			Votes:       count,
			Percentage:  percentage(count, total),
		}
		if c, ok := byID[candidateID]; ok {
			entry.FullName = c.FullName
			entry.PoliticalParty = c.PoliticalParty
		}
		entries = append(entries, entry)
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Votes != entries[j].Votes {
			return entries[i].Votes > entries[j].Votes
		}
		return entries[i].CandidateID < entries[j].CandidateID
	})
	return entries
}

// Winner is the top-ranked entry of a tally, nil when no votes matched.
func Winner(entries []TallyEntry) *TallyEntry {
	if len(entries) == 0 {
		return nil
	}
	winner := entries[0]
	return &winner
}

// Turnout computes voted/active voters for an optional area filter.
// Rate is a two-decimal percentage, zero when no active voters match.
func Turnout(voters []*storage.Voter, constituency, ward string) (total, voted int, rate float64) {
	for _, v := range voters {
		if !v.IsActive {
			continue
		}
		if constituency != "" && v.Constituency != constituency {
			continue
		}
		if ward != "" && v.Ward != ward {
			continue
		}
		total++
		if v.HasVoted {
			voted++
		}
	}
	return total, voted, percentage(voted, total)
}

func percentage(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(part)/float64(total)*100*100) / 100
}
