package domain

import (
	"bytes"
	"cmp"
	"slices"

	"github.com/google/uuid"
)

type PartyTally struct {
	PartyID   uuid.UUID `json:"party_id"`
	CitizenID uuid.UUID `json:"citizen_id"`
	Votes     int64     `json:"votes"`
}

type ConstituencyResult struct {
	ConstituencyID uuid.UUID    `json:"constituency_id"`
	Name           string       `json:"name"`
	TotalVotes     int64        `json:"total_votes"`
	Parties        []PartyTally `json:"parties"`
	Winner         *PartyTally  `json:"winner,omitempty"`
}

// ElectionResults is derived data. Provisional is set while the election is still open.
type ElectionResults struct {
	ElectionID     uuid.UUID            `json:"election_id"`
	State          ElectionState        `json:"state"`
	Provisional    bool                 `json:"provisional"`
	TotalVotes     int64                `json:"total_votes"`
	Constituencies []ConstituencyResult `json:"constituencies"`
}

// TieBreakPolicy picks the winner among parties sharing the highest count.
// tied always holds at least two entries.
type TieBreakPolicy func(tied []PartyTally) PartyTally

// LowestCitizenID resolves a tie in favour of the candidate with the lowest citizen id.
func LowestCitizenID(tied []PartyTally) PartyTally {
	best := tied[0]
	for _, t := range tied[1:] {
		if bytes.Compare(t.CitizenID[:], best.CitizenID[:]) < 0 {
			best = t
		}
	}
	return best
}

// Tally counts votes per constituency and party. Every candidacy is listed in
// insertion order, including those with no votes. A constituency without votes
// has no winner. The result depends only on its inputs.
func Tally(e *Election, constituencies []Constituency, candidacies []Candidacy, votes []Vote, policy TieBreakPolicy) *ElectionResults {
	if policy == nil {
		policy = LowestCitizenID
	}

	type key struct {
		constituency uuid.UUID
		party        uuid.UUID
	}

	results := &ElectionResults{
		ElectionID:     e.ID,
		State:          e.State,
		Provisional:    e.State == StateOpen,
		Constituencies: make([]ConstituencyResult, 0, len(constituencies)),
	}

	index := make(map[uuid.UUID]int, len(constituencies))
	for i, c := range constituencies {
		index[c.ID] = i
		results.Constituencies = append(results.Constituencies, ConstituencyResult{
			ConstituencyID: c.ID,
			Name:           c.Name,
			Parties:        []PartyTally{},
		})
	}

	slot := make(map[key]int, len(candidacies))
	for _, cand := range sortedByPosition(candidacies) {
		i, ok := index[cand.ConstituencyID]
		if !ok {
			continue
		}
		cr := &results.Constituencies[i]
		slot[key{cand.ConstituencyID, cand.PartyID}] = len(cr.Parties)
		cr.Parties = append(cr.Parties, PartyTally{PartyID: cand.PartyID, CitizenID: cand.CitizenID})
	}

	for _, v := range votes {
		i, ok := index[v.ConstituencyID]
		if !ok {
			continue
		}
		cr := &results.Constituencies[i]
		k := key{v.ConstituencyID, v.PartyID}
		p, ok := slot[k]
		if !ok {
			p = len(cr.Parties)
			slot[k] = p
			cr.Parties = append(cr.Parties, PartyTally{PartyID: v.PartyID})
		}
		cr.Parties[p].Votes++
		cr.TotalVotes++
		results.TotalVotes++
	}

	for i := range results.Constituencies {
		results.Constituencies[i].Winner = winner(results.Constituencies[i], policy)
	}

	return results
}

func winner(cr ConstituencyResult, policy TieBreakPolicy) *PartyTally {
	if cr.TotalVotes == 0 {
		return nil
	}

	var top int64
	var tied []PartyTally
	for _, p := range cr.Parties {
		switch {
		case p.Votes > top:
			top = p.Votes
			tied = append(tied[:0], p)
		case p.Votes == top:
			tied = append(tied, p)
		}
	}

	w := tied[0]
	if len(tied) > 1 {
		w = policy(tied)
	}
	return &w
}

func sortedByPosition(candidacies []Candidacy) []Candidacy {
	out := slices.Clone(candidacies)
	slices.SortStableFunc(out, func(a, b Candidacy) int {
		return cmp.Compare(a.Position, b.Position)
	})
	return out
}
