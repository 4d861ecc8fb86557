package bot

import (
	"errors"
	"math"
	"sort"
	"time"

	"doppelkopf/internal/app"
	"doppelkopf/internal/bot/brain"
	"doppelkopf/internal/domain"
)

// ErrNoLegalMove is returned when the searcher is asked to move without any
// playable card in the view.
var ErrNoLegalMove = errors.New("bot: no legal move")

// Searcher picks a card via bounded depth-first search over possible trick
// continuations, using the belief matrix to guess hidden hands.
type Searcher struct {
	Tuning Tuning
	now    func() time.Time
}

// NewSearcher creates a searcher with the default tuning.
func NewSearcher() *Searcher {
	return &Searcher{Tuning: DefaultTuning, now: time.Now}
}

// OnEvent satisfies Brain; the searcher keeps no state between turns.
func (s *Searcher) OnEvent(ev app.Event) {}

// ChooseCard searches up to MaxDepth completed tricks ahead and returns the
// move with the best backed-up value. When the time budget runs out, the best
// move found so far is returned.
func (s *Searcher) ChooseCard(v *View) (Move, error) {
	legal := v.LegalCards()
	if len(legal) == 0 {
		return Move{}, ErrNoLegalMove
	}
	if len(legal) == 1 {
		return Move{CardID: legal[0].ID}, nil
	}

	deadline := s.now().Add(AlgoTimeout)
	root := newSearchState(v)

	ordered := make([]scoredMove, 0, len(legal))
	for _, c := range legal {
		ordered = append(ordered, scoredMove{card: c, score: s.importance(v, root, c, 1)})
	}
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].score > ordered[j].score })

	best := ordered[0].card
	bestVal := math.Inf(-1)
	for _, m := range ordered {
		if !s.now().Before(deadline) {
			break
		}
		child := root.clone()
		child.play(v, v.Seat, m.card)
		val := s.search(v, child, deadline)
		if val > bestVal {
			bestVal = val
			best = m.card
		}
	}
	return Move{CardID: best.ID}, nil
}

// searchState is one node of the speculative game tree. Only the quantities
// the leaf evaluation needs are simulated.
type searchState struct {
	hand     []domain.Card
	belief   *brain.Belief
	trick    []domain.PlayedCard
	trickNum int
	eyes     [4]int
	seat     int // seat to move
	depth    int // completed tricks below the root
}

func newSearchState(v *View) *searchState {
	return &searchState{
		hand:     append([]domain.Card(nil), v.Hand...),
		belief:   v.Belief,
		trick:    append([]domain.PlayedCard(nil), v.Trick...),
		trickNum: v.TrickNum,
		eyes:     v.Eyes,
		seat:     v.Seat,
	}
}

func (st *searchState) clone() *searchState {
	return &searchState{
		hand:     append([]domain.Card(nil), st.hand...),
		belief:   st.belief.Clone(),
		trick:    append([]domain.PlayedCard(nil), st.trick...),
		trickNum: st.trickNum,
		eyes:     st.eyes,
		seat:     st.seat,
		depth:    st.depth,
	}
}

// play applies one card to the node and settles the trick when it fills.
func (st *searchState) play(v *View, seat int, c domain.Card) {
	var lead *domain.Card
	if len(st.trick) > 0 {
		lead = &st.trick[0].Card
	}
	if seat == v.Seat {
		st.hand, _ = domain.RemoveCard(st.hand, c.ID)
	}
	st.belief.ObservePlay(seat, c, lead)
	st.trick = append(st.trick, domain.PlayedCard{Seat: seat, Card: c})

	if len(st.trick) < domain.NumSeats {
		st.seat = domain.NextSeat(seat)
		return
	}
	cards := make([]domain.Card, len(st.trick))
	sum := 0
	for i, pc := range st.trick {
		cards[i] = pc.Card
		sum += pc.Card.Eyes()
	}
	last := st.trickNum >= v.MaxTricks
	winner := st.trick[v.Scheme.TrickWinner(cards, v.Rules, v.PigsCalled, v.SuperpigsCalled, last)].Seat
	st.eyes[winner] += sum
	st.trick = nil
	st.trickNum++
	st.depth++
	st.seat = winner
}

// search backs values up with the conservative rule: moves of the own seat
// and of known teammates are valued by their worst outcome, opponent moves by
// their best.
func (s *Searcher) search(v *View, st *searchState, deadline time.Time) float64 {
	if st.depth >= MaxDepth || st.trickNum > v.MaxTricks || !s.now().Before(deadline) {
		return leafValue(v, st.eyes)
	}
	cands := s.candidates(v, st)
	if len(cands) == 0 {
		return leafValue(v, st.eyes)
	}

	pessimistic := st.seat == v.Seat || v.Teammate(st.seat)
	best := math.Inf(1)
	if !pessimistic {
		best = math.Inf(-1)
	}
	for _, m := range cands {
		child := st.clone()
		child.play(v, st.seat, m.card)
		val := s.search(v, child, deadline)
		if pessimistic {
			best = math.Min(best, val)
		} else {
			best = math.Max(best, val)
		}
	}
	return best
}

type scoredMove struct {
	card  domain.Card
	score float64
}

// candidates enumerates the moves a node expands: the own legal cards, or
// for hidden seats the card values the belief still allows, ordered by
// importance, pruned below BranchMinThreshold and capped at MaxBranches.
func (s *Searcher) candidates(v *View, st *searchState) []scoredMove {
	var moves []scoredMove
	if st.seat == v.Seat {
		for _, c := range legalFrom(v, st.hand, st.trick) {
			moves = append(moves, scoredMove{card: c, score: s.importance(v, st, c, 1)})
		}
	} else {
		var all, matching []scoredMove
		for _, val := range st.belief.Values() {
			p := st.belief.Row(val)[st.seat]
			if p <= 0 {
				continue
			}
			c := domain.Card{Color: val.Color, Face: val.Face}
			m := scoredMove{card: c, score: s.importance(v, st, c, p)}
			all = append(all, m)
			if len(st.trick) > 0 && v.Scheme.MatchesLead(c, st.trick[0].Card) {
				matching = append(matching, m)
			}
		}
		// Assume a hidden seat follows suit whenever it plausibly can.
		if len(st.trick) > 0 && len(matching) > 0 {
			moves = matching
		} else {
			moves = all
		}
	}

	sort.SliceStable(moves, func(i, j int) bool { return moves[i].score > moves[j].score })
	kept := moves[:0]
	for _, m := range moves {
		if m.score < BranchMinThreshold && len(kept) > 0 {
			break
		}
		kept = append(kept, m)
		if len(kept) == MaxBranches {
			break
		}
	}
	return kept
}

// importance scores a candidate for expansion ordering: probability of the
// holder times the weight of the card in the current trick.
func (s *Searcher) importance(v *View, st *searchState, c domain.Card, p float64) float64 {
	w := 1.0 + s.Tuning.EyesWeight*float64(c.Eyes())/11
	if wouldWin(v, st, c) {
		w += s.Tuning.WinWeight / 8
	} else if v.Scheme.IsTrump(c) {
		rank := v.Scheme.TrickRank(c, v.Rules, v.PigsCalled, v.SuperpigsCalled)
		w -= s.Tuning.SpareWeight * float64(rank) / 300
	}
	return p * w
}

// wouldWin reports whether the card would take the trick as it stands.
func wouldWin(v *View, st *searchState, c domain.Card) bool {
	cards := make([]domain.Card, 0, len(st.trick)+1)
	for _, pc := range st.trick {
		cards = append(cards, pc.Card)
	}
	cards = append(cards, c)
	last := st.trickNum >= v.MaxTricks
	return v.Scheme.TrickWinner(cards, v.Rules, v.PigsCalled, v.SuperpigsCalled, last) == len(cards)-1
}

func legalFrom(v *View, hand []domain.Card, trick []domain.PlayedCard) []domain.Card {
	if len(trick) == 0 {
		return append([]domain.Card(nil), hand...)
	}
	lead := trick[0].Card
	if !v.Scheme.HasLeadColor(hand, lead) {
		return append([]domain.Card(nil), hand...)
	}
	var legal []domain.Card
	for _, c := range hand {
		if v.Scheme.MatchesLead(c, lead) {
			legal = append(legal, c)
		}
	}
	return legal
}

// leafValue evaluates a node: own-party eyes minus opposing-party eyes, or
// the own seat's eyes alone while the party is still unknown.
func leafValue(v *View, eyes [4]int) float64 {
	own := v.Parties[v.Seat]
	if own != domain.PartyRe && own != domain.PartyKontra {
		return float64(eyes[v.Seat])
	}
	val := 0.0
	for seat, e := range eyes {
		switch v.Parties[seat] {
		case own:
			val += float64(e)
		case own.Opponent():
			val -= float64(e)
		}
	}
	return val
}
