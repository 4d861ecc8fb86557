package brain

import (
	"doppelkopf/internal/domain"
	"doppelkopf/internal/rules"
)

// CardValue identifies a card by what is printed on it. The two copies of a
// value are indistinguishable to an observer, so belief is tracked per value,
// not per card id.
type CardValue struct {
	Color domain.Color
	Face  domain.Face
}

// colTrump is the effective-colour index reserved for trump. Side suits use
// their domain.Color value.
const colTrump = 4

// row is the belief about one card value: how many copies are pinned to the
// bot's own hand or to the played pile, and how the remaining copies are
// distributed over the seats.
type row struct {
	total  int
	mine   int
	played int
	p      [4]float64
}

// Belief is the bot's probabilistic view of the hidden hands. For every card
// value it keeps a seat-probability row: expected copies per seat, with the
// own hand and played cards pinned exactly. A seat that failed to follow an
// effective colour is void in that colour and its mass is redistributed.
type Belief struct {
	me     int
	rs     *rules.Ruleset
	scheme *domain.TrumpScheme
	rows   map[CardValue]*row
	void   [4][5]bool
}

// NewBelief builds the belief for one seat at the start of a round. The deck
// composition follows the ruleset; all copies outside the own hand start
// evenly distributed over the other three seats.
func NewBelief(me int, gt domain.GameType, rs *rules.Ruleset) *Belief {
	b := &Belief{
		me:     me,
		rs:     rs,
		scheme: domain.NewTrumpScheme(gt, rs),
		rows:   map[CardValue]*row{},
	}
	for _, c := range domain.NewDeck(rs) {
		v := CardValue{Color: c.Color, Face: c.Face}
		r, ok := b.rows[v]
		if !ok {
			r = &row{}
			b.rows[v] = r
		}
		r.total++
	}
	b.renormalise()
	return b
}

// SetGameType swaps the trump scheme after the auction resolves the game
// type. Void marks are keyed by effective colour, so they are discarded.
func (b *Belief) SetGameType(gt domain.GameType) {
	b.scheme = domain.NewTrumpScheme(gt, b.rs)
	b.void = [4][5]bool{}
	b.renormalise()
}

// SetHand pins the own hand. Values previously pinned as mine but no longer
// held are released back into the unknown pool.
func (b *Belief) SetHand(hand []domain.Card) {
	for _, r := range b.rows {
		r.mine = 0
	}
	for _, c := range hand {
		if r, ok := b.rows[CardValue{Color: c.Color, Face: c.Face}]; ok {
			r.mine++
		}
	}
	b.renormalise()
}

// AddOwn pins one more copy of a value to the own hand, e.g. a dealt or
// received card.
func (b *Belief) AddOwn(c domain.Card) {
	if r, ok := b.rows[CardValue{Color: c.Color, Face: c.Face}]; ok && r.mine+r.played < r.total {
		r.mine++
		b.renormalise()
	}
}

// ObservePlay records a card played to the table. If the player is another
// seat and the card does not follow the lead, that seat is void in the lead's
// effective colour from now on.
func (b *Belief) ObservePlay(seat int, c domain.Card, lead *domain.Card) {
	v := CardValue{Color: c.Color, Face: c.Face}
	if r, ok := b.rows[v]; ok {
		if seat == b.me {
			if r.mine > 0 {
				r.mine--
			}
		}
		if r.played < r.total {
			r.played++
		}
	}
	if seat != b.me && lead != nil && !b.scheme.MatchesLead(c, *lead) {
		b.void[seat][b.effColor(*lead)] = true
	}
	b.renormalise()
}

// MarkVoid records that a seat holds no card of an effective colour.
func (b *Belief) MarkVoid(seat int, color domain.Color) {
	b.void[seat][b.effColorOf(color)] = true
	b.renormalise()
}

// Prob returns the expected number of copies of the card's value held by the
// seat. The own seat reports its exact count.
func (b *Belief) Prob(seat int, c domain.Card) float64 {
	r, ok := b.rows[CardValue{Color: c.Color, Face: c.Face}]
	if !ok {
		return 0
	}
	return r.p[seat]
}

// Row returns the seat-probability row of a card value.
func (b *Belief) Row(v CardValue) [4]float64 {
	if r, ok := b.rows[v]; ok {
		return r.p
	}
	return [4]float64{}
}

// Values lists every card value of the deck, for candidate enumeration.
func (b *Belief) Values() []CardValue {
	vs := make([]CardValue, 0, len(b.rows))
	for v := range b.rows {
		vs = append(vs, v)
	}
	return vs
}

// Scheme exposes the trump scheme the belief ranks cards under.
func (b *Belief) Scheme() *domain.TrumpScheme { return b.scheme }

// Clone copies the belief for speculative search.
func (b *Belief) Clone() *Belief {
	c := &Belief{me: b.me, rs: b.rs, scheme: b.scheme, void: b.void}
	c.rows = make(map[CardValue]*row, len(b.rows))
	for v, r := range b.rows {
		cp := *r
		c.rows[v] = &cp
	}
	return c
}

func (b *Belief) effColor(c domain.Card) int {
	if b.scheme.IsTrump(c) {
		return colTrump
	}
	return int(c.Color)
}

func (b *Belief) effColorOf(color domain.Color) int {
	c := domain.Card{Color: color, Face: domain.FaceAce}
	if b.scheme.IsTrump(c) {
		return colTrump
	}
	return int(color)
}

// renormalise rebuilds every seat-probability row: own and played copies are
// pinned, the rest is spread evenly over the seats that could still hold the
// value.
func (b *Belief) renormalise() {
	for v, r := range b.rows {
		r.p = [4]float64{}
		r.p[b.me] = float64(r.mine)
		hidden := r.total - r.mine - r.played
		if hidden <= 0 {
			continue
		}
		col := b.effColor(domain.Card{Color: v.Color, Face: v.Face})
		var eligible []int
		for seat := 0; seat < domain.NumSeats; seat++ {
			if seat == b.me || b.void[seat][col] {
				continue
			}
			eligible = append(eligible, seat)
		}
		if len(eligible) == 0 {
			// Contradictory observations; fall back to all other seats.
			for seat := 0; seat < domain.NumSeats; seat++ {
				if seat != b.me {
					eligible = append(eligible, seat)
				}
			}
		}
		share := float64(hidden) / float64(len(eligible))
		for _, seat := range eligible {
			r.p[seat] = share
		}
	}
}
