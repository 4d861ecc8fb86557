package bot

import (
	"doppelkopf/internal/app"
	"doppelkopf/internal/bot/brain"
	"doppelkopf/internal/domain"
	"doppelkopf/internal/rules"
)

// View mirrors the visible round state for one seat, rebuilt from the same
// event stream a human client receives. It never sees another seat's hand.
type View struct {
	Seat  int
	Rules *rules.Ruleset

	GameType domain.GameType
	Phase    domain.Phase
	Scheme   *domain.TrumpScheme

	Hand      []domain.Card
	Trick     []domain.PlayedCard
	TrickNum  int
	MaxTricks int
	Current   int

	Eyes             [4]int
	Parties          [4]domain.Party
	WeddingFindTrick int

	PigsCalled      bool
	SuperpigsCalled bool

	Belief *brain.Belief
}

// NewView creates an empty view for a seat; Apply feeds it events.
func NewView(seat int, rs *rules.Ruleset) *View {
	v := &View{Seat: seat, Rules: rs}
	v.reset(domain.GameNormal)
	return v
}

func (v *View) reset(gt domain.GameType) {
	v.GameType = gt
	v.Scheme = domain.NewTrumpScheme(gt, v.Rules)
	v.Hand = nil
	v.Trick = nil
	v.TrickNum = 0
	v.MaxTricks = domain.HandSize(v.Rules)
	v.Eyes = [4]int{}
	v.WeddingFindTrick = 0
	v.PigsCalled = false
	v.SuperpigsCalled = false
	for s := range v.Parties {
		v.Parties[s] = domain.PartyUnknown
	}
	v.Belief = brain.NewBelief(v.Seat, gt, v.Rules)
}

// Apply folds one engine event into the view. Events targeted at other seats
// must not be fed in; the agent filters them.
func (v *View) Apply(ev app.Event) {
	switch ev.Kind {
	case app.EventRoundChange:
		v.applyRoundChange(ev.Payload)
	case app.EventCardTransfer:
		v.applyTransfer(ev.Payload)
	case app.EventTurn:
		if p, ok := ev.Payload.(app.TurnPayload); ok {
			v.TrickNum = p.Trick
			v.MaxTricks = p.MaxTricks
			v.Current = p.Seat
		}
	case app.EventScoreboard:
		if p, ok := ev.Payload.(app.ScoreboardPayload); ok {
			// During tricks the totals are trick eyes; between rounds they
			// are game points, which the view does not track.
			if v.Phase == domain.PhaseTricks || v.Phase == domain.PhaseBlackSowSolo {
				v.Eyes[p.Seat] = p.Total
			}
		}
	case app.EventAnnounce:
		v.applyAnnounce(ev.Payload)
	}
}

func (v *View) applyRoundChange(payload any) {
	p, ok := payload.(app.RoundChangePayload)
	if !ok {
		return
	}
	if p.Phase == domain.PhaseDealing {
		v.reset(p.GameType)
	} else if p.GameType != v.GameType {
		v.GameType = p.GameType
		v.Scheme = domain.NewTrumpScheme(p.GameType, v.Rules)
		v.Belief.SetGameType(p.GameType)
	}
	v.Phase = p.Phase
	v.WeddingFindTrick = p.WeddingFindTrick
}

func (v *View) applyTransfer(payload any) {
	p, ok := payload.(app.CardTransferPayload)
	if !ok {
		return
	}
	own := domain.SlotHand(v.Seat)
	switch {
	case p.To == own:
		v.Hand = append(v.Hand, p.Card)
		v.Belief.AddOwn(p.Card)
	case p.From == own && p.To != domain.SlotTable:
		// Poverty hand-over; the card leaves without being played.
		v.Hand, _ = domain.RemoveCard(v.Hand, p.Card.ID)
		v.Belief.ObservePlay(v.Seat, p.Card, nil)
	case p.To == domain.SlotTable:
		seat, ok := handSeat(p.From)
		if !ok {
			return
		}
		var lead *domain.Card
		if len(v.Trick) > 0 {
			lead = &v.Trick[0].Card
		}
		if seat == v.Seat {
			v.Hand, _ = domain.RemoveCard(v.Hand, p.Card.ID)
		}
		v.Belief.ObservePlay(seat, p.Card, lead)
		v.Trick = append(v.Trick, domain.PlayedCard{Seat: seat, Card: p.Card})
	case p.From == domain.SlotTable:
		// Trick settled; the table empties card by card.
		for i, pc := range v.Trick {
			if pc.Card.ID == p.Card.ID {
				v.Trick = append(v.Trick[:i], v.Trick[i+1:]...)
				break
			}
		}
	}
}

func (v *View) applyAnnounce(payload any) {
	p, ok := payload.(app.AnnouncePayload)
	if !ok {
		return
	}
	switch p.Type {
	case "party":
		v.Parties[p.Seat] = domain.Party(p.Data)
	case app.AnnounceRe:
		v.Parties[p.Seat] = domain.PartyRe
	case app.AnnounceKontra:
		v.Parties[p.Seat] = domain.PartyKontra
	case string(app.ActionPigsCall):
		v.PigsCalled = true
	case string(app.ActionSuperpigCall):
		v.SuperpigsCalled = true
	}
}

// LegalCards returns the cards the own seat may play to the current trick.
func (v *View) LegalCards() []domain.Card {
	if len(v.Trick) == 0 {
		return append([]domain.Card(nil), v.Hand...)
	}
	lead := v.Trick[0].Card
	if !v.Scheme.HasLeadColor(v.Hand, lead) {
		return append([]domain.Card(nil), v.Hand...)
	}
	var legal []domain.Card
	for _, c := range v.Hand {
		if v.Scheme.MatchesLead(c, lead) {
			legal = append(legal, c)
		}
	}
	return legal
}

// Teammate reports whether the other seat is known to be on the own party.
func (v *View) Teammate(seat int) bool {
	own := v.Parties[v.Seat]
	if own != domain.PartyRe && own != domain.PartyKontra {
		return false
	}
	return v.Parties[seat] == own
}

func handSeat(slot domain.Slot) (int, bool) {
	for s := 0; s < domain.NumSeats; s++ {
		if slot == domain.SlotHand(s) {
			return s, true
		}
	}
	return 0, false
}
