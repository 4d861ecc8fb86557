package bot

import (
	"testing"
	"time"

	"doppelkopf/internal/app"
	"doppelkopf/internal/domain"
	"doppelkopf/internal/rules"
)

// trickView builds a view mid-trick: three cards on the table, our seat 3 to
// play, trick number set so the search ends after the settle.
func trickView(t *testing.T, hand ...domain.Card) *View {
	t.Helper()
	rs := rules.DefaultRuleset()
	v := NewView(3, rs)
	v.Apply(app.Event{Kind: app.EventRoundChange, Payload: app.RoundChangePayload{
		Phase: domain.PhaseDealing, GameType: domain.GameNormal,
	}})
	deal(v, hand...)
	v.Apply(app.Event{Kind: app.EventRoundChange, Payload: app.RoundChangePayload{
		Phase: domain.PhaseTricks, GameType: domain.GameNormal,
	}})
	plays := []domain.Card{
		{ID: "sa", Color: domain.ColorSpades, Face: domain.FaceAce},
		{ID: "st", Color: domain.ColorSpades, Face: domain.FaceTen},
		{ID: "s9", Color: domain.ColorSpades, Face: domain.FaceNine},
	}
	for seat, c := range plays {
		v.Apply(app.Event{Kind: app.EventCardTransfer, Payload: app.CardTransferPayload{
			Card: c, From: domain.SlotHand(seat), To: domain.SlotTable,
		}})
	}
	v.Apply(app.Event{Kind: app.EventTurn, Payload: app.TurnPayload{
		Trick: v.MaxTricks, MaxTricks: v.MaxTricks, Seat: 3,
	}})
	return v
}

func TestChooseCardSingleLegalMove(t *testing.T) {
	v := trickView(t,
		domain.Card{ID: "s2", Color: domain.ColorSpades, Face: domain.FaceKing},
		domain.Card{ID: "h9", Color: domain.ColorHearts, Face: domain.FaceNine},
	)
	mv, err := NewSearcher().ChooseCard(v)
	if err != nil {
		t.Fatal(err)
	}
	if mv.CardID != "s2" {
		t.Errorf("played %s, want the forced spade king", mv.CardID)
	}
}

func TestChooseCardTakesFatTrick(t *testing.T) {
	// Void in spades, holding a trump and a worthless discard. Taking the
	// 21-eye trick clearly beats giving it away.
	v := trickView(t,
		domain.Card{ID: "dj", Color: domain.ColorDiamonds, Face: domain.FaceJack},
		domain.Card{ID: "h9", Color: domain.ColorHearts, Face: domain.FaceNine},
	)
	mv, err := NewSearcher().ChooseCard(v)
	if err != nil {
		t.Fatal(err)
	}
	if mv.CardID != "dj" {
		t.Errorf("played %s, want the trumping jack", mv.CardID)
	}
}

func TestChooseCardNoLegalMove(t *testing.T) {
	rs := rules.DefaultRuleset()
	v := NewView(0, rs)
	if _, err := NewSearcher().ChooseCard(v); err == nil {
		t.Fatal("expected an error on an empty hand")
	}
}

func TestChooseCardTimeoutFallsBack(t *testing.T) {
	v := trickView(t,
		domain.Card{ID: "dj", Color: domain.ColorDiamonds, Face: domain.FaceJack},
		domain.Card{ID: "h9", Color: domain.ColorHearts, Face: domain.FaceNine},
	)
	s := NewSearcher()
	clock := time.Now()
	s.now = func() time.Time {
		clock = clock.Add(4 * time.Second)
		return clock
	}
	mv, err := s.ChooseCard(v)
	if err != nil {
		t.Fatal(err)
	}
	if mv.CardID != "dj" && mv.CardID != "h9" {
		t.Errorf("timeout fallback returned unknown card %s", mv.CardID)
	}
}

func TestCandidatesCapAndPrune(t *testing.T) {
	v := trickView(t,
		domain.Card{ID: "dj", Color: domain.ColorDiamonds, Face: domain.FaceJack},
		domain.Card{ID: "h9", Color: domain.ColorHearts, Face: domain.FaceNine},
	)
	s := NewSearcher()
	st := newSearchState(v)
	st.seat = 1 // hidden seat
	cands := s.candidates(v, st)
	if len(cands) == 0 {
		t.Fatal("no candidates for a hidden seat")
	}
	if len(cands) > MaxBranches {
		t.Errorf("candidate count %d exceeds MaxBranches", len(cands))
	}
	for i := 1; i < len(cands); i++ {
		if cands[i].score > cands[i-1].score {
			t.Errorf("candidates not ordered by importance at %d", i)
		}
	}
}

func TestLeafValue(t *testing.T) {
	rs := rules.DefaultRuleset()
	tests := []struct {
		name    string
		parties [4]domain.Party
		eyes    [4]int
		want    float64
	}{
		{
			"unknown party counts own eyes only",
			[4]domain.Party{domain.PartyUnknown, domain.PartyUnknown, domain.PartyUnknown, domain.PartyUnknown},
			[4]int{30, 40, 50, 60},
			30,
		},
		{
			"known parties balance re against kontra",
			[4]domain.Party{domain.PartyRe, domain.PartyKontra, domain.PartyRe, domain.PartyKontra},
			[4]int{30, 40, 50, 60},
			30 + 50 - 40 - 60,
		},
		{
			"partially known parties skip unknown seats",
			[4]domain.Party{domain.PartyRe, domain.PartyUnknown, domain.PartyUnknown, domain.PartyKontra},
			[4]int{30, 40, 50, 60},
			30 - 60,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := NewView(0, rs)
			v.Parties = tt.parties
			if got := leafValue(v, tt.eyes); got != tt.want {
				t.Errorf("leafValue = %v, want %v", got, tt.want)
			}
		})
	}
}
