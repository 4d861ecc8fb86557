package bot

import (
	"testing"

	"doppelkopf/internal/app"
	"doppelkopf/internal/domain"
	"doppelkopf/internal/rules"
)

func viewWithHand(rs *rules.Ruleset, cards ...domain.Card) *View {
	v := NewView(0, rs)
	v.Apply(app.Event{Kind: app.EventRoundChange, Payload: app.RoundChangePayload{
		Phase: domain.PhaseDealing, GameType: domain.GameNormal,
	}})
	deal(v, cards...)
	return v
}

func nineHand() []domain.Card {
	colors := []domain.Color{domain.ColorClubs, domain.ColorClubs, domain.ColorSpades, domain.ColorSpades, domain.ColorHearts}
	hand := make([]domain.Card, 0, len(colors))
	for i, col := range colors {
		hand = append(hand, domain.Card{ID: string(rune('a' + i)), Color: col, Face: domain.FaceNine})
	}
	return hand
}

func TestPolicyReadyAndThrow(t *testing.T) {
	rs := rules.DefaultRuleset()
	p := &Policy{}

	v := viewWithHand(rs, domain.Card{ID: "x", Color: domain.ColorClubs, Face: domain.FaceAce})
	act, ok := p.Answer(v, app.QuestionPayload{Type: app.QuestionReady, Seat: 0})
	if !ok || act.Kind != app.ActionReady {
		t.Errorf("plain hand answered %s, want ready", act.Kind)
	}

	v = viewWithHand(rs, nineHand()...)
	act, ok = p.Answer(v, app.QuestionPayload{Type: app.QuestionReady, Seat: 0})
	if !ok || act.Kind != app.ActionThrow {
		t.Errorf("five-nine hand answered %s, want throw", act.Kind)
	}

	// With throwing disabled the same hand declares ready.
	off := rs.With(rules.Throw, "none")
	v = viewWithHand(off, nineHand()...)
	act, _ = p.Answer(v, app.QuestionPayload{Type: app.QuestionReady, Seat: 0})
	if act.Kind != app.ActionReady {
		t.Errorf("throw disabled but answered %s", act.Kind)
	}
}

func TestPolicyReservation(t *testing.T) {
	rs := rules.DefaultRuleset()
	p := &Policy{}

	v := viewWithHand(rs, domain.Card{ID: "x", Color: domain.ColorClubs, Face: domain.FaceAce})
	act, _ := p.Answer(v, app.QuestionPayload{Type: app.QuestionReservation, Seat: 0})
	if act.Kind != app.ActionReservation || act.Yes {
		t.Errorf("plain hand claimed a reservation")
	}

	wedding := viewWithHand(rs,
		domain.Card{ID: "q1", Color: domain.ColorClubs, Face: domain.FaceQueen},
		domain.Card{ID: "q2", Color: domain.ColorClubs, Face: domain.FaceQueen},
	)
	act, _ = p.Answer(wedding, app.QuestionPayload{Type: app.QuestionReservation, Seat: 0})
	if !act.Yes {
		t.Errorf("both queens of clubs but no reservation")
	}
	act, _ = p.Answer(wedding, app.QuestionPayload{Type: app.QuestionWedding, Seat: 0})
	if act.Kind != app.ActionWeddingAnswer || !act.Yes {
		t.Errorf("wedding not claimed with both queens")
	}

	solo := &Policy{Solos: []domain.GameType{domain.SoloQueens}}
	act, _ = solo.Answer(v, app.QuestionPayload{Type: app.QuestionReservation, Seat: 0})
	if !act.Yes {
		t.Errorf("configured solo but no reservation")
	}
	act, _ = solo.Answer(v, app.QuestionPayload{Type: app.QuestionSolo, Seat: 0})
	if act.Kind != app.ActionSolo || !act.Yes || act.Game != domain.SoloQueens {
		t.Errorf("solo answer = %+v, want queens solo", act)
	}
}

func TestPolicyTruthfulPigs(t *testing.T) {
	rs := rules.DefaultRuleset()
	p := &Policy{}

	pigs := viewWithHand(rs,
		domain.Card{ID: "a1", Color: domain.ColorDiamonds, Face: domain.FaceAce},
		domain.Card{ID: "a2", Color: domain.ColorDiamonds, Face: domain.FaceAce},
	)
	act, _ := p.Answer(pigs, app.QuestionPayload{Type: app.QuestionPigs, Seat: 0})
	if act.Kind != app.ActionPigsAnswer || !act.Yes {
		t.Errorf("two trump aces but pigs denied")
	}

	one := viewWithHand(rs, domain.Card{ID: "a1", Color: domain.ColorDiamonds, Face: domain.FaceAce})
	act, _ = p.Answer(one, app.QuestionPayload{Type: app.QuestionPigs, Seat: 0})
	if act.Yes {
		t.Errorf("single trump ace but pigs claimed")
	}
}

func TestPolicyDeclinesPoverty(t *testing.T) {
	rs := rules.DefaultRuleset()
	p := &Policy{}
	v := viewWithHand(rs, domain.Card{ID: "x", Color: domain.ColorClubs, Face: domain.FaceAce})

	act, _ := p.Answer(v, app.QuestionPayload{Type: app.QuestionPoverty, Seat: 0})
	if act.Kind != app.ActionPovertyAnswer || act.Yes {
		t.Errorf("poverty declared")
	}
	act, _ = p.Answer(v, app.QuestionPayload{Type: app.QuestionPovertyAccept, Seat: 0})
	if act.Kind != app.ActionPovertyAccept || act.Yes {
		t.Errorf("poverty accepted")
	}
}

func TestPolicyPovertyReturnDeclaresTrumps(t *testing.T) {
	rs := rules.DefaultRuleset()
	p := &Policy{}
	v := viewWithHand(rs,
		domain.Card{ID: "t1", Color: domain.ColorDiamonds, Face: domain.FaceNine},
		domain.Card{ID: "s1", Color: domain.ColorSpades, Face: domain.FaceNine},
		domain.Card{ID: "s2", Color: domain.ColorSpades, Face: domain.FaceKing},
		domain.Card{ID: "s3", Color: domain.ColorSpades, Face: domain.FaceAce},
		domain.Card{ID: "s4", Color: domain.ColorClubs, Face: domain.FaceAce},
	)

	act, _ := p.Answer(v, app.QuestionPayload{Type: app.QuestionPovertyReturn, Seat: 0})
	if len(act.CardIDs) != 3 {
		t.Fatalf("returned %d cards, want 3", len(act.CardIDs))
	}
	// Enough side cards exist, so no trump goes back.
	if act.Amount != 0 {
		t.Errorf("declared %d trumps, want 0", act.Amount)
	}
	for _, id := range act.CardIDs {
		if id == "t1" {
			t.Errorf("trump returned despite spare side cards")
		}
	}
}

func TestPolicyWeddingClarifyAndVote(t *testing.T) {
	rs := rules.DefaultRuleset()
	p := &Policy{}
	v := viewWithHand(rs)

	act, _ := p.Answer(v, app.QuestionPayload{Type: app.QuestionWeddingClarify, Seat: 0})
	if act.Kind != app.ActionWeddingClarify || act.Wish != "foreign" {
		t.Errorf("clarify answer = %+v", act)
	}
	act, _ = p.Answer(v, app.QuestionPayload{Type: app.QuestionVote, Seat: 0})
	if act.Kind != app.ActionVote || act.Vote != app.VoteContinue {
		t.Errorf("vote answer = %+v", act)
	}
	if _, ok := p.Answer(v, app.QuestionPayload{Type: "unknown", Seat: 0}); ok {
		t.Errorf("unknown question answered")
	}
}
