package bot

import (
	"testing"
	"time"

	"doppelkopf/internal/app"
	"doppelkopf/internal/domain"
	"doppelkopf/internal/rules"
)

func startAgent(t *testing.T, seat int) (*Agent, chan app.Action) {
	t.Helper()
	actions := make(chan app.Action, 16)
	a := NewAgent(seat, rules.DefaultRuleset(), GetBotIdentity(seat), func(s int, act app.Action) {
		if s != seat {
			t.Errorf("action submitted for seat %d, want %d", s, seat)
		}
		actions <- act
	})
	a.minWait = 0
	a.Start()
	t.Cleanup(a.Stop)
	return a, actions
}

func waitAction(t *testing.T, actions chan app.Action) app.Action {
	t.Helper()
	select {
	case act := <-actions:
		return act
	case <-time.After(5 * time.Second):
		t.Fatal("no action submitted")
		return app.Action{}
	}
}

func TestAgentAnswersOwnQuestion(t *testing.T) {
	a, actions := startAgent(t, 2)

	a.Notify(app.Event{Kind: app.EventRoundChange, Payload: app.RoundChangePayload{
		Phase: domain.PhaseDealing, GameType: domain.GameNormal,
	}})
	a.Notify(app.Event{Kind: app.EventQuestion, Payload: app.QuestionPayload{
		Type: app.QuestionReady, Seat: 2,
	}, Seats: []int{2}})

	act := waitAction(t, actions)
	if act.Kind != app.ActionReady {
		t.Errorf("answered %s, want ready", act.Kind)
	}
}

func TestAgentIgnoresOtherSeats(t *testing.T) {
	a, actions := startAgent(t, 1)

	a.Notify(app.Event{Kind: app.EventQuestion, Payload: app.QuestionPayload{
		Type: app.QuestionReady, Seat: 0,
	}, Seats: []int{0}})
	a.Notify(app.Event{Kind: app.EventTurn, Payload: app.TurnPayload{Trick: 1, MaxTricks: 10, Seat: 3}})

	select {
	case act := <-actions:
		t.Errorf("agent acted on foreign events: %+v", act)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestAgentPlaysOnItsTurn(t *testing.T) {
	a, actions := startAgent(t, 0)

	a.Notify(app.Event{Kind: app.EventRoundChange, Payload: app.RoundChangePayload{
		Phase: domain.PhaseDealing, GameType: domain.GameNormal,
	}})
	a.Notify(app.Event{Kind: app.EventCardTransfer, Payload: app.CardTransferPayload{
		Card: domain.Card{ID: "ca", Color: domain.ColorClubs, Face: domain.FaceAce},
		From: domain.SlotStack, To: domain.SlotHand(0),
	}})
	a.Notify(app.Event{Kind: app.EventRoundChange, Payload: app.RoundChangePayload{
		Phase: domain.PhaseTricks, GameType: domain.GameNormal,
	}})
	a.Notify(app.Event{Kind: app.EventTurn, Payload: app.TurnPayload{Trick: 1, MaxTricks: 10, Seat: 0}})

	act := waitAction(t, actions)
	if act.Kind != app.ActionPlayCard || act.CardID != "ca" {
		t.Errorf("played %+v, want the club ace", act)
	}
}

func TestAgentForcedPovertyAccept(t *testing.T) {
	a, actions := startAgent(t, 3)

	a.Notify(app.Event{Kind: app.EventStatusMessage, Payload: app.StatusMessagePayload{
		Severity: app.StatusWarn, Key: app.StatusKey(app.ErrMustAccept),
	}, Seats: []int{3}})

	act := waitAction(t, actions)
	if act.Kind != app.ActionPovertyAccept || !act.Yes {
		t.Errorf("forced accept answered %+v", act)
	}
}

func TestAgentStopIsCooperative(t *testing.T) {
	a, _ := startAgent(t, 0)
	done := make(chan struct{})
	go func() {
		a.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop did not return")
	}
	// Notify after Stop must not block.
	a.Notify(app.Event{Kind: app.EventTurn, Payload: app.TurnPayload{Seat: 0}})
}
