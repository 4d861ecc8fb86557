package app

import (
	"math/rand"
	"testing"

	"doppelkopf/internal/domain"
	"doppelkopf/internal/rules"
)

// legalCard returns some card the current seat may play.
func legalCard(r *domain.Round) domain.Card {
	hand := r.Hand(r.CurrentSeat)
	if len(r.Trick) > 0 && r.Scheme.HasLeadColor(hand, r.Trick[0].Card) {
		for _, card := range hand {
			if r.Scheme.MatchesLead(card, r.Trick[0].Card) {
				return card
			}
		}
	}
	return hand[0]
}

// playRoundOut drives a round from the trick phase into counting, every seat
// playing some legal card.
func playRoundOut(t *testing.T, svc *Service, r *domain.Round) {
	t.Helper()
	for r.Phase == domain.PhaseTricks {
		if svc.TrickComplete(r) {
			if _, err := svc.SettleTrick(r); err != nil {
				t.Fatalf("settle trick %d: %v", r.TrickNum, err)
			}
			continue
		}
		card := legalCard(r)
		if _, err := svc.HandleAction(r, r.CurrentSeat, Action{Kind: ActionPlayCard, CardID: card.ID}); err != nil {
			t.Fatalf("trick %d seat %d plays %s: %v", r.TrickNum, r.CurrentSeat, card, err)
		}
	}
	if r.Phase != domain.PhaseCounting {
		t.Fatalf("round left trick phase into %s", r.Phase)
	}
}

// runAuction answers every auction question with no, ending in a normal game
// (or a silent wedding, depending on the deal).
func runAuction(t *testing.T, svc *Service, r *domain.Round) {
	t.Helper()
	for seat := 0; seat < domain.NumSeats; seat++ {
		if _, err := svc.HandleAction(r, seat, Action{Kind: ActionReady}); err != nil {
			t.Fatalf("ready seat %d: %v", seat, err)
		}
	}
	order := askOrder(r)
	for i := 0; r.Phase == domain.PhaseReservations && i < domain.NumSeats; i++ {
		if _, err := svc.HandleAction(r, order[i], Action{Kind: ActionReservation, Yes: false}); err != nil {
			t.Fatalf("reservation seat %d: %v", order[i], err)
		}
	}
}

func TestFullRoundEndToEnd(t *testing.T) {
	rs := rules.DefaultRuleset()
	svc, r := dealtService(t, rs)
	runAuction(t, svc, r)
	if r.Phase != domain.PhaseTricks {
		t.Fatalf("auction ended in %s", r.Phase)
	}
	playRoundOut(t, svc, r)

	events, res, err := svc.FinishRound(r)
	if err != nil {
		t.Fatalf("finish round: %v", err)
	}
	if res.ReEyes+res.KontraEyes != 240 {
		t.Errorf("eyes sum to %d, want 240", res.ReEyes+res.KontraEyes)
	}
	if res.Winner == domain.PartyNone {
		t.Errorf("unannounced round ended in a draw: %+v", res)
	}
	wantWinner := domain.PartyKontra
	if res.ReEyes >= 121 {
		wantWinner = domain.PartyRe
	}
	if res.Winner != wantWinner {
		t.Errorf("winner = %s with re eyes %d, want %s", res.Winner, res.ReEyes, wantWinner)
	}
	sum := 0
	for _, v := range res.SeatValues {
		sum += v
	}
	if sum != 0 {
		t.Errorf("seat values %v sum to %d, want zero-sum", res.SeatValues, sum)
	}

	rc := eventsOfKind(events, EventRoundChange)
	if len(rc) != 1 {
		t.Fatalf("round change events = %d, want 1", len(rc))
	}
	final := rc[0].Payload.(RoundChangePayload)
	if final.Phase != domain.PhaseEnd || final.Result == nil {
		t.Errorf("final round change = %+v, want end with result", final)
	}
	if err := r.CheckInvariants(); err != nil {
		t.Errorf("invariants after round: %v", err)
	}
}

func TestFullGameTwoRoundsWithVotes(t *testing.T) {
	rs := rules.DefaultRuleset()
	svc := NewService(rand.New(rand.NewSource(11)))
	g := NewGame("g1", rs, [4]string{"p0", "p1", "p2", "p3"}, svc)

	playOneRound := func() *domain.RoundResult {
		t.Helper()
		for !svc.DealDone(g.Round) {
			if _, err := svc.DealStep(g.Round); err != nil {
				t.Fatalf("deal: %v", err)
			}
		}
		runAuction(t, svc, g.Round)
		playRoundOut(t, svc, g.Round)
		_, res, err := svc.FinishRound(g.Round)
		if err != nil {
			t.Fatalf("finish: %v", err)
		}
		return res
	}

	if _, err := g.StartRound(); err != nil {
		t.Fatalf("start round 1: %v", err)
	}
	res := playOneRound()
	g.OnRoundEnd(res)

	for seat := 0; seat < domain.NumSeats; seat++ {
		if _, err := g.Vote(seat, VoteContinue); err != nil {
			t.Fatalf("vote continue seat %d: %v", seat, err)
		}
	}
	if g.RoundNumber != 2 || g.Starter != 1 {
		t.Fatalf("round %d starter %d after continue, want 2/1", g.RoundNumber, g.Starter)
	}
	if g.Round.Phase != domain.PhaseDealing {
		t.Fatalf("next round not dealing")
	}

	res = playOneRound()
	g.OnRoundEnd(res)

	var last []Event
	for seat := 0; seat < domain.NumSeats; seat++ {
		var err error
		last, err = g.Vote(seat, VoteEnd)
		if err != nil {
			t.Fatalf("vote end seat %d: %v", seat, err)
		}
	}
	if !g.Ended || g.Reason != VoteEnd {
		t.Errorf("game ended=%v reason=%q, want end", g.Ended, g.Reason)
	}
	if len(eventsOfKind(last, EventGameEnd)) != 1 {
		t.Errorf("missing game end event")
	}

	total := 0
	for _, s := range g.Scores {
		total += s
	}
	if total != 0 {
		t.Errorf("cumulative scores %v sum to %d, want zero-sum", g.Scores, total)
	}
}

func TestAdjournedGameResumesWithScores(t *testing.T) {
	rs := rules.DefaultRuleset()
	svc := NewService(rand.New(rand.NewSource(13)))
	g := NewGame("g1", rs, [4]string{"p0", "p1", "p2", "p3"}, svc)

	if _, err := g.StartRound(); err != nil {
		t.Fatalf("start: %v", err)
	}
	g.Round.Phase = domain.PhaseEnd
	g.OnRoundEnd(&domain.RoundResult{
		GameType:   domain.GameNormal,
		Winner:     domain.PartyRe,
		Value:      2,
		SeatValues: [4]int{2, 2, -2, -2},
	})

	var snapshot []byte
	votes := []string{VoteAdjourn, VoteContinue, VoteContinue, VoteContinue}
	for seat, choice := range votes {
		events, err := g.Vote(seat, choice)
		if err != nil {
			t.Fatalf("vote: %v", err)
		}
		for _, ev := range eventsOfKind(events, EventGameSave) {
			snapshot = ev.Payload.(GameSavePayload).Snapshot
		}
	}
	if len(snapshot) == 0 {
		t.Fatal("no snapshot emitted on adjourn")
	}

	resumed, err := Resume(snapshot, NewService(rand.New(rand.NewSource(14))))
	if err != nil {
		t.Fatalf("resume: %v", err)
	}
	if resumed.Scores != [4]int{2, 2, -2, -2} {
		t.Errorf("resumed scores = %v", resumed.Scores)
	}
	if resumed.RoundNumber != 2 || resumed.Starter != 1 {
		t.Errorf("resumed round %d starter %d, want 2/1", resumed.RoundNumber, resumed.Starter)
	}
}
