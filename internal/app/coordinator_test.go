package app

import (
	"errors"
	"math/rand"
	"testing"

	"doppelkopf/internal/domain"
	"doppelkopf/internal/rules"
)

func newGame(rs *rules.Ruleset) *Game {
	svc := NewService(rand.New(rand.NewSource(3)))
	return NewGame("g1", rs, [4]string{"p0", "p1", "p2", "p3"}, svc)
}

// endRound puts the running round into phase end and opens the vote with the
// given result.
func endRound(t *testing.T, g *Game, res *domain.RoundResult) []Event {
	t.Helper()
	if g.Round == nil {
		if _, err := g.StartRound(); err != nil {
			t.Fatalf("start round: %v", err)
		}
	}
	g.Round.Phase = domain.PhaseEnd
	return g.OnRoundEnd(res)
}

func wonRound(seatValues [4]int) *domain.RoundResult {
	res := &domain.RoundResult{
		GameType:   domain.GameNormal,
		Winner:     domain.PartyRe,
		Value:      1,
		SeatValues: seatValues,
	}
	return res
}

func TestStartRoundGuards(t *testing.T) {
	g := newGame(rules.DefaultRuleset())
	events, err := g.StartRound()
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if len(eventsOfKind(events, EventRoundChange)) != 1 || g.Round.Phase != domain.PhaseDealing {
		t.Fatalf("first round not dealing")
	}
	if _, err := g.StartRound(); !errors.Is(err, ErrRoundActive) {
		t.Errorf("second start err = %v, want ErrRoundActive", err)
	}
}

func TestOnRoundEndBooksScoresAndRotates(t *testing.T) {
	g := newGame(rules.DefaultRuleset())
	events := endRound(t, g, wonRound([4]int{1, 1, -1, -1}))

	if g.Scores != [4]int{1, 1, -1, -1} {
		t.Errorf("scores = %v", g.Scores)
	}
	if g.RoundNumber != 2 || g.Starter != 1 {
		t.Errorf("round %d starter %d, want 2/1", g.RoundNumber, g.Starter)
	}
	if got := len(eventsOfKind(events, EventScoreboard)); got != 4 {
		t.Errorf("scoreboard events = %d, want 4", got)
	}
	questions := eventsOfKind(events, EventQuestion)
	if len(questions) != 4 {
		t.Fatalf("vote questions = %d, want 4", len(questions))
	}
	for _, ev := range questions {
		if ev.Payload.(QuestionPayload).Type != QuestionVote {
			t.Errorf("question type = %s, want vote", ev.Payload.(QuestionPayload).Type)
		}
	}
}

func TestDiscardedRoundReplaysDealer(t *testing.T) {
	g := newGame(rules.DefaultRuleset())
	endRound(t, g, &domain.RoundResult{GameType: domain.GameThrow})

	if g.RoundNumber != 1 || g.Starter != 0 {
		t.Errorf("round %d starter %d, want unchanged 1/0", g.RoundNumber, g.Starter)
	}
	if g.Scores != [4]int{} {
		t.Errorf("scores booked for a thrown round: %v", g.Scores)
	}
}

func TestRepeatGameReplaysLostRound(t *testing.T) {
	g := newGame(rules.DefaultRuleset().With(rules.RepeatGame, true))
	res := wonRound([4]int{0, 0, 0, 0})
	res.Value = 0
	res.Winner = domain.PartyNone
	endRound(t, g, res)

	if g.RoundNumber != 1 || g.Starter != 0 {
		t.Errorf("round %d starter %d, want replay", g.RoundNumber, g.Starter)
	}
}

func TestVoteOutcomes(t *testing.T) {
	tests := []struct {
		name   string
		votes  [4]string
		ended  bool
		reason string
	}{
		{"all continue", [4]string{VoteContinue, VoteContinue, VoteContinue, VoteContinue}, false, ""},
		{"cancel beats everything", [4]string{VoteContinue, VoteAdjourn, VoteEnd, VoteCancel}, true, VoteCancel},
		{"end beats adjourn", [4]string{VoteAdjourn, VoteEnd, VoteContinue, VoteContinue}, true, VoteEnd},
		{"single adjourn suffices", [4]string{VoteAdjourn, VoteContinue, VoteContinue, VoteContinue}, true, VoteAdjourn},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newGame(rules.DefaultRuleset())
			endRound(t, g, wonRound([4]int{1, 1, -1, -1}))

			var last []Event
			for seat, choice := range tt.votes {
				var err error
				last, err = g.Vote(seat, choice)
				if err != nil {
					t.Fatalf("vote seat %d: %v", seat, err)
				}
			}
			if g.Ended != tt.ended || g.Reason != tt.reason {
				t.Fatalf("ended=%v reason=%q, want %v/%q", g.Ended, g.Reason, tt.ended, tt.reason)
			}
			if !tt.ended {
				if g.Round == nil || g.Round.Phase != domain.PhaseDealing {
					t.Errorf("continue did not deal the next round")
				}
				return
			}
			ends := eventsOfKind(last, EventGameEnd)
			if len(ends) != 1 || ends[0].Payload.(GameEndPayload).Reason != tt.reason {
				t.Errorf("game end events = %v", ends)
			}
			if tt.reason == VoteAdjourn {
				saves := eventsOfKind(last, EventGameSave)
				if len(saves) != 1 || len(saves[0].Payload.(GameSavePayload).Snapshot) == 0 {
					t.Errorf("adjourn produced no snapshot")
				}
			}
		})
	}
}

func TestVoteGuards(t *testing.T) {
	g := newGame(rules.DefaultRuleset())
	if _, err := g.Vote(0, VoteContinue); !errors.Is(err, ErrNotVoting) {
		t.Errorf("vote before round end err = %v, want ErrNotVoting", err)
	}
	endRound(t, g, wonRound([4]int{1, 1, -1, -1}))
	if _, err := g.Vote(0, "maybe"); !errors.Is(err, ErrBadVote) {
		t.Errorf("bad choice err = %v, want ErrBadVote", err)
	}
}

func TestBuckMultipliers(t *testing.T) {
	t.Run("succession doubles once and counts down one run", func(t *testing.T) {
		g := newGame(rules.DefaultRuleset().With(rules.BuckRound, "succession"))
		g.BuckQueue = []int{2, 4}
		if got := g.buckMultiplier(); got != 2 {
			t.Errorf("multiplier = %d, want 2", got)
		}
		g.consumeBucks()
		if len(g.BuckQueue) != 2 || g.BuckQueue[0] != 1 {
			t.Errorf("queue = %v, want head counted down", g.BuckQueue)
		}
		g.consumeBucks()
		if len(g.BuckQueue) != 1 || g.BuckQueue[0] != 4 {
			t.Errorf("queue = %v, want head retired", g.BuckQueue)
		}
	})

	t.Run("parallel stacks and counts down together", func(t *testing.T) {
		g := newGame(rules.DefaultRuleset().With(rules.BuckRound, "parallel"))
		g.BuckQueue = []int{1, 2}
		if got := g.buckMultiplier(); got != 4 {
			t.Errorf("multiplier = %d, want 4", got)
		}
		g.consumeBucks()
		if len(g.BuckQueue) != 1 || g.BuckQueue[0] != 1 {
			t.Errorf("queue = %v, want one counter left", g.BuckQueue)
		}
	})
}

func TestBuckTriggersQueueRounds(t *testing.T) {
	rs := rules.DefaultRuleset().
		With(rules.BuckRound, "succession").
		With(rules.BuckCause, []string{"draw"}).
		With(rules.BuckAmount, 4)
	g := newGame(rs)
	res := wonRound([4]int{1, 1, -1, -1})
	res.BuckTriggers = []string{"draw"}
	endRound(t, g, res)

	if len(g.BuckQueue) != 1 || g.BuckQueue[0] != 4 {
		t.Errorf("queue = %v, want [4]", g.BuckQueue)
	}
}

func TestBuckMultiplierAppliesToBookedScores(t *testing.T) {
	g := newGame(rules.DefaultRuleset().With(rules.BuckRound, "succession"))
	g.BuckQueue = []int{4}
	if _, err := g.StartRound(); err != nil {
		t.Fatalf("start: %v", err)
	}
	g.Round.Phase = domain.PhaseEnd
	g.OnRoundEnd(wonRound([4]int{1, 1, -1, -1}))

	if g.Scores != [4]int{2, 2, -2, -2} {
		t.Errorf("scores = %v, want doubled", g.Scores)
	}
}

func TestSnapshotResume(t *testing.T) {
	rs := rules.NewRuleset(map[string]any{
		rules.BuckRound:  "succession",
		rules.Wedding:    "wish_trick",
		rules.ThrowCases: []string{"five_nines", "seven_full"},
	})
	g := newGame(rs)
	g.RoundNumber = 5
	g.Starter = 2
	g.Scores = [4]int{7, -3, 1, -5}
	g.BuckQueue = []int{2, 4}

	snapshot, err := g.Snapshot()
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}

	svc := NewService(rand.New(rand.NewSource(4)))
	resumed, err := Resume(snapshot, svc)
	if err != nil {
		t.Fatalf("resume: %v", err)
	}
	if resumed.ID != g.ID {
		t.Errorf("id = %q, want %q", resumed.ID, g.ID)
	}
	if resumed.RoundNumber != 5 || resumed.Starter != 2 {
		t.Errorf("round %d starter %d, want 5/2", resumed.RoundNumber, resumed.Starter)
	}
	if resumed.Scores != g.Scores {
		t.Errorf("scores = %v, want %v", resumed.Scores, g.Scores)
	}
	if len(resumed.BuckQueue) != 2 || resumed.BuckQueue[0] != 2 || resumed.BuckQueue[1] != 4 {
		t.Errorf("buck queue = %v, want [2 4]", resumed.BuckQueue)
	}
	if resumed.PlayerIDs != g.PlayerIDs {
		t.Errorf("players = %v, want %v", resumed.PlayerIDs, g.PlayerIDs)
	}
	if got := resumed.Rules.String(rules.Wedding); got != "wish_trick" {
		t.Errorf("wedding rule = %q, want wish_trick", got)
	}
	if got := resumed.Rules.String(rules.BuckRound); got != "succession" {
		t.Errorf("buck rule = %q, want succession", got)
	}
	// Active rules hold string lists; they must survive the struct encoding.
	cases := resumed.Rules.List(rules.ThrowCases)
	if len(cases) != 2 || cases[0] != "five_nines" || cases[1] != "seven_full" {
		t.Errorf("throw cases = %v, want [five_nines seven_full]", cases)
	}

	// A resumed game continues with a fresh round.
	if _, err := resumed.StartRound(); err != nil {
		t.Fatalf("start after resume: %v", err)
	}
	if resumed.Round.Phase != domain.PhaseDealing {
		t.Errorf("resumed round phase = %s", resumed.Round.Phase)
	}
}

func TestResumeGarbageRejected(t *testing.T) {
	svc := NewService(rand.New(rand.NewSource(4)))
	if _, err := Resume([]byte("not json"), svc); err == nil {
		t.Error("resume of garbage succeeded")
	}
}
