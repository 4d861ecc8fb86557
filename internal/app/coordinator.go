package app

import (
	"errors"
	"fmt"
	"time"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/google/uuid"

	"doppelkopf/internal/domain"
	"doppelkopf/internal/rules"
)

// Vote choices between rounds.
const (
	VoteContinue = "continue"
	VoteAdjourn  = "adjourn"
	VoteCancel   = "cancel"
	VoteEnd      = "end"
)

// ReasonFatal marks a game ended by an unrecoverable engine failure.
const ReasonFatal = "fatal"

var (
	ErrNotVoting   = errors.New("no vote in progress")
	ErrBadVote     = errors.New("unknown vote choice")
	ErrRoundActive = errors.New("a round is still in progress")
)

// Game coordinates the sequence of rounds: seat rotation, cumulative scores,
// buck-round counters, between-round votes and adjournment.
type Game struct {
	ID        string
	Rules     *rules.Ruleset
	PlayerIDs [4]string
	CreatedAt time.Time

	RoundNumber int
	Starter     int
	Scores      [4]int

	// BuckQueue holds the remaining-round counters of triggered buck runs.
	// With buck_round = succession only the head counts down; with parallel
	// every entry counts down each round and the multipliers stack.
	BuckQueue []int

	Round *domain.Round
	// multiplier applied to the round in progress, fixed at deal time.
	roundMultiplier int

	svc    *Service
	voting bool
	votes  map[int]string

	Ended  bool
	Reason string
}

// NewGame creates a coordinator for four seated players.
func NewGame(id string, rs *rules.Ruleset, playerIDs [4]string, svc *Service) *Game {
	if id == "" {
		id = uuid.NewString()
	}
	return &Game{
		ID:          id,
		Rules:       rs,
		PlayerIDs:   playerIDs,
		CreatedAt:   time.Now().UTC(),
		RoundNumber: 1,
		svc:         svc,
		votes:       map[int]string{},
	}
}

// Service exposes the round use-cases for the transport layer.
func (g *Game) Service() *Service { return g.svc }

// buckMultiplier is the score multiplier active buck counters give the next
// round.
func (g *Game) buckMultiplier() int {
	if len(g.BuckQueue) == 0 {
		return 1
	}
	if g.Rules.String(rules.BuckRound) == "parallel" {
		return 1 << len(g.BuckQueue)
	}
	return 2
}

// consumeBucks counts the finished round against the active buck counters.
func (g *Game) consumeBucks() {
	if len(g.BuckQueue) == 0 {
		return
	}
	if g.Rules.String(rules.BuckRound) == "parallel" {
		next := g.BuckQueue[:0]
		for _, left := range g.BuckQueue {
			if left > 1 {
				next = append(next, left-1)
			}
		}
		g.BuckQueue = next
		return
	}
	g.BuckQueue[0]--
	if g.BuckQueue[0] <= 0 {
		g.BuckQueue = g.BuckQueue[1:]
	}
}

// StartRound deals the next round. The buck multiplier is fixed here.
func (g *Game) StartRound() ([]Event, error) {
	if g.Ended {
		return nil, ErrNotVoting
	}
	if g.Round != nil && g.Round.Phase != domain.PhaseEnd {
		return nil, ErrRoundActive
	}
	g.Round = domain.NewRound(uuid.NewString(), g.Rules, g.Starter)
	g.roundMultiplier = g.buckMultiplier()
	g.voting = false
	g.votes = map[int]string{}
	return g.svc.StartRound(g.Round, g.RoundNumber), nil
}

// OnRoundEnd books a finished round: scores, buck counters, rotation, and
// the between-round vote. Discarded rounds and repeat_game losses re-play
// the same dealer position.
func (g *Game) OnRoundEnd(res *domain.RoundResult) []Event {
	replay := res.GameType.Discarded()
	if !replay && g.Rules.Bool(rules.RepeatGame) && res.Value <= 0 {
		replay = true
	}

	var events []Event
	if !replay {
		for seat := 0; seat < domain.NumSeats; seat++ {
			delta := res.SeatValues[seat] * g.roundMultiplier
			g.Scores[seat] += delta
			events = append(events, broadcast(EventScoreboard, ScoreboardPayload{
				Seat:   seat,
				Total:  g.Scores[seat],
				Change: delta,
			}))
		}
		g.consumeBucks()
		if g.Rules.String(rules.BuckRound) != rules.OptNone {
			amount := g.Rules.Int(rules.BuckAmount)
			for range res.BuckTriggers {
				g.BuckQueue = append(g.BuckQueue, amount)
			}
		}
		g.RoundNumber++
		g.Starter = domain.NextSeat(g.Starter)
	}

	g.voting = true
	g.votes = map[int]string{}
	for seat := 0; seat < domain.NumSeats; seat++ {
		events = append(events, toSeat(seat, EventQuestion, QuestionPayload{
			Type: QuestionVote,
			Seat: seat,
		}))
	}
	return events
}

// Vote records one seat's between-round choice. Once all four seats voted,
// the outcome is resolved: any cancel or end terminates the game, any
// adjourn snapshots it, otherwise the next round starts.
func (g *Game) Vote(seat int, choice string) ([]Event, error) {
	if !g.voting || g.Ended {
		return nil, ErrNotVoting
	}
	switch choice {
	case VoteContinue, VoteAdjourn, VoteCancel, VoteEnd:
	default:
		return nil, ErrBadVote
	}
	g.votes[seat] = choice
	events := []Event{broadcast(EventAnnounce, AnnouncePayload{
		Seat: seat, Type: "vote", Data: choice,
	})}
	if len(g.votes) < domain.NumSeats {
		return events, nil
	}

	g.voting = false
	outcome := VoteContinue
	for _, v := range g.votes {
		switch v {
		case VoteCancel:
			outcome = VoteCancel
		case VoteEnd:
			if outcome != VoteCancel {
				outcome = VoteEnd
			}
		case VoteAdjourn:
			if outcome == VoteContinue {
				outcome = VoteAdjourn
			}
		}
	}

	switch outcome {
	case VoteCancel, VoteEnd:
		g.Ended, g.Reason = true, outcome
		return append(events, broadcast(EventGameEnd, GameEndPayload{Reason: outcome})), nil

	case VoteAdjourn:
		snapshot, err := g.Snapshot()
		if err != nil {
			return nil, err
		}
		g.Ended, g.Reason = true, VoteAdjourn
		events = append(events, broadcast(EventGameSave, GameSavePayload{
			GameID:   g.ID,
			Snapshot: snapshot,
		}))
		return append(events, broadcast(EventGameEnd, GameEndPayload{Reason: outcome})), nil
	}

	more, err := g.StartRound()
	if err != nil {
		return nil, err
	}
	return append(events, more...), nil
}

// Snapshot serialises the coordinator state (never mid-round state) as an
// opaque dictionary for later resumption.
func (g *Game) Snapshot() ([]byte, error) {
	bucks := make([]any, len(g.BuckQueue))
	for i, b := range g.BuckQueue {
		bucks[i] = b
	}
	scores := make([]any, domain.NumSeats)
	players := make([]any, domain.NumSeats)
	for i := 0; i < domain.NumSeats; i++ {
		scores[i] = g.Scores[i]
		players[i] = g.PlayerIDs[i]
	}

	// structpb rejects []string; active-rule values need widening first.
	ruleValues := map[string]any{}
	for name, v := range g.Rules.Values() {
		if list, ok := v.([]string); ok {
			widened := make([]any, len(list))
			for i, s := range list {
				widened[i] = s
			}
			ruleValues[name] = widened
			continue
		}
		ruleValues[name] = v
	}

	st, err := structpb.NewStruct(map[string]any{
		"game_id":      g.ID,
		"round_number": g.RoundNumber,
		"starter":      g.Starter,
		"scores":       scores,
		"buck_queue":   bucks,
		"players":      players,
		"rules":        ruleValues,
		"created_at":   g.CreatedAt.Format(time.RFC3339),
	})
	if err != nil {
		return nil, fmt.Errorf("snapshot: %w", err)
	}
	return protojson.Marshal(st)
}

// Resume re-hydrates an adjourned game from its snapshot.
func Resume(snapshot []byte, svc *Service) (*Game, error) {
	var st structpb.Struct
	if err := protojson.Unmarshal(snapshot, &st); err != nil {
		return nil, fmt.Errorf("resume: %w", err)
	}
	m := st.AsMap()

	ruleValues, _ := m["rules"].(map[string]any)
	g := NewGame(asString(m["game_id"]), rules.NewRuleset(ruleValues), [4]string{}, svc)
	g.RoundNumber = asInt(m["round_number"])
	if g.RoundNumber < 1 {
		g.RoundNumber = 1
	}
	g.Starter = asInt(m["starter"])

	if players, ok := m["players"].([]any); ok {
		for i := 0; i < domain.NumSeats && i < len(players); i++ {
			g.PlayerIDs[i] = asString(players[i])
		}
	}
	if scores, ok := m["scores"].([]any); ok {
		for i := 0; i < domain.NumSeats && i < len(scores); i++ {
			g.Scores[i] = asInt(scores[i])
		}
	}
	if bucks, ok := m["buck_queue"].([]any); ok {
		for _, b := range bucks {
			g.BuckQueue = append(g.BuckQueue, asInt(b))
		}
	}
	if created, err := time.Parse(time.RFC3339, asString(m["created_at"])); err == nil {
		g.CreatedAt = created
	}
	return g, nil
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func asInt(v any) int {
	f, _ := v.(float64)
	return int(f)
}
