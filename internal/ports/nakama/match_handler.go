package nakama

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/heroiclabs/nakama-common/runtime"

	"doppelkopf/internal/app"
	"doppelkopf/internal/bot"
	"doppelkopf/internal/config"
	"doppelkopf/internal/domain"
	"doppelkopf/internal/ports"
	"doppelkopf/internal/rules"
)

// tickRate gives 100ms ticks, fine enough to pace dealing and trick
// settling from the millisecond config values.
const tickRate = 10

// emptyGraceTicks is how long a match without presences stays alive.
const emptyGraceTicks = 30 * tickRate

type seatAction struct {
	seat int
	act  app.Action
}

// MatchState is the authoritative per-match state. All mutation happens on
// the match goroutine; bot agents feed their actions back through the
// botActions channel.
type MatchState struct {
	Presences map[string]runtime.Presence
	Seats     [4]string // user id per seat, "" while empty
	OwnerSeat int
	Started   bool
	Finished  bool

	Rules *rules.Ruleset
	Game  *app.Game

	Bots       map[int]*bot.Agent
	botActions chan seatAction

	// tick scheduling
	NextDealTick     int64
	SettleTick       int64
	TurnDeadlineTick int64
	LastJoinTick     int64
	EmptyTicks       int

	roundBooked bool
}

// MatchHandler implements runtime.Match for a four-seat table.
type MatchHandler struct{}

func (h *MatchHandler) MatchInit(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, params map[string]interface{}) (interface{}, int, string) {
	cfg := config.GetGameConfig()

	values := map[string]any{}
	for k, v := range cfg.DefaultRules {
		values[k] = v
	}
	if overrides, ok := params["rules"].(map[string]any); ok {
		for k, v := range overrides {
			values[k] = v
		}
	}

	state := &MatchState{
		Presences:  map[string]runtime.Presence{},
		OwnerSeat:  -1,
		Rules:      rules.NewRuleset(values),
		Bots:       map[int]*bot.Agent{},
		botActions: make(chan seatAction, 64),
	}

	label, err := matchLabel(domain.NumSeats, "lobby")
	if err != nil {
		logger.Error("match init label: %v", err)
		label = "{}"
	}
	return state, tickRate, label
}

func (h *MatchHandler) MatchJoinAttempt(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presence runtime.Presence, metadata map[string]string) (interface{}, bool, string) {
	s := state.(*MatchState)
	if s.Finished {
		return s, false, "match over"
	}
	// Rejoins keep their seat, even mid-game.
	if s.seatOf(presence.GetUserId()) >= 0 {
		return s, true, ""
	}
	if s.Started {
		return s, false, "game in progress"
	}
	if s.humanSeatFor() < 0 {
		return s, false, "match full"
	}
	return s, true, ""
}

func (h *MatchHandler) MatchJoin(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	s := state.(*MatchState)
	for _, p := range presences {
		s.Presences[p.GetUserId()] = p

		seat := s.seatOf(p.GetUserId())
		if seat < 0 {
			seat = s.humanSeatFor()
			if seat < 0 {
				continue
			}
			// Humans displace a lobby bot.
			if agent, ok := s.Bots[seat]; ok {
				agent.Stop()
				delete(s.Bots, seat)
			}
			s.Seats[seat] = p.GetUserId()
		}
		if s.OwnerSeat < 0 {
			s.OwnerSeat = seat
		}
		logger.Info("seat %d joined by %s", seat, p.GetUsername())
	}
	s.LastJoinTick = tick
	s.EmptyTicks = 0
	h.broadcastSeats(s, dispatcher, logger)
	h.updateLabel(s, dispatcher, logger)
	return s
}

func (h *MatchHandler) MatchLeave(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	s := state.(*MatchState)
	for _, p := range presences {
		delete(s.Presences, p.GetUserId())
		seat := s.seatOf(p.GetUserId())
		if seat < 0 {
			continue
		}
		if s.Started && !s.Finished {
			// Mid-game leavers are replaced by a bot so the round can finish.
			h.seatBot(s, seat, logger)
			logger.Info("seat %d left, taken over by %s", seat, s.Seats[seat])
		} else {
			s.Seats[seat] = ""
			if s.OwnerSeat == seat {
				s.OwnerSeat = s.firstHumanSeat()
			}
		}
	}
	h.broadcastSeats(s, dispatcher, logger)
	h.updateLabel(s, dispatcher, logger)
	return s
}

func (h *MatchHandler) MatchLoop(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, messages []runtime.MatchData) interface{} {
	s := state.(*MatchState)
	cfg := config.GetGameConfig()
	store := NewNakamaGameStoreAdapter(nk)

	// Actions the bot goroutines queued since the last tick.
drain:
	for {
		select {
		case sa := <-s.botActions:
			h.applyAction(s, dispatcher, store, logger, tick, sa.seat, sa.act)
		default:
			break drain
		}
	}

	for _, msg := range messages {
		seat := s.seatOf(msg.GetUserId())
		if seat < 0 {
			continue
		}
		switch msg.GetOpCode() {
		case OpGameStart:
			h.handleGameStart(s, dispatcher, store, logger, tick, seat, msg.GetData())
		case OpAnnounce, OpCardIntent:
			act, err := decodeAction(msg.GetData())
			if err != nil {
				logger.Warn("seat %d sent a malformed action: %v", seat, err)
				h.dispatch(s, dispatcher, logger, []app.Event{app.StatusEvent(seat, app.ErrUnknownAction)})
				continue
			}
			h.applyAction(s, dispatcher, store, logger, tick, seat, act)
		default:
			logger.Warn("unknown op code %d from seat %d", msg.GetOpCode(), seat)
		}
	}

	// Lobby bot fill: once a human sat down and the grace period passed, the
	// remaining seats go to bots.
	if !s.Started && s.OwnerSeat >= 0 && s.LastJoinTick > 0 &&
		tick-s.LastJoinTick >= int64(cfg.BotAutoFillDelaySeconds)*tickRate {
		filled := false
		for seat := 0; seat < domain.NumSeats; seat++ {
			if s.Seats[seat] == "" {
				h.seatBot(s, seat, logger)
				filled = true
			}
		}
		if filled {
			h.broadcastSeats(s, dispatcher, logger)
			h.updateLabel(s, dispatcher, logger)
		}
	}

	if s.Game != nil && !s.Finished {
		h.pumpGame(s, dispatcher, store, logger, tick)
	}

	// Matches with nobody in them linger briefly for reconnects.
	if len(s.Presences) == 0 {
		s.EmptyTicks++
		if s.EmptyTicks > emptyGraceTicks {
			h.stopBots(s)
			return nil
		}
	} else {
		s.EmptyTicks = 0
	}
	if s.Finished && len(s.Presences) == 0 {
		h.stopBots(s)
		return nil
	}
	return s
}

func (h *MatchHandler) MatchTerminate(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, graceSeconds int) interface{} {
	s := state.(*MatchState)
	h.stopBots(s)
	return s
}

func (h *MatchHandler) MatchSignal(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, data string) (interface{}, string) {
	return state, ""
}

// handleGameStart starts a fresh game or resumes an adjourned one. Only the
// table owner may trigger it, and only with all four seats taken.
func (h *MatchHandler) handleGameStart(s *MatchState, dispatcher runtime.MatchDispatcher, store ports.GameStorePort, logger runtime.Logger, tick int64, seat int, data []byte) {
	if seat != s.OwnerSeat || s.Started {
		h.dispatch(s, dispatcher, logger, []app.Event{app.StatusEvent(seat, app.ErrWrongPhase)})
		return
	}

	var msg startMsg
	if len(data) > 0 {
		if err := json.Unmarshal(data, &msg); err != nil {
			logger.Warn("game start payload: %v", err)
		}
	}
	for seat := 0; seat < domain.NumSeats; seat++ {
		if s.Seats[seat] == "" {
			h.seatBot(s, seat, logger)
		}
	}
	h.broadcastSeats(s, dispatcher, logger)

	svc := app.NewService(nil)
	if msg.ResumeGameID != "" {
		game, err := h.resumeGame(s, store, svc, msg.ResumeGameID)
		if err != nil {
			logger.Error("resume game %s: %v", msg.ResumeGameID, err)
			h.dispatch(s, dispatcher, logger, []app.Event{app.StatusEvent(seat, err)})
			return
		}
		s.Game = game
		s.Rules = game.Rules
	} else {
		if len(msg.Rules) > 0 {
			values := s.Rules.Values()
			for k, v := range msg.Rules {
				values[k] = v
			}
			s.Rules = rules.NewRuleset(values)
		}
		s.Game = app.NewGame("", s.Rules, s.Seats, svc)
	}

	// Bots follow the rules the table actually plays with.
	h.restartBots(s, logger)

	events, err := s.Game.StartRound()
	if err != nil {
		logger.Error("start round: %v", err)
		return
	}
	s.Started = true
	s.roundBooked = false
	s.NextDealTick = tick + 1
	h.dispatch(s, dispatcher, logger, events)
	h.updateLabel(s, dispatcher, logger)
}

// resumeGame loads the owner's adjourned snapshot and rebuilds the
// coordinator, then removes the stored game.
func (h *MatchHandler) resumeGame(s *MatchState, store ports.GameStorePort, svc *app.Service, gameID string) (*app.Game, error) {
	ownerID := s.Seats[s.OwnerSeat]
	snapshot, err := store.LoadGame(context.Background(), ownerID, gameID)
	if err != nil {
		return nil, err
	}
	game, err := app.Resume(snapshot, svc)
	if err != nil {
		return nil, err
	}
	game.PlayerIDs = s.Seats
	if err := store.DeleteGame(context.Background(), ownerID, gameID); err != nil {
		return nil, fmt.Errorf("clear adjourned game: %w", err)
	}
	return game, nil
}

// applyAction routes one action into the engine. Votes go to the game
// coordinator, everything else to the round in progress.
func (h *MatchHandler) applyAction(s *MatchState, dispatcher runtime.MatchDispatcher, store ports.GameStorePort, logger runtime.Logger, tick int64, seat int, act app.Action) {
	if s.Game == nil || s.Finished {
		h.dispatch(s, dispatcher, logger, []app.Event{app.StatusEvent(seat, app.ErrWrongPhase)})
		return
	}

	if act.Kind == app.ActionVote {
		events, err := s.Game.Vote(seat, act.Vote)
		if err != nil {
			h.dispatch(s, dispatcher, logger, []app.Event{app.StatusEvent(seat, err)})
			return
		}
		s.roundBooked = false
		s.NextDealTick = tick + 1
		// A vote outcome can carry the adjournment snapshot.
		h.dispatch2(s, dispatcher, store, logger, events)
		if s.Game.Ended {
			h.finishMatch(s, dispatcher, logger)
		}
		return
	}

	events, err := s.Game.Service().HandleAction(s.Game.Round, seat, act)
	if err != nil {
		h.dispatch(s, dispatcher, logger, []app.Event{app.StatusEvent(seat, err)})
		return
	}
	h.dispatch(s, dispatcher, logger, events)
	h.afterEngine(s, dispatcher, store, logger, tick)
}

// pumpGame advances the tick-scheduled parts of a round: dealing rotations,
// trick settling and the turn timeout.
func (h *MatchHandler) pumpGame(s *MatchState, dispatcher runtime.MatchDispatcher, store ports.GameStorePort, logger runtime.Logger, tick int64) {
	cfg := config.GetGameConfig()
	r := s.Game.Round
	if r == nil {
		return
	}

	if r.Phase == domain.PhaseDealing && s.NextDealTick > 0 && tick >= s.NextDealTick {
		events, err := s.Game.Service().DealStep(r)
		if err != nil {
			logger.Error("deal step: %v", err)
			s.NextDealTick = 0
		} else {
			h.dispatch(s, dispatcher, logger, events)
			if s.Game.Service().DealDone(r) {
				s.NextDealTick = 0
			} else {
				s.NextDealTick = tick + int64(cfg.DealIntervalMs)*tickRate/1000
			}
		}
	}

	if s.SettleTick > 0 && tick >= s.SettleTick {
		s.SettleTick = 0
		events, err := s.Game.Service().SettleTrick(r)
		if err != nil {
			logger.Error("settle trick: %v", err)
		} else {
			h.dispatch(s, dispatcher, logger, events)
		}
		h.afterEngine(s, dispatcher, store, logger, tick)
	}

	if s.TurnDeadlineTick > 0 && tick >= s.TurnDeadlineTick && r.Phase == domain.PhaseTricks {
		s.TurnDeadlineTick = 0
		h.forcePlay(s, dispatcher, store, logger, tick, r)
	}
}

// afterEngine inspects the round after engine calls: schedules the settle
// delay on a full trick, books a finished round with the coordinator, and
// reacts to a finished game.
func (h *MatchHandler) afterEngine(s *MatchState, dispatcher runtime.MatchDispatcher, store ports.GameStorePort, logger runtime.Logger, tick int64) {
	cfg := config.GetGameConfig()
	r := s.Game.Round
	if r == nil {
		return
	}

	if r.Phase == domain.PhaseTricks && s.Game.Service().TrickComplete(r) && s.SettleTick == 0 {
		s.SettleTick = tick + int64(cfg.TrickSettleDelayMs)*tickRate/1000
		s.TurnDeadlineTick = 0
	} else if r.Phase == domain.PhaseTricks {
		s.TurnDeadlineTick = tick + int64(cfg.TurnDurationSeconds)*tickRate
	}

	if r.Phase == domain.PhaseCounting {
		events, res, err := s.Game.Service().FinishRound(r)
		if err != nil {
			// An invariant violation is unrecoverable; the game ends as
			// cancelled rather than sticking in counting.
			logger.Error("finish round: %v", err)
			h.failGame(s, dispatcher, logger)
			return
		}
		h.dispatch(s, dispatcher, logger, events)
		h.bookRound(s, dispatcher, store, logger, res)
		return
	}

	// Thrown and unsold-poverty rounds skip counting and end directly.
	if r.Phase == domain.PhaseEnd && !s.roundBooked {
		h.bookRound(s, dispatcher, store, logger, domain.ScoreRound(r))
	}
}

func (h *MatchHandler) bookRound(s *MatchState, dispatcher runtime.MatchDispatcher, store ports.GameStorePort, logger runtime.Logger, res *domain.RoundResult) {
	s.roundBooked = true
	s.TurnDeadlineTick = 0
	events := s.Game.OnRoundEnd(res)
	h.dispatch2(s, dispatcher, store, logger, events)
	if s.Game.Ended {
		h.finishMatch(s, dispatcher, logger)
	}
}

// finishMatch winds the table down once the coordinator reports the game over.
func (h *MatchHandler) finishMatch(s *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	s.Finished = true
	h.stopBots(s)
	h.updateLabel(s, dispatcher, logger)
}

// failGame cancels a game after an unrecoverable engine failure.
func (h *MatchHandler) failGame(s *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	s.Game.Ended = true
	s.Game.Reason = app.ReasonFatal
	h.dispatch(s, dispatcher, logger, []app.Event{
		{Kind: app.EventGameEnd, Payload: app.GameEndPayload{Reason: app.ReasonFatal}},
	})
	h.finishMatch(s, dispatcher, logger)
}

// forcePlay plays the lowest legal card for a seat that ran out its turn
// clock.
func (h *MatchHandler) forcePlay(s *MatchState, dispatcher runtime.MatchDispatcher, store ports.GameStorePort, logger runtime.Logger, tick int64, r *domain.Round) {
	seat := r.CurrentSeat
	hand := r.Hand(seat)
	legal := hand
	if len(r.Trick) > 0 && r.Scheme.HasLeadColor(hand, r.Trick[0].Card) {
		legal = nil
		for _, c := range hand {
			if r.Scheme.MatchesLead(c, r.Trick[0].Card) {
				legal = append(legal, c)
			}
		}
	}
	if len(legal) == 0 {
		return
	}
	card := legal[0]
	for _, c := range legal[1:] {
		if r.Scheme.TrickRank(c, r.Rules, r.PigsCalled, r.SuperpigsCalled) <
			r.Scheme.TrickRank(card, r.Rules, r.PigsCalled, r.SuperpigsCalled) {
			card = c
		}
	}
	logger.Info("seat %d timed out, playing %s", seat, card.ID)
	h.applyAction(s, dispatcher, store, logger, tick, seat, app.Action{Kind: app.ActionPlayCard, CardID: card.ID})
}

// dispatch sends engine events to clients and bot agents. Card transfers are
// masked per seat according to their visibility.
func (h *MatchHandler) dispatch(s *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, events []app.Event) {
	for _, ev := range events {
		op, ok := eventOpcode(ev.Kind)
		if !ok {
			logger.Warn("event without op code: %s", ev.Kind)
			continue
		}

		// With open_cards every hand is public and nothing gets masked.
		if ct, isTransfer := ev.Payload.(app.CardTransferPayload); isTransfer &&
			ct.VisibleTo != nil && !s.Rules.Bool(rules.OpenCards) {
			h.sendMaskedTransfer(s, dispatcher, logger, ev, ct)
			continue
		}

		payload := ev.Payload
		if ct, isTransfer := ev.Payload.(app.CardTransferPayload); isTransfer {
			payload = cardTransferWire(ct, true)
		}
		if gs, isSave := ev.Payload.(app.GameSavePayload); isSave {
			// Clients get the resume handle, never the raw snapshot.
			payload = map[string]string{"game_id": gs.GameID}
		}
		data, err := json.Marshal(payload)
		if err != nil {
			logger.Error("marshal %s event: %v", ev.Kind, err)
			continue
		}

		recipients := h.recipients(s, ev.Seats)
		// Targeted events must never fall back to a broadcast.
		if len(ev.Seats) > 0 && len(recipients) == 0 {
			h.notifyBots(s, ev)
			continue
		}
		if err := dispatcher.BroadcastMessage(op, data, recipients, nil, true); err != nil {
			logger.Error("broadcast %s: %v", ev.Kind, err)
		}
		h.notifyBots(s, ev)
	}
}

// dispatch2 additionally persists adjournment snapshots; it is used on paths
// where a game.save event can occur.
func (h *MatchHandler) dispatch2(s *MatchState, dispatcher runtime.MatchDispatcher, store ports.GameStorePort, logger runtime.Logger, events []app.Event) {
	for _, ev := range events {
		if gs, ok := ev.Payload.(app.GameSavePayload); ok && ev.Kind == app.EventGameSave {
			ownerID := s.Seats[s.OwnerSeat]
			if err := store.SaveGame(context.Background(), ownerID, gs.GameID, gs.Snapshot); err != nil {
				logger.Error("save adjourned game: %v", err)
			}
		}
	}
	h.dispatch(s, dispatcher, logger, events)
}

// sendMaskedTransfer sends a revealed copy to the seats listed in VisibleTo
// and an id-only copy to everyone else.
func (h *MatchHandler) sendMaskedTransfer(s *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, ev app.Event, ct app.CardTransferPayload) {
	var revealed, hidden []runtime.Presence
	for seat := 0; seat < domain.NumSeats; seat++ {
		p, ok := s.Presences[s.Seats[seat]]
		if !ok {
			continue
		}
		if seatRevealed(ct, seat) {
			revealed = append(revealed, p)
		} else {
			hidden = append(hidden, p)
		}
	}
	if len(revealed) > 0 {
		data, err := json.Marshal(cardTransferWire(ct, true))
		if err != nil {
			logger.Error("marshal card transfer: %v", err)
			return
		}
		if err := dispatcher.BroadcastMessage(OpCardTransfer, data, revealed, nil, true); err != nil {
			logger.Error("broadcast card transfer: %v", err)
		}
	}
	if len(hidden) > 0 {
		data, err := json.Marshal(cardTransferWire(ct, false))
		if err != nil {
			logger.Error("marshal card transfer: %v", err)
			return
		}
		if err := dispatcher.BroadcastMessage(OpCardTransfer, data, hidden, nil, true); err != nil {
			logger.Error("broadcast card transfer: %v", err)
		}
	}

	// Bot views only ever consume transfers they are allowed to see in full.
	for seat, agent := range s.Bots {
		if seatRevealed(ct, seat) {
			agent.Notify(ev)
		}
	}
}

func (h *MatchHandler) notifyBots(s *MatchState, ev app.Event) {
	for seat, agent := range s.Bots {
		if len(ev.Seats) > 0 && !seatListed(ev.Seats, seat) {
			continue
		}
		agent.Notify(ev)
	}
}

func (h *MatchHandler) recipients(s *MatchState, seats []int) []runtime.Presence {
	if len(seats) == 0 {
		all := make([]runtime.Presence, 0, len(s.Presences))
		for _, p := range s.Presences {
			all = append(all, p)
		}
		return all
	}
	var out []runtime.Presence
	for _, seat := range seats {
		if seat < 0 || seat >= domain.NumSeats {
			continue
		}
		if p, ok := s.Presences[s.Seats[seat]]; ok {
			out = append(out, p)
		}
	}
	return out
}

// seatBot puts a bot identity on a seat and starts its agent.
func (h *MatchHandler) seatBot(s *MatchState, seat int, logger runtime.Logger) {
	if agent, ok := s.Bots[seat]; ok {
		agent.Stop()
	}
	identity := bot.GetBotIdentity(seat)
	s.Seats[seat] = identity.UserID
	agent := bot.NewAgent(seat, s.Rules, identity, func(seat int, act app.Action) {
		s.botActions <- seatAction{seat: seat, act: act}
	})
	s.Bots[seat] = agent
	agent.Start()
	logger.Debug("bot %s seated at %d", identity.Username, seat)
}

// restartBots rebuilds the bot agents against the final ruleset of the game
// about to start.
func (h *MatchHandler) restartBots(s *MatchState, logger runtime.Logger) {
	for seat, agent := range s.Bots {
		agent.Stop()
		delete(s.Bots, seat)
		h.seatBot(s, seat, logger)
	}
}

func (h *MatchHandler) stopBots(s *MatchState) {
	for seat, agent := range s.Bots {
		agent.Stop()
		delete(s.Bots, seat)
	}
}

type wireSeat struct {
	Seat     int    `json:"seat"`
	UserID   string `json:"user_id,omitempty"`
	Username string `json:"username,omitempty"`
	Bot      bool   `json:"bot,omitempty"`
	Owner    bool   `json:"owner,omitempty"`
}

// broadcastSeats sends the current roster to every client.
func (h *MatchHandler) broadcastSeats(s *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	roster := make([]wireSeat, domain.NumSeats)
	for seat := 0; seat < domain.NumSeats; seat++ {
		ws := wireSeat{Seat: seat, UserID: s.Seats[seat], Owner: seat == s.OwnerSeat}
		if p, ok := s.Presences[s.Seats[seat]]; ok {
			ws.Username = p.GetUsername()
		} else if bot.IsBot(s.Seats[seat]) {
			ws.Username = bot.GetBotUsername(s.Seats[seat])
			ws.Bot = true
		}
		roster[seat] = ws
	}
	data, err := json.Marshal(roster)
	if err != nil {
		logger.Error("marshal roster: %v", err)
		return
	}
	if err := dispatcher.BroadcastMessage(OpSeats, data, nil, nil, true); err != nil {
		logger.Error("broadcast roster: %v", err)
	}
}

func (h *MatchHandler) updateLabel(s *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	open := 0
	phase := "lobby"
	if s.Started {
		phase = "playing"
	}
	if s.Finished {
		phase = "done"
	}
	if !s.Started {
		for _, id := range s.Seats {
			if id == "" || bot.IsBot(id) {
				open++
			}
		}
	}
	label, err := matchLabel(open, phase)
	if err != nil {
		logger.Error("build label: %v", err)
		return
	}
	if err := dispatcher.MatchLabelUpdate(label); err != nil {
		logger.Error("update label: %v", err)
	}
}

func (s *MatchState) seatOf(userID string) int {
	if userID == "" {
		return -1
	}
	for seat, id := range s.Seats {
		if id == userID {
			return seat
		}
	}
	return -1
}

// humanSeatFor returns the seat a new human should take: an empty one first,
// otherwise a lobby bot's.
func (s *MatchState) humanSeatFor() int {
	for seat, id := range s.Seats {
		if id == "" {
			return seat
		}
	}
	for seat, id := range s.Seats {
		if bot.IsBot(id) {
			return seat
		}
	}
	return -1
}

func (s *MatchState) firstHumanSeat() int {
	for seat, id := range s.Seats {
		if id != "" && !bot.IsBot(id) {
			return seat
		}
	}
	return -1
}

func seatListed(seats []int, seat int) bool {
	for _, s := range seats {
		if s == seat {
			return true
		}
	}
	return false
}
