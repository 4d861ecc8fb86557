package app

import "doppelkopf/internal/domain"

// EventKind identifies emitted engine events for dispatch over the wire.
type EventKind string

const (
	EventCardTransfer  EventKind = "card.transfer"
	EventQuestion      EventKind = "question"
	EventAnnounce      EventKind = "announce"
	EventTurn          EventKind = "turn"
	EventScoreboard    EventKind = "scoreboard"
	EventRoundChange   EventKind = "round.change"
	EventGameEnd       EventKind = "game.end"
	EventGameSave      EventKind = "game.save"
	EventStatusMessage EventKind = "status.message"
)

// Event is an engine event with optional targeted recipients.
type Event struct {
	Kind    EventKind
	Payload any
	Seats   []int // seat numbers; empty means broadcast
}

// CardTransferPayload is an atomic card move between slots. VisibleTo lists
// the seats allowed to see colour and face; the transport masks the card for
// everyone else. Nil VisibleTo means the move is public.
type CardTransferPayload struct {
	Card      domain.Card `json:"card"`
	From      domain.Slot `json:"from"`
	To        domain.Slot `json:"to"`
	VisibleTo []int       `json:"-"`
}

// Question kinds asked over the protocol.
const (
	QuestionReady          = "ready"
	QuestionReservation    = "reservation"
	QuestionSolo           = "solo"
	QuestionThrow          = "throw"
	QuestionPigs           = "pigs"
	QuestionSuperpigs      = "superpigs"
	QuestionPoverty        = "poverty"
	QuestionPovertyCards   = "poverty_cards"
	QuestionPovertyAccept  = "poverty_accept"
	QuestionPovertyReturn  = "poverty_return"
	QuestionWedding        = "wedding"
	QuestionWeddingClarify = "wedding_clarify"
	QuestionBlackSowSolo   = "black_sow_solo"
	QuestionVote           = "vote"
)

// QuestionPayload requests an answer from one seat. It is sent to that seat
// only.
type QuestionPayload struct {
	Type string `json:"type"`
	Seat int    `json:"seat"`
	// Data carries question context, e.g. the revealed poverty cards in
	// circulate mode.
	Data map[string]any `json:"data,omitempty"`
}

// AnnouncePayload broadcasts an accepted announcement.
type AnnouncePayload struct {
	Seat int    `json:"seat"`
	Type string `json:"type"`
	Data string `json:"data,omitempty"`
}

// TurnPayload advances the turn indicator.
type TurnPayload struct {
	Trick     int `json:"trick"`
	MaxTricks int `json:"max_tricks"`
	Seat      int `json:"seat"`
}

// ScoreboardPayload carries one seat's cumulative eyes (during a round) or
// points (between rounds) together with the delta that caused the update.
type ScoreboardPayload struct {
	Seat   int `json:"seat"`
	Total  int `json:"total"`
	Change int `json:"change"`
}

// RoundChangePayload is the batched state delta sent at phase transitions.
type RoundChangePayload struct {
	Phase            domain.Phase        `json:"phase"`
	GameType         domain.GameType     `json:"game_type"`
	RoundNumber      int                 `json:"round_number"`
	WeddingFindTrick int                 `json:"wedding_find_trick,omitempty"`
	Result           *domain.RoundResult `json:"result,omitempty"`
}

// GameEndPayload tells clients the game is over and why.
type GameEndPayload struct {
	Reason string `json:"reason"` // end, cancel, fatal
}

// GameSavePayload carries the opaque adjournment snapshot.
type GameSavePayload struct {
	GameID   string `json:"game_id"`
	Snapshot []byte `json:"snapshot"`
}

// Status severities.
const (
	StatusWarn  = "warn"
	StatusError = "error"
	StatusInfo  = "info"
)

// StatusMessagePayload is a localisable status or error notification.
type StatusMessagePayload struct {
	Severity string         `json:"severity"`
	Key      string         `json:"key"`
	Data     map[string]any `json:"data,omitempty"`
}

func broadcast(kind EventKind, payload any) Event {
	return Event{Kind: kind, Payload: payload}
}

func toSeat(seat int, kind EventKind, payload any) Event {
	return Event{Kind: kind, Payload: payload, Seats: []int{seat}}
}
