package app

import "doppelkopf/internal/domain"

// ActionKind tags an inbound player action.
type ActionKind string

const (
	// w_for_ready answers.
	ActionReady ActionKind = "ready"
	ActionThrow ActionKind = "throw"

	// Reservation auction answers.
	ActionReservation    ActionKind = "reservation"
	ActionSolo           ActionKind = "solo"
	ActionThrowAnswer    ActionKind = "throw_answer"
	ActionPigsAnswer     ActionKind = "pigs_answer"
	ActionSuperpigs      ActionKind = "superpigs_answer"
	ActionPovertyAnswer  ActionKind = "poverty_answer"
	ActionPovertyCards   ActionKind = "poverty_cards"
	ActionPovertyAccept  ActionKind = "poverty_accept"
	ActionPovertyReturn  ActionKind = "poverty_return"
	ActionWeddingAnswer  ActionKind = "wedding_answer"
	ActionWeddingClarify ActionKind = "wedding_clarify"

	// Trick phase.
	ActionPlayCard     ActionKind = "play_card"
	ActionAnnounce     ActionKind = "announce"
	ActionPigsCall     ActionKind = "pigs"
	ActionSuperpigCall ActionKind = "superpigs"
	ActionBlackSowSolo ActionKind = "black_sow_solo"

	// Between rounds. Routed to the game coordinator, not the round.
	ActionVote ActionKind = "vote"
)

// Announcement types for ActionAnnounce.
const (
	AnnounceRe     = "re"
	AnnounceKontra = "kontra"
	AnnounceNo90   = "no90"
	AnnounceNo60   = "no60"
	AnnounceNo30   = "no30"
	AnnounceBlack  = "black"
)

// Action is one inbound request from a seat. The fields used depend on Kind;
// unused fields stay zero.
type Action struct {
	Kind ActionKind

	// Yes answers the yes/no questions of the reservation auction.
	Yes bool
	// Game carries a solo choice (solo, black_sow_solo).
	Game domain.GameType
	// CardID names the card of a play_card action.
	CardID string
	// CardIDs names the three cards of a poverty hand-over or return.
	CardIDs []string
	// Amount is the declared trump count of a poverty return.
	Amount int
	// Announce is the announcement type of an announce action.
	Announce string
	// Wish is the wedding clarification wish.
	Wish string
	// Vote is the choice of a between-rounds vote action.
	Vote string
}
