package nakama

import (
	"encoding/json"
	"fmt"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"doppelkopf/internal/app"
	"doppelkopf/internal/domain"
)

// actionMsg is the JSON body of OpAnnounce and OpCardIntent messages. Type
// names the engine action; the other fields are read per action kind.
type actionMsg struct {
	Type     string   `json:"type"`
	Yes      bool     `json:"yes,omitempty"`
	Game     string   `json:"game,omitempty"`
	CardID   string   `json:"card_id,omitempty"`
	CardIDs  []string `json:"card_ids,omitempty"`
	Amount   int      `json:"amount,omitempty"`
	Announce string   `json:"announce,omitempty"`
	Wish     string   `json:"wish,omitempty"`
	Vote     string   `json:"vote,omitempty"`
}

func decodeAction(data []byte) (app.Action, error) {
	var m actionMsg
	if err := json.Unmarshal(data, &m); err != nil {
		return app.Action{}, fmt.Errorf("decode action: %w", err)
	}
	if m.Type == "" {
		return app.Action{}, fmt.Errorf("decode action: missing type")
	}
	return app.Action{
		Kind:     app.ActionKind(m.Type),
		Yes:      m.Yes,
		Game:     domain.GameType(m.Game),
		CardID:   m.CardID,
		CardIDs:  m.CardIDs,
		Amount:   m.Amount,
		Announce: m.Announce,
		Wish:     m.Wish,
		Vote:     m.Vote,
	}, nil
}

// startMsg is the JSON body of OpGameStart.
type startMsg struct {
	// Rules overrides individual gamerules for the new game.
	Rules map[string]any `json:"rules,omitempty"`
	// ResumeGameID resumes an adjourned game instead of starting fresh.
	ResumeGameID string `json:"resume_game_id,omitempty"`
}

// wireCard is a card on the wire. Hidden cards carry only their id.
type wireCard struct {
	ID     string `json:"id"`
	Color  string `json:"color,omitempty"`
	Face   string `json:"face,omitempty"`
	Hidden bool   `json:"hidden,omitempty"`
}

type wireCardTransfer struct {
	Card wireCard `json:"card"`
	From string   `json:"from"`
	To   string   `json:"to"`
}

func cardTransferWire(p app.CardTransferPayload, revealed bool) wireCardTransfer {
	w := wireCardTransfer{
		Card: wireCard{ID: p.Card.ID, Hidden: !revealed},
		From: string(p.From),
		To:   string(p.To),
	}
	if revealed {
		w.Card.Color = p.Card.Color.String()
		w.Card.Face = p.Card.Face.String()
		w.Card.Hidden = false
	}
	return w
}

// seatRevealed reports whether a seat may see the card of a transfer.
func seatRevealed(p app.CardTransferPayload, seat int) bool {
	if p.VisibleTo == nil {
		return true
	}
	for _, s := range p.VisibleTo {
		if s == seat {
			return true
		}
	}
	return false
}

func eventOpcode(kind app.EventKind) (int64, bool) {
	switch kind {
	case app.EventCardTransfer:
		return OpCardTransfer, true
	case app.EventQuestion:
		return OpQuestion, true
	case app.EventAnnounce:
		return OpAnnounceEvent, true
	case app.EventTurn:
		return OpTurn, true
	case app.EventScoreboard:
		return OpScoreboard, true
	case app.EventRoundChange:
		return OpRoundChange, true
	case app.EventGameEnd:
		return OpGameEnd, true
	case app.EventGameSave:
		return OpGameSave, true
	case app.EventStatusMessage:
		return OpStatusMessage, true
	}
	return 0, false
}

// matchLabel builds the protojson label the quick_match query filters on.
func matchLabel(open int, phase string) (string, error) {
	s, err := structpb.NewStruct(map[string]any{
		"game":  "doppelkopf",
		"open":  float64(open),
		"phase": phase,
	})
	if err != nil {
		return "", fmt.Errorf("build match label: %w", err)
	}
	b, err := protojson.Marshal(s)
	if err != nil {
		return "", fmt.Errorf("marshal match label: %w", err)
	}
	return string(b), nil
}
