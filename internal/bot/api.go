package bot

import "doppelkopf/internal/app"

// Move is the decision a brain returns for a trick turn.
type Move struct {
	CardID string
}

// Brain is the interface a card-picking strategy implements.
type Brain interface {
	ChooseCard(v *View) (Move, error)
	OnEvent(ev app.Event)
}
