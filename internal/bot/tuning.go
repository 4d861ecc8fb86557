package bot

import "time"

// Search limits. Depth counts completed tricks, not plies.
const (
	MaxDepth           = 2
	MaxBranches        = 4
	BranchMinThreshold = 0.1

	// AlgoTimeout caps the wall clock of one search; the best move found so
	// far is played when it runs out. MinTime paces the reply so the bot
	// never answers instantly.
	AlgoTimeout = 7 * time.Second
	MinTime     = time.Second
)

// Tuning weights the importance ordering used to pick which moves a search
// node expands.
type Tuning struct {
	EyesWeight  float64 // eyes the card would add to the trick
	WinWeight   float64 // card currently takes the trick
	SpareWeight float64 // keeping high trumps back
}

// DefaultTuning favours taking fat tricks over holding trumps.
var DefaultTuning = Tuning{
	EyesWeight:  1.0,
	WinWeight:   8.0,
	SpareWeight: 0.25,
}
