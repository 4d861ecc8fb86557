package nakama

const (
	// RpcQuickMatch is the Nakama RPC id clients call to find or create an
	// open table.
	RpcQuickMatch = "quick_match"
	// RpcGamerules returns the gamerule registry export so clients render
	// the same options and requirements the server validates against.
	RpcGamerules = "gamerules"

	// MatchNameDoppelkopf is the authoritative match handler name
	// registered with Nakama.
	MatchNameDoppelkopf = "doppelkopf_match"
)

// Op codes for client messages and server events. Payloads are JSON.
const (
	// Client -> Server
	OpGameStart  int64 = 1 // owner starts (or resumes) the game
	OpAnnounce   int64 = 2 // question answers, announcements, votes
	OpCardIntent int64 = 3 // card plays and poverty card picks

	// Server -> Client
	OpCardTransfer  int64 = 101
	OpQuestion      int64 = 102
	OpAnnounceEvent int64 = 103
	OpTurn          int64 = 104
	OpScoreboard    int64 = 105
	OpRoundChange   int64 = 106
	OpGameEnd       int64 = 107
	OpGameSave      int64 = 108
	OpStatusMessage int64 = 109
	OpSeats         int64 = 110 // lobby roster updates
)
