package ports

import "context"

// GameStorePort persists adjourned games so a table can resume them later.
type GameStorePort interface {
	// SaveGame stores a snapshot under the owner's account.
	SaveGame(ctx context.Context, ownerID, gameID string, snapshot []byte) error
	// LoadGame returns the stored snapshot.
	LoadGame(ctx context.Context, ownerID, gameID string) ([]byte, error)
	// DeleteGame removes a snapshot after a successful resume.
	DeleteGame(ctx context.Context, ownerID, gameID string) error
}
