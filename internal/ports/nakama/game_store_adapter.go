package nakama

import (
	"context"
	"fmt"

	"github.com/heroiclabs/nakama-common/runtime"

	"doppelkopf/internal/ports"
)

const adjournedCollection = "adjourned_games"

// NakamaGameStoreAdapter implements ports.GameStorePort on the Nakama
// storage engine. Snapshots live in the adjourning owner's storage.
type NakamaGameStoreAdapter struct {
	nk runtime.NakamaModule
}

var _ ports.GameStorePort = (*NakamaGameStoreAdapter)(nil)

func NewNakamaGameStoreAdapter(nk runtime.NakamaModule) *NakamaGameStoreAdapter {
	return &NakamaGameStoreAdapter{nk: nk}
}

func (a *NakamaGameStoreAdapter) SaveGame(ctx context.Context, ownerID, gameID string, snapshot []byte) error {
	_, err := a.nk.StorageWrite(ctx, []*runtime.StorageWrite{{
		Collection:      adjournedCollection,
		Key:             gameID,
		UserID:          ownerID,
		Value:           string(snapshot),
		PermissionRead:  1, // owner only
		PermissionWrite: 0,
	}})
	if err != nil {
		return fmt.Errorf("save adjourned game %s: %w", gameID, err)
	}
	return nil
}

func (a *NakamaGameStoreAdapter) LoadGame(ctx context.Context, ownerID, gameID string) ([]byte, error) {
	objs, err := a.nk.StorageRead(ctx, []*runtime.StorageRead{{
		Collection: adjournedCollection,
		Key:        gameID,
		UserID:     ownerID,
	}})
	if err != nil {
		return nil, fmt.Errorf("load adjourned game %s: %w", gameID, err)
	}
	if len(objs) == 0 {
		return nil, fmt.Errorf("adjourned game %s not found", gameID)
	}
	return []byte(objs[0].GetValue()), nil
}

func (a *NakamaGameStoreAdapter) DeleteGame(ctx context.Context, ownerID, gameID string) error {
	err := a.nk.StorageDelete(ctx, []*runtime.StorageDelete{{
		Collection: adjournedCollection,
		Key:        gameID,
		UserID:     ownerID,
	}})
	if err != nil {
		return fmt.Errorf("delete adjourned game %s: %w", gameID, err)
	}
	return nil
}
