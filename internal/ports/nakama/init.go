package nakama

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/heroiclabs/nakama-common/runtime"

	"doppelkopf/internal/bot"
	"doppelkopf/internal/config"
)

// InitModule wires the plugin into the Nakama runtime: configuration, bot
// identities, RPCs and the authoritative match handler.
func InitModule(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, initializer runtime.Initializer) error {
	env, _ := ctx.Value(runtime.RUNTIME_CTX_ENV).(map[string]string)

	if path := env["game_config_path"]; path != "" {
		if err := config.LoadGameConfig(path); err != nil {
			logger.Warn("game config %s not loaded, using defaults: %v", path, err)
		}
	}
	if path := env["bot_identities_path"]; path != "" {
		if err := bot.LoadIdentities(path); err != nil {
			logger.Warn("bot identities %s not loaded, using fallbacks: %v", path, err)
		}
	}
	if err := bot.ProvisionBots(ctx, nk, logger); err != nil {
		return fmt.Errorf("provision bots: %w", err)
	}

	if err := initializer.RegisterRpc(RpcQuickMatch, RpcQuickMatchFn); err != nil {
		return fmt.Errorf("register rpc %s: %w", RpcQuickMatch, err)
	}
	if err := initializer.RegisterRpc(RpcGamerules, RpcGamerulesFn); err != nil {
		return fmt.Errorf("register rpc %s: %w", RpcGamerules, err)
	}

	err := initializer.RegisterMatch(MatchNameDoppelkopf, func(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule) (runtime.Match, error) {
		return &MatchHandler{}, nil
	})
	if err != nil {
		return fmt.Errorf("register match %s: %w", MatchNameDoppelkopf, err)
	}

	logger.Info("doppelkopf module loaded")
	return nil
}
