package nakama

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/heroiclabs/nakama-common/runtime"

	"doppelkopf/internal/rules"
)

// lobbyQuery finds open authoritative matches still gathering players.
const lobbyQuery = "+label.game:doppelkopf +label.phase:lobby +label.open:>0"

type quickMatchRequest struct {
	// Rules seeds the table's gamerules when a new match is created.
	Rules map[string]any `json:"rules,omitempty"`
}

type quickMatchResponse struct {
	MatchID string `json:"match_id"`
	Created bool   `json:"created"`
}

// RpcQuickMatchFn joins the caller to an open table, creating one when none
// is waiting.
func RpcQuickMatchFn(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	userID, ok := ctx.Value(runtime.RUNTIME_CTX_USER_ID).(string)
	if !ok || userID == "" {
		return "", runtime.NewError("no user session", 16) // UNAUTHENTICATED
	}

	var req quickMatchRequest
	if payload != "" {
		if err := json.Unmarshal([]byte(payload), &req); err != nil {
			return "", runtime.NewError("malformed request", 3) // INVALID_ARGUMENT
		}
	}

	resp := quickMatchResponse{}
	matches, err := nk.MatchList(ctx, 1, true, "", nil, nil, lobbyQuery)
	if err != nil {
		logger.Error("quick match list: %v", err)
		return "", runtime.NewError("match listing failed", 13) // INTERNAL
	}
	if len(matches) > 0 {
		resp.MatchID = matches[0].GetMatchId()
	} else {
		params := map[string]interface{}{}
		if len(req.Rules) > 0 {
			params["rules"] = req.Rules
		}
		matchID, err := nk.MatchCreate(ctx, MatchNameDoppelkopf, params)
		if err != nil {
			logger.Error("quick match create: %v", err)
			return "", runtime.NewError("match creation failed", 13) // INTERNAL
		}
		resp.MatchID = matchID
		resp.Created = true
	}

	out, err := json.Marshal(resp)
	if err != nil {
		return "", fmt.Errorf("marshal quick match response: %w", err)
	}
	return string(out), nil
}

// RpcGamerulesFn returns the full rule catalogue so clients can render the
// table configuration screen without hardcoding rule metadata.
func RpcGamerulesFn(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	out, err := json.Marshal(rules.Export())
	if err != nil {
		return "", fmt.Errorf("marshal rule catalogue: %w", err)
	}
	return string(out), nil
}
