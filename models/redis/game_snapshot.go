package redis

import (
	"encoding/json"
	"time"

	postgres_models "guesshow/models/postgres"
)

type GamePhase string

const (
	PhaseWaitingForPlayer2 GamePhase = "waiting-for-player2"
	PhaseFull              GamePhase = "full"
)

// GameSnapshot is the cached read view of a game, stored in Redis keyed
// by game id. Postgres stays authoritative; the snapshot only saves a
// round trip on status polling and is rewritten on every game mutation.
type GameSnapshot struct {
	GameID      string    `json:"gameId"`
	ListID      string    `json:"listId"`
	Player1ID   string    `json:"player1Id"`
	Player2ID   *string   `json:"player2Id"`
	GameNames   []string  `json:"gameNames"`
	TargetName1 string    `json:"targetName1"`
	TargetName2 *string   `json:"targetName2"`
	Phase       GamePhase `json:"phase"`
	CreatedAt   time.Time `json:"createdAt"`
}

// SnapshotFromGame builds the cached view from the stored record.
func SnapshotFromGame(game *postgres_models.Game) (*GameSnapshot, error) {
	var names []string
	if err := json.Unmarshal(game.GameNames, &names); err != nil {
		return nil, err
	}
	phase := PhaseWaitingForPlayer2
	if game.Player2ID != nil {
		phase = PhaseFull
	}
	return &GameSnapshot{
		GameID:      game.GameID,
		ListID:      game.ListID,
		Player1ID:   game.Player1ID,
		Player2ID:   game.Player2ID,
		GameNames:   names,
		TargetName1: game.TargetName1,
		TargetName2: game.TargetName2,
		Phase:       phase,
		CreatedAt:   game.CreatedAt,
	}, nil
}
