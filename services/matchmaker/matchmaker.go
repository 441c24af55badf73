package matchmaker

import (
	"errors"
	"fmt"
	"log"

	game_constants "guesshow/constants/game"
	postgres_models "guesshow/models/postgres"
	redis_models "guesshow/models/redis"
	redis_services "guesshow/services/redis"
	"guesshow/utils"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Failure modes surfaced to the transport layer. Controllers map these to
// status codes; anything else is treated as an internal storage failure.
var (
	ErrPlayerNotFound    = errors.New("player not found")
	ErrListNotFound      = errors.New("name list not found")
	ErrListForbidden     = errors.New("name list is private")
	ErrInsufficientNames = errors.New("name list has insufficient names")
	ErrGameNotFound      = errors.New("game not found")
	ErrGameFull          = errors.New("game already has two players")
	ErrIDSpaceExhausted  = errors.New("no free game ids available")
)

/*
 * 'Matchmaker' owns the game lifecycle: id allocation, name sampling and
 * target assignment on create, the single join transition, and status
 * reads. Postgres is the source of truth; RedisClient (optional, may be
 * nil in tests) caches read snapshots for status polling.
 */
type Matchmaker struct {
	DB          *gorm.DB
	RedisClient *redis_services.RedisClient
}

func New(db *gorm.DB, redisClient *redis_services.RedisClient) *Matchmaker {
	return &Matchmaker{DB: db, RedisClient: redisClient}
}

// CreateGame allocates a game for player1 from the given name list and
// assigns player1's secret target. The new game waits for a second player.
func (m *Matchmaker) CreateGame(player1ID string, listID string) (*postgres_models.Game, error) {
	var player postgres_models.User
	if err := m.DB.Where("id = ?", player1ID).First(&player).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPlayerNotFound
		}
		return nil, fmt.Errorf("looking up player: %w", err)
	}

	var list postgres_models.NameList
	if err := m.DB.Where("id = ?", listID).First(&list).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrListNotFound
		}
		return nil, fmt.Errorf("looking up name list: %w", err)
	}

	// Private lists are only usable by their owner.
	if !list.IsPublic && (list.OwnerID == nil || *list.OwnerID != player.ID) {
		return nil, ErrListForbidden
	}

	names, err := DecodeNames(list.Names)
	if err != nil {
		return nil, fmt.Errorf("decoding list names: %w", err)
	}
	// Re-checked here even though list creation enforces it: lists are
	// mutable and the game must never sample from a short pool.
	if len(names) < game_constants.GameNamesCount {
		return nil, ErrInsufficientNames
	}

	gameNames := SampleNames(names, game_constants.GameNamesCount)
	target1 := PickTarget(gameNames)

	encoded, err := EncodeNames(gameNames)
	if err != nil {
		return nil, fmt.Errorf("encoding game names: %w", err)
	}

	// The insert itself is the uniqueness check: the game id is the
	// primary key, so two concurrent creations colliding on the same id
	// cannot both commit. A collision just means another attempt with a
	// fresh id, bounded so a nearly-full keyspace surfaces a capacity
	// error instead of looping forever.
	for attempt := 0; attempt < game_constants.MaxGameIDAttempts; attempt++ {
		game := &postgres_models.Game{
			GameID:      postgres_models.GenerateGameID(),
			ListID:      list.ID,
			Player1ID:   player.ID,
			Player2ID:   nil,
			GameNames:   encoded,
			TargetName1: target1,
		}
		err := m.DB.Create(game).Error
		if err == nil {
			m.cacheSnapshot(game)
			return game, nil
		}
		if !utils.IsUniqueViolation(err) {
			return nil, fmt.Errorf("inserting game: %w", err)
		}
	}
	return nil, ErrIDSpaceExhausted
}

// JoinGame seats player2 in a waiting game and assigns their target,
// guaranteed different from player1's. The row is locked for the
// check-and-set so two concurrent joins cannot both succeed.
func (m *Matchmaker) JoinGame(gameID string, player2ID string) (*postgres_models.Game, error) {
	var player postgres_models.User
	if err := m.DB.Where("id = ?", player2ID).First(&player).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPlayerNotFound
		}
		return nil, fmt.Errorf("looking up player: %w", err)
	}

	var joined *postgres_models.Game
	err := m.DB.Transaction(func(tx *gorm.DB) error {
		var game postgres_models.Game
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("game_id = ?", gameID).First(&game).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrGameNotFound
			}
			return fmt.Errorf("looking up game: %w", err)
		}

		if game.Player2ID != nil {
			return ErrGameFull
		}

		names, err := DecodeNames(game.GameNames)
		if err != nil {
			return fmt.Errorf("decoding game names: %w", err)
		}
		target2, err := PickSecondTarget(names, game.TargetName1)
		if err != nil {
			return err
		}

		if err := tx.Model(&postgres_models.Game{}).
			Where("game_id = ?", game.GameID).
			Updates(map[string]interface{}{
				"player2_id":   player.ID,
				"target_name2": target2,
			}).Error; err != nil {
			return fmt.Errorf("seating player2: %w", err)
		}

		game.Player2ID = &player.ID
		game.TargetName2 = &target2
		joined = &game
		return nil
	})
	if err != nil {
		return nil, err
	}

	m.cacheSnapshot(joined)
	return joined, nil
}

// GetStatus returns the current game view without mutating anything.
// Repeated calls return identical data: both targets are stored, nothing
// is recomputed. Served from the Redis snapshot when present.
func (m *Matchmaker) GetStatus(gameID string) (*redis_models.GameSnapshot, error) {
	if m.RedisClient != nil {
		if snapshot, err := m.RedisClient.GetGameSnapshot(gameID); err == nil {
			return snapshot, nil
		}
	}

	var game postgres_models.Game
	if err := m.DB.Where("game_id = ?", gameID).First(&game).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGameNotFound
		}
		return nil, fmt.Errorf("looking up game: %w", err)
	}

	snapshot, err := redis_models.SnapshotFromGame(&game)
	if err != nil {
		return nil, fmt.Errorf("building game snapshot: %w", err)
	}
	if m.RedisClient != nil {
		if err := m.RedisClient.SaveGameSnapshot(snapshot); err != nil {
			log.Printf("Warning: could not cache game %s: %v", gameID, err)
		}
	}
	return snapshot, nil
}

// cacheSnapshot refreshes the cached read view after a mutation. Cache
// failures are logged and swallowed: Postgres already has the record.
func (m *Matchmaker) cacheSnapshot(game *postgres_models.Game) {
	if m.RedisClient == nil {
		return
	}
	snapshot, err := redis_models.SnapshotFromGame(game)
	if err != nil {
		log.Printf("Warning: could not build snapshot for game %s: %v", game.GameID, err)
		return
	}
	if err := m.RedisClient.SaveGameSnapshot(snapshot); err != nil {
		log.Printf("Warning: could not cache game %s: %v", game.GameID, err)
	}
}
