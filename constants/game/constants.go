package game_constants

// Core matchmaking constants
const (
	// GameNamesCount is the exact size of the name pool assigned to a game.
	// Name lists shorter than this are rejected at creation time and
	// re-checked when a game is sampled from them, since lists are mutable.
	GameNamesCount = 24

	// GameIDLength is the width of the numeric game identifier. Leading
	// zeros are allowed, so the keyspace holds 10^GameIDLength ids.
	GameIDLength = 4

	// MaxGameIDAttempts bounds the id allocation loop. Expected attempts
	// stay low until the stored game set approaches the keyspace; after
	// this many collisions the matchmaker reports capacity exhaustion
	// instead of spinning forever.
	MaxGameIDAttempts = 32
)
