package matchmaker

import (
	"database/sql/driver"
	"encoding/json"
	"testing"
	"time"

	game_constants "guesshow/constants/game"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	pgdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	gormDB, err := gorm.Open(pgdriver.New(pgdriver.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{})
	require.NoError(t, err)
	return gormDB, mock
}

func userRows(id, username string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "username", "password_hash", "created_at"}).
		AddRow(id, username, "", time.Now())
}

func listRows(t *testing.T, id string, names []string, ownerID driver.Value, isPublic bool) *sqlmock.Rows {
	t.Helper()
	encoded, err := json.Marshal(names)
	require.NoError(t, err)
	return sqlmock.NewRows([]string{"id", "list_name", "names", "owner_id", "is_public", "created_at"}).
		AddRow(id, "Test List", encoded, ownerID, isPublic, time.Now())
}

func gameRows(t *testing.T, gameID string, names []string, target1 string, player2ID driver.Value) *sqlmock.Rows {
	t.Helper()
	encoded, err := json.Marshal(names)
	require.NoError(t, err)
	return sqlmock.NewRows([]string{
		"game_id", "list_id", "player1_id", "player2_id",
		"game_names", "target_name1", "target_name2", "created_at",
	}).AddRow(gameID, "list-1", "user-1", player2ID, encoded, target1, nil, time.Now().UTC())
}

func TestCreateGame(t *testing.T) {
	db, mock := newMockDB(t)
	mm := New(db, nil)

	mock.ExpectQuery(`SELECT \* FROM "users" WHERE id =`).
		WillReturnRows(userRows("user-1", "alice"))
	mock.ExpectQuery(`SELECT \* FROM "name_lists" WHERE id =`).
		WillReturnRows(listRows(t, "list-1", makePool(30), nil, true))

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "games"`).
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(time.Now()))
	mock.ExpectCommit()

	game, err := mm.CreateGame("user-1", "list-1")
	require.NoError(t, err)

	assert.Regexp(t, `^\d{4}$`, game.GameID)
	assert.Equal(t, "list-1", game.ListID)
	assert.Equal(t, "user-1", game.Player1ID)
	assert.Nil(t, game.Player2ID)

	names, err := DecodeNames(game.GameNames)
	require.NoError(t, err)
	assert.Len(t, names, game_constants.GameNamesCount)
	assert.Subset(t, makePool(30), names)
	assert.Contains(t, names, game.TargetName1)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateGameRetriesOnIDCollision(t *testing.T) {
	db, mock := newMockDB(t)
	mm := New(db, nil)

	mock.ExpectQuery(`SELECT \* FROM "users" WHERE id =`).
		WillReturnRows(userRows("user-1", "alice"))
	mock.ExpectQuery(`SELECT \* FROM "name_lists" WHERE id =`).
		WillReturnRows(listRows(t, "list-1", makePool(30), nil, true))

	// First insert collides on the primary key, second succeeds.
	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "games"`).
		WillReturnError(&pq.Error{Code: "23505"})
	mock.ExpectRollback()

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "games"`).
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(time.Now()))
	mock.ExpectCommit()

	game, err := mm.CreateGame("user-1", "list-1")
	require.NoError(t, err)
	assert.Regexp(t, `^\d{4}$`, game.GameID)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateGameIDSpaceExhausted(t *testing.T) {
	db, mock := newMockDB(t)
	mm := New(db, nil)

	mock.ExpectQuery(`SELECT \* FROM "users" WHERE id =`).
		WillReturnRows(userRows("user-1", "alice"))
	mock.ExpectQuery(`SELECT \* FROM "name_lists" WHERE id =`).
		WillReturnRows(listRows(t, "list-1", makePool(30), nil, true))

	for i := 0; i < game_constants.MaxGameIDAttempts; i++ {
		mock.ExpectBegin()
		mock.ExpectQuery(`INSERT INTO "games"`).
			WillReturnError(&pq.Error{Code: "23505"})
		mock.ExpectRollback()
	}

	_, err := mm.CreateGame("user-1", "list-1")
	assert.ErrorIs(t, err, ErrIDSpaceExhausted)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateGamePlayerNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	mm := New(db, nil)

	mock.ExpectQuery(`SELECT \* FROM "users" WHERE id =`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username"}))

	_, err := mm.CreateGame("nobody", "list-1")
	assert.ErrorIs(t, err, ErrPlayerNotFound)
}

func TestCreateGamePrivateListForbidden(t *testing.T) {
	db, mock := newMockDB(t)
	mm := New(db, nil)

	mock.ExpectQuery(`SELECT \* FROM "users" WHERE id =`).
		WillReturnRows(userRows("user-1", "alice"))
	mock.ExpectQuery(`SELECT \* FROM "name_lists" WHERE id =`).
		WillReturnRows(listRows(t, "list-1", makePool(30), "someone-else", false))

	_, err := mm.CreateGame("user-1", "list-1")
	assert.ErrorIs(t, err, ErrListForbidden)
}

func TestCreateGamePrivateListOwnedByRequester(t *testing.T) {
	db, mock := newMockDB(t)
	mm := New(db, nil)

	mock.ExpectQuery(`SELECT \* FROM "users" WHERE id =`).
		WillReturnRows(userRows("user-1", "alice"))
	mock.ExpectQuery(`SELECT \* FROM "name_lists" WHERE id =`).
		WillReturnRows(listRows(t, "list-1", makePool(30), "user-1", false))

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "games"`).
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(time.Now()))
	mock.ExpectCommit()

	_, err := mm.CreateGame("user-1", "list-1")
	assert.NoError(t, err)
}

func TestCreateGameInsufficientNames(t *testing.T) {
	db, mock := newMockDB(t)
	mm := New(db, nil)

	mock.ExpectQuery(`SELECT \* FROM "users" WHERE id =`).
		WillReturnRows(userRows("user-1", "alice"))
	mock.ExpectQuery(`SELECT \* FROM "name_lists" WHERE id =`).
		WillReturnRows(listRows(t, "list-1", makePool(23), nil, true))

	_, err := mm.CreateGame("user-1", "list-1")
	assert.ErrorIs(t, err, ErrInsufficientNames)
}

func TestJoinGame(t *testing.T) {
	db, mock := newMockDB(t)
	mm := New(db, nil)

	pool := makePool(24)
	target1 := pool[3]

	mock.ExpectQuery(`SELECT \* FROM "users" WHERE id =`).
		WillReturnRows(userRows("user-2", "bob"))

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "games" WHERE game_id = .* FOR UPDATE`).
		WillReturnRows(gameRows(t, "0042", pool, target1, nil))
	mock.ExpectExec(`UPDATE "games" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	game, err := mm.JoinGame("0042", "user-2")
	require.NoError(t, err)

	require.NotNil(t, game.Player2ID)
	assert.Equal(t, "user-2", *game.Player2ID)
	require.NotNil(t, game.TargetName2)
	assert.Contains(t, pool, *game.TargetName2)
	assert.NotEqual(t, game.TargetName1, *game.TargetName2)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestJoinGameAlreadyFull(t *testing.T) {
	db, mock := newMockDB(t)
	mm := New(db, nil)

	mock.ExpectQuery(`SELECT \* FROM "users" WHERE id =`).
		WillReturnRows(userRows("user-3", "carol"))

	// The locked read sees player2 already seated: no update, rollback.
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "games" WHERE game_id = .* FOR UPDATE`).
		WillReturnRows(gameRows(t, "0042", makePool(24), "name-03", "user-2"))
	mock.ExpectRollback()

	_, err := mm.JoinGame("0042", "user-3")
	assert.ErrorIs(t, err, ErrGameFull)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestJoinGameNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	mm := New(db, nil)

	mock.ExpectQuery(`SELECT \* FROM "users" WHERE id =`).
		WillReturnRows(userRows("user-2", "bob"))

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "games" WHERE game_id = .* FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"game_id"}))
	mock.ExpectRollback()

	_, err := mm.JoinGame("9999", "user-2")
	assert.ErrorIs(t, err, ErrGameNotFound)
}

func TestGetStatus(t *testing.T) {
	db, mock := newMockDB(t)
	mm := New(db, nil)

	pool := makePool(24)
	mock.ExpectQuery(`SELECT \* FROM "games" WHERE game_id =`).
		WillReturnRows(gameRows(t, "0042", pool, pool[0], nil))

	snapshot, err := mm.GetStatus("0042")
	require.NoError(t, err)
	assert.Equal(t, "0042", snapshot.GameID)
	assert.Equal(t, pool, snapshot.GameNames)
	assert.Equal(t, pool[0], snapshot.TargetName1)
	assert.Nil(t, snapshot.TargetName2)
	assert.Equal(t, "waiting-for-player2", string(snapshot.Phase))
}

func TestGetStatusNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	mm := New(db, nil)

	mock.ExpectQuery(`SELECT \* FROM "games" WHERE game_id =`).
		WillReturnRows(sqlmock.NewRows([]string{"game_id"}))

	_, err := mm.GetStatus("9999")
	assert.ErrorIs(t, err, ErrGameNotFound)
}
