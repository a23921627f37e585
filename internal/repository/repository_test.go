package repository

import (
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"partyup-network/internal/model"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{
		SkipDefaultTransaction: true,
		TranslateError:         true,
		Logger:                 gormlogger.Discard,
	})
	require.NoError(t, err)
	return db, mock
}

func TestFriendshipRepository_CreateDuplicate(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewFriendshipRepository(db)

	mock.ExpectExec("INSERT INTO `friendships`").
		WillReturnError(&mysqldriver.MySQLError{Number: 1062, Message: "Duplicate entry '1-2' for key 'idx_friendship_pair'"})

	err := repo.Create(model.NewFriendRequest(2, 1))
	require.ErrorIs(t, err, ErrDuplicate)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFriendshipRepository_CreateStoresNormalizedPair(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewFriendshipRepository(db)

	mock.ExpectExec("INSERT INTO `friendships`").
		WithArgs(uint(3), uint(8), uint(8), model.FriendshipStatusPending, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(11, 1))

	f := model.NewFriendRequest(8, 3)
	require.NoError(t, repo.Create(f))
	assert.Equal(t, uint(11), f.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFriendshipRepository_GetByPair(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewFriendshipRepository(db)

	rows := sqlmock.NewRows([]string{"id", "user_one_id", "user_two_id", "requester_id", "status"}).
		AddRow(5, 1, 2, 2, "PENDING")
	mock.ExpectQuery("SELECT (.+) FROM `friendships` WHERE user_one_id = \\? AND user_two_id = \\?").
		WithArgs(uint(1), uint(2), sqlmock.AnyArg()).
		WillReturnRows(rows)

	got, err := repo.GetByPair(2, 1)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, uint(5), got.ID)
	assert.Equal(t, model.FriendshipStatusPending, got.Status)
}

func TestFriendshipRepository_GetByPairMissing(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewFriendshipRepository(db)

	mock.ExpectQuery("SELECT (.+) FROM `friendships`").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	got, err := repo.GetByPair(1, 2)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestFriendshipRepository_TransitionStatus(t *testing.T) {
	tests := []struct {
		name     string
		affected int64
		want     bool
	}{
		{name: "pending row updated", affected: 1, want: true},
		{name: "no pending row", affected: 0, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newMockDB(t)
			repo := NewFriendshipRepository(db)

			mock.ExpectExec("UPDATE `friendships` SET (.+) WHERE user_one_id = \\? AND user_two_id = \\? AND status = \\?").
				WillReturnResult(sqlmock.NewResult(0, tt.affected))

			ok, err := repo.TransitionStatus(2, 1, model.FriendshipStatusPending, model.FriendshipStatusAccepted)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ok)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestFriendshipRepository_DeleteByPairError(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewFriendshipRepository(db)

	mock.ExpectExec("DELETE FROM `friendships`").WillReturnError(errors.New("db down"))

	_, err := repo.DeleteByPair(1, 2)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "delete friendship failed")
	assert.NotErrorIs(t, err, ErrDuplicate)
}

func TestUserRepository_CreateDuplicate(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectExec("INSERT INTO `users`").
		WillReturnError(&mysqldriver.MySQLError{Number: 1062, Message: "Duplicate entry 'johny' for key 'idx_users_username'"})

	err := repo.Create(&model.User{Username: "johny", Email: "john@example.com", PasswordHash: "x"})
	require.ErrorIs(t, err, ErrDuplicate)
}

func TestUserRepository_DeleteWithDependents(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM `auth_tokens` WHERE user_id = \\?").
		WithArgs(uint(7)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("DELETE FROM `friendships` WHERE user_one_id = \\? OR user_two_id = \\?").
		WithArgs(uint(7), uint(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM `users` WHERE `users`.`id` = \\?").
		WithArgs(uint(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	deleted, err := repo.DeleteWithDependents(7)
	require.NoError(t, err)
	assert.True(t, deleted)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_DeleteWithDependentsRollsBack(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM `auth_tokens`").WillReturnError(errors.New("lock wait timeout"))
	mock.ExpectRollback()

	deleted, err := repo.DeleteWithDependents(7)
	require.Error(t, err)
	assert.False(t, deleted)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_ListByIDsEmpty(t *testing.T) {
	db, _ := newMockDB(t)
	repo := NewUserRepository(db)

	users, err := repo.ListByIDs(nil)
	require.NoError(t, err)
	assert.Empty(t, users)
}

func TestAuthTokenRepository_TouchLastUsedWritesOnlyLastUsed(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAuthTokenRepository(db)

	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	mock.ExpectExec("UPDATE `auth_tokens` SET `last_used_at`=\\? WHERE id = \\?$").
		WithArgs(now, uint(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.TouchLastUsed(3, now))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAuthTokenRepository_ExpireIfLive(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAuthTokenRepository(db)

	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	mock.ExpectExec("UPDATE `auth_tokens` SET `expires_at`=\\? WHERE id = \\? AND expires_at > \\?$").
		WithArgs(now, uint(3), now).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE `auth_tokens` SET `expires_at`=\\? WHERE id = \\? AND expires_at > \\?$").
		WithArgs(now, uint(3), now).
		WillReturnResult(sqlmock.NewResult(0, 0))

	ok, err := repo.ExpireIfLive(3, now)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.ExpireIfLive(3, now)
	require.NoError(t, err)
	assert.False(t, ok, "already expired rows are left alone")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAuthTokenRepository_ExpireIfLiveError(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAuthTokenRepository(db)

	mock.ExpectExec("UPDATE `auth_tokens`").WillReturnError(errors.New("deadlock"))

	_, err := repo.ExpireIfLive(3, time.Now())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expire auth token failed")
}

func TestAuthTokenRepository_GetByTokenMissing(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAuthTokenRepository(db)

	mock.ExpectQuery("SELECT (.+) FROM `auth_tokens` WHERE token = \\?").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	got, err := repo.GetByToken("abc")
	require.NoError(t, err)
	assert.Nil(t, got)
}
