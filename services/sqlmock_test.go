package services

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{})
	require.NoError(t, err)
	return db, mock
}

func TestFollowService_FollowSurfacesDatabaseErrors(t *testing.T) {
	db, mock := setupMockDB(t)
	service := NewFollowService(db, nil)

	mock.ExpectQuery(`SELECT \* FROM "follow_edges"`).
		WillReturnError(assert.AnError)

	_, err := service.Follow(context.Background(), "user-1", "user-2")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to look up follow edge")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConfigService_PublishIncrementsVersionInSQL(t *testing.T) {
	db, mock := setupMockDB(t)
	service := NewConfigService(db, nil, nil)

	// The bump must be applied by the database, not computed from a value
	// read earlier in the transaction.
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "config_entries" SET .*"version"=version \+ 1`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT \* FROM "config_entries"`).
		WillReturnRows(sqlmock.NewRows([]string{"config_type", "value", "version", "updated_by"}).
			AddRow("feature_flags", []byte(`{"newFeed":true}`), int64(4), "admin-1"))
	mock.ExpectCommit()

	entry, err := service.Publish(context.Background(), "feature_flags",
		[]byte(`{"newFeed":true}`), "admin-1")
	require.NoError(t, err)
	assert.Equal(t, int64(4), entry.Version)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdminSyncService_ListEventsSurfacesDatabaseErrors(t *testing.T) {
	db, mock := setupMockDB(t)
	service := NewAdminSyncService(db, nil, nil, nil)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "admin_events"`).
		WillReturnError(assert.AnError)

	_, _, err := service.ListEvents(context.Background(), "", 10, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to count admin events")
	assert.NoError(t, mock.ExpectationsWereMet())
}
