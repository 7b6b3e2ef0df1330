package database

import (
	"testing"

	"github.com/pawfectmatch/platform-backend/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnectSQLiteMigratesSchema(t *testing.T) {
	db, err := ConnectSQLite(":memory:")
	require.NoError(t, err)

	for _, table := range []string{
		"follow_edges",
		"notifications",
		"verification_requests",
		"admin_events",
		"config_entries",
	} {
		assert.True(t, db.Migrator().HasTable(table), "table %s should exist", table)
	}
}

func TestMigrateIsIdempotent(t *testing.T) {
	db, err := ConnectSQLite(":memory:")
	require.NoError(t, err)
	require.NoError(t, Migrate(db))
}

func TestFollowEdgePairIsUnique(t *testing.T) {
	db, err := ConnectSQLite(":memory:")
	require.NoError(t, err)

	first := &models.FollowEdge{FollowerID: "a", FollowingID: "b"}
	require.NoError(t, db.Create(first).Error)

	dup := &models.FollowEdge{FollowerID: "a", FollowingID: "b"}
	assert.Error(t, db.Create(dup).Error, "unique index rejects duplicate edges")

	reverse := &models.FollowEdge{FollowerID: "b", FollowingID: "a"}
	assert.NoError(t, db.Create(reverse).Error, "edges are directional")
}
