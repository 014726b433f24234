package models_test

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"socialnet/internal/db"
	"socialnet/internal/models"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	database, err := db.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	return database
}

func createTestUser(t *testing.T, database *sql.DB, name, email string) *models.User {
	t.Helper()
	u, err := models.CreateUser(database, name, email, "hash", nil, false)
	require.NoError(t, err)
	return u
}

func TestCreateGroupJoinsCreator(t *testing.T) {
	database := newTestDB(t)
	alice := createTestUser(t, database, "Alice", "alice@example.com")

	g, err := models.CreateGroup(database, "Hiking", nil, true, nil, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, g.MembersCount)

	member, err := models.IsMember(database, g.ID, alice.ID)
	require.NoError(t, err)
	assert.True(t, member)
}

func TestJoinGroupTwice(t *testing.T) {
	database := newTestDB(t)
	alice := createTestUser(t, database, "Alice", "alice@example.com")
	bob := createTestUser(t, database, "Bob", "bob@example.com")
	g, err := models.CreateGroup(database, "Hiking", nil, true, nil, alice.ID)
	require.NoError(t, err)

	require.NoError(t, models.JoinGroup(database, g.ID, bob.ID))
	assert.ErrorIs(t, models.JoinGroup(database, g.ID, bob.ID), models.ErrAlreadyMember)
}

func TestLeaveGroupDeletesWhenEmpty(t *testing.T) {
	database := newTestDB(t)
	alice := createTestUser(t, database, "Alice", "alice@example.com")
	g, err := models.CreateGroup(database, "Hiking", nil, true, nil, alice.ID)
	require.NoError(t, err)

	res, err := models.LeaveGroup(database, g.ID, alice.ID)
	require.NoError(t, err)
	assert.True(t, res.GroupDeleted)

	_, err = models.GetGroup(database, g.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestLeaveGroupTransfersToMostSenior(t *testing.T) {
	database := newTestDB(t)
	alice := createTestUser(t, database, "Alice", "alice@example.com")
	bob := createTestUser(t, database, "Bob", "bob@example.com")
	carol := createTestUser(t, database, "Carol", "carol@example.com")
	g, err := models.CreateGroup(database, "Hiking", nil, true, nil, alice.ID)
	require.NoError(t, err)

	require.NoError(t, models.JoinGroup(database, g.ID, bob.ID))
	require.NoError(t, models.JoinGroup(database, g.ID, carol.ID))

	// same-second joins fall back to the lowest user id
	res, err := models.LeaveGroup(database, g.ID, alice.ID)
	require.NoError(t, err)
	assert.False(t, res.GroupDeleted)
	assert.Equal(t, bob.ID, res.NewCreator)

	fresh, err := models.GetGroup(database, g.ID)
	require.NoError(t, err)
	assert.Equal(t, bob.ID, fresh.CreatedBy)
}

func TestLeaveGroupNonCreatorKeepsOwner(t *testing.T) {
	database := newTestDB(t)
	alice := createTestUser(t, database, "Alice", "alice@example.com")
	bob := createTestUser(t, database, "Bob", "bob@example.com")
	g, err := models.CreateGroup(database, "Hiking", nil, true, nil, alice.ID)
	require.NoError(t, err)
	require.NoError(t, models.JoinGroup(database, g.ID, bob.ID))

	res, err := models.LeaveGroup(database, g.ID, bob.ID)
	require.NoError(t, err)
	assert.False(t, res.GroupDeleted)
	assert.Zero(t, res.NewCreator)

	fresh, err := models.GetGroup(database, g.ID)
	require.NoError(t, err)
	assert.Equal(t, alice.ID, fresh.CreatedBy)
}

func TestLeaveGroupErrors(t *testing.T) {
	database := newTestDB(t)
	alice := createTestUser(t, database, "Alice", "alice@example.com")
	bob := createTestUser(t, database, "Bob", "bob@example.com")
	g, err := models.CreateGroup(database, "Hiking", nil, true, nil, alice.ID)
	require.NoError(t, err)

	_, err = models.LeaveGroup(database, g.ID, bob.ID)
	assert.ErrorIs(t, err, models.ErrNotMember)

	_, err = models.LeaveGroup(database, 9999, alice.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestDeleteUserCascadesMemberships(t *testing.T) {
	database := newTestDB(t)
	alice := createTestUser(t, database, "Alice", "alice@example.com")
	bob := createTestUser(t, database, "Bob", "bob@example.com")
	g, err := models.CreateGroup(database, "Hiking", nil, true, nil, alice.ID)
	require.NoError(t, err)
	require.NoError(t, models.JoinGroup(database, g.ID, bob.ID))

	require.NoError(t, models.DeleteUser(database, bob.ID))

	fresh, err := models.GetGroup(database, g.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, fresh.MembersCount)
}
