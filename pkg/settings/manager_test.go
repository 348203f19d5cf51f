package settings

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupManager(t *testing.T) *Manager {
	t.Helper()
	m, err := NewManager(filepath.Join(t.TempDir(), "bot.db"))
	require.NoError(t, err)
	t.Cleanup(func() { m.Close() })
	return m
}

func TestManager_ToggleLeaderNotification(t *testing.T) {
	m := setupManager(t)
	user := TelegramUser{ID: 42, Name: "colin", ChatID: 4242}

	on, err := m.IsSubscribed(user.ID)
	require.NoError(t, err)
	assert.False(t, on)

	on, err = m.ToggleLeaderNotification(user)
	require.NoError(t, err)
	assert.True(t, on)
	on, err = m.IsSubscribed(user.ID)
	require.NoError(t, err)
	assert.True(t, on)

	on, err = m.ToggleLeaderNotification(user)
	require.NoError(t, err)
	assert.False(t, on)
}

func TestManager_ListUsersForLeaderChange(t *testing.T) {
	m := setupManager(t)

	users, err := m.ListUsersForLeaderChange()
	require.NoError(t, err)
	assert.Empty(t, users)

	for _, u := range []TelegramUser{
		{ID: 3, Name: "carlos", ChatID: 30},
		{ID: 1, Name: "didier", ChatID: 10},
		{ID: 2, Name: "o'neil", ChatID: 20},
	} {
		_, err := m.ToggleLeaderNotification(u)
		require.NoError(t, err)
	}
	_, err = m.ToggleLeaderNotification(TelegramUser{ID: 3, Name: "carlos", ChatID: 30})
	require.NoError(t, err)

	users, err = m.ListUsersForLeaderChange()
	require.NoError(t, err)
	assert.Equal(t, []TelegramUser{
		{ID: 1, Name: "didier", ChatID: 10},
		{ID: 2, Name: "o'neil", ChatID: 20},
	}, users)
}

func TestStatus(t *testing.T) {
	assert.Contains(t, Status(true), "🔔")
	assert.Contains(t, Status(false), "🔕")
}
