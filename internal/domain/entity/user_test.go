package entity

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewUser_DefaultState(t *testing.T) {
	u := NewUser(1, 10)
	require.Equal(t, StateMainMenu, u.State)
	require.Equal(t, int64(1), u.ID)
	require.Equal(t, int64(10), u.ChatID)
	require.Zero(t, u.ExpectedSymbols)
}

func TestUser_SetExpected(t *testing.T) {
	u := NewUser(1, 10)
	u.SetExpected(5)
	require.Equal(t, 5, u.ExpectedSymbols)

	u.SetExpected(-3)
	require.Zero(t, u.ExpectedSymbols)
}
