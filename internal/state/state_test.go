package state_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alia5/padorder/device"
	"github.com/Alia5/padorder/internal/state"
	"github.com/Alia5/padorder/override"
)

func TestSaveLoad(t *testing.T) {
	tests := []struct {
		name string
		in   override.State
	}{
		{name: "empty"},
		{
			name: "both players",
			in: override.State{
				Override:    true,
				AutoRefresh: true,
				Player1:     device.KeyboardIdentity,
				Player2:     device.LegacyIdentity(2),
			},
		},
		{
			name: "player 2 only",
			in:   override.State{Player2: device.Identity{Data1: 0xA, Data2: 0xBEEF}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "nested", "state.toml")
			require.NoError(t, state.Save(path, tt.in))

			got, err := state.Load(path)
			require.NoError(t, err)
			assert.Equal(t, tt.in, got)

			entries, err := os.ReadDir(filepath.Dir(path))
			require.NoError(t, err)
			assert.Len(t, entries, 1, "no temporary files left behind")
		})
	}
}

func TestLoadMissing(t *testing.T) {
	_, err := state.Load(filepath.Join(t.TempDir(), "state.toml"))
	assert.ErrorIs(t, err, state.ErrNotFound)
}

func TestDecode(t *testing.T) {
	s, err := state.Decode([]byte(`
override = true
player1 = "{6F1D2B61-D5A0-11CF-BFC7-444553540000}"
`))
	require.NoError(t, err)
	assert.True(t, s.Override)
	assert.False(t, s.AutoRefresh)
	assert.Equal(t, device.KeyboardIdentity, s.Player1)
	assert.True(t, s.Player2.IsZero())

	_, err = state.Decode([]byte(`player1 = "not-a-guid"`))
	assert.Error(t, err)

	_, err = state.Decode([]byte(`override = [`))
	assert.Error(t, err)
}

func TestWatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.toml")
	require.NoError(t, state.Save(path, override.State{}))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	got := make(chan override.State, 4)
	go func() {
		_ = state.Watch(ctx, path, 20*time.Millisecond, nil, func(s override.State) { got <- s })
	}()
	time.Sleep(100 * time.Millisecond)

	want := override.State{Override: true, Player1: device.KeyboardIdentity}
	require.NoError(t, state.Save(path, want))

	select {
	case s := <-got:
		assert.Equal(t, want, s)
	case <-time.After(3 * time.Second):
		t.Fatal("no reload observed")
	}
}
