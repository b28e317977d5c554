package override_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Alia5/padorder/device"
	"github.com/Alia5/padorder/override"
)

var (
	idA = device.Identity{Data1: 0xA}
	idB = device.Identity{Data1: 0xB}
	idC = device.Identity{Data1: 0xC}
	idD = device.Identity{Data1: 0xD}
)

func TestReorder(t *testing.T) {
	tests := []struct {
		name          string
		ids           []device.Identity
		first, second device.Identity
		want          []device.Identity
	}{
		{
			name:   "both players move to the front",
			ids:    []device.Identity{idA, idB, idC, idD},
			first:  idC,
			second: idA,
			want:   []device.Identity{idC, idA, idB, idD},
		},
		{
			name: "unset players keep natural order",
			ids:  []device.Identity{idA, idB, idC},
			want: []device.Identity{idA, idB, idC},
		},
		{
			name:   "only second set",
			ids:    []device.Identity{idA, idB, idC},
			second: idC,
			want:   []device.Identity{idC, idA, idB},
		},
		{
			name:   "missing player is skipped",
			ids:    []device.Identity{idA, idB},
			first:  idD,
			second: idB,
			want:   []device.Identity{idB, idA},
		},
		{
			name:   "same device for both players appears once",
			ids:    []device.Identity{idA, idB},
			first:  idB,
			second: idB,
			want:   []device.Identity{idB, idA},
		},
		{
			name: "empty",
			want: []device.Identity{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := override.Select(tt.ids, override.Reorder(tt.ids, tt.first, tt.second))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestArrange(t *testing.T) {
	natural := []device.Identity{idA, idB, idC, idD}
	tests := []struct {
		name    string
		enabled bool
		p1, p2  device.Identity
		want    []device.Identity
	}{
		{
			name: "override off delivers everything unchanged",
			p1:   idC,
			p2:   idA,
			want: natural,
		},
		{
			name:    "override on keeps only player 1",
			enabled: true,
			p1:      idC,
			want:    []device.Identity{idC},
		},
		{
			name:    "override on orders player 1 before player 2",
			enabled: true,
			p1:      idD,
			p2:      idB,
			want:    []device.Identity{idD, idB},
		},
		{
			name:    "override on with nothing bound hides everything",
			enabled: true,
			want:    []device.Identity{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := override.Select(natural, override.Arrange(natural, tt.enabled, tt.p1, tt.p2))
			assert.Equal(t, tt.want, got)
		})
	}
}
