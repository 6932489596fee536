package layout

import (
	"testing"

	"github.com/gogpu/gg"
	"github.com/stretchr/testify/require"
)

func TestNewRect(t *testing.T) {
	t.Run("normalizes corners", func(t *testing.T) {
		r := NewRect(30, 40, 10, 20)
		require.Equal(t, Rect{Left: 10, Top: 20, Width: 20, Height: 20}, r)
		require.Equal(t, 30.0, r.Right())
		require.Equal(t, 40.0, r.Bottom())
	})

	t.Run("center", func(t *testing.T) {
		r := NewRect(0, 0, 10, 10)
		require.Equal(t, gg.Pt(5, 5), r.Center())
	})
}

func TestIntersectsViewport(t *testing.T) {
	tests := []struct {
		name string
		rect Rect
		want bool
	}{
		{"inside", NewRect(0, 100, 10, 200), true},
		{"above", NewRect(0, -50, 10, -10), false},
		{"below", NewRect(0, 820, 10, 900), false},
		{"straddles top", NewRect(0, -10, 10, 10), true},
		{"touches top edge", NewRect(0, -10, 10, 0), true},
		{"touches bottom edge", NewRect(0, 800, 10, 850), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, tt.rect.IntersectsViewport(800))
		})
	}
}

func TestOffset(t *testing.T) {
	r := NewRect(0, 0, 10, 10).Offset(5, -5)
	require.Equal(t, gg.Pt(5, -5), r.Origin())
}
