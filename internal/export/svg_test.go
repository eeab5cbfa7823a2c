package export

import (
	"strings"
	"testing"

	"github.com/san-kum/conflictsim/internal/aggregate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBandsToSVG(t *testing.T) {
	a, err := aggregate.Aggregate([][]float64{{100, 90, 80}, {100, 95, 85}}, 3, aggregate.TailHold, aggregate.DefaultZ)
	require.NoError(t, err)
	b, err := aggregate.Aggregate([][]float64{{100, 101}}, 2, aggregate.TailHold, aggregate.DefaultZ)
	require.NoError(t, err)

	svg := BandsToSVG([]Layer{
		{Name: "a", Bands: a, Color: "#ff4444"},
		{Name: "b", Bands: b, Color: "#00ccff"},
	}, 400, 200)

	assert.True(t, strings.HasPrefix(svg, "<?xml"))
	assert.True(t, strings.HasSuffix(svg, "</svg>"))
	assert.Contains(t, svg, `<g id="a">`)
	assert.Contains(t, svg, `<g id="b">`)
	assert.Equal(t, 4, strings.Count(svg, "<path"))
	assert.Contains(t, svg, "M0.0,")
	assert.Contains(t, svg, "L400.0,")
}

func TestBandsToSVG_TooShort(t *testing.T) {
	assert.Empty(t, BandsToSVG(nil, 400, 200))

	one, err := aggregate.Aggregate([][]float64{{1}}, 1, aggregate.TailHold, aggregate.DefaultZ)
	require.NoError(t, err)
	assert.Empty(t, BandsToSVG([]Layer{{Name: "a", Bands: one, Color: "#fff"}}, 400, 200))
}
