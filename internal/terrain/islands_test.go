package terrain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/islandgen/internal/graph"
)

func twoBlobGraph(t *testing.T) *graph.Graph {
	t.Helper()
	g := meshGraph(t, 400, 100, 11)
	assignHydrology(g, twoBlobs, 0)
	return g
}

func TestDetectIslands_KeepsAll(t *testing.T) {
	g := twoBlobGraph(t)
	islands, discarded := detectIslands(g, false, 1)

	require.GreaterOrEqual(t, len(islands), 2)
	assert.Zero(t, discarded)

	seen := 0
	for i, is := range islands {
		assert.Equal(t, i, is.ID)
		for _, c := range is.Cells {
			assert.Equal(t, i, g.Cells[c].IslandID)
			assert.False(t, g.Cells[c].Ocean)
		}
		seen += len(is.Cells)
	}
	for _, c := range g.Cells {
		if !c.Ocean {
			seen--
		}
		assert.Equal(t, c.Ocean, c.IslandID == graph.None)
	}
	assert.Zero(t, seen, "every non-ocean cell belongs to exactly one island")
}

func TestDetectIslands_SingleKeepsLargest(t *testing.T) {
	all, _ := detectIslands(twoBlobGraph(t), false, 1)
	largest := 0
	for _, is := range all {
		largest = max(largest, len(is.Cells))
	}

	g := twoBlobGraph(t)
	islands, discarded := detectIslands(g, true, 1)
	require.Len(t, islands, 1)
	assert.Equal(t, 0, islands[0].ID)
	assert.Len(t, islands[0].Cells, largest)
	assert.Equal(t, len(all)-1, discarded)

	for _, c := range g.Cells {
		if !c.Ocean {
			assert.Equal(t, 0, c.IslandID)
		}
	}
}

func TestDetectIslands_MinSize(t *testing.T) {
	all, _ := detectIslands(twoBlobGraph(t), false, 1)
	largest, atLeast := 0, 0
	for _, is := range all {
		largest = max(largest, len(is.Cells))
	}
	for _, is := range all {
		if len(is.Cells) >= largest {
			atLeast++
		}
	}

	g := twoBlobGraph(t)
	islands, discarded := detectIslands(g, false, largest)
	assert.Len(t, islands, atLeast)
	assert.Equal(t, len(all)-atLeast, discarded)
}

func TestDetectIslands_SinkEverything(t *testing.T) {
	g := twoBlobGraph(t)
	islands, discarded := detectIslands(g, false, len(g.Cells)+1)
	assert.Empty(t, islands)
	assert.Positive(t, discarded)

	for _, c := range g.Cells {
		assert.True(t, c.Ocean)
		assert.True(t, c.Water)
		assert.False(t, c.Coast)
		assert.Equal(t, graph.None, c.IslandID)
	}
	for _, q := range g.Corners {
		assert.True(t, q.Ocean, "corner %d", q.Index)
		assert.False(t, q.Coast)
	}
}

func TestDetectIslands_TieKeepsFirst(t *testing.T) {
	// land, ocean, land, ocean, land
	g := lineCells(5)
	for _, i := range []int{1, 3} {
		g.Cells[i].Water = true
		g.Cells[i].Ocean = true
	}

	islands, discarded := detectIslands(g, true, 1)
	require.Len(t, islands, 1)
	assert.Equal(t, []int{0}, islands[0].Cells)
	assert.Equal(t, 2, discarded)
	assert.Equal(t, 0, g.Cells[0].IslandID)
	assert.True(t, g.Cells[2].Ocean)
	assert.True(t, g.Cells[4].Ocean)
	assert.True(t, g.Cells[1].Coast, "cell 1 sits between the island and the sea")
	assert.False(t, g.Cells[3].Coast, "cell 3 lost both land neighbors")
}
