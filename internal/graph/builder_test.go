package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/islandgen/internal/geom"
)

func seg(ax, ay, bx, by float64) *geom.Segment {
	return &geom.Segment{A: geom.Pt(ax, ay), B: geom.Pt(bx, by)}
}

// threeCells is a 2x2 map split into three regions meeting at (1,1).
func threeCells() ([]Site, []EdgeRecord) {
	sites := []Site{
		{ID: 10, Pos: geom.Pt(0.5, 0.5)},
		{ID: 11, Pos: geom.Pt(1.5, 0.5)},
		{ID: 12, Pos: geom.Pt(1, 1.5)},
	}
	records := []EdgeRecord{
		{Left: 10, Right: 11, Segment: seg(1, 0, 1, 1)},
		{Left: 10, Right: 12, Segment: seg(1, 1, 0, 1.5)},
		{Left: 11, Right: 12, Segment: seg(1, 1, 2, 1.5)},
		{Left: 10, Right: 12, Segment: nil},
	}
	return sites, records
}

func TestBuild_Counts(t *testing.T) {
	sites, records := threeCells()
	g, err := Build(geom.Pt(2, 2), sites, records)
	require.NoError(t, err)

	assert.Len(t, g.Cells, 3)
	assert.Len(t, g.Edges, 3, "outside-bounds record must be skipped")
	assert.Len(t, g.Corners, 4, "shared endpoint (1,1) must be deduplicated")
	require.NoError(t, g.Validate())

	for i, c := range g.Cells {
		assert.Equal(t, i, c.Index)
		assert.Equal(t, None, c.IslandID)
		assert.Len(t, c.Neighbors, 2)
	}
	assert.Equal(t, geom.Pt(0.5, 0.5), g.Cells[0].Pos, "cells keep input order")
}

func TestBuild_BorderCorners(t *testing.T) {
	sites, records := threeCells()
	g, err := Build(geom.Pt(2, 2), sites, records)
	require.NoError(t, err)

	for _, q := range g.Corners {
		onEdge := q.Pos.X == 0 || q.Pos.X == 2 || q.Pos.Y == 0 || q.Pos.Y == 2
		assert.Equal(t, onEdge, q.Border, "corner at %v", q.Pos)
		assert.Equal(t, None, q.Downslope)
		assert.Equal(t, None, q.DownslopeEdge)
	}

	var center *Corner
	for i := range g.Corners {
		if g.Corners[i].Pos == geom.Pt(1, 1) {
			center = &g.Corners[i]
		}
	}
	require.NotNil(t, center)
	assert.False(t, center.Border)
	assert.Len(t, center.Touches, 3)
	assert.Len(t, center.Edges, 3)
	assert.Len(t, center.Neighbors, 3)
}

func TestBuild_DuplicateSitesCollapse(t *testing.T) {
	sites, records := threeCells()
	sites = append(sites, Site{ID: 10, Pos: geom.Pt(9, 9)})
	g, err := Build(geom.Pt(2, 2), sites, records)
	require.NoError(t, err)
	assert.Len(t, g.Cells, 3)
	assert.Equal(t, geom.Pt(0.5, 0.5), g.Cells[0].Pos, "first occurrence wins")
}

func TestBuild_ZeroLengthEdgeSkipped(t *testing.T) {
	sites, records := threeCells()
	records = append(records, EdgeRecord{Left: 10, Right: 11, Segment: seg(1, 1, 1, 1)})
	g, err := Build(geom.Pt(2, 2), sites, records)
	require.NoError(t, err)
	assert.Len(t, g.Edges, 3)
	require.NoError(t, g.Validate())
}

func TestBuild_UnknownSite(t *testing.T) {
	sites, records := threeCells()
	records = append(records, EdgeRecord{Left: 10, Right: 99, Segment: seg(0, 0, 1, 0)})
	_, err := Build(geom.Pt(2, 2), sites, records)
	require.ErrorIs(t, err, ErrUnknownSite)
}

func TestBuild_DegenerateEdge(t *testing.T) {
	sites, records := threeCells()
	records = append(records, EdgeRecord{Left: 11, Right: 11, Segment: seg(2, 0, 1, 0)})
	_, err := Build(geom.Pt(2, 2), sites, records)
	require.ErrorIs(t, err, ErrDegenerateEdge)
}

func TestBuild_CornerLookupFailsFast(t *testing.T) {
	b := &builder{corners: map[geom.Point]int{}}
	_, err := b.cornerAt(geom.Pt(3, 3))
	require.ErrorIs(t, err, ErrCornerNotFound)
}

func TestBuild_Empty(t *testing.T) {
	g, err := Build(geom.Pt(1, 1), nil, nil)
	require.NoError(t, err)
	assert.Empty(t, g.Cells)
	assert.NoError(t, g.Validate())
}

func TestValidate_DetectsAsymmetry(t *testing.T) {
	sites, records := threeCells()
	g, err := Build(geom.Pt(2, 2), sites, records)
	require.NoError(t, err)

	g.Cells[0].Neighbors = append(g.Cells[0].Neighbors[:0], 1)
	g.Cells[1].Neighbors = []int{2}
	assert.ErrorIs(t, g.Validate(), ErrInconsistent)
}

func TestBiome_Names(t *testing.T) {
	assert.Len(t, AllBiomes(), 18)
	assert.Equal(t, "Temperate_Deciduous_Forest", TemperateDeciduousForest.String())
	assert.Equal(t, "Ocean", Ocean.String())
	assert.False(t, Undefined.Valid())
	for _, b := range AllBiomes() {
		assert.True(t, b.Valid(), b.String())
	}
}

func TestBiomeByName(t *testing.T) {
	b, ok := BiomeByName("temperate_desert")
	assert.True(t, ok)
	assert.Equal(t, TemperateDesert, b)

	_, ok = BiomeByName("Undefined")
	assert.False(t, ok)
	_, ok = BiomeByName("swamp")
	assert.False(t, ok)
}

func TestBiome_Text(t *testing.T) {
	text, err := Beach.MarshalText()
	require.NoError(t, err)
	var b Biome
	require.NoError(t, b.UnmarshalText(text))
	assert.Equal(t, Beach, b)
	assert.Error(t, b.UnmarshalText([]byte("Swamp")))
}
