package persistence

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/islandgen/internal/shape"
	"github.com/talgya/islandgen/internal/terrain"
)

func openTemp(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func smallWorld(t *testing.T, seed int64) *terrain.World {
	t.Helper()
	w, err := terrain.NewGenerator(terrain.SmallTestConfig(), shape.Radial()).Generate(seed)
	require.NoError(t, err)
	return w
}

func TestSaveRun(t *testing.T) {
	db := openTemp(t)
	w := smallWorld(t, 11)

	id, err := db.SaveRun(w)
	require.NoError(t, err)
	require.NotEmpty(t, id)

	run, err := db.GetRun(id)
	require.NoError(t, err)
	st := w.Stats()
	assert.Equal(t, w.Seed, run.Seed)
	assert.Equal(t, w.NextSeed, run.NextSeed)
	assert.Equal(t, st.Cells, run.Cells)
	assert.Equal(t, st.Islands, run.Islands)
	assert.Equal(t, st.Rivers, run.Rivers)
	assert.Contains(t, run.Config, `"polygons":300`)
	assert.False(t, run.CreatedAt.IsZero())

	biomes, err := db.RunBiomes(id)
	require.NoError(t, err)
	require.Len(t, biomes, len(st.Biomes))
	total := 0
	for i, b := range biomes {
		total += b.Cells
		if i > 0 {
			assert.GreaterOrEqual(t, biomes[i-1].Cells, b.Cells)
		}
	}
	assert.Equal(t, st.Cells, total)
}

func TestGetRun_NotFound(t *testing.T) {
	db := openTemp(t)
	_, err := db.GetRun("missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRecentRuns(t *testing.T) {
	db := openTemp(t)
	w := smallWorld(t, 1)

	var ids []string
	for i := 0; i < 3; i++ {
		id, err := db.SaveRun(w)
		require.NoError(t, err)
		ids = append(ids, id)
	}

	runs, err := db.RecentRuns(2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, ids[2], runs[0].ID)
	assert.Equal(t, ids[1], runs[1].ID)
}

func TestMeta(t *testing.T) {
	db := openTemp(t)

	_, err := db.GetMeta("nope")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, db.SaveMeta("k", "v1"))
	require.NoError(t, db.SaveMeta("k", "v2"))
	v, err := db.GetMeta("k")
	require.NoError(t, err)
	assert.Equal(t, "v2", v)
}

func TestNextSeed(t *testing.T) {
	db := openTemp(t)

	_, ok, err := db.NextSeed()
	require.NoError(t, err)
	assert.False(t, ok)

	w := smallWorld(t, 4)
	_, err = db.SaveWorld(w)
	require.NoError(t, err)

	seed, ok, err := db.NextSeed()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, w.NextSeed, seed)

	require.NoError(t, db.SaveMeta(MetaNextSeed, "garbage"))
	_, _, err = db.NextSeed()
	assert.Error(t, err)
}

func TestReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.db")
	db, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, db.SaveMeta(MetaNextSeed, "77"))
	require.NoError(t, db.Close())

	db, err = Open(path)
	require.NoError(t, err)
	defer db.Close()
	seed, ok, err := db.NextSeed()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int64(77), seed)
}
