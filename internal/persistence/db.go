// Package persistence provides the SQLite run archive: one row per generated
// world, its biome histogram, and a small key-value table for state that
// carries over between runs.
package persistence

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/talgya/islandgen/internal/terrain"
)

// MetaNextSeed is the world_meta key holding the seed for the next run.
const MetaNextSeed = "next_seed"

// ErrNotFound is returned when a run or metadata key does not exist.
var ErrNotFound = errors.New("persistence: not found")

// DB wraps a SQLite connection for the run archive.
type DB struct {
	conn *sqlx.DB
}

// Run is one archived generation.
type Run struct {
	ID        string    `db:"id" json:"id"`
	Seed      int64     `db:"seed" json:"seed"`
	NextSeed  int64     `db:"next_seed" json:"next_seed"`
	Cells     int       `db:"cells" json:"cells"`
	Corners   int       `db:"corners" json:"corners"`
	Edges     int       `db:"edges" json:"edges"`
	Islands   int       `db:"islands" json:"islands"`
	Discarded int       `db:"discarded" json:"discarded"`
	Rivers    int       `db:"rivers" json:"rivers"`
	Land      int       `db:"land" json:"land"`
	Coast     int       `db:"coast" json:"coast"`
	Config    string    `db:"config_json" json:"-"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// BiomeRow is one bar of a run's biome histogram.
type BiomeRow struct {
	Biome string `db:"biome" json:"biome"`
	Cells int    `db:"cells" json:"cells"`
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		seed INTEGER NOT NULL,
		next_seed INTEGER NOT NULL,
		cells INTEGER NOT NULL,
		corners INTEGER NOT NULL,
		edges INTEGER NOT NULL,
		islands INTEGER NOT NULL,
		discarded INTEGER NOT NULL,
		rivers INTEGER NOT NULL,
		land INTEGER NOT NULL,
		coast INTEGER NOT NULL,
		config_json TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL
	);

	CREATE TABLE IF NOT EXISTS run_biomes (
		run_id TEXT NOT NULL REFERENCES runs(id),
		biome TEXT NOT NULL,
		cells INTEGER NOT NULL,
		PRIMARY KEY (run_id, biome)
	);

	CREATE TABLE IF NOT EXISTS world_meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// SaveRun archives a finished world and returns the new run ID.
func (db *DB) SaveRun(w *terrain.World) (string, error) {
	st := w.Stats()
	cfgJSON, err := json.Marshal(w.Config)
	if err != nil {
		return "", fmt.Errorf("encode config: %w", err)
	}

	tx, err := db.conn.Beginx()
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	run := Run{
		ID:        uuid.NewString(),
		Seed:      w.Seed,
		NextSeed:  w.NextSeed,
		Cells:     st.Cells,
		Corners:   st.Corners,
		Edges:     st.Edges,
		Islands:   st.Islands,
		Discarded: st.Discarded,
		Rivers:    st.Rivers,
		Land:      st.Land,
		Coast:     st.Coast,
		Config:    string(cfgJSON),
		CreatedAt: time.Now().UTC(),
	}
	_, err = tx.NamedExec(`INSERT INTO runs
		(id, seed, next_seed, cells, corners, edges, islands, discarded,
		 rivers, land, coast, config_json, created_at)
		VALUES (:id, :seed, :next_seed, :cells, :corners, :edges, :islands, :discarded,
		 :rivers, :land, :coast, :config_json, :created_at)`, run)
	if err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}

	stmt, err := tx.Preparex("INSERT INTO run_biomes (run_id, biome, cells) VALUES (?, ?, ?)")
	if err != nil {
		return "", err
	}
	defer stmt.Close()

	for b, n := range st.Biomes {
		if _, err := stmt.Exec(run.ID, b.String(), n); err != nil {
			return "", fmt.Errorf("insert biome %s: %w", b, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", err
	}

	slog.Info("run archived", "id", run.ID, "seed", run.Seed, "biomes", len(st.Biomes))
	return run.ID, nil
}

// RecentRuns returns the most recent runs, newest first.
func (db *DB) RecentRuns(limit int) ([]Run, error) {
	var runs []Run
	err := db.conn.Select(&runs,
		"SELECT * FROM runs ORDER BY rowid DESC LIMIT ?",
		limit,
	)
	return runs, err
}

// GetRun returns one archived run.
func (db *DB) GetRun(id string) (*Run, error) {
	var run Run
	err := db.conn.Get(&run, "SELECT * FROM runs WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("run %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &run, nil
}

// RunBiomes returns the biome histogram of a run, largest first.
func (db *DB) RunBiomes(id string) ([]BiomeRow, error) {
	var rows []BiomeRow
	err := db.conn.Select(&rows,
		"SELECT biome, cells FROM run_biomes WHERE run_id = ? ORDER BY cells DESC, biome",
		id,
	)
	return rows, err
}

// SaveMeta stores a key-value pair in world metadata.
func (db *DB) SaveMeta(key, value string) error {
	_, err := db.conn.Exec(
		"INSERT OR REPLACE INTO world_meta (key, value) VALUES (?, ?)",
		key, value,
	)
	return err
}

// GetMeta retrieves a metadata value.
func (db *DB) GetMeta(key string) (string, error) {
	var value string
	err := db.conn.Get(&value, "SELECT value FROM world_meta WHERE key = ?", key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("meta %q: %w", key, ErrNotFound)
	}
	return value, err
}

// NextSeed returns the seed stored by the previous run, if any.
func (db *DB) NextSeed() (int64, bool, error) {
	v, err := db.GetMeta(MetaNextSeed)
	if errors.Is(err, ErrNotFound) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	seed, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, false, fmt.Errorf("parse %s: %w", MetaNextSeed, err)
	}
	return seed, true, nil
}

// SaveWorld archives w and remembers its next seed.
func (db *DB) SaveWorld(w *terrain.World) (string, error) {
	id, err := db.SaveRun(w)
	if err != nil {
		return "", fmt.Errorf("save run: %w", err)
	}
	if err := db.SaveMeta(MetaNextSeed, strconv.FormatInt(w.NextSeed, 10)); err != nil {
		return "", fmt.Errorf("save meta: %w", err)
	}
	return id, nil
}
