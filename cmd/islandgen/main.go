// Command islandgen generates a polygon-map island and optionally archives
// the run and serves it over HTTP.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/dustin/go-humanize"

	"github.com/talgya/islandgen/internal/api"
	"github.com/talgya/islandgen/internal/entropy"
	"github.com/talgya/islandgen/internal/geom"
	"github.com/talgya/islandgen/internal/graph"
	"github.com/talgya/islandgen/internal/persistence"
	"github.com/talgya/islandgen/internal/shape"
	"github.com/talgya/islandgen/internal/terrain"
)

func main() {
	def := terrain.DefaultGenConfig()

	var (
		polygons     = flag.Int("polygons", def.Polygons, "number of Voronoi sites")
		width        = flag.Float64("width", def.Size.X, "map width")
		height       = flag.Float64("height", def.Size.Y, "map height")
		relaxations  = flag.Int("relax", def.Relaxations, "Lloyd relaxation iterations")
		seed         = flag.Int64("seed", 0, "generation seed (0 = continue from the archive or pick a fresh one)")
		curve        = flag.String("curve", def.Curve, "elevation curve: linear, smoothstep, square, sqrt, redistribute")
		shapeName    = flag.String("shape", "radial", fmt.Sprintf("island shape, one of %v", shape.Names()))
		maskPath     = flag.String("mask", "", "image whose light pixels are land (overrides -shape)")
		singleIsland = flag.Bool("single-island", def.SingleIsland, "keep only the largest island")
		minIsland    = flag.Int("min-island-size", def.MinIslandSize, "sink islands with fewer cells")
		reseed       = flag.Bool("reseed", def.AutoReseed, "roll a fresh seed for the next run")
		riverSeed    = flag.Int64("river-seed", def.Rivers.Seed, "spring selection seed")
		springs      = flag.Int("springs", def.Rivers.Springs, "number of rivers")
		springMin    = flag.Float64("spring-min", def.Rivers.MinSpringElevation, "lowest spring elevation")
		springMax    = flag.Float64("spring-max", def.Rivers.MaxSpringElevation, "highest spring elevation")
		dbPath       = flag.String("db", "data/islandgen.db", "run archive path (empty = no archive)")
		history      = flag.Int("history", 0, "list this many archived runs and exit")
		port         = flag.Int("serve", 0, "serve the HTTP API on this port (0 = exit after generating)")
		verbose      = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})))

	// ── Archive ───────────────────────────────────────────────────────
	var db *persistence.DB
	if *dbPath != "" {
		if err := os.MkdirAll(filepath.Dir(*dbPath), 0755); err != nil {
			fatal("create data dir", err)
		}
		var err error
		db, err = persistence.Open(*dbPath)
		if err != nil {
			fatal("open database", err)
		}
		defer db.Close()
		slog.Info("database opened", "path", *dbPath)
	}

	if *history > 0 {
		if db == nil {
			fatal("list runs", fmt.Errorf("-history needs -db"))
		}
		printHistory(db, *history)
		return
	}

	// ── Configuration ─────────────────────────────────────────────────
	cfg := terrain.GenConfig{
		Polygons:      *polygons,
		Size:          geom.Pt(*width, *height),
		Relaxations:   *relaxations,
		Curve:         *curve,
		SingleIsland:  *singleIsland,
		MinIslandSize: *minIsland,
		AutoReseed:    *reseed,
		Rivers: terrain.RiverConfig{
			Seed:               *riverSeed,
			Springs:            *springs,
			MinSpringElevation: *springMin,
			MaxSpringElevation: *springMax,
		},
	}
	if err := cfg.Validate(); err != nil {
		fatal("invalid configuration", err)
	}

	isLand, err := shape.ByName(*shapeName)
	if *maskPath != "" {
		isLand, err = shape.LoadMask(*maskPath)
	}
	if err != nil {
		fatal("island shape", err)
	}

	if *seed == 0 {
		*seed = pickSeed(db)
	}

	// ── Generate ──────────────────────────────────────────────────────
	gen := terrain.NewGenerator(cfg, isLand)
	world, err := gen.Generate(*seed)
	if err != nil {
		fatal("generation failed", err)
	}
	logStats(world)

	var runID string
	if db != nil {
		runID, err = db.SaveWorld(world)
		if err != nil {
			fatal("archive run", err)
		}
	}

	if *port == 0 {
		return
	}

	// ── HTTP API ──────────────────────────────────────────────────────
	srv := &api.Server{
		Gen:      gen,
		DB:       db,
		Port:     *port,
		AdminKey: os.Getenv("ISLANDGEN_ADMIN_KEY"),
	}
	srv.SetWorld(world, runID)
	srv.Start()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	slog.Info("shutting down")
}

// pickSeed continues from the archived next seed, or draws a fresh one.
func pickSeed(db *persistence.DB) int64 {
	if db != nil {
		next, ok, err := db.NextSeed()
		if err != nil {
			slog.Warn("stored seed unreadable, drawing a fresh one", "error", err)
		}
		if ok && next != 0 {
			slog.Info("continuing from archived seed", "seed", next)
			return next
		}
	}
	rng := entropy.NewClient(os.Getenv("RANDOM_ORG_API_KEY"))
	s := rng.Seed()
	slog.Info("fresh seed drawn", "seed", s, "random_org", rng.Enabled())
	return s
}

func logStats(w *terrain.World) {
	st := w.Stats()
	slog.Info("hydrology",
		"land", humanize.Comma(int64(st.Land)),
		"lake", humanize.Comma(int64(st.Lake)),
		"ocean", humanize.Comma(int64(st.Ocean)),
		"coast", humanize.Comma(int64(st.Coast)),
		"river_flow", humanize.Comma(int64(st.RiverFlow)),
	)
	for _, b := range graph.AllBiomes() {
		if n := st.Biomes[b]; n > 0 {
			slog.Info("biome", "type", b, "cells", n)
		}
	}
	slog.Info("next run", "seed", w.NextSeed)
}

func printHistory(db *persistence.DB, n int) {
	runs, err := db.RecentRuns(n)
	if err != nil {
		fatal("list runs", err)
	}
	for _, r := range runs {
		fmt.Printf("%s  %s  seed=%d  islands=%d  land=%s  rivers=%d\n",
			r.CreatedAt.Format("2006-01-02 15:04:05"), r.ID, r.Seed,
			r.Islands, humanize.Comma(int64(r.Land)), r.Rivers)
	}
}

func fatal(msg string, err error) {
	slog.Error(msg, "error", err)
	os.Exit(1)
}
