// Package api provides the HTTP API for inspecting the current island.
// GET endpoints are public and read-only.
// POST endpoints require a bearer token and regenerate the island.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/mux"

	"github.com/talgya/islandgen/internal/geom"
	"github.com/talgya/islandgen/internal/graph"
	"github.com/talgya/islandgen/internal/persistence"
	"github.com/talgya/islandgen/internal/terrain"
)

// Server serves the current world over HTTP.
type Server struct {
	Gen      *terrain.Generator
	DB       *persistence.DB // Optional run archive
	Port     int
	AdminKey string // Bearer token for POST endpoints. Empty = POST disabled.

	mu    sync.RWMutex
	world *terrain.World
	runID string
}

// SetWorld swaps in a new current world.
func (s *Server) SetWorld(w *terrain.World, runID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.world = w
	s.runID = runID
}

// current returns the world being served, or nil before the first run.
func (s *Server) current() (*terrain.World, string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.world, s.runID
}

// Handler builds the router with every endpoint and the CORS middleware.
func (s *Server) Handler() http.Handler {
	generateLimiter := NewRateLimiter(6, time.Minute)
	if err := generateLimiter.TrustProxies(strings.Split(os.Getenv("TRUSTED_PROXIES"), ",")...); err != nil {
		slog.Warn("ignoring TRUSTED_PROXIES", "error", err)
	}

	r := mux.NewRouter()
	v1 := r.PathPrefix("/api/v1").Subrouter()

	// Public endpoints.
	v1.HandleFunc("/status", s.handleStatus).Methods(http.MethodGet)
	v1.HandleFunc("/cells", s.withWorld(s.handleCells)).Methods(http.MethodGet)
	v1.HandleFunc("/cell/{id}", s.withWorld(s.handleCellDetail)).Methods(http.MethodGet)
	v1.HandleFunc("/corners", s.withWorld(s.handleCorners)).Methods(http.MethodGet)
	v1.HandleFunc("/edges", s.withWorld(s.handleEdges)).Methods(http.MethodGet)
	v1.HandleFunc("/islands", s.withWorld(s.handleIslands)).Methods(http.MethodGet)
	v1.HandleFunc("/rivers", s.withWorld(s.handleRivers)).Methods(http.MethodGet)
	v1.HandleFunc("/runs", s.handleRuns).Methods(http.MethodGet)
	v1.HandleFunc("/run/{id}", s.handleRunDetail).Methods(http.MethodGet)

	// Admin endpoints.
	v1.HandleFunc("/generate",
		s.adminOnly(RateLimitMiddleware(generateLimiter, s.handleGenerate)),
	).Methods(http.MethodPost)

	return corsMiddleware(r)
}

// Start begins serving the HTTP API in a goroutine.
func (s *Server) Start() {
	addr := fmt.Sprintf(":%d", s.Port)
	slog.Info("HTTP API starting", "addr", addr, "admin_auth", s.AdminKey != "", "archive", s.DB != nil)

	go func() {
		if err := http.ListenAndServe(addr, s.Handler()); err != nil {
			slog.Error("HTTP server error", "error", err)
		}
	}()
}

// corsMiddleware adds CORS headers for allowed frontend origins.
// Set CORS_ORIGINS env var to a comma-separated list of allowed origins.
// Localhost dev servers are always allowed.
func corsMiddleware(next http.Handler) http.Handler {
	allowedOrigins := map[string]bool{
		"http://localhost:5173": true,
		"http://localhost:3000": true,
	}
	if env := os.Getenv("CORS_ORIGINS"); env != "" {
		for _, origin := range strings.Split(env, ",") {
			origin = strings.TrimSpace(origin)
			if origin != "" {
				allowedOrigins[origin] = true
			}
		}
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if allowedOrigins[origin] {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// checkBearerToken returns true if the request has a valid admin bearer token.
func (s *Server) checkBearerToken(r *http.Request) bool {
	auth := r.Header.Get("Authorization")
	return strings.HasPrefix(auth, "Bearer ") && strings.TrimPrefix(auth, "Bearer ") == s.AdminKey
}

// adminOnly wraps a handler to require bearer token auth.
func (s *Server) adminOnly(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.AdminKey == "" {
			http.Error(w, "admin endpoints disabled (no ISLANDGEN_ADMIN_KEY set)", http.StatusForbidden)
			return
		}
		if !s.checkBearerToken(r) {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next(w, r)
	}
}

type worldHandler func(w http.ResponseWriter, r *http.Request, world *terrain.World)

// withWorld answers 503 until a world has been generated.
func (s *Server) withWorld(next worldHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		world, _ := s.current()
		if world == nil {
			http.Error(w, "no world generated yet", http.StatusServiceUnavailable)
			return
		}
		next(w, r, world)
	}
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	world, runID := s.current()
	if world == nil {
		writeJSON(w, map[string]any{"ready": false})
		return
	}
	writeJSON(w, map[string]any{
		"ready":     true,
		"run_id":    runID,
		"seed":      world.Seed,
		"next_seed": world.NextSeed,
		"size":      world.Graph.Size,
		"config":    world.Config,
		"stats":     world.Stats(),
	})
}

func (s *Server) handleCells(w http.ResponseWriter, r *http.Request, world *terrain.World) {
	cells := world.Graph.Cells
	if name := r.URL.Query().Get("biome"); name != "" {
		b, ok := graph.BiomeByName(name)
		if !ok {
			http.Error(w, "unknown biome", http.StatusBadRequest)
			return
		}
		filtered := []graph.Cell{}
		for _, c := range cells {
			if c.Biome == b {
				filtered = append(filtered, c)
			}
		}
		cells = filtered
	}
	writeJSON(w, cells)
}

// handleCellDetail returns one cell with its polygon and bounding edges resolved.
func (s *Server) handleCellDetail(w http.ResponseWriter, r *http.Request, world *terrain.World) {
	g := world.Graph
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid cell id", http.StatusBadRequest)
		return
	}
	if id < 0 || id >= len(g.Cells) {
		http.Error(w, "cell not found", http.StatusNotFound)
		return
	}

	c := g.Cell(id)
	polygon := make([]geom.Point, 0, len(c.Corners))
	for _, q := range c.Corners {
		polygon = append(polygon, g.Corner(q).Pos)
	}
	edges := make([]graph.Edge, 0, len(c.Borders))
	for _, e := range c.Borders {
		edges = append(edges, *g.Edge(e))
	}

	writeJSON(w, map[string]any{
		"cell":    c,
		"polygon": polygon,
		"edges":   edges,
	})
}

func (s *Server) handleCorners(w http.ResponseWriter, r *http.Request, world *terrain.World) {
	writeJSON(w, world.Graph.Corners)
}

// handleEdges lists edges; ?rivers=true keeps only edges carrying water.
func (s *Server) handleEdges(w http.ResponseWriter, r *http.Request, world *terrain.World) {
	edges := world.Graph.Edges
	if r.URL.Query().Get("rivers") == "true" {
		filtered := []graph.Edge{}
		for _, e := range edges {
			if e.WaterVolume > 0 {
				filtered = append(filtered, e)
			}
		}
		edges = filtered
	}
	writeJSON(w, edges)
}

func (s *Server) handleIslands(w http.ResponseWriter, r *http.Request, world *terrain.World) {
	islands := world.Islands
	if islands == nil {
		islands = []graph.Island{}
	}
	writeJSON(w, islands)
}

func (s *Server) handleRivers(w http.ResponseWriter, r *http.Request, world *terrain.World) {
	rivers := world.Rivers
	if rivers == nil {
		rivers = []terrain.River{}
	}
	writeJSON(w, rivers)
}

func (s *Server) handleRuns(w http.ResponseWriter, r *http.Request) {
	if s.DB == nil {
		writeJSON(w, []persistence.Run{})
		return
	}
	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}
		limit = min(n, 500)
	}
	runs, err := s.DB.RecentRuns(limit)
	if err != nil {
		slog.Error("list runs", "error", err)
		http.Error(w, "query failed", http.StatusInternalServerError)
		return
	}
	if runs == nil {
		runs = []persistence.Run{}
	}
	writeJSON(w, runs)
}

func (s *Server) handleRunDetail(w http.ResponseWriter, r *http.Request) {
	if s.DB == nil {
		http.Error(w, "no run archive", http.StatusNotFound)
		return
	}
	id := mux.Vars(r)["id"]
	run, err := s.DB.GetRun(id)
	if errors.Is(err, persistence.ErrNotFound) {
		http.Error(w, "run not found", http.StatusNotFound)
		return
	}
	if err != nil {
		slog.Error("get run", "id", id, "error", err)
		http.Error(w, "query failed", http.StatusInternalServerError)
		return
	}
	biomes, err := s.DB.RunBiomes(id)
	if err != nil {
		slog.Error("get run biomes", "id", id, "error", err)
		http.Error(w, "query failed", http.StatusInternalServerError)
		return
	}

	var cfg terrain.GenConfig
	if err := json.Unmarshal([]byte(run.Config), &cfg); err != nil {
		slog.Warn("run config unreadable", "id", id, "error", err)
	}
	writeJSON(w, map[string]any{
		"run":    run,
		"config": cfg,
		"biomes": biomes,
	})
}

// handleGenerate runs a new generation and swaps it in. The seed defaults to
// the current world's next seed; ?seed=N overrides it.
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	if s.Gen == nil {
		http.Error(w, "no generator configured", http.StatusServiceUnavailable)
		return
	}

	var seed int64
	if prev, _ := s.current(); prev != nil {
		seed = prev.NextSeed
	}
	if v := r.URL.Query().Get("seed"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			http.Error(w, "invalid seed", http.StatusBadRequest)
			return
		}
		seed = n
	}

	world, err := s.Gen.Generate(seed)
	if errors.Is(err, terrain.ErrGenerationInProgress) {
		http.Error(w, "generation already in progress", http.StatusConflict)
		return
	}
	if err != nil {
		slog.Error("generation failed", "seed", seed, "error", err)
		http.Error(w, "generation failed: "+err.Error(), http.StatusInternalServerError)
		return
	}

	var runID string
	if s.DB != nil {
		runID, err = s.DB.SaveWorld(world)
		if err != nil {
			slog.Error("archive run", "seed", seed, "error", err)
		}
	}
	s.SetWorld(world, runID)

	slog.Info("world regenerated via API", "seed", seed, "run_id", runID)
	writeJSON(w, map[string]any{
		"run_id":    runID,
		"seed":      world.Seed,
		"next_seed": world.NextSeed,
		"stats":     world.Stats(),
	})
}

func writeJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.Encode(data)
}
