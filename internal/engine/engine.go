// Package engine wires the registry, generator, worker pool and streaming
// world into a frame loop driven by an observer.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/OCharnyshevich/voxel-streamer/internal/config"
	"github.com/OCharnyshevich/voxel-streamer/internal/render"
	"github.com/OCharnyshevich/voxel-streamer/internal/streamer"
	"github.com/OCharnyshevich/voxel-streamer/internal/worker"
	"github.com/OCharnyshevich/voxel-streamer/pkg/registry"
	"github.com/OCharnyshevich/voxel-streamer/pkg/world/gen"
	"github.com/OCharnyshevich/voxel-streamer/pkg/world/gen/standard"
	"github.com/OCharnyshevich/voxel-streamer/pkg/world/scan"
)

// Observer supplies the world position the world streams around.
type Observer interface {
	Position(frame int) mgl32.Vec3
}

// Stats is a snapshot of the world taken after each frame.
type Stats struct {
	Frame         int
	LoadedChunks  int
	Meshes        int
	PendingChunks int
	PendingMeshes int
	QueuedJobs    int
	Gravity       bool
}

// Engine owns all world state. Step and Run must not be called concurrently.
type Engine struct {
	cfg     *config.Config
	log     *slog.Logger
	reg     *registry.Registry
	content *standard.Content
	gen     *gen.TerrainGenerator
	pool    *worker.Pool
	world   *streamer.Worldgen
	scanner *scan.Scanner

	frame   int
	gravity bool

	statsMu sync.Mutex
	stats   Stats
}

// New builds an engine from cfg. Startup errors, such as an invalid data
// pack, are returned before any world exists.
func New(cfg *config.Config, r render.Submitter, log *slog.Logger) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var pack *registry.DataPack
	if cfg.DataPack != "" {
		var err error
		if pack, err = registry.LoadDataPack(cfg.DataPack); err != nil {
			return nil, fmt.Errorf("load data pack: %w", err)
		}
	}

	reg := registry.New(pack)
	content, err := standard.Register(reg)
	if err != nil {
		return nil, fmt.Errorf("register content: %w", err)
	}

	height, err := newHeightSource(cfg)
	if err != nil {
		return nil, err
	}
	opts := gen.Options{
		Seed:      cfg.Seed,
		Noise:     cfg.Noise,
		MinChunkY: cfg.MinChunkY,
		MaxChunkY: cfg.MaxChunkY,
		Caves:     cfg.Caves,
	}
	if cfg.Ores {
		opts.Ores = gen.DefaultOres
	}
	generator, err := gen.NewTerrainGenerator(reg, height, opts)
	if err != nil {
		return nil, fmt.Errorf("create generator: %w", err)
	}

	pool := worker.NewPool(cfg.Workers, log)
	return &Engine{
		cfg:     cfg,
		log:     log,
		reg:     reg,
		content: content,
		gen:     generator,
		pool:    pool,
		world:   streamer.New(generator, reg, pool, r, log),
		scanner: scan.New(cfg.RenderDistance + 1),
	}, nil
}

func newHeightSource(cfg *config.Config) (gen.HeightSource, error) {
	if cfg.Terrain == "flat" {
		return gen.FlatHeight{Level: cfg.FlatLevel}, nil
	}
	base, err := gen.NewNoise(cfg.Noise, cfg.Seed)
	if err != nil {
		return nil, err
	}
	detail, err := gen.NewNoise(cfg.Noise, cfg.Seed+1)
	if err != nil {
		return nil, err
	}
	return gen.NewNoiseHeight(base, detail, cfg.HeightScale), nil
}

// Step runs one frame with the observer at pos.
func (e *Engine) Step(pos mgl32.Vec3) {
	e.scanner.SetPosition(pos)
	e.world.Update(e.scanner)

	if !e.gravity && e.world.LoadedChunkCount() > e.cfg.GravityChunkThreshold {
		e.gravity = true
		e.log.Info("gravity enabled", "loadedChunks", e.world.LoadedChunkCount())
	}

	e.frame++
	s := Stats{
		Frame:         e.frame,
		LoadedChunks:  e.world.LoadedChunkCount(),
		Meshes:        e.world.MeshCount(),
		PendingChunks: e.world.PendingChunkBuilds(),
		PendingMeshes: e.world.PendingMeshBuilds(),
		QueuedJobs:    e.pool.Queued(),
		Gravity:       e.gravity,
	}
	e.statsMu.Lock()
	e.stats = s
	e.statsMu.Unlock()

	e.log.Debug("frame",
		"frame", s.Frame,
		"loaded", s.LoadedChunks,
		"meshes", s.Meshes,
		"pendingChunks", s.PendingChunks,
		"pendingMeshes", s.PendingMeshes,
	)
}

// Run steps the world every frame interval until ctx is cancelled.
func (e *Engine) Run(ctx context.Context, obs Observer) error {
	e.log.Info("engine started",
		"seed", e.cfg.Seed,
		"renderDistance", e.cfg.RenderDistance,
		"terrain", e.cfg.Terrain,
		"noise", e.cfg.Noise,
		"blocks", e.reg.BlockCount(),
		"biomes", e.reg.BiomeCount(),
	)

	ticker := time.NewTicker(e.cfg.FrameInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			e.log.Info("engine shutting down", "frames", e.frame)
			return nil
		case <-ticker.C:
			e.Step(obs.Position(e.frame))
		}
	}
}

// Settle blocks until all background jobs finished. Results are picked up
// by the next Step.
func (e *Engine) Settle() { e.pool.Wait() }

// Close stops the worker pool.
func (e *Engine) Close() error { return e.pool.Close() }

// Stats returns the snapshot of the last frame. Safe for concurrent use.
func (e *Engine) Stats() Stats {
	e.statsMu.Lock()
	defer e.statsMu.Unlock()
	return e.stats
}

// GravityReady reports whether enough of the world is loaded for physics.
func (e *Engine) GravityReady() bool { return e.gravity }

// World returns the streaming world.
func (e *Engine) World() *streamer.Worldgen { return e.world }

// Registry returns the block and biome registry.
func (e *Engine) Registry() *registry.Registry { return e.reg }

// Content returns the registered standard content.
func (e *Engine) Content() *standard.Content { return e.content }

// Generator returns the terrain generator.
func (e *Engine) Generator() *gen.TerrainGenerator { return e.gen }
