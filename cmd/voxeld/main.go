package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"math"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/sync/errgroup"

	"github.com/OCharnyshevich/voxel-streamer/internal/config"
	"github.com/OCharnyshevich/voxel-streamer/internal/engine"
	"github.com/OCharnyshevich/voxel-streamer/internal/render"
)

func main() {
	cfg := config.DefaultConfig()

	var (
		configPath string
		path       string
		speed      float64
		statsEvery time.Duration
	)
	flag.StringVar(&configPath, "config", "", "path to a YAML config file")
	flag.Int64Var(&cfg.Seed, "seed", cfg.Seed, "world seed")
	flag.IntVar(&cfg.RenderDistance, "render-distance", cfg.RenderDistance, "render distance in chunks")
	flag.IntVar(&cfg.Workers, "workers", cfg.Workers, "background workers, 0 for one per CPU")
	flag.StringVar(&cfg.DataPack, "data-pack", cfg.DataPack, "directory with blocks.json")
	flag.StringVar(&cfg.Noise, "noise", cfg.Noise, "noise kind: perlin or simplex")
	flag.StringVar(&cfg.Terrain, "terrain", cfg.Terrain, "terrain kind: default or flat")
	flag.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level: debug, info, warn, error")
	flag.StringVar(&path, "path", "walk", "observer path: fixed, walk or orbit")
	flag.Float64Var(&speed, "speed", 4, "observer speed in voxels per frame")
	flag.DurationVar(&statsEvery, "stats", 2*time.Second, "stats log interval")
	flag.Parse()

	bootLog := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if configPath != "" {
		fromFile, err := config.Load(configPath)
		if err != nil {
			bootLog.Error("load config", "error", err)
			os.Exit(1)
		}
		explicit := make(map[string]bool)
		flag.Visit(func(f *flag.Flag) { explicit[f.Name] = true })
		config.Merge(cfg, fromFile, explicit)
	}

	level, err := config.ParseLevel(cfg.LogLevel)
	if err != nil {
		bootLog.Error("parse log level", "error", err)
		os.Exit(1)
	}
	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))

	observer, err := newObserver(path, float32(speed))
	if err != nil {
		log.Error("observer", "error", err)
		os.Exit(1)
	}

	rec := render.NewRecorder()
	eng, err := engine.New(cfg, rec, log)
	if err != nil {
		log.Error("create engine", "error", err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return eng.Run(ctx, observer) })
	g.Go(func() error {
		ticker := time.NewTicker(statsEvery)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
				s := eng.Stats()
				live, _, _ := rec.Stats()
				log.Info("stats",
					"frame", s.Frame,
					"loaded", s.LoadedChunks,
					"meshes", live,
					"quads", rec.Quads(),
					"pendingChunks", s.PendingChunks,
					"pendingMeshes", s.PendingMeshes,
					"queuedJobs", s.QueuedJobs,
					"gravity", s.Gravity,
				)
			}
		}
	})

	if err := g.Wait(); err != nil {
		log.Error("engine error", "error", err)
	}
	if err := eng.Close(); err != nil {
		log.Error("close engine", "error", err)
		os.Exit(1)
	}
}

func newObserver(kind string, speed float32) (engine.Observer, error) {
	start := mgl32.Vec3{0, 40, 0}
	switch kind {
	case "fixed":
		return engine.Fixed(start), nil
	case "walk":
		return engine.Walk{Start: start, Step: mgl32.Vec3{speed, 0, 0}}, nil
	case "orbit":
		return engine.Orbit{Center: start, Radius: 256, Period: int(2 * math.Pi * 256 / max(speed, 0.1))}, nil
	}
	return nil, fmt.Errorf("unknown path %q", kind)
}
