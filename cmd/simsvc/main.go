package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"aggrosim/internal/combat"
	"aggrosim/internal/config"
	"aggrosim/internal/util"
)

func main() {
	cfg, err := ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "parse flags: %v\n", err)
		os.Exit(2)
	}
	log, err := newLogger(cfg.Verbose)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("simsvc failed", zap.Error(err))
		_ = log.Sync()
		os.Exit(1)
	}
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	zc := zap.NewProductionConfig()
	zc.Encoding = "console"
	zc.EncoderConfig = zap.NewDevelopmentEncoderConfig()
	return zc.Build()
}

func run(ctx context.Context, cfg Config, log *zap.Logger) error {
	bundle, err := config.LoadAll(cfg.Dir)
	if err != nil {
		return err
	}
	if cfg.Runs <= 1 {
		return runSingle(cfg, bundle, log)
	}
	return runBatch(ctx, cfg, bundle, log)
}

func runSingle(cfg Config, bundle *config.Bundle, log *zap.Logger) error {
	opts := combat.Options{Seed: cfg.Seed, Log: log, Record: cfg.Events}
	if cfg.Snapshots != "" {
		f, err := os.Create(cfg.Snapshots)
		if err != nil {
			return fmt.Errorf("snapshots: %w", err)
		}
		defer f.Close()
		enc := json.NewEncoder(f)
		opts.Snapshots = func(s combat.Snapshot) {
			if err := enc.Encode(s); err != nil {
				log.Warn("snapshot write failed", zap.Error(err))
			}
		}
	}
	setup, err := combat.NewSetup(bundle, opts)
	if err != nil {
		return err
	}
	feed := setup.Sim.Queue(1024)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for ev := range feed.C() {
			switch ev.Kind {
			case combat.EventDied, combat.EventRemoved:
				log.Info(ev.Kind.String(), zap.String("who", ev.Target), zap.Float64("t", ev.T))
			}
		}
	}()
	res := setup.Run()
	feed.Close()
	<-done
	if n := feed.Dropped(); n > 0 {
		log.Debug("feed dropped events", zap.Int("n", n))
	}
	if err := os.WriteFile(cfg.Out, combat.MarshalPretty(res), 0644); err != nil {
		return fmt.Errorf("write result: %w", err)
	}
	fmt.Printf("Single simsvc finished. Winner=%s, T=%.2fs, deaths=%d -> %s\n", res.Winner, res.Duration, len(res.Deaths), cfg.Out)
	return nil
}

type batchStats struct {
	mu          sync.Mutex
	wins        map[string]int
	sumT        float64
	decisions   int
	passes      int
	byAbility   map[string]float64
	byCharacter map[string]float64
}

func (b *batchStats) add(res combat.Result) {
	b.mu.Lock()
	defer b.mu.Unlock()
	w := res.Winner
	if w == "" {
		w = "timeout"
	}
	b.wins[w]++
	b.sumT += res.Duration
	b.decisions += res.Decisions
	b.passes += res.Passes
	for k, v := range res.DamageByAbility {
		b.byAbility[k] += v
	}
	for k, v := range res.DamageByCharacter {
		b.byCharacter[k] += v
	}
}

func runBatch(ctx context.Context, cfg Config, bundle *config.Bundle, log *zap.Logger) error {
	st := &batchStats{
		wins:        map[string]int{},
		byAbility:   map[string]float64{},
		byCharacter: map[string]float64{},
	}
	runLog := zap.NewNop()
	if cfg.Verbose {
		runLog = log.Named("batch")
	}
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers)
	for i := 0; i < cfg.Runs; i++ {
		i := i
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			seed := util.Derive(cfg.Seed, i%cfg.Workers, i)
			setup, err := combat.NewSetup(bundle, combat.Options{Seed: seed, Log: runLog})
			if err != nil {
				return fmt.Errorf("run %d: %w", i, err)
			}
			st.add(setup.Run())
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	totalDmg := 0.0
	for _, v := range st.byAbility {
		totalDmg += v
	}
	percent := func(m map[string]float64) map[string]any {
		out := map[string]any{}
		for k, v := range m {
			share := 0.0
			if totalDmg > 0 {
				share = v / totalDmg
			}
			out[k] = map[string]any{"total": v, "ratio": share}
		}
		return out
	}
	n := float64(cfg.Runs)
	winRate := map[string]float64{}
	for k, v := range st.wins {
		winRate[k] = float64(v) / n
	}
	summary := map[string]any{
		"runs":          cfg.Runs,
		"win_rate":      winRate,
		"avg_time":      st.sumT / n,
		"avg_decisions": float64(st.decisions) / n,
		"avg_passes":    float64(st.passes) / n,
		"total_damage":  totalDmg,
		"by_ability":    percent(st.byAbility),
		"by_character":  percent(st.byCharacter),
	}
	if err := os.WriteFile(cfg.Out, combat.MarshalPretty(summary), 0644); err != nil {
		return fmt.Errorf("write summary: %w", err)
	}
	log.Info("batch finished", zap.Int("runs", cfg.Runs), zap.Any("win_rate", winRate))
	fmt.Printf("Batch %d done -> %s\n", cfg.Runs, filepath.Base(cfg.Out))
	return nil
}
