package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"sort"
	"strings"
	"time"

	"github.com/integrii/flaggy"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"soulverse/src/config"
	"soulverse/src/metrics"
	"soulverse/src/storage"
	"soulverse/src/universe"
	"soulverse/src/view"
)

//storages opens the persistence backend, the returned func closes it
var storages = map[string]func(cfg config.Config) (universe.KV, func() error, error){
	"bolt": func(cfg config.Config) (universe.KV, func() error, error) {
		s, err := storage.Open(cfg.DBPath)
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	},
	"memory": func(config.Config) (universe.KV, func() error, error) {
		return storage.NewMemoryStore(), func() error { return nil }, nil
	},
	"none": func(config.Config) (universe.KV, func() error, error) {
		return nil, func() error { return nil }, nil
	},
}

func main() {
	cfg := initOptions()

	logger, err := cfg.NewLogger()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	kv, closeKV := openStorage(cfg, logger)
	defer func() {
		if err := closeKV(); err != nil {
			logger.Warn("close storage", zap.Error(err))
		}
	}()

	rnd := rand.New(rand.NewSource(time.Now().UnixNano()))
	o := cfg.UniverseOptions(logger, kv)
	o.Rand = rnd
	u := universe.NewStore(o)

	if cfg.MetricsAddr != "" {
		stop := serveMetrics(cfg.MetricsAddr, u, logger)
		defer stop()
	}

	//the demo souls keep the universe from being empty on the first visit
	if len(u.State().Souls) == 0 && cfg.Seed > 0 {
		u.AddTemplate(universe.DemoTemplate(rnd, cfg.Seed))
		u.SettleTemplate("demo")
	}

	if cfg.Interactive {
		v := view.NewViewTerminal(rnd)
		u.RegisterViewer(v)
		v.Start()
		u.Close()
		return
	}

	c := view.NewConsoleOut()
	u.RegisterViewer(c)
	if _, ok := u.State().MySoul(); !ok {
		p := universe.Palette[rnd.Intn(len(universe.Palette))]
		u.AddSoul(universe.SoulSpec{
			Color:    p.Color,
			Message:  "I am here",
			Position: universe.RandomPosition(rnd),
			Size:     0.5,
			Speed:    1,
		})
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()
	c.Start()
	steps, err := universe.NewAutopilot(u, rnd, cfg.Interval, cfg.MaxSteps).Run(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("autopilot stopped", zap.Error(err))
	}
	logger.Info("autopilot finished", zap.Int("steps", steps))
	c.Summary()
	u.Close()
}

func initOptions() config.Config {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	storageNames := make([]string, 0, len(storages))
	for k := range storages {
		storageNames = append(storageNames, k)
	}
	sort.Strings(storageNames)

	flaggy.DefaultParser.ShowHelpOnUnexpected = true
	flaggy.String(&cfg.Storage, "b", "storage", "Storage to use ["+strings.Join(storageNames, "|")+"]")
	flaggy.String(&cfg.DBPath, "f", "db", "Path of the database file used by the bolt storage")
	flaggy.String(&cfg.PersistKey, "k", "key", "Key the universe is persisted under")
	flaggy.Bool(&cfg.Interactive, "n", "interactive", "Start interactive mode")
	flaggy.Int(&cfg.Seed, "s", "seed", "Demo souls settled into an empty universe")
	flaggy.Duration(&cfg.Interval, "i", "interval", "Autopilot speed (interval between the interactions) in format the number with 'ms' suffix, for example 150ms")
	flaggy.Int(&cfg.MaxSteps, "x", "maxSteps", "Limit the autopilot to maxSteps interactions, 0 is unlimited")
	flaggy.String(&cfg.MetricsAddr, "m", "metrics", "Serve Prometheus metrics on this address, for example :9100")
	flaggy.String(&cfg.LogLevel, "l", "logLevel", "Log level [debug|info|warn|error]")
	flaggy.String(&cfg.LogFile, "o", "logFile", "Write logs to the file instead of stderr")

	flaggy.Parse()

	if _, ok := storages[cfg.Storage]; !ok {
		flaggy.ShowHelpAndExit("unknown storage")
	}
	if err := cfg.Validate(); err != nil {
		flaggy.ShowHelpAndExit(err.Error())
	}
	return cfg
}

//openStorage falls back to the in-memory storage when the configured one is unavailable
func openStorage(cfg config.Config, logger *zap.Logger) (universe.KV, func() error) {
	kv, closeFn, err := storages[cfg.Storage](cfg)
	if err != nil {
		logger.Warn("storage is unavailable, the universe will not survive a restart",
			zap.String("storage", cfg.Storage), zap.Error(err))
		return storage.NewMemoryStore(), func() error { return nil }
	}
	return kv, closeFn
}

//serveMetrics exposes the universe metrics, the returned func shuts the server down
func serveMetrics(addr string, u universe.Universe, logger *zap.Logger) func() {
	reg := prometheus.NewRegistry()
	collector := metrics.NewCollector(reg)
	collector.Observe(u.State())
	unsubscribe := u.Subscribe(collector.Observe)

	srv := &http.Server{
		Addr:              addr,
		Handler:           metrics.SetupMetricsRoute(reg),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server", zap.Error(err))
		}
	}()
	logger.Info("metrics served", zap.String("addr", addr))

	return func() {
		unsubscribe()
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
}
