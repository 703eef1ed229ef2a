package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"icsnorm/internal/config"
	"icsnorm/internal/event"
	"icsnorm/internal/ics"
	appLog "icsnorm/internal/log"
)

// flagConfig holds CLI flag values.
type flagConfig struct {
	configPath string
	input      string
	url        string
	pretty     bool
	watch      bool
	debug      bool
}

// output is the JSON document printed for one converted source.
type output struct {
	Source      string           `json:"source,omitempty"`
	Timezone    string           `json:"timezone,omitempty"`
	Events      []event.Event    `json:"events"`
	Diagnostics []ics.Diagnostic `json:"diagnostics,omitempty"`
}

func main() {
	flags := parseFlags()
	if flags.debug {
		appLog.SetLevel(appLog.LevelDebug)
	}

	// .env file is optional.
	_ = godotenv.Load()

	envCfg, err := config.FromEnv()
	if err != nil {
		appLog.Error("failed to parse environment", err)
		os.Exit(1)
	}

	cfgPath := flags.configPath
	if cfgPath == "" {
		cfgPath = envCfg.ConfigPath
	}

	cfg := config.DefaultConfig()
	if cfgPath != "" {
		cfg, err = config.Load(cfgPath)
		if err != nil {
			appLog.Error("failed to load config", err, "config_path", cfgPath)
			os.Exit(1)
		}
	}
	envCfg.Apply(cfg)

	fallback, err := loadFallbackZone(cfg.Timezone)
	if err != nil {
		appLog.Error("invalid fallback timezone", err, "timezone", cfg.Timezone)
		os.Exit(1)
	}

	conv := ics.NewConverter(fallback)

	// Root context with cancellation on SIGINT/SIGTERM.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		appLog.Info("signal received, shutting down", "signal", sig.String())
		cancel()
	}()

	if flags.watch {
		if err := runWatch(ctx, conv, cfg, flags.pretty); err != nil {
			appLog.Error("watch mode failed", err)
			os.Exit(1)
		}
		return
	}

	if err := runOnce(ctx, conv, cfg, flags); err != nil {
		appLog.Error("conversion failed", err)
		os.Exit(1)
	}
}

func parseFlags() flagConfig {
	var cfg flagConfig

	flag.StringVar(&cfg.configPath, "config", "", "Path to config file (optional)")
	flag.StringVar(&cfg.input, "in", "", "Path to an ICS file, or '-' for stdin")
	flag.StringVar(&cfg.url, "url", "", "ICS URL to fetch and convert")
	flag.BoolVar(&cfg.pretty, "pretty", false, "Pretty-print JSON output")
	flag.BoolVar(&cfg.watch, "watch", false, "Re-fetch configured sources on the refresh schedule")
	flag.BoolVar(&cfg.debug, "debug", false, "Enable debug logging")

	flag.Parse()

	return cfg
}

// runOnce converts a single document: from -in, -url, or the configured
// sources, in that order of precedence.
func runOnce(ctx context.Context, conv *ics.Converter, cfg *config.Config, flags flagConfig) error {
	switch {
	case flags.input != "":
		body, err := readInput(flags.input)
		if err != nil {
			return err
		}
		res, err := conv.Convert(body)
		if err != nil {
			return err
		}
		return printResult(flags.input, res, flags.pretty)

	case flags.url != "":
		fetcher := ics.NewFetcher(cfg.CacheDir)
		fr, err := fetcher.FetchOne(ctx, ics.Source{ID: "cli", URL: flags.url})
		if err != nil {
			return err
		}
		res, err := conv.Convert(fr.Body)
		if err != nil {
			return err
		}
		return printResult(flags.url, res, flags.pretty)

	case len(cfg.Sources) > 0:
		return convertSources(ctx, conv, cfg, flags.pretty)

	default:
		return errors.New("nothing to convert: pass -in, -url, or configure sources")
	}
}

// runWatch keeps converting the configured sources on the refresh schedule
// until the context is canceled. One cycle runs immediately on startup.
func runWatch(ctx context.Context, conv *ics.Converter, cfg *config.Config, pretty bool) error {
	if len(cfg.Sources) == 0 {
		return errors.New("watch mode requires configured sources")
	}

	cycle := func() {
		if err := convertSources(ctx, conv, cfg, pretty); err != nil {
			appLog.Error("refresh cycle failed", err)
		}
	}
	cycle()

	c := cron.New()
	if _, err := c.AddFunc(cfg.Refresh, cycle); err != nil {
		return err
	}
	c.Start()
	appLog.Info("watch mode started", "refresh", cfg.Refresh, "source_count", len(cfg.Sources))

	<-ctx.Done()
	stop := c.Stop()
	select {
	case <-stop.Done():
	case <-time.After(5 * time.Second):
	}
	appLog.Info("watch mode stopped")
	return nil
}

func convertSources(ctx context.Context, conv *ics.Converter, cfg *config.Config, pretty bool) error {
	fetcher := ics.NewFetcher(cfg.CacheDir)

	sources := make([]ics.Source, 0, len(cfg.Sources))
	for _, s := range cfg.Sources {
		sources = append(sources, ics.Source{ID: s.ID, URL: s.URL})
	}

	results, errs := fetcher.FetchAll(ctx, sources)
	for _, fr := range results {
		res, err := conv.Convert(fr.Body)
		if err != nil {
			appLog.Error("document conversion failed", err, "id", fr.Source.ID)
			continue
		}
		if err := printResult(fr.Source.ID, res, pretty); err != nil {
			return err
		}
	}

	if len(results) == 0 && len(errs) > 0 {
		return errs[0]
	}
	return nil
}

func readInput(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

func printResult(source string, res ics.Result, pretty bool) error {
	enc := json.NewEncoder(os.Stdout)
	if pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(output{
		Source:      source,
		Timezone:    res.TimezoneID,
		Events:      res.Events,
		Diagnostics: res.Diagnostics,
	})
}

func loadFallbackZone(name string) (*time.Location, error) {
	if name == "" {
		return nil, nil
	}
	return time.LoadLocation(name)
}
