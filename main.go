package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"oikotie-scraper/config"
	"oikotie-scraper/db"
	"oikotie-scraper/metrics"
	"oikotie-scraper/notify"
	"oikotie-scraper/oikotie"
	"oikotie-scraper/scheduler"
	"oikotie-scraper/sheets"

	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
)

func main() {
	configPath := flag.String("config", "config.yaml", "Path to the query configuration file")
	spreadsheetURL := flag.String("spreadsheet", "", "Google Sheets URL for the sink")
	credentialsPath := flag.String("credentials", "", "Path to Google service account credentials JSON (or use GOOGLE_SHEETS_CREDENTIALS env var)")
	metricsAddr := flag.String("metrics", "", "Listen address for /metrics (empty disables)")
	once := flag.Bool("once", false, "Run a single fetch and exit")
	verbose := flag.Bool("v", false, "Enable debug logging")
	flag.Parse()

	// Optional .env for local runs; real deployments set the env directly.
	_ = godotenv.Load()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: "2006-01-02 15:04:05",
	}))
	slog.SetDefault(logger)

	cfg := loadConfig(*configPath, logger)

	spreadsheetID := sheets.ExtractSpreadsheetID(*spreadsheetURL)
	if spreadsheetID == "" {
		logger.Error("could not extract spreadsheet ID", "url", *spreadsheetURL)
		os.Exit(1)
	}

	ctx := context.Background()

	writer, err := sheets.NewWriter(ctx, spreadsheetID, *credentialsPath, logger)
	if err != nil {
		logger.Error("failed to initialize sheets writer", "err", err)
		os.Exit(1)
	}
	if err := writer.Load(ctx); err != nil {
		logger.Error("failed to load existing sheet data", "err", err)
		os.Exit(1)
	}

	var store *db.Store
	if connStr := os.Getenv("DATABASE_URL"); connStr != "" {
		store, err = db.NewStore(connStr)
		if err != nil {
			logger.Error("failed to initialize database", "err", err)
			os.Exit(1)
		}
		defer store.Close()
		logger.Info("database archive enabled")
	}

	var notifier *notify.Notifier
	if token := os.Getenv("TELEGRAM_BOT_TOKEN"); token != "" {
		chatID, err := strconv.ParseInt(os.Getenv("TELEGRAM_CHAT_ID"), 10, 64)
		if err != nil {
			logger.Error("invalid TELEGRAM_CHAT_ID", "err", err)
			os.Exit(1)
		}
		notifier, err = notify.NewNotifier(token, chatID, logger)
		if err != nil {
			logger.Error("failed to initialize telegram notifier", "err", err)
			os.Exit(1)
		}
	}

	m := metrics.NewMetrics()
	if *metricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", m.Handler())
		go func() {
			if err := http.ListenAndServe(*metricsAddr, mux); err != nil {
				logger.Error("metrics server failed", "err", err)
			}
		}()
		logger.Info("metrics server started", "addr", *metricsAddr)
	}

	task := func(ctx context.Context) error {
		m.RunsTotal.Inc()
		err := fetchHouses(ctx, cfg, writer, store, notifier, m, logger)
		if err != nil {
			m.RunErrorsTotal.Inc()
		}
		return err
	}

	if *once {
		if err := task(ctx); err != nil {
			logger.Error("fetch failed", "err", err)
			os.Exit(1)
		}
		return
	}

	sched := scheduler.NewScheduler(time.Duration(cfg.IntervalHours)*time.Hour, task, logger)
	sched.Start()
	logger.Info("scheduler started", "interval_hours", cfg.IntervalHours)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	sig := <-sigCh
	logger.Info("received signal, shutting down", "signal", sig.String())
	sched.Stop()
}

// loadConfig loads configuration from file or returns defaults.
func loadConfig(configPath string, logger *slog.Logger) *config.Config {
	if _, err := os.Stat(configPath); err != nil {
		logger.Warn("config file not found, using defaults", "path", configPath)
		return config.GetDefaultConfig()
	}
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Warn("failed to load config, using defaults", "err", err)
		return config.GetDefaultConfig()
	}
	return cfg
}

// fetchHouses runs one complete query and streams every record into
// the sink. A fresh session (and fresh credentials) is opened per run
// and released on every exit path.
func fetchHouses(ctx context.Context, cfg *config.Config, writer *sheets.Writer, store *db.Store, notifier *notify.Notifier, m *metrics.Metrics, logger *slog.Logger) error {
	session, err := oikotie.NewSession(ctx, oikotie.WithLogger(logger))
	if err != nil {
		return err
	}
	defer session.Close()

	q := oikotie.Query{
		Locations:  cfg.Query.Locations,
		HouseTypes: cfg.Query.HouseTypes,
		RoomCounts: cfg.Query.RoomCounts,
		PriceMin:   cfg.Query.PriceMin,
		PriceMax:   cfg.Query.PriceMax,
		SizeMin:    cfg.Query.SizeMin,
		SizeMax:    cfg.Query.SizeMax,
		Limit:      cfg.Query.Limit,
	}

	res, err := session.Search(ctx, q)
	if err != nil {
		return err
	}

	total, added := 0, 0
	for res.Next() {
		entry := res.Entry()
		total++

		isNew, err := writer.Insert(ctx, entry)
		if err != nil {
			return err
		}
		if store != nil {
			if err := store.SaveEntry(entry); err != nil {
				logger.Warn("failed to archive listing", "id", entry.ID, "err", err)
			}
		}
		if isNew {
			added++
			if notifier != nil {
				notifier.NotifyNewListing(entry)
			}
		}
	}

	m.PagesFetched.Add(float64(res.Pages()))
	m.EntriesTotal.Add(float64(total))
	m.NewListingsTotal.Add(float64(added))

	if err := res.Err(); err != nil {
		return err
	}
	logger.Info("fetch complete", "found", res.Found(), "entries", total, "new", added)
	return nil
}
