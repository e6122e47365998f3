package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Custom usage message
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `Household Drawdown Forecast

Projects how long a household's savings and pensions sustain a monthly
budget through retirement, and tracks recorded balances against earlier
predictions.

MODES:

  FORECAST (default)
    Runs the named scenario against the household data and prints a
    year-by-year projection to the console.
    - Output: balances per year, state pension income, exhaustion date

  PROGRESS (-progress flag)
    Re-runs the scenario and lines the prediction up against the balances
    actually recorded since, month by month.
    - Add -this-year to restrict the comparison to the current year
    - Output: predicted vs actual per month plus drift statistics

  SERVER (-serve flag)
    Serves the forecast engine over HTTP using the SQLite database as the
    data source. Seeds the database from the household file when empty.
    - Endpoints: /health, /api/household, /api/scenarios,
      /api/forecast/{name}, /api/forecast/{name}/plots, /api/progress/{name}

  PDF (-pdf flag)
    Writes the forecast as a printable PDF report.

Usage:
  %s [options]

Options:
`, os.Args[0])
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  %s                               Forecast the default scenario
  %s -scenario cautious            Forecast a named scenario
  %s -data my-household.yaml       Use a custom household file
  %s -progress -this-year          Compare prediction with this year's records
  %s -pdf forecast.pdf             Write the forecast as a PDF
  %s -seed -db household.db        Load the household file into SQLite
  %s -serve -addr :8093            Serve the HTTP API

Data:
  Edit the household YAML file to maintain accounts, balance observations
  and scenarios. Without -data, an embedded example household is used.

  Dates are YYYY-MM-DD. Rate lists are yearly percentages indexed from the
  scenario start year; the last value extends to all later years.
`, os.Args[0], os.Args[0], os.Args[0], os.Args[0], os.Args[0], os.Args[0], os.Args[0])
	}

	// Command line flags
	dataFile := flag.String("data", "", "Path to household YAML file (default: embedded example)")
	dbPath := flag.String("db", "household.db", "Path to SQLite database (for -seed and -serve)")
	scenarioName := flag.String("scenario", "", "Scenario to run (default: first in the file)")
	showProgress := flag.Bool("progress", false, "Compare predicted balances with recorded ones")
	thisYearOnly := flag.Bool("this-year", false, "Restrict -progress to the current calendar year")
	pdfFile := flag.String("pdf", "", "Write the forecast to this PDF file")
	seedDB := flag.Bool("seed", false, "Seed the SQLite database from the household file and exit")
	serveMode := flag.Bool("serve", false, "Start the HTTP API server")
	serveAddr := flag.String("addr", "localhost:8093", "HTTP listen address (for -serve)")
	nowOverride := flag.String("now", "", "Override today's date for -progress (YYYY-MM-DD)")
	logLevel := flag.String("log-level", "info", "Log level: debug, info, warn, error")
	logPretty := flag.Bool("log-pretty", false, "Human-readable log output")
	flag.Parse()

	// Local overrides for db path, addresses etc. may live in a .env file
	_ = godotenv.Load()
	if v := os.Getenv("DRAWDOWN_DB"); v != "" && *dbPath == "household.db" {
		*dbPath = v
	}
	if v := os.Getenv("DRAWDOWN_ADDR"); v != "" && *serveAddr == "localhost:8093" {
		*serveAddr = v
	}

	logger := NewLogger(LoggerConfig{Level: *logLevel, Pretty: *logPretty})

	now := time.Now()
	if *nowOverride != "" {
		parsed, err := time.Parse(dateLayout, *nowOverride)
		if err != nil {
			fatalf("bad -now date %q (want YYYY-MM-DD)", *nowOverride)
		}
		now = parsed
	}

	cfg, err := loadHouseholdData(*dataFile)
	if err != nil {
		fatalf("loading household data: %v", err)
	}

	if *seedDB {
		store, err := OpenStore(*dbPath)
		if err != nil {
			fatalf("opening database: %v", err)
		}
		defer store.Close()
		if err := store.SeedFromConfig(cfg); err != nil {
			fatalf("seeding database: %v", err)
		}
		fmt.Printf("Seeded %s from household data\n", *dbPath)
		return
	}

	if *serveMode {
		runServer(*dbPath, *serveAddr, cfg, logger)
		return
	}

	profile := cfg.BuildProfile()
	ledger, err := cfg.BuildLedger()
	if err != nil {
		fatalf("%v", err)
	}

	sc := pickScenario(cfg, *scenarioName)
	scenario, err := sc.BuildScenario(profile)
	if err != nil {
		fatalf("%v", err)
	}

	result, err := RunForecast(scenario, ledger, profile)
	if err != nil {
		fatalf("running forecast: %v", err)
	}

	if *pdfFile != "" {
		data, err := GenerateForecastPDF(profile, scenario, result)
		if err != nil {
			fatalf("generating PDF: %v", err)
		}
		if err := os.WriteFile(*pdfFile, data, 0644); err != nil {
			fatalf("writing PDF: %v", err)
		}
		fmt.Printf("Wrote %s\n", *pdfFile)
		return
	}

	if *showProgress {
		report := BuildProgress(result, ledger, nil, now, *thisYearOnly)
		PrintProgress(report)
		return
	}

	PrintHeader(profile, ledger, scenario)
	PrintForecast(result)
}

// loadHouseholdData loads the household file, falling back to the embedded
// example when no path is given.
func loadHouseholdData(path string) (*HouseholdConfig, error) {
	if path == "" {
		if _, err := os.Stat("household.yaml"); err == nil {
			path = "household.yaml"
		} else {
			return LoadDefaultHousehold()
		}
	}
	return LoadHousehold(path)
}

func pickScenario(cfg *HouseholdConfig, name string) *ScenarioConfig {
	if name != "" {
		sc := cfg.FindScenario(name)
		if sc == nil {
			fatalf("no scenario named %q (have %s)", name, scenarioNames(cfg))
		}
		return sc
	}
	if len(cfg.Scenarios) == 0 {
		fatalf("household data contains no scenarios")
	}
	return &cfg.Scenarios[0]
}

func scenarioNames(cfg *HouseholdConfig) string {
	names := ""
	for i, sc := range cfg.Scenarios {
		if i > 0 {
			names += ", "
		}
		names += sc.Name
	}
	return names
}

// runServer opens the store, seeds it from the household file if it is
// empty, and serves until interrupted.
func runServer(dbPath, addr string, cfg *HouseholdConfig, logger zerolog.Logger) {
	store, err := OpenStore(dbPath)
	if err != nil {
		fatalf("opening database: %v", err)
	}
	defer store.Close()

	names, err := store.ListScenarios()
	if err != nil {
		fatalf("reading database: %v", err)
	}
	if len(names) == 0 {
		if err := store.SeedFromConfig(cfg); err != nil {
			fatalf("seeding database: %v", err)
		}
	}

	server := NewServer(addr, store, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			fatalf("server error: %v", err)
		}
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("shutdown failed")
		}
	}
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
