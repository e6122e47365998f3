package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	json "github.com/goccy/go-json"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"
)

// Server exposes the forecast engine over HTTP. All state lives in the
// store; every request rebuilds the ledger from it, so concurrent requests
// never share mutable data.
type Server struct {
	router *chi.Mux
	server *http.Server
	log    zerolog.Logger
	store  *Store
	now    func() time.Time
}

// NewServer creates the HTTP server on the given address
func NewServer(addr string, store *Store, logger zerolog.Logger) *Server {
	s := &Server{
		router: chi.NewRouter(),
		log:    logger.With().Str("component", "server").Logger(),
		store:  store,
		now:    time.Now,
	}

	s.setupMiddleware()
	s.setupRoutes()

	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.loggingMiddleware)
	s.router.Use(middleware.Timeout(60 * time.Second))

	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))
}

func (s *Server) setupRoutes() {
	s.router.Get("/health", s.handleHealth)

	s.router.Route("/api", func(r chi.Router) {
		r.Get("/household", s.handleHousehold)
		r.Post("/observations", s.handleAddObservation)

		r.Route("/scenarios", func(r chi.Router) {
			r.Get("/", s.handleListScenarios)
			r.Post("/", s.handleSaveScenario)
			r.Get("/{name}", s.handleGetScenario)
			r.Delete("/{name}", s.handleDeleteScenario)
		})

		r.Get("/forecast/{name}", s.handleForecast)
		r.Get("/forecast/{name}/plots", s.handleForecastPlots)
		r.Get("/progress/{name}", s.handleProgress)
	})
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.log.Info().Str("addr", s.server.Addr).Msg("starting HTTP server")
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info().Msg("shutting down HTTP server")
	return s.server.Shutdown(ctx)
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("duration_ms", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("HTTP request")
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error().Err(err).Msg("failed to encode response")
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	var scenarioErr *ScenarioError
	var accountErr *AccountDataError
	switch {
	case errors.As(err, &scenarioErr), errors.As(err, &accountErr):
		status = http.StatusBadRequest
	}
	s.writeJSON(w, status, map[string]string{"error": err.Error()})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleHousehold(w http.ResponseWriter, r *http.Request) {
	cfg, err := s.store.LoadConfig()
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, cfg)
}

func (s *Server) handleAddObservation(w http.ResponseWriter, r *http.Request) {
	var req struct {
		AccountID string  `json:"account_id"`
		Date      string  `json:"date"`
		Amount    float64 `json:"amount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		s.writeError(w, invalidAccount(req.AccountID, "bad date %q (want YYYY-MM-DD)", req.Date))
		return
	}
	if err := s.store.AddObservation(req.AccountID, date, req.Amount); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, map[string]string{"status": "recorded"})
}

func (s *Server) handleListScenarios(w http.ResponseWriter, r *http.Request) {
	names, err := s.store.ListScenarios()
	if err != nil {
		s.writeError(w, err)
		return
	}
	if names == nil {
		names = []string{}
	}
	s.writeJSON(w, http.StatusOK, map[string][]string{"scenarios": names})
}

func (s *Server) handleSaveScenario(w http.ResponseWriter, r *http.Request) {
	var sc ScenarioConfig
	if err := json.NewDecoder(r.Body).Decode(&sc); err != nil {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	// Reject a scenario that can never run before persisting it
	cfg, err := s.store.LoadConfig()
	if err != nil {
		s.writeError(w, err)
		return
	}
	if _, err := sc.BuildScenario(cfg.BuildProfile()); err != nil {
		s.writeError(w, err)
		return
	}
	if err := s.store.SaveScenario(&sc); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, map[string]string{"status": "saved", "name": sc.Name})
}

func (s *Server) handleGetScenario(w http.ResponseWriter, r *http.Request) {
	sc, err := s.store.LoadScenario(chi.URLParam(r, "name"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, sc)
}

func (s *Server) handleDeleteScenario(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteScenario(chi.URLParam(r, "name")); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// runScenario loads everything a forecast needs from the store and runs it
func (s *Server) runScenario(name string) (ForecastResult, *Ledger, error) {
	cfg, err := s.store.LoadConfig()
	if err != nil {
		return ForecastResult{}, nil, err
	}
	sc := cfg.FindScenario(name)
	if sc == nil {
		return ForecastResult{}, nil, invalidScenario("name", "no scenario named %q", name)
	}
	profile := cfg.BuildProfile()
	ledger, err := cfg.BuildLedger()
	if err != nil {
		return ForecastResult{}, nil, err
	}
	scenario, err := sc.BuildScenario(profile)
	if err != nil {
		return ForecastResult{}, nil, err
	}
	result, err := RunForecast(scenario, ledger, profile)
	if err != nil {
		return ForecastResult{}, nil, err
	}
	return result, ledger, nil
}

func (s *Server) handleForecast(w http.ResponseWriter, r *http.Request) {
	result, _, err := s.runScenario(chi.URLParam(r, "name"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, result)
}

// PlotSeries is one named line of (date, value) points
type PlotSeries struct {
	Name   string    `json:"name"`
	Dates  []string  `json:"dates"`
	Values []float64 `json:"values"`
}

// PlotGroup is one chart with one or more series
type PlotGroup struct {
	Title  string       `json:"title"`
	Series []PlotSeries `json:"series"`
}

func (s *Server) handleForecastPlots(w http.ResponseWriter, r *http.Request) {
	result, ledger, err := s.runScenario(chi.URLParam(r, "name"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, buildPlotGroups(result, ledger, s.now()))
}

// buildPlotGroups shapes a forecast into the four standard charts: net
// worth, income versus budget, savings interest, and withdrawals.
func buildPlotGroups(result ForecastResult, ledger *Ledger, now time.Time) []PlotGroup {
	n := len(result.Samples)
	dates := make([]string, n)
	pick := func(f func(SimulationSample) float64) []float64 {
		out := make([]float64, n)
		for i, sample := range result.Samples {
			out[i] = f(sample)
		}
		return out
	}
	for i, sample := range result.Samples {
		dates[i] = sample.Date.Format(dateLayout)
	}

	worth := PlotGroup{
		Title: "Household net worth",
		Series: []PlotSeries{
			{Name: "Savings", Dates: dates, Values: pick(func(v SimulationSample) float64 { return v.Savings })},
			{Name: "Pensions", Dates: dates, Values: pick(func(v SimulationSample) float64 { return v.Pension })},
			{Name: "Total", Dates: dates, Values: pick(func(v SimulationSample) float64 { return v.Total })},
		},
	}
	income := PlotGroup{
		Title: "Budget and income",
		Series: []PlotSeries{
			{Name: "Monthly budget", Dates: dates, Values: pick(func(v SimulationSample) float64 { return v.Budget })},
			{Name: "State pension income", Dates: dates, Values: pick(func(v SimulationSample) float64 { return v.StatePensionIncome })},
		},
	}
	interest := PlotGroup{
		Title: "Savings interest",
		Series: []PlotSeries{
			{Name: "Interest credited", Dates: dates, Values: pick(func(v SimulationSample) float64 { return v.SavingsInterest })},
		},
	}
	withdrawals := PlotGroup{
		Title: "Withdrawals",
		Series: []PlotSeries{
			{Name: "From savings", Dates: dates, Values: pick(func(v SimulationSample) float64 { return v.SavingsWithdrawal })},
			{Name: "From pensions", Dates: dates, Values: pick(func(v SimulationSample) float64 { return v.PensionWithdrawal })},
		},
	}

	// Overlay observed balances on the net worth chart where data exists
	progress := BuildProgress(result, ledger, nil, now, false)
	var actualDates []string
	var actualValues []float64
	for _, point := range progress.Savings {
		if !point.Actual.Valid {
			continue
		}
		actualDates = append(actualDates, point.Date.Format(dateLayout))
		actualValues = append(actualValues, point.Actual.Value)
	}
	if len(actualDates) > 0 {
		worth.Series = append(worth.Series, PlotSeries{
			Name: "Savings (actual)", Dates: actualDates, Values: actualValues,
		})
	}

	return []PlotGroup{worth, income, interest, withdrawals}
}

func (s *Server) handleProgress(w http.ResponseWriter, r *http.Request) {
	result, ledger, err := s.runScenario(chi.URLParam(r, "name"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	thisYear := r.URL.Query().Get("this_year") == "true"
	report := BuildProgress(result, ledger, nil, s.now(), thisYear)
	s.writeJSON(w, http.StatusOK, report)
}
