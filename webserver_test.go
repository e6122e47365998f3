package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	json "github.com/goccy/go-json"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testServer(t *testing.T) *Server {
	t.Helper()
	store, _ := seededStore(t)
	server := NewServer("localhost:0", store, zerolog.Nop())
	server.now = func() time.Time { return date(2025, time.December, 31) }
	return server
}

func doRequest(t *testing.T, server *Server, method, path string, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	server.router.ServeHTTP(rec, req)
	return rec
}

func TestServerHealth(t *testing.T) {
	rec := doRequest(t, testServer(t), http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
}

func TestServerListScenarios(t *testing.T) {
	rec := doRequest(t, testServer(t), http.MethodGet, "/api/scenarios/", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string][]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body["scenarios"], "base")
	assert.Contains(t, body["scenarios"], "cautious")
}

func TestServerForecast(t *testing.T) {
	rec := doRequest(t, testServer(t), http.MethodGet, "/api/forecast/base", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var result ForecastResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, "base", result.Scenario)
	assert.NotEmpty(t, result.Samples)
	for _, s := range result.Samples {
		assert.Equal(t, 1, s.Date.Day(), "samples land on month boundaries")
	}
}

func TestServerForecast_UnknownScenario(t *testing.T) {
	rec := doRequest(t, testServer(t), http.MethodGet, "/api/forecast/missing", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body["error"], "missing")
}

func TestServerForecastPlots(t *testing.T) {
	rec := doRequest(t, testServer(t), http.MethodGet, "/api/forecast/base/plots", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var groups []PlotGroup
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &groups))
	require.Len(t, groups, 4)

	titles := make([]string, len(groups))
	for i, g := range groups {
		titles[i] = g.Title
		require.NotEmpty(t, g.Series, "plot group %q has no series", g.Title)
		for _, series := range g.Series {
			assert.Len(t, series.Values, len(series.Dates), "series %q misaligned", series.Name)
		}
	}
	assert.Contains(t, titles, "Household net worth")
	assert.Contains(t, titles, "Withdrawals")
}

func TestServerProgress(t *testing.T) {
	rec := doRequest(t, testServer(t), http.MethodGet, "/api/progress/base", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var report ProgressReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.Equal(t, "base", report.Scenario)
	assert.NotEmpty(t, report.Savings)
}

func TestServerSaveScenario(t *testing.T) {
	server := testServer(t)

	sc := ScenarioConfig{
		Name:      "api-created",
		StartDate: "2026-01-01",
		Primary:   LifeBoundsConfig{DateOfBirth: "1964-09-14", MaxAge: 92},
		Partner:   &LifeBoundsConfig{DateOfBirth: "1967-02-06", MaxAge: 90},

		MonthlyBudget:        2500,
		BudgetInflation:      RateSchedule{2.5},
		SavingsInterest:      RateSchedule{4},
		PensionGrowth:        RateSchedule{5},
		StatePensionIncrease: RateSchedule{3},
		LastPlotYear:         2055,
	}
	payload, err := json.Marshal(sc)
	require.NoError(t, err)

	rec := doRequest(t, server, http.MethodPost, "/api/scenarios/", payload)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = doRequest(t, server, http.MethodGet, "/api/forecast/api-created", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestServerSaveScenario_RejectsInvalid(t *testing.T) {
	server := testServer(t)

	sc := ScenarioConfig{Name: "invalid", StartDate: "2026-01-01", LastPlotYear: 2050}
	payload, err := json.Marshal(sc)
	require.NoError(t, err)

	rec := doRequest(t, server, http.MethodPost, "/api/scenarios/", payload)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	// Nothing was persisted
	rec = doRequest(t, server, http.MethodGet, "/api/scenarios/invalid", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServerDeleteScenario(t *testing.T) {
	server := testServer(t)

	rec := doRequest(t, server, http.MethodDelete, "/api/scenarios/cautious", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, server, http.MethodGet, "/api/scenarios/cautious", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServerAddObservation(t *testing.T) {
	server := testServer(t)

	cfg, err := server.store.LoadConfig()
	require.NoError(t, err)
	id := cfg.SavingsAccounts[0].ID

	payload, err := json.Marshal(map[string]any{
		"account_id": id,
		"date":       "2025-12-05",
		"amount":     71000,
	})
	require.NoError(t, err)

	rec := doRequest(t, server, http.MethodPost, "/api/observations", payload)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	reloaded, err := server.store.LoadConfig()
	require.NoError(t, err)
	found := false
	for _, ac := range reloaded.SavingsAccounts {
		if ac.ID != id {
			continue
		}
		for _, obs := range ac.Observations {
			if obs.Date == "2025-12-05" && obs.Amount == 71000 {
				found = true
			}
		}
	}
	assert.True(t, found, "observation not persisted")
}

func TestServerAddObservation_BadDate(t *testing.T) {
	payload := []byte(`{"account_id":"x","date":"05/12/2025","amount":1}`)
	rec := doRequest(t, testServer(t), http.MethodPost, "/api/observations", payload)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
