package main

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// Store persists the household ledger and named scenarios in SQLite.
// Accounts and their balance observations live in normalized tables;
// scenarios are stored as their YAML document keyed by name.
type Store struct {
	conn *sql.DB
	path string
}

// OpenStore opens (and if needed creates) the household database
func OpenStore(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// WAL mode for better concurrency
	conn, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := conn.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := &Store{conn: conn, path: dbPath}
	if err := store.migrate(); err != nil {
		conn.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.conn.Close()
}

func (s *Store) migrate() error {
	schema := []string{
		`CREATE TABLE IF NOT EXISTS accounts (
			id TEXT PRIMARY KEY,
			kind TEXT NOT NULL CHECK (kind IN ('savings', 'private_pension', 'state_pension')),
			name TEXT NOT NULL,
			provider TEXT NOT NULL DEFAULT '',
			owner TEXT NOT NULL,
			open_date TEXT NOT NULL DEFAULT '',
			active INTEGER NOT NULL DEFAULT 1,
			include_in_net_worth INTEGER NOT NULL DEFAULT 1,
			state_pension_start TEXT NOT NULL DEFAULT '',
			notes TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE TABLE IF NOT EXISTS observations (
			account_id TEXT NOT NULL REFERENCES accounts(id) ON DELETE CASCADE,
			date TEXT NOT NULL,
			amount REAL NOT NULL,
			PRIMARY KEY (account_id, date)
		)`,
		`CREATE TABLE IF NOT EXISTS scenarios (
			name TEXT PRIMARY KEY,
			payload TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS profile (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			primary_name TEXT NOT NULL,
			partner_name TEXT NOT NULL DEFAULT ''
		)`,
	}
	for _, stmt := range schema {
		if _, err := s.conn.Exec(stmt); err != nil {
			return fmt.Errorf("failed to run migration: %w", err)
		}
	}
	return nil
}

// SeedFromConfig replaces the stored household with the contents of a
// household file. Accounts without an id are assigned one.
func (s *Store) SeedFromConfig(cfg *HouseholdConfig) error {
	tx, err := s.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, stmt := range []string{
		`DELETE FROM observations`, `DELETE FROM accounts`,
		`DELETE FROM scenarios`, `DELETE FROM profile`,
	} {
		if _, err := tx.Exec(stmt); err != nil {
			return err
		}
	}

	if _, err := tx.Exec(
		`INSERT INTO profile (id, primary_name, partner_name) VALUES (1, ?, ?)`,
		cfg.Profile.Primary, cfg.Profile.Partner,
	); err != nil {
		return err
	}

	for _, ac := range cfg.SavingsAccounts {
		id := ac.ID
		if id == "" {
			id = uuid.NewString()
		}
		if _, err := tx.Exec(
			`INSERT INTO accounts (id, kind, name, provider, owner, open_date, active, include_in_net_worth, notes)
			 VALUES (?, 'savings', ?, ?, ?, ?, ?, ?, ?)`,
			id, ac.Name, ac.Provider, ac.Owner, ac.OpenDate,
			boolToInt(ac.Active), boolToInt(ac.IncludeInNetWorth), ac.Notes,
		); err != nil {
			return fmt.Errorf("failed to insert account %s: %w", ac.Name, err)
		}
		if err := insertObservations(tx, id, ac.Observations); err != nil {
			return err
		}
	}

	for _, pc := range cfg.Pensions {
		id := pc.ID
		if id == "" {
			id = uuid.NewString()
		}
		kind, provider := "private_pension", pc.Provider
		if pc.StatePension {
			kind, provider = "state_pension", StatePensionProvider
		}
		if _, err := tx.Exec(
			`INSERT INTO accounts (id, kind, name, provider, owner, state_pension_start, notes)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			id, kind, pc.Name, provider, pc.Owner, pc.StatePensionStart, pc.Notes,
		); err != nil {
			return fmt.Errorf("failed to insert pension %s: %w", pc.Name, err)
		}
		if err := insertObservations(tx, id, pc.Observations); err != nil {
			return err
		}
	}

	for i := range cfg.Scenarios {
		if err := saveScenarioTx(tx, &cfg.Scenarios[i]); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	log.Info().
		Int("savings_accounts", len(cfg.SavingsAccounts)).
		Int("pensions", len(cfg.Pensions)).
		Int("scenarios", len(cfg.Scenarios)).
		Msg("seeded household database")
	return nil
}

func insertObservations(tx *sql.Tx, accountID string, rows []ObservationConfig) error {
	for _, row := range rows {
		if _, err := tx.Exec(
			`INSERT INTO observations (account_id, date, amount) VALUES (?, ?, ?)`,
			accountID, row.Date, row.Amount,
		); err != nil {
			return fmt.Errorf("failed to insert observation for %s: %w", accountID, err)
		}
	}
	return nil
}

// AddObservation records a new dated balance for an account
func (s *Store) AddObservation(accountID string, date time.Time, amount float64) error {
	_, err := s.conn.Exec(
		`INSERT INTO observations (account_id, date, amount) VALUES (?, ?, ?)
		 ON CONFLICT (account_id, date) DO UPDATE SET amount = excluded.amount`,
		accountID, date.Format(dateLayout), amount,
	)
	return err
}

// LoadConfig reads the stored household back into file form. The result is
// what BuildLedger and BuildScenario consume, so the store and the YAML file
// are interchangeable data sources.
func (s *Store) LoadConfig() (*HouseholdConfig, error) {
	cfg := &HouseholdConfig{}

	err := s.conn.QueryRow(`SELECT primary_name, partner_name FROM profile WHERE id = 1`).
		Scan(&cfg.Profile.Primary, &cfg.Profile.Partner)
	if err != nil && err != sql.ErrNoRows {
		return nil, err
	}

	rows, err := s.conn.Query(
		`SELECT id, kind, name, provider, owner, open_date, active, include_in_net_worth, state_pension_start, notes
		 FROM accounts ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id, kind, name, provider, owner, openDate, spStart, notes string
			active, include                                           int
		)
		if err := rows.Scan(&id, &kind, &name, &provider, &owner, &openDate, &active, &include, &spStart, &notes); err != nil {
			return nil, err
		}
		observations, err := s.loadObservations(id)
		if err != nil {
			return nil, err
		}
		switch kind {
		case "savings":
			cfg.SavingsAccounts = append(cfg.SavingsAccounts, SavingsAccountConfig{
				ID: id, Name: name, Provider: provider, Owner: owner,
				OpenDate: openDate, Active: active != 0, IncludeInNetWorth: include != 0,
				Observations: observations, Notes: notes,
			})
		case "private_pension", "state_pension":
			cfg.Pensions = append(cfg.Pensions, PensionConfig{
				ID: id, Name: name, StatePension: kind == "state_pension",
				Provider: provider, Owner: owner, StatePensionStart: spStart,
				Observations: observations, Notes: notes,
			})
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	names, err := s.ListScenarios()
	if err != nil {
		return nil, err
	}
	for _, name := range names {
		sc, err := s.LoadScenario(name)
		if err != nil {
			return nil, err
		}
		cfg.Scenarios = append(cfg.Scenarios, *sc)
	}
	return cfg, nil
}

func (s *Store) loadObservations(accountID string) ([]ObservationConfig, error) {
	rows, err := s.conn.Query(
		`SELECT date, amount FROM observations WHERE account_id = ? ORDER BY date`, accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ObservationConfig
	for rows.Next() {
		var row ObservationConfig
		if err := rows.Scan(&row.Date, &row.Amount); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// SaveScenario creates or replaces a named scenario
func (s *Store) SaveScenario(sc *ScenarioConfig) error {
	tx, err := s.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if err := saveScenarioTx(tx, sc); err != nil {
		return err
	}
	return tx.Commit()
}

func saveScenarioTx(tx *sql.Tx, sc *ScenarioConfig) error {
	if sc.Name == "" {
		return invalidScenario("name", "scenario name is required")
	}
	payload, err := yaml.Marshal(sc)
	if err != nil {
		return err
	}
	_, err = tx.Exec(
		`INSERT INTO scenarios (name, payload, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT (name) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at`,
		sc.Name, string(payload), time.Now().UTC().Format(time.RFC3339),
	)
	return err
}

// LoadScenario returns the named scenario, or an error if it does not exist
func (s *Store) LoadScenario(name string) (*ScenarioConfig, error) {
	var payload string
	err := s.conn.QueryRow(`SELECT payload FROM scenarios WHERE name = ?`, name).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, invalidScenario("name", "no scenario named %q", name)
	}
	if err != nil {
		return nil, err
	}
	var sc ScenarioConfig
	if err := yaml.Unmarshal([]byte(payload), &sc); err != nil {
		return nil, fmt.Errorf("failed to decode scenario %s: %w", name, err)
	}
	return &sc, nil
}

// DeleteScenario removes a named scenario
func (s *Store) DeleteScenario(name string) error {
	res, err := s.conn.Exec(`DELETE FROM scenarios WHERE name = ?`, name)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return invalidScenario("name", "no scenario named %q", name)
	}
	return nil
}

// ListScenarios returns the stored scenario names in order
func (s *Store) ListScenarios() ([]string, error) {
	rows, err := s.conn.Query(`SELECT name FROM scenarios ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
