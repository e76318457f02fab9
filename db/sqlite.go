package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const schema = `
    CREATE TABLE IF NOT EXISTS synthesis_runs (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        form TEXT NOT NULL,
        noise_std REAL NOT NULL,
        seed TEXT NOT NULL,
        samples INTEGER NOT NULL,
        x_min REAL NOT NULL,
        x_max REAL NOT NULL,
        output_path TEXT NOT NULL,
        fingerprint TEXT NOT NULL,
        residual_mean REAL,
        residual_std REAL,
        created_at DATETIME NOT NULL
    );
    CREATE TABLE IF NOT EXISTS evaluation_runs (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        input_path TEXT NOT NULL,
        fingerprint TEXT NOT NULL,
        row_count INTEGER NOT NULL,
        degree INTEGER NOT NULL,
        coefficients TEXT NOT NULL,
        r_squared REAL NOT NULL,
        r_squared_defined INTEGER NOT NULL,
        image_path TEXT NOT NULL,
        created_at DATETIME NOT NULL
    );
    CREATE INDEX IF NOT EXISTS idx_evaluation_runs_created ON evaluation_runs(created_at);
    `

// Ledger records synthesizer and evaluator runs in SQLite.
type Ledger struct {
	database *sql.DB
}

type SynthesisRun struct {
	Form         string    `json:"form"`
	NoiseStd     float64   `json:"noise_std"`
	Seed         uint64    `json:"seed"`
	Samples      int       `json:"samples"`
	XMin         float64   `json:"x_min"`
	XMax         float64   `json:"x_max"`
	OutputPath   string    `json:"output_path"`
	Fingerprint  uint64    `json:"fingerprint"`
	ResidualMean float64   `json:"residual_mean"`
	ResidualStd  float64   `json:"residual_std"`
	CreatedAt    time.Time `json:"created_at"`
}

type EvaluationRun struct {
	InputPath       string    `json:"input_path"`
	Fingerprint     uint64    `json:"fingerprint"`
	Rows            int       `json:"rows"`
	Degree          int       `json:"degree"`
	Coefficients    []float64 `json:"coefficients"`
	RSquared        float64   `json:"r_squared"`
	RSquaredDefined bool      `json:"r_squared_defined"`
	ImagePath       string    `json:"image_path"`
	CreatedAt       time.Time `json:"created_at"`
}

// Open opens (creating if needed) the ledger database at path.
func Open(path string) (*Ledger, error) {
	if path == "" {
		return nil, errors.New("ledger path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create ledger dir: %w", err)
	}

	database, err := sql.Open("sqlite3", path+"?_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open ledger: %w", err)
	}
	if _, err := database.Exec(schema); err != nil {
		database.Close()
		return nil, fmt.Errorf("create ledger tables: %w", err)
	}
	return &Ledger{database: database}, nil
}

func (l *Ledger) Close() error {
	return l.database.Close()
}

func (l *Ledger) RecordSynthesis(ctx context.Context, run SynthesisRun) error {
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}
	_, err := l.database.ExecContext(ctx, `
        INSERT INTO synthesis_runs (
            form, noise_std, seed, samples, x_min, x_max,
            output_path, fingerprint, residual_mean, residual_std, created_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.Form,
		run.NoiseStd,
		strconv.FormatUint(run.Seed, 10),
		run.Samples,
		run.XMin,
		run.XMax,
		run.OutputPath,
		formatFingerprint(run.Fingerprint),
		run.ResidualMean,
		run.ResidualStd,
		run.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("record synthesis run: %w", err)
	}
	return nil
}

func (l *Ledger) RecordEvaluation(ctx context.Context, run EvaluationRun) error {
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}
	coeffs, err := json.Marshal(run.Coefficients)
	if err != nil {
		return err
	}
	_, err = l.database.ExecContext(ctx, `
        INSERT INTO evaluation_runs (
            input_path, fingerprint, row_count, degree, coefficients,
            r_squared, r_squared_defined, image_path, created_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.InputPath,
		formatFingerprint(run.Fingerprint),
		run.Rows,
		run.Degree,
		string(coeffs),
		run.RSquared,
		run.RSquaredDefined,
		run.ImagePath,
		run.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("record evaluation run: %w", err)
	}
	return nil
}

// RecentEvaluations returns up to limit evaluation runs, newest first.
func (l *Ledger) RecentEvaluations(ctx context.Context, limit int) ([]EvaluationRun, error) {
	rows, err := l.database.QueryContext(ctx, `
        SELECT input_path, fingerprint, row_count, degree, coefficients,
               r_squared, r_squared_defined, image_path, created_at
        FROM evaluation_runs
        ORDER BY created_at DESC, id DESC
        LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	runs := make([]EvaluationRun, 0)
	for rows.Next() {
		var run EvaluationRun
		var fingerprint, coeffs string
		if err := rows.Scan(&run.InputPath, &fingerprint, &run.Rows, &run.Degree, &coeffs,
			&run.RSquared, &run.RSquaredDefined, &run.ImagePath, &run.CreatedAt); err != nil {
			return nil, err
		}
		if run.Fingerprint, err = strconv.ParseUint(fingerprint, 16, 64); err != nil {
			return nil, fmt.Errorf("fingerprint %q: %w", fingerprint, err)
		}
		if err := json.Unmarshal([]byte(coeffs), &run.Coefficients); err != nil {
			return nil, fmt.Errorf("coefficients %q: %w", coeffs, err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

func formatFingerprint(v uint64) string {
	return fmt.Sprintf("%016x", v)
}
