package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // драйвер sqlite без cgo

	"coin-gauge/internal/domain/entity"
	"coin-gauge/internal/domain/port"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS reports (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	taken_at   TEXT NOT NULL,
	count      INTEGER NOT NULL,
	pass_count INTEGER NOT NULL,
	mean_mm    REAL NOT NULL,
	stddev_mm  REAL NOT NULL
);
CREATE TABLE IF NOT EXISTS measurements (
	report_id   INTEGER NOT NULL REFERENCES reports(id),
	idx         INTEGER NOT NULL,
	diameter_mm REAL NOT NULL,
	area_mm2    REAL NOT NULL,
	center_x    REAL NOT NULL,
	center_y    REAL NOT NULL,
	radius_px   REAL NOT NULL,
	passed      INTEGER NOT NULL
);
`

// SQLiteMeasurementRepository хранит историю измерений в файле sqlite.
type SQLiteMeasurementRepository struct {
	db *sql.DB
}

// NewSQLiteMeasurementRepository открывает базу и создаёт схему при необходимости.
func NewSQLiteMeasurementRepository(path string) (*SQLiteMeasurementRepository, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &SQLiteMeasurementRepository{db: db}, nil
}

// Close закрывает базу.
func (r *SQLiteMeasurementRepository) Close() error {
	return r.db.Close()
}

// SaveReport сохраняет прогон и его измерения в одной транзакции.
func (r *SQLiteMeasurementRepository) SaveReport(ctx context.Context, report *entity.GaugeReport) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO reports (taken_at, count, pass_count, mean_mm, stddev_mm) VALUES (?, ?, ?, ?, ?)`,
		report.TakenAt.UTC().Format(time.RFC3339Nano),
		report.Summary.Count,
		report.Summary.PassCount,
		report.Summary.MeanMM,
		report.Summary.StdDevMM,
	)
	if err != nil {
		return err
	}

	reportID, err := res.LastInsertId()
	if err != nil {
		return err
	}

	for _, m := range report.Measurements {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO measurements (report_id, idx, diameter_mm, area_mm2, center_x, center_y, radius_px, passed)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			reportID, m.Index, m.DiameterMM, m.AreaMM2, m.CenterX, m.CenterY, m.RadiusPX, boolToInt(m.Passed),
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// Recent возвращает последние прогоны с измерениями, новые первыми.
func (r *SQLiteMeasurementRepository) Recent(ctx context.Context, limit int) ([]entity.GaugeReport, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, taken_at, count, pass_count, mean_mm, stddev_mm
		 FROM reports ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	type reportRow struct {
		id     int64
		report entity.GaugeReport
	}

	var loaded []reportRow
	for rows.Next() {
		var row reportRow
		var takenAt string
		if err := rows.Scan(&row.id, &takenAt,
			&row.report.Summary.Count, &row.report.Summary.PassCount,
			&row.report.Summary.MeanMM, &row.report.Summary.StdDevMM); err != nil {
			return nil, err
		}
		if t, err := time.Parse(time.RFC3339Nano, takenAt); err == nil {
			row.report.TakenAt = t
		}
		loaded = append(loaded, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	reports := make([]entity.GaugeReport, 0, len(loaded))
	for _, row := range loaded {
		ms, err := r.loadMeasurements(ctx, row.id)
		if err != nil {
			return nil, err
		}
		row.report.Measurements = ms
		reports = append(reports, row.report)
	}

	return reports, nil
}

func (r *SQLiteMeasurementRepository) loadMeasurements(ctx context.Context, reportID int64) ([]entity.Measurement, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT idx, diameter_mm, area_mm2, center_x, center_y, radius_px, passed
		 FROM measurements WHERE report_id = ? ORDER BY idx`, reportID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ms []entity.Measurement
	for rows.Next() {
		var m entity.Measurement
		var passed int
		if err := rows.Scan(&m.Index, &m.DiameterMM, &m.AreaMM2, &m.CenterX, &m.CenterY, &m.RadiusPX, &passed); err != nil {
			return nil, err
		}
		m.Passed = passed != 0
		ms = append(ms, m)
	}

	return ms, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// Проверка реализации интерфейса
var _ port.MeasurementRepository = (*SQLiteMeasurementRepository)(nil)
