package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"dough-vision/internal/domain/entity"
	"dough-vision/internal/domain/port"
)

// SQLiteResultRepository хранит историю проверок в SQLite
type SQLiteResultRepository struct {
	db *sql.DB
}

// NewSQLiteResultRepository открывает базу и применяет миграции
func NewSQLiteResultRepository(path string) (*SQLiteResultRepository, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=ON",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}

	if err := migrateUp(db); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLiteResultRepository{db: db}, nil
}

// Record сохраняет результат и его измерения в одной транзакции
func (r *SQLiteResultRepository) Record(ctx context.Context, result *entity.InspectionResult) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO inspections (
			id, created_at, image_width, image_height, scale, total, pass_count, reject_count,
			expected_count, count_ok, detected_pixels, ignored_pixels, elapsed_ms, message
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		result.ID, result.CreatedAt.UnixNano(), result.ImageWidth, result.ImageHeight, result.Scale,
		result.Total(), result.PassCount, result.RejectCount, result.ExpectedCount, result.CountOK,
		result.DetectedPixels, result.IgnoredPixels, result.Elapsed.Milliseconds(), result.Message,
	)
	if err != nil {
		return fmt.Errorf("insert inspection %s: %w", result.ID, err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO measurements (
			inspection_id, idx, center_x, center_y, angle, length_px, width_px,
			length_mm, width_mm, pass, failure_reason
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, m := range result.Measurements {
		_, err := stmt.ExecContext(ctx,
			result.ID, i, m.Box.Center.X, m.Box.Center.Y, m.Box.Angle, m.LengthPx, m.WidthPx,
			m.LengthMm, m.WidthMm, m.Pass, m.FailureReason.String(),
		)
		if err != nil {
			return fmt.Errorf("insert measurement %d of %s: %w", i, result.ID, err)
		}
	}

	return tx.Commit()
}

// Recent возвращает последние проверки, новые первыми
func (r *SQLiteResultRepository) Recent(ctx context.Context, limit int) ([]entity.InspectionSummary, error) {
	if limit <= 0 {
		return nil, nil
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, created_at, total, pass_count, reject_count, count_ok
		FROM inspections
		ORDER BY created_at DESC, rowid DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []entity.InspectionSummary
	for rows.Next() {
		var s entity.InspectionSummary
		var createdAt int64
		if err := rows.Scan(&s.ID, &createdAt, &s.Total, &s.PassCount, &s.RejectCount, &s.CountOK); err != nil {
			return nil, err
		}
		s.CreatedAt = time.Unix(0, createdAt)
		out = append(out, s)
	}
	return out, rows.Err()
}

// Close закрывает базу
func (r *SQLiteResultRepository) Close() error {
	return r.db.Close()
}

// Проверка реализации интерфейса
var _ port.ResultRepository = (*SQLiteResultRepository)(nil)
