package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/greencart/greencart/internal/domain"
)

// historyLimit is how many past reports are kept; older entries are pruned
// on save.
const historyLimit = 10

type ReportStore struct {
	db *sql.DB
}

func NewReportStore(db *sql.DB) *ReportStore {
	return &ReportStore{db: db}
}

// Save records one generated report in the history and prunes entries beyond
// the most recent historyLimit.
func (s *ReportStore) Save(ctx context.Context, report *domain.ShoppingReport, profile domain.ShoppingProfile, items []string) (*domain.SavedReport, error) {
	itemsJSON, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal items: %w", err)
	}

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO reports (generated_at, people, diet, budget, sustainability_score, summary, items)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, report.GeneratedAt, profile.People, profile.Diet, profile.Budget,
		report.SustainabilityScore, report.Summary, string(itemsJSON))
	if err != nil {
		return nil, fmt.Errorf("failed to save report: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get last insert id: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		DELETE FROM reports WHERE id NOT IN (
			SELECT id FROM reports ORDER BY id DESC LIMIT ?
		)
	`, historyLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to prune report history: %w", err)
	}

	return s.GetByID(ctx, id)
}

func (s *ReportStore) GetByID(ctx context.Context, id int64) (*domain.SavedReport, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, generated_at, people, diet, budget, sustainability_score, summary, items
		FROM reports WHERE id = ?
	`, id)

	saved, err := scanReport(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get report: %w", err)
	}
	return saved, nil
}

// ListRecent returns the saved history, newest first.
func (s *ReportStore) ListRecent(ctx context.Context) ([]*domain.SavedReport, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, generated_at, people, diet, budget, sustainability_score, summary, items
		FROM reports ORDER BY id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			slog.Error("failed to close rows", "error", err)
		}
	}()

	var reports []*domain.SavedReport
	for rows.Next() {
		saved, err := scanReport(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan report: %w", err)
		}
		reports = append(reports, saved)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating reports: %w", err)
	}

	return reports, nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanReport(row scanner) (*domain.SavedReport, error) {
	saved := &domain.SavedReport{}
	var itemsJSON string

	err := row.Scan(&saved.ID, &saved.GeneratedAt, &saved.People, &saved.Diet,
		&saved.Budget, &saved.SustainabilityScore, &saved.Summary, &itemsJSON)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(itemsJSON), &saved.Items); err != nil {
		return nil, fmt.Errorf("failed to unmarshal items: %w", err)
	}
	return saved, nil
}
