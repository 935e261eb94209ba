// internal/adapter/storage/report_store.go

package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"chanalytics/internal/domain/analytics"
)

// ReportStore implements storage for generated reports
type ReportStore struct {
	db *pgxpool.Pool
}

// NewReportStore creates a new report store
func NewReportStore(db *pgxpool.Pool) *ReportStore {
	return &ReportStore{
		db: db,
	}
}

// SaveReport saves a report to storage
func (s *ReportStore) SaveReport(ctx context.Context, r analytics.Report) error {
	query := `
		INSERT INTO reports (
			id, channel, best_time, video_count, prediction_fallback, generated_at, body
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7
		)
		ON CONFLICT (id) DO UPDATE
		SET
			channel = $2,
			best_time = $3,
			video_count = $4,
			prediction_fallback = $5,
			generated_at = $6,
			body = $7
	`

	if r.GeneratedAt.IsZero() {
		r.GeneratedAt = time.Now().UTC()
	}

	body, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("error marshaling report: %w", err)
	}

	_, err = s.db.Exec(
		ctx,
		query,
		r.ID,
		r.Channel,
		r.BestTime,
		len(r.VideoSentiments),
		r.PredictionFallback,
		r.GeneratedAt,
		body,
	)
	if err != nil {
		return fmt.Errorf("error executing query: %w", err)
	}

	return nil
}

// GetReport retrieves a report by ID
func (s *ReportStore) GetReport(ctx context.Context, id string) (*analytics.Report, error) {
	var body []byte

	err := s.db.QueryRow(ctx, `SELECT body FROM reports WHERE id::text = $1`, id).Scan(&body)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("report %s: %w", id, analytics.ErrNotFound)
		}
		return nil, fmt.Errorf("error querying report: %w", err)
	}

	var r analytics.Report
	if err := json.Unmarshal(body, &r); err != nil {
		return nil, fmt.Errorf("error unmarshaling report: %w", err)
	}

	return &r, nil
}

// ListReports returns the most recent report summaries for a channel
func (s *ReportStore) ListReports(ctx context.Context, channel string, limit int) ([]analytics.ReportSummary, error) {
	query := `
		SELECT id::text, channel, best_time, video_count, prediction_fallback, generated_at
		FROM reports
		WHERE channel = $1
		ORDER BY generated_at DESC
		LIMIT $2
	`

	rows, err := s.db.Query(ctx, query, channel, limit)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	summaries := []analytics.ReportSummary{}
	for rows.Next() {
		var rs analytics.ReportSummary

		err := rows.Scan(
			&rs.ID,
			&rs.Channel,
			&rs.BestTime,
			&rs.Videos,
			&rs.PredictionFallback,
			&rs.GeneratedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning report: %w", err)
		}

		summaries = append(summaries, rs)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating reports: %w", err)
	}

	return summaries, nil
}
