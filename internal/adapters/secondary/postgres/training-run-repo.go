package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"wine-quality-service/internal/core/domain"
	ports "wine-quality-service/internal/core/ports/output"
)

const schemaDDL = `
	CREATE TABLE IF NOT EXISTS training_run (
		id              UUID PRIMARY KEY,
		experiment_name TEXT NOT NULL,
		status          TEXT NOT NULL,
		alpha           DOUBLE PRECISION NOT NULL,
		l1_ratio        DOUBLE PRECISION NOT NULL,
		rmse            DOUBLE PRECISION,
		mae             DOUBLE PRECISION,
		r2              DOUBLE PRECISION,
		error           TEXT NOT NULL DEFAULT '',
		tracking_run_id TEXT NOT NULL DEFAULT '',
		started_at      TIMESTAMPTZ NOT NULL,
		finished_at     TIMESTAMPTZ
	);
	CREATE INDEX IF NOT EXISTS training_run_started_at_idx ON training_run (started_at DESC);
`

type trainingRunRepo struct {
	pool *pgxpool.Pool
}

func NewTrainingRunRepository(pool *pgxpool.Pool) ports.TrainingRunRepository {
	return &trainingRunRepo{pool: pool}
}

// EnsureSchema creates the training_run table when it does not exist.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, schemaDDL); err != nil {
		return fmt.Errorf("ensure training_run schema: %w", err)
	}
	return nil
}

// Save inserts the run or overwrites the stored row with the same ID.
func (r *trainingRunRepo) Save(ctx context.Context, run *domain.TrainingRun) error {
	var rmse, mae, r2 *float64
	if run.Metrics != nil {
		rmse, mae, r2 = &run.Metrics.RMSE, &run.Metrics.MAE, &run.Metrics.R2
	}

	query := `
		INSERT INTO training_run
			(id, experiment_name, status, alpha, l1_ratio, rmse, mae, r2,
			 error, tracking_run_id, started_at, finished_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
		ON CONFLICT (id) DO UPDATE
		SET status=EXCLUDED.status, rmse=EXCLUDED.rmse, mae=EXCLUDED.mae, r2=EXCLUDED.r2,
			error=EXCLUDED.error, tracking_run_id=EXCLUDED.tracking_run_id,
			finished_at=EXCLUDED.finished_at
	`
	_, err := r.pool.Exec(ctx, query,
		run.ID, run.ExperimentName, string(run.Status),
		run.Params.Alpha, run.Params.L1Ratio, rmse, mae, r2,
		run.Error, run.TrackingRunID, run.StartedAt, run.FinishedAt,
	)
	if err != nil {
		return fmt.Errorf("save training run: %w", err)
	}
	return nil
}

func (r *trainingRunRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.TrainingRun, error) {
	query := `
		SELECT id, experiment_name, status, alpha, l1_ratio, rmse, mae, r2,
			   error, tracking_run_id, started_at, finished_at
		FROM training_run
		WHERE id = $1
	`
	run, err := scanRun(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRunNotFound
		}
		return nil, fmt.Errorf("get training run by id: %w", err)
	}
	return run, nil
}

func (r *trainingRunRepo) List(ctx context.Context, filter ports.RunListFilter) ([]*domain.TrainingRun, int, error) {
	conditions := []string{}
	args := []interface{}{}
	argPos := 1

	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argPos))
		args = append(args, strings.ToUpper(filter.Status))
		argPos++
	}

	whereClause := "1=1"
	if len(conditions) > 0 {
		whereClause = strings.Join(conditions, " AND ")
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM training_run WHERE %s", whereClause)
	var total int
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count training runs: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT id, experiment_name, status, alpha, l1_ratio, rmse, mae, r2,
			   error, tracking_run_id, started_at, finished_at
		FROM training_run
		WHERE %s
		ORDER BY started_at DESC
		LIMIT $%d OFFSET $%d
	`, whereClause, argPos, argPos+1)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list training runs: %w", err)
	}
	defer rows.Close()

	runs := []*domain.TrainingRun{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan training run: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate training runs: %w", err)
	}
	return runs, total, nil
}

func scanRun(row pgx.Row) (*domain.TrainingRun, error) {
	run := &domain.TrainingRun{}
	var rmse, mae, r2 *float64

	err := row.Scan(
		&run.ID, &run.ExperimentName, &run.Status,
		&run.Params.Alpha, &run.Params.L1Ratio, &rmse, &mae, &r2,
		&run.Error, &run.TrackingRunID, &run.StartedAt, &run.FinishedAt,
	)
	if err != nil {
		return nil, err
	}

	if rmse != nil && mae != nil && r2 != nil {
		run.Metrics = &domain.EvaluationMetrics{RMSE: *rmse, MAE: *mae, R2: *r2}
	}
	return run, nil
}
