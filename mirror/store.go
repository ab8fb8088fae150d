package mirror

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/crabigator-dev/wanikani-go/resource"
	"github.com/crabigator-dev/wanikani-go/srs"
)

// Store reads and writes the mirrored resource tables.
type Store struct {
	conn   *Connection
	logger *slog.Logger
}

// NewStore creates a store over an open connection.
func NewStore(conn *Connection, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{conn: conn, logger: logger}
}

// ══════════════════════════════════════════════════════════════════════════════
// SYNC
// ══════════════════════════════════════════════════════════════════════════════

// SyncRun tracks one sync pass over the API.
type SyncRun struct {
	ID         uuid.UUID
	StartedAt  time.Time
	FinishedAt *time.Time
	Upserted   int
	Status     string
	Error      *string
}

// BeginSync opens a sync run record and returns it.
func (s *Store) BeginSync(ctx context.Context) (*SyncRun, error) {
	run := &SyncRun{
		ID:        uuid.New(),
		StartedAt: time.Now().UTC(),
		Status:    "running",
	}

	_, err := s.conn.pool.Exec(ctx,
		"INSERT INTO sync_runs (id, started_at, status) VALUES ($1, $2, $3)",
		run.ID, run.StartedAt, run.Status)
	if err != nil {
		return nil, fmt.Errorf("mirror: begin sync: %w", err)
	}
	return run, nil
}

// FinishSync closes a sync run, recording the outcome.
func (s *Store) FinishSync(ctx context.Context, run *SyncRun, runErr error) error {
	now := time.Now().UTC()
	run.FinishedAt = &now
	run.Status = "completed"
	if runErr != nil {
		run.Status = "failed"
		msg := runErr.Error()
		run.Error = &msg
	}

	_, err := s.conn.pool.Exec(ctx,
		"UPDATE sync_runs SET finished_at = $2, upserted = $3, status = $4, error = $5 WHERE id = $1",
		run.ID, run.FinishedAt, run.Upserted, run.Status, run.Error)
	if err != nil {
		return fmt.Errorf("mirror: finish sync: %w", err)
	}
	return nil
}

// UpsertResources writes a batch of fetched resources, last write wins per
// (object, id). The run's upserted counter advances on success.
func (s *Store) UpsertResources(ctx context.Context, run *SyncRun, resources []resource.Resource) error {
	if len(resources) == 0 {
		return nil
	}

	err := s.conn.WithTx(ctx, func(tx pgx.Tx) error {
		for i := range resources {
			sql, args, err := upsertResourceSQL(&resources[i])
			if err != nil {
				return err
			}
			if _, err := tx.Exec(ctx, sql, args...); err != nil {
				return fmt.Errorf("upsert %s %d: %w", resources[i].Object, resources[i].ID, err)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("mirror: upsert resources: %w", err)
	}

	if run != nil {
		run.Upserted += len(resources)
	}
	s.logger.Debug("mirrored resources", "count", len(resources))
	return nil
}

// upsertResourceSQL builds the statement for one resource row.
func upsertResourceSQL(res *resource.Resource) (string, []any, error) {
	data, err := json.Marshal(res.Data)
	if err != nil {
		return "", nil, fmt.Errorf("marshal %s %d: %w", res.Object, res.ID, err)
	}

	const sql = `
		INSERT INTO resources (id, object, url, data_updated_at, data, synced_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		ON CONFLICT (object, id) DO UPDATE SET
			url = EXCLUDED.url,
			data_updated_at = EXCLUDED.data_updated_at,
			data = EXCLUDED.data,
			synced_at = EXCLUDED.synced_at`

	return sql, []any{res.ID, string(res.Object), res.URL, res.DataUpdatedAt, data}, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// RESET APPLICATION
// ══════════════════════════════════════════════════════════════════════════════

// ApplyReset persists a computed reset in a single transaction: the
// abandoned progression is closed, the opened one inserted, and every
// reverted assignment and review statistic written back. Any failure rolls
// the whole application back, keeping the mirror consistent with the
// planner's all-or-nothing contract.
//
// The opened progression has no server id yet; it is keyed by a negative
// placeholder until the next sync replaces it.
func (s *Store) ApplyReset(ctx context.Context, result *srs.ResetResult) error {
	stmts, err := resetStatements(result, newPlaceholderID())
	if err != nil {
		return err
	}

	err = s.conn.WithTx(ctx, func(tx pgx.Tx) error {
		for _, st := range stmts {
			if _, err := tx.Exec(ctx, st.sql, st.args...); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: %v", srs.ErrResetAtomicity, err)
	}

	s.logger.Info("applied reset",
		"abandoned_progression", result.Abandoned.ID,
		"target_level", result.Opened.Data.Level,
		"assignments", len(result.Assignments),
		"statistics", len(result.Statistics))
	return nil
}

// FetchResetInput gathers every record a reset between the two levels
// touches: all mirrored level progressions plus the assignments and review
// statistics whose subject level falls in [targetLevel, originalLevel]. The
// result feeds srs.PlanReset directly.
func (s *Store) FetchResetInput(ctx context.Context, targetLevel, originalLevel int) (srs.ResetInput, error) {
	var input srs.ResetInput

	rows, err := s.conn.pool.Query(ctx,
		"SELECT id, data FROM resources WHERE object = $1 ORDER BY id",
		string(resource.ObjectLevelProgression))
	if err != nil {
		return input, fmt.Errorf("mirror: fetch progressions: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var rec srs.ProgressionRecord
		var data []byte
		if err := rows.Scan(&rec.ID, &data); err != nil {
			return input, fmt.Errorf("mirror: scan progression: %w", err)
		}
		if err := json.Unmarshal(data, &rec.Data); err != nil {
			return input, fmt.Errorf("mirror: decode progression %d: %w", rec.ID, err)
		}
		input.Progressions = append(input.Progressions, rec)
	}
	if err := rows.Err(); err != nil {
		return input, fmt.Errorf("mirror: fetch progressions: %w", err)
	}

	// Assignments and review statistics carry no level of their own; the
	// level comes from the mirrored subject they reference.
	const byLevel = `
		SELECT r.id, (s.data->>'level')::int AS level, r.data
		FROM resources r
		JOIN resources s
			ON s.id = (r.data->>'subject_id')::bigint
			AND s.object IN ('radical', 'kanji', 'vocabulary', 'kana_vocabulary')
		WHERE r.object = $1 AND (s.data->>'level')::int BETWEEN $2 AND $3
		ORDER BY r.id`

	aRows, err := s.conn.pool.Query(ctx, byLevel,
		string(resource.ObjectAssignment), targetLevel, originalLevel)
	if err != nil {
		return input, fmt.Errorf("mirror: fetch assignments: %w", err)
	}
	defer aRows.Close()

	for aRows.Next() {
		var rec srs.AssignmentRecord
		var data []byte
		if err := aRows.Scan(&rec.ID, &rec.Level, &data); err != nil {
			return input, fmt.Errorf("mirror: scan assignment: %w", err)
		}
		if err := json.Unmarshal(data, &rec.Data); err != nil {
			return input, fmt.Errorf("mirror: decode assignment %d: %w", rec.ID, err)
		}
		input.Assignments = append(input.Assignments, rec)
	}
	if err := aRows.Err(); err != nil {
		return input, fmt.Errorf("mirror: fetch assignments: %w", err)
	}

	sRows, err := s.conn.pool.Query(ctx, byLevel,
		string(resource.ObjectReviewStatistic), targetLevel, originalLevel)
	if err != nil {
		return input, fmt.Errorf("mirror: fetch review statistics: %w", err)
	}
	defer sRows.Close()

	for sRows.Next() {
		var rec srs.StatisticRecord
		var data []byte
		if err := sRows.Scan(&rec.ID, &rec.Level, &data); err != nil {
			return input, fmt.Errorf("mirror: scan review statistic: %w", err)
		}
		if err := json.Unmarshal(data, &rec.Data); err != nil {
			return input, fmt.Errorf("mirror: decode review statistic %d: %w", rec.ID, err)
		}
		input.Statistics = append(input.Statistics, rec)
	}
	if err := sRows.Err(); err != nil {
		return input, fmt.Errorf("mirror: fetch review statistics: %w", err)
	}

	return input, nil
}

type statement struct {
	sql  string
	args []any
}

// resetStatements flattens a reset result into the ordered statements
// ApplyReset executes, keying the opened progression with the given
// placeholder id. Kept separate so the mapping is testable without a
// database.
func resetStatements(result *srs.ResetResult, placeholder int64) ([]statement, error) {
	const updateData = `
		UPDATE resources SET data = $3, synced_at = NOW()
		WHERE object = $1 AND id = $2`
	const insertOpened = `
		INSERT INTO resources (id, object, url, data_updated_at, data, synced_at)
		VALUES ($1, $2, '', NULL, $3, NOW())`

	stmts := make([]statement, 0, len(result.Assignments)+len(result.Statistics)+2)

	abandoned, err := json.Marshal(result.Abandoned.Data)
	if err != nil {
		return nil, fmt.Errorf("marshal abandoned progression: %w", err)
	}
	stmts = append(stmts, statement{
		sql:  updateData,
		args: []any{string(resource.ObjectLevelProgression), result.Abandoned.ID, abandoned},
	})

	opened, err := json.Marshal(result.Opened.Data)
	if err != nil {
		return nil, fmt.Errorf("marshal opened progression: %w", err)
	}
	stmts = append(stmts, statement{
		sql:  insertOpened,
		args: []any{placeholder, string(resource.ObjectLevelProgression), opened},
	})

	for i := range result.Assignments {
		data, err := json.Marshal(result.Assignments[i].Data)
		if err != nil {
			return nil, fmt.Errorf("marshal assignment %d: %w", result.Assignments[i].ID, err)
		}
		stmts = append(stmts, statement{
			sql:  updateData,
			args: []any{string(resource.ObjectAssignment), result.Assignments[i].ID, data},
		})
	}

	for i := range result.Statistics {
		data, err := json.Marshal(result.Statistics[i].Data)
		if err != nil {
			return nil, fmt.Errorf("marshal review statistic %d: %w", result.Statistics[i].ID, err)
		}
		stmts = append(stmts, statement{
			sql:  updateData,
			args: []any{string(resource.ObjectReviewStatistic), result.Statistics[i].ID, data},
		})
	}

	return stmts, nil
}

// newPlaceholderID keys an opened progression until a sync brings the real
// server id. Negated nanosecond timestamps never collide with
// server-assigned ids, which are positive, nor with each other across
// repeated resets.
func newPlaceholderID() int64 {
	return -time.Now().UnixNano()
}
