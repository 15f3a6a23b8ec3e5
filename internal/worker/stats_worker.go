package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/learnifyhq/learnify-backend/internal/config"
)

const (
	StatsBatchSize    = 50
	StatsBatchTimeout = 2 * time.Second
	StatsPollTimeout  = 1 * time.Second
)

// StatsWorker drains the quiz stats queue and folds each submitted score
// into the per-quiz aggregate row. Attempts themselves are written
// synchronously on submission; only the aggregates run through here.
type StatsWorker struct {
	pool *pgxpool.Pool
	rdb  *redis.Client
	log  zerolog.Logger
}

// NewStatsWorker creates a new StatsWorker.
func NewStatsWorker(pool *pgxpool.Pool, rdb *redis.Client, log zerolog.Logger) *StatsWorker {
	return &StatsWorker{
		pool: pool,
		rdb:  rdb,
		log:  log.With().Str("component", "stats_worker").Logger(),
	}
}

type statsPayload struct {
	QuizID string `json:"quiz_id"`
	Score  int    `json:"score"`
}

// Start runs the worker loop until ctx is cancelled. Items are batched
// by size or age, whichever trips first.
func (w *StatsWorker) Start(ctx context.Context) {
	w.log.Info().Msg("StatsWorker started")

	batch := make([]*statsPayload, 0, StatsBatchSize)
	lastFlush := time.Now()

	for {
		if len(batch) > 0 &&
			(len(batch) >= StatsBatchSize || time.Since(lastFlush) >= StatsBatchTimeout) {

			w.flushSafe(ctx, batch)
			batch = batch[:0]
			lastFlush = time.Now()
		}

		select {
		case <-ctx.Done():
			w.log.Info().Msg("Shutdown requested. Flushing remaining batch...")
			w.flushSafe(context.Background(), batch)
			return

		default:
			item, err := w.rdb.BLPop(ctx, StatsPollTimeout, config.WorkerKey.QuizStatsQueue).Result()
			if err != nil {
				if err != redis.Nil && ctx.Err() == nil {
					w.log.Error().Err(err).Msg("BLPop error")
				}
				continue
			}

			if len(item) < 2 {
				continue
			}

			var p statsPayload
			if err := json.Unmarshal([]byte(item[1]), &p); err != nil {
				w.log.Error().Err(err).Msg("Invalid JSON payload")
				continue
			}

			batch = append(batch, &p)
		}
	}
}

func (w *StatsWorker) flushSafe(ctx context.Context, batch []*statsPayload) {
	if len(batch) == 0 {
		return
	}

	if err := w.bulkUpsertStats(ctx, batch); err != nil {
		w.log.Warn().Err(err).Msg("bulk stats upsert failed, using fallback")

		for _, p := range batch {
			if err := w.persistSingle(ctx, p); err != nil {
				w.log.Error().Err(err).Msg("persistSingle failed — requeueing")
				raw, _ := json.Marshal(p)
				w.rdb.RPush(ctx, config.WorkerKey.QuizStatsQueue, raw)
			}
		}
	}
}

// bulkUpsertStats folds a whole batch into quiz_stats in one statement.
// Scores for the same quiz are pre-summed here because ON CONFLICT fires
// once per target row within a statement.
func (w *StatsWorker) bulkUpsertStats(ctx context.Context, batch []*statsPayload) error {
	type agg struct {
		attempts int
		total    int
	}
	perQuiz := make(map[uuid.UUID]*agg, len(batch))
	order := make([]uuid.UUID, 0, len(batch))

	for _, p := range batch {
		qID, err := uuid.Parse(p.QuizID)
		if err != nil {
			return err
		}
		a, ok := perQuiz[qID]
		if !ok {
			a = &agg{}
			perQuiz[qID] = a
			order = append(order, qID)
		}
		a.attempts++
		a.total += p.Score
	}

	quizIDs := make([]uuid.UUID, 0, len(order))
	attempts := make([]int, 0, len(order))
	totals := make([]int, 0, len(order))
	for _, qID := range order {
		quizIDs = append(quizIDs, qID)
		attempts = append(attempts, perQuiz[qID].attempts)
		totals = append(totals, perQuiz[qID].total)
	}

	query := `
		INSERT INTO quiz_stats (quiz_id, attempt_count, total_score, updated_at)
		SELECT u.quiz_id, u.attempts, u.total, NOW()
		FROM UNNEST(
			$1::uuid[],
			$2::int[],
			$3::int[]
		) AS u (quiz_id, attempts, total)
		ON CONFLICT (quiz_id) DO UPDATE
		SET attempt_count = quiz_stats.attempt_count + excluded.attempt_count,
		    total_score   = quiz_stats.total_score + excluded.total_score,
		    updated_at    = NOW()
	`

	_, err := w.pool.Exec(ctx, query, quizIDs, attempts, totals)
	return err
}

func (w *StatsWorker) persistSingle(ctx context.Context, p *statsPayload) error {
	qID, err := uuid.Parse(p.QuizID)
	if err != nil {
		return err
	}

	_, err = w.pool.Exec(ctx,
		`INSERT INTO quiz_stats (quiz_id, attempt_count, total_score, updated_at)
		 VALUES ($1, 1, $2, NOW())
		 ON CONFLICT (quiz_id) DO UPDATE
		 SET attempt_count = quiz_stats.attempt_count + 1,
		     total_score   = quiz_stats.total_score + excluded.total_score,
		     updated_at    = NOW()`,
		qID, p.Score,
	)

	return err
}
