package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"raffle-backend/internal/features/raffle/models"
	"raffle-backend/internal/features/raffle/repository"
)

type postgresRepository struct {
	db *sql.DB
}

// NewRoundRepository returns a RoundRepository backed by PostgreSQL. The
// current round and the latest winner are singleton rows; settlement commits
// both in one transaction.
func NewRoundRepository(db *sql.DB) repository.RoundRepository {
	return &postgresRepository{db: db}
}

// Migrate creates the singleton tables if they do not exist.
func Migrate(ctx context.Context, db *sql.DB) error {
	const schema = `
	CREATE TABLE IF NOT EXISTS raffle_round (
		singleton         INT PRIMARY KEY DEFAULT 1 CHECK (singleton = 1),
		id                TEXT NOT NULL,
		status            TEXT NOT NULL,
		participants      JSONB NOT NULL DEFAULT '[]',
		pot_nanoton       BIGINT NOT NULL DEFAULT 0,
		started_at        TIMESTAMPTZ NOT NULL,
		request_id        TEXT,
		request_issued_at TIMESTAMPTZ
	);
	CREATE TABLE IF NOT EXISTS raffle_winner (
		singleton      INT PRIMARY KEY DEFAULT 1 CHECK (singleton = 1),
		round_id       TEXT NOT NULL,
		address        TEXT NOT NULL,
		payout_nanoton BIGINT NOT NULL,
		settled_at     TIMESTAMPTZ NOT NULL
	);`
	_, err := db.ExecContext(ctx, schema)
	return err
}

func (r *postgresRepository) GetCurrent(ctx context.Context) (*models.Round, error) {
	const q = `
	SELECT id, status, participants, pot_nanoton, started_at, request_id, request_issued_at
	FROM raffle_round WHERE singleton = 1`

	var (
		round           models.Round
		participantsRaw []byte
		requestID       sql.NullString
		requestIssuedAt sql.NullTime
	)
	err := r.db.QueryRowContext(ctx, q).Scan(
		&round.ID, &round.Status, &participantsRaw, &round.Pot, &round.StartedAt,
		&requestID, &requestIssuedAt,
	)
	if err == sql.ErrNoRows {
		return nil, repository.ErrRoundNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(participantsRaw, &round.Participants); err != nil {
		return nil, fmt.Errorf("failed to unmarshal participants: %w", err)
	}
	if requestID.Valid {
		round.Request = &models.RandomnessRequest{
			ID:       requestID.String,
			RoundID:  round.ID,
			IssuedAt: requestIssuedAt.Time,
		}
	}
	return &round, nil
}

func (r *postgresRepository) SaveCurrent(ctx context.Context, round *models.Round) error {
	return upsertRound(ctx, r.db, round)
}

func (r *postgresRepository) CommitSettlement(ctx context.Context, next *models.Round, winner *models.WinnerRecord) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := upsertRound(ctx, tx, next); err != nil {
		return err
	}

	const q = `
	INSERT INTO raffle_winner (singleton, round_id, address, payout_nanoton, settled_at)
	VALUES (1, $1, $2, $3, $4)
	ON CONFLICT (singleton) DO UPDATE SET
		round_id = EXCLUDED.round_id,
		address = EXCLUDED.address,
		payout_nanoton = EXCLUDED.payout_nanoton,
		settled_at = EXCLUDED.settled_at`
	if _, err := tx.ExecContext(ctx, q, winner.RoundID, winner.Address, winner.Payout, winner.SettledAt); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *postgresRepository) LatestWinner(ctx context.Context) (*models.WinnerRecord, error) {
	const q = `SELECT round_id, address, payout_nanoton, settled_at FROM raffle_winner WHERE singleton = 1`

	var w models.WinnerRecord
	err := r.db.QueryRowContext(ctx, q).Scan(&w.RoundID, &w.Address, &w.Payout, &w.SettledAt)
	if err == sql.ErrNoRows {
		return nil, repository.ErrWinnerNotFound
	}
	if err != nil {
		return nil, err
	}
	return &w, nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func upsertRound(ctx context.Context, e execer, round *models.Round) error {
	participants, err := json.Marshal(round.Participants)
	if err != nil {
		return fmt.Errorf("failed to marshal participants: %w", err)
	}

	var (
		requestID       sql.NullString
		requestIssuedAt sql.NullTime
	)
	if round.Request != nil {
		requestID = sql.NullString{String: round.Request.ID, Valid: true}
		requestIssuedAt = sql.NullTime{Time: round.Request.IssuedAt, Valid: true}
	}

	const q = `
	INSERT INTO raffle_round (singleton, id, status, participants, pot_nanoton, started_at, request_id, request_issued_at)
	VALUES (1, $1, $2, $3, $4, $5, $6, $7)
	ON CONFLICT (singleton) DO UPDATE SET
		id = EXCLUDED.id,
		status = EXCLUDED.status,
		participants = EXCLUDED.participants,
		pot_nanoton = EXCLUDED.pot_nanoton,
		started_at = EXCLUDED.started_at,
		request_id = EXCLUDED.request_id,
		request_issued_at = EXCLUDED.request_issued_at`
	_, err = e.ExecContext(ctx, q, round.ID, round.Status, participants, round.Pot,
		round.StartedAt, requestID, requestIssuedAt)
	return err
}
