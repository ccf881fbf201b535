package service

import (
	"context"
	"errors"
	"math/big"
	"sync"
	"time"

	"github.com/google/uuid"

	"raffle-backend/internal/common/logger"
	"raffle-backend/internal/events"
	"raffle-backend/internal/features/raffle/models"
	"raffle-backend/internal/features/raffle/repository"
	"raffle-backend/internal/platform/metrics"
)

// raffleService is the settlement engine. A single mutex serializes every
// state-changing operation, matching the one-at-a-time execution model the
// round state machine assumes; reads bypass the lock.
type raffleService struct {
	repo     repository.RoundRepository
	issuer   RequestIssuer
	payout   PayoutClient
	notifier events.Publisher

	entryFee int64
	interval time.Duration

	mu  sync.Mutex
	now func() time.Time
}

func NewRaffleService(repo repository.RoundRepository, issuer RequestIssuer, payout PayoutClient, notifier events.Publisher, entryFee int64, interval time.Duration) RaffleService {
	if notifier == nil {
		notifier = events.Noop{}
	}
	return &raffleService{
		repo:     repo,
		issuer:   issuer,
		payout:   payout,
		notifier: notifier,
		entryFee: entryFee,
		interval: interval,
		now:      time.Now,
	}
}

// ensureCurrent loads the current round, creating the first one on demand.
// Callers that mutate must hold s.mu.
func (s *raffleService) ensureCurrent(ctx context.Context) (*models.Round, error) {
	round, err := s.repo.GetCurrent(ctx)
	if err == nil {
		return round, nil
	}
	if !errors.Is(err, repository.ErrRoundNotFound) {
		return nil, err
	}

	round = &models.Round{
		ID:           uuid.NewString(),
		Status:       models.RoundStatusOpen,
		Participants: []string{},
		Pot:          0,
		StartedAt:    s.now(),
	}
	if err := s.repo.SaveCurrent(ctx, round); err != nil {
		return nil, err
	}
	logger.Info().Str("round_id", round.ID).Msg("Opened first round")
	return round, nil
}

func (s *raffleService) Admit(ctx context.Context, address string, paid int64) (*models.Round, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	round, err := s.ensureCurrent(ctx)
	if err != nil {
		return nil, err
	}
	if !round.CanAdmit() {
		metrics.AdmissionsRejected.WithLabelValues("round_not_open").Inc()
		return nil, models.ErrRoundNotOpen
	}
	if paid < s.entryFee {
		metrics.AdmissionsRejected.WithLabelValues("insufficient_payment").Inc()
		return nil, models.ErrInsufficientPayment
	}

	round.Participants = append(round.Participants, address)
	round.Pot += paid
	if err := s.repo.SaveCurrent(ctx, round); err != nil {
		return nil, err
	}

	metrics.AdmissionsTotal.Inc()
	logger.Info().
		Str("round_id", round.ID).
		Str("address", address).
		Int64("paid_nanoton", paid).
		Int64("pot_nanoton", round.Pot).
		Msg("Participant admitted")

	s.emit(func() error {
		return s.notifier.PublishParticipantAdmitted(ctx, events.ParticipantAdmitted{
			RoundID:    round.ID,
			Address:    address,
			PaidNano:   paid,
			PotNano:    round.Pot,
			EntryIndex: len(round.Participants) - 1,
		})
	})
	return round, nil
}

func (s *raffleService) CurrentRound(ctx context.Context) (*models.Round, error) {
	round, err := s.repo.GetCurrent(ctx)
	if errors.Is(err, repository.ErrRoundNotFound) {
		s.mu.Lock()
		defer s.mu.Unlock()
		return s.ensureCurrent(ctx)
	}
	return round, err
}

func (s *raffleService) CheckUpkeep(ctx context.Context) (*UpkeepStatus, error) {
	round, err := s.repo.GetCurrent(ctx)
	if errors.Is(err, repository.ErrRoundNotFound) {
		return &UpkeepStatus{Status: models.RoundStatusOpen}, nil
	}
	if err != nil {
		return nil, err
	}

	now := s.now()
	return &UpkeepStatus{
		Needed:       round.NeedsUpkeep(now, s.interval),
		Pot:          round.Pot,
		Participants: len(round.Participants),
		Status:       round.Status,
		Elapsed:      round.Elapsed(now),
	}, nil
}

func (s *raffleService) PerformUpkeep(ctx context.Context) (*models.RandomnessRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	round, err := s.ensureCurrent(ctx)
	if err != nil {
		return nil, err
	}
	// Never trust the caller's checkUpkeep result.
	if !round.NeedsUpkeep(s.now(), s.interval) {
		return nil, &models.UpkeepNotNeededError{
			Pot:          round.Pot,
			Participants: len(round.Participants),
			Status:       round.Status,
		}
	}

	req, err := s.issuer.IssueRequest(ctx, round.ID)
	if err != nil {
		// No mutation happened; the round stays open and retryable.
		return nil, err
	}

	round.Status = models.RoundStatusSettling
	round.Request = &req
	if err := s.repo.SaveCurrent(ctx, round); err != nil {
		// The issued request is now untracked; its callback will be
		// rejected as unknown and its randomness discarded.
		return nil, err
	}

	metrics.SettlementsStarted.Inc()
	logger.Info().
		Str("round_id", round.ID).
		Str("request_id", req.ID).
		Int64("pot_nanoton", round.Pot).
		Int("participants", len(round.Participants)).
		Msg("Settlement started")

	s.emit(func() error {
		return s.notifier.PublishSettlementStarted(ctx, events.SettlementStarted{
			RoundID:      round.ID,
			RequestID:    req.ID,
			PotNano:      round.Pot,
			Participants: len(round.Participants),
		})
	})
	return &req, nil
}

func (s *raffleService) SettleRound(ctx context.Context, requestID string, randomWord *big.Int) (*models.WinnerRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	round, err := s.repo.GetCurrent(ctx)
	if errors.Is(err, repository.ErrRoundNotFound) {
		metrics.CallbacksRejected.Inc()
		return nil, models.ErrUnknownRequest
	}
	if err != nil {
		return nil, err
	}
	// Logical replay defense: only the single live outstanding request may
	// transition the round out of settling. A consumed request id no longer
	// matches because settlement replaced the round.
	if round.Status != models.RoundStatusSettling || round.Request == nil || round.Request.ID != requestID {
		metrics.CallbacksRejected.Inc()
		return nil, models.ErrUnknownRequest
	}

	count := int64(len(round.Participants))
	index := new(big.Int).Mod(randomWord, big.NewInt(count)).Int64()
	now := s.now()

	winner := &models.WinnerRecord{
		RoundID:   round.ID,
		Address:   round.Participants[index],
		Payout:    round.Pot,
		SettledAt: now,
	}
	next := &models.Round{
		ID:           uuid.NewString(),
		Status:       models.RoundStatusOpen,
		Participants: []string{},
		Pot:          0,
		StartedAt:    now,
	}

	// The transfer carries the request id as idempotency ref, so a retried
	// callback after a commit failure cannot double-pay.
	if err := s.payout.Transfer(ctx, winner.Address, winner.Payout, requestID); err != nil {
		metrics.PayoutFailures.Inc()
		logger.Error().Err(err).
			Str("round_id", round.ID).
			Str("request_id", requestID).
			Msg("Winner disbursement failed; round stays settling")
		return nil, err
	}
	if err := s.repo.CommitSettlement(ctx, next, winner); err != nil {
		logger.Error().Err(err).
			Str("round_id", round.ID).
			Str("request_id", requestID).
			Msg("Settlement commit failed after transfer; safe to retry via idempotency ref")
		return nil, err
	}

	metrics.SettlementsCompleted.Inc()
	logger.Info().
		Str("round_id", round.ID).
		Str("winner", winner.Address).
		Int64("payout_nanoton", winner.Payout).
		Int64("index", index).
		Msg("Winner selected")

	s.emit(func() error {
		return s.notifier.PublishWinnerSelected(ctx, events.WinnerSelected{
			RoundID:    round.ID,
			RequestID:  requestID,
			Address:    winner.Address,
			PayoutNano: winner.Payout,
		})
	})
	return winner, nil
}

func (s *raffleService) LatestWinner(ctx context.Context) (*models.WinnerRecord, error) {
	return s.repo.LatestWinner(ctx)
}

// emit publishes a notification best-effort; failures are logged, never
// propagated to the triggering operation.
func (s *raffleService) emit(publish func() error) {
	if err := publish(); err != nil {
		logger.Warn().Err(err).Msg("Failed to publish notification")
	}
}
