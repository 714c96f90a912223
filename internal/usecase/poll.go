package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Xausdorf/dapp-votes/internal/domain"
)

type PollFields struct {
	Image       string
	Title       string
	Description string
	StartsAt    int64
	EndsAt      int64
}

// Voting executes the voting contract against a ledger. Mutating calls are
// serialised and each successful one closes a block.
type Voting struct {
	ledger Ledger
	now    func() time.Time
	mu     sync.Mutex
}

type Option func(v *Voting)

// WithClock replaces the time source used for voting windows and timestamps.
func WithClock(now func() time.Time) Option {
	return func(v *Voting) {
		v.now = now
	}
}

func NewVoting(ledger Ledger, opts ...Option) *Voting {
	v := &Voting{
		ledger: ledger,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

func (v *Voting) CreatePoll(ctx context.Context, caller domain.Identity, fields PollFields) (*domain.Poll, error) {
	if caller.IsZero() {
		return nil, ErrInvalidIdentity
	}
	if err := validatePollFields(fields); err != nil {
		return nil, err
	}

	poll := domain.NewPoll(fields.Image, fields.Title, fields.Description, fields.StartsAt, fields.EndsAt, caller)
	if err := v.transact(ctx, "createPoll", func(tx Ledger) error {
		id, err := tx.Sequences().Next(ctx, PollSequence)
		if err != nil {
			return fmt.Errorf("could not assign poll id: %w", err)
		}
		poll.ID = id
		poll.CreatedAt = v.now().Unix()
		if err = tx.Polls().Save(ctx, poll); err != nil {
			return fmt.Errorf("could not save poll: %w", err)
		}
		return nil
	}); err != nil {
		return nil, err
	}

	log.Debug("poll created", "poll", poll.ID, "director", caller)
	return poll, nil
}

func (v *Voting) UpdatePoll(ctx context.Context, caller domain.Identity, id int64, fields PollFields) (*domain.Poll, error) {
	if caller.IsZero() {
		return nil, ErrInvalidIdentity
	}

	var updated *domain.Poll
	if err := v.transact(ctx, "updatePoll", func(tx Ledger) error {
		return tx.Polls().UpdateByID(ctx, id, func(poll *domain.Poll) error {
			if err := checkDirector(poll, caller); err != nil {
				return err
			}
			if err := validatePollFields(fields); err != nil {
				return err
			}
			poll.Image = fields.Image
			poll.Title = fields.Title
			poll.Description = fields.Description
			poll.StartsAt = fields.StartsAt
			poll.EndsAt = fields.EndsAt
			updated = poll.Clone()
			return nil
		})
	}); err != nil {
		return nil, err
	}
	return updated, nil
}

func (v *Voting) DeletePoll(ctx context.Context, caller domain.Identity, id int64) error {
	if caller.IsZero() {
		return ErrInvalidIdentity
	}

	return v.transact(ctx, "deletePoll", func(tx Ledger) error {
		return tx.Polls().UpdateByID(ctx, id, func(poll *domain.Poll) error {
			if err := checkDirector(poll, caller); err != nil {
				return err
			}
			poll.Status = domain.PollDeleted
			return nil
		})
	})
}

func (v *Voting) Contest(ctx context.Context, caller domain.Identity, pollID int64, name, avatar string) (*domain.Contestant, error) {
	if caller.IsZero() {
		return nil, ErrInvalidIdentity
	}

	var contestant *domain.Contestant
	if err := v.transact(ctx, "contest", func(tx Ledger) error {
		poll, err := tx.Polls().GetByID(ctx, pollID)
		if err != nil {
			return err
		}
		if name == "" {
			return ErrNameEmpty
		}
		if avatar == "" {
			return ErrAvatarEmpty
		}
		if poll.Deleted() {
			return ErrPollingNotAvailable
		}

		contestants, err := tx.Contestants().ListByPoll(ctx, pollID)
		if err != nil {
			return fmt.Errorf("could not list contestants: %w", err)
		}
		for _, c := range contestants {
			if c.Account == caller {
				return ErrAlreadyContested
			}
		}

		if err = tx.Polls().UpdateByID(ctx, pollID, func(poll *domain.Poll) error {
			poll.ContestantsCount++
			contestant = domain.NewContestant(pollID, name, avatar, caller)
			contestant.ID = poll.ContestantsCount
			return nil
		}); err != nil {
			return err
		}
		if err = tx.Contestants().Save(ctx, contestant); err != nil {
			return fmt.Errorf("could not save contestant: %w", err)
		}
		return nil
	}); err != nil {
		return nil, err
	}
	return contestant, nil
}

func (v *Voting) Vote(ctx context.Context, caller domain.Identity, pollID, contestantID int64) (*domain.Contestant, error) {
	if caller.IsZero() {
		return nil, ErrInvalidIdentity
	}

	var voted *domain.Contestant
	if err := v.transact(ctx, "vote", func(tx Ledger) error {
		now := v.now().Unix()
		if err := tx.Polls().UpdateByID(ctx, pollID, func(poll *domain.Poll) error {
			if !poll.InSession(now) {
				return ErrPollingNotAvailable
			}
			if _, err := tx.Ballots().GetByVoterAndPoll(ctx, caller, pollID); err == nil {
				return ErrAlreadyVoted
			} else if !errors.Is(err, ErrBallotNotFound) {
				return fmt.Errorf("could not check ballot: %w", err)
			}
			poll.VotesCount++
			return nil
		}); err != nil {
			return err
		}

		if err := tx.Contestants().UpdateByID(ctx, pollID, contestantID, func(contestant *domain.Contestant) error {
			contestant.Votes++
			contestant.Voters = append(contestant.Voters, caller)
			voted = contestant.Clone()
			return nil
		}); err != nil {
			return err
		}

		ballot := &domain.Ballot{
			ID:           uuid.NewString(),
			PollID:       pollID,
			ContestantID: contestantID,
			Voter:        caller,
			CastAt:       now,
		}
		if err := tx.Ballots().Save(ctx, ballot); err != nil {
			return fmt.Errorf("could not save ballot: %w", err)
		}
		return nil
	}); err != nil {
		return nil, err
	}
	return voted, nil
}

func (v *Voting) GetPolls(ctx context.Context) ([]*domain.Poll, error) {
	polls, err := v.ledger.Polls().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not list polls: %w", err)
	}
	return polls, nil
}

func (v *Voting) GetPoll(ctx context.Context, id int64) (*domain.Poll, error) {
	return v.ledger.Polls().GetByID(ctx, id)
}

func (v *Voting) GetContestants(ctx context.Context, pollID int64) ([]*domain.Contestant, error) {
	if _, err := v.ledger.Polls().GetByID(ctx, pollID); err != nil {
		return nil, err
	}
	contestants, err := v.ledger.Contestants().ListByPoll(ctx, pollID)
	if err != nil {
		return nil, fmt.Errorf("could not list contestants: %w", err)
	}
	return contestants, nil
}

func (v *Voting) GetContestant(ctx context.Context, pollID, contestantID int64) (*domain.Contestant, error) {
	if _, err := v.ledger.Polls().GetByID(ctx, pollID); err != nil {
		return nil, err
	}
	return v.ledger.Contestants().GetByID(ctx, pollID, contestantID)
}

// BlockNumber returns the number of the last block, 0 before the first write.
func (v *Voting) BlockNumber(ctx context.Context) (int64, error) {
	return v.ledger.Sequences().Current(ctx, BlockSequence)
}

// transact runs fn as one call of the contract: fn and the block it closes are
// committed together, or not at all.
func (v *Voting) transact(ctx context.Context, call string, fn func(tx Ledger) error) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	return v.ledger.Atomic(ctx, func(tx Ledger) error {
		if err := fn(tx); err != nil {
			if _, ok := Reason(err); ok {
				log.Debug("call reverted", "call", call, "reason", err)
			}
			return err
		}
		block, err := tx.Sequences().Next(ctx, BlockSequence)
		if err != nil {
			return fmt.Errorf("could not close block: %w", err)
		}
		log.Debug("block closed", "call", call, "block", block)
		return nil
	})
}

func checkDirector(poll *domain.Poll, caller domain.Identity) error {
	if poll.Director != caller {
		return ErrUnauthorized
	}
	if poll.Deleted() {
		return ErrPollingNotAvailable
	}
	return nil
}

func validatePollFields(fields PollFields) error {
	if fields.Image == "" {
		return ErrImageEmpty
	}
	if fields.Title == "" {
		return ErrTitleEmpty
	}
	if fields.Description == "" {
		return ErrDescriptionEmpty
	}
	if fields.StartsAt <= 0 {
		return ErrStartDate
	}
	if fields.EndsAt <= fields.StartsAt {
		return ErrEndDate
	}
	return nil
}
