package usecase

import (
	"context"

	"github.com/Xausdorf/dapp-votes/internal/domain"
)

// Sequence names kept by every ledger.
const (
	PollSequence  = "poll"
	BlockSequence = "block"
)

type PollRepository interface {
	Save(ctx context.Context, poll *domain.Poll) error
	GetByID(ctx context.Context, id int64) (*domain.Poll, error)
	// List returns every poll, deleted ones included, ordered by id.
	List(ctx context.Context) ([]*domain.Poll, error)
	UpdateByID(ctx context.Context, id int64, updateFn func(poll *domain.Poll) error) error
}

type ContestantRepository interface {
	Save(ctx context.Context, contestant *domain.Contestant) error
	GetByID(ctx context.Context, pollID, id int64) (*domain.Contestant, error)
	// ListByPoll returns contestants of a poll ordered by id.
	ListByPoll(ctx context.Context, pollID int64) ([]*domain.Contestant, error)
	UpdateByID(ctx context.Context, pollID, id int64, updateFn func(contestant *domain.Contestant) error) error
}

type BallotRepository interface {
	Save(ctx context.Context, ballot *domain.Ballot) error
	GetByVoterAndPoll(ctx context.Context, voter domain.Identity, pollID int64) (*domain.Ballot, error)
}

type SequenceRepository interface {
	// Next increments the named sequence and returns the new value, starting at 1.
	Next(ctx context.Context, name string) (int64, error)
	// Current returns the last value handed out by Next, 0 if none.
	Current(ctx context.Context, name string) (int64, error)
}

// Ledger is the contract state: polls, contestants, ballots and counters.
type Ledger interface {
	Polls() PollRepository
	Contestants() ContestantRepository
	Ballots() BallotRepository
	Sequences() SequenceRepository
	// Atomic runs fn against a transactional view of the ledger. Writes done by fn
	// are persisted only if fn returns nil.
	Atomic(ctx context.Context, fn func(tx Ledger) error) error
	Close() error
}
