// Package memory keeps the ledger in process memory. Nothing survives a restart.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/Xausdorf/dapp-votes/internal/domain"
	"github.com/Xausdorf/dapp-votes/internal/usecase"
)

type contestantKey struct {
	pollID int64
	id     int64
}

type ballotKey struct {
	pollID int64
	voter  domain.Identity
}

type state struct {
	polls       map[int64]*domain.Poll
	contestants map[contestantKey]*domain.Contestant
	ballots     map[ballotKey]*domain.Ballot
	sequences   map[string]int64
}

func newState() *state {
	return &state{
		polls:       map[int64]*domain.Poll{},
		contestants: map[contestantKey]*domain.Contestant{},
		ballots:     map[ballotKey]*domain.Ballot{},
		sequences:   map[string]int64{},
	}
}

func (s *state) clone() *state {
	c := newState()
	for k, v := range s.polls {
		c.polls[k] = v.Clone()
	}
	for k, v := range s.contestants {
		c.contestants[k] = v.Clone()
	}
	for k, v := range s.ballots {
		b := *v
		c.ballots[k] = &b
	}
	for k, v := range s.sequences {
		c.sequences[k] = v
	}
	return c
}

// Ledger is safe for concurrent use. Transactions work on a copy of the state
// which replaces the shared one on commit.
type Ledger struct {
	mu sync.RWMutex
	st *state
}

func NewLedger() *Ledger {
	return &Ledger{st: newState()}
}

func (l *Ledger) Polls() usecase.PollRepository {
	return &pollRepository{view: l.view}
}

func (l *Ledger) Contestants() usecase.ContestantRepository {
	return &contestantRepository{view: l.view}
}

func (l *Ledger) Ballots() usecase.BallotRepository {
	return &ballotRepository{view: l.view}
}

func (l *Ledger) Sequences() usecase.SequenceRepository {
	return &sequenceRepository{view: l.view}
}

func (l *Ledger) Atomic(ctx context.Context, fn func(tx usecase.Ledger) error) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	tx := &txLedger{st: l.st.clone()}
	if err := fn(tx); err != nil {
		return err
	}
	l.st = tx.st
	return nil
}

func (l *Ledger) Close() error {
	return nil
}

// view runs fn under the ledger lock. Writes outside Atomic take the write lock.
func (l *Ledger) view(write bool, fn func(st *state) error) error {
	if write {
		l.mu.Lock()
		defer l.mu.Unlock()
	} else {
		l.mu.RLock()
		defer l.mu.RUnlock()
	}
	return fn(l.st)
}

type txLedger struct {
	st *state
}

func (t *txLedger) view(_ bool, fn func(st *state) error) error {
	return fn(t.st)
}

func (t *txLedger) Polls() usecase.PollRepository {
	return &pollRepository{view: t.view}
}

func (t *txLedger) Contestants() usecase.ContestantRepository {
	return &contestantRepository{view: t.view}
}

func (t *txLedger) Ballots() usecase.BallotRepository {
	return &ballotRepository{view: t.view}
}

func (t *txLedger) Sequences() usecase.SequenceRepository {
	return &sequenceRepository{view: t.view}
}

func (t *txLedger) Atomic(_ context.Context, fn func(tx usecase.Ledger) error) error {
	return fn(t)
}

func (t *txLedger) Close() error {
	return nil
}

type viewFunc func(write bool, fn func(st *state) error) error

type pollRepository struct {
	view viewFunc
}

func (r *pollRepository) Save(_ context.Context, poll *domain.Poll) error {
	return r.view(true, func(st *state) error {
		st.polls[poll.ID] = poll.Clone()
		return nil
	})
}

func (r *pollRepository) GetByID(_ context.Context, id int64) (*domain.Poll, error) {
	var poll *domain.Poll
	err := r.view(false, func(st *state) error {
		p, ok := st.polls[id]
		if !ok {
			return usecase.ErrPollNotFound
		}
		poll = p.Clone()
		return nil
	})
	return poll, err
}

func (r *pollRepository) List(_ context.Context) ([]*domain.Poll, error) {
	polls := []*domain.Poll{}
	err := r.view(false, func(st *state) error {
		for _, p := range st.polls {
			polls = append(polls, p.Clone())
		}
		return nil
	})
	sort.Slice(polls, func(i, j int) bool { return polls[i].ID < polls[j].ID })
	return polls, err
}

func (r *pollRepository) UpdateByID(_ context.Context, id int64, updateFn func(poll *domain.Poll) error) error {
	return r.view(true, func(st *state) error {
		p, ok := st.polls[id]
		if !ok {
			return usecase.ErrPollNotFound
		}
		poll := p.Clone()
		if err := updateFn(poll); err != nil {
			return err
		}
		st.polls[id] = poll
		return nil
	})
}

type contestantRepository struct {
	view viewFunc
}

func (r *contestantRepository) Save(_ context.Context, contestant *domain.Contestant) error {
	return r.view(true, func(st *state) error {
		st.contestants[contestantKey{contestant.PollID, contestant.ID}] = contestant.Clone()
		return nil
	})
}

func (r *contestantRepository) GetByID(_ context.Context, pollID, id int64) (*domain.Contestant, error) {
	var contestant *domain.Contestant
	err := r.view(false, func(st *state) error {
		c, ok := st.contestants[contestantKey{pollID, id}]
		if !ok {
			return usecase.ErrContestantNotFound
		}
		contestant = c.Clone()
		return nil
	})
	return contestant, err
}

func (r *contestantRepository) ListByPoll(_ context.Context, pollID int64) ([]*domain.Contestant, error) {
	contestants := []*domain.Contestant{}
	err := r.view(false, func(st *state) error {
		for k, c := range st.contestants {
			if k.pollID == pollID {
				contestants = append(contestants, c.Clone())
			}
		}
		return nil
	})
	sort.Slice(contestants, func(i, j int) bool { return contestants[i].ID < contestants[j].ID })
	return contestants, err
}

func (r *contestantRepository) UpdateByID(_ context.Context, pollID, id int64, updateFn func(contestant *domain.Contestant) error) error {
	return r.view(true, func(st *state) error {
		key := contestantKey{pollID, id}
		c, ok := st.contestants[key]
		if !ok {
			return usecase.ErrContestantNotFound
		}
		contestant := c.Clone()
		if err := updateFn(contestant); err != nil {
			return err
		}
		st.contestants[key] = contestant
		return nil
	})
}

type ballotRepository struct {
	view viewFunc
}

func (r *ballotRepository) Save(_ context.Context, ballot *domain.Ballot) error {
	return r.view(true, func(st *state) error {
		key := ballotKey{ballot.PollID, ballot.Voter}
		if _, ok := st.ballots[key]; ok {
			return usecase.ErrAlreadyVoted
		}
		b := *ballot
		st.ballots[key] = &b
		return nil
	})
}

func (r *ballotRepository) GetByVoterAndPoll(_ context.Context, voter domain.Identity, pollID int64) (*domain.Ballot, error) {
	var ballot *domain.Ballot
	err := r.view(false, func(st *state) error {
		b, ok := st.ballots[ballotKey{pollID, voter}]
		if !ok {
			return usecase.ErrBallotNotFound
		}
		cp := *b
		ballot = &cp
		return nil
	})
	return ballot, err
}

type sequenceRepository struct {
	view viewFunc
}

func (r *sequenceRepository) Next(_ context.Context, name string) (int64, error) {
	var next int64
	err := r.view(true, func(st *state) error {
		st.sequences[name]++
		next = st.sequences[name]
		return nil
	})
	return next, err
}

func (r *sequenceRepository) Current(_ context.Context, name string) (int64, error) {
	var current int64
	err := r.view(false, func(st *state) error {
		current = st.sequences[name]
		return nil
	})
	return current, err
}
