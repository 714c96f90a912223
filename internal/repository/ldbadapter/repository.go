package ldbadapter

import (
	"context"
	"fmt"

	"github.com/syndtr/goleveldb/leveldb"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/Xausdorf/dapp-votes/internal/domain"
	"github.com/Xausdorf/dapp-votes/internal/repository/record"
	"github.com/Xausdorf/dapp-votes/internal/usecase"
)

// Ids are zero padded so that key order is id order.
const (
	pollPrefix       = "poll/"
	contestantPrefix = "contestant/"
	ballotPrefix     = "ballot/"
	sequencePrefix   = "sequence/"
)

func pollKey(id int64) []byte {
	return []byte(fmt.Sprintf("%s%020d", pollPrefix, id))
}

func contestantPollPrefix(pollID int64) []byte {
	return []byte(fmt.Sprintf("%s%020d/", contestantPrefix, pollID))
}

func contestantKey(pollID, id int64) []byte {
	return []byte(fmt.Sprintf("%s%020d", contestantPollPrefix(pollID), id))
}

func ballotKey(pollID int64, voter domain.Identity) []byte {
	return []byte(fmt.Sprintf("%s%020d/%s", ballotPrefix, pollID, voter))
}

func sequenceKey(name string) []byte {
	return []byte(sequencePrefix + name)
}

type PollRepository struct {
	core Core
}

func (r *PollRepository) Save(_ context.Context, poll *domain.Poll) error {
	return put(r.core, pollKey(poll.ID), record.NewPollRecord(poll))
}

func (r *PollRepository) GetByID(_ context.Context, id int64) (*domain.Poll, error) {
	var rec record.PollRecord
	if err := get(r.core, pollKey(id), &rec, usecase.ErrPollNotFound); err != nil {
		return nil, err
	}
	return rec.ToPoll(), nil
}

func (r *PollRepository) List(_ context.Context) ([]*domain.Poll, error) {
	polls := []*domain.Poll{}
	err := walk(r.core, []byte(pollPrefix), func(value []byte) error {
		var rec record.PollRecord
		if err := msgpack.Unmarshal(value, &rec); err != nil {
			return fmt.Errorf("could not decode poll: %w", err)
		}
		polls = append(polls, rec.ToPoll())
		return nil
	})
	if err != nil {
		return nil, err
	}
	return polls, nil
}

func (r *PollRepository) UpdateByID(ctx context.Context, id int64, updateFn func(poll *domain.Poll) error) error {
	poll, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err = updateFn(poll); err != nil {
		return fmt.Errorf("could not update poll: %w", err)
	}
	return r.Save(ctx, poll)
}

type ContestantRepository struct {
	core Core
}

func (r *ContestantRepository) Save(_ context.Context, contestant *domain.Contestant) error {
	return put(r.core, contestantKey(contestant.PollID, contestant.ID), record.NewContestantRecord(contestant))
}

func (r *ContestantRepository) GetByID(_ context.Context, pollID, id int64) (*domain.Contestant, error) {
	var rec record.ContestantRecord
	if err := get(r.core, contestantKey(pollID, id), &rec, usecase.ErrContestantNotFound); err != nil {
		return nil, err
	}
	return rec.ToContestant(), nil
}

func (r *ContestantRepository) ListByPoll(_ context.Context, pollID int64) ([]*domain.Contestant, error) {
	contestants := []*domain.Contestant{}
	err := walk(r.core, contestantPollPrefix(pollID), func(value []byte) error {
		var rec record.ContestantRecord
		if err := msgpack.Unmarshal(value, &rec); err != nil {
			return fmt.Errorf("could not decode contestant: %w", err)
		}
		contestants = append(contestants, rec.ToContestant())
		return nil
	})
	if err != nil {
		return nil, err
	}
	return contestants, nil
}

func (r *ContestantRepository) UpdateByID(ctx context.Context, pollID, id int64, updateFn func(contestant *domain.Contestant) error) error {
	contestant, err := r.GetByID(ctx, pollID, id)
	if err != nil {
		return err
	}
	if err = updateFn(contestant); err != nil {
		return fmt.Errorf("could not update contestant: %w", err)
	}
	return r.Save(ctx, contestant)
}

type BallotRepository struct {
	core Core
}

func (r *BallotRepository) Save(_ context.Context, ballot *domain.Ballot) error {
	key := ballotKey(ballot.PollID, ballot.Voter)
	exists, err := r.core.Has(key, nil)
	if err != nil {
		return fmt.Errorf("could not check ballot in leveldb: %w", err)
	}
	if exists {
		return usecase.ErrAlreadyVoted
	}
	return put(r.core, key, record.NewBallotRecord(ballot))
}

func (r *BallotRepository) GetByVoterAndPoll(_ context.Context, voter domain.Identity, pollID int64) (*domain.Ballot, error) {
	var rec record.BallotRecord
	if err := get(r.core, ballotKey(pollID, voter), &rec, usecase.ErrBallotNotFound); err != nil {
		return nil, err
	}
	return rec.ToBallot(), nil
}

type SequenceRepository struct {
	core Core
}

func (r *SequenceRepository) Next(ctx context.Context, name string) (int64, error) {
	current, err := r.Current(ctx, name)
	if err != nil {
		return 0, err
	}
	next := &record.SequenceRecord{Name: name, Value: current + 1}
	if err = put(r.core, sequenceKey(name), next); err != nil {
		return 0, err
	}
	return next.Value, nil
}

func (r *SequenceRepository) Current(_ context.Context, name string) (int64, error) {
	var rec record.SequenceRecord
	err := get(r.core, sequenceKey(name), &rec, leveldb.ErrNotFound)
	if err == leveldb.ErrNotFound {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return rec.Value, nil
}
