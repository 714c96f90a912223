package ttadapter

import (
	"context"
	"errors"
	"fmt"

	"github.com/tarantool/go-tarantool/v2"

	"github.com/Xausdorf/dapp-votes/internal/domain"
	"github.com/Xausdorf/dapp-votes/internal/repository/record"
	"github.com/Xausdorf/dapp-votes/internal/usecase"
)

type BallotRepository struct {
	do doer
}

func (r *BallotRepository) Save(ctx context.Context, ballot *domain.Ballot) error {
	_, err := r.GetByVoterAndPoll(ctx, ballot.Voter, ballot.PollID)
	if err == nil {
		return usecase.ErrAlreadyVoted
	} else if !errors.Is(err, usecase.ErrBallotNotFound) {
		return err
	}
	if _, err = r.do.Do(
		tarantool.NewInsertRequest(ballotSpace).
			Context(ctx).
			Tuple(record.NewBallotRecord(ballot)),
	).Get(); err != nil {
		return fmt.Errorf("could not insert ballot in tarantool: %w", err)
	}
	return nil
}

func (r *BallotRepository) GetByVoterAndPoll(ctx context.Context, voter domain.Identity, pollID int64) (*domain.Ballot, error) {
	var res []record.BallotRecord
	if err := r.do.Do(
		tarantool.NewSelectRequest(ballotSpace).
			Context(ctx).
			Index(primaryIndex).
			Limit(1).
			Iterator(tarantool.IterEq).
			Key([]interface{}{pollID, voter.String()}),
	).GetTyped(&res); err != nil {
		return nil, fmt.Errorf("could not select typed ballot in tarantool: %w", err)
	}
	if len(res) == 0 {
		return nil, usecase.ErrBallotNotFound
	}
	return res[0].ToBallot(), nil
}
