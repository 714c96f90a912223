package ttadapter

import (
	"context"
	"fmt"

	"github.com/tarantool/go-tarantool/v2"

	"github.com/Xausdorf/dapp-votes/internal/domain"
	"github.com/Xausdorf/dapp-votes/internal/repository/record"
	"github.com/Xausdorf/dapp-votes/internal/usecase"
)

type PollRepository struct {
	do doer
}

func (r *PollRepository) Save(ctx context.Context, poll *domain.Poll) error {
	if _, err := r.do.Do(
		tarantool.NewInsertRequest(pollSpace).
			Context(ctx).
			Tuple(record.NewPollRecord(poll)),
	).Get(); err != nil {
		return fmt.Errorf("could not insert poll in tarantool: %w", err)
	}
	return nil
}

func (r *PollRepository) GetByID(ctx context.Context, id int64) (*domain.Poll, error) {
	var res []record.PollRecord
	if err := r.do.Do(
		tarantool.NewSelectRequest(pollSpace).
			Context(ctx).
			Index(primaryIndex).
			Limit(1).
			Iterator(tarantool.IterEq).
			Key([]interface{}{id}),
	).GetTyped(&res); err != nil {
		return nil, fmt.Errorf("could not select typed poll in tarantool: %w", err)
	}
	if len(res) == 0 {
		return nil, usecase.ErrPollNotFound
	}
	return res[0].ToPoll(), nil
}

func (r *PollRepository) List(ctx context.Context) ([]*domain.Poll, error) {
	var res []record.PollRecord
	if err := r.do.Do(
		tarantool.NewSelectRequest(pollSpace).
			Context(ctx).
			Index(primaryIndex).
			Limit(selectLimit).
			Iterator(tarantool.IterAll).
			Key([]interface{}{}),
	).GetTyped(&res); err != nil {
		return nil, fmt.Errorf("could not select typed polls in tarantool: %w", err)
	}
	polls := make([]*domain.Poll, len(res))
	for i := range res {
		polls[i] = res[i].ToPoll()
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
	if _, err = r.do.Do(
		tarantool.NewReplaceRequest(pollSpace).
			Context(ctx).
			Tuple(record.NewPollRecord(poll)),
	).Get(); err != nil {
		return fmt.Errorf("could not replace poll in tarantool: %w", err)
	}
	return nil
}
