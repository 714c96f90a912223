package ttadapter

import (
	"context"
	"fmt"

	"github.com/tarantool/go-tarantool/v2"

	"github.com/Xausdorf/dapp-votes/internal/domain"
	"github.com/Xausdorf/dapp-votes/internal/repository/record"
	"github.com/Xausdorf/dapp-votes/internal/usecase"
)

type ContestantRepository struct {
	do doer
}

func (r *ContestantRepository) Save(ctx context.Context, contestant *domain.Contestant) error {
	if _, err := r.do.Do(
		tarantool.NewInsertRequest(contestantSpace).
			Context(ctx).
			Tuple(record.NewContestantRecord(contestant)),
	).Get(); err != nil {
		return fmt.Errorf("could not insert contestant in tarantool: %w", err)
	}
	return nil
}

func (r *ContestantRepository) GetByID(ctx context.Context, pollID, id int64) (*domain.Contestant, error) {
	res, err := r.selectByKey(ctx, 1, []interface{}{pollID, id})
	if err != nil {
		return nil, err
	}
	if len(res) == 0 {
		return nil, usecase.ErrContestantNotFound
	}
	return res[0].ToContestant(), nil
}

func (r *ContestantRepository) ListByPoll(ctx context.Context, pollID int64) ([]*domain.Contestant, error) {
	// partial key over the {poll_id, id} tree index
	res, err := r.selectByKey(ctx, selectLimit, []interface{}{pollID})
	if err != nil {
		return nil, err
	}
	contestants := make([]*domain.Contestant, len(res))
	for i := range res {
		contestants[i] = res[i].ToContestant()
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
	if _, err = r.do.Do(
		tarantool.NewReplaceRequest(contestantSpace).
			Context(ctx).
			Tuple(record.NewContestantRecord(contestant)),
	).Get(); err != nil {
		return fmt.Errorf("could not replace contestant in tarantool: %w", err)
	}
	return nil
}

func (r *ContestantRepository) selectByKey(ctx context.Context, limit uint32, key []interface{}) ([]record.ContestantRecord, error) {
	var res []record.ContestantRecord
	if err := r.do.Do(
		tarantool.NewSelectRequest(contestantSpace).
			Context(ctx).
			Index(primaryIndex).
			Limit(limit).
			Iterator(tarantool.IterEq).
			Key(key),
	).GetTyped(&res); err != nil {
		return nil, fmt.Errorf("could not select typed contestants in tarantool: %w", err)
	}
	return res, nil
}
