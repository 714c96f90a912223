package ttadapter

import (
	"context"
	"fmt"

	"github.com/tarantool/go-tarantool/v2"

	"github.com/Xausdorf/dapp-votes/internal/repository/record"
)

type SequenceRepository struct {
	do doer
}

func (r *SequenceRepository) Next(ctx context.Context, name string) (int64, error) {
	if _, err := r.do.Do(
		tarantool.NewUpsertRequest(sequenceSpace).
			Context(ctx).
			Tuple(&record.SequenceRecord{Name: name, Value: 1}).
			Operations(tarantool.NewOperations().Add(1, 1)),
	).Get(); err != nil {
		return 0, fmt.Errorf("could not upsert sequence in tarantool: %w", err)
	}
	return r.Current(ctx, name)
}

func (r *SequenceRepository) Current(ctx context.Context, name string) (int64, error) {
	var res []record.SequenceRecord
	if err := r.do.Do(
		tarantool.NewSelectRequest(sequenceSpace).
			Context(ctx).
			Index(primaryIndex).
			Limit(1).
			Iterator(tarantool.IterEq).
			Key([]interface{}{name}),
	).GetTyped(&res); err != nil {
		return 0, fmt.Errorf("could not select typed sequence in tarantool: %w", err)
	}
	if len(res) == 0 {
		return 0, nil
	}
	return res[0].Value, nil
}
