// Package ledgertest checks that a usecase.Ledger implementation behaves like the others.
package ledgertest

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Xausdorf/dapp-votes/internal/domain"
	"github.com/Xausdorf/dapp-votes/internal/usecase"
)

var errAbort = errors.New("abort")

// Run runs the conformance suite. newLedger must return an empty ledger.
func Run(t *testing.T, newLedger func(t *testing.T) usecase.Ledger) {
	t.Run("PollLifecycle", func(t *testing.T) { testPollLifecycle(t, newLedger(t)) })
	t.Run("Contestants", func(t *testing.T) { testContestants(t, newLedger(t)) })
	t.Run("Ballots", func(t *testing.T) { testBallots(t, newLedger(t)) })
	t.Run("Sequences", func(t *testing.T) { testSequences(t, newLedger(t)) })
	t.Run("AtomicRollback", func(t *testing.T) { testAtomicRollback(t, newLedger(t)) })
}

func testPollLifecycle(t *testing.T, l usecase.Ledger) {
	ctx := context.Background()

	_, err := l.Polls().GetByID(ctx, 1)
	require.ErrorIs(t, err, usecase.ErrPollNotFound)

	for id := int64(1); id <= 3; id++ {
		poll := domain.NewPoll("https://image.png", "title", "description", 10, 20, "0xDirector")
		poll.ID = id
		require.NoError(t, l.Polls().Save(ctx, poll))
	}

	require.NoError(t, l.Polls().UpdateByID(ctx, 2, func(poll *domain.Poll) error {
		poll.Title = "updated"
		poll.Status = domain.PollDeleted
		return nil
	}))

	poll, err := l.Polls().GetByID(ctx, 2)
	require.NoError(t, err)
	require.Equal(t, "updated", poll.Title)
	require.True(t, poll.Deleted())

	// a failing update keeps the stored poll
	require.ErrorIs(t, l.Polls().UpdateByID(ctx, 1, func(poll *domain.Poll) error {
		poll.Title = "lost"
		return errAbort
	}), errAbort)
	poll, err = l.Polls().GetByID(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, "title", poll.Title)

	require.ErrorIs(t, l.Polls().UpdateByID(ctx, 100, func(*domain.Poll) error { return nil }), usecase.ErrPollNotFound)

	polls, err := l.Polls().List(ctx)
	require.NoError(t, err)
	require.Len(t, polls, 3)
	for i, p := range polls {
		require.Equal(t, int64(i+1), p.ID)
	}
}

func testContestants(t *testing.T, l usecase.Ledger) {
	ctx := context.Background()

	for _, c := range []*domain.Contestant{
		{ID: 2, PollID: 1, Name: "Contestant 2", Avatar: "https://avatar2.png", Account: "0x02", Voters: []domain.Identity{}},
		{ID: 1, PollID: 1, Name: "Contestant 1", Avatar: "https://avatar1.png", Account: "0x01", Voters: []domain.Identity{}},
		{ID: 1, PollID: 2, Name: "Other", Avatar: "https://avatar3.png", Account: "0x01", Voters: []domain.Identity{}},
	} {
		require.NoError(t, l.Contestants().Save(ctx, c))
	}

	contestants, err := l.Contestants().ListByPoll(ctx, 1)
	require.NoError(t, err)
	require.Len(t, contestants, 2)
	require.Equal(t, "Contestant 1", contestants[0].Name)
	require.Equal(t, "Contestant 2", contestants[1].Name)

	require.NoError(t, l.Contestants().UpdateByID(ctx, 1, 2, func(c *domain.Contestant) error {
		c.Votes++
		c.Voters = append(c.Voters, "0x09")
		return nil
	}))
	c, err := l.Contestants().GetByID(ctx, 1, 2)
	require.NoError(t, err)
	require.Equal(t, int64(1), c.Votes)
	require.Equal(t, []domain.Identity{"0x09"}, c.Voters)

	_, err = l.Contestants().GetByID(ctx, 1, 3)
	require.ErrorIs(t, err, usecase.ErrContestantNotFound)

	contestants, err = l.Contestants().ListByPoll(ctx, 3)
	require.NoError(t, err)
	require.Empty(t, contestants)
}

func testBallots(t *testing.T, l usecase.Ledger) {
	ctx := context.Background()

	_, err := l.Ballots().GetByVoterAndPoll(ctx, "0xVoter", 1)
	require.ErrorIs(t, err, usecase.ErrBallotNotFound)

	ballot := &domain.Ballot{ID: "ballot", PollID: 1, ContestantID: 2, Voter: "0xVoter", CastAt: 15}
	require.NoError(t, l.Ballots().Save(ctx, ballot))
	require.ErrorIs(t, l.Ballots().Save(ctx, ballot), usecase.ErrAlreadyVoted)

	found, err := l.Ballots().GetByVoterAndPoll(ctx, "0xVoter", 1)
	require.NoError(t, err)
	require.Equal(t, ballot, found)

	// the same voter may vote in another poll
	other := *ballot
	other.PollID = 2
	require.NoError(t, l.Ballots().Save(ctx, &other))
}

func testSequences(t *testing.T, l usecase.Ledger) {
	ctx := context.Background()

	current, err := l.Sequences().Current(ctx, usecase.BlockSequence)
	require.NoError(t, err)
	require.Equal(t, int64(0), current)

	for want := int64(1); want <= 3; want++ {
		next, err := l.Sequences().Next(ctx, usecase.BlockSequence)
		require.NoError(t, err)
		require.Equal(t, want, next)
	}

	next, err := l.Sequences().Next(ctx, usecase.PollSequence)
	require.NoError(t, err)
	require.Equal(t, int64(1), next)

	current, err = l.Sequences().Current(ctx, usecase.BlockSequence)
	require.NoError(t, err)
	require.Equal(t, int64(3), current)
}

func testAtomicRollback(t *testing.T, l usecase.Ledger) {
	ctx := context.Background()

	require.NoError(t, l.Atomic(ctx, func(tx usecase.Ledger) error {
		poll := domain.NewPoll("https://image.png", "title", "description", 10, 20, "0xDirector")
		poll.ID = 1
		return tx.Polls().Save(ctx, poll)
	}))

	err := l.Atomic(ctx, func(tx usecase.Ledger) error {
		if _, err := tx.Sequences().Next(ctx, usecase.BlockSequence); err != nil {
			return err
		}
		if err := tx.Polls().UpdateByID(ctx, 1, func(poll *domain.Poll) error {
			poll.VotesCount = 10
			return nil
		}); err != nil {
			return err
		}
		// writes are visible inside the transaction
		poll, err := tx.Polls().GetByID(ctx, 1)
		if err != nil {
			return err
		}
		require.Equal(t, int64(10), poll.VotesCount)
		return errAbort
	})
	require.ErrorIs(t, err, errAbort)

	poll, err := l.Polls().GetByID(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, int64(0), poll.VotesCount)

	current, err := l.Sequences().Current(ctx, usecase.BlockSequence)
	require.NoError(t, err)
	require.Equal(t, int64(0), current)
}
