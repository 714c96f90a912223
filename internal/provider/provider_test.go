package provider

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Xausdorf/dapp-votes/internal/gateway/jsonrpc"
	"github.com/Xausdorf/dapp-votes/internal/repository/memory"
	"github.com/Xausdorf/dapp-votes/internal/usecase"
)

const (
	deployer    = "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"
	contestant1 = "0x70997970C51812dc3A010C7d01b50e0d17dc79C8"
	contestant2 = "0x3C44CdDdB6a900fa2b585dd299e03d12FA4293BC"
	voter1      = "0x90F79bf6EB2c4f870365E785982E1f101E93b906"
	voter2      = "0x15d34AAf54267DB7D7c367839AAf71A00a2C6A65"
)

var now = time.Unix(1700000000, 0)

func noBackoff(int) time.Duration { return 0 }

func newTestProvider(t *testing.T) *Provider {
	voting := usecase.NewVoting(memory.NewLedger(), usecase.WithClock(func() time.Time { return now }))
	endpoint, _ := url.Parse("http://localhost/")

	server := httptest.NewServer(jsonrpc.NewServer(endpoint, voting).Ready())
	t.Cleanup(server.Close)

	return New(server.URL+"/", WithRetry(RetrySetting{MaxRetries: 1, Backoff: noBackoff}))
}

func pollArgs() jsonrpc.CreatePollArgs {
	return jsonrpc.CreatePollArgs{
		From:        deployer,
		Image:       "https://image.png",
		Title:       "Republican Primary Election",
		Description: "Lorem Ipsum",
		StartsAt:    now.Unix(),
		EndsAt:      now.Add(24 * time.Hour).Unix(),
	}
}

func TestProviderReady(t *testing.T) {
	p := newTestProvider(t)

	block, err := p.Ready(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(0), block)
}

func TestProviderPollManagement(t *testing.T) {
	p := newTestProvider(t)
	ctx := context.Background()

	created, err := p.CreatePoll(ctx, pollArgs())
	require.NoError(t, err)

	polls, err := p.GetPolls(ctx)
	require.NoError(t, err)
	require.Len(t, polls, 1)
	require.Equal(t, "Republican Primary Election", polls[0].Title)
	require.Equal(t, created, polls[0])

	updated, err := p.UpdatePoll(ctx, jsonrpc.UpdatePollArgs{
		From:        deployer,
		ID:          created.ID,
		Image:       created.Image,
		Title:       "Democratic Primary Election",
		Description: created.Description,
		StartsAt:    created.StartsAt,
		EndsAt:      created.EndsAt,
	})
	require.NoError(t, err)
	require.Equal(t, "Democratic Primary Election", updated.Title)

	poll, err := p.GetPoll(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, "Democratic Primary Election", poll.Title)

	deleted, err := p.DeletePoll(ctx, jsonrpc.DeletePollArgs{From: deployer, ID: created.ID})
	require.NoError(t, err)
	require.True(t, deleted.Deleted)

	block, err := p.BlockNumber(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(3), block)
}

func TestProviderContestAndVote(t *testing.T) {
	p := newTestProvider(t)
	ctx := context.Background()

	poll, err := p.CreatePoll(ctx, pollArgs())
	require.NoError(t, err)

	_, err = p.Contest(ctx, jsonrpc.ContestArgs{From: contestant1, PollID: poll.ID, Name: "Contestant 1", Avatar: "https://avatar1.png"})
	require.NoError(t, err)
	_, err = p.Contest(ctx, jsonrpc.ContestArgs{From: contestant2, PollID: poll.ID, Name: "Contestant 2", Avatar: "https://avatar2.png"})
	require.NoError(t, err)

	contestants, err := p.GetContestants(ctx, poll.ID)
	require.NoError(t, err)
	require.Len(t, contestants, 2)

	_, err = p.Vote(ctx, jsonrpc.VoteArgs{From: voter1, PollID: poll.ID, ContestantID: 1})
	require.NoError(t, err)
	_, err = p.Vote(ctx, jsonrpc.VoteArgs{From: voter2, PollID: poll.ID, ContestantID: 1})
	require.NoError(t, err)

	contestant, err := p.GetContestant(ctx, poll.ID, 1)
	require.NoError(t, err)
	require.Equal(t, int64(2), contestant.Votes)
	require.Equal(t, []string{voter1, voter2}, contestant.Voters)

	poll, err = p.GetPoll(ctx, poll.ID)
	require.NoError(t, err)
	require.Equal(t, int64(2), poll.Votes)
	require.Equal(t, int64(2), poll.Contestants)
}

func TestProviderRevert(t *testing.T) {
	p := newTestProvider(t)
	ctx := context.Background()

	args := pollArgs()
	args.Image = ""
	_, err := p.CreatePoll(ctx, args)
	require.IsType(t, &RevertError{}, err)
	require.EqualError(t, err, "Image URL cannot be empty")

	args = pollArgs()
	args.StartsAt = 0
	_, err = p.CreatePoll(ctx, args)
	require.EqualError(t, err, "Start date must be greater than 0")

	args = pollArgs()
	args.EndsAt = args.StartsAt
	_, err = p.CreatePoll(ctx, args)
	require.EqualError(t, err, "End date must be greater than start date")

	_, err = p.GetContestants(ctx, 9)
	require.EqualError(t, err, "Poll not found")
}

func TestProviderReadyDoesNotRetry(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	p := New(server.URL, WithRetry(RetrySetting{MaxRetries: 3, Backoff: noBackoff}))

	_, err := p.Ready(context.Background())
	require.Error(t, err)
	require.Equal(t, int32(1), atomic.LoadInt32(&hits))

	_, err = p.GetPolls(context.Background())
	require.Error(t, err)
	require.Equal(t, int32(4), atomic.LoadInt32(&hits))
}

func TestProviderReadyDeadEndpoint(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	endpoint := server.URL
	server.Close()

	_, err := New(endpoint).Ready(context.Background())
	require.Error(t, err)
	_, isRevert := err.(*RevertError)
	require.False(t, isRevert)
}
