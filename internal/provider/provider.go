// Package provider is the client side of the node's JSON-RPC surface.
package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net/http"
	"time"

	rpcjson "github.com/gorilla/rpc/json"
	"github.com/sethgrid/pester"

	"github.com/Xausdorf/dapp-votes/internal/gateway/jsonrpc"
)

const DefaultEndpoint = "http://127.0.0.1:8545"

// RevertError is a call rejected by the node. Error returns the revert reason.
type RevertError struct {
	Reason string
}

func (e *RevertError) Error() string {
	return e.Reason
}

type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

type RetrySetting struct {
	MaxRetries int
	Backoff    pester.BackoffStrategy
}

type Option func(p *Provider)

func WithHTTPClient(client *http.Client) Option {
	return func(p *Provider) {
		p.client = client
	}
}

// WithRetry sets how read calls retry transient transport failures.
func WithRetry(setting RetrySetting) Option {
	return func(p *Provider) {
		p.retry = setting
	}
}

type Provider struct {
	endpoint string
	client   *http.Client
	retry    RetrySetting

	reads  HTTPDoer
	writes HTTPDoer
}

func New(endpoint string, opts ...Option) *Provider {
	p := &Provider{
		endpoint: endpoint,
		client:   &http.Client{Timeout: 10 * time.Second},
		retry: RetrySetting{
			MaxRetries: 3,
			Backoff:    pester.ExponentialJitterBackoff,
		},
	}
	for _, opt := range opts {
		opt(p)
	}

	ec := pester.NewExtendedClient(p.client)
	{
		ec.MaxRetries = p.retry.MaxRetries
		ec.Concurrency = 1
		ec.Backoff = p.retry.Backoff
	}
	p.reads = ec
	p.writes = p.client

	return p
}

func (p *Provider) Endpoint() string {
	return p.endpoint
}

// Ready asks the node for its block number once. It does not retry.
func (p *Provider) Ready(ctx context.Context) (int64, error) {
	var block int64
	if err := p.do(ctx, p.writes, "Chain.BlockNumber", &jsonrpc.BlockNumberArgs{}, &block); err != nil {
		return 0, err
	}
	return block, nil
}

func (p *Provider) BlockNumber(ctx context.Context) (int64, error) {
	var block int64
	err := p.do(ctx, p.reads, "Chain.BlockNumber", &jsonrpc.BlockNumberArgs{}, &block)
	return block, err
}

func (p *Provider) CreatePoll(ctx context.Context, args jsonrpc.CreatePollArgs) (jsonrpc.Poll, error) {
	var poll jsonrpc.Poll
	err := p.do(ctx, p.writes, "DappVotes.CreatePoll", &args, &poll)
	return poll, err
}

func (p *Provider) UpdatePoll(ctx context.Context, args jsonrpc.UpdatePollArgs) (jsonrpc.Poll, error) {
	var poll jsonrpc.Poll
	err := p.do(ctx, p.writes, "DappVotes.UpdatePoll", &args, &poll)
	return poll, err
}

func (p *Provider) DeletePoll(ctx context.Context, args jsonrpc.DeletePollArgs) (jsonrpc.Poll, error) {
	var poll jsonrpc.Poll
	err := p.do(ctx, p.writes, "DappVotes.DeletePoll", &args, &poll)
	return poll, err
}

func (p *Provider) Contest(ctx context.Context, args jsonrpc.ContestArgs) (jsonrpc.Contestant, error) {
	var contestant jsonrpc.Contestant
	err := p.do(ctx, p.writes, "DappVotes.Contest", &args, &contestant)
	return contestant, err
}

func (p *Provider) Vote(ctx context.Context, args jsonrpc.VoteArgs) (jsonrpc.Contestant, error) {
	var contestant jsonrpc.Contestant
	err := p.do(ctx, p.writes, "DappVotes.Vote", &args, &contestant)
	return contestant, err
}

func (p *Provider) GetPolls(ctx context.Context) (jsonrpc.PollList, error) {
	var polls jsonrpc.PollList
	err := p.do(ctx, p.reads, "DappVotes.GetPolls", &jsonrpc.GetPollsArgs{}, &polls)
	return polls, err
}

func (p *Provider) GetPoll(ctx context.Context, id int64) (jsonrpc.Poll, error) {
	var poll jsonrpc.Poll
	err := p.do(ctx, p.reads, "DappVotes.GetPoll", &jsonrpc.GetPollArgs{ID: id}, &poll)
	return poll, err
}

func (p *Provider) GetContestants(ctx context.Context, pollID int64) (jsonrpc.ContestantList, error) {
	var contestants jsonrpc.ContestantList
	err := p.do(ctx, p.reads, "DappVotes.GetContestants", &jsonrpc.GetContestantsArgs{PollID: pollID}, &contestants)
	return contestants, err
}

func (p *Provider) GetContestant(ctx context.Context, pollID, contestantID int64) (jsonrpc.Contestant, error) {
	var contestant jsonrpc.Contestant
	err := p.do(ctx, p.reads, "DappVotes.GetContestant", &jsonrpc.GetContestantArgs{PollID: pollID, ContestantID: contestantID}, &contestant)
	return contestant, err
}

type errorEnvelope struct {
	Error interface{} `json:"error"`
}

func (p *Provider) do(ctx context.Context, doer HTTPDoer, method string, args, reply interface{}) error {
	message, err := rpcjson.EncodeClientRequest(method, args)
	if err != nil {
		return fmt.Errorf("could not encode %s: %w", method, err)
	}

	req, err := http.NewRequest(http.MethodPost, p.endpoint, bytes.NewBuffer(message))
	if err != nil {
		return fmt.Errorf("could not build %s request: %w", method, err)
	}
	req = req.WithContext(ctx)
	req.Header.Set("Content-Type", "application/json")

	resp, err := doer.Do(req)
	if err != nil {
		return fmt.Errorf("could not reach %s: %w", p.endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s: unexpected status %s", method, resp.Status)
	}

	body, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("could not read %s response: %w", method, err)
	}

	var envelope errorEnvelope
	if err = json.Unmarshal(body, &envelope); err != nil {
		return fmt.Errorf("malformed %s response: %w", method, err)
	}
	if envelope.Error != nil {
		return &RevertError{Reason: fmt.Sprint(envelope.Error)}
	}

	if err = rpcjson.DecodeClientResponse(bytes.NewReader(body), reply); err != nil {
		return fmt.Errorf("could not decode %s result: %w", method, err)
	}
	return nil
}
