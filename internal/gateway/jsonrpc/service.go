package jsonrpc

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/Xausdorf/dapp-votes/internal/domain"
	"github.com/Xausdorf/dapp-votes/internal/metrics"
	"github.com/Xausdorf/dapp-votes/internal/usecase"
)

// ErrInternal replaces errors that are not reverts, so backend details stay in the node log.
var ErrInternal = errors.New("Internal error")

// DappVotesService is the contract call surface, registered as "DappVotes".
type DappVotesService struct {
	voting  *usecase.Voting
	metrics *metrics.RPCMetrics
}

func (s *DappVotesService) CreatePoll(r *http.Request, args *CreatePollArgs, reply *Poll) error {
	return s.call(r, "createPoll", func(ctx context.Context) error {
		caller, err := parseCaller(args.From)
		if err != nil {
			return err
		}
		poll, err := s.voting.CreatePoll(ctx, caller, usecase.PollFields{
			Image:       args.Image,
			Title:       args.Title,
			Description: args.Description,
			StartsAt:    args.StartsAt,
			EndsAt:      args.EndsAt,
		})
		if err != nil {
			return err
		}
		*reply = NewPoll(poll)
		return nil
	})
}

func (s *DappVotesService) UpdatePoll(r *http.Request, args *UpdatePollArgs, reply *Poll) error {
	return s.call(r, "updatePoll", func(ctx context.Context) error {
		caller, err := parseCaller(args.From)
		if err != nil {
			return err
		}
		poll, err := s.voting.UpdatePoll(ctx, caller, args.ID, usecase.PollFields{
			Image:       args.Image,
			Title:       args.Title,
			Description: args.Description,
			StartsAt:    args.StartsAt,
			EndsAt:      args.EndsAt,
		})
		if err != nil {
			return err
		}
		*reply = NewPoll(poll)
		return nil
	})
}

func (s *DappVotesService) DeletePoll(r *http.Request, args *DeletePollArgs, reply *Poll) error {
	return s.call(r, "deletePoll", func(ctx context.Context) error {
		caller, err := parseCaller(args.From)
		if err != nil {
			return err
		}
		if err = s.voting.DeletePoll(ctx, caller, args.ID); err != nil {
			return err
		}
		poll, err := s.voting.GetPoll(ctx, args.ID)
		if err != nil {
			return err
		}
		*reply = NewPoll(poll)
		return nil
	})
}

func (s *DappVotesService) Contest(r *http.Request, args *ContestArgs, reply *Contestant) error {
	return s.call(r, "contest", func(ctx context.Context) error {
		caller, err := parseCaller(args.From)
		if err != nil {
			return err
		}
		contestant, err := s.voting.Contest(ctx, caller, args.PollID, args.Name, args.Avatar)
		if err != nil {
			return err
		}
		*reply = NewContestant(contestant)
		return nil
	})
}

func (s *DappVotesService) Vote(r *http.Request, args *VoteArgs, reply *Contestant) error {
	return s.call(r, "vote", func(ctx context.Context) error {
		caller, err := parseCaller(args.From)
		if err != nil {
			return err
		}
		contestant, err := s.voting.Vote(ctx, caller, args.PollID, args.ContestantID)
		if err != nil {
			return err
		}
		*reply = NewContestant(contestant)
		return nil
	})
}

func (s *DappVotesService) GetPolls(r *http.Request, _ *GetPollsArgs, reply *PollList) error {
	return s.call(r, "getPolls", func(ctx context.Context) error {
		polls, err := s.voting.GetPolls(ctx)
		if err != nil {
			return err
		}
		list := make(PollList, len(polls))
		for i, p := range polls {
			list[i] = NewPoll(p)
		}
		*reply = list
		return nil
	})
}

func (s *DappVotesService) GetPoll(r *http.Request, args *GetPollArgs, reply *Poll) error {
	return s.call(r, "getPoll", func(ctx context.Context) error {
		poll, err := s.voting.GetPoll(ctx, args.ID)
		if err != nil {
			return err
		}
		*reply = NewPoll(poll)
		return nil
	})
}

func (s *DappVotesService) GetContestants(r *http.Request, args *GetContestantsArgs, reply *ContestantList) error {
	return s.call(r, "getContestants", func(ctx context.Context) error {
		contestants, err := s.voting.GetContestants(ctx, args.PollID)
		if err != nil {
			return err
		}
		list := make(ContestantList, len(contestants))
		for i, c := range contestants {
			list[i] = NewContestant(c)
		}
		*reply = list
		return nil
	})
}

func (s *DappVotesService) GetContestant(r *http.Request, args *GetContestantArgs, reply *Contestant) error {
	return s.call(r, "getContestant", func(ctx context.Context) error {
		contestant, err := s.voting.GetContestant(ctx, args.PollID, args.ContestantID)
		if err != nil {
			return err
		}
		*reply = NewContestant(contestant)
		return nil
	})
}

// call runs fn, records it and turns its error into what the caller may see.
func (s *DappVotesService) call(r *http.Request, method string, fn func(ctx context.Context) error) error {
	start := time.Now()
	err := fn(r.Context())

	status := metrics.StatusOK
	if err != nil {
		if reason, ok := usecase.Reason(err); ok {
			status = metrics.StatusReverted
			log.Debug("call reverted", "method", method, "reason", reason)
			err = errors.New(reason)
		} else {
			status = metrics.StatusError
			log.Error("call failed", "method", method, "err", err)
			err = ErrInternal
		}
	}
	s.metrics.Observe(method, status, time.Since(start))

	if status == metrics.StatusOK {
		if block, bErr := s.voting.BlockNumber(r.Context()); bErr == nil {
			s.metrics.BlockNumber.Set(float64(block))
		}
	}
	return err
}

// ChainService answers node level queries, registered as "Chain".
type ChainService struct {
	voting *usecase.Voting
}

func (s *ChainService) BlockNumber(r *http.Request, _ *BlockNumberArgs, reply *int64) error {
	block, err := s.voting.BlockNumber(r.Context())
	if err != nil {
		log.Error("could not read block number", "err", err)
		return ErrInternal
	}
	*reply = block
	return nil
}

func parseCaller(from string) (domain.Identity, error) {
	caller, err := domain.ParseIdentity(from)
	if err != nil {
		return "", usecase.ErrInvalidIdentity
	}
	return caller, nil
}
