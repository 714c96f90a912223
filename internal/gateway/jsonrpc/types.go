package jsonrpc

import "github.com/Xausdorf/dapp-votes/internal/domain"

// Args of mutating calls carry From, the account sending the call.

type CreatePollArgs struct {
	From        string `json:"from"`
	Image       string `json:"image"`
	Title       string `json:"title"`
	Description string `json:"description"`
	StartsAt    int64  `json:"startsAt"`
	EndsAt      int64  `json:"endsAt"`
}

type UpdatePollArgs struct {
	From        string `json:"from"`
	ID          int64  `json:"id"`
	Image       string `json:"image"`
	Title       string `json:"title"`
	Description string `json:"description"`
	StartsAt    int64  `json:"startsAt"`
	EndsAt      int64  `json:"endsAt"`
}

type DeletePollArgs struct {
	From string `json:"from"`
	ID   int64  `json:"id"`
}

type ContestArgs struct {
	From   string `json:"from"`
	PollID int64  `json:"pollId"`
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}

type VoteArgs struct {
	From         string `json:"from"`
	PollID       int64  `json:"pollId"`
	ContestantID int64  `json:"contestantId"`
}

type GetPollsArgs struct{}

type GetPollArgs struct {
	ID int64 `json:"id"`
}

type GetContestantsArgs struct {
	PollID int64 `json:"pollId"`
}

type GetContestantArgs struct {
	PollID       int64 `json:"pollId"`
	ContestantID int64 `json:"contestantId"`
}

type BlockNumberArgs struct{}

type Poll struct {
	ID          int64  `json:"id"`
	Image       string `json:"image"`
	Title       string `json:"title"`
	Description string `json:"description"`
	StartsAt    int64  `json:"startsAt"`
	EndsAt      int64  `json:"endsAt"`
	Director    string `json:"director"`
	Status      string `json:"status"`
	Deleted     bool   `json:"deleted"`
	Votes       int64  `json:"votes"`
	Contestants int64  `json:"contestants"`
	Timestamp   int64  `json:"timestamp"`
}

type PollList []Poll

type Contestant struct {
	ID      int64    `json:"id"`
	PollID  int64    `json:"pollId"`
	Name    string   `json:"name"`
	Avatar  string   `json:"avatar"`
	Account string   `json:"account"`
	Votes   int64    `json:"votes"`
	Voters  []string `json:"voters"`
}

type ContestantList []Contestant

func NewPoll(p *domain.Poll) Poll {
	return Poll{
		ID:          p.ID,
		Image:       p.Image,
		Title:       p.Title,
		Description: p.Description,
		StartsAt:    p.StartsAt,
		EndsAt:      p.EndsAt,
		Director:    p.Director.String(),
		Status:      p.Status.String(),
		Deleted:     p.Deleted(),
		Votes:       p.VotesCount,
		Contestants: p.ContestantsCount,
		Timestamp:   p.CreatedAt,
	}
}

func NewContestant(c *domain.Contestant) Contestant {
	voters := make([]string, len(c.Voters))
	for i, v := range c.Voters {
		voters[i] = v.String()
	}
	return Contestant{
		ID:      c.ID,
		PollID:  c.PollID,
		Name:    c.Name,
		Avatar:  c.Avatar,
		Account: c.Account.String(),
		Votes:   c.Votes,
		Voters:  voters,
	}
}
