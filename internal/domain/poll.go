package domain

// PollStatus - lifecycle state of a poll. Deletion is terminal.
type PollStatus int

const (
	PollActive PollStatus = iota
	PollDeleted
)

func (s PollStatus) String() string {
	switch s {
	case PollActive:
		return "active"
	case PollDeleted:
		return "deleted"
	}
	return "unknown"
}

// Poll - structure for storing information about poll.
type Poll struct {
	ID          int64
	Image       string
	Title       string
	Description string
	// StartsAt and EndsAt - voting window in unix seconds, EndsAt excluded.
	StartsAt int64
	EndsAt   int64
	// Director - identity of poll's creator.
	Director Identity
	Status   PollStatus

	VotesCount       int64
	ContestantsCount int64
	CreatedAt        int64
}

func NewPoll(image, title, description string, startsAt, endsAt int64, director Identity) *Poll {
	return &Poll{
		Image:       image,
		Title:       title,
		Description: description,
		StartsAt:    startsAt,
		EndsAt:      endsAt,
		Director:    director,
		Status:      PollActive,
	}
}

func (p *Poll) Deleted() bool {
	return p.Status == PollDeleted
}

// InSession reports whether the poll accepts votes at the unix time now.
func (p *Poll) InSession(now int64) bool {
	return !p.Deleted() && p.StartsAt <= now && now < p.EndsAt
}

func (p *Poll) Clone() *Poll {
	c := *p
	return &c
}

// Contestant - entrant of a poll, accruing votes.
type Contestant struct {
	ID     int64
	PollID int64
	Name   string
	Avatar string
	// Account - identity who entered the poll.
	Account Identity
	Votes   int64
	Voters  []Identity
}

func NewContestant(pollID int64, name, avatar string, account Identity) *Contestant {
	return &Contestant{
		PollID:  pollID,
		Name:    name,
		Avatar:  avatar,
		Account: account,
		Voters:  []Identity{},
	}
}

func (c *Contestant) Clone() *Contestant {
	cp := *c
	cp.Voters = append([]Identity{}, c.Voters...)
	return &cp
}

// Ballot - structure for connecting the voter and his choice in the poll.
type Ballot struct {
	ID           string
	PollID       int64
	ContestantID int64
	Voter        Identity
	CastAt       int64
}
