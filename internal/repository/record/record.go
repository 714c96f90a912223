// Package record holds the tuple layout of ledger records. Records are encoded
// as msgpack arrays so they can be stored as Tarantool tuples and as leveldb values.
package record

import (
	"fmt"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/Xausdorf/dapp-votes/internal/domain"
)

type PollRecord struct {
	ID               int64
	Image            string
	Title            string
	Description      string
	StartsAt         int64
	EndsAt           int64
	Director         string
	Status           int
	VotesCount       int64
	ContestantsCount int64
	CreatedAt        int64
}

type ContestantRecord struct {
	PollID  int64
	ID      int64
	Name    string
	Avatar  string
	Account string
	Votes   int64
	Voters  []string
}

type BallotRecord struct {
	PollID       int64
	Voter        string
	ID           string
	ContestantID int64
	CastAt       int64
}

type SequenceRecord struct {
	Name  string
	Value int64
}

const (
	pollRecordFields       = 11
	contestantRecordFields = 7
	ballotRecordFields     = 5
	sequenceRecordFields   = 2
)

func NewPollRecord(poll *domain.Poll) *PollRecord {
	return &PollRecord{
		ID:               poll.ID,
		Image:            poll.Image,
		Title:            poll.Title,
		Description:      poll.Description,
		StartsAt:         poll.StartsAt,
		EndsAt:           poll.EndsAt,
		Director:         poll.Director.String(),
		Status:           int(poll.Status),
		VotesCount:       poll.VotesCount,
		ContestantsCount: poll.ContestantsCount,
		CreatedAt:        poll.CreatedAt,
	}
}

func (p *PollRecord) ToPoll() *domain.Poll {
	return &domain.Poll{
		ID:               p.ID,
		Image:            p.Image,
		Title:            p.Title,
		Description:      p.Description,
		StartsAt:         p.StartsAt,
		EndsAt:           p.EndsAt,
		Director:         domain.Identity(p.Director),
		Status:           domain.PollStatus(p.Status),
		VotesCount:       p.VotesCount,
		ContestantsCount: p.ContestantsCount,
		CreatedAt:        p.CreatedAt,
	}
}

func (p *PollRecord) EncodeMsgpack(e *msgpack.Encoder) error {
	if err := e.EncodeArrayLen(pollRecordFields); err != nil {
		return err
	}
	if err := e.EncodeInt(p.ID); err != nil {
		return err
	}
	for _, s := range []string{p.Image, p.Title, p.Description} {
		if err := e.EncodeString(s); err != nil {
			return err
		}
	}
	if err := e.EncodeInt(p.StartsAt); err != nil {
		return err
	}
	if err := e.EncodeInt(p.EndsAt); err != nil {
		return err
	}
	if err := e.EncodeString(p.Director); err != nil {
		return err
	}
	for _, v := range []int64{int64(p.Status), p.VotesCount, p.ContestantsCount, p.CreatedAt} {
		if err := e.EncodeInt(v); err != nil {
			return err
		}
	}
	return nil
}

func (p *PollRecord) DecodeMsgpack(d *msgpack.Decoder) error {
	var err error
	var l int
	if l, err = d.DecodeArrayLen(); err != nil {
		return err
	}
	if l != pollRecordFields {
		return fmt.Errorf("array len doesn't match: %d", l)
	}
	if p.ID, err = d.DecodeInt64(); err != nil {
		return err
	}
	if p.Image, err = d.DecodeString(); err != nil {
		return err
	}
	if p.Title, err = d.DecodeString(); err != nil {
		return err
	}
	if p.Description, err = d.DecodeString(); err != nil {
		return err
	}
	if p.StartsAt, err = d.DecodeInt64(); err != nil {
		return err
	}
	if p.EndsAt, err = d.DecodeInt64(); err != nil {
		return err
	}
	if p.Director, err = d.DecodeString(); err != nil {
		return err
	}
	if p.Status, err = d.DecodeInt(); err != nil {
		return err
	}
	if p.VotesCount, err = d.DecodeInt64(); err != nil {
		return err
	}
	if p.ContestantsCount, err = d.DecodeInt64(); err != nil {
		return err
	}
	if p.CreatedAt, err = d.DecodeInt64(); err != nil {
		return err
	}
	return nil
}

func NewContestantRecord(contestant *domain.Contestant) *ContestantRecord {
	voters := make([]string, len(contestant.Voters))
	for i, v := range contestant.Voters {
		voters[i] = v.String()
	}
	return &ContestantRecord{
		PollID:  contestant.PollID,
		ID:      contestant.ID,
		Name:    contestant.Name,
		Avatar:  contestant.Avatar,
		Account: contestant.Account.String(),
		Votes:   contestant.Votes,
		Voters:  voters,
	}
}

func (c *ContestantRecord) ToContestant() *domain.Contestant {
	voters := make([]domain.Identity, len(c.Voters))
	for i, v := range c.Voters {
		voters[i] = domain.Identity(v)
	}
	return &domain.Contestant{
		ID:      c.ID,
		PollID:  c.PollID,
		Name:    c.Name,
		Avatar:  c.Avatar,
		Account: domain.Identity(c.Account),
		Votes:   c.Votes,
		Voters:  voters,
	}
}

func (c *ContestantRecord) EncodeMsgpack(e *msgpack.Encoder) error {
	if err := e.EncodeArrayLen(contestantRecordFields); err != nil {
		return err
	}
	if err := e.EncodeInt(c.PollID); err != nil {
		return err
	}
	if err := e.EncodeInt(c.ID); err != nil {
		return err
	}
	if err := e.EncodeString(c.Name); err != nil {
		return err
	}
	if err := e.EncodeString(c.Avatar); err != nil {
		return err
	}
	if err := e.EncodeString(c.Account); err != nil {
		return err
	}
	if err := e.EncodeInt(c.Votes); err != nil {
		return err
	}
	if err := e.EncodeArrayLen(len(c.Voters)); err != nil {
		return err
	}
	for _, v := range c.Voters {
		if err := e.EncodeString(v); err != nil {
			return err
		}
	}
	return nil
}

func (c *ContestantRecord) DecodeMsgpack(d *msgpack.Decoder) error {
	var err error
	var l int
	if l, err = d.DecodeArrayLen(); err != nil {
		return err
	}
	if l != contestantRecordFields {
		return fmt.Errorf("array len doesn't match: %d", l)
	}
	if c.PollID, err = d.DecodeInt64(); err != nil {
		return err
	}
	if c.ID, err = d.DecodeInt64(); err != nil {
		return err
	}
	if c.Name, err = d.DecodeString(); err != nil {
		return err
	}
	if c.Avatar, err = d.DecodeString(); err != nil {
		return err
	}
	if c.Account, err = d.DecodeString(); err != nil {
		return err
	}
	if c.Votes, err = d.DecodeInt64(); err != nil {
		return err
	}
	if l, err = d.DecodeArrayLen(); err != nil {
		return err
	}
	c.Voters = make([]string, 0, max(l, 0))
	for i := 0; i < l; i++ {
		var v string
		if v, err = d.DecodeString(); err != nil {
			return err
		}
		c.Voters = append(c.Voters, v)
	}
	return nil
}

func NewBallotRecord(ballot *domain.Ballot) *BallotRecord {
	return &BallotRecord{
		PollID:       ballot.PollID,
		Voter:        ballot.Voter.String(),
		ID:           ballot.ID,
		ContestantID: ballot.ContestantID,
		CastAt:       ballot.CastAt,
	}
}

func (b *BallotRecord) ToBallot() *domain.Ballot {
	return &domain.Ballot{
		ID:           b.ID,
		PollID:       b.PollID,
		ContestantID: b.ContestantID,
		Voter:        domain.Identity(b.Voter),
		CastAt:       b.CastAt,
	}
}

func (b *BallotRecord) EncodeMsgpack(e *msgpack.Encoder) error {
	if err := e.EncodeArrayLen(ballotRecordFields); err != nil {
		return err
	}
	if err := e.EncodeInt(b.PollID); err != nil {
		return err
	}
	if err := e.EncodeString(b.Voter); err != nil {
		return err
	}
	if err := e.EncodeString(b.ID); err != nil {
		return err
	}
	if err := e.EncodeInt(b.ContestantID); err != nil {
		return err
	}
	if err := e.EncodeInt(b.CastAt); err != nil {
		return err
	}
	return nil
}

func (b *BallotRecord) DecodeMsgpack(d *msgpack.Decoder) error {
	var err error
	var l int
	if l, err = d.DecodeArrayLen(); err != nil {
		return err
	}
	if l != ballotRecordFields {
		return fmt.Errorf("array len doesn't match: %d", l)
	}
	if b.PollID, err = d.DecodeInt64(); err != nil {
		return err
	}
	if b.Voter, err = d.DecodeString(); err != nil {
		return err
	}
	if b.ID, err = d.DecodeString(); err != nil {
		return err
	}
	if b.ContestantID, err = d.DecodeInt64(); err != nil {
		return err
	}
	if b.CastAt, err = d.DecodeInt64(); err != nil {
		return err
	}
	return nil
}

func (s *SequenceRecord) EncodeMsgpack(e *msgpack.Encoder) error {
	if err := e.EncodeArrayLen(sequenceRecordFields); err != nil {
		return err
	}
	if err := e.EncodeString(s.Name); err != nil {
		return err
	}
	return e.EncodeInt(s.Value)
}

func (s *SequenceRecord) DecodeMsgpack(d *msgpack.Decoder) error {
	var err error
	var l int
	if l, err = d.DecodeArrayLen(); err != nil {
		return err
	}
	if l != sequenceRecordFields {
		return fmt.Errorf("array len doesn't match: %d", l)
	}
	if s.Name, err = d.DecodeString(); err != nil {
		return err
	}
	if s.Value, err = d.DecodeInt64(); err != nil {
		return err
	}
	return nil
}
