package record

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/Xausdorf/dapp-votes/internal/domain"
)

func TestPollRecordIsTuple(t *testing.T) {
	poll := domain.NewPoll("https://image.png", "title", "description", 10, 20, "0xDirector")
	poll.ID = 7
	poll.Status = domain.PollDeleted
	poll.VotesCount = 3

	b, err := msgpack.Marshal(NewPollRecord(poll))
	require.NoError(t, err)

	// tarantool spaces index the first field, so the record must be a plain array
	var tuple []interface{}
	require.NoError(t, msgpack.Unmarshal(b, &tuple))
	require.Len(t, tuple, pollRecordFields)
	require.EqualValues(t, 7, tuple[0])

	var decoded PollRecord
	require.NoError(t, msgpack.Unmarshal(b, &decoded))
	require.Equal(t, poll, decoded.ToPoll())
}

func TestContestantRecordKeepsVoters(t *testing.T) {
	contestant := domain.NewContestant(2, "Contestant 1", "https://avatar1.png", "0xAccount")
	contestant.ID = 1
	contestant.Votes = 2
	contestant.Voters = []domain.Identity{"0xVoter1", "0xVoter2"}

	b, err := msgpack.Marshal(NewContestantRecord(contestant))
	require.NoError(t, err)

	var decoded ContestantRecord
	require.NoError(t, msgpack.Unmarshal(b, &decoded))
	require.Equal(t, contestant, decoded.ToContestant())
}

func TestRecordRejectsForeignTuple(t *testing.T) {
	b, err := msgpack.Marshal([]interface{}{1, "x"})
	require.NoError(t, err)

	var poll PollRecord
	require.Error(t, msgpack.Unmarshal(b, &poll))

	var ballot BallotRecord
	require.Error(t, msgpack.Unmarshal(b, &ballot))
}
