package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseIdentity(t *testing.T) {
	const checksummed = "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed"

	{ // lower case input is normalized
		id, err := ParseIdentity(strings.ToLower(checksummed))
		require.NoError(t, err)
		require.Equal(t, Identity(checksummed), id)
	}

	{ // without prefix
		id, err := ParseIdentity(strings.TrimPrefix(checksummed, "0x"))
		require.NoError(t, err)
		require.Equal(t, Identity(checksummed), id)
	}

	for _, bad := range []string{"", "0x", "0x1234", "not an address", checksummed + "00"} {
		_, err := ParseIdentity(bad)
		require.Equal(t, ErrMalformedIdentity, err, bad)
	}
}

func TestPollInSession(t *testing.T) {
	poll := NewPoll("https://image.png", "title", "description", 100, 200, "0x01")

	require.False(t, poll.InSession(99))
	require.True(t, poll.InSession(100))
	require.True(t, poll.InSession(199))
	require.False(t, poll.InSession(200))

	poll.Status = PollDeleted
	require.True(t, poll.Deleted())
	require.False(t, poll.InSession(150))
	require.Equal(t, "deleted", poll.Status.String())
}

func TestContestantClone(t *testing.T) {
	c := NewContestant(1, "name", "https://avatar.png", "0x01")
	c.Voters = append(c.Voters, "0x02")

	cp := c.Clone()
	cp.Voters[0] = "0x03"
	cp.Votes++

	require.Equal(t, Identity("0x02"), c.Voters[0])
	require.Equal(t, int64(0), c.Votes)
}
