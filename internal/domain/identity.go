package domain

import (
	"errors"

	"github.com/ethereum/go-ethereum/common"
)

var ErrMalformedIdentity = errors.New("identity is not a hex account address")

// Identity - account address of a caller in its checksummed form.
type Identity string

// ParseIdentity accepts a hex account address with or without the 0x prefix and
// returns its checksummed form, so the same account always compares equal.
func ParseIdentity(s string) (Identity, error) {
	if !common.IsHexAddress(s) {
		return "", ErrMalformedIdentity
	}
	return Identity(common.HexToAddress(s).Hex()), nil
}

func (i Identity) String() string {
	return string(i)
}

func (i Identity) IsZero() bool {
	return i == ""
}
