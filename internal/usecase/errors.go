package usecase

import "errors"

// Revert reasons. Their texts are part of the call surface and must not change.
var (
	ErrInvalidIdentity     = errors.New("Invalid identity")
	ErrImageEmpty          = errors.New("Image URL cannot be empty")
	ErrTitleEmpty          = errors.New("Title cannot be empty")
	ErrDescriptionEmpty    = errors.New("Description cannot be empty")
	ErrStartDate           = errors.New("Start date must be greater than 0")
	ErrEndDate             = errors.New("End date must be greater than start date")
	ErrPollNotFound        = errors.New("Poll not found")
	ErrUnauthorized        = errors.New("Unauthorized entity")
	ErrPollingNotAvailable = errors.New("Polling not available")
	ErrNameEmpty           = errors.New("Name cannot be empty")
	ErrAvatarEmpty         = errors.New("Avatar URL cannot be empty")
	ErrAlreadyContested    = errors.New("Already contested")
	ErrAlreadyVoted        = errors.New("Already voted")
	ErrContestantNotFound  = errors.New("Contestant not found")
)

// ErrBallotNotFound is reported by BallotRepository and never leaves the usecase.
var ErrBallotNotFound = errors.New("ballot not found")

var reverts = []error{
	ErrInvalidIdentity,
	ErrImageEmpty,
	ErrTitleEmpty,
	ErrDescriptionEmpty,
	ErrStartDate,
	ErrEndDate,
	ErrPollNotFound,
	ErrUnauthorized,
	ErrPollingNotAvailable,
	ErrNameEmpty,
	ErrAvatarEmpty,
	ErrAlreadyContested,
	ErrAlreadyVoted,
	ErrContestantNotFound,
}

// Reason returns the revert reason carried by err, if err is a revert.
func Reason(err error) (string, bool) {
	for _, r := range reverts {
		if errors.Is(err, r) {
			return r.Error(), true
		}
	}
	return "", false
}
