package game

import "errors"

var (
	ErrDuplicateName   = errors.New("a player with this name already exists")
	ErrEmptyName       = errors.New("player name is empty")
	ErrNoSelection     = errors.New("no player selected")
	ErrUnknownCategory = errors.New("unknown scoring category")
	ErrEmptyRoster     = errors.New("add players before ending the round")
	ErrUnknownPlayer   = errors.New("no such player")
)

// IsUserError reports whether err is one of the recoverable conditions a
// presentation should show to the user rather than treat as a failure.
func IsUserError(err error) bool {
	for _, target := range []error{
		ErrDuplicateName, ErrEmptyName, ErrNoSelection,
		ErrUnknownCategory, ErrEmptyRoster, ErrUnknownPlayer,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
