package main

import (
	"errors"

	"github.com/lox/cuescore/internal/game"
)

// UserMessage returns the text shown for err. Engine conditions get a hint
// about the command that resolves them; anything else is its own message.
func UserMessage(err error) string {
	switch {
	case errors.Is(err, game.ErrNoSelection):
		return "no player selected: run `cuescore player select NAME` first"
	case errors.Is(err, game.ErrDuplicateName):
		return err.Error() + ": choose a different name"
	case errors.Is(err, game.ErrEmptyName):
		return "player name is empty: run `cuescore player add NAME`"
	case errors.Is(err, game.ErrEmptyRoster):
		return "no players in the round: run `cuescore player add NAME` first"
	case errors.Is(err, game.ErrUnknownCategory):
		return err.Error() + ": run `cuescore catalog` for the list"
	case errors.Is(err, game.ErrUnknownPlayer):
		return err.Error() + ": run `cuescore player list`"
	}
	return err.Error()
}

type userFacingError struct {
	err error
}

func (e userFacingError) Error() string { return UserMessage(e.err) }
func (e userFacingError) Unwrap() error { return e.err }

// userError wraps engine errors so kong prints UserMessage.
func userError(err error) error {
	if err == nil || !game.IsUserError(err) {
		return err
	}
	return userFacingError{err: err}
}
