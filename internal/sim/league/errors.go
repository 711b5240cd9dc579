package league

import "errors"

var (
	ErrPlayerNotFound = errors.New("player not found")
	ErrTeamNotFound   = errors.New("team not found")
	ErrEmptyRoster    = errors.New("empty roster")
)
