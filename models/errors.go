package models

import "errors"

var (
	// ErrConfiguration reports a setup that cannot be simulated: an empty
	// lineup, no pitchers, or a non-positive number of innings.
	ErrConfiguration = errors.New("configuration error")

	// ErrInvalidParameter reports a probability, skill bonus or other
	// parameter outside its valid range.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrDataIntegrity reports an event set or state transition that can only
	// come from a caller bug, such as negative at-bats or a doubly occupied base.
	ErrDataIntegrity = errors.New("data integrity violation")
)
