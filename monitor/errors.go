package monitor

import "errors"

var (
	// ErrMissingRuleName indicates an alert rule without a name.
	ErrMissingRuleName = errors.New("monitor: rule name is required")

	// ErrDuplicateRule indicates a rule name is already registered.
	ErrDuplicateRule = errors.New("monitor: rule already registered")
)
