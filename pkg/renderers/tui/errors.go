package tui

import "errors"

// ErrAborted signals the user aborted input (e.g. Ctrl+C).
var ErrAborted = errors.New("tui: aborted")
