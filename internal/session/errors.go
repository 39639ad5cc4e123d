package session

import "errors"

// ErrSuperseded is returned by a fetch whose result was discarded because a
// newer fetch of the same kind began first.
var ErrSuperseded = errors.New("fetch superseded")
