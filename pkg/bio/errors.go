package bio

import "errors"

// ErrOutOfRange is returned when a read finds fewer bytes remaining than the
// operation needs, or a write finds less capacity remaining than the
// operation needs. It is the only error the package returns.
var ErrOutOfRange = errors.New("bio: out of range")
