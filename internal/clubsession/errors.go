package clubsession

import "errors"

var (
	ErrSessionNotFound   = errors.New("session not found")
	ErrCapacityExceeded  = errors.New("session is at full capacity")
	ErrAlreadyRegistered = errors.New("player already registered for this session")
	ErrNotRegistered     = errors.New("player is not registered for this session")
)
