package session

import "errors"

var (
	ErrSessionNotFound    = errors.New("session not found")
	ErrSessionExists      = errors.New("session already exists")
	ErrSessionStopped     = errors.New("session stopped")
	ErrPlayerInSession    = errors.New("player already in a session")
	ErrPlayerNotConnected = errors.New("player not connected")
	ErrInboxFull          = errors.New("session inbox full")
	ErrMatchmakerStopped  = errors.New("matchmaker stopped")
)
