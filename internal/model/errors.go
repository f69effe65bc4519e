package model

import "errors"

// Common errors used across the application
var (
	// Input errors
	ErrInvalidInput  = errors.New("invalid input")
	ErrInvalidChoice = errors.New("invalid choice")

	// Player errors
	ErrPlayerNotFound    = errors.New("player not found")
	ErrPlayerExists      = errors.New("player already exists")
	ErrPlayerUnavailable = errors.New("player is already in game or not found")

	// Game errors
	ErrGameNotFound   = errors.New("game not found")
	ErrNotParticipant = errors.New("player is not a participant in this game")

	// Storage errors
	ErrConcurrentUpdate = errors.New("concurrent update, retries exhausted")
)
