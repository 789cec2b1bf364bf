package domain

import "errors"

// Store errors
var (
	// ErrNotFound indicates a required folder or file could not be resolved
	ErrNotFound = errors.New("resource not found")

	// ErrRemote indicates a fault surfaced by the remote store
	// (network, auth expiry, quota, server error)
	ErrRemote = errors.New("remote store fault")
)

// Validation errors
var (
	// ErrInvalidProjectName indicates a malformed project identifier
	ErrInvalidProjectName = errors.New("invalid project name")

	// ErrInvalidPath indicates a malformed path string or disallowed segment
	ErrInvalidPath = errors.New("invalid path")
)

// Config errors
var (
	// ErrConfigNotFound indicates config file not found
	ErrConfigNotFound = errors.New("config file not found")

	// ErrConfigInvalid indicates config file is malformed
	ErrConfigInvalid = errors.New("invalid config")
)
