package core

import (
	"errors"
	"fmt"
)

// Common errors.
var (
	ErrNotFound              = errors.New("not found")
	ErrSelectionCancelled    = errors.New("selection cancelled")
	ErrGenerationUnavailable = errors.New("generator returned no result")
	ErrDegradedFetch         = errors.New("fetch degraded")
	ErrPersistence           = errors.New("persistence failure")
	ErrConfigParse           = errors.New("malformed template configuration")
	ErrNoPrompt              = errors.New("no prompt configured")
	ErrAlreadyExists         = errors.New("already exists")
	ErrInvalidPath           = errors.New("invalid path")
)

// ErrNoTemplates is returned when no template candidate is available.
var ErrNoTemplates = fmt.Errorf("no templates available: %w", ErrNotFound)
