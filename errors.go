package cdsodata

import "errors"

var (
	// ErrConfigValidation is returned when configuration validation fails
	ErrConfigValidation = errors.New("configuration validation failed")
	// ErrVocabularyFile indicates a configured vocabulary file could not be loaded
	ErrVocabularyFile = errors.New("cannot load vocabulary file")
)
