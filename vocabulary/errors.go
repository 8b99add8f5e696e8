package vocabulary

import "errors"

var (
	ErrInvalidVocabulary   = errors.New("invalid vocabulary document")
	ErrDuplicateVocabulary = errors.New("vocabulary already registered")
	ErrUnknownTerm         = errors.New("unknown term")
)
