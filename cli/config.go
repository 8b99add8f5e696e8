package cli

import (
	"fmt"

	"github.com/shibukawa/cdsodata"
	"github.com/shibukawa/cdsodata/vocabulary"
)

// LoadConfig loads configuration from the specified file together with the vocabularies it lists
func LoadConfig(configPath string) (*cdsodata.Config, *vocabulary.Service, error) {
	config, err := cdsodata.LoadConfig(configPath)
	if err != nil {
		return nil, nil, err
	}

	vocab, err := config.LoadVocabularies()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load vocabularies: %w", err)
	}

	return config, vocab, nil
}
