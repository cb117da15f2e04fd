package config

import (
	"log"
	"os"
	"path/filepath"

	"resumatch/internal/engine"
	"resumatch/internal/errors"

	"github.com/spf13/viper"
)

// LoadTaxonomy returns the skill taxonomy the engine should use. With no
// taxonomyFile configured the built-in taxonomy is returned; otherwise the
// YAML file fully replaces it. A file that cannot be read or fails
// validation is a configuration error and the caller must refuse to start.
func (c *Config) LoadTaxonomy() (*engine.Taxonomy, error) {
	if c.Engine.TaxonomyFile == "" {
		log.Println("[CONFIG] Using built-in skill taxonomy")
		return engine.DefaultTaxonomy(), nil
	}
	return LoadTaxonomyFile(c.Engine.TaxonomyFile)
}

// LoadTaxonomyFile loads and validates a taxonomy from a YAML file.
// Expected shape:
//
//	categories:
//	  - name: languages
//	    skills: [python, go]
//	aliases:
//	  golang: go
func LoadTaxonomyFile(path string) (*engine.Taxonomy, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.NewConfigError(errors.ErrCodeInvalidTaxonomy,
			"failed to resolve taxonomy file path", err).
			WithContext("path", path)
	}

	if _, err := os.Stat(absPath); os.IsNotExist(err) {
		return nil, errors.NewConfigError(errors.ErrCodeInvalidTaxonomy,
			"taxonomy file not found", err).
			WithContext("path", absPath)
	}

	v := viper.New()
	v.SetConfigFile(absPath)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return nil, errors.NewConfigError(errors.ErrCodeInvalidTaxonomy,
			"failed to read taxonomy file", err).
			WithContext("path", absPath)
	}

	var taxonomy engine.Taxonomy
	if err := v.Unmarshal(&taxonomy); err != nil {
		return nil, errors.NewConfigError(errors.ErrCodeInvalidTaxonomy,
			"failed to parse taxonomy file", err).
			WithContext("path", absPath)
	}

	if err := taxonomy.Validate(); err != nil {
		return nil, err
	}

	log.Printf("[CONFIG] Successfully loaded taxonomy from file: %s (%d skills in %d categories)",
		absPath, taxonomy.SkillCount(), len(taxonomy.Categories))

	return &taxonomy, nil
}
