package persistence

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"

	"github.com/felixbrock/logoassist/internal/domain"
	"gopkg.in/yaml.v3"
)

//go:embed seed.yaml
var defaultSeed []byte

// Seed is the initial content of the admin surface. Nothing written to it
// outlives the process.
type Seed struct {
	Stats    domain.Stats     `yaml:"stats"`
	Projects []domain.Project `yaml:"projects"`
	Users    []domain.User    `yaml:"users"`
	Settings domain.Settings  `yaml:"settings"`
}

// LoadSeed reads the seed at path, or the embedded one when path is empty.
func LoadSeed(path string) (*Seed, error) {
	content := defaultSeed

	if path != "" {
		var err error
		content, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading seed file: %w", err)
		}
	}

	return decodeSeed(content)
}

func decodeSeed(content []byte) (*Seed, error) {
	var seed Seed

	dec := yaml.NewDecoder(bytes.NewReader(content))
	dec.KnownFields(true)

	if err := dec.Decode(&seed); err != nil {
		return nil, fmt.Errorf("decoding seed: %w", err)
	}

	return &seed, nil
}
