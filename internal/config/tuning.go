package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/dgallion1/findoc/internal/classifier"
	"github.com/dgallion1/findoc/internal/responder"
)

// Tuning holds the optional overrides read from TUNING_FILE. Keys missing
// from the file keep their defaults.
type Tuning struct {
	Responder  responder.Limits    `yaml:"responder"`
	Classifier classifier.Settings `yaml:"classifier"`
}

func DefaultTuning() Tuning {
	return Tuning{
		Responder:  responder.DefaultLimits(),
		Classifier: classifier.DefaultSettings(),
	}
}

// LoadTuning reads path over the defaults. An empty path returns the
// defaults.
func LoadTuning(path string) (Tuning, error) {
	t := DefaultTuning()
	if path == "" {
		return t, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return t, fmt.Errorf("read tuning file: %w", err)
	}
	if err := yaml.Unmarshal(data, &t); err != nil {
		return DefaultTuning(), fmt.Errorf("parse tuning file %s: %w", path, err)
	}
	return t, nil
}
