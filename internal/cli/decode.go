package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/gyaneshwarpardhi/funnelsim/internal/funnel"
)

// readScenario loads a scenario file, picking the decoder by extension.
func readScenario(path string) (*funnel.Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	s, err := decodeScenario(data, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return s, nil
}

func decodeScenario(data []byte, ext string) (*funnel.Scenario, error) {
	var s funnel.Scenario
	var err error
	switch strings.ToLower(ext) {
	case ".json":
		err = json.Unmarshal(data, &s)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &s)
	case ".toml":
		err = toml.Unmarshal(data, &s)
	default:
		return nil, fmt.Errorf("unsupported scenario format %q", ext)
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}
