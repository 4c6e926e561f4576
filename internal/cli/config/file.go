package config

import (
	"bytes"
	"fmt"

	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/v2"
	"gopkg.in/yaml.v3"
)

const fileHeader = `# LeapBridge configuration.
# Every key can be overridden with a LEAPBRIDGE_* environment variable
# (e.g. LEAPBRIDGE_STORE_URI) or a command-line flag.
# ${VAR} references in store.uri are expanded from the environment.
`

// DefaultFile renders the built-in configuration as a leapbridge.yaml document.
func DefaultFile() ([]byte, error) {
	k := koanf.New(".")
	if err := k.Load(confmap.Provider(Defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	var buf bytes.Buffer
	buf.WriteString(fileHeader)

	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(k.Raw()); err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	return buf.Bytes(), nil
}
