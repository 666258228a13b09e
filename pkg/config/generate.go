package config

import (
	"strings"

	"github.com/arthur-debert/pcc/pkg/errors"
	"github.com/pelletier/go-toml/v2"
)

// GenerateConfigContent returns the default configuration with every value
// commented out, ready to be saved as a user or project file.
func GenerateConfigContent() string {
	return commentOutConfigValues(DefaultsContent())
}

// Marshal renders cfg as TOML.
func Marshal(cfg *Config) ([]byte, error) {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to encode configuration")
	}
	return data, nil
}

// commentOutConfigValues takes the TOML content and comments out all non-comment, non-blank lines
// that contain configuration values (assignments)
func commentOutConfigValues(content string) string {
	lines := strings.Split(content, "\n")
	result := make([]string, 0, len(lines))

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)

		// Keep blank lines and comments as-is
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			result = append(result, line)
			continue
		}

		// Section headers are commented too: an uncommented [[categories]]
		// header would declare an empty category.
		result = append(result, "# "+line)
	}

	return strings.Join(result, "\n")
}
