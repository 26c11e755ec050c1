package scenario

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Load reads a scenario configuration file (JSON or YAML, chosen by extension) and validates it.
// Every failure wraps ErrConfigLoad.
func Load(path string) (*Config, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("%w: empty path", ErrConfigLoad)
	}

	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrConfigLoad, path, err)
	}

	var f File
	if err := v.Unmarshal(&f); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", ErrConfigLoad, path, err)
	}

	return New(f)
}
