package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// LoadLander loads the lander configuration.
// Search order: customPath -> ~/.lander/configs/lander.yaml -> ./configs/lander.yaml -> embedded default
//
// Files are decoded over the defaults, so a partial file only overrides the keys it sets.
func LoadLander(customPath string) (LanderConfig, error) {
	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return LanderConfig{}, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		cfg, err := parseLander(data)
		if err != nil {
			return LanderConfig{}, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		if err := cfg.Validate(); err != nil {
			return LanderConfig{}, fmt.Errorf("invalid config %s: %w", customPath, err)
		}
		return cfg, nil
	}

	// Try user config directory
	if userCfgPath := userConfigPath("lander.yaml"); userCfgPath != "" {
		if cfg, ok := tryLoad(userCfgPath); ok {
			return cfg, nil
		}
	}

	// Try local configs directory
	if cfg, ok := tryLoad(filepath.Join("configs", "lander.yaml")); ok {
		return cfg, nil
	}

	// Use embedded default YAML
	cfg, err := parseLander(defaultLanderYAML)
	if err != nil || cfg.Validate() != nil {
		return DefaultLanderConfig(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

// tryLoad reads an optional config file. Missing, unparsable or invalid files are skipped.
func tryLoad(path string) (LanderConfig, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return LanderConfig{}, false
	}
	cfg, err := parseLander(data)
	if err != nil || cfg.Validate() != nil {
		return LanderConfig{}, false
	}
	return cfg, true
}

func parseLander(data []byte) (LanderConfig, error) {
	cfg := DefaultLanderConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return LanderConfig{}, err
	}
	return cfg, nil
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".lander", "configs", filename)
}

// ApplyLanderPreset modifies the config based on a difficulty preset.
func ApplyLanderPreset(cfg *LanderConfig, preset DifficultyPreset) {
	switch preset {
	case DifficultyEasy:
		cfg.Fuel.Base *= 1.5
		cfg.Fuel.Min *= 1.5
		cfg.Physics.GravityPerLevel /= 2
		cfg.Landing.MaxVerticalSpeed *= 1.5
	case DifficultyHard:
		cfg.Fuel.Base *= 0.7
		cfg.Fuel.PerLevel *= 1.5
		cfg.Physics.GravityPerLevel *= 2
		cfg.Landing.MaxVerticalSpeed *= 0.75
	case DifficultyFixed:
		cfg.Fuel.PerLevel = 0
		cfg.Physics.GravityPerLevel = 0
	}
}
