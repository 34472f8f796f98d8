package config

import "fmt"

// Load resolves the effective configuration: the optional file at path,
// then FIELDREPLAY_* environment overrides. Unset fields keep their
// defaults through the Get* methods.
func Load(path string) (*ReplayConfig, error) {
	cfg := EmptyReplayConfig()
	if path != "" {
		fileCfg, err := LoadReplayConfig(path)
		if err != nil {
			return nil, err
		}
		cfg.Merge(fileCfg)
	}

	envCfg, err := LoadEnv()
	if err != nil {
		return nil, err
	}
	cfg.Merge(envCfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
