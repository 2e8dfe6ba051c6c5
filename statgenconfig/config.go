package statgenconfig

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ClumpConfig mirrors clump.Params.
type ClumpConfig struct {
	WindowLength      int64  `yaml:"window_length"`
	PSignificance     float64 `yaml:"p_significance"`
	PBaseline         float64 `yaml:"p_baseline"`
	LocusWindowLength int64  `yaml:"locus_window_length"`
}

// RaissConfig mirrors raiss.Params.
type RaissConfig struct {
	Lambda float64 `yaml:"lambda"`
	Rtol   float64 `yaml:"rtol"`
}

// SusieConfig mirrors susieinf.Params.
type SusieConfig struct {
	L                   int     `yaml:"l"`
	VarEstimator        string  `yaml:"var_estimator"`
	MaxIter             int     `yaml:"max_iter"`
	Tol                 float64 `yaml:"tol"`
	CredibleSetCoverage float64 `yaml:"credible_set_coverage"`
}

// QcConfig mirrors credsetqc.Params.
type QcConfig struct {
	PSignificance float64 `yaml:"p_significance"`
	PurityMinR2   float64 `yaml:"purity_min_r2"`
	LdMinR2       float64 `yaml:"ld_min_r2"`
	Clump         bool    `yaml:"clump"`
}

// Config is the single YAML document the CLI loads once per invocation:
// clump, raiss, susie and qc top-level keys mirroring each component's
// parameter struct.
type Config struct {
	Clump ClumpConfig `yaml:"clump"`
	Raiss RaissConfig `yaml:"raiss"`
	Susie SusieConfig `yaml:"susie"`
	Qc    QcConfig    `yaml:"qc"`
}

// DefaultConfig returns the documented default parameters for every
// component.
func DefaultConfig() *Config {
	return &Config{
		Clump: ClumpConfig{
			WindowLength:  500_000,
			PSignificance: 5e-8,
			PBaseline:     0.05,
		},
		Raiss: RaissConfig{
			Lambda: 0.01,
			Rtol:   0.01,
		},
		Susie: SusieConfig{
			L:                   10,
			VarEstimator:        "moments",
			MaxIter:             100,
			Tol:                 1e-3,
			CredibleSetCoverage: 0.95,
		},
		Qc: QcConfig{
			PSignificance: 5e-8,
			PurityMinR2:   0.01,
			LdMinR2:       0.8,
		},
	}
}

// Load reads path, overlaying its contents onto DefaultConfig. A missing
// file is not an error: Load returns the defaults unchanged.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("statgenconfig.Load: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("statgenconfig.Load: %w", err)
	}
	return cfg, nil
}

// Save writes cfg to path as YAML.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("statgenconfig.Save: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("statgenconfig.Save: %w", err)
	}
	return nil
}
