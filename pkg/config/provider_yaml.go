package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// YAMLProvider implements ConfigProvider for YAML configuration files
type YAMLProvider struct {
	filename string
	config   *ConfigData
}

// NewYAMLProvider creates a new YAML configuration provider
func NewYAMLProvider(filename string) *YAMLProvider {
	return &YAMLProvider{
		filename: filename,
	}
}

// LoadConfig loads the complete configuration from the YAML file, applies
// defaults for anything left unset and validates the result.
func (y *YAMLProvider) LoadConfig() (*ConfigData, error) {
	cfgFile, err := os.ReadFile(y.filename)
	if err != nil {
		return nil, err
	}

	config, err := parseYAML(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", y.filename, err)
	}

	y.config = config
	return config, nil
}

func parseYAML(data []byte) (*ConfigData, error) {
	var yamlConfig ConfigYAML
	if err := yaml.Unmarshal(data, &yamlConfig); err != nil {
		return nil, err
	}

	config := Defaults()

	if p := yamlConfig.Preprocessing; p != nil {
		if p.Interval != nil {
			config.Preprocessing.Interval = *p.Interval
		}
		if p.MedianWindow != nil {
			config.Preprocessing.MedianWindow = *p.MedianWindow
		}
	}

	if a := yamlConfig.Algorithm; a != nil {
		if a.Methods != nil {
			config.Algorithm.Methods = a.Methods
		}
		if s := a.Segment; s != nil {
			setFloat(&config.Algorithm.Segment.MaxError, s.MaxError)
			setFloat(&config.Algorithm.Segment.StableGradient, s.StableGradient)
			setFloat(&config.Algorithm.Segment.StableGradient2, s.StableGradient2)
			setFloat(&config.Algorithm.Segment.MinTRMGradient, s.MinTRMGradient)
			setFloat(&config.Algorithm.Segment.Penalty, s.Penalty)
			if s.Engine != "" {
				config.Algorithm.Segment.Engine = s.Engine
			}
			if s.MinSize != nil {
				config.Algorithm.Segment.MinSize = *s.MinSize
			}
			if s.Jump != nil {
				config.Algorithm.Segment.Jump = *s.Jump
			}
		}
		if h := a.HMM; h != nil {
			if h.Iterations != nil {
				config.Algorithm.HMM.Iterations = *h.Iterations
			}
		}
		if t := a.Threshold; t != nil {
			setFloat(&config.Algorithm.Threshold.Threshold, t.Threshold)
			setFloat(&config.Algorithm.Threshold.Fraction, t.Fraction)
		}
	}

	if s := yamlConfig.Storage; s != nil {
		if s.SQLite != nil {
			config.Storage.SQLite = &SQLiteData{Path: s.SQLite.Path}
		}
		if s.TimescaleDB != nil {
			config.Storage.TimescaleDB = &TimescaleDBData{
				ConnectionString: s.TimescaleDB.ConnectionString,
			}
		}
	}

	if err := Validate(config); err != nil {
		return nil, err
	}
	return config, nil
}

func setFloat(dst *float64, v *float64) {
	if v != nil {
		*dst = *v
	}
}

func (y *YAMLProvider) loaded() (*ConfigData, error) {
	if y.config == nil {
		if _, err := y.LoadConfig(); err != nil {
			return nil, err
		}
	}
	return y.config, nil
}

// GetPreprocessing returns the preprocessing configuration
func (y *YAMLProvider) GetPreprocessing() (*PreprocessingData, error) {
	c, err := y.loaded()
	if err != nil {
		return nil, err
	}
	return &c.Preprocessing, nil
}

// GetAlgorithm returns the detection configuration
func (y *YAMLProvider) GetAlgorithm() (*AlgorithmData, error) {
	c, err := y.loaded()
	if err != nil {
		return nil, err
	}
	return &c.Algorithm, nil
}

// GetStorageConfig returns storage configuration
func (y *YAMLProvider) GetStorageConfig() (*StorageData, error) {
	c, err := y.loaded()
	if err != nil {
		return nil, err
	}
	return &c.Storage, nil
}

// IsReadOnly returns true since YAML files are read-only through this interface
func (y *YAMLProvider) IsReadOnly() bool {
	return true
}

// Close is a no-op for YAML provider
func (y *YAMLProvider) Close() error {
	return nil
}

// YAML-specific structs. Pointers distinguish an omitted key from an explicit zero.
type ConfigYAML struct {
	Preprocessing *PreprocessingYAML `yaml:"preprocessing"`
	Algorithm     *AlgorithmYAML     `yaml:"algorithm"`
	Storage       *StorageYAML       `yaml:"storage,omitempty"`
}

type PreprocessingYAML struct {
	Interval     *float64 `yaml:"interval"`
	MedianWindow *int     `yaml:"median-window"`
}

type AlgorithmYAML struct {
	Methods   []string       `yaml:"methods,omitempty"`
	Segment   *SegmentYAML   `yaml:"segment"`
	HMM       *HMMYAML       `yaml:"hmm"`
	Threshold *ThresholdYAML `yaml:"threshold"`
}

type SegmentYAML struct {
	Engine          string   `yaml:"engine"`
	MaxError        *float64 `yaml:"max-error"`
	StableGradient  *float64 `yaml:"stable-gradient"`
	StableGradient2 *float64 `yaml:"stable-gradient2"`
	MinTRMGradient  *float64 `yaml:"min-trm-gradient"`
	Penalty         *float64 `yaml:"penalty"`
	MinSize         *int     `yaml:"min-size"`
	Jump            *int     `yaml:"jump"`
}

type HMMYAML struct {
	Iterations *int `yaml:"iterations"`
}

type ThresholdYAML struct {
	Threshold *float64 `yaml:"threshold"`
	Fraction  *float64 `yaml:"fraction"`
}

type StorageYAML struct {
	SQLite      *SQLiteYAML      `yaml:"sqlite,omitempty"`
	TimescaleDB *TimescaleDBYAML `yaml:"timescaledb,omitempty"`
}

type SQLiteYAML struct {
	Path string `yaml:"path"`
}

type TimescaleDBYAML struct {
	ConnectionString string `yaml:"connection-string"`
}
