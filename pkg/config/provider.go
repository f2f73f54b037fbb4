package config

// ConfigProvider defines the interface for configuration data sources
type ConfigProvider interface {
	// Load complete configuration
	LoadConfig() (*ConfigData, error)

	// Get specific configuration sections
	GetPreprocessing() (*PreprocessingData, error)
	GetAlgorithm() (*AlgorithmData, error)
	GetStorageConfig() (*StorageData, error)

	IsReadOnly() bool
	Close() error
}

// ConfigData represents the complete configuration structure
type ConfigData struct {
	Preprocessing PreprocessingData `json:"preprocessing"`
	Algorithm     AlgorithmData     `json:"algorithm"`
	Storage       StorageData       `json:"storage,omitempty"`
}

// PreprocessingData controls how a cast is prepared before detection
type PreprocessingData struct {
	// Interval is the uniform depth spacing the cast is resampled to
	Interval float64 `json:"interval" validate:"gt=0"`
	// MedianWindow is the despiking filter size. 1 disables the filter.
	MedianWindow int `json:"median_window" validate:"gte=1,odd"`
}

// AlgorithmData selects the detection strategies and their parameters
type AlgorithmData struct {
	Methods   []string      `json:"methods,omitempty" validate:"dive,oneof=segmentation HMM threshold"`
	Segment   SegmentData   `json:"segment"`
	HMM       HMMData       `json:"hmm"`
	Threshold ThresholdData `json:"threshold"`
}

// SegmentData holds the segmentation thresholds
type SegmentData struct {
	Engine          string  `json:"engine" validate:"oneof=bottom-up pelt"`
	MaxError        float64 `json:"max_error" validate:"gt=0"`
	StableGradient  float64 `json:"stable_gradient" validate:"gt=0"`
	StableGradient2 float64 `json:"stable_gradient2" validate:"gtefield=StableGradient"`
	MinTRMGradient  float64 `json:"min_trm_gradient" validate:"gt=0"`
	Penalty         float64 `json:"penalty" validate:"gte=0"`
	MinSize         int     `json:"min_size" validate:"gte=1"`
	Jump            int     `json:"jump" validate:"gte=1"`
}

// HMMData configures the hidden Markov model engine. The model always has
// three states.
type HMMData struct {
	Iterations int `json:"iterations" validate:"gte=1"`
}

// ThresholdData configures the threshold engine. A zero Threshold selects
// Fraction of the peak power.
type ThresholdData struct {
	Threshold float64 `json:"threshold" validate:"gte=0"`
	Fraction  float64 `json:"fraction" validate:"gt=0,lt=1"`
}

// StorageData holds the configuration for the feature stores
type StorageData struct {
	SQLite      *SQLiteData      `json:"sqlite,omitempty"`
	TimescaleDB *TimescaleDBData `json:"timescaledb,omitempty"`
}

// Storage backend configuration structs
type SQLiteData struct {
	Path string `json:"path" validate:"required"`
}

type TimescaleDBData struct {
	ConnectionString string `json:"connection_string" validate:"required"`
}
