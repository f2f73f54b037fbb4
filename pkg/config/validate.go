package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/chrissnell/thermocline/internal/thermocline"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	_ = validate.RegisterValidation("odd", func(fl validator.FieldLevel) bool {
		return fl.Field().Int()%2 == 1
	})
}

// Defaults returns the configuration used for anything a file leaves unset.
// The interval and segmentation thresholds have no defaults and must be configured.
func Defaults() *ConfigData {
	return &ConfigData{
		Preprocessing: PreprocessingData{MedianWindow: 1},
		Algorithm: AlgorithmData{
			Segment: SegmentData{
				Engine:  thermocline.EngineBottomUp,
				Penalty: 1,
				MinSize: 2,
				Jump:    1,
			},
			HMM:       HMMData{Iterations: 10},
			Threshold: ThresholdData{Fraction: 0.1},
		},
	}
}

// Validate checks c and returns one error describing every invalid field.
func Validate(c *ConfigData) error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := strings.TrimPrefix(fe.Namespace(), "ConfigData.")
		switch {
		case fe.Param() != "":
			msgs = append(msgs, fmt.Sprintf("%s=%v fails %s=%s", field, fe.Value(), fe.Tag(), fe.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s=%v fails %s", field, fe.Value(), fe.Tag()))
		}
	}
	return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
}

// Detector converts the configuration into detector settings.
func (c *ConfigData) Detector() (thermocline.Config, error) {
	cfg := thermocline.Config{
		Interval: c.Preprocessing.Interval,
		Segment: thermocline.SegmentConfig{
			Engine:          c.Algorithm.Segment.Engine,
			MaxError:        c.Algorithm.Segment.MaxError,
			StableGradient:  c.Algorithm.Segment.StableGradient,
			StableGradient2: c.Algorithm.Segment.StableGradient2,
			MinTRMGradient:  c.Algorithm.Segment.MinTRMGradient,
			Penalty:         c.Algorithm.Segment.Penalty,
			MinSize:         c.Algorithm.Segment.MinSize,
			Jump:            c.Algorithm.Segment.Jump,
		},
		HMM: thermocline.HMMConfig{Iterations: c.Algorithm.HMM.Iterations},
		Threshold: thermocline.ThresholdConfig{
			Threshold: c.Algorithm.Threshold.Threshold,
			Fraction:  c.Algorithm.Threshold.Fraction,
		},
	}

	for _, name := range c.Algorithm.Methods {
		m, err := thermocline.ParseMethod(name)
		if err != nil {
			return thermocline.Config{}, err
		}
		cfg.Methods = append(cfg.Methods, m)
	}
	return cfg, nil
}
