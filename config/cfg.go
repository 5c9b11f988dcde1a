package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"runtime"

	validator "github.com/go-playground/validator/v10"
	yaml "gopkg.in/yaml.v3"

	"github.com/rupor-github/gencfg"

	"cssspec/common"
	"cssspec/specificity"
)

//go:embed config.yaml.tmpl
var ConfigTmpl []byte

type (
	AnalysisConfig struct {
		Threshold   string                `yaml:"threshold" validate:"required"`
		Extraction  common.ExtractionMode `yaml:"extraction"`
		Splitting   specificity.SplitMode `yaml:"splitting"`
		MaxDepth    int                   `yaml:"max_depth" validate:"min=1,max=1024"`
		Workers     int                   `yaml:"workers" validate:"gte=0"`
		Extensions  []string              `yaml:"extensions" validate:"min=1,dive,required,startswith=."`
		MaxFileSize int64                 `yaml:"max_file_size" validate:"gte=0"`
	}

	OutputConfig struct {
		Format   common.OutputFormat `yaml:"format"`
		OnlyHigh bool                `yaml:"only_high"`
	}

	BaselineConfig struct {
		Path string `yaml:"path" validate:"omitempty,filepath"`
	}

	Config struct {
		Version   int            `yaml:"version" validate:"eq=1"`
		Analysis  AnalysisConfig `yaml:"analysis"`
		Output    OutputConfig   `yaml:"output"`
		Baseline  BaselineConfig `yaml:"baseline"`
		Logging   LoggingConfig  `yaml:"logging"`
		Reporting ReporterConfig `yaml:"reporting"`
	}
)

// ThresholdValue returns parsed threshold.
func (c *AnalysisConfig) ThresholdValue() (specificity.Specificity, error) {
	return specificity.Parse(c.Threshold)
}

// WorkerCount returns number of parallel workers to use.
func (c *AnalysisConfig) WorkerCount() int {
	if c.Workers <= 0 {
		return runtime.NumCPU()
	}
	return c.Workers
}

// checkConfig covers what validation tags cannot express.
func checkConfig(sl validator.StructLevel) {
	cfg := sl.Current().Interface().(Config)

	if _, err := cfg.Analysis.ThresholdValue(); err != nil {
		sl.ReportError(cfg.Analysis.Threshold, "Analysis.Threshold", "threshold", "specificity", "")
	}
	if !cfg.Analysis.Extraction.IsValid() {
		sl.ReportError(cfg.Analysis.Extraction, "Analysis.Extraction", "extraction", "enum", "")
	}
	if !cfg.Analysis.Splitting.IsValid() {
		sl.ReportError(cfg.Analysis.Splitting, "Analysis.Splitting", "splitting", "enum", "")
	}
	if !cfg.Output.Format.IsValid() {
		sl.ReportError(cfg.Output.Format, "Output.Format", "format", "enum", "")
	}
}

var requiredOptions = []func(*gencfg.ProcessingOptions){}

func unmarshalConfig(data []byte, cfg *Config, process bool) (*Config, error) {
	// We want to use only fields we defined so we cannot use yaml.Unmarshal
	// directly here
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration data: %w", err)
	}
	if process {
		// sanitize and validate what has been loaded
		if err := gencfg.Sanitize(cfg); err != nil {
			return nil, err
		}
		if err := gencfg.Validate(cfg, gencfg.WithAdditionalChecks(checkConfig)); err != nil {
			return nil, fmt.Errorf("invalid configuration: %w", err)
		}
	}
	return cfg, nil
}

// LoadConfiguration reads the configuration from the file at the given path,
// superimposes its values on top of expanded configuration template to provide
// sane defaults and performs validation.
func LoadConfiguration(path string, options ...func(*gencfg.ProcessingOptions)) (*Config, error) {
	haveFile := len(path) > 0

	data, err := gencfg.Process(ConfigTmpl, append(requiredOptions, options...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	cfg, err := unmarshalConfig(data, &Config{}, !haveFile)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	if !haveFile {
		return cfg, nil
	}

	// overwrite cfg values with values from the file
	data, err = os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg, err = unmarshalConfig(data, cfg, haveFile)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration file: %w", err)
	}
	return cfg, nil
}

// Validate checks configuration after command line overrides were applied.
func (cfg *Config) Validate() error {
	if err := gencfg.Validate(cfg, gencfg.WithAdditionalChecks(checkConfig)); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// Prepare generates configuration file from template and returns it as a byte
// slice.
func Prepare() ([]byte, error) {
	return gencfg.Process(ConfigTmpl, requiredOptions...)
}

func Dump(cfg *Config) ([]byte, error) {
	data, err := yaml.Marshal(*cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config to yaml: %w", err)
	}
	return data, nil
}
