package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Defaults for input, outputs and the flag threshold.
const (
	DefaultInputPath       = "data.csv"
	DefaultInputEncoding   = "latin1"
	DefaultChartPath       = "sales_profit_by_category.png"
	DefaultReportPath      = "output_report.xlsx"
	DefaultMarginThreshold = 20.0
)

// Global configuration structure.
type Global struct {
	InputPath       string  `mapstructure:"input_path" yaml:"input_path" validate:"required"`
	InputEncoding   string  `mapstructure:"input_encoding" yaml:"input_encoding" validate:"oneof=latin1 iso-8859-1 windows-1252 cp1252 utf-8 utf8"`
	Delimiter       string  `mapstructure:"delimiter" yaml:"delimiter"`
	SheetName       string  `mapstructure:"sheet_name" yaml:"sheet_name"`
	ChartPath       string  `mapstructure:"chart_path" yaml:"chart_path" validate:"required"`
	ReportPath      string  `mapstructure:"report_path" yaml:"report_path" validate:"required"`
	MarginThreshold float64 `mapstructure:"margin_threshold" yaml:"margin_threshold" validate:"gte=0,lte=100"`
	ManifestPath    string  `mapstructure:"manifest_path" yaml:"manifest_path"`

	LogLevel  string `mapstructure:"log_level" yaml:"log_level" validate:"oneof=debug info warn warning error"`
	LogFormat string `mapstructure:"log_format" yaml:"log_format" validate:"oneof=text json"`
}

var validate = validator.New()

// Validate checks field constraints and the delimiter spelling.
func (c *Global) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("invalid config %s=%v (%s)", configKey(fe.StructField()), fe.Value(), fe.Tag())
		}
		return fmt.Errorf("validate config: %w", err)
	}
	if _, err := ParseDelimiter(c.Delimiter); err != nil {
		return err
	}
	return nil
}

// ParseDelimiter maps a configured delimiter name to a rune. Empty means
// auto-detect from the input filename.
func ParseDelimiter(s string) (rune, error) {
	switch strings.ToLower(s) {
	case "":
		return 0, nil
	case ",", "comma":
		return ',', nil
	case ";", "semicolon":
		return ';', nil
	case "\t", "tab":
		return '\t', nil
	case "|", "pipe":
		return '|', nil
	default:
		return 0, fmt.Errorf("unsupported delimiter: %q (use ','|';'|'tab'|'|')", s)
	}
}

func configKey(field string) string {
	var b strings.Builder
	for i, r := range field {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}

// DefaultPath returns ~/.bizreport/config.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".bizreport", "config.yaml"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.bizreport/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	path := cfgFile
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return err
		}
		path = p
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: env > config file > defaults. Flags are applied by the caller.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("BIZREPORT")
	v.AutomaticEnv()

	v.SetDefault("input_path", DefaultInputPath)
	v.SetDefault("input_encoding", DefaultInputEncoding)
	v.SetDefault("delimiter", "")
	v.SetDefault("sheet_name", "")
	v.SetDefault("chart_path", DefaultChartPath)
	v.SetDefault("report_path", DefaultReportPath)
	v.SetDefault("margin_threshold", DefaultMarginThreshold)
	v.SetDefault("manifest_path", "")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", cfgFile, err)
		}
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			v.AddConfigPath(filepath.Join(home, ".bizreport"))
			v.SetConfigName("config")
			v.SetConfigType("yaml")
			// optional read
			_ = v.ReadInConfig()
		}
	}

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	c.InputEncoding = strings.ToLower(strings.TrimSpace(c.InputEncoding))
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	c.LogFormat = strings.ToLower(strings.TrimSpace(c.LogFormat))
	return &c, nil
}
