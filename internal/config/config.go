package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/BurntSushi/toml"
	env "github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/x/mongo/driver/connstring"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment variable read by Load
const EnvPrefix = "BACKENDGEN_"

// Config holds the generator configuration.
// Precedence, lowest first: defaults, config file, environment, flags.
type Config struct {
	ProjectName string `env:"PROJECT" yaml:"project" toml:"project" validate:"required,projectname"`
	SchemaPath  string `env:"SCHEMA" yaml:"schema" toml:"schema" validate:"required"`
	OutputDir   string `env:"OUTPUT_DIR" yaml:"outputDir" toml:"outputDir"`

	// MongoURI is written to the generated .env. Empty means a localhost
	// database named after the project.
	MongoURI string `env:"MONGO_URI" yaml:"mongoUri" toml:"mongoUri"`
	Port     int    `env:"PORT" yaml:"port" toml:"port" validate:"min=1,max=65535"`

	AltList  bool   `env:"ALT_LIST" yaml:"altList" toml:"altList"`
	Strict   bool   `env:"STRICT" yaml:"strict" toml:"strict"`
	DryRun   bool   `env:"DRY_RUN" yaml:"dryRun" toml:"dryRun"`
	Install  bool   `env:"INSTALL" yaml:"install" toml:"install"`
	LogLevel string `env:"LOG_LEVEL" yaml:"logLevel" toml:"logLevel" validate:"oneof=debug info warn error"`
}

// Default returns the configuration used when nothing overrides it
func Default() Config {
	return Config{
		OutputDir: ".",
		Port:      5000,
		AltList:   true,
		LogLevel:  "info",
	}
}

// Load builds a configuration from the defaults, the optional config file
// at path and the environment. Flags are applied by the caller.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return nil, err
		}
	}

	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}

	return &cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml", ".json":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	case ".toml":
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	default:
		return fmt.Errorf("unsupported config file format: %s (must be .yaml, .yml, .json or .toml)", ext)
	}

	return nil
}

// ProjectDir is the directory the project is generated into
func (c *Config) ProjectDir() string {
	return filepath.Join(c.OutputDir, c.ProjectName)
}

var projectNameRe = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("projectname", func(fl validator.FieldLevel) bool {
		return projectNameRe.MatchString(fl.Field().String())
	})
	return v
}

// Validate checks the configuration before any file is generated
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, describe(fe))
			}
			return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if c.MongoURI != "" {
		if _, err := connstring.ParseAndValidate(c.MongoURI); err != nil {
			return fmt.Errorf("invalid configuration: mongo URI: %w", err)
		}
	}

	return nil
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "projectname":
		return fmt.Sprintf("%s %q must start with a letter or digit and contain only letters, digits, '.', '_' or '-'", fe.Field(), fe.Value())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", fe.Field(), fe.Param())
	case "min", "max":
		return fmt.Sprintf("%s must be between 1 and 65535", fe.Field())
	default:
		return fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag())
	}
}
