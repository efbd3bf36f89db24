package msgtemplate

import (
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	v2 "gopkg.in/yaml.v2"
)

// DefaultVarNames is used when no variable list was configured or stored.
var DefaultVarNames = []string{"firstname", "lastname", "company", "position"}

var validate = validator.New()

type Config struct {
	DBPath   string   `yaml:"DBPath" validate:"required"`
	Template string   `yaml:"Template" validate:"required"`
	VarNames []string `yaml:"VarNames" validate:"unique,dive,required,excludesall={}"`
}

func DefaultConfig() *Config {
	return &Config{
		DBPath:   "msgtemplate.db",
		Template: "default",
		VarNames: copyNames(DefaultVarNames),
	}
}

// LoadConfig reads a YAML config file on top of DefaultConfig. Relative
// paths are resolved against the working directory.
func LoadConfig(path string) (*Config, error) {
	if !filepath.IsAbs(path) {
		pwd, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		path = filepath.Join(pwd, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "can't read config %s", path)
	}

	config := DefaultConfig()
	if err = v2.Unmarshal(data, config); err != nil {
		return nil, errors.Wrapf(err, "can't parse config %s", path)
	}
	if err = config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(err, "invalid config")
	}

	return nil
}

// ValidateVarNames checks a variable list the same way the config does.
func ValidateVarNames(names []string) error {
	if err := validate.Var(names, "unique,dive,required,excludesall={}"); err != nil {
		return errors.Wrap(err, "invalid variable names")
	}

	return nil
}
