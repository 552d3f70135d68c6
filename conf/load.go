package conf

import (
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const (
	HostEnv         = "HOST"
	UserLoginEnv    = "USER_LOGIN"
	PasswordEnv     = "PASS"
	TimeoutInSecEnv = "TIMEOUT_IN_SEC"
	BasePathEnv     = "BASE_PATH"
)

func (c Client) Validate() error {
	err := validator.New().Struct(c)
	if err != nil {
		return errors.WithMessage(err, "validate config")
	}
	return nil
}

func FromYaml(path string) (*Client, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WithMessagef(err, "read config %s", path)
	}

	cfg := Client{}
	err = yaml.Unmarshal(data, &cfg)
	if err != nil {
		return nil, errors.WithMessagef(err, "yaml unmarshal %s", path)
	}

	err = cfg.Validate()
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

// FromEnv reads the client config from environment variables after loading dotEnvFiles.
// Without files ".env" is loaded when present. Variables already set in the environment win.
func FromEnv(dotEnvFiles ...string) (*Client, error) {
	if len(dotEnvFiles) > 0 {
		err := godotenv.Load(dotEnvFiles...)
		if err != nil {
			return nil, errors.WithMessage(err, "load env files")
		}
	} else {
		err := godotenv.Load()
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, errors.WithMessage(err, "load .env")
		}
	}

	cfg := Client{
		BaseUrl:  strings.TrimSpace(os.Getenv(HostEnv)),
		Username: os.Getenv(UserLoginEnv),
		Password: os.Getenv(PasswordEnv),
		BasePath: strings.TrimSpace(os.Getenv(BasePathEnv)),
	}
	timeout := strings.TrimSpace(os.Getenv(TimeoutInSecEnv))
	if timeout != "" {
		value, err := strconv.Atoi(timeout)
		if err != nil {
			return nil, errors.WithMessagef(err, "parse %s", TimeoutInSecEnv)
		}
		cfg.TimeoutInSec = value
	}

	err := cfg.Validate()
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}
