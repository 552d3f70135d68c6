package conf

import (
	"time"
)

const (
	DefaultTimeout = 30 * time.Second
)

type Client struct {
	BaseUrl      string            `yaml:"baseUrl" validate:"required,url"`
	TimeoutInSec int               `yaml:"timeoutInSec" validate:"gte=0"`
	Headers      map[string]string `yaml:"headers"`
	Username     string            `yaml:"username" validate:"required_with=Password"`
	Password     string            `yaml:"password" validate:"required_with=Username"`
	BasePath     string            `yaml:"basePath"`
	Endpoints    []Endpoint        `yaml:"endpoints" validate:"dive"`
	Logging      Logging           `yaml:"logging"`
	Redis        *Redis            `yaml:"redis"`
}

// Endpoint rebinds an operation to another route. Empty Method keeps the registered one.
type Endpoint struct {
	Name       string `yaml:"name" validate:"required"`
	Method     string `yaml:"method"`
	Path       string `yaml:"path" validate:"required"`
	Identifier string `yaml:"identifier"`
}

type Logging struct {
	RequestLogEnable bool `yaml:"requestLogEnable"`
	BodyLogEnable    bool `yaml:"bodyLogEnable"`
	UnescapeUnicode  bool `yaml:"unescapeUnicode"`
}

type Redis struct {
	Address  string `yaml:"address" validate:"required"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Db       int    `yaml:"db" validate:"gte=0"`
	Prefix   string `yaml:"prefix"`
	TtlInSec int    `yaml:"ttlInSec" validate:"gte=0"`
}

func (c Client) Timeout() time.Duration {
	if c.TimeoutInSec <= 0 {
		return DefaultTimeout
	}
	return time.Duration(c.TimeoutInSec) * time.Second
}

func (r Redis) Ttl() time.Duration {
	return time.Duration(r.TtlInSec) * time.Second
}
