// Package config loads the application configuration from a yaml file
// with environment-variable overrides.
package config

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

type SysConfig struct {
	Appid    string `yaml:"appid" json:"appid"`
	Location string `yaml:"location" json:"location"`
	Workdir  string `yaml:"workdir" json:"workdir"`
	Debug    bool   `yaml:"debug" json:"debug"`
}

type WebConfig struct {
	Host string `yaml:"host" json:"host"`
	Port int    `yaml:"port" json:"port"`
}

type DBConfig struct {
	Type     string `yaml:"type" json:"type"`
	Host     string `yaml:"host" json:"host"`
	Port     int    `yaml:"port" json:"port"`
	Name     string `yaml:"name" json:"name"`
	User     string `yaml:"user" json:"user"`
	Passwd   string `yaml:"passwd" json:"passwd"`
	MaxConn  int    `yaml:"max_conn" json:"max_conn"`
	IdleConn int    `yaml:"idle_conn" json:"idle_conn"`
	Debug    bool   `yaml:"debug" json:"debug"`
}

type LogConfig struct {
	Mode       string `yaml:"mode" json:"mode"`
	FileEnable bool   `yaml:"file_enable" json:"file_enable"`
	Filename   string `yaml:"filename" json:"filename"`
}

type AppConfig struct {
	System   SysConfig `yaml:"system" json:"system"`
	Web      WebConfig `yaml:"web" json:"web"`
	Database DBConfig  `yaml:"database" json:"database"`
	Logger   LogConfig `yaml:"logger" json:"logger"`
}

var DefaultAppConfig = &AppConfig{
	System: SysConfig{
		Appid:    "salesapi",
		Location: "UTC",
		Workdir:  "/var/salesapi",
		Debug:    false,
	},
	Web: WebConfig{
		Host: "0.0.0.0",
		Port: 1816,
	},
	Database: DBConfig{
		Type:     "postgres",
		Host:     "127.0.0.1",
		Port:     5432,
		Name:     "salesapi",
		User:     "postgres",
		Passwd:   "",
		MaxConn:  100,
		IdleConn: 10,
	},
	Logger: LogConfig{
		Mode:       "development",
		FileEnable: false,
		Filename:   "/var/salesapi/salesapi.log",
	},
}

// LoadConfig reads the yaml config file and applies environment
// overrides. A missing path yields the defaults.
func LoadConfig(path string) (*AppConfig, error) {
	cfg := *DefaultAppConfig

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrapf(err, "read config %s", path)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, errors.Wrapf(err, "parse config %s", path)
		}
	}

	setEnvString(&cfg.Database.Type, "SALESAPI_DB_TYPE")
	setEnvString(&cfg.Database.Host, "SALESAPI_DB_HOST")
	setEnvString(&cfg.Database.Name, "SALESAPI_DB_NAME")
	setEnvString(&cfg.Database.User, "SALESAPI_DB_USER")
	setEnvString(&cfg.Database.Passwd, "SALESAPI_DB_PASSWD")
	setEnvString(&cfg.System.Workdir, "SALESAPI_WORKDIR")
	setEnvString(&cfg.Logger.Mode, "SALESAPI_LOGGER_MODE")

	return &cfg, nil
}

func setEnvString(dst *string, name string) {
	if v := os.Getenv(name); v != "" {
		*dst = v
	}
}
