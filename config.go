package main

import (
	"io/ioutil"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v2"
)

type Config struct {
	LogLevel             uint32 `yaml:"log_level"`
	LocationFile         string `yaml:"file_location"`
	AddressFile          string `yaml:"file_address"`
	Download             bool   `yaml:"download"`
	DownloadURL          string `yaml:"download_url"`
	OutputDir            string `yaml:"output_dir"`
	InterestingCountries string `yaml:"interesting_countries"`

	ListCountries bool   `yaml:"-"`
	Probe         string `yaml:"-"`
}

func DefaultConfig() *Config {
	return &Config{
		LogLevel:    uint32(logrus.InfoLevel),
		DownloadURL: DefaultDownloadURL,
		OutputDir:   ".",
	}
}

// ParseConfig reads a YAML config file on top of the defaults.
func ParseConfig(path string) (*Config, error) {
	conf := DefaultConfig()
	content, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, newConfigError("unable to read config file: %v", err)
	}
	if err := yaml.Unmarshal(content, conf); err != nil {
		return nil, newConfigError("unable to parse config file %s: %v", path, err)
	}
	return conf, nil
}

// Validate checks that the inputs needed for the requested mode are present.
func (c *Config) Validate() error {
	if c.LogLevel > uint32(logrus.TraceLevel) {
		return newConfigError("invalid log level %d", c.LogLevel)
	}
	if c.LocationFile == "" {
		if c.AddressFile == "" && !c.Download && !c.ListCountries {
			return newConfigError("missing required address and location csv files")
		}
		return newConfigError("missing country information csv file")
	}
	if c.ListCountries {
		return nil
	}
	if c.AddressFile == "" && !c.Download {
		return newConfigError("missing geoip address csv file, you can instead download it using --download")
	}
	if c.OutputDir == "" {
		c.OutputDir = "."
	}
	fi, err := os.Stat(c.OutputDir)
	if err != nil || !fi.IsDir() {
		return newConfigError("specified output directory %s does not exist or is not a directory", c.OutputDir)
	}
	return nil
}
