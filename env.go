package adafruitio

import (
	"github.com/joeshaw/envdecode"
)

type envConfig struct {
	Username string `env:"ADAFRUIT_IO_USERNAME,required" description:"Adafruit IO account username"`
	Key      string `env:"ADAFRUIT_IO_KEY,required" description:"Adafruit IO access key (AIO key)"`
	URL      string `env:"ADAFRUIT_IO_URL,default=https://io.adafruit.com" description:"base URL of the service"`
}

// NewClientFromEnv creates a REST client with credentials taken from the
// ADAFRUIT_IO_USERNAME, ADAFRUIT_IO_KEY, and optional ADAFRUIT_IO_URL
// environment variables. Any options are applied on top of the decoded
// configuration.
func NewClientFromEnv(options ...func(*Client) error) (*Client, error) {
	var cfg envConfig
	if err := envdecode.Decode(&cfg); err != nil {
		return nil, err
	}
	options = append([]func(*Client) error{BaseURL(cfg.URL)}, options...)
	return NewClient(cfg.Username, cfg.Key, options...)
}
