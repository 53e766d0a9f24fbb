// Package config loads the server's JSON config file and fills in defaults.
// Everything tunable lives here; nothing is read from environment variables
// at runtime.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/OfirAtias/LifeShot-AWS-Serverless-System/pkg/dbh"
	"github.com/OfirAtias/LifeShot-AWS-Serverless-System/pkg/nn"
	"github.com/OfirAtias/LifeShot-AWS-Serverless-System/server/monitor"
)

type StorageConfig struct {
	// Kind is "filesystem" or "gcs"
	Kind string `json:"kind"`
	// Root is the local directory, for filesystem storage
	Root string `json:"root,omitempty"`
	// Bucket is the GCS bucket name
	Bucket string `json:"bucket,omitempty"`
	// Public means the bucket serves objects without signing
	Public bool `json:"public,omitempty"`
	// URLExpirySeconds is the lifetime of signed evidence URLs
	URLExpirySeconds int `json:"urlExpirySeconds,omitempty"`
}

type FramesConfig struct {
	// Prefix under which capture uploads frames, eg "frames/"
	Prefix string `json:"prefix"`
	// OutputPrefix is where annotated evidence images go, eg "evidence/"
	OutputPrefix string `json:"outputPrefix"`
	// MaxFrames caps how many frames one scan will process (newest win)
	MaxFrames int `json:"maxFrames"`
}

type DetectorConfig struct {
	// URL of the person inference endpoint
	URL string `json:"url"`
	// TimeoutSeconds for one inference call
	TimeoutSeconds int             `json:"timeoutSeconds,omitempty"`
	Filter         nn.FilterParams `json:"filter"`
}

type NotifyConfig struct {
	WebhookURL string `json:"webhookUrl,omitempty"`
}

type Config struct {
	HTTPPort int            `json:"httpPort"`
	DB       dbh.DBConfig   `json:"db"`
	Storage  StorageConfig  `json:"storage"`
	Frames   FramesConfig   `json:"frames"`
	Detector DetectorConfig `json:"detector"`
	Tracking monitor.Params `json:"tracking"`
	Notify   NotifyConfig   `json:"notify"`
}

// Default returns a config with every threshold at its production value.
// A loaded file overrides only what it mentions.
func Default() Config {
	return Config{
		HTTPPort: 8085,
		DB:       dbh.MakeSqliteConfig("lifeshot.sqlite"),
		Storage: StorageConfig{
			Kind:             "filesystem",
			Root:             "lifeshot-data",
			URLExpirySeconds: 3600,
		},
		Frames: FramesConfig{
			Prefix:       "frames/",
			OutputPrefix: "evidence/",
			MaxFrames:    200,
		},
		Detector: DetectorConfig{
			TimeoutSeconds: 30,
			Filter: nn.FilterParams{
				MinConfidence: 70,
				MinBoxArea:    0.0015,
				MaxBoxArea:    0.70,
			},
		},
		Tracking: monitor.DefaultParams(),
	}
}

// Load reads filename over the defaults. An empty filename returns the
// defaults untouched.
func Load(filename string) (Config, error) {
	cfg := Default()
	if filename == "" {
		return cfg, nil
	}
	raw, err := os.ReadFile(filename)
	if err != nil {
		return cfg, fmt.Errorf("Failed to read config file %v: %w", filename, err)
	}
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("Failed to parse config file %v: %w", filename, err)
	}
	return cfg, nil
}

func (c *DetectorConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

func (c *StorageConfig) URLExpiry() time.Duration {
	return time.Duration(c.URLExpirySeconds) * time.Second
}
