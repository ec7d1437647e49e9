package config

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"time"

	"github.com/matt-g-everett/mretx/app"
	"github.com/matt-g-everett/mretx/host"
	"github.com/matt-g-everett/mretx/util"
	"gopkg.in/yaml.v2"
)

// ErrInvalid is returned for configuration that cannot be used.
var ErrInvalid = errors.New("invalid config")

const (
	defaultClientID       = "mretx"
	defaultPublishTimeout = 5 * time.Second
	defaultSpinDuration   = 20.0
	defaultFlipDuration   = 1.0
	defaultTextColour     = "#1ECED5"
	defaultListen         = ":3000"
	defaultStatic         = "client/dist"
)

type Config struct {
	Mqtt struct {
		URL            string        `yaml:"url"`
		Username       string        `yaml:"username"`
		Password       string        `yaml:"password"`
		ClientID       string        `yaml:"clientId"`
		PublishTimeout time.Duration `yaml:"publishTimeout"`
		Topics         struct {
			Commands string `yaml:"commands"`
			Events   string `yaml:"events"`
		} `yaml:"topics"`
	} `yaml:"mqtt"`
	App struct {
		Scene        string  `yaml:"scene"`
		SpinDuration float64 `yaml:"spinDuration"`
		FlipDuration float64 `yaml:"flipDuration"`
		TextColour   string  `yaml:"textColour"`
	} `yaml:"app"`
	API struct {
		Listen string `yaml:"listen"`
		Static string `yaml:"static"`
	} `yaml:"api"`
}

// Load reads and validates a YAML config file.
func Load(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, err
	}
	defer f.Close()
	return Decode(f)
}

// Decode reads and validates YAML config.
func Decode(r io.Reader) (Config, error) {
	var c Config
	decoder := yaml.NewDecoder(r)
	decoder.SetStrict(true)
	if err := decoder.Decode(&c); err != nil && err != io.EOF {
		return Config{}, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate fills in defaults and rejects unusable values.
func (c *Config) Validate() error {
	if c.Mqtt.URL == "" {
		return fmt.Errorf("%w: mqtt.url is required", ErrInvalid)
	}
	if c.Mqtt.Topics.Commands == "" || c.Mqtt.Topics.Events == "" {
		return fmt.Errorf("%w: mqtt.topics.commands and mqtt.topics.events are required", ErrInvalid)
	}
	if c.Mqtt.ClientID == "" {
		c.Mqtt.ClientID = defaultClientID
	}
	if c.Mqtt.PublishTimeout == 0 {
		c.Mqtt.PublishTimeout = defaultPublishTimeout
	}
	if c.Mqtt.PublishTimeout < 0 {
		return fmt.Errorf("%w: mqtt.publishTimeout must be positive", ErrInvalid)
	}

	if c.App.Scene == "" {
		c.App.Scene = app.SceneHello
	}
	if c.App.Scene != app.SceneHello && c.App.Scene != app.SceneCoster {
		return fmt.Errorf("%w: app.scene %q", ErrInvalid, c.App.Scene)
	}
	if c.App.SpinDuration == 0 {
		c.App.SpinDuration = defaultSpinDuration
	}
	if c.App.FlipDuration == 0 {
		c.App.FlipDuration = defaultFlipDuration
	}
	for name, d := range map[string]float64{"spinDuration": c.App.SpinDuration, "flipDuration": c.App.FlipDuration} {
		if d < 0 || math.IsInf(d, 0) || math.IsNaN(d) {
			return fmt.Errorf("%w: app.%s must be positive, got %v", ErrInvalid, name, d)
		}
	}
	if c.App.TextColour == "" {
		c.App.TextColour = defaultTextColour
	}
	if _, err := util.ParseColour(c.App.TextColour); err != nil {
		return fmt.Errorf("%w: app.textColour: %v", ErrInvalid, err)
	}

	if c.API.Listen == "" {
		c.API.Listen = defaultListen
	}
	if c.API.Static == "" {
		c.API.Static = defaultStatic
	}
	return nil
}

// Settings converts the app section for the app package.
func (c *Config) Settings() app.Settings {
	colour, _ := util.ParseColour(c.App.TextColour)
	return app.Settings{
		Scene:        c.App.Scene,
		SpinDuration: c.App.SpinDuration,
		FlipDuration: c.App.FlipDuration,
		TextColour:   colour,
	}
}

// Topics converts the topic section for the host link.
func (c *Config) Topics() host.Topics {
	return host.Topics{
		Commands: c.Mqtt.Topics.Commands,
		Events:   c.Mqtt.Topics.Events,
	}
}
