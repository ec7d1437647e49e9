package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const minimal = `
mqtt:
  url: tcp://broker:1883
  topics:
    commands: mre/test/commands
    events: mre/test/events
`

func TestDecodeAppliesDefaults(t *testing.T) {
	c, err := Decode(strings.NewReader(minimal))
	require.NoError(t, err)

	assert.Equal(t, "tcp://broker:1883", c.Mqtt.URL)
	assert.Equal(t, "mretx", c.Mqtt.ClientID)
	assert.Equal(t, 5*time.Second, c.Mqtt.PublishTimeout)
	assert.Equal(t, "hello", c.App.Scene)
	assert.Equal(t, 20.0, c.App.SpinDuration)
	assert.Equal(t, 1.0, c.App.FlipDuration)
	assert.Equal(t, ":3000", c.API.Listen)

	s := c.Settings()
	r, g, b := s.TextColour.RGB255()
	assert.Equal(t, []uint8{30, 206, 213}, []uint8{r, g, b})

	topics := c.Topics()
	assert.Equal(t, "mre/test/commands", topics.Commands)
	assert.Equal(t, "mre/test/events", topics.Events)
}

func TestDecodeFullConfig(t *testing.T) {
	c, err := Decode(strings.NewReader(minimal + `
  publishTimeout: 250ms
app:
  scene: coster
  spinDuration: 8
  flipDuration: 0.5
  textColour: "#ff0000"
api:
  listen: ":8080"
  static: www
`))
	require.NoError(t, err)
	assert.Equal(t, 250*time.Millisecond, c.Mqtt.PublishTimeout)
	assert.Equal(t, "coster", c.Settings().Scene)
	assert.Equal(t, 8.0, c.Settings().SpinDuration)
	assert.Equal(t, 0.5, c.Settings().FlipDuration)
	assert.Equal(t, "www", c.API.Static)
}

func TestDecodeRejectsBadConfig(t *testing.T) {
	cases := map[string]string{
		"empty":         ``,
		"no url":        "mqtt:\n  topics:\n    commands: a\n    events: b\n",
		"no topics":     "mqtt:\n  url: tcp://broker:1883\n",
		"unknown scene": minimal + "app:\n  scene: moon\n",
		"negative spin": minimal + "app:\n  spinDuration: -2\n",
		"bad colour":    minimal + "app:\n  textColour: teal\n",
		"unknown field": minimal + "app:\n  speed: 3\n",
		"bad duration":  minimal + "  publishTimeout: soon\n",
	}

	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(in))
			assert.True(t, errors.Is(err, ErrInvalid), "got %v", err)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(minimal), 0o644))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "mre/test/events", c.Mqtt.Topics.Events)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
