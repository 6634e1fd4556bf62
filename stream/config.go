package stream

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/matt-g-everett/animstudio/keyframe"
	"github.com/matt-g-everett/animstudio/logging"
	"github.com/matt-g-everett/animstudio/studio"
	"gopkg.in/yaml.v2"
)

// Config is the animstudio configuration file.
type Config struct {
	Mqtt struct {
		URL      string `yaml:"url"`
		Username string `yaml:"username"`
		Password string `yaml:"password"`
		ClientID string `yaml:"clientId"`
		QoS      byte   `yaml:"qos"`
		Topics   struct {
			Command string `yaml:"command"`
			Reply   string `yaml:"reply"`
			Frame   string `yaml:"frame"`
			Export  string `yaml:"export"`
		} `yaml:"topics"`
	} `yaml:"mqtt"`

	Timeline struct {
		Min       int     `yaml:"min"`
		Max       int     `yaml:"max"`
		FrameRate float64 `yaml:"frameRate"`
		Loop      bool    `yaml:"loop"`
	} `yaml:"timeline"`

	Export struct {
		Precision int  `yaml:"precision"`
		Normalise bool `yaml:"normalise"`
	} `yaml:"export"`

	Preview struct {
		Width  int `yaml:"width"`
		Height int `yaml:"height"`
	} `yaml:"preview"`

	API struct {
		Listen string `yaml:"listen"`
		Static string `yaml:"static"`
	} `yaml:"api"`

	Logging logging.Config `yaml:"logging"`

	Elements []ElementConfig `yaml:"elements"`
}

// ElementConfig lists the controls registered for an element at startup.
type ElementConfig struct {
	Name     string          `yaml:"name"`
	Controls []ControlConfig `yaml:"controls"`
}

// ControlConfig is the registration of one control. Omitted fields take the
// studio defaults.
type ControlConfig struct {
	Name       string   `yaml:"name" json:"name"`
	Initial    *float64 `yaml:"initial" json:"initial,omitempty"`
	Min        *float64 `yaml:"min" json:"min,omitempty"`
	Max        *float64 `yaml:"max" json:"max,omitempty"`
	Step       *float64 `yaml:"step" json:"step,omitempty"`
	Format     string   `yaml:"format" json:"format,omitempty"`
	Conversion string   `yaml:"conversion" json:"conversion,omitempty"`
}

// Control converts the entry into a studio registration.
func (c ControlConfig) Control() studio.Control {
	ctrl := studio.DefaultControl()
	if c.Initial != nil {
		ctrl.Initial = *c.Initial
	}
	if c.Min != nil {
		ctrl.Min = *c.Min
	}
	if c.Max != nil {
		ctrl.Max = *c.Max
	}
	if c.Step != nil {
		ctrl.Step = *c.Step
	}
	if c.Format != "" {
		ctrl.Format = c.Format
	}
	ctrl.Conversion, _ = keyframe.ParseConversion(c.Conversion)
	return ctrl
}

// DefaultConfig returns the configuration used for anything the file omits.
func DefaultConfig() Config {
	var c Config
	c.Mqtt.URL = "tcp://localhost:1883"
	c.Mqtt.QoS = 0
	c.Mqtt.Topics.Command = "animstudio/command"
	c.Mqtt.Topics.Reply = "animstudio/reply"
	c.Mqtt.Topics.Frame = "animstudio/frame"
	c.Mqtt.Topics.Export = "animstudio/export"
	c.Timeline.Min = 0
	c.Timeline.Max = 600
	c.Timeline.FrameRate = 60
	c.Export.Precision = -1
	c.Preview.Width = 256
	c.Preview.Height = 60
	c.API.Listen = ":3000"
	c.API.Static = "client/dist"
	c.Logging = logging.Config{Level: "info", Format: "json", Output: "stdout"}
	return c
}

// LoadConfig reads the YAML file at path over the defaults, applies
// environment overrides and validates the result.
func LoadConfig(path string) (Config, error) {
	c := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return c, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, &c); err != nil {
		return c, fmt.Errorf("parsing config: %w", err)
	}

	c.applyEnv()
	if c.Mqtt.ClientID == "" {
		c.Mqtt.ClientID = "animstudio-" + uuid.NewString()
	}

	if err := c.Validate(); err != nil {
		return c, err
	}
	return c, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("ANIMSTUDIO_MQTT_URL"); v != "" {
		c.Mqtt.URL = v
	}
	if v := os.Getenv("ANIMSTUDIO_MQTT_USERNAME"); v != "" {
		c.Mqtt.Username = v
	}
	if v := os.Getenv("ANIMSTUDIO_MQTT_PASSWORD"); v != "" {
		c.Mqtt.Password = v
	}
}

// Validate reports every problem in the configuration at once.
func (c *Config) Validate() error {
	var errs []string

	if c.Mqtt.URL == "" {
		errs = append(errs, "mqtt.url is required")
	}
	if c.Mqtt.QoS > 2 {
		errs = append(errs, "mqtt.qos must be 0, 1 or 2")
	}
	if c.Mqtt.Topics.Command == "" || c.Mqtt.Topics.Reply == "" || c.Mqtt.Topics.Frame == "" || c.Mqtt.Topics.Export == "" {
		errs = append(errs, "mqtt.topics must name command, reply, frame and export")
	}
	if c.Timeline.Min < 0 || c.Timeline.Min >= c.Timeline.Max {
		errs = append(errs, "timeline requires 0 <= min < max")
	}
	if c.Timeline.FrameRate <= 0 {
		errs = append(errs, "timeline.frameRate must be positive")
	}
	if c.Preview.Width <= 0 || c.Preview.Height <= 0 {
		errs = append(errs, "preview width and height must be positive")
	}

	for i, e := range c.Elements {
		if e.Name == "" {
			errs = append(errs, fmt.Sprintf("elements[%d].name is required", i))
		}
		for j, ctrl := range e.Controls {
			if ctrl.Name == "" {
				errs = append(errs, fmt.Sprintf("elements[%d].controls[%d].name is required", i, j))
			}
			if _, ok := keyframe.ParseConversion(ctrl.Conversion); !ok {
				errs = append(errs, fmt.Sprintf("elements[%d].controls[%d].conversion %q is unknown", i, j, ctrl.Conversion))
			}
			if r := ctrl.Control(); r.Min > r.Max {
				errs = append(errs, fmt.Sprintf("elements[%d].controls[%d] has min > max", i, j))
			}
		}
	}

	if len(errs) > 0 {
		return errors.New("invalid config: " + strings.Join(errs, "; "))
	}
	return nil
}

// StudioOptions converts the timeline and export sections.
func (c *Config) StudioOptions() studio.Options {
	return studio.Options{
		MinTime: c.Timeline.Min,
		MaxTime: c.Timeline.Max,
		Export: studio.ExportOptions{
			Precision: c.Export.Precision,
			Normalise: c.Export.Normalise,
		},
	}
}

// Register registers the configured elements and controls with s.
func (c *Config) Register(s *studio.Studio) {
	for _, e := range c.Elements {
		s.RegisterElement(e.Name)
		for _, ctrl := range e.Controls {
			s.RegisterControl(e.Name, ctrl.Name, ctrl.Control())
		}
	}
	s.Timeline().SetLoop(c.Timeline.Loop)
}
