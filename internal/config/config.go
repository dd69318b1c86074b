// Package config loads the JSON configuration file and supplies the
// defaults for a standard three-panel installation.
package config

import (
	"encoding/json"
	"os"
)

// DisplayConfig describes the logical framebuffer and its mapping onto
// the physical panel chain.
type DisplayConfig struct {
	Width         int  `json:"width"`
	Height        int  `json:"height"`
	PanelWidth    int  `json:"panelWidth"`
	FlipX         bool `json:"flipX"`
	FlipY         bool `json:"flipY"`
	ReversePanels bool `json:"reversePanels"`
}

// APIConfig describes the HTTP listener.
type APIConfig struct {
	Port  int    `json:"port"`
	Token string `json:"token"`
}

// RenderConfig holds the frame pacing and the stale-data behavior. All
// times are in seconds; BlankInterval of zero disables blanking.
type RenderConfig struct {
	TargetFPS     int     `json:"targetFps"`
	BlankInterval float64 `json:"blankInterval"`
	GrayStart     float64 `json:"grayStart"`
	GrayEnd       float64 `json:"grayEnd"`
}

// MatrixConfig holds the HUB75 driver options.
type MatrixConfig struct {
	PWMBits      int    `json:"pwmBits"`
	GPIOSlowdown int    `json:"gpioSlowdown"`
	PanelType    string `json:"panelType"`
}

// Config represents the application configuration
type Config struct {
	Display DisplayConfig `json:"display"`
	API     APIConfig     `json:"api"`
	Render  RenderConfig  `json:"render"`
	Matrix  MatrixConfig  `json:"matrix"`
}

// LoadConfig loads the configuration from a file
func LoadConfig(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var config Config
	if err := json.NewDecoder(file).Decode(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Display: DisplayConfig{
			Width:      192,
			Height:     64,
			PanelWidth: 64,
		},
		API: APIConfig{
			Port:  8080,
			Token: "1234567890",
		},
		Render: RenderConfig{
			TargetFPS:     40,
			BlankInterval: 0,
			GrayStart:     60,
			GrayEnd:       70,
		},
		Matrix: MatrixConfig{
			PWMBits:      8,
			GPIOSlowdown: 2,
			PanelType:    "FM6126A",
		},
	}
}
