package config

import (
	"fmt"
	"net"
	"os"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

const (
	DefaultControllerPort uint16 = 2210
	DefaultDelayMs        uint32 = 2000
	DefaultLogLevel              = "info"
)

// AgentConfig is the immutable configuration snapshot handed to the agent
// at startup. The controller endpoint and timing come from the agent
// section of the host configuration; the cell identity attributes come
// from the eNodeB itself.
type AgentConfig struct {
	ControllerAddr string `toml:"controller_addr"`
	ControllerPort uint16 `toml:"controller_port"`
	DelayMs        uint32 `toml:"delay_ms"`

	PCI      uint16 `toml:"pci"`
	NPrb     uint8  `toml:"n_prb"`
	DlEarfcn uint32 `toml:"dl_earfcn"`
	UlEarfcn uint32 `toml:"ul_earfcn"`
	EnbID    uint32 `toml:"enb_id"`

	MetricsAddr string `toml:"metrics_addr"`
	LogLevel    string `toml:"log_level"`
}

func LoadAgentConfig(path string) (AgentConfig, error) {
	var cfg AgentConfig
	if err := loadToml(path, &cfg); err != nil {
		return AgentConfig{}, err
	}
	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return AgentConfig{}, err
	}
	return cfg, nil
}

func (c AgentConfig) WithDefaults() AgentConfig {
	if c.ControllerPort == 0 {
		c.ControllerPort = DefaultControllerPort
	}
	if c.DelayMs == 0 {
		c.DelayMs = DefaultDelayMs
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	return c
}

// Validate rejects a malformed controller address, the one configuration
// failure the agent reports at init.
func (c AgentConfig) Validate() error {
	addr := strings.TrimSpace(c.ControllerAddr)
	if addr == "" {
		return fmt.Errorf("agent config missing controller_addr")
	}
	ip := net.ParseIP(addr)
	if ip == nil || ip.To4() == nil {
		return fmt.Errorf("agent config controller_addr is not an IPv4 address: %q", c.ControllerAddr)
	}
	return nil
}

// ControllerEndpoint returns the dial target host:port.
func (c AgentConfig) ControllerEndpoint() string {
	return net.JoinHostPort(c.ControllerAddr, fmt.Sprintf("%d", c.ControllerPort))
}

// PollInterval is the single configured duration used as read timeout,
// keepalive period, and disconnected-path sleep.
func (c AgentConfig) PollInterval() time.Duration {
	return time.Duration(c.DelayMs) * time.Millisecond
}

func loadToml(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config load failed (%s): %w", path, err)
	}
	if err := toml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("config parse failed (%s): %w", path, err)
	}
	return nil
}
