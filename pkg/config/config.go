package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config represents the complete labctl configuration
type Config struct {
	Paths   PathsConfig   `mapstructure:"paths"`
	Network NetworkConfig `mapstructure:"network"`
	Ansible AnsibleConfig `mapstructure:"ansible"`
}

// PathsConfig controls where labctl keeps state and finds build inputs
type PathsConfig struct {
	// DataDir holds the session store and all generated artifacts.
	// Removed entirely on stop.
	DataDir string `mapstructure:"data_dir"`
	// DockerfilesDir is scanned for Dockerfile.<image> build files
	DockerfilesDir string `mapstructure:"dockerfiles_dir"`
}

// NetworkConfig controls subnet derivation and port probing
type NetworkConfig struct {
	// SubnetBase is the second octet offset: session n uses 172.(base+n).0.0/16
	SubnetBase int `mapstructure:"subnet_base"`
	// PortStep is how far to advance when a candidate port is taken
	PortStep int `mapstructure:"port_step"`
	// MaxProbeAttempts bounds the port scan before giving up
	MaxProbeAttempts int `mapstructure:"max_probe_attempts"`
	// ProbeTimeoutMs is the loopback connect timeout per probe
	ProbeTimeoutMs int `mapstructure:"probe_timeout_ms"`
}

// AnsibleConfig names the configuration-runner binaries
type AnsibleConfig struct {
	PingBinary     string `mapstructure:"ping_binary"`
	PlaybookBinary string `mapstructure:"playbook_binary"`
}

// Load reads the configuration from defaults, an optional config file at
// $XDG_CONFIG_HOME/labctl/config.yaml, and LABCTL_* environment variables,
// in increasing order of precedence.
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if dir, err := os.UserConfigDir(); err == nil {
		v.AddConfigPath(filepath.Join(dir, "labctl"))
	}
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.SetEnvPrefix("LABCTL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// A missing config file is fine; a malformed one is not.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	dataDir := "./labctl-data"
	if dir, err := os.UserConfigDir(); err == nil {
		dataDir = filepath.Join(dir, "labctl")
	}

	v.SetDefault("paths.data_dir", dataDir)
	v.SetDefault("paths.dockerfiles_dir", "./Dockerfiles")

	v.SetDefault("network.subnet_base", 19)
	v.SetDefault("network.port_step", 10)
	v.SetDefault("network.max_probe_attempts", 100)
	v.SetDefault("network.probe_timeout_ms", 1000)

	v.SetDefault("ansible.ping_binary", "ansible")
	v.SetDefault("ansible.playbook_binary", "ansible-playbook")
}

// StorePath is the session store file inside the data directory.
func (c *Config) StorePath() string {
	return filepath.Join(c.Paths.DataDir, "cluster_session.json")
}

// ComposePath is where the topology descriptor for a session is written.
func (c *Config) ComposePath(sessionID string) string {
	return filepath.Join(c.Paths.DataDir, fmt.Sprintf("docker-compose-%s.yml", sessionID))
}

// InventoryPath is where the generated session inventory is written.
func (c *Config) InventoryPath(sessionID string) string {
	return filepath.Join(c.Paths.DataDir, fmt.Sprintf("inventory-%s.yml", sessionID))
}

// DockerfilePath resolves the build file for an image reference.
func (c *Config) DockerfilePath(image string) string {
	return filepath.Join(c.Paths.DockerfilesDir, "Dockerfile."+image)
}
