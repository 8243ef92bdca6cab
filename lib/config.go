// Package lib loads the agent's app monitor configuration.
package lib

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/mitchellh/go-homedir"
	"github.com/vaughan0/go-ini"
)

// AppMonitors maps a monitor name to its settings: app_monitor_id,
// identity_pool_id, guest_role_arn, and optionally endpoint and
// session_sample_rate.
type AppMonitors map[string]map[string]string

type config interface {
	Parse() (AppMonitors, error)
}

type fileConfig struct {
	file string
}

// NewConfigFromEnv locates the config file: AWS_RUM_CONFIG_FILE if set,
// otherwise ~/.aws-rum/config. A missing file yields an empty config, not
// an error.
func NewConfigFromEnv() (config, error) {
	file := os.Getenv("AWS_RUM_CONFIG_FILE")
	if file == "" {
		home, err := homedir.Dir()
		if err != nil {
			return nil, err
		}
		file = filepath.Join(home, ".aws-rum/config")
		if _, err := os.Stat(file); os.IsNotExist(err) {
			file = ""
		}
	}
	return &fileConfig{file: file}, nil
}

func (c *fileConfig) Parse() (AppMonitors, error) {
	if c.file == "" {
		return AppMonitors{}, nil
	}

	log.Debugf("Parsing config file %s", c.file)
	f, err := ini.LoadFile(c.file)
	if err != nil {
		return nil, fmt.Errorf("Error parsing config file %q: %v", c.file, err)
	}

	monitors := AppMonitors{}
	for sectionName, section := range f {
		monitors[strings.TrimPrefix(sectionName, "monitor ")] = section
	}

	return monitors, nil
}

// GetValue looks up key in the named monitor's section.
func (m AppMonitors) GetValue(monitor string, key string) (string, error) {
	value, ok := m[monitor][key]
	if !ok {
		return "", fmt.Errorf("%s missing from monitor %q", key, monitor)
	}
	return value, nil
}
