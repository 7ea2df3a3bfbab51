package main

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/amozoss/pushover-go"
	"gopkg.in/ini.v1"
)

const mainSection = "main"

// Profile is a named user in the configuration file.
type Profile struct {
	UserKey string
	Device  string
}

// Config is the content of the configuration file:
//
//	[main]
//	token = <application token>
//
//	[phone]
//	user_key = <user key>
//	device = iphone
type Config struct {
	Token    string
	Profiles map[string]Profile
}

// readConfig loads the configuration file at path. A missing file yields
// an empty Config.
func readConfig(path string) (*Config, error) {
	cfg := &Config{Profiles: map[string]Profile{}}
	if path == "" {
		return cfg, nil
	}
	path, err := expandHome(path)
	if err != nil {
		return nil, ConfigError.Wrap(err)
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		logger.Debugf("no configuration file at %s", path)
		return cfg, nil
	}

	file, err := ini.Load(path)
	if err != nil {
		return nil, ConfigError.Wrap(err)
	}
	for _, section := range file.Sections() {
		name := section.Name()
		switch name {
		case ini.DefaultSection:
			continue
		case mainSection:
			cfg.Token = section.Key("token").String()
		default:
			if !section.HasKey("user_key") {
				return nil, ConfigError.New("%s: section %q has no user_key",
					path, name)
			}
			cfg.Profiles[name] = Profile{
				UserKey: section.Key("user_key").String(),
				Device:  section.Key("device").String(),
			}
		}
	}
	return cfg, nil
}

// resolve turns a profile name or a raw user key into a user key and
// device.
func (c *Config) resolve(user string) (Profile, error) {
	if user == "" {
		return Profile{}, pushover.InvalidUserError.New("no user given")
	}
	if profile, ok := c.Profiles[user]; ok {
		return profile, nil
	}
	return Profile{UserKey: user}, nil
}

func expandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
