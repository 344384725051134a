package process

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Action names an executor entry point that can be mapped to a command.
type Action string

const (
	ActionClick     Action = "click"
	ActionInputText Action = "input_text"
	ActionWait      Action = "wait"
	ActionScroll    Action = "scroll"
	ActionHotkey    Action = "hotkey"
)

// CommandConfig maps one action to an external command.
type CommandConfig struct {
	Action      Action            `yaml:"action" json:"action"`
	Command     string            `yaml:"command" json:"command"`
	Args        []string          `yaml:"args" json:"args"`
	Environment map[string]string `yaml:"env" json:"env"`
	Description string            `yaml:"description" json:"description"`
}

// ConfigFile represents the structure of actions.yaml.
type ConfigFile struct {
	Actions []CommandConfig `yaml:"actions" json:"actions"`
}

// LoadActions reads a configuration file (YAML or JSON) and returns the commands keyed by action.
// A missing file yields an empty map.
func LoadActions(path string) (map[Action]CommandConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[Action]CommandConfig{}, nil
		}
		return nil, fmt.Errorf("failed to read actions config: %w", err)
	}

	var cfg ConfigFile
	if strings.ToLower(filepath.Ext(path)) == ".json" {
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	} else {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	}

	commands := make(map[Action]CommandConfig)
	for _, c := range cfg.Actions {
		if c.Action == "" {
			continue
		}
		commands[c.Action] = c
	}
	return commands, nil
}
