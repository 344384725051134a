package robot

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

// Target is a calibrated screen position for an image.
type Target struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
}

type targetsFile struct {
	Targets map[string]Target `yaml:"targets"`
}

// TargetLocator resolves images from a fixed table of calibrated positions.
// Lookups match the full image path first, then its base name.
// It does no screen matching; a template matcher plugs in as another Locator.
type TargetLocator struct {
	mu      sync.RWMutex
	targets map[string]Target
}

// NewTargetLocator creates a locator over targets.
func NewTargetLocator(targets map[string]Target) *TargetLocator {
	l := &TargetLocator{targets: make(map[string]Target, len(targets))}
	for k, v := range targets {
		l.targets[k] = v
	}
	return l
}

// LoadTargets reads a YAML file of the form:
//
//	targets:
//	  submit.png: {x: 640, y: 480}
func LoadTargets(path string) (*TargetLocator, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read targets: %w", err)
	}
	var f targetsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse targets %s: %w", path, err)
	}
	return NewTargetLocator(f.Targets), nil
}

// Set records or replaces the position of img.
func (l *TargetLocator) Set(img string, t Target) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.targets[img] = t
}

// Locate implements Locator.
func (l *TargetLocator) Locate(ctx context.Context, img string) (int, int, bool, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if t, ok := l.targets[img]; ok {
		return t.X, t.Y, true, nil
	}
	if t, ok := l.targets[filepath.Base(img)]; ok {
		return t.X, t.Y, true, nil
	}
	return 0, 0, false, nil
}
