// Package missionlog finds mission report fragments in a directory and
// loads them as one text.
package missionlog

import (
	"fmt"
	"maps"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/afero"
)

const (
	filePrefix = "missionReport"
	fileSuffix = ".txt"
)

// Missions maps a mission name to its fragment file names in listing order.
type Missions map[string][]string

// IsMissionFile reports whether a file name looks like a mission report
// fragment.
func IsMissionFile(name string) bool {
	return strings.HasPrefix(name, filePrefix) && strings.HasSuffix(name, fileSuffix)
}

// MissionName derives the mission a fragment belongs to: everything
// before the first '['.
func MissionName(filename string) string {
	name, _, _ := strings.Cut(filename, "[")
	return name
}

// Discover groups the mission report fragments found in dir.
func Discover(fs afero.Fs, dir string) (Missions, error) {
	entries, err := afero.ReadDir(fs, dir)
	if err != nil {
		return nil, fmt.Errorf("error reading log directory %s: %w", dir, err)
	}

	missions := Missions{}
	for _, entry := range entries {
		if entry.IsDir() || !IsMissionFile(entry.Name()) {
			continue
		}
		name := MissionName(entry.Name())
		missions[name] = append(missions[name], entry.Name())
	}
	return missions, nil
}

// Names returns the mission names sorted.
func (m Missions) Names() []string {
	return slices.Sorted(maps.Keys(m))
}

// Load reads the given fragments and concatenates them. Fragments are
// joined by a newline so the last line of one never merges with the
// first line of the next.
func Load(fs afero.Fs, dir string, files []string) (string, error) {
	parts := make([]string, 0, len(files))
	for _, f := range files {
		data, err := afero.ReadFile(fs, filepath.Join(dir, f))
		if err != nil {
			return "", fmt.Errorf("error reading mission fragment %s: %w", f, err)
		}
		parts = append(parts, string(data))
	}
	return strings.Join(parts, "\n"), nil
}

// LoadMission loads every fragment of the named mission.
func (m Missions) LoadMission(fs afero.Fs, dir, name string) (string, error) {
	files, ok := m[name]
	if !ok {
		return "", fmt.Errorf("mission %q not found", name)
	}
	return Load(fs, dir, files)
}
