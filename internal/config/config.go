package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

const FileName = "luast.toml"

const DefaultEntry = "main.lua"

type Manifest struct {
	Project Project `toml:"project"`
	Run     Run     `toml:"run"`
	Log     Log     `toml:"log"`

	// Dir is the directory holding luast.toml, set at load time.
	Dir string `toml:"-"`
}

type Project struct {
	Name  string `toml:"name"`
	Entry string `toml:"entry"`
}

type Run struct {
	Dis      bool  `toml:"dis"`
	Optimize bool  `toml:"optimize"`
	Trace    bool  `toml:"trace"`
	MaxSteps int64 `toml:"max_steps"`
}

type Log struct {
	Verbosity int    `toml:"verbosity"`
	File      string `toml:"file"`
}

// New returns the manifest `luast init` writes for a project called name.
func New(name string) *Manifest {
	return &Manifest{
		Project: Project{Name: name, Entry: DefaultEntry},
	}
}

// Load parses luast.toml from dir.
func Load(dir string) (*Manifest, error) {
	path := filepath.Join(dir, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	var m Manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}

	m.Dir, err = filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve path %s: %w", dir, err)
	}

	if m.Project.Entry == "" {
		m.Project.Entry = DefaultEntry
	}
	if m.Log.Verbosity < 0 {
		m.Log.Verbosity = 0
	}
	if m.Run.MaxSteps < 0 {
		return nil, fmt.Errorf("%s: run.max_steps must not be negative", path)
	}
	return &m, nil
}

// FindAndLoad walks up from startDir looking for luast.toml. It returns
// nil without error when there is none.
func FindAndLoad(startDir string) (*Manifest, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, err
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, FileName)); err == nil {
			return Load(dir)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return nil, nil
		}
		dir = parent
	}
}

// EntryPath is the absolute path of the entry script.
func (m *Manifest) EntryPath() string {
	if filepath.IsAbs(m.Project.Entry) {
		return m.Project.Entry
	}
	return filepath.Join(m.Dir, m.Project.Entry)
}

// LogPath is the log file relative to the manifest, or "" for stderr.
func (m *Manifest) LogPath() string {
	if m.Log.File == "" || filepath.IsAbs(m.Log.File) {
		return m.Log.File
	}
	return filepath.Join(m.Dir, m.Log.File)
}

func (m *Manifest) Encode() ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(m); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write saves m as luast.toml in dir, refusing to overwrite.
func (m *Manifest) Write(dir string) error {
	path := filepath.Join(dir, FileName)
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	}
	data, err := m.Encode()
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
