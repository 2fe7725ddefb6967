package dataset

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

// Paths helper for the dataset files under one base directory.
type Paths struct {
	BaseDir string
}

func (p Paths) WavesPath() string    { return filepath.Join(p.BaseDir, "waves.yaml") }
func (p Paths) SettingsPath() string { return filepath.Join(p.BaseDir, "settings.yaml") }
func (p Paths) MagesPath() string    { return filepath.Join(p.BaseDir, "mages.yaml") }
func (p Paths) NemesesPath() string  { return filepath.Join(p.BaseDir, "nemeses.yaml") }
func (p Paths) FriendsPath() string  { return filepath.Join(p.BaseDir, "friends.yaml") }
func (p Paths) FoesPath() string     { return filepath.Join(p.BaseDir, "foes.yaml") }

// Loader reads the YAML datasets once and serves the typed collection to all
// callers. Datasets are process-wide read-only state; concurrent selector
// invocations share one cached Collection without locking after load.
type Loader struct {
	paths Paths

	mu     sync.RWMutex
	cached *Collection
}

// NewLoader creates a dataset loader rooted at the given directory.
func NewLoader(baseDir string) *Loader {
	return &Loader{paths: Paths{BaseDir: baseDir}}
}

// Load returns the cached collection, reading and validating the dataset
// files on first use.
func (l *Loader) Load() (*Collection, error) {
	l.mu.RLock()
	if c := l.cached; c != nil {
		l.mu.RUnlock()
		return c, nil
	}
	l.mu.RUnlock()

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.cached != nil {
		return l.cached, nil
	}

	col, err := LoadDir(l.paths)
	if err != nil {
		return nil, err
	}
	l.cached = col
	return col, nil
}

// Invalidate clears the cache so the next Load rereads from disk.
func (l *Loader) Invalidate() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cached = nil
}

// LoadDir reads all six dataset files and returns a validated collection.
func LoadDir(p Paths) (*Collection, error) {
	boxes, err := loadBoxMap(p.WavesPath())
	if err != nil {
		return nil, err
	}
	settings, err := loadSettings(p.SettingsPath())
	if err != nil {
		return nil, err
	}
	col := &Collection{Boxes: boxes, Settings: settings}

	if err := readYAMLRoot(p.MagesPath(), "mages", &col.Mages); err != nil {
		return nil, err
	}
	if err := readYAMLRoot(p.NemesesPath(), "nemeses", &col.Nemeses); err != nil {
		return nil, err
	}
	if err := readYAMLRoot(p.FriendsPath(), "friends", &col.Friends); err != nil {
		return nil, err
	}
	if err := readYAMLRoot(p.FoesPath(), "foes", &col.Foes); err != nil {
		return nil, err
	}

	normalize(col)
	if err := Validate(col); err != nil {
		return nil, err
	}
	return col, nil
}

func loadBoxMap(path string) (BoxMap, error) {
	var raw struct {
		Boxes map[string]string `yaml:"boxes"`
	}
	if err := readYAML(path, &raw); err != nil {
		return nil, err
	}
	if raw.Boxes == nil {
		return nil, &ValidationError{Problems: []string{path + ": missing 'boxes' mapping box_name -> wave_name"}}
	}
	out := make(BoxMap, len(raw.Boxes))
	for box, wave := range raw.Boxes {
		out[Norm(box)] = Norm(wave)
	}
	return out, nil
}

func loadSettings(path string) (map[string]Setting, error) {
	var raw struct {
		WaveSettings map[string]map[string]any `yaml:"wave_settings"`
	}
	if err := readYAML(path, &raw); err != nil {
		return nil, err
	}
	if raw.WaveSettings == nil {
		return nil, &ValidationError{Problems: []string{path + ": missing 'wave_settings' mapping wave_name -> setting data"}}
	}
	out := make(map[string]Setting, len(raw.WaveSettings))
	for wave, payload := range raw.WaveSettings {
		wave = Norm(wave)
		s := Setting{Wave: wave, Fields: map[string]any{}}
		for k, v := range payload {
			if k == "setting_variants" {
				s.Variants = decodeVariants(v)
				continue
			}
			s.Fields[k] = v
		}
		out[wave] = s
	}
	return out, nil
}

func decodeVariants(v any) map[string]map[string]any {
	raw, ok := v.(map[string]any)
	if !ok {
		return nil
	}
	out := make(map[string]map[string]any, len(raw))
	for name, fields := range raw {
		if m, ok := fields.(map[string]any); ok {
			out[name] = m
		}
	}
	return out
}

// readYAMLRoot decodes a file whose document is a mapping with a single list
// under rootKey, e.g. {nemeses: [...]}.
func readYAMLRoot(path, rootKey string, out any) error {
	var doc map[string]yaml.Node
	if err := readYAML(path, &doc); err != nil {
		return err
	}
	node, ok := doc[rootKey]
	if !ok {
		return &ValidationError{Problems: []string{fmt.Sprintf("%s: missing '%s' list", path, rootKey)}}
	}
	if err := node.Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

func readYAML(path string, out any) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(b, out); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

// normalize cleans whitespace on every name and box reference so scope and
// collision checks compare like with like.
func normalize(c *Collection) {
	for i := range c.Mages {
		c.Mages[i].Name = Norm(c.Mages[i].Name)
		for j := range c.Mages[i].Variants {
			v := &c.Mages[i].Variants[j]
			v.Name = Norm(v.Name)
			v.Box = Norm(v.Box)
			v.Wave = Norm(v.Wave)
		}
	}
	for i := range c.Nemeses {
		c.Nemeses[i].Name = Norm(c.Nemeses[i].Name)
		c.Nemeses[i].Box = Norm(c.Nemeses[i].Box)
	}
	for i := range c.Friends {
		c.Friends[i].Name = Norm(c.Friends[i].Name)
		c.Friends[i].Box = Norm(c.Friends[i].Box)
	}
	for i := range c.Foes {
		c.Foes[i].Name = Norm(c.Foes[i].Name)
		c.Foes[i].Box = Norm(c.Foes[i].Box)
	}
}
