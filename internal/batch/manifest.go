// Package batch scores a list of resumes against named positions.
package batch

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/spigell/resume-scorer/internal/ai"
)

// Item is one resume submitted for a position.
type Item struct {
	Row       int    `yaml:"row" json:"row,omitempty"`
	Position  string `yaml:"position" json:"position"`
	ResumeURL string `yaml:"resume_url" json:"resume_url"`
}

// Key identifies a submission regardless of letter case and padding.
func (i Item) Key() string {
	return strings.ToLower(strings.TrimSpace(i.Position)) + "_" + strings.ToLower(strings.TrimSpace(i.ResumeURL))
}

// Manifest lists jobs keyed by position title and the items to score.
type Manifest struct {
	Jobs  map[string]ai.Job `yaml:"jobs"`
	Items []Item            `yaml:"items"`
}

// LoadManifest reads a YAML manifest. Job names are matched ignoring case and
// padding, so names that collide that way are rejected.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}

	var manifest Manifest
	if err := yaml.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("parsing manifest %q: %w", path, err)
	}

	seen := make(map[string]string, len(manifest.Jobs))
	for name := range manifest.Jobs {
		key := strings.ToLower(strings.TrimSpace(name))
		if other, ok := seen[key]; ok {
			return nil, fmt.Errorf("parsing manifest %q: job names %q and %q differ only in case", path, other, name)
		}
		seen[key] = name
	}

	for i := range manifest.Items {
		if manifest.Items[i].Row == 0 {
			manifest.Items[i].Row = i + 1
		}
	}

	return &manifest, nil
}

// FindJob looks a position up case-insensitively. A job without a title
// takes the position name.
func (m *Manifest) FindJob(position string) (ai.Job, bool) {
	want := strings.TrimSpace(position)
	for name, job := range m.Jobs {
		if !strings.EqualFold(strings.TrimSpace(name), want) {
			continue
		}
		if strings.TrimSpace(job.Title) == "" {
			job.Title = name
		}
		return job, true
	}
	return ai.Job{}, false
}
