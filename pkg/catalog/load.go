package catalog

import (
	"fmt"
	"os"

	"github.com/aretw0/walkthrough/pkg/domain"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// fileSpec mirrors the catalog file layout. Keys match the YAML frontmatter style
// used for step definitions (id, text).
type fileSpec struct {
	Title            string           `mapstructure:"title"`
	Welcome          string           `mapstructure:"welcome"`
	PermissionPrompt string           `mapstructure:"permission_prompt"`
	Completion       string           `mapstructure:"completion"`
	Steps            []map[string]any `mapstructure:"steps"`
}

// Load reads a catalog from a YAML file.
//
//	title: My App
//	completion: All done!
//	steps:
//	  - id: download
//	    text: Click the download link.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	return Parse(data)
}

// Parse decodes a catalog from YAML bytes.
func Parse(data []byte) (*Catalog, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}

	var spec fileSpec
	if err := mapstructure.Decode(raw, &spec); err != nil {
		return nil, fmt.Errorf("invalid catalog layout: %w", err)
	}
	if len(spec.Steps) == 0 {
		return nil, fmt.Errorf("catalog has no steps")
	}

	steps := make([]domain.InstallationStep, 0, len(spec.Steps))
	for i, entry := range spec.Steps {
		var step domain.InstallationStep
		if err := mapstructure.Decode(entry, &step); err != nil {
			return nil, fmt.Errorf("step %d: %w", i, err)
		}
		steps = append(steps, step)
	}

	var opts []Option
	if spec.Title != "" {
		opts = append(opts, WithTitle(spec.Title))
	}
	if spec.Welcome != "" {
		opts = append(opts, WithWelcome(spec.Welcome))
	}
	if spec.PermissionPrompt != "" {
		opts = append(opts, WithPermissionPrompt(spec.PermissionPrompt))
	}
	if spec.Completion != "" {
		opts = append(opts, WithCompletion(spec.Completion))
	}
	return New(steps, opts...)
}
