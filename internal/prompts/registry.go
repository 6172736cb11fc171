package prompts

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Placeholder is the token every dimension prompt template must contain;
// BuildPrompt substitutes the article text for it.
const Placeholder = "{article_text}"

// ConfigError reports a malformed prompt configuration. It is fatal at
// load time: nothing depending on the registry should start without it.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return "prompts config: " + e.Reason
}

// NotFoundError reports a lookup for a dimension that is not registered.
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("dimension %q is not registered", e.Name)
}

// DimensionSpec describes one independently-scored bias axis: its prompt
// template and the closed interval scores must land in.
type DimensionSpec struct {
	Name           string  `yaml:"name"`
	PromptTemplate string  `yaml:"prompt"`
	Min            float64 `yaml:"min"`
	Max            float64 `yaml:"max"`
}

// BuildPrompt substitutes the article text into the template.
func (d DimensionSpec) BuildPrompt(articleText string) string {
	return strings.ReplaceAll(d.PromptTemplate, Placeholder, articleText)
}

// Registry is an immutable catalogue of dimension specs plus the
// summarization prompt template. Safe for concurrent reads after load.
type Registry struct {
	dimensions []DimensionSpec
	byName     map[string]DimensionSpec
	summary    string
}

type fileConfig struct {
	Dimensions    []DimensionSpec `yaml:"dimensions"`
	Summarization struct {
		PromptTemplate string `yaml:"prompt_template"`
	} `yaml:"summarization"`
}

// Load reads YAML from r and validates every entry.
func Load(r io.Reader) (*Registry, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, &ConfigError{Reason: fmt.Sprintf("read config: %v", err)}
	}

	var cfg fileConfig
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, &ConfigError{Reason: fmt.Sprintf("parse yaml: %v", err)}
	}

	return build(cfg.Dimensions, cfg.Summarization.PromptTemplate)
}

// LoadFile reads the registry from a YAML file on disk.
func LoadFile(path string) (*Registry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &ConfigError{Reason: fmt.Sprintf("open %s: %v", path, err)}
	}
	defer f.Close()

	return Load(f)
}

func build(dims []DimensionSpec, summary string) (*Registry, error) {
	if len(dims) == 0 {
		return nil, &ConfigError{Reason: "no dimensions configured"}
	}

	byName := make(map[string]DimensionSpec, len(dims))
	for _, dim := range dims {
		if strings.TrimSpace(dim.Name) == "" {
			return nil, &ConfigError{Reason: "dimension with empty name"}
		}
		if !strings.Contains(dim.PromptTemplate, Placeholder) {
			return nil, &ConfigError{Reason: fmt.Sprintf("dimension %s: prompt must contain %s", dim.Name, Placeholder)}
		}
		if math.IsNaN(dim.Min) || math.IsNaN(dim.Max) || math.IsInf(dim.Min, 0) || math.IsInf(dim.Max, 0) {
			return nil, &ConfigError{Reason: fmt.Sprintf("dimension %s: range bounds must be finite", dim.Name)}
		}
		if dim.Min >= dim.Max {
			return nil, &ConfigError{Reason: fmt.Sprintf("dimension %s: invalid range [%g, %g]", dim.Name, dim.Min, dim.Max)}
		}
		if _, dup := byName[dim.Name]; dup {
			return nil, &ConfigError{Reason: fmt.Sprintf("duplicate dimension %s", dim.Name)}
		}
		byName[dim.Name] = dim
	}

	return &Registry{
		dimensions: append([]DimensionSpec(nil), dims...),
		byName:     byName,
		summary:    summary,
	}, nil
}

// Get returns a spec by dimension name.
func (r *Registry) Get(name string) (DimensionSpec, error) {
	if spec, ok := r.byName[name]; ok {
		return spec, nil
	}
	return DimensionSpec{}, &NotFoundError{Name: name}
}

// Dimensions returns all specs in declaration order.
func (r *Registry) Dimensions() []DimensionSpec {
	return append([]DimensionSpec(nil), r.dimensions...)
}

// SummaryTemplate returns the summarization prompt template, falling back
// to a built-in default when the config does not provide one.
func (r *Registry) SummaryTemplate() string {
	if strings.TrimSpace(r.summary) == "" {
		return defaultSummaryTemplate
	}
	return r.summary
}

// BuildSummaryPrompt substitutes the article text into the summary template.
func (r *Registry) BuildSummaryPrompt(articleText string) string {
	return strings.ReplaceAll(r.SummaryTemplate(), Placeholder, articleText)
}
