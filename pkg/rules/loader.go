package rules

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/whatthewaf/whatthewaf/pkg/jsonutil"
)

// File is the on-disk rule file format.
type File struct {
	Version string     `json:"version" yaml:"version"`
	Rules   []RuleSpec `json:"rules" yaml:"rules"`
}

// RuleSpec describes one rule in a rule file. Exactly one of Literal and
// Regex must be set.
type RuleSpec struct {
	ID            string `json:"id" yaml:"id"`
	Category      string `json:"category" yaml:"category"`
	Literal       string `json:"literal,omitempty" yaml:"literal,omitempty"`
	Regex         string `json:"regex,omitempty" yaml:"regex,omitempty"`
	CaseSensitive bool   `json:"case_sensitive,omitempty" yaml:"case_sensitive,omitempty"`
	Description   string `json:"description,omitempty" yaml:"description,omitempty"`
	Score         int    `json:"score,omitempty" yaml:"score,omitempty"`
}

// Rule converts the spec into a validated rule.
func (s RuleSpec) Rule() (Rule, error) {
	cat, ok := ParseCategory(s.Category)
	if !ok {
		return Rule{}, fmt.Errorf("%w: rule %s has unknown category %q", ErrInvalidRule, s.ID, s.Category)
	}

	var r Rule
	switch {
	case s.Literal != "" && s.Regex != "":
		return Rule{}, fmt.Errorf("%w: rule %s sets both literal and regex", ErrInvalidRule, s.ID)
	case s.Literal != "":
		r = NewLiteral(s.ID, cat, s.Literal, s.CaseSensitive)
	case s.Regex != "":
		r = NewRegex(s.ID, cat, s.Regex, s.CaseSensitive)
	default:
		return Rule{}, fmt.Errorf("%w: rule %s needs a literal or a regex", ErrInvalidRule, s.ID)
	}
	r = r.withInfo(s.Description, s.Score)
	if err := r.Validate(); err != nil {
		return Rule{}, err
	}
	return r, nil
}

// LoadFile loads a rule file from disk. Files ending in .json are parsed
// as JSON, .yaml and .yml as YAML, and anything else by content.
func LoadFile(path string) (*Catalogue, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open rule file: %w", err)
	}
	defer f.Close()

	return Load(f, path)
}

// Load parses a rule file from r. filename only selects the format; with
// no known extension, content that is valid JSON is read as JSON.
func Load(r io.Reader, filename string) (*Catalogue, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read rule file: %w", err)
	}

	var file File
	if isJSON(filename, data) {
		if err := jsonutil.UnmarshalStrict(data, &file); err != nil {
			return nil, fmt.Errorf("failed to parse JSON: %w", err)
		}
	} else {
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
	}

	built := make([]Rule, 0, len(file.Rules))
	for i, spec := range file.Rules {
		rule, err := spec.Rule()
		if err != nil {
			return nil, fmt.Errorf("rule at index %d: %w", i, err)
		}
		built = append(built, rule)
	}
	return New(built...)
}

func isJSON(filename string, data []byte) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".json":
		return true
	case ".yaml", ".yml":
		return false
	}
	return jsonutil.Valid(bytes.TrimSpace(data))
}

// Marshal renders a catalogue back into rule file YAML.
func Marshal(c *Catalogue) ([]byte, error) {
	return yaml.Marshal(toFile(c))
}

// MarshalJSON renders a catalogue as an indented JSON rule file.
func MarshalJSON(c *Catalogue) ([]byte, error) {
	return jsonutil.MarshalIndent(toFile(c), "", "  ")
}

func toFile(c *Catalogue) File {
	file := File{Version: "1"}
	c.Each(func(r Rule) bool {
		spec := RuleSpec{
			ID:            r.ID,
			Category:      r.Category.String(),
			CaseSensitive: r.CaseSensitive,
			Description:   r.Description,
			Score:         r.Score,
		}
		switch r.Matcher.Kind() {
		case KindLiteral:
			spec.Literal = r.Matcher.Pattern()
		case KindRegex:
			spec.Regex = r.Matcher.Pattern()
		}
		file.Rules = append(file.Rules, spec)
		return true
	})
	return file
}
