package args

import (
	"fmt"
	"os"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"
)

// ============================================================================
// SPEC — the friendly, map-shaped way to describe an argument
// ============================================================================
// A Spec names an argument instead of listing its flags:
//
//	name: input_file      → --input-file, dest input_file
//	shortform: i          → -i
//	flag: false           → positional "input_file"
//	type: int             → str|string|int|integer|float|bool|boolean
//	required: "yes"       → bool or bool-like string
//
// Flag and Required accept bools or bool-like strings because specs are often
// written by hand in YAML.
// ============================================================================

// Spec describes one argument in the friendly style.
type Spec struct {
	Name      string `yaml:"name" json:"name"`
	Shortform string `yaml:"shortform,omitempty" json:"shortform,omitempty"`
	Flag      any    `yaml:"flag,omitempty" json:"flag,omitempty"`
	Type      string `yaml:"type,omitempty" json:"type,omitempty"`
	Required  any    `yaml:"required,omitempty" json:"required,omitempty"`
	Default   any    `yaml:"default,omitempty" json:"default,omitempty"`
	Help      string `yaml:"help,omitempty" json:"help,omitempty"`
	Dest      string `yaml:"dest,omitempty" json:"dest,omitempty"`
}

// Options carries the keyword settings for an argparse-style definition.
type Options struct {
	Type     string
	Required bool
	Default  any
	Help     string
	Dest     string
}

// normalize turns a Spec into a flag list and Options.
func (s Spec) normalize() ([]string, Options, error) {
	name := strings.TrimSpace(s.Name)
	if name == "" {
		return nil, Options{}, errors.New("argument specification must include 'name'")
	}

	isFlag, err := optionalBool(s.Flag, true)
	if err != nil {
		return nil, Options{}, errors.Wrapf(err, "argument %q: flag", name)
	}
	required, err := optionalBool(s.Required, false)
	if err != nil {
		return nil, Options{}, errors.Wrapf(err, "argument %q: required", name)
	}

	var flags []string
	if isFlag {
		if s.Shortform != "" {
			if len([]rune(s.Shortform)) != 1 {
				return nil, Options{}, fmt.Errorf("argument %q: shortform must be a single character, got %q", name, s.Shortform)
			}
			flags = append(flags, "-"+s.Shortform)
		}
		flags = append(flags, "--"+strings.ReplaceAll(name, "_", "-"))
	} else {
		flags = append(flags, name)
	}

	dest := s.Dest
	if dest == "" {
		dest = name
	}

	return flags, Options{
		Type:     s.Type,
		Required: required,
		Default:  s.Default,
		Help:     s.Help,
		Dest:     dest,
	}, nil
}

// ParseSpecs decodes a YAML list of Specs. Every invalid entry is reported.
func ParseSpecs(data []byte) ([]Spec, error) {
	var specs []Spec
	if err := yaml.Unmarshal(data, &specs); err != nil {
		return nil, errors.Wrap(err, "parse argument specs")
	}

	var errs error
	for i, s := range specs {
		if _, _, err := s.normalize(); err != nil {
			errs = multierr.Append(errs, errors.Wrapf(err, "spec #%d", i+1))
		}
		if _, err := parseKind(s.Type); err != nil {
			errs = multierr.Append(errs, errors.Wrapf(err, "spec #%d", i+1))
		}
	}
	if errs != nil {
		return nil, errs
	}
	return specs, nil
}

// LoadSpecs reads a YAML spec file.
func LoadSpecs(path string) ([]Spec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read argument specs %s", path)
	}
	return ParseSpecs(data)
}
