// Package extract applies a selector spec to a parsed page and produces
// product records. Selectors are declarative fallback chains; the engine
// takes the first match per field and never aborts a run because one
// selector is malformed.
package extract

import (
	"errors"
	"fmt"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// SelectorType identifies how a selector string is evaluated.
type SelectorType string

// Supported selector types. An empty type defaults to CSS.
const (
	TypeCSS   SelectorType = "css"
	TypeXPath SelectorType = "xpath"
	TypeRegex SelectorType = "regex"
)

// ContainerField is the mandatory spec entry locating product containers.
const ContainerField = "product_container"

// RecordFields lists the data fields a spec may configure, in record
// column order.
var RecordFields = []string{
	"name",
	"current_price",
	"original_price",
	"rating",
	"reviews",
	"discount",
	"offers",
	"delivery",
	"availability",
}

// Common errors returned when validating a spec.
var (
	// ErrMissingContainer is returned when a spec has no product_container
	// entry or the entry has no selectors.
	ErrMissingContainer = errors.New("spec missing product_container selectors")
	// ErrContainerModifiers is returned when product_container carries an
	// attribute or cleanup regex, which have no meaning there.
	ErrContainerModifiers = errors.New("product_container accepts neither attribute nor regex")
	// ErrUnknownSelectorType is returned for a selector type outside
	// css, xpath, and regex.
	ErrUnknownSelectorType = errors.New("unknown selector type")
)

// FieldSelector is one field's fallback chain: an ordered selector list
// evaluated until the first nonempty match, an optional attribute to read
// instead of text, and an optional cleanup regex applied to non-regex
// matches.
type FieldSelector struct {
	Type      SelectorType `json:"type" yaml:"type" mapstructure:"type"`
	Selectors []string     `json:"selectors" yaml:"selectors" mapstructure:"selectors"`
	Attribute string       `json:"attribute,omitempty" yaml:"attribute,omitempty" mapstructure:"attribute"`
	Regex     string       `json:"regex,omitempty" yaml:"regex,omitempty" mapstructure:"regex"`
}

// Spec maps field names to their fallback chains. product_container is
// mandatory; every other entry is optional.
type Spec map[string]FieldSelector

// Validate checks the structural rules of a spec.
func (s Spec) Validate() error {
	container, ok := s[ContainerField]
	if !ok || len(container.Selectors) == 0 {
		return ErrMissingContainer
	}
	if container.Attribute != "" || container.Regex != "" {
		return ErrContainerModifiers
	}
	for field, fs := range s {
		switch fs.Type {
		case TypeCSS, TypeXPath, TypeRegex, "":
		default:
			return fmt.Errorf("%w: field %q uses %q", ErrUnknownSelectorType, field, fs.Type)
		}
	}
	return nil
}

// LoadSpec reads a selector spec from a JSON or YAML file and validates
// it.
func LoadSpec(path string) (Spec, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read selector spec %s: %w", path, err)
	}

	var spec Spec
	if err := mapstructure.Decode(v.AllSettings(), &spec); err != nil {
		return nil, fmt.Errorf("failed to decode selector spec %s: %w", path, err)
	}
	if err := spec.Validate(); err != nil {
		return nil, fmt.Errorf("invalid selector spec %s: %w", path, err)
	}
	return spec, nil
}
