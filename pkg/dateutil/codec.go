package dateutil

import (
	"fmt"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// MarshalJSON writes the date as "MM/DD/YYYY", or "" when absent.
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(FormatDate(d))
}

// UnmarshalJSON reads any accepted date string. Unparseable text becomes the absent date.
func (d *Date) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*d = Date{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}
	*d = ParseDate(s)
	return nil
}

// MarshalYAML writes the date in display format.
func (d Date) MarshalYAML() (interface{}, error) {
	return FormatDate(d), nil
}

// UnmarshalYAML reads the raw scalar text so that unquoted YYYY-MM-DD values
// are not first resolved as YAML timestamps.
func (d *Date) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: date must be a scalar", value.Line)
	}
	if value.Tag == "!!null" {
		*d = Date{}
		return nil
	}
	*d = ParseDate(value.Value)
	return nil
}
