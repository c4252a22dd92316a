package config

import "fmt"

// Output formats written next to each solved instance.
const (
	FormatOrder = "order"
	FormatJSON  = "json"
	FormatCSV   = "csv"
	FormatLP    = "lp"
	FormatHTML  = "html"
)

// OutputConfig selects the files written after a solve. The best order is
// always printed; files are written only when Dir is set.
type OutputConfig struct {
	Dir     string   `json:"dir" yaml:"dir"`
	Formats []string `json:"formats" yaml:"formats"`
}

// SetDefaults applies fallback values for optional fields.
func (c *OutputConfig) SetDefaults() {
	if len(c.Formats) == 0 {
		c.Formats = []string{FormatJSON}
	}
}

// Validate rejects unknown formats.
func (c OutputConfig) Validate() error {
	for _, f := range c.Formats {
		switch f {
		case FormatOrder, FormatJSON, FormatCSV, FormatLP, FormatHTML:
		default:
			return fmt.Errorf("unknown format %q", f)
		}
	}
	return nil
}

// Wants reports whether format f is enabled.
func (c OutputConfig) Wants(f string) bool {
	for _, g := range c.Formats {
		if g == f {
			return true
		}
	}
	return false
}
