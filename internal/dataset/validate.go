package dataset

import (
	"fmt"
	"strings"
)

// ValidationError reports malformed dataset records. It is fatal: the
// selector never retries over a broken dataset.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "dataset validation failed: " + strings.Join(e.Problems, "; ")
}

// Validate checks semantic constraints of a loaded collection, collecting
// every problem before reporting.
func Validate(c *Collection) error {
	var errs []string

	if len(c.Boxes) == 0 {
		errs = append(errs, "waves: no boxes defined")
	}
	for box, wave := range c.Boxes {
		if box == "" || wave == "" {
			errs = append(errs, "waves: empty box or wave name")
		}
	}

	if len(c.Settings) == 0 {
		errs = append(errs, "settings: no wave settings defined")
	}
	for wave, s := range c.Settings {
		if wave == "" {
			errs = append(errs, "settings: empty wave name")
		}
		for name, fields := range s.Variants {
			if name == "" || len(fields) == 0 {
				errs = append(errs, fmt.Sprintf("settings[%s]: empty setting variant", wave))
			}
		}
	}

	for i, m := range c.Mages {
		if m.Name == "" {
			errs = append(errs, fmt.Sprintf("mages[%d]: missing name", i))
		}
		if len(m.Variants) == 0 {
			errs = append(errs, fmt.Sprintf("mages[%d] (%s): no variants", i, m.Name))
		}
		for j, v := range m.Variants {
			if v.Box == "" && v.Wave == "" {
				errs = append(errs, fmt.Sprintf("mages[%d].variants[%d] (%s): needs box or wave_name", i, j, m.Name))
			}
		}
	}

	for i, n := range c.Nemeses {
		if n.Name == "" {
			errs = append(errs, fmt.Sprintf("nemeses[%d]: missing name", i))
		}
		if n.Tier < 1 || n.Tier > 4 {
			errs = append(errs, fmt.Sprintf("nemeses[%d] (%s): battle tier must be 1-4, got %d", i, n.Name, n.Tier))
		}
		if n.Box == "" {
			errs = append(errs, fmt.Sprintf("nemeses[%d] (%s): missing box", i, n.Name))
		}
	}

	for i, f := range c.Friends {
		if f.Name == "" || f.Box == "" {
			errs = append(errs, fmt.Sprintf("friends[%d]: missing name or box", i))
		}
	}
	for i, f := range c.Foes {
		if f.Name == "" || f.Box == "" {
			errs = append(errs, fmt.Sprintf("foes[%d]: missing name or box", i))
		}
	}

	if len(errs) > 0 {
		return &ValidationError{Problems: errs}
	}
	return nil
}
