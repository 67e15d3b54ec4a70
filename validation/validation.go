// Package validation collects field-level violations for request input.
// Each field maps to an ordered list of human-readable messages.
package validation

type Violations map[string][]string

func (v Violations) Empty() bool { return len(v) == 0 }

// Add appends msg to the messages of field.
func (v Violations) Add(field, msg string) {
	v[field] = append(v[field], msg)
}

func (v Violations) Has(field string) bool { return len(v[field]) > 0 }

// First returns the first message recorded for field, if any.
func (v Violations) First(field string) string {
	if msgs := v[field]; len(msgs) > 0 {
		return msgs[0]
	}
	return ""
}
