package prompts

import "regexp"

// Placeholder is one {{VAR:name}} occurrence in a template body
type Placeholder struct {
	Name  string
	Start int
	End   int
}

var varPattern = regexp.MustCompile(`\{\{VAR:([a-zA-Z0-9_\-]+)}}`)

// ParsePlaceholders returns the placeholders of body in order of appearance
func ParsePlaceholders(body string) []Placeholder {
	matches := varPattern.FindAllStringSubmatchIndex(body, -1)
	out := make([]Placeholder, 0, len(matches))
	for _, idx := range matches {
		out = append(out, Placeholder{
			Name:  body[idx[2]:idx[3]],
			Start: idx[0],
			End:   idx[1],
		})
	}
	return out
}
