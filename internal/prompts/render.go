package prompts

import (
	"fmt"
	"strings"
)

// Template pairs the system instruction with a user prompt body
type Template struct {
	System string
	User   string
}

// RenderUser renders the user prompt with diff substituted for {{VAR:diff}}
func (t Template) RenderUser(diff string) (string, error) {
	return Render(t.User, map[string]string{"diff": diff})
}

// Render substitutes every {{VAR:name}} placeholder in body in a single pass.
// Substituted values are never rescanned, so a value containing placeholder
// syntax is emitted as-is. A placeholder without a value is an error.
func Render(body string, vars map[string]string) (string, error) {
	phs := ParsePlaceholders(body)
	if len(phs) == 0 {
		return body, nil
	}

	var b strings.Builder
	b.Grow(len(body))
	last := 0
	for _, ph := range phs {
		val, ok := vars[ph.Name]
		if !ok {
			return "", fmt.Errorf("prompt variable %q has no value", ph.Name)
		}
		b.WriteString(body[last:ph.Start])
		b.WriteString(val)
		last = ph.End
	}
	b.WriteString(body[last:])

	return b.String(), nil
}
