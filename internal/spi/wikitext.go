// File: internal/spi/wikitext.go
package spi

import (
	"strconv"
	"strings"
)

// This file is a minimal wikitext scanner: just enough grammar for the case
// pages this tool reads. It understands {{template|...}} invocations
// (including nested ones), top-level "|" argument splitting that ignores
// pipes inside nested templates and [[links]], and ==heading== lines.

// template is one parsed template invocation.
type template struct {
	name string
	// args holds the positional arguments in order; "1=Foo" style numbered
	// arguments land in their numbered slot.
	args []string
}

// arg returns the n-th positional argument (1-based), or "" when absent.
func (t template) arg(n int) string {
	if n < 1 || n > len(t.args) {
		return ""
	}
	return t.args[n-1]
}

// nameMatches compares template names the way the wiki does: underscores
// equal spaces, surrounding whitespace ignored, case-insensitive.
func (t template) nameMatches(name string) bool {
	return canonicalTemplateName(t.name) == canonicalTemplateName(name)
}

func canonicalTemplateName(name string) string {
	collapsed := strings.Join(strings.FieldsFunc(name, func(r rune) bool {
		return r == '_' || r == ' ' || r == '\t' || r == '\n'
	}), " ")
	return strings.ToLower(collapsed)
}

// parseTemplates returns every template invocation in the text, nested ones
// included, in order of their opening braces.
func parseTemplates(text string) []template {
	var out []template
	for i := 0; i+1 < len(text); i++ {
		if text[i] == '{' && text[i+1] == '{' {
			if body, ok := matchTemplate(text, i); ok {
				out = append(out, parseTemplateBody(body))
			}
		}
	}
	return out
}

// matchTemplate returns the body of the template opening at start (which
// must point at "{{"), without the outer braces. Reports false when the
// template is never closed.
func matchTemplate(text string, start int) (string, bool) {
	depth := 0
	for i := start; i+1 < len(text); i++ {
		switch {
		case text[i] == '{' && text[i+1] == '{':
			depth++
			i++
		case text[i] == '}' && text[i+1] == '}':
			depth--
			i++
			if depth == 0 {
				return text[start+2 : i-1], true
			}
		}
	}
	return "", false
}

// splitTopLevel splits the template body on "|" at nesting depth zero,
// leaving pipes inside nested templates and [[links]] alone.
func splitTopLevel(body string) []string {
	var parts []string
	var braces, brackets int
	last := 0
	for i := 0; i < len(body); i++ {
		switch {
		case i+1 < len(body) && body[i] == '{' && body[i+1] == '{':
			braces++
			i++
		case i+1 < len(body) && body[i] == '}' && body[i+1] == '}':
			braces--
			i++
		case i+1 < len(body) && body[i] == '[' && body[i+1] == '[':
			brackets++
			i++
		case i+1 < len(body) && body[i] == ']' && body[i+1] == ']':
			brackets--
			i++
		case body[i] == '|' && braces == 0 && brackets == 0:
			parts = append(parts, body[last:i])
			last = i + 1
		}
	}
	return append(parts, body[last:])
}

func parseTemplateBody(body string) template {
	parts := splitTopLevel(body)
	t := template{name: strings.TrimSpace(parts[0])}

	numbered := map[int]string{}
	next := 1
	for _, part := range parts[1:] {
		if key, value, ok := splitArg(part); ok {
			if n, err := strconv.Atoi(strings.TrimSpace(key)); err == nil && n >= 1 {
				numbered[n] = strings.TrimSpace(value)
			}
			// Non-numeric named arguments are not needed here.
			continue
		}
		numbered[next] = strings.TrimSpace(part)
		next++
	}
	max := 0
	for n := range numbered {
		if n > max {
			max = n
		}
	}
	t.args = make([]string, max)
	for n, v := range numbered {
		t.args[n-1] = v
	}
	return t
}

// splitArg splits "key=value" at the first "=" outside nested markup.
func splitArg(part string) (string, string, bool) {
	var braces, brackets int
	for i := 0; i < len(part); i++ {
		switch {
		case i+1 < len(part) && part[i] == '{' && part[i+1] == '{':
			braces++
			i++
		case i+1 < len(part) && part[i] == '}' && part[i+1] == '}':
			braces--
			i++
		case i+1 < len(part) && part[i] == '[' && part[i+1] == '[':
			brackets++
			i++
		case i+1 < len(part) && part[i] == ']' && part[i+1] == ']':
			brackets--
			i++
		case part[i] == '=' && braces == 0 && brackets == 0:
			return part[:i], part[i+1:], true
		}
	}
	return "", "", false
}

// heading is one ==...== line.
type heading struct {
	level int
	title string
}

// parseHeadings returns all headings in document order.
func parseHeadings(text string) []heading {
	var out []heading
	for _, line := range strings.Split(text, "\n") {
		if h, ok := parseHeadingLine(line); ok {
			out = append(out, h)
		}
	}
	return out
}

func parseHeadingLine(line string) (heading, bool) {
	trimmed := strings.TrimRight(line, " \t")
	lead := 0
	for lead < len(trimmed) && trimmed[lead] == '=' {
		lead++
	}
	trail := 0
	for trail < len(trimmed)-lead && trimmed[len(trimmed)-1-trail] == '=' {
		trail++
	}
	level := min(lead, trail)
	if level < 1 || level > 6 || lead+trail >= len(trimmed) {
		return heading{}, false
	}
	title := strings.TrimSpace(trimmed[level : len(trimmed)-level])
	if title == "" {
		return heading{}, false
	}
	return heading{level: level, title: title}, true
}
