package main

import (
	"strings"
)

// prompt prints label and reads one trimmed line. It returns "" on EOF.
func (a *app) prompt(label string) string {
	a.printf("%s: ", label)
	if !a.in.Scan() {
		return ""
	}
	return strings.TrimSpace(a.in.Text())
}

// promptDefault is prompt with a value used when the answer is empty.
func (a *app) promptDefault(label, def string) string {
	if def == "" {
		return a.prompt(label)
	}
	if v := a.prompt(label + " [" + def + "]"); v != "" {
		return v
	}
	return def
}

// splitArgs splits a shell line into words. Double or single quotes group
// words containing spaces.
func splitArgs(line string) []string {
	var (
		args  []string
		cur   strings.Builder
		quote rune
		inArg bool
	)
	for _, r := range line {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
				continue
			}
			cur.WriteRune(r)
		case r == '"' || r == '\'':
			quote = r
			inArg = true
		case r == ' ' || r == '\t':
			if inArg {
				args = append(args, cur.String())
				cur.Reset()
				inArg = false
			}
		default:
			cur.WriteRune(r)
			inArg = true
		}
	}
	if inArg {
		args = append(args, cur.String())
	}
	return args
}
