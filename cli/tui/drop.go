package tui

import (
	"net/url"
	"strings"

	"github.com/kballard/go-shellquote"
)

// ParseDrop extracts file paths from the text a terminal pastes when files
// are dragged onto it.
//
// Terminals differ: most paste shell-quoted paths separated by spaces,
// some paste one file:// URI per line. Each line is split with shell
// quoting rules; a line that does not parse (an unbalanced quote) is taken
// as a single path. file:// URIs are decoded to local paths.
func ParseDrop(text string) []string {
	var paths []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(strings.TrimSuffix(line, "\r"))
		if line == "" {
			continue
		}

		words, err := shellquote.Split(line)
		if err != nil {
			words = []string{line}
		}
		for _, w := range words {
			if p := fromFileURI(w); p != "" {
				paths = append(paths, p)
			}
		}
	}
	return paths
}

func fromFileURI(s string) string {
	if !strings.HasPrefix(s, "file://") {
		return s
	}
	u, err := url.Parse(s)
	if err != nil || u.Path == "" {
		return s
	}
	return u.Path
}
