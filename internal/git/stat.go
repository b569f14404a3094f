package git

import (
	"regexp"
	"strings"
)

// DiffStat summarizes a unified diff
type DiffStat struct {
	Files   []string
	Added   int
	Removed int
}

var fileHeaderPattern = regexp.MustCompile(`^diff --git a/(.*) b/(.*)$`)

// Summarize counts touched files and changed lines in a unified diff
func Summarize(diffText string) DiffStat {
	var stat DiffStat
	if diffText == "" {
		return stat
	}

	for _, line := range strings.Split(diffText, "\n") {
		switch {
		case strings.HasPrefix(line, "diff --git "):
			if m := fileHeaderPattern.FindStringSubmatch(line); len(m) == 3 {
				stat.Files = append(stat.Files, m[2])
			}
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
			// file headers
		case strings.HasPrefix(line, "+"):
			stat.Added++
		case strings.HasPrefix(line, "-"):
			stat.Removed++
		}
	}

	return stat
}
