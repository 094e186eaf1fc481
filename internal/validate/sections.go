package validate

import (
	"regexp"
	"strings"
)

// RequiredHeadings are the three top-level headings every generated
// document must contain, verbatim.
var RequiredHeadings = []string{
	"## Overview",
	"## Materials & tolerances",
	"## Vibration reliability practices",
}

// headingPattern matches exactly ## headings; ### and deeper stay in content.
var headingPattern = regexp.MustCompile(`^##\s+(.+)$`)

// fencePattern matches the start or end of a fenced code block.
var fencePattern = regexp.MustCompile("^```")

type section struct {
	heading string // verbatim heading line, trailing whitespace trimmed
	content string
}

// parseSections splits markdown into ##-delimited sections. Heading lines
// inside fenced code blocks are treated as content.
func parseSections(text string) []section {
	var sections []section
	var current *section
	inFence := false

	for _, line := range strings.Split(text, "\n") {
		if fencePattern.MatchString(line) {
			inFence = !inFence
		}
		if !inFence && headingPattern.MatchString(line) {
			if current != nil {
				sections = append(sections, *current)
			}
			current = &section{heading: strings.TrimRight(line, " \t")}
			continue
		}
		if current != nil {
			current.content += line + "\n"
		}
	}
	if current != nil {
		sections = append(sections, *current)
	}
	return sections
}

// CheckSections verifies that each required heading appears exactly once
// with non-empty content. Missing, empty, and duplicated headings are all
// reported as missing-section findings.
func CheckSections(text string) []Item {
	sections := parseSections(text)

	counts := make(map[string]int)
	content := make(map[string]string)
	for _, s := range sections {
		counts[s.heading]++
		if _, seen := content[s.heading]; !seen {
			content[s.heading] = s.content
		}
	}

	var items []Item
	for _, h := range RequiredHeadings {
		switch {
		case counts[h] == 0:
			items = append(items, Item{Kind: KindMissingSection, Value: h})
		case counts[h] > 1:
			items = append(items, Item{Kind: KindMissingSection, Value: h + " (duplicated)"})
		case strings.TrimSpace(content[h]) == "":
			items = append(items, Item{Kind: KindMissingSection, Value: h})
		}
	}
	return items
}

// sectionContent returns the content under a required heading, or the
// empty string when the heading is absent.
func sectionContent(text, heading string) string {
	for _, s := range parseSections(text) {
		if s.heading == heading {
			return s.content
		}
	}
	return ""
}
