package extract

import (
	"regexp"
	"strings"
)

// headingPattern matches ATX headings: up to three spaces, one to six '#',
// then a space or end of line.
var headingPattern = regexp.MustCompile(`^ {0,3}(#{1,6})(?:[ \t]+(.*?))?[ \t]*$`)

// closingHashes matches an optional closing sequence such as "## Title ##".
var closingHashes = regexp.MustCompile(`(?:^|[ \t]+)#+$`)

// parseHeading returns the level and title of an ATX heading line.
func parseHeading(line string) (int, string, bool) {
	m := headingPattern.FindStringSubmatch(line)
	if m == nil {
		return 0, "", false
	}
	title := closingHashes.ReplaceAllString(m[2], "")
	return len(m[1]), strings.TrimSpace(title), true
}

// leadingSpaces counts leading spaces, stopping at the first other byte.
func leadingSpaces(line string) int {
	n := 0
	for n < len(line) && line[n] == ' ' {
		n++
	}
	return n
}

// openingFence recognises a line that opens a fenced code block: up to three
// spaces of indentation, then three or more backticks or tildes and an
// optional info string. Backtick fences may not carry backticks in the info
// string.
func openingFence(line string) (*fence, bool) {
	indent := leadingSpaces(line)
	if indent > 3 || indent >= len(line) {
		return nil, false
	}
	ch := line[indent]
	if ch != '`' && ch != '~' {
		return nil, false
	}
	run := 0
	for indent+run < len(line) && line[indent+run] == ch {
		run++
	}
	if run < 3 {
		return nil, false
	}
	info := strings.TrimSpace(line[indent+run:])
	if ch == '`' && strings.ContainsRune(info, '`') {
		return nil, false
	}

	f := &fence{
		char:   ch,
		length: run,
		indent: indent,
		marker: line[indent : indent+run],
	}
	if fields := strings.Fields(info); len(fields) > 0 {
		f.lang = strings.Trim(fields[0], "{}.")
	}
	return f, true
}

// isClosingFence reports whether line closes f: same fence character, a run
// at least as long as the opener, and nothing but whitespace after it.
func isClosingFence(line string, f *fence) bool {
	indent := leadingSpaces(line)
	if indent > 3 {
		return false
	}
	rest := line[indent:]
	run := 0
	for run < len(rest) && rest[run] == f.char {
		run++
	}
	if run < f.length {
		return false
	}
	return strings.TrimSpace(rest[run:]) == ""
}

// indentedContent returns the line without its code indentation when the
// line is indented by four spaces or a tab.
func indentedContent(line string) (string, bool) {
	switch {
	case strings.HasPrefix(line, "\t"):
		return line[1:], true
	case strings.HasPrefix(line, "    "):
		return line[4:], true
	}
	return "", false
}

// stripIndent removes up to n leading spaces, matching the indentation of
// the opening fence.
func stripIndent(line string, n int) string {
	i := 0
	for i < n && i < len(line) && line[i] == ' ' {
		i++
	}
	return line[i:]
}
