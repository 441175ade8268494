package chunker

import (
	"regexp"
	"strings"
)

// BlockKind identifies the structural type of a parsed block.
type BlockKind string

// Block kinds detected by ParseBlocks.
const (
	BlockHeading  BlockKind = "heading"
	BlockTable    BlockKind = "table"
	BlockKeyValue BlockKind = "kv"
	BlockText     BlockKind = "text"
)

// Block is one structural unit of markdown-like text.
type Block struct {
	Kind BlockKind
	Text string
}

var (
	headingRE = regexp.MustCompile(`^(#{1,6})\s+(.+)$`)
	kvRE      = regexp.MustCompile(`^\s*([A-Za-z][A-Za-z0-9 /\-_.()]{1,40})\s*[:\-]\s*(.+?)\s*$`)
	sepRowRE  = regexp.MustCompile(`^\s*\|?\s*:?[-]{2,}\s*\|`)
	sepRunRE  = regexp.MustCompile(`^\s*[-:| ]{6,}\s*$`)

	multilineHeadingRE = regexp.MustCompile(`(?m)^#{1,6}\s+\S`)
)

// isTableLine reports whether a line looks like a markdown table row.
func isTableLine(line string) bool {
	s := strings.TrimSpace(line)
	if s == "" {
		return false
	}
	return strings.Count(s, "|") >= 2
}

// isTableSep reports whether a line is a table separator row,
// e.g. "| --- | --- |" or "---|---".
func isTableSep(line string) bool {
	s := strings.TrimSpace(line)
	return sepRowRE.MatchString(s) || sepRunRE.MatchString(s)
}

// looksStructured reports whether text should go through the block
// parser rather than plain paragraph splitting. Markdown-like
// structure means heading markers or table pipes alongside newlines.
func looksStructured(text string) bool {
	if !strings.Contains(text, "\n") {
		return false
	}
	if multilineHeadingRE.MatchString(text) {
		return true
	}
	for _, line := range strings.Split(text, "\n") {
		if isTableLine(line) {
			return true
		}
	}
	return false
}

// ParseBlocks is a best-effort markdown block parser for
// structure-aware chunking.
//
// It detects:
//   - headings: lines starting with 1-6 # characters
//   - tables: two or more consecutive lines with pipes where one of
//     the first two lines is a separator row
//   - key-value runs: consecutive "Label: Value" lines
//   - text: everything else, grouped until a blank line or the start
//     of a new structural pattern
func ParseBlocks(md string) []Block {
	md = normalizeNewlines(md)
	lines := strings.Split(md, "\n")
	n := len(lines)

	var blocks []Block
	i := 0

	consumeBlank := func(j int) int {
		for j < n && strings.TrimSpace(lines[j]) == "" {
			j++
		}
		return j
	}

	startsTable := func(j int) bool {
		return isTableLine(lines[j]) && j+1 < n &&
			(isTableLine(lines[j+1]) || isTableSep(lines[j+1]))
	}

	for i < n {
		i = consumeBlank(i)
		if i >= n {
			break
		}

		line := lines[i]

		if headingRE.MatchString(strings.TrimSpace(line)) {
			blocks = append(blocks, Block{Kind: BlockHeading, Text: strings.TrimSpace(line)})
			i++
			continue
		}

		if startsTable(i) {
			start := i
			i++
			for i < n && (isTableLine(lines[i]) || isTableSep(lines[i])) {
				i++
			}
			text := strings.TrimSpace(strings.Join(lines[start:i], "\n"))
			blocks = append(blocks, Block{Kind: BlockTable, Text: text})
			continue
		}

		if kvRE.MatchString(line) {
			start := i
			i++
			for i < n && kvRE.MatchString(lines[i]) {
				i++
			}
			text := strings.TrimSpace(strings.Join(lines[start:i], "\n"))
			blocks = append(blocks, Block{Kind: BlockKeyValue, Text: text})
			continue
		}

		// Paragraph text until blank line or a new structural pattern.
		start := i
		i++
		for i < n && strings.TrimSpace(lines[i]) != "" {
			if headingRE.MatchString(strings.TrimSpace(lines[i])) {
				break
			}
			if kvRE.MatchString(lines[i]) {
				break
			}
			if startsTable(i) {
				break
			}
			i++
		}
		para := strings.TrimSpace(strings.Join(lines[start:i], "\n"))
		if para != "" {
			blocks = append(blocks, Block{Kind: BlockText, Text: para})
		}
	}

	return blocks
}

// normalizeNewlines converts CRLF and lone CR line endings to LF.
func normalizeNewlines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}
