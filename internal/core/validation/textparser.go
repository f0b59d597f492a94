package validation

import (
	"regexp"
	"strings"
)

// Fallback extraction from unstructured prose. Strategies are tried in a
// fixed priority order and the first structurally valid grid wins:
//
//  1. keyword-anchored search followed by a balanced [[ ... ]] scan
//  2. markdown fenced code blocks anywhere in the text
//  3. a generic regex for a complete numeric 2D literal
//  4. a full left-to-right scan for the first balanced [[ ... ]] span
//
// Bracket matching is done by depth counting, not regex, so nested arrays are
// handled correctly. Parse failures are swallowed and the next strategy runs.

const (
	methodTextKeyword   = "text_keyword"
	methodTextCodeBlock = "text_code_block"
	methodTextRegex     = "text_regex"
	methodTextScan      = "text_scan"
)

// Keywords that commonly precede the model's final answer grid in prose.
var gridKeywords = []string{
	"predicted output grid:",
	"output:",
	"answer:",
	"solution:",
	"result:",
	"final grid:",
	"final output:",
}

var codeBlockRe = regexp.MustCompile("(?s)```[a-zA-Z]*\\s*(.*?)```")

var gridLiteralRe = regexp.MustCompile(`\[\s*\[\s*\d+(?:\s*,\s*\d+)*\s*\](?:\s*,\s*\[\s*\d+(?:\s*,\s*\d+)*\s*\])*\s*\]`)

// ParseGridFromText returns the first syntactically valid 2D integer array
// found in the text, together with the strategy tag that located it.
func ParseGridFromText(text string) (Grid, string, bool) {
	if grid, ok := keywordAnchoredGrid(text); ok {
		return grid, methodTextKeyword, true
	}
	if grid, ok := codeBlockGrid(text); ok {
		return grid, methodTextCodeBlock, true
	}
	if grid, ok := regexGrid(text); ok {
		return grid, methodTextRegex, true
	}
	if grid, ok := scanGrid(text); ok {
		return grid, methodTextScan, true
	}
	return nil, "", false
}

// ParseGridsFromText is the multi-prediction variant: instead of stopping at
// the first hit it accumulates every valid grid the winning strategy can
// find, up to max.
func ParseGridsFromText(text string, max int) ([]Grid, string, bool) {
	if max <= 0 {
		return nil, "", false
	}
	if grids := allCodeBlockGrids(text, max); len(grids) > 0 {
		return grids, methodTextCodeBlock, true
	}
	if grids := allRegexGrids(text, max); len(grids) > 0 {
		return grids, methodTextRegex, true
	}
	if grids := allScanGrids(text, max); len(grids) > 0 {
		return grids, methodTextScan, true
	}
	return nil, "", false
}

func keywordAnchoredGrid(text string) (Grid, bool) {
	lower := strings.ToLower(text)
	for _, kw := range gridKeywords {
		idx := strings.Index(lower, kw)
		if idx < 0 {
			continue
		}
		window := text[idx+len(kw):]

		// Prefer an adjoining fenced code block when one follows the keyword.
		trimmed := strings.TrimLeft(window, " \t\r\n")
		if strings.HasPrefix(trimmed, "```") {
			if m := codeBlockRe.FindStringSubmatch(trimmed); m != nil {
				window = m[1]
			}
		}

		span, _, ok := balancedSpan(window, 0)
		if !ok {
			continue
		}
		if grid, ok := parseGridSpan(span); ok {
			return grid, true
		}
	}
	return nil, false
}

func codeBlockGrid(text string) (Grid, bool) {
	for _, m := range codeBlockRe.FindAllStringSubmatch(text, -1) {
		span, _, ok := balancedSpan(m[1], 0)
		if !ok {
			continue
		}
		if grid, ok := parseGridSpan(span); ok {
			return grid, true
		}
	}
	return nil, false
}

func regexGrid(text string) (Grid, bool) {
	if span := gridLiteralRe.FindString(text); span != "" {
		return parseGridSpan(span)
	}
	return nil, false
}

// scanGrid takes only the first balanced span and requires a clean numeric
// charset before attempting to parse.
func scanGrid(text string) (Grid, bool) {
	span, _, ok := balancedSpan(text, 0)
	if !ok || !numericCharset(span) {
		return nil, false
	}
	return parseGridSpan(span)
}

func allCodeBlockGrids(text string, max int) []Grid {
	var grids []Grid
	for _, m := range codeBlockRe.FindAllStringSubmatch(text, -1) {
		grids = appendScannedGrids(grids, m[1], max, false)
		if len(grids) >= max {
			break
		}
	}
	return grids
}

func allRegexGrids(text string, max int) []Grid {
	var grids []Grid
	for _, span := range gridLiteralRe.FindAllString(text, -1) {
		if grid, ok := parseGridSpan(span); ok {
			grids = append(grids, grid)
			if len(grids) >= max {
				break
			}
		}
	}
	return grids
}

func allScanGrids(text string, max int) []Grid {
	return appendScannedGrids(nil, text, max, true)
}

func appendScannedGrids(grids []Grid, text string, max int, checkCharset bool) []Grid {
	from := 0
	for len(grids) < max {
		span, next, ok := balancedSpan(text, from)
		if !ok {
			break
		}
		from = next
		if checkCharset && !numericCharset(span) {
			continue
		}
		if grid, ok := parseGridSpan(span); ok {
			grids = append(grids, grid)
		}
	}
	return grids
}

// balancedSpan finds, at or after offset from, the first '[' immediately
// followed (ignoring whitespace) by another '[', and returns the span up to
// its matching close bracket. next is the offset just past the span, for
// repeated scanning.
func balancedSpan(s string, from int) (span string, next int, ok bool) {
	start := -1
	for i := from; i < len(s); i++ {
		if s[i] != '[' {
			continue
		}
		j := i + 1
		for j < len(s) && isSpace(s[j]) {
			j++
		}
		if j < len(s) && s[j] == '[' {
			start = i
			break
		}
	}
	if start < 0 {
		return "", 0, false
	}

	depth := 0
	for i := start; i < len(s); i++ {
		switch s[i] {
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				return s[start : i+1], i + 1, true
			}
		}
	}
	return "", 0, false
}

func numericCharset(span string) bool {
	for i := 0; i < len(span); i++ {
		c := span[i]
		switch {
		case c >= '0' && c <= '9':
		case c == ',' || c == '[' || c == ']':
		case isSpace(c):
		default:
			return false
		}
	}
	return true
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n'
}

// parseGridSpan normalizes a candidate span (whitespace collapsed, trailing
// and doubled commas removed) and parses it. A candidate is rejected unless
// every row is an array and every cell is an integer.
func parseGridSpan(span string) (Grid, bool) {
	s := normalizeSpan(span)
	v, err := decodeJSONValue(s)
	if err != nil {
		return nil, false
	}
	return gridFromValue(v, false)
}

func normalizeSpan(span string) string {
	var b strings.Builder
	b.Grow(len(span))
	for i := 0; i < len(span); i++ {
		if !isSpace(span[i]) {
			b.WriteByte(span[i])
		}
	}
	s := b.String()
	for strings.Contains(s, ",,") {
		s = strings.ReplaceAll(s, ",,", ",")
	}
	s = strings.ReplaceAll(s, ",]", "]")
	return s
}
