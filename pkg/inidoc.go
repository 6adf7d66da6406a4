// Package pkg is a package that provides utilities for cabpack.
package pkg

import (
	"bytes"
	"strings"
)

// iniLineKind classifies a raw line of an INI document.
type iniLineKind int

const (
	iniBlank iniLineKind = iota
	iniComment
	iniSection
	iniKeyValue
	iniOther
)

// iniLine keeps the raw text of one line so untouched lines survive a
// parse/serialize round trip byte for byte.
type iniLine struct {
	kind iniLineKind
	raw  string // line content without its terminator
	eol  string // "\n", "\r\n" or "" for a last line without terminator
	key  string // key for iniKeyValue lines, section name for iniSection
	// valStart is the byte offset of the value inside raw. Everything before
	// it (indent, key, separator and the whitespace around the separator) is
	// preserved verbatim when the value is rewritten.
	valStart int
}

// INIDocument is a line-preserving view of an INI file. Only lines touched
// through Set are modified; every other byte is kept as parsed, including
// comments, blank lines, ordering and CRLF terminators.
type INIDocument struct {
	lines []iniLine
}

// ParseINI splits data into classified lines. It never fails: content that
// is not valid INI simply becomes unclassified lines that are preserved
// verbatim.
func ParseINI(data []byte) *INIDocument {
	doc := &INIDocument{}

	for i := 0; i < len(data); {
		j := bytes.IndexByte(data[i:], '\n')

		var raw, eol string

		if j < 0 {
			raw = string(data[i:])
			i = len(data)
		} else {
			if j >= 1 && data[i+j-1] == '\r' {
				raw = string(data[i : i+j-1])
				eol = "\r\n"
			} else {
				raw = string(data[i : i+j])
				eol = "\n"
			}

			i += j + 1
		}

		doc.lines = append(doc.lines, classifyLine(raw, eol))
	}

	return doc
}

func classifyLine(raw, eol string) iniLine {
	line := iniLine{raw: raw, eol: eol}

	trimmed := strings.TrimSpace(raw)

	switch {
	case trimmed == "":
		line.kind = iniBlank

	case strings.HasPrefix(trimmed, ";") || strings.HasPrefix(trimmed, "#"):
		line.kind = iniComment

	case strings.HasPrefix(trimmed, "[") && strings.HasSuffix(trimmed, "]"):
		line.kind = iniSection
		line.key = strings.TrimSpace(trimmed[1 : len(trimmed)-1])

	default:
		sep := strings.IndexAny(raw, "=:")
		if sep <= 0 {
			line.kind = iniOther
			return line
		}

		key := strings.TrimSpace(raw[:sep])
		if key == "" {
			line.kind = iniOther
			return line
		}

		valStart := sep + 1
		for valStart < len(raw) && (raw[valStart] == ' ' || raw[valStart] == '\t') {
			valStart++
		}

		line.kind = iniKeyValue
		line.key = key
		line.valStart = valStart
	}

	return line
}

// Set rewrites the value of every key/value line whose key equals key
// (case-sensitive; leading whitespace before the key is tolerated). Any
// previous value, including an inline comment, is replaced. It reports
// whether at least one line matched.
func (d *INIDocument) Set(key, value string) bool {
	matched := false

	for i := range d.lines {
		line := &d.lines[i]
		if line.kind != iniKeyValue || line.key != key {
			continue
		}

		line.raw = line.raw[:line.valStart] + value
		matched = true
	}

	return matched
}

// Get returns the value of the first key/value line whose key equals key.
// Trailing whitespace is trimmed; inline comments are considered part of
// the value.
func (d *INIDocument) Get(key string) (string, bool) {
	for _, line := range d.lines {
		if line.kind == iniKeyValue && line.key == key {
			return strings.TrimRight(line.raw[line.valStart:], " \t"), true
		}
	}

	return "", false
}

// Has reports whether the document contains a key/value line for key.
func (d *INIDocument) Has(key string) bool {
	_, ok := d.Get(key)
	return ok
}

// Bytes re-serializes the document. For an unmodified document the result is
// byte-identical to the parsed input.
func (d *INIDocument) Bytes() []byte {
	var buf bytes.Buffer

	for _, line := range d.lines {
		buf.WriteString(line.raw)
		buf.WriteString(line.eol)
	}

	return buf.Bytes()
}
