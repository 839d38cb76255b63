package ripedb

import (
	"bufio"
	"strings"
	"unicode/utf8"
)

// ParseError means the raw payload could not be handled as text at
// all. Malformed individual lines are never fatal; they are skipped.
type ParseError struct {
	Reason string
}

func (e *ParseError) Error() string {
	return "parse response: " + e.Reason
}

// Parse splits a block-formatted registry response into records.
// Blocks are separated by one or more blank lines. Within a block
// every "key: value" line contributes a field; the key is the part
// before the first colon, lowercased, the value is the trimmed
// remainder. Lines starting with "%" or "#" are registry remarks and
// are skipped, as is anything without a usable key. A block with no
// usable lines yields no record.
func Parse(raw string) (RecordSet, error) {
	if !utf8.ValidString(raw) {
		return nil, &ParseError{Reason: "response is not valid UTF-8 text"}
	}

	var set RecordSet
	rec := NewRecord()
	flush := func() {
		if rec.Len() > 0 {
			set = append(set, rec)
			rec = NewRecord()
		}
	}

	scanner := bufio.NewScanner(strings.NewReader(raw))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			flush()
			continue
		}
		if strings.HasPrefix(line, "%") || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		key = strings.ToLower(strings.TrimSpace(key))
		if key == "" {
			continue
		}
		rec.Add(key, strings.TrimSpace(value))
	}
	if err := scanner.Err(); err != nil {
		return nil, &ParseError{Reason: err.Error()}
	}
	flush()

	return set, nil
}
