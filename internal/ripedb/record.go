package ripedb

import "strings"

// Record is one registry object: an ordered mapping from field name to
// the values seen for that name. RPSL objects may repeat a key
// (multiple "descr:" lines), so every field carries a list of values
// in order of appearance.
type Record struct {
	keys   []string
	values map[string][]string
}

// RecordSet is an ordered sequence of Records, in order of appearance
// in the raw response.
type RecordSet []*Record

func NewRecord() *Record {
	return &Record{values: make(map[string][]string)}
}

// Add appends a value under key, registering the key on first sight.
func (r *Record) Add(key, value string) {
	if _, ok := r.values[key]; !ok {
		r.keys = append(r.keys, key)
	}
	r.values[key] = append(r.values[key], value)
}

// Keys returns the field names in first-appearance order.
func (r *Record) Keys() []string {
	return r.keys
}

// Values returns all values recorded for key, or nil if absent.
func (r *Record) Values(key string) []string {
	return r.values[key]
}

// Len is the number of distinct field names in the record.
func (r *Record) Len() int {
	return len(r.keys)
}

// ProjectedRecord is a record reduced and reordered to the requested
// fields. Fields and Values run in parallel; a requested field absent
// from the source record has an empty value list. Values stay as
// lists here; each output format decides how to collapse them.
type ProjectedRecord struct {
	Fields []string
	Values [][]string
}

// Cells collapses every field's values into a single string, joining
// multi-value fields with join.
func (p ProjectedRecord) Cells(join string) []string {
	cells := make([]string, len(p.Values))
	for i, vals := range p.Values {
		cells[i] = strings.Join(vals, join)
	}
	return cells
}

// Empty reports whether every projected value is empty.
func (p ProjectedRecord) Empty() bool {
	for _, vals := range p.Values {
		for _, v := range vals {
			if v != "" {
				return false
			}
		}
	}
	return true
}

// Project reduces a record to the requested fields, in the requested
// order. An empty field list is a passthrough: every field of the
// source record is kept in its original key order. The result owns
// its value slices; the source record is never mutated.
func Project(r *Record, fields []string) ProjectedRecord {
	if len(fields) == 0 {
		fields = r.Keys()
	}
	p := ProjectedRecord{
		Fields: make([]string, len(fields)),
		Values: make([][]string, len(fields)),
	}
	copy(p.Fields, fields)
	for i, f := range fields {
		if vals := r.Values(f); len(vals) > 0 {
			p.Values[i] = append([]string(nil), vals...)
		}
	}
	return p
}

// Dedup drops records that are identical to an earlier one, keeping
// the first occurrence and the relative order of survivors. Records
// from one pipeline run share the same field order, so equality is
// the order-sensitive comparison of all field names and values.
func Dedup(records []ProjectedRecord) []ProjectedRecord {
	seen := make(map[string]bool, len(records))
	var out []ProjectedRecord
	for _, rec := range records {
		k := dedupKey(rec)
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, rec)
	}
	return out
}

func dedupKey(p ProjectedRecord) string {
	var b strings.Builder
	for i, f := range p.Fields {
		if i > 0 {
			b.WriteByte(0x1e)
		}
		b.WriteString(f)
		b.WriteByte(0x1f)
		b.WriteString(strings.Join(p.Values[i], "\x1f"))
	}
	return b.String()
}
