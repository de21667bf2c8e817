package sheets

// The sheet has no enforced schema beyond its header row. Everything here
// derives column positions from the live header so that reordering columns
// in the spreadsheet never breaks reads or writes.

// HeaderMap maps column names to their 0-based index in the header row.
type HeaderMap map[string]int

func BuildHeaderMap(header []string) HeaderMap {
	m := make(HeaderMap, len(header))
	for i, name := range header {
		if name != "" {
			m[name] = i
		}
	}
	return m
}

// Span is the minimal contiguous 0-based column range covering a set of
// columns. Fetching a span instead of whole rows keeps reads small.
type Span struct {
	Start int
	End   int
}

// SpanFor computes the span covering the named columns. Any name absent from
// the header is a SchemaError.
func (m HeaderMap) SpanFor(columns ...string) (Span, error) {
	if len(columns) == 0 {
		return Span{}, &SchemaError{Msg: "no columns requested"}
	}
	span := Span{Start: -1, End: -1}
	for _, name := range columns {
		idx, ok := m[name]
		if !ok {
			return Span{}, &SchemaError{Column: name}
		}
		if span.Start == -1 || idx < span.Start {
			span.Start = idx
		}
		if idx > span.End {
			span.End = idx
		}
	}
	return span, nil
}

// Index returns the column index for a name, or a SchemaError.
func (m HeaderMap) Index(name string) (int, error) {
	idx, ok := m[name]
	if !ok {
		return 0, &SchemaError{Column: name}
	}
	return idx, nil
}

// Slice returns the header names covered by a span, in column order.
func Slice(header []string, span Span) []string {
	start, end := span.Start, span.End
	if start < 0 {
		start = 0
	}
	if end >= len(header) {
		end = len(header) - 1
	}
	if start > end {
		return nil
	}
	return header[start : end+1]
}

// ColumnLetter converts a 0-based column index to its A1 letter (0 → A,
// 25 → Z, 26 → AA).
func ColumnLetter(index int) string {
	n := index + 1
	letter := ""
	for n > 0 {
		rem := (n - 1) % 26
		letter = string(rune('A'+rem)) + letter
		n = (n - 1) / 26
	}
	return letter
}

// Cell is one single-cell write. Row is the 1-based sheet row, Col the
// 0-based column index. There is no partial-row atomic write on the store;
// a multi-field update is one Cell per changed field.
type Cell struct {
	Row   int
	Col   int
	Value string
}
