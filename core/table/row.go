package table

// Row is an ordered mapping from column name to cell value.
// Columns keep the order in which they were first seen; setting an unknown
// column appends it.
type Row struct {
	columns []string
	values  map[string]string
}

// NewRow builds a row from a positional record laid out by columns.
// Cells missing from a short record are empty; surplus cells are dropped.
func NewRow(columns []string, record []string) Row {
	r := Row{
		columns: make([]string, 0, len(columns)),
		values:  make(map[string]string, len(columns)),
	}
	for i, col := range columns {
		v := ""
		if i < len(record) {
			v = record[i]
		}
		r.Set(col, v)
	}
	return r
}

// Get returns the value of col, or "" when the column is absent.
func (r Row) Get(col string) string {
	return r.values[col]
}

// Lookup returns the value of col and whether the column is present.
func (r Row) Lookup(col string) (string, bool) {
	v, ok := r.values[col]
	return v, ok
}

// Set assigns v to col, appending the column if the row does not have it yet.
func (r *Row) Set(col, v string) {
	if r.values == nil {
		r.values = make(map[string]string)
	}
	if _, ok := r.values[col]; !ok {
		r.columns = append(r.columns, col)
	}
	r.values[col] = v
}

// Columns returns the row's columns in order.
func (r Row) Columns() []string {
	out := make([]string, len(r.columns))
	copy(out, r.columns)
	return out
}

// Record lays the row out positionally along columns. Columns the row does
// not have are written as empty cells.
func (r Row) Record(columns []string) []string {
	rec := make([]string, len(columns))
	for i, col := range columns {
		rec[i] = r.values[col]
	}
	return rec
}

// Clone returns a deep copy of the row.
func (r Row) Clone() Row {
	c := Row{
		columns: r.Columns(),
		values:  make(map[string]string, len(r.values)),
	}
	for k, v := range r.values {
		c.values[k] = v
	}
	return c
}

// AppendMissing returns columns followed by every name in extra that columns
// does not already contain. The input slice is not modified.
func AppendMissing(columns []string, extra ...string) []string {
	out := make([]string, len(columns), len(columns)+len(extra))
	copy(out, columns)
	seen := make(map[string]struct{}, len(columns))
	for _, c := range columns {
		seen[c] = struct{}{}
	}
	for _, c := range extra {
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out
}
