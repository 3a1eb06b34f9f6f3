// Package table reads and writes header-bearing CSV tables row by row.
//
// A table lives either on the local disk or in object storage
// (s3://bucket/key, see core/storage). Rows are ordered column→value
// mappings so that callers can add columns to a row without losing the
// original column order.
//
// # Usage
//
//	in, err := table.Open(ctx, "links.csv", nil)
//	defer in.Close()
//
//	out, err := table.Create(ctx, "checked.csv", table.AppendMissing(in.Columns(), "Notes"), nil)
//	defer out.Close()
//
//	for {
//	    row, err := in.Next()
//	    if errors.Is(err, io.EOF) {
//	        break
//	    }
//	    _ = out.Write(row)
//	}
package table
