package reconcile

import "link-verifier/core/table"

// Reconcile compares the row's stored title and fingerprint with the current
// ones. A missing column counts as an empty stored value.
//
// On mismatch the row is rewritten with the current values unless checkOnly
// is set; checkOnly never touches the row.
func Reconcile(row *table.Row, currentTitle, currentFingerprint string, checkOnly bool) (updated, mismatchFound bool) {
	storedTitle := row.Get(ColumnTitle)
	storedFingerprint := row.Get(ColumnFingerprint)

	if storedTitle == currentTitle && storedFingerprint == currentFingerprint {
		return false, false
	}
	if checkOnly {
		return false, true
	}

	row.Set(ColumnTitle, currentTitle)
	row.Set(ColumnFingerprint, currentFingerprint)
	return true, true
}

// OutputColumns returns the output column order: the input columns followed
// by any verification column the input lacks.
func OutputColumns(input []string) []string {
	return table.AppendMissing(input, ColumnTitle, ColumnFingerprint)
}
