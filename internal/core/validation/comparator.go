package validation

// DimensionsMatch reports whether two grids have the same row count and the
// same column count in every row.
func DimensionsMatch(a, b Grid) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if len(a[i]) != len(b[i]) {
			return false
		}
	}
	return true
}

// Equal reports whether two grids match cell by cell. Grids with mismatched
// dimensions are never compared cell by cell.
func Equal(a, b Grid) bool {
	if !DimensionsMatch(a, b) {
		return false
	}
	for i := range a {
		for j := range a[i] {
			if a[i][j] != b[i][j] {
				return false
			}
		}
	}
	return true
}
