package validation

import (
	"encoding/json"
	"math"
)

// Grid is a rectangular ARC color grid: rows of integer cells in [0,9].
// Grids are never mutated after construction.
type Grid [][]int

const maxCellValue = 9

// GridFromValue converts a decoded-JSON value into a Grid. Every row must be
// an array and every cell an integer in [0,9]; anything else is rejected.
// JSON numbers arrive as float64, so integral floats are accepted.
func GridFromValue(v any) (Grid, bool) {
	return gridFromValue(v, true)
}

func gridFromValue(v any, checkRange bool) (Grid, bool) {
	rows, ok := v.([]any)
	if !ok || len(rows) == 0 {
		return nil, false
	}

	grid := make(Grid, len(rows))
	for i, r := range rows {
		cells, ok := r.([]any)
		if !ok || len(cells) == 0 {
			return nil, false
		}
		row := make([]int, len(cells))
		for j, c := range cells {
			n, ok := cellValue(c)
			if !ok {
				return nil, false
			}
			if checkRange && (n < 0 || n > maxCellValue) {
				return nil, false
			}
			row[j] = n
		}
		grid[i] = row
	}
	return grid, true
}

func cellValue(c any) (int, bool) {
	switch n := c.(type) {
	case int:
		return n, true
	case float64:
		if n != math.Trunc(n) {
			return 0, false
		}
		return int(n), true
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, false
		}
		return int(i), true
	default:
		return 0, false
	}
}
