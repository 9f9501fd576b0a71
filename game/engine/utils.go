package engine

// SymbolName returns the display name of the i-th symbol ("A", "B", ...)
func SymbolName(i int) string {
	if i < 0 || i >= MaxSymbols {
		return ""
	}
	return string(rune('A' + i))
}

// CountTiles counts the number of non-empty cells in the grid
func CountTiles(grid [][]Cell) int {
	count := 0
	for _, row := range grid {
		for _, cell := range row {
			if !cell.Empty() {
				count++
			}
		}
	}
	return count
}

// CountSymbols counts the tiles of each symbol in the grid
func CountSymbols(grid [][]Cell) map[string]int {
	counts := make(map[string]int)
	for _, row := range grid {
		for _, cell := range row {
			if !cell.Empty() {
				counts[cell.Symbol]++
			}
		}
	}
	return counts
}

// RenderRows renders the grid as layout strings, '.' for empty cells
func RenderRows(grid [][]Cell) []string {
	rows := make([]string, len(grid))
	for y, row := range grid {
		line := make([]byte, len(row))
		for x, cell := range row {
			if cell.Empty() {
				line[x] = EmptyCell
			} else {
				line[x] = cell.Symbol[0]
			}
		}
		rows[y] = string(line)
	}
	return rows
}
