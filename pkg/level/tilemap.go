// Package level turns a text tilemap into the static geometry of a gallery:
// wall pieces, props, targets and the player start, each with world
// transforms and bounding boxes computed once at load time.
package level

import (
	"bufio"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// ErrEmptyTilemap is returned when a tilemap has no rows after comments and
// surrounding blank lines are removed.
var ErrEmptyTilemap = errors.New("tilemap is empty")

//go:embed levels/default.txt
var defaultLevel string

// Tilemap is a rectangular grid of tile symbols. Cells[row][col] is the
// symbol of one tile; every row has exactly Cols cells.
type Tilemap struct {
	Rows  int
	Cols  int
	Cells [][]byte
}

// Parse reads a tilemap, one row per line. Lines starting with ';' are
// comments. Blank lines before the first and after the last row are dropped,
// and short rows are padded with floor so the grid is rectangular.
func Parse(r io.Reader) (*Tilemap, error) {
	var rows [][]byte

	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		if strings.HasPrefix(line, ";") {
			continue
		}
		rows = append(rows, []byte(line))
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read tilemap: %w", err)
	}

	for len(rows) > 0 && isBlank(rows[0]) {
		rows = rows[1:]
	}
	for len(rows) > 0 && isBlank(rows[len(rows)-1]) {
		rows = rows[:len(rows)-1]
	}
	if len(rows) == 0 {
		return nil, ErrEmptyTilemap
	}

	cols := 0
	for _, row := range rows {
		cols = max(cols, len(row))
	}
	for i, row := range rows {
		for len(row) < cols {
			row = append(row, TileFloor)
		}
		rows[i] = row
	}

	return &Tilemap{Rows: len(rows), Cols: cols, Cells: rows}, nil
}

// Load parses the tilemap file at path.
func Load(path string) (*Tilemap, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open tilemap: %w", err)
	}
	defer f.Close()

	tm, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return tm, nil
}

// Default returns the gallery built into the binary.
func Default() *Tilemap {
	tm, err := Parse(strings.NewReader(defaultLevel))
	if err != nil {
		panic(fmt.Sprintf("level: built-in tilemap: %v", err))
	}
	return tm
}

// At returns the symbol at row, col, or TileFloor outside the grid.
func (t *Tilemap) At(row, col int) byte {
	if row < 0 || row >= t.Rows || col < 0 || col >= t.Cols {
		return TileFloor
	}
	return t.Cells[row][col]
}

// String renders the grid back to text, one row per line.
func (t *Tilemap) String() string {
	var sb strings.Builder
	for _, row := range t.Cells {
		sb.Write(row)
		sb.WriteByte('\n')
	}
	return sb.String()
}

func isBlank(row []byte) bool {
	return strings.TrimSpace(string(row)) == ""
}
