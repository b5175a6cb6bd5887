package sampler

import (
	"MotifFinderSampler/backend/go/internal/models"
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// matrixHeader marks the first line of a block in the matrix file.
const matrixHeader = "#ID"

type parseState int

const (
	seekingHeader parseState = iota
	inBlock
)

func (s parseState) String() string {
	switch s {
	case seekingHeader:
		return "seeking-header"
	case inBlock:
		return "in-block"
	default:
		return "unknown"
	}
}

// matrixBlock holds the rows of one #ID block, A/C/G/T per row.
type matrixBlock struct {
	ID   string
	Rows [][4]float64
}

// matrixSet is the ordered result of parsing a matrix file.
type matrixSet struct {
	blocks []matrixBlock
	index  map[string]int
}

func (m *matrixSet) lookup(id string) (matrixBlock, bool) {
	i, ok := m.index[id]
	if !ok {
		return matrixBlock{}, false
	}
	return m.blocks[i], true
}

// IDs returns block identifiers in file order.
func (m *matrixSet) IDs() []string {
	ids := make([]string, len(m.blocks))
	for i, b := range m.blocks {
		ids[i] = b.ID
	}
	return ids
}

// matrixParser is the two-state machine behind parseMatrix. The current block
// is local to the parser and replaced at every header.
type matrixParser struct {
	name  string
	state parseState
	cur   matrixBlock
	set   *matrixSet
}

func newMatrixParser(name string) *matrixParser {
	return &matrixParser{
		name:  name,
		state: seekingHeader,
		set:   &matrixSet{index: make(map[string]int)},
	}
}

// feed consumes one line. lineNo is 1-based and only used for errors.
func (p *matrixParser) feed(line string, lineNo int) error {
	switch {
	case strings.HasPrefix(line, matrixHeader):
		if err := p.closeBlock(lineNo); err != nil {
			return err
		}
		fields := strings.Fields(line)
		if len(fields) < 3 {
			return malformed(p.name, lineNo, "header %q has no identifier", line)
		}
		id := fields[2]
		if _, dup := p.set.index[id]; dup {
			return malformed(p.name, lineNo, "duplicate matrix block %q", id)
		}
		p.cur = matrixBlock{ID: id}
		p.state = inBlock
		return nil

	case isDataRow(line):
		if p.state != inBlock {
			return malformed(p.name, lineNo, "data row before any %s header", matrixHeader)
		}
		row, err := parseRow(line)
		if err != nil {
			return malformed(p.name, lineNo, "block %q: %v", p.cur.ID, err)
		}
		p.cur.Rows = append(p.cur.Rows, row)
		return nil
	}

	trimmed := strings.TrimSpace(line)
	if trimmed == "" || strings.HasPrefix(trimmed, "#") {
		return nil
	}
	return malformed(p.name, lineNo, "unexpected line %q in state %s", line, p.state)
}

// closeBlock moves the open block, if any, into the result set.
func (p *matrixParser) closeBlock(lineNo int) error {
	if p.state != inBlock {
		return nil
	}
	if len(p.cur.Rows) == 0 {
		return malformed(p.name, lineNo, "matrix block %q has no rows", p.cur.ID)
	}
	p.set.index[p.cur.ID] = len(p.set.blocks)
	p.set.blocks = append(p.set.blocks, p.cur)
	p.cur = matrixBlock{}
	p.state = seekingHeader
	return nil
}

func (p *matrixParser) finish(lineNo int) (*matrixSet, error) {
	if err := p.closeBlock(lineNo); err != nil {
		return nil, err
	}
	return p.set, nil
}

// parseMatrix reads a MotifSampler matrix file: #ID blocks of A/C/G/T rows.
func parseMatrix(r io.Reader, name string) (*matrixSet, error) {
	p := newMatrixParser(name)
	sc := newLineScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		if err := p.feed(strings.TrimRight(sc.Text(), "\r"), lineNo); err != nil {
			return nil, err
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return p.finish(lineNo)
}

func isDataRow(line string) bool {
	return line != "" && line[0] >= '0' && line[0] <= '9'
}

func parseRow(line string) ([4]float64, error) {
	var row [4]float64
	fields := strings.Fields(line)
	if len(fields) != 4 {
		return row, fmt.Errorf("want 4 columns (A C G T), got %d in %q", len(fields), line)
	}
	for j, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return row, fmt.Errorf("column %d: %q is not a number", j+1, f)
		}
		row[j] = v
	}
	return row, nil
}

// buildPWM transposes rows into per-symbol columns: row i, column j becomes
// symbol j's score at position i.
func buildPWM(rows [][4]float64) models.Matrix {
	pwm := models.Matrix{
		A: make([]float64, len(rows)),
		C: make([]float64, len(rows)),
		G: make([]float64, len(rows)),
		T: make([]float64, len(rows)),
	}
	for i, row := range rows {
		pwm.A[i] = row[0]
		pwm.C[i] = row[1]
		pwm.G[i] = row[2]
		pwm.T[i] = row[3]
	}
	return pwm
}

func newLineScanner(r io.Reader) *bufio.Scanner {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	return sc
}
