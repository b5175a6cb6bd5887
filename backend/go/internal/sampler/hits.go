package sampler

import (
	"MotifFinderSampler/backend/go/internal/models"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// hitsHeader starts a motif record in the hit-listing file.
const hitsHeader = "#id:"

var sequenceCleaner = strings.NewReplacer(";", "", "\"", "")

// parseHits reads the hit-listing file. Every #id: header closes the previous
// motif; the last one is flushed at EOF.
func parseHits(r io.Reader, name string, matrices *matrixSet) ([]models.Motif, error) {
	motifs := []models.Motif{}
	var cur *models.Motif

	sc := newLineScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimRight(sc.Text(), " \t\r\n")

		if strings.HasPrefix(line, hitsHeader) {
			if cur != nil {
				motifs = append(motifs, *cur)
			}
			m, err := motifFromHeader(line, name, lineNo, matrices)
			if err != nil {
				return nil, err
			}
			cur = &m
			continue
		}

		if cur == nil || !strings.HasSuffix(line, ";") {
			continue
		}
		loc, err := parseHitLine(line)
		if err != nil {
			return nil, malformed(name, lineNo, "%v", err)
		}
		cur.Locations = append(cur.Locations, loc)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	if cur != nil {
		motifs = append(motifs, *cur)
	}
	return motifs, nil
}

// motifFromHeader builds an empty motif from "#id: <id>\t<label> <consensus>...".
func motifFromHeader(line, name string, lineNo int, matrices *matrixSet) (models.Motif, error) {
	fields := strings.Split(line, "\t")
	if len(fields) < 2 {
		return models.Motif{}, malformed(name, lineNo, "header %q has no consensus field", line)
	}
	idTokens := strings.Fields(fields[0])
	if len(idTokens) < 2 {
		return models.Motif{}, malformed(name, lineNo, "header %q has no motif id", line)
	}
	consensusTokens := strings.Fields(fields[1])
	if len(consensusTokens) < 2 {
		return models.Motif{}, malformed(name, lineNo, "header %q has no consensus sequence", line)
	}

	id := idTokens[1]
	block, ok := matrices.lookup(id)
	if !ok {
		return models.Motif{}, malformed(name, lineNo, "motif %q has no block in %s", id, MatrixFile)
	}
	return models.Motif{
		IupacSequence: consensusTokens[1],
		PWM:           buildPWM(block.Rows),
		PFM:           models.EmptyMatrix(),
		Locations:     []models.MotifLocation{},
	}, nil
}

// parseHitLine reads one GFF-style hit. The field positions are the format
// contract of the tool's output:
//
//	space field 0, tab fields 0/3/4/6: sequence id, bounds, strand
//	space field 3: quoted site sequence terminated by ';'
func parseHitLine(line string) (models.MotifLocation, error) {
	out := strings.Split(line, " ")
	rec := strings.Split(out[0], "\t")
	if len(rec) < 7 {
		return models.MotifLocation{}, fmt.Errorf("hit line has %d tab fields, want at least 7", len(rec))
	}
	if len(out) < 4 {
		return models.MotifLocation{}, fmt.Errorf("hit line has %d space fields, want at least 4", len(out))
	}

	first, err := strconv.Atoi(strings.TrimSpace(rec[3]))
	if err != nil {
		return models.MotifLocation{}, fmt.Errorf("start %q is not an integer", rec[3])
	}
	second, err := strconv.Atoi(strings.TrimSpace(rec[4]))
	if err != nil {
		return models.MotifLocation{}, fmt.Errorf("end %q is not an integer", rec[4])
	}

	loc := models.MotifLocation{
		SequenceID:  rec[0],
		Orientation: rec[6],
		Sequence:    sequenceCleaner.Replace(out[3]),
	}
	switch loc.Orientation {
	case "+":
		loc.Start, loc.End = first, second
	case "-":
		// minus-strand hits are reported end first
		loc.Start, loc.End = second, first
	default:
		return models.MotifLocation{}, fmt.Errorf("orientation %q is neither + nor -", rec[6])
	}
	return loc, nil
}
