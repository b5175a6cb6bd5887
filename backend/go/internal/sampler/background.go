package sampler

import (
	"MotifFinderSampler/backend/go/internal/models"
	"fmt"
	"io"
	"strings"
)

// snfSection marks the single nucleotide frequency line of a background model file.
const snfSection = "#snf"

// ReadBackgroundFile returns the normalised single nucleotide frequencies of a
// CreateBackgroundModel output file.
func ReadBackgroundFile(path string) (models.Background, error) {
	f, err := openOutput(path)
	if err != nil {
		return models.Background{}, err
	}
	defer f.Close()
	return parseBackground(f, path)
}

// parseBackground scans for the #snf section and reads the first data line
// after it as A C G T frequencies.
func parseBackground(r io.Reader, name string) (models.Background, error) {
	sc := newLineScanner(r)
	lineNo := 0
	inSNF := false
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "#") {
			inSNF = strings.EqualFold(line, snfSection)
			continue
		}
		if !inSNF {
			continue
		}
		row, err := parseRow(line)
		if err != nil {
			return models.Background{}, malformed(name, lineNo, "snf: %v", err)
		}
		bg := models.Background{A: row[0], C: row[1], G: row[2], T: row[3]}
		if bg.Sum() <= 0 {
			return models.Background{}, malformed(name, lineNo, "snf frequencies sum to %g", bg.Sum())
		}
		return bg.Normalize(), nil
	}
	if err := sc.Err(); err != nil {
		return models.Background{}, fmt.Errorf("read %s: %w", name, err)
	}
	return models.Background{}, malformed(name, 0, "no %s section", snfSection)
}
