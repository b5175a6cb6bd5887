package report

import (
	"MotifFinderSampler/backend/go/internal/models"
	"fmt"
	"os"
	"path/filepath"
)

// Input is everything the report pages are rendered from.
type Input struct {
	Title         string
	FastaPath     string
	MotifSet      *models.MotifSet
	MotifSetRef   string
	SequenceCount int
}

// Bundle is a rendered report directory.
type Bundle struct {
	Dir       string
	IndexPath string
	Files     []string
	Message   string
}

// Build renders index.html, promoters.html and motifs.xlsx into dir and
// returns the markdown summary alongside the file list.
func Build(dir string, in Input) (*Bundle, error) {
	if in.Title == "" {
		in.Title = "Motif discovery results"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create report dir: %w", err)
	}

	b := &Bundle{Dir: dir}
	if in.FastaPath != "" {
		p, err := WritePromoters(dir, in.FastaPath)
		if err != nil {
			return nil, err
		}
		b.Files = append(b.Files, p)
	}

	index, err := WriteIndex(dir, in)
	if err != nil {
		return nil, err
	}
	b.IndexPath = index
	b.Files = append(b.Files, index)

	wb := filepath.Join(dir, WorkbookFile)
	if err := WriteWorkbook(wb, in.MotifSet); err != nil {
		return nil, err
	}
	b.Files = append(b.Files, wb)

	if b.Message, err = Message(in); err != nil {
		return nil, err
	}
	return b, nil
}
