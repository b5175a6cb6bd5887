package sampler

import (
	"MotifFinderSampler/backend/go/internal/models"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// File names written by MotifSampler and CreateBackgroundModel into the output directory.
const (
	MatrixFile     = "SeqSet.matrix"
	HitsFile       = "SeqSet.out"
	BackgroundFile = "SeqSet.bg"
	FastaFile      = "SeqSet.fa"
	ObjRefFile     = "sampler_obj.txt"
)

// ParseOptions carries the record fields that do not come from the output files.
type ParseOptions struct {
	Condition      string
	SequenceSetRef string
	// Background is used as-is after normalisation; nil means uniform.
	Background *models.Background
}

// ParseOutput reads SeqSet.matrix and SeqSet.out from dir and builds a MotifSet.
// Motifs and their locations keep file order.
func ParseOutput(dir string, opts ParseOptions) (*models.MotifSet, error) {
	matrixPath := filepath.Join(dir, MatrixFile)
	mf, err := openOutput(matrixPath)
	if err != nil {
		return nil, err
	}
	defer mf.Close()
	matrices, err := parseMatrix(mf, matrixPath)
	if err != nil {
		return nil, err
	}

	hitsPath := filepath.Join(dir, HitsFile)
	hf, err := openOutput(hitsPath)
	if err != nil {
		return nil, err
	}
	defer hf.Close()
	motifs, err := parseHits(hf, hitsPath, matrices)
	if err != nil {
		return nil, err
	}

	bg := models.UniformBackground()
	if opts.Background != nil {
		bg = opts.Background.Normalize()
	}

	alphabet := make([]string, len(models.DNAAlphabet))
	copy(alphabet, models.DNAAlphabet)

	return &models.MotifSet{
		Condition:      opts.Condition,
		SequenceSetRef: opts.SequenceSetRef,
		Alphabet:       alphabet,
		Background:     bg,
		Motifs:         motifs,
	}, nil
}

func openOutput(path string) (*os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, missing(path, err)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return f, nil
}
