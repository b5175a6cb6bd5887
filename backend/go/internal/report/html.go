// Package report builds the static HTML bundle attached to a motif discovery report.
package report

import (
	"MotifFinderSampler/backend/go/internal/models"
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
)

// Files written into a report directory.
const (
	IndexFile     = "index.html"
	PromotersFile = "promoters.html"
	WorkbookFile  = "motifs.xlsx"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

type pwmRow struct {
	Position   int
	A, C, G, T float64
}

type motifView struct {
	Name      string
	Consensus string
	Width     int
	Rows      []pwmRow
	Locations []models.MotifLocation
}

type indexView struct {
	Title         string
	MotifSetRef   string
	SequenceCount int
	Background    models.Background
	Motifs        []motifView
}

// motifName is the display identifier of the i-th motif; motif sets carry no ids.
func motifName(i int) string {
	return fmt.Sprintf("motif_%d", i+1)
}

func newIndexView(in Input) indexView {
	v := indexView{
		Title:         in.Title,
		MotifSetRef:   in.MotifSetRef,
		SequenceCount: in.SequenceCount,
	}
	if in.MotifSet == nil {
		return v
	}
	v.Background = in.MotifSet.Background
	for i, m := range in.MotifSet.Motifs {
		width := m.PWM.Width()
		mv := motifView{
			Name:      motifName(i),
			Consensus: m.IupacSequence,
			Width:     width,
			Locations: m.Locations,
		}
		for p := 0; p < width; p++ {
			mv.Rows = append(mv.Rows, pwmRow{Position: p + 1, A: m.PWM.A[p], C: m.PWM.C[p], G: m.PWM.G[p], T: m.PWM.T[p]})
		}
		v.Motifs = append(v.Motifs, mv)
	}
	return v
}

func render(name string, data interface{}) ([]byte, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return nil, fmt.Errorf("render %s: %w", name, err)
	}
	return buf.Bytes(), nil
}

// WriteIndex renders index.html into dir.
func WriteIndex(dir string, in Input) (string, error) {
	out, err := render(IndexFile, newIndexView(in))
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, IndexFile)
	return path, os.WriteFile(path, out, 0o644)
}

// WritePromoters wraps the FASTA at fastaPath in a minimal HTML page.
func WritePromoters(dir, fastaPath string) (string, error) {
	fasta, err := os.ReadFile(fastaPath)
	if err != nil {
		return "", err
	}
	out, err := render(PromotersFile, string(fasta))
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, PromotersFile)
	return path, os.WriteFile(path, out, 0o644)
}
