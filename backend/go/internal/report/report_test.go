package report

import (
	"MotifFinderSampler/backend/go/internal/models"
	"archive/zip"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleMotifSet() *models.MotifSet {
	return &models.MotifSet{
		Condition:      "temp",
		SequenceSetRef: "1/2/3",
		Alphabet:       []string{"A", "C", "G", "T"},
		Background:     models.UniformBackground(),
		Motifs: []models.Motif{
			{
				IupacSequence: "CCTT",
				PWM: models.Matrix{
					A: []float64{0.1, 0.2},
					C: []float64{0.4, 0.2},
					G: []float64{0.3, 0.3},
					T: []float64{0.2, 0.3},
				},
				PFM: models.EmptyMatrix(),
				Locations: []models.MotifLocation{
					{SequenceID: "seq<1>", Start: 5, End: 10, Sequence: "CCTT", Orientation: "-"},
					{SequenceID: "seq2", Start: 1, End: 4, Sequence: "CCTA", Orientation: "+"},
				},
			},
			{
				IupacSequence: "GGAA",
				PWM:           models.Matrix{A: []float64{0.5}, C: []float64{0.1}, G: []float64{0.3}, T: []float64{0.1}},
				PFM:           models.EmptyMatrix(),
				Locations:     []models.MotifLocation{},
			},
		},
	}
}

func writeFasta(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "SeqSet.fa")
	require.NoError(t, os.WriteFile(path, []byte(">seq<1>\nACGT&\n>seq2\nGGCC\n"), 0o644))
	return path
}

func TestBuild(t *testing.T) {
	work := t.TempDir()
	dir := filepath.Join(work, "html")
	b, err := Build(dir, Input{
		FastaPath:     writeFasta(t, work),
		MotifSet:      sampleMotifSet(),
		MotifSetRef:   "7/8/1",
		SequenceCount: 2,
	})
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, IndexFile), b.IndexPath)
	assert.Equal(t, []string{
		filepath.Join(dir, PromotersFile),
		filepath.Join(dir, IndexFile),
		filepath.Join(dir, WorkbookFile),
	}, b.Files)

	index, err := os.ReadFile(b.IndexPath)
	require.NoError(t, err)
	html := string(index)
	assert.Contains(t, html, "<h1>Motif discovery results</h1>")
	assert.Contains(t, html, "Motifs found: 2.")
	assert.Contains(t, html, "7/8/1")
	assert.Contains(t, html, "motif_1: CCTT")
	assert.Contains(t, html, "<td>0.400</td>")
	assert.Contains(t, html, "seq&lt;1&gt;")
	assert.NotContains(t, html, "seq<1>")

	promoters, err := os.ReadFile(filepath.Join(dir, PromotersFile))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(promoters), "<html><body>"))
	assert.Contains(t, string(promoters), "&gt;seq2")
	assert.Contains(t, string(promoters), "ACGT&amp;")

	assert.Contains(t, b.Message, "Motif discovery results")
	assert.Contains(t, b.Message, "CCTT (2 sites)")
	assert.NotContains(t, b.Message, "<p>")
}

func TestBuild_WithoutFasta(t *testing.T) {
	b, err := Build(t.TempDir(), Input{Title: "Run 1", MotifSet: &models.MotifSet{}})
	require.NoError(t, err)
	assert.Len(t, b.Files, 2)
	assert.Contains(t, b.Message, "Run 1")
	assert.Contains(t, b.Message, "Motifs found: 0.")
}

func TestWritePromoters_MissingFasta(t *testing.T) {
	_, err := WritePromoters(t.TempDir(), filepath.Join(t.TempDir(), "absent.fa"))
	assert.Error(t, err)
}

func TestWriteWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), WorkbookFile)
	require.NoError(t, WriteWorkbook(path, sampleMotifSet()))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{MotifsSheet, LocationsSheet}, f.GetSheetList())

	motifs, err := f.GetRows(MotifsSheet)
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"Motif", "Consensus", "Width", "Sites"},
		{"motif_1", "CCTT", "2", "2"},
		{"motif_2", "GGAA", "1", "0"},
	}, motifs)

	locs, err := f.GetRows(LocationsSheet)
	require.NoError(t, err)
	require.Len(t, locs, 3)
	assert.Equal(t, []string{"motif_1", "seq<1>", "5", "10", "-", "CCTT"}, locs[1])
}

func TestSelectFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"SeqSet.out", "SeqSet.matrix", "sampler_obj.txt", "other.log"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(name), 0o644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "SeqSet.dir"), 0o755))

	got, err := SelectFiles(dir, []string{"SeqSet.*", "sampler_obj.txt"})
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "SeqSet.matrix"),
		filepath.Join(dir, "SeqSet.out"),
		filepath.Join(dir, "sampler_obj.txt"),
	}, got)

	_, err = SelectFiles(dir, []string{"[unterminated"})
	assert.Error(t, err)
}

func TestZipDir(t *testing.T) {
	src := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(src, "index.html"), []byte("<html></html>"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(src, "assets"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "assets", "a.txt"), []byte("a"), 0o644))

	dst := filepath.Join(t.TempDir(), "report.zip")
	require.NoError(t, ZipDir(src, dst))

	zr, err := zip.OpenReader(dst)
	require.NoError(t, err)
	defer zr.Close()

	var names []string
	for _, f := range zr.File {
		names = append(names, f.Name)
	}
	sort.Strings(names)
	assert.Equal(t, []string{"assets/a.txt", "index.html"}, names)
}
