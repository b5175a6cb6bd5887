package sampler

import (
	"MotifFinderSampler/backend/go/internal/models"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const twoBlockMatrix = "#ID = box_1\n" +
	"0.1\t0.4\t0.3\t0.2\n" +
	"0.2\t0.2\t0.3\t0.3\n" +
	"0.25\t0.25\t0.25\t0.25\n" +
	"#ID = box_2\n" +
	"0.7\t0.1\t0.1\t0.1\n" +
	"0.1\t0.7\t0.1\t0.1\n" +
	"0.1\t0.1\t0.7\t0.1\n"

func mustParseMatrix(t *testing.T, text string) *matrixSet {
	t.Helper()
	set, err := parseMatrix(strings.NewReader(text), "SeqSet.matrix")
	require.NoError(t, err)
	return set
}

func TestParseMatrix_TwoBlocks(t *testing.T) {
	set := mustParseMatrix(t, twoBlockMatrix)

	assert.Equal(t, []string{"box_1", "box_2"}, set.IDs())
	assert.Len(t, set.index, 2)
	for _, id := range []string{"box_1", "box_2"} {
		block, ok := set.lookup(id)
		require.True(t, ok, id)
		assert.Len(t, block.Rows, 3, id)
	}
}

func TestParseMatrix_SkipsCommentsAndBlankLines(t *testing.T) {
	text := "#INCLUSive Motif Model v1.0\n" +
		"#\n" +
		"\n" +
		"#ID = box_1\n" +
		"#Score = 4.2\n" +
		"#W = 2\n" +
		"0.1 0.4 0.3 0.2\r\n" +
		"\n" +
		"0.2  0.2\t0.3 0.3\n"
	set := mustParseMatrix(t, text)

	block, ok := set.lookup("box_1")
	require.True(t, ok)
	assert.Equal(t, [][4]float64{{0.1, 0.4, 0.3, 0.2}, {0.2, 0.2, 0.3, 0.3}}, block.Rows)
}

func TestParseMatrix_Malformed(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"row before header", "0.1\t0.4\t0.3\t0.2\n#ID = box_1\n0.1\t0.4\t0.3\t0.2\n", "before any #ID header"},
		{"empty block between headers", "#ID = box_1\n#ID = box_2\n0.1\t0.4\t0.3\t0.2\n", `"box_1" has no rows`},
		{"empty block at end", "#ID = box_1\n0.1\t0.4\t0.3\t0.2\n#ID = box_2\n", `"box_2" has no rows`},
		{"duplicate id", "#ID = box_1\n0.1\t0.4\t0.3\t0.2\n#ID = box_1\n0.1\t0.4\t0.3\t0.2\n", "duplicate"},
		{"three columns", "#ID = box_1\n0.1\t0.4\t0.3\n", "want 4 columns"},
		{"five columns", "#ID = box_1\n0.1\t0.4\t0.3\t0.1\t0.1\n", "want 4 columns"},
		{"non numeric", "#ID = box_1\n0.1\tx\t0.3\t0.2\n", "not a number"},
		{"indented row", "#ID = box_1\n  0.1\t0.4\t0.3\t0.2\n", "unexpected line"},
		{"header without id", "#ID\n0.1\t0.4\t0.3\t0.2\n", "no identifier"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseMatrix(strings.NewReader(tt.text), "SeqSet.matrix")
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMalformedOutput), "got %v", err)
			assert.False(t, errors.Is(err, ErrMissingOutput))
			assert.Contains(t, err.Error(), tt.want)

			var oe *OutputError
			require.True(t, errors.As(err, &oe))
			assert.Positive(t, oe.Line)
		})
	}
}

func TestBuildPWM_Transposes(t *testing.T) {
	set := mustParseMatrix(t, "#ID 1 box_1\n0.1\t0.4\t0.3\t0.2\n0.2\t0.2\t0.3\t0.3\n")
	block, ok := set.lookup("box_1")
	require.True(t, ok)

	want := models.Matrix{
		A: []float64{0.1, 0.2},
		C: []float64{0.4, 0.2},
		G: []float64{0.3, 0.3},
		T: []float64{0.2, 0.3},
	}
	if diff := cmp.Diff(want, buildPWM(block.Rows)); diff != "" {
		t.Errorf("PWM mismatch (-want +got):\n%s", diff)
	}
}

func TestParseHitLine_Strand(t *testing.T) {
	tests := []struct {
		name string
		line string
		want models.MotifLocation
	}{
		{
			name: "plus strand keeps order",
			line: "seq1\tMotifSampler\tmisc_feature\t5\t10\t0.9\t+\t0\tgene_id \"box_1\"; site \"AACGT\";",
			want: models.MotifLocation{SequenceID: "seq1", Start: 5, End: 10, Sequence: "AACGT", Orientation: "+"},
		},
		{
			name: "minus strand swaps bounds",
			line: "seq2\tMotifSampler\tmisc_feature\t10\t5\t0.9\t-\t0\tgene_id \"box_1\"; site \"ACGTT\";",
			want: models.MotifLocation{SequenceID: "seq2", Start: 5, End: 10, Sequence: "ACGTT", Orientation: "-"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseHitLine(tt.line)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.LessOrEqual(t, got.Start, got.End)
		})
	}
}

func TestParseHitLine_Errors(t *testing.T) {
	tests := map[string]string{
		"too few tab fields":   "seq1\tMotifSampler\t5\t10 a b c;",
		"too few space fields": "seq1\tMotifSampler\tmisc_feature\t5\t10\t0.9\t+\t0\tgene_id \"box_1\";",
		"bad start":            "seq1\tMotifSampler\tmisc_feature\tfive\t10\t0.9\t+\t0\tgene_id \"box_1\"; site \"A\";",
		"bad end":              "seq1\tMotifSampler\tmisc_feature\t5\tten\t0.9\t+\t0\tgene_id \"box_1\"; site \"A\";",
		"bad orientation":      "seq1\tMotifSampler\tmisc_feature\t5\t10\t0.9\t.\t0\tgene_id \"box_1\"; site \"A\";",
	}
	for name, line := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := parseHitLine(line)
			assert.Error(t, err)
		})
	}
}

func TestParseHits_ConcreteMinusStrand(t *testing.T) {
	set := mustParseMatrix(t, "#ID 1 box_1\n0.1\t0.4\t0.3\t0.2\n0.2\t0.2\t0.3\t0.3\n")
	text := "#id: box_1\tConsensus AACGT\n" +
		"chr1\tMotifSampler\tmisc_feature\t10\t5\t0.9\t-\t0\tgene_id \"box_1\"; site \"AACGT\";\n"

	motifs, err := parseHits(strings.NewReader(text), "SeqSet.out", set)
	require.NoError(t, err)
	require.Len(t, motifs, 1)

	m := motifs[0]
	assert.Equal(t, "AACGT", m.IupacSequence)
	require.Len(t, m.Locations, 1)
	assert.Equal(t, 5, m.Locations[0].Start)
	assert.Equal(t, 10, m.Locations[0].End)
	assert.Equal(t, "-", m.Locations[0].Orientation)
	assert.Equal(t, 2, m.PWM.Width())
	assert.Equal(t, 0, m.PFM.Width())
}

func TestParseHits_FlushesEveryHeader(t *testing.T) {
	set := mustParseMatrix(t, twoBlockMatrix)
	hit := "s\tMotifSampler\tmisc_feature\t1\t3\t0.5\t+\t0\tgene_id \"x\"; site \"ACG\";\n"
	text := "s\tMotifSampler\tmisc_feature\t1\t3\t0.5\t+\t0\tgene_id \"orphan\"; site \"TTT\";\n" +
		"#id: box_1\tConsensus: ACG\n" + hit + hit +
		"#id: box_2\tConsensus: CGT\n" +
		"#id: box_1\tConsensus: ACG\n" + hit

	motifs, err := parseHits(strings.NewReader(text), "SeqSet.out", set)
	require.NoError(t, err)
	require.Len(t, motifs, 3)
	assert.Len(t, motifs[0].Locations, 2)
	assert.Len(t, motifs[1].Locations, 0)
	assert.NotNil(t, motifs[1].Locations)
	assert.Len(t, motifs[2].Locations, 1)
	assert.Equal(t, "CGT", motifs[1].IupacSequence)
}

func TestParseHits_NoHeaders(t *testing.T) {
	set := mustParseMatrix(t, twoBlockMatrix)
	motifs, err := parseHits(strings.NewReader("##gff-version 2\n"), "SeqSet.out", set)
	require.NoError(t, err)
	assert.Empty(t, motifs)
}

func TestParseHits_UnknownMatrixID(t *testing.T) {
	set := mustParseMatrix(t, twoBlockMatrix)
	_, err := parseHits(strings.NewReader("#id: box_9\tConsensus: ACG\n"), "SeqSet.out", set)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMalformedOutput))
	assert.Contains(t, err.Error(), "box_9")
}

func TestParseHits_MalformedHeader(t *testing.T) {
	set := mustParseMatrix(t, twoBlockMatrix)
	for _, header := range []string{"#id: box_1", "#id:\tConsensus: ACG", "#id: box_1\tConsensus:"} {
		_, err := parseHits(strings.NewReader(header+"\n"), "SeqSet.out", set)
		assert.True(t, errors.Is(err, ErrMalformedOutput), "header %q: %v", header, err)
	}
}

func TestParseOutput_Basic(t *testing.T) {
	bg := models.Background{A: 3, C: 2, G: 2, T: 3}
	set, err := ParseOutput(filepath.Join("testdata", "basic"), ParseOptions{
		Condition:      "temp",
		SequenceSetRef: "1/2/3",
		Background:     &bg,
	})
	require.NoError(t, err)

	assert.Equal(t, "temp", set.Condition)
	assert.Equal(t, "1/2/3", set.SequenceSetRef)
	assert.Equal(t, []string{"A", "C", "G", "T"}, set.Alphabet)
	assert.InDelta(t, 1.0, set.Background.Sum(), 1e-9)
	assert.InDelta(t, 0.3, set.Background.A, 1e-9)

	require.Len(t, set.Motifs, 2)
	first := set.Motifs[0]
	assert.Equal(t, "CCTT", first.IupacSequence)
	assert.Equal(t, []float64{0.1, 0.2, 0.05, 0.7}, first.PWM.A)
	assert.Equal(t, []models.MotifLocation{
		{SequenceID: "seq1", Start: 10, End: 13, Sequence: "CCTT", Orientation: "+"},
		{SequenceID: "seq2", Start: 39, End: 42, Sequence: "AAGG", Orientation: "-"},
	}, first.Locations)

	second := set.Motifs[1]
	assert.Equal(t, "GGAA", second.IupacSequence)
	require.Len(t, second.Locations, 1)
	assert.Equal(t, "seq3", second.Locations[0].SequenceID)
}

func TestParseOutput_PWMWidthMatchesBlock(t *testing.T) {
	dir := filepath.Join("testdata", "basic")
	set, err := ParseOutput(dir, ParseOptions{})
	require.NoError(t, err)

	f, err := os.Open(filepath.Join(dir, MatrixFile))
	require.NoError(t, err)
	defer f.Close()
	matrices, err := parseMatrix(f, MatrixFile)
	require.NoError(t, err)

	for i, m := range set.Motifs {
		block := matrices.blocks[i]
		width := m.PWM.Width()
		assert.Equal(t, len(block.Rows), width, block.ID)
		for _, sym := range set.Alphabet {
			assert.Len(t, m.PWM.Column(sym), width)
		}
	}
}

func TestParseOutput_Deterministic(t *testing.T) {
	dir := filepath.Join("testdata", "basic")
	a, err := ParseOutput(dir, ParseOptions{Condition: "c"})
	require.NoError(t, err)
	b, err := ParseOutput(dir, ParseOptions{Condition: "c"})
	require.NoError(t, err)
	if diff := cmp.Diff(a, b); diff != "" {
		t.Errorf("parse is not deterministic (-first +second):\n%s", diff)
	}
}

func TestParseOutput_DefaultsToUniformBackground(t *testing.T) {
	set, err := ParseOutput(filepath.Join("testdata", "basic"), ParseOptions{})
	require.NoError(t, err)
	assert.Equal(t, models.UniformBackground(), set.Background)
}

func TestParseOutput_MissingFiles(t *testing.T) {
	dir := t.TempDir()
	_, err := ParseOutput(dir, ParseOptions{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingOutput))
	assert.False(t, errors.Is(err, ErrMalformedOutput))
	assert.Contains(t, err.Error(), MatrixFile)

	require.NoError(t, os.WriteFile(filepath.Join(dir, MatrixFile), []byte(twoBlockMatrix), 0o644))
	_, err = ParseOutput(dir, ParseOptions{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingOutput))
	assert.Contains(t, err.Error(), HitsFile)
}
