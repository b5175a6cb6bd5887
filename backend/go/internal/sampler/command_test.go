package sampler

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLayoutPaths(t *testing.T) {
	l := Layout{BinDir: "/opt/sampler", WorkDir: "/work"}
	assert.Equal(t, "/work/sampler_out", l.OutDir())
	assert.Equal(t, "/work/SeqSet.fa", l.FastaPath())
	assert.Equal(t, "/work/sampler_background.fa", l.BackgroundFastaPath())
	assert.Equal(t, "/work/sampler_out/SeqSet.bg", l.BackgroundModelPath())
	assert.Equal(t, "/work/sampler_out/SeqSet.out", l.HitsPath())
	assert.Equal(t, "/work/sampler_out/SeqSet.matrix", l.MatrixPath())
	assert.Equal(t, "/work/sampler_out/sampler_obj.txt", l.ObjRefPath())
}

func TestBackgroundCommand(t *testing.T) {
	l := Layout{BinDir: "/opt/sampler", WorkDir: "/work"}

	cmd := BackgroundCommand(l, "/work/SeqSet.fa", 0)
	assert.Equal(t, "/opt/sampler/CreateBackgroundModel -f /work/SeqSet.fa -b /work/sampler_out/SeqSet.bg", cmd.String())
	assert.Equal(t, "/work/sampler_out", cmd.Dir)

	cmd = BackgroundCommand(l, "/work/sampler_background.fa", 3)
	assert.Equal(t, []string{"-f", "/work/sampler_background.fa", "-b", "/work/sampler_out/SeqSet.bg", "-o", "3"}, cmd.Args)
}

func TestSamplerCommand(t *testing.T) {
	l := Layout{BinDir: "/opt/sampler", WorkDir: "/work"}

	cmd := SamplerCommand(l, "/work/SeqSet.fa", SamplerOptions{MotifLength: 8})
	assert.Equal(t,
		"/opt/sampler/MotifSampler -f /work/SeqSet.fa -b /work/sampler_out/SeqSet.bg -o /work/sampler_out/SeqSet.out -m /work/sampler_out/SeqSet.matrix -w 8",
		cmd.String())

	cmd = SamplerCommand(l, "/work/SeqSet.fa", SamplerOptions{MotifLength: 12, NumMotifs: 2, NumRuns: 5})
	assert.Equal(t, []string{"-n", "2", "-r", "5"}, cmd.Args[len(cmd.Args)-4:])
}

func TestExecRunner(t *testing.T) {
	sh, err := exec.LookPath("sh")
	if err != nil {
		t.Skip("sh not available")
	}
	r := NewExecRunner(5*time.Second, nil)

	require.NoError(t, r.Run(context.Background(), Command{Path: sh, Args: []string{"-c", "exit 0"}}))

	err = r.Run(context.Background(), Command{Path: sh, Args: []string{"-c", "echo boom >&2; exit 3"}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrToolFailed))
	assert.Contains(t, err.Error(), "boom")
}

func TestExecRunner_UsesDir(t *testing.T) {
	sh, err := exec.LookPath("sh")
	if err != nil {
		t.Skip("sh not available")
	}
	dir := t.TempDir()
	r := NewExecRunner(0, nil)
	require.NoError(t, r.Run(context.Background(), Command{Path: sh, Args: []string{"-c", "touch marker"}, Dir: dir}))
	_, err = os.Stat(filepath.Join(dir, "marker"))
	assert.NoError(t, err)
}

func TestCheckFresh(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, HitsFile)
	require.NoError(t, os.WriteFile(path, []byte("#id:"), 0o644))

	assert.NoError(t, CheckFresh(time.Now().Add(-time.Minute), path))

	old := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(path, old, old))
	err := CheckFresh(time.Now().Add(-time.Minute), path)
	assert.True(t, errors.Is(err, ErrMissingOutput))
	assert.Contains(t, err.Error(), "stale")

	err = CheckFresh(time.Now(), filepath.Join(dir, MatrixFile))
	assert.True(t, errors.Is(err, ErrMissingOutput))
}
