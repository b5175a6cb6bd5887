package sampler

import (
	"path/filepath"
	"strconv"
	"strings"
)

const (
	backgroundBinary = "CreateBackgroundModel"
	samplerBinary    = "MotifSampler"
	outDirName       = "sampler_out"
	bgFastaName      = "sampler_background.fa"
)

// Layout fixes where the tool binaries live and where a run writes its files.
type Layout struct {
	BinDir  string
	WorkDir string
}

// OutDir is the directory the tool writes its output files into.
func (l Layout) OutDir() string { return filepath.Join(l.WorkDir, outDirName) }

// FastaPath is where the input sequence set is staged.
func (l Layout) FastaPath() string { return filepath.Join(l.WorkDir, FastaFile) }

// BackgroundFastaPath is where a genome assembly is staged for background building.
func (l Layout) BackgroundFastaPath() string { return filepath.Join(l.WorkDir, bgFastaName) }

func (l Layout) BackgroundModelPath() string { return filepath.Join(l.OutDir(), BackgroundFile) }
func (l Layout) HitsPath() string            { return filepath.Join(l.OutDir(), HitsFile) }
func (l Layout) MatrixPath() string          { return filepath.Join(l.OutDir(), MatrixFile) }
func (l Layout) ObjRefPath() string          { return filepath.Join(l.OutDir(), ObjRefFile) }

// Command is one invocation of an external binary.
type Command struct {
	Path string
	Args []string
	Dir  string
}

func (c Command) String() string {
	return strings.Join(append([]string{c.Path}, c.Args...), " ")
}

// SamplerOptions are the MotifSampler tuning flags. Zero values are left to the tool.
type SamplerOptions struct {
	MotifLength int // -w
	NumMotifs   int // -n
	NumRuns     int // -r
}

// BackgroundCommand builds the CreateBackgroundModel call that turns fastaPath
// into the background model used by MotifSampler.
func BackgroundCommand(l Layout, fastaPath string, order int) Command {
	args := []string{"-f", fastaPath, "-b", l.BackgroundModelPath()}
	if order > 0 {
		args = append(args, "-o", strconv.Itoa(order))
	}
	return Command{
		Path: filepath.Join(l.BinDir, backgroundBinary),
		Args: args,
		Dir:  l.OutDir(),
	}
}

// SamplerCommand builds the MotifSampler call for fastaPath.
func SamplerCommand(l Layout, fastaPath string, opts SamplerOptions) Command {
	args := []string{
		"-f", fastaPath,
		"-b", l.BackgroundModelPath(),
		"-o", l.HitsPath(),
		"-m", l.MatrixPath(),
		"-w", strconv.Itoa(opts.MotifLength),
	}
	if opts.NumMotifs > 0 {
		args = append(args, "-n", strconv.Itoa(opts.NumMotifs))
	}
	if opts.NumRuns > 0 {
		args = append(args, "-r", strconv.Itoa(opts.NumRuns))
	}
	return Command{
		Path: filepath.Join(l.BinDir, samplerBinary),
		Args: args,
		Dir:  l.OutDir(),
	}
}
