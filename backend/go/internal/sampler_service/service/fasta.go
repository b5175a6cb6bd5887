package service

import (
	"MotifFinderSampler/backend/go/internal/fastautil"
	"MotifFinderSampler/backend/go/internal/models"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// BuildFastaFromSequenceSet 把序列集写成 FASTA，需要时同时准备背景基因组。
func (s *SamplerService) BuildFastaFromSequenceSet(ctx context.Context, params BuildFastaParams) (BuildFastaOutput, error) {
	if params.SequenceSetRef == "" {
		return BuildFastaOutput{}, fmt.Errorf("%w: SequenceSetRef is required", ErrInvalidParams)
	}
	release, err := s.lockWorkdir(ctx)
	if err != nil {
		return BuildFastaOutput{}, err
	}
	defer release()
	return s.buildFasta(ctx, params)
}

// buildFasta 要求调用方已持有工作目录锁。
func (s *SamplerService) buildFasta(ctx context.Context, params BuildFastaParams) (BuildFastaOutput, error) {
	if params.SequenceSetRef == "" {
		return BuildFastaOutput{}, fmt.Errorf("%w: SequenceSetRef is required", ErrInvalidParams)
	}
	if params.FastaOutPath == "" {
		params.FastaOutPath = s.opts.Layout.FastaPath()
	}
	out := BuildFastaOutput{FastaOutPath: params.FastaOutPath}

	if params.Background {
		path, err := s.stageBackground(ctx, params.GenomeRef, params.TestFlag)
		if err != nil {
			return BuildFastaOutput{}, err
		}
		out.BackgroundFastaPath = path
	}

	var set models.SequenceSet
	if _, err := s.workspace.GetObject(ctx, models.SequenceSetType, params.SequenceSetRef, &set); err != nil {
		return BuildFastaOutput{}, fmt.Errorf("get sequence set %s: %w", params.SequenceSetRef, err)
	}

	n, err := fastautil.WriteSequenceSetFile(params.FastaOutPath, &set, params.MaskRepeats)
	if err != nil {
		return BuildFastaOutput{}, err
	}
	out.SequenceCount = n

	s.taskLogger(ctx).WithPayload(map[string]interface{}{
		"sequence_set_ref": params.SequenceSetRef,
		"sequences":        n,
		"fasta":            params.FastaOutPath,
		"mask_repeats":     params.MaskRepeats,
	}).Info("Sequence set written as FASTA")
	return out, nil
}

// stageBackground 把背景基因组放到 Layout.BackgroundFastaPath()。
// 测试模式下复制本地测试基因组，否则从对象存储下载 assembly。
func (s *SamplerService) stageBackground(ctx context.Context, genomeRef string, testMode bool) (string, error) {
	dst := s.opts.Layout.BackgroundFastaPath()
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", err
	}

	if testMode {
		if s.opts.TestGenomePath == "" {
			return "", fmt.Errorf("%w: test mode requires a configured test genome", ErrInvalidParams)
		}
		if err := copyFile(s.opts.TestGenomePath, dst); err != nil {
			return "", fmt.Errorf("stage test genome: %w", err)
		}
		return dst, nil
	}

	if genomeRef == "" {
		return "", fmt.Errorf("%w: genome_ref is required for a genome background", ErrInvalidParams)
	}
	s.taskLogger(ctx).WithPayload(map[string]interface{}{"genome_ref": genomeRef}).Info("Downloading assembly for background model")
	if err := s.artifacts.DownloadAssembly(ctx, genomeRef, dst); err != nil {
		return "", err
	}
	return dst, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
