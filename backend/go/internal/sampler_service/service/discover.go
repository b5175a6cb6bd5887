package service

import (
	"MotifFinderSampler/backend/go/internal/fastautil"
	"MotifFinderSampler/backend/go/internal/models"
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// DiscoverMotifsFromSequenceSet 先把序列集写成 FASTA，再运行 FindMotifs。
// 工作目录锁在写入任何文件之前获取，并保持到整个流程结束。
func (s *SamplerService) DiscoverMotifsFromSequenceSet(ctx context.Context, params models.DiscoverParams) (models.DiscoverOutput, error) {
	if params.SSRef == "" {
		return models.DiscoverOutput{}, fmt.Errorf("%w: SS_ref is required", ErrInvalidParams)
	}
	bg := backgroundGroup(params.BackgroundGroup)
	genomeRef := bg.GenomeRef
	if genomeRef == "" {
		genomeRef = params.GenomeRef
	}

	release, err := s.lockWorkdir(ctx)
	if err != nil {
		return models.DiscoverOutput{}, err
	}
	defer release()

	s.logProgress(ctx, models.StatusStaging, "Building FASTA from sequence set", map[string]interface{}{"SS_ref": params.SSRef})
	fasta, err := s.buildFasta(ctx, BuildFastaParams{
		WorkspaceName:  params.WorkspaceName,
		SequenceSetRef: params.SSRef,
		FastaOutPath:   s.opts.Layout.FastaPath(),
		GenomeRef:      genomeRef,
		Background:     bg.Background == 1,
		MaskRepeats:    params.MaskRepeats == 1,
		TestFlag:       params.TestFlag == 1,
	})
	if err != nil {
		return models.DiscoverOutput{}, err
	}

	return s.findMotifsLocked(ctx, FindMotifsParams{
		WorkspaceName: params.WorkspaceName,
		FastaPath:     fasta.FastaOutPath,
		MotifLength:   motifLength(params),
		SSRef:         params.SSRef,
		ObjName:       params.ObjName,
		Background:    bg.Background == 1,
	})
}

// DiscoverMotifsFromFasta 在已有的 FASTA 文件上运行 FindMotifs。
// mask_repeats 时屏蔽后的副本写到 Layout.FastaPath()，原文件不变。
func (s *SamplerService) DiscoverMotifsFromFasta(ctx context.Context, params DiscoverFastaParams) (models.DiscoverOutput, error) {
	if params.FastaPath == "" {
		return models.DiscoverOutput{}, fmt.Errorf("%w: fasta_path is required", ErrInvalidParams)
	}
	bg := backgroundGroup(params.BackgroundGroup)
	release, err := s.lockWorkdir(ctx)
	if err != nil {
		return models.DiscoverOutput{}, err
	}
	defer release()

	if bg.Background == 1 {
		s.logProgress(ctx, models.StatusStaging, "Staging background genome", nil)
		if _, err := s.stageBackground(ctx, bg.GenomeRef, params.TestFlag == 1); err != nil {
			return models.DiscoverOutput{}, err
		}
	}
	fastaPath := params.FastaPath
	if params.MaskRepeats == 1 {
		fastaPath = s.opts.Layout.FastaPath()
		if err := os.MkdirAll(filepath.Dir(fastaPath), 0o755); err != nil {
			return models.DiscoverOutput{}, err
		}
		if err := fastautil.MaskFile(params.FastaPath, fastaPath); err != nil {
			return models.DiscoverOutput{}, fmt.Errorf("mask repeats in %s: %w", params.FastaPath, err)
		}
	}
	return s.findMotifsLocked(ctx, FindMotifsParams{
		WorkspaceName: params.WorkspaceName,
		FastaPath:     fastaPath,
		MotifLength:   params.MotifLength,
		SSRef:         params.SSRef,
		ObjName:       params.ObjName,
		Background:    bg.Background == 1,
	})
}

func backgroundGroup(g *models.BackgroundGroup) models.BackgroundGroup {
	if g == nil {
		return models.BackgroundGroup{Background: 0}
	}
	return *g
}

// motifLength 优先使用 motif_length，其次是 motif_min_length；都未设置时返回 0，由配置决定。
func motifLength(p models.DiscoverParams) int {
	if p.MotifLength > 0 {
		return p.MotifLength
	}
	return p.MotifMinLength
}
