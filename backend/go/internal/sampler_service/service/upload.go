package service

import (
	"MotifFinderSampler/backend/go/internal/fastautil"
	"MotifFinderSampler/backend/go/internal/models"
	"MotifFinderSampler/backend/go/internal/sampler"
	"context"
	"fmt"
)

// UploadFromSampler 解析输出目录并把结果保存为 MotifSet 对象。
func (s *SamplerService) UploadFromSampler(ctx context.Context, params UploadParams) (UploadOutput, error) {
	_, info, err := s.uploadMotifSet(ctx, params)
	if err != nil {
		return UploadOutput{}, err
	}
	return UploadOutput{ObjRef: info.Ref()}, nil
}

func (s *SamplerService) uploadMotifSet(ctx context.Context, params UploadParams) (*models.MotifSet, models.ObjectInfo, error) {
	if params.WorkspaceName == "" || params.ObjName == "" {
		return nil, models.ObjectInfo{}, fmt.Errorf("%w: ws_name and obj_name are required", ErrInvalidParams)
	}
	if params.OutputDir == "" {
		params.OutputDir = s.opts.Layout.OutDir()
	}
	condition := params.Condition
	if condition == "" {
		condition = s.opts.DefaultCondition
	}

	bg := s.resolveBackground(ctx, params)
	set, err := sampler.ParseOutput(params.OutputDir, sampler.ParseOptions{
		Condition:      condition,
		SequenceSetRef: params.SSRef,
		Background:     bg,
	})
	if err != nil {
		return nil, models.ObjectInfo{}, err
	}

	info, err := s.workspace.SaveObject(ctx, params.WorkspaceName, params.ObjName, models.MotifSetType, set)
	if err != nil {
		return nil, models.ObjectInfo{}, fmt.Errorf("save motif set: %w", err)
	}
	s.taskLogger(ctx).WithPayload(map[string]interface{}{
		"obj_ref": info.Ref(),
		"motifs":  len(set.Motifs),
	}).Info("Motif set saved")
	return set, info, nil
}

// resolveBackground 依次尝试工具生成的背景模型和 FASTA 碱基组成，都不可用时返回 nil（均匀分布）。
func (s *SamplerService) resolveBackground(ctx context.Context, params UploadParams) *models.Background {
	log := s.taskLogger(ctx)
	if params.BackgroundPath != "" {
		bg, err := sampler.ReadBackgroundFile(params.BackgroundPath)
		if err == nil {
			return &bg
		}
		log.WithError(models.ErrorInfo{Message: err.Error()}).Warn("Background model unusable, falling back")
	}
	if params.FastaPath != "" {
		bg, err := fastautil.CompositionFile(params.FastaPath)
		if err == nil {
			return &bg
		}
		log.WithError(models.ErrorInfo{Message: err.Error()}).Warn("FASTA composition unavailable, using uniform background")
	}
	return nil
}
