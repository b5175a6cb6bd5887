package service

import (
	"MotifFinderSampler/backend/go/internal/fastautil"
	"MotifFinderSampler/backend/go/internal/models"
	"MotifFinderSampler/backend/go/internal/report"
	"MotifFinderSampler/backend/go/internal/sampler"
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strconv"

	"github.com/google/uuid"
)

// reportNamePrefix 是扩展报告对象名的前缀。
const reportNamePrefix = "SamplerMotifFinder_report_"

// FindMotifs 在 FASTA 上运行 CreateBackgroundModel 和 MotifSampler，
// 保存 MotifSet，并生成带 HTML 包的扩展报告。
func (s *SamplerService) FindMotifs(ctx context.Context, params FindMotifsParams) (models.DiscoverOutput, error) {
	if params.WorkspaceName == "" || params.ObjName == "" {
		return models.DiscoverOutput{}, fmt.Errorf("%w: workspace_name and obj_name are required", ErrInvalidParams)
	}
	release, err := s.lockWorkdir(ctx)
	if err != nil {
		return models.DiscoverOutput{}, err
	}
	defer release()
	return s.findMotifsLocked(ctx, params)
}

// findMotifsLocked 要求调用方已持有工作目录锁。
func (s *SamplerService) findMotifsLocked(ctx context.Context, params FindMotifsParams) (models.DiscoverOutput, error) {
	if params.WorkspaceName == "" || params.ObjName == "" {
		return models.DiscoverOutput{}, fmt.Errorf("%w: workspace_name and obj_name are required", ErrInvalidParams)
	}
	if params.FastaPath == "" {
		params.FastaPath = s.opts.Layout.FastaPath()
	}
	width := params.MotifLength
	if width <= 0 {
		width = s.opts.MotifLength
	}
	log := s.taskLogger(ctx)

	layout := s.opts.Layout
	outDir := layout.OutDir()
	if err := os.RemoveAll(outDir); err != nil {
		return models.DiscoverOutput{}, fmt.Errorf("clear %s: %w", outDir, err)
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return models.DiscoverOutput{}, fmt.Errorf("create %s: %w", outDir, err)
	}
	started := s.now()

	bgSource := params.FastaPath
	if params.Background {
		if _, err := os.Stat(layout.BackgroundFastaPath()); err == nil {
			bgSource = layout.BackgroundFastaPath()
		} else {
			log.Warn("Genome background requested but not staged, using input sequences")
		}
	}

	s.logProgress(ctx, models.StatusRunning, "Building background model", map[string]interface{}{"source": filepath.Base(bgSource)})
	if err := s.runner.Run(ctx, sampler.BackgroundCommand(layout, bgSource, s.opts.BackgroundOrder)); err != nil {
		return models.DiscoverOutput{}, err
	}

	s.logProgress(ctx, models.StatusRunning, "Running MotifSampler", map[string]interface{}{"motif_length": width})
	cmd := sampler.SamplerCommand(layout, params.FastaPath, sampler.SamplerOptions{
		MotifLength: width,
		NumMotifs:   s.opts.NumMotifs,
		NumRuns:     s.opts.NumRuns,
	})
	if err := s.runner.Run(ctx, cmd); err != nil {
		return models.DiscoverOutput{}, err
	}
	if err := sampler.CheckFresh(started, layout.HitsPath(), layout.MatrixPath()); err != nil {
		return models.DiscoverOutput{}, err
	}

	s.logProgress(ctx, models.StatusParsing, "Parsing sampler output", nil)
	set, info, err := s.uploadMotifSet(ctx, UploadParams{
		WorkspaceName:  params.WorkspaceName,
		OutputDir:      outDir,
		ObjName:        params.ObjName,
		SSRef:          params.SSRef,
		BackgroundPath: layout.BackgroundModelPath(),
		FastaPath:      params.FastaPath,
	})
	if err != nil {
		return models.DiscoverOutput{}, err
	}
	objRef := info.Ref()
	if err := os.WriteFile(layout.ObjRefPath(), []byte(objRef), 0o644); err != nil {
		return models.DiscoverOutput{}, fmt.Errorf("write %s: %w", layout.ObjRefPath(), err)
	}

	s.logProgress(ctx, models.StatusReporting, "Building report", map[string]interface{}{"obj_ref": objRef})
	rep, err := s.buildReport(ctx, params, set, objRef)
	if err != nil {
		return models.DiscoverOutput{}, err
	}

	repInfo, err := s.workspace.SaveObject(ctx, params.WorkspaceName, rep.Name, models.ReportType, rep)
	if err != nil {
		return models.DiscoverOutput{}, fmt.Errorf("create report: %w", err)
	}

	out := models.DiscoverOutput{
		ReportName:  rep.Name,
		ReportRef:   repInfo.Ref(),
		MotifSetRef: objRef,
	}
	s.logProgress(ctx, models.StatusFinished, "Motif discovery finished", out)
	log.WithPayload(map[string]interface{}{
		"report_ref":    out.ReportRef,
		"motif_set_ref": objRef,
		"motifs":        len(set.Motifs),
	}).Info("Motif discovery finished")
	return out, nil
}

// buildReport 渲染 HTML 目录，上传压缩包和原始输出，返回待保存的报告对象。
func (s *SamplerService) buildReport(ctx context.Context, params FindMotifsParams, set *models.MotifSet, objRef string) (*models.Report, error) {
	name := reportNamePrefix + uuid.NewString()
	htmlDir := filepath.Join(s.opts.ScratchDir, "html"+strconv.FormatInt(s.now().UnixMilli(), 10))

	count, err := fastautil.CountRecords(params.FastaPath)
	if err != nil {
		return nil, fmt.Errorf("count sequences: %w", err)
	}
	bundle, err := report.Build(htmlDir, report.Input{
		FastaPath:     params.FastaPath,
		MotifSet:      set,
		MotifSetRef:   objRef,
		SequenceCount: count,
	})
	if err != nil {
		return nil, err
	}

	s.logProgress(ctx, models.StatusUploading, "Uploading report files", nil)
	prefix := path.Join("reports", name)

	htmlZip := filepath.Join(s.opts.ScratchDir, name+"_html.zip")
	if err := report.ZipDir(bundle.Dir, htmlZip); err != nil {
		return nil, fmt.Errorf("zip report: %w", err)
	}
	defer os.Remove(htmlZip)
	htmlKey, err := s.artifacts.UploadFile(ctx, prefix, htmlZip)
	if err != nil {
		return nil, err
	}

	rep := &models.Report{
		Name:      name,
		Workspace: params.WorkspaceName,
		Message:   bundle.Message,
		ObjectsCreated: []models.CreatedObject{
			{Ref: objRef, Description: "Motif set generated by MotifSampler"},
		},
		DirectHTMLLinkIndex: 0,
		HTMLLinks: []models.ReportLink{
			{HandleID: htmlKey, Name: report.IndexFile, Label: "MotifSampler results", Description: "HTML report"},
		},
		FileLinks:        []models.ReportLink{},
		HTMLWindowHeight: s.opts.HTMLWindowHeight,
		CreatedAt:        s.now().UTC(),
	}

	files, err := report.SelectFiles(s.opts.Layout.OutDir(), s.opts.ArchivePatterns)
	if err != nil {
		return nil, err
	}
	if len(files) > 0 {
		rawZip := filepath.Join(s.opts.ScratchDir, name+"_output.zip")
		if err := report.ZipFiles(s.opts.Layout.OutDir(), files, rawZip); err != nil {
			return nil, fmt.Errorf("zip sampler output: %w", err)
		}
		defer os.Remove(rawZip)
		rawKey, err := s.artifacts.UploadFile(ctx, prefix, rawZip)
		if err != nil {
			return nil, err
		}
		rep.FileLinks = append(rep.FileLinks, models.ReportLink{
			HandleID:    rawKey,
			Name:        filepath.Base(rawZip),
			Label:       "MotifSampler output",
			Description: "Raw MotifSampler output files",
		})
	}
	return rep, nil
}
