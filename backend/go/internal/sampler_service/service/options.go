package service

import (
	"MotifFinderSampler/backend/go/internal/config"
	"MotifFinderSampler/backend/go/internal/sampler"
)

// Options 是 SamplerService 的运行参数。
type Options struct {
	Layout           sampler.Layout
	ScratchDir       string
	MotifLength      int
	NumMotifs        int
	NumRuns          int
	BackgroundOrder  int
	ArchivePatterns  []string
	TestGenomePath   string
	HTMLWindowHeight int
	DefaultCondition string

	Version       string
	GitURL        string
	GitCommitHash string
}

// OptionsFromConfig 从应用配置构建 Options。
func OptionsFromConfig(cfg *config.AppConfig) Options {
	s := cfg.Sampler
	return Options{
		Layout:           sampler.Layout{BinDir: s.BinDir, WorkDir: s.WorkDir},
		ScratchDir:       s.ScratchDir,
		MotifLength:      s.MotifLength,
		NumMotifs:        s.NumMotifs,
		NumRuns:          s.NumRuns,
		BackgroundOrder:  s.BackgroundOrder,
		ArchivePatterns:  s.ArchivePatterns,
		TestGenomePath:   s.TestGenomePath,
		HTMLWindowHeight: s.HTMLWindowHeight,
		DefaultCondition: s.DefaultCondition,
		Version:          cfg.App.Version,
		GitURL:           cfg.App.GitURL,
		GitCommitHash:    cfg.App.GitCommitHash,
	}
}
