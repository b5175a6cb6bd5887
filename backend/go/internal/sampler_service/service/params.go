package service

import "MotifFinderSampler/backend/go/internal/models"

// BuildFastaParams 是 BuildFastaFromSequenceSet 的输入。
type BuildFastaParams struct {
	WorkspaceName  string `json:"workspace_name"`
	SequenceSetRef string `json:"SequenceSetRef"`
	FastaOutPath   string `json:"fasta_outpath"`
	GenomeRef      string `json:"genome_ref,omitempty"`
	Background     bool   `json:"background"`   // 从基因组构建背景模型
	MaskRepeats    bool   `json:"mask_repeats"` // 把小写碱基替换为 N
	TestFlag       bool   `json:"TESTFLAG"`     // 使用本地测试基因组代替 assembly 下载
}

// BuildFastaOutput 是 BuildFastaFromSequenceSet 的输出。
type BuildFastaOutput struct {
	FastaOutPath        string `json:"fasta_outpath"`
	SequenceCount       int    `json:"sequence_count"`
	BackgroundFastaPath string `json:"background_fasta_path,omitempty"`
}

// FindMotifsParams 是 FindMotifs 的输入。
type FindMotifsParams struct {
	WorkspaceName string `json:"workspace_name"`
	FastaPath     string `json:"fastapath"`
	MotifLength   int    `json:"motif_length"`
	SSRef         string `json:"SS_ref"`
	ObjName       string `json:"obj_name"`
	Background    bool   `json:"background"`
}

// UploadParams 是 UploadFromSampler 的输入。
type UploadParams struct {
	WorkspaceName  string `json:"ws_name"`
	OutputDir      string `json:"path"`
	ObjName        string `json:"obj_name"`
	SSRef          string `json:"SS_ref"`
	Condition      string `json:"condition,omitempty"`
	BackgroundPath string `json:"background_path,omitempty"` // CreateBackgroundModel 的输出
	FastaPath      string `json:"fasta_path,omitempty"`      // 背景文件不可用时用于统计碱基组成
}

// UploadOutput 是 UploadFromSampler 的输出。
type UploadOutput struct {
	ObjRef string `json:"obj_ref"`
}

// DiscoverFastaParams 是 DiscoverMotifsFromFasta 的输入。
type DiscoverFastaParams struct {
	WorkspaceName   string                  `json:"workspace_name"`
	FastaPath       string                  `json:"fasta_path"`
	MotifLength     int                     `json:"motif_length"`
	SSRef           string                  `json:"SS_ref"`
	ObjName         string                  `json:"obj_name"`
	BackgroundGroup *models.BackgroundGroup `json:"background_group,omitempty"`
	MaskRepeats     int                     `json:"mask_repeats"`
	TestFlag        int                     `json:"TESTFLAG,omitempty"`
}

// StatusOutput 是 Status 的返回值。
type StatusOutput struct {
	State         string `json:"state"`
	Message       string `json:"message"`
	Version       string `json:"version"`
	GitURL        string `json:"git_url"`
	GitCommitHash string `json:"git_commit_hash"`
}
