package models

import (
	"time"
)

// TaskStatus 定义了任务的几种可能状态
type TaskStatus string

const (
	TaskStatusPending TaskStatus = "pending"
	TaskStatusRunning TaskStatus = "running"
	TaskStatusSuccess TaskStatus = "success"
	TaskStatusFailed  TaskStatus = "failed"
)

// TaskRecord 代表一个持久化的 motif 发现任务记录
type TaskRecord struct {
	ID          string          `json:"id" bson:"_id"`                                     // 任务唯一ID (UUID string)
	UserID      string          `json:"user_id" bson:"user_id"`                            // 提交任务的用户ID
	Status      TaskStatus      `json:"status" bson:"status"`                              // 任务当前状态
	Payload     DiscoverParams  `json:"payload" bson:"payload"`                            // 任务的输入参数
	Result      *DiscoverOutput `json:"result,omitempty" bson:"result"`                    // 任务成功后的输出结果
	Error       string          `json:"error,omitempty" bson:"error"`                      // 任务失败时的错误信息
	SubmittedAt time.Time       `json:"submitted_at" bson:"submitted_at"`                  // 任务提交时间
	StartedAt   time.Time       `json:"started_at,omitempty" bson:"started_at,omitempty"`  // 任务开始执行时间
	CompletedAt time.Time       `json:"completed_at,omitempty" bson:"completed_at"`        // 任务完成时间
}

// BackgroundGroup 控制是否使用基因组构建背景模型。
type BackgroundGroup struct {
	Background int    `json:"background" bson:"background"`                       // 1 表示使用基因组背景
	GenomeRef  string `json:"genome_ref,omitempty" bson:"genome_ref,omitempty"` // 背景所用基因组引用
}

// DiscoverParams 是 DiscoverMotifsFromSequenceSet 的输入参数。
type DiscoverParams struct {
	WorkspaceName   string           `json:"workspace_name" bson:"workspace_name"`
	GenomeRef       string           `json:"genome_ref,omitempty" bson:"genome_ref,omitempty"`
	SSRef           string           `json:"SS_ref" bson:"SS_ref"`
	PromoterLength  int              `json:"promoter_length,omitempty" bson:"promoter_length,omitempty"`
	MotifMinLength  int              `json:"motif_min_length,omitempty" bson:"motif_min_length,omitempty"`
	MotifMaxLength  int              `json:"motif_max_length,omitempty" bson:"motif_max_length,omitempty"`
	MotifLength     int              `json:"motif_length,omitempty" bson:"motif_length,omitempty"`
	ObjName         string           `json:"obj_name" bson:"obj_name"`
	MaskRepeats     int              `json:"mask_repeats" bson:"mask_repeats"`
	BackgroundGroup *BackgroundGroup `json:"background_group,omitempty" bson:"background_group,omitempty"`
	TestFlag        int              `json:"TESTFLAG,omitempty" bson:"TESTFLAG,omitempty"`
}

// DiscoverOutput 是各个发现方法统一返回的报告信息。
type DiscoverOutput struct {
	ReportName  string `json:"report_name" bson:"report_name"`
	ReportRef   string `json:"report_ref" bson:"report_ref"`
	MotifSetRef string `json:"motif_set_ref,omitempty" bson:"motif_set_ref,omitempty"`
}
