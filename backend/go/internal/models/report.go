package models

import "time"

// ReportType 是报告对象的类型名称。
const ReportType = "KBaseReport.Report"

// CreatedObject 记录了一次运行中生成的对象。
type CreatedObject struct {
	Ref         string `json:"ref" bson:"ref"`
	Description string `json:"description" bson:"description"`
}

// ReportLink 指向已上传到对象存储的报告文件（HTML 包或下载文件）。
type ReportLink struct {
	HandleID    string `json:"shock_id" bson:"shock_id"` // 对象存储中的 key
	Name        string `json:"name" bson:"name"`
	Label       string `json:"label" bson:"label"`
	Description string `json:"description,omitempty" bson:"description,omitempty"`
}

// Report 是扩展报告对象。
type Report struct {
	Name                string          `json:"report_object_name" bson:"report_object_name"`
	Workspace           string          `json:"workspace_name" bson:"workspace_name"`
	Message             string          `json:"message" bson:"message"`
	ObjectsCreated      []CreatedObject `json:"objects_created" bson:"objects_created"`
	DirectHTML          string          `json:"direct_html" bson:"direct_html"`
	DirectHTMLLinkIndex int             `json:"direct_html_link_index" bson:"direct_html_link_index"`
	HTMLLinks           []ReportLink    `json:"html_links" bson:"html_links"`
	FileLinks           []ReportLink    `json:"file_links" bson:"file_links"`
	HTMLWindowHeight    int             `json:"html_window_height" bson:"html_window_height"`
	CreatedAt           time.Time       `json:"created_at" bson:"created_at"`
}

// ReportInfo 是创建报告后返回的名称和引用。
type ReportInfo struct {
	Name string `json:"name"`
	Ref  string `json:"ref"`
}
