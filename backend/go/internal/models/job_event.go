package models

// JobEventType 区分推送给订阅者的事件类型。
type JobEventType string

const (
	JobEventResult   JobEventType = "result"
	JobEventProgress JobEventType = "progress"
)

// JobEvent 是通过 websocket 推送给任务提交者的消息。
type JobEvent struct {
	Type     JobEventType  `json:"type"`
	Task     *TaskRecord   `json:"task,omitempty"`
	Progress *TaskLogEntry `json:"progress,omitempty"`
}
