package models

// SequenceSetType 是序列集对象的类型名称。
const SequenceSetType = "KBaseSequences.SequenceSet"

// SequenceSet 是一组待分析的生物序列（通常是启动子区域）。
type SequenceSet struct {
	ID          string     `json:"sequence_set_id" bson:"sequence_set_id"`
	Description string     `json:"description" bson:"description"`
	Sequences   []Sequence `json:"sequences" bson:"sequences"`
}

// Sequence 是序列集中的一条序列。
type Sequence struct {
	SequenceID  string `json:"sequence_id" bson:"sequence_id"`
	Description string `json:"description,omitempty" bson:"description,omitempty"`
	Sequence    string `json:"sequence" bson:"sequence"`
}
