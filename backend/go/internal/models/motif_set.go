package models

// MotifSetType 是持久化 MotifSet 对象时使用的类型名称。
const MotifSetType = "KBaseGeneRegulation.MotifSet"

// DNAAlphabet 是 MotifSet 使用的固定有序字母表。
var DNAAlphabet = []string{"A", "C", "G", "T"}

// MotifSet 是一次 motif 发现的完整结果。
type MotifSet struct {
	Condition      string     `json:"Condition" bson:"Condition"`             // 条件标签
	SequenceSetRef string     `json:"SequenceSet_ref" bson:"SequenceSet_ref"` // 来源序列集的引用
	Alphabet       []string   `json:"Alphabet" bson:"Alphabet"`               // 字母表，固定为 A/C/G/T
	Background     Background `json:"Background" bson:"Background"`           // 背景分布
	Motifs         []Motif    `json:"Motifs" bson:"Motifs"`                   // 按文件顺序排列的 motif 列表
}

// Background 是字母表上的背景概率分布。
// 使用结构体而不是 map，保证序列化后的字段顺序稳定。
type Background struct {
	A float64 `json:"A" bson:"A"`
	C float64 `json:"C" bson:"C"`
	G float64 `json:"G" bson:"G"`
	T float64 `json:"T" bson:"T"`
}

// Sum 返回四个概率之和。
func (b Background) Sum() float64 {
	return b.A + b.C + b.G + b.T
}

// Normalize 返回归一化后的分布；若总和为 0，返回均匀分布。
func (b Background) Normalize() Background {
	sum := b.Sum()
	if sum <= 0 {
		return UniformBackground()
	}
	return Background{A: b.A / sum, C: b.C / sum, G: b.G / sum, T: b.T / sum}
}

// UniformBackground 返回均匀背景分布。
func UniformBackground() Background {
	return Background{A: 0.25, C: 0.25, G: 0.25, T: 0.25}
}

// Motif 是一个被发现的 motif。
type Motif struct {
	IupacSequence string          `json:"Iupac_sequence" bson:"Iupac_sequence"`   // IUPAC 共识序列
	PWM           Matrix          `json:"PWM" bson:"PWM"`                         // 位置权重矩阵
	PFM           Matrix          `json:"PFM" bson:"PFM"`                         // 位置频率矩阵，上游未实现，始终为空
	Locations     []MotifLocation `json:"Motif_Locations" bson:"Motif_Locations"` // 命中位置，按文件出现顺序
}

// Matrix 是 PWM/PFM 的统一表示：每个碱基对应一个按位置排列的分数序列。
type Matrix struct {
	A []float64 `json:"A" bson:"A"`
	C []float64 `json:"C" bson:"C"`
	G []float64 `json:"G" bson:"G"`
	T []float64 `json:"T" bson:"T"`
}

// EmptyMatrix 返回四列都为空（非 nil）的矩阵。
func EmptyMatrix() Matrix {
	return Matrix{A: []float64{}, C: []float64{}, G: []float64{}, T: []float64{}}
}

// Width 返回矩阵的 motif 宽度。四列长度不一致时返回 -1。
func (m Matrix) Width() int {
	w := len(m.A)
	if len(m.C) != w || len(m.G) != w || len(m.T) != w {
		return -1
	}
	return w
}

// Column 按字母表符号返回对应的分数序列。
func (m Matrix) Column(symbol string) []float64 {
	switch symbol {
	case "A":
		return m.A
	case "C":
		return m.C
	case "G":
		return m.G
	case "T":
		return m.T
	}
	return nil
}

// MotifLocation 是 motif 的一次出现。
type MotifLocation struct {
	SequenceID  string `json:"sequence_id" bson:"sequence_id"`
	Start       int    `json:"start" bson:"start"` // 1-based
	End         int    `json:"end" bson:"end"`     // 1-based
	Sequence    string `json:"sequence" bson:"sequence"`
	Orientation string `json:"orientation" bson:"orientation"` // "+" 或 "-"
}
