// Package fastautil 提供 FASTA 文件的读写、重复序列屏蔽和碱基组成统计
package fastautil

import (
	"MotifFinderSampler/backend/go/internal/models"
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode"
)

// ErrEmptySequenceSet 表示序列集中没有任何序列
var ErrEmptySequenceSet = errors.New("sequence set has no sequences")

// Record 表示一条 FASTA 记录
type Record struct {
	ID          string // '>' 之后第一个空白前的部分
	Description string // 标题行剩余部分
	Sequence    string
}

// Parse 读取 FASTA 记录。以 '>' 开头的行是标题，其余非空行拼接为序列。
// 第一个标题之前的序列行会被忽略。
func Parse(r io.Reader) ([]Record, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 64*1024*1024)

	var records []Record
	var cur *Record
	var seq strings.Builder
	flush := func() {
		if cur != nil {
			cur.Sequence = seq.String()
			records = append(records, *cur)
		}
		seq.Reset()
	}

	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		if strings.HasPrefix(line, ">") {
			flush()
			id, desc := splitHeader(line[1:])
			cur = &Record{ID: id, Description: desc}
			continue
		}
		if cur == nil {
			continue
		}
		seq.WriteString(strings.TrimSpace(line))
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read fasta: %w", err)
	}
	flush()
	return records, nil
}

// ReadFile 解析 path 指向的 FASTA 文件
func ReadFile(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f)
}

func splitHeader(h string) (string, string) {
	h = strings.TrimSpace(h)
	if i := strings.IndexFunc(h, unicode.IsSpace); i >= 0 {
		return h[:i], strings.TrimSpace(h[i:])
	}
	return h, ""
}

// WriteSequenceSet 以 ">id\nseq\n" 的格式写出序列集，返回写出的记录数
func WriteSequenceSet(w io.Writer, set *models.SequenceSet, mask bool) (int, error) {
	if set == nil || len(set.Sequences) == 0 {
		return 0, ErrEmptySequenceSet
	}
	bw := bufio.NewWriter(w)
	for _, s := range set.Sequences {
		seq := s.Sequence
		if mask {
			seq = MaskRepeats(seq)
		}
		if _, err := fmt.Fprintf(bw, ">%s\n%s\n", s.SequenceID, seq); err != nil {
			return 0, err
		}
	}
	if err := bw.Flush(); err != nil {
		return 0, err
	}
	return len(set.Sequences), nil
}

// WriteSequenceSetFile 将序列集写入 path，必要时创建父目录
func WriteSequenceSetFile(path string, set *models.SequenceSet, mask bool) (int, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return 0, err
	}
	f, err := os.Create(path)
	if err != nil {
		return 0, err
	}
	n, err := WriteSequenceSet(f, set, mask)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return 0, fmt.Errorf("write %s: %w", path, err)
	}
	return n, nil
}

// MaskRepeats 把软屏蔽（小写）的碱基替换为 N
func MaskRepeats(seq string) string {
	return strings.Map(func(r rune) rune {
		if r >= 'a' && r <= 'z' {
			return 'N'
		}
		return r
	}, seq)
}

// MaskFile 逐行屏蔽 src 中的重复序列并写入 dst，标题行保持不变。
// src 与 dst 可以相同。
func MaskFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(dst), ".mask-*")
	if err != nil {
		in.Close()
		return err
	}
	defer os.Remove(tmp.Name())

	sc := bufio.NewScanner(in)
	sc.Buffer(make([]byte, 0, 64*1024), 64*1024*1024)
	bw := bufio.NewWriter(tmp)
	for sc.Scan() {
		line := sc.Text()
		if !strings.HasPrefix(line, ">") {
			line = MaskRepeats(line)
		}
		bw.WriteString(line)
		bw.WriteByte('\n')
	}
	in.Close()
	if err := sc.Err(); err != nil {
		tmp.Close()
		return fmt.Errorf("read %s: %w", src, err)
	}
	if err := bw.Flush(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), dst)
}

// Composition 统计所有序列行中 A/C/G/T 的频率（不区分大小写），结果归一化。
// 不含任何 ACGT 碱基时返回均匀分布。
func Composition(r io.Reader) (models.Background, error) {
	var counts [4]float64
	br := bufio.NewReader(r)
	header := false
	atLineStart := true
	for {
		b, err := br.ReadByte()
		if err == io.EOF {
			break
		}
		if err != nil {
			return models.Background{}, fmt.Errorf("read fasta: %w", err)
		}
		if atLineStart {
			header = b == '>'
		}
		atLineStart = b == '\n'
		if header {
			continue
		}
		switch b {
		case 'A', 'a':
			counts[0]++
		case 'C', 'c':
			counts[1]++
		case 'G', 'g':
			counts[2]++
		case 'T', 't':
			counts[3]++
		}
	}
	bg := models.Background{A: counts[0], C: counts[1], G: counts[2], T: counts[3]}
	return bg.Normalize(), nil
}

// CompositionFile 计算 path 的碱基组成
func CompositionFile(path string) (models.Background, error) {
	f, err := os.Open(path)
	if err != nil {
		return models.Background{}, err
	}
	defer f.Close()
	return Composition(f)
}

// CountRecords 返回文件中的 FASTA 记录数
func CountRecords(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 64*1024*1024)
	n := 0
	for sc.Scan() {
		if strings.HasPrefix(sc.Text(), ">") {
			n++
		}
	}
	return n, sc.Err()
}
