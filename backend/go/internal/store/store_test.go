package store

import (
	"MotifFinderSampler/backend/go/internal/config"
	"MotifFinderSampler/backend/go/internal/models"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAssemblyKey(t *testing.T) {
	assert.Equal(t, "12_3_1.fa", AssemblyKey("12/3/1"))
	assert.Equal(t, "12_3_1.fa", AssemblyKey("/12/3/1/"))
	assert.Equal(t, "genome.fa", AssemblyKey("genome"))
}

func TestLockKey(t *testing.T) {
	assert.Equal(t, "sampler:workdir:/kb/module/work/tmp", LockKey("/kb/module/work/tmp"))
}

func TestRegistryModels(t *testing.T) {
	tables := []string{}
	for _, m := range RegistryModels() {
		switch v := m.(type) {
		case *WorkspaceRow:
			tables = append(tables, v.TableName())
		case *ObjectVersionRow:
			tables = append(tables, v.TableName())
		}
	}
	assert.Equal(t, []string{"workspaces", "object_versions"}, tables)
}

func TestRowToInfo(t *testing.T) {
	saved := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	info := rowToInfo(ObjectVersionRow{
		WorkspaceID: 4,
		ObjectID:    9,
		Version:     2,
		Name:        "motifs",
		Type:        models.MotifSetType,
		SavedAt:     saved,
	}, "my_ws")

	assert.Equal(t, "4/9/2", info.Ref())
	assert.Equal(t, "my_ws", info.Workspace)
	assert.Equal(t, models.MotifSetType, info.Type)
	assert.Equal(t, saved, info.SavedAt)
}

func TestCollections(t *testing.T) {
	cols := Collections(&config.SamplerConfig{SequenceSetColl: "ss", MotifSetColl: "ms", ReportColl: "rp"})
	assert.Equal(t, map[string]string{
		models.SequenceSetType: "ss",
		models.MotifSetType:    "ms",
		models.ReportType:      "rp",
	}, cols)
}
