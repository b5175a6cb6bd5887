package store

import (
	"MotifFinderSampler/backend/go/internal/models"
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

var testCollections = map[string]string{
	models.MotifSetType: "motif_sets",
	models.ReportType:   "reports",
}

func TestWorkspaceStore(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()

	mt.Run("save then get", func(mt *mtest.T) {
		objects := NewWorkspaceStore(NewGormRegistry(newRegistryDB(mt.T)), mt.DB, testCollections)
		set := models.MotifSet{
			Condition:      "heat",
			SequenceSetRef: "5/1/1",
			Alphabet:       []string{"A", "C", "G", "T"},
			Background:     models.UniformBackground(),
			Motifs: []models.Motif{{
				IupacSequence: "ACGT",
				PWM:           models.Matrix{A: []float64{0.7}, C: []float64{0.1}, G: []float64{0.1}, T: []float64{0.1}},
				PFM:           models.EmptyMatrix(),
			}},
		}

		mt.AddMockResponses(mtest.CreateSuccessResponse())
		info, err := objects.SaveObject(ctx, "ws", "motifs", models.MotifSetType, set)
		require.NoError(mt, err)
		assert.Equal(mt, "1/1/1", info.Ref())

		started := mt.GetStartedEvent()
		require.NotNil(mt, started)
		require.Equal(mt, "insert", started.CommandName)
		var stored bson.D
		require.NoError(mt, bson.Unmarshal(started.Command.Lookup("documents").Array().Index(0).Value().Document(), &stored))

		mt.AddMockResponses(mtest.CreateCursorResponse(1, "test.motif_sets", mtest.FirstBatch, stored))
		var got models.MotifSet
		gotInfo, err := objects.GetObject(ctx, models.MotifSetType, info.Ref(), &got)
		require.NoError(mt, err)
		assert.Equal(mt, info.Ref(), gotInfo.Ref())
		assert.Equal(mt, "motifs", gotInfo.Name)
		if diff := cmp.Diff(set, got, cmpopts.EquateEmpty()); diff != "" {
			mt.Errorf("stored motif set mismatch (-want +got):\n%s", diff)
		}
	})

	mt.Run("unknown ref", func(mt *mtest.T) {
		objects := NewWorkspaceStore(NewGormRegistry(newRegistryDB(mt.T)), mt.DB, testCollections)

		var got models.MotifSet
		_, err := objects.GetObject(ctx, models.MotifSetType, "1/7/1", &got)
		assert.True(mt, errors.Is(err, ErrNotFound))
		assert.Nil(mt, mt.GetStartedEvent())
	})

	mt.Run("type mismatch", func(mt *mtest.T) {
		reg := NewGormRegistry(newRegistryDB(mt.T))
		objects := NewWorkspaceStore(reg, mt.DB, testCollections)
		_, err := reg.Reserve(ctx, "ws", "motifs", models.MotifSetType, nil)
		require.NoError(mt, err)

		var got models.Report
		_, err = objects.GetObject(ctx, models.ReportType, "1/1/1", &got)
		assert.True(mt, errors.Is(err, ErrNotFound))
		assert.Nil(mt, mt.GetStartedEvent())
	})

	mt.Run("registered but missing document", func(mt *mtest.T) {
		reg := NewGormRegistry(newRegistryDB(mt.T))
		objects := NewWorkspaceStore(reg, mt.DB, testCollections)
		_, err := reg.Reserve(ctx, "ws", "motifs", models.MotifSetType, nil)
		require.NoError(mt, err)

		mt.AddMockResponses(mtest.CreateCursorResponse(0, "test.motif_sets", mtest.FirstBatch))
		var got models.MotifSet
		_, err = objects.GetObject(ctx, models.MotifSetType, "1/1/1", &got)
		assert.True(mt, errors.Is(err, ErrNotFound))
	})

	mt.Run("malformed ref", func(mt *mtest.T) {
		objects := NewWorkspaceStore(NewGormRegistry(newRegistryDB(mt.T)), mt.DB, testCollections)

		var got models.MotifSet
		_, err := objects.GetObject(ctx, models.MotifSetType, "not-a-ref", &got)
		assert.Error(mt, err)
	})
}
