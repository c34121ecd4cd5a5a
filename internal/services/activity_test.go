package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/AnshRaj112/studio-backend/internal/models"
)

const activityNS = "test." + activityCollection

func TestListActivity(t *testing.T) {
	mt := newMockMongo(t)
	first := time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC)

	mt.Run("decodes timeline", func(mt *mtest.T) {
		useMockDB(mt)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, activityNS, mtest.FirstBatch,
			bson.D{
				{Key: "_id", Value: primitive.NewObjectID()},
				{Key: "created_at", Value: first},
				{Key: "request_id", Value: "req-1"},
				{Key: "actor", Value: "client:c-1"},
				{Key: "action", Value: models.ActivityCreated},
			},
			bson.D{
				{Key: "_id", Value: primitive.NewObjectID()},
				{Key: "created_at", Value: first.Add(time.Hour)},
				{Key: "request_id", Value: "req-1"},
				{Key: "actor", Value: "admin:a-1"},
				{Key: "action", Value: models.ActivityStatusChanged},
				{Key: "from", Value: "pending"},
				{Key: "to", Value: "in_progress"},
			},
		))

		entries, err := ListActivity(context.Background(), "req-1")
		require.NoError(mt, err)
		require.Len(mt, entries, 2)
		assert.Equal(mt, models.ActivityCreated, entries[0].Action)
		assert.True(mt, first.Equal(entries[0].CreatedAt))
		assert.Equal(mt, "pending", entries[1].From)
		assert.Equal(mt, "in_progress", entries[1].To)
	})

	mt.Run("no entries", func(mt *mtest.T) {
		useMockDB(mt)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, activityNS, mtest.FirstBatch))

		entries, err := ListActivity(context.Background(), "req-2")
		require.NoError(mt, err)
		assert.Empty(mt, entries)
		assert.NotNil(mt, entries)
	})
}

func TestRecordActivity(t *testing.T) {
	mt := newMockMongo(t)

	mt.Run("stamps id and time", func(mt *mtest.T) {
		useMockDB(mt)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		a := &models.RequestActivity{RequestID: "req-1", Action: models.ActivityEstimated}
		require.NoError(mt, RecordActivity(context.Background(), a))
		assert.False(mt, a.ID.IsZero())
		assert.WithinDuration(mt, time.Now(), a.CreatedAt, time.Minute)
	})

	mt.Run("insert failure", func(mt *mtest.T) {
		useMockDB(mt)
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{Index: 0, Code: 2, Message: "bad value"}))

		err := RecordActivity(context.Background(), &models.RequestActivity{RequestID: "req-1"})
		assert.Error(mt, err)
	})
}
