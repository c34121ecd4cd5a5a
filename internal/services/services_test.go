package services

import (
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/AnshRaj112/studio-backend/internal/database"
)

// setupRedis points database.RedisClient at an in-memory server.
func setupRedis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)

	prev := database.RedisClient
	database.RedisClient = redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		database.RedisClient.Close()
		database.RedisClient = prev
	})
	return mr
}

// newMockMongo returns a driver-level mock deployment. Each mt.Run subtest
// gets its own client whose replies are queued with AddMockResponses.
func newMockMongo(t *testing.T) *mtest.T {
	return mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
}

// useMockDB points database.DB at the subtest's mock database.
func useMockDB(mt *mtest.T) {
	prev := database.DB
	database.DB = mt.DB
	mt.Cleanup(func() { database.DB = prev })
}
