package cache

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taiwan-lottery-bot/internal/store"
)

// fakeStore 记录每次读取，用于验证缓存命中行为
type fakeStore struct {
	drawCalls  int
	predCalls  int
	statsCalls int
	draw       *store.DrawRow
	err        error
}

func (fs *fakeStore) GetLatestDraw(gameID string) (*store.DrawRow, error) {
	fs.drawCalls++
	return fs.draw, fs.err
}

func (fs *fakeStore) GetLatestPredictions(gameID string, limit int) ([]store.PredictionRow, error) {
	fs.predCalls++
	if fs.err != nil {
		return nil, fs.err
	}
	return []store.PredictionRow{{GameID: gameID, PredictedNumbers: "1+2+3"}}, nil
}

func (fs *fakeStore) GetPredictionStats(gameID string) (*store.PredictionStats, error) {
	fs.statsCalls++
	if fs.err != nil {
		return nil, fs.err
	}
	return &store.PredictionStats{GameID: gameID, TotalPredictions: 5}, nil
}

func TestLatestDrawCachesResult(t *testing.T) {
	fs := &fakeStore{draw: &store.DrawRow{GameID: "lotto649", Period: "114000001", Numbers: "1+2+3+4+5+6"}}
	c := New(fs, time.Minute)

	first, err := c.LatestDraw("lotto649")
	require.NoError(t, err)
	second, err := c.LatestDraw("lotto649")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, fs.drawCalls, "the second read must come from cache")
}

func TestLatestDrawMissingData(t *testing.T) {
	c := New(&fakeStore{}, time.Minute)

	_, err := c.LatestDraw("lotto649")
	assert.Error(t, err, "a game with no draw data is an error, not a cached nil")
}

func TestStoreErrorsNotCached(t *testing.T) {
	fs := &fakeStore{err: errors.New("db offline")}
	c := New(fs, time.Minute)

	_, err := c.Stats("lotto649")
	require.Error(t, err)
	_, err = c.Stats("lotto649")
	require.Error(t, err)
	assert.Equal(t, 2, fs.statsCalls, "errors must not be cached")
}

func TestExpiredEntryRefetched(t *testing.T) {
	fs := &fakeStore{draw: &store.DrawRow{GameID: "dailycash", Period: "114000001", Numbers: "1+2+3+4+5"}}
	c := New(fs, time.Millisecond)

	_, err := c.LatestDraw("dailycash")
	require.NoError(t, err)

	time.Sleep(5 * time.Millisecond)

	_, err = c.LatestDraw("dailycash")
	require.NoError(t, err)
	assert.Equal(t, 2, fs.drawCalls)
}

func TestInvalidateGame(t *testing.T) {
	fs := &fakeStore{draw: &store.DrawRow{GameID: "lotto649", Period: "114000001", Numbers: "1+2+3+4+5+6"}}
	c := New(fs, time.Minute)

	_, err := c.LatestDraw("lotto649")
	require.NoError(t, err)
	_, err = c.LatestPredictions("lotto649", 5)
	require.NoError(t, err)
	_, err = c.Stats("lotto649")
	require.NoError(t, err)

	c.InvalidateGame("lotto649")

	_, err = c.LatestDraw("lotto649")
	require.NoError(t, err)
	_, err = c.LatestPredictions("lotto649", 5)
	require.NoError(t, err)
	_, err = c.Stats("lotto649")
	require.NoError(t, err)

	assert.Equal(t, 2, fs.drawCalls)
	assert.Equal(t, 2, fs.predCalls)
	assert.Equal(t, 2, fs.statsCalls)
}
