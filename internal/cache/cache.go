package cache

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"taiwan-lottery-bot/internal/logger"
	"taiwan-lottery-bot/internal/store"
)

// Store 缓存背后的存储读取面
type Store interface {
	GetLatestDraw(gameID string) (*store.DrawRow, error)
	GetLatestPredictions(gameID string, limit int) ([]store.PredictionRow, error)
	GetPredictionStats(gameID string) (*store.PredictionStats, error)
}

// Cache Bot查询面的TTL内存缓存
// 只缓存存储层的读结果；预测引擎的历史窗口从不缓存
type Cache struct {
	data  sync.Map
	store Store
	ttl   time.Duration
}

// item 缓存项
type item struct {
	value     interface{}
	expiresAt time.Time
}

func (it *item) expired() bool {
	return time.Now().After(it.expiresAt)
}

// New 创建缓存
func New(st Store, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = time.Minute
	}
	c := &Cache{store: st, ttl: ttl}
	go c.cleanup()
	logger.Info("Cache initialized")
	return c
}

// LatestDraw 某游戏最新一期开奖（缓存优先）
func (c *Cache) LatestDraw(gameID string) (*store.DrawRow, error) {
	key := "draw:" + gameID
	if cached, ok := c.get(key); ok {
		return cached.(*store.DrawRow), nil
	}
	row, err := c.store.GetLatestDraw(gameID)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, fmt.Errorf("no draw data for game: %s", gameID)
	}
	c.set(key, row)
	return row, nil
}

// LatestPredictions 某游戏最新预测记录（缓存优先）
func (c *Cache) LatestPredictions(gameID string, limit int) ([]store.PredictionRow, error) {
	key := fmt.Sprintf("predictions:%s:%d", gameID, limit)
	if cached, ok := c.get(key); ok {
		return cached.([]store.PredictionRow), nil
	}
	rows, err := c.store.GetLatestPredictions(gameID, limit)
	if err != nil {
		return nil, err
	}
	c.set(key, rows)
	return rows, nil
}

// Stats 某游戏的预测统计（缓存优先）
func (c *Cache) Stats(gameID string) (*store.PredictionStats, error) {
	key := "stats:" + gameID
	if cached, ok := c.get(key); ok {
		return cached.(*store.PredictionStats), nil
	}
	stats, err := c.store.GetPredictionStats(gameID)
	if err != nil {
		return nil, err
	}
	c.set(key, stats)
	return stats, nil
}

// InvalidateGame 新开奖或新预测后失效该游戏的全部缓存
func (c *Cache) InvalidateGame(gameID string) {
	c.data.Range(func(key, _ interface{}) bool {
		k := key.(string)
		if strings.HasSuffix(k, ":"+gameID) || strings.Contains(k, ":"+gameID+":") {
			c.data.Delete(key)
		}
		return true
	})
	logger.Debugf("Cache invalidated for game: %s", gameID)
}

func (c *Cache) get(key string) (interface{}, bool) {
	value, exists := c.data.Load(key)
	if !exists {
		return nil, false
	}
	it := value.(*item)
	if it.expired() {
		c.data.Delete(key)
		return nil, false
	}
	return it.value, true
}

func (c *Cache) set(key string, value interface{}) {
	c.data.Store(key, &item{
		value:     value,
		expiresAt: time.Now().Add(c.ttl),
	})
}

// cleanup 定期清理过期缓存
func (c *Cache) cleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		c.data.Range(func(key, value interface{}) bool {
			if value.(*item).expired() {
				c.data.Delete(key)
			}
			return true
		})
	}
}
