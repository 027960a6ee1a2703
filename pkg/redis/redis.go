package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/alesxluffy/nlrpmdt-sub000/config"
)

// Client Redis 客户端封装
// 当前用于值勤状态缓存与 Webhook 速率限制；连接失败时上层以 nil 降级运行
type Client struct {
	rdb    *goredis.Client
	logger *zap.Logger
}

// NewClient 创建 Redis 连接并执行 Ping 健康检查
func NewClient(cfg *config.RedisConfig, logger *zap.Logger) (*Client, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("Redis 连接失败: %w", err)
	}

	logger.Info("Redis 连接成功", zap.String("addr", cfg.Addr))

	return &Client{rdb: rdb, logger: logger}, nil
}

// ── 值勤状态缓存 ──
//
// 快照的真实来源是事件日志，这里只是读路径的缓存；
// 缓存缺失或 Redis 故障时调用方必须回退到数据库

const dutyStatusPrefix = "duty:status:"

// DutyStatusEntry 按身份标识缓存的值勤状态
type DutyStatusEntry struct {
	Status         string    `json:"status"`
	LastActivityAt time.Time `json:"last_activity_at"`
}

// SetDutyStatus 写入身份标识的当前值勤状态
func (c *Client) SetDutyStatus(ctx context.Context, token string, entry *DutyStatusEntry, ttl time.Duration) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, dutyStatusPrefix+token, data, ttl).Err()
}

// GetDutyStatus 读取身份标识的当前值勤状态；缓存未命中返回 (nil, nil)
func (c *Client) GetDutyStatus(ctx context.Context, token string) (*DutyStatusEntry, error) {
	data, err := c.rdb.Get(ctx, dutyStatusPrefix+token).Bytes()
	if err == goredis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var entry DutyStatusEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

// ── 速率限制 ──

// CheckRateLimit 固定 key 的滑动窗口速率检查
// 返回 true 表示放行；采用 INCR + 首次设置过期的简化实现
func (c *Client) CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	n, err := c.rdb.Incr(ctx, key).Result()
	if err != nil {
		return false, err
	}
	if n == 1 {
		if err := c.rdb.Expire(ctx, key, window).Err(); err != nil {
			return false, err
		}
	}
	return n <= int64(limit), nil
}

// Close 关闭 Redis 连接
func (c *Client) Close() error {
	return c.rdb.Close()
}
