package cache

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// EventCapacityCache 快取每個活動最近一次 commit 後的剩餘名額。
// 只作為快速拒絕已滿活動的參考值，扣減名額一律以資料庫的條件式更新為準。
type EventCapacityCache interface {
	// SetCapacityLeft 寫入剩餘名額；capacityLeft 為 nil（不限人數）時移除 key
	SetCapacityLeft(ctx context.Context, eventID int, capacityLeft *int) error
	// GetCapacityLeft 讀取剩餘名額；未快取或不限人數時 ok 為 false
	GetCapacityLeft(ctx context.Context, eventID int) (int, bool, error)
	Invalidate(ctx context.Context, eventID int) error
}

type EventCapacityCacheImpl struct {
	client *redis.Client
}

func NewEventCapacityCache(client *redis.Client) EventCapacityCache {
	return &EventCapacityCacheImpl{
		client: client,
	}
}

func (c *EventCapacityCacheImpl) getCapacityKey(eventID int) string {
	return fmt.Sprintf("event:%d:capacity_left", eventID)
}

func (c *EventCapacityCacheImpl) SetCapacityLeft(ctx context.Context, eventID int, capacityLeft *int) error {
	key := c.getCapacityKey(eventID)
	if capacityLeft == nil {
		return c.client.Del(ctx, key).Err()
	}
	return c.client.Set(ctx, key, *capacityLeft, 0).Err()
}

func (c *EventCapacityCacheImpl) GetCapacityLeft(ctx context.Context, eventID int) (int, bool, error) {
	key := c.getCapacityKey(eventID)
	val, err := c.client.Get(ctx, key).Int()
	if err == redis.Nil {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return val, true, nil
}

func (c *EventCapacityCacheImpl) Invalidate(ctx context.Context, eventID int) error {
	return c.client.Del(ctx, c.getCapacityKey(eventID)).Err()
}
