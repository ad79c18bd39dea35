package cache

import (
	"context"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

var client *redis.Client

// Init initializes the Redis connection. The server degrades gracefully when
// Redis is unavailable: every helper no-ops on a nil client.
func Init() error {
	// K8s sets REDIS_SERVICE_HOST and REDIS_SERVICE_PORT for services
	host := os.Getenv("REDIS_SERVICE_HOST")
	if host == "" {
		host = "redis" // fallback to service name
	}
	port := os.Getenv("REDIS_SERVICE_PORT")
	if port == "" {
		port = "6379"
	}

	client = redis.NewClient(&redis.Options{
		Addr:     host + ":" + port,
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		client = nil
		return err
	}
	return nil
}

// GetCached returns cached data for a key
func GetCached(ctx context.Context, key string) ([]byte, bool) {
	if client == nil {
		return nil, false
	}
	data, err := client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	return data, true
}

// SetCached stores data with a TTL
func SetCached(ctx context.Context, key string, data []byte, ttl time.Duration) {
	if client == nil {
		return
	}
	client.Set(ctx, key, data, ttl)
}

// InvalidatePattern removes all keys matching a glob pattern
func InvalidatePattern(ctx context.Context, pattern string) {
	if client == nil {
		return
	}
	keys, err := client.Keys(ctx, pattern).Result()
	if err == nil && len(keys) > 0 {
		client.Del(ctx, keys...)
	}
}

// InvalidateKeys removes specific cache keys
func InvalidateKeys(ctx context.Context, keys ...string) {
	if client == nil || len(keys) == 0 {
		return
	}
	client.Del(ctx, keys...)
}

// ============================================
// Entity-Based Cache Invalidators
// ============================================
// Keys are always tenant-scoped: "<entity>:<tenant_id>:...".

// InvalidateCustomerCaches clears customer lists and balances for a tenant.
// Called when: CreateCustomer, UpdateCustomer, DeleteCustomer, ledger posting,
// balance repair.
func InvalidateCustomerCaches(ctx context.Context, tenantID string) {
	InvalidatePattern(ctx, "customers:"+tenantID+":*")
	InvalidateKeys(ctx, "reconciliation:"+tenantID)
}

// InvalidateReconciliationCache clears a tenant's cached scan result.
// Called when: RepairBalance, any ledger posting.
func InvalidateReconciliationCache(ctx context.Context, tenantID string) {
	InvalidateKeys(ctx, "reconciliation:"+tenantID)
}

// InvalidateInventoryCaches clears cylinder views for a tenant.
// Called when: dispatch, delivery completion, handover submit/approve/reject,
// status changes.
func InvalidateInventoryCaches(ctx context.Context, tenantID string) {
	InvalidatePattern(ctx, "cylinders:"+tenantID+":*")
}

// InvalidateHandoverCaches clears pending-approval views for a tenant.
// Called when: SubmitHandover, ApproveHandover, RejectHandover.
func InvalidateHandoverCaches(ctx context.Context, tenantID string) {
	InvalidatePattern(ctx, "handovers:"+tenantID+":*")
	InvalidatePattern(ctx, "wallets:"+tenantID+":*")
}

// InvalidateOrderCaches clears order lists for a tenant.
// Called when: CreateOrder, BulkAssign, CompleteDelivery, CancelOrder.
func InvalidateOrderCaches(ctx context.Context, tenantID string) {
	InvalidatePattern(ctx, "orders:"+tenantID+":*")
}

// IsHealthy returns true if Redis connection is working
func IsHealthy() bool {
	if client == nil {
		return false
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return client.Ping(ctx).Err() == nil
}
