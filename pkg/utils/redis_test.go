package utils

import (
	"context"
	"testing"
	"time"
)

func TestRedisConfig_Defaults(t *testing.T) {
	cfg := RedisConfig{Addr: "localhost:6379"}.withDefaults()

	if cfg.DialTimeout != 3*time.Second {
		t.Fatalf("unexpected dial timeout %v", cfg.DialTimeout)
	}
	if cfg.PoolSize != 20 {
		t.Fatalf("unexpected pool size %d", cfg.PoolSize)
	}
	if cfg.PingTimeout != 2*time.Second {
		t.Fatalf("unexpected ping timeout %v", cfg.PingTimeout)
	}
}

func TestRedisConfig_ExplicitValuesKept(t *testing.T) {
	cfg := RedisConfig{Addr: "x", PoolSize: 5, ReadTimeout: time.Second}.withDefaults()
	if cfg.PoolSize != 5 || cfg.ReadTimeout != time.Second {
		t.Fatalf("explicit values overridden: %+v", cfg)
	}
}

func TestOpenRedis_RequiresAddr(t *testing.T) {
	if _, err := OpenRedis(context.Background(), RedisConfig{}); err == nil {
		t.Fatalf("expected error for missing addr")
	}
}
