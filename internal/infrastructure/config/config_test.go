package config

import (
	"context"
	"reflect"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
)

func TestLoadFrom_Defaults(t *testing.T) {
	cfg, err := LoadFrom(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET": "s3cret",
	}))
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}

	if cfg.Port != "8080" || cfg.StoreDriver != StoreMongo {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.JWT.ExpiresIn != 600*time.Second {
		t.Fatalf("expected 600s default expiry, got %v", cfg.JWT.ExpiresIn)
	}
	if !reflect.DeepEqual(cfg.SeedRoles, []string{"admin", "user"}) {
		t.Fatalf("unexpected seed roles: %v", cfg.SeedRoles)
	}
	if cfg.Redis.Addr != "" {
		t.Fatalf("expected role cache disabled by default")
	}

	tc := cfg.TokenConfig()
	if string(tc.Secret) != "s3cret" || tc.TTL != 600*time.Second {
		t.Fatalf("unexpected token config: %+v", tc)
	}
}

func TestLoadFrom_RequiresSecret(t *testing.T) {
	if _, err := LoadFrom(context.Background(), envconfig.MapLookuper(map[string]string{})); err == nil {
		t.Fatalf("expected error without JWT_SECRET")
	}
}

func TestLoadFrom_Overrides(t *testing.T) {
	cfg, err := LoadFrom(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET":     "s",
		"JWT_EXPIRES_IN": "15m",
		"STORE_DRIVER":   "postgres",
		"REDIS_ADDR":     "localhost:6379",
		"SEED_ROLES":     "admin,user,auditor",
	}))
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.JWT.ExpiresIn != 15*time.Minute || cfg.StoreDriver != StorePostgres || cfg.Redis.Addr != "localhost:6379" {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	if len(cfg.SeedRoles) != 3 {
		t.Fatalf("expected 3 seed roles, got %v", cfg.SeedRoles)
	}
}

func TestLoadFrom_RejectsUnknownDriver(t *testing.T) {
	_, err := LoadFrom(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET":   "s",
		"STORE_DRIVER": "sqlite",
	}))
	if err == nil {
		t.Fatalf("expected error for unsupported driver")
	}
}
