package drivers

import (
	"context"
	"path/filepath"
	"testing"

	"go.uber.org/zap"
)

func TestOpen_LocalDrivers(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name string
		cfg  Config
	}{
		{"memory", Config{Driver: Memory}},
		{"default is memory", Config{}},
		{"bolt", Config{Driver: Bolt, Path: filepath.Join(dir, "t.db")}},
		{"badger", Config{Driver: Badger, Path: filepath.Join(dir, "badger")}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s, err := Open(tc.cfg, zap.NewNop())
			if err != nil {
				t.Fatalf("Open: %v", err)
			}
			defer s.Close()
			ctx := context.Background()
			if err := s.Set(ctx, "k", []byte("v")); err != nil {
				t.Fatalf("Set: %v", err)
			}
			if got, err := s.Get(ctx, "k"); err != nil || string(got) != "v" {
				t.Fatalf("Get = %q, %v", got, err)
			}
		})
	}
}

func TestOpen_Errors(t *testing.T) {
	for _, cfg := range []Config{
		{Driver: "sqlite"},
		{Driver: Redis},
		{Driver: Bolt},
	} {
		if _, err := Open(cfg, nil); err == nil {
			t.Errorf("Open(%+v): expected error", cfg)
		}
	}
}
