package health

import (
	"context"
	"errors"
	"testing"
)

// --- Mocks ---

type mockDBPinger struct {
	err error
}

func (m *mockDBPinger) Ping(_ context.Context) error { return m.err }

// --- Tests ---

func TestCheck_Healthy(t *testing.T) {
	svc := New(&mockDBPinger{}, "bolt")
	r := svc.Check(context.Background())

	if r.Status != Healthy {
		t.Errorf("expected %q, got %q", Healthy, r.Status)
	}
	if r.Checks["store:bolt"] != CheckOK {
		t.Errorf("expected store:bolt %q, got %q", CheckOK, r.Checks["store:bolt"])
	}
}

func TestCheck_StoreDown(t *testing.T) {
	svc := New(&mockDBPinger{err: errors.New("db down")}, "redis")
	r := svc.Check(context.Background())

	if r.Status != Degraded {
		t.Errorf("expected %q, got %q", Degraded, r.Status)
	}
	if r.Checks["store:redis"] != CheckError {
		t.Error("expected store error")
	}
}

func TestCheck_NoDriverName(t *testing.T) {
	r := New(&mockDBPinger{}, "").Check(context.Background())
	if _, ok := r.Checks["store"]; !ok {
		t.Errorf("checks = %v", r.Checks)
	}
}
