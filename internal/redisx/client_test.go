package redisx

import (
	"testing"
	"time"
)

func TestNewAppliesCommandTimeout(t *testing.T) {
	c := New("localhost:6379")
	opt := c.Options()
	if opt.ReadTimeout != 2*time.Second {
		t.Fatalf("read timeout = %s, want 2s", opt.ReadTimeout)
	}
	if opt.WriteTimeout != 2*time.Second {
		t.Fatalf("write timeout = %s, want 2s", opt.WriteTimeout)
	}
}
