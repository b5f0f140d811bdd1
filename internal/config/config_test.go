package config

import (
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"HTTP_ADDR", "POSTGRES_DSN", "REDIS_ADDR", "KAFKA_BROKERS", "SERVICE_NAME",
		"APOTEK_BASE_URL", "HOSPITAL_BASE_URL", "STATISTICS_BASE_URL", "HTTP_CLIENT_TIMEOUT",
	} {
		t.Setenv(k, "")
	}
}

func TestDefaults(t *testing.T) {
	clearEnv(t)

	a := LoadApotek()
	if a.HTTPAddr != ":3002" || a.ServiceName != "apotek-service" {
		t.Errorf("apotek defaults: %+v", a)
	}
	h := LoadHospital()
	if h.HTTPAddr != ":3001" || h.ServiceName != "hospital-service" {
		t.Errorf("hospital defaults: %+v", h)
	}
	if h.HTTPClientTimeout != 10*time.Second {
		t.Errorf("timeout = %v", h.HTTPClientTimeout)
	}
	if len(h.KafkaBrokers) != 1 || h.KafkaBrokers[0] != "kafka:9092" {
		t.Errorf("brokers = %v", h.KafkaBrokers)
	}
}

func TestOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("HTTP_ADDR", ":9000")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092 ,")
	t.Setenv("HTTP_CLIENT_TIMEOUT", "3s")

	c := LoadApotek()
	if c.HTTPAddr != ":9000" {
		t.Errorf("addr = %q", c.HTTPAddr)
	}
	if len(c.KafkaBrokers) != 2 || c.KafkaBrokers[0] != "k1:9092" || c.KafkaBrokers[1] != "k2:9092" {
		t.Errorf("brokers = %v", c.KafkaBrokers)
	}
	if c.HTTPClientTimeout != 3*time.Second {
		t.Errorf("timeout = %v", c.HTTPClientTimeout)
	}
}

func TestBadTimeoutFallsBack(t *testing.T) {
	clearEnv(t)
	t.Setenv("HTTP_CLIENT_TIMEOUT", "soon")

	if c := LoadApotek(); c.HTTPClientTimeout != 10*time.Second {
		t.Errorf("timeout = %v, want default", c.HTTPClientTimeout)
	}
}
