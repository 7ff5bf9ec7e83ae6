package scheduler

import (
	"context"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
)

type stubSchedulerConfig struct {
	redisURL    string
	tlsInsecure bool
	queue       string
	concurrency int
}

func (c stubSchedulerConfig) GetRedisURL() string       { return c.redisURL }
func (c stubSchedulerConfig) GetRedisTLSInsecure() bool { return c.tlsInsecure }
func (c stubSchedulerConfig) GetAsynqQueueName() string { return c.queue }
func (c stubSchedulerConfig) GetAsynqConcurrency() int  { return c.concurrency }

func TestNewClientRequiresRedisURL(t *testing.T) {
	if _, err := NewClient(stubSchedulerConfig{}); err == nil {
		t.Fatal("expected error when redis url is empty")
	}
}

func TestNewClientRejectsMalformedRedisURL(t *testing.T) {
	if _, err := NewClient(stubSchedulerConfig{redisURL: "not-a-url"}); err == nil {
		t.Fatal("expected error for malformed redis url")
	}
}

func TestClientLaunchEnqueuesTask(t *testing.T) {
	srv := miniredis.RunT(t)

	client, err := NewClient(stubSchedulerConfig{
		redisURL: "redis://" + srv.Addr(),
		queue:    "scans",
	})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	defer client.Close()

	if err := client.Launch(context.Background(), uuid.New(), uuid.New(), uuid.New()); err != nil {
		t.Fatalf("Launch: %v", err)
	}

	var pending bool
	for _, key := range srv.Keys() {
		if strings.Contains(key, "scans") && strings.Contains(key, "pending") {
			pending = true
		}
	}
	if !pending {
		t.Fatalf("expected a pending task on the scans queue, keys: %v", srv.Keys())
	}
}

func TestRedisClientOptTLS(t *testing.T) {
	opt, err := redisClientOpt("rediss://example.com:6380", true)
	if err != nil {
		t.Fatalf("redisClientOpt: %v", err)
	}
	if opt.TLSConfig == nil {
		t.Fatal("expected TLS config for rediss scheme")
	}
	if !opt.TLSConfig.InsecureSkipVerify {
		t.Fatal("expected InsecureSkipVerify to be set")
	}

	opt, err = redisClientOpt("redis://example.com:6379", false)
	if err != nil {
		t.Fatalf("redisClientOpt: %v", err)
	}
	if opt.TLSConfig != nil {
		t.Fatal("expected no TLS config for plain redis scheme")
	}
}
