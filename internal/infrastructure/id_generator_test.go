package infrastructure

import (
	"bytes"
	"context"
	"log/slog"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestUUIDGeneratorProducesDistinctIDs(t *testing.T) {
	gen := UUIDGenerator{}
	seen := make(map[string]struct{})

	for i := 0; i < 100; i++ {
		id, err := gen.NextTransactionID(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, err := uuid.Parse(id); err != nil {
			t.Errorf("Expected a uuid, got %q", id)
		}
		if _, dup := seen[id]; dup {
			t.Fatalf("duplicate id %s", id)
		}
		seen[id] = struct{}{}
	}
}

func TestStaticGenerator(t *testing.T) {
	gen := StaticGenerator{ID: "123"}
	for i := 0; i < 3; i++ {
		if id, _ := gen.NextTransactionID(context.Background()); id != "123" {
			t.Errorf("Expected 123, got %s", id)
		}
	}
}

func TestFormatSequenceID(t *testing.T) {
	if got := FormatSequenceID("PH", 42); got != "PH000000000042" {
		t.Errorf("unexpected id %s", got)
	}
	if got := FormatSequenceID("", 1); got != "000000000001" {
		t.Errorf("unexpected id %s", got)
	}
}

func TestRedisSequenceGeneratorReturnsErrorWithoutLogging(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to reserve a port: %v", err)
	}
	addr := ln.Addr().String()
	ln.Close()

	var logs bytes.Buffer
	previous := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&logs, nil)))
	defer slog.SetDefault(previous)

	gen := NewRedisSequenceGenerator(addr, "pesacore:txn", "PH")
	defer gen.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	id, err := gen.NextTransactionID(ctx)
	if err == nil {
		t.Fatalf("Expected an error from an unreachable redis, got id %q", id)
	}
	if !strings.Contains(err.Error(), "pesacore:txn") {
		t.Errorf("Expected the key in the error, got %v", err)
	}
	if logs.Len() != 0 {
		t.Errorf("Expected the error to be left to the caller, got log output %q", logs.String())
	}
}
