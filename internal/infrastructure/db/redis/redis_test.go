package redis

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
)

func TestConnect_HostPort(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := Connect(context.Background(), Config{Addr: mr.Addr(), DB: 2})
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	defer client.Close()

	if got := client.Options().DB; got != 2 {
		t.Fatalf("expected db 2, got %d", got)
	}
}

func TestConnect_URL(t *testing.T) {
	mr := miniredis.RunT(t)
	mr.RequireAuth("s3cret")

	client, err := Connect(context.Background(), Config{Addr: "redis://:s3cret@" + mr.Addr() + "/1"})
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	defer client.Close()

	opts := client.Options()
	if opts.Addr != mr.Addr() || opts.DB != 1 || opts.Password != "s3cret" {
		t.Fatalf("url not applied: addr=%s db=%d", opts.Addr, opts.DB)
	}
}

func TestConnect_Unreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	if _, err := Connect(context.Background(), Config{Addr: addr}); err == nil {
		t.Fatalf("expected error for closed server")
	}
}

func TestConnect_BadURL(t *testing.T) {
	if _, err := Connect(context.Background(), Config{Addr: "redis://host:notaport"}); err == nil {
		t.Fatalf("expected url parse error")
	}
}
