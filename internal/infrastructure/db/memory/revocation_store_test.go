package memory

import (
	"context"
	"testing"
	"time"
)

func TestRevocationStore_UnknownToken(t *testing.T) {
	s := NewRevocationStore()

	revoked, err := s.IsRevoked(context.Background(), "jti-1")
	if err != nil {
		t.Fatalf("IsRevoked returned error: %v", err)
	}
	if revoked {
		t.Fatal("unknown token reported as revoked")
	}
}

func TestRevocationStore_ExpiryPrunes(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	s := NewRevocationStore()
	s.now = func() time.Time { return now }
	ctx := context.Background()

	if err := s.Revoke(ctx, "jti-1", now.Add(time.Hour)); err != nil {
		t.Fatalf("Revoke returned error: %v", err)
	}
	if err := s.Revoke(ctx, "jti-2", now.Add(2*time.Hour)); err != nil {
		t.Fatalf("Revoke returned error: %v", err)
	}

	if revoked, _ := s.IsRevoked(ctx, "jti-1"); !revoked {
		t.Fatal("token should be revoked before its expiry")
	}

	// Expiry is exclusive: at the until instant the entry is gone.
	now = now.Add(time.Hour)
	if revoked, _ := s.IsRevoked(ctx, "jti-1"); revoked {
		t.Fatal("token should no longer be revoked at its expiry")
	}
	if _, kept := s.revoked["jti-1"]; kept {
		t.Fatal("expired entry was not pruned")
	}

	if revoked, _ := s.IsRevoked(ctx, "jti-2"); !revoked {
		t.Fatal("unexpired token lost its revocation")
	}
	if len(s.revoked) != 1 {
		t.Fatalf("expected 1 remaining entry, got %d", len(s.revoked))
	}
}

func TestRevocationStore_RevokeExtends(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	s := NewRevocationStore()
	s.now = func() time.Time { return now }
	ctx := context.Background()

	_ = s.Revoke(ctx, "jti-1", now.Add(time.Minute))
	_ = s.Revoke(ctx, "jti-1", now.Add(time.Hour))

	now = now.Add(30 * time.Minute)
	if revoked, _ := s.IsRevoked(ctx, "jti-1"); !revoked {
		t.Fatal("latest Revoke should set the expiry")
	}
}
