package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorKindsMatchSentinels(t *testing.T) {
	err := fmt.Errorf("load incident: %w", NotFound("incident %s not found", "abc"))
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected wrapped not-found to match ErrNotFound")
	}
	if errors.Is(err, ErrInvalidInput) {
		t.Fatalf("not-found must not match ErrInvalidInput")
	}
	if KindOf(err) != KindNotFound {
		t.Fatalf("expected kind %s, got %s", KindNotFound, KindOf(err))
	}
	if MessageOf(err) != "incident abc not found" {
		t.Fatalf("unexpected message %q", MessageOf(err))
	}
}

func TestStoreFailureHidesCause(t *testing.T) {
	err := StoreFailure("list incidents", errors.New("connection refused"))
	if !errors.Is(err, ErrStoreFailure) {
		t.Fatalf("expected store failure")
	}
	if MessageOf(err) != "internal error" {
		t.Fatalf("store failure leaked %q", MessageOf(err))
	}
	if KindOf(errors.New("plain")) != KindStoreFailure {
		t.Fatalf("untyped errors should count as store failures")
	}
}

func TestRoleValid(t *testing.T) {
	for _, r := range []Role{RoleStaff, RoleManager, RoleAdmin} {
		if !r.Valid() {
			t.Fatalf("%s should be valid", r)
		}
	}
	if Role("owner").Valid() {
		t.Fatalf("unknown role accepted")
	}
}
