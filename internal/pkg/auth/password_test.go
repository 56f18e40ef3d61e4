package auth

import (
	"errors"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"

	domainErrors "github.com/polkiloo/orderdesk/internal/domain/errors"
)

func TestNewBcryptHasherCost(t *testing.T) {
	if hasher := NewBcryptHasher(0); hasher.cost != bcrypt.DefaultCost {
		t.Fatalf("unexpected default cost: %d", hasher.cost)
	}
	cost := bcrypt.MinCost + 1
	if hasher := NewBcryptHasher(cost); hasher.cost != cost {
		t.Fatalf("unexpected cost: %d", hasher.cost)
	}
}

func TestBcryptHasherHashAndCompare(t *testing.T) {
	hasher := NewBcryptHasher(bcrypt.MinCost)
	hash, err := hasher.Hash("secret")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if err := hasher.Compare(hash, "secret"); err != nil {
		t.Fatalf("compare: %v", err)
	}
	if err := hasher.Compare(hash, "wrong"); !errors.Is(err, domainErrors.ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials, got %v", err)
	}
	if err := hasher.Compare("not-a-hash", "secret"); err == nil || errors.Is(err, domainErrors.ErrInvalidCredentials) {
		t.Fatalf("expected malformed hash error, got %v", err)
	}
}

func TestBcryptHasherRejectsLongPassword(t *testing.T) {
	hasher := NewBcryptHasher(bcrypt.MinCost)
	_, err := hasher.Hash(strings.Repeat("x", maxPasswordBytes+1))
	var verr *domainErrors.ValidationError
	if !errors.As(err, &verr) || verr.Fields[0].Field != "password" {
		t.Fatalf("expected password validation error, got %v", err)
	}
	if _, err := hasher.Hash(strings.Repeat("x", maxPasswordBytes)); err != nil {
		t.Fatalf("expected 72 byte password to be accepted: %v", err)
	}
}

func TestBcryptHasherHashError(t *testing.T) {
	hasher := &BcryptHasher{cost: bcrypt.MaxCost + 1}
	if _, err := hasher.Hash("password"); err == nil {
		t.Fatal("expected hash error for invalid cost")
	}
}
