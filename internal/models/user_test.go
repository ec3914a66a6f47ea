package models

import (
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestPasswordHashing(t *testing.T) {
	PasswordCost = bcrypt.MinCost

	u := User{Username: "susan"}
	if err := u.SetPassword("cat"); err != nil {
		t.Fatalf("set password: %v", err)
	}
	if u.PasswordHash == "cat" {
		t.Fatalf("password stored in plaintext")
	}

	ok, err := u.CheckPassword("dog")
	if err != nil || ok {
		t.Fatalf("expected mismatch without error, got %v, %v", ok, err)
	}
	ok, err = u.CheckPassword("cat")
	if err != nil || !ok {
		t.Fatalf("expected match, got %v, %v", ok, err)
	}
}

func TestSetPasswordOverwritesPreviousHash(t *testing.T) {
	PasswordCost = bcrypt.MinCost

	u := User{}
	_ = u.SetPassword("first")
	first := u.PasswordHash
	if err := u.SetPassword("second"); err != nil {
		t.Fatalf("set password: %v", err)
	}
	if u.PasswordHash == first {
		t.Fatalf("hash was not replaced")
	}
	if ok, _ := u.CheckPassword("first"); ok {
		t.Fatalf("old password still accepted")
	}
	if ok, _ := u.CheckPassword("second"); !ok {
		t.Fatalf("new password rejected")
	}
}

func TestCheckPasswordWithoutHash(t *testing.T) {
	u := User{}
	if _, err := u.CheckPassword("x"); !errors.Is(err, ErrNoPasswordHash) {
		t.Fatalf("expected ErrNoPasswordHash, got %v", err)
	}

	u.PasswordHash = "not-a-bcrypt-hash"
	ok, err := u.CheckPassword("x")
	if err == nil || ok {
		t.Fatalf("expected error for malformed hash, got %v, %v", ok, err)
	}
}

func TestAvatar(t *testing.T) {
	u := User{Username: "john", Email: "john@example.com"}
	want := "https://www.gravatar.com/avatar/d4c74594d841139328695756648b6bd6?d=identicon&s=128"
	if got := u.Avatar(128); got != want {
		t.Fatalf("avatar mismatch:\n got %s\nwant %s", got, want)
	}

	shouted := User{Email: "  John@Example.COM "}
	if shouted.Avatar(128) != want {
		t.Fatalf("avatar must ignore case and surrounding whitespace")
	}
	if u.Avatar(36) == u.Avatar(128) {
		t.Fatalf("size must be part of the url")
	}
}
