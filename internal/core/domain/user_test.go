package domain

import (
	"errors"
	"testing"
)

func TestParseRole(t *testing.T) {
	tests := []struct {
		in      string
		want    Role
		wantErr bool
	}{
		{"Admin", RoleAdmin, false},
		{"User", RoleUser, false},
		{"Customer", RoleCustomer, false},
		{"admin", "", true},
		{"", "", true},
		{"Root", "", true},
	}

	for _, tc := range tests {
		got, err := ParseRole(tc.in)
		if tc.wantErr {
			if !errors.Is(err, ErrInvalidArgument) {
				t.Fatalf("ParseRole(%q): expected ErrInvalidArgument, got %v", tc.in, err)
			}
			continue
		}
		if err != nil || got != tc.want {
			t.Fatalf("ParseRole(%q) = %q, %v", tc.in, got, err)
		}
	}
}

func TestUser_CloneIsDeep(t *testing.T) {
	u := &User{ID: "1", Username: "alice", Role: RolePtr(RoleUser)}
	c := u.Clone()

	*c.Role = RoleAdmin
	c.Username = "bob"

	if *u.Role != RoleUser || u.Username != "alice" {
		t.Fatalf("clone mutated the original: %+v", u)
	}
	if (*User)(nil).Clone() != nil {
		t.Fatal("nil clone must be nil")
	}
}

func TestMissingSecretError(t *testing.T) {
	err := error(&MissingSecretError{Field: "Issuer", Path: "secret/Secrets"})
	if !errors.Is(err, ErrConfigurationMissing) {
		t.Fatal("MissingSecretError must match ErrConfigurationMissing")
	}
	if err.Error() != "Issuer not found in secret store at secret/Secrets" {
		t.Fatalf("unexpected message: %s", err.Error())
	}
}
