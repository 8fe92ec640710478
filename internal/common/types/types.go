// Package types holds the enums shared by every service.
package types

import (
	"encoding/json"
	"fmt"
	"strings"
)

type Role string

const (
	RoleAdmin  Role = "ADMIN"
	RoleClient Role = "CLIENT"
	RoleDriver Role = "DRIVER"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleClient, RoleDriver:
		return true
	}
	return false
}

func (r Role) String() string { return string(r) }

func ParseRole(s string) (Role, error) {
	r := Role(strings.ToUpper(strings.TrimSpace(s)))
	if !r.Valid() {
		return "", fmt.Errorf("unknown role %q", s)
	}
	return r, nil
}

func (r *Role) UnmarshalJSON(b []byte) error {
	return unmarshalEnum(b, r, ParseRole)
}

type AuthMethod string

const (
	AuthTraditional AuthMethod = "TRADITIONAL"
	// AuthFederated trusts the email claim of an external identity provider.
	AuthFederated AuthMethod = "FEDERATED"
)

func (m AuthMethod) Valid() bool {
	return m == AuthTraditional || m == AuthFederated
}

func ParseAuthMethod(s string) (AuthMethod, error) {
	m := AuthMethod(strings.ToUpper(strings.TrimSpace(s)))
	if m == "" {
		return AuthTraditional, nil
	}
	if !m.Valid() {
		return "", fmt.Errorf("unknown auth method %q", s)
	}
	return m, nil
}

func (m *AuthMethod) UnmarshalJSON(b []byte) error {
	return unmarshalEnum(b, m, ParseAuthMethod)
}

type DriverStatus string

const (
	DriverNotVerified DriverStatus = "NOT_VERIFIED"
	DriverVerified    DriverStatus = "VERIFIED"
	DriverBlocked     DriverStatus = "BLOCKED"
)

func (s DriverStatus) Valid() bool {
	switch s {
	case DriverNotVerified, DriverVerified, DriverBlocked:
		return true
	}
	return false
}

func (s DriverStatus) String() string { return string(s) }

func ParseDriverStatus(s string) (DriverStatus, error) {
	st := DriverStatus(strings.ToUpper(strings.TrimSpace(s)))
	if !st.Valid() {
		return "", fmt.Errorf("unknown driver status %q", s)
	}
	return st, nil
}

func (s *DriverStatus) UnmarshalJSON(b []byte) error {
	return unmarshalEnum(b, s, ParseDriverStatus)
}

func unmarshalEnum[T ~string](b []byte, dst *T, parse func(string) (T, error)) error {
	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	v, err := parse(raw)
	if err != nil {
		return err
	}
	*dst = v
	return nil
}
