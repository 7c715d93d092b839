package domain

import (
	"fmt"
	"strings"
)

// Role is the closed set of actor kinds. Every switch over Role lists all
// members explicitly so that adding a role surfaces each decision point.
type Role uint8

// Known roles. RoleUnknown is the zero value and is never persisted.
const (
	RoleUnknown Role = iota
	RoleCustomer
	RolePartner
	RoleAdmin
)

// ParseRole converts the stored/wire form into a Role.
func ParseRole(s string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "customer":
		return RoleCustomer, nil
	case "partner":
		return RolePartner, nil
	case "admin":
		return RoleAdmin, nil
	default:
		return RoleUnknown, fmt.Errorf("unknown role %q", s)
	}
}

func (r Role) String() string {
	switch r {
	case RoleCustomer:
		return "customer"
	case RolePartner:
		return "partner"
	case RoleAdmin:
		return "admin"
	case RoleUnknown:
		return "unknown"
	default:
		return fmt.Sprintf("role(%d)", uint8(r))
	}
}

// SelfRegistrable reports whether the role can be chosen at sign-up.
func (r Role) SelfRegistrable() bool {
	switch r {
	case RoleCustomer, RolePartner:
		return true
	case RoleAdmin, RoleUnknown:
		return false
	default:
		return false
	}
}

// MarshalText implements encoding.TextMarshaler.
func (r Role) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *Role) UnmarshalText(b []byte) error {
	parsed, err := ParseRole(string(b))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}
