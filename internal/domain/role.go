package domain

import "fmt"

// Role is the closed set of staff roles. The zero value is not a valid role.
type Role uint8

const (
	RoleEmployee Role = iota + 1
	RoleManager
)

// ParseRole converts the wire representation into a Role.
func ParseRole(s string) (Role, error) {
	switch s {
	case "employee":
		return RoleEmployee, nil
	case "manager":
		return RoleManager, nil
	default:
		return 0, fmt.Errorf("unknown role %q", s)
	}
}

// String returns the wire representation.
func (r Role) String() string {
	switch r {
	case RoleEmployee:
		return "employee"
	case RoleManager:
		return "manager"
	default:
		return fmt.Sprintf("Role(%d)", uint8(r))
	}
}

// Valid reports whether r is one of the declared roles.
func (r Role) Valid() bool {
	return r == RoleEmployee || r == RoleManager
}

// Satisfies reports whether a holder of r may act where required is demanded.
// Managers satisfy every requirement; employees only the employee requirement.
func (r Role) Satisfies(required Role) bool {
	switch required {
	case RoleEmployee:
		return r.Valid()
	case RoleManager:
		return r == RoleManager
	default:
		return false
	}
}

// MarshalText implements encoding.TextMarshaler.
func (r Role) MarshalText() ([]byte, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("cannot marshal invalid role %d", uint8(r))
	}
	return []byte(r.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *Role) UnmarshalText(text []byte) error {
	parsed, err := ParseRole(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}
