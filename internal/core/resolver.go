package core

import (
	"fmt"
	"slices"
	"strings"
)

// Role is the semantic purpose assigned to a column.
type Role string

const (
	RoleName         Role = "name"
	RoleDistance     Role = "distance"
	RoleNeighborhood Role = "neighborhood"
)

// ParseRole converts a form or flag value to a Role.
func ParseRole(s string) (Role, error) {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleName:
		return RoleName, nil
	case RoleDistance:
		return RoleDistance, nil
	case RoleNeighborhood:
		return RoleNeighborhood, nil
	default:
		return "", fmt.Errorf("unknown role %q", s)
	}
}

// RoleKeywords describes how to guess the column for one role.
type RoleKeywords struct {
	Role     Role
	Exact    string   // Column name that binds immediately when present
	Keywords []string // Lowercase substrings, highest priority first
}

// DefaultRoleKeywords returns the built-in guessing table.
func DefaultRoleKeywords() []RoleKeywords {
	return []RoleKeywords{
		{Role: RoleName, Exact: "Property Name", Keywords: []string{"property", "name", "listing", "address"}},
		{Role: RoleDistance, Exact: "Distance", Keywords: []string{"distance", "miles", "mileage", "km"}},
		{Role: RoleNeighborhood, Exact: "Neighborhood", Keywords: []string{"neighborhood", "neighbourhood", "area", "district"}},
	}
}

// Binding maps each role to a column name. Empty means unresolved.
type Binding struct {
	Name         string `json:"name"`
	Distance     string `json:"distance"`
	Neighborhood string `json:"neighborhood,omitempty"`
}

// Column returns the column bound to a role.
func (b Binding) Column(role Role) string {
	switch role {
	case RoleName:
		return b.Name
	case RoleDistance:
		return b.Distance
	case RoleNeighborhood:
		return b.Neighborhood
	}
	return ""
}

// With returns a copy of b with role bound to column. The column must be one
// of columns; an empty column clears the binding.
func (b Binding) With(role Role, column string, columns []string) (Binding, error) {
	if column != "" && !slices.Contains(columns, column) {
		return b, fmt.Errorf("%w: %q", ErrUnknownColumn, column)
	}
	switch role {
	case RoleName:
		b.Name = column
	case RoleDistance:
		b.Distance = column
	case RoleNeighborhood:
		b.Neighborhood = column
	default:
		return b, fmt.Errorf("unknown role %q", role)
	}
	return b, nil
}

// Missing returns the required roles that are still unbound.
// Neighborhood is always optional.
func (b Binding) Missing() []Role {
	var roles []Role
	if b.Name == "" {
		roles = append(roles, RoleName)
	}
	if b.Distance == "" {
		roles = append(roles, RoleDistance)
	}
	return roles
}

// Validate returns a ResolutionError when a required role is unbound.
func (b Binding) Validate() error {
	if missing := b.Missing(); len(missing) > 0 {
		return &ResolutionError{Roles: missing}
	}
	return nil
}

// ResolveColumns guesses a column for each role. An exact column name match
// wins outright; otherwise keywords are tried in priority order and, for each
// keyword, columns in their original order. The first hit is used.
func ResolveColumns(columns []string, roles []RoleKeywords) Binding {
	var b Binding
	for _, rk := range roles {
		col := guessColumn(columns, rk)
		if col == "" {
			continue
		}
		b, _ = b.With(rk.Role, col, columns)
	}
	return b
}

func guessColumn(columns []string, rk RoleKeywords) string {
	if rk.Exact != "" && slices.Contains(columns, rk.Exact) {
		return rk.Exact
	}

	lowered := make([]string, len(columns))
	for i, c := range columns {
		lowered[i] = strings.ToLower(c)
	}

	for _, kw := range rk.Keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw == "" {
			continue
		}
		for i, c := range lowered {
			if strings.Contains(c, kw) {
				return columns[i]
			}
		}
	}
	return ""
}
