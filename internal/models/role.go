package models

import (
	"errors"
	"strings"
)

// Role is the closed set of account kinds.
type Role string

const (
	RoleVoter     Role = "voter"
	RoleCandidate Role = "candidate"
	RoleAdmin     Role = "admin"
)

var ErrInvalidRole = errors.New("invalid role")

// ParseRole maps user input to a Role. An empty string yields RoleVoter.
func ParseRole(s string) (Role, error) {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case "", RoleVoter:
		return RoleVoter, nil
	case RoleCandidate:
		return RoleCandidate, nil
	case RoleAdmin:
		return RoleAdmin, nil
	default:
		return "", ErrInvalidRole
	}
}

func (r Role) Valid() bool {
	switch r {
	case RoleVoter, RoleCandidate, RoleAdmin:
		return true
	default:
		return false
	}
}

// CanVote reports whether accounts of this role may cast ballots.
func (r Role) CanVote() bool {
	switch r {
	case RoleVoter, RoleCandidate:
		return true
	case RoleAdmin:
		return false
	default:
		return false
	}
}

// CanManageElections covers election, party and candidate mutations.
func (r Role) CanManageElections() bool {
	switch r {
	case RoleAdmin:
		return true
	case RoleVoter, RoleCandidate:
		return false
	default:
		return false
	}
}

// CanViewAdminResults allows per-voter results before declaration.
func (r Role) CanViewAdminResults() bool {
	switch r {
	case RoleAdmin:
		return true
	case RoleVoter, RoleCandidate:
		return false
	default:
		return false
	}
}
