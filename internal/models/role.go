package models

// Role is the closed set of user roles. The same priority table drives both
// the pin authorization check and the listing sort order, so the two can
// never diverge.
type Role string

const (
	RoleFounder Role = "founder"
	RoleStaff   Role = "staff"
	RoleManager Role = "manager"
	RoleUser    Role = "user"
)

// Priority returns the role's rank: founder=4, staff=3, manager=2, user=1.
// Unknown roles rank below "user" rather than failing.
func (r Role) Priority() int {
	switch r {
	case RoleFounder:
		return 4
	case RoleStaff:
		return 3
	case RoleManager:
		return 2
	case RoleUser:
		return 1
	default:
		return 0
	}
}

// CanPin reports whether the role may pin or unpin pastes.
func (r Role) CanPin() bool {
	return r.Priority() >= RoleManager.Priority()
}

// OrDefault returns the role itself, or RoleUser when empty.
func (r Role) OrDefault() Role {
	if r == "" {
		return RoleUser
	}
	return r
}
