package user

import (
	"github.com/google/uuid"
)

type Role string

const (
	RoleSuperAdmin Role = "super_admin" // Sees every business unit
	RoleAuditor    Role = "auditor"     // Read-only access across business units
	RoleTechnician Role = "technician"  // Service-desk agent
)

// User is a service-desk account. Technicians are the agents measured by
// the outshift reports.
type User struct {
	ID           uuid.UUID
	Username     string
	FullName     *string
	IsTechnician bool
	IsActive     bool
	IsSuperAdmin bool

	BusinessUnitAssignments []BusinessUnitAssignment
}

// BusinessUnitAssignment links a technician to a business unit.
type BusinessUnitAssignment struct {
	ID             int64
	TechnicianID   uuid.UUID
	BusinessUnitID int
	IsDeleted      bool
}

// ActiveBusinessUnitIDs returns the business units of non-deleted
// assignments, in assignment order.
func (u *User) ActiveBusinessUnitIDs() []int {
	ids := make([]int, 0, len(u.BusinessUnitAssignments))
	for _, a := range u.BusinessUnitAssignments {
		if a.IsDeleted {
			continue
		}
		ids = append(ids, a.BusinessUnitID)
	}
	return ids
}

// IsReportableTechnician reports whether the user takes part in fleet-wide
// outshift rankings.
func (u *User) IsReportableTechnician() bool {
	return u.IsTechnician && u.IsActive
}
