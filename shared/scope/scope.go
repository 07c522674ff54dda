// Package scope implements visibility filtering for the multi-tenant API.
// Given an authenticated identity and a target collection it returns the
// subset that identity may see or modify.
package scope

import (
	"github.com/google/uuid"

	"agoge-backend/shared/apperrors"
	"agoge-backend/shared/database/models"
	"agoge-backend/shared/repository"
)

// Role is the closed set of identity variants. Deriving a single variant
// from the boolean flags keeps the scoping switches exhaustive.
type Role int

const (
	// RoleUnaffiliated is an authenticated user with no company.
	RoleUnaffiliated Role = iota
	// RoleMember belongs to a company without admin rights.
	RoleMember
	// RoleCompanyAdmin administers a single company.
	RoleCompanyAdmin
	// RoleSuperuser is a platform operator and sees everything.
	RoleSuperuser
)

func (r Role) String() string {
	switch r {
	case RoleSuperuser:
		return "superuser"
	case RoleCompanyAdmin:
		return "company_admin"
	case RoleMember:
		return "member"
	default:
		return "unaffiliated"
	}
}

// Identity is the resolved caller: who they are, which variant they act
// as and which company (if any) they belong to.
type Identity struct {
	UserID    uuid.UUID
	Email     string
	Role      Role
	CompanyID *uuid.UUID
}

// IdentityFromUser folds the stored role flags into a single variant.
// Superuser wins over the company admin flag; an admin flag without a
// company degrades to a plain member scope.
func IdentityFromUser(u *models.User) Identity {
	role := RoleUnaffiliated
	switch {
	case u.IsSuperuser:
		role = RoleSuperuser
	case u.IsAdmin && u.CompanyID != nil:
		role = RoleCompanyAdmin
	case u.CompanyID != nil:
		role = RoleMember
	}

	return Identity{
		UserID:    u.ID,
		Email:     u.Email,
		Role:      role,
		CompanyID: u.CompanyID,
	}
}

// IsAdmin reports whether the identity may perform company-admin actions.
func (id Identity) IsAdmin() bool {
	return id.Role == RoleCompanyAdmin || id.Role == RoleSuperuser
}

// RequireCompany returns the identity's company or a NoTenant error.
func (id Identity) RequireCompany() (uuid.UUID, error) {
	if id.CompanyID == nil {
		return uuid.Nil, apperrors.New(apperrors.ErrNoTenant, "User is not associated with any company")
	}
	return *id.CompanyID, nil
}

// Scoper resolves visibility-filtered collections. It is read-only: it
// never creates or mutates records.
type Scoper struct {
	users     repository.UserRepository
	companies repository.CompanyRepository
	grants    repository.GrantRepository
}

func NewScoper(users repository.UserRepository, companies repository.CompanyRepository, grants repository.GrantRepository) *Scoper {
	return &Scoper{
		users:     users,
		companies: companies,
		grants:    grants,
	}
}

// VisibleUsers returns the users the identity may see: superusers see
// everyone, company admins see their company, everyone else sees only
// their own record.
func (s *Scoper) VisibleUsers(id Identity) ([]models.User, error) {
	switch id.Role {
	case RoleSuperuser:
		return s.users.All()
	case RoleCompanyAdmin:
		return s.users.ByCompany(*id.CompanyID)
	default:
		self, err := s.users.ByID(id.UserID)
		if err != nil {
			return nil, err
		}
		return []models.User{*self}, nil
	}
}

// VisibleUser resolves a single user inside the identity's scope. Records
// outside the scope read as not found, never as forbidden, so existence
// does not leak across tenants.
func (s *Scoper) VisibleUser(id Identity, target uuid.UUID) (*models.User, error) {
	user, err := s.users.ByID(target)
	if err != nil {
		return nil, err
	}

	switch id.Role {
	case RoleSuperuser:
		return user, nil
	case RoleCompanyAdmin:
		if user.CompanyID != nil && *user.CompanyID == *id.CompanyID {
			return user, nil
		}
	default:
		if user.ID == id.UserID {
			return user, nil
		}
	}

	return nil, apperrors.New(apperrors.ErrNotFound, "User with the given ID does not exist")
}

// VisibleCompanies returns all companies for superusers, a singleton for
// affiliated identities and an empty set otherwise.
func (s *Scoper) VisibleCompanies(id Identity) ([]models.Company, error) {
	if id.Role == RoleSuperuser {
		return s.companies.All()
	}
	if id.CompanyID == nil {
		return []models.Company{}, nil
	}

	company, err := s.companies.ByID(*id.CompanyID)
	if err != nil {
		return nil, err
	}
	return []models.Company{*company}, nil
}

// VisibleCompany resolves a single company inside the identity's scope.
func (s *Scoper) VisibleCompany(id Identity, target uuid.UUID) (*models.Company, error) {
	if id.Role != RoleSuperuser {
		if id.CompanyID == nil || *id.CompanyID != target {
			return nil, apperrors.New(apperrors.ErrNotFound, "Company with the given ID does not exist")
		}
	}
	return s.companies.ByID(target)
}

// CompanyGrants returns the caller's course grants joined to their
// catalog entries. Identities without a company fail with NoTenant.
func (s *Scoper) CompanyGrants(id Identity) ([]models.CompanyCourse, error) {
	companyID, err := id.RequireCompany()
	if err != nil {
		return nil, err
	}
	return s.grants.ByCompany(companyID)
}
