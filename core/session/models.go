package session

import (
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/kisanhq/kisan/core"
)

// Roles
const (
	RoleAdmin   = "admin"
	RoleTeacher = "teacher"
	RoleStudent = "student"
	RoleFarmer  = "farmer" // default identity for portal visitors
	RoleOfficer = "officer"
)

var (
	AllRoles = []string{RoleAdmin, RoleTeacher, RoleStudent, RoleFarmer, RoleOfficer}

	// DefaultPermissions are granted to every mock identity on login.
	DefaultPermissions = []string{"view-dashboard"}

	// ErrKeyNotFound is returned by a Repository when a key has no value.
	ErrKeyNotFound = errors.New("key not found")
)

// persisted key-value layout; session keys are written and deleted together,
// language persists independently of the session lifecycle.
const (
	keyUser         = "user"
	keyAccessToken  = "access_token"
	keyRefreshToken = "refresh_token"
	keyUserRole     = "user_role"
	keyLanguage     = "language"
)

func sessionKeys() []string {
	return []string{keyUser, keyAccessToken, keyRefreshToken, keyUserRole}
}

// Repository is the origin-scoped key-value store backing the session state.
type Repository interface {
	Get(key string) (string, error)
	Set(key, value string) error
	Delete(keys ...string) error
}

// User is the identity held while authenticated.
type User struct {
	Email       string   `json:"email"`
	Role        string   `json:"role"`
	Permissions []string `json:"permissions"`
}

func (u User) IsAdmin() bool   { return u.Role == RoleAdmin }
func (u User) IsTeacher() bool { return u.Role == RoleTeacher }
func (u User) IsStudent() bool { return u.Role == RoleStudent }

// HasAnyRole reports whether the user's role is a member of the given set.
// An empty set allows any authenticated user.
func (u User) HasAnyRole(roles ...string) bool {
	if len(roles) == 0 {
		return true
	}
	for _, role := range roles {
		if u.Role == role {
			return true
		}
	}
	return false
}

// LoginCredentials carry the mock identity to assume. No password is taken and
// no credential verification occurs; this is a demo identity layer, not real
// authentication.
type LoginCredentials struct {
	Email string `json:"email" validate:"required,email"`
	Role  string `json:"role" validate:"omitempty,portalrole"`
}

func (c *LoginCredentials) Validate() error {
	c.Email = core.CleanString(c.Email, true /* lower */)
	c.Role = core.CleanString(c.Role, true /* lower */)
	return core.Validate.Struct(c)
}

// TokenPair is returned by a successful login.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// custom validation: role must be one of the portal roles
const (
	portalRoleTag  = "portalrole"
	portalRoleText = "invalid role"
)

func init() {
	_ = core.Validate.RegisterValidation(portalRoleTag, portalRoleValidation)
	core.RegisterCustomTranslation(core.Validate, core.Translator, portalRoleTag, portalRoleText)
}

func portalRoleValidation(fl validator.FieldLevel) bool {
	role := fl.Field().String()
	for _, r := range AllRoles {
		if role == r {
			return true
		}
	}
	return false
}
