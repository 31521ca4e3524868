package user

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	"github.com/edumentor/edumentor/core"
)

// Roles
const (
	RoleStudent = "student"
	RoleMentor  = "mentor"
	RoleAdmin   = "admin"
)

var (
	AllRoles = []string{RoleStudent, RoleMentor, RoleAdmin}

	// SignupRoles are the roles a user may pick on self registration.
	// Admins are created with the admin CLI.
	SignupRoles = []string{RoleStudent, RoleMentor}

	Roles = []Role{
		{Name: "Student", Value: RoleStudent},
		{Name: "Mentor", Value: RoleMentor},
		{Name: "Admin", Value: RoleAdmin},
	}
)

type Role struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type User struct {
	ID           string    `json:"id" bson:"id"`
	Email        string    `json:"email" bson:"email"`
	FullName     string    `json:"full_name" bson:"full_name"`
	Role         string    `json:"role" bson:"role"`
	Skills       []string  `json:"skills" bson:"skills"`
	Interests    []string  `json:"interests" bson:"interests"`
	Bio          *string   `json:"bio" bson:"bio"`
	ProfileImage *string   `json:"profile_image" bson:"profile_image"`
	IsActive     bool      `json:"is_active" bson:"is_active"`
	PasswordHash []byte    `json:"-" bson:"hashed_password"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"` // UTC
	UpdatedAt    time.Time `json:"updated_at" bson:"updated_at"` // UTC
	LastLogin    time.Time `json:"last_login" bson:"last_login"` // UTC
}

func (u *User) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	return nil
}

func (u *User) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(pwd))
}

func (u *User) HasRole(roles ...string) bool {
	for _, role := range roles {
		if u.Role == role {
			return true
		}
	}
	return false
}

func (u *User) IsAdmin() bool   { return u.Role == RoleAdmin }
func (u *User) IsMentor() bool  { return u.Role == RoleMentor }
func (u *User) IsStudent() bool { return u.Role == RoleStudent }

// NewUser contains information needed to create a new User.
type NewUser struct {
	Email     string   `json:"email" validate:"required,email"`
	Password  string   `json:"password" validate:"required"`
	FullName  string   `json:"full_name" validate:"required,max=120"`
	Role      string   `json:"role" validate:"signuprole"`
	Skills    []string `json:"skills"`
	Interests []string `json:"interests"`
	Bio       *string  `json:"bio" validate:"omitempty,max=2000"`
}

func (nu *NewUser) Validate(ctx context.Context, validate *validator.Validate, svc Service) error {
	nu.Email = core.CleanString(nu.Email, true /* lower */)
	nu.FullName = core.CleanString(nu.FullName)
	nu.Role = core.CleanString(nu.Role, true /* lower */)
	if nu.Role == "" {
		nu.Role = RoleStudent
	}
	nu.Skills = core.CleanStrings(nu.Skills)
	nu.Interests = core.CleanStrings(nu.Interests)

	if err := validate.Struct(nu); err != nil {
		return err
	}
	return svc.CheckUniqueness(ctx, nu.Email)
}

// UpdateProfile defines what information a User may change on their own profile.
type UpdateProfile struct {
	FullName     string   `json:"full_name" validate:"max=120"`
	Skills       []string `json:"skills"`
	Interests    []string `json:"interests"`
	Bio          *string  `json:"bio" validate:"omitempty,max=2000"`
	ProfileImage *string  `json:"profile_image" validate:"omitempty,url"`
}

func (up *UpdateProfile) Validate(validate *validator.Validate) error {
	up.FullName = core.CleanString(up.FullName)
	if up.Skills != nil {
		up.Skills = core.CleanStrings(up.Skills)
	}
	if up.Interests != nil {
		up.Interests = core.CleanStrings(up.Interests)
	}
	return validate.Struct(up)
}

type ResetUserPassword struct {
	Token           string `json:"token,omitempty" validate:"required"`
	UID             string `json:"uid,omitempty" validate:"required"`
	Password        string `json:"password,omitempty" validate:"required"`
	PasswordConfirm string `json:"password_confirm,omitempty" validate:"required,eqfield=Password"`
}

func (rp ResetUserPassword) Validate(validate *validator.Validate) error { return validate.Struct(rp) }

type QueryFilter struct {
	Search   string   `query:"search"`
	Roles    []string `query:"role"`
	Skills   []string `query:"-"`
	IsActive *bool    `query:"-"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.Search == "" && qf.Roles == nil && qf.Skills == nil && qf.IsActive == nil
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
	qf.Skills = core.CleanStrings(qf.Skills)
}

// GetFilter selects a single User; the first non-empty field wins.
type GetFilter struct {
	ID    string
	Email string
}
