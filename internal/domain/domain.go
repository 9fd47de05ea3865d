package domain

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleSuperAdmin   Role = "super_admin"
	RoleClinicAdmin  Role = "clinic_admin"
	RoleReceptionist Role = "receptionist"
	RoleDoctor       Role = "doctor"
	RoleLabTech      Role = "lab_tech"
	RolePharmacist   Role = "pharmacist"
)

func (r Role) IsValid() bool {
	switch r {
	case RoleSuperAdmin, RoleClinicAdmin, RoleReceptionist, RoleDoctor, RoleLabTech, RolePharmacist:
		return true
	}
	return false
}

// Roles lists every valid role. Authorization tables are validated
// exhaustively against this slice.
func Roles() []Role {
	return []Role{RoleSuperAdmin, RoleClinicAdmin, RoleReceptionist, RoleDoctor, RoleLabTech, RolePharmacist}
}

type User struct {
	ID        uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CreatedAt time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time  `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt *time.Time `json:"-" gorm:"index"`

	Email        string `json:"email" gorm:"column:email;type:varchar(255);uniqueIndex;not null"`
	PasswordHash string `json:"-" gorm:"column:password_hash;type:varchar(255);not null"`
	FullName     string `json:"full_name" gorm:"column:full_name;type:varchar(200);not null"`
	Role         Role   `json:"role" gorm:"column:role;type:varchar(30);not null;index"`

	IsActive         bool       `json:"is_active" gorm:"column:is_active;default:true;index"`
	FailedLoginCount int        `json:"-" gorm:"column:failed_login_count;default:0"`
	LockedUntil      *time.Time `json:"-" gorm:"column:locked_until"`
	LastLoginAt      *time.Time `json:"last_login_at,omitempty" gorm:"column:last_login_at"`
}

func (User) TableName() string {
	return "auth.users"
}

// IsLocked returns true if the account is temporarily locked due to failed logins.
func (u *User) IsLocked() bool {
	return u.LockedUntil != nil && time.Now().Before(*u.LockedUntil)
}

type AuditAction string

const (
	ActionCreate AuditAction = "create"
	ActionRead   AuditAction = "read"
	ActionUpdate AuditAction = "update"
	ActionLogin  AuditAction = "login"
)

type AuditLog struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OccurredAt time.Time `gorm:"autoCreateTime;index"`

	// Who
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;not null;index"`
	UserRole  Role      `gorm:"column:user_role;type:varchar(30);not null"`
	IPAddress string    `gorm:"column:ip_address;type:varchar(45)"` // Supports IPv6

	// What
	Action       AuditAction `gorm:"column:action;type:varchar(20);not null;index"`
	ResourceType string      `gorm:"column:resource_type;type:varchar(50);not null;index"`
	ResourceID   string      `gorm:"column:resource_id;type:varchar(50);index"`

	RequestID string `gorm:"column:request_id;type:varchar(50);index"`
	Changes   string `gorm:"column:changes;type:jsonb"`
}

func (AuditLog) TableName() string {
	return "audit.logs"
}

type TokenPair struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
	TokenType    string    `json:"token_type"` // Always "Bearer"
}

type Claims struct {
	UserID uuid.UUID `json:"sub"`
	Email  string    `json:"email"`
	Role   Role      `json:"role"`
}
