package auth

import "time"

// User roles.
const (
	RoleAdmin   = "Admin"
	RoleManager = "Manager"
	RoleWorker  = "Worker"
)

type User struct {
	ID           uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Username     string `gorm:"size:100;not null;uniqueIndex" json:"username"`
	PasswordHash string `gorm:"size:100;not null" json:"-"`
	FullName     string `gorm:"size:200;not null" json:"full_name"`
	Role         string `gorm:"size:20;not null;default:'Worker'" json:"role"`
	Phone        string `gorm:"size:20" json:"phone"`
	Email        string `gorm:"size:200" json:"email"`
	IsActive     bool   `gorm:"not null" json:"is_active"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// IsEligibleAssignee reports whether lines may be assigned to this user.
// Only active workers qualify.
func (u User) IsEligibleAssignee() bool {
	return u.IsActive && u.Role == RoleWorker
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

type CreateUserRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required,min=6"`
	FullName string `json:"full_name" binding:"required"`
	Role     string `json:"role" binding:"required,oneof=Admin Manager Worker"`
	Phone    string `json:"phone"`
	Email    string `json:"email"`
}
