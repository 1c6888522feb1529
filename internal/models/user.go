package models

import "time"

// Ролі користувачів. Роль фіксується при створенні акаунта.
const (
	RoleCitizen = "CITIZEN"
	RoleAdmin   = "ADMIN"
)

// User представляє обліковий запис у системі.
// Пароль зберігається лише як bcrypt-хеш і ніколи не серіалізується.
type User struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	Name        string  `gorm:"not null" json:"name"`
	Email       string  `gorm:"uniqueIndex;not null" json:"email"`
	PhoneNumber *string `gorm:"uniqueIndex" json:"phoneNumber,omitempty"` // pointer: NULL-и не конфліктують в унікальному індексі
	Password    string  `gorm:"not null" json:"-"`
	Role        string  `gorm:"not null;default:CITIZEN" json:"role"`
	Address     string  `json:"address,omitempty"`
	City        string  `json:"city,omitempty"`
	State       string  `json:"state,omitempty"`
	ZipCode     string  `json:"zipCode,omitempty"`
	Enabled     bool    `gorm:"not null;default:true" json:"-"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// IsAdmin повертає true для адміністраторів.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
