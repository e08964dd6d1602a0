package models

import (
	"time"
)

// Role constants
const (
	RoleAdmin  = "admin"
	RoleUser   = "user"
	RoleSystem = "system"
)

// Account is the shape shared by every identity kind that can sign in.
// Admin and User live in separate tables but authenticate the same way.
type Account interface {
	AccountID() uint
	AccountUsername() string
	DisplayName() string
	PasswordDigest() string
	StoredSessionVersion() *int
	AccountRole() string
}

// Admin represents a back-office administrator
type Admin struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"size:50;not null;uniqueIndex" json:"username"`
	Password     string    `gorm:"size:100;not null" json:"-"`
	Name         string    `gorm:"size:50" json:"name"`
	TokenVersion *int      `json:"-"`
	CreatedAt    time.Time `json:"createTime"`
	UpdatedAt    time.Time `json:"updateTime"`
}

// TableName specifies the table name for Admin
func (Admin) TableName() string {
	return "admin"
}

func (a *Admin) AccountID() uint            { return a.ID }
func (a *Admin) AccountUsername() string    { return a.Username }
func (a *Admin) DisplayName() string        { return a.Name }
func (a *Admin) PasswordDigest() string     { return a.Password }
func (a *Admin) StoredSessionVersion() *int { return a.TokenVersion }
func (a *Admin) AccountRole() string        { return RoleAdmin }

// User represents a regular back-office user account
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"size:50;not null;uniqueIndex" json:"username"`
	Password     string    `gorm:"size:100;not null" json:"-"`
	Name         string    `gorm:"size:50" json:"name"`
	Phone        string    `gorm:"size:20" json:"phone"`
	TokenVersion *int      `json:"-"`
	CreatedAt    time.Time `json:"createTime"`
	UpdatedAt    time.Time `json:"updateTime"`
}

// TableName specifies the table name for User
func (User) TableName() string {
	return "users"
}

func (u *User) AccountID() uint            { return u.ID }
func (u *User) AccountUsername() string    { return u.Username }
func (u *User) DisplayName() string        { return u.Name }
func (u *User) PasswordDigest() string     { return u.Password }
func (u *User) StoredSessionVersion() *int { return u.TokenVersion }
func (u *User) AccountRole() string        { return RoleUser }

// CurrentVersion returns the stored session version, treating null as 0
func CurrentVersion(a Account) int {
	if v := a.StoredSessionVersion(); v != nil {
		return *v
	}
	return 0
}
