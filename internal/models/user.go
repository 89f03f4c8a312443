package models

import (
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type Role string

const (
	RoleAdmin   Role = "Admin"
	RoleDefault Role = "Default User"
)

type User struct {
	ID    uint   `json:"id" gorm:"primaryKey"`
	Email string `gorm:"not null;unique" json:"email" validate:"required,email"`
	Name  string `json:"name"`
	Role  Role   `gorm:"not null;default:'Default User'" json:"role"`
	// Admins bound to a location may only change that location
	LocationID     *uint     `json:"location_id"`
	Location       *Location `json:"location,omitempty"`
	Password       string    `gorm:"-" json:"password,omitempty"`
	HashedPassword string    `json:"-"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.Role == "" {
		u.Role = RoleDefault
	}

	// Hash password if it's set
	if u.Password != "" {
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		u.HashedPassword = string(hashedPassword)
		// Clear the plain text password
		u.Password = ""
	}

	return
}

func (u *User) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.HashedPassword), []byte(password))
	return err == nil
}

func (u *User) HasRole(role Role) bool {
	return u.Role == role
}

// GreetingName is the part of the e-mail address before the first dot,
// e.g. "jane" for jane.doe@example.com
func (u *User) GreetingName() string {
	local := strings.SplitN(u.Email, "@", 2)[0]
	return strings.SplitN(local, ".", 2)[0]
}

var ErrUserNotFound = errors.New("User not found")

func GetUserByEmail(db *gorm.DB, email string) (*User, error) {
	var user User
	result := db.Where("email = ?", email).First(&user)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, result.Error
	}
	return &user, nil
}
