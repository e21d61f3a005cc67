package domain

import (
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrEmptyEmail       = errors.New("email is required")
	ErrInvalidEmail     = errors.New("email must look like name@domain")
	ErrEmptyName        = errors.New("name is required")
	ErrEmptyPassword    = errors.New("password is required")
	ErrWeakPassword     = errors.New("password must be at least 8 characters")
	ErrPasswordTooLong  = errors.New("password must be at most 72 bytes")
	ErrInvalidRole      = errors.New("role must be USER or ADMIN")
	ErrMissingPassword  = errors.New("password hash is missing")
	ErrPasswordHashFail = errors.New("password could not be hashed")
)

// Role gates access to administrative endpoints.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// PasswordCost is the bcrypt work factor used by SetPassword.
var PasswordCost = bcrypt.DefaultCost

const minPasswordLength = 8

// User is a registered shop account.
type User struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string
	Role         Role
	IsActive     bool
	LastLogin    *time.Time
}

// NewUser builds an active USER account with a hashed password.
func NewUser(id, email, name, password string) (*User, error) {
	user := &User{ID: id, Role: RoleUser, IsActive: true}
	if err := user.SetEmail(email); err != nil {
		return nil, err
	}
	if err := user.SetName(name); err != nil {
		return nil, err
	}
	if err := user.SetPassword(password); err != nil {
		return nil, err
	}
	return user, nil
}

// NormalizeEmail lower-cases and trims an address for lookups.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (u *User) SetEmail(email string) error {
	email = NormalizeEmail(email)
	if email == "" {
		return ErrEmptyEmail
	}
	at := strings.Index(email, "@")
	if at <= 0 || at == len(email)-1 || strings.Count(email, "@") != 1 {
		return ErrInvalidEmail
	}
	u.Email = email
	return nil
}

func (u *User) SetName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}
	u.Name = name
	return nil
}

// SetPassword validates the plaintext and stores its bcrypt hash.
func (u *User) SetPassword(password string) error {
	if strings.TrimSpace(password) == "" {
		return ErrEmptyPassword
	}
	if len(password) < minPasswordLength {
		return ErrWeakPassword
	}
	if len(password) > 72 {
		return ErrPasswordTooLong
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), PasswordCost)
	if err != nil {
		return errors.Join(ErrPasswordHashFail, err)
	}
	u.PasswordHash = string(hash)
	return nil
}

// CheckPassword compares the supplied plaintext with the stored hash.
func (u *User) CheckPassword(password string) bool {
	if u.PasswordHash == "" || password == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

func (u *User) SetRole(role Role) error {
	if !role.Valid() {
		return ErrInvalidRole
	}
	u.Role = role
	return nil
}

func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }

func (u *User) Deactivate() { u.IsActive = false }

func (u *User) Activate() { u.IsActive = true }

// RecordLogin stamps the last successful login.
func (u *User) RecordLogin(at time.Time) {
	at = at.UTC()
	u.LastLogin = &at
}

// Validate re-applies core invariants for persistence.
func (u *User) Validate() error {
	if err := u.SetEmail(u.Email); err != nil {
		return err
	}
	if err := u.SetName(u.Name); err != nil {
		return err
	}
	if !u.Role.Valid() {
		return ErrInvalidRole
	}
	if u.PasswordHash == "" {
		return ErrMissingPassword
	}
	return nil
}

func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	clone := *u
	if u.LastLogin != nil {
		at := *u.LastLogin
		clone.LastLogin = &at
	}
	return &clone
}
