package models

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	ROLE_USER       = "user"
	ROLE_ADMIN      = "admin"
	STATUS_ACTIVE   = "active"
	STATUS_INACTIVE = "inactive"
	STATUS_DISABLED = "disabled"
)

const (
	maxLoginAttempts   = 5
	loginAttemptWindow = 15 * time.Minute
)

type User struct {
	ID               uint           `gorm:"primaryKey" json:"id"`
	Name             string         `gorm:"type:varchar(150)" json:"name" validate:"required,min=3,max=150"`
	Email            string         `gorm:"uniqueIndex;type:varchar(200)" json:"email" validate:"required,email,min=5,max=200"`
	Password         string         `gorm:"type:text" json:"-" validate:"required,min=6"`
	Role             string         `gorm:"type:varchar(50);default:'user'" json:"role" validate:"oneof=user admin"`
	Status           string         `gorm:"type:varchar(50);default:'active'" json:"status" validate:"oneof=active inactive disabled"`
	DateOfBirth      *time.Time     `gorm:"type:date;default:null" json:"date_of_birth"`
	AvatarURL        string         `gorm:"type:varchar(255);default:null" json:"avatar_url" validate:"max=255"`
	OrgPoints        int            `gorm:"default:0" json:"org_points"`
	PlanID           *uint          `gorm:"index;default:null" json:"plan_id"`
	Plan             *Plan          `gorm:"foreignKey:PlanID" json:"plan,omitempty"`
	AuthTokenHash    string         `gorm:"type:varchar(64);index" json:"-"`
	AuthTokenIssued  *time.Time     `gorm:"type:timestamp;default:null" json:"-"`
	LoginAttempts    int            `gorm:"default:0" json:"-"`
	LastLoginAttempt *time.Time     `gorm:"type:timestamp;default:null" json:"-"`
	LastLoginAt      *time.Time     `gorm:"type:timestamp;default:null" json:"last_login_at"`
	CreatedAt        time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`
}

func (u *User) Validate() error {
	v := validator.New()

	return v.Struct(u)
}

func CreateUser(name string, email string, password string) (*User, error) {
	pw, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	u := &User{
		Name:     name,
		Email:    email,
		Password: pw,
		Role:     ROLE_USER,
		Status:   STATUS_ACTIVE,
	}

	err = u.Validate()
	if err != nil {
		return nil, err
	}

	return u, nil
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)

	return string(bytes), err
}

// CheckPasswordHash compares the given password with the stored hash.
func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))

	return err == nil
}

// IsActive reports whether the user status is active
func (u *User) IsActive() bool {
	return u.Status == STATUS_ACTIVE
}

// CheckPassword verifies if the provided password matches the user's stored password
func (u *User) CheckPassword(password string) bool {
	return CheckPasswordHash(password, u.Password)
}

// SetPassword hashes and sets a new password for the user
func (u *User) SetPassword(password string) error {
	hashedPassword, err := HashPassword(password)
	if err != nil {
		return err
	}
	u.Password = hashedPassword
	return nil
}

// HashAuthToken returns the hex-encoded SHA-256 of a bearer token. Only the
// hash is persisted.
func HashAuthToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// IssueAuthToken generates a new random bearer token, stores its hash on
// the user and returns the plaintext token exactly once.
func (u *User) IssueAuthToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	token := hex.EncodeToString(b)
	u.AuthTokenHash = HashAuthToken(token)
	now := time.Now()
	u.AuthTokenIssued = &now
	return token, nil
}

// RevokeAuthToken clears the stored token hash, invalidating the session.
func (u *User) RevokeAuthToken() {
	u.AuthTokenHash = ""
	u.AuthTokenIssued = nil
}

// CanAttemptLogin reports whether the user is inside the allowed number of
// failed attempts for the throttle window.
func (u *User) CanAttemptLogin(now time.Time) bool {
	if u.LoginAttempts < maxLoginAttempts {
		return true
	}
	if u.LastLoginAttempt == nil {
		return true
	}
	return now.Sub(*u.LastLoginAttempt) > loginAttemptWindow
}

// RegisterFailedLogin bumps the failed-attempt counter. The counter resets
// itself once the throttle window has passed.
func (u *User) RegisterFailedLogin(now time.Time) {
	if u.LastLoginAttempt != nil && now.Sub(*u.LastLoginAttempt) > loginAttemptWindow {
		u.LoginAttempts = 0
	}
	u.LoginAttempts++
	u.LastLoginAttempt = &now
}

// RegisterSuccessfulLogin resets throttling state and stamps the login time.
func (u *User) RegisterSuccessfulLogin(now time.Time) {
	u.LoginAttempts = 0
	u.LastLoginAttempt = nil
	u.LastLoginAt = &now
}

// AddOrgPoints awards organization points, e.g. for completing a card.
func (u *User) AddOrgPoints(points int) {
	if points < 0 {
		return
	}
	u.OrgPoints += points
}
