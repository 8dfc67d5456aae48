package session

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/VINCENT-bot354/-SAFARIBYTES/internal/api"
)

type tokenRow struct {
	Key   string `gorm:"primaryKey"`
	Value string `gorm:"not null"`
}

func (tokenRow) TableName() string { return "session_tokens" }

// Store keeps the opaque bearer tokens in durable local storage under
// the admin_token / customer_token / staff_token keys.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) (*Store, error) {
	if err := db.AutoMigrate(&tokenRow{}); err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

func tokenKey(role api.Role) string {
	return string(role) + "_token"
}

// Token returns the stored bearer for the role, empty when logged out.
func (s *Store) Token(ctx context.Context, role api.Role) (string, error) {
	var row tokenRow
	err := s.db.WithContext(ctx).Where("key = ?", tokenKey(role)).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return row.Value, nil
}

func (s *Store) SetToken(ctx context.Context, role api.Role, token string) error {
	row := tokenRow{Key: tokenKey(role), Value: token}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{UpdateAll: true}).Create(&row).Error
}

func (s *Store) ClearToken(ctx context.Context, role api.Role) error {
	return s.db.WithContext(ctx).Where("key = ?", tokenKey(role)).Delete(&tokenRow{}).Error
}

// TokenExpired inspects a bearer's exp claim without verifying the
// signature: validity is the backend's call, this only avoids starting a
// session the backend is guaranteed to reject. Unparseable tokens count
// as expired.
func TokenExpired(token string, now time.Time) bool {
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return true
	}
	if claims.ExpiresAt == nil {
		return false
	}
	return now.After(claims.ExpiresAt.Time)
}

// StaffRoute is where a staff session lands after authentication.
type StaffRoute int

const (
	RouteDashboard StaffRoute = iota
	RouteTrackingSetup
)

// RouteFor gates the staff dashboard: assignment and tracking features
// depend on a tracking link, so a profile without one is sent to setup
// first.
func RouteFor(profile *api.StaffProfile) StaffRoute {
	if profile == nil || profile.TrackingLink == "" {
		return RouteTrackingSetup
	}
	return RouteDashboard
}
