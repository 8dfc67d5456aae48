package backendstub

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	_ "github.com/lib/pq"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Server is a development stand-in for the production backend: the full
// REST contract the portals consume, backed by gorm. It exists so the
// portals and their integration tests run without the real service.
type Server struct {
	DB        *gorm.DB
	JWTSecret []byte
}

// InitDB opens postgres when DATABASE_URL is set and falls back to a
// local sqlite file otherwise.
func InitDB(ctx context.Context, databaseURL, sqlitePath string) (*gorm.DB, error) {
	var (
		db  *gorm.DB
		err error
	)
	cfg := &gorm.Config{
		NowFunc: func() time.Time { return time.Now().UTC() },
	}
	if databaseURL != "" {
		db, err = gorm.Open(postgres.Open(databaseURL), cfg)
	} else {
		db, err = gorm.Open(sqlite.Open(sqlitePath), cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := db.WithContext(ctx).AutoMigrate(
		&Customer{}, &Staff{}, &Admin{}, &Product{}, &Order{},
		&CartItem{}, &Notification{}, &Settings{}, &OTPVerification{},
	); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}

	var count int64
	db.Model(&Settings{}).Count(&count)
	if count == 0 {
		if err := db.Create(&Settings{MinDeliveryFee: 100}).Error; err != nil {
			return nil, fmt.Errorf("seed settings: %w", err)
		}
	}
	return db, nil
}

func New(db *gorm.DB, jwtSecret []byte) *Server {
	return &Server{DB: db, JWTSecret: jwtSecret}
}

// Register mounts the contract under /api.
func (s *Server) Register(e *echo.Echo) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	g := e.Group("/api")
	g.GET("/products", s.ListProducts)
	g.GET("/settings", s.GetSettings)
	g.GET("/orders/:id/tracking", s.OrderTracking)

	g.POST("/customer/login", s.CustomerLogin)
	g.POST("/customer/register", s.CustomerRegister)
	g.POST("/customer/send-otp", s.SendOTP)
	g.POST("/customer/verify-otp", s.VerifyOTP)
	g.POST("/customer/forgot-password", s.SendOTP)
	g.POST("/customer/reset-password", s.ResetPassword)
	g.POST("/staff/login", s.StaffLogin)
	g.POST("/admin/login", s.AdminLogin)

	auth := g.Group("", s.RequireAuth)
	auth.GET("/customer/profile", s.CustomerProfile)
	auth.GET("/staff/profile", s.StaffProfile)
	auth.PUT("/staff/tracking-link", s.SetTrackingLink)

	auth.GET("/orders", s.ListOrders)
	auth.POST("/orders", s.CreateOrder)
	auth.POST("/orders/:id/claim", s.ClaimOrder)
	auth.POST("/orders/:id/unclaim", s.UnclaimOrder)
	auth.POST("/orders/:id/payment", s.RequestPayment)
	auth.POST("/orders/:id/mark-paid", s.MarkPaid)
	auth.POST("/orders/:id/deliver", s.DeliverOrder)

	auth.POST("/customer/cart", s.AddToCart)
	auth.GET("/customer/cart", s.GetCart)
	auth.GET("/customer/notifications", s.ListNotifications)
	auth.POST("/customer/notifications/:id/read", s.MarkNotificationRead)
}

func fail(c echo.Context, status int, message string) error {
	return c.JSON(status, echo.Map{"success": false, "message": message})
}

func (s *Server) mintToken(role string, userID uint) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatUint(uint64(userID), 10),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, struct {
		jwt.RegisteredClaims
		Role string `json:"role"`
	}{claims, role})
	return token.SignedString(s.JWTSecret)
}

// RequireAuth verifies the bearer token and stores user_id and role on
// the request context.
func (s *Server) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		header := c.Request().Header.Get("Authorization")
		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || raw == "" {
			return fail(c, http.StatusUnauthorized, "unauthorized")
		}

		var claims struct {
			jwt.RegisteredClaims
			Role string `json:"role"`
		}
		_, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
			if t.Method != jwt.SigningMethodHS256 {
				return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
			}
			return s.JWTSecret, nil
		})
		if err != nil {
			return fail(c, http.StatusUnauthorized, "unauthorized")
		}

		id, err := strconv.ParseUint(claims.Subject, 10, 64)
		if err != nil {
			return fail(c, http.StatusUnauthorized, "unauthorized")
		}
		c.Set("user_id", uint(id))
		c.Set("role", claims.Role)
		return next(c)
	}
}

func userID(c echo.Context) uint {
	v, _ := c.Get("user_id").(uint)
	return v
}

func role(c echo.Context) string {
	v, _ := c.Get("role").(string)
	return v
}
