package backendstub

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"net/http"

	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/VINCENT-bot354/-SAFARIBYTES/internal/logging"
)

const minPasswordLength = 5

func hashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func checkPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

func (s *Server) CustomerLogin(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.customer_login")

	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}

	var customer Customer
	err := s.DB.WithContext(ctx).Where("email = ?", req.Email).First(&customer).Error
	if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && !checkPassword(customer.PasswordHash, req.Password)) {
		l.Warn("login_rejected", "email", req.Email)
		return fail(c, http.StatusUnauthorized, "Invalid email or password")
	}
	if err != nil {
		l.Error("login_error", "error", err)
		return fail(c, http.StatusInternalServerError, "internal error")
	}
	if !customer.IsActive {
		return fail(c, http.StatusForbidden, "Account is deactivated")
	}

	token, err := s.mintToken("customer", customer.ID)
	if err != nil {
		l.Error("token_error", "error", err)
		return fail(c, http.StatusInternalServerError, "internal error")
	}

	l.Info("login_success", "customer_id", customer.ID)
	return c.JSON(http.StatusOK, echo.Map{"success": true, "token": token})
}

func (s *Server) CustomerRegister(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.customer_register")

	var req struct {
		Email    string `json:"email"`
		Username string `json:"username"`
		Password string `json:"password"`
		Phone    string `json:"phone"`
		OTP      string `json:"otp"`
	}
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}
	if req.Email == "" || len(req.Password) < minPasswordLength {
		return fail(c, http.StatusBadRequest, fmt.Sprintf("Password must be at least %d characters long", minPasswordLength))
	}

	if !s.consumeOTP(c, req.Email, req.OTP) {
		return fail(c, http.StatusBadRequest, "Invalid or expired verification code")
	}

	hash, err := hashPassword(req.Password)
	if err != nil {
		l.Error("hash_error", "error", err)
		return fail(c, http.StatusInternalServerError, "internal error")
	}

	customer := Customer{
		Email:        req.Email,
		Username:     req.Username,
		Phone:        req.Phone,
		PasswordHash: hash,
		IsActive:     true,
	}
	if err := s.DB.WithContext(ctx).Create(&customer).Error; err != nil {
		l.Warn("register_conflict", "email", req.Email, "error", err)
		return fail(c, http.StatusConflict, "An account with this email already exists")
	}

	token, err := s.mintToken("customer", customer.ID)
	if err != nil {
		l.Error("token_error", "error", err)
		return fail(c, http.StatusInternalServerError, "internal error")
	}

	l.Info("register_success", "customer_id", customer.ID)
	return c.JSON(http.StatusOK, echo.Map{"success": true, "token": token})
}

func (s *Server) SendOTP(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.send_otp")

	var req struct {
		Email string `json:"email"`
	}
	if err := c.Bind(&req); err != nil || req.Email == "" {
		return fail(c, http.StatusBadRequest, "email required")
	}

	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return fail(c, http.StatusInternalServerError, "internal error")
	}
	code := fmt.Sprintf("%06d", n.Int64())

	otp := OTPVerification{Email: req.Email, Code: code, Purpose: "verify"}
	if err := s.DB.WithContext(ctx).Create(&otp).Error; err != nil {
		l.Error("otp_store_error", "error", err)
		return fail(c, http.StatusInternalServerError, "internal error")
	}

	// A real backend emails the code; the stub logs it instead.
	l.Info("otp_issued", "email", req.Email, "code", code)
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "Verification code sent"})
}

func (s *Server) VerifyOTP(c echo.Context) error {
	var req struct {
		Email string `json:"email"`
		OTP   string `json:"otp"`
	}
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}
	var otp OTPVerification
	err := s.DB.WithContext(c.Request().Context()).
		Where("email = ? AND code = ? AND is_used = ?", req.Email, req.OTP, false).
		First(&otp).Error
	if err != nil {
		return fail(c, http.StatusBadRequest, "Invalid or expired verification code")
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// consumeOTP burns an unused code for the email; used by register and
// password reset.
func (s *Server) consumeOTP(c echo.Context, email, code string) bool {
	if code == "" {
		return false
	}
	res := s.DB.WithContext(c.Request().Context()).
		Model(&OTPVerification{}).
		Where("email = ? AND code = ? AND is_used = ?", email, code, false).
		Update("is_used", true)
	return res.Error == nil && res.RowsAffected > 0
}

func (s *Server) ResetPassword(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.reset_password")

	var req struct {
		Email    string `json:"email"`
		OTP      string `json:"otp"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}
	if len(req.Password) < minPasswordLength {
		return fail(c, http.StatusBadRequest, fmt.Sprintf("Password must be at least %d characters long", minPasswordLength))
	}
	if !s.consumeOTP(c, req.Email, req.OTP) {
		return fail(c, http.StatusBadRequest, "Invalid or expired verification code")
	}

	hash, err := hashPassword(req.Password)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "internal error")
	}
	res := s.DB.WithContext(ctx).Model(&Customer{}).Where("email = ?", req.Email).Update("password_hash", hash)
	if res.Error != nil || res.RowsAffected == 0 {
		l.Warn("reset_rejected", "email", req.Email)
		return fail(c, http.StatusNotFound, "Account not found")
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "Password updated"})
}

func (s *Server) StaffLogin(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.staff_login")

	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}

	var staff Staff
	err := s.DB.WithContext(ctx).Where("email = ?", req.Email).First(&staff).Error
	if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && !checkPassword(staff.PasswordHash, req.Password)) {
		l.Warn("login_rejected", "email", req.Email)
		return fail(c, http.StatusUnauthorized, "Invalid email or password")
	}
	if err != nil {
		l.Error("login_error", "error", err)
		return fail(c, http.StatusInternalServerError, "internal error")
	}
	if !staff.IsApproved {
		return fail(c, http.StatusForbidden, "Account pending approval")
	}

	token, err := s.mintToken("staff", staff.ID)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "internal error")
	}

	l.Info("login_success", "staff_id", staff.ID)
	return c.JSON(http.StatusOK, echo.Map{
		"success":             true,
		"token":               token,
		"needs_tracking_link": staff.TrackingLink == "",
	})
}

func (s *Server) AdminLogin(c echo.Context) error {
	ctx := c.Request().Context()

	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}

	var admin Admin
	err := s.DB.WithContext(ctx).Where("email = ?", req.Email).First(&admin).Error
	if err != nil || !checkPassword(admin.PasswordHash, req.Password) {
		return fail(c, http.StatusUnauthorized, "Invalid email or password")
	}

	token, err := s.mintToken("admin", admin.ID)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "internal error")
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "token": token})
}

func (s *Server) CustomerProfile(c echo.Context) error {
	if role(c) != "customer" {
		return fail(c, http.StatusForbidden, "forbidden")
	}
	var customer Customer
	if err := s.DB.WithContext(c.Request().Context()).First(&customer, userID(c)).Error; err != nil {
		return fail(c, http.StatusNotFound, "Account not found")
	}
	return c.JSON(http.StatusOK, customer)
}

func (s *Server) StaffProfile(c echo.Context) error {
	if role(c) != "staff" {
		return fail(c, http.StatusForbidden, "forbidden")
	}
	var staff Staff
	if err := s.DB.WithContext(c.Request().Context()).First(&staff, userID(c)).Error; err != nil {
		return fail(c, http.StatusNotFound, "Account not found")
	}
	return c.JSON(http.StatusOK, staff)
}

func (s *Server) SetTrackingLink(c echo.Context) error {
	if role(c) != "staff" {
		return fail(c, http.StatusForbidden, "forbidden")
	}
	var req struct {
		TrackingLink string `json:"tracking_link"`
	}
	if err := c.Bind(&req); err != nil || req.TrackingLink == "" {
		return fail(c, http.StatusBadRequest, "tracking_link required")
	}
	err := s.DB.WithContext(c.Request().Context()).
		Model(&Staff{}).Where("id = ?", userID(c)).
		Update("tracking_link", req.TrackingLink).Error
	if err != nil {
		return fail(c, http.StatusInternalServerError, "internal error")
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "Tracking link saved"})
}
