package services

import (
	"strings"
	"time"

	"github.com/HearthApp/hearth-go/internal/infrastructure/observability/logging"
	"github.com/HearthApp/hearth-go/internal/infrastructure/observability/performance"
	"github.com/HearthApp/hearth-go/internal/infrastructure/security"
	"github.com/HearthApp/hearth-go/pkg/config"
	"golang.org/x/crypto/bcrypt"
)

const adminTokenTTL = 24 * time.Hour

// AuthResult describes an authentication attempt.
type AuthResult struct {
	Success bool
	Token   string
}

// AuthService handles admin authentication and token validation.
type AuthService struct {
	logger      *logging.ChanneledLogger
	perfTracker *performance.Tracker
}

func NewAuthService(logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *AuthService {
	return &AuthService{
		logger:      logger,
		perfTracker: perfTracker,
	}
}

// AuthenticateAdmin checks the password against the configured bcrypt hash
// and mints an admin token on success.
func (a *AuthService) AuthenticateAdmin(password string) *AuthResult {
	start := time.Now()
	marker := a.perfTracker.StartOperation("authenticate_admin")
	defer marker.Complete()

	if config.AdminPasswordHash == "" {
		a.logger.Auth().Warn("Admin authentication attempted with no configured password hash")
		return &AuthResult{Success: false}
	}

	if err := bcrypt.CompareHashAndPassword([]byte(config.AdminPasswordHash), []byte(password)); err != nil {
		a.logger.Auth().Warn("Admin authentication failed", "duration", time.Since(start))
		return &AuthResult{Success: false}
	}

	token, err := security.GenerateAdminToken(config.JWTSecret, adminTokenTTL)
	if err != nil {
		a.logger.Auth().Error("Failed to sign admin token", "error", err.Error())
		return &AuthResult{Success: false}
	}

	a.logger.Auth().Info("Admin authentication successful", "duration", time.Since(start))
	marker.SetSuccess(true)
	return &AuthResult{Success: true, Token: token}
}

// ValidateAdminRole validates a bearer header and requires the admin role.
func (a *AuthService) ValidateAdminRole(authHeader string) bool {
	tokenString, ok := bearerToken(authHeader)
	if !ok {
		return false
	}

	claims, err := security.ValidateJWT(tokenString, config.JWTSecret)
	if err != nil {
		return false
	}

	return security.GetRoleFromClaims(claims) == security.AdminRole
}

func bearerToken(authHeader string) (string, bool) {
	if len(authHeader) < 8 || !strings.HasPrefix(authHeader, "Bearer ") {
		return "", false
	}
	return authHeader[7:], true
}
