package service

import (
	"context"
	"crypto/subtle"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/educontrol/educontrol-api/internal/models"
	appErrors "github.com/educontrol/educontrol-api/pkg/errors"
)

type identityResolver interface {
	ResolveIdentity(ctx context.Context, key string) (*models.IdentityMatch, error)
}

type matriculaLookup interface {
	MatriculaByID(ctx context.Context, id int64) (string, error)
}

// AuthConfig defines token and legacy login settings.
type AuthConfig struct {
	Secret                  string
	Expiry                  time.Duration
	Issuer                  string
	AllowPlaintextPasswords bool
	AllowMatriculaLogin     bool
	StudentLinkColumn       bool
}

var matriculaInUsername = regexp.MustCompile(`\d{4,}`)

// AuthService authenticates staff and students and issues session tokens.
type AuthService struct {
	identities identityResolver
	students   matriculaLookup
	validator  *validator.Validate
	logger     *zap.Logger
	config     AuthConfig
	now        func() time.Time
}

// NewAuthService constructs an AuthService.
func NewAuthService(identities identityResolver, students matriculaLookup, validate *validator.Validate, logger *zap.Logger, config AuthConfig) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if config.Expiry <= 0 {
		config.Expiry = 12 * time.Hour
	}
	return &AuthService{identities: identities, students: students, validator: validate, logger: logger, config: config, now: time.Now}
}

// Login verifies the credentials and returns a session token with the landing view of the role.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	req.Key = strings.TrimSpace(req.Key)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Classify(err, appErrors.ErrValidation, "usuario and password are required")
	}

	match, err := s.identities.ResolveIdentity(ctx, req.Key)
	if err != nil {
		if appErrors.Is(err, appErrors.ErrNotFound) {
			return nil, appErrors.ErrInvalidCredentials
		}
		return nil, err
	}

	var session models.SessionInfo
	switch match.Kind {
	case models.IdentityStaff:
		user := match.Staff
		if !user.IsActive() {
			return nil, appErrors.ErrInactiveAccount
		}
		if !s.passwordMatches(user.Password, req.Password) {
			return nil, appErrors.ErrInvalidCredentials
		}
		session = models.SessionInfo{ID: user.ID, Name: user.Username, Role: user.Role(), Kind: models.IdentityStaff}
		if session.Role == models.RoleStudent {
			session.Matricula = s.studentMatricula(ctx, user)
		}
	case models.IdentityStudent:
		student := match.Student
		if !s.config.AllowMatriculaLogin || subtle.ConstantTimeCompare([]byte(req.Password), []byte(student.Matricula)) != 1 {
			return nil, appErrors.ErrInvalidCredentials
		}
		session = models.SessionInfo{
			ID:        student.ID,
			Name:      student.Name,
			Role:      models.RoleStudent,
			Kind:      models.IdentityStudent,
			Matricula: student.Matricula,
		}
	default:
		return nil, appErrors.ErrInvalidCredentials
	}

	token, err := s.issueToken(session)
	if err != nil {
		return nil, appErrors.Classify(err, appErrors.ErrInternal, "failed to create session token")
	}
	landing, redirect := Landing(session)
	s.logger.Info("login succeeded", zap.Int64("id", session.ID), zap.String("role", string(session.Role)), zap.String("kind", string(session.Kind)))

	return &models.LoginResponse{
		Token:     token,
		ExpiresIn: int64(s.config.Expiry.Seconds()),
		User:      session,
		Landing:   landing,
		Redirect:  redirect,
	}, nil
}

// ValidateToken parses a session token and returns its claims.
func (s *AuthService) ValidateToken(tokenString string) (*models.SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.Secret), nil
	})
	if err != nil {
		return nil, appErrors.Classify(err, appErrors.ErrUnauthorized, "invalid token")
	}
	claims, ok := token.Claims.(*models.SessionClaims)
	if !ok || !token.Valid {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token claims")
	}
	return claims, nil
}

// Landing maps a session to the view it opens after login.
func Landing(session models.SessionInfo) (string, string) {
	switch session.Role {
	case models.RoleOrientation:
		return models.LandingOrientation, "/orientation/totals"
	case models.RoleStudent:
		if session.Matricula == "" {
			return models.LandingStudent, "/auth/me"
		}
		return models.LandingStudent, "/students/" + session.Matricula + "/reports"
	default:
		return models.LandingPrefect, "/students"
	}
}

// passwordMatches accepts bcrypt hashes, including the $2y$ prefix written by PHP. Plaintext
// comparison is only attempted when enabled.
func (s *AuthService) passwordMatches(stored, candidate string) bool {
	if strings.HasPrefix(stored, "$2") {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(candidate)) == nil
	}
	if !s.config.AllowPlaintextPasswords || stored == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(candidate)) == 1
}

// studentMatricula finds the matricula of a student account, preferring the linked alumno row
// over digits embedded in the username.
func (s *AuthService) studentMatricula(ctx context.Context, user *models.StaffUser) string {
	if s.config.StudentLinkColumn && user.StudentID != nil && s.students != nil {
		matricula, err := s.students.MatriculaByID(ctx, *user.StudentID)
		if err == nil && matricula != "" {
			return matricula
		}
		if err != nil {
			s.logger.Warn("resolve linked student", zap.Int64("alumno_id", *user.StudentID), zap.Error(err))
		}
	}
	return matriculaInUsername.FindString(user.Username)
}

func (s *AuthService) issueToken(session models.SessionInfo) (string, error) {
	issuedAt := s.now().UTC()
	claims := &models.SessionClaims{
		UserID:    session.ID,
		Name:      session.Name,
		Role:      session.Role,
		Kind:      session.Kind,
		Matricula: session.Matricula,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.config.Issuer,
			Subject:   string(session.Kind) + ":" + strconv.FormatInt(session.ID, 10),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(s.config.Expiry)),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			NotBefore: jwt.NewNumericDate(issuedAt),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.config.Secret))
}
