package auth

import (
	"context"
	"crypto/rand"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"github.com/frahmantamala/gearguard/internal"
	otpDatamodel "github.com/frahmantamala/gearguard/internal/core/datamodel/otp"
	userDatamodel "github.com/frahmantamala/gearguard/internal/core/datamodel/user"
	"github.com/frahmantamala/gearguard/internal/user"
	"golang.org/x/crypto/bcrypt"
)

const otpRateWindow = time.Hour

var (
	ErrEmailExists = internal.NewValidationError("An account with this email already exists", internal.ErrCodeEmailExists)
	ErrInvalidOTP  = internal.NewValidationError("Invalid verification code", internal.ErrCodeInvalidOTP)
	ErrOTPExpired  = internal.NewValidationError("Verification code has expired. Please request a new one", internal.ErrCodeOTPExpired)
)

type UserRepositoryAPI interface {
	GetByID(ctx context.Context, id int64) (*userDatamodel.User, error)
	GetByEmail(ctx context.Context, email string) (*userDatamodel.User, error)
	Create(ctx context.Context, user *userDatamodel.User) error
}

type OTPRepositoryAPI interface {
	Create(ctx context.Context, code *otpDatamodel.Code) error
	GetLatest(ctx context.Context, email string) (*otpDatamodel.Code, error)
	IncrementAttempts(ctx context.Context, id int64) error
	DeleteByEmail(ctx context.Context, email string) error
}

// RateLimiter counts events per key over a sliding window.
type RateLimiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

// TokenRevoker tracks logged-out token ids until they expire.
type TokenRevoker interface {
	BlacklistToken(ctx context.Context, jti string, ttl time.Duration) error
	IsBlacklisted(ctx context.Context, jti string) (bool, error)
}

type OTPSender interface {
	SendOTP(ctx context.Context, email, code string, ttl time.Duration) error
}

type Dependencies struct {
	Users    UserRepositoryAPI
	OTPs     OTPRepositoryAPI
	Tokens   TokenGeneratorAPI
	Limiter  RateLimiter
	Revoker  TokenRevoker
	Sender   OTPSender
	Security internal.SecurityConfig
	OTP      internal.OTPConfig
	Logger   *slog.Logger
}

// Service is the main auth service with dependencies
type Service struct {
	users    UserRepositoryAPI
	otps     OTPRepositoryAPI
	tokens   TokenGeneratorAPI
	limiter  RateLimiter
	revoker  TokenRevoker
	sender   OTPSender
	security internal.SecurityConfig
	otp      internal.OTPConfig
	logger   *slog.Logger
	now      func() time.Time
}

// NewService creates a new auth service
func NewService(deps Dependencies) *Service {
	if deps.Security.BCryptCost == 0 {
		deps.Security.BCryptCost = bcrypt.DefaultCost
	}
	return &Service{
		users:    deps.Users,
		otps:     deps.OTPs,
		tokens:   deps.Tokens,
		limiter:  deps.Limiter,
		revoker:  deps.Revoker,
		sender:   deps.Sender,
		security: deps.Security,
		otp:      deps.OTP,
		logger:   deps.Logger,
		now:      time.Now,
	}
}

// Login verifies the password before looking at the account status, so a
// disabled account is only revealed to someone holding its credentials.
func (s *Service) Login(ctx context.Context, dto LoginDTO) (*Session, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	row, err := s.users.GetByEmail(ctx, dto.Email)
	if err != nil {
		s.logger.Error("failed to load user for login", "error", err)
		return nil, internal.NewInternalError("failed to login", err)
	}
	if row == nil {
		return nil, internal.ErrInvalidCredentials
	}

	if err := VerifyPassword(row.PasswordHash, dto.Password); err != nil {
		s.logger.Warn("login failed: wrong password", "user_id", row.ID)
		return nil, internal.ErrInvalidCredentials
	}

	u := user.FromDataModel(row)
	if !u.IsActive() {
		s.logger.Warn("login refused: account disabled", "user_id", u.ID)
		return nil, internal.ErrAccountDisabled
	}

	return s.issueSession(u)
}

// SendOTP emails a fresh sign-up code, replacing any earlier one.
func (s *Service) SendOTP(ctx context.Context, dto SendOTPDTO) (*OTPChallenge, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.users.GetByEmail(ctx, dto.Email)
	if err != nil {
		return nil, internal.NewInternalError("failed to check email", err)
	}
	if existing != nil {
		return nil, ErrEmailExists
	}

	allowed, err := s.limiter.Allow(ctx, "otp:"+dto.Email, s.otp.MaxPerHour, otpRateWindow)
	if err != nil {
		s.logger.Error("otp rate limiter unavailable", "error", err)
		return nil, internal.NewInternalError("failed to send OTP", err)
	}
	if !allowed {
		s.logger.Warn("otp rate limit reached", "email", dto.Email)
		return nil, internal.ErrTooManyOTPRequests
	}

	if err := s.otps.DeleteByEmail(ctx, dto.Email); err != nil {
		return nil, internal.NewInternalError("failed to send OTP", err)
	}

	code, err := GenerateOTP()
	if err != nil {
		return nil, internal.NewInternalError("failed to generate OTP", err)
	}
	hash, err := HashPassword(code, s.security.BCryptCost)
	if err != nil {
		return nil, internal.NewInternalError("failed to generate OTP", err)
	}

	now := s.now()
	record := &otpDatamodel.Code{
		Email:     dto.Email,
		CodeHash:  hash,
		ExpiresAt: now.Add(s.otp.TTL),
	}
	if err := s.otps.Create(ctx, record); err != nil {
		return nil, internal.NewInternalError("failed to send OTP", err)
	}

	if err := s.sender.SendOTP(ctx, dto.Email, code, s.otp.TTL); err != nil {
		s.logger.Error("failed to deliver otp", "error", err, "email", dto.Email)
		if err := s.otps.DeleteByEmail(ctx, dto.Email); err != nil {
			s.logger.Warn("failed to clear undelivered otp", "error", err, "email", dto.Email)
		}
		return nil, internal.NewInternalError("failed to send OTP email", err)
	}

	s.logger.Info("otp sent", "email", dto.Email)
	return &OTPChallenge{
		Email:             dto.Email,
		ExpiresAt:         record.ExpiresAt,
		ResendAvailableAt: now.Add(s.otp.ResendAfter),
	}, nil
}

// VerifyOTP checks the sign-up code and creates the account.
func (s *Service) VerifyOTP(ctx context.Context, dto VerifyOTPDTO) (*Session, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	record, err := s.otps.GetLatest(ctx, dto.Email)
	if err != nil {
		return nil, internal.NewInternalError("failed to verify OTP", err)
	}
	if record == nil {
		return nil, ErrInvalidOTP
	}

	if !s.now().Before(record.ExpiresAt) {
		if err := s.otps.DeleteByEmail(ctx, dto.Email); err != nil {
			s.logger.Warn("failed to clear expired otp", "error", err, "email", dto.Email)
		}
		return nil, ErrOTPExpired
	}

	if VerifyPassword(record.CodeHash, dto.OTP) != nil {
		return nil, s.recordFailedAttempt(ctx, record)
	}

	existing, err := s.users.GetByEmail(ctx, dto.Email)
	if err != nil {
		return nil, internal.NewInternalError("failed to verify OTP", err)
	}
	if existing != nil {
		return nil, ErrEmailExists
	}

	hash, err := HashPassword(dto.Password, s.security.BCryptCost)
	if err != nil {
		return nil, internal.NewInternalError("failed to create account", err)
	}

	row := &userDatamodel.User{
		Name:         dto.Name,
		Email:        dto.Email,
		PasswordHash: hash,
		Role:         user.RoleUser,
		Status:       user.StatusActive,
		IsVerified:   true,
	}
	if err := s.users.Create(ctx, row); err != nil {
		s.logger.Error("failed to create verified user", "error", err, "email", dto.Email)
		return nil, internal.NewInternalError("failed to create account", err)
	}

	if err := s.otps.DeleteByEmail(ctx, dto.Email); err != nil {
		s.logger.Warn("failed to clear used otp", "error", err, "email", dto.Email)
	}

	s.logger.Info("user registered", "user_id", row.ID)
	return s.issueSession(user.FromDataModel(row))
}

func (s *Service) recordFailedAttempt(ctx context.Context, record *otpDatamodel.Code) error {
	if record.Attempts+1 >= s.otp.MaxAttempts {
		s.logger.Warn("otp invalidated after too many attempts", "email", record.Email)
		if err := s.otps.DeleteByEmail(ctx, record.Email); err != nil {
			return internal.NewInternalError("failed to verify OTP", err)
		}
		return ErrInvalidOTP.WithDetails(map[string]int{"attemptsRemaining": 0})
	}

	if err := s.otps.IncrementAttempts(ctx, record.ID); err != nil {
		return internal.NewInternalError("failed to verify OTP", err)
	}
	return ErrInvalidOTP.WithDetails(map[string]int{"attemptsRemaining": s.otp.MaxAttempts - record.Attempts - 1})
}

// Logout revokes the token until it would have expired. Invalid tokens are
// already unusable and are ignored.
func (s *Service) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	claims, err := s.tokens.ValidateToken(token)
	if err != nil {
		return nil
	}

	ttl := claims.ExpiresAt.Sub(s.now())
	if ttl <= 0 {
		return nil
	}
	if err := s.revoker.BlacklistToken(ctx, claims.ID, ttl); err != nil {
		s.logger.Error("failed to revoke token", "error", err, "user_id", claims.UserID)
		return internal.NewInternalError("failed to logout", err)
	}

	s.logger.Info("user logged out", "user_id", claims.UserID)
	return nil
}

// Authenticate resolves a session token into the caller identity. The role
// is read from the database so changes apply without a new login.
func (s *Service) Authenticate(ctx context.Context, token string) (*internal.User, error) {
	claims, err := s.tokens.ValidateToken(token)
	if err != nil {
		return nil, err
	}

	revoked, err := s.revoker.IsBlacklisted(ctx, claims.ID)
	if err != nil {
		return nil, internal.NewInternalError("failed to check session", err)
	}
	if revoked {
		return nil, internal.ErrTokenRevoked
	}

	row, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, internal.NewInternalError("failed to load session user", err)
	}
	if row == nil {
		return nil, internal.ErrInvalidToken
	}
	if row.Status != user.StatusActive {
		return nil, internal.ErrAccountDisabled
	}

	return &internal.User{
		ID:      row.ID,
		Name:    row.Name,
		Email:   row.Email,
		Role:    row.Role,
		TokenID: claims.ID,
	}, nil
}

func (s *Service) Me(ctx context.Context, id int64) (*user.User, error) {
	row, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, internal.NewInternalError("failed to load profile", err)
	}
	if row == nil {
		return nil, internal.ErrUserNotFound
	}
	return user.FromDataModel(row), nil
}

func (s *Service) issueSession(u *user.User) (*Session, error) {
	token, claims, err := s.tokens.GenerateToken(u.ID, u.Email, u.Role)
	if err != nil {
		s.logger.Error("failed to sign token", "error", err, "user_id", u.ID)
		return nil, internal.NewInternalError("failed to create session", err)
	}
	return &Session{
		Token:     token,
		ExpiresAt: claims.ExpiresAt.Time,
		User:      u,
	}, nil
}

// GenerateOTP returns a uniformly random 6 digit code.
func GenerateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

func VerifyPassword(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}

func HashPassword(password string, cost int) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
