package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"
	"unicode"

	"catalog/internal/models"
	"catalog/internal/otp"
	"catalog/internal/repositories"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 8

// AuthConfig holds token and one-time code settings.
type AuthConfig struct {
	JWTSecret string
	TokenTTL  time.Duration
	OTPTTL    time.Duration
	OTPLength int
}

// Identity is the authenticated caller behind a valid token.
type Identity struct {
	UserID    string
	Email     string
	IsAdmin   bool
	SessionID string
}

// SignupInput is the payload of a signup request.
type SignupInput struct {
	Email           string
	Password        string
	ConfirmPassword string
}

// PasswordResetInput completes a password reset.
type PasswordResetInput struct {
	Email           string
	Code            string
	NewPassword     string
	ConfirmPassword string
}

// ChangePasswordInput changes the password of a signed-in user.
type ChangePasswordInput struct {
	OldPassword     string
	NewPassword     string
	ConfirmPassword string
}

// AuthService handles business logic for authentication and authorization.
type AuthService struct {
	userRepo    repositories.UserRepository
	sessionRepo repositories.SessionRepository
	otpRepo     repositories.OTPRepository
	events      EventPublisher
	jwtSecret   []byte
	tokenTTL    time.Duration
	otpTTL      time.Duration
	otpLength   int
	now         func() time.Time
}

// NewAuthService creates a new AuthService. events may be nil.
func NewAuthService(userRepo repositories.UserRepository, sessionRepo repositories.SessionRepository,
	otpRepo repositories.OTPRepository, events EventPublisher, cfg AuthConfig) *AuthService {
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = 24 * time.Hour
	}
	if cfg.OTPTTL <= 0 {
		cfg.OTPTTL = 10 * time.Minute
	}
	if cfg.OTPLength <= 0 {
		cfg.OTPLength = otp.DefaultLength
	}
	return &AuthService{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		otpRepo:     otpRepo,
		events:      events,
		jwtSecret:   []byte(cfg.JWTSecret),
		tokenTTL:    cfg.TokenTTL,
		otpTTL:      cfg.OTPTTL,
		otpLength:   cfg.OTPLength,
		now:         time.Now,
	}
}

// Signup registers an inactive account and sends a confirmation code. Signing up again with the
// email of an account that was never confirmed replaces its password and sends a new code.
func (s *AuthService) Signup(ctx context.Context, in SignupInput) (*models.User, error) {
	email, err := normalizeEmail(in.Email)
	if err != nil {
		return nil, err
	}
	if err := validatePassword(in.Password, in.ConfirmPassword); err != nil {
		return nil, err
	}

	hashed, err := hashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	switch {
	case err == nil && user.IsActive:
		return nil, fmt.Errorf("email '%s' already registered: %w", email, ErrConflict)
	case err == nil:
		user.Password = hashed
		if err := s.userRepo.Update(ctx, user); err != nil {
			return nil, fmt.Errorf("failed to update pending user: %w", err)
		}
	case errors.Is(err, ErrNotFound):
		user = &models.User{Email: email, Password: hashed}
		if err := s.userRepo.Create(ctx, user); err != nil {
			return nil, fmt.Errorf("failed to register user: %w", err)
		}
	default:
		return nil, err
	}

	if err := s.issueOTP(ctx, user, models.OTPPurposeSignup); err != nil {
		return nil, err
	}
	return user, nil
}

// ConfirmSignup activates an account with the code sent at signup.
func (s *AuthService) ConfirmSignup(ctx context.Context, email, code string) error {
	user, err := s.lookupForOTP(ctx, email)
	if err != nil {
		return err
	}
	if user.IsActive {
		return ErrAlreadyActive
	}

	if err := s.verifyOTP(ctx, user.ID, models.OTPPurposeSignup, code); err != nil {
		return err
	}

	user.IsActive = true
	if err := s.userRepo.Update(ctx, user); err != nil {
		return fmt.Errorf("failed to activate user: %w", err)
	}
	log.Printf("User %s confirmed signup", user.ID)
	return nil
}

// Signin authenticates an active user and returns a signed JWT backed by a new session.
func (s *AuthService) Signin(ctx context.Context, email, password string) (string, error) {
	user, err := s.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			log.Printf("Error looking up user for signin: %v", err)
		}
		return "", ErrInvalidCredentials
	}
	if !user.IsActive || bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return "", ErrInvalidCredentials
	}

	now := s.now()
	session := &models.Session{ID: uuid.New().String(), UserID: user.ID, ExpiresAt: now.Add(s.tokenTTL)}
	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return "", fmt.Errorf("failed to create session: %w", err)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":  user.ID,
		"email":    user.Email,
		"is_admin": user.IsAdmin,
		"jti":      session.ID,
		"exp":      session.ExpiresAt.Unix(),
		"iat":      now.Unix(),
	})
	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}

	user.LastLogin = &now
	if err := s.userRepo.Update(ctx, user); err != nil {
		log.Printf("Warning: failed to record last login of user %s: %v", user.ID, err)
	}
	return tokenString, nil
}

// Logout revokes the session behind a token.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	return s.sessionRepo.Delete(ctx, sessionID)
}

// RequestPasswordReset sends a reset code to an active account. Unknown or inactive emails are
// ignored so callers cannot probe which accounts exist.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := s.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if !user.IsActive {
		return nil
	}
	return s.issueOTP(ctx, user, models.OTPPurposePasswordReset)
}

// ConfirmPasswordReset sets a new password with a reset code and signs the user out everywhere.
func (s *AuthService) ConfirmPasswordReset(ctx context.Context, in PasswordResetInput) error {
	if err := validatePassword(in.NewPassword, in.ConfirmPassword); err != nil {
		return err
	}
	user, err := s.lookupForOTP(ctx, in.Email)
	if err != nil {
		return err
	}
	if err := s.verifyOTP(ctx, user.ID, models.OTPPurposePasswordReset, in.Code); err != nil {
		return err
	}

	if user.Password, err = hashPassword(in.NewPassword); err != nil {
		return err
	}
	if err := s.userRepo.Update(ctx, user); err != nil {
		return fmt.Errorf("failed to reset password: %w", err)
	}
	if err := s.sessionRepo.DeleteByUser(ctx, user.ID); err != nil {
		return err
	}
	publish(s.events, EventPasswordChanged, map[string]string{"user_id": user.ID, "email": user.Email})
	return nil
}

// ChangePassword replaces the password of a signed-in user after checking the old one.
func (s *AuthService) ChangePassword(ctx context.Context, userID string, in ChangePasswordInput) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(in.OldPassword)) != nil {
		return invalid("old_password", "old password is incorrect")
	}
	if err := validatePassword(in.NewPassword, in.ConfirmPassword); err != nil {
		return err
	}

	if user.Password, err = hashPassword(in.NewPassword); err != nil {
		return err
	}
	if err := s.userRepo.Update(ctx, user); err != nil {
		return fmt.Errorf("failed to change password: %w", err)
	}
	publish(s.events, EventPasswordChanged, map[string]string{"user_id": user.ID, "email": user.Email})
	return nil
}

// ChangeEmail moves a signed-in user to a new email after checking their password.
func (s *AuthService) ChangeEmail(ctx context.Context, userID, newEmail, password string) (*models.User, error) {
	email, err := normalizeEmail(newEmail)
	if err != nil {
		return nil, err
	}
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, invalid("password", "password is incorrect")
	}
	if email == user.Email {
		return nil, invalid("email", "new email is the same as the current one")
	}
	if _, err := s.userRepo.GetByEmail(ctx, email); err == nil {
		return nil, fmt.Errorf("email '%s' already registered: %w", email, ErrConflict)
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	oldEmail := user.Email
	user.Email = email
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to change email: %w", err)
	}
	publish(s.events, EventEmailChanged, map[string]string{"user_id": user.ID, "old_email": oldEmail, "new_email": email})
	return user, nil
}

// ValidateToken parses and validates a JWT token, returning the claims if valid.
func (s *AuthService) ValidateToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		log.Printf("Token validation error: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, ErrInvalidToken
}

// Authenticate validates a token, checks that its session has not been revoked and loads the
// caller's current role.
func (s *AuthService) Authenticate(ctx context.Context, tokenString string) (*Identity, error) {
	claims, err := s.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}

	userID, _ := claims["user_id"].(string)
	sessionID, _ := claims["jti"].(string)
	if userID == "" || sessionID == "" {
		return nil, fmt.Errorf("%w: missing claims", ErrInvalidToken)
	}

	ok, err := s.sessionRepo.Exists(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: session revoked", ErrInvalidToken)
	}

	// Role and status come from the row so demotion or deactivation applies to live tokens.
	user, err := s.userRepo.GetByID(ctx, userID)
	if errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("%w: user no longer exists", ErrInvalidToken)
	}
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, fmt.Errorf("%w: user is inactive", ErrInvalidToken)
	}
	return &Identity{UserID: user.ID, Email: user.Email, IsAdmin: user.IsAdmin, SessionID: sessionID}, nil
}

// issueOTP retires the user's pending codes for purpose and sends a fresh one.
func (s *AuthService) issueOTP(ctx context.Context, user *models.User, purpose models.OTPPurpose) error {
	if err := s.otpRepo.ExpirePending(ctx, user.ID, purpose); err != nil {
		return err
	}

	code, challenge, err := otp.Issue(s.otpLength, s.otpTTL, s.now())
	if err != nil {
		return err
	}
	row := &models.OTPChallenge{UserID: user.ID, Purpose: purpose}
	row.Apply(challenge)
	if err := s.otpRepo.Create(ctx, row); err != nil {
		return err
	}

	eventType := EventSignupOTP
	if purpose == models.OTPPurposePasswordReset {
		eventType = EventPasswordResetOTP
	}
	publish(s.events, eventType, map[string]interface{}{
		"user_id":    user.ID,
		"email":      user.Email,
		"code":       code,
		"expires_at": challenge.ExpiresAt,
	})
	return nil
}

// verifyOTP runs the pending challenge through its state machine and stores the outcome.
func (s *AuthService) verifyOTP(ctx context.Context, userID string, purpose models.OTPPurpose, code string) error {
	row, err := s.otpRepo.GetPending(ctx, userID, purpose)
	if errors.Is(err, ErrNotFound) {
		return ErrInvalidOTP
	}
	if err != nil {
		return err
	}

	challenge := row.Challenge()
	verifyErr := challenge.Verify(code, s.now())
	if challenge.State != row.State || challenge.Attempts != row.Attempts {
		row.Apply(challenge)
		err := s.otpRepo.Update(ctx, row)
		if errors.Is(err, ErrNotFound) {
			// Another request settled the challenge first.
			return ErrInvalidOTP
		}
		if err != nil {
			return err
		}
	}
	if verifyErr != nil {
		return fmt.Errorf("%w: %v", ErrInvalidOTP, verifyErr)
	}
	return nil
}

// lookupForOTP hides whether an email is registered behind ErrInvalidOTP.
func (s *AuthService) lookupForOTP(ctx context.Context, email string) (*models.User, error) {
	user, err := s.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if errors.Is(err, ErrNotFound) {
		return nil, ErrInvalidOTP
	}
	return user, err
}

func hashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

func validatePassword(password, confirm string) error {
	switch {
	case len(password) < minPasswordLength:
		return invalid("password", fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	case isNumeric(password):
		return invalid("password", "password cannot be entirely numeric")
	case password != confirm:
		return invalid("confirm_password", "passwords do not match")
	}
	return nil
}

func isNumeric(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return s != ""
}

func normalizeEmail(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	at := strings.LastIndex(email, "@")
	if at <= 0 || at == len(email)-1 || strings.ContainsAny(email, " \t") {
		return "", invalid("email", "a valid email address is required")
	}
	return email, nil
}
