package users

import (
	"context"
	"crypto/rand"
	"fmt"
	"log/slog"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/minhchau-creator/blogger.com/internal/core/apperr"
	"github.com/minhchau-creator/blogger.com/internal/core/plaintext"
)

const (
	// OTPTTL is how long a password reset code stays valid
	OTPTTL = 10 * time.Minute

	// SearchPageSize is the number of users returned per search page
	SearchPageSize = 50

	usernameSuffixLength = 5
	defaultAvatarURL     = "https://api.dicebear.com/6.x/notionists-neutral/svg?seed="
)

type userService struct {
	userRepo   UserRepository
	otpRepo    OTPRepository
	tokens     TokenIssuer
	mailer     Mailer
	logger     *slog.Logger
	now        func() time.Time
	bcryptCost int
}

// Option configures optional userService behavior
type Option func(*userService)

// WithBcryptCost overrides the bcrypt work factor (tests use bcrypt.MinCost)
func WithBcryptCost(cost int) Option {
	return func(s *userService) { s.bcryptCost = cost }
}

// WithClock overrides the time source used for OTP expiry
func WithClock(now func() time.Time) Option {
	return func(s *userService) { s.now = now }
}

// NewUserService creates a new user service
func NewUserService(userRepo UserRepository, otpRepo OTPRepository, tokens TokenIssuer, mailer Mailer, logger *slog.Logger, opts ...Option) UserService {
	if logger == nil {
		logger = slog.Default()
	}
	s := &userService{
		userRepo:   userRepo,
		otpRepo:    otpRepo,
		tokens:     tokens,
		mailer:     mailer,
		logger:     logger,
		now:        time.Now,
		bcryptCost: bcrypt.DefaultCost,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SignUp validates the request, stores a new user with a generated
// username and returns an access token for it.
func (s *userService) SignUp(ctx context.Context, req SignUpRequest) (*AuthResponse, error) {
	req.Fullname = plaintext.Clean(req.Fullname)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	if err := validateSignUp(req); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	username, err := s.generateUsername(ctx, req.Email)
	if err != nil {
		return nil, apperr.Upstream("generate username", err)
	}

	user := &User{
		Fullname:             req.Fullname,
		Email:                req.Email,
		PasswordHash:         string(hash),
		Username:             username,
		ProfileImg:           defaultAvatarURL + username,
		NotificationSettings: DefaultNotificationSettings,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, apperr.Upstream("create user", err)
	}

	s.logger.Info("user signed up", "user_id", user.ID, "username", user.Username)

	if s.mailer != nil {
		if err := s.mailer.SendWelcome(ctx, user.Email, user.Fullname); err != nil {
			s.logger.Warn("failed to send welcome email", "error", err, "user_id", user.ID)
		}
	}

	return s.authResponse(user)
}

// SignIn checks the email and password pair
func (s *userService) SignIn(ctx context.Context, req SignInRequest) (*AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, ErrEmailNotFound
		}
		return nil, apperr.Upstream("get user by email", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrIncorrectPassword
	}

	return s.authResponse(user)
}

func (s *userService) authResponse(user *User) (*AuthResponse, error) {
	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to issue access token: %w", err)
	}
	return &AuthResponse{
		AccessToken: token,
		ProfileImg:  user.ProfileImg,
		Username:    user.Username,
		Fullname:    user.Fullname,
	}, nil
}

// generateUsername derives a username from the email's local part and
// appends a short random suffix when it is already taken.
func (s *userService) generateUsername(ctx context.Context, email string) (string, error) {
	username := strings.SplitN(email, "@", 2)[0]

	exists, err := s.userRepo.UsernameExists(ctx, username)
	if err != nil {
		return "", err
	}
	if exists {
		suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:usernameSuffixLength]
		username += suffix
	}
	return username, nil
}

// GetProfile returns the public profile for a username
func (s *userService) GetProfile(ctx context.Context, username string) (*ProfileView, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, apperr.Validation("username", "username is required")
	}

	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, apperr.Upstream("get user by username", err)
	}
	return user.Profile(false), nil
}

// GetOwnProfile returns the signed-in user's profile including private fields
func (s *userService) GetOwnProfile(ctx context.Context, userID string) (*ProfileView, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, apperr.Upstream("get user", err)
	}
	return user.Profile(true), nil
}

// SearchUsers finds users whose username contains query
func (s *userService) SearchUsers(ctx context.Context, query string, page int) ([]Summary, error) {
	if page < 1 {
		page = 1
	}

	found, err := s.userRepo.Search(ctx, strings.TrimSpace(query), SearchPageSize, (page-1)*SearchPageSize)
	if err != nil {
		return nil, apperr.Upstream("search users", err)
	}

	result := make([]Summary, 0, len(found))
	for _, u := range found {
		result = append(result, u.Summary())
	}
	return result, nil
}

// UpdateProfile applies the supplied profile fields
func (s *userService) UpdateProfile(ctx context.Context, userID string, req UpdateProfileRequest) (*ProfileView, error) {
	update, err := normalizeProfileUpdate(req)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.UpdateProfile(ctx, userID, update)
	if err != nil {
		return nil, apperr.Upstream("update profile", err)
	}
	return user.Profile(true), nil
}

// ChangePassword replaces the password after checking the current one
func (s *userService) ChangePassword(ctx context.Context, userID string, req ChangePasswordRequest) error {
	if req.CurrentPassword == "" || req.NewPassword == "" {
		return apperr.Validation("password", "Please provide current and new password")
	}
	if err := ValidatePassword(req.NewPassword); err != nil {
		return err
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return apperr.Upstream("get user", err)
	}
	if user.PasswordHash == "" {
		return apperr.Permission("change password", "No password set for this account")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.CurrentPassword)); err != nil {
		return ErrCurrentPasswordIncorrect
	}

	return s.setPassword(ctx, userID, req.NewPassword)
}

func (s *userService) setPassword(ctx context.Context, userID, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.userRepo.UpdatePassword(ctx, userID, string(hash)); err != nil {
		return apperr.Upstream("update password", err)
	}
	return nil
}

// UpdateNotificationSettings applies flag changes and returns the stored settings
func (s *userService) UpdateNotificationSettings(ctx context.Context, userID string, req UpdateNotificationSettingsRequest) (*NotificationSettings, error) {
	current, err := s.userRepo.GetNotificationSettings(ctx, userID)
	if err != nil {
		return nil, apperr.Upstream("get notification settings", err)
	}

	updated := req.Apply(*current)
	if err := s.userRepo.UpdateNotificationSettings(ctx, userID, updated); err != nil {
		return nil, apperr.Upstream("update notification settings", err)
	}
	return &updated, nil
}

// ForgotPassword issues a new reset code and mails it
func (s *userService) ForgotPassword(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return apperr.Validation("email", "Email is required")
	}

	if _, err := s.userRepo.GetByEmail(ctx, email); err != nil {
		if apperr.IsNotFound(err) {
			return ErrEmailNotFound
		}
		return apperr.Upstream("get user by email", err)
	}

	code, err := generateOTP()
	if err != nil {
		return fmt.Errorf("failed to generate otp: %w", err)
	}

	if err := s.otpRepo.Replace(ctx, email, code); err != nil {
		return apperr.Upstream("store otp", err)
	}

	if err := s.mailer.SendOTP(ctx, email, code); err != nil {
		s.logger.Error("failed to send otp email", "error", err)
		return &apperr.UpstreamError{Op: "send otp email", Err: err}
	}

	s.logger.Info("password reset code sent")
	return nil
}

// VerifyOTP confirms a reset code and marks it verified
func (s *userService) VerifyOTP(ctx context.Context, email, code string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	code = strings.TrimSpace(code)
	if email == "" || code == "" {
		return apperr.Validation("otp", "Email and OTP are required")
	}

	otp, err := s.otpRepo.Get(ctx, email, code)
	if err != nil {
		if apperr.IsNotFound(err) {
			return ErrInvalidOTP
		}
		return apperr.Upstream("get otp", err)
	}
	if otp.Expired(s.now(), OTPTTL) {
		return ErrInvalidOTP
	}

	if err := s.otpRepo.MarkVerified(ctx, otp.ID); err != nil {
		return apperr.Upstream("verify otp", err)
	}
	return nil
}

// ResetPassword sets a new password once the email holds a verified code
func (s *userService) ResetPassword(ctx context.Context, email, newPassword string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || newPassword == "" {
		return apperr.Validation("password", "Email and new password are required")
	}
	if err := ValidatePassword(newPassword); err != nil {
		return err
	}

	otp, err := s.otpRepo.GetVerified(ctx, email)
	if err != nil {
		if apperr.IsNotFound(err) {
			return ErrInvalidOTP
		}
		return apperr.Upstream("get verified otp", err)
	}
	if otp.Expired(s.now(), OTPTTL) {
		return ErrInvalidOTP
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if apperr.IsNotFound(err) {
			return ErrEmailNotFound
		}
		return apperr.Upstream("get user by email", err)
	}

	if err := s.setPassword(ctx, user.ID, newPassword); err != nil {
		return err
	}

	if err := s.otpRepo.DeleteForEmail(ctx, email); err != nil {
		s.logger.Warn("failed to delete used otp", "error", err)
	}
	return nil
}

// generateOTP returns a random six digit code
func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}
