package users

import "context"

// UserRepository defines the interface for user data persistence
type UserRepository interface {
	// Create inserts a new user and fills in ID and JoinedAt.
	// Returns ErrEmailTaken or ErrUsernameTaken on unique violations.
	Create(ctx context.Context, user *User) error

	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	UsernameExists(ctx context.Context, username string) (bool, error)

	// Search matches usernames case-insensitively
	Search(ctx context.Context, query string, limit, offset int) ([]*User, error)

	// UpdateProfile applies the non-nil fields and returns the stored user
	UpdateProfile(ctx context.Context, id string, update ProfileUpdate) (*User, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error

	GetNotificationSettings(ctx context.Context, id string) (*NotificationSettings, error)
	UpdateNotificationSettings(ctx context.Context, id string, settings NotificationSettings) error
}

// OTPRepository stores password reset codes
type OTPRepository interface {
	// Replace deletes any code for the email and stores a new one
	Replace(ctx context.Context, email, code string) error

	// Get returns the newest code matching email and code
	Get(ctx context.Context, email, code string) (*PasswordResetOTP, error)

	// GetVerified returns the newest verified code for the email
	GetVerified(ctx context.Context, email string) (*PasswordResetOTP, error)

	MarkVerified(ctx context.Context, id string) error
	DeleteForEmail(ctx context.Context, email string) error
}

// TokenIssuer creates access tokens for signed-in users
type TokenIssuer interface {
	Issue(userID string) (string, error)
}

// Mailer delivers account emails
type Mailer interface {
	SendOTP(ctx context.Context, to, code string) error
	SendWelcome(ctx context.Context, to, fullname string) error
}

// UserService defines the interface for user business logic
type UserService interface {
	SignUp(ctx context.Context, req SignUpRequest) (*AuthResponse, error)
	SignIn(ctx context.Context, req SignInRequest) (*AuthResponse, error)

	// GetProfile returns the public profile for a username
	GetProfile(ctx context.Context, username string) (*ProfileView, error)

	// GetOwnProfile returns the full profile of the signed-in user
	GetOwnProfile(ctx context.Context, userID string) (*ProfileView, error)

	SearchUsers(ctx context.Context, query string, page int) ([]Summary, error)
	UpdateProfile(ctx context.Context, userID string, req UpdateProfileRequest) (*ProfileView, error)
	ChangePassword(ctx context.Context, userID string, req ChangePasswordRequest) error

	UpdateNotificationSettings(ctx context.Context, userID string, req UpdateNotificationSettingsRequest) (*NotificationSettings, error)

	// Password reset: ForgotPassword mails a code, VerifyOTP confirms it,
	// ResetPassword consumes the verified code.
	ForgotPassword(ctx context.Context, email string) error
	VerifyOTP(ctx context.Context, email, code string) error
	ResetPassword(ctx context.Context, email, newPassword string) error
}
