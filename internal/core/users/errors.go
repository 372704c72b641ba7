package users

import "github.com/minhchau-creator/blogger.com/internal/core/apperr"

// Sentinel errors for user operations
var (
	// ErrUserNotFound is returned when a user lookup finds no matching record
	ErrUserNotFound = apperr.NotFound("user", "")

	// ErrEmailNotFound is returned when no account uses the given email
	ErrEmailNotFound = &apperr.NotFoundError{Resource: "Email"}

	// ErrEmailTaken is returned on sign-up with an email that already has an account
	ErrEmailTaken = apperr.Conflict("user", "Email already exists")

	// ErrUsernameTaken is returned when a profile update collides with another username
	ErrUsernameTaken = apperr.Conflict("user", "Username already exists")

	// ErrIncorrectPassword is returned when the supplied password does not match
	ErrIncorrectPassword = apperr.Permission("sign in", "Incorrect password")

	// ErrCurrentPasswordIncorrect is returned by change-password on a bad current password
	ErrCurrentPasswordIncorrect = apperr.Permission("change password", "Current password is incorrect")

	// ErrInvalidOTP is returned for unknown, expired or unverified reset codes
	ErrInvalidOTP = apperr.Validation("otp", "Invalid or expired OTP")

	// ErrBioTooLong is returned when a bio exceeds 200 code points
	ErrBioTooLong = apperr.Validation("bio", "Bio should not be more than 200 characters")

	// ErrWeakPassword is returned when a password does not match the policy
	ErrWeakPassword = apperr.Validation("password", "Password should be 6 to 20 characters long with a numeric, 1 lowercase and 1 uppercase letters")
)

// IsNotFound checks if err is a user not found error
func IsNotFound(err error) bool {
	return apperr.IsNotFound(err)
}

// IsConflict checks if err is a duplicate email or username error
func IsConflict(err error) bool {
	return apperr.IsConflict(err)
}

// IsValidationError checks if err is a validation error
func IsValidationError(err error) bool {
	return apperr.IsValidation(err)
}
