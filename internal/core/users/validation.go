package users

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/minhchau-creator/blogger.com/internal/core/apperr"
	"github.com/minhchau-creator/blogger.com/internal/core/plaintext"
)

const (
	minFullnameLength = 3
	minUsernameLength = 3
	maxBioLength      = 200
	minPasswordLength = 6
	maxPasswordLength = 20
)

var emailRegex = regexp.MustCompile(`^\w+([\.-]?\w+)*@\w+([\.-]?\w+)*(\.\w{2,3})+$`)

// ValidatePassword enforces 6-20 characters with at least one digit,
// one lowercase and one uppercase ASCII letter.
func ValidatePassword(password string) error {
	n := utf8.RuneCountInString(password)
	if n < minPasswordLength || n > maxPasswordLength {
		return ErrWeakPassword
	}

	var hasDigit, hasLower, hasUpper bool
	for _, r := range password {
		switch {
		case r >= '0' && r <= '9':
			hasDigit = true
		case r >= 'a' && r <= 'z':
			hasLower = true
		case r >= 'A' && r <= 'Z':
			hasUpper = true
		}
	}
	if !hasDigit || !hasLower || !hasUpper {
		return ErrWeakPassword
	}
	return nil
}

// ValidateEmail checks that email is present and well formed
func ValidateEmail(email string) error {
	if email == "" {
		return apperr.Validation("email", "Enter Email")
	}
	if !emailRegex.MatchString(email) {
		return apperr.Validation("email", "Email is invalid")
	}
	return nil
}

func validateSignUp(req SignUpRequest) error {
	if plaintext.Len(req.Fullname) < minFullnameLength {
		return apperr.Validation("fullname", "Fullname must be at least 3 letters long")
	}
	if err := ValidateEmail(req.Email); err != nil {
		return err
	}
	return ValidatePassword(req.Password)
}

// normalizeProfileUpdate cleans the supplied fields and checks their limits
func normalizeProfileUpdate(req UpdateProfileRequest) (ProfileUpdate, error) {
	var update ProfileUpdate

	if req.Fullname != nil && *req.Fullname != "" {
		fullname := plaintext.Clean(*req.Fullname)
		if plaintext.Len(fullname) < minFullnameLength {
			return update, apperr.Validation("fullname", "Fullname must be at least 3 characters long")
		}
		update.Fullname = &fullname
	}

	if req.Username != nil && *req.Username != "" {
		username := strings.TrimSpace(*req.Username)
		if plaintext.Len(username) < minUsernameLength {
			return update, apperr.Validation("username", "Username must be at least 3 characters long")
		}
		update.Username = &username
	}

	if req.Bio != nil {
		bio := plaintext.Clean(*req.Bio)
		if utf8.RuneCountInString(bio) > maxBioLength {
			return update, ErrBioTooLong
		}
		update.Bio = &bio
	}

	if req.ProfileImg != nil && *req.ProfileImg != "" {
		img := strings.TrimSpace(*req.ProfileImg)
		update.ProfileImg = &img
	}

	update.SocialLinks = req.SocialLinks
	return update, nil
}
