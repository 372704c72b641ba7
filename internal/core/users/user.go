package users

import (
	"time"

	"github.com/goccy/go-json"
)

// User is a registered blogger
type User struct {
	JoinedAt             time.Time            `db:"joined_at"`
	UpdatedAt            time.Time            `db:"updated_at"`
	ID                   string               `db:"id"`
	Fullname             string               `db:"fullname"`
	Email                string               `db:"email"`
	PasswordHash         string               `db:"password_hash"`
	Username             string               `db:"username"`
	Bio                  string               `db:"bio"`
	ProfileImg           string               `db:"profile_img"`
	SocialLinks          SocialLinks          `db:"social_links"`
	TotalPosts           int                  `db:"total_posts"`
	TotalReads           int                  `db:"total_reads"`
	NotificationSettings NotificationSettings `db:"-"`
}

// SocialLinks are the optional profile links, stored as JSONB
type SocialLinks struct {
	Youtube   string `json:"youtube"`
	Instagram string `json:"instagram"`
	Facebook  string `json:"facebook"`
	Twitter   string `json:"twitter"`
	Github    string `json:"github"`
	Website   string `json:"website"`
}

// NotificationSettings controls which notification kinds count as new.
// "all" is derived from the three granular flags and never stored.
type NotificationSettings struct {
	Comments bool `json:"comments"`
	Likes    bool `json:"likes"`
	Replies  bool `json:"replies"`
}

// DefaultNotificationSettings enables every kind
var DefaultNotificationSettings = NotificationSettings{Comments: true, Likes: true, Replies: true}

// All reports whether every notification kind is enabled
func (s NotificationSettings) All() bool {
	return s.Comments && s.Likes && s.Replies
}

// MarshalJSON includes the derived "all" flag
func (s NotificationSettings) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		All      bool `json:"all"`
		Comments bool `json:"comments"`
		Likes    bool `json:"likes"`
		Replies  bool `json:"replies"`
	}{
		All:      s.All(),
		Comments: s.Comments,
		Likes:    s.Likes,
		Replies:  s.Replies,
	})
}

// PersonalInfo is the public identity block of a profile
type PersonalInfo struct {
	Fullname   string `json:"fullname"`
	Email      string `json:"email,omitempty"`
	Username   string `json:"username"`
	Bio        string `json:"bio"`
	ProfileImg string `json:"profile_img"`
}

// AccountInfo carries the user's activity counters
type AccountInfo struct {
	TotalPosts int `json:"total_posts"`
	TotalReads int `json:"total_reads"`
}

// ProfileView is the profile response returned by get-profile and get-user-profile
type ProfileView struct {
	JoinedAt             time.Time             `json:"joinedAt"`
	NotificationSettings *NotificationSettings `json:"notification_settings,omitempty"`
	ID                   string                `json:"_id"`
	PersonalInfo         PersonalInfo          `json:"personal_info"`
	SocialLinks          SocialLinks           `json:"social_links"`
	AccountInfo          AccountInfo           `json:"account_info"`
}

// Profile builds the response view of a user. Private fields (email,
// notification settings) are only included for the owner.
func (u *User) Profile(owner bool) *ProfileView {
	view := &ProfileView{
		ID: u.ID,
		PersonalInfo: PersonalInfo{
			Fullname:   u.Fullname,
			Username:   u.Username,
			Bio:        u.Bio,
			ProfileImg: u.ProfileImg,
		},
		SocialLinks: u.SocialLinks,
		AccountInfo: AccountInfo{
			TotalPosts: u.TotalPosts,
			TotalReads: u.TotalReads,
		},
		JoinedAt: u.JoinedAt,
	}
	if owner {
		settings := u.NotificationSettings
		view.PersonalInfo.Email = u.Email
		view.NotificationSettings = &settings
	}
	return view
}

// Summary is the compact author block embedded in posts, comments and search results
type Summary struct {
	PersonalInfo SummaryInfo `json:"personal_info"`
}

// SummaryInfo is the subset of PersonalInfo shown next to content
type SummaryInfo struct {
	Fullname   string `json:"fullname"`
	Username   string `json:"username"`
	ProfileImg string `json:"profile_img"`
}

// Summary returns the compact author block for a user
func (u *User) Summary() Summary {
	return Summary{PersonalInfo: SummaryInfo{
		Fullname:   u.Fullname,
		Username:   u.Username,
		ProfileImg: u.ProfileImg,
	}}
}

// AuthResponse is returned by sign-up and sign-in
type AuthResponse struct {
	AccessToken string `json:"access_token"`
	ProfileImg  string `json:"profile_img"`
	Username    string `json:"username"`
	Fullname    string `json:"fullname"`
}

// SignUpRequest represents the input for creating an account
type SignUpRequest struct {
	Fullname string `json:"fullname"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignInRequest represents the input for signing in
type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UpdateProfileRequest carries the optional profile fields to change.
// Nil pointers leave the stored value untouched.
type UpdateProfileRequest struct {
	Fullname    *string      `json:"fullname,omitempty"`
	Username    *string      `json:"username,omitempty"`
	Bio         *string      `json:"bio,omitempty"`
	ProfileImg  *string      `json:"profile_img,omitempty"`
	SocialLinks *SocialLinks `json:"social_links,omitempty"`
}

// ProfileUpdate is the normalized change set handed to the repository
type ProfileUpdate struct {
	Fullname    *string
	Username    *string
	Bio         *string
	ProfileImg  *string
	SocialLinks *SocialLinks
}

// ChangePasswordRequest represents a password change by a signed-in user
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// UpdateNotificationSettingsRequest carries optional flag changes.
// Setting All applies its value to every granular flag before the
// granular fields are applied.
type UpdateNotificationSettingsRequest struct {
	All      *bool `json:"all,omitempty"`
	Comments *bool `json:"comments,omitempty"`
	Likes    *bool `json:"likes,omitempty"`
	Replies  *bool `json:"replies,omitempty"`
}

// Apply returns settings with the request's changes applied
func (r UpdateNotificationSettingsRequest) Apply(settings NotificationSettings) NotificationSettings {
	if r.All != nil {
		settings.Comments = *r.All
		settings.Likes = *r.All
		settings.Replies = *r.All
	}
	if r.Comments != nil {
		settings.Comments = *r.Comments
	}
	if r.Likes != nil {
		settings.Likes = *r.Likes
	}
	if r.Replies != nil {
		settings.Replies = *r.Replies
	}
	return settings
}

// PasswordResetOTP is a one-time code mailed to reset a forgotten password
type PasswordResetOTP struct {
	CreatedAt  time.Time
	VerifiedAt *time.Time
	ID         string
	Email      string
	Code       string
}

// Expired reports whether the code is older than ttl at now
func (o *PasswordResetOTP) Expired(now time.Time, ttl time.Duration) bool {
	return now.Sub(o.CreatedAt) > ttl
}
