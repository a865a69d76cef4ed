package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/sportmania/sportmania-backend/internal/common"
	"github.com/sportmania/sportmania-backend/internal/models"
	"github.com/sportmania/sportmania-backend/pkg/utils"
)

// ResetTokenDuration is how long an emailed reset value stays valid.
const ResetTokenDuration = 30 * time.Minute

// ResetTokenStore persists hashed reset tokens, one live token per user.
type ResetTokenStore interface {
	Replace(ctx context.Context, userID primitive.ObjectID, tokenHash string, expiresAt time.Time) error
	FindLive(ctx context.Context, tokenHash string, now time.Time) (*models.ResetToken, error)
}

// Uploader pushes a profile photo to the image host.
type Uploader interface {
	UploadImage(ctx context.Context, source string) (*models.Photo, error)
}

// Mailer delivers outbound email.
type Mailer interface {
	Send(to, subject, htmlBody string) error
}

// ProfilePatch carries the fields of a profile update. Empty fields are
// left untouched.
type ProfilePatch struct {
	Name  string
	Phone string
	Bio   string
	Photo string // base64 data URI or URL; uploaded before anything is saved
}

// ProfileService handles profile reads/updates, password change and the
// forgot/reset password flow.
type ProfileService struct {
	users       UserStore
	tokens      ResetTokenStore
	uploader    Uploader
	mailer      Mailer
	frontendURL string
}

func NewProfileService(users UserStore, tokens ResetTokenStore, uploader Uploader, mailer Mailer, frontendURL string) *ProfileService {
	return &ProfileService{
		users:       users,
		tokens:      tokens,
		uploader:    uploader,
		mailer:      mailer,
		frontendURL: frontendURL,
	}
}

func (s *ProfileService) GetProfile(ctx context.Context, userID primitive.ObjectID) (*models.User, error) {
	return s.users.FindByID(ctx, userID)
}

// UpdateProfile merges non-empty patch fields over the stored profile.
// A photo upload failure aborts the whole update.
func (s *ProfileService) UpdateProfile(ctx context.Context, userID primitive.ObjectID, patch ProfilePatch) (*models.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if patch.Photo != "" {
		if s.uploader == nil {
			return nil, fmt.Errorf("%w: image service not available", common.ErrUpload)
		}
		photo, err := s.uploader.UploadImage(ctx, patch.Photo)
		if err != nil {
			return nil, fmt.Errorf("%w: image could not be uploaded", common.ErrUpload)
		}
		user.Photo = photo
	}
	if patch.Name != "" {
		user.Name = patch.Name
	}
	if patch.Phone != "" {
		user.Phone = patch.Phone
	}
	if patch.Bio != "" {
		user.Bio = patch.Bio
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// ChangePassword replaces the stored hash after verifying the old
// password.
func (s *ProfileService) ChangePassword(ctx context.Context, userID primitive.ObjectID, oldPassword, newPassword string) error {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}

	if oldPassword == "" || newPassword == "" {
		return fmt.Errorf("%w: please add old and new password", common.ErrValidation)
	}

	valid, err := utils.VerifyPassword(oldPassword, user.Password)
	if err != nil || !valid {
		return fmt.Errorf("%w: old password is incorrect", common.ErrUnauthorized)
	}

	hash, err := utils.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	return s.users.UpdatePassword(ctx, user.ID, hash)
}

// ForgotPassword replaces the user's live reset token and emails the
// raw value inside a reset link. The token is persisted before the
// email goes out, so a delivery failure leaves a usable token behind;
// the next attempt simply replaces it.
func (s *ProfileService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return fmt.Errorf("%w: user does not exist", common.ErrNotFound)
		}
		return err
	}

	resetValue, err := newResetValue(user.ID)
	if err != nil {
		return err
	}

	expiresAt := time.Now().Add(ResetTokenDuration)
	if err := s.tokens.Replace(ctx, user.ID, hashResetValue(resetValue), expiresAt); err != nil {
		return err
	}

	resetURL := fmt.Sprintf("%s/resetpassword/%s", s.frontendURL, resetValue)
	body := resetEmailBody(user.Name, resetURL)

	if err := s.mailer.Send(user.Email, "Password Reset Request", body); err != nil {
		return fmt.Errorf("%w: please try again", common.ErrDelivery)
	}
	return nil
}

// ResetPassword verifies the emailed value against the stored hash and
// expiry, then replaces the owner's password hash. The consumed token
// record is left to expire naturally.
func (s *ProfileService) ResetPassword(ctx context.Context, resetValue, newPassword string) error {
	token, err := s.tokens.FindLive(ctx, hashResetValue(resetValue), time.Now())
	if err != nil {
		if errors.Is(err, common.ErrInvalidToken) {
			return fmt.Errorf("%w: invalid or expired token", common.ErrInvalidToken)
		}
		return err
	}

	user, err := s.users.FindByID(ctx, token.UserID)
	if err != nil {
		return err
	}

	hash, err := utils.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	return s.users.UpdatePassword(ctx, user.ID, hash)
}

// newResetValue builds the raw reset value: 32 random bytes hex-encoded
// plus the owning user's id. Only its hash ever reaches the database.
func newResetValue(userID primitive.ObjectID) (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b) + userID.Hex(), nil
}

func hashResetValue(value string) string {
	sum := sha256.Sum256([]byte(value))
	return hex.EncodeToString(sum[:])
}

func resetEmailBody(name, resetURL string) string {
	return fmt.Sprintf(`
      <h2>Hello %s</h2>
      <p>Please use the url below to reset your password</p>
      <p>This reset link is valid for only 30 minutes.</p>

      <a href=%s clicktracking=off>%s</a>

      <p>Regards...</p>
      <p>Sport Mania Team</p>
    `, name, resetURL, resetURL)
}
