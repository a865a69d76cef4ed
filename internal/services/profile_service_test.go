package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/sportmania/sportmania-backend/internal/common"
	"github.com/sportmania/sportmania-backend/internal/models"
	"github.com/sportmania/sportmania-backend/pkg/utils"
)

const testFrontendURL = "http://localhost:3000"

func newTestUser(t *testing.T, users *fakeUserStore, email, password string) *models.User {
	t.Helper()
	hash, err := utils.HashPassword(password)
	require.NoError(t, err)
	u := &models.User{Name: "A", Email: email, Password: hash}
	require.NoError(t, users.Insert(context.Background(), u))
	return u
}

// extractResetValue pulls the raw reset value out of the emailed link.
func extractResetValue(t *testing.T, body string) string {
	t.Helper()
	marker := testFrontendURL + "/resetpassword/"
	idx := strings.Index(body, marker)
	require.NotEqual(t, -1, idx, "reset link not found in email body")
	rest := body[idx+len(marker):]
	end := strings.IndexAny(rest, " \n<")
	require.NotEqual(t, -1, end)
	return rest[:end]
}

func TestGetProfile(t *testing.T) {
	t.Parallel()

	users := newFakeUserStore()
	svc := NewProfileService(users, newFakeTokenStore(), nil, &fakeMailer{}, testFrontendURL)
	u := newTestUser(t, users, "a@x.com", "abcdef")

	got, err := svc.GetProfile(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", got.Email)

	_, err = svc.GetProfile(context.Background(), primitive.NewObjectID())
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestUpdateProfile_MergesFields(t *testing.T) {
	t.Parallel()

	users := newFakeUserStore()
	svc := NewProfileService(users, newFakeTokenStore(), &fakeUploader{}, &fakeMailer{}, testFrontendURL)
	u := newTestUser(t, users, "a@x.com", "abcdef")

	got, err := svc.UpdateProfile(context.Background(), u.ID, ProfilePatch{Phone: "555-0101"})
	require.NoError(t, err)
	assert.Equal(t, "A", got.Name, "unspecified fields stay untouched")
	assert.Equal(t, "555-0101", got.Phone)

	got, err = svc.UpdateProfile(context.Background(), u.ID, ProfilePatch{Name: "B", Bio: "hello"})
	require.NoError(t, err)
	assert.Equal(t, "B", got.Name)
	assert.Equal(t, "hello", got.Bio)
	assert.Equal(t, "555-0101", got.Phone, "earlier update survives")
}

func TestUpdateProfile_PhotoUpload(t *testing.T) {
	t.Parallel()

	users := newFakeUserStore()
	uploader := &fakeUploader{photo: &models.Photo{URL: "https://res.cloudinary.com/demo/u.jpg", Format: "jpg"}}
	svc := NewProfileService(users, newFakeTokenStore(), uploader, &fakeMailer{}, testFrontendURL)
	u := newTestUser(t, users, "a@x.com", "abcdef")

	got, err := svc.UpdateProfile(context.Background(), u.ID, ProfilePatch{Photo: "data:image/jpeg;base64,xxx"})
	require.NoError(t, err)
	require.NotNil(t, got.Photo)
	assert.Equal(t, "https://res.cloudinary.com/demo/u.jpg", got.Photo.URL)
}

func TestUpdateProfile_UploadFailureAborts(t *testing.T) {
	t.Parallel()

	users := newFakeUserStore()
	uploader := &fakeUploader{failErr: errFakeBackend}
	svc := NewProfileService(users, newFakeTokenStore(), uploader, &fakeMailer{}, testFrontendURL)
	u := newTestUser(t, users, "a@x.com", "abcdef")

	_, err := svc.UpdateProfile(context.Background(), u.ID, ProfilePatch{Name: "B", Photo: "data:image/jpeg;base64,xxx"})
	require.ErrorIs(t, err, common.ErrUpload)

	// The whole update was aborted, including the name change
	got, err := svc.GetProfile(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, "A", got.Name)
	assert.Nil(t, got.Photo)
}

func TestChangePassword(t *testing.T) {
	t.Parallel()

	users := newFakeUserStore()
	profile := NewProfileService(users, newFakeTokenStore(), nil, &fakeMailer{}, testFrontendURL)
	authSvc := NewAuthService(users, testSecret)
	u := newTestUser(t, users, "a@x.com", "abcdef")

	err := profile.ChangePassword(context.Background(), u.ID, "abcdef", "ghijkl")
	require.NoError(t, err)

	// New password logs in, old one no longer does
	_, _, err = authSvc.Login(context.Background(), "a@x.com", "ghijkl")
	require.NoError(t, err)
	_, _, err = authSvc.Login(context.Background(), "a@x.com", "abcdef")
	require.ErrorIs(t, err, common.ErrUnauthorized)
}

func TestChangePassword_Failures(t *testing.T) {
	t.Parallel()

	users := newFakeUserStore()
	svc := NewProfileService(users, newFakeTokenStore(), nil, &fakeMailer{}, testFrontendURL)
	u := newTestUser(t, users, "a@x.com", "abcdef")

	err := svc.ChangePassword(context.Background(), u.ID, "", "ghijkl")
	require.ErrorIs(t, err, common.ErrValidation)

	err = svc.ChangePassword(context.Background(), u.ID, "abcdef", "")
	require.ErrorIs(t, err, common.ErrValidation)

	err = svc.ChangePassword(context.Background(), u.ID, "wrong", "ghijkl")
	require.ErrorIs(t, err, common.ErrUnauthorized)

	err = svc.ChangePassword(context.Background(), primitive.NewObjectID(), "abcdef", "ghijkl")
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestForgotAndResetPassword(t *testing.T) {
	t.Parallel()

	users := newFakeUserStore()
	tokens := newFakeTokenStore()
	mailer := &fakeMailer{}
	profile := NewProfileService(users, tokens, nil, mailer, testFrontendURL)
	authSvc := NewAuthService(users, testSecret)
	newTestUser(t, users, "a@x.com", "abcdef")

	err := profile.ForgotPassword(context.Background(), "a@x.com")
	require.NoError(t, err)
	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "a@x.com", mailer.sent[0].to)

	value := extractResetValue(t, mailer.sent[0].body)

	err = profile.ResetPassword(context.Background(), value, "ghijkl")
	require.NoError(t, err)

	_, _, err = authSvc.Login(context.Background(), "a@x.com", "ghijkl")
	require.NoError(t, err)
	_, _, err = authSvc.Login(context.Background(), "a@x.com", "abcdef")
	require.ErrorIs(t, err, common.ErrUnauthorized)
}

func TestForgotPassword_UnknownEmail(t *testing.T) {
	t.Parallel()

	svc := NewProfileService(newFakeUserStore(), newFakeTokenStore(), nil, &fakeMailer{}, testFrontendURL)

	err := svc.ForgotPassword(context.Background(), "nobody@x.com")
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestForgotPassword_DeliveryFailureLeavesToken(t *testing.T) {
	t.Parallel()

	users := newFakeUserStore()
	tokens := newFakeTokenStore()
	mailer := &fakeMailer{failErr: errFakeBackend}
	svc := NewProfileService(users, tokens, nil, mailer, testFrontendURL)
	newTestUser(t, users, "a@x.com", "abcdef")

	err := svc.ForgotPassword(context.Background(), "a@x.com")
	require.ErrorIs(t, err, common.ErrDelivery)
	assert.Equal(t, 1, tokens.count(), "token persists even when the email fails")
}

func TestResetPassword_Expired(t *testing.T) {
	t.Parallel()

	users := newFakeUserStore()
	tokens := newFakeTokenStore()
	mailer := &fakeMailer{}
	svc := NewProfileService(users, tokens, nil, mailer, testFrontendURL)
	u := newTestUser(t, users, "a@x.com", "abcdef")

	require.NoError(t, svc.ForgotPassword(context.Background(), "a@x.com"))
	value := extractResetValue(t, mailer.sent[0].body)

	tokens.expire(u.ID)

	err := svc.ResetPassword(context.Background(), value, "ghijkl")
	require.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestResetPassword_UnknownValue(t *testing.T) {
	t.Parallel()

	svc := NewProfileService(newFakeUserStore(), newFakeTokenStore(), nil, &fakeMailer{}, testFrontendURL)

	err := svc.ResetPassword(context.Background(), "bogus-value", "ghijkl")
	require.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestForgotPassword_SecondRequestSupersedesFirst(t *testing.T) {
	t.Parallel()

	users := newFakeUserStore()
	tokens := newFakeTokenStore()
	mailer := &fakeMailer{}
	svc := NewProfileService(users, tokens, nil, mailer, testFrontendURL)
	newTestUser(t, users, "a@x.com", "abcdef")

	require.NoError(t, svc.ForgotPassword(context.Background(), "a@x.com"))
	require.NoError(t, svc.ForgotPassword(context.Background(), "a@x.com"))
	require.Len(t, mailer.sent, 2)
	assert.Equal(t, 1, tokens.count(), "only one live token per user")

	first := extractResetValue(t, mailer.sent[0].body)
	second := extractResetValue(t, mailer.sent[1].body)
	require.NotEqual(t, first, second)

	// The first emailed value no longer resolves
	err := svc.ResetPassword(context.Background(), first, "ghijkl")
	require.ErrorIs(t, err, common.ErrInvalidToken)

	require.NoError(t, svc.ResetPassword(context.Background(), second, "ghijkl"))
}

func TestResetValue_HashIsStoredNotValue(t *testing.T) {
	t.Parallel()

	users := newFakeUserStore()
	tokens := newFakeTokenStore()
	mailer := &fakeMailer{}
	svc := NewProfileService(users, tokens, nil, mailer, testFrontendURL)
	u := newTestUser(t, users, "a@x.com", "abcdef")

	require.NoError(t, svc.ForgotPassword(context.Background(), "a@x.com"))
	value := extractResetValue(t, mailer.sent[0].body)

	stored := tokens.tokens[u.ID]
	require.NotNil(t, stored)
	assert.NotEqual(t, value, stored.TokenHash)
	assert.Equal(t, hashResetValue(value), stored.TokenHash)
	assert.WithinDuration(t, time.Now().Add(ResetTokenDuration), stored.ExpiresAt, 5*time.Second)
}
