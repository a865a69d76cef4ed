package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/sportmania/sportmania-backend/internal/common"
	"github.com/sportmania/sportmania-backend/internal/models"
)

// fakeUserStore is an in-memory UserStore mirroring the Mongo store's
// error contract.
type fakeUserStore struct {
	mu    sync.Mutex
	users map[primitive.ObjectID]*models.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[primitive.ObjectID]*models.User)}
}

func (s *fakeUserStore) Insert(_ context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if existing.Email == u.Email {
			return common.ErrConflict
		}
	}
	u.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now
	cp := *u
	s.users[u.ID] = &cp
	return nil
}

func (s *fakeUserStore) FindByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, common.ErrNotFound
}

func (s *fakeUserStore) FindByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *fakeUserStore) Update(_ context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.users[u.ID]
	if !ok {
		return common.ErrNotFound
	}
	existing.Name = u.Name
	existing.Phone = u.Phone
	existing.Bio = u.Bio
	if u.Photo != nil {
		existing.Photo = u.Photo
	}
	existing.UpdatedAt = time.Now().UTC()
	return nil
}

func (s *fakeUserStore) UpdatePassword(_ context.Context, id primitive.ObjectID, passwordHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return common.ErrNotFound
	}
	u.Password = passwordHash
	u.UpdatedAt = time.Now().UTC()
	return nil
}

// fakeTokenStore is an in-memory ResetTokenStore.
type fakeTokenStore struct {
	mu     sync.Mutex
	tokens map[primitive.ObjectID]*models.ResetToken
}

func newFakeTokenStore() *fakeTokenStore {
	return &fakeTokenStore{tokens: make(map[primitive.ObjectID]*models.ResetToken)}
}

func (s *fakeTokenStore) Replace(_ context.Context, userID primitive.ObjectID, tokenHash string, expiresAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[userID] = &models.ResetToken{
		ID:        primitive.NewObjectID(),
		UserID:    userID,
		TokenHash: tokenHash,
		CreatedAt: time.Now().UTC(),
		ExpiresAt: expiresAt.UTC(),
	}
	return nil
}

func (s *fakeTokenStore) FindLive(_ context.Context, tokenHash string, now time.Time) (*models.ResetToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.tokens {
		if t.TokenHash == tokenHash && t.ExpiresAt.After(now.UTC()) {
			cp := *t
			return &cp, nil
		}
	}
	return nil, common.ErrInvalidToken
}

func (s *fakeTokenStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tokens)
}

// expire backdates the user's token so FindLive stops matching.
func (s *fakeTokenStore) expire(userID primitive.ObjectID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.tokens[userID]; ok {
		t.ExpiresAt = time.Now().Add(-time.Minute)
	}
}

// fakeMailer records outbound mail and can be told to fail.
type fakeMailer struct {
	mu      sync.Mutex
	sent    []sentMail
	failErr error
}

type sentMail struct {
	to      string
	subject string
	body    string
}

func (m *fakeMailer) Send(to, subject, htmlBody string) error {
	if m.failErr != nil {
		return m.failErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sentMail{to: to, subject: subject, body: htmlBody})
	return nil
}

// fakeUploader returns a canned photo descriptor or an error.
type fakeUploader struct {
	photo   *models.Photo
	failErr error
}

func (u *fakeUploader) UploadImage(_ context.Context, _ string) (*models.Photo, error) {
	if u.failErr != nil {
		return nil, u.failErr
	}
	if u.photo != nil {
		return u.photo, nil
	}
	return &models.Photo{URL: "https://res.cloudinary.com/demo/image/upload/photo.jpg"}, nil
}

var errFakeBackend = errors.New("backend unavailable")
