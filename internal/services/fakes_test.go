package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"authprobe/internal/models"
)

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[primitive.ObjectID]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[primitive.ObjectID]*models.User{}}
}

func (r *fakeUserRepo) Create(_ context.Context, user *models.User) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email {
			return nil, mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 11000, Message: "duplicate key"}}}
		}
	}
	user.ID = primitive.NewObjectID()
	stored := *user
	r.users[user.ID] = &stored
	return user, nil
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (r *fakeUserRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) MarkVerified(_ context.Context, id primitive.ObjectID, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return mongo.ErrNoDocuments
	}
	u.IsVerified = true
	u.VerifiedAt = &at
	return nil
}

func (r *fakeUserRepo) EnsureIndexes(context.Context) error { return nil }

// flakyUserRepo fails the next failMarks MarkVerified calls.
type flakyUserRepo struct {
	*fakeUserRepo
	failMarks int
}

func (r *flakyUserRepo) MarkVerified(ctx context.Context, id primitive.ObjectID, at time.Time) error {
	if r.failMarks > 0 {
		r.failMarks--
		return errTransientDB
	}
	return r.fakeUserRepo.MarkVerified(ctx, id, at)
}

type fakeTokenRepo struct {
	mu     sync.Mutex
	tokens map[primitive.ObjectID]*models.VerificationToken
}

func newFakeTokenRepo() *fakeTokenRepo {
	return &fakeTokenRepo{tokens: map[primitive.ObjectID]*models.VerificationToken{}}
}

func (r *fakeTokenRepo) Create(_ context.Context, t *models.VerificationToken) (*models.VerificationToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t.ID = primitive.NewObjectID()
	cp := *t
	r.tokens[t.ID] = &cp
	return t, nil
}

func (r *fakeTokenRepo) FindValid(_ context.Context, token string) (*models.VerificationToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.tokens {
		if t.Token == token && !t.IsUsed && t.ExpiresAt.After(time.Now()) {
			cp := *t
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeTokenRepo) MarkAsUsed(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tokens[id]
	if !ok || t.IsUsed {
		return mongo.ErrNoDocuments
	}
	t.IsUsed = true
	return nil
}

func (r *fakeTokenRepo) InvalidateForUser(_ context.Context, userID primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.tokens {
		if t.UserID == userID {
			t.IsUsed = true
		}
	}
	return nil
}

func (r *fakeTokenRepo) DeleteExpired(context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for id, t := range r.tokens {
		if !t.IsUsed && t.ExpiresAt.Before(time.Now()) {
			delete(r.tokens, id)
			n++
		}
	}
	return n, nil
}

func (r *fakeTokenRepo) EnsureIndexes(context.Context) error { return nil }

// tokenFor returns an unused token issued to userID.
func (r *fakeTokenRepo) tokenFor(userID primitive.ObjectID) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.tokens {
		if t.UserID == userID && !t.IsUsed {
			return t.Token
		}
	}
	return ""
}

type sentEmail struct {
	to, subject, body string
}

type fakeEmailService struct {
	mu   sync.Mutex
	sent []sentEmail
	err  error
}

func (f *fakeEmailService) SendEmail(to, subject, body string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentEmail{to, subject, body})
	return nil
}

var (
	errSMTPDown    = errors.New("smtp down")
	errTransientDB = errors.New("transient db error")
)
