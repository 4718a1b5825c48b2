// Package otp implements the email verification flow used by signup
// and password reset: issue a 6-digit code, verify it within its
// window, and hand the caller off to the tokens package for the
// verified-email assertion.
package otp

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/webdeveloper-sudo/LeCheesePondicherry-sub000/models"
)

const (
	CodeTTL     = 10 * time.Minute
	MaxAttempts = 5
)

var (
	ErrNotFound        = errors.New("no pending verification code")
	ErrExpired         = errors.New("verification code expired")
	ErrTooManyAttempts = errors.New("too many incorrect attempts")
	ErrCodeMismatch    = errors.New("incorrect verification code")
)

// Repo is the persistence surface the service needs. The Mongo
// implementation lives in repo.go; tests use an in-memory stub.
type Repo interface {
	Insert(ctx context.Context, rec *models.OTP) error
	// LatestUnused returns the most recent unused record for the
	// (email, purpose) pair, or nil if none exists.
	LatestUnused(ctx context.Context, email, purpose string) (*models.OTP, error)
	MarkUsed(ctx context.Context, rec *models.OTP) error
	IncrementAttempts(ctx context.Context, rec *models.OTP) error
}

type Service struct {
	repo Repo
	now  func() time.Time
}

func NewService(repo Repo) *Service {
	return &Service{repo: repo, now: time.Now}
}

// Issue creates and stores a fresh code for the pair. Older codes are
// left in place; verification only ever looks at the newest one and
// the TTL index reaps the rest.
func (s *Service) Issue(ctx context.Context, email, purpose string) (*models.OTP, error) {
	code, err := generateCode()
	if err != nil {
		return nil, err
	}
	rec := &models.OTP{
		Email:     email,
		Purpose:   purpose,
		Code:      code,
		ExpiresAt: s.now().Add(CodeTTL),
		CreatedAt: s.now(),
	}
	if err := s.repo.Insert(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// Verify checks code against the newest unused record for the pair.
// A correct code is rejected once the record has expired or has
// already absorbed MaxAttempts wrong guesses.
func (s *Service) Verify(ctx context.Context, email, purpose, code string) error {
	rec, err := s.repo.LatestUnused(ctx, email, purpose)
	if err != nil {
		return err
	}
	if rec == nil {
		return ErrNotFound
	}
	if s.now().After(rec.ExpiresAt) {
		return ErrExpired
	}
	if rec.Attempts >= MaxAttempts {
		return ErrTooManyAttempts
	}
	if rec.Code != code {
		if err := s.repo.IncrementAttempts(ctx, rec); err != nil {
			return err
		}
		return ErrCodeMismatch
	}
	return s.repo.MarkUsed(ctx, rec)
}

func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
