package otp

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/webdeveloper-sudo/LeCheesePondicherry-sub000/models"
)

type stubRepo struct {
	records []*models.OTP
}

func (r *stubRepo) Insert(ctx context.Context, rec *models.OTP) error {
	r.records = append(r.records, rec)
	return nil
}

func (r *stubRepo) LatestUnused(ctx context.Context, email, purpose string) (*models.OTP, error) {
	var latest *models.OTP
	for _, rec := range r.records {
		if rec.Email != email || rec.Purpose != purpose || rec.Used {
			continue
		}
		if latest == nil || rec.CreatedAt.After(latest.CreatedAt) {
			latest = rec
		}
	}
	return latest, nil
}

func (r *stubRepo) MarkUsed(ctx context.Context, rec *models.OTP) error {
	rec.Used = true
	return nil
}

func (r *stubRepo) IncrementAttempts(ctx context.Context, rec *models.OTP) error {
	rec.Attempts++
	return nil
}

func TestIssueAndVerify(t *testing.T) {
	repo := &stubRepo{}
	svc := NewService(repo)
	ctx := context.Background()

	rec, err := svc.Issue(ctx, "brie@example.com", models.OtpPurposeSignup)
	require.NoError(t, err)
	assert.Len(t, rec.Code, 6)

	err = svc.Verify(ctx, "brie@example.com", models.OtpPurposeSignup, rec.Code)
	require.NoError(t, err)
	assert.True(t, rec.Used)

	// A used code cannot be replayed.
	err = svc.Verify(ctx, "brie@example.com", models.OtpPurposeSignup, rec.Code)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestVerifyNoPendingCode(t *testing.T) {
	svc := NewService(&stubRepo{})

	err := svc.Verify(context.Background(), "nobody@example.com", models.OtpPurposeSignup, "123456")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestVerifyWrongCodeIncrementsAttempts(t *testing.T) {
	repo := &stubRepo{}
	svc := NewService(repo)
	ctx := context.Background()

	rec, err := svc.Issue(ctx, "brie@example.com", models.OtpPurposeReset)
	require.NoError(t, err)

	wrong := "000000"
	if rec.Code == wrong {
		wrong = "000001"
	}

	err = svc.Verify(ctx, "brie@example.com", models.OtpPurposeReset, wrong)
	assert.ErrorIs(t, err, ErrCodeMismatch)
	assert.Equal(t, 1, rec.Attempts)
}

func TestVerifyRejectsAfterMaxAttempts(t *testing.T) {
	repo := &stubRepo{}
	svc := NewService(repo)
	ctx := context.Background()

	rec, err := svc.Issue(ctx, "brie@example.com", models.OtpPurposeSignup)
	require.NoError(t, err)

	wrong := "000000"
	if rec.Code == wrong {
		wrong = "000001"
	}
	for i := 0; i < MaxAttempts; i++ {
		err = svc.Verify(ctx, "brie@example.com", models.OtpPurposeSignup, wrong)
		assert.ErrorIs(t, err, ErrCodeMismatch)
	}

	// Even the correct code is rejected once the cap is hit.
	err = svc.Verify(ctx, "brie@example.com", models.OtpPurposeSignup, rec.Code)
	assert.ErrorIs(t, err, ErrTooManyAttempts)
	assert.False(t, rec.Used)
}

func TestVerifyRejectsExpiredCode(t *testing.T) {
	repo := &stubRepo{}
	svc := NewService(repo)
	ctx := context.Background()

	rec, err := svc.Issue(ctx, "brie@example.com", models.OtpPurposeSignup)
	require.NoError(t, err)

	svc.now = func() time.Time { return rec.ExpiresAt.Add(time.Second) }

	err = svc.Verify(ctx, "brie@example.com", models.OtpPurposeSignup, rec.Code)
	assert.ErrorIs(t, err, ErrExpired)
}

func TestVerifyUsesMostRecentCode(t *testing.T) {
	repo := &stubRepo{}
	svc := NewService(repo)
	ctx := context.Background()

	older, err := svc.Issue(ctx, "brie@example.com", models.OtpPurposeSignup)
	require.NoError(t, err)
	older.CreatedAt = older.CreatedAt.Add(-time.Minute)

	newer, err := svc.Issue(ctx, "brie@example.com", models.OtpPurposeSignup)
	require.NoError(t, err)

	if older.Code != newer.Code {
		// The stale code no longer verifies.
		err = svc.Verify(ctx, "brie@example.com", models.OtpPurposeSignup, older.Code)
		assert.Error(t, err)
	}

	err = svc.Verify(ctx, "brie@example.com", models.OtpPurposeSignup, newer.Code)
	assert.NoError(t, err)
}
