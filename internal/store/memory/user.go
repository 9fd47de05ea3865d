package memory

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/clinovahealth/clinicflow/internal/domain"
)

var errUserNotFound = errors.New("user not found")

const maxFailedAttempts = 5

const lockDuration = 15 * time.Minute

type UserRepo Store

func (r *UserRepo) Create(_ context.Context, u *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	ensureID(&u.ID)
	cp := *u
	r.users = append(r.users, &cp)
	return nil
}

func (r *UserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	email = strings.ToLower(strings.TrimSpace(email))
	for _, u := range r.users {
		if strings.ToLower(u.Email) == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, errUserNotFound
}

func (r *UserRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.ID == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, errUserNotFound
}

func (r *UserRepo) UpdateLoginAttempt(_ context.Context, id uuid.UUID, success bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.ID != id {
			continue
		}
		if success {
			now := time.Now()
			u.FailedLoginCount = 0
			u.LockedUntil = nil
			u.LastLoginAt = &now
			return nil
		}
		u.FailedLoginCount++
		if u.FailedLoginCount >= maxFailedAttempts {
			until := time.Now().Add(lockDuration)
			u.LockedUntil = &until
		}
		return nil
	}
	return errUserNotFound
}

func (r *UserRepo) UpdatePassword(_ context.Context, id uuid.UUID, hash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.ID == id {
			u.PasswordHash = hash
			return nil
		}
	}
	return errUserNotFound
}

type AuditRepo Store

func (r *AuditRepo) Create(_ context.Context, entry *domain.AuditLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	ensureID(&entry.ID)
	if entry.OccurredAt.IsZero() {
		entry.OccurredAt = time.Now()
	}
	cp := *entry
	r.auditLog = append(r.auditLog, &cp)
	return nil
}
