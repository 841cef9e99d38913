// Package provisioning allocates credentials for new users: a unique
// username derived from the person's name, and a generated secret that
// is hashed before persistence. Collisions are retried with random
// discriminators up to a hard cap.
package provisioning

import (
	"context"
	"net/mail"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/errgroup"

	"github.com/halahlab/backend/domain"
	"github.com/halahlab/backend/pkg/credentials"
	"github.com/halahlab/backend/repository"
	"github.com/halahlab/backend/usecase"
)

// maxUsernameAttempts caps the collision retry loop. Hitting the cap is
// surfaced as a server fault: it means systemic collision pressure or a
// generator defect, and must never be retried silently.
const maxUsernameAttempts = 100

// Discriminator range for collision fallbacks.
const (
	discriminatorMin = 4
	discriminatorMax = 100
)

type UseCase struct {
	users    repository.UserRepository
	notifier usecase.Notifier
	logger   *zap.Logger
}

func New(users repository.UserRepository, notifier usecase.Notifier, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		users:    users,
		notifier: notifier,
		logger:   logger,
	}
}

// CreateInput is the payload for a single user registration.
type CreateInput struct {
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	DocumentID string `json:"documentID"`
	Email      string `json:"email"`
	Role       string `json:"role"`
}

// Validate checks the registration payload shape.
func (in CreateInput) Validate() error {
	var missing []string
	if strings.TrimSpace(in.FirstName) == "" {
		missing = append(missing, "firstName")
	}
	if strings.TrimSpace(in.LastName) == "" {
		missing = append(missing, "lastName")
	}
	if strings.TrimSpace(in.DocumentID) == "" {
		missing = append(missing, "documentID")
	}
	if strings.TrimSpace(in.Email) == "" {
		missing = append(missing, "email")
	} else if _, err := mail.ParseAddress(in.Email); err != nil {
		return domain.NewError(domain.ErrCodeInvalid, "malformed email address")
	}
	if len(missing) > 0 {
		return domain.NewError(domain.ErrCodeInvalid, "missing required fields: "+strings.Join(missing, ", "))
	}
	switch in.Role {
	case "", domain.RolePatient, domain.RoleDoctor, domain.RoleBacteriologist, domain.RoleAdmin:
	default:
		return domain.NewError(domain.ErrCodeInvalid, "unknown role "+strconv.Quote(in.Role))
	}
	return nil
}

// Created reports the outcome of a successful registration.
type Created struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// CreateUser allocates a unique username and a hashed credential for a
// new user. With notify set, the welcome email is dispatched before the
// record is persisted: a user must never exist without having received
// their credential.
func (uc *UseCase) CreateUser(ctx context.Context, in CreateInput, notify bool) (*Created, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	username, err := uc.allocateUsername(ctx, in)
	if err != nil {
		return nil, err
	}

	secret, err := credentials.GeneratePassword()
	if err != nil {
		return nil, domain.WrapError(domain.ErrCodeInternal, "password generation failed", err)
	}
	if !credentials.IsSecure(secret) {
		return nil, domain.ErrInsecurePassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return nil, domain.WrapError(domain.ErrCodeInternal, "password hashing failed", err)
	}

	if notify {
		welcome := WelcomeNotification(in.Email, in.FirstName, username, secret)
		if err := uc.notifier.Send(ctx, welcome); err != nil {
			uc.logger.Error("welcome notification failed",
				zap.String("username", username), zap.Error(err))
			return nil, domain.WrapError(domain.ErrCodeInternal, domain.ErrNotificationFailed.Message, err)
		}
	}

	role := in.Role
	if role == "" {
		role = domain.RolePatient
	}

	id, err := uc.users.Create(ctx, &domain.User{
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		DocumentID:   in.DocumentID,
		Email:        in.Email,
		Username:     username,
		PasswordHash: string(hash),
		Role:         role,
		IsActive:     true,
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("user provisioned", zap.String("user_id", id), zap.String("username", username))
	return &Created{ID: id, Username: username}, nil
}

// allocateUsername derives the initial candidate from the document ID
// and, on collision, re-derives with random discriminators until a free
// candidate is found or the attempt budget runs out. The check-then-
// insert across this loop is not atomic; the store's unique index on
// username is the actual safety net under concurrency.
func (uc *UseCase) allocateUsername(ctx context.Context, in CreateInput) (string, error) {
	username := credentials.DeriveUsername(in.FirstName, in.LastName, in.DocumentID)

	for remaining := maxUsernameAttempts; ; remaining-- {
		taken, err := uc.users.UsernameExists(ctx, username)
		if err != nil {
			return "", err
		}
		if !taken {
			return username, nil
		}
		if remaining == 0 {
			return "", domain.ErrUsernameExhausted
		}

		discriminator, err := credentials.RandomDigits(discriminatorMin, discriminatorMax)
		if err != nil {
			return "", domain.WrapError(domain.ErrCodeInternal, "discriminator generation failed", err)
		}
		username = credentials.DeriveUsername(in.FirstName, in.LastName, discriminator)
	}
}

// BulkFailure describes one rejected item of a bulk registration.
type BulkFailure struct {
	Input  CreateInput `json:"user"`
	Index  int         `json:"index"`
	Reason string      `json:"reason"`
}

// BulkResult is the per-item outcome of CreateUsers: exactly one of
// Created or Failure is set.
type BulkResult struct {
	Created *Created
	Failure *BulkFailure
}

// Failed reports whether this item was rejected.
func (r BulkResult) Failed() bool {
	return r.Failure != nil
}

// CreateUsers registers a batch of users, suppressing welcome emails.
// Items run independently and concurrently; one item's failure never
// aborts the rest, and results keep input order.
func (uc *UseCase) CreateUsers(ctx context.Context, inputs []CreateInput) []BulkResult {
	results := make([]BulkResult, len(inputs))

	var g errgroup.Group
	for i, in := range inputs {
		i, in := i, in
		g.Go(func() error {
			created, err := uc.CreateUser(ctx, in, false)
			if err != nil {
				uc.logger.Warn("bulk item rejected", zap.Int("index", i), zap.Error(err))
				results[i] = BulkResult{Failure: &BulkFailure{Input: in, Index: i, Reason: err.Error()}}
				return nil
			}
			results[i] = BulkResult{Created: created}
			return nil
		})
	}
	_ = g.Wait()

	return results
}

// GetUser looks a user up by exact username or email match.
func (uc *UseCase) GetUser(ctx context.Context, login string) (*domain.User, error) {
	if strings.TrimSpace(login) == "" {
		return nil, domain.NewError(domain.ErrCodeInvalid, "username is required")
	}
	return uc.users.FindByLogin(ctx, login)
}

// GetUserByID fetches a single user record.
func (uc *UseCase) GetUserByID(ctx context.Context, id string) (*domain.User, error) {
	return uc.users.GetByID(ctx, id)
}

// UpdateUser applies a partial update and returns the (possibly
// unchanged) username. An empty patch is rejected before the store is
// contacted.
func (uc *UseCase) UpdateUser(ctx context.Context, id string, patch repository.UserPatch) (string, error) {
	if id == "" {
		return "", domain.NewError(domain.ErrCodeInvalid, "user id is required")
	}
	if patch.IsEmpty() {
		return "", domain.ErrEmptyUpdate
	}

	if err := uc.users.Update(ctx, id, patch); err != nil {
		return "", err
	}

	user, err := uc.users.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	return user.Username, nil
}
