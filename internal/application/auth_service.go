package application

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/health-referral-api/internal/domain/entity"
	repo "github.com/oksasatya/health-referral-api/internal/domain/repository"
	"github.com/oksasatya/health-referral-api/pkg/helpers"
	"github.com/oksasatya/health-referral-api/pkg/validation"
)

// TokenIssuer signs a token for a user id. *helpers.JWTManager implements it.
type TokenIssuer interface {
	Issue(userID string) (string, time.Time, error)
}

// AuthService runs registration and login against the credential store.
type AuthService struct {
	Users  repo.UserRepository
	Tokens TokenIssuer
	Logger *logrus.Logger
}

func NewAuthService(users repo.UserRepository, tokens TokenIssuer, logger *logrus.Logger) *AuthService {
	return &AuthService{Users: users, Tokens: tokens, Logger: logger}
}

type RegisterInput struct {
	Name        string `json:"name" validate:"required"`
	Age         int    `json:"age" validate:"required,gt=0"`
	Gender      string `json:"gender" validate:"required,gender"`
	PhoneNumber string `json:"phoneNumber" validate:"required,phone"`
	CNIC        string `json:"cnic" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,pwd"`
	Role        string `json:"role" validate:"required,role"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// PublicUser is the only projection of a user returned by auth endpoints.
type PublicUser struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	Email      string      `json:"email"`
	Role       entity.Role `json:"role"`
	IsApproved bool        `json:"isApproved"`
}

func NewPublicUser(u *entity.User) PublicUser {
	return PublicUser{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role, IsApproved: u.IsApproved}
}

type AuthResult struct {
	Token     string
	ExpiresAt time.Time
	User      PublicUser
}

func (in *RegisterInput) normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.CNIC = strings.TrimSpace(in.CNIC)
	in.PhoneNumber = strings.TrimSpace(in.PhoneNumber)
}

// Register creates a patient or worker account and issues a token for it.
// Patients start approved; workers wait for an admin.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	in.normalize()
	if err := validation.Struct(in); err != nil {
		msg := "Invalid registration details"
		if validation.HasTag(err, "required") {
			msg = "All fields are required"
		}
		return nil, newValidationError(msg, validation.ToDetails(err))
	}

	// Fast path only; the store's unique constraint decides under concurrency.
	exists, err := s.Users.ExistsByEmailOrCNIC(ctx, in.Email, in.CNIC)
	if err != nil {
		helpers.LogError(s.Logger, "duplicate check failed", err, logrus.Fields{"email": in.Email})
		return nil, storageErr(err)
	}
	if exists {
		return nil, ErrDuplicateUser
	}

	hash, err := helpers.HashPassword(in.Password)
	if err != nil {
		helpers.LogError(s.Logger, "hash password failed", err, nil)
		return nil, err
	}

	role := entity.Role(in.Role)
	u := &entity.User{
		Name:         in.Name,
		Age:          in.Age,
		Gender:       entity.Gender(in.Gender),
		PhoneNumber:  in.PhoneNumber,
		CNIC:         in.CNIC,
		Email:        in.Email,
		PasswordHash: hash,
		Role:         role,
		IsApproved:   entity.InitialApproval(role),
	}
	if err := s.Users.Create(ctx, u); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, ErrDuplicateUser
		}
		helpers.LogError(s.Logger, "create user failed", err, logrus.Fields{"email": in.Email})
		return nil, storageErr(err)
	}
	metrics.Add(metricRegistrations, 1)

	return s.issue(u)
}

// Login checks credentials and the worker approval gate, in that order.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*AuthResult, error) {
	in.Email = strings.TrimSpace(in.Email)
	if err := validation.Struct(in); err != nil {
		return nil, newValidationError("Email and password are required", validation.ToDetails(err))
	}

	u, err := s.Users.GetByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		helpers.LogError(s.Logger, "lookup user failed", err, logrus.Fields{"email": in.Email})
		return nil, storageErr(err)
	}

	if !helpers.CompareHashAndPassword(u.PasswordHash, in.Password) {
		return nil, ErrInvalidCredentials
	}

	if !u.CanLogin() {
		metrics.Add(metricLoginsPending, 1)
		return nil, ErrPendingApproval
	}
	metrics.Add(metricLogins, 1)

	return s.issue(u)
}

func (s *AuthService) issue(u *entity.User) (*AuthResult, error) {
	token, exp, err := s.Tokens.Issue(u.ID)
	if err != nil {
		helpers.LogError(s.Logger, "issue token failed", err, logrus.Fields{"user_id": u.ID})
		return nil, err
	}
	return &AuthResult{Token: token, ExpiresAt: exp, User: NewPublicUser(u)}, nil
}
