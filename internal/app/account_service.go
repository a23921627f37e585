package app

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"partyup-network/internal/model"
	"partyup-network/internal/pkg/sanitize"
	"partyup-network/internal/repository"
)

const birthDayLayout = "2006-01-02"

type TokenIssuer interface {
	Issue(subject string) (string, error)
}

type AccountService struct {
	users      UserStore
	codec      TokenIssuer
	ledger     *TokenLedger
	bcryptCost int
	log        *zap.Logger
	now        func() time.Time
}

type LoginInput struct {
	Username string
	Password string
}

type LoginResult struct {
	User      *model.User
	Token     string
	ExpiresAt time.Time
}

type CreateUserInput struct {
	Username  string
	Password  string
	FirstName string
	LastName  string
	Email     string
	BirthDay  string
	Bio       string
	Image     []byte
}

func NewAccountService(users UserStore, codec TokenIssuer, ledger *TokenLedger, bcryptCost int, log *zap.Logger) *AccountService {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &AccountService{
		users:      users,
		codec:      codec,
		ledger:     ledger,
		bcryptCost: bcryptCost,
		log:        log,
		now:        time.Now,
	}
}

// Login checks credentials and account status, then issues a token and its
// ledger record.
func (s *AccountService) Login(input LoginInput) (*LoginResult, error) {
	username := strings.TrimSpace(input.Username)
	if username == "" || input.Password == "" {
		return nil, newError(KindValidation, "username and password are required")
	}

	user, err := s.users.GetByUsername(username)
	if err != nil {
		return nil, storeError("login failed", err)
	}
	if user == nil {
		s.log.Warn("login for unknown user", zap.String("username", username))
		return nil, newError(KindAuth, "User not found with username: %s", username)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		s.log.Warn("login with invalid credentials", zap.String("username", username))
		return nil, newError(KindAuth, "Invalid credentials")
	}
	if !user.IsActive() {
		s.log.Warn("login for inactive account", zap.String("username", username))
		return nil, newError(KindAuth, "User account is inactive")
	}

	token, err := s.codec.Issue(user.Username)
	if err != nil {
		return nil, fmt.Errorf("issue token failed: %w", err)
	}
	record, err := s.ledger.Issue(token, user)
	if err != nil {
		return nil, err
	}

	s.log.Info("login successful", zap.Uint("user_id", user.ID), zap.String("email", user.Email))
	return &LoginResult{User: user, Token: token, ExpiresAt: record.ExpiresAt}, nil
}

func (s *AccountService) Logout(token string) error {
	if strings.TrimSpace(token) == "" {
		return newError(KindValidation, "Authorization cookie is missing or invalid")
	}
	record, err := s.ledger.Lookup(token)
	if err != nil {
		return err
	}
	return s.ledger.Invalidate(record)
}

// CreateUser registers a new account in INACTIVE status.
func (s *AccountService) CreateUser(input CreateUserInput) (*model.User, error) {
	username := strings.TrimSpace(input.Username)
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if username == "" || email == "" || len(input.Password) < 8 {
		return nil, newError(KindValidation, "username, email and a password of at least 8 characters are required")
	}

	var birthDate *time.Time
	age := 0
	if raw := strings.TrimSpace(input.BirthDay); raw != "" {
		parsed, err := time.Parse(birthDayLayout, raw)
		if err != nil {
			return nil, newError(KindValidation, "Birth date must use the format YYYY-MM-DD")
		}
		if !parsed.Before(s.now()) {
			return nil, newError(KindValidation, "Birth date must be in the past")
		}
		birthDate = &parsed
		age = ageAt(parsed, s.now())
	}

	existing, err := s.users.GetByUsername(username)
	if err != nil {
		return nil, storeError("create user failed", err)
	}
	if existing != nil {
		s.log.Warn("user already exists", zap.String("username", username))
		return nil, newError(KindConflict, "User already exists with username: %s", username)
	}
	existing, err = s.users.GetByEmail(email)
	if err != nil {
		return nil, storeError("create user failed", err)
	}
	if existing != nil {
		s.log.Warn("user already exists", zap.String("email", email))
		return nil, newError(KindConflict, "User already exists with email: %s", email)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password failed: %w", err)
	}

	user := &model.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		FirstName:    sanitize.Text(input.FirstName, 50),
		LastName:     sanitize.Text(input.LastName, 50),
		Bio:          sanitize.Text(input.Bio, 250),
		Image:        input.Image,
		BirthDate:    birthDate,
		Age:          age,
		Status:       model.AccountStatusInactive,
	}
	if err := s.users.Create(user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, newError(KindConflict, "User already exists with username or email: %s / %s", username, email)
		}
		return nil, storeError("create user failed", err)
	}

	s.log.Info("user created", zap.Uint("user_id", user.ID), zap.String("username", user.Username))
	return user, nil
}

func (s *AccountService) GetUserByID(id uint) (*model.User, error) {
	if id == 0 {
		return nil, newError(KindValidation, "user id is required")
	}
	user, err := s.users.GetByID(id)
	if err != nil {
		return nil, storeError("query user failed", err)
	}
	if user == nil {
		return nil, newError(KindNotFound, "User not found with id: %d", id)
	}
	return user, nil
}

func (s *AccountService) GetUserByUsername(username string) (*model.User, error) {
	user, err := s.users.GetByUsername(username)
	if err != nil {
		return nil, storeError("query user failed", err)
	}
	if user == nil {
		return nil, newError(KindNotFound, "User not found with username: %s", username)
	}
	return user, nil
}

// DeleteAccount removes the user together with every token and friendship
// that references it.
func (s *AccountService) DeleteAccount(id uint) error {
	deleted, err := s.users.DeleteWithDependents(id)
	if err != nil {
		s.log.Error("delete account failed", zap.Uint("user_id", id), zap.Error(err))
		return storeError("delete account failed", err)
	}
	if !deleted {
		return newError(KindNotFound, "User not found with id: %d", id)
	}
	s.log.Info("account deleted", zap.Uint("user_id", id))
	return nil
}

func ageAt(birth, now time.Time) int {
	years := now.Year() - birth.Year()
	if now.Month() < birth.Month() || (now.Month() == birth.Month() && now.Day() < birth.Day()) {
		years--
	}
	if years < 0 {
		return 0
	}
	return years
}
