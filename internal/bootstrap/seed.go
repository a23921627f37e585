package bootstrap

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"partyup-network/internal/model"
)

const demoPassword = "Password123!"

type userSeeder interface {
	Count() (int64, error)
	Create(user *model.User) error
}

type demoUser struct {
	username, firstName, lastName, email string
}

var demoUsers = []demoUser{
	{"johny", "John", "Doe", "john.doe@example.com"},
	{"johny1", "Jane", "Smith", "jane.smith@example.com"},
	{"johny2", "Test1", "Test1", "test1@example.com"},
	{"johny3", "Test2", "Test2", "test2@example.com"},
	{"johny4", "Test3", "Test3", "test3@example.com"},
}

// SeedUsers inserts the ACTIVE demo accounts when the users table is empty.
// It reports how many users were created.
func SeedUsers(users userSeeder, bcryptCost int, log *zap.Logger) (int, error) {
	count, err := users.Count()
	if err != nil {
		return 0, fmt.Errorf("count users failed: %w", err)
	}
	if count > 0 {
		log.Info("database already contains users, seeding skipped", zap.Int64("users", count))
		return 0, nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(demoPassword), bcryptCost)
	if err != nil {
		return 0, fmt.Errorf("hash demo password failed: %w", err)
	}
	birth := time.Date(2001, 9, 13, 0, 0, 0, 0, time.UTC)

	for i, d := range demoUsers {
		user := &model.User{
			Username:     d.username,
			Email:        d.email,
			PasswordHash: string(hash),
			FirstName:    d.firstName,
			LastName:     d.lastName,
			Status:       model.AccountStatusActive,
			Bio:          "my test bio",
			BirthDate:    &birth,
			Age:          17,
		}
		if err := users.Create(user); err != nil {
			return i, fmt.Errorf("seed user %s failed: %w", d.username, err)
		}
	}

	log.Info("initial users injected", zap.Int("users", len(demoUsers)))
	return len(demoUsers), nil
}
