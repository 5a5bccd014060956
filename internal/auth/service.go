// Package auth identifies the people working the back office. There is no
// session machinery here; a successful login yields the actor identity
// stamped on approvals, preparation steps and deliveries.
package auth

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/crypto/bcrypt"

	"github.com/backoffice-retail/backoffice/internal/shared"
)

// Role is what a user may do.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleStaff Role = "staff"
)

// User is a named back-office worker.
type User struct {
	Username     string `json:"username"`
	Name         string `json:"name"`
	Role         Role   `json:"role"`
	passwordHash []byte
}

// Service keeps the user registry in memory.
type Service struct {
	mu    sync.RWMutex
	users map[string]User
}

// NewService builds an empty Service.
func NewService() *Service {
	return &Service{users: make(map[string]User)}
}

// Register adds a user, hashing the password.
func (s *Service) Register(username, name string, role Role, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("auth: register %s: %w", username, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[username] = User{Username: username, Name: name, Role: role, passwordHash: hash}
	return nil
}

// Login validates the credentials and returns the actor identity.
func (s *Service) Login(_ context.Context, username, password string) (User, error) {
	s.mu.RLock()
	u, ok := s.users[username]
	s.mu.RUnlock()
	if !ok {
		return User{}, shared.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(u.passwordHash, []byte(password)); err != nil {
		return User{}, shared.ErrInvalidCredentials
	}
	return u, nil
}

// SeedDefaults registers the demo accounts used until a real directory is
// wired up.
func (s *Service) SeedDefaults() error {
	defaults := []struct {
		username, name, password string
		role                     Role
	}{
		{"ayse", "Ayse Demir", "ayse123", RoleAdmin},
		{"mehmet", "Mehmet Kaya", "mehmet123", RoleStaff},
		{"zeynep", "Zeynep Arslan", "zeynep123", RoleStaff},
	}
	for _, d := range defaults {
		if err := s.Register(d.username, d.name, d.role, d.password); err != nil {
			return err
		}
	}
	return nil
}
