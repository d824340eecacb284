package service

import (
	"errors"
	"testing"

	"quillpad-server/internal/domain"
)

func TestUserService_GetByID(t *testing.T) {
	repo := newMockUserRepository()
	service := NewUserService(repo)

	repo.Create(&domain.User{
		ID:       "user1",
		Username: "tester",
		Email:    "tester@example.com",
		Password: "hashed-secret",
	})

	user, err := service.GetByID("user1")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if user.Username != "tester" {
		t.Errorf("expected username tester, got %s", user.Username)
	}
	if user.Password != "" {
		t.Error("expected password to be cleared")
	}

	if _, err := service.GetByID("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestUserService_UpdateUsername(t *testing.T) {
	repo := newMockUserRepository()
	service := NewUserService(repo)

	repo.Create(&domain.User{ID: "user1", Username: "original", Email: "a@example.com"})
	repo.Create(&domain.User{ID: "user2", Username: "taken", Email: "b@example.com"})

	user, err := service.UpdateUsername("user1", "renamed")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if user.Username != "renamed" {
		t.Errorf("expected username renamed, got %s", user.Username)
	}

	if _, err := service.UpdateUsername("user1", "taken"); err == nil {
		t.Error("expected error for taken username")
	}

	// renaming to your own current name is not a conflict
	if _, err := service.UpdateUsername("user1", "renamed"); err != nil {
		t.Errorf("expected no error, got %v", err)
	}

	if _, err := service.UpdateUsername("missing", "whatever"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
