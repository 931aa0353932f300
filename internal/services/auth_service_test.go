package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/SAP-F-2025/attendance-service/internal/models"
	"github.com/SAP-F-2025/attendance-service/internal/validator"
)

func newTestAuthService(t *testing.T, repo *memoryRepository) (AuthService, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	service := NewAuthService(repo, nil, testLogger(), validator.New(), client, AuthConfig{
		JWTSecret: "test-secret",
		TokenTTL:  time.Hour,
	})
	return service, mr
}

func TestAuthService_RegisterAndLoginTeacher(t *testing.T) {
	repo := newMemoryRepository()
	service, _ := newTestAuthService(t, repo)
	ctx := context.Background()

	resp, err := service.RegisterTeacher(ctx, &RegisterRequest{
		Name:     "Lecturer",
		Email:    "lec@school.com",
		Password: "password123",
	})
	if err != nil {
		t.Fatalf("RegisterTeacher failed: %v", err)
	}
	if resp.Token == "" {
		t.Error("registration should issue a token")
	}
	if resp.Session.Role != models.RoleTeacher {
		t.Errorf("expected TEACHER role, got %s", resp.Session.Role)
	}

	login, err := service.LoginTeacher(ctx, &LoginRequest{
		Email:    "lec@school.com",
		Password: "password123",
	})
	if err != nil {
		t.Fatalf("LoginTeacher failed: %v", err)
	}
	if login.Session.UserID != resp.Session.UserID {
		t.Errorf("login should resolve the registered account")
	}

	// Password hashes never travel to the client.
	user, err := repo.User().GetByID(ctx, nil, resp.Session.UserID)
	if err != nil {
		t.Fatalf("user lookup failed: %v", err)
	}
	if user.PasswordHash == "password123" {
		t.Error("password must not be stored in plain text")
	}
}

func TestAuthService_RegisterTeacher_DuplicateEmail(t *testing.T) {
	repo := newMemoryRepository()
	service, _ := newTestAuthService(t, repo)
	ctx := context.Background()

	req := &RegisterRequest{Name: "Lecturer", Email: "lec@school.com", Password: "password123"}
	if _, err := service.RegisterTeacher(ctx, req); err != nil {
		t.Fatalf("first registration failed: %v", err)
	}

	_, err := service.RegisterTeacher(ctx, req)
	if !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestAuthService_LoginTeacher_WrongPassword(t *testing.T) {
	repo := newMemoryRepository()
	service, _ := newTestAuthService(t, repo)
	ctx := context.Background()

	if _, err := service.RegisterTeacher(ctx, &RegisterRequest{
		Name: "Lecturer", Email: "lec@school.com", Password: "password123",
	}); err != nil {
		t.Fatalf("registration failed: %v", err)
	}

	_, err := service.LoginTeacher(ctx, &LoginRequest{Email: "lec@school.com", Password: "wrong"})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}

	_, err = service.LoginTeacher(ctx, &LoginRequest{Email: "nobody@school.com", Password: "password123"})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("unknown email should also yield ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_LoginStudent(t *testing.T) {
	repo := newMemoryRepository()
	seedClassWithRoster(repo)
	service, _ := newTestAuthService(t, repo)
	ctx := context.Background()

	resp, err := service.LoginStudent(ctx, &StudentLoginRequest{StudentID: "STD-5090"})
	if err != nil {
		t.Fatalf("LoginStudent failed: %v", err)
	}
	if resp.Session.Role != models.RoleStudent {
		t.Errorf("expected STUDENT role, got %s", resp.Session.Role)
	}
	if resp.Session.StudentID != "STD-5090" {
		t.Errorf("expected student id in session, got %q", resp.Session.StudentID)
	}
	if resp.Session.Name != "Ren Pisith" {
		t.Errorf("expected student name in session, got %q", resp.Session.Name)
	}
}

func TestAuthService_LoginStudent_ArchivedRejected(t *testing.T) {
	repo := newMemoryRepository()
	seedClassWithRoster(repo)
	ctx := context.Background()

	student, _ := repo.Student().GetByID(ctx, nil, "STD-5090")
	student.IsArchived = true
	repo.Student().Update(ctx, nil, student)

	service, _ := newTestAuthService(t, repo)
	_, err := service.LoginStudent(ctx, &StudentLoginRequest{StudentID: "STD-5090"})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("archived student login should fail, got %v", err)
	}
}

func TestAuthService_VerifyAndRevoke(t *testing.T) {
	repo := newMemoryRepository()
	service, _ := newTestAuthService(t, repo)
	ctx := context.Background()

	resp, err := service.RegisterTeacher(ctx, &RegisterRequest{
		Name: "Lecturer", Email: "lec@school.com", Password: "password123",
	})
	if err != nil {
		t.Fatalf("registration failed: %v", err)
	}

	session, err := service.VerifyToken(ctx, resp.Token)
	if err != nil {
		t.Fatalf("VerifyToken failed: %v", err)
	}
	if session.UserID != resp.Session.UserID {
		t.Errorf("verified session mismatch")
	}

	if err := service.Logout(ctx, resp.Token); err != nil {
		t.Fatalf("Logout failed: %v", err)
	}

	_, err = service.VerifyToken(ctx, resp.Token)
	if !errors.Is(err, ErrTokenRevoked) {
		t.Fatalf("expected ErrTokenRevoked after logout, got %v", err)
	}
}

func TestAuthService_VerifyToken_Garbage(t *testing.T) {
	repo := newMemoryRepository()
	service, _ := newTestAuthService(t, repo)

	_, err := service.VerifyToken(context.Background(), "not-a-token")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}
