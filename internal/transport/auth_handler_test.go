package transport

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"storefront/internal/domain"
	"storefront/internal/middleware"
	"storefront/internal/repository"
	"storefront/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// In-memory user repository backing a real AuthService
type mockUserRepository struct {
	users  map[string]*domain.User
	nextID int64
}

func newMockUserRepository() *mockUserRepository {
	return &mockUserRepository{users: make(map[string]*domain.User)}
}

func (m *mockUserRepository) Create(ctx context.Context, user *domain.User) (int64, error) {
	if _, exists := m.users[user.Email]; exists {
		return 0, repository.ErrUserAlreadyExists
	}
	m.nextID++
	stored := *user
	stored.ID = m.nextID
	m.users[user.Email] = &stored
	return m.nextID, nil
}

func (m *mockUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	user, exists := m.users[email]
	if !exists {
		return nil, repository.ErrUserNotFound
	}
	return user, nil
}

func (m *mockUserRepository) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	for _, user := range m.users {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

const testSecret = "test-secret-key"

func newAuthRouter() chi.Router {
	logger := zap.NewNop()
	authService := service.NewAuthService(newMockUserRepository(), testSecret, time.Hour)
	handler := NewAuthHandler(authService, logger)

	router := chi.NewRouter()
	handler.RegisterRoutes(router, middleware.AuthMiddleware(testSecret, logger))
	return router
}

func TestSignupCreatesAccount(t *testing.T) {
	router := newAuthRouter()

	w := doJSON(t, router, http.MethodPost, "/api/auth/signup", map[string]string{
		"name":     "Ada",
		"email":    "ada@example.com",
		"password": "hunter22!",
	})

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp["message"] != "User registered successfully" {
		t.Errorf("unexpected message %q", resp["message"])
	}
}

func TestSignupMissingFieldReturns400(t *testing.T) {
	router := newAuthRouter()

	w := doJSON(t, router, http.MethodPost, "/api/auth/signup", map[string]string{
		"name":  "Ada",
		"email": "ada@example.com",
	})

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestSignupDuplicateEmailReturns409(t *testing.T) {
	router := newAuthRouter()

	body := map[string]string{"name": "Ada", "email": "ada@example.com", "password": "hunter22!"}
	if w := doJSON(t, router, http.MethodPost, "/api/auth/signup", body); w.Code != http.StatusCreated {
		t.Fatalf("first signup failed: %d", w.Code)
	}

	w := doJSON(t, router, http.MethodPost, "/api/auth/signup", body)
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d: %s", w.Code, w.Body.String())
	}
}

func TestLoginReturnsToken(t *testing.T) {
	router := newAuthRouter()

	doJSON(t, router, http.MethodPost, "/api/auth/signup", map[string]string{
		"name": "Ada", "email": "ada@example.com", "password": "hunter22!",
	})

	w := doJSON(t, router, http.MethodPost, "/api/auth/login", map[string]string{
		"email": "ada@example.com", "password": "hunter22!",
	})

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp LoginResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Message != "Login successful" {
		t.Errorf("unexpected message %q", resp.Message)
	}
	if resp.Token == "" {
		t.Fatal("expected a token")
	}

	// The issued token unlocks the protected profile route
	req, _ := http.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+resp.Token)
	rec := doRequest(router, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 from /me, got %d: %s", rec.Code, rec.Body.String())
	}
	var profile UserProfile
	if err := json.Unmarshal(rec.Body.Bytes(), &profile); err != nil {
		t.Fatalf("failed to decode profile: %v", err)
	}
	if profile.Email != "ada@example.com" || profile.Name != "Ada" {
		t.Errorf("unexpected profile: %+v", profile)
	}
}

func TestLoginFailuresShareOneErrorKind(t *testing.T) {
	router := newAuthRouter()

	doJSON(t, router, http.MethodPost, "/api/auth/signup", map[string]string{
		"name": "Ada", "email": "ada@example.com", "password": "hunter22!",
	})

	wrongPassword := doJSON(t, router, http.MethodPost, "/api/auth/login", map[string]string{
		"email": "ada@example.com", "password": "wrong",
	})
	unknownEmail := doJSON(t, router, http.MethodPost, "/api/auth/login", map[string]string{
		"email": "nobody@example.com", "password": "hunter22!",
	})

	if wrongPassword.Code != http.StatusUnauthorized {
		t.Errorf("wrong password: expected 401, got %d", wrongPassword.Code)
	}
	if unknownEmail.Code != http.StatusUnauthorized {
		t.Errorf("unknown email: expected 401, got %d", unknownEmail.Code)
	}

	var a, b middleware.ErrorResponse
	if err := json.Unmarshal(wrongPassword.Body.Bytes(), &a); err != nil {
		t.Fatalf("failed to decode error: %v", err)
	}
	if err := json.Unmarshal(unknownEmail.Body.Bytes(), &b); err != nil {
		t.Fatalf("failed to decode error: %v", err)
	}
	if a.Error.Message != b.Error.Message {
		t.Errorf("error messages differ: %q vs %q", a.Error.Message, b.Error.Message)
	}
}

func TestMeWithoutTokenReturns401(t *testing.T) {
	router := newAuthRouter()

	req, _ := http.NewRequest(http.MethodGet, "/api/auth/me", nil)
	rec := doRequest(router, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}
