package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/voyago/voyago-api/internal/domain/user"
	"github.com/voyago/voyago-api/internal/pkg/jwt"
)

type fakeUserRepo struct {
	users map[uuid.UUID]*user.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*user.User)}
}

func (f *fakeUserRepo) Create(ctx context.Context, u *user.User) error {
	f.users[u.ID] = u
	return nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, nil
	}
	return u, nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) Update(ctx context.Context, u *user.User) error {
	f.users[u.ID] = u
	return nil
}

func (f *fakeUserRepo) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	if u, ok := f.users[id]; ok {
		u.PasswordHash = passwordHash
	}
	return nil
}

type welcomeCall struct {
	to, toName, url string
}

type fakeMailer struct {
	welcomes []welcomeCall
}

func (f *fakeMailer) SendWelcome(to, toName, dashboardURL string) {
	f.welcomes = append(f.welcomes, welcomeCall{to, toName, dashboardURL})
}

func newTestService() (*Service, *fakeUserRepo) {
	repo := newFakeUserRepo()
	jwtService := jwt.NewService("test-secret", 15*time.Minute, 7*24*time.Hour)
	return NewService(repo, jwtService, nil), repo
}

func TestRegister(t *testing.T) {
	svc, repo := newTestService()
	mailer := &fakeMailer{}
	svc.SetMailer(mailer, "http://localhost:3000/dashboard")

	resp, err := svc.Register(context.Background(), &RegisterRequest{
		Email:     "  Ana@Example.COM ",
		Password:  "correct-horse-battery",
		FirstName: "Ana",
		LastName:  "Moreira",
	})
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	if resp.User.Email != "ana@example.com" {
		t.Errorf("email not normalized: %q", resp.User.Email)
	}
	if resp.Tokens.AccessToken == "" {
		t.Error("missing access token")
	}
	if resp.Tokens.TokenType != "Bearer" {
		t.Errorf("token type = %q, want Bearer", resp.Tokens.TokenType)
	}

	stored, _ := repo.GetByEmail(context.Background(), "ana@example.com")
	if stored == nil {
		t.Fatal("user not persisted")
	}
	if stored.PasswordHash == "correct-horse-battery" {
		t.Error("password stored in plain text")
	}

	if len(mailer.welcomes) != 1 || mailer.welcomes[0].to != "ana@example.com" {
		t.Errorf("welcome emails = %+v, want one to ana@example.com", mailer.welcomes)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _ := newTestService()

	req := &RegisterRequest{
		Email:     "ana@example.com",
		Password:  "correct-horse-battery",
		FirstName: "Ana",
		LastName:  "Moreira",
	}
	if _, err := svc.Register(context.Background(), req); err != nil {
		t.Fatalf("first Register() error = %v", err)
	}

	// Same address with different case still collides
	req2 := &RegisterRequest{
		Email:     "ANA@example.com",
		Password:  "another-password",
		FirstName: "Ana",
		LastName:  "Moreira",
	}
	if _, err := svc.Register(context.Background(), req2); !errors.Is(err, ErrEmailAlreadyExists) {
		t.Fatalf("duplicate Register() error = %v, want ErrEmailAlreadyExists", err)
	}
}

func TestLogin(t *testing.T) {
	svc, _ := newTestService()

	if _, err := svc.Register(context.Background(), &RegisterRequest{
		Email:     "ana@example.com",
		Password:  "correct-horse-battery",
		FirstName: "Ana",
		LastName:  "Moreira",
	}); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	if _, err := svc.Login(context.Background(), &LoginRequest{Email: "ana@example.com", Password: "correct-horse-battery"}); err != nil {
		t.Errorf("Login() error = %v", err)
	}
	if _, err := svc.Login(context.Background(), &LoginRequest{Email: "ana@example.com", Password: "wrong"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("bad password Login() error = %v, want ErrInvalidCredentials", err)
	}
	if _, err := svc.Login(context.Background(), &LoginRequest{Email: "nobody@example.com", Password: "whatever"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown user Login() error = %v, want ErrInvalidCredentials", err)
	}
}

func TestRefreshWithoutRedis(t *testing.T) {
	svc, _ := newTestService()

	resp, err := svc.Register(context.Background(), &RegisterRequest{
		Email:     "ana@example.com",
		Password:  "correct-horse-battery",
		FirstName: "Ana",
		LastName:  "Moreira",
	})
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	// Refresh token storage requires Redis; without it refresh must fail closed
	if _, err := svc.Refresh(context.Background(), resp.Tokens.RefreshToken); !errors.Is(err, ErrInvalidRefreshToken) {
		t.Errorf("Refresh() error = %v, want ErrInvalidRefreshToken", err)
	}
	if _, err := svc.Refresh(context.Background(), ""); !errors.Is(err, ErrRefreshTokenRequired) {
		t.Errorf("empty Refresh() error = %v, want ErrRefreshTokenRequired", err)
	}
}

func TestGetCurrentUser(t *testing.T) {
	svc, _ := newTestService()

	resp, err := svc.Register(context.Background(), &RegisterRequest{
		Email:     "ana@example.com",
		Password:  "correct-horse-battery",
		FirstName: "Ana",
		LastName:  "Moreira",
	})
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	u, err := svc.GetCurrentUser(context.Background(), resp.User.ID)
	if err != nil {
		t.Fatalf("GetCurrentUser() error = %v", err)
	}
	if u.Email != "ana@example.com" {
		t.Errorf("email = %q", u.Email)
	}

	if _, err := svc.GetCurrentUser(context.Background(), uuid.New()); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("unknown GetCurrentUser() error = %v, want ErrUserNotFound", err)
	}
}

func strPtr(s string) *string { return &s }

func TestUpdateProfile(t *testing.T) {
	svc, repo := newTestService()

	resp, err := svc.Register(context.Background(), &RegisterRequest{
		Email:     "ana@example.com",
		Password:  "correct-horse-battery",
		FirstName: "Ana",
		LastName:  "Moreira",
	})
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	updated, err := svc.UpdateProfile(context.Background(), resp.User.ID, &UpdateProfileRequest{
		Email:     strPtr("  Ana.M@Example.COM "),
		FirstName: strPtr("Anna"),
	})
	if err != nil {
		t.Fatalf("UpdateProfile() error = %v", err)
	}
	if updated.Email != "ana.m@example.com" {
		t.Errorf("email not normalized: %q", updated.Email)
	}
	if updated.FirstName != "Anna" || updated.LastName != "Moreira" {
		t.Errorf("name = %q %q, want Anna Moreira", updated.FirstName, updated.LastName)
	}

	stored, _ := repo.GetByID(context.Background(), resp.User.ID)
	if stored.Email != "ana.m@example.com" {
		t.Errorf("persisted email = %q", stored.Email)
	}

	if _, err := svc.UpdateProfile(context.Background(), uuid.New(), &UpdateProfileRequest{FirstName: strPtr("X")}); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("unknown UpdateProfile() error = %v, want ErrUserNotFound", err)
	}
}

func TestUpdateProfileEmailTaken(t *testing.T) {
	svc, _ := newTestService()

	if _, err := svc.Register(context.Background(), &RegisterRequest{
		Email:     "ana@example.com",
		Password:  "correct-horse-battery",
		FirstName: "Ana",
		LastName:  "Moreira",
	}); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	resp, err := svc.Register(context.Background(), &RegisterRequest{
		Email:     "joao@example.com",
		Password:  "another-password",
		FirstName: "Joao",
		LastName:  "Silva",
	})
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	if _, err := svc.UpdateProfile(context.Background(), resp.User.ID, &UpdateProfileRequest{Email: strPtr("ANA@example.com")}); !errors.Is(err, ErrEmailAlreadyExists) {
		t.Errorf("taken email UpdateProfile() error = %v, want ErrEmailAlreadyExists", err)
	}

	// Re-submitting your own address is fine
	if _, err := svc.UpdateProfile(context.Background(), resp.User.ID, &UpdateProfileRequest{Email: strPtr("joao@example.com")}); err != nil {
		t.Errorf("own email UpdateProfile() error = %v", err)
	}
}

func TestChangePassword(t *testing.T) {
	svc, _ := newTestService()

	resp, err := svc.Register(context.Background(), &RegisterRequest{
		Email:     "ana@example.com",
		Password:  "correct-horse-battery",
		FirstName: "Ana",
		LastName:  "Moreira",
	})
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	if err := svc.ChangePassword(context.Background(), resp.User.ID, &ChangePasswordRequest{
		CurrentPassword: "wrong-password",
		NewPassword:     "brand-new-password",
	}); !errors.Is(err, ErrWrongPassword) {
		t.Fatalf("wrong current ChangePassword() error = %v, want ErrWrongPassword", err)
	}

	if err := svc.ChangePassword(context.Background(), resp.User.ID, &ChangePasswordRequest{
		CurrentPassword: "correct-horse-battery",
		NewPassword:     "brand-new-password",
	}); err != nil {
		t.Fatalf("ChangePassword() error = %v", err)
	}

	if _, err := svc.Login(context.Background(), &LoginRequest{Email: "ana@example.com", Password: "correct-horse-battery"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("old password Login() error = %v, want ErrInvalidCredentials", err)
	}
	if _, err := svc.Login(context.Background(), &LoginRequest{Email: "ana@example.com", Password: "brand-new-password"}); err != nil {
		t.Errorf("new password Login() error = %v", err)
	}
}
