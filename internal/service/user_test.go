package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"driftline/internal/model"
)

func newUserFixture(userRepo *mockUserRepository) *UserService {
	return NewUserService(userRepo, &mockFollowRepository{}, &mockPostRepository{},
		&mockCommentRepository{}, &mockLikeRepository{}, &mockCounterRepository{}, &mockTxRunner{})
}

func TestUserService_Register_Success(t *testing.T) {
	userRepo := &mockUserRepository{
		createFn: func(ctx context.Context, user *model.User) error {
			user.ID = 1
			user.CreatedAt = time.Now()
			user.UpdatedAt = time.Now()
			return nil
		},
	}
	svc := newUserFixture(userRepo)

	req := &model.RegisterRequest{
		Nickname:  "janedoe",
		Password:  "securepassword123",
		FirstName: "Jane",
		LastName:  "Doe",
		Birthday:  "1995-04-12",
	}

	user, err := svc.Register(context.Background(), req)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if user.Nickname != req.Nickname {
		t.Errorf("nickname = %q, want %q", user.Nickname, req.Nickname)
	}
	if got := user.Birthday.Format("2006-01-02"); got != req.Birthday {
		t.Errorf("birthday = %q, want %q", got, req.Birthday)
	}

	// Password must be hashed, never stored as given
	if user.PasswordHashed == req.Password {
		t.Error("password should be hashed, not stored in plain text")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHashed), []byte(req.Password)); err != nil {
		t.Errorf("stored hash does not match password: %v", err)
	}
}

func TestUserService_Register_Validation(t *testing.T) {
	svc := newUserFixture(&mockUserRepository{})

	valid := model.RegisterRequest{
		Nickname:  "janedoe",
		Password:  "pw",
		FirstName: "Jane",
		LastName:  "Doe",
		Birthday:  "1995-04-12",
	}

	tests := []struct {
		name   string
		mutate func(r *model.RegisterRequest)
	}{
		{"missing nickname", func(r *model.RegisterRequest) { r.Nickname = " " }},
		{"missing password", func(r *model.RegisterRequest) { r.Password = "" }},
		{"missing first name", func(r *model.RegisterRequest) { r.FirstName = "" }},
		{"missing last name", func(r *model.RegisterRequest) { r.LastName = "" }},
		{"bad birthday", func(r *model.RegisterRequest) { r.Birthday = "12/04/1995" }},
		{"empty birthday", func(r *model.RegisterRequest) { r.Birthday = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid
			tt.mutate(&req)
			_, err := svc.Register(context.Background(), &req)
			if !errors.Is(err, model.ErrInvalidRegistration) {
				t.Fatalf("expected ErrInvalidRegistration, got: %v", err)
			}
		})
	}
}

func TestUserService_Register_NicknameTaken(t *testing.T) {
	userRepo := &mockUserRepository{
		existsByNicknameFn: func(ctx context.Context, nickname string) (bool, error) {
			return true, nil
		},
	}
	svc := newUserFixture(userRepo)

	_, err := svc.Register(context.Background(), &model.RegisterRequest{
		Nickname:  "janedoe",
		Password:  "pw",
		FirstName: "Jane",
		LastName:  "Doe",
		Birthday:  "1995-04-12",
	})
	if !errors.Is(err, model.ErrNicknameExists) {
		t.Fatalf("expected ErrNicknameExists, got: %v", err)
	}
}

func TestUserService_Login(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("correct-horse"), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}

	userRepo := &mockUserRepository{
		getByNicknameFn: func(ctx context.Context, nickname string) (*model.User, error) {
			if nickname == "janedoe" {
				return &model.User{ID: 1, Nickname: "janedoe", PasswordHashed: string(hash)}, nil
			}
			return nil, model.ErrUserNotFound
		},
	}
	svc := newUserFixture(userRepo)

	user, err := svc.Login(context.Background(), &model.LoginRequest{Nickname: "janedoe", Password: "correct-horse"})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if user.ID != 1 {
		t.Errorf("user id = %d, want 1", user.ID)
	}

	// Wrong password and unknown nickname produce the same error
	if _, err := svc.Login(context.Background(), &model.LoginRequest{Nickname: "janedoe", Password: "wrong"}); !errors.Is(err, model.ErrInvalidCredentials) {
		t.Errorf("wrong password: expected ErrInvalidCredentials, got: %v", err)
	}
	if _, err := svc.Login(context.Background(), &model.LoginRequest{Nickname: "ghost", Password: "whatever"}); !errors.Is(err, model.ErrInvalidCredentials) {
		t.Errorf("unknown nickname: expected ErrInvalidCredentials, got: %v", err)
	}
}

func TestUserService_UpdateProfile(t *testing.T) {
	var saved *model.User
	userRepo := &mockUserRepository{
		getByIDFn: func(ctx context.Context, id int64) (*model.User, error) {
			return &model.User{ID: id, Nickname: "janedoe", FirstName: "Jane", LastName: "Doe"}, nil
		},
		updateFn: func(ctx context.Context, user *model.User) error {
			saved = user
			return nil
		},
	}
	svc := newUserFixture(userRepo)

	user, err := svc.UpdateProfile(context.Background(), 1, 1, &model.UpdateProfileRequest{
		FirstName: "Janet",
		LastName:  "Smith",
		Birthday:  "1990-01-31",
	})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if saved == nil {
		t.Fatal("expected the updated user to be persisted")
	}
	if user.FirstName != "Janet" || user.LastName != "Smith" {
		t.Errorf("name = %q %q, want Janet Smith", user.FirstName, user.LastName)
	}
	if got := user.Birthday.Format("2006-01-02"); got != "1990-01-31" {
		t.Errorf("birthday = %q, want 1990-01-31", got)
	}
	if user.Nickname != "janedoe" {
		t.Errorf("nickname changed to %q, want janedoe untouched", user.Nickname)
	}
}

func TestUserService_UpdateProfile_NotOwner(t *testing.T) {
	updateCalled := false
	userRepo := &mockUserRepository{
		updateFn: func(ctx context.Context, user *model.User) error {
			updateCalled = true
			return nil
		},
	}
	svc := newUserFixture(userRepo)

	_, err := svc.UpdateProfile(context.Background(), 1, 2, &model.UpdateProfileRequest{
		FirstName: "Janet",
		LastName:  "Smith",
		Birthday:  "1990-01-31",
	})
	if !errors.Is(err, model.ErrNotAccountOwner) {
		t.Fatalf("expected ErrNotAccountOwner, got: %v", err)
	}
	if updateCalled {
		t.Error("update should not run for another user's profile")
	}
}

func TestUserService_UpdateProfile_Validation(t *testing.T) {
	svc := newUserFixture(&mockUserRepository{})

	valid := model.UpdateProfileRequest{
		FirstName: "Janet",
		LastName:  "Smith",
		Birthday:  "1990-01-31",
	}

	tests := []struct {
		name   string
		mutate func(r *model.UpdateProfileRequest)
	}{
		{"missing first name", func(r *model.UpdateProfileRequest) { r.FirstName = " " }},
		{"missing last name", func(r *model.UpdateProfileRequest) { r.LastName = "" }},
		{"bad birthday", func(r *model.UpdateProfileRequest) { r.Birthday = "31/01/1990" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid
			tt.mutate(&req)
			_, err := svc.UpdateProfile(context.Background(), 1, 1, &req)
			if !errors.Is(err, model.ErrInvalidProfile) {
				t.Fatalf("expected ErrInvalidProfile, got: %v", err)
			}
		})
	}
}

func TestUserService_Delete_NotOwner(t *testing.T) {
	svc := newUserFixture(&mockUserRepository{})

	err := svc.Delete(context.Background(), 1, 2)
	if !errors.Is(err, model.ErrNotAccountOwner) {
		t.Fatalf("expected ErrNotAccountOwner, got: %v", err)
	}
}
