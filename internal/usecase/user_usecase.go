package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"easybuy/internal/domain/model"
	repo "easybuy/internal/repository"
)

type UserUsecase struct {
	userRepo repo.UserRepository
}

func NewUserUsecase(userRepo repo.UserRepository) *UserUsecase {
	return &UserUsecase{userRepo: userRepo}
}

type UserOutput struct {
	ID       int64  `json:"id"`
	UserCode string `json:"user_code"`
	Username string `json:"username"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Role     string `json:"role"`
	IsActive bool   `json:"is_active"`
}

type UpdateProfileInput struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

type UserListOutput struct {
	Users []UserOutput `json:"users"`
	Total int64        `json:"total"`
	Page  int          `json:"page"`
	Limit int          `json:"limit"`
}

func (u *UserUsecase) GetMe(ctx context.Context, userID int64) (UserOutput, error) {
	if userID <= 0 {
		return UserOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	user, err := u.userRepo.FindByID(ctx, userID)
	if errors.Is(err, repo.ErrUserNotFound) {
		return UserOutput{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return UserOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return toUserOutput(user), nil
}

// UpdateProfile は表示名と電話番号だけ更新できる。
func (u *UserUsecase) UpdateProfile(ctx context.Context, userID int64, in UpdateProfileInput) (UserOutput, error) {
	if userID <= 0 {
		return UserOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if strings.TrimSpace(in.Name) == "" {
		return UserOutput{}, NewHTTPError(http.StatusBadRequest, "name required")
	}

	user, err := u.userRepo.FindByID(ctx, userID)
	if errors.Is(err, repo.ErrUserNotFound) {
		return UserOutput{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return UserOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	user.Name = strings.TrimSpace(in.Name)
	user.Phone = strings.TrimSpace(in.Phone)

	if err := u.userRepo.Update(ctx, user); err != nil {
		return UserOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return toUserOutput(user), nil
}

// ListUsers は管理者用の一覧。
func (u *UserUsecase) ListUsers(ctx context.Context, page, limit int) (UserListOutput, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	users, total, err := u.userRepo.List(ctx, page, limit)
	if err != nil {
		return UserListOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	outs := make([]UserOutput, 0, len(users))
	for i := range users {
		outs = append(outs, toUserOutput(&users[i]))
	}
	return UserListOutput{Users: outs, Total: total, Page: page, Limit: limit}, nil
}

// SetUserActive は管理者によるアカウント停止/再開。
func (u *UserUsecase) SetUserActive(ctx context.Context, userID int64, active bool) (UserOutput, error) {
	if userID <= 0 {
		return UserOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	user, err := u.userRepo.FindByID(ctx, userID)
	if errors.Is(err, repo.ErrUserNotFound) {
		return UserOutput{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return UserOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	user.IsActive = active
	if err := u.userRepo.Update(ctx, user); err != nil {
		return UserOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return toUserOutput(user), nil
}

func toUserOutput(user *model.User) UserOutput {
	return UserOutput{
		ID:       user.ID,
		UserCode: user.UserCode,
		Username: user.Username,
		Name:     user.Name,
		Email:    user.Email,
		Phone:    user.Phone,
		Role:     string(user.Role),
		IsActive: user.IsActive,
	}
}
