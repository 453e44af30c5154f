package repository

import (
	"context"
	"errors"

	"easybuy/internal/domain/model"
)

// ユーザーが見つかりませんを統一
var ErrUserNotFound = errors.New("user not found")

// 保存・取得を約束
type UserRepository interface {
	//新規ユーザー作成
	Create(ctx context.Context, user *model.User) error

	// IDからユーザーを1件取得する。
	FindByID(ctx context.Context, userID int64) (*model.User, error)

	//メールからユーザーを1件取得する。
	FindByEmail(ctx context.Context, email string) (*model.User, error)

	//ユーザー名の空き確認用
	ExistsByUsername(ctx context.Context, username string) (bool, error)

	//プロフィール更新など
	Update(ctx context.Context, user *model.User) error

	//管理者用の一覧
	List(ctx context.Context, page int, limit int) ([]model.User, int64, error)
}
