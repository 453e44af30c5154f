package repository

import (
	"context"
	"errors"

	"easybuy/internal/domain/model"
)

var ErrNotFound = errors.New("not found")

// 一覧検索
type ProductListQuery struct {
	Page         int
	Limit        int
	Q            string
	CategorySlug string
}

// 商品の永続化（保存・取得）だけを約束。
type ProductRepository interface {
	ListPublic(ctx context.Context, q ProductListQuery) ([]model.Product, int64, error)
	FindByID(ctx context.Context, id int64) (model.Product, error)

	Create(ctx context.Context, p model.Product) (model.Product, error)
	Update(ctx context.Context, p model.Product) error
	SoftDelete(ctx context.Context, id int64) error

	//管理者用（非公開含む全件）
	ListAll(ctx context.Context, page int, limit int) ([]model.Product, int64, error)
}

type CategoryRepository interface {
	Create(ctx context.Context, c model.Category) (model.Category, error)
	List(ctx context.Context) ([]model.Category, error)
	FindByID(ctx context.Context, id int64) (model.Category, error)
	FindBySlug(ctx context.Context, slug string) (model.Category, error)
	ExistsBySlug(ctx context.Context, slug string) (bool, error)
}
