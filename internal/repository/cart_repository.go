package repository

import (
	"context"

	"easybuy/internal/domain/model"
)

type CartRepository interface {
	GetOrCreateByUserID(ctx context.Context, userID int64) (model.Cart, error)
	FindByUserID(ctx context.Context, userID int64) (model.Cart, error)

	//指定カートの明細を全削除（注文確定後に呼ぶ）
	Clear(ctx context.Context, cartID int64) error
}

type CartProductRepository interface {
	ListByCartID(ctx context.Context, cartID int64) ([]model.CartProduct, error)

	// 同一商品は数量加算
	UpsertByCartAndProduct(ctx context.Context, cartID int64, productID int64, addQty int64) error

	UpdateQuantity(ctx context.Context, cartProductID int64, qty int64) error
	DeleteByID(ctx context.Context, cartProductID int64) error
	FindByID(ctx context.Context, cartProductID int64) (model.CartProduct, error)
	IsOwnedByUser(ctx context.Context, cartProductID int64, userID int64) (bool, error)
	CountByCartID(ctx context.Context, cartID int64) (int64, error)
}
