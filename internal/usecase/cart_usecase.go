package usecase

import (
	"context"
	"net/http"

	repo "easybuy/internal/repository"
)

type CartUsecase struct {
	cartRepo        repo.CartRepository
	cartProductRepo repo.CartProductRepository
	productRepo     repo.ProductRepository
}

func NewCartUsecase(
	cartRepo repo.CartRepository,
	cartProductRepo repo.CartProductRepository,
	productRepo repo.ProductRepository,
) *CartUsecase {
	return &CartUsecase{
		cartRepo:        cartRepo,
		cartProductRepo: cartProductRepo,
		productRepo:     productRepo,
	}
}

type CartItemOutput struct {
	ID        int64  `json:"id"`
	ProductID int64  `json:"product_id"`
	Name      string `json:"name"`
	Price     int64  `json:"price"`
	ImageURL  string `json:"image_url"`
	Quantity  int64  `json:"quantity"`
	Total     int64  `json:"total"`
}

type CartOutput struct {
	CartID      int64            `json:"cart_id"`
	Products    []CartItemOutput `json:"products"`
	TotalAmount int64            `json:"total_amount"`
}

type AddToCartInput struct {
	ProductID int64 `json:"product_id"`
	Quantity  int64 `json:"quantity"`
}

// GetCart はカートの中身を現在の商品情報とともに返す。無ければ空で作る。
func (u *CartUsecase) GetCart(ctx context.Context, userID int64) (CartOutput, error) {
	if userID <= 0 {
		return CartOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	cart, err := u.cartRepo.GetOrCreateByUserID(ctx, userID)
	if err != nil {
		return CartOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	items, err := u.cartProductRepo.ListByCartID(ctx, cart.ID)
	if err != nil {
		return CartOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	out := CartOutput{CartID: cart.ID, Products: make([]CartItemOutput, 0, len(items))}
	for _, it := range items {
		p, err := u.productRepo.FindByID(ctx, it.ProductID)
		if err == repo.ErrNotFound {
			//商品が消えた明細は表示しない
			continue
		}
		if err != nil {
			return CartOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}

		out.Products = append(out.Products, CartItemOutput{
			ID:        it.ID,
			ProductID: it.ProductID,
			Name:      p.Name,
			Price:     p.Price,
			ImageURL:  p.ImageURL,
			Quantity:  it.Quantity,
			Total:     p.Price * it.Quantity,
		})
		out.TotalAmount += p.Price * it.Quantity
	}

	return out, nil
}

// AddToCart は商品をカートへ入れる。同じ商品は数量を加算する。
func (u *CartUsecase) AddToCart(ctx context.Context, userID int64, in AddToCartInput) (CartOutput, error) {
	if userID <= 0 {
		return CartOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if in.ProductID <= 0 || in.Quantity <= 0 {
		return CartOutput{}, NewHTTPError(http.StatusBadRequest, "invalid product_id or quantity")
	}

	p, err := u.productRepo.FindByID(ctx, in.ProductID)
	if err == repo.ErrNotFound {
		return CartOutput{}, NewHTTPError(http.StatusNotFound, "product not found")
	}
	if err != nil {
		return CartOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if !p.IsActive {
		return CartOutput{}, NewHTTPError(http.StatusNotFound, "product not found")
	}

	cart, err := u.cartRepo.GetOrCreateByUserID(ctx, userID)
	if err != nil {
		return CartOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if err := u.cartProductRepo.UpsertByCartAndProduct(ctx, cart.ID, in.ProductID, in.Quantity); err != nil {
		return CartOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return u.GetCart(ctx, userID)
}

// UpdateItemQuantity は明細の数量を置き換える。0以下は拒否（削除は別口）。
func (u *CartUsecase) UpdateItemQuantity(ctx context.Context, userID int64, cartProductID int64, qty int64) (CartOutput, error) {
	if userID <= 0 {
		return CartOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if cartProductID <= 0 || qty <= 0 {
		return CartOutput{}, NewHTTPError(http.StatusBadRequest, "invalid quantity")
	}

	if err := u.checkItemOwner(ctx, cartProductID, userID); err != nil {
		return CartOutput{}, err
	}

	if err := u.cartProductRepo.UpdateQuantity(ctx, cartProductID, qty); err != nil {
		if err == repo.ErrNotFound {
			return CartOutput{}, NewHTTPError(http.StatusNotFound, "not found")
		}
		return CartOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return u.GetCart(ctx, userID)
}

// RemoveItem は明細を1行削除する。
func (u *CartUsecase) RemoveItem(ctx context.Context, userID int64, cartProductID int64) (CartOutput, error) {
	if userID <= 0 {
		return CartOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if cartProductID <= 0 {
		return CartOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	if err := u.checkItemOwner(ctx, cartProductID, userID); err != nil {
		return CartOutput{}, err
	}

	if err := u.cartProductRepo.DeleteByID(ctx, cartProductID); err != nil {
		if err == repo.ErrNotFound {
			return CartOutput{}, NewHTTPError(http.StatusNotFound, "not found")
		}
		return CartOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return u.GetCart(ctx, userID)
}

// CountItems はバッジ表示用の明細行数を返す。
func (u *CartUsecase) CountItems(ctx context.Context, userID int64) (int64, error) {
	if userID <= 0 {
		return 0, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	cart, err := u.cartRepo.FindByUserID(ctx, userID)
	if err == repo.ErrNotFound {
		return 0, nil
	}
	if err != nil {
		return 0, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	n, err := u.cartProductRepo.CountByCartID(ctx, cart.ID)
	if err != nil {
		return 0, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return n, nil
}

// 他人のカート明細は「存在しない扱い」にする
func (u *CartUsecase) checkItemOwner(ctx context.Context, cartProductID, userID int64) error {
	owned, err := u.cartProductRepo.IsOwnedByUser(ctx, cartProductID, userID)
	if err == repo.ErrNotFound {
		return NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if !owned {
		return NewHTTPError(http.StatusNotFound, "not found")
	}
	return nil
}
