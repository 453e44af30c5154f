package repository

import (
	"context"
	"errors"

	"easybuy/internal/domain/model"
	repo "easybuy/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CartGormRepository struct {
	db *gorm.DB
}

// DI
func NewCartGormRepository(db *gorm.DB) *CartGormRepository {
	return &CartGormRepository{db: db}
}

// ユーザーのカートを取得し、無ければ作成
func (r *CartGormRepository) GetOrCreateByUserID(ctx context.Context, userID int64) (model.Cart, error) {
	var cart model.Cart

	//トランザクションで探す→無ければ作る
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		findErr := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ?", userID).
			First(&cart).Error

		if findErr == nil {
			return nil
		}
		if !errors.Is(findErr, gorm.ErrRecordNotFound) {
			return findErr
		}

		// 無ければ作る
		newCart := model.Cart{UserID: userID}
		if err := tx.Create(&newCart).Error; err != nil {
			//同時作成でuniqueに弾かれたらもう一回探す
			retryErr := tx.Where("user_id = ?", userID).First(&cart).Error
			if retryErr == nil {
				return nil
			}
			return err
		}

		cart = newCart
		return nil
	})

	if err != nil {
		return model.Cart{}, err
	}
	return cart, nil
}

func (r *CartGormRepository) FindByUserID(ctx context.Context, userID int64) (model.Cart, error) {
	var cart model.Cart
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&cart).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Cart{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Cart{}, err
	}
	return cart, nil
}

// 指定カートの明細を全削除
func (r *CartGormRepository) Clear(ctx context.Context, cartID int64) error {
	return r.db.WithContext(ctx).
		Where("cart_id = ?", cartID).
		Delete(&model.CartProduct{}).Error
}

type CartProductGormRepository struct {
	db *gorm.DB
}

// DI
func NewCartProductGormRepository(db *gorm.DB) *CartProductGormRepository {
	return &CartProductGormRepository{db: db}
}

// カート明細を一覧取得
func (r *CartProductGormRepository) ListByCartID(ctx context.Context, cartID int64) ([]model.CartProduct, error) {
	var items []model.CartProduct
	if err := r.db.WithContext(ctx).
		Where("cart_id = ?", cartID).
		Order("id asc").
		Find(&items).Error; err != nil {
		return []model.CartProduct{}, err
	}
	return items, nil
}

// 同一商品は数量加算
func (r *CartProductGormRepository) UpsertByCartAndProduct(ctx context.Context, cartID int64, productID int64, addQty int64) error {
	if addQty <= 0 {
		return errors.New("invalid quantity")
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var item model.CartProduct

		err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("cart_id = ? AND product_id = ?", cartID, productID).
			First(&item).Error

		if err == nil {
			// 既存ありだったら数量を増やす
			res := tx.Model(&model.CartProduct{}).
				Where("id = ?", item.ID).
				Update("quantity", item.Quantity+addQty)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return repo.ErrNotFound
			}
			return nil
		}

		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		//無い場合は新規作成
		newItem := model.CartProduct{
			CartID:    cartID,
			ProductID: productID,
			Quantity:  addQty,
		}
		return tx.Create(&newItem).Error
	})
}

// 明細の数量を更新
func (r *CartProductGormRepository) UpdateQuantity(ctx context.Context, cartProductID int64, qty int64) error {
	res := r.db.WithContext(ctx).
		Model(&model.CartProduct{}).
		Where("id = ?", cartProductID).
		Update("quantity", qty)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// 明細を削除
func (r *CartProductGormRepository) DeleteByID(ctx context.Context, cartProductID int64) error {
	res := r.db.WithContext(ctx).Delete(&model.CartProduct{}, cartProductID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// 明細を取得
func (r *CartProductGormRepository) FindByID(ctx context.Context, cartProductID int64) (model.CartProduct, error) {
	var item model.CartProduct
	err := r.db.WithContext(ctx).Where("id = ?", cartProductID).First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.CartProduct{}, repo.ErrNotFound
	}
	if err != nil {
		return model.CartProduct{}, err
	}
	return item, nil
}

//明細がそのuserのカートに属しているかを判定

func (r *CartProductGormRepository) IsOwnedByUser(ctx context.Context, cartProductID int64, userID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("cart_products").
		Joins("join carts on carts.id = cart_products.cart_id").
		Where("cart_products.id = ? AND carts.user_id = ?", cartProductID, userID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// バッジ表示用の個数
func (r *CartProductGormRepository) CountByCartID(ctx context.Context, cartID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.CartProduct{}).
		Where("cart_id = ?", cartID).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}
