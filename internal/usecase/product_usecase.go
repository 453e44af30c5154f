package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"easybuy/internal/codegen"
	"easybuy/internal/domain/model"
	repo "easybuy/internal/repository"
)

type HTTPError struct {
	Status  int
	Message string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

func NewHTTPError(status int, message string) error {
	return &HTTPError{
		Status:  status,
		Message: message,
	}
}

func AsHTTPError(err error) (*HTTPError, bool) {
	var he *HTTPError
	ok := errors.As(err, &he)
	return he, ok
}

type ProductUsecase struct {
	productRepo  repo.ProductRepository
	categoryRepo repo.CategoryRepository
}

// DI
func NewProductUsecase(productRepo repo.ProductRepository, categoryRepo repo.CategoryRepository) *ProductUsecase {
	return &ProductUsecase{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
	}
}

// GET /productsの入力DTO
type ListProductsInput struct {
	Page         int
	Limit        int
	Q            string
	CategorySlug string
}

type ProductListOutput struct {
	Items []model.Product `json:"items"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}

func (u *ProductUsecase) ListPublicProducts(ctx context.Context, in ListProductsInput) (ProductListOutput, error) {
	if in.Page < 1 {
		return ProductListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid page")
	}
	if in.Limit < 1 || in.Limit > 100 {
		return ProductListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid limit")
	}
	if len(in.Q) > 100 {
		return ProductListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid q")
	}

	items, total, err := u.productRepo.ListPublic(ctx, repo.ProductListQuery{
		Page:         in.Page,
		Limit:        in.Limit,
		Q:            in.Q,
		CategorySlug: in.CategorySlug,
	})
	if err != nil {
		return ProductListOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return ProductListOutput{
		Items: items,
		Total: total,
		Page:  in.Page,
		Limit: in.Limit,
	}, nil
}

func (u *ProductUsecase) GetProduct(ctx context.Context, id int64) (model.Product, error) {
	if id <= 0 {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	p, err := u.productRepo.FindByID(ctx, id)
	if err == repo.ErrNotFound {
		return model.Product{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return model.Product{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	//非公開商品は「存在しない扱い」にする
	if !p.IsActive {
		return model.Product{}, NewHTTPError(http.StatusNotFound, "not found")
	}

	return p, nil
}

func (u *ProductUsecase) ListCategories(ctx context.Context) ([]model.Category, error) {
	items, err := u.categoryRepo.List(ctx)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return items, nil
}

// 管理者用の入力DTO
type CreateProductInput struct {
	Name        string
	Description string
	Price       int64
	CategoryID  int64
	ImageURL    string
	IsActive    bool
}

func (u *ProductUsecase) CreateProduct(ctx context.Context, adminID int64, in CreateProductInput) (model.Product, error) {
	if adminID <= 0 {
		return model.Product{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if strings.TrimSpace(in.Name) == "" {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "invalid name")
	}
	if in.Price < 0 {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "invalid price")
	}
	if in.CategoryID <= 0 {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "invalid category_id")
	}

	//カテゴリの存在確認
	if _, err := u.categoryRepo.FindByID(ctx, in.CategoryID); err != nil {
		if err == repo.ErrNotFound {
			return model.Product{}, NewHTTPError(http.StatusBadRequest, "category not found")
		}
		return model.Product{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	p := model.Product{
		ProductCode: codegen.ProductCode(),
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		Price:       in.Price,
		CategoryID:  in.CategoryID,
		ImageURL:    in.ImageURL,
		IsActive:    in.IsActive,
	}

	created, err := u.productRepo.Create(ctx, p)
	if err != nil {
		//コード衝突ならもう1度だけ引き直す
		p.ProductCode = codegen.ProductCode()
		created, err = u.productRepo.Create(ctx, p)
		if err != nil {
			return model.Product{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}
	}

	return created, nil
}

type UpdateProductInput struct {
	Name        string
	Description string
	Price       int64
	CategoryID  int64
	ImageURL    string
	IsActive    bool
}

// UpdateProduct は商品情報を更新する。product_codeは変更しない。
func (u *ProductUsecase) UpdateProduct(ctx context.Context, adminID int64, productID int64, in UpdateProductInput) (model.Product, error) {
	if adminID <= 0 {
		return model.Product{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if productID <= 0 {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if strings.TrimSpace(in.Name) == "" {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "invalid name")
	}
	if in.Price < 0 {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "invalid price")
	}

	p, err := u.productRepo.FindByID(ctx, productID)
	if err == repo.ErrNotFound {
		return model.Product{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return model.Product{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if in.CategoryID > 0 && in.CategoryID != p.CategoryID {
		if _, err := u.categoryRepo.FindByID(ctx, in.CategoryID); err != nil {
			if err == repo.ErrNotFound {
				return model.Product{}, NewHTTPError(http.StatusBadRequest, "category not found")
			}
			return model.Product{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}
		p.CategoryID = in.CategoryID
	}

	p.Name = strings.TrimSpace(in.Name)
	p.Description = in.Description
	p.Price = in.Price
	p.ImageURL = in.ImageURL
	p.IsActive = in.IsActive

	if err := u.productRepo.Update(ctx, p); err != nil {
		return model.Product{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return p, nil
}

// DeleteProduct は商品を論理削除する。過去の注文明細からの参照は残る。
func (u *ProductUsecase) DeleteProduct(ctx context.Context, adminID int64, productID int64) error {
	if adminID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if productID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	if err := u.productRepo.SoftDelete(ctx, productID); err != nil {
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

func (u *ProductUsecase) ListAllProducts(ctx context.Context, adminID int64, page int, limit int) (ProductListOutput, error) {
	if adminID <= 0 {
		return ProductListOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if page < 1 {
		return ProductListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid page")
	}
	if limit < 1 || limit > 100 {
		return ProductListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid limit")
	}

	items, total, err := u.productRepo.ListAll(ctx, page, limit)
	if err != nil {
		return ProductListOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return ProductListOutput{Items: items, Total: total, Page: page, Limit: limit}, nil
}

type CreateCategoryInput struct {
	Name string
	Slug string
}

func (u *ProductUsecase) CreateCategory(ctx context.Context, adminID int64, in CreateCategoryInput) (model.Category, error) {
	if adminID <= 0 {
		return model.Category{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.Slug) == "" {
		return model.Category{}, NewHTTPError(http.StatusBadRequest, "invalid input")
	}

	exists, err := u.categoryRepo.ExistsBySlug(ctx, in.Slug)
	if err != nil {
		return model.Category{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if exists {
		return model.Category{}, NewHTTPError(http.StatusConflict, "slug already used")
	}

	created, err := u.categoryRepo.Create(ctx, model.Category{
		Name: strings.TrimSpace(in.Name),
		Slug: strings.TrimSpace(in.Slug),
	})
	if err != nil {
		return model.Category{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return created, nil
}

// slugの空き確認（true=使える）
func (u *ProductUsecase) CheckSlug(ctx context.Context, slug string) (bool, error) {
	if strings.TrimSpace(slug) == "" {
		return false, NewHTTPError(http.StatusBadRequest, "invalid slug")
	}

	exists, err := u.categoryRepo.ExistsBySlug(ctx, slug)
	if err != nil {
		return false, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return !exists, nil
}
