package repository

import (
	"context"

	repo "easybuy/internal/repository"

	"gorm.io/gorm"
)

type txReposGorm struct {
	orders         repo.OrderRepository
	orderProducts  repo.OrderProductRepository
	orderSchedules repo.OrderScheduleRepository
	orderPayments  repo.OrderPaymentRepository
	carts          repo.CartRepository
	cartProducts   repo.CartProductRepository
	products       repo.ProductRepository
	addresses      repo.AddressRepository
	auditLogs      repo.AuditLogRepository
}

func (r *txReposGorm) Orders() repo.OrderRepository                 { return r.orders }
func (r *txReposGorm) OrderProducts() repo.OrderProductRepository   { return r.orderProducts }
func (r *txReposGorm) OrderSchedules() repo.OrderScheduleRepository { return r.orderSchedules }
func (r *txReposGorm) OrderPayments() repo.OrderPaymentRepository   { return r.orderPayments }
func (r *txReposGorm) Carts() repo.CartRepository                   { return r.carts }
func (r *txReposGorm) CartProducts() repo.CartProductRepository     { return r.cartProducts }
func (r *txReposGorm) Products() repo.ProductRepository             { return r.products }
func (r *txReposGorm) Addresses() repo.AddressRepository            { return r.addresses }
func (r *txReposGorm) AuditLogs() repo.AuditLogRepository           { return r.auditLogs }

type TxManagerGorm struct {
	db *gorm.DB
}

func NewTxManagerGorm(db *gorm.DB) *TxManagerGorm {
	return &TxManagerGorm{db: db}
}

func (tm *TxManagerGorm) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	return tm.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		//repoはtxを持ったDBで作り直す
		r := &txReposGorm{
			orders:         NewOrderGormRepository(tx),
			orderProducts:  NewOrderProductGormRepository(tx),
			orderSchedules: NewOrderScheduleGormRepository(tx),
			orderPayments:  NewOrderPaymentGormRepository(tx),
			carts:          NewCartGormRepository(tx),
			cartProducts:   NewCartProductGormRepository(tx),
			products:       NewProductGormRepository(tx),
			addresses:      NewAddressGormRepository(tx),
			auditLogs:      NewAuditLogGormRepository(tx),
		}
		return fn(r)
	})
}
