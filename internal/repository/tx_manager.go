package repository

import "context"

// トランザクション内で使う約束
type TxRepos interface {
	Orders() OrderRepository
	OrderProducts() OrderProductRepository
	OrderSchedules() OrderScheduleRepository
	OrderPayments() OrderPaymentRepository
	Carts() CartRepository
	CartProducts() CartProductRepository
	Products() ProductRepository
	Addresses() AddressRepository
	AuditLogs() AuditLogRepository
}

// UsecaseからTxの開始/commit/rollbackを隠す。
// fnがerrorを返したら全書き込みをロールバックする。
type TransactionManager interface {
	WithinTx(ctx context.Context, fn func(r TxRepos) error) error
}
