package main

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"easybuy/internal/config"
	"easybuy/internal/domain/model"
	"easybuy/internal/handler"
	"easybuy/internal/infra/db"
	infraRepo "easybuy/internal/infra/repository"
	"easybuy/internal/infra/storage"
	"easybuy/internal/server"
	"easybuy/internal/usecase"
	auth "easybuy/internal/usecase/auth_usecase"
)

type realClock struct{}

func (c *realClock) Now() time.Time {
	return time.Now()
}

type jwtIssuer struct {
	secret    []byte
	accessTTL time.Duration
}

func newJWTIssuer(secret string) *jwtIssuer {
	//アクセストークン
	return &jwtIssuer{
		secret:    []byte(secret),
		accessTTL: 15 * time.Minute,
	}
}

func (i *jwtIssuer) Issue(userID int64, role model.Role, now time.Time) (string, time.Time, error) {
	expiresAt := now.Add(i.accessTTL)

	claims := jwt.MapClaims{
		"sub":  userID,
		"role": string(role),
		"iat":  now.Unix(),
		"exp":  expiresAt.Unix(),
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, err
	}

	return signed, expiresAt, nil
}

func main() {
	//.envは無くても動く（コンテナでは実環境変数を使う）
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	//zapをグローバルへ
	var logger *zap.Logger
	if cfg.GoEnv == "production" {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		panic(err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	//DB接続
	gormDB, err := db.Connect(cfg)
	if err != nil {
		zap.L().Fatal("db connect failed", zap.Error(err))
	}

	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Address{},
		&model.Category{},
		&model.Product{},
		&model.Cart{},
		&model.CartProduct{},
		&model.Order{},
		&model.OrderProduct{},
		&model.OrderSchedule{},
		&model.OrderPayment{},
		&model.AuditLog{},
	); err != nil {
		zap.L().Fatal("auto migrate failed", zap.Error(err))
	}

	//Repository（GORM実装）生成
	userRepo := infraRepo.NewUserGormRepository(gormDB)
	addressRepo := infraRepo.NewAddressGormRepository(gormDB)
	productRepo := infraRepo.NewProductGormRepository(gormDB)
	categoryRepo := infraRepo.NewCategoryGormRepository(gormDB)
	cartRepo := infraRepo.NewCartGormRepository(gormDB)
	cartProductRepo := infraRepo.NewCartProductGormRepository(gormDB)
	txManager := infraRepo.NewTxManagerGorm(gormDB)

	//証憑画像の保存先
	evidenceStore := storage.NewDiskEvidenceStore(cfg.EvidenceDir)

	//usecaseに渡す部品
	clock := &realClock{}
	hasher := auth.NewBcryptPasswordHasher(12)
	verifier := auth.NewBcryptPasswordVerifier()
	issuer := newJWTIssuer(cfg.JWTSecret)

	//Usecase生成
	registerUC := auth.NewRegisterUserUsecase(userRepo, hasher, clock)
	loginUC := auth.NewLoginUsecase(userRepo, verifier, issuer, clock)
	userUC := usecase.NewUserUsecase(userRepo)
	productUC := usecase.NewProductUsecase(productRepo, categoryRepo)
	cartUC := usecase.NewCartUsecase(cartRepo, cartProductRepo, productRepo)
	addressUC := usecase.NewAddressUsecase(addressRepo)
	orderUC := usecase.NewOrderUsecase(txManager)
	adminOrderUC := usecase.NewAdminOrderUsecase(txManager)
	paymentUC := usecase.NewPaymentUsecase(txManager, evidenceStore, usecase.BankInfo{
		BankCode:        cfg.BankCode,
		BankAccount:     cfg.BankAccount,
		BankAccountName: cfg.BankAccountName,
	})
	adminPaymentUC := usecase.NewAdminPaymentUsecase(txManager)

	//Handler生成
	handlers := server.Handlers{
		Auth:         handler.NewAuthHandler(registerUC, loginUC),
		User:         handler.NewUserHandler(userUC),
		Product:      handler.NewProductHandler(productUC),
		Cart:         handler.NewCartHandler(cartUC),
		Address:      handler.NewAddressHandler(addressUC),
		Order:        handler.NewOrderHandler(orderUC),
		Payment:      handler.NewPaymentHandler(paymentUC),
		AdminProduct: handler.NewAdminProductHandler(productUC),
		AdminOrder:   handler.NewAdminOrderHandler(adminOrderUC),
		AdminPayment: handler.NewAdminPaymentHandler(adminPaymentUC),
		AdminUser:    handler.NewAdminUserHandler(userUC),
	}

	//Server起動
	e := server.New()
	server.RegisterRoutes(e, cfg, handlers)

	addr := ":" + cfg.Port
	zap.L().Info("server starting", zap.String("addr", addr))
	if err := server.Start(e, addr); err != nil {
		zap.L().Fatal("server stopped", zap.Error(err))
	}
}
