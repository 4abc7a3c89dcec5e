package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"example.com/shop-core/internal/config"
	"example.com/shop-core/internal/infra/cache"
	"example.com/shop-core/internal/infra/persistence/mysql"
	"example.com/shop-core/internal/infra/security"
	apihttp "example.com/shop-core/internal/interface/http"
	authuc "example.com/shop-core/internal/usecase/auth"
	cartuc "example.com/shop-core/internal/usecase/cart"
	categoryuc "example.com/shop-core/internal/usecase/category"
	checkoutuc "example.com/shop-core/internal/usecase/checkout"
	orderuc "example.com/shop-core/internal/usecase/order"
	productuc "example.com/shop-core/internal/usecase/product"
	useruc "example.com/shop-core/internal/usecase/user"
	userroleuc "example.com/shop-core/internal/usecase/userrole"
)

func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		logger.Fatal().Err(err).Msg("load config")
	}

	db, err := sql.Open("mysql", cfg.MySQL.DSN)
	if err != nil {
		logger.Fatal().Err(err).Msg("open mysql")
	}
	defer db.Close()
	db.SetMaxOpenConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		logger.Fatal().Err(err).Msg("ping mysql")
	}

	// The reporting replica runs postgres; the API only probes it for /health.
	var pgPool *pgxpool.Pool
	if cfg.Postgres.DSN != "" {
		pgPool, err = pgxpool.New(context.Background(), cfg.Postgres.DSN)
		if err != nil {
			logger.Fatal().Err(err).Msg("open postgres pool")
		}
		defer pgPool.Close()
	}

	rdb := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr})
	defer rdb.Close()

	userRepo := mysql.NewUserRepository(db)
	roleRepo := mysql.NewUserRoleRepository(db)
	categoryRepo := mysql.NewCategoryRepository(db)
	productRepo := cache.NewProductCache(mysql.NewProductRepository(db), rdb, cfg.Redis.ProductTTL)
	cartRepo := mysql.NewCartRepository(db)
	orderRepo := mysql.NewOrderRepository(db)

	tokenSvc := security.NewJWTService(cfg.Auth.JWTSecret, cfg.Auth.Expiration)
	passwordSvc := security.NewBcryptService(cfg.Auth.BcryptCost)

	deps := apihttp.Dependencies{
		AuthService:     authuc.NewService(userRepo, passwordSvc, tokenSvc),
		UserService:     useruc.NewService(userRepo, passwordSvc),
		UserRoleService: userroleuc.NewService(roleRepo),
		CategoryService: categoryuc.NewService(categoryRepo),
		ProductService:  productuc.NewService(productRepo),
		CartService:     cartuc.NewService(cartRepo, productRepo),
		CheckoutService: checkoutuc.NewService(cartRepo, productRepo, orderRepo),
		OrderService:    orderuc.NewService(orderRepo),
		TokenService:    tokenSvc,
		Logger:          logger,
		HealthCheck: func(ctx context.Context) error {
			if err := db.PingContext(ctx); err != nil {
				return err
			}
			if pgPool != nil {
				return pgPool.Ping(ctx)
			}
			return nil
		},
	}

	srv := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           apihttp.NewAPI(deps).Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", srv.Addr).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("shutdown")
	}
	logger.Info().Msg("server stopped")
}
