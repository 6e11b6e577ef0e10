package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Govind-619/Storefront/cache"
	"github.com/Govind-619/Storefront/config"
	"github.com/Govind-619/Storefront/controllers"
	"github.com/Govind-619/Storefront/events"
	"github.com/Govind-619/Storefront/payment"
	"github.com/Govind-619/Storefront/repository"
	"github.com/Govind-619/Storefront/repository/memstore"
	"github.com/Govind-619/Storefront/routes"
	"github.com/Govind-619/Storefront/services"
	"github.com/Govind-619/Storefront/utils"
	"github.com/gin-gonic/gin"
)

const eventBuffer = 256

// stores groups the persistence ports the services need
type stores struct {
	products services.ProductStore
	carts    services.CartStore
	coupons  services.CouponStore
	orders   services.OrderStore
	seeder   productSeeder
}

func openStores(cfg *config.Config) (*stores, error) {
	if cfg.Store == "memory" {
		utils.LogInfo("Using in-memory store")
		mem := memstore.New()
		return &stores{products: mem, carts: mem, coupons: mem, orders: mem, seeder: mem}, nil
	}

	db, err := config.InitDB(cfg)
	if err != nil {
		return nil, err
	}
	repos := repository.New(db)
	return &stores{
		products: repos.Products,
		carts:    repos.Carts,
		coupons:  repos.Coupons,
		orders:   repos.Orders,
		seeder:   repos.Products,
	}, nil
}

func main() {
	// Initialize logger
	if err := utils.InitLogger(); err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}
	defer utils.SyncLoggers()

	// Load environment variables
	cfg, err := config.LoadConfig()
	if err != nil {
		utils.LogError("Error loading config: %v", err)
		log.Fatal("Error loading config:", err)
	}
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	st, err := openStores(cfg)
	if err != nil {
		utils.LogError("Failed to open store: %v", err)
		log.Fatal("Failed to open store:", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.SeedFile != "" {
		n, err := seedCatalog(ctx, st.seeder, cfg.SeedFile)
		if err != nil {
			utils.LogError("Failed to seed catalog: %v", err)
			log.Fatal("Failed to seed catalog:", err)
		}
		utils.LogInfo("Seeded %d products from %s", n, cfg.SeedFile)
	}

	evaluator := services.NewCouponEvaluator(st.coupons, st.orders)
	currency := services.WithCurrency(cfg.Currency)

	deps := services.CheckoutDeps{
		Carts:   st.carts,
		Orders:  st.orders,
		Coupons: evaluator,
	}

	if cfg.RedisAddr != "" {
		rdb := cache.NewClient(cfg.RedisAddr)
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			utils.LogError("Redis unavailable at %s: %v", cfg.RedisAddr, err)
		}
		deps.Idempotency = cache.NewIdempotencyStore(rdb)
		utils.LogInfo("Checkout idempotency backed by redis at %s", cfg.RedisAddr)
	}

	var producer *events.Producer
	if len(cfg.KafkaBrokers) > 0 {
		producer = events.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopic, eventBuffer)
		producer.OnError(func(err error) {
			utils.LogError("Order event delivery failed: %v", err)
		})
		producer.Start(ctx)
		deps.Events = events.NewOrderPublisher(producer)
		utils.LogInfo("Publishing order events to %s", cfg.KafkaTopic)
	}

	if cfg.RazorpayKey != "" && cfg.RazorpaySecret != "" {
		deps.Payments = payment.NewRazorpayGateway(cfg.RazorpayKey, cfg.RazorpaySecret)
		utils.LogInfo("Online payments enabled")
	}

	mailCfg := utils.EmailConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		From:     cfg.SMTPFrom,
	}
	if mailCfg.Enabled() {
		deps.Notifier = utils.NewMailer(mailCfg)
	}

	h := &controllers.Handler{
		CartEngine:     services.NewCartEngine(st.carts, st.products, evaluator, currency),
		CheckoutEngine: services.NewCheckoutEngine(deps, currency),
		OrderService:   services.NewOrderService(st.orders),
		CouponAdmin:    services.NewCouponAdmin(st.coupons),
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: routes.SetupRouter(h, cfg),
	}

	go func() {
		utils.LogInfo("Server starting on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			utils.LogError("Error starting server: %v", err)
			log.Fatal("Error starting server:", err)
		}
	}()

	<-ctx.Done()
	utils.LogInfo("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		utils.LogError("Server shutdown failed: %v", err)
	}
	if producer != nil {
		producer.WaitClosed()
	}
}
