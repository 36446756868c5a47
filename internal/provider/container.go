package provider

import (
	"time"

	"github.com/kirana-next/internal/cache"
	"github.com/kirana-next/internal/config"
	"github.com/kirana-next/internal/logger"
	"github.com/kirana-next/internal/models"
	"github.com/kirana-next/internal/queue"
	"github.com/kirana-next/internal/repository"
	"github.com/kirana-next/internal/service"
)

// Container 依赖注入容器
type Container struct {
	Config       *config.Config
	QueueClient  *queue.Client
	SessionStore *cache.DiscountSessionStore

	// Repositories
	UserRepo        repository.UserRepository
	VendorRepo      repository.VendorRepository
	CategoryRepo    repository.CategoryRepository
	ProductRepo     repository.ProductRepository
	AddressRepo     repository.AddressRepository
	CartRepo        repository.CartRepository
	CouponRepo      repository.CouponRepository
	CouponUsageRepo repository.CouponUsageRepository
	OrderRepo       repository.OrderRepository

	// Services
	UserAuthService *service.UserAuthService
	CatalogService  *service.CatalogService
	AddressService  *service.AddressService
	CartService     *service.CartService
	CouponService   *service.CouponService
	QuoteService    *service.QuoteService
	OrderService    *service.OrderService
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	// 初始化缓存
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	// 初始化队列客户端
	queueClient, err := queue.NewClient(&cfg.Queue)
	if err != nil {
		logger.Errorw("provider_init_queue_client_failed", "error", err)
		queueClient, _ = queue.NewClient(nil)
	}

	c := &Container{
		Config:       cfg,
		QueueClient:  queueClient,
		SessionStore: cache.NewDiscountSessionStore(),
	}

	c.initRepositories()
	c.initServices()

	return c
}

func (c *Container) initRepositories() {
	db := models.DB
	c.UserRepo = repository.NewUserRepository(db)
	c.VendorRepo = repository.NewVendorRepository(db)
	c.CategoryRepo = repository.NewCategoryRepository(db)
	c.ProductRepo = repository.NewProductRepository(db)
	c.AddressRepo = repository.NewAddressRepository(db)
	c.CartRepo = repository.NewCartRepository(db)
	c.CouponRepo = repository.NewCouponRepository(db)
	c.CouponUsageRepo = repository.NewCouponUsageRepository(db)
	c.OrderRepo = repository.NewOrderRepository(db)
}

func (c *Container) initServices() {
	cfg := c.Config
	couponCacheTTL := time.Duration(cfg.Pricing.CouponCacheSeconds) * time.Second
	freeDeliveryMin := models.NewMoneyFromFloat(cfg.Pricing.FreeDeliveryMinimum)

	c.UserAuthService = service.NewUserAuthService(cfg, c.UserRepo)
	c.CatalogService = service.NewCatalogService(c.VendorRepo, c.CategoryRepo, c.ProductRepo)
	c.AddressService = service.NewAddressService(c.AddressRepo)
	c.CartService = service.NewCartService(c.CartRepo, c.ProductRepo)
	c.CouponService = service.NewCouponService(c.CouponRepo, c.CartService, c.SessionStore, couponCacheTTL)
	c.QuoteService = service.NewQuoteService(
		c.CartService,
		c.CouponService,
		c.VendorRepo,
		c.AddressRepo,
		cfg.Pricing.Currency,
		freeDeliveryMin,
	)
	c.OrderService = service.NewOrderService(
		c.OrderRepo,
		c.CouponRepo,
		c.CouponUsageRepo,
		c.CartService,
		c.CouponService,
		c.QuoteService,
		c.QueueClient,
		cfg.Order.PaymentExpireMinutes,
	)
}
