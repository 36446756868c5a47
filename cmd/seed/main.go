package main

import (
	"time"

	"github.com/kirana-next/internal/config"
	"github.com/kirana-next/internal/constants"
	"github.com/kirana-next/internal/logger"
	"github.com/kirana-next/internal/models"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

func money(s string) models.Money {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return models.Money{Decimal: d}
}

func main() {
	// 连接数据库
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	// 自动迁移
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	// 商家
	vendors := []models.Vendor{
		{
			Name:            "Sharma Fresh Mart",
			Slug:            "sharma-fresh-mart",
			BaseDeliveryFee: money("25.00"),
			PerKmRate:       money("5.00"),
			Latitude:        12.9716,
			Longitude:       77.5946,
			IsActive:        true,
			SortOrder:       100,
		},
		{
			Name:            "Green Basket Organics",
			Slug:            "green-basket-organics",
			BaseDeliveryFee: money("35.00"),
			Latitude:        12.9352,
			Longitude:       77.6245,
			IsActive:        true,
			SortOrder:       90,
		},
		{
			Name:                  "Daily Dairy Corner",
			Slug:                  "daily-dairy-corner",
			BaseDeliveryFee:       money("20.00"),
			FreeDeliveryThreshold: money("299.00"),
			Latitude:              12.9279,
			Longitude:             77.6271,
			IsActive:              true,
			SortOrder:             80,
		},
	}
	vendorIDs := map[string]uint{}
	for _, v := range vendors {
		var existing models.Vendor
		if err := models.DB.Where("slug = ?", v.Slug).First(&existing).Error; err != nil {
			if err := models.DB.Create(&v).Error; err != nil {
				stdLog.Printf("Failed to create vendor %s: %v", v.Slug, err)
				continue
			}
			stdLog.Printf("Created vendor: %s", v.Slug)
			vendorIDs[v.Slug] = v.ID
		} else {
			stdLog.Printf("Vendor already exists: %s", v.Slug)
			vendorIDs[v.Slug] = existing.ID
		}
	}

	// 分类
	categories := []models.Category{
		{Slug: "fruits-vegetables", Name: "Fruits & Vegetables", SortOrder: 100},
		{Slug: "dairy-eggs", Name: "Dairy & Eggs", SortOrder: 90},
		{Slug: "staples", Name: "Atta, Rice & Staples", SortOrder: 80},
		{Slug: "snacks", Name: "Snacks & Beverages", SortOrder: 70},
	}
	categoryIDs := map[string]uint{}
	for _, cat := range categories {
		var existing models.Category
		if err := models.DB.Where("slug = ?", cat.Slug).First(&existing).Error; err != nil {
			if err := models.DB.Create(&cat).Error; err != nil {
				stdLog.Printf("Failed to create category %s: %v", cat.Slug, err)
				continue
			}
			stdLog.Printf("Created category: %s", cat.Slug)
			categoryIDs[cat.Slug] = cat.ID
		} else {
			stdLog.Printf("Category already exists: %s", cat.Slug)
			categoryIDs[cat.Slug] = existing.ID
		}
	}

	// 商品
	products := []models.Product{
		{
			VendorID:   vendorIDs["sharma-fresh-mart"],
			CategoryID: categoryIDs["fruits-vegetables"],
			Slug:       "banana-robusta-1kg",
			Name:       "Banana Robusta",
			Unit:       "kg",
			UnitPrice:  money("55.00"),
			SortOrder:  100,
			IsActive:   true,
		},
		{
			VendorID:      vendorIDs["sharma-fresh-mart"],
			CategoryID:    categoryIDs["fruits-vegetables"],
			Slug:          "tomato-hybrid-1kg",
			Name:          "Tomato Hybrid",
			Unit:          "kg",
			UnitPrice:     money("48.00"),
			DiscountPrice: money("39.00"),
			SortOrder:     90,
			IsActive:      true,
		},
		{
			VendorID:   vendorIDs["sharma-fresh-mart"],
			CategoryID: categoryIDs["staples"],
			Slug:       "basmati-rice-5kg",
			Name:       "Basmati Rice Premium",
			Unit:       "pack",
			UnitPrice:  money("640.00"),
			SortOrder:  80,
			IsActive:   true,
		},
		{
			VendorID:      vendorIDs["green-basket-organics"],
			CategoryID:    categoryIDs["fruits-vegetables"],
			Slug:          "organic-spinach-250g",
			Name:          "Organic Spinach",
			Unit:          "pack",
			UnitPrice:     money("45.00"),
			DiscountPrice: money("38.00"),
			SortOrder:     100,
			IsActive:      true,
		},
		{
			VendorID:   vendorIDs["green-basket-organics"],
			CategoryID: categoryIDs["snacks"],
			Slug:       "cold-pressed-juice-1l",
			Name:       "Cold Pressed Orange Juice",
			Unit:       "piece",
			UnitPrice:  money("180.00"),
			SortOrder:  90,
			IsActive:   true,
		},
		{
			VendorID:   vendorIDs["daily-dairy-corner"],
			CategoryID: categoryIDs["dairy-eggs"],
			Slug:       "toned-milk-500ml",
			Name:       "Toned Milk",
			Unit:       "piece",
			UnitPrice:  money("27.00"),
			SortOrder:  100,
			IsActive:   true,
		},
		{
			VendorID:   vendorIDs["daily-dairy-corner"],
			CategoryID: categoryIDs["dairy-eggs"],
			Slug:       "farm-eggs-12",
			Name:       "Farm Eggs (12 pcs)",
			Unit:       "pack",
			UnitPrice:  money("96.00"),
			SortOrder:  90,
			IsActive:   true,
		},
	}
	for _, p := range products {
		if p.VendorID == 0 || p.CategoryID == 0 {
			stdLog.Printf("Skip product %s: missing vendor or category", p.Slug)
			continue
		}
		var existing models.Product
		if err := models.DB.Where("slug = ?", p.Slug).First(&existing).Error; err != nil {
			if err := models.DB.Create(&p).Error; err != nil {
				stdLog.Printf("Failed to create product %s: %v", p.Slug, err)
			} else {
				stdLog.Printf("Created product: %s", p.Slug)
			}
		} else {
			stdLog.Printf("Product already exists: %s", p.Slug)
		}
	}

	// 优惠券
	now := time.Now()
	coupons := []models.Coupon{
		{
			Code:              "WELCOME20",
			Title:             "20% off your first basket",
			DiscountType:      constants.CouponTypePercentage,
			DiscountValue:     money("20.00"),
			MinOrderAmount:    money("299.00"),
			MaxDiscountAmount: money("150.00"),
			ApplicableTo:      constants.CouponScopeAll,
			UsageLimit:        1000,
			StartDate:         now.AddDate(0, 0, -1),
			EndDate:           now.AddDate(0, 3, 0),
			IsActive:          true,
		},
		{
			Code:           "FLAT100",
			Title:          "Flat ₹100 off",
			DiscountType:   constants.CouponTypeFlat,
			DiscountValue:  money("100.00"),
			MinOrderAmount: money("599.00"),
			ApplicableTo:   constants.CouponScopeAll,
			StartDate:      now.AddDate(0, 0, -1),
			EndDate:        now.AddDate(0, 1, 0),
			IsActive:       true,
		},
		{
			Code:                 "FREESHIP",
			Title:                "Free delivery on orders above ₹399",
			DiscountType:         constants.CouponTypeFreeShipping,
			MinOrderAmount:       money("399.00"),
			ApplicableTo:         constants.CouponScopeAll,
			IncludesFreeDelivery: true,
			StartDate:            now.AddDate(0, 0, -1),
			EndDate:              now.AddDate(0, 2, 0),
			IsActive:             true,
		},
		{
			Code:           "DAIRY50",
			Title:          "₹50 off dairy essentials",
			DiscountType:   constants.CouponTypeFlat,
			DiscountValue:  money("50.00"),
			MinOrderAmount: money("199.00"),
			ApplicableTo:   constants.CouponScopeCategory,
			ApplicableID:   categoryIDs["dairy-eggs"],
			StartDate:      now.AddDate(0, 0, -1),
			EndDate:        now.AddDate(0, 1, 0),
			IsActive:       true,
		},
	}
	for _, coupon := range coupons {
		var existing models.Coupon
		if err := models.DB.Where("code = ?", coupon.Code).First(&existing).Error; err != nil {
			if err := models.DB.Create(&coupon).Error; err != nil {
				stdLog.Printf("Failed to create coupon %s: %v", coupon.Code, err)
			} else {
				stdLog.Printf("Created coupon: %s", coupon.Code)
			}
		} else {
			stdLog.Printf("Coupon already exists: %s", coupon.Code)
		}
	}

	// 演示账号
	var demoUser models.User
	if err := models.DB.Where("email = ?", "demo@kirana.local").First(&demoUser).Error; err != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte("demo-password"), bcrypt.DefaultCost)
		if err != nil {
			stdLog.Fatalf("Failed to hash demo password: %v", err)
		}
		demoUser = models.User{
			Email:        "demo@kirana.local",
			Name:         "Demo Customer",
			PasswordHash: string(hash),
			Role:         constants.RoleCustomer,
			Status:       constants.UserStatusActive,
		}
		if err := models.DB.Create(&demoUser).Error; err != nil {
			stdLog.Printf("Failed to create demo user: %v", err)
		} else {
			stdLog.Printf("Created demo user: %s", demoUser.Email)
		}
	} else {
		stdLog.Printf("Demo user already exists: %s", demoUser.Email)
	}

	if demoUser.ID != 0 {
		var existing models.Address
		if err := models.DB.Where("user_id = ?", demoUser.ID).First(&existing).Error; err != nil {
			addr := models.Address{
				UserID:    demoUser.ID,
				Label:     "home",
				Line1:     "42 MG Road, Indiranagar",
				City:      "Bengaluru",
				Pincode:   "560038",
				Latitude:  12.9719,
				Longitude: 77.6412,
				IsDefault: true,
			}
			if err := models.DB.Create(&addr).Error; err != nil {
				stdLog.Printf("Failed to create demo address: %v", err)
			} else {
				stdLog.Printf("Created demo address for %s", demoUser.Email)
			}
		}
	}

	stdLog.Printf("Seed completed")
}
