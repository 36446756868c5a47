package models

import (
	"time"

	"gorm.io/gorm"
)

// Product 商品表
type Product struct {
	ID            uint           `gorm:"primarykey" json:"id"`                                       // 主键
	VendorID      uint           `gorm:"not null;index" json:"vendor_id"`                            // 商家ID
	CategoryID    uint           `gorm:"not null;index" json:"category_id"`                          // 分类ID
	Slug          string         `gorm:"uniqueIndex;not null" json:"slug"`                           // 唯一标识
	Name          string         `gorm:"not null" json:"name"`                                       // 商品名称
	Unit          string         `gorm:"type:varchar(20)" json:"unit"`                               // 计量单位（kg/pack/piece）
	UnitPrice     Money          `gorm:"type:decimal(20,2);not null;default:0" json:"unit_price"`    // 原价
	DiscountPrice Money          `gorm:"type:decimal(20,2);not null;default:0" json:"discount_price"` // 折后价（0 表示无折扣）
	ImageRef      string         `gorm:"type:varchar(255)" json:"image_ref"`                         // 图片引用
	IsActive      bool           `gorm:"not null;index" json:"is_active"`                            // 是否上架（无列默认值，创建时必须显式赋值）
	SortOrder     int            `gorm:"default:0;index" json:"sort_order"`                          // 排序权重
	CreatedAt     time.Time      `gorm:"index" json:"created_at"`                                    // 创建时间
	UpdatedAt     time.Time      `json:"updated_at"`                                                 // 更新时间
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`                                             // 软删除时间

	// 关联
	Vendor   *Vendor   `gorm:"foreignKey:VendorID" json:"vendor,omitempty"`     // 商家信息
	Category *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"` // 分类信息
}

// TableName 指定表名
func (Product) TableName() string {
	return "products"
}

// EffectivePrice 生效单价：有折后价取折后价，否则取原价
func (p Product) EffectivePrice() Money {
	if p.DiscountPrice.IsPositive() {
		return p.DiscountPrice
	}
	return p.UnitPrice
}
