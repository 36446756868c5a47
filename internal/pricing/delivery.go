package pricing

import (
	"math"

	"github.com/kirana-next/internal/models"

	"github.com/shopspring/decimal"
)

// VendorRate 商家配送费配置（计价视图）
type VendorRate struct {
	VendorID              uint
	BaseFee               models.Money
	PerKmRate             models.Money // 0 表示不按距离计费
	FreeDeliveryThreshold models.Money // 单店免配送费门槛，0 表示不启用
	Subtotal              models.Money // 该商家在购物车中的商品小计
	Latitude              float64
	Longitude             float64
}

// freeByThreshold 单店满额免配送费是否生效
func (r VendorRate) freeByThreshold() bool {
	return r.FreeDeliveryThreshold.IsPositive() &&
		r.Subtotal.GreaterThanOrEqual(r.FreeDeliveryThreshold.Decimal)
}

// DeliveryAddress 收货坐标
type DeliveryAddress struct {
	Latitude  float64
	Longitude float64
}

// HasCoordinates 坐标是否有效（0,0 视为缺失）
func (a DeliveryAddress) HasCoordinates() bool {
	return a.Latitude != 0 || a.Longitude != 0
}

// FeeStrategy 单商家配送费策略，地址可能为 nil（未选择地址）
type FeeStrategy func(rate VendorRate, addr *DeliveryAddress) models.Money

// BaseFeeStrategy 固定费率策略：始终返回商家基础配送费
func BaseFeeStrategy(rate VendorRate, _ *DeliveryAddress) models.Money {
	return rate.BaseFee
}

// DistanceFeeStrategy 距离费率策略：基础费 + 每公里费 × 球面距离。
// 地址或商家坐标缺失、未配置每公里费时退化为基础费。
func DistanceFeeStrategy(rate VendorRate, addr *DeliveryAddress) models.Money {
	if addr == nil || !addr.HasCoordinates() || !rate.PerKmRate.IsPositive() {
		return rate.BaseFee
	}
	if rate.Latitude == 0 && rate.Longitude == 0 {
		return rate.BaseFee
	}
	km := haversineKm(rate.Latitude, rate.Longitude, addr.Latitude, addr.Longitude)
	extra := rate.PerKmRate.Decimal.Mul(decimal.NewFromFloat(km))
	return models.NewMoneyFromDecimal(rate.BaseFee.Decimal.Add(extra))
}

func haversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	const earthRadiusKm = 6371.0
	rad := func(deg float64) float64 { return deg * math.Pi / 180 }
	dLat := rad(lat2 - lat1)
	dLon := rad(lon2 - lon1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(rad(lat1))*math.Cos(rad(lat2))*math.Sin(dLon/2)*math.Sin(dLon/2)
	return earthRadiusKm * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

// DeliveryInput 配送费聚合输入
type DeliveryInput struct {
	Subtotal            models.Money
	Address             *DeliveryAddress // nil 表示未选择地址
	Vendors             []VendorRate
	HasFreeDelivery     bool         // 免运费优惠已生效
	FreeDeliveryMinimum models.Money // 满额免运费门槛，0 表示不启用
}

// VendorDeliveryFee 单商家配送费结果
type VendorDeliveryFee struct {
	VendorID    uint         `json:"vendor_id"`
	Fee         models.Money `json:"fee"`
	OriginalFee models.Money `json:"original_fee"`
	IsFree      bool         `json:"is_free"`
}

// DeliveryQuote 配送费聚合结果
type DeliveryQuote struct {
	VendorDeliveryFees  []VendorDeliveryFee `json:"vendor_delivery_fees"`
	TotalDeliveryFee    models.Money        `json:"total_delivery_fee"`
	OriginalDeliveryFee models.Money        `json:"original_delivery_fee"`
	VendorCount         int                 `json:"vendor_count"`
	IsFreeDelivery      bool                `json:"is_free_delivery"`
	IsCalculating       bool                `json:"is_calculating"`
}

// CalculateDelivery 按商家聚合配送费。规则按顺序生效：
//  1. 免运费（优惠券或满额）：各商家费用归零，原价保留
//  2. 无商家：全零结果
//  3. 地址缺失：返回计算中状态，费用不可信，下单必须被挡
// 单店满额门槛只归零该商家自己的费用，原价同样保留。
// strategy 为 nil 时使用 BaseFeeStrategy。
func CalculateDelivery(in DeliveryInput, strategy FeeStrategy) DeliveryQuote {
	if strategy == nil {
		strategy = BaseFeeStrategy
	}
	if len(in.Vendors) == 0 {
		return DeliveryQuote{VendorDeliveryFees: []VendorDeliveryFee{}}
	}

	free := in.HasFreeDelivery ||
		(in.FreeDeliveryMinimum.IsPositive() && in.Subtotal.GreaterThanOrEqual(in.FreeDeliveryMinimum.Decimal))

	if !free && in.Address == nil {
		return DeliveryQuote{
			VendorDeliveryFees: []VendorDeliveryFee{},
			VendorCount:        len(in.Vendors),
			IsCalculating:      true,
		}
	}

	fees := make([]VendorDeliveryFee, 0, len(in.Vendors))
	total := decimal.Zero
	original := decimal.Zero
	for _, rate := range in.Vendors {
		fee := strategy(rate, in.Address)
		entry := VendorDeliveryFee{
			VendorID:    rate.VendorID,
			Fee:         fee,
			OriginalFee: fee,
			IsFree:      free || rate.freeByThreshold(),
		}
		if entry.IsFree {
			entry.Fee = models.Money{}
		}
		fees = append(fees, entry)
		total = total.Add(entry.Fee.Decimal)
		original = original.Add(entry.OriginalFee.Decimal)
	}
	return DeliveryQuote{
		VendorDeliveryFees:  fees,
		TotalDeliveryFee:    models.NewMoneyFromDecimal(total),
		OriginalDeliveryFee: models.NewMoneyFromDecimal(original),
		VendorCount:         len(fees),
		IsFreeDelivery:      free,
	}
}
