// Copyright 2024 ecodeclub
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package dao

import (
	"errors"

	"github.com/ego-component/egorm"
	"github.com/go-sql-driver/mysql"
)

var (
	ErrOrderNotFound             = errors.New("订单未找到")
	ErrSubOrderNotFound          = errors.New("子订单未找到")
	ErrRefundNotFound            = errors.New("退款申请未找到")
	ErrWebhookEventNotFound      = errors.New("支付通知事件未找到")
	ErrInsufficientStock         = errors.New("库存不足")
	ErrDuplicateRefund           = errors.New("子订单存在未完结的退款申请")
	ErrRefundNotPending          = errors.New("退款申请已不在待处理状态")
	ErrRecordChangedConcurrently = errors.New("记录已被并发修改")
)

func InitTables(db *egorm.Component) error {
	return db.AutoMigrate(
		&Order{},
		&SubOrder{},
		&SubOrderItem{},
		&Payment{},
		&WebhookEvent{},
		&InventoryLedger{},
		&RefundRequest{},
	)
}

type Order struct {
	Id          int64  `gorm:"primaryKey;autoIncrement;comment:订单自增ID"`
	SN          string `gorm:"type:varchar(255);not null;uniqueIndex:uniq_order_sn;comment:订单序列号"`
	BuyerId     int64  `gorm:"not null;index:idx_buyer_id;comment:买家ID"`
	TotalAmount int64  `gorm:"not null;comment:订单总金额, 全部子订单小计之和, 单位为分"`
	Status      uint8  `gorm:"type:tinyint unsigned;not null;default:1;comment:订单状态 1=已创建 2=已支付 3=部分发货 4=已完成 5=已取消 6=已退款"`
	ClosedAt    int64  `gorm:"comment:订单关闭时间"`
	Ctime       int64
	Utime       int64
}

type SubOrder struct {
	Id       int64  `gorm:"primaryKey;autoIncrement;comment:子订单自增ID"`
	SN       string `gorm:"type:varchar(255);not null;uniqueIndex:uniq_sub_order_sn;comment:子订单序列号"`
	OrderId  int64  `gorm:"not null;uniqueIndex:uniq_order_seller;comment:订单自增ID"`
	SellerId int64  `gorm:"not null;uniqueIndex:uniq_order_seller;index:idx_seller_id;comment:卖家ID, 一个订单每个卖家至多一条子订单"`
	Subtotal int64  `gorm:"not null;comment:子订单小计, 单位为分"`
	Status   uint8  `gorm:"type:tinyint unsigned;not null;default:1;comment:子订单状态 1=待支付 2=已支付 3=已发货 4=已收货 5=已取消 6=退款申请中 7=已退款"`
	// 发起退款时快照的原状态, 0表示无快照, 拒绝退款时用于回滚
	RefundRequestedPrevStatus uint8 `gorm:"type:tinyint unsigned;not null;default:0;comment:退款申请前的状态快照"`
	DeliveredAt               int64 `gorm:"comment:确认收货时间, 退款时间窗校验用"`
	Ctime                     int64
	Utime                     int64
}

type SubOrderItem struct {
	Id                int64 `gorm:"primaryKey;autoIncrement;comment:子订单项自增ID"`
	SubOrderId        int64 `gorm:"not null;index:idx_sub_order_id;comment:子订单自增ID"`
	ProductId         int64 `gorm:"not null;index:idx_product_id;comment:商品自增ID"`
	UnitPriceSnapshot int64 `gorm:"not null;comment:下单时快照的单价, 单位为分, 之后不再读在售价"`
	Quantity          int64 `gorm:"not null;comment:购买数量"`
	Ctime             int64
	Utime             int64
}

type Payment struct {
	Id            int64  `gorm:"primaryKey;autoIncrement;comment:支付自增ID"`
	OrderId       int64  `gorm:"not null;uniqueIndex:uniq_order_txn;comment:订单自增ID"`
	TransactionId string `gorm:"type:varchar(128);not null;uniqueIndex:uniq_order_txn;comment:调用方提供的交易ID, 幂等键"`
	Method        string `gorm:"type:varchar(64);not null;comment:支付方式"`
	Status        uint8  `gorm:"type:tinyint unsigned;not null;default:1;comment:支付状态 1=待支付 2=成功 3=失败 4=已取消"`
	Ctime         int64
	Utime         int64
}

type WebhookEvent struct {
	Id            int64  `gorm:"primaryKey;autoIncrement;comment:支付通知事件自增ID"`
	Provider      string `gorm:"type:varchar(64);not null;uniqueIndex:uniq_provider_event;comment:支付提供方"`
	EventId       string `gorm:"type:varchar(128);not null;uniqueIndex:uniq_provider_event;comment:提供方事件ID, 入站幂等键"`
	OrderId       int64  `gorm:"not null;index:idx_order_id;comment:订单自增ID"`
	TransactionId string `gorm:"type:varchar(128);not null;comment:交易ID"`
	RawPayload    string `gorm:"type:text;comment:原始报文, 人工对账时重放用"`
	ReceivedAt    int64  `gorm:"not null;comment:收到时间"`
	Ctime         int64
	Utime         int64
}

// InventoryLedger 行存在与否即是"此笔交易是否已扣减过该商品库存"的唯一事实
// 创建采用乐观插入, 唯一键冲突一律当作"已扣减", 调用方跳过扣减而非重试
type InventoryLedger struct {
	Id            int64  `gorm:"primaryKey;autoIncrement;comment:库存台账自增ID"`
	ProductId     int64  `gorm:"not null;uniqueIndex:uniq_product_order_txn;comment:商品自增ID"`
	OrderId       int64  `gorm:"not null;uniqueIndex:uniq_product_order_txn;comment:订单自增ID"`
	TransactionId string `gorm:"type:varchar(128);not null;uniqueIndex:uniq_product_order_txn;comment:交易ID"`
	Quantity      int64  `gorm:"not null;comment:扣减数量"`
	Ctime         int64
}

type RefundRequest struct {
	Id                 int64  `gorm:"primaryKey;autoIncrement;comment:退款申请自增ID"`
	OrderId            int64  `gorm:"not null;index:idx_order_id;comment:订单自增ID"`
	SubOrderId         int64  `gorm:"not null;index:idx_sub_order_id;comment:子订单自增ID"`
	BuyerId            int64  `gorm:"not null;index:idx_buyer_id;comment:买家ID"`
	Reason             string `gorm:"type:varchar(512);not null;comment:退款原因"`
	RequestedAmount    int64  `gorm:"not null;comment:申请退款金额, 单位为分"`
	ApprovedAmount     int64  `gorm:"not null;default:0;comment:实际同意退款金额, 单位为分"`
	Status             uint8  `gorm:"type:tinyint unsigned;not null;default:1;comment:退款状态 1=待处理 2=已退款 3=已拒绝"`
	PrevSubOrderStatus uint8  `gorm:"type:tinyint unsigned;not null;default:0;comment:申请时子订单状态快照, 回滚优先取这份"`
	Ctime              int64
	Utime              int64
}

// Product 商品表归product模块管理, 这里只做只读映射加条件扣库存,
// 因此不进InitTables
type Product struct {
	Id     int64 `gorm:"primaryKey"`
	Price  int64
	Stock  int64
	Status uint8
}

// CartItem 购物车表归cart模块管理, 结算事务内清空购物车时映射使用
type CartItem struct {
	Id        int64 `gorm:"primaryKey"`
	BuyerId   int64
	ProductId int64
	Quantity  int64
}

func isDuplicateKeyError(err error) bool {
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		const uniqueIndexErrNo uint16 = 1062
		return me.Number == uniqueIndexErrNo
	}
	return false
}
