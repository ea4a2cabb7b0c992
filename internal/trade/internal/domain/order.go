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

package domain

type OrderStatus uint8

func (s OrderStatus) ToUint8() uint8 {
	return uint8(s)
}

const (
	OrderStatusCreated          OrderStatus = 1
	OrderStatusPaid             OrderStatus = 2
	OrderStatusPartiallyShipped OrderStatus = 3
	OrderStatusCompleted        OrderStatus = 4
	OrderStatusCancelled        OrderStatus = 5
	OrderStatusRefunded         OrderStatus = 6
)

// Order 主订单, totalAmount为所有子订单小计之和, 创建后不可变
// status 为派生字段, 除创建和取消外一律由子订单状态重新推导
type Order struct {
	ID          int64
	SN          string
	BuyerID     int64
	TotalAmount int64
	Status      OrderStatus
	SubOrders   []SubOrder
	ClosedAt    int64
	Ctime       int64
	Utime       int64
}

// SubOrder 卖家维度的子订单, 一个订单每个卖家至多一条
type SubOrder struct {
	ID       int64
	SN       string
	OrderID  int64
	SellerID int64
	Subtotal int64
	Status   SubOrderStatus
	// RefundRequestedPrevStatus 发起退款时快照的原状态, 拒绝退款时用于回滚
	RefundRequestedPrevStatus SubOrderStatus
	DeliveredAt               int64
	Items                     []SubOrderItem
	Ctime                     int64
	Utime                     int64
}

// SubOrderItem 子订单项, 单价在结算时快照, 之后不再读取在售价格
type SubOrderItem struct {
	ID                int64
	SubOrderID        int64
	ProductID         int64
	UnitPriceSnapshot int64
	Quantity          int64
}

// DeriveOrderStatus 根据子订单状态集合推导订单状态, 纯函数
// 必须与引起子订单变更的写操作在同一事务内重新计算并落库
func DeriveOrderStatus(statuses []SubOrderStatus) OrderStatus {
	if len(statuses) == 0 {
		return OrderStatusCreated
	}
	var (
		cancelled, refunded, delivered int
		shippedOrDelivered, paid       bool
	)
	for _, s := range statuses {
		switch s {
		case SubOrderStatusCancelled:
			cancelled++
		case SubOrderStatusRefunded:
			refunded++
		case SubOrderStatusDelivered:
			delivered++
			shippedOrDelivered = true
		case SubOrderStatusShipped:
			shippedOrDelivered = true
		case SubOrderStatusPaid:
			paid = true
		}
	}
	total := len(statuses)
	switch {
	case cancelled == total:
		return OrderStatusCancelled
	case refunded == total:
		return OrderStatusRefunded
	case delivered == total:
		return OrderStatusCompleted
	case shippedOrDelivered:
		return OrderStatusPartiallyShipped
	case paid:
		return OrderStatusPaid
	default:
		return OrderStatusCreated
	}
}
