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

package web

import (
	"github.com/ecodeclub/ekit/slice"
	"github.com/ecodeclub/mall/internal/trade/internal/domain"
)

type CheckoutReq struct {
	PaymentMethod string `json:"paymentMethod"`
	TransactionID string `json:"transactionId"`
}

type CheckoutResp struct {
	OrderID int64  `json:"orderId"`
	OrderSN string `json:"orderSN"`
}

type OrderSNReq struct {
	OrderSN string `json:"orderSN"`
}

type ListOrdersReq struct {
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

type ListOrdersResp struct {
	Total  int64   `json:"total"`
	Orders []Order `json:"orders,omitempty"`
}

type SubOrderIDReq struct {
	SubOrderID int64 `json:"subOrderId"`
}

type RequestRefundReq struct {
	SubOrderID      int64  `json:"subOrderId"`
	Reason          string `json:"reason"`
	RequestedAmount int64  `json:"requestedAmount"`
}

type RequestRefundResp struct {
	RefundID int64 `json:"refundId"`
}

type ApproveRefundReq struct {
	RefundID       int64 `json:"refundId"`
	ApprovedAmount int64 `json:"approvedAmount,omitempty"`
}

type RejectRefundReq struct {
	RefundID int64  `json:"refundId"`
	Note     string `json:"note,omitempty"`
}

type ForceRefundReq struct {
	RefundID int64  `json:"refundId"`
	Reason   string `json:"reason,omitempty"`
}

type ReconcileReq struct {
	OrderID int64 `json:"orderId"`
}

type ReconcileResp struct {
	OK        bool   `json:"ok"`
	Processed bool   `json:"processed"`
	Reason    string `json:"reason,omitempty"`
}

type WebhookResp struct {
	OK bool `json:"ok"`
}

type Order struct {
	ID          int64      `json:"id"`
	SN          string     `json:"sn"`
	TotalAmount int64      `json:"totalAmount"`
	Status      uint8      `json:"status"`
	SubOrders   []SubOrder `json:"subOrders,omitempty"`
	Ctime       int64      `json:"ctime"`
}

type SubOrder struct {
	ID          int64          `json:"id"`
	SN          string         `json:"sn"`
	SellerID    int64          `json:"sellerId"`
	Subtotal    int64          `json:"subtotal"`
	Status      uint8          `json:"status"`
	DeliveredAt int64          `json:"deliveredAt,omitempty"`
	Items       []SubOrderItem `json:"items,omitempty"`
}

type SubOrderItem struct {
	ProductID         int64 `json:"productId"`
	UnitPriceSnapshot int64 `json:"unitPriceSnapshot"`
	Quantity          int64 `json:"quantity"`
}

func toOrderVO(o domain.Order) Order {
	return Order{
		ID:          o.ID,
		SN:          o.SN,
		TotalAmount: o.TotalAmount,
		Status:      o.Status.ToUint8(),
		Ctime:       o.Ctime,
		SubOrders: slice.Map(o.SubOrders, func(idx int, src domain.SubOrder) SubOrder {
			return SubOrder{
				ID:          src.ID,
				SN:          src.SN,
				SellerID:    src.SellerID,
				Subtotal:    src.Subtotal,
				Status:      src.Status.ToUint8(),
				DeliveredAt: src.DeliveredAt,
				Items: slice.Map(src.Items, func(idx int, item domain.SubOrderItem) SubOrderItem {
					return SubOrderItem{
						ProductID:         item.ProductID,
						UnitPriceSnapshot: item.UnitPriceSnapshot,
						Quantity:          item.Quantity,
					}
				}),
			}
		}),
	}
}
