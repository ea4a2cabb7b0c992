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

package event

const (
	OrderPaidEventName       = "order_paid_events"
	RefundCompletedEventName = "refund_completed_events"
)

// OrderPaidEvent 支付确认成功后发出, 下游结算按卖家维度消费子订单
type OrderPaidEvent struct {
	OrderSN       string           `json:"orderSN"`
	BuyerID       int64            `json:"buyerID"`
	TransactionID string           `json:"transactionID"`
	TotalAmount   int64            `json:"totalAmount"`
	SubOrders     []SubOrderDetail `json:"subOrders"`
}

type SubOrderDetail struct {
	SN       string `json:"sn"`
	SellerID int64  `json:"sellerID"`
	Subtotal int64  `json:"subtotal"`
}

// RefundCompletedEvent 退款终态(同意或管理员强制)后发出
type RefundCompletedEvent struct {
	RefundID       int64  `json:"refundID"`
	OrderID        int64  `json:"orderID"`
	SubOrderSN     string `json:"subOrderSN"`
	SellerID       int64  `json:"sellerID"`
	BuyerID        int64  `json:"buyerID"`
	ApprovedAmount int64  `json:"approvedAmount"`
	Forced         bool   `json:"forced"`
}
