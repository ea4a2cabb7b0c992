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

type PaymentStatus uint8

func (s PaymentStatus) ToUint8() uint8 {
	return uint8(s)
}

const (
	PaymentStatusPending   PaymentStatus = 1
	PaymentStatusSucceeded PaymentStatus = 2
	PaymentStatusFailed    PaymentStatus = 3
	PaymentStatusCancelled PaymentStatus = 4
)

// Payment 支付记录, (orderID, transactionID)唯一
// transactionID 由调用方提供, 是支付处理幂等的业务键
type Payment struct {
	ID            int64
	OrderID       int64
	TransactionID string
	Method        string
	Status        PaymentStatus
	Ctime         int64
	Utime         int64
}

// WebhookEvent 入站支付通知的持久化幂等记录, (provider, eventID)唯一
// 与Payment自身的幂等键相互独立, 即便后续处理失败也能安全重放对账
type WebhookEvent struct {
	ID            int64
	Provider      string
	EventID       string
	OrderID       int64
	TransactionID string
	RawPayload    string
	ReceivedAt    int64
}

// InventoryLedgerEntry 库存台账, (productID, orderID, transactionID)唯一
// 该行是否存在即是"此笔交易是否已扣减过该商品库存"的唯一事实
type InventoryLedgerEntry struct {
	ID            int64
	ProductID     int64
	OrderID       int64
	TransactionID string
	Quantity      int64
	Ctime         int64
}
