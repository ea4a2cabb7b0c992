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

type RefundStatus uint8

func (s RefundStatus) ToUint8() uint8 {
	return uint8(s)
}

const (
	RefundStatusRequested RefundStatus = 1
	RefundStatusRefunded  RefundStatus = 2
	RefundStatusRejected  RefundStatus = 3
)

// RefundRequest 退款申请, 一个子订单同一时刻至多一条处于requested/refunded的申请
// PrevSubOrderStatus 与子订单上的快照互为冗余, 回滚时优先取这里的副本
type RefundRequest struct {
	ID                 int64
	OrderID            int64
	SubOrderID         int64
	BuyerID            int64
	Reason             string
	RequestedAmount    int64
	ApprovedAmount     int64
	Status             RefundStatus
	PrevSubOrderStatus SubOrderStatus
	Ctime              int64
	Utime              int64
}
