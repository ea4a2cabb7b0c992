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

import (
	"errors"
	"fmt"
)

type SubOrderStatus uint8

func (s SubOrderStatus) ToUint8() uint8 {
	return uint8(s)
}

const (
	SubOrderStatusPendingPayment  SubOrderStatus = 1
	SubOrderStatusPaid            SubOrderStatus = 2
	SubOrderStatusShipped         SubOrderStatus = 3
	SubOrderStatusDelivered       SubOrderStatus = 4
	SubOrderStatusCancelled       SubOrderStatus = 5
	SubOrderStatusRefundRequested SubOrderStatus = 6
	SubOrderStatusRefunded        SubOrderStatus = 7
)

func (s SubOrderStatus) String() string {
	switch s {
	case SubOrderStatusPendingPayment:
		return "pending_payment"
	case SubOrderStatusPaid:
		return "paid"
	case SubOrderStatusShipped:
		return "shipped"
	case SubOrderStatusDelivered:
		return "delivered"
	case SubOrderStatusCancelled:
		return "cancelled"
	case SubOrderStatusRefundRequested:
		return "refund_requested"
	case SubOrderStatusRefunded:
		return "refunded"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(s))
	}
}

var ErrInvalidStatusTransition = errors.New("非法的子订单状态流转")

// subOrderTransitions 子订单状态机的唯一权威表
// 取消、支付、发货、收货、退款全部经由 CheckTransition 校验, 任何组件不得绕过直接改状态
// refund_requested 回到 paid/shipped/delivered 表示退款被拒绝后恢复原状态
var subOrderTransitions = map[SubOrderStatus][]SubOrderStatus{
	SubOrderStatusPendingPayment:  {SubOrderStatusPaid, SubOrderStatusCancelled},
	SubOrderStatusPaid:            {SubOrderStatusShipped, SubOrderStatusRefundRequested},
	SubOrderStatusShipped:         {SubOrderStatusDelivered, SubOrderStatusRefundRequested},
	SubOrderStatusDelivered:       {SubOrderStatusRefundRequested},
	SubOrderStatusRefundRequested: {SubOrderStatusRefunded, SubOrderStatusPaid, SubOrderStatusShipped, SubOrderStatusDelivered},
	SubOrderStatusCancelled:       {},
	SubOrderStatusRefunded:        {},
}

// CanTransition 子订单状态能否从from流转到to
func CanTransition(from, to SubOrderStatus) bool {
	for _, t := range subOrderTransitions[from] {
		if t == to {
			return true
		}
	}
	return false
}

// CheckTransition 校验失败时错误信息会带上非法的(from, to)对, 方便排查
func CheckTransition(from, to SubOrderStatus) error {
	if !CanTransition(from, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidStatusTransition, from, to)
	}
	return nil
}
