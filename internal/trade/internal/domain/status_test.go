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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckTransition(t *testing.T) {
	t.Parallel()
	testCases := []struct {
		name    string
		from    SubOrderStatus
		to      SubOrderStatus
		wantErr error
	}{
		{
			name: "待支付到已支付",
			from: SubOrderStatusPendingPayment,
			to:   SubOrderStatusPaid,
		},
		{
			name: "待支付到已取消",
			from: SubOrderStatusPendingPayment,
			to:   SubOrderStatusCancelled,
		},
		{
			name:    "待支付不能直接发货",
			from:    SubOrderStatusPendingPayment,
			to:      SubOrderStatusShipped,
			wantErr: ErrInvalidStatusTransition,
		},
		{
			name: "已支付到已发货",
			from: SubOrderStatusPaid,
			to:   SubOrderStatusShipped,
		},
		{
			name: "已支付到退款中",
			from: SubOrderStatusPaid,
			to:   SubOrderStatusRefundRequested,
		},
		{
			name:    "已支付不能直接退款完成",
			from:    SubOrderStatusPaid,
			to:      SubOrderStatusRefunded,
			wantErr: ErrInvalidStatusTransition,
		},
		{
			name: "已发货到已送达",
			from: SubOrderStatusShipped,
			to:   SubOrderStatusDelivered,
		},
		{
			name: "已送达到退款中",
			from: SubOrderStatusDelivered,
			to:   SubOrderStatusRefundRequested,
		},
		{
			name: "退款中到退款完成",
			from: SubOrderStatusRefundRequested,
			to:   SubOrderStatusRefunded,
		},
		{
			name: "退款被拒绝恢复为已支付",
			from: SubOrderStatusRefundRequested,
			to:   SubOrderStatusPaid,
		},
		{
			name: "退款被拒绝恢复为已发货",
			from: SubOrderStatusRefundRequested,
			to:   SubOrderStatusShipped,
		},
		{
			name: "退款被拒绝恢复为已送达",
			from: SubOrderStatusRefundRequested,
			to:   SubOrderStatusDelivered,
		},
		{
			name:    "退款中不能恢复为待支付",
			from:    SubOrderStatusRefundRequested,
			to:      SubOrderStatusPendingPayment,
			wantErr: ErrInvalidStatusTransition,
		},
		{
			name:    "已取消是终态",
			from:    SubOrderStatusCancelled,
			to:      SubOrderStatusPaid,
			wantErr: ErrInvalidStatusTransition,
		},
		{
			name:    "退款完成是终态",
			from:    SubOrderStatusRefunded,
			to:      SubOrderStatusRefundRequested,
			wantErr: ErrInvalidStatusTransition,
		},
		{
			name:    "已送达不能回退为已发货",
			from:    SubOrderStatusDelivered,
			to:      SubOrderStatusShipped,
			wantErr: ErrInvalidStatusTransition,
		},
	}
	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			err := CheckTransition(tc.from, tc.to)
			if tc.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tc.wantErr)
				// 错误信息带上非法的(from, to)对
				assert.Contains(t, err.Error(), tc.from.String())
				assert.Contains(t, err.Error(), tc.to.String())
			} else {
				require.NoError(t, err)
				assert.True(t, CanTransition(tc.from, tc.to))
			}
		})
	}
}

func TestDeriveOrderStatus(t *testing.T) {
	t.Parallel()
	testCases := []struct {
		name     string
		statuses []SubOrderStatus
		want     OrderStatus
	}{
		{
			name:     "空集合",
			statuses: nil,
			want:     OrderStatusCreated,
		},
		{
			name:     "全部已取消",
			statuses: []SubOrderStatus{SubOrderStatusCancelled, SubOrderStatusCancelled},
			want:     OrderStatusCancelled,
		},
		{
			name:     "全部退款完成",
			statuses: []SubOrderStatus{SubOrderStatusRefunded, SubOrderStatusRefunded},
			want:     OrderStatusRefunded,
		},
		{
			name:     "全部已送达",
			statuses: []SubOrderStatus{SubOrderStatusDelivered, SubOrderStatusDelivered, SubOrderStatusDelivered},
			want:     OrderStatusCompleted,
		},
		{
			name:     "部分发货",
			statuses: []SubOrderStatus{SubOrderStatusShipped, SubOrderStatusPaid},
			want:     OrderStatusPartiallyShipped,
		},
		{
			name:     "已送达和已支付混合仍算部分发货",
			statuses: []SubOrderStatus{SubOrderStatusDelivered, SubOrderStatusPaid},
			want:     OrderStatusPartiallyShipped,
		},
		{
			name:     "已送达和退款完成混合",
			statuses: []SubOrderStatus{SubOrderStatusDelivered, SubOrderStatusRefunded},
			want:     OrderStatusPartiallyShipped,
		},
		{
			name:     "任意一个已支付",
			statuses: []SubOrderStatus{SubOrderStatusPaid, SubOrderStatusPendingPayment},
			want:     OrderStatusPaid,
		},
		{
			name:     "退款中但没有发货过的",
			statuses: []SubOrderStatus{SubOrderStatusPaid, SubOrderStatusRefundRequested},
			want:     OrderStatusPaid,
		},
		{
			name:     "全部待支付",
			statuses: []SubOrderStatus{SubOrderStatusPendingPayment, SubOrderStatusPendingPayment},
			want:     OrderStatusCreated,
		},
		{
			name:     "已取消和退款完成混合不算任何终态",
			statuses: []SubOrderStatus{SubOrderStatusCancelled, SubOrderStatusRefunded},
			want:     OrderStatusCreated,
		},
		{
			name:     "单个子订单已送达",
			statuses: []SubOrderStatus{SubOrderStatusDelivered},
			want:     OrderStatusCompleted,
		},
	}
	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, DeriveOrderStatus(tc.statuses))
		})
	}
}
