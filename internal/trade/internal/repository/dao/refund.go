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
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ecodeclub/mall/internal/trade/internal/domain"
	"github.com/ego-component/egorm"
	"gorm.io/gorm"
)

type RefundDAO interface {
	// CreateRefundRequest 子订单转入退款申请中, 原状态双份快照到子订单与退款申请上
	CreateRefundRequest(ctx context.Context, r RefundRequest) (RefundRequest, error)
	// ApproveRefund 仅处理待处理中的申请, 子订单转入已退款终态
	ApproveRefund(ctx context.Context, refundID int64, approvedAmount int64) error
	// RejectRefund 仅处理待处理中的申请, 子订单回滚到快照状态并清空快照
	RejectRefund(ctx context.Context, refundID int64) (SubOrder, error)
	// ForceRefund 管理员强制退款, 不校验申请当前状态
	ForceRefund(ctx context.Context, refundID int64) error
	FindRefundByID(ctx context.Context, id int64) (RefundRequest, error)
	FindRefundsBySubOrderID(ctx context.Context, subOrderID int64) ([]RefundRequest, error)
}

type refundGORMDAO struct {
	db *egorm.Component
}

func NewRefundGORMDAO(db *egorm.Component) RefundDAO {
	return &refundGORMDAO{db: db}
}

func (g *refundGORMDAO) CreateRefundRequest(ctx context.Context, r RefundRequest) (RefundRequest, error) {
	err := g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var sub SubOrder
		if err := tx.First(&sub, "id = ?", r.SubOrderId).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrSubOrderNotFound
			}
			return err
		}
		from := domain.SubOrderStatus(sub.Status)
		if err := domain.CheckTransition(from, domain.SubOrderStatusRefundRequested); err != nil {
			return err
		}
		// 同一子订单不允许并存未完结的退款申请
		var active int64
		if err := tx.Model(&RefundRequest{}).
			Where("sub_order_id = ? AND status IN ?", r.SubOrderId,
				[]uint8{domain.RefundStatusRequested.ToUint8(), domain.RefundStatusRefunded.ToUint8()}).
			Count(&active).Error; err != nil {
			return err
		}
		if active > 0 {
			return ErrDuplicateRefund
		}
		now := time.Now().UnixMilli()
		res := tx.Model(&SubOrder{}).
			Where("id = ? AND status = ?", sub.Id, from.ToUint8()).
			Updates(map[string]any{
				"status":                       domain.SubOrderStatusRefundRequested.ToUint8(),
				"refund_requested_prev_status": from.ToUint8(),
				"utime":                        now,
			})
		if res.Error != nil {
			return fmt.Errorf("子订单转入退款申请中失败: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			// 两个并发申请只有先提交的赢, 后者在这里冲突
			return ErrRecordChangedConcurrently
		}
		r.OrderId = sub.OrderId
		r.Status = domain.RefundStatusRequested.ToUint8()
		r.PrevSubOrderStatus = from.ToUint8()
		r.Ctime, r.Utime = now, now
		if err := tx.Create(&r).Error; err != nil {
			return fmt.Errorf("创建退款申请失败: %w", err)
		}
		return syncOrderStatus(tx, sub.OrderId)
	})
	return r, err
}

func (g *refundGORMDAO) ApproveRefund(ctx context.Context, refundID int64, approvedAmount int64) error {
	return g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r, err := g.findRefund(tx, refundID)
		if err != nil {
			return err
		}
		now := time.Now().UnixMilli()
		res := tx.Model(&RefundRequest{}).
			Where("id = ? AND status = ?", refundID, domain.RefundStatusRequested.ToUint8()).
			Updates(map[string]any{
				"status":          domain.RefundStatusRefunded.ToUint8(),
				"approved_amount": approvedAmount,
				"utime":           now,
			})
		if res.Error != nil {
			return fmt.Errorf("退款申请置为已退款失败: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrRefundNotPending
		}
		return g.refundSubOrder(tx, r.SubOrderId, now)
	})
}

func (g *refundGORMDAO) RejectRefund(ctx context.Context, refundID int64) (SubOrder, error) {
	var restored SubOrder
	err := g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r, err := g.findRefund(tx, refundID)
		if err != nil {
			return err
		}
		var sub SubOrder
		if err := tx.First(&sub, "id = ?", r.SubOrderId).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrSubOrderNotFound
			}
			return err
		}
		// 快照双份冗余, 优先取退款申请上那份
		prev := domain.SubOrderStatus(r.PrevSubOrderStatus)
		if prev == 0 {
			prev = domain.SubOrderStatus(sub.RefundRequestedPrevStatus)
		}
		if err := domain.CheckTransition(domain.SubOrderStatusRefundRequested, prev); err != nil {
			return err
		}
		now := time.Now().UnixMilli()
		res := tx.Model(&RefundRequest{}).
			Where("id = ? AND status = ?", refundID, domain.RefundStatusRequested.ToUint8()).
			Updates(map[string]any{
				"status": domain.RefundStatusRejected.ToUint8(),
				"utime":  now,
			})
		if res.Error != nil {
			return fmt.Errorf("退款申请置为已拒绝失败: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrRefundNotPending
		}
		res = tx.Model(&SubOrder{}).
			Where("id = ? AND status = ?", sub.Id, domain.SubOrderStatusRefundRequested.ToUint8()).
			Updates(map[string]any{
				"status":                       prev.ToUint8(),
				"refund_requested_prev_status": 0,
				"utime":                        now,
			})
		if res.Error != nil {
			return fmt.Errorf("恢复子订单状态失败: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrRecordChangedConcurrently
		}
		restored = sub
		restored.Status = prev.ToUint8()
		restored.RefundRequestedPrevStatus = 0
		return syncOrderStatus(tx, sub.OrderId)
	})
	return restored, err
}

func (g *refundGORMDAO) ForceRefund(ctx context.Context, refundID int64) error {
	return g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r, err := g.findRefund(tx, refundID)
		if err != nil {
			return err
		}
		now := time.Now().UnixMilli()
		// 管理员强制通道, 不看申请当前处于什么状态
		if err := tx.Model(&RefundRequest{}).Where("id = ?", refundID).
			Updates(map[string]any{
				"status": domain.RefundStatusRefunded.ToUint8(),
				"utime":  now,
			}).Error; err != nil {
			return fmt.Errorf("强制退款更新申请失败: %w", err)
		}
		return g.refundSubOrder(tx, r.SubOrderId, now)
	})
}

// refundSubOrder 子订单进入已退款终态并清空快照, 随后重推订单状态
func (g *refundGORMDAO) refundSubOrder(tx *gorm.DB, subOrderID int64, now int64) error {
	var sub SubOrder
	if err := tx.First(&sub, "id = ?", subOrderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSubOrderNotFound
		}
		return err
	}
	if err := tx.Model(&SubOrder{}).Where("id = ?", subOrderID).
		Updates(map[string]any{
			"status":                       domain.SubOrderStatusRefunded.ToUint8(),
			"refund_requested_prev_status": 0,
			"utime":                        now,
		}).Error; err != nil {
		return fmt.Errorf("子订单置为已退款失败: %w", err)
	}
	return syncOrderStatus(tx, sub.OrderId)
}

func (g *refundGORMDAO) findRefund(tx *gorm.DB, refundID int64) (RefundRequest, error) {
	var r RefundRequest
	err := tx.First(&r, "id = ?", refundID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return RefundRequest{}, ErrRefundNotFound
	}
	return r, err
}

func (g *refundGORMDAO) FindRefundByID(ctx context.Context, id int64) (RefundRequest, error) {
	var r RefundRequest
	err := g.db.WithContext(ctx).First(&r, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return RefundRequest{}, ErrRefundNotFound
	}
	return r, err
}

func (g *refundGORMDAO) FindRefundsBySubOrderID(ctx context.Context, subOrderID int64) ([]RefundRequest, error) {
	var rs []RefundRequest
	err := g.db.WithContext(ctx).Order("ctime DESC").
		Find(&rs, "sub_order_id = ?", subOrderID).Error
	return rs, err
}
