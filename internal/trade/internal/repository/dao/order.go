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

	"github.com/ecodeclub/ekit/slice"
	"github.com/ecodeclub/mall/internal/trade/internal/domain"
	"github.com/ego-component/egorm"
	"gorm.io/gorm"
)

type OrderDAO interface {
	// CreateOrder 在一个事务内创建订单、子订单、订单项和待支付记录, 并清空买家购物车
	CreateOrder(ctx context.Context, order Order, subOrders []SubOrder, items [][]SubOrderItem, pmt Payment) (int64, error)
	FindOrderBySNAndBuyerID(ctx context.Context, sn string, buyerID int64) (Order, error)
	FindOrderByID(ctx context.Context, id int64) (Order, error)
	FindSubOrdersByOrderID(ctx context.Context, orderID int64) ([]SubOrder, error)
	FindSubOrderByID(ctx context.Context, id int64) (SubOrder, error)
	FindItemsBySubOrderID(ctx context.Context, subOrderID int64) ([]SubOrderItem, error)
	ListOrdersByBuyerID(ctx context.Context, offset, limit int, buyerID int64) ([]Order, error)
	CountOrdersByBuyerID(ctx context.Context, buyerID int64) (int64, error)
	ListExpiredOrderIDs(ctx context.Context, offset, limit int, ctime int64) ([]int64, error)
	// CancelOrder 仅允许在全部子订单均为待支付时取消
	CancelOrder(ctx context.Context, orderID int64) error
	ShipSubOrder(ctx context.Context, subOrderID int64) error
	ConfirmReceipt(ctx context.Context, subOrderID int64) error
}

type orderGORMDAO struct {
	db *egorm.Component
}

func NewOrderGORMDAO(db *egorm.Component) OrderDAO {
	return &orderGORMDAO{db: db}
}

func (g *orderGORMDAO) CreateOrder(ctx context.Context, order Order, subOrders []SubOrder, items [][]SubOrderItem, pmt Payment) (int64, error) {
	err := g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now().UnixMilli()
		order.Ctime, order.Utime = now, now
		order.Status = domain.OrderStatusCreated.ToUint8()
		if err := tx.Create(&order).Error; err != nil {
			return fmt.Errorf("创建订单主记录失败: %w", err)
		}
		for i := range subOrders {
			subOrders[i].OrderId = order.Id
			subOrders[i].Status = domain.SubOrderStatusPendingPayment.ToUint8()
			subOrders[i].Ctime, subOrders[i].Utime = now, now
			if err := tx.Create(&subOrders[i]).Error; err != nil {
				return fmt.Errorf("创建子订单失败: %w", err)
			}
			for j := range items[i] {
				items[i][j].SubOrderId = subOrders[i].Id
				items[i][j].Ctime, items[i][j].Utime = now, now
			}
			if err := tx.Create(items[i]).Error; err != nil {
				return fmt.Errorf("创建子订单项失败: %w", err)
			}
		}
		pmt.OrderId = order.Id
		pmt.Status = domain.PaymentStatusPending.ToUint8()
		pmt.Ctime, pmt.Utime = now, now
		if err := tx.Create(&pmt).Error; err != nil {
			return fmt.Errorf("创建支付记录失败: %w", err)
		}
		// 购物车只在下单成功时清空, 事务回滚则原样保留
		if err := tx.Where("buyer_id = ?", order.BuyerId).Delete(&CartItem{}).Error; err != nil {
			return fmt.Errorf("清空购物车失败: %w", err)
		}
		return nil
	})
	return order.Id, err
}

func (g *orderGORMDAO) FindOrderBySNAndBuyerID(ctx context.Context, sn string, buyerID int64) (Order, error) {
	var o Order
	err := g.db.WithContext(ctx).First(&o, "sn = ? AND buyer_id = ?", sn, buyerID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Order{}, ErrOrderNotFound
	}
	return o, err
}

func (g *orderGORMDAO) FindOrderByID(ctx context.Context, id int64) (Order, error) {
	var o Order
	err := g.db.WithContext(ctx).First(&o, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Order{}, ErrOrderNotFound
	}
	return o, err
}

func (g *orderGORMDAO) FindSubOrdersByOrderID(ctx context.Context, orderID int64) ([]SubOrder, error) {
	var subs []SubOrder
	err := g.db.WithContext(ctx).Order("id ASC").Find(&subs, "order_id = ?", orderID).Error
	return subs, err
}

func (g *orderGORMDAO) FindSubOrderByID(ctx context.Context, id int64) (SubOrder, error) {
	var sub SubOrder
	err := g.db.WithContext(ctx).First(&sub, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return SubOrder{}, ErrSubOrderNotFound
	}
	return sub, err
}

func (g *orderGORMDAO) FindItemsBySubOrderID(ctx context.Context, subOrderID int64) ([]SubOrderItem, error) {
	var items []SubOrderItem
	err := g.db.WithContext(ctx).Find(&items, "sub_order_id = ?", subOrderID).Error
	return items, err
}

func (g *orderGORMDAO) ListOrdersByBuyerID(ctx context.Context, offset, limit int, buyerID int64) ([]Order, error) {
	var os []Order
	err := g.db.WithContext(ctx).Where("buyer_id = ?", buyerID).
		Order("ctime DESC").Offset(offset).Limit(limit).Find(&os).Error
	return os, err
}

func (g *orderGORMDAO) CountOrdersByBuyerID(ctx context.Context, buyerID int64) (int64, error) {
	var total int64
	err := g.db.WithContext(ctx).Model(&Order{}).Where("buyer_id = ?", buyerID).Count(&total).Error
	return total, err
}

func (g *orderGORMDAO) ListExpiredOrderIDs(ctx context.Context, offset, limit int, ctime int64) ([]int64, error) {
	var ids []int64
	err := g.db.WithContext(ctx).Model(&Order{}).
		Where("status = ? AND ctime < ?", domain.OrderStatusCreated.ToUint8(), ctime).
		Order("id ASC").Offset(offset).Limit(limit).Pluck("id", &ids).Error
	return ids, err
}

func (g *orderGORMDAO) CancelOrder(ctx context.Context, orderID int64) error {
	return g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var o Order
		if err := tx.First(&o, "id = ?", orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrderNotFound
			}
			return err
		}
		var total int64
		if err := tx.Model(&SubOrder{}).Where("order_id = ?", orderID).Count(&total).Error; err != nil {
			return err
		}
		now := time.Now().UnixMilli()
		res := tx.Model(&SubOrder{}).
			Where("order_id = ? AND status = ?", orderID, domain.SubOrderStatusPendingPayment.ToUint8()).
			Updates(map[string]any{
				"status": domain.SubOrderStatusCancelled.ToUint8(),
				"utime":  now,
			})
		if res.Error != nil {
			return fmt.Errorf("取消子订单失败: %w", res.Error)
		}
		// 任一子订单已离开待支付, 整单取消不成立
		if res.RowsAffected != total {
			return fmt.Errorf("%w: %s", domain.ErrInvalidStatusTransition,
				"仅待支付订单可以取消")
		}
		if err := tx.Model(&Payment{}).
			Where("order_id = ? AND status = ?", orderID, domain.PaymentStatusPending.ToUint8()).
			Updates(map[string]any{
				"status": domain.PaymentStatusCancelled.ToUint8(),
				"utime":  now,
			}).Error; err != nil {
			return fmt.Errorf("取消支付记录失败: %w", err)
		}
		return tx.Model(&Order{}).Where("id = ?", orderID).
			Updates(map[string]any{
				"status":    domain.OrderStatusCancelled.ToUint8(),
				"closed_at": now,
				"utime":     now,
			}).Error
	})
}

func (g *orderGORMDAO) ShipSubOrder(ctx context.Context, subOrderID int64) error {
	return g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return transitionSubOrder(tx, subOrderID, domain.SubOrderStatusShipped, nil)
	})
}

func (g *orderGORMDAO) ConfirmReceipt(ctx context.Context, subOrderID int64) error {
	return g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return transitionSubOrder(tx, subOrderID, domain.SubOrderStatusDelivered, map[string]any{
			"delivered_at": time.Now().UnixMilli(),
		})
	})
}

// transitionSubOrder 按状态机校验后条件更新子订单状态, 并在同一事务内重推订单状态
// WHERE带上旧状态, 0行受影响说明被并发修改
func transitionSubOrder(tx *gorm.DB, subOrderID int64, to domain.SubOrderStatus, extra map[string]any) error {
	var sub SubOrder
	if err := tx.First(&sub, "id = ?", subOrderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSubOrderNotFound
		}
		return err
	}
	from := domain.SubOrderStatus(sub.Status)
	if err := domain.CheckTransition(from, to); err != nil {
		return err
	}
	updates := map[string]any{
		"status": to.ToUint8(),
		"utime":  time.Now().UnixMilli(),
	}
	for k, v := range extra {
		updates[k] = v
	}
	res := tx.Model(&SubOrder{}).
		Where("id = ? AND status = ?", subOrderID, from.ToUint8()).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrRecordChangedConcurrently
	}
	return syncOrderStatus(tx, sub.OrderId)
}

// syncOrderStatus 在调用方事务内按当前子订单状态集合重推并持久化订单状态
func syncOrderStatus(tx *gorm.DB, orderID int64) error {
	var raw []uint8
	if err := tx.Model(&SubOrder{}).Where("order_id = ?", orderID).
		Pluck("status", &raw).Error; err != nil {
		return fmt.Errorf("读取子订单状态失败: %w", err)
	}
	derived := domain.DeriveOrderStatus(slice.Map(raw, func(idx int, src uint8) domain.SubOrderStatus {
		return domain.SubOrderStatus(src)
	}))
	return tx.Model(&Order{}).Where("id = ?", orderID).
		Updates(map[string]any{
			"status": derived.ToUint8(),
			"utime":  time.Now().UnixMilli(),
		}).Error
}
