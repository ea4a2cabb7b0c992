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

type PaymentDAO interface {
	// ProcessPaymentSuccess 将一次支付成功通知落成持久状态, 对相同(orderID, transactionID)
	// 任意次重放不产生额外的库存扣减和状态变化
	ProcessPaymentSuccess(ctx context.Context, orderID int64, transactionID, method string) error
	// MarkPaymentTerminal 记录非成功的终态通知, 不触碰子订单与库存
	MarkPaymentTerminal(ctx context.Context, orderID int64, transactionID, method string, status uint8) error
	FindPayment(ctx context.Context, orderID int64, transactionID string) (Payment, error)
	// StoreWebhookEvent 以(provider, eventID)唯一键持久化入站事件, 重放返回false而非报错
	StoreWebhookEvent(ctx context.Context, evt WebhookEvent) (bool, error)
	FindLatestWebhookEventByOrderID(ctx context.Context, orderID int64) (WebhookEvent, error)
	FindLedgerEntries(ctx context.Context, orderID int64, transactionID string) ([]InventoryLedger, error)
}

type paymentGORMDAO struct {
	db *egorm.Component
}

func NewPaymentGORMDAO(db *egorm.Component) PaymentDAO {
	return &paymentGORMDAO{db: db}
}

func (g *paymentGORMDAO) ProcessPaymentSuccess(ctx context.Context, orderID int64, transactionID, method string) error {
	return g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var o Order
		if err := tx.First(&o, "id = ?", orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrderNotFound
			}
			return err
		}
		pmt, err := findOrCreatePayment(tx, orderID, transactionID, method)
		if err != nil {
			return err
		}
		var subs []SubOrder
		if err := tx.Find(&subs, "order_id = ?", orderID).Error; err != nil {
			return fmt.Errorf("读取子订单失败: %w", err)
		}
		now := time.Now().UnixMilli()
		for _, sub := range subs {
			if domain.SubOrderStatus(sub.Status) != domain.SubOrderStatusPendingPayment {
				// 已支付或更后的状态, 重放对它是无操作
				continue
			}
			res := tx.Model(&SubOrder{}).
				Where("id = ? AND status = ?", sub.Id, domain.SubOrderStatusPendingPayment.ToUint8()).
				Updates(map[string]any{
					"status": domain.SubOrderStatusPaid.ToUint8(),
					"utime":  now,
				})
			if res.Error != nil {
				return fmt.Errorf("子订单置为已支付失败: %w", res.Error)
			}
			// 0行说明并发事务抢先, 结果一致, 继续即可
		}
		if err := g.applyInventory(tx, orderID, transactionID, subs); err != nil {
			return err
		}
		if err := tx.Model(&Payment{}).Where("id = ?", pmt.Id).
			Updates(map[string]any{
				"status": domain.PaymentStatusSucceeded.ToUint8(),
				"utime":  now,
			}).Error; err != nil {
			return fmt.Errorf("支付记录置为成功失败: %w", err)
		}
		return syncOrderStatus(tx, orderID)
	})
}

// applyInventory 逐项乐观插入台账行, 唯一键冲突即"已扣减"直接跳过,
// 插入成功才执行 stock >= quantity 的条件扣减
func (g *paymentGORMDAO) applyInventory(tx *gorm.DB, orderID int64, transactionID string, subs []SubOrder) error {
	subIDs := make([]int64, 0, len(subs))
	for _, sub := range subs {
		subIDs = append(subIDs, sub.Id)
	}
	var items []SubOrderItem
	if err := tx.Find(&items, "sub_order_id IN ?", subIDs).Error; err != nil {
		return fmt.Errorf("读取子订单项失败: %w", err)
	}
	now := time.Now().UnixMilli()
	for _, item := range items {
		entry := InventoryLedger{
			ProductId:     item.ProductId,
			OrderId:       orderID,
			TransactionId: transactionID,
			Quantity:      item.Quantity,
			Ctime:         now,
		}
		if err := tx.Create(&entry).Error; err != nil {
			if isDuplicateKeyError(err) {
				continue
			}
			return fmt.Errorf("创建库存台账失败: %w", err)
		}
		res := tx.Model(&Product{}).
			Where("id = ? AND stock >= ?", item.ProductId, item.Quantity).
			UpdateColumn("stock", gorm.Expr("stock - ?", item.Quantity))
		if res.Error != nil {
			return fmt.Errorf("扣减库存失败: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			// 台账键已经挡掉了重放, 走到这说明库存被非幂等路径消耗过, 属数据完整性问题
			return fmt.Errorf("%w: 商品ID=%d", ErrInsufficientStock, item.ProductId)
		}
	}
	return nil
}

func (g *paymentGORMDAO) MarkPaymentTerminal(ctx context.Context, orderID int64, transactionID, method string, status uint8) error {
	return g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var o Order
		if err := tx.First(&o, "id = ?", orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrderNotFound
			}
			return err
		}
		pmt, err := findOrCreatePayment(tx, orderID, transactionID, method)
		if err != nil {
			return err
		}
		return tx.Model(&Payment{}).Where("id = ?", pmt.Id).
			Updates(map[string]any{
				"status": status,
				"utime":  time.Now().UnixMilli(),
			}).Error
	})
}

// findOrCreatePayment 按(orderID, transactionID)取支付记录, 不存在则建为待支付
// 并发双插时靠唯一键兜底, 冲突方改查既有记录
func findOrCreatePayment(tx *gorm.DB, orderID int64, transactionID, method string) (Payment, error) {
	now := time.Now().UnixMilli()
	pmt := Payment{
		OrderId:       orderID,
		TransactionId: transactionID,
	}
	err := tx.Where(Payment{OrderId: orderID, TransactionId: transactionID}).
		Attrs(Payment{
			Method: method,
			Status: domain.PaymentStatusPending.ToUint8(),
			Ctime:  now,
			Utime:  now,
		}).FirstOrCreate(&pmt).Error
	if err != nil {
		if isDuplicateKeyError(err) {
			err = tx.First(&pmt, "order_id = ? AND transaction_id = ?", orderID, transactionID).Error
		}
		if err != nil {
			return Payment{}, fmt.Errorf("创建或查找支付记录失败: %w", err)
		}
	}
	return pmt, nil
}

func (g *paymentGORMDAO) FindPayment(ctx context.Context, orderID int64, transactionID string) (Payment, error) {
	var pmt Payment
	err := g.db.WithContext(ctx).
		First(&pmt, "order_id = ? AND transaction_id = ?", orderID, transactionID).Error
	return pmt, err
}

func (g *paymentGORMDAO) StoreWebhookEvent(ctx context.Context, evt WebhookEvent) (bool, error) {
	now := time.Now().UnixMilli()
	evt.Ctime, evt.Utime = now, now
	err := g.db.WithContext(ctx).Create(&evt).Error
	if err != nil {
		if isDuplicateKeyError(err) {
			// 同一(provider, eventID)重放, 不是错误
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (g *paymentGORMDAO) FindLatestWebhookEventByOrderID(ctx context.Context, orderID int64) (WebhookEvent, error) {
	var evt WebhookEvent
	err := g.db.WithContext(ctx).Where("order_id = ?", orderID).
		Order("received_at DESC, id DESC").First(&evt).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return WebhookEvent{}, ErrWebhookEventNotFound
	}
	return evt, err
}

func (g *paymentGORMDAO) FindLedgerEntries(ctx context.Context, orderID int64, transactionID string) ([]InventoryLedger, error) {
	var entries []InventoryLedger
	err := g.db.WithContext(ctx).
		Find(&entries, "order_id = ? AND transaction_id = ?", orderID, transactionID).Error
	return entries, err
}
