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

package repository

import (
	"context"
	"fmt"

	"github.com/ecodeclub/ekit/slice"
	"github.com/ecodeclub/mall/internal/trade/internal/domain"
	"github.com/ecodeclub/mall/internal/trade/internal/repository/dao"
)

type OrderRepository interface {
	CreateOrder(ctx context.Context, order domain.Order, pmt domain.Payment) (int64, error)
	FindOrderBySNAndBuyerID(ctx context.Context, sn string, buyerID int64) (domain.Order, error)
	FindOrderByID(ctx context.Context, id int64) (domain.Order, error)
	FindSubOrderByID(ctx context.Context, id int64) (domain.SubOrder, error)
	ListOrdersByBuyerID(ctx context.Context, offset, limit int, buyerID int64) ([]domain.Order, error)
	TotalOrdersByBuyerID(ctx context.Context, buyerID int64) (int64, error)
	ListExpiredOrderIDs(ctx context.Context, offset, limit int, ctime int64) ([]int64, error)
	CancelOrder(ctx context.Context, orderID int64) error
	ShipSubOrder(ctx context.Context, subOrderID int64) error
	ConfirmReceipt(ctx context.Context, subOrderID int64) error
}

func NewOrderRepository(d dao.OrderDAO) OrderRepository {
	return &orderRepository{d: d}
}

type orderRepository struct {
	d dao.OrderDAO
}

func (o *orderRepository) CreateOrder(ctx context.Context, order domain.Order, pmt domain.Payment) (int64, error) {
	subOrders := make([]dao.SubOrder, 0, len(order.SubOrders))
	items := make([][]dao.SubOrderItem, 0, len(order.SubOrders))
	for _, sub := range order.SubOrders {
		subOrders = append(subOrders, dao.SubOrder{
			SN:       sub.SN,
			SellerId: sub.SellerID,
			Subtotal: sub.Subtotal,
		})
		items = append(items, slice.Map(sub.Items, func(idx int, src domain.SubOrderItem) dao.SubOrderItem {
			return dao.SubOrderItem{
				ProductId:         src.ProductID,
				UnitPriceSnapshot: src.UnitPriceSnapshot,
				Quantity:          src.Quantity,
			}
		}))
	}
	return o.d.CreateOrder(ctx, dao.Order{
		SN:          order.SN,
		BuyerId:     order.BuyerID,
		TotalAmount: order.TotalAmount,
	}, subOrders, items, dao.Payment{
		TransactionId: pmt.TransactionID,
		Method:        pmt.Method,
	})
}

func (o *orderRepository) FindOrderBySNAndBuyerID(ctx context.Context, sn string, buyerID int64) (domain.Order, error) {
	order, err := o.d.FindOrderBySNAndBuyerID(ctx, sn, buyerID)
	if err != nil {
		return domain.Order{}, err
	}
	return o.assembleOrder(ctx, order)
}

func (o *orderRepository) FindOrderByID(ctx context.Context, id int64) (domain.Order, error) {
	order, err := o.d.FindOrderByID(ctx, id)
	if err != nil {
		return domain.Order{}, err
	}
	return o.assembleOrder(ctx, order)
}

func (o *orderRepository) assembleOrder(ctx context.Context, order dao.Order) (domain.Order, error) {
	subs, err := o.d.FindSubOrdersByOrderID(ctx, order.Id)
	if err != nil {
		return domain.Order{}, fmt.Errorf("通过订单ID查找子订单失败: %w", err)
	}
	res := o.toOrderDomain(order)
	res.SubOrders = make([]domain.SubOrder, 0, len(subs))
	for _, sub := range subs {
		items, err := o.d.FindItemsBySubOrderID(ctx, sub.Id)
		if err != nil {
			return domain.Order{}, fmt.Errorf("通过子订单ID查找订单项失败: %w", err)
		}
		res.SubOrders = append(res.SubOrders, o.toSubOrderDomain(sub, items))
	}
	return res, nil
}

func (o *orderRepository) FindSubOrderByID(ctx context.Context, id int64) (domain.SubOrder, error) {
	sub, err := o.d.FindSubOrderByID(ctx, id)
	if err != nil {
		return domain.SubOrder{}, err
	}
	items, err := o.d.FindItemsBySubOrderID(ctx, id)
	if err != nil {
		return domain.SubOrder{}, err
	}
	return o.toSubOrderDomain(sub, items), nil
}

func (o *orderRepository) ListOrdersByBuyerID(ctx context.Context, offset, limit int, buyerID int64) ([]domain.Order, error) {
	os, err := o.d.ListOrdersByBuyerID(ctx, offset, limit, buyerID)
	if err != nil {
		return nil, err
	}
	return slice.Map(os, func(idx int, src dao.Order) domain.Order {
		return o.toOrderDomain(src)
	}), nil
}

func (o *orderRepository) TotalOrdersByBuyerID(ctx context.Context, buyerID int64) (int64, error) {
	return o.d.CountOrdersByBuyerID(ctx, buyerID)
}

func (o *orderRepository) ListExpiredOrderIDs(ctx context.Context, offset, limit int, ctime int64) ([]int64, error) {
	return o.d.ListExpiredOrderIDs(ctx, offset, limit, ctime)
}

func (o *orderRepository) CancelOrder(ctx context.Context, orderID int64) error {
	return o.d.CancelOrder(ctx, orderID)
}

func (o *orderRepository) ShipSubOrder(ctx context.Context, subOrderID int64) error {
	return o.d.ShipSubOrder(ctx, subOrderID)
}

func (o *orderRepository) ConfirmReceipt(ctx context.Context, subOrderID int64) error {
	return o.d.ConfirmReceipt(ctx, subOrderID)
}

func (o *orderRepository) toOrderDomain(order dao.Order) domain.Order {
	return domain.Order{
		ID:          order.Id,
		SN:          order.SN,
		BuyerID:     order.BuyerId,
		TotalAmount: order.TotalAmount,
		Status:      domain.OrderStatus(order.Status),
		ClosedAt:    order.ClosedAt,
		Ctime:       order.Ctime,
		Utime:       order.Utime,
	}
}

func (o *orderRepository) toSubOrderDomain(sub dao.SubOrder, items []dao.SubOrderItem) domain.SubOrder {
	return domain.SubOrder{
		ID:                        sub.Id,
		SN:                        sub.SN,
		OrderID:                   sub.OrderId,
		SellerID:                  sub.SellerId,
		Subtotal:                  sub.Subtotal,
		Status:                    domain.SubOrderStatus(sub.Status),
		RefundRequestedPrevStatus: domain.SubOrderStatus(sub.RefundRequestedPrevStatus),
		DeliveredAt:               sub.DeliveredAt,
		Items: slice.Map(items, func(idx int, src dao.SubOrderItem) domain.SubOrderItem {
			return domain.SubOrderItem{
				ID:                src.Id,
				SubOrderID:        src.SubOrderId,
				ProductID:         src.ProductId,
				UnitPriceSnapshot: src.UnitPriceSnapshot,
				Quantity:          src.Quantity,
			}
		}),
		Ctime: sub.Ctime,
		Utime: sub.Utime,
	}
}
