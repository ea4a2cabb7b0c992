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

package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/ecodeclub/mall/internal/cart"
	"github.com/ecodeclub/mall/internal/pkg/sequencenumber"
	"github.com/ecodeclub/mall/internal/pkg/snowflake"
	"github.com/ecodeclub/mall/internal/product"
	"github.com/ecodeclub/mall/internal/trade/internal/domain"
	"github.com/ecodeclub/mall/internal/trade/internal/repository"
	"github.com/gotomicro/ego/core/elog"
	"golang.org/x/sync/errgroup"
)

var (
	ErrEmptyCart            = errors.New("购物车为空")
	ErrInactiveProduct      = errors.New("商品不存在或已下架")
	ErrInvalidQuantity      = errors.New("购买数量非法")
	ErrInsufficientStock    = errors.New("商品库存不足")
	ErrInvalidTransactionID = errors.New("交易ID非法")
	ErrPermissionDenied     = errors.New("无权操作该资源")
)

// 雪花ID业务域编号
const (
	bizOrder    uint = 0
	bizSubOrder uint = 1
)

const minTransactionIDLen = 8

type OrderService interface {
	// Checkout 将买家购物车一次性结算为订单, 整个落库过程单事务
	Checkout(ctx context.Context, buyerID int64, paymentMethod, transactionID string) (domain.Order, error)
	FindOrder(ctx context.Context, orderSN string, buyerID int64) (domain.Order, error)
	ListOrders(ctx context.Context, offset, limit int, buyerID int64) ([]domain.Order, int64, error)
	CancelOrder(ctx context.Context, orderSN string, buyerID int64) error
	ShipSubOrder(ctx context.Context, subOrderID, sellerID int64) error
	ConfirmReceipt(ctx context.Context, subOrderID, buyerID int64) error
	// CloseExpiredOrders 取消创建时间早于ctime且仍未支付的订单
	CloseExpiredOrders(ctx context.Context, limit int, ctime int64) error
}

func NewOrderService(repo repository.OrderRepository,
	cartSvc cart.Service,
	productSvc product.Service,
	snGenerator *sequencenumber.Generator,
	idGenerator snowflake.SnowFlake) OrderService {
	return &orderService{
		repo:        repo,
		cartSvc:     cartSvc,
		productSvc:  productSvc,
		snGenerator: snGenerator,
		idGenerator: idGenerator,
		logger:      elog.DefaultLogger,
	}
}

type orderService struct {
	repo        repository.OrderRepository
	cartSvc     cart.Service
	productSvc  product.Service
	snGenerator *sequencenumber.Generator
	idGenerator snowflake.SnowFlake
	logger      *elog.Component
}

func (s *orderService) Checkout(ctx context.Context, buyerID int64, paymentMethod, transactionID string) (domain.Order, error) {
	if len(transactionID) < minTransactionIDLen {
		return domain.Order{}, fmt.Errorf("%w: 长度不足%d", ErrInvalidTransactionID, minTransactionIDLen)
	}
	items, err := s.cartSvc.ListByBuyerID(ctx, buyerID)
	if err != nil {
		return domain.Order{}, fmt.Errorf("读取购物车失败: %w", err)
	}
	if len(items) == 0 {
		return domain.Order{}, ErrEmptyCart
	}
	products, err := s.lookupProducts(ctx, items)
	if err != nil {
		return domain.Order{}, err
	}
	// 校验失败直接整单拒绝, 此时尚未发生任何写入
	if err := validateCartLines(items, products); err != nil {
		return domain.Order{}, err
	}

	groups := groupBySeller(items, products)
	order, err := s.assembleOrder(buyerID, groups)
	if err != nil {
		return domain.Order{}, err
	}
	orderID, err := s.repo.CreateOrder(ctx, order, domain.Payment{
		TransactionID: transactionID,
		Method:        paymentMethod,
		Status:        domain.PaymentStatusPending,
	})
	if err != nil {
		return domain.Order{}, fmt.Errorf("创建订单失败: %w", err)
	}
	order.ID = orderID
	return order, nil
}

func (s *orderService) lookupProducts(ctx context.Context, items []cart.CartItem) (map[int64]product.Product, error) {
	ids := make([]int64, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ProductID)
	}
	ps, err := s.productSvc.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("读取商品失败: %w", err)
	}
	res := make(map[int64]product.Product, len(ps))
	for _, p := range ps {
		res[p.ID] = p
	}
	return res, nil
}

func (s *orderService) assembleOrder(buyerID int64, groups []sellerGroup) (domain.Order, error) {
	orderSN, err := s.snGenerator.Generate(buyerID)
	if err != nil {
		return domain.Order{}, fmt.Errorf("生成订单序列号失败: %w", err)
	}
	var total int64
	subOrders := make([]domain.SubOrder, 0, len(groups))
	for _, g := range groups {
		id, err := s.idGenerator.Generate(bizSubOrder)
		if err != nil {
			return domain.Order{}, fmt.Errorf("生成子订单序列号失败: %w", err)
		}
		subOrders = append(subOrders, domain.SubOrder{
			SN:       strconv.FormatInt(id.Int64(), 10),
			SellerID: g.sellerID,
			Subtotal: g.subtotal,
			Status:   domain.SubOrderStatusPendingPayment,
			Items:    g.items,
		})
		total += g.subtotal
	}
	return domain.Order{
		SN:          orderSN,
		BuyerID:     buyerID,
		TotalAmount: total,
		Status:      domain.OrderStatusCreated,
		SubOrders:   subOrders,
	}, nil
}

func (s *orderService) FindOrder(ctx context.Context, orderSN string, buyerID int64) (domain.Order, error) {
	return s.repo.FindOrderBySNAndBuyerID(ctx, orderSN, buyerID)
}

func (s *orderService) ListOrders(ctx context.Context, offset, limit int, buyerID int64) ([]domain.Order, int64, error) {
	var (
		eg    errgroup.Group
		os    []domain.Order
		total int64
	)
	eg.Go(func() error {
		var err error
		os, err = s.repo.ListOrdersByBuyerID(ctx, offset, limit, buyerID)
		return err
	})
	eg.Go(func() error {
		var err error
		total, err = s.repo.TotalOrdersByBuyerID(ctx, buyerID)
		return err
	})
	return os, total, eg.Wait()
}

func (s *orderService) CancelOrder(ctx context.Context, orderSN string, buyerID int64) error {
	order, err := s.repo.FindOrderBySNAndBuyerID(ctx, orderSN, buyerID)
	if err != nil {
		return err
	}
	return s.repo.CancelOrder(ctx, order.ID)
}

func (s *orderService) ShipSubOrder(ctx context.Context, subOrderID, sellerID int64) error {
	sub, err := s.repo.FindSubOrderByID(ctx, subOrderID)
	if err != nil {
		return err
	}
	if sub.SellerID != sellerID {
		return fmt.Errorf("%w: 子订单ID=%d", ErrPermissionDenied, subOrderID)
	}
	return s.repo.ShipSubOrder(ctx, subOrderID)
}

func (s *orderService) ConfirmReceipt(ctx context.Context, subOrderID, buyerID int64) error {
	sub, err := s.repo.FindSubOrderByID(ctx, subOrderID)
	if err != nil {
		return err
	}
	order, err := s.repo.FindOrderByID(ctx, sub.OrderID)
	if err != nil {
		return err
	}
	if order.BuyerID != buyerID {
		return fmt.Errorf("%w: 子订单ID=%d", ErrPermissionDenied, subOrderID)
	}
	return s.repo.ConfirmReceipt(ctx, subOrderID)
}

func (s *orderService) CloseExpiredOrders(ctx context.Context, limit int, ctime int64) error {
	for {
		ids, err := s.repo.ListExpiredOrderIDs(ctx, 0, limit, ctime)
		if err != nil {
			return fmt.Errorf("查找超时订单失败: %w", err)
		}
		for _, id := range ids {
			// 买家恰好在关单瞬间支付成功时取消会冲突, 跳过即可
			if er := s.repo.CancelOrder(ctx, id); er != nil {
				s.logger.Warn("关闭超时订单失败",
					elog.FieldErr(er),
					elog.Int64("orderID", id))
			}
		}
		if len(ids) < limit {
			return nil
		}
	}
}

// sellerGroup 同一卖家的购物车行聚合, 子订单的直接原料
type sellerGroup struct {
	sellerID int64
	subtotal int64
	items    []domain.SubOrderItem
}

// validateCartLines 整单前置校验: 商品在售, 数量≥1且不超过当前库存
func validateCartLines(items []cart.CartItem, products map[int64]product.Product) error {
	for _, it := range items {
		p, ok := products[it.ProductID]
		if !ok || p.Status != product.StatusOnShelf {
			return fmt.Errorf("%w: 商品ID=%d", ErrInactiveProduct, it.ProductID)
		}
		if it.Quantity < 1 {
			return fmt.Errorf("%w: 商品ID=%d", ErrInvalidQuantity, it.ProductID)
		}
		if it.Quantity > p.Stock {
			return fmt.Errorf("%w: 商品ID=%d", ErrInsufficientStock, it.ProductID)
		}
	}
	return nil
}

// groupBySeller 按卖家拆分购物车行, 单价在此刻快照, 之后不再读取在售价格
func groupBySeller(items []cart.CartItem, products map[int64]product.Product) []sellerGroup {
	bySeller := make(map[int64]*sellerGroup)
	for _, it := range items {
		p := products[it.ProductID]
		g, ok := bySeller[p.SellerID]
		if !ok {
			g = &sellerGroup{sellerID: p.SellerID}
			bySeller[p.SellerID] = g
		}
		g.subtotal += p.Price * it.Quantity
		g.items = append(g.items, domain.SubOrderItem{
			ProductID:         it.ProductID,
			UnitPriceSnapshot: p.Price,
			Quantity:          it.Quantity,
		})
	}
	groups := make([]sellerGroup, 0, len(bySeller))
	for _, g := range bySeller {
		groups = append(groups, *g)
	}
	sort.Slice(groups, func(i, j int) bool {
		return groups[i].sellerID < groups[j].sellerID
	})
	return groups
}
