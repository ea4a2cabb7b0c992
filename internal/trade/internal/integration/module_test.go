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

//go:build e2e

package integration

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/ecodeclub/mall/internal/audit"
	"github.com/ecodeclub/mall/internal/cart"
	"github.com/ecodeclub/mall/internal/product"
	testioc "github.com/ecodeclub/mall/internal/test/ioc"
	"github.com/ecodeclub/mall/internal/trade"
	"github.com/ecodeclub/mall/internal/trade/internal/domain"
	"github.com/ecodeclub/mall/internal/trade/internal/repository"
	"github.com/ecodeclub/mall/internal/trade/internal/service"
	"github.com/ego-component/egorm"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const (
	testBuyerID  = int64(234)
	testSellerA  = int64(11)
	testSellerB  = int64(12)
	testAdminID  = int64(999)
	testSecret   = "trade-test-secret"
	testProvider = "mockpay"
)

func TestTradeModule(t *testing.T) {
	suite.Run(t, new(TradeModuleTestSuite))
}

type TradeModuleTestSuite struct {
	suite.Suite
	db         *egorm.Component
	tradeMod   *trade.Module
	productMod *product.Module
	cartMod    *cart.Module
	auditMod   *audit.Module
	eventSeq   int
}

func (s *TradeModuleTestSuite) SetupSuite() {
	s.db = testioc.InitDB()
	ec := testioc.InitCache()
	q := testioc.InitMQ()
	s.productMod = product.InitModule(s.db, ec)
	s.cartMod = cart.InitModule(s.db, s.productMod)
	s.auditMod = audit.InitModule(s.db)
	mod, err := trade.InitModule(s.db, ec, q, s.cartMod, s.productMod, s.auditMod, trade.Config{
		WebhookSecret:       testSecret,
		RefundWindow:        7 * 24 * time.Hour,
		CloseExpiredLimit:   10,
		CloseExpiredMinutes: 30,
	})
	require.NoError(s.T(), err)
	s.tradeMod = mod
}

func (s *TradeModuleTestSuite) TearDownTest() {
	for _, table := range []string{
		"orders", "sub_orders", "sub_order_items",
		"payments", "webhook_events", "inventory_ledgers", "refund_requests",
		"products", "cart_items", "audit_logs",
	} {
		require.NoError(s.T(), s.db.Exec("TRUNCATE TABLE `"+table+"`").Error)
	}
}

func (s *TradeModuleTestSuite) seedProduct(sellerID, price, stock int64) int64 {
	t := s.T()
	id, err := s.productMod.Svc.Save(context.Background(), product.Product{
		SN:       fmt.Sprintf("SN-%d-%d", sellerID, time.Now().UnixNano()),
		SellerID: sellerID,
		Name:     "测试商品",
		Price:    price,
		Stock:    stock,
		Status:   product.StatusOnShelf,
	})
	require.NoError(t, err)
	return id
}

func (s *TradeModuleTestSuite) addCart(buyerID, productID, quantity int64) {
	require.NoError(s.T(), s.cartMod.Svc.AddItem(context.Background(), cart.CartItem{
		BuyerID:   buyerID,
		ProductID: productID,
		Quantity:  quantity,
	}))
}

func (s *TradeModuleTestSuite) checkout(buyerID int64, transactionID string) trade.Order {
	order, err := s.tradeMod.OrderSvc.Checkout(context.Background(), buyerID, "mock", transactionID)
	require.NoError(s.T(), err)
	return order
}

func (s *TradeModuleTestSuite) stockOf(productID int64) int64 {
	ps, err := s.productMod.Svc.FindByIDs(context.Background(), []int64{productID})
	require.NoError(s.T(), err)
	require.Len(s.T(), ps, 1)
	return ps[0].Stock
}

func (s *TradeModuleTestSuite) signedPayload(orderID int64, transactionID, status string) ([]byte, string) {
	s.eventSeq++
	n := service.PaymentNotification{
		Provider:      testProvider,
		EventID:       fmt.Sprintf("evt-%d", s.eventSeq),
		OrderID:       orderID,
		TransactionID: transactionID,
		Status:        status,
		PaymentMethod: "mock",
	}
	payload, err := json.Marshal(n)
	require.NoError(s.T(), err)
	mac := hmac.New(sha256.New, []byte(testSecret))
	mac.Write(payload)
	return payload, hex.EncodeToString(mac.Sum(nil))
}

func (s *TradeModuleTestSuite) paySucceeded(orderID int64, transactionID string) {
	payload, sig := s.signedPayload(orderID, transactionID, "succeeded")
	require.NoError(s.T(), s.tradeMod.PaymentSvc.HandleWebhook(context.Background(), payload, sig))
}

func (s *TradeModuleTestSuite) findOrder(sn string, buyerID int64) trade.Order {
	order, err := s.tradeMod.OrderSvc.FindOrder(context.Background(), sn, buyerID)
	require.NoError(s.T(), err)
	return order
}

func (s *TradeModuleTestSuite) TestCheckout_SplitsBySeller() {
	t := s.T()
	ctx := context.Background()
	pa := s.seedProduct(testSellerA, 990, 10)
	pb1 := s.seedProduct(testSellerB, 2500, 5)
	pb2 := s.seedProduct(testSellerB, 100, 8)
	s.addCart(testBuyerID, pa, 2)
	s.addCart(testBuyerID, pb1, 1)
	s.addCart(testBuyerID, pb2, 3)

	order := s.checkout(testBuyerID, "txn-checkout-1")

	require.Equal(t, int64(990*2+2500+100*3), order.TotalAmount)
	require.Equal(t, trade.OrderStatusCreated, order.Status)
	require.Len(t, order.SubOrders, 2)
	// 按卖家ID升序, 一个卖家一个子订单
	require.Equal(t, testSellerA, order.SubOrders[0].SellerID)
	require.Equal(t, int64(990*2), order.SubOrders[0].Subtotal)
	require.Equal(t, testSellerB, order.SubOrders[1].SellerID)
	require.Equal(t, int64(2500+100*3), order.SubOrders[1].Subtotal)
	for _, sub := range order.SubOrders {
		require.Equal(t, trade.SubOrderStatusPendingPayment, sub.Status)
	}

	// 支付记录已建为待支付
	pmt, err := s.tradeMod.PaymentSvc.FindPayment(ctx, order.ID, "txn-checkout-1")
	require.NoError(t, err)
	require.Equal(t, domain.PaymentStatusPending, pmt.Status)

	// 购物车只在下单成功时清空
	items, err := s.cartMod.Svc.ListByBuyerID(ctx, testBuyerID)
	require.NoError(t, err)
	require.Empty(t, items)

	// 下单不扣库存, 支付成功才扣
	require.Equal(t, int64(10), s.stockOf(pa))
}

func (s *TradeModuleTestSuite) TestCheckout_PriceSnapshotSurvivesRepricing() {
	t := s.T()
	ctx := context.Background()
	pa := s.seedProduct(testSellerA, 990, 10)
	s.addCart(testBuyerID, pa, 2)
	order := s.checkout(testBuyerID, "txn-reprice-1")

	// 下单后卖家改价
	ps, err := s.productMod.Svc.FindByIDs(ctx, []int64{pa})
	require.NoError(t, err)
	repriced := ps[0]
	repriced.Price = 1990
	_, err = s.productMod.Svc.Save(ctx, repriced)
	require.NoError(t, err)
	ps, err = s.productMod.Svc.FindByIDs(ctx, []int64{pa})
	require.NoError(t, err)
	require.Equal(t, int64(1990), ps[0].Price)

	// 订单留存的是下单时刻的价格
	got := s.findOrder(order.SN, testBuyerID)
	require.Equal(t, int64(990*2), got.TotalAmount)
	require.Len(t, got.SubOrders, 1)
	require.Equal(t, int64(990*2), got.SubOrders[0].Subtotal)
	require.Len(t, got.SubOrders[0].Items, 1)
	require.Equal(t, int64(990), got.SubOrders[0].Items[0].UnitPriceSnapshot)
	require.Equal(t, int64(2), got.SubOrders[0].Items[0].Quantity)
}

func (s *TradeModuleTestSuite) TestCheckout_Preconditions() {
	t := s.T()
	ctx := context.Background()

	// 购物车为空
	_, err := s.tradeMod.OrderSvc.Checkout(ctx, testBuyerID, "mock", "txn-empty-01")
	require.ErrorIs(t, err, service.ErrEmptyCart)

	// 交易ID太短
	_, err = s.tradeMod.OrderSvc.Checkout(ctx, testBuyerID, "mock", "short")
	require.ErrorIs(t, err, service.ErrInvalidTransactionID)

	// 库存不足则整单拒绝且无任何写入
	pa := s.seedProduct(testSellerA, 990, 10)
	pb := s.seedProduct(testSellerB, 2500, 1)
	s.addCart(testBuyerID, pa, 1)
	s.addCart(testBuyerID, pb, 1)
	require.NoError(t, s.cartMod.Svc.UpdateQuantity(ctx, testBuyerID, pb, 2))
	_, err = s.tradeMod.OrderSvc.Checkout(ctx, testBuyerID, "mock", "txn-stock-01")
	require.ErrorIs(t, err, service.ErrInsufficientStock)
	items, err := s.cartMod.Svc.ListByBuyerID(ctx, testBuyerID)
	require.NoError(t, err)
	require.Len(t, items, 2)

	// 商品在结算前被下架
	require.NoError(t, s.cartMod.Svc.UpdateQuantity(ctx, testBuyerID, pb, 1))
	require.NoError(t, s.productMod.Svc.UpdateStatus(ctx, pa, testSellerA, product.StatusOffShelf))
	_, err = s.tradeMod.OrderSvc.Checkout(ctx, testBuyerID, "mock", "txn-inactive")
	require.ErrorIs(t, err, service.ErrInactiveProduct)
}

func (s *TradeModuleTestSuite) TestPayment_WebhookSucceeded() {
	t := s.T()
	ctx := context.Background()
	pa := s.seedProduct(testSellerA, 990, 10)
	pb := s.seedProduct(testSellerB, 2500, 5)
	s.addCart(testBuyerID, pa, 2)
	s.addCart(testBuyerID, pb, 1)
	order := s.checkout(testBuyerID, "txn-pay-0001")

	s.paySucceeded(order.ID, "txn-pay-0001")

	got := s.findOrder(order.SN, testBuyerID)
	require.Equal(t, trade.OrderStatusPaid, got.Status)
	for _, sub := range got.SubOrders {
		require.Equal(t, trade.SubOrderStatusPaid, sub.Status)
	}
	pmt, err := s.tradeMod.PaymentSvc.FindPayment(ctx, order.ID, "txn-pay-0001")
	require.NoError(t, err)
	require.Equal(t, domain.PaymentStatusSucceeded, pmt.Status)
	require.Equal(t, int64(8), s.stockOf(pa))
	require.Equal(t, int64(4), s.stockOf(pb))
}

func (s *TradeModuleTestSuite) TestPayment_WebhookReplayIsIdempotent() {
	t := s.T()
	pa := s.seedProduct(testSellerA, 990, 10)
	s.addCart(testBuyerID, pa, 2)
	order := s.checkout(testBuyerID, "txn-replay-01")

	payload, sig := s.signedPayload(order.ID, "txn-replay-01", "succeeded")
	ctx := context.Background()
	require.NoError(t, s.tradeMod.PaymentSvc.HandleWebhook(ctx, payload, sig))
	// 同一事件原样重放
	require.NoError(t, s.tradeMod.PaymentSvc.HandleWebhook(ctx, payload, sig))
	// 同一交易的新事件ID重放
	payload2, sig2 := s.signedPayload(order.ID, "txn-replay-01", "succeeded")
	require.NoError(t, s.tradeMod.PaymentSvc.HandleWebhook(ctx, payload2, sig2))

	require.Equal(t, int64(8), s.stockOf(pa))
	got := s.findOrder(order.SN, testBuyerID)
	require.Equal(t, trade.OrderStatusPaid, got.Status)
}

func (s *TradeModuleTestSuite) TestPayment_BadSignatureRejected() {
	t := s.T()
	ctx := context.Background()
	pa := s.seedProduct(testSellerA, 990, 10)
	s.addCart(testBuyerID, pa, 1)
	order := s.checkout(testBuyerID, "txn-badsig-01")

	payload, _ := s.signedPayload(order.ID, "txn-badsig-01", "succeeded")
	err := s.tradeMod.PaymentSvc.HandleWebhook(ctx, payload, "deadbeef")
	require.ErrorIs(t, err, service.ErrInvalidSignature)

	// 签名非法的通知不落事件记录, 也没有任何状态变化
	res, err := s.tradeMod.PaymentSvc.Reconcile(ctx, order.ID)
	require.NoError(t, err)
	require.False(t, res.Processed)
	require.Equal(t, int64(10), s.stockOf(pa))
}

func (s *TradeModuleTestSuite) TestPayment_FailedStatusLeavesOrderUntouched() {
	t := s.T()
	ctx := context.Background()
	pa := s.seedProduct(testSellerA, 990, 10)
	s.addCart(testBuyerID, pa, 1)
	order := s.checkout(testBuyerID, "txn-failed-01")

	payload, sig := s.signedPayload(order.ID, "txn-failed-01", "failed")
	require.NoError(t, s.tradeMod.PaymentSvc.HandleWebhook(ctx, payload, sig))

	got := s.findOrder(order.SN, testBuyerID)
	require.Equal(t, trade.OrderStatusCreated, got.Status)
	require.Equal(t, trade.SubOrderStatusPendingPayment, got.SubOrders[0].Status)
	pmt, err := s.tradeMod.PaymentSvc.FindPayment(ctx, order.ID, "txn-failed-01")
	require.NoError(t, err)
	require.Equal(t, domain.PaymentStatusFailed, pmt.Status)
	require.Equal(t, int64(10), s.stockOf(pa))
}

func (s *TradeModuleTestSuite) TestPayment_ReconcileReplaysLatestEvent() {
	t := s.T()
	ctx := context.Background()
	pa := s.seedProduct(testSellerA, 990, 10)
	s.addCart(testBuyerID, pa, 2)
	order := s.checkout(testBuyerID, "txn-recon-01")
	s.paySucceeded(order.ID, "txn-recon-01")

	res, err := s.tradeMod.PaymentSvc.Reconcile(ctx, order.ID)
	require.NoError(t, err)
	require.True(t, res.OK)
	require.True(t, res.Processed)
	// 重放不产生额外扣减
	require.Equal(t, int64(8), s.stockOf(pa))
}

func (s *TradeModuleTestSuite) TestPayment_LastUnitConflict() {
	t := s.T()
	ctx := context.Background()
	pa := s.seedProduct(testSellerA, 990, 1)
	otherBuyer := testBuyerID + 1

	// 两个买家都抢到了下单资格, 库存只有一件
	s.addCart(testBuyerID, pa, 1)
	order1 := s.checkout(testBuyerID, "txn-race-0001")
	s.addCart(otherBuyer, pa, 1)
	order2, err := s.tradeMod.OrderSvc.Checkout(ctx, otherBuyer, "mock", "txn-race-0002")
	require.NoError(t, err)

	s.paySucceeded(order1.ID, "txn-race-0001")
	require.Equal(t, int64(0), s.stockOf(pa))

	// 后到的支付在条件扣减处冲突
	err = s.tradeMod.PaymentSvc.ProcessPaymentEvent(ctx, service.PaymentNotification{
		Provider:      testProvider,
		EventID:       "evt-race-2",
		OrderID:       order2.ID,
		TransactionID: "txn-race-0002",
		Status:        "succeeded",
		PaymentMethod: "mock",
	})
	require.ErrorIs(t, err, repository.ErrInsufficientStock)
	require.Equal(t, int64(0), s.stockOf(pa))
}

func (s *TradeModuleTestSuite) TestOrder_CancelPendingOnly() {
	t := s.T()
	ctx := context.Background()
	pa := s.seedProduct(testSellerA, 990, 10)
	s.addCart(testBuyerID, pa, 1)
	order := s.checkout(testBuyerID, "txn-cancel-01")

	require.NoError(t, s.tradeMod.OrderSvc.CancelOrder(ctx, order.SN, testBuyerID))
	got := s.findOrder(order.SN, testBuyerID)
	require.Equal(t, trade.OrderStatusCancelled, got.Status)
	require.Equal(t, trade.SubOrderStatusCancelled, got.SubOrders[0].Status)

	// 已支付订单不能再取消
	s.addCart(testBuyerID, pa, 1)
	order2 := s.checkout(testBuyerID, "txn-cancel-02")
	s.paySucceeded(order2.ID, "txn-cancel-02")
	err := s.tradeMod.OrderSvc.CancelOrder(ctx, order2.SN, testBuyerID)
	require.ErrorIs(t, err, domain.ErrInvalidStatusTransition)
}

func (s *TradeModuleTestSuite) TestOrder_ShipAndConfirmReceipt() {
	t := s.T()
	ctx := context.Background()
	pa := s.seedProduct(testSellerA, 990, 10)
	pb := s.seedProduct(testSellerB, 2500, 5)
	s.addCart(testBuyerID, pa, 1)
	s.addCart(testBuyerID, pb, 1)
	order := s.checkout(testBuyerID, "txn-ship-0001")
	s.paySucceeded(order.ID, "txn-ship-0001")
	got := s.findOrder(order.SN, testBuyerID)
	subA, subB := got.SubOrders[0], got.SubOrders[1]

	// 非拥有者不能发货
	err := s.tradeMod.OrderSvc.ShipSubOrder(ctx, subA.ID, testSellerB)
	require.ErrorIs(t, err, service.ErrPermissionDenied)

	require.NoError(t, s.tradeMod.OrderSvc.ShipSubOrder(ctx, subA.ID, testSellerA))
	got = s.findOrder(order.SN, testBuyerID)
	require.Equal(t, trade.OrderStatusPartiallyShipped, got.Status)

	require.NoError(t, s.tradeMod.OrderSvc.ConfirmReceipt(ctx, subA.ID, testBuyerID))
	require.NoError(t, s.tradeMod.OrderSvc.ShipSubOrder(ctx, subB.ID, testSellerB))
	require.NoError(t, s.tradeMod.OrderSvc.ConfirmReceipt(ctx, subB.ID, testBuyerID))

	got = s.findOrder(order.SN, testBuyerID)
	require.Equal(t, trade.OrderStatusCompleted, got.Status)
	for _, sub := range got.SubOrders {
		require.Equal(t, trade.SubOrderStatusDelivered, sub.Status)
		require.NotZero(t, sub.DeliveredAt)
	}

	// 待支付的子订单不能直接发货
	s.addCart(testBuyerID, pa, 1)
	order2 := s.checkout(testBuyerID, "txn-ship-0002")
	got2 := s.findOrder(order2.SN, testBuyerID)
	err = s.tradeMod.OrderSvc.ShipSubOrder(ctx, got2.SubOrders[0].ID, testSellerA)
	require.ErrorIs(t, err, domain.ErrInvalidStatusTransition)
}

// paidSubOrder 建好一个已支付的单卖家订单, 返回订单和它唯一的子订单
func (s *TradeModuleTestSuite) paidSubOrder(transactionID string, productID int64) (trade.Order, trade.SubOrder) {
	s.addCart(testBuyerID, productID, 1)
	order := s.checkout(testBuyerID, transactionID)
	s.paySucceeded(order.ID, transactionID)
	got := s.findOrder(order.SN, testBuyerID)
	return got, got.SubOrders[0]
}

func (s *TradeModuleTestSuite) TestRefund_RequestAndReject() {
	t := s.T()
	ctx := context.Background()
	pa := s.seedProduct(testSellerA, 990, 10)
	_, sub := s.paidSubOrder("txn-refund-01", pa)
	require.NoError(t, s.tradeMod.OrderSvc.ShipSubOrder(ctx, sub.ID, testSellerA))

	refund, err := s.tradeMod.RefundSvc.RequestRefund(ctx, testBuyerID, sub.ID, "不想要了", 990)
	require.NoError(t, err)
	require.Equal(t, domain.RefundStatusRequested, refund.Status)
	// 原状态双份快照
	require.Equal(t, trade.SubOrderStatusShipped, refund.PrevSubOrderStatus)

	got, err := s.tradeMod.OrderSvc.FindOrder(ctx, refundOrderSN(s, refund.OrderID), testBuyerID)
	require.NoError(t, err)
	require.Equal(t, trade.SubOrderStatusRefundRequested, got.SubOrders[0].Status)
	require.Equal(t, trade.SubOrderStatusShipped, got.SubOrders[0].RefundRequestedPrevStatus)

	// 同一子订单不允许并行第二笔申请
	_, err = s.tradeMod.RefundSvc.RequestRefund(ctx, testBuyerID, sub.ID, "再退一次", 990)
	require.ErrorIs(t, err, repository.ErrDuplicateRefund)

	// 拒绝后恢复到申请前的状态
	require.NoError(t, s.tradeMod.RefundSvc.Reject(ctx, testSellerA, refund.ID, "商品完好"))
	got, err = s.tradeMod.OrderSvc.FindOrder(ctx, got.SN, testBuyerID)
	require.NoError(t, err)
	require.Equal(t, trade.SubOrderStatusShipped, got.SubOrders[0].Status)
	// 快照已清除
	require.Equal(t, trade.SubOrderStatus(0), got.SubOrders[0].RefundRequestedPrevStatus)

	// 已出终局的申请不能再拒绝
	err = s.tradeMod.RefundSvc.Reject(ctx, testSellerA, refund.ID, "再拒一次")
	require.ErrorIs(t, err, repository.ErrRefundNotPending)

	// 拒绝之后买家可以重新发起
	refund2, err := s.tradeMod.RefundSvc.RequestRefund(ctx, testBuyerID, sub.ID, "又不想要了", 500)
	require.NoError(t, err)
	require.Equal(t, int64(500), refund2.RequestedAmount)
}

func (s *TradeModuleTestSuite) TestRefund_Approve() {
	t := s.T()
	ctx := context.Background()
	pa := s.seedProduct(testSellerA, 990, 10)
	order, sub := s.paidSubOrder("txn-refund-02", pa)

	refund, err := s.tradeMod.RefundSvc.RequestRefund(ctx, testBuyerID, sub.ID, "质量问题", 990)
	require.NoError(t, err)

	// 非拥有者卖家不能审批
	err = s.tradeMod.RefundSvc.Approve(ctx, testSellerB, refund.ID, 0)
	require.ErrorIs(t, err, service.ErrPermissionDenied)
	// 超过申请金额
	err = s.tradeMod.RefundSvc.Approve(ctx, testSellerA, refund.ID, 1000)
	require.ErrorIs(t, err, service.ErrInvalidRefundAmount)

	// 0默认等于申请金额
	require.NoError(t, s.tradeMod.RefundSvc.Approve(ctx, testSellerA, refund.ID, 0))
	gotRefund, err := s.tradeMod.RefundSvc.FindRefund(ctx, refund.ID)
	require.NoError(t, err)
	require.Equal(t, domain.RefundStatusRefunded, gotRefund.Status)
	require.Equal(t, int64(990), gotRefund.ApprovedAmount)

	got := s.findOrder(order.SN, testBuyerID)
	require.Equal(t, trade.SubOrderStatusRefunded, got.SubOrders[0].Status)
	// 唯一子订单退款后订单整体为已退款
	require.Equal(t, trade.OrderStatusRefunded, got.Status)

	// 审计记录落盘
	logs, err := s.auditMod.Svc.ListByBiz(ctx, "refund", refund.ID)
	require.NoError(t, err)
	require.NotEmpty(t, logs)
}

func (s *TradeModuleTestSuite) TestRefund_ForceRefundIsTerminal() {
	t := s.T()
	ctx := context.Background()
	pa := s.seedProduct(testSellerA, 990, 10)
	order, sub := s.paidSubOrder("txn-refund-03", pa)

	refund, err := s.tradeMod.RefundSvc.RequestRefund(ctx, testBuyerID, sub.ID, "人工介入", 990)
	require.NoError(t, err)

	require.NoError(t, s.tradeMod.RefundSvc.ForceRefund(ctx, testAdminID, refund.ID, "客诉仲裁"))
	got := s.findOrder(order.SN, testBuyerID)
	require.Equal(t, trade.SubOrderStatusRefunded, got.SubOrders[0].Status)

	// 强制退款后卖家的拒绝必须冲突
	err = s.tradeMod.RefundSvc.Reject(ctx, testSellerA, refund.ID, "不同意")
	require.ErrorIs(t, err, repository.ErrRefundNotPending)
	// 重复强制是无操作, 结果不变
	require.NoError(t, s.tradeMod.RefundSvc.ForceRefund(ctx, testAdminID, refund.ID, "重复操作"))
	gotRefund, err := s.tradeMod.RefundSvc.FindRefund(ctx, refund.ID)
	require.NoError(t, err)
	require.Equal(t, domain.RefundStatusRefunded, gotRefund.Status)
}

func (s *TradeModuleTestSuite) TestRefund_DeliveredWindow() {
	t := s.T()
	ctx := context.Background()
	pa := s.seedProduct(testSellerA, 990, 10)
	_, sub := s.paidSubOrder("txn-refund-04", pa)
	require.NoError(t, s.tradeMod.OrderSvc.ShipSubOrder(ctx, sub.ID, testSellerA))
	require.NoError(t, s.tradeMod.OrderSvc.ConfirmReceipt(ctx, sub.ID, testBuyerID))

	// 把收货时间拨回窗口期之外
	expired := time.Now().Add(-8 * 24 * time.Hour).UnixMilli()
	require.NoError(t, s.db.Exec("UPDATE `sub_orders` SET `delivered_at` = ? WHERE `id` = ?", expired, sub.ID).Error)

	_, err := s.tradeMod.RefundSvc.RequestRefund(ctx, testBuyerID, sub.ID, "过期申请", 990)
	require.ErrorIs(t, err, service.ErrRefundWindowExpired)

	// 窗口期内可以申请
	recent := time.Now().Add(-time.Hour).UnixMilli()
	require.NoError(t, s.db.Exec("UPDATE `sub_orders` SET `delivered_at` = ? WHERE `id` = ?", recent, sub.ID).Error)
	_, err = s.tradeMod.RefundSvc.RequestRefund(ctx, testBuyerID, sub.ID, "窗口内申请", 990)
	require.NoError(t, err)
}

func (s *TradeModuleTestSuite) TestCloseExpiredOrdersJob() {
	t := s.T()
	ctx := context.Background()
	pa := s.seedProduct(testSellerA, 990, 10)
	s.addCart(testBuyerID, pa, 1)
	stale := s.checkout(testBuyerID, "txn-close-001")
	s.addCart(testBuyerID, pa, 1)
	fresh := s.checkout(testBuyerID, "txn-close-002")

	// 把第一单拨成一小时前创建
	old := time.Now().Add(-time.Hour).UnixMilli()
	require.NoError(t, s.db.Exec("UPDATE `orders` SET `ctime` = ? WHERE `id` = ?", old, stale.ID).Error)

	require.NoError(t, s.tradeMod.CloseJob.Run(ctx))

	got := s.findOrder(stale.SN, testBuyerID)
	require.Equal(t, trade.OrderStatusCancelled, got.Status)
	got = s.findOrder(fresh.SN, testBuyerID)
	require.Equal(t, trade.OrderStatusCreated, got.Status)
}

// refundOrderSN 退款单只带订单ID, 查SN要回订单表
func refundOrderSN(s *TradeModuleTestSuite, orderID int64) string {
	var sn string
	require.NoError(s.T(), s.db.Raw("SELECT `sn` FROM `orders` WHERE `id` = ?", orderID).Scan(&sn).Error)
	return sn
}
