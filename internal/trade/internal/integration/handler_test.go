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
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/ecodeclub/ekit/iox"
	"github.com/ecodeclub/ginx/session"
	"github.com/ecodeclub/mall/internal/audit"
	"github.com/ecodeclub/mall/internal/cart"
	"github.com/ecodeclub/mall/internal/product"
	"github.com/ecodeclub/mall/internal/test"
	testioc "github.com/ecodeclub/mall/internal/test/ioc"
	"github.com/ecodeclub/mall/internal/trade"
	"github.com/ecodeclub/mall/internal/trade/internal/errs"
	"github.com/ecodeclub/mall/internal/trade/internal/service"
	"github.com/ecodeclub/mall/internal/trade/internal/web"
	"github.com/ego-component/egorm"
	"github.com/gin-gonic/gin"
	"github.com/gotomicro/ego/core/econf"
	"github.com/gotomicro/ego/server/egin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

func TestTradeHandler(t *testing.T) {
	suite.Run(t, new(TradeHandlerTestSuite))
}

type TradeHandlerTestSuite struct {
	suite.Suite
	server     *egin.Component
	db         *egorm.Component
	tradeMod   *trade.Module
	productMod *product.Module
	cartMod    *cart.Module
	eventSeq   int
}

func (s *TradeHandlerTestSuite) SetupSuite() {
	s.db = testioc.InitDB()
	ec := testioc.InitCache()
	q := testioc.InitMQ()
	s.productMod = product.InitModule(s.db, ec)
	s.cartMod = cart.InitModule(s.db, s.productMod)
	mod, err := trade.InitModule(s.db, ec, q, s.cartMod, s.productMod, audit.InitModule(s.db), trade.Config{
		WebhookSecret:       testSecret,
		RefundWindow:        7 * 24 * time.Hour,
		CloseExpiredLimit:   10,
		CloseExpiredMinutes: 30,
	})
	require.NoError(s.T(), err)
	s.tradeMod = mod

	econf.Set("server", map[string]any{"contextTimeout": "1s"})
	server := egin.Load("server").Build()
	server.Use(func(ctx *gin.Context) {
		ctx.Set("_session", session.NewMemorySession(session.Claims{
			Uid: testBuyerID,
		}))
	})
	s.tradeMod.WebhookHdl.PublicRoutes(server.Engine)
	s.tradeMod.Hdl.PrivateRoutes(server.Engine)
	s.server = server
}

func (s *TradeHandlerTestSuite) TearDownTest() {
	for _, table := range []string{
		"orders", "sub_orders", "sub_order_items",
		"payments", "webhook_events", "inventory_ledgers", "refund_requests",
		"products", "cart_items", "audit_logs",
	} {
		require.NoError(s.T(), s.db.Exec("TRUNCATE TABLE `"+table+"`").Error)
	}
}

func (s *TradeHandlerTestSuite) seedProduct(sellerID, price, stock int64) int64 {
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

func (s *TradeHandlerTestSuite) addCart(productID, quantity int64) {
	require.NoError(s.T(), s.cartMod.Svc.AddItem(context.Background(), cart.CartItem{
		BuyerID:   testBuyerID,
		ProductID: productID,
		Quantity:  quantity,
	}))
}

func (s *TradeHandlerTestSuite) checkoutOverHTTP(transactionID string) web.CheckoutResp {
	t := s.T()
	req, err := http.NewRequest(http.MethodPost,
		"/checkout", iox.NewJSONReader(web.CheckoutReq{
			PaymentMethod: "mock",
			TransactionID: transactionID,
		}))
	require.NoError(t, err)
	req.Header.Set("content-type", "application/json")
	recorder := test.NewJSONResponseRecorder[web.CheckoutResp]()
	s.server.ServeHTTP(recorder, req)
	require.Equal(t, 200, recorder.Code)
	resp := recorder.MustScan()
	require.NotZero(t, resp.Data.OrderID)
	require.NotEmpty(t, resp.Data.OrderSN)
	return resp.Data
}

func (s *TradeHandlerTestSuite) webhookOverHTTP(orderID int64, transactionID, status, signature string) *test.JSONResponseRecorder[web.WebhookResp] {
	t := s.T()
	s.eventSeq++
	payload, err := json.Marshal(service.PaymentNotification{
		Provider:      testProvider,
		EventID:       fmt.Sprintf("evt-http-%d", s.eventSeq),
		OrderID:       orderID,
		TransactionID: transactionID,
		Status:        status,
		PaymentMethod: "mock",
	})
	require.NoError(t, err)
	if signature == "" {
		mac := hmac.New(sha256.New, []byte(testSecret))
		mac.Write(payload)
		signature = hex.EncodeToString(mac.Sum(nil))
	}
	// 签名盖在裸请求体上, 不能经过二次序列化
	req, err := http.NewRequest(http.MethodPost,
		"/payments/webhook", bytes.NewReader(payload))
	require.NoError(t, err)
	req.Header.Set("content-type", "application/json")
	req.Header.Set(web.SignatureHeader, signature)
	recorder := test.NewJSONResponseRecorder[web.WebhookResp]()
	s.server.ServeHTTP(recorder, req)
	return recorder
}

func (s *TradeHandlerTestSuite) orderDetailOverHTTP(orderSN string) web.Order {
	t := s.T()
	req, err := http.NewRequest(http.MethodPost,
		"/order/detail", iox.NewJSONReader(web.OrderSNReq{OrderSN: orderSN}))
	require.NoError(t, err)
	req.Header.Set("content-type", "application/json")
	recorder := test.NewJSONResponseRecorder[web.Order]()
	s.server.ServeHTTP(recorder, req)
	require.Equal(t, 200, recorder.Code)
	return recorder.MustScan().Data
}

func (s *TradeHandlerTestSuite) TestHandler_Checkout() {
	t := s.T()
	pa := s.seedProduct(testSellerA, 990, 10)
	pb := s.seedProduct(testSellerB, 2500, 5)
	s.addCart(pa, 2)
	s.addCart(pb, 1)

	resp := s.checkoutOverHTTP("txn-http-checkout-1")

	detail := s.orderDetailOverHTTP(resp.OrderSN)
	assert.Equal(t, resp.OrderID, detail.ID)
	assert.Equal(t, int64(990*2+2500), detail.TotalAmount)
	assert.Equal(t, trade.OrderStatusCreated.ToUint8(), detail.Status)
	require.Len(t, detail.SubOrders, 2)
	assert.Equal(t, testSellerA, detail.SubOrders[0].SellerID)
	require.Len(t, detail.SubOrders[0].Items, 1)
	assert.Equal(t, int64(990), detail.SubOrders[0].Items[0].UnitPriceSnapshot)
	for _, sub := range detail.SubOrders {
		assert.Equal(t, trade.SubOrderStatusPendingPayment.ToUint8(), sub.Status)
	}
}

func (s *TradeHandlerTestSuite) TestHandler_CheckoutFailed() {
	pa := s.seedProduct(testSellerA, 990, 10)
	s.addCart(pa, 2)
	s.checkoutOverHTTP("txn-http-replay-1")

	testCases := []struct {
		name          string
		transactionID string
		wantCode      int
		wantBizCode   int
	}{
		{
			name:          "重复的交易ID",
			transactionID: "txn-http-replay-1",
			wantCode:      500,
			wantBizCode:   errs.InvalidInput.Code,
		},
		{
			name:          "购物车为空",
			transactionID: "txn-http-replay-2",
			wantCode:      500,
			wantBizCode:   errs.CheckoutConflict.Code,
		},
	}
	for _, tc := range testCases {
		s.T().Run(tc.name, func(t *testing.T) {
			req, err := http.NewRequest(http.MethodPost,
				"/checkout", iox.NewJSONReader(web.CheckoutReq{
					PaymentMethod: "mock",
					TransactionID: tc.transactionID,
				}))
			require.NoError(t, err)
			req.Header.Set("content-type", "application/json")
			recorder := test.NewJSONResponseRecorder[any]()
			s.server.ServeHTTP(recorder, req)
			require.Equal(t, tc.wantCode, recorder.Code)
			assert.Equal(t, tc.wantBizCode, recorder.MustScan().Code)
		})
	}
}

func (s *TradeHandlerTestSuite) TestHandler_Webhook() {
	t := s.T()
	pa := s.seedProduct(testSellerA, 990, 10)
	s.addCart(pa, 2)
	resp := s.checkoutOverHTTP("txn-http-webhook-1")

	recorder := s.webhookOverHTTP(resp.OrderID, "txn-http-webhook-1", "succeeded", "")
	require.Equal(t, 200, recorder.Code)
	assert.Equal(t, test.Result[web.WebhookResp]{
		Data: web.WebhookResp{OK: true},
	}, recorder.MustScan())

	detail := s.orderDetailOverHTTP(resp.OrderSN)
	assert.Equal(t, trade.OrderStatusPaid.ToUint8(), detail.Status)
}

func (s *TradeHandlerTestSuite) TestHandler_WebhookBadSignature() {
	t := s.T()
	pa := s.seedProduct(testSellerA, 990, 10)
	s.addCart(pa, 1)
	resp := s.checkoutOverHTTP("txn-http-badsig-1")

	recorder := s.webhookOverHTTP(resp.OrderID, "txn-http-badsig-1", "succeeded", "deadbeef")
	require.Equal(t, 500, recorder.Code)
	assert.Equal(t, test.Result[web.WebhookResp]{
		Code: errs.InvalidSignature.Code,
		Msg:  errs.InvalidSignature.Msg,
	}, recorder.MustScan())

	// 签名不过, 订单保持未支付
	detail := s.orderDetailOverHTTP(resp.OrderSN)
	assert.Equal(t, trade.OrderStatusCreated.ToUint8(), detail.Status)
}

func (s *TradeHandlerTestSuite) TestHandler_RequestRefund() {
	t := s.T()
	pa := s.seedProduct(testSellerA, 990, 10)
	s.addCart(pa, 2)
	resp := s.checkoutOverHTTP("txn-http-refund-1")
	recorder := s.webhookOverHTTP(resp.OrderID, "txn-http-refund-1", "succeeded", "")
	require.Equal(t, 200, recorder.Code)

	detail := s.orderDetailOverHTTP(resp.OrderSN)
	require.Len(t, detail.SubOrders, 1)
	subOrderID := detail.SubOrders[0].ID

	req, err := http.NewRequest(http.MethodPost,
		"/refund/request", iox.NewJSONReader(web.RequestRefundReq{
			SubOrderID:      subOrderID,
			Reason:          "商品与描述不符",
			RequestedAmount: 990,
		}))
	require.NoError(t, err)
	req.Header.Set("content-type", "application/json")
	refundRecorder := test.NewJSONResponseRecorder[web.RequestRefundResp]()
	s.server.ServeHTTP(refundRecorder, req)
	require.Equal(t, 200, refundRecorder.Code)
	require.NotZero(t, refundRecorder.MustScan().Data.RefundID)

	detail = s.orderDetailOverHTTP(resp.OrderSN)
	assert.Equal(t, trade.SubOrderStatusRefundRequested.ToUint8(), detail.SubOrders[0].Status)

	// 同一子订单的在途退款只允许一笔
	req, err = http.NewRequest(http.MethodPost,
		"/refund/request", iox.NewJSONReader(web.RequestRefundReq{
			SubOrderID:      subOrderID,
			Reason:          "再次申请",
			RequestedAmount: 990,
		}))
	require.NoError(t, err)
	req.Header.Set("content-type", "application/json")
	dupRecorder := test.NewJSONResponseRecorder[any]()
	s.server.ServeHTTP(dupRecorder, req)
	require.Equal(t, 500, dupRecorder.Code)
	assert.Equal(t, errs.RefundConflict.Code, dupRecorder.MustScan().Code)
}
