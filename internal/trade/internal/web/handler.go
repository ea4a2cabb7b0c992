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

package web

import (
	"context"
	"fmt"

	"github.com/ecodeclub/ecache"
	"github.com/ecodeclub/ekit/slice"
	"github.com/ecodeclub/ginx"
	"github.com/ecodeclub/ginx/session"
	"github.com/ecodeclub/mall/internal/trade/internal/domain"
	"github.com/ecodeclub/mall/internal/trade/internal/service"
	"github.com/gin-gonic/gin"
)

var _ ginx.Handler = &Handler{}

// Handler 买家侧交易入口
type Handler struct {
	orderSvc  service.OrderService
	refundSvc service.RefundService
	cache     ecache.Cache
}

func NewHandler(orderSvc service.OrderService, refundSvc service.RefundService, cache ecache.Cache) *Handler {
	return &Handler{orderSvc: orderSvc, refundSvc: refundSvc, cache: cache}
}

func (h *Handler) PrivateRoutes(server *gin.Engine) {
	server.POST("/checkout", ginx.BS[CheckoutReq](h.Checkout))
	g := server.Group("/order")
	g.POST("/detail", ginx.BS[OrderSNReq](h.RetrieveOrderDetail))
	g.POST("/list", ginx.BS[ListOrdersReq](h.ListOrders))
	g.POST("/cancel", ginx.BS[OrderSNReq](h.CancelOrder))
	g.POST("/receive", ginx.BS[SubOrderIDReq](h.ConfirmReceipt))
	server.POST("/refund/request", ginx.BS[RequestRefundReq](h.RequestRefund))
}

func (h *Handler) PublicRoutes(_ *gin.Engine) {}

func (h *Handler) Checkout(ctx *ginx.Context, req CheckoutReq, sess session.Session) (ginx.Result, error) {
	// 同一交易ID的重复提交在进结算流程前拦掉
	if err := h.checkTransactionID(ctx.Request.Context(), req.TransactionID); err != nil {
		return errResult(err), fmt.Errorf("交易ID校验失败: %w", err)
	}
	order, err := h.orderSvc.Checkout(ctx.Request.Context(), sess.Claims().Uid, req.PaymentMethod, req.TransactionID)
	if err != nil {
		return errResult(err), fmt.Errorf("结算失败: %w", err)
	}
	return ginx.Result{
		Data: CheckoutResp{
			OrderID: order.ID,
			OrderSN: order.SN,
		},
	}, nil
}

func (h *Handler) checkTransactionID(ctx context.Context, transactionID string) error {
	if transactionID == "" {
		return service.ErrInvalidTransactionID
	}
	key := h.checkoutRequestKey(transactionID)
	val := h.cache.Get(ctx, key)
	if !val.KeyNotFound() {
		return fmt.Errorf("%w: 重复请求", service.ErrInvalidTransactionID)
	}
	if err := h.cache.Set(ctx, key, transactionID, 0); err != nil {
		return fmt.Errorf("缓存交易ID失败: %w", err)
	}
	return nil
}

func (h *Handler) checkoutRequestKey(transactionID string) string {
	return fmt.Sprintf("trade:checkout:%s", transactionID)
}

func (h *Handler) RetrieveOrderDetail(ctx *ginx.Context, req OrderSNReq, sess session.Session) (ginx.Result, error) {
	order, err := h.orderSvc.FindOrder(ctx.Request.Context(), req.OrderSN, sess.Claims().Uid)
	if err != nil {
		return errResult(err), fmt.Errorf("订单未找到: %w", err)
	}
	return ginx.Result{
		Data: toOrderVO(order),
	}, nil
}

func (h *Handler) ListOrders(ctx *ginx.Context, req ListOrdersReq, sess session.Session) (ginx.Result, error) {
	orders, total, err := h.orderSvc.ListOrders(ctx.Request.Context(), req.Offset, req.Limit, sess.Claims().Uid)
	if err != nil {
		return systemErrorResult, err
	}
	return ginx.Result{
		Data: ListOrdersResp{
			Total: total,
			Orders: slice.Map(orders, func(idx int, src domain.Order) Order {
				return toOrderVO(src)
			}),
		},
	}, nil
}

func (h *Handler) CancelOrder(ctx *ginx.Context, req OrderSNReq, sess session.Session) (ginx.Result, error) {
	err := h.orderSvc.CancelOrder(ctx.Request.Context(), req.OrderSN, sess.Claims().Uid)
	if err != nil {
		return errResult(err), fmt.Errorf("取消订单失败: %w", err)
	}
	return ginx.Result{Msg: "OK"}, nil
}

func (h *Handler) ConfirmReceipt(ctx *ginx.Context, req SubOrderIDReq, sess session.Session) (ginx.Result, error) {
	err := h.orderSvc.ConfirmReceipt(ctx.Request.Context(), req.SubOrderID, sess.Claims().Uid)
	if err != nil {
		return errResult(err), fmt.Errorf("确认收货失败: %w", err)
	}
	return ginx.Result{Msg: "OK"}, nil
}

func (h *Handler) RequestRefund(ctx *ginx.Context, req RequestRefundReq, sess session.Session) (ginx.Result, error) {
	refund, err := h.refundSvc.RequestRefund(ctx.Request.Context(), sess.Claims().Uid,
		req.SubOrderID, req.Reason, req.RequestedAmount)
	if err != nil {
		return errResult(err), fmt.Errorf("申请退款失败: %w", err)
	}
	return ginx.Result{
		Data: RequestRefundResp{RefundID: refund.ID},
	}, nil
}
