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
	"fmt"

	"github.com/ecodeclub/ginx"
	"github.com/ecodeclub/ginx/session"
	"github.com/ecodeclub/mall/internal/trade/internal/service"
	"github.com/gin-gonic/gin"
)

var _ ginx.Handler = &SellerHandler{}

// SellerHandler 卖家侧发货与退款裁决入口
type SellerHandler struct {
	orderSvc  service.OrderService
	refundSvc service.RefundService
}

func NewSellerHandler(orderSvc service.OrderService, refundSvc service.RefundService) *SellerHandler {
	return &SellerHandler{orderSvc: orderSvc, refundSvc: refundSvc}
}

func (h *SellerHandler) PrivateRoutes(server *gin.Engine) {
	g := server.Group("/seller")
	g.POST("/order/ship", ginx.BS[SubOrderIDReq](h.Ship))
	g.POST("/refund/approve", ginx.BS[ApproveRefundReq](h.ApproveRefund))
	g.POST("/refund/reject", ginx.BS[RejectRefundReq](h.RejectRefund))
}

func (h *SellerHandler) PublicRoutes(_ *gin.Engine) {}

func (h *SellerHandler) Ship(ctx *ginx.Context, req SubOrderIDReq, sess session.Session) (ginx.Result, error) {
	err := h.orderSvc.ShipSubOrder(ctx.Request.Context(), req.SubOrderID, sess.Claims().Uid)
	if err != nil {
		return errResult(err), fmt.Errorf("发货失败: %w", err)
	}
	return ginx.Result{Msg: "OK"}, nil
}

func (h *SellerHandler) ApproveRefund(ctx *ginx.Context, req ApproveRefundReq, sess session.Session) (ginx.Result, error) {
	err := h.refundSvc.Approve(ctx.Request.Context(), sess.Claims().Uid, req.RefundID, req.ApprovedAmount)
	if err != nil {
		return errResult(err), fmt.Errorf("同意退款失败: %w", err)
	}
	return ginx.Result{Msg: "OK"}, nil
}

func (h *SellerHandler) RejectRefund(ctx *ginx.Context, req RejectRefundReq, sess session.Session) (ginx.Result, error) {
	err := h.refundSvc.Reject(ctx.Request.Context(), sess.Claims().Uid, req.RefundID, req.Note)
	if err != nil {
		return errResult(err), fmt.Errorf("拒绝退款失败: %w", err)
	}
	return ginx.Result{Msg: "OK"}, nil
}
