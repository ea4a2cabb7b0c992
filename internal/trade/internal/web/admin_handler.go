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

// AdminHandler 管理端, 挂在带管理权限校验的服务上
type AdminHandler struct {
	refundSvc  service.RefundService
	paymentSvc service.PaymentService
}

func NewAdminHandler(refundSvc service.RefundService, paymentSvc service.PaymentService) *AdminHandler {
	return &AdminHandler{refundSvc: refundSvc, paymentSvc: paymentSvc}
}

func (h *AdminHandler) PrivateRoutes(server *gin.Engine) {
	g := server.Group("/trade")
	g.POST("/refund/force", ginx.BS[ForceRefundReq](h.ForceRefund))
	g.POST("/payment/reconcile", ginx.BS[ReconcileReq](h.Reconcile))
}

func (h *AdminHandler) PublicRoutes(_ *gin.Engine) {}

func (h *AdminHandler) ForceRefund(ctx *ginx.Context, req ForceRefundReq, sess session.Session) (ginx.Result, error) {
	err := h.refundSvc.ForceRefund(ctx.Request.Context(), sess.Claims().Uid, req.RefundID, req.Reason)
	if err != nil {
		return errResult(err), fmt.Errorf("强制退款失败: %w", err)
	}
	return ginx.Result{Msg: "OK"}, nil
}

func (h *AdminHandler) Reconcile(ctx *ginx.Context, req ReconcileReq, _ session.Session) (ginx.Result, error) {
	res, err := h.paymentSvc.Reconcile(ctx.Request.Context(), req.OrderID)
	if err != nil {
		return errResult(err), fmt.Errorf("对账失败: %w", err)
	}
	return ginx.Result{
		Data: ReconcileResp{
			OK:        res.OK,
			Processed: res.Processed,
			Reason:    res.Reason,
		},
	}, nil
}
