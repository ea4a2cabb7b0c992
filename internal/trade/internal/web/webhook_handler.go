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
	"errors"
	"fmt"

	"github.com/ecodeclub/ginx"
	"github.com/ecodeclub/mall/internal/trade/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/gotomicro/ego/core/elog"
)

var _ ginx.Handler = &WebhookHandler{}

// SignatureHeader 模拟PSP对裸请求体的HMAC-SHA256十六进制签名
const SignatureHeader = "X-Payment-Signature"

// WebhookHandler 支付通知回调, 无会话, 身份由签名保证
type WebhookHandler struct {
	paymentSvc service.PaymentService
	logger     *elog.Component
}

func NewWebhookHandler(paymentSvc service.PaymentService) *WebhookHandler {
	return &WebhookHandler{
		paymentSvc: paymentSvc,
		logger:     elog.DefaultLogger,
	}
}

func (h *WebhookHandler) PrivateRoutes(_ *gin.Engine) {}

func (h *WebhookHandler) PublicRoutes(server *gin.Engine) {
	server.POST("/payments/webhook", ginx.W(h.HandleWebhook))
}

func (h *WebhookHandler) HandleWebhook(ctx *ginx.Context) (ginx.Result, error) {
	payload, err := ctx.GetRawData()
	if err != nil {
		return systemErrorResult, fmt.Errorf("读取通知请求体失败: %w", err)
	}
	signature := ctx.GetHeader(SignatureHeader)
	err = h.paymentSvc.HandleWebhook(ctx.Request.Context(), payload, signature)
	if errors.Is(err, service.ErrInvalidSignature) {
		return invalidSignatureResult, err
	}
	if err != nil {
		return errResult(err), fmt.Errorf("处理支付通知失败: %w", err)
	}
	return ginx.Result{
		Data: WebhookResp{OK: true},
	}, nil
}
