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

package trade

import (
	"time"

	"github.com/ecodeclub/mall/internal/trade/internal/domain"
	"github.com/ecodeclub/mall/internal/trade/internal/job"
	"github.com/ecodeclub/mall/internal/trade/internal/service"
	"github.com/ecodeclub/mall/internal/trade/internal/web"
)

type (
	Handler               = web.Handler
	SellerHandler         = web.SellerHandler
	AdminHandler          = web.AdminHandler
	WebhookHandler        = web.WebhookHandler
	OrderService          = service.OrderService
	PaymentService        = service.PaymentService
	RefundService         = service.RefundService
	PaymentNotification   = service.PaymentNotification
	Order                 = domain.Order
	SubOrder              = domain.SubOrder
	OrderStatus           = domain.OrderStatus
	SubOrderStatus        = domain.SubOrderStatus
	CloseExpiredOrdersJob = job.CloseExpiredOrdersJob
)

const (
	OrderStatusCreated          = domain.OrderStatusCreated
	OrderStatusPaid             = domain.OrderStatusPaid
	OrderStatusPartiallyShipped = domain.OrderStatusPartiallyShipped
	OrderStatusCompleted        = domain.OrderStatusCompleted
	OrderStatusCancelled        = domain.OrderStatusCancelled
	OrderStatusRefunded         = domain.OrderStatusRefunded

	SubOrderStatusPendingPayment  = domain.SubOrderStatusPendingPayment
	SubOrderStatusPaid            = domain.SubOrderStatusPaid
	SubOrderStatusShipped         = domain.SubOrderStatusShipped
	SubOrderStatusDelivered       = domain.SubOrderStatusDelivered
	SubOrderStatusCancelled       = domain.SubOrderStatusCancelled
	SubOrderStatusRefundRequested = domain.SubOrderStatusRefundRequested
	SubOrderStatusRefunded        = domain.SubOrderStatusRefunded
)

// Config 交易模块的外置配置, 来自config文件的trade段
type Config struct {
	// WebhookSecret 支付通知HMAC密钥
	WebhookSecret string
	// RefundWindow delivered状态允许发起退款的窗口期
	RefundWindow time.Duration
	// CloseExpiredLimit 关单任务每批处理的订单数
	CloseExpiredLimit int
	// CloseExpiredMinutes 创建后多少分钟未支付视为过期
	CloseExpiredMinutes int64
}

type Module struct {
	Hdl        *Handler
	SellerHdl  *SellerHandler
	AdminHdl   *AdminHandler
	WebhookHdl *WebhookHandler
	OrderSvc   OrderService
	PaymentSvc PaymentService
	RefundSvc  RefundService
	CloseJob   *CloseExpiredOrdersJob
}
