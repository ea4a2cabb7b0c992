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
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ecodeclub/mall/internal/trade/internal/domain"
	"github.com/ecodeclub/mall/internal/trade/internal/event"
	"github.com/ecodeclub/mall/internal/trade/internal/repository"
	"github.com/gotomicro/ego/core/elog"
)

var (
	ErrInvalidSignature     = errors.New("支付通知签名非法")
	ErrInvalidNotification  = errors.New("支付通知载荷非法")
	ErrUnknownPaymentStatus = errors.New("未知的支付状态")
)

const (
	paymentStatusSucceeded = "succeeded"
	paymentStatusFailed    = "failed"
	paymentStatusCancelled = "cancelled"
)

// PaymentNotification 模拟PSP的回调载荷, (provider, eventID)是重放去重键
type PaymentNotification struct {
	Provider      string `json:"provider"`
	EventID       string `json:"eventId"`
	OrderID       int64  `json:"orderId"`
	TransactionID string `json:"transactionId"`
	Status        string `json:"status"`
	PaymentMethod string `json:"paymentMethod"`
}

// ReconcileResult 手动对账结果, 没有可重放事件不算失败
type ReconcileResult struct {
	OK        bool
	Processed bool
	Reason    string
}

type PaymentService interface {
	// HandleWebhook 校验签名, 落事件记录, 再走幂等处理, 同一事件重放等价于一次成功
	HandleWebhook(ctx context.Context, payload []byte, signature string) error
	// ProcessPaymentEvent 对同一(orderID, transactionID)重复调用不产生额外效果
	ProcessPaymentEvent(ctx context.Context, n PaymentNotification) error
	Reconcile(ctx context.Context, orderID int64) (ReconcileResult, error)
	FindPayment(ctx context.Context, orderID int64, transactionID string) (domain.Payment, error)
}

func NewPaymentService(repo repository.PaymentRepository,
	orderRepo repository.OrderRepository,
	producer event.OrderPaidEventProducer,
	webhookSecret string) PaymentService {
	return &paymentService{
		repo:          repo,
		orderRepo:     orderRepo,
		producer:      producer,
		webhookSecret: []byte(webhookSecret),
		logger:        elog.DefaultLogger,
	}
}

type paymentService struct {
	repo          repository.PaymentRepository
	orderRepo     repository.OrderRepository
	producer      event.OrderPaidEventProducer
	webhookSecret []byte
	logger        *elog.Component
}

func (s *paymentService) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	if !s.verifySignature(payload, signature) {
		return ErrInvalidSignature
	}
	var n PaymentNotification
	if err := json.Unmarshal(payload, &n); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidNotification, err)
	}
	if err := n.validate(); err != nil {
		return err
	}
	_, err := s.repo.StoreWebhookEvent(ctx, domain.WebhookEvent{
		Provider:      n.Provider,
		EventID:       n.EventID,
		OrderID:       n.OrderID,
		TransactionID: n.TransactionID,
		RawPayload:    string(payload),
		ReceivedAt:    time.Now().UnixMilli(),
	})
	if err != nil {
		return fmt.Errorf("持久化支付通知失败: %w", err)
	}
	// 重复事件照常处理, 处理本身是幂等的
	return s.ProcessPaymentEvent(ctx, n)
}

func (s *paymentService) ProcessPaymentEvent(ctx context.Context, n PaymentNotification) error {
	switch n.Status {
	case paymentStatusSucceeded:
		if err := s.repo.ProcessPaymentSuccess(ctx, n.OrderID, n.TransactionID, n.PaymentMethod); err != nil {
			return err
		}
		s.produceOrderPaidEvent(ctx, n)
		return nil
	case paymentStatusFailed:
		return s.repo.MarkPaymentTerminal(ctx, n.OrderID, n.TransactionID, n.PaymentMethod, domain.PaymentStatusFailed)
	case paymentStatusCancelled:
		return s.repo.MarkPaymentTerminal(ctx, n.OrderID, n.TransactionID, n.PaymentMethod, domain.PaymentStatusCancelled)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownPaymentStatus, n.Status)
	}
}

func (s *paymentService) Reconcile(ctx context.Context, orderID int64) (ReconcileResult, error) {
	evt, err := s.repo.FindLatestWebhookEventByOrderID(ctx, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrWebhookEventNotFound) {
			return ReconcileResult{OK: true, Processed: false, Reason: "该订单没有可重放的支付通知"}, nil
		}
		return ReconcileResult{}, err
	}
	var n PaymentNotification
	if err := json.Unmarshal([]byte(evt.RawPayload), &n); err != nil {
		return ReconcileResult{OK: true, Processed: false, Reason: "支付通知载荷无法解析"}, nil
	}
	if err := n.validate(); err != nil {
		return ReconcileResult{OK: true, Processed: false, Reason: err.Error()}, nil
	}
	if err := s.ProcessPaymentEvent(ctx, n); err != nil {
		return ReconcileResult{}, err
	}
	return ReconcileResult{OK: true, Processed: true}, nil
}

func (s *paymentService) FindPayment(ctx context.Context, orderID int64, transactionID string) (domain.Payment, error) {
	return s.repo.FindPayment(ctx, orderID, transactionID)
}

func (s *paymentService) verifySignature(payload []byte, signature string) bool {
	mac := hmac.New(sha256.New, s.webhookSecret)
	mac.Write(payload)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

// produceOrderPaidEvent 发消息失败只记日志, 支付结果已落库不回滚
func (s *paymentService) produceOrderPaidEvent(ctx context.Context, n PaymentNotification) {
	order, err := s.orderRepo.FindOrderByID(ctx, n.OrderID)
	if err != nil {
		s.logger.Error("加载已支付订单失败", elog.FieldErr(err), elog.Int64("orderID", n.OrderID))
		return
	}
	subs := make([]event.SubOrderDetail, 0, len(order.SubOrders))
	for _, sub := range order.SubOrders {
		subs = append(subs, event.SubOrderDetail{
			SN:       sub.SN,
			SellerID: sub.SellerID,
			Subtotal: sub.Subtotal,
		})
	}
	err = s.producer.Produce(ctx, event.OrderPaidEvent{
		OrderSN:       order.SN,
		BuyerID:       order.BuyerID,
		TransactionID: n.TransactionID,
		TotalAmount:   order.TotalAmount,
		SubOrders:     subs,
	})
	if err != nil {
		s.logger.Error("发送订单支付成功事件失败", elog.FieldErr(err), elog.String("orderSN", order.SN))
	}
}

func (n PaymentNotification) validate() error {
	if n.Provider == "" || n.EventID == "" || n.OrderID <= 0 ||
		len(n.TransactionID) < minTransactionIDLen || n.Status == "" {
		return ErrInvalidNotification
	}
	return nil
}
