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
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ecodeclub/mall/internal/audit"
	"github.com/ecodeclub/mall/internal/trade/internal/domain"
	"github.com/ecodeclub/mall/internal/trade/internal/event"
	"github.com/ecodeclub/mall/internal/trade/internal/repository"
	"github.com/gotomicro/ego/core/elog"
)

var (
	ErrRefundWindowExpired = errors.New("已过退款申请窗口期")
	ErrInvalidRefundAmount = errors.New("退款金额非法")
)

const auditBizRefund = "refund"

type RefundService interface {
	// RequestRefund 子订单须处于paid/shipped/delivered, delivered状态有窗口期限制
	RequestRefund(ctx context.Context, buyerID, subOrderID int64, reason string, requestedAmount int64) (domain.RefundRequest, error)
	// Approve approvedAmount为0时默认等于申请金额, 不得超过申请金额
	Approve(ctx context.Context, sellerID, refundID, approvedAmount int64) error
	Reject(ctx context.Context, sellerID, refundID int64, note string) error
	// ForceRefund 管理员旁路, 不校验状态机, 只要退款存在就强制终态
	ForceRefund(ctx context.Context, adminID, refundID int64, reason string) error
	FindRefund(ctx context.Context, refundID int64) (domain.RefundRequest, error)
}

func NewRefundService(repo repository.RefundRepository,
	orderRepo repository.OrderRepository,
	auditSvc audit.Service,
	producer event.RefundCompletedEventProducer,
	refundWindow time.Duration) RefundService {
	return &refundService{
		repo:         repo,
		orderRepo:    orderRepo,
		auditSvc:     auditSvc,
		producer:     producer,
		refundWindow: refundWindow,
		logger:       elog.DefaultLogger,
	}
}

type refundService struct {
	repo         repository.RefundRepository
	orderRepo    repository.OrderRepository
	auditSvc     audit.Service
	producer     event.RefundCompletedEventProducer
	refundWindow time.Duration
	logger       *elog.Component
}

func (s *refundService) RequestRefund(ctx context.Context, buyerID, subOrderID int64, reason string, requestedAmount int64) (domain.RefundRequest, error) {
	sub, err := s.findSubOrder(ctx, subOrderID)
	if err != nil {
		return domain.RefundRequest{}, err
	}
	order, err := s.orderRepo.FindOrderByID(ctx, sub.OrderID)
	if err != nil {
		return domain.RefundRequest{}, err
	}
	if order.BuyerID != buyerID {
		return domain.RefundRequest{}, fmt.Errorf("%w: 子订单ID=%d", ErrPermissionDenied, subOrderID)
	}
	if requestedAmount <= 0 || requestedAmount > sub.Subtotal {
		return domain.RefundRequest{}, fmt.Errorf("%w: %d", ErrInvalidRefundAmount, requestedAmount)
	}
	if sub.Status == domain.SubOrderStatusDelivered &&
		time.Now().UnixMilli()-sub.DeliveredAt > s.refundWindow.Milliseconds() {
		return domain.RefundRequest{}, fmt.Errorf("%w: 子订单ID=%d", ErrRefundWindowExpired, subOrderID)
	}
	created, err := s.repo.CreateRefundRequest(ctx, domain.RefundRequest{
		OrderID:         sub.OrderID,
		SubOrderID:      subOrderID,
		BuyerID:         buyerID,
		Reason:          reason,
		RequestedAmount: requestedAmount,
	})
	if err != nil {
		return domain.RefundRequest{}, err
	}
	s.record(ctx, buyerID, "request_refund", created.ID, map[string]any{
		"subOrderID":      subOrderID,
		"oldStatus":       sub.Status.String(),
		"newStatus":       domain.SubOrderStatusRefundRequested.String(),
		"requestedAmount": requestedAmount,
		"reason":          reason,
	})
	return created, nil
}

func (s *refundService) Approve(ctx context.Context, sellerID, refundID, approvedAmount int64) error {
	refund, sub, err := s.loadOwnedRefund(ctx, sellerID, refundID)
	if err != nil {
		return err
	}
	if approvedAmount == 0 {
		approvedAmount = refund.RequestedAmount
	}
	if approvedAmount < 0 || approvedAmount > refund.RequestedAmount {
		return fmt.Errorf("%w: %d", ErrInvalidRefundAmount, approvedAmount)
	}
	if err := s.repo.ApproveRefund(ctx, refundID, approvedAmount); err != nil {
		return err
	}
	s.record(ctx, sellerID, "approve_refund", refundID, map[string]any{
		"subOrderID":     refund.SubOrderID,
		"oldStatus":      sub.Status.String(),
		"newStatus":      domain.SubOrderStatusRefunded.String(),
		"approvedAmount": approvedAmount,
	})
	s.produceRefundCompletedEvent(ctx, refund, sub, approvedAmount, false)
	return nil
}

func (s *refundService) Reject(ctx context.Context, sellerID, refundID int64, note string) error {
	refund, sub, err := s.loadOwnedRefund(ctx, sellerID, refundID)
	if err != nil {
		return err
	}
	restored, err := s.repo.RejectRefund(ctx, refundID)
	if err != nil {
		return err
	}
	s.record(ctx, sellerID, "reject_refund", refundID, map[string]any{
		"subOrderID": refund.SubOrderID,
		"oldStatus":  sub.Status.String(),
		"newStatus":  restored.Status.String(),
		"note":       note,
	})
	return nil
}

func (s *refundService) ForceRefund(ctx context.Context, adminID, refundID int64, reason string) error {
	refund, err := s.repo.FindRefundByID(ctx, refundID)
	if err != nil {
		return err
	}
	sub, err := s.findSubOrder(ctx, refund.SubOrderID)
	if err != nil {
		return err
	}
	if err := s.repo.ForceRefund(ctx, refundID); err != nil {
		return err
	}
	approved := refund.ApprovedAmount
	if approved == 0 {
		approved = refund.RequestedAmount
	}
	s.record(ctx, adminID, "force_refund", refundID, map[string]any{
		"subOrderID": refund.SubOrderID,
		"oldStatus":  sub.Status.String(),
		"newStatus":  domain.SubOrderStatusRefunded.String(),
		"amount":     approved,
		"reason":     reason,
	})
	s.produceRefundCompletedEvent(ctx, refund, sub, approved, true)
	return nil
}

func (s *refundService) FindRefund(ctx context.Context, refundID int64) (domain.RefundRequest, error) {
	return s.repo.FindRefundByID(ctx, refundID)
}

func (s *refundService) loadOwnedRefund(ctx context.Context, sellerID, refundID int64) (domain.RefundRequest, domain.SubOrder, error) {
	refund, err := s.repo.FindRefundByID(ctx, refundID)
	if err != nil {
		return domain.RefundRequest{}, domain.SubOrder{}, err
	}
	sub, err := s.findSubOrder(ctx, refund.SubOrderID)
	if err != nil {
		return domain.RefundRequest{}, domain.SubOrder{}, err
	}
	if sub.SellerID != sellerID {
		return domain.RefundRequest{}, domain.SubOrder{},
			fmt.Errorf("%w: 退款ID=%d", ErrPermissionDenied, refundID)
	}
	return refund, sub, nil
}

func (s *refundService) findSubOrder(ctx context.Context, subOrderID int64) (domain.SubOrder, error) {
	return s.orderRepo.FindSubOrderByID(ctx, subOrderID)
}

// record 审计失败不阻断退款流程
func (s *refundService) record(ctx context.Context, operatorID int64, action string, refundID int64, detail map[string]any) {
	data, err := json.Marshal(detail)
	if err != nil {
		s.logger.Error("序列化审计上下文失败", elog.FieldErr(err), elog.String("action", action))
		return
	}
	s.auditSvc.Record(ctx, audit.Log{
		OperatorID: operatorID,
		Action:     action,
		Biz:        auditBizRefund,
		BizID:      refundID,
		Detail:     string(data),
	})
}

func (s *refundService) produceRefundCompletedEvent(ctx context.Context, refund domain.RefundRequest, sub domain.SubOrder, amount int64, forced bool) {
	err := s.producer.Produce(ctx, event.RefundCompletedEvent{
		RefundID:       refund.ID,
		OrderID:        refund.OrderID,
		SubOrderSN:     sub.SN,
		SellerID:       sub.SellerID,
		BuyerID:        refund.BuyerID,
		ApprovedAmount: amount,
		Forced:         forced,
	})
	if err != nil {
		s.logger.Error("发送退款完成事件失败", elog.FieldErr(err), elog.Int64("refundID", refund.ID))
	}
}
