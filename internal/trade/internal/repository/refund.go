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

package repository

import (
	"context"

	"github.com/ecodeclub/ekit/slice"
	"github.com/ecodeclub/mall/internal/trade/internal/domain"
	"github.com/ecodeclub/mall/internal/trade/internal/repository/dao"
)

type RefundRepository interface {
	CreateRefundRequest(ctx context.Context, r domain.RefundRequest) (domain.RefundRequest, error)
	ApproveRefund(ctx context.Context, refundID int64, approvedAmount int64) error
	RejectRefund(ctx context.Context, refundID int64) (domain.SubOrder, error)
	ForceRefund(ctx context.Context, refundID int64) error
	FindRefundByID(ctx context.Context, id int64) (domain.RefundRequest, error)
	FindRefundsBySubOrderID(ctx context.Context, subOrderID int64) ([]domain.RefundRequest, error)
}

func NewRefundRepository(d dao.RefundDAO) RefundRepository {
	return &refundRepository{d: d}
}

type refundRepository struct {
	d dao.RefundDAO
}

func (r *refundRepository) CreateRefundRequest(ctx context.Context, req domain.RefundRequest) (domain.RefundRequest, error) {
	created, err := r.d.CreateRefundRequest(ctx, dao.RefundRequest{
		SubOrderId:      req.SubOrderID,
		BuyerId:         req.BuyerID,
		Reason:          req.Reason,
		RequestedAmount: req.RequestedAmount,
	})
	if err != nil {
		return domain.RefundRequest{}, err
	}
	return r.toDomain(created), nil
}

func (r *refundRepository) ApproveRefund(ctx context.Context, refundID int64, approvedAmount int64) error {
	return r.d.ApproveRefund(ctx, refundID, approvedAmount)
}

func (r *refundRepository) RejectRefund(ctx context.Context, refundID int64) (domain.SubOrder, error) {
	sub, err := r.d.RejectRefund(ctx, refundID)
	if err != nil {
		return domain.SubOrder{}, err
	}
	return domain.SubOrder{
		ID:       sub.Id,
		SN:       sub.SN,
		OrderID:  sub.OrderId,
		SellerID: sub.SellerId,
		Subtotal: sub.Subtotal,
		Status:   domain.SubOrderStatus(sub.Status),
	}, nil
}

func (r *refundRepository) ForceRefund(ctx context.Context, refundID int64) error {
	return r.d.ForceRefund(ctx, refundID)
}

func (r *refundRepository) FindRefundByID(ctx context.Context, id int64) (domain.RefundRequest, error) {
	req, err := r.d.FindRefundByID(ctx, id)
	if err != nil {
		return domain.RefundRequest{}, err
	}
	return r.toDomain(req), nil
}

func (r *refundRepository) FindRefundsBySubOrderID(ctx context.Context, subOrderID int64) ([]domain.RefundRequest, error) {
	rs, err := r.d.FindRefundsBySubOrderID(ctx, subOrderID)
	if err != nil {
		return nil, err
	}
	return slice.Map(rs, func(idx int, src dao.RefundRequest) domain.RefundRequest {
		return r.toDomain(src)
	}), nil
}

func (r *refundRepository) toDomain(req dao.RefundRequest) domain.RefundRequest {
	return domain.RefundRequest{
		ID:                 req.Id,
		OrderID:            req.OrderId,
		SubOrderID:         req.SubOrderId,
		BuyerID:            req.BuyerId,
		Reason:             req.Reason,
		RequestedAmount:    req.RequestedAmount,
		ApprovedAmount:     req.ApprovedAmount,
		Status:             domain.RefundStatus(req.Status),
		PrevSubOrderStatus: domain.SubOrderStatus(req.PrevSubOrderStatus),
		Ctime:              req.Ctime,
		Utime:              req.Utime,
	}
}
