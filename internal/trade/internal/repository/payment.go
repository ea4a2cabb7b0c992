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

	"github.com/ecodeclub/mall/internal/trade/internal/domain"
	"github.com/ecodeclub/mall/internal/trade/internal/repository/dao"
)

type PaymentRepository interface {
	ProcessPaymentSuccess(ctx context.Context, orderID int64, transactionID, method string) error
	MarkPaymentTerminal(ctx context.Context, orderID int64, transactionID, method string, status domain.PaymentStatus) error
	FindPayment(ctx context.Context, orderID int64, transactionID string) (domain.Payment, error)
	StoreWebhookEvent(ctx context.Context, evt domain.WebhookEvent) (bool, error)
	FindLatestWebhookEventByOrderID(ctx context.Context, orderID int64) (domain.WebhookEvent, error)
}

func NewPaymentRepository(d dao.PaymentDAO) PaymentRepository {
	return &paymentRepository{d: d}
}

type paymentRepository struct {
	d dao.PaymentDAO
}

func (p *paymentRepository) ProcessPaymentSuccess(ctx context.Context, orderID int64, transactionID, method string) error {
	return p.d.ProcessPaymentSuccess(ctx, orderID, transactionID, method)
}

func (p *paymentRepository) MarkPaymentTerminal(ctx context.Context, orderID int64, transactionID, method string, status domain.PaymentStatus) error {
	return p.d.MarkPaymentTerminal(ctx, orderID, transactionID, method, status.ToUint8())
}

func (p *paymentRepository) FindPayment(ctx context.Context, orderID int64, transactionID string) (domain.Payment, error) {
	pmt, err := p.d.FindPayment(ctx, orderID, transactionID)
	if err != nil {
		return domain.Payment{}, err
	}
	return domain.Payment{
		ID:            pmt.Id,
		OrderID:       pmt.OrderId,
		TransactionID: pmt.TransactionId,
		Method:        pmt.Method,
		Status:        domain.PaymentStatus(pmt.Status),
		Ctime:         pmt.Ctime,
		Utime:         pmt.Utime,
	}, nil
}

func (p *paymentRepository) StoreWebhookEvent(ctx context.Context, evt domain.WebhookEvent) (bool, error) {
	return p.d.StoreWebhookEvent(ctx, dao.WebhookEvent{
		Provider:      evt.Provider,
		EventId:       evt.EventID,
		OrderId:       evt.OrderID,
		TransactionId: evt.TransactionID,
		RawPayload:    evt.RawPayload,
		ReceivedAt:    evt.ReceivedAt,
	})
}

func (p *paymentRepository) FindLatestWebhookEventByOrderID(ctx context.Context, orderID int64) (domain.WebhookEvent, error) {
	evt, err := p.d.FindLatestWebhookEventByOrderID(ctx, orderID)
	if err != nil {
		return domain.WebhookEvent{}, err
	}
	return domain.WebhookEvent{
		ID:            evt.Id,
		Provider:      evt.Provider,
		EventID:       evt.EventId,
		OrderID:       evt.OrderId,
		TransactionID: evt.TransactionId,
		RawPayload:    evt.RawPayload,
		ReceivedAt:    evt.ReceivedAt,
	}, nil
}
