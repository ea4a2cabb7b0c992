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

package event

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ecodeclub/mq-api"
)

type OrderPaidEventProducer interface {
	Produce(ctx context.Context, evt OrderPaidEvent) error
}

type orderPaidEventProducer struct {
	producer mq.Producer
}

func NewOrderPaidEventProducer(q mq.MQ) (OrderPaidEventProducer, error) {
	p, err := q.Producer(OrderPaidEventName)
	if err != nil {
		return nil, err
	}
	return &orderPaidEventProducer{p}, nil
}

func (s *orderPaidEventProducer) Produce(ctx context.Context, evt OrderPaidEvent) error {
	data, err := json.Marshal(&evt)
	if err != nil {
		return fmt.Errorf("序列化失败: %w", err)
	}
	_, err = s.producer.Produce(ctx, &mq.Message{
		Value: data,
	})
	return err
}

type RefundCompletedEventProducer interface {
	Produce(ctx context.Context, evt RefundCompletedEvent) error
}

type refundCompletedEventProducer struct {
	producer mq.Producer
}

func NewRefundCompletedEventProducer(q mq.MQ) (RefundCompletedEventProducer, error) {
	p, err := q.Producer(RefundCompletedEventName)
	if err != nil {
		return nil, err
	}
	return &refundCompletedEventProducer{p}, nil
}

func (s *refundCompletedEventProducer) Produce(ctx context.Context, evt RefundCompletedEvent) error {
	data, err := json.Marshal(&evt)
	if err != nil {
		return fmt.Errorf("序列化失败: %w", err)
	}
	_, err = s.producer.Produce(ctx, &mq.Message{
		Value: data,
	})
	return err
}
