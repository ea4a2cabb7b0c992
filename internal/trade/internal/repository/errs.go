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

import "github.com/ecodeclub/mall/internal/trade/internal/repository/dao"

// 上层只依赖repository层的哨兵错误, 不直接感知dao
var (
	ErrOrderNotFound             = dao.ErrOrderNotFound
	ErrSubOrderNotFound          = dao.ErrSubOrderNotFound
	ErrRefundNotFound            = dao.ErrRefundNotFound
	ErrWebhookEventNotFound      = dao.ErrWebhookEventNotFound
	ErrInsufficientStock         = dao.ErrInsufficientStock
	ErrDuplicateRefund           = dao.ErrDuplicateRefund
	ErrRefundNotPending          = dao.ErrRefundNotPending
	ErrRecordChangedConcurrently = dao.ErrRecordChangedConcurrently
)
