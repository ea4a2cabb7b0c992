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
	"github.com/ecodeclub/mall/internal/audit/internal/domain"
	"github.com/ecodeclub/mall/internal/audit/internal/repository/dao"
)

type AuditRepository interface {
	Create(ctx context.Context, l domain.Log) (int64, error)
	ListByBiz(ctx context.Context, biz string, bizID int64) ([]domain.Log, error)
}

func NewAuditRepository(d dao.AuditDAO) AuditRepository {
	return &auditRepository{d: d}
}

type auditRepository struct {
	d dao.AuditDAO
}

func (a *auditRepository) Create(ctx context.Context, l domain.Log) (int64, error) {
	return a.d.Create(ctx, dao.AuditLog{
		OperatorId: l.OperatorID,
		Action:     l.Action,
		Biz:        l.Biz,
		BizId:      l.BizID,
		Detail:     l.Detail,
	})
}

func (a *auditRepository) ListByBiz(ctx context.Context, biz string, bizID int64) ([]domain.Log, error) {
	logs, err := a.d.ListByBiz(ctx, biz, bizID)
	if err != nil {
		return nil, err
	}
	return slice.Map(logs, func(idx int, src dao.AuditLog) domain.Log {
		return domain.Log{
			ID:         src.Id,
			OperatorID: src.OperatorId,
			Action:     src.Action,
			Biz:        src.Biz,
			BizID:      src.BizId,
			Detail:     src.Detail,
			Ctime:      src.Ctime,
		}
	}), nil
}
