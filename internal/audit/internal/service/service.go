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

	"github.com/ecodeclub/mall/internal/audit/internal/domain"
	"github.com/ecodeclub/mall/internal/audit/internal/repository"
	"github.com/gotomicro/ego/core/elog"
)

type Service interface {
	// Record 审计失败不阻断业务操作, 只记日志
	Record(ctx context.Context, l domain.Log)
	ListByBiz(ctx context.Context, biz string, bizID int64) ([]domain.Log, error)
}

func NewService(repo repository.AuditRepository) Service {
	return &service{
		repo:   repo,
		logger: elog.DefaultLogger,
	}
}

type service struct {
	repo   repository.AuditRepository
	logger *elog.Component
}

func (s *service) Record(ctx context.Context, l domain.Log) {
	if _, err := s.repo.Create(ctx, l); err != nil {
		s.logger.Error("写入审计记录失败",
			elog.FieldErr(err),
			elog.String("action", l.Action),
			elog.Int64("operator", l.OperatorID))
	}
}

func (s *service) ListByBiz(ctx context.Context, biz string, bizID int64) ([]domain.Log, error) {
	return s.repo.ListByBiz(ctx, biz, bizID)
}
