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

	"github.com/ecodeclub/mall/internal/product/internal/domain"
	"github.com/ecodeclub/mall/internal/product/internal/repository"
)

type Service interface {
	FindBySN(ctx context.Context, sn string) (domain.Product, error)
	// FindByIDs 供交易侧做价格与库存校验, 直达数据库
	FindByIDs(ctx context.Context, ids []int64) ([]domain.Product, error)
	Save(ctx context.Context, p domain.Product) (int64, error)
	UpdateStatus(ctx context.Context, id, sellerID int64, status domain.Status) error
	ListBySellerID(ctx context.Context, offset, limit int, sellerID int64) ([]domain.Product, error)
}

func NewService(repo repository.ProductRepository) Service {
	return &service{repo: repo}
}

type service struct {
	repo repository.ProductRepository
}

func (s *service) FindBySN(ctx context.Context, sn string) (domain.Product, error) {
	return s.repo.FindBySN(ctx, sn)
}

func (s *service) FindByIDs(ctx context.Context, ids []int64) ([]domain.Product, error) {
	return s.repo.FindByIDs(ctx, ids)
}

func (s *service) Save(ctx context.Context, p domain.Product) (int64, error) {
	return s.repo.Save(ctx, p)
}

func (s *service) UpdateStatus(ctx context.Context, id, sellerID int64, status domain.Status) error {
	return s.repo.UpdateStatus(ctx, id, sellerID, status)
}

func (s *service) ListBySellerID(ctx context.Context, offset, limit int, sellerID int64) ([]domain.Product, error) {
	return s.repo.ListBySellerID(ctx, offset, limit, sellerID)
}
