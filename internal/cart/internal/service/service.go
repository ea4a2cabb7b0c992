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
	"fmt"

	"github.com/ecodeclub/mall/internal/cart/internal/domain"
	"github.com/ecodeclub/mall/internal/cart/internal/repository"
	"github.com/ecodeclub/mall/internal/product"
)

var (
	ErrInvalidQuantity  = fmt.Errorf("加购数量非法")
	ErrProductNotOnSale = fmt.Errorf("商品不在售")
)

type Service interface {
	AddItem(ctx context.Context, item domain.CartItem) error
	UpdateQuantity(ctx context.Context, buyerID, productID, quantity int64) error
	RemoveItem(ctx context.Context, buyerID, productID int64) error
	ListByBuyerID(ctx context.Context, buyerID int64) ([]domain.CartItem, error)
	Clear(ctx context.Context, buyerID int64) error
}

func NewService(repo repository.CartRepository, productSvc product.Service) Service {
	return &service{repo: repo, productSvc: productSvc}
}

type service struct {
	repo       repository.CartRepository
	productSvc product.Service
}

func (s *service) AddItem(ctx context.Context, item domain.CartItem) error {
	if item.Quantity < 1 {
		return ErrInvalidQuantity
	}
	ps, err := s.productSvc.FindByIDs(ctx, []int64{item.ProductID})
	if err != nil {
		return fmt.Errorf("查找商品失败: %w", err)
	}
	if len(ps) == 0 || ps[0].Status != product.StatusOnShelf {
		return fmt.Errorf("%w: 商品ID=%d", ErrProductNotOnSale, item.ProductID)
	}
	return s.repo.AddItem(ctx, item)
}

func (s *service) UpdateQuantity(ctx context.Context, buyerID, productID, quantity int64) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}
	return s.repo.UpdateQuantity(ctx, buyerID, productID, quantity)
}

func (s *service) RemoveItem(ctx context.Context, buyerID, productID int64) error {
	return s.repo.RemoveItem(ctx, buyerID, productID)
}

func (s *service) ListByBuyerID(ctx context.Context, buyerID int64) ([]domain.CartItem, error) {
	return s.repo.ListByBuyerID(ctx, buyerID)
}

func (s *service) Clear(ctx context.Context, buyerID int64) error {
	return s.repo.Clear(ctx, buyerID)
}
