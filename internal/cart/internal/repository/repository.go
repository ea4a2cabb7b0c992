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
	"github.com/ecodeclub/mall/internal/cart/internal/domain"
	"github.com/ecodeclub/mall/internal/cart/internal/repository/dao"
)

type CartRepository interface {
	AddItem(ctx context.Context, item domain.CartItem) error
	UpdateQuantity(ctx context.Context, buyerID, productID, quantity int64) error
	RemoveItem(ctx context.Context, buyerID, productID int64) error
	ListByBuyerID(ctx context.Context, buyerID int64) ([]domain.CartItem, error)
	Clear(ctx context.Context, buyerID int64) error
}

func NewCartRepository(d dao.CartDAO) CartRepository {
	return &cartRepository{d: d}
}

type cartRepository struct {
	d dao.CartDAO
}

func (c *cartRepository) AddItem(ctx context.Context, item domain.CartItem) error {
	return c.d.AddItem(ctx, dao.CartItem{
		BuyerId:   item.BuyerID,
		ProductId: item.ProductID,
		Quantity:  item.Quantity,
	})
}

func (c *cartRepository) UpdateQuantity(ctx context.Context, buyerID, productID, quantity int64) error {
	return c.d.UpdateQuantity(ctx, buyerID, productID, quantity)
}

func (c *cartRepository) RemoveItem(ctx context.Context, buyerID, productID int64) error {
	return c.d.RemoveItem(ctx, buyerID, productID)
}

func (c *cartRepository) ListByBuyerID(ctx context.Context, buyerID int64) ([]domain.CartItem, error) {
	items, err := c.d.ListByBuyerID(ctx, buyerID)
	if err != nil {
		return nil, err
	}
	return slice.Map(items, func(idx int, src dao.CartItem) domain.CartItem {
		return domain.CartItem{
			ID:        src.Id,
			BuyerID:   src.BuyerId,
			ProductID: src.ProductId,
			Quantity:  src.Quantity,
			Ctime:     src.Ctime,
			Utime:     src.Utime,
		}
	}), nil
}

func (c *cartRepository) Clear(ctx context.Context, buyerID int64) error {
	return c.d.Clear(ctx, buyerID)
}
