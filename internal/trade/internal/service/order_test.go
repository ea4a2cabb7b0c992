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
	"testing"

	"github.com/ecodeclub/mall/internal/cart"
	"github.com/ecodeclub/mall/internal/product"
	"github.com/ecodeclub/mall/internal/trade/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateCartLines(t *testing.T) {
	t.Parallel()
	products := map[int64]product.Product{
		100: {ID: 100, SellerID: 1, Price: 990, Stock: 10, Status: product.StatusOnShelf},
		101: {ID: 101, SellerID: 1, Price: 2500, Stock: 1, Status: product.StatusOnShelf},
		102: {ID: 102, SellerID: 2, Price: 100, Stock: 5, Status: product.StatusOffShelf},
	}
	testCases := []struct {
		name    string
		items   []cart.CartItem
		wantErr error
	}{
		{
			name: "全部合法",
			items: []cart.CartItem{
				{ProductID: 100, Quantity: 2},
				{ProductID: 101, Quantity: 1},
			},
		},
		{
			name: "商品不存在",
			items: []cart.CartItem{
				{ProductID: 999, Quantity: 1},
			},
			wantErr: ErrInactiveProduct,
		},
		{
			name: "商品已下架",
			items: []cart.CartItem{
				{ProductID: 102, Quantity: 1},
			},
			wantErr: ErrInactiveProduct,
		},
		{
			name: "数量为零",
			items: []cart.CartItem{
				{ProductID: 100, Quantity: 0},
			},
			wantErr: ErrInvalidQuantity,
		},
		{
			name: "超过库存",
			items: []cart.CartItem{
				{ProductID: 101, Quantity: 2},
			},
			wantErr: ErrInsufficientStock,
		},
		{
			name: "任意一行非法则整单拒绝",
			items: []cart.CartItem{
				{ProductID: 100, Quantity: 1},
				{ProductID: 101, Quantity: 2},
			},
			wantErr: ErrInsufficientStock,
		},
	}
	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			err := validateCartLines(tc.items, products)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestGroupBySeller(t *testing.T) {
	t.Parallel()
	products := map[int64]product.Product{
		100: {ID: 100, SellerID: 2, Price: 990, Stock: 10, Status: product.StatusOnShelf},
		101: {ID: 101, SellerID: 1, Price: 2500, Stock: 3, Status: product.StatusOnShelf},
		102: {ID: 102, SellerID: 2, Price: 100, Stock: 5, Status: product.StatusOnShelf},
	}
	items := []cart.CartItem{
		{ProductID: 100, Quantity: 2},
		{ProductID: 101, Quantity: 1},
		{ProductID: 102, Quantity: 3},
	}

	groups := groupBySeller(items, products)

	require.Len(t, groups, 2)
	// 按卖家ID升序
	assert.Equal(t, int64(1), groups[0].sellerID)
	assert.Equal(t, int64(2500), groups[0].subtotal)
	assert.Equal(t, []domain.SubOrderItem{
		{ProductID: 101, UnitPriceSnapshot: 2500, Quantity: 1},
	}, groups[0].items)

	assert.Equal(t, int64(2), groups[1].sellerID)
	assert.Equal(t, int64(990*2+100*3), groups[1].subtotal)
	assert.Equal(t, []domain.SubOrderItem{
		{ProductID: 100, UnitPriceSnapshot: 990, Quantity: 2},
		{ProductID: 102, UnitPriceSnapshot: 100, Quantity: 3},
	}, groups[1].items)
}

func TestGroupBySeller_SingleSeller(t *testing.T) {
	t.Parallel()
	products := map[int64]product.Product{
		100: {ID: 100, SellerID: 7, Price: 500, Stock: 10, Status: product.StatusOnShelf},
		101: {ID: 101, SellerID: 7, Price: 300, Stock: 10, Status: product.StatusOnShelf},
	}
	items := []cart.CartItem{
		{ProductID: 100, Quantity: 1},
		{ProductID: 101, Quantity: 2},
	}

	groups := groupBySeller(items, products)

	require.Len(t, groups, 1)
	assert.Equal(t, int64(7), groups[0].sellerID)
	assert.Equal(t, int64(500+300*2), groups[0].subtotal)
	assert.Len(t, groups[0].items, 2)
}
