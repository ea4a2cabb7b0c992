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

package web

import "github.com/ecodeclub/mall/internal/product/internal/domain"

type SNReq struct {
	SN string `json:"sn"`
}

type ProductSaveReq struct {
	Product Product `json:"product"`
}

type ProductSaveResp struct {
	ID int64 `json:"id"`
}

type ProductStatusReq struct {
	ID     int64 `json:"id"`
	Status uint8 `json:"status"`
}

type ProductListReq struct {
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

type ProductListResp struct {
	Products []Product `json:"products,omitempty"`
}

type Product struct {
	ID     int64  `json:"id,omitempty"`
	SN     string `json:"sn"`
	Name   string `json:"name"`
	Desc   string `json:"desc"`
	Price  int64  `json:"price"`
	Stock  int64  `json:"stock"`
	Status uint8  `json:"status"`
}

func newProduct(p domain.Product) Product {
	return Product{
		ID:     p.ID,
		SN:     p.SN,
		Name:   p.Name,
		Desc:   p.Description,
		Price:  p.Price,
		Stock:  p.Stock,
		Status: p.Status.ToUint8(),
	}
}

func (p Product) newDomainProduct(sellerID int64) domain.Product {
	return domain.Product{
		ID:          p.ID,
		SN:          p.SN,
		SellerID:    sellerID,
		Name:        p.Name,
		Description: p.Desc,
		Price:       p.Price,
		Stock:       p.Stock,
		Status:      domain.Status(p.Status),
	}
}
