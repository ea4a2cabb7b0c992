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

type AddItemReq struct {
	ProductID int64 `json:"productId"`
	Quantity  int64 `json:"quantity"`
}

type UpdateQuantityReq struct {
	ProductID int64 `json:"productId"`
	Quantity  int64 `json:"quantity"`
}

type RemoveItemReq struct {
	ProductID int64 `json:"productId"`
}

type ListResp struct {
	Items []CartItem `json:"items,omitempty"`
}

type CartItem struct {
	ProductID int64 `json:"productId"`
	Quantity  int64 `json:"quantity"`
}
