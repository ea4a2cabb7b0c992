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

package snowflake

import (
	"errors"
	"fmt"

	"github.com/bwmarrin/snowflake"
	"github.com/ecodeclub/ekit/syncx"
)

type SnowFlake interface {
	Generate(biz uint) (ID, error)
}

// CustomSnowFlake 按业务域分片的雪花ID生成器, 比如订单和子订单各占一个分片
type CustomSnowFlake struct {
	// 键为biz编号
	nodes syncx.Map[uint, *snowflake.Node]
}

const (
	maxNode uint = 31
	maxBiz  uint = 31
)

var (
	ErrExceedNode = errors.New("node超出限制")
	ErrExceedBiz  = errors.New("biz超出限制")
	ErrUnknownBiz = errors.New("未知的biz")
)

// +---------------------------------------------------------------------------------------+
// | 1 Bit Unused | 41 Bit Timestamp |  5 Bit BizID | 5 Bit NodeID  |   12 Bit Sequence ID |
// +---------------------------------------------------------------------------------------+

// NewCustomSnowFlake node表示第几个节点, bizs表示业务域个数, 从0开始编号, 最多到31
func NewCustomSnowFlake(nodeId uint, bizs uint) (*CustomSnowFlake, error) {
	if nodeId > maxNode {
		return nil, fmt.Errorf("%w", ErrExceedNode)
	}
	if bizs > maxBiz+1 {
		return nil, fmt.Errorf("%w", ErrExceedBiz)
	}
	csf := &CustomSnowFlake{}
	for i := 0; i < int(bizs); i++ {
		nid := (i << 5) | int(nodeId)
		n, err := snowflake.NewNode(int64(nid))
		if err != nil {
			return nil, err
		}
		csf.nodes.Store(uint(i), n)
	}
	return csf, nil
}

type ID int64

func (c *CustomSnowFlake) Generate(biz uint) (ID, error) {
	n, ok := c.nodes.Load(biz)
	if !ok {
		return 0, fmt.Errorf("%w", ErrUnknownBiz)
	}
	id := n.Generate()
	return ID(id), nil
}

func (f ID) BizID() uint {
	node := snowflake.ID(f).Node()
	return uint(node >> 5)
}

func (f ID) Int64() int64 {
	return int64(f)
}
