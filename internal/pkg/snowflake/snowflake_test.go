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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCustomSnowFlake_Generate(t *testing.T) {
	t.Parallel()
	sf, err := NewCustomSnowFlake(0, 2)
	require.NoError(t, err)

	orderID, err := sf.Generate(0)
	require.NoError(t, err)
	assert.Equal(t, uint(0), orderID.BizID())

	subOrderID, err := sf.Generate(1)
	require.NoError(t, err)
	assert.Equal(t, uint(1), subOrderID.BizID())
	assert.NotEqual(t, orderID.Int64(), subOrderID.Int64())
}

func TestCustomSnowFlake_UnknownBiz(t *testing.T) {
	t.Parallel()
	sf, err := NewCustomSnowFlake(0, 1)
	require.NoError(t, err)
	_, err = sf.Generate(5)
	assert.ErrorIs(t, err, ErrUnknownBiz)
}

func TestNewCustomSnowFlake_Limits(t *testing.T) {
	t.Parallel()
	_, err := NewCustomSnowFlake(32, 1)
	assert.ErrorIs(t, err, ErrExceedNode)
	_, err = NewCustomSnowFlake(0, 33)
	assert.ErrorIs(t, err, ErrExceedBiz)
}
