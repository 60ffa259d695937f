// MIT License
//
// Copyright (c) 2022-2026 GoAkt Team
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package locked

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStack(t *testing.T) {
	t.Run("With Push/Pop", func(t *testing.T) {
		s := New[int]()
		require.NoError(t, s.Push(4))
		require.NoError(t, s.Push(6))
		require.NoError(t, s.Push(8))
		assert.Equal(t, 3, s.Len())

		for _, expected := range []int{8, 6, 4} {
			popped, ok := s.Pop()
			require.True(t, ok)
			assert.Equal(t, expected, popped)
		}
		assert.Zero(t, s.Len())
	})
	t.Run("With empty stack", func(t *testing.T) {
		s := New[string]()
		popped, ok := s.Pop()
		assert.False(t, ok)
		assert.Empty(t, popped)
	})
	t.Run("With concurrent pushes", func(t *testing.T) {
		s := New[int]()
		var wg sync.WaitGroup
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for j := 0; j < 100; j++ {
					_ = s.Push(j)
				}
			}()
		}
		wg.Wait()
		assert.Equal(t, 800, s.Len())
	})
}
