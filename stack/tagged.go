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

package stack

// taggedRef is a node reference bundled with its external claim count.
// The pair is packed in one word so that it is read and swapped as a unit:
//
//	bits 63..32  claim count
//	bits 31..0   arena index, nilIndex meaning no node
type taggedRef uint64

const (
	nilIndex   uint32    = 0
	claimShift           = 32
	indexMask  taggedRef = 1<<claimShift - 1
)

func makeRef(claims, index uint32) taggedRef {
	return taggedRef(claims)<<claimShift | taggedRef(index)
}

// index returns the arena index the reference points to
func (r taggedRef) index() uint32 {
	return uint32(r & indexMask)
}

// claims returns the number of claims taken through this reference.
// The count wraps modulo 2^32, which the reconciliation arithmetic tolerates.
func (r taggedRef) claims() uint32 {
	return uint32(r >> claimShift)
}

func (r taggedRef) isNil() bool {
	return r.index() == nilIndex
}

// claimed returns the same reference with one more claim
func (r taggedRef) claimed() taggedRef {
	return makeRef(r.claims()+1, r.index())
}
