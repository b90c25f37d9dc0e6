// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package tir

// revComp8Table maps every byte to its complement.  IUPAC ambiguity codes map
// to the code of the complementary set, case is preserved, gaps and '?' map
// to themselves, and any other byte maps to 'N'.
var revComp8Table [256]byte

func init() {
	for i := range revComp8Table {
		revComp8Table[i] = 'N'
	}
	pairs := []string{"AT", "CG", "RY", "KM", "SS", "WW", "BV", "DH", "NN"}
	for _, p := range pairs {
		for _, lower := range []bool{false, true} {
			x, y := p[0], p[1]
			if lower {
				x, y = x+'a'-'A', y+'a'-'A'
			}
			revComp8Table[x] = y
			revComp8Table[y] = x
		}
	}
	revComp8Table['-'] = '-'
	revComp8Table['?'] = '?'
}

// ReverseComplement returns the reverse complement of src in a new slice.
func ReverseComplement(src []byte) []byte {
	nByte := len(src)
	dst := make([]byte, nByte)
	for idx, invIdx := 0, nByte-1; idx != nByte; idx, invIdx = idx+1, invIdx-1 {
		dst[idx] = revComp8Table[src[invIdx]]
	}
	return dst
}
