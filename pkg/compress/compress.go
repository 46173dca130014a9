package compress

import (
	"encoding/binary"
	"errors"
)

var ErrCorruptPostings = errors.New("corrupt postings encoding")

// EncodePostingList stores a sorted postings list as uvarint gaps: the first ordinal as is,
// then the difference to the previous one. unsorted input is rejected because a negative gap
// cannot be represented.
func EncodePostingList(arr []int) ([]byte, error) {
	buf := make([]byte, 0, len(arr)*2)
	prev := 0
	for i, v := range arr {
		if v < 0 || (i > 0 && v < prev) {
			return nil, ErrCorruptPostings
		}
		buf = binary.AppendUvarint(buf, uint64(v-prev))
		prev = v
	}
	return buf, nil
}

func DecodePostingList(buf []byte) ([]int, error) {
	results := make([]int, 0, len(buf))
	prev := 0
	for len(buf) > 0 {
		v, n := binary.Uvarint(buf)
		if n <= 0 {
			return nil, ErrCorruptPostings
		}

		prev += int(v)
		results = append(results, prev)
		buf = buf[n:]
	}
	return results, nil
}
