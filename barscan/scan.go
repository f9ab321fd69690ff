package barscan

import "iter"

// ascend 依次产生 from..to（含两端），from > to 时为空
func ascend(from, to int) iter.Seq[int] {
	return func(yield func(int) bool) {
		for i := from; i <= to; i++ {
			if !yield(i) {
				return
			}
		}
	}
}

// descend 从 from 递减到 to（含两端），from < to 时为空
func descend(from, to int) iter.Seq[int] {
	return func(yield func(int) bool) {
		for i := from; i >= to; i-- {
			if !yield(i) {
				return
			}
		}
	}
}

// first 返回 seq 中第一个满足 pred 的坐标
func first(seq iter.Seq[int], pred func(int) bool) (int, bool) {
	for v := range seq {
		if pred(v) {
			return v, true
		}
	}
	return 0, false
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
