package matching

import "strings"

// Ratio is the Ratcliff/Obershelp similarity of a and b, compared case-insensitively
// on runes: 2*M/T where M is the number of runes in matching blocks and T the
// combined length. The longest block is chosen first (leftmost in a, then in b)
// and the search recurses on both sides of it. Two empty strings are identical.
func Ratio(a, b string) float64 {
	ra := []rune(strings.ToLower(a))
	rb := []rune(strings.ToLower(b))
	total := len(ra) + len(rb)
	if total == 0 {
		return 1.0
	}
	return 2.0 * float64(matchedRunes(ra, rb)) / float64(total)
}

type span struct{ alo, ahi, blo, bhi int }

func matchedRunes(a, b []rune) int {
	index := make(map[rune][]int, len(b))
	for j, r := range b {
		index[r] = append(index[r], j)
	}

	matched := 0
	queue := []span{{0, len(a), 0, len(b)}}
	for len(queue) > 0 {
		s := queue[len(queue)-1]
		queue = queue[:len(queue)-1]

		i, j, k := longestBlock(a, index, s)
		if k == 0 {
			continue
		}
		matched += k
		if s.alo < i && s.blo < j {
			queue = append(queue, span{s.alo, i, s.blo, j})
		}
		if i+k < s.ahi && j+k < s.bhi {
			queue = append(queue, span{i + k, s.ahi, j + k, s.bhi})
		}
	}
	return matched
}

// longestBlock finds the longest common run of a[alo:ahi] and b[blo:bhi].
// Ties go to the smallest i, then the smallest j.
func longestBlock(a []rune, index map[rune][]int, s span) (besti, bestj, best int) {
	besti, bestj = s.alo, s.blo
	width := s.bhi - s.blo + 1
	prev := make([]int, width)
	cur := make([]int, width)
	for i := s.alo; i < s.ahi; i++ {
		for x := range cur {
			cur[x] = 0
		}
		for _, j := range index[a[i]] {
			if j < s.blo {
				continue
			}
			if j >= s.bhi {
				break
			}
			k := prev[j-s.blo] + 1
			cur[j-s.blo+1] = k
			if k > best {
				besti, bestj, best = i-k+1, j-k+1, k
			}
		}
		prev, cur = cur, prev
	}
	return besti, bestj, best
}
