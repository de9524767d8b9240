package search

// values within tieEps of each other are treated as duplicates
const tieEps = 1e-6

// interval is a contiguous run [m,n] of sort positions on one column.
type interval struct {
	m, n int
}

// mkIntervals enumerates the candidate row intervals for one column from
// its sorted values. Both endpoints step by binSize; the left boundary
// advances past values tied with the previous bin, the right boundary
// extends over trailing duplicates, and intervals whose value range
// collapses are dropped. The sequence depends only on the column.
func mkIntervals(vals []float64, binSize int) []interval {
	rows := len(vals)
	size := rows / binSize
	vec := make([]interval, 0, size*size)

	for m := 0; m < rows; m += binSize {
		start := vals[m]
		lastBin := -1.0
		if m-1 >= 0 {
			lastBin = vals[m-1]
		}
		for m-1 >= 0 && m < rows-1 {
			if start-lastBin < tieEps {
				m++
				start = vals[m]
			} else {
				break
			}
		}

		for n := m + binSize; n < rows; n += binSize {
			end := vals[n]
			if end-start < tieEps {
				continue
			}
			for ns := n + 1; ns < rows; ns++ {
				if vals[ns]-end < tieEps {
					n++
				} else {
					break
				}
			}
			vec = append(vec, interval{m: m, n: n})
		}
	}

	return vec
}
