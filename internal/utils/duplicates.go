package utils

// CreateRankList creates a slice of ranks based on position.
// The rank starts at 1 for the first item and increments for subsequent items.
// Candidates are sorted lexicographically, so the rank is only their position.
func CreateRankList(count int) []uint16 {
	if count <= 0 {
		return []uint16{}
	}
	ranks := make([]uint16, count)
	for i := 0; i < count; i++ {
		if i >= 65535 {
			ranks[i] = 65535
			continue
		}
		ranks[i] = uint16(i + 1)
	}
	return ranks
}
