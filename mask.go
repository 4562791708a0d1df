package genex

// MakePaddingMask marks the positions of a padded batch
// which contain the pad id.
//
// If no position contains the pad id, the mask is nil.
// The input is never modified.
func MakePaddingMask(ids [][]int, padID int) [][]bool {
	var any bool
	mask := make([][]bool, len(ids))
	for i, seq := range ids {
		mask[i] = make([]bool, len(seq))
		for j, id := range seq {
			if id == padID {
				mask[i][j] = true
				any = true
			}
		}
	}
	if !any {
		return nil
	}
	return mask
}

// AttentionMask inverts a padding mask, marking the
// positions a model should attend to.
// A nil padding mask yields a nil attention mask.
func AttentionMask(padding [][]bool) [][]bool {
	if padding == nil {
		return nil
	}
	mask := make([][]bool, len(padding))
	for i, row := range padding {
		mask[i] = make([]bool, len(row))
		for j, pad := range row {
			mask[i][j] = !pad
		}
	}
	return mask
}

// Collate pads a list of variable-length id sequences to
// a single rectangular batch using the pad id.
func Collate(seqs [][]int, padID int) [][]int {
	var maxLen int
	for _, s := range seqs {
		if len(s) > maxLen {
			maxLen = len(s)
		}
	}
	res := make([][]int, len(seqs))
	for i, s := range seqs {
		row := make([]int, maxLen)
		copy(row, s)
		for j := len(s); j < maxLen; j++ {
			row[j] = padID
		}
		res[i] = row
	}
	return res
}
