package variants

// Combination holds, for each option in declaration order, the index of the chosen item.
// An empty Combination is the default variant of a product without options.
type Combination []int

// Combine returns the Cartesian product of the options' items. The first option varies slowest,
// so for [color: red, green] x [size: S, M] the result is red/S, red/M, green/S, green/M.
// Without options a single empty combination is returned.
func Combine(options []Option) []Combination {
	total := Count(options)
	combos := make([]Combination, 0, total)

	current := make(Combination, len(options))
	for i := 0; i < total; i++ {
		combo := make(Combination, len(current))
		copy(combo, current)
		combos = append(combos, combo)

		// odometer step: bump the last position, carry leftwards
		for pos := len(options) - 1; pos >= 0; pos-- {
			current[pos]++
			if current[pos] < len(options[pos].Items) {
				break
			}
			current[pos] = 0
		}
	}
	return combos
}

// Count is the number of variants Combine produces for options.
func Count(options []Option) int {
	total := 1
	for _, opt := range options {
		total *= len(opt.Items)
	}
	return total
}

// Values resolves a combination back to the item values it selects.
func Values(options []Option, combo Combination) []string {
	values := make([]string, len(combo))
	for pos, idx := range combo {
		values[pos] = options[pos].Items[idx]
	}
	return values
}
