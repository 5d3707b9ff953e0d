package parlay

// PerfectMultiplier returns the payout multiplier for a perfect play with
// the given effective pick count. Counts outside the table pay 0; the
// settlement floor keeps them from occurring.
func PerfectMultiplier(pickCount int) float64 {
	multipliers := map[int]float64{
		2: 3.0,
		3: 5.0,
		4: 10.0,
		5: 20.0,
		6: 37.5,
	}
	return multipliers[pickCount]
}

// FlexMultiplier returns the payout multiplier for a flex play given the
// effective pick count and the number of hits among them. Anything at or
// below half correct pays 0.
func FlexMultiplier(pickCount, hitCount int) float64 {
	if hitCount*2 <= pickCount {
		return 0
	}

	flexPayouts := map[[2]int]float64{
		// 3-pick flex
		{3, 3}: 2.25,
		{3, 2}: 1.25,
		// 4-pick flex
		{4, 4}: 5.0,
		{4, 3}: 1.5,
		// 5-pick flex
		{5, 5}: 10.0,
		{5, 4}: 2.0,
		{5, 3}: 0.4,
		// 6-pick flex
		{6, 6}: 25.0,
		{6, 5}: 2.0,
		{6, 4}: 0.4,
	}
	return flexPayouts[[2]int{pickCount, hitCount}]
}
