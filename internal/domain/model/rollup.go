package model

// Day is one point of the daily rollup: how many samples were labeled open on
// that calendar day. This counts open samples, not distinct pull requests open
// throughout the day.
type Day struct {
	Date    Date
	OpenPRs uint32
}

// Week is one point of the weekly rollup. StartDate is the Monday (UTC) the
// week begins on. TimeToMerge is in minutes.
type Week struct {
	StartDate      Date
	MergedPRs      uint32
	ClosedPRs      uint32
	TimeToMerge    Distribution
	ReviewComments Distribution
}

// Distribution summarizes a list of unsigned integers. An empty list yields
// the zero Distribution, which is a defined value rather than an error.
type Distribution struct {
	Mean uint32
	Mode uint32
	Min  uint32
	Max  uint32
}
