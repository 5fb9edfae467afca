package analytics

// Burn margins in percentage points of budget used ahead of time elapsed
const (
	HighBurnMargin = 15.0
	CautionMargin  = 5.0
)

// Burn statuses, paired with their display level
const (
	StatusNoBudget   = "No Budget"
	StatusOverBudget = "Over Budget"
	StatusHighBurn   = "High Burn"
	StatusCaution    = "Caution"
	StatusOnTrack    = "On Track"

	LevelUnknown  = "Grey"
	LevelCritical = "Critical"
	LevelRed      = "Red"
	LevelYellow   = "Yellow"
	LevelGreen    = "Green"
)

// BurnRate is the burn classification of a cycle
type BurnRate struct {
	Status string
	Level  string
}

// severity orders statuses from safest to worst
var severity = map[string]int{
	StatusOnTrack:    0,
	StatusCaution:    1,
	StatusHighBurn:   2,
	StatusOverBudget: 3,
}

// Severity ranks a status; unknown statuses rank -1
func Severity(status string) int {
	if s, ok := severity[status]; ok {
		return s
	}
	return -1
}

// ClassifyBurn compares the share of budget used with the share of the cycle
// elapsed. A higher spend for the same elapsed time never yields a safer status.
func ClassifyBurn(spend, budget float64, daysPassed, daysInCycle int) BurnRate {
	if budget <= 0 {
		return BurnRate{Status: StatusNoBudget, Level: LevelUnknown}
	}
	if spend > budget {
		return BurnRate{Status: StatusOverBudget, Level: LevelCritical}
	}
	usedPct := spend / budget * 100
	elapsedPct := 100.0
	if daysInCycle > 0 {
		elapsedPct = float64(daysPassed) / float64(daysInCycle) * 100
	}
	switch margin := usedPct - elapsedPct; {
	case margin > HighBurnMargin:
		return BurnRate{Status: StatusHighBurn, Level: LevelRed}
	case margin > CautionMargin:
		return BurnRate{Status: StatusCaution, Level: LevelYellow}
	default:
		return BurnRate{Status: StatusOnTrack, Level: LevelGreen}
	}
}
