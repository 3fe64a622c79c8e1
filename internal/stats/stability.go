package stats

// ShiftRunLength is the number of consecutive points on one side of the mean
// that marks a process shift.
const ShiftRunLength = 8

// Signal represents a detected special cause variation.
type Signal struct {
	Index       int    `json:"index"`
	Type        string `json:"type"` // "shift"
	Description string `json:"description"`
}

// DetectShifts flags every run of ShiftRunLength consecutive values strictly
// above or strictly below avg. Values equal to avg break the run.
func DetectShifts(values []float64, avg float64) []Signal {
	if len(values) < ShiftRunLength {
		return nil
	}

	var signals []Signal
	side := 0
	count := 0
	for i, v := range values {
		currentSide := 0
		if v > avg {
			currentSide = 1
		} else if v < avg {
			currentSide = -1
		}

		if currentSide == side && currentSide != 0 {
			count++
		} else {
			side = currentSide
			count = 1
		}

		if count == ShiftRunLength {
			desc := "8 consecutive points above the average (upward shift)"
			if side < 0 {
				desc = "8 consecutive points below the average (downward shift)"
			}
			signals = append(signals, Signal{
				Index:       i,
				Type:        "shift",
				Description: desc,
			})
		}
	}

	return signals
}
