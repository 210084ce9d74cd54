package usecase

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
)

var (
	pairRe  = regexp.MustCompile(`(\d+)\s*-\s*(\d+)`)
	clockRe = regexp.MustCompile(`(\d+):(\d+)`)
)

// parsePair reads "made-att" display values such as "5-12" (third down
// conversions, red zone trips). pct is 0 when attempts are 0.
func parsePair(s string) (made, att int, pct float64, ok bool) {
	m := pairRe.FindStringSubmatch(s)
	if m == nil {
		return 0, 0, 0, false
	}
	made, _ = strconv.Atoi(m[1])
	att, _ = strconv.Atoi(m[2])
	if att > 0 {
		pct = float64(made) / float64(att) * 100
	}
	return made, att, pct, true
}

// parseClockSecs converts a "MM:SS" possession clock into total seconds.
func parseClockSecs(s string) (int, bool) {
	m := clockRe.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	mins, _ := strconv.Atoi(m[1])
	secs, _ := strconv.Atoi(m[2])
	return mins*60 + secs, true
}

func secsToClock(secs int) string {
	if secs < 0 {
		secs = 0
	}
	return fmt.Sprintf("%02d:%02d", secs/60, secs%60)
}

// normPct widens ratio-style percentages: upstream sometimes reports
// 0.55 where 55 is meant. Values in (0,1] are scaled to 0-100.
func normPct(v float64) float64 {
	if v > 0 && v <= 1 {
		return v * 100
	}
	return v
}

func pctOf(part, whole float64) float64 {
	if whole <= 0 {
		return 0
	}
	return part / whole * 100
}

func roundPct(v float64) float64 {
	return math.Round(v)
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
