package usecase

import "testing"

func TestParsePair(t *testing.T) {
	t.Parallel()

	made, att, pct, ok := parsePair("3-10")
	if !ok || made != 3 || att != 10 || pct != 30 {
		t.Fatalf("parsePair(3-10) = %d %d %v %v", made, att, pct, ok)
	}

	made, att, pct, ok = parsePair("5 - 12")
	if !ok || made != 5 || att != 12 {
		t.Fatalf("parsePair with spaces = %d %d %v %v", made, att, pct, ok)
	}

	if _, _, _, ok := parsePair(""); ok {
		t.Fatal("empty pair should not parse")
	}
	if _, _, _, ok := parsePair("garbage"); ok {
		t.Fatal("malformed pair should not parse")
	}

	_, att, pct, ok = parsePair("0-0")
	if !ok || att != 0 || pct != 0 {
		t.Fatalf("parsePair(0-0) = att %d pct %v ok %v", att, pct, ok)
	}
}

func TestParseClockSecs(t *testing.T) {
	t.Parallel()

	secs, ok := parseClockSecs("31:45")
	if !ok || secs != 1905 {
		t.Fatalf("parseClockSecs(31:45) = %d %v", secs, ok)
	}
	if _, ok := parseClockSecs(""); ok {
		t.Fatal("empty clock should not parse")
	}
	if _, ok := parseClockSecs("nope"); ok {
		t.Fatal("malformed clock should not parse")
	}
}

func TestSecsToClock(t *testing.T) {
	t.Parallel()

	if got := secsToClock(1905); got != "31:45" {
		t.Fatalf("secsToClock(1905) = %s", got)
	}
	if got := secsToClock(330); got != "05:30" {
		t.Fatalf("secsToClock(330) = %s", got)
	}
	if got := secsToClock(0); got != "00:00" {
		t.Fatalf("secsToClock(0) = %s", got)
	}
	if got := secsToClock(-5); got != "00:00" {
		t.Fatalf("secsToClock(-5) = %s", got)
	}
}

func TestNormPct(t *testing.T) {
	t.Parallel()

	if got := normPct(0.55); got != 55 {
		t.Fatalf("normPct(0.55) = %v", got)
	}
	if got := normPct(55); got != 55 {
		t.Fatalf("normPct(55) = %v", got)
	}
	if got := normPct(1); got != 100 {
		t.Fatalf("normPct(1) = %v", got)
	}
	if got := normPct(0); got != 0 {
		t.Fatalf("normPct(0) = %v", got)
	}
}

func TestPctOf(t *testing.T) {
	t.Parallel()

	if got := pctOf(540, 900); got != 60 {
		t.Fatalf("pctOf(540, 900) = %v", got)
	}
	if got := pctOf(3, 0); got != 0 {
		t.Fatalf("pctOf with zero denominator = %v", got)
	}
}

func TestMean(t *testing.T) {
	t.Parallel()

	if got := mean([]float64{10, 20, 30}); got != 20 {
		t.Fatalf("mean = %v", got)
	}
	if got := mean(nil); got != 0 {
		t.Fatalf("mean(nil) = %v", got)
	}
}
