package store

// Confidence qualifies a size decided by one of the sizing heuristics.
type Confidence uint8

const (
	// ConfidenceFallback means no candidate matched the region, and the
	// first candidate was chosen.
	ConfidenceFallback Confidence = iota
	// ConfidenceDivisible means the chosen size divides the region evenly,
	// but no secondary check confirmed it.
	ConfidenceDivisible
	// ConfidenceExact means the chosen size divides the region and passed the
	// secondary check.
	ConfidenceExact
)

func (c Confidence) String() string {
	switch c {
	case ConfidenceExact:
		return "exact"
	case ConfidenceDivisible:
		return "divisible"
	}
	return "fallback"
}

type SizeDecision struct {
	Size       int
	Confidence Confidence
}

// DetectMetaItemSize chooses the item size of a meta region of the given
// length among candidates. Sizes dividing the item area evenly are accepted;
// among those, one yielding exactly otherCount items (the count of the
// paired table) is preferred.
func DetectMetaItemSize(length, otherCount int, candidates ...int) SizeDecision {
	if len(candidates) == 0 {
		return SizeDecision{}
	}
	body := length - int(fixedMetaOffsets.HeaderSize)
	var divisible *SizeDecision
	for _, c := range candidates {
		if c <= 0 || body <= 0 || body%c != 0 {
			continue
		}
		if body/c == otherCount {
			return SizeDecision{Size: c, Confidence: ConfidenceExact}
		}
		if divisible == nil {
			divisible = &SizeDecision{Size: c, Confidence: ConfidenceDivisible}
		}
	}
	if divisible != nil {
		return *divisible
	}
	return SizeDecision{Size: candidates[0], Confidence: ConfidenceFallback}
}

// DetectRecordSize chooses the record size of a uniform region of the given
// length. When a single candidate divides the region it is exact; when more
// than one does, the first accepted by tieBreak is exact, and the first
// divisible one is used otherwise. tieBreak may be nil.
func DetectRecordSize(length int, tieBreak func(size int) bool, candidates ...int) SizeDecision {
	if len(candidates) == 0 {
		return SizeDecision{}
	}
	var divisible []int
	for _, c := range candidates {
		if c > 0 && length > 0 && length%c == 0 {
			divisible = append(divisible, c)
		}
	}
	switch len(divisible) {
	case 0:
		return SizeDecision{Size: candidates[0], Confidence: ConfidenceFallback}
	case 1:
		return SizeDecision{Size: divisible[0], Confidence: ConfidenceExact}
	}
	if tieBreak != nil {
		for _, c := range divisible {
			if tieBreak(c) {
				return SizeDecision{Size: c, Confidence: ConfidenceExact}
			}
		}
	}
	return SizeDecision{Size: divisible[0], Confidence: ConfidenceDivisible}
}
