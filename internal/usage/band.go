package usage

// Band is the colour class a reading is displayed in.
type Band int

const (
	// BandNormal covers readings below 60%.
	BandNormal Band = iota
	// BandCaution covers readings from 60% up to 79%.
	BandCaution
	// BandAlert covers readings of 80% and above.
	BandAlert
)

// Band boundaries, inclusive lower bounds.
const (
	CautionFrom Percent = 60
	AlertFrom   Percent = 80
)

// BandFor classifies a reading.
func BandFor(p Percent) Band {
	switch {
	case p >= AlertFrom:
		return BandAlert
	case p >= CautionFrom:
		return BandCaution
	default:
		return BandNormal
	}
}

// Color returns the display colour for the band.
func (b Band) Color() string {
	switch b {
	case BandAlert:
		return "red"
	case BandCaution:
		return "yellow"
	default:
		return "#7CFC00"
	}
}

func (b Band) String() string {
	switch b {
	case BandAlert:
		return "alert"
	case BandCaution:
		return "caution"
	default:
		return "normal"
	}
}
