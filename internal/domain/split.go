package domain

// Percentages of a gross amount. The platform share is never computed from its
// percentage, it takes whatever the floored shares leave.
const (
	recipientPercent           = 80
	recipientNoReferrerPercent = 85
	referrerPercent            = 5
	lotteryPercent             = 5
)

type Split struct {
	Recipient int64
	Referrer  int64
	Lottery   int64
	Platform  int64
}

func (s Split) Total() int64 {
	return s.Recipient + s.Referrer + s.Lottery + s.Platform
}

// ComputeSplit divides a non-negative gross amount among the parties of a
// tip or a settled bid: 80/5/5/10 with a referrer, 85/0/5/10 without.
func ComputeSplit(gross int64, hasReferrer bool) Split {
	var split Split
	if hasReferrer {
		split.Recipient = percentOf(gross, recipientPercent)
		split.Referrer = percentOf(gross, referrerPercent)
	} else {
		split.Recipient = percentOf(gross, recipientNoReferrerPercent)
	}

	split.Lottery = percentOf(gross, lotteryPercent)
	split.Platform = gross - split.Recipient - split.Referrer - split.Lottery
	return split
}

// percentOf returns floor(amount*percent/100) without overflowing for amounts
// close to the int64 limit.
func percentOf(amount int64, percent int64) int64 {
	return amount/100*percent + amount%100*percent/100
}
