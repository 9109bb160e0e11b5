package pricing

import "strings"

// DefaultDeliveryTime is quoted for countries without a specific estimate.
const DefaultDeliveryTime = "3-5 business days"

type feeTier struct {
	upTo float64
	fee  float64
}

// Upper bounds are inclusive.
var feeTiers = []feeTier{
	{upTo: 100, fee: 2.99},
	{upTo: 500, fee: 4.99},
	{upTo: 1000, fee: 7.99},
}

const percentageFee = 0.01

var deliveryTimes = map[string]string{
	"US": "1-2 hours",
	"GB": "1-2 hours",
	"CA": "2-3 hours",
	"FR": "1-3 hours",
	"DE": "1-3 hours",
	"IT": "1-3 hours",
	"IN": "2-4 hours",
	"JP": "2-4 hours",
	"KR": "2-4 hours",
	"AU": "3-5 hours",
	"CN": "3-5 hours",
	"MX": "3-5 hours",
}

// Fee returns the flat fee of the first tier covering amount, or 1% above
// the last tier.
func Fee(amount float64) float64 {
	for _, tier := range feeTiers {
		if amount <= tier.upTo {
			return tier.fee
		}
	}
	return amount * percentageFee
}

// DeliveryTime returns the delivery estimate for an ISO country code.
func DeliveryTime(countryCode string) string {
	if d, ok := deliveryTimes[strings.ToUpper(strings.TrimSpace(countryCode))]; ok {
		return d
	}
	return DefaultDeliveryTime
}

// Estimate is the fee breakdown shown before a transfer is made.
type Estimate struct {
	Fee          float64 `json:"fee"`
	TotalCost    float64 `json:"totalCost"`
	DeliveryTime string  `json:"deliveryTime"`
}

// Quote builds the estimate for sending amount to countryCode.
func Quote(amount float64, countryCode string) Estimate {
	fee := Fee(amount)
	return Estimate{
		Fee:          fee,
		TotalCost:    amount + fee,
		DeliveryTime: DeliveryTime(countryCode),
	}
}
