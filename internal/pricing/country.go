package pricing

// Country is a destination a transfer can be sent to.
type Country struct {
	Code     string `json:"code"`
	Name     string `json:"name"`
	Currency string `json:"currency"`
}

// Countries lists the supported destinations.
var Countries = []Country{
	{Code: "US", Name: "United States", Currency: "USD"},
	{Code: "GB", Name: "United Kingdom", Currency: "GBP"},
	{Code: "EU", Name: "European Union", Currency: "EUR"},
	{Code: "JP", Name: "Japan", Currency: "JPY"},
	{Code: "CA", Name: "Canada", Currency: "CAD"},
	{Code: "AU", Name: "Australia", Currency: "AUD"},
	{Code: "IN", Name: "India", Currency: "INR"},
	{Code: "NG", Name: "Nigeria", Currency: "NGN"},
	{Code: "KE", Name: "Kenya", Currency: "KES"},
	{Code: "PH", Name: "Philippines", Currency: "PHP"},
}
