package entity

// CountryCount is one row of the per-country aggregate.
type CountryCount struct {
	Country string `json:"country"`
	Count   int64  `json:"count"`
}
