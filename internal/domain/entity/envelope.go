package entity

// Envelope is a decoded response body before shape normalization.
type Envelope = any

// Shape identifies which known envelope layout a response matched.
type Shape int

const (
	ShapeUnknown Shape = iota
	// ShapeBodyDataField is {body:{data:{<field>:...}}}.
	ShapeBodyDataField
	// ShapeDataField is {data:{<field>:...}}.
	ShapeDataField
	// ShapeData is {data:...}.
	ShapeData
	// ShapeRaw is the bare record itself.
	ShapeRaw
)

func (s Shape) String() string {
	switch s {
	case ShapeBodyDataField:
		return "body.data.field"
	case ShapeDataField:
		return "data.field"
	case ShapeData:
		return "data"
	case ShapeRaw:
		return "raw"
	default:
		return "unknown"
	}
}

// CanonicalList is the normalized form of a list endpoint.
type CanonicalList struct {
	Items []map[string]any `json:"items"`
	Total int              `json:"total"`
}

// Token is the normalized market record of a listed token.
type Token struct {
	ID              string  `json:"id"`
	Symbol          string  `json:"symbol"`
	Name            string  `json:"name,omitempty"`
	Mint            string  `json:"mint,omitempty"`
	PriceUSD        float64 `json:"priceUSD"`
	MarketCap       float64 `json:"marketCap"`
	Change24h       float64 `json:"change24h"`
	GraphCronActive bool    `json:"graphCronActive"`
	AllowLatest     bool    `json:"allowLatest"`
}
