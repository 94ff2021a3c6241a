package models

// PrintOptions selects which slip goes on each half of the landscape sheet.
type PrintOptions struct {
	Left  SlipType `json:"left"`
	Right SlipType `json:"right"`
}

// SlipPDFData feeds one half of the slip template.
type SlipPDFData struct {
	Title        string
	Kind         SlipType
	Number       string
	Date         string
	Counterparty string
	Contact      string
	From         string
	To           string
	VehicleNo    string
	Weight       string
	Freight      string
	Advance      string
	Balance      string
	BalanceWords string
	Remarks      string
}

// SlipSheet is the full page handed to the renderer.
type SlipSheet struct {
	TripCode string
	Left     *SlipPDFData
	Right    *SlipPDFData
}
