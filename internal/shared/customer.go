package shared

// CustomerSnapshot is a copy of customer master data taken at the moment a
// document is created. Documents keep the copy, never a reference, so
// historical display survives later customer edits.
type CustomerSnapshot struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	TaxNumber string `json:"taxNumber,omitempty"`
	Address   string `json:"address,omitempty"`
	Phone     string `json:"phone,omitempty"`
}

// CustomerRef is the short form kept on approvals for list display.
type CustomerRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Ref returns the short display form of the snapshot.
func (c CustomerSnapshot) Ref() CustomerRef {
	return CustomerRef{ID: c.ID, Name: c.Name}
}
