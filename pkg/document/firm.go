package document

// Firm holds the counsel details printed in the agreement.
type Firm struct {
	Counsel    string   `json:"counsel" yaml:"counsel" mapstructure:"counsel"`
	Contact    []string `json:"contact" yaml:"contact" mapstructure:"contact"`
	Email      string   `json:"email" yaml:"email" mapstructure:"email"`
	FeePercent int      `json:"feePercent" yaml:"fee_percent" mapstructure:"fee_percent"`
}

// DefaultFirm returns the counsel block used when none is configured.
func DefaultFirm() Firm {
	return Firm{
		Counsel: "Legal Injury Advocates LLC",
		Contact: []string{
			"Saddle Rock Legal Group LLC,",
			"7301 N. 16th Street,",
			"Suite 102, Phoenix, AZ 85020",
			"(888) 666-6454",
		},
		Email:      "support@legalinjuryadvocates.com",
		FeePercent: 40,
	}
}

func (f Firm) withDefaults() Firm {
	def := DefaultFirm()
	if f.Counsel == "" {
		f.Counsel = def.Counsel
	}
	if len(f.Contact) == 0 {
		f.Contact = def.Contact
	}
	if f.Email == "" {
		f.Email = def.Email
	}
	if f.FeePercent <= 0 {
		f.FeePercent = def.FeePercent
	}
	return f
}
