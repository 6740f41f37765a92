package model

import "time"

// RawPage is a fetched web page. It lives only until extraction is done.
type RawPage struct {
	URL        string    `json:"url"`
	HTML       string    `json:"-"`
	StatusCode int       `json:"status_code"`
	FetchedAt  time.Time `json:"fetched_at"`
	Blocked    bool      `json:"blocked,omitempty"`
	BlockType  string    `json:"block_type,omitempty"`
}

// Extraction holds the candidate fields parsed out of a RawPage.
type Extraction struct {
	URL          string      `json:"url"`
	CompanyName  string      `json:"company_name"`
	Description  string      `json:"description"`
	MainText     string      `json:"main_text"`
	Contact      ContactInfo `json:"contact_info"`
	Technologies []string    `json:"technologies"`
	Products     []string    `json:"products"`
}

// Fields converts the extraction into a raw field bag keyed by profile field name.
func (e *Extraction) Fields() Fields {
	if e == nil {
		return Fields{}
	}
	techs := make([]any, 0, len(e.Technologies))
	for _, t := range e.Technologies {
		techs = append(techs, t)
	}
	products := make([]any, 0, len(e.Products))
	for _, p := range e.Products {
		products = append(products, p)
	}
	return Fields{
		FieldWebsiteURL:   e.URL,
		FieldCompanyName:  e.CompanyName,
		FieldDescription:  e.Description,
		FieldTechnologies: techs,
		FieldProducts:     products,
		FieldContactInfo:  e.Contact,
	}
}
