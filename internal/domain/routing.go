package domain

// Territory is a geographic coverage region used to route leads to staff.
// "Covers a county" is plain set membership over Counties.
type Territory struct {
	Code     string   `dynamodbav:"Code" json:"code"`
	Name     string   `dynamodbav:"Name" json:"name"`
	Counties []string `dynamodbav:"Counties" json:"counties"`
	ZipCodes []string `dynamodbav:"ZipCodes" json:"zip_codes"`
	State    string   `dynamodbav:"State" json:"state"`
	Active   bool     `dynamodbav:"Active" json:"-"`
}

// Specialist is a staff member assigned to a territory. Many specialists may
// map to one territory; lookups treat the lowest id as primary.
type Specialist struct {
	ID            string   `dynamodbav:"ID" json:"id"`
	Name          string   `dynamodbav:"Name" json:"name"`
	Phone         string   `dynamodbav:"Phone" json:"phone"`
	Email         string   `dynamodbav:"Email" json:"email"`
	TerritoryCode string   `dynamodbav:"TerritoryCode" json:"territory_code"`
	Specialties   []string `dynamodbav:"Specialties" json:"specialties"`
	Active        bool     `dynamodbav:"Active" json:"-"`
}
