package domain

// Lead is a captured sales lead. Written once per qualifying interaction and
// never updated by this system afterwards; follow-up workflows are external.
type Lead struct {
	ID              string   `dynamodbav:"ID" json:"lead_id"`
	FirstName       string   `dynamodbav:"FirstName" json:"first_name"`
	LastName        string   `dynamodbav:"LastName" json:"last_name"`
	Phone           string   `dynamodbav:"Phone" json:"phone"`
	Email           string   `dynamodbav:"Email" json:"email"`
	RanchName       string   `dynamodbav:"RanchName" json:"ranch_name,omitempty"`
	County          string   `dynamodbav:"County" json:"county"`
	LivestockTypes  []string `dynamodbav:"LivestockTypes" json:"livestock_types,omitempty"`
	HerdSize        int      `dynamodbav:"HerdSize" json:"herd_size,omitempty"`
	PrimaryInterest string   `dynamodbav:"PrimaryInterest" json:"primary_interest,omitempty"`
	TerritoryCode   string   `dynamodbav:"TerritoryCode" json:"territory_code,omitempty"`
	SpecialistID    string   `dynamodbav:"SpecialistID" json:"specialist_id,omitempty"`
	ConversationID  string   `dynamodbav:"ConversationID" json:"conversation_id,omitempty"`
	Source          string   `dynamodbav:"Source" json:"source"`
	Status          string   `dynamodbav:"Status" json:"status"`
	Score           int      `dynamodbav:"Score" json:"score,omitempty"`
	CreatedAt       string   `dynamodbav:"CreatedAt" json:"created_at"`
}

// CustomerContext carries whatever the voice platform already knows about the
// caller. Every field is optional; templates interpolate the ones present.
type CustomerContext struct {
	Name          string `json:"name,omitempty"`
	County        string `json:"county,omitempty"`
	TerritoryName string `json:"territory_name,omitempty"`
	OperationType string `json:"operation_type,omitempty"`
	HerdSize      int    `json:"herd_size,omitempty"`
}
