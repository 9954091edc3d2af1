package domain

// Product is a feed product row. Read-only from this system's perspective;
// the catalog is maintained elsewhere.
type Product struct {
	Code        string   `dynamodbav:"Code" json:"code"`
	Name        string   `dynamodbav:"Name" json:"name"`
	Category    string   `dynamodbav:"Category" json:"category"`
	Description string   `dynamodbav:"Description" json:"description"`
	Livestock   []string `dynamodbav:"Livestock" json:"livestock_types"`
	Active      bool     `dynamodbav:"Active" json:"-"`
	Featured    bool     `dynamodbav:"Featured" json:"featured"`
}

// Warehouse is a pickup/distribution location row. Read-only.
type Warehouse struct {
	Code    string `dynamodbav:"Code" json:"code"`
	Name    string `dynamodbav:"Name" json:"name"`
	Address string `dynamodbav:"Address" json:"address"`
	City    string `dynamodbav:"City" json:"city"`
	State   string `dynamodbav:"State" json:"state"`
	Region  string `dynamodbav:"Region" json:"region"`
	Phone   string `dynamodbav:"Phone" json:"phone"`
	Hours   string `dynamodbav:"Hours" json:"hours"`
	Active  bool   `dynamodbav:"Active" json:"-"`
}

// KnowledgeEntry is one curated Q&A row served by the knowledge endpoint.
type KnowledgeEntry struct {
	ID       string   `dynamodbav:"ID" json:"id"`
	Question string   `dynamodbav:"Question" json:"question"`
	Answer   string   `dynamodbav:"Answer" json:"answer"`
	Category string   `dynamodbav:"Category" json:"category"`
	Keywords []string `dynamodbav:"Keywords" json:"keywords"`
	Active   bool     `dynamodbav:"Active" json:"-"`
}
