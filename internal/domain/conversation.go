package domain

// Conversation lifecycle states. A conversation stays active until the
// platform explicitly ends it; there is no timeout transition.
const (
	ConversationActive    = "active"
	ConversationCompleted = "completed"
)

// TranscriptEntry is one speaker turn. The transcript is append-only.
type TranscriptEntry struct {
	Speaker   string `dynamodbav:"Speaker" json:"speaker"`
	Message   string `dynamodbav:"Message" json:"message"`
	Timestamp string `dynamodbav:"Timestamp" json:"timestamp"`
}

// Conversation is the server variant's per-call state: transcript, running
// lead score, and topic tags accumulated from matched intents.
type Conversation struct {
	ID          string            `dynamodbav:"ID" json:"conversation_id"`
	Channel     string            `dynamodbav:"Channel" json:"channel"`
	PhoneNumber string            `dynamodbav:"PhoneNumber" json:"phone_number,omitempty"`
	Transcript  []TranscriptEntry `dynamodbav:"Transcript" json:"transcript"`
	LeadScore   int               `dynamodbav:"LeadScore" json:"lead_score"`
	Topics      []string          `dynamodbav:"Topics" json:"topics"`
	Status      string            `dynamodbav:"Status" json:"status"`
	RanchName   string            `dynamodbav:"RanchName" json:"ranch_name,omitempty"`
	CallerName  string            `dynamodbav:"CallerName" json:"caller_name,omitempty"`
	County      string            `dynamodbav:"County" json:"county,omitempty"`
	HerdSize    int               `dynamodbav:"HerdSize" json:"herd_size,omitempty"`
	CreatedAt   string            `dynamodbav:"CreatedAt" json:"created_at"`
	UpdatedAt   string            `dynamodbav:"UpdatedAt" json:"updated_at"`
}
