package models

// Toast is a transient user-facing message. Each toast expires on its own
// timer; dismissing one never touches another's.
type Toast struct {
	ID       int64  `json:"id"`
	Severity string `json:"severity"`
	Message  string `json:"message"`
}

// PricingEstimate is the structured cost breakdown returned by the assist
// service. All four fields are required on the wire.
type PricingEstimate struct {
	LaborEstimate     string `json:"laborEstimate"`
	MaterialsEstimate string `json:"materialsEstimate"`
	TotalEstimate     string `json:"totalEstimate"`
	Reasoning         string `json:"reasoning"`
}

// ChatMessage is one turn of the assistant conversation.
type ChatMessage struct {
	ID     string `json:"id"`
	Sender string `json:"sender"`
	Text   string `json:"text"`
}
