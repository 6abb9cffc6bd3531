package ai

// Overview is the parsed generation response: an explanatory overview of the
// fault and a rewritten step-by-step troubleshooting guide, both plain text.
type Overview struct {
	AIOverview      string `json:"ai_overview"`
	Troubleshooting string `json:"troubleshooting"`
}
