package analysis

// Analysis is the structured answer returned by the model. The schema
// sent with the request forces this exact shape.
type Analysis struct {
	Summary         string    `json:"summary" jsonschema_description:"Two or three sentences summarising the overall business health"`
	Findings        []Finding `json:"findings" jsonschema_description:"Notable observations derived from the report figures"`
	Recommendations []string  `json:"recommendations" jsonschema_description:"Concrete actions the business should take"`
}

type Finding struct {
	Metric      string `json:"metric" jsonschema_description:"The report metric the observation is about"`
	Observation string `json:"observation" jsonschema_description:"What the figures show"`
	Severity    string `json:"severity" jsonschema:"enum=info,enum=warning,enum=critical"`
}
