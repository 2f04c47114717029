package mqtt

// StepTopic is where every step record of a run is published.
func StepTopic(prefix, runID string) string {
	return prefix + "/" + runID + "/step"
}

// SummaryTopic receives the run summary once.
func SummaryTopic(prefix, runID string) string {
	return prefix + "/" + runID + "/summary"
}
