package validation

// StreamedResult is the payload accumulated by a token-streaming completion
// handler: the decoded structured object when the stream produced one, plus
// the raw concatenated text. The adapter re-applies the same pipelines before
// the result is flushed to the client, so streamed and non-streamed paths
// grade identically.
type StreamedResult struct {
	Response map[string]any
	Text     string
}

func (sr StreamedResult) response() map[string]any {
	if sr.Response != nil {
		return sr.Response
	}
	if sr.Text == "" {
		return map[string]any{}
	}
	return map[string]any{"providerRawResponse": sr.Text}
}

// RevalidateStreamSingle grades the final state of a streamed completion
// against a single expected grid.
func RevalidateStreamSingle(sr StreamedResult, expected Grid, promptID string, conf Confidence) ValidationResult {
	return ValidateSingle(sr.response(), expected, promptID, conf)
}

// RevalidateStreamMulti grades the final state of a streamed completion
// against the ordered expected grids of a multi-test puzzle.
func RevalidateStreamMulti(sr StreamedResult, expected []Grid, promptID string, conf Confidence) MultiValidationResult {
	return ValidateMulti(sr.response(), expected, promptID, conf)
}
