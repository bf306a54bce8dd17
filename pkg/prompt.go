package pkg

import "strings"

// responseMarker separates instructions from the completion in providers
// that echo the prompt back (instruction-tuned text-generation APIs).
const responseMarker = "### Response:"

// BuildMessages wraps a user message in the fixed system prompt for a
// chat-completions call.
func BuildMessages(systemPrompt, userMessage string) []RequestMessage {
	return []RequestMessage{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: userMessage},
	}
}

// CleanResponse normalizes raw generated text for display. Some providers
// echo the full prompt ahead of the completion; everything up to and
// including the final response marker is dropped, then surrounding
// whitespace is trimmed. Text without a marker passes through trimmed.
func CleanResponse(raw string) string {
	if i := strings.LastIndex(raw, responseMarker); i >= 0 {
		raw = raw[i+len(responseMarker):]
	}
	return strings.TrimSpace(raw)
}
