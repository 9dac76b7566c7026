package provider

import (
	"errors"
	"fmt"

	"github.com/tidwall/gjson"
)

// textPaths locate the reply text in the response formats we understand, in
// the order they are tried.
var textPaths = []string{
	// OpenAI chat
	"choices.0.message.content",
	// Gemini generateContent
	"candidates.0.content.parts.0.text",
	// Anthropic messages
	`content.#(type=="text").text`,
	// OpenAI responses
	`output.#(type=="message").content.#(type=="output_text").text`,
	// Ollama native chat
	"message.content",
	// plain {"response": "..."}
	"response",
}

// ExtractText returns the reply text from a provider response body.
func ExtractText(body []byte) (string, error) {
	if !gjson.ValidBytes(body) {
		return "", errors.New("invalid JSON response")
	}
	if msg := ErrorMessage(body); msg != "" {
		return "", fmt.Errorf("API error: %s", msg)
	}
	for _, path := range textPaths {
		if r := gjson.GetBytes(body, path); r.Type == gjson.String {
			return r.String(), nil
		}
	}
	return "", fmt.Errorf("could not extract text from response: %s", truncate(string(body), 500))
}

// ErrorMessage returns the message of an {"error": ...} body, or "" when the
// body carries no error.
func ErrorMessage(body []byte) string {
	e := gjson.GetBytes(body, "error")
	switch {
	case !e.Exists(), e.Type == gjson.Null:
		return ""
	case e.Type == gjson.String:
		return e.String()
	case e.Get("message").Exists():
		return e.Get("message").String()
	}
	return e.Raw
}
