// Package gemini implements [codechat.Backend] for the Google Gemini API.
//
// It wraps the google.golang.org/genai SDK, adapting the SDK's iter.Seq2
// streaming iterator to the pull-based [codechat.Stream] interface. It is
// used as a hosted fallback when no local assistant server is available.
package gemini

const defaultModel = "gemini-3.1-pro-preview"
