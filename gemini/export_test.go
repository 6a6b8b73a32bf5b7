package gemini

// Exported for testing.
var ResponseText = responseText
