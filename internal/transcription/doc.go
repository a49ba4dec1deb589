// Package transcription implements the HTTP client for the inference API.
// It serializes every chunk of a batch into one multipart request, parses
// the ordered transcript response, and propagates failures without retrying.
package transcription
