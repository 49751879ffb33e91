package cli

import "github.com/scribe-blog/scribe/internal/client/api"

// printEnvelope renders a terminal envelope for the user: field errors when
// validation failed, otherwise whatever message the server (or transport)
// left behind.
func printEnvelope(rr *api.Envelope) {
	if len(rr.Errors) > 0 {
		for field, msgs := range rr.Errors {
			for _, msg := range msgs {
				printlnFn(field+":", msg)
			}
		}
		return
	}
	if rr.Message != "" {
		printlnFn(rr.Message)
		return
	}
	if !rr.Ok() {
		printlnFn("Request failed")
	}
}
