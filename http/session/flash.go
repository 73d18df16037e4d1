package session

import (
	"net/http"
)

const (
	// Default Flash Class
	FlashError   = "error"
	FlashInfo    = "info"
	FlashSuccess = "success"
	FlashWarning = "warning"

	// Default Flash Msg
	BadCredsMsg   = "Hmm... check those credentials."
	BadInputMsg   = "Hmm... check your form, something isn't correct."
	DefaultErrMsg = "Uh oh! We've run into an issue."
	LoginFirstMsg = "Please log in to view that page."
	NoAccessMsg   = "Oops, sending you back somewhere safe."
)

// ContactUsErr templates the address users can reach out to when an issue sticks around.
var ContactUsErr = DefaultErrMsg + " Please contact us at %s if the issue persists."

// The FlashSessionable wraps methods for queueing one-shot messages on
// a session and draining them.
type FlashSessionable interface {
	Flashes(w http.ResponseWriter, r *http.Request) []Flash
	SetFlash(w http.ResponseWriter, r *http.Request, flash Flash) error
}

// A Flash is a one-shot message queued on a session,
// delivered to at most one subsequent render.
type Flash struct {
	Class string `json:"class"`
	Msg   string `json:"msg"`
}
