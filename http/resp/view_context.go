package resp

import "github.com/middlemark/middlemark/http/session"

// A ViewContext is the per-request, read-only data bundle every render receives.
//
// CurrentUser is nil - and only nil - for anonymous requests;
// templates can rely on that marker rather than a zero-value user.
// Flashes hold the messages drained from the session's queue for this render;
// they will not appear on any later render.
type ViewContext struct {
	CurrentUser interface{}
	Data        interface{}
	Flashes     []session.Flash
}

// ErrorMsgs lists the messages of the drained error-class flashes, in order.
func (vc ViewContext) ErrorMsgs() []string { return vc.msgs(session.FlashError) }

// InfoMsgs lists the messages of the drained info-class flashes, in order.
func (vc ViewContext) InfoMsgs() []string { return vc.msgs(session.FlashInfo) }

// SuccessMsgs lists the messages of the drained success-class flashes, in order.
func (vc ViewContext) SuccessMsgs() []string { return vc.msgs(session.FlashSuccess) }

// WarningMsgs lists the messages of the drained warning-class flashes, in order.
func (vc ViewContext) WarningMsgs() []string { return vc.msgs(session.FlashWarning) }

func (vc ViewContext) msgs(class string) []string {
	out := make([]string, 0, len(vc.Flashes))
	for _, f := range vc.Flashes {
		if f.Class == class {
			out = append(out, f.Msg)
		}
	}

	return out
}
