package reconcile

import (
	"regexp"
	"strings"
)

// The server overlays two state transitions onto free-text system
// notices: room joins and identity confirmations. Servers that emit
// structured joined/auth frames bypass this adapter entirely; the text
// patterns below exist only for compatibility with servers that do not.

var (
	roomPattern = regexp.MustCompile(`room '([^']+)'`)
	namePattern = regexp.MustCompile(`'([^']+)'`)
)

// applySystem appends a system notice and runs the legacy text
// inference for join and login confirmations.
func (r *Reconciler) applySystem(text string) {
	r.store.AppendSystem(text)

	if strings.Contains(text, "You joined room") || strings.Contains(text, "joined the room") {
		if m := roomPattern.FindStringSubmatch(text); m != nil {
			r.confirmJoin(m[1])
		} else if r.RefreshRoster != nil {
			r.RefreshRoster()
		}
		return
	}

	if strings.Contains(text, "Your name is") || strings.Contains(text, "Logged in") {
		name := ""
		if m := namePattern.FindStringSubmatch(text); m != nil {
			name = m[1]
		}
		r.confirmIdentity(name)
	}
}
