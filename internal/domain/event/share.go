package event

// ShareOutcome is the result of a share attempt.
type ShareOutcome string

const (
	ShareNative    ShareOutcome = "native"
	ShareCopied    ShareOutcome = "copied"
	ShareCancelled ShareOutcome = "cancelled"
	ShareFailed    ShareOutcome = "failed"
)

// ShareAttempt describes what the browser reported for a share action.
type ShareAttempt struct {
	NativeAvailable bool
	NativeErr       string // "" on success, "AbortError" when the user cancelled
	CopyErr         string // "" when the clipboard fallback succeeded
}

// DecideShare resolves a share attempt. A user-cancelled native share is a
// silent success; a missing or failing native share falls back to the clipboard.
func DecideShare(a ShareAttempt) ShareOutcome {
	if a.NativeAvailable {
		switch a.NativeErr {
		case "":
			return ShareNative
		case "AbortError":
			return ShareCancelled
		}
	}
	if a.CopyErr != "" {
		return ShareFailed
	}
	return ShareCopied
}

// Notify reports whether the outcome warrants a user-facing message.
func (o ShareOutcome) Notify() bool {
	return o == ShareCopied || o == ShareFailed
}
