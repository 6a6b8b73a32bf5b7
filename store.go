package codechat

import "context"

// Store persists the full session history in one fixed location.
//
// Implementations degrade rather than fail on the conditions a client has to
// live with: a missing or unparseable history loads as empty (reported to
// the logger, never to the caller). Errors are reserved for conditions the
// caller may want to know about; the history manager logs them and carries
// on, so storage problems never reach mutation call sites.
type Store interface {
	Load(ctx context.Context) ([]Session, error)
	Save(ctx context.Context, sessions []Session) error
}
