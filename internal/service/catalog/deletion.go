package catalog

import (
	"fmt"

	"github.com/google/uuid"

	"creationrights/internal/domain"
	svc "creationrights/internal/domain/services/catalog"
)

const (
	deleteKindCreation = "creation"
	deleteKindFolder   = "folder"
)

// pendingDeletes tracks unconfirmed deletions. Tokens are single use.
type pendingDeletes struct {
	byToken map[svc.DeleteToken]svc.PendingDelete
}

func newPendingDeletes() *pendingDeletes {
	return &pendingDeletes{byToken: make(map[svc.DeleteToken]svc.PendingDelete)}
}

func (p *pendingDeletes) add(pd svc.PendingDelete) svc.PendingDelete {
	pd.Token = svc.DeleteToken(uuid.NewString())
	p.byToken[pd.Token] = pd
	return pd
}

// take removes and returns the pending deletion for token.
func (p *pendingDeletes) take(token svc.DeleteToken) (svc.PendingDelete, error) {
	pd, ok := p.byToken[token]
	if !ok {
		return svc.PendingDelete{}, &domain.NotFoundError{
			Message: fmt.Sprintf("no pending deletion for token %q", token),
		}
	}
	delete(p.byToken, token)
	return pd, nil
}

func (p *pendingDeletes) clear() {
	p.byToken = make(map[svc.DeleteToken]svc.PendingDelete)
}
