package client

import (
	"context"

	"github.com/atomist-global-seeds/blockstack-browser/internal/client/models"
)

// Gateway submits notification requests to the external notification
// service. Responses are not inspected beyond success or failure.
type Gateway interface {
	SendVerification(ctx context.Context, req models.VerificationRequest) error
	SendRecovery(ctx context.Context, req models.RecoveryRequest) error
	SendRestore(ctx context.Context, req models.RestoreRequest) error
}
