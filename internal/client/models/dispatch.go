package models

// DispatchKind selects the gateway endpoint and payload shape of a dispatch.
type DispatchKind string

const (
	DispatchEmailVerification DispatchKind = "email_verification"
	DispatchRecovery          DispatchKind = "recovery"
	DispatchRestore           DispatchKind = "restore"
)

// Dispatch describes one outbound notification. It lives only for the
// duration of a single submission.
type Dispatch struct {
	Kind        DispatchKind
	TargetEmail string
	// Link is an absolute URL carrying either the verified email or the hex
	// ciphertext.
	Link string
	// IdentityName is set for recovery and restore dispatches only.
	IdentityName string
}

// VerificationRequest is the JSON body POSTed to the gateway /verify endpoint.
type VerificationRequest struct {
	Email                 string `json:"email"`
	EmailVerificationLink string `json:"emailVerificationLink"`
}

// RecoveryRequest is the JSON body POSTed to the gateway /recovery endpoint.
type RecoveryRequest struct {
	Email        string `json:"email"`
	SeedRecovery string `json:"seedRecovery"`
	BlockstackID string `json:"blockstackId"`
}

// RestoreRequest is the JSON body POSTed to the gateway /restore endpoint.
type RestoreRequest struct {
	Email        string `json:"email"`
	RestoreLink  string `json:"restoreLink"`
	BlockstackID string `json:"blockstackId"`
}

// Payload maps d to the request body expected by its gateway endpoint. An
// unknown kind has no payload and yields nil.
func (d Dispatch) Payload() any {
	switch d.Kind {
	case DispatchEmailVerification:
		return VerificationRequest{Email: d.TargetEmail, EmailVerificationLink: d.Link}
	case DispatchRecovery:
		return RecoveryRequest{Email: d.TargetEmail, SeedRecovery: d.Link, BlockstackID: d.IdentityName}
	case DispatchRestore:
		return RestoreRequest{Email: d.TargetEmail, RestoreLink: d.Link, BlockstackID: d.IdentityName}
	default:
		return nil
	}
}
