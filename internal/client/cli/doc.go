// Package cli is the interactive onboarding wizard.
//
// It wires configuration, the recovery cache, the gateway client and the
// onboarding machine, then walks the user through the sign-up steps:
//
//	email -> verify (Enter, or "resend") -> password -> identity name ("back") -> done
//
// At the end the recovery phrase can be shown once, and background
// notifications are drained behind a spinner before the process exits.
//
// Two flags replace the wizard with a one-shot command:
//
//	-records        list cached recovery records
//	-reveal <name>  decrypt the latest record for name
package cli
