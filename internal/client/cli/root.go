package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/atomist-global-seeds/blockstack-browser/internal/client/onboarding"
	"github.com/atomist-global-seeds/blockstack-browser/internal/common"
	"github.com/fatih/color"
)

// Root runs the sign-up wizard until HOORAY or until input ends. Background
// notifications are drained before it returns.
func (a *App) Root(ctx context.Context) error {
	fmt.Fprintln(a.out, color.CyanString("Create your identity")+" (Ctrl-D to quit)")
	defer a.drain(ctx)

	if a.config != nil && a.config.ResumeEmail != "" {
		if err := a.machine.Resume(ctx, a.config.ResumeEmail, a.config.ResumeToken); err != nil {
			a.fail(err)
			return fmt.Errorf("resume: %w", err)
		}
		a.ok("Email " + color.CyanString(a.config.ResumeEmail) + " verified")
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		var err error
		switch a.machine.Step() {
		case onboarding.StepEmail:
			err = a.emailStep(ctx)
		case onboarding.StepEmailVerify:
			err = a.verifyStep(ctx)
		case onboarding.StepPassword:
			err = a.passwordStep(ctx)
		case onboarding.StepUsername:
			err = a.identityNameStep(ctx)
		case onboarding.StepHooray:
			return a.hoorayStep(ctx)
		}

		if err == nil {
			continue
		}
		if errors.Is(err, common.ErrValidation) || errors.Is(err, common.ErrEntropySource) {
			a.fail(err)
			continue
		}
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(a.out, "Bye!")
			return nil
		}
		return err
	}
}

func (a *App) emailStep(ctx context.Context) error {
	email, err := GetSimpleText(a.reader, "Email address", a.out)
	if err != nil {
		return err
	}
	return a.machine.SubmitEmail(ctx, email)
}

func (a *App) verifyStep(ctx context.Context) error {
	email := a.machine.Session().Email
	prompt := "We sent a verification link to " + color.CyanString(email) + ".\n" +
		"Press Enter once you have clicked it, or type " + color.YellowString("resend")

	answer, err := GetSimpleText(a.reader, prompt, a.out)
	if err != nil {
		return err
	}

	switch strings.ToLower(answer) {
	case "":
		return a.machine.ConfirmEmailVerified(ctx)
	case "resend":
		if err := a.machine.ResendVerification(ctx); err != nil {
			return err
		}
		a.ok("Verification link sent again")
		return nil
	default:
		return fmt.Errorf("%w: unknown answer %q", common.ErrValidation, answer)
	}
}

func (a *App) passwordStep(ctx context.Context) error {
	current := a.machine.Session().Passphrase

	prompt := "Choose a password"
	if current != "" {
		prompt += " (Enter keeps the current one)"
	}
	pw, err := GetPassword(a.out, prompt)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(pw)

	if len(pw) == 0 && current != "" {
		return a.machine.SubmitPassword(ctx, current)
	}
	if len(pw) == 0 {
		return a.machine.SubmitPassword(ctx, "")
	}

	confirm, err := GetPassword(a.out, "Repeat password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(confirm)

	if string(pw) != string(confirm) {
		return fmt.Errorf("%w: passwords do not match", common.ErrValidation)
	}
	return a.machine.SubmitPassword(ctx, string(pw))
}

func (a *App) identityNameStep(ctx context.Context) error {
	name := a.machine.Session().IdentityName
	prompt := "Identity name"
	if name != "" {
		prompt += " [" + color.CyanString(name) + "]"
	}
	prompt += " (type " + color.YellowString("back") + " to change the password)"

	answer, err := GetSimpleText(a.reader, prompt, a.out)
	if err != nil {
		return err
	}
	if strings.EqualFold(answer, "back") {
		return a.machine.Previous(ctx)
	}
	return a.machine.SubmitIdentityName(ctx, answer)
}

func (a *App) hoorayStep(ctx context.Context) error {
	s := a.machine.Session()
	a.ok("Identity " + color.CyanString(s.IdentityName) + " created")
	fmt.Fprintln(a.out, "  Recovery and restore links are on their way to "+color.CyanString(s.Email))

	answer, err := GetSimpleText(a.reader, "Show your recovery phrase now? [y/N]", a.out)
	if err != nil || !yes(answer) {
		return nil
	}

	phrase, ok := a.machine.RecoveryPhrase()
	if !ok {
		return nil
	}
	a.printPhrase(phrase)
	return nil
}

func (a *App) printPhrase(phrase string) {
	fmt.Fprintln(a.out, color.YellowString("Write these words down in order and keep them offline:"))
	for i, w := range strings.Fields(phrase) {
		fmt.Fprintf(a.out, "  %2d. %s\n", i+1, w)
	}
}

func (a *App) ok(msg string) {
	fmt.Fprintln(a.out, color.GreenString("✓")+" "+msg)
}

func (a *App) fail(err error) {
	fmt.Fprintln(a.out, color.RedString("✗")+" "+err.Error())
}
