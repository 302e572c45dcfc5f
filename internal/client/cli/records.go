package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/atomist-global-seeds/blockstack-browser/internal/client/repositories/recovery"
	"github.com/atomist-global-seeds/blockstack-browser/internal/common"
	"github.com/atomist-global-seeds/blockstack-browser/internal/cryptox"
	"github.com/fatih/color"
)

// ListRecords prints the cached recovery records, oldest first.
func (a *App) ListRecords(ctx context.Context) error {
	records, err := a.store.Read(ctx)
	if err != nil {
		a.fail(err)
		return err
	}
	if len(records) == 0 {
		fmt.Fprintln(a.out, "No cached recovery records")
		return nil
	}

	for i, r := range records {
		fmt.Fprintf(a.out, "%3d  %s  %s\n", i+1,
			color.CyanString(r.IdentityName),
			color.New(color.Faint).Sprintf("%d bytes", len(r.EncryptedPhrase)/2))
	}
	return nil
}

// Reveal decrypts the most recent record for identityName with a password
// read from the terminal and prints the phrase.
func (a *App) Reveal(ctx context.Context, identityName string) error {
	records, err := a.store.Read(ctx)
	if err != nil {
		a.fail(err)
		return err
	}
	rec, err := recovery.Latest(records, identityName)
	if err != nil {
		a.fail(err)
		return err
	}

	pw, err := GetPassword(a.out, "Password for "+identityName)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(pw)

	phrase, err := a.sealer.Decrypt(rec.EncryptedPhrase, string(pw))
	if err != nil {
		if errors.Is(err, cryptox.ErrWrongPassphrase) {
			fmt.Fprintln(a.out, color.RedString("✗")+" Wrong password")
		} else {
			a.fail(err)
		}
		return err
	}

	a.printPhrase(phrase)
	return nil
}
