package scenario

import (
	"fmt"
	"io"
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	apperrors "github.com/louisbranch/palletrun/internal/platform/errors"
	"github.com/louisbranch/palletrun/internal/platform/errors/i18n"
	"github.com/louisbranch/palletrun/internal/services/runtime/domain/types"
)

// WriteSummary prints the final state and every failed extrinsic. Balances
// are grouped for locale and failure messages come from its catalog.
func WriteSummary(w io.Writer, result Result, locale string) error {
	if result.Runtime == nil {
		return fmt.Errorf("result has no runtime")
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return fmt.Errorf("parse locale %q: %w", locale, err)
	}
	printer := message.NewPrinter(tag)
	catalog := i18n.GetCatalog(locale)

	snap := result.Runtime.Snapshot()
	pw := &printWriter{w: w}
	pw.printf("block number: %d\n", snap.BlockNumber)
	pw.printf("accounts:\n")
	for _, a := range snap.Accounts {
		pw.printf("  %-16s nonce=%d balance=%s\n", a.Account, a.Nonce, FormatBalance(printer, a.Balance))
	}
	if issuance, ok := result.Runtime.TotalIssuance(); ok {
		pw.printf("total issuance: %s\n", FormatBalance(printer, issuance))
	}
	pw.printf("claims:\n")
	for _, c := range snap.Claims {
		pw.printf("  %s -> %s\n", strconv.Quote(c.Claim), c.Owner)
	}
	if failures := result.Failures(); len(failures) > 0 {
		pw.printf("failed extrinsics:\n")
		for _, f := range failures {
			code := apperrors.GetCode(f.Err)
			pw.printf("  block=%d extrinsic=%d caller=%s call=%s [%s] %s\n",
				f.BlockNumber, f.Index, f.Caller, f.Call, code,
				catalog.Format(string(code), apperrors.GetMetadata(f.Err)))
		}
	}
	return pw.err
}

// FormatBalance groups digits for the printer's locale when the balance fits
// in 64 bits and falls back to plain decimal otherwise.
func FormatBalance(printer *message.Printer, b types.Balance) string {
	if v, ok := b.Uint64(); ok && printer != nil {
		return printer.Sprintf("%d", v)
	}
	return b.String()
}

type printWriter struct {
	w   io.Writer
	err error
}

func (p *printWriter) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}
