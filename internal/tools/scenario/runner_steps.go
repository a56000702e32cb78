package scenario

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/louisbranch/palletrun/internal/services/runtime/domain/call"
	"github.com/louisbranch/palletrun/internal/services/runtime/domain/engine"
	"github.com/louisbranch/palletrun/internal/services/runtime/domain/primitives"
	"github.com/louisbranch/palletrun/internal/services/runtime/domain/types"
)

// Extrinsic call names used by the DSL.
const (
	callTransfer    = "transfer"
	callCreateClaim = "create_claim"
	callRevokeClaim = "revoke_claim"
	callRaw         = "raw"
)

type scenarioState struct {
	runtime  *types.Runtime
	recorder *engine.Recorder
}

// rawCall carries an arbitrary call type through dispatch.
type rawCall struct {
	callType call.Type
}

func (c rawCall) CallType() call.Type { return c.callType }

func (r *Runner) runStep(ctx context.Context, state *scenarioState, step Step) error {
	switch step.Kind {
	case StepSeed:
		return r.runSeed(state, step.Args)
	case StepBlock:
		return r.runBlock(ctx, state, step.Args)
	case StepExpectBalance:
		return r.runExpectBalance(state, step.Args)
	case StepExpectNonce:
		return r.runExpectNonce(state, step.Args)
	case StepExpectClaim:
		return r.runExpectClaim(state, step.Args)
	case StepExpectNoClaim:
		return r.runExpectNoClaim(state, step.Args)
	case StepExpectBlockNumber:
		return r.runExpectBlockNumber(state, step.Args)
	case StepExpectFailure:
		return r.runExpectFailure(state, step.Args)
	case StepExpectIssuance:
		return r.runExpectIssuance(state, step.Args)
	default:
		return r.failf("unknown step kind %q", step.Kind)
	}
}

func (r *Runner) runSeed(state *scenarioState, args map[string]any) error {
	account := requiredString(args, "account")
	if account == "" {
		return r.failf("seed account is required")
	}
	amount, err := parseAmount(args)
	if err != nil {
		return r.failf("seed %s: %v", account, err)
	}
	state.runtime.Balances().SetBalance(account, amount)
	return nil
}

func (r *Runner) runBlock(ctx context.Context, state *scenarioState, args map[string]any) error {
	number := uint64(state.runtime.BlockNumber()) + 1
	if n, ok := readInt(args, "number"); ok {
		number = uint64(n)
	}
	if number > math.MaxUint32 {
		return r.failf("block number %d out of range", number)
	}

	entries, _ := args["extrinsics"].([]map[string]any)
	extrinsics := make([]types.Extrinsic, 0, len(entries))
	for i, entry := range entries {
		ext, err := buildExtrinsic(entry)
		if err != nil {
			return r.failf("block %d extrinsic %d: %v", number, i, err)
		}
		extrinsics = append(extrinsics, ext)
	}

	err := state.runtime.ExecuteBlock(ctx, types.NewBlock(types.BlockNumber(number), extrinsics...))
	rejected := optionalBool(args, "rejected", false)
	switch {
	case rejected && err == nil:
		return r.assertf("block %d: expected rejection, block was applied", number)
	case rejected && !errors.Is(err, engine.ErrBlockNumberMismatch):
		return r.assertf("block %d: expected block number mismatch, got %v", number, err)
	case !rejected && err != nil:
		return r.assertf("block %d: %v", number, err)
	}
	r.logf("block %d executed with %d extrinsics", number, len(extrinsics))
	return nil
}

func buildExtrinsic(entry map[string]any) (types.Extrinsic, error) {
	caller := requiredString(entry, "caller")
	if caller == "" {
		return types.Extrinsic{}, errors.New("caller is required")
	}
	var c call.Call
	switch name := requiredString(entry, "call"); name {
	case callTransfer:
		amount, err := parseAmount(entry)
		if err != nil {
			return types.Extrinsic{}, err
		}
		c = types.Transfer{To: requiredString(entry, "to"), Amount: amount}
	case callCreateClaim:
		c = types.CreateClaim{Claim: requiredString(entry, "claim")}
	case callRevokeClaim:
		c = types.RevokeClaim{Claim: requiredString(entry, "claim")}
	case callRaw:
		c = rawCall{callType: call.Type(requiredString(entry, "type"))}
	default:
		return types.Extrinsic{}, fmt.Errorf("unknown call %q", name)
	}
	return types.Extrinsic{Caller: caller, Call: c}, nil
}

func (r *Runner) runExpectBalance(state *scenarioState, args map[string]any) error {
	account := requiredString(args, "account")
	want, err := parseAmount(args)
	if err != nil {
		return r.failf("expect_balance %s: %v", account, err)
	}
	if got := state.runtime.Balance(account); got != want {
		return r.assertf("balance of %s = %s, want %s", account, got, want)
	}
	return nil
}

func (r *Runner) runExpectNonce(state *scenarioState, args map[string]any) error {
	account := requiredString(args, "account")
	want, ok := readInt(args, "nonce")
	if !ok || want < 0 {
		return r.failf("expect_nonce %s: nonce must be a non-negative integer", account)
	}
	if got := state.runtime.Nonce(account); uint64(got) != uint64(want) {
		return r.assertf("nonce of %s = %d, want %d", account, got, want)
	}
	return nil
}

func (r *Runner) runExpectClaim(state *scenarioState, args map[string]any) error {
	claim := requiredString(args, "claim")
	want := requiredString(args, "owner")
	owner, ok := state.runtime.Claim(claim)
	if !ok {
		return r.assertf("claim %q has no owner, want %s", claim, want)
	}
	if owner != want {
		return r.assertf("claim %q owned by %s, want %s", claim, owner, want)
	}
	return nil
}

func (r *Runner) runExpectNoClaim(state *scenarioState, args map[string]any) error {
	claim := requiredString(args, "claim")
	if owner, ok := state.runtime.Claim(claim); ok {
		return r.assertf("claim %q owned by %s, want unclaimed", claim, owner)
	}
	return nil
}

func (r *Runner) runExpectBlockNumber(state *scenarioState, args map[string]any) error {
	want, ok := readInt(args, "number")
	if !ok || want < 0 {
		return r.failf("expect_block_number: number must be a non-negative integer")
	}
	if got := state.runtime.BlockNumber(); uint64(got) != uint64(want) {
		return r.assertf("block number = %d, want %d", got, want)
	}
	return nil
}

func (r *Runner) runExpectFailure(state *scenarioState, args map[string]any) error {
	blockNumber, _ := readInt(args, "block")
	index, _ := readInt(args, "extrinsic")
	code := optionalString(args, "code", "")
	for _, o := range state.recorder.Failures() {
		if o.BlockNumber != uint64(blockNumber) || o.Index != index {
			continue
		}
		if code != "" && string(o.Code()) != code {
			return r.assertf("block %d extrinsic %d failed with %s, want %s", blockNumber, index, o.Code(), code)
		}
		return nil
	}
	return r.assertf("block %d extrinsic %d did not fail", blockNumber, index)
}

func (r *Runner) runExpectIssuance(state *scenarioState, args map[string]any) error {
	want, err := parseAmount(args)
	if err != nil {
		return r.failf("expect_total_issuance: %v", err)
	}
	got, ok := state.runtime.TotalIssuance()
	if !ok {
		return r.assertf("total issuance overflows")
	}
	if got != want {
		return r.assertf("total issuance = %s, want %s", got, want)
	}
	return nil
}

func parseAmount(args map[string]any) (primitives.U256, error) {
	raw := requiredString(args, "amount")
	if raw == "" {
		return primitives.U256{}, errors.New("amount is required")
	}
	return primitives.ParseU256(raw)
}
