package engine

import (
	"cmp"
	"context"
	"fmt"
	"log"
	"os"
	"slices"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/louisbranch/palletrun/internal/services/runtime/domain/balances"
	"github.com/louisbranch/palletrun/internal/services/runtime/domain/block"
	"github.com/louisbranch/palletrun/internal/services/runtime/domain/call"
	"github.com/louisbranch/palletrun/internal/services/runtime/domain/pallet"
	"github.com/louisbranch/palletrun/internal/services/runtime/domain/primitives"
	"github.com/louisbranch/palletrun/internal/services/runtime/domain/proofofexistence"
	"github.com/louisbranch/palletrun/internal/services/runtime/domain/system"
)

// Option configures a Runtime.
type Option func(*options)

type options struct {
	logger         *log.Logger
	reporters      []Reporter
	tracerProvider trace.TracerProvider
	meterProvider  metric.MeterProvider
}

// WithLogger sets the logger used for failed extrinsics and reporter errors.
func WithLogger(logger *log.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithReporter adds a reporter alongside the default log reporter.
func WithReporter(r Reporter) Option {
	return func(o *options) {
		if r != nil {
			o.reporters = append(o.reporters, r)
		}
	}
}

// WithTracerProvider overrides the global tracer provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(o *options) { o.tracerProvider = tp }
}

// WithMeterProvider overrides the global meter provider.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(o *options) { o.meterProvider = mp }
}

// Runtime is the composition root. A is the account type, BN the block
// number, N the nonce, B the balance and C the claimable content.
//
// A Runtime is not safe for concurrent use.
type Runtime[A cmp.Ordered, BN, N primitives.Counter, B primitives.Balance[B], C cmp.Ordered] struct {
	system           *system.Pallet[A, BN, N]
	balances         *balances.Pallet[A, B]
	proofOfExistence *proofofexistence.Pallet[A, C]

	registries Registries[A]
	reporter   Reporter
	logger     *log.Logger
	telemetry  instruments
}

// New returns a runtime with empty state: block 0, no nonces, no balances and
// no claims.
func New[A cmp.Ordered, BN, N primitives.Counter, B primitives.Balance[B], C cmp.Ordered](opts ...Option) (*Runtime[A, BN, N, B, C], error) {
	var o options
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	if o.logger == nil {
		o.logger = log.New(os.Stderr, "", 0)
	}

	r := &Runtime[A, BN, N, B, C]{
		system:           system.New[A, BN, N](),
		balances:         balances.New[A, B](),
		proofOfExistence: proofofexistence.New[A, C](),
		logger:           o.logger,
	}
	registries, err := BuildRegistries[A](r.balances, r.proofOfExistence)
	if err != nil {
		return nil, fmt.Errorf("build registries: %w", err)
	}
	r.registries = registries
	r.reporter = append(MultiReporter{LogReporter{Logger: o.logger}}, o.reporters...)
	r.telemetry = newInstruments(o.tracerProvider, o.meterProvider, o.logger)
	return r, nil
}

// System returns the system pallet.
func (r *Runtime[A, BN, N, B, C]) System() *system.Pallet[A, BN, N] { return r.system }

// Balances returns the balances pallet. SetBalance on it seeds state without
// going through dispatch.
func (r *Runtime[A, BN, N, B, C]) Balances() *balances.Pallet[A, B] { return r.balances }

// ProofOfExistence returns the claim pallet.
func (r *Runtime[A, BN, N, B, C]) ProofOfExistence() *proofofexistence.Pallet[A, C] {
	return r.proofOfExistence
}

// Calls lists the registered call definitions.
func (r *Runtime[A, BN, N, B, C]) Calls() []call.Definition {
	return r.registries.Calls.ListDefinitions()
}

func (r *Runtime[A, BN, N, B, C]) BlockNumber() BN          { return r.system.BlockNumber() }
func (r *Runtime[A, BN, N, B, C]) Nonce(account A) N        { return r.system.Nonce(account) }
func (r *Runtime[A, BN, N, B, C]) Balance(account A) B      { return r.balances.Balance(account) }
func (r *Runtime[A, BN, N, B, C]) Claim(claim C) (A, bool)  { return r.proofOfExistence.GetClaim(claim) }
func (r *Runtime[A, BN, N, B, C]) TotalIssuance() (B, bool) { return r.balances.TotalIssuance() }

// Dispatch routes c to its owning pallet on behalf of caller and returns the
// pallet's result unchanged. It does not touch nonces.
func (r *Runtime[A, BN, N, B, C]) Dispatch(caller A, c call.Call) error {
	return pallet.Route(r.registries.Pallets, r.registries.Calls, caller, c)
}

// ExecuteBlock applies b. It fails only when the header does not name the
// next block number; in that case the block number stays incremented and no
// extrinsic runs. Extrinsic failures are reported and never fail the block.
//
// ctx carries tracing only. Execution is not cancellable.
func (r *Runtime[A, BN, N, B, C]) ExecuteBlock(ctx context.Context, b block.Block[BN, A]) error {
	if ctx == nil {
		ctx = context.Background()
	}
	r.system.IncBlockNumber()
	current := r.system.BlockNumber()

	ctx, span := r.telemetry.tracer.Start(ctx, "runtime.execute_block", trace.WithAttributes(
		blockNumberAttribute(uint64(current)),
		attribute.Int("block.extrinsics", len(b.Extrinsics)),
	))
	defer span.End()

	if b.Header.BlockNumber != current {
		err := blockNumberMismatch(uint64(current), uint64(b.Header.BlockNumber))
		span.RecordError(err)
		span.SetStatus(codes.Error, "block number mismatch")
		r.telemetry.blocksRejected.Add(ctx, 1)
		return err
	}

	for i, ext := range b.Extrinsics {
		r.system.IncNonce(ext.Caller)
		err := r.Dispatch(ext.Caller, ext.Call)

		outcome := ExtrinsicOutcome{
			BlockNumber: uint64(current),
			Index:       i,
			Caller:      fmt.Sprint(ext.Caller),
			Err:         err,
		}
		if ext.Call != nil {
			outcome.Call = ext.Call.CallType()
		}
		if err != nil {
			span.AddEvent("extrinsic.failed", trace.WithAttributes(
				attribute.Int("extrinsic.index", i),
				attribute.String("extrinsic.call", string(outcome.Call)),
				attribute.String("error.code", string(outcome.Code())),
			))
			r.telemetry.extrinsicsFailed.Add(ctx, 1, metric.WithAttributes(
				attribute.String("error.code", string(outcome.Code())),
			))
		}
		if rerr := r.reporter.ReportExtrinsic(ctx, outcome); rerr != nil {
			r.logger.Printf("report extrinsic: block=%d extrinsic=%d: %v", outcome.BlockNumber, i, rerr)
		}
	}
	r.telemetry.blocksExecuted.Add(ctx, 1)
	return nil
}

// AccountState is one account's nonce and balance.
type AccountState[A any, N any, B any] struct {
	Account A
	Nonce   N
	Balance B
}

// ClaimState is one claimed content value and its owner.
type ClaimState[A any, C any] struct {
	Claim C
	Owner A
}

// Snapshot is a sorted, read-only copy of runtime state.
type Snapshot[A any, BN any, N any, B any, C any] struct {
	BlockNumber BN
	Accounts    []AccountState[A, N, B]
	Claims      []ClaimState[A, C]
}

// Snapshot copies the current state. Accounts are every account that has a
// nonce or a stored balance, in order.
func (r *Runtime[A, BN, N, B, C]) Snapshot() Snapshot[A, BN, N, B, C] {
	accounts := append(r.system.Accounts(), r.balances.Accounts()...)
	slices.Sort(accounts)
	accounts = slices.Compact(accounts)

	snap := Snapshot[A, BN, N, B, C]{
		BlockNumber: r.system.BlockNumber(),
		Accounts:    make([]AccountState[A, N, B], 0, len(accounts)),
	}
	for _, a := range accounts {
		snap.Accounts = append(snap.Accounts, AccountState[A, N, B]{
			Account: a,
			Nonce:   r.system.Nonce(a),
			Balance: r.balances.Balance(a),
		})
	}
	for _, c := range r.proofOfExistence.Claims() {
		owner, _ := r.proofOfExistence.GetClaim(c)
		snap.Claims = append(snap.Claims, ClaimState[A, C]{Claim: c, Owner: owner})
	}
	return snap
}
