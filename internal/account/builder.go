// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 Starkhand Authors

// Package account assembles, hashes, and signs transactions. Each
// transaction moves through a strict pipeline; a failure at any step is
// terminal for that builder.
package account

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"

	"github.com/sirupsen/logrus"

	"github.com/starkhand/starkhand/internal/curve"
	"github.com/starkhand/starkhand/internal/felt"
	"github.com/starkhand/starkhand/internal/provider"
	"github.com/starkhand/starkhand/internal/signer"
)

var (
	// ErrInvalidState indicates a pipeline step was attempted out of
	// order.
	ErrInvalidState = errors.New("transaction builder: step not valid in current state")

	// ErrFeeEstimationFailed indicates the node could not estimate the fee
	// and the caller supplied no maximum to fall back on.
	ErrFeeEstimationFailed = errors.New("fee estimation failed and no maximum fee was supplied")

	// ErrUnsupportedVersion indicates the requested transaction version is
	// not one the builder can hash.
	ErrUnsupportedVersion = errors.New("unsupported transaction version")
)

// State is the builder's position in the signing pipeline.
type State int

const (
	StateDraft State = iota
	StateResolvedNonce
	StateEstimatedFee
	StateHashed
	StateSigned
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateDraft:
		return "draft"
	case StateResolvedNonce:
		return "resolved-nonce"
	case StateEstimatedFee:
		return "estimated-fee"
	case StateHashed:
		return "hashed"
	case StateSigned:
		return "signed"
	case StateFailed:
		return "failed"
	}
	return "unknown"
}

type txnKind int

const (
	kindInvoke txnKind = iota
	kindDeclare
	kindDeployAccount
)

// Fee buffer applied to node estimates, tolerating price drift between
// estimation and inclusion.
const (
	feeMultiplierNum = 3
	feeMultiplierDen = 2
)

// Provider is the slice of the node API the builder consumes.
type Provider interface {
	Nonce(ctx context.Context, block provider.BlockID, address *felt.Felt) (*felt.Felt, error)
	EstimateFee(ctx context.Context, txns []any, block provider.BlockID) ([]provider.FeeEstimate, error)
}

// Builder carries one transaction through
// draft, resolved-nonce, estimated-fee, hashed, signed.
type Builder struct {
	state State
	err   error

	prov    Provider
	signer  signer.Signer
	log     *logrus.Entry
	chainID *felt.Felt
	kind    txnKind
	version uint64

	sender   *felt.Felt
	calldata []*felt.Felt

	classHash         *felt.Felt
	compiledClassHash *felt.Felt
	contractClass     json.RawMessage

	salt         *felt.Felt
	ctorCalldata []*felt.Felt

	nonce  *felt.Felt
	maxFee *felt.Felt
	bounds v3Bounds

	hash *felt.Felt
	sig  *curve.Signature
}

func newBuilder(prov Provider, sgn signer.Signer, chainID *felt.Felt, kind txnKind, version uint64) *Builder {
	return &Builder{
		state:   StateDraft,
		prov:    prov,
		signer:  sgn,
		log:     logrus.WithField("component", "builder"),
		chainID: chainID,
		kind:    kind,
		version: version,
		bounds: v3Bounds{
			Tip:         felt.FromUint64(0),
			L1GasAmount: felt.FromUint64(0),
			L1GasPrice:  felt.FromUint64(0),
			L2GasAmount: felt.FromUint64(0),
			L2GasPrice:  felt.FromUint64(0),
			NonceDAMode: DAModeL1,
			FeeDAMode:   DAModeL1,
		},
	}
}

// NewInvoke drafts an invoke executing the given calls from sender.
// Version 1 and 3 layouts are supported.
func NewInvoke(prov Provider, sgn signer.Signer, chainID, sender *felt.Felt, version uint64, calls []Call) (*Builder, error) {
	if version != 1 && version != 3 {
		return nil, fmt.Errorf("%w: invoke v%d", ErrUnsupportedVersion, version)
	}
	b := newBuilder(prov, sgn, chainID, kindInvoke, version)
	b.sender = sender
	b.calldata = FlattenCalls(calls)
	return b, nil
}

// NewDeclare drafts a declare registering the given structured class from
// sender. Version 2 and 3 layouts are supported; contractClass is the
// artifact in the broadcast serialization.
func NewDeclare(prov Provider, sgn signer.Signer, chainID, sender *felt.Felt, version uint64, classHash, compiledClassHash *felt.Felt, contractClass json.RawMessage) (*Builder, error) {
	if version != 2 && version != 3 {
		return nil, fmt.Errorf("%w: declare v%d", ErrUnsupportedVersion, version)
	}
	b := newBuilder(prov, sgn, chainID, kindDeclare, version)
	b.sender = sender
	b.classHash = classHash
	b.compiledClassHash = compiledClassHash
	b.contractClass = contractClass
	return b, nil
}

// NewDeployAccount drafts the counterfactual deployment of an account
// contract. The deployed address is derived from the class, salt, and
// constructor arguments with a zero deployer, and acts as the sender.
func NewDeployAccount(prov Provider, sgn signer.Signer, chainID *felt.Felt, version uint64, classHash, salt *felt.Felt, ctorCalldata []*felt.Felt) (*Builder, error) {
	if version != 1 && version != 3 {
		return nil, fmt.Errorf("%w: deploy_account v%d", ErrUnsupportedVersion, version)
	}
	if ctorCalldata == nil {
		ctorCalldata = []*felt.Felt{}
	}
	b := newBuilder(prov, sgn, chainID, kindDeployAccount, version)
	b.classHash = classHash
	b.salt = salt
	b.ctorCalldata = ctorCalldata
	b.sender = ContractAddress(felt.FromUint64(0), classHash, salt, ctorCalldata)
	return b, nil
}

// State reports the builder's pipeline position.
func (b *Builder) State() State { return b.state }

// Err reports the error that moved the builder to StateFailed.
func (b *Builder) Err() error { return b.err }

// Address is the transaction's sender; for an account deployment it is
// the predicted deployed address.
func (b *Builder) Address() *felt.Felt { return b.sender }

func (b *Builder) guard(want State) error {
	if b.state == StateFailed {
		return fmt.Errorf("%w: builder already failed: %v", ErrInvalidState, b.err)
	}
	if b.state != want {
		return fmt.Errorf("%w: in state %s, want %s", ErrInvalidState, b.state, want)
	}
	return nil
}

func (b *Builder) fail(err error) error {
	b.state = StateFailed
	b.err = err
	return err
}

// ResolveNonce fixes the transaction's nonce: the override if one is
// given, the provider's answer otherwise. An account deployment without an
// override uses zero since the account does not exist yet. A provider
// failure is terminal; the builder never fabricates a nonce.
func (b *Builder) ResolveNonce(ctx context.Context, override *felt.Felt) error {
	if err := b.guard(StateDraft); err != nil {
		return err
	}

	switch {
	case override != nil:
		b.nonce = override
	case b.kind == kindDeployAccount:
		b.nonce = felt.FromUint64(0)
	default:
		nonce, err := b.prov.Nonce(ctx, provider.BlockPending, b.sender)
		if err != nil {
			return b.fail(fmt.Errorf("failed to resolve nonce: %w", err))
		}
		b.nonce = nonce
	}

	b.log.WithField("nonce", felt.ToHex(b.nonce)).Debug("nonce resolved")
	b.state = StateResolvedNonce
	return nil
}

// EstimateFee asks the node to cost the transaction and pads the estimate
// by the fee buffer. If estimation fails and ceiling is non-nil, the
// ceiling is used verbatim; with no ceiling the builder fails with
// ErrFeeEstimationFailed.
func (b *Builder) EstimateFee(ctx context.Context, ceiling *felt.Felt) error {
	if err := b.guard(StateResolvedNonce); err != nil {
		return err
	}

	estimates, err := b.prov.EstimateFee(ctx, []any{b.payload(nil)}, provider.BlockPending)
	if err != nil || len(estimates) != 1 {
		if ceiling == nil {
			if err == nil {
				err = fmt.Errorf("node returned %d estimates", len(estimates))
			}
			return b.fail(fmt.Errorf("%w: %v", ErrFeeEstimationFailed, err))
		}
		b.log.WithError(err).Warn("fee estimation failed, using supplied maximum")
		b.applyCeiling(ceiling)
		b.state = StateEstimatedFee
		return nil
	}

	b.applyEstimate(estimates[0])
	b.state = StateEstimatedFee
	return nil
}

// UseMaxFee skips estimation and bounds the fee directly.
func (b *Builder) UseMaxFee(maxFee *felt.Felt) error {
	if err := b.guard(StateResolvedNonce); err != nil {
		return err
	}
	b.applyCeiling(maxFee)
	b.state = StateEstimatedFee
	return nil
}

func (b *Builder) applyEstimate(est provider.FeeEstimate) {
	if b.version == 1 || b.version == 2 {
		b.maxFee = scaleFelt(est.OverallFee, feeMultiplierNum, feeMultiplierDen)
		b.log.WithField("max_fee", felt.ToHex(b.maxFee)).Debug("fee estimated")
		return
	}
	b.bounds.L1GasAmount = scaleFelt(est.GasConsumed, feeMultiplierNum, feeMultiplierDen)
	b.bounds.L1GasPrice = scaleFelt(est.GasPrice, feeMultiplierNum, feeMultiplierDen)
}

func (b *Builder) applyCeiling(ceiling *felt.Felt) {
	if b.version == 1 || b.version == 2 {
		b.maxFee = ceiling
		return
	}
	// spend the whole ceiling at the pending gas price if needed
	b.bounds.L1GasAmount = ceiling
	b.bounds.L1GasPrice = felt.FromUint64(1)
}

// ComputeHash derives the signing hash over the canonical field ordering
// of the transaction's kind and version.
func (b *Builder) ComputeHash() error {
	if err := b.guard(StateEstimatedFee); err != nil {
		return err
	}

	switch {
	case b.kind == kindInvoke && b.version == 1:
		b.hash = invokeV1Hash(b.sender, b.chainID, b.nonce, b.maxFee, b.calldata)
	case b.kind == kindInvoke && b.version == 3:
		b.hash = invokeV3Hash(b.sender, b.chainID, b.nonce, b.bounds, nil, b.calldata)
	case b.kind == kindDeclare && b.version == 2:
		b.hash = declareV2Hash(b.sender, b.chainID, b.nonce, b.maxFee, b.classHash, b.compiledClassHash)
	case b.kind == kindDeclare && b.version == 3:
		b.hash = declareV3Hash(b.sender, b.chainID, b.nonce, b.bounds, nil, b.classHash, b.compiledClassHash)
	case b.kind == kindDeployAccount && b.version == 1:
		b.hash = deployAccountV1Hash(b.sender, b.chainID, b.nonce, b.maxFee, b.classHash, b.salt, b.ctorCalldata)
	case b.kind == kindDeployAccount && b.version == 3:
		b.hash = deployAccountV3Hash(b.sender, b.chainID, b.nonce, b.bounds, b.ctorCalldata, b.classHash, b.salt)
	default:
		return b.fail(fmt.Errorf("%w: kind %d v%d", ErrUnsupportedVersion, b.kind, b.version))
	}

	b.log.WithField("hash", felt.ToHex(b.hash)).Debug("transaction hashed")
	b.state = StateHashed
	return nil
}

// Sign produces the signature over the computed hash. There is no
// automatic retry; a signer failure is terminal.
func (b *Builder) Sign() error {
	if err := b.guard(StateHashed); err != nil {
		return err
	}

	sig, err := b.signer.Sign(b.hash)
	if err != nil {
		return b.fail(fmt.Errorf("failed to sign transaction: %w", err))
	}
	b.sig = sig
	b.state = StateSigned
	return nil
}

// TransactionHash returns the signing hash once computed.
func (b *Builder) TransactionHash() (*felt.Felt, error) {
	if b.state != StateHashed && b.state != StateSigned {
		return nil, fmt.Errorf("%w: hash not computed yet", ErrInvalidState)
	}
	return b.hash, nil
}

// Payload returns the signed transaction in broadcast form.
func (b *Builder) Payload() (any, error) {
	if b.state != StateSigned {
		return nil, fmt.Errorf("%w: transaction not signed", ErrInvalidState)
	}
	return b.payload([]*felt.Felt{b.sig.R, b.sig.S}), nil
}

// payload assembles the broadcast form with the given signature; a nil
// signature yields the estimation payload.
func (b *Builder) payload(sig []*felt.Felt) any {
	if sig == nil {
		sig = []*felt.Felt{}
	}
	fee := b.maxFee
	if fee == nil {
		fee = felt.FromUint64(0)
	}

	boundsMap := provider.ResourceBoundsMap{
		L1Gas: provider.ResourceBounds{
			MaxAmount:       b.bounds.L1GasAmount,
			MaxPricePerUnit: b.bounds.L1GasPrice,
		},
		L2Gas: provider.ResourceBounds{
			MaxAmount:       b.bounds.L2GasAmount,
			MaxPricePerUnit: b.bounds.L2GasPrice,
		},
	}

	switch {
	case b.kind == kindInvoke && b.version == 1:
		return &provider.InvokeTxnV1{
			Type:          "INVOKE",
			SenderAddress: b.sender,
			Calldata:      b.calldata,
			MaxFee:        fee,
			Version:       "0x1",
			Signature:     sig,
			Nonce:         b.nonce,
		}
	case b.kind == kindInvoke && b.version == 3:
		return &provider.InvokeTxnV3{
			Type:                      "INVOKE",
			SenderAddress:             b.sender,
			Calldata:                  b.calldata,
			Version:                   "0x3",
			Signature:                 sig,
			Nonce:                     b.nonce,
			ResourceBounds:            boundsMap,
			Tip:                       b.bounds.Tip,
			PaymasterData:             []*felt.Felt{},
			AccountDeploymentData:     []*felt.Felt{},
			NonceDataAvailabilityMode: "L1",
			FeeDataAvailabilityMode:   "L1",
		}
	case b.kind == kindDeclare && b.version == 2:
		return &provider.DeclareTxnV2{
			Type:              "DECLARE",
			SenderAddress:     b.sender,
			CompiledClassHash: b.compiledClassHash,
			MaxFee:            fee,
			Version:           "0x2",
			Signature:         sig,
			Nonce:             b.nonce,
			ContractClass:     b.contractClass,
		}
	case b.kind == kindDeclare && b.version == 3:
		return &provider.DeclareTxnV3{
			Type:                      "DECLARE",
			SenderAddress:             b.sender,
			CompiledClassHash:         b.compiledClassHash,
			Version:                   "0x3",
			Signature:                 sig,
			Nonce:                     b.nonce,
			ContractClass:             b.contractClass,
			ResourceBounds:            boundsMap,
			Tip:                       b.bounds.Tip,
			PaymasterData:             []*felt.Felt{},
			AccountDeploymentData:     []*felt.Felt{},
			NonceDataAvailabilityMode: "L1",
			FeeDataAvailabilityMode:   "L1",
		}
	case b.kind == kindDeployAccount && b.version == 1:
		return &provider.DeployAccountTxnV1{
			Type:                "DEPLOY_ACCOUNT",
			ClassHash:           b.classHash,
			ContractAddressSalt: b.salt,
			ConstructorCalldata: b.ctorCalldata,
			MaxFee:              fee,
			Version:             "0x1",
			Signature:           sig,
			Nonce:               b.nonce,
		}
	default:
		return &provider.DeployAccountTxnV3{
			Type:                      "DEPLOY_ACCOUNT",
			ClassHash:                 b.classHash,
			ContractAddressSalt:       b.salt,
			ConstructorCalldata:       b.ctorCalldata,
			Version:                   "0x3",
			Signature:                 sig,
			Nonce:                     b.nonce,
			ResourceBounds:            boundsMap,
			Tip:                       b.bounds.Tip,
			PaymasterData:             []*felt.Felt{},
			NonceDataAvailabilityMode: "L1",
			FeeDataAvailabilityMode:   "L1",
		}
	}
}

// scaleFelt multiplies f by num/den in integer arithmetic.
func scaleFelt(f *felt.Felt, num, den int64) *felt.Felt {
	if f == nil {
		return felt.FromUint64(0)
	}
	v := felt.BigInt(f)
	v.Mul(v, big.NewInt(num))
	v.Div(v, big.NewInt(den))

	out, err := felt.FromBigInt(v)
	if err != nil {
		// fee estimates are far below the modulus
		panic(err)
	}
	return out
}
