// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 Starkhand Authors

package provider

import (
	"encoding/json"

	"github.com/starkhand/starkhand/internal/felt"
)

// BlockID selects the state a read method executes against.
type BlockID string

const (
	BlockPending BlockID = "pending"
	BlockLatest  BlockID = "latest"
)

// FunctionCall is one read-only invocation request.
type FunctionCall struct {
	ContractAddress    *felt.Felt   `json:"contract_address"`
	EntryPointSelector *felt.Felt   `json:"entry_point_selector"`
	Calldata           []*felt.Felt `json:"calldata"`
}

// FeeEstimate is the node's cost projection for one transaction.
type FeeEstimate struct {
	GasConsumed     *felt.Felt `json:"gas_consumed"`
	GasPrice        *felt.Felt `json:"gas_price"`
	DataGasConsumed *felt.Felt `json:"data_gas_consumed,omitempty"`
	DataGasPrice    *felt.Felt `json:"data_gas_price,omitempty"`
	OverallFee      *felt.Felt `json:"overall_fee"`
	Unit            string     `json:"unit"`
}

// ResourceBounds caps one resource's consumption and unit price.
type ResourceBounds struct {
	MaxAmount       *felt.Felt `json:"max_amount"`
	MaxPricePerUnit *felt.Felt `json:"max_price_per_unit"`
}

// ResourceBoundsMap carries the bounds for every priced resource.
type ResourceBoundsMap struct {
	L1Gas ResourceBounds `json:"l1_gas"`
	L2Gas ResourceBounds `json:"l2_gas"`
}

// InvokeTxnV1 is a version 1 invoke in broadcast form, fee-bounded in WEI.
type InvokeTxnV1 struct {
	Type          string       `json:"type"`
	SenderAddress *felt.Felt   `json:"sender_address"`
	Calldata      []*felt.Felt `json:"calldata"`
	MaxFee        *felt.Felt   `json:"max_fee"`
	Version       string       `json:"version"`
	Signature     []*felt.Felt `json:"signature"`
	Nonce         *felt.Felt   `json:"nonce"`
}

// InvokeTxnV3 is a version 3 invoke in broadcast form, resource-bounded in
// FRI.
type InvokeTxnV3 struct {
	Type                      string            `json:"type"`
	SenderAddress             *felt.Felt        `json:"sender_address"`
	Calldata                  []*felt.Felt      `json:"calldata"`
	Version                   string            `json:"version"`
	Signature                 []*felt.Felt      `json:"signature"`
	Nonce                     *felt.Felt        `json:"nonce"`
	ResourceBounds            ResourceBoundsMap `json:"resource_bounds"`
	Tip                       *felt.Felt        `json:"tip"`
	PaymasterData             []*felt.Felt      `json:"paymaster_data"`
	AccountDeploymentData     []*felt.Felt      `json:"account_deployment_data"`
	NonceDataAvailabilityMode string            `json:"nonce_data_availability_mode"`
	FeeDataAvailabilityMode   string            `json:"fee_data_availability_mode"`
}

// DeclareTxnV2 registers a structured class, fee-bounded in WEI.
type DeclareTxnV2 struct {
	Type              string          `json:"type"`
	SenderAddress     *felt.Felt      `json:"sender_address"`
	CompiledClassHash *felt.Felt      `json:"compiled_class_hash"`
	MaxFee            *felt.Felt      `json:"max_fee"`
	Version           string          `json:"version"`
	Signature         []*felt.Felt    `json:"signature"`
	Nonce             *felt.Felt      `json:"nonce"`
	ContractClass     json.RawMessage `json:"contract_class"`
}

// DeclareTxnV3 registers a structured class, resource-bounded in FRI.
type DeclareTxnV3 struct {
	Type                      string            `json:"type"`
	SenderAddress             *felt.Felt        `json:"sender_address"`
	CompiledClassHash         *felt.Felt        `json:"compiled_class_hash"`
	Version                   string            `json:"version"`
	Signature                 []*felt.Felt      `json:"signature"`
	Nonce                     *felt.Felt        `json:"nonce"`
	ContractClass             json.RawMessage   `json:"contract_class"`
	ResourceBounds            ResourceBoundsMap `json:"resource_bounds"`
	Tip                       *felt.Felt        `json:"tip"`
	PaymasterData             []*felt.Felt      `json:"paymaster_data"`
	AccountDeploymentData     []*felt.Felt      `json:"account_deployment_data"`
	NonceDataAvailabilityMode string            `json:"nonce_data_availability_mode"`
	FeeDataAvailabilityMode   string            `json:"fee_data_availability_mode"`
}

// DeployAccountTxnV1 counterfactually deploys an account contract, paid by
// the deployed address itself in WEI.
type DeployAccountTxnV1 struct {
	Type                string       `json:"type"`
	ClassHash           *felt.Felt   `json:"class_hash"`
	ContractAddressSalt *felt.Felt   `json:"contract_address_salt"`
	ConstructorCalldata []*felt.Felt `json:"constructor_calldata"`
	MaxFee              *felt.Felt   `json:"max_fee"`
	Version             string       `json:"version"`
	Signature           []*felt.Felt `json:"signature"`
	Nonce               *felt.Felt   `json:"nonce"`
}

// DeployAccountTxnV3 counterfactually deploys an account contract,
// resource-bounded in FRI.
type DeployAccountTxnV3 struct {
	Type                      string            `json:"type"`
	ClassHash                 *felt.Felt        `json:"class_hash"`
	ContractAddressSalt       *felt.Felt        `json:"contract_address_salt"`
	ConstructorCalldata       []*felt.Felt      `json:"constructor_calldata"`
	Version                   string            `json:"version"`
	Signature                 []*felt.Felt      `json:"signature"`
	Nonce                     *felt.Felt        `json:"nonce"`
	ResourceBounds            ResourceBoundsMap `json:"resource_bounds"`
	Tip                       *felt.Felt        `json:"tip"`
	PaymasterData             []*felt.Felt      `json:"paymaster_data"`
	NonceDataAvailabilityMode string            `json:"nonce_data_availability_mode"`
	FeeDataAvailabilityMode   string            `json:"fee_data_availability_mode"`
}

// AddInvokeResult is the node's acknowledgement of a submitted invoke.
type AddInvokeResult struct {
	TransactionHash *felt.Felt `json:"transaction_hash"`
}

// AddDeclareResult is the node's acknowledgement of a submitted declare.
type AddDeclareResult struct {
	TransactionHash *felt.Felt `json:"transaction_hash"`
	ClassHash       *felt.Felt `json:"class_hash"`
}

// AddDeployAccountResult is the node's acknowledgement of a submitted
// account deployment.
type AddDeployAccountResult struct {
	TransactionHash *felt.Felt `json:"transaction_hash"`
	ContractAddress *felt.Felt `json:"contract_address"`
}

// Receipt is the subset of a transaction receipt the tool reports.
type Receipt struct {
	TransactionHash *felt.Felt `json:"transaction_hash"`
	ExecutionStatus string     `json:"execution_status"`
	FinalityStatus  string     `json:"finality_status"`
	RevertReason    string     `json:"revert_reason,omitempty"`
	BlockNumber     uint64     `json:"block_number,omitempty"`
	ActualFee       *FeeAmount `json:"actual_fee,omitempty"`
}

// FeeAmount is a paid fee with its unit.
type FeeAmount struct {
	Amount *felt.Felt `json:"amount"`
	Unit   string     `json:"unit"`
}
