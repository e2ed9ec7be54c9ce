/*
SPDX-License-Identifier: Apache-2.0
*/

package vesting

import (
	"encoding/json"
	"fmt"

	"github.com/p2eengineering/kalp-sdk-public/kalpsdk"
)

type WalletCreatedEvent struct {
	Wallet      string `json:"wallet"`
	Beneficiary string `json:"beneficiary"`
}

type DepositedEvent struct {
	Wallet   string `json:"wallet"`
	Token    string `json:"token"`
	Amount   string `json:"amount"`
	Start    uint64 `json:"start"`
	Duration uint64 `json:"duration"`
}

type ReleasedEvent struct {
	Wallet      string `json:"wallet"`
	Token       string `json:"token"`
	Beneficiary string `json:"beneficiary"`
	Amount      string `json:"amount"`
	Finished    bool   `json:"finished"`
}

type BeneficiaryChangedEvent struct {
	Wallet         string `json:"wallet"`
	OldBeneficiary string `json:"oldBeneficiary"`
	NewBeneficiary string `json:"newBeneficiary"`
}

func EmitWalletCreated(ctx kalpsdk.TransactionContextInterface, event WalletCreatedEvent) error {
	eventJSON, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to obtain JSON encoding: %v", err)
	}

	err = ctx.SetEvent("VestingWalletCreated", eventJSON)
	if err != nil {
		return fmt.Errorf("failed to set event: %v", err)
	}

	return nil
}

func EmitDeposited(ctx kalpsdk.TransactionContextInterface, event DepositedEvent) error {
	eventJSON, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to obtain JSON encoding: %v", err)
	}

	err = ctx.SetEvent("Deposited", eventJSON)
	if err != nil {
		return fmt.Errorf("failed to set event: %v", err)
	}

	return nil
}

func EmitReleased(ctx kalpsdk.TransactionContextInterface, event ReleasedEvent) error {
	eventJSON, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to obtain JSON encoding: %v", err)
	}

	err = ctx.SetEvent("Released", eventJSON)
	if err != nil {
		return fmt.Errorf("failed to set event: %v", err)
	}

	return nil
}

func EmitBeneficiaryChanged(ctx kalpsdk.TransactionContextInterface, event BeneficiaryChangedEvent) error {
	eventJSON, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to obtain JSON encoding: %v", err)
	}

	err = ctx.SetEvent("BeneficiaryChanged", eventJSON)
	if err != nil {
		return fmt.Errorf("failed to set event: %v", err)
	}

	return nil
}
