/*
SPDX-License-Identifier: Apache-2.0
*/

package vesting

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/p2eengineering/kalp-sdk-public/kalpsdk"

	"github.com/marcelmiro/astrano-contracts/ccerror"
)

const (
	walletKeyPrefix   = "vestingwallet_"
	scheduleKeyPrefix = "vestingschedule_"
)

// Wallet is a custodial account releasing deposited assets to a single
// beneficiary. Each deposited asset vests under its own Schedule.
type Wallet struct {
	Beneficiary string `json:"beneficiary"`
}

// Schedule is the linear release curve for one (wallet, token) pair. The
// vested total is not snapshotted: it is recomputed from the wallet's
// current custodial balance plus Released on every query, so redeposits
// raise the release trajectory retroactively.
type Schedule struct {
	Start    uint64 `json:"start"`
	Duration uint64 `json:"duration"`
	Released string `json:"released"`
}

func GetWallet(ctx kalpsdk.TransactionContextInterface, id string) (*Wallet, error) {
	walletKey := walletKeyPrefix + id
	walletAsBytes, err := ctx.GetState(walletKey)
	if err != nil {
		return nil, ccerror.New(http.StatusInternalServerError, fmt.Sprintf("failed to get vesting wallet with Key %s", walletKey), err)
	}
	if walletAsBytes == nil {
		return nil, ccerror.New(http.StatusNotFound, ErrWalletNotFound(id).Error(), nil)
	}

	var wallet Wallet
	err = json.Unmarshal(walletAsBytes, &wallet)
	if err != nil {
		return nil, ccerror.New(http.StatusInternalServerError, "failed to unmarshal vesting wallet", err)
	}

	return &wallet, nil
}

func SetWallet(ctx kalpsdk.TransactionContextInterface, id string, wallet *Wallet) error {
	walletKey := walletKeyPrefix + id
	walletAsBytes, err := json.Marshal(wallet)
	if err != nil {
		return ccerror.New(http.StatusInternalServerError, "failed to marshal vesting wallet", err)
	}

	err = ctx.PutStateWithoutKYC(walletKey, walletAsBytes)
	if err != nil {
		return ccerror.New(http.StatusInternalServerError, "failed to set vesting wallet", err)
	}

	return nil
}

// GetSchedule returns nil without error when no schedule exists for the
// (wallet, token) pair. Absence means Uninitialized, not failure.
func GetSchedule(ctx kalpsdk.TransactionContextInterface, id, tokenAddr string) (*Schedule, error) {
	scheduleKey := fmt.Sprintf("%s%s_%s", scheduleKeyPrefix, id, tokenAddr)
	scheduleAsBytes, err := ctx.GetState(scheduleKey)
	if err != nil {
		return nil, ccerror.New(http.StatusInternalServerError, fmt.Sprintf("failed to get vesting schedule with Key %s", scheduleKey), err)
	}
	if scheduleAsBytes == nil {
		return nil, nil
	}

	var schedule Schedule
	err = json.Unmarshal(scheduleAsBytes, &schedule)
	if err != nil {
		return nil, ccerror.New(http.StatusInternalServerError, "failed to unmarshal vesting schedule", err)
	}

	return &schedule, nil
}

func SetSchedule(ctx kalpsdk.TransactionContextInterface, id, tokenAddr string, schedule *Schedule) error {
	scheduleKey := fmt.Sprintf("%s%s_%s", scheduleKeyPrefix, id, tokenAddr)
	scheduleAsBytes, err := json.Marshal(schedule)
	if err != nil {
		return ccerror.New(http.StatusInternalServerError, "failed to marshal vesting schedule", err)
	}

	err = ctx.PutStateWithoutKYC(scheduleKey, scheduleAsBytes)
	if err != nil {
		return ccerror.New(http.StatusInternalServerError, "failed to set vesting schedule", err)
	}

	return nil
}

func DeleteSchedule(ctx kalpsdk.TransactionContextInterface, id, tokenAddr string) error {
	scheduleKey := fmt.Sprintf("%s%s_%s", scheduleKeyPrefix, id, tokenAddr)

	err := ctx.DelStateWithoutKYC(scheduleKey)
	if err != nil {
		return ccerror.New(http.StatusInternalServerError, "failed to delete vesting schedule", err)
	}

	return nil
}
