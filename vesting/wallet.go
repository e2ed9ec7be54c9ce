/*
SPDX-License-Identifier: Apache-2.0
*/

// Package vesting implements linear vesting wallets. A wallet custodies
// deposits of any asset for one beneficiary; each asset vests linearly
// between a start time and start+duration fixed on the first deposit.
package vesting

import (
	"fmt"
	"math/big"
	"net/http"

	"github.com/p2eengineering/kalp-sdk-public/kalpsdk"

	"github.com/marcelmiro/astrano-contracts/ccerror"
	"github.com/marcelmiro/astrano-contracts/token"
)

// CreateWallet registers a new vesting wallet for beneficiary and returns
// its custodial account address.
func CreateWallet(ctx kalpsdk.TransactionContextInterface, beneficiary string) (string, error) {
	if token.IsZeroAddress(beneficiary) {
		return "", ccerror.New(http.StatusBadRequest, ErrZeroBeneficiary.Error(), nil)
	}

	id := token.NewContractAddress(ctx, walletKeyPrefix+beneficiary)

	err := SetWallet(ctx, id, &Wallet{Beneficiary: beneficiary})
	if err != nil {
		return "", err
	}

	err = EmitWalletCreated(ctx, WalletCreatedEvent{Wallet: id, Beneficiary: beneficiary})
	if err != nil {
		return "", err
	}

	return id, nil
}

// Deposit pulls amount of tokenAddr from from into the wallet's custody.
// The first deposit for a (wallet, token) pair fixes the schedule at
// start=now+startIn with the given duration; later deposits ignore both
// arguments and only grow the backing balance.
func Deposit(ctx kalpsdk.TransactionContextInterface, id, tokenAddr, from string, amount *big.Int, startIn, duration uint64) error {
	if _, err := GetWallet(ctx, id); err != nil {
		return err
	}

	if amount.Sign() <= 0 {
		return ccerror.New(http.StatusBadRequest, ErrAmountIsZero.Error(), nil)
	}

	schedule, err := GetSchedule(ctx, id, tokenAddr)
	if err != nil {
		return err
	}

	if schedule == nil {
		if duration == 0 {
			return ccerror.New(http.StatusBadRequest, ErrDurationIsZero.Error(), nil)
		}

		now, err := token.TxTime(ctx)
		if err != nil {
			return err
		}

		schedule = &Schedule{
			Start:    now + startIn,
			Duration: duration,
			Released: "0",
		}

		err = SetSchedule(ctx, id, tokenAddr, schedule)
		if err != nil {
			return err
		}
	}

	err = token.TransferFrom(ctx, tokenAddr, id, from, id, amount)
	if err != nil {
		return err
	}

	return EmitDeposited(ctx, DepositedEvent{
		Wallet:   id,
		Token:    tokenAddr,
		Amount:   amount.String(),
		Start:    schedule.Start,
		Duration: schedule.Duration,
	})
}

// Releasable returns the amount currently due to the beneficiary and
// whether the schedule has fully vested. The vested total is the wallet's
// current custodial balance plus everything already released, so deposits
// made mid-schedule vest along the same curve.
func Releasable(ctx kalpsdk.TransactionContextInterface, id, tokenAddr string) (*big.Int, bool, error) {
	schedule, err := GetSchedule(ctx, id, tokenAddr)
	if err != nil {
		return nil, false, err
	}
	if schedule == nil {
		return big.NewInt(0), false, nil
	}

	now, err := token.TxTime(ctx)
	if err != nil {
		return nil, false, err
	}
	if now < schedule.Start {
		return big.NewInt(0), false, nil
	}

	balance, err := token.GetBalance(ctx, tokenAddr, id)
	if err != nil {
		return nil, false, err
	}

	released, ok := new(big.Int).SetString(schedule.Released, 10)
	if !ok {
		return nil, false, ccerror.New(http.StatusInternalServerError, fmt.Sprintf("failed to parse released amount for wallet %s", id), nil)
	}

	total := new(big.Int).Add(balance, released)

	if now >= schedule.Start+schedule.Duration {
		return new(big.Int).Sub(total, released), true, nil
	}

	elapsed := new(big.Int).SetUint64(now - schedule.Start)
	vested := new(big.Int).Mul(total, elapsed)
	vested.Div(vested, new(big.Int).SetUint64(schedule.Duration))

	return vested.Sub(vested, released), false, nil
}

// Release pays the releasable amount out to the beneficiary. Once the
// schedule has fully vested and been paid out it is deleted, so a later
// deposit starts a fresh schedule.
func Release(ctx kalpsdk.TransactionContextInterface, id, tokenAddr string) (*big.Int, error) {
	wallet, err := GetWallet(ctx, id)
	if err != nil {
		return nil, err
	}

	releasable, finished, err := Releasable(ctx, id, tokenAddr)
	if err != nil {
		return nil, err
	}
	if releasable.Sign() == 0 {
		return nil, ccerror.New(http.StatusBadRequest, ErrNoTokensDue.Error(), nil)
	}

	if finished {
		err = DeleteSchedule(ctx, id, tokenAddr)
		if err != nil {
			return nil, err
		}
	} else {
		schedule, err := GetSchedule(ctx, id, tokenAddr)
		if err != nil {
			return nil, err
		}

		released, ok := new(big.Int).SetString(schedule.Released, 10)
		if !ok {
			return nil, ccerror.New(http.StatusInternalServerError, fmt.Sprintf("failed to parse released amount for wallet %s", id), nil)
		}

		schedule.Released = released.Add(released, releasable).String()
		err = SetSchedule(ctx, id, tokenAddr, schedule)
		if err != nil {
			return nil, err
		}
	}

	err = token.Transfer(ctx, tokenAddr, id, wallet.Beneficiary, releasable)
	if err != nil {
		return nil, err
	}

	err = EmitReleased(ctx, ReleasedEvent{
		Wallet:      id,
		Token:       tokenAddr,
		Beneficiary: wallet.Beneficiary,
		Amount:      releasable.String(),
		Finished:    finished,
	})
	if err != nil {
		return nil, err
	}

	return releasable, nil
}

// SetBeneficiary reassigns the wallet to newBeneficiary. Only the current
// beneficiary may call it.
func SetBeneficiary(ctx kalpsdk.TransactionContextInterface, id, caller, newBeneficiary string) error {
	wallet, err := GetWallet(ctx, id)
	if err != nil {
		return err
	}

	if caller != wallet.Beneficiary {
		return ccerror.New(http.StatusBadRequest, ErrCallerNotBeneficiary.Error(), nil)
	}
	if token.IsZeroAddress(newBeneficiary) {
		return ccerror.New(http.StatusBadRequest, ErrZeroBeneficiary.Error(), nil)
	}

	old := wallet.Beneficiary
	wallet.Beneficiary = newBeneficiary
	err = SetWallet(ctx, id, wallet)
	if err != nil {
		return err
	}

	return EmitBeneficiaryChanged(ctx, BeneficiaryChangedEvent{
		Wallet:         id,
		OldBeneficiary: old,
		NewBeneficiary: newBeneficiary,
	})
}

// Beneficiary returns the wallet's current beneficiary.
func Beneficiary(ctx kalpsdk.TransactionContextInterface, id string) (string, error) {
	wallet, err := GetWallet(ctx, id)
	if err != nil {
		return "", err
	}
	return wallet.Beneficiary, nil
}

// Start returns the schedule start for (wallet, token), or 0 when no
// schedule exists.
func Start(ctx kalpsdk.TransactionContextInterface, id, tokenAddr string) (uint64, error) {
	schedule, err := GetSchedule(ctx, id, tokenAddr)
	if err != nil {
		return 0, err
	}
	if schedule == nil {
		return 0, nil
	}
	return schedule.Start, nil
}

// Duration returns the schedule duration for (wallet, token), or 0 when no
// schedule exists.
func Duration(ctx kalpsdk.TransactionContextInterface, id, tokenAddr string) (uint64, error) {
	schedule, err := GetSchedule(ctx, id, tokenAddr)
	if err != nil {
		return 0, err
	}
	if schedule == nil {
		return 0, nil
	}
	return schedule.Duration, nil
}

// Released returns the amount already paid out for (wallet, token), or 0
// when no schedule exists.
func Released(ctx kalpsdk.TransactionContextInterface, id, tokenAddr string) (*big.Int, error) {
	schedule, err := GetSchedule(ctx, id, tokenAddr)
	if err != nil {
		return nil, err
	}
	if schedule == nil {
		return big.NewInt(0), nil
	}

	released, ok := new(big.Int).SetString(schedule.Released, 10)
	if !ok {
		return nil, ccerror.New(http.StatusInternalServerError, fmt.Sprintf("failed to parse released amount for wallet %s", id), nil)
	}
	return released, nil
}
