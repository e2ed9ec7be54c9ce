/*
SPDX-License-Identifier: Apache-2.0
*/

package crowdsale

import (
	"errors"
	"fmt"
)

var (
	ErrTokenZeroAddress       = errors.New("Crowdsale: token address is the zero address")
	ErrPairTokenZeroAddress   = errors.New("Crowdsale: pair token address is the zero address")
	ErrOwnerZeroAddress       = errors.New("Crowdsale: owner is the zero address")
	ErrFinalizerZeroAddress   = errors.New("Crowdsale: finalizer is the zero address")
	ErrRateIsZero             = errors.New("Crowdsale: rate is 0")
	ErrCapIsZero              = errors.New("Crowdsale: cap is 0")
	ErrGoalGreaterThanCap     = errors.New("Crowdsale: goal is greater than cap")
	ErrRateGreaterThanCap     = errors.New("Crowdsale: rate is greater than cap")
	ErrOpeningTimeInPast      = errors.New("Crowdsale: opening time is before current time")
	ErrInvalidTimeWindow      = errors.New("Crowdsale: opening time is not before closing time")
	ErrNotOpen                = errors.New("Crowdsale: not open")
	ErrNotClosed              = errors.New("Crowdsale: not closed")
	ErrZeroBeneficiary        = errors.New("Crowdsale: beneficiary is the zero address")
	ErrAmountIsZero           = errors.New("Crowdsale: amount is 0")
	ErrUnderMinPurchase       = errors.New("Crowdsale: amount is less than min purchase amount")
	ErrCapExceeded            = errors.New("Crowdsale: cap exceeded")
	ErrIndividualCapExceeded  = errors.New("Crowdsale: beneficiary's cap exceeded")
	ErrInsufficientBalance    = errors.New("Crowdsale: insufficient balance")
	ErrAlreadyFinalized       = errors.New("Crowdsale: already finalized")
	ErrNotFinalized           = errors.New("Crowdsale: not finalized")
	ErrGoalNotReached         = errors.New("Crowdsale: goal not reached")
	ErrFinalizeExpired        = errors.New("Crowdsale: time to finalize has expired")
	ErrNotExpired             = errors.New("Crowdsale: not expired")
	ErrNoTokensDue            = errors.New("Crowdsale: beneficiary is not due any tokens")
	ErrNoTokensToWithdraw     = errors.New("Crowdsale: no tokens to withdraw")
	ErrRefundsNotDue          = errors.New("Crowdsale: refunds not due")
	ErrCallerNotFinalizer     = errors.New("Crowdsale: caller is not the finalizer")
	ErrCallerNotOwner         = errors.New("Crowdsale: caller is not the owner")
)

func ErrCrowdsaleNotFound(id string) error {
	return fmt.Errorf("crowdsale %s not found", id)
}
