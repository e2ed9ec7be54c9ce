/*
SPDX-License-Identifier: Apache-2.0
*/

package vesting

import (
	"errors"
	"fmt"
)

var (
	ErrAmountIsZero        = errors.New("amount is 0")
	ErrDurationIsZero      = errors.New("duration is 0")
	ErrNoTokensDue         = errors.New("no tokens due")
	ErrZeroBeneficiary     = errors.New("beneficiary is the zero address")
	ErrCallerNotBeneficiary = errors.New("caller not beneficiary")
)

func ErrWalletNotFound(id string) error {
	return fmt.Errorf("vesting wallet %s not found", id)
}
