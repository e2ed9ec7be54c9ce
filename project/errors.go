/*
SPDX-License-Identifier: Apache-2.0
*/

package project

import "errors"

var (
	ErrAlreadyInitialized          = errors.New("factory already initialized")
	ErrNotInitialized              = errors.New("factory not initialized")
	ErrCallerNotOwner              = errors.New("caller is not the owner")
	ErrOwnerZeroAddress            = errors.New("owner is the zero address")
	ErrWalletZeroAddress           = errors.New("wallet is the zero address")
	ErrPairTokenZeroAddress        = errors.New("pair token is the zero address")
	ErrInsufficientFunds           = errors.New("insufficient funds sent")
	ErrInsufficientTokenSupply     = errors.New("insufficient token supply")
	ErrProjectNotFound             = errors.New("project not found")
	ErrCrowdsaleNotClosed          = errors.New("crowdsale not closed")
	ErrLiquidityRateIsZero         = errors.New("liquidityRate is 0")
	ErrLiquidityPercentage         = errors.New("liquidityPercentage greater than 100")
	ErrLiquidityLockStartIsZero    = errors.New("liquidityLockStartIn is 0")
	ErrLiquidityLockDurationIsZero = errors.New("liquidityLockDuration is 0")
	ErrTokenFeeTooHigh             = errors.New("token fee greater than 10000")
)
