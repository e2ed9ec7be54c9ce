/*
SPDX-License-Identifier: Apache-2.0
*/

package router

import "errors"

var (
	ErrIdenticalTokens    = errors.New("Router: identical token addresses")
	ErrZeroTokenAddress   = errors.New("Router: token address is the zero address")
	ErrZeroProvider       = errors.New("Router: provider is the zero address")
	ErrAmountIsZero       = errors.New("Router: amount is 0")
	ErrInsufficientLiquidity = errors.New("Router: insufficient liquidity minted")
)
