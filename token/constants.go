/*
SPDX-License-Identifier: Apache-2.0
*/

package token

const (
	// ZeroAddress is the 40-hex-char null account. Transfers to or from it
	// are rejected everywhere.
	ZeroAddress = "0000000000000000000000000000000000000000"

	hexAddressRegex = `^[0-9a-fA-F]{40}$`

	tokenKeyPrefix     = "token_"
	balanceKeyPrefix   = "balance_"
	allowanceKeyPrefix = "allowance_"
)
