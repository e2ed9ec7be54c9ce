/*
SPDX-License-Identifier: Apache-2.0
*/

package router

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/p2eengineering/kalp-sdk-public/kalpsdk"

	"github.com/marcelmiro/astrano-contracts/ccerror"
)

const pairKeyPrefix = "pair_"

// Pair records a liquidity pair. Token0 and Token1 are stored in ascending
// address order so every token combination maps to a single record. The
// liquidity token address doubles as the pair's custodial account.
type Pair struct {
	Token0         string `json:"token0"`
	Token1         string `json:"token1"`
	LiquidityToken string `json:"liquidityToken"`
}

func sortTokens(tokenA, tokenB string) (string, string) {
	if tokenA < tokenB {
		return tokenA, tokenB
	}
	return tokenB, tokenA
}

func pairKey(tokenA, tokenB string) string {
	token0, token1 := sortTokens(tokenA, tokenB)
	return fmt.Sprintf("%s%s_%s", pairKeyPrefix, token0, token1)
}

// GetPair returns nil without error when no pair exists for the tokens.
func GetPair(ctx kalpsdk.TransactionContextInterface, tokenA, tokenB string) (*Pair, error) {
	key := pairKey(tokenA, tokenB)
	pairAsBytes, err := ctx.GetState(key)
	if err != nil {
		return nil, ccerror.New(http.StatusInternalServerError, fmt.Sprintf("failed to get pair with Key %s", key), err)
	}
	if pairAsBytes == nil {
		return nil, nil
	}

	var pair Pair
	err = json.Unmarshal(pairAsBytes, &pair)
	if err != nil {
		return nil, ccerror.New(http.StatusInternalServerError, "failed to unmarshal pair", err)
	}

	return &pair, nil
}

func SetPair(ctx kalpsdk.TransactionContextInterface, pair *Pair) error {
	key := pairKey(pair.Token0, pair.Token1)
	pairAsBytes, err := json.Marshal(pair)
	if err != nil {
		return ccerror.New(http.StatusInternalServerError, "failed to marshal pair", err)
	}

	err = ctx.PutStateWithoutKYC(key, pairAsBytes)
	if err != nil {
		return ccerror.New(http.StatusInternalServerError, "failed to set pair", err)
	}

	return nil
}
