/*
SPDX-License-Identifier: Apache-2.0
*/

package router

import (
	"encoding/json"
	"fmt"

	"github.com/p2eengineering/kalp-sdk-public/kalpsdk"
)

type PairCreatedEvent struct {
	Token0         string `json:"token0"`
	Token1         string `json:"token1"`
	LiquidityToken string `json:"liquidityToken"`
}

type LiquidityAddedEvent struct {
	Pair      string `json:"pair"`
	Provider  string `json:"provider"`
	TokenA    string `json:"tokenA"`
	AmountA   string `json:"amountA"`
	TokenB    string `json:"tokenB"`
	AmountB   string `json:"amountB"`
	Liquidity string `json:"liquidity"`
}

func emit(ctx kalpsdk.TransactionContextInterface, name string, event interface{}) error {
	eventJSON, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to obtain JSON encoding: %v", err)
	}

	err = ctx.SetEvent(name, eventJSON)
	if err != nil {
		return fmt.Errorf("failed to set event: %v", err)
	}

	return nil
}

func EmitPairCreated(ctx kalpsdk.TransactionContextInterface, event PairCreatedEvent) error {
	return emit(ctx, "PairCreated", event)
}

func EmitLiquidityAdded(ctx kalpsdk.TransactionContextInterface, event LiquidityAddedEvent) error {
	return emit(ctx, "LiquidityAdded", event)
}
