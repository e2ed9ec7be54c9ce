/*
SPDX-License-Identifier: Apache-2.0
*/

package project

import (
	"encoding/json"
	"fmt"

	"github.com/p2eengineering/kalp-sdk-public/kalpsdk"
)

type ProjectCreatedEvent struct {
	Creator       string `json:"creator"`
	Token         string `json:"token"`
	Crowdsale     string `json:"crowdsale"`
	VestingWallet string `json:"vestingWallet"`
}

type ProjectFinalizedEvent struct {
	Token                    string `json:"token"`
	PairTokenAmount          string `json:"pairTokenAmount"`
	LiquidityPair            string `json:"liquidityPair"`
	LiquidityAmount          string `json:"liquidityAmount"`
	RemainingTokenAmount     string `json:"remainingTokenAmount"`
	RemainingPairTokenAmount string `json:"remainingPairTokenAmount"`
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

func EmitProjectCreated(ctx kalpsdk.TransactionContextInterface, event ProjectCreatedEvent) error {
	return emit(ctx, "ProjectCreated", event)
}

func EmitProjectFinalized(ctx kalpsdk.TransactionContextInterface, event ProjectFinalizedEvent) error {
	return emit(ctx, "ProjectFinalized", event)
}
