/*
SPDX-License-Identifier: Apache-2.0
*/

package crowdsale

import (
	"encoding/json"
	"fmt"

	"github.com/p2eengineering/kalp-sdk-public/kalpsdk"
)

type CrowdsaleCreatedEvent struct {
	Crowdsale   string `json:"crowdsale"`
	Token       string `json:"token"`
	PairToken   string `json:"pairToken"`
	Rate        string `json:"rate"`
	Cap         string `json:"cap"`
	Goal        string `json:"goal"`
	OpeningTime uint64 `json:"openingTime"`
	ClosingTime uint64 `json:"closingTime"`
}

type TokensPurchasedEvent struct {
	Crowdsale   string `json:"crowdsale"`
	Buyer       string `json:"buyer"`
	Beneficiary string `json:"beneficiary"`
	Amount      string `json:"amount"`
	TokenAmount string `json:"tokenAmount"`
}

type CrowdsaleFinalizedEvent struct {
	Crowdsale    string `json:"crowdsale"`
	TokensSold   string `json:"tokensSold"`
	UnsoldAmount string `json:"unsoldAmount"`
}

type TokensWithdrawnEvent struct {
	Crowdsale   string `json:"crowdsale"`
	Beneficiary string `json:"beneficiary"`
	Amount      string `json:"amount"`
}

type RefundClaimedEvent struct {
	Crowdsale   string `json:"crowdsale"`
	Beneficiary string `json:"beneficiary"`
	Amount      string `json:"amount"`
}

type ExpiredTokensWithdrawnEvent struct {
	Crowdsale string `json:"crowdsale"`
	Owner     string `json:"owner"`
	Amount    string `json:"amount"`
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

func EmitCrowdsaleCreated(ctx kalpsdk.TransactionContextInterface, event CrowdsaleCreatedEvent) error {
	return emit(ctx, "CrowdsaleCreated", event)
}

func EmitTokensPurchased(ctx kalpsdk.TransactionContextInterface, event TokensPurchasedEvent) error {
	return emit(ctx, "TokensPurchased", event)
}

func EmitCrowdsaleFinalized(ctx kalpsdk.TransactionContextInterface, event CrowdsaleFinalizedEvent) error {
	return emit(ctx, "CrowdsaleFinalized", event)
}

func EmitTokensWithdrawn(ctx kalpsdk.TransactionContextInterface, event TokensWithdrawnEvent) error {
	return emit(ctx, "TokensWithdrawn", event)
}

func EmitRefundClaimed(ctx kalpsdk.TransactionContextInterface, event RefundClaimedEvent) error {
	return emit(ctx, "RefundClaimed", event)
}

func EmitExpiredTokensWithdrawn(ctx kalpsdk.TransactionContextInterface, event ExpiredTokensWithdrawnEvent) error {
	return emit(ctx, "ExpiredTokensWithdrawn", event)
}
