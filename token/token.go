/*
SPDX-License-Identifier: Apache-2.0
*/

// Package token implements the fungible ledger every other contract builds
// on: named assets with a fixed total supply, balances and allowance-gated
// transfers keyed in world state. It also hosts the signer, address and
// transaction-time helpers shared across the contract suite.
package token

import (
	"fmt"
	"math/big"
	"net/http"

	"github.com/p2eengineering/kalp-sdk-public/kalpsdk"

	"github.com/marcelmiro/astrano-contracts/ccerror"
)

// Create issues a new asset and mints its entire supply to initialHolder.
// The asset's address is derived from the transaction ID and the symbol.
func Create(ctx kalpsdk.TransactionContextInterface, name, symbol, totalSupply, initialHolder string) (string, error) {
	if name == "" {
		return "", ccerror.New(http.StatusBadRequest, "name is empty", nil)
	}
	if symbol == "" {
		return "", ccerror.New(http.StatusBadRequest, "symbol is empty", nil)
	}
	if IsZeroAddress(initialHolder) {
		return "", ccerror.New(http.StatusBadRequest, "initial holder is the zero address", nil)
	}

	supply, ok := new(big.Int).SetString(totalSupply, 10)
	if !ok || supply.Sign() < 0 {
		return "", ccerror.New(http.StatusBadRequest, ErrInvalidAmount("totalSupply", totalSupply).Error(), nil)
	}
	if supply.Sign() == 0 {
		return "", ccerror.New(http.StatusBadRequest, "total supply is 0", nil)
	}

	address := NewContractAddress(ctx, tokenKeyPrefix+symbol)

	existing, err := ctx.GetState(tokenKeyPrefix + address)
	if err != nil {
		return "", ccerror.New(http.StatusInternalServerError, "failed to get token state", err)
	}
	if existing != nil {
		return "", ccerror.New(http.StatusConflict, ErrTokenAlreadyExists(address).Error(), nil)
	}

	err = SetToken(ctx, address, &Token{
		Name:        name,
		Symbol:      symbol,
		TotalSupply: supply.String(),
	})
	if err != nil {
		return "", err
	}

	err = SetBalance(ctx, address, initialHolder, supply)
	if err != nil {
		return "", err
	}

	err = EmitTokenCreated(ctx, TokenCreatedEvent{
		Token:       address,
		Name:        name,
		Symbol:      symbol,
		TotalSupply: supply.String(),
		Holder:      initialHolder,
	})
	if err != nil {
		return "", err
	}

	return address, nil
}

func BalanceOf(ctx kalpsdk.TransactionContextInterface, address, account string) (*big.Int, error) {
	return GetBalance(ctx, address, account)
}

func Allowance(ctx kalpsdk.TransactionContextInterface, address, owner, spender string) (*big.Int, error) {
	return GetAllowance(ctx, address, owner, spender)
}

// Transfer moves amount from from's balance to to's balance. Callers are
// responsible for ensuring from is the transaction signer or a custodial
// account they control.
func Transfer(ctx kalpsdk.TransactionContextInterface, address, from, to string, amount *big.Int) error {
	if _, err := GetToken(ctx, address); err != nil {
		return err
	}

	return transfer(ctx, address, from, to, amount)
}

// Approve grants spender the right to move up to amount from owner's
// balance via TransferFrom. A new approval overwrites the previous one.
func Approve(ctx kalpsdk.TransactionContextInterface, address, owner, spender string, amount *big.Int) error {
	if _, err := GetToken(ctx, address); err != nil {
		return err
	}
	if IsZeroAddress(owner) {
		return ccerror.New(http.StatusBadRequest, "approve from the zero address", nil)
	}
	if IsZeroAddress(spender) {
		return ccerror.New(http.StatusBadRequest, "approve to the zero address", nil)
	}
	if amount.Sign() < 0 {
		return ccerror.New(http.StatusBadRequest, ErrInvalidAmount("allowance", amount.String()).Error(), nil)
	}

	err := SetAllowance(ctx, address, owner, spender, amount)
	if err != nil {
		return err
	}

	return EmitApproval(ctx, ApprovalEvent{
		Token:   address,
		Owner:   owner,
		Spender: spender,
		Amount:  amount.String(),
	})
}

// TransferFrom moves amount from from's balance to to's balance, consuming
// spender's allowance.
func TransferFrom(ctx kalpsdk.TransactionContextInterface, address, spender, from, to string, amount *big.Int) error {
	if _, err := GetToken(ctx, address); err != nil {
		return err
	}

	allowance, err := GetAllowance(ctx, address, from, spender)
	if err != nil {
		return err
	}
	if allowance.Cmp(amount) < 0 {
		return ccerror.New(http.StatusBadRequest, fmt.Sprintf("%s: allowance %s, needed %s", ErrInsufficientAllowance, allowance, amount), nil)
	}

	err = SetAllowance(ctx, address, from, spender, new(big.Int).Sub(allowance, amount))
	if err != nil {
		return err
	}

	return transfer(ctx, address, from, to, amount)
}

func transfer(ctx kalpsdk.TransactionContextInterface, address, from, to string, amount *big.Int) error {
	if IsZeroAddress(from) {
		return ccerror.New(http.StatusBadRequest, "transfer from the zero address", nil)
	}
	if IsZeroAddress(to) {
		return ccerror.New(http.StatusBadRequest, "transfer to the zero address", nil)
	}
	if amount.Sign() < 0 {
		return ccerror.New(http.StatusBadRequest, ErrInvalidAmount("transfer", amount.String()).Error(), nil)
	}

	fromBalance, err := GetBalance(ctx, address, from)
	if err != nil {
		return err
	}
	if fromBalance.Cmp(amount) < 0 {
		return ccerror.New(http.StatusBadRequest, fmt.Sprintf("%s: balance %s, needed %s", ErrInsufficientBalance, fromBalance, amount), nil)
	}

	err = SetBalance(ctx, address, from, new(big.Int).Sub(fromBalance, amount))
	if err != nil {
		return err
	}

	toBalance, err := GetBalance(ctx, address, to)
	if err != nil {
		return err
	}

	err = SetBalance(ctx, address, to, new(big.Int).Add(toBalance, amount))
	if err != nil {
		return err
	}

	return EmitTransfer(ctx, TransferEvent{
		Token:  address,
		From:   from,
		To:     to,
		Amount: amount.String(),
	})
}
