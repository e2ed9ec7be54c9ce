/*
SPDX-License-Identifier: Apache-2.0
*/

// Package router provides the liquidity step of project finalization. It
// pairs two ledger tokens, locks both legs under the pair's custodial
// account and mints a liquidity token to the provider in exchange.
package router

import (
	"math/big"
	"net/http"

	"github.com/p2eengineering/kalp-sdk-public/kalpsdk"

	"github.com/marcelmiro/astrano-contracts/ccerror"
	"github.com/marcelmiro/astrano-contracts/token"
)

// Router adds liquidity for a token pair on behalf of provider and returns
// the pair's liquidity token address and the liquidity amount minted.
type Router interface {
	AddLiquidity(ctx kalpsdk.TransactionContextInterface, provider, tokenA string, amountA *big.Int, tokenB string, amountB *big.Int) (string, *big.Int, error)
}

// PairRouter is the in-ledger Router. Liquidity is minted as the integer
// square root of amountA*amountB, so equal deposits always yield equal
// liquidity regardless of token order.
type PairRouter struct{}

var _ Router = (*PairRouter)(nil)

func (r *PairRouter) AddLiquidity(ctx kalpsdk.TransactionContextInterface, provider, tokenA string, amountA *big.Int, tokenB string, amountB *big.Int) (string, *big.Int, error) {
	if tokenA == tokenB {
		return "", nil, ccerror.New(http.StatusBadRequest, ErrIdenticalTokens.Error(), nil)
	}
	if token.IsZeroAddress(tokenA) || token.IsZeroAddress(tokenB) {
		return "", nil, ccerror.New(http.StatusBadRequest, ErrZeroTokenAddress.Error(), nil)
	}
	if token.IsZeroAddress(provider) {
		return "", nil, ccerror.New(http.StatusBadRequest, ErrZeroProvider.Error(), nil)
	}
	if amountA.Sign() <= 0 || amountB.Sign() <= 0 {
		return "", nil, ccerror.New(http.StatusBadRequest, ErrAmountIsZero.Error(), nil)
	}

	liquidity := new(big.Int).Sqrt(new(big.Int).Mul(amountA, amountB))
	if liquidity.Sign() == 0 {
		return "", nil, ccerror.New(http.StatusBadRequest, ErrInsufficientLiquidity.Error(), nil)
	}

	pair, err := GetPair(ctx, tokenA, tokenB)
	if err != nil {
		return "", nil, err
	}

	var liquidityToken string
	if pair == nil {
		liquidityToken, err = r.createPair(ctx, provider, tokenA, tokenB, liquidity)
		if err != nil {
			return "", nil, err
		}
	} else {
		liquidityToken = pair.LiquidityToken
		err = mint(ctx, liquidityToken, provider, liquidity)
		if err != nil {
			return "", nil, err
		}
	}

	err = token.Transfer(ctx, tokenA, provider, liquidityToken, amountA)
	if err != nil {
		return "", nil, err
	}
	err = token.Transfer(ctx, tokenB, provider, liquidityToken, amountB)
	if err != nil {
		return "", nil, err
	}

	err = EmitLiquidityAdded(ctx, LiquidityAddedEvent{
		Pair:      liquidityToken,
		Provider:  provider,
		TokenA:    tokenA,
		AmountA:   amountA.String(),
		TokenB:    tokenB,
		AmountB:   amountB.String(),
		Liquidity: liquidity.String(),
	})
	if err != nil {
		return "", nil, err
	}

	return liquidityToken, liquidity, nil
}

func (r *PairRouter) createPair(ctx kalpsdk.TransactionContextInterface, provider, tokenA, tokenB string, liquidity *big.Int) (string, error) {
	tokA, err := token.GetToken(ctx, tokenA)
	if err != nil {
		return "", err
	}
	tokB, err := token.GetToken(ctx, tokenB)
	if err != nil {
		return "", err
	}

	token0, token1 := sortTokens(tokenA, tokenB)
	name := tokA.Symbol + "-" + tokB.Symbol + " LP"
	symbol := tokA.Symbol + "-" + tokB.Symbol

	liquidityToken, err := token.Create(ctx, name, symbol, liquidity.String(), provider)
	if err != nil {
		return "", err
	}

	err = SetPair(ctx, &Pair{
		Token0:         token0,
		Token1:         token1,
		LiquidityToken: liquidityToken,
	})
	if err != nil {
		return "", err
	}

	err = EmitPairCreated(ctx, PairCreatedEvent{
		Token0:         token0,
		Token1:         token1,
		LiquidityToken: liquidityToken,
	})
	if err != nil {
		return "", err
	}

	return liquidityToken, nil
}

// mint grows an existing liquidity token's supply and credits the new
// units to account.
func mint(ctx kalpsdk.TransactionContextInterface, address, account string, amount *big.Int) error {
	tok, err := token.GetToken(ctx, address)
	if err != nil {
		return err
	}

	totalSupply, ok := new(big.Int).SetString(tok.TotalSupply, 10)
	if !ok {
		return ccerror.New(http.StatusInternalServerError, "failed to parse totalSupply", nil)
	}
	tok.TotalSupply = totalSupply.Add(totalSupply, amount).String()
	err = token.SetToken(ctx, address, tok)
	if err != nil {
		return err
	}

	balance, err := token.GetBalance(ctx, address, account)
	if err != nil {
		return err
	}
	err = token.SetBalance(ctx, address, account, balance.Add(balance, amount))
	if err != nil {
		return err
	}

	return token.EmitTransfer(ctx, token.TransferEvent{
		Token:  address,
		From:   token.ZeroAddress,
		To:     account,
		Amount: amount.String(),
	})
}
