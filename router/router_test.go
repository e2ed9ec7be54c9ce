/*
SPDX-License-Identifier: Apache-2.0
*/

package router_test

import (
	"math/big"
	"math/rand"
	"testing"

	"github.com/golang/protobuf/ptypes/timestamp"
	"github.com/stretchr/testify/require"

	"github.com/marcelmiro/astrano-contracts/mocks"
	"github.com/marcelmiro/astrano-contracts/router"
	"github.com/marcelmiro/astrano-contracts/token"
)

const provider = "a1b2c3d4e5f6a7b8c9d0a1b2c3d4e5f6a7b8c9d0"

func newTransactionContext() *mocks.TransactionContext {
	worldState := map[string][]byte{}
	ctx := &mocks.TransactionContext{}

	ctx.GetStateStub = func(key string) ([]byte, error) {
		data, found := worldState[key]
		if found {
			return data, nil
		}
		return nil, nil
	}
	ctx.PutStateWithoutKYCStub = func(key string, value []byte) error {
		worldState[key] = value
		return nil
	}
	ctx.DelStateWithoutKYCStub = func(key string) error {
		delete(worldState, key)
		return nil
	}
	ctx.GetTxIDStub = func() string {
		const charset = "abcdefghijklmnopqrstuvwxyz0123456789"
		result := make([]byte, 10)
		for i := range result {
			result[i] = charset[rand.Intn(len(charset))]
		}
		return string(result)
	}
	ctx.GetTxTimestampReturns(&timestamp.Timestamp{Seconds: 1000000}, nil)

	return ctx
}

func newTokens(t *testing.T) (*mocks.TransactionContext, string, string) {
	t.Helper()
	ctx := newTransactionContext()

	tokenA, err := token.Create(ctx, "Astrano", "ASTR", "10000", provider)
	require.NoError(t, err)
	tokenB, err := token.Create(ctx, "Wrapped Pair", "WPT", "10000", provider)
	require.NoError(t, err)

	return ctx, tokenA, tokenB
}

func TestAddLiquidityCreatesPair(t *testing.T) {
	t.Parallel()
	ctx, tokenA, tokenB := newTokens(t)
	r := &router.PairRouter{}

	pair, liquidity, err := r.AddLiquidity(ctx, provider, tokenA, big.NewInt(600), tokenB, big.NewInt(300))
	require.NoError(t, err)
	require.Regexp(t, `^[0-9a-f]{40}$`, pair)

	// floor(sqrt(600*300)) = floor(sqrt(180000)) = 424
	require.Equal(t, "424", liquidity.String())

	got, err := token.BalanceOf(ctx, pair, provider)
	require.NoError(t, err)
	require.Equal(t, "424", got.String())

	// Both legs moved into the pair's custody.
	legA, err := token.BalanceOf(ctx, tokenA, pair)
	require.NoError(t, err)
	require.Equal(t, "600", legA.String())

	legB, err := token.BalanceOf(ctx, tokenB, pair)
	require.NoError(t, err)
	require.Equal(t, "300", legB.String())

	record, err := router.GetPair(ctx, tokenB, tokenA)
	require.NoError(t, err)
	require.NotNil(t, record)
	require.Equal(t, pair, record.LiquidityToken)
}

func TestAddLiquidityExistingPairMints(t *testing.T) {
	t.Parallel()
	ctx, tokenA, tokenB := newTokens(t)
	r := &router.PairRouter{}

	pair, _, err := r.AddLiquidity(ctx, provider, tokenA, big.NewInt(100), tokenB, big.NewInt(100))
	require.NoError(t, err)

	// Token order must not matter for pair lookup.
	pair2, liquidity, err := r.AddLiquidity(ctx, provider, tokenB, big.NewInt(400), tokenA, big.NewInt(400))
	require.NoError(t, err)
	require.Equal(t, pair, pair2)
	require.Equal(t, "400", liquidity.String())

	got, err := token.BalanceOf(ctx, pair, provider)
	require.NoError(t, err)
	require.Equal(t, "500", got.String())

	tok, err := token.GetToken(ctx, pair)
	require.NoError(t, err)
	require.Equal(t, "500", tok.TotalSupply)
}

func TestAddLiquidityValidation(t *testing.T) {
	t.Parallel()
	ctx, tokenA, tokenB := newTokens(t)
	r := &router.PairRouter{}

	_, _, err := r.AddLiquidity(ctx, provider, tokenA, big.NewInt(1), tokenA, big.NewInt(1))
	require.ErrorContains(t, err, "identical token addresses")

	_, _, err = r.AddLiquidity(ctx, provider, token.ZeroAddress, big.NewInt(1), tokenB, big.NewInt(1))
	require.ErrorContains(t, err, "token address is the zero address")

	_, _, err = r.AddLiquidity(ctx, token.ZeroAddress, tokenA, big.NewInt(1), tokenB, big.NewInt(1))
	require.ErrorContains(t, err, "provider is the zero address")

	_, _, err = r.AddLiquidity(ctx, provider, tokenA, big.NewInt(0), tokenB, big.NewInt(1))
	require.ErrorContains(t, err, "amount is 0")
}
