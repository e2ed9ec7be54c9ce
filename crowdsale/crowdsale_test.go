/*
SPDX-License-Identifier: Apache-2.0
*/

package crowdsale_test

import (
	"math/big"
	"math/rand"
	"testing"

	"github.com/golang/protobuf/ptypes/timestamp"
	"github.com/stretchr/testify/require"

	"github.com/marcelmiro/astrano-contracts/crowdsale"
	"github.com/marcelmiro/astrano-contracts/mocks"
	"github.com/marcelmiro/astrano-contracts/token"
)

const (
	owner     = "a1b2c3d4e5f6a7b8c9d0a1b2c3d4e5f6a7b8c9d0"
	finalizer = "f1b2c3d4e5f6a7b8c9d0a1b2c3d4e5f6a7b8c9df"
	buyer     = "b1b2c3d4e5f6a7b8c9d0a1b2c3d4e5f6a7b8c9d1"
	buyer2    = "c1b2c3d4e5f6a7b8c9d0a1b2c3d4e5f6a7b8c9d2"

	openingTime = int64(1000100)
	closingTime = int64(1001000)
	expiry      = int64(30 * 24 * 60 * 60)
)

type clock struct {
	now int64
}

func newTransactionContext(c *clock) *mocks.TransactionContext {
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
	ctx.GetTxTimestampStub = func() (*timestamp.Timestamp, error) {
		return &timestamp.Timestamp{Seconds: c.now}, nil
	}

	return ctx
}

// newSale creates and funds a rate 1, cap 100, individual cap 60, min
// purchase 2, goal 50 sale. Buyers are each funded and approved for 1000
// pair tokens.
func newSale(t *testing.T, ctx *mocks.TransactionContext, custody int64) (string, string, string) {
	t.Helper()

	tokenAddr, err := token.Create(ctx, "Astrano", "ASTR", "1000", owner)
	require.NoError(t, err)
	pairAddr, err := token.Create(ctx, "Wrapped Pair", "WPT", "10000", buyer)
	require.NoError(t, err)

	err = token.Transfer(ctx, pairAddr, buyer, buyer2, big.NewInt(1000))
	require.NoError(t, err)

	id, err := crowdsale.Create(ctx, &crowdsale.Input{
		Token:             tokenAddr,
		PairToken:         pairAddr,
		Owner:             owner,
		Finalizer:         finalizer,
		Rate:              "1",
		Cap:               "100",
		IndividualCap:     "60",
		MinPurchaseAmount: "2",
		Goal:              "50",
		OpeningTime:       uint64(openingTime),
		ClosingTime:       uint64(closingTime),
	})
	require.NoError(t, err)

	err = token.Transfer(ctx, tokenAddr, owner, id, big.NewInt(custody))
	require.NoError(t, err)

	for _, account := range []string{buyer, buyer2} {
		err = token.Approve(ctx, pairAddr, account, id, big.NewInt(1000))
		require.NoError(t, err)
	}

	return id, tokenAddr, pairAddr
}

func TestCreateValidation(t *testing.T) {
	t.Parallel()
	c := &clock{now: 1000000}
	ctx := newTransactionContext(c)

	tokenAddr, err := token.Create(ctx, "Astrano", "ASTR", "1000", owner)
	require.NoError(t, err)
	pairAddr, err := token.Create(ctx, "Wrapped Pair", "WPT", "10000", buyer)
	require.NoError(t, err)

	base := crowdsale.Input{
		Token:             tokenAddr,
		PairToken:         pairAddr,
		Owner:             owner,
		Finalizer:         finalizer,
		Rate:              "1",
		Cap:               "100",
		IndividualCap:     "0",
		MinPurchaseAmount: "0",
		Goal:              "50",
		OpeningTime:       uint64(openingTime),
		ClosingTime:       uint64(closingTime),
	}

	tests := []struct {
		name    string
		mutate  func(*crowdsale.Input)
		wantErr string
	}{
		{"token zero address", func(in *crowdsale.Input) { in.Token = token.ZeroAddress }, "token address is the zero address"},
		{"pair token zero address", func(in *crowdsale.Input) { in.PairToken = "" }, "pair token address is the zero address"},
		{"owner zero address", func(in *crowdsale.Input) { in.Owner = token.ZeroAddress }, "owner is the zero address"},
		{"finalizer zero address", func(in *crowdsale.Input) { in.Finalizer = token.ZeroAddress }, "finalizer is the zero address"},
		{"rate is 0", func(in *crowdsale.Input) { in.Rate = "0" }, "rate is 0"},
		{"cap is 0", func(in *crowdsale.Input) { in.Cap = "0"; in.Goal = "0" }, "cap is 0"},
		{"goal greater than cap", func(in *crowdsale.Input) { in.Goal = "101" }, "goal is greater than cap"},
		{"rate greater than cap", func(in *crowdsale.Input) { in.Rate = "200" }, "rate is greater than cap"},
		{"opening time in past", func(in *crowdsale.Input) { in.OpeningTime = 999999 }, "opening time is before current time"},
		{"window inverted", func(in *crowdsale.Input) { in.ClosingTime = in.OpeningTime }, "opening time is not before closing time"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			in := base
			tt.mutate(&in)
			_, err := crowdsale.Create(ctx, &in)
			require.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestBuy(t *testing.T) {
	t.Parallel()
	c := &clock{now: 1000000}
	ctx := newTransactionContext(c)
	id, _, pairAddr := newSale(t, ctx, 100)

	// Not open before openingTime.
	err := crowdsale.Buy(ctx, id, buyer, buyer, big.NewInt(10))
	require.ErrorContains(t, err, "Crowdsale: not open")

	c.now = openingTime

	err = crowdsale.Buy(ctx, id, buyer, token.ZeroAddress, big.NewInt(10))
	require.ErrorContains(t, err, "beneficiary is the zero address")

	err = crowdsale.Buy(ctx, id, buyer, buyer, big.NewInt(0))
	require.ErrorContains(t, err, "amount is 0")

	err = crowdsale.Buy(ctx, id, buyer, buyer, big.NewInt(1))
	require.ErrorContains(t, err, "amount is less than min purchase amount")

	err = crowdsale.Buy(ctx, id, buyer, buyer, big.NewInt(70))
	require.ErrorContains(t, err, "beneficiary's cap exceeded")

	err = crowdsale.Buy(ctx, id, buyer, buyer, big.NewInt(60))
	require.NoError(t, err)

	balance, err := crowdsale.GetBalance(ctx, id, buyer)
	require.NoError(t, err)
	require.Equal(t, "60", balance.String())

	contribution, err := crowdsale.GetContribution(ctx, id, buyer)
	require.NoError(t, err)
	require.Equal(t, "60", contribution.String())

	pairCustody, err := token.BalanceOf(ctx, pairAddr, id)
	require.NoError(t, err)
	require.Equal(t, "60", pairCustody.String())

	err = crowdsale.Buy(ctx, id, buyer2, buyer2, big.NewInt(50))
	require.ErrorContains(t, err, "Crowdsale: cap exceeded")

	err = crowdsale.Buy(ctx, id, buyer2, buyer2, big.NewInt(40))
	require.NoError(t, err)

	cs, err := crowdsale.GetCrowdsale(ctx, id)
	require.NoError(t, err)
	require.Equal(t, "100", cs.TokensSold)
	require.Equal(t, uint64(2), cs.Contributors)

	// Selling out closes the sale before closingTime.
	open, err := crowdsale.IsOpen(ctx, id)
	require.NoError(t, err)
	require.False(t, open)

	closed, err := crowdsale.HasClosed(ctx, id)
	require.NoError(t, err)
	require.True(t, closed)

	err = crowdsale.Buy(ctx, id, buyer, buyer, big.NewInt(2))
	require.ErrorContains(t, err, "Crowdsale: not open")
}

func TestBuyInsufficientCustody(t *testing.T) {
	t.Parallel()
	c := &clock{now: 1000000}
	ctx := newTransactionContext(c)
	id, _, _ := newSale(t, ctx, 50)

	c.now = openingTime
	err := crowdsale.Buy(ctx, id, buyer, buyer, big.NewInt(60))
	require.ErrorContains(t, err, "Crowdsale: insufficient balance")

	err = crowdsale.Buy(ctx, id, buyer, buyer, big.NewInt(50))
	require.NoError(t, err)
}

func TestFinalize(t *testing.T) {
	t.Parallel()
	c := &clock{now: 1000000}
	ctx := newTransactionContext(c)
	id, tokenAddr, pairAddr := newSale(t, ctx, 100)

	c.now = openingTime
	err := crowdsale.Buy(ctx, id, buyer, buyer, big.NewInt(60))
	require.NoError(t, err)

	// Goal reached but sale still open.
	err = crowdsale.Finalize(ctx, id, finalizer)
	require.ErrorContains(t, err, "Crowdsale: not closed")

	err = crowdsale.Finalize(ctx, id, owner)
	require.ErrorContains(t, err, "caller is not the finalizer")

	c.now = closingTime + 1

	err = crowdsale.WithdrawTokens(ctx, id, buyer)
	require.ErrorContains(t, err, "Crowdsale: not finalized")

	err = crowdsale.Finalize(ctx, id, finalizer)
	require.NoError(t, err)

	err = crowdsale.Finalize(ctx, id, finalizer)
	require.ErrorContains(t, err, "Crowdsale: already finalized")

	// The finalizer was granted an allowance over the raise and received
	// the unsold tokens.
	allowance, err := token.Allowance(ctx, pairAddr, id, finalizer)
	require.NoError(t, err)
	require.Equal(t, "60", allowance.String())

	unsold, err := token.BalanceOf(ctx, tokenAddr, finalizer)
	require.NoError(t, err)
	require.Equal(t, "40", unsold.String())

	err = crowdsale.WithdrawTokens(ctx, id, buyer)
	require.NoError(t, err)

	got, err := token.BalanceOf(ctx, tokenAddr, buyer)
	require.NoError(t, err)
	require.Equal(t, "60", got.String())

	err = crowdsale.WithdrawTokens(ctx, id, buyer)
	require.ErrorContains(t, err, "beneficiary is not due any tokens")
}

func TestFinalizeAtCapBeforeClosing(t *testing.T) {
	t.Parallel()
	c := &clock{now: 1000000}
	ctx := newTransactionContext(c)
	id, _, _ := newSale(t, ctx, 100)

	c.now = openingTime
	require.NoError(t, crowdsale.Buy(ctx, id, buyer, buyer, big.NewInt(60)))
	require.NoError(t, crowdsale.Buy(ctx, id, buyer2, buyer2, big.NewInt(40)))

	err := crowdsale.Finalize(ctx, id, finalizer)
	require.NoError(t, err)
}

func TestFinalizeGoalNotReached(t *testing.T) {
	t.Parallel()
	c := &clock{now: 1000000}
	ctx := newTransactionContext(c)
	id, _, _ := newSale(t, ctx, 100)

	c.now = openingTime
	require.NoError(t, crowdsale.Buy(ctx, id, buyer, buyer, big.NewInt(40)))

	c.now = closingTime + 1
	err := crowdsale.Finalize(ctx, id, finalizer)
	require.ErrorContains(t, err, "Crowdsale: goal not reached")
}

func TestFinalizeExpired(t *testing.T) {
	t.Parallel()
	c := &clock{now: 1000000}
	ctx := newTransactionContext(c)
	id, _, _ := newSale(t, ctx, 100)

	c.now = openingTime
	require.NoError(t, crowdsale.Buy(ctx, id, buyer, buyer, big.NewInt(60)))

	c.now = closingTime + expiry + 1
	err := crowdsale.Finalize(ctx, id, finalizer)
	require.ErrorContains(t, err, "time to finalize has expired")
}

func TestClaimRefundGoalMissed(t *testing.T) {
	t.Parallel()
	c := &clock{now: 1000000}
	ctx := newTransactionContext(c)
	id, _, pairAddr := newSale(t, ctx, 100)

	c.now = openingTime
	require.NoError(t, crowdsale.Buy(ctx, id, buyer, buyer, big.NewInt(40)))

	err := crowdsale.ClaimRefund(ctx, id, buyer)
	require.ErrorContains(t, err, "Crowdsale: refunds not due")

	c.now = closingTime + 1

	err = crowdsale.ClaimRefund(ctx, id, buyer2)
	require.ErrorContains(t, err, "beneficiary is not due any tokens")

	before, err := token.BalanceOf(ctx, pairAddr, buyer)
	require.NoError(t, err)

	err = crowdsale.ClaimRefund(ctx, id, buyer)
	require.NoError(t, err)

	after, err := token.BalanceOf(ctx, pairAddr, buyer)
	require.NoError(t, err)
	require.Equal(t, "40", new(big.Int).Sub(after, before).String())

	err = crowdsale.ClaimRefund(ctx, id, buyer)
	require.ErrorContains(t, err, "beneficiary is not due any tokens")
}

func TestClaimRefundAfterFinalizeExpiry(t *testing.T) {
	t.Parallel()
	c := &clock{now: 1000000}
	ctx := newTransactionContext(c)
	id, _, _ := newSale(t, ctx, 100)

	c.now = openingTime
	require.NoError(t, crowdsale.Buy(ctx, id, buyer, buyer, big.NewInt(60)))

	// Goal reached, so no refund while the finalizer can still act.
	c.now = closingTime + 1
	err := crowdsale.ClaimRefund(ctx, id, buyer)
	require.ErrorContains(t, err, "Crowdsale: refunds not due")

	c.now = closingTime + expiry + 1
	err = crowdsale.ClaimRefund(ctx, id, buyer)
	require.NoError(t, err)
}

func TestWithdrawExpiredTokens(t *testing.T) {
	t.Parallel()
	c := &clock{now: 1000000}
	ctx := newTransactionContext(c)
	id, tokenAddr, _ := newSale(t, ctx, 100)

	c.now = openingTime
	require.NoError(t, crowdsale.Buy(ctx, id, buyer, buyer, big.NewInt(40)))

	err := crowdsale.WithdrawExpiredTokens(ctx, id, buyer)
	require.ErrorContains(t, err, "caller is not the owner")

	err = crowdsale.WithdrawExpiredTokens(ctx, id, owner)
	require.ErrorContains(t, err, "Crowdsale: not expired")

	c.now = closingTime + 1
	err = crowdsale.WithdrawExpiredTokens(ctx, id, owner)
	require.NoError(t, err)

	got, err := token.BalanceOf(ctx, tokenAddr, owner)
	require.NoError(t, err)
	require.Equal(t, "1000", got.String())

	err = crowdsale.WithdrawExpiredTokens(ctx, id, owner)
	require.ErrorContains(t, err, "no tokens to withdraw")
}
