/*
SPDX-License-Identifier: Apache-2.0
*/

package project_test

import (
	"encoding/base64"
	"fmt"
	"math/big"
	"math/rand"
	"testing"

	"github.com/golang/protobuf/ptypes/timestamp"
	"github.com/stretchr/testify/require"

	"github.com/marcelmiro/astrano-contracts/mocks"
	"github.com/marcelmiro/astrano-contracts/project"
	"github.com/marcelmiro/astrano-contracts/router"
	"github.com/marcelmiro/astrano-contracts/token"
	"github.com/marcelmiro/astrano-contracts/vesting"
)

const (
	admin     = "a1b2c3d4e5f6a7b8c9d0a1b2c3d4e5f6a7b8c9d0"
	creator   = "b1b2c3d4e5f6a7b8c9d0a1b2c3d4e5f6a7b8c9d1"
	buyer     = "c1b2c3d4e5f6a7b8c9d0a1b2c3d4e5f6a7b8c9d2"
	feeWallet = "d1b2c3d4e5f6a7b8c9d0a1b2c3d4e5f6a7b8c9d3"
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

func setUserID(ctx *mocks.TransactionContext, userID string) {
	completeID := fmt.Sprintf("x509::CN=%s,O=Organization,L=City,ST=State,C=Country", userID)
	b64ID := base64.StdEncoding.EncodeToString([]byte(completeID))

	clientIdentity := &mocks.ClientIdentity{}
	clientIdentity.GetIDReturns(b64ID, nil)
	ctx.GetClientIdentityReturns(clientIdentity)
}

func newContract() *project.SmartContract {
	return &project.SmartContract{Router: &router.PairRouter{}}
}

// newFactory initializes the factory with a 10 pair token creation fee and
// a 5% token fee, against a fresh pair token held by creator.
func newFactory(t *testing.T, ctx *mocks.TransactionContext, contract *project.SmartContract) (string, *project.Config) {
	t.Helper()

	pairAddr, err := token.Create(ctx, "Wrapped Pair", "WPT", "100000", creator)
	require.NoError(t, err)

	setUserID(ctx, admin)
	err = contract.Initialize(ctx, feeWallet, "10", 500, 0, 100, pairAddr)
	require.NoError(t, err)

	config, err := contract.Config(ctx)
	require.NoError(t, err)

	return pairAddr, config
}

func baseInput(c *clock) project.ProjectInput {
	return project.ProjectInput{
		TokenName:                  "Astrano",
		TokenSymbol:                "ASTR",
		TokenTotalSupply:           "10000",
		CrowdsaleRate:              "2",
		CrowdsaleCap:               "4000",
		CrowdsaleIndividualCap:     "0",
		CrowdsaleMinPurchaseAmount: "1",
		CrowdsaleGoal:              "1000",
		CrowdsaleOpeningTime:       uint64(c.now) + 10,
		CrowdsaleClosingTime:       uint64(c.now) + 1000,
		TokenLockStartIn:           0,
		TokenLockDuration:          1000,
		LiquidityRate:              "2",
		LiquidityLockStartIn:       5,
		LiquidityLockDuration:      500,
		LiquidityPercentage:        50,
		FeeAmount:                  "10",
	}
}

func TestInitialize(t *testing.T) {
	t.Parallel()
	c := &clock{now: 1000000}
	ctx := newTransactionContext(c)
	contract := newContract()

	pairAddr, config := newFactory(t, ctx, contract)

	require.Equal(t, admin, config.Owner)
	require.Equal(t, feeWallet, config.Wallet)
	require.Equal(t, pairAddr, config.PairToken)
	require.Equal(t, "10", config.CreationFee)
	require.Equal(t, uint64(500), config.TokenFee)
	require.Regexp(t, `^[0-9a-f]{40}$`, config.Address)

	// The fee vesting wallet pays out to the fee wallet.
	got, err := vesting.Beneficiary(ctx, config.FeeVestingWallet)
	require.NoError(t, err)
	require.Equal(t, feeWallet, got)

	err = contract.Initialize(ctx, feeWallet, "10", 500, 0, 100, pairAddr)
	require.ErrorContains(t, err, "factory already initialized")
}

func TestOwnerGatedSetters(t *testing.T) {
	t.Parallel()
	c := &clock{now: 1000000}
	ctx := newTransactionContext(c)
	contract := newContract()
	pairAddr, _ := newFactory(t, ctx, contract)

	setUserID(ctx, creator)
	err := contract.SetCreationFee(ctx, "20")
	require.ErrorContains(t, err, "caller is not the owner")

	setUserID(ctx, admin)
	require.NoError(t, contract.SetCreationFee(ctx, "20"))
	require.NoError(t, contract.SetWallet(ctx, creator))
	require.NoError(t, contract.SetPairToken(ctx, pairAddr))

	err = contract.SetTokenFee(ctx, 10001)
	require.ErrorContains(t, err, "token fee greater than 10000")
	require.NoError(t, contract.SetTokenFee(ctx, 100))

	config, err := contract.Config(ctx)
	require.NoError(t, err)
	require.Equal(t, "20", config.CreationFee)
	require.Equal(t, creator, config.Wallet)
	require.Equal(t, uint64(100), config.TokenFee)

	err = contract.TransferOwnership(ctx, creator)
	require.NoError(t, err)

	err = contract.SetCreationFee(ctx, "30")
	require.ErrorContains(t, err, "caller is not the owner")
}

func TestCreateProject(t *testing.T) {
	t.Parallel()
	c := &clock{now: 1000000}
	ctx := newTransactionContext(c)
	contract := newContract()
	pairAddr, config := newFactory(t, ctx, contract)

	setUserID(ctx, creator)
	require.NoError(t, contract.Approve(ctx, pairAddr, config.Address, "10"))

	tokenAddr, err := contract.CreateProject(ctx, baseInput(c))
	require.NoError(t, err)

	proj, err := contract.Project(ctx, tokenAddr)
	require.NoError(t, err)
	require.Equal(t, creator, proj.Creator)
	require.Equal(t, pairAddr, proj.PairToken)

	// Supply split: token fee 10000*500/10000 = 500, sale cap 4000,
	// liquidity reserve (4000/2)*50/100*2 = 2000, vested remainder 3500.
	for account, want := range map[string]string{
		proj.Crowdsale:          "4000",
		config.Address:          "2000",
		proj.VestingWallet:      "3500",
		config.FeeVestingWallet: "500",
	} {
		balance, err := token.BalanceOf(ctx, tokenAddr, account)
		require.NoError(t, err)
		require.Equal(t, want, balance.String())
	}

	// The creation fee landed in the fee wallet.
	fee, err := token.BalanceOf(ctx, pairAddr, feeWallet)
	require.NoError(t, err)
	require.Equal(t, "10", fee.String())
}

func TestCreateProjectValidation(t *testing.T) {
	t.Parallel()
	c := &clock{now: 1000000}
	ctx := newTransactionContext(c)
	contract := newContract()
	pairAddr, config := newFactory(t, ctx, contract)

	setUserID(ctx, creator)
	require.NoError(t, contract.Approve(ctx, pairAddr, config.Address, "1000"))

	in := baseInput(c)
	in.FeeAmount = "9"
	_, err := contract.CreateProject(ctx, in)
	require.ErrorContains(t, err, "insufficient funds sent")

	in = baseInput(c)
	in.TokenTotalSupply = "6000"
	_, err = contract.CreateProject(ctx, in)
	require.ErrorContains(t, err, "insufficient token supply")

	in = baseInput(c)
	in.LiquidityRate = "0"
	_, err = contract.CreateProject(ctx, in)
	require.ErrorContains(t, err, "liquidityRate is 0")

	in = baseInput(c)
	in.LiquidityPercentage = 101
	_, err = contract.CreateProject(ctx, in)
	require.ErrorContains(t, err, "liquidityPercentage greater than 100")

	in = baseInput(c)
	in.LiquidityLockStartIn = 0
	_, err = contract.CreateProject(ctx, in)
	require.ErrorContains(t, err, "liquidityLockStartIn is 0")

	in = baseInput(c)
	in.LiquidityLockDuration = 0
	_, err = contract.CreateProject(ctx, in)
	require.ErrorContains(t, err, "liquidityLockDuration is 0")
}

func TestFinalizeProject(t *testing.T) {
	t.Parallel()
	c := &clock{now: 1000000}
	ctx := newTransactionContext(c)
	contract := newContract()
	pairAddr, config := newFactory(t, ctx, contract)

	setUserID(ctx, creator)
	require.NoError(t, contract.Approve(ctx, pairAddr, config.Address, "10"))
	require.NoError(t, contract.Transfer(ctx, pairAddr, buyer, "1000"))

	tokenAddr, err := contract.CreateProject(ctx, baseInput(c))
	require.NoError(t, err)

	proj, err := contract.Project(ctx, tokenAddr)
	require.NoError(t, err)

	err = contract.FinalizeProject(ctx, tokenAddr)
	require.ErrorContains(t, err, "crowdsale not closed")

	// Buyer raises 600 pair tokens for 1200 project tokens.
	c.now += 10
	setUserID(ctx, buyer)
	require.NoError(t, contract.Approve(ctx, pairAddr, proj.Crowdsale, "600"))
	require.NoError(t, contract.BuyTokens(ctx, proj.Crowdsale, buyer, "600"))

	c.now += 1000
	creatorPairBefore, err := token.BalanceOf(ctx, pairAddr, creator)
	require.NoError(t, err)

	err = contract.FinalizeProject(ctx, tokenAddr)
	require.NoError(t, err)

	// The reserve covers up to 1000 pair units, so the whole 600 raise is
	// paired with 600*2 = 1200 tokens, minting floor(sqrt(1200*600)) = 848
	// liquidity locked in the vesting wallet.
	pair, err := router.GetPair(ctx, tokenAddr, pairAddr)
	require.NoError(t, err)
	require.NotNil(t, pair)

	liquidity, err := token.BalanceOf(ctx, pair.LiquidityToken, proj.VestingWallet)
	require.NoError(t, err)
	require.Equal(t, "848", liquidity.String())

	lockStart, err := vesting.Start(ctx, proj.VestingWallet, pair.LiquidityToken)
	require.NoError(t, err)
	require.Equal(t, uint64(c.now)+5, lockStart)

	lockDuration, err := vesting.Duration(ctx, proj.VestingWallet, pair.LiquidityToken)
	require.NoError(t, err)
	require.Equal(t, uint64(500), lockDuration)

	// Unsold supply 2800 plus the unspent liquidity reserve 800 joins
	// the creator's vested remainder.
	vested, err := token.BalanceOf(ctx, tokenAddr, proj.VestingWallet)
	require.NoError(t, err)
	require.Equal(t, "7100", vested.String())

	// The raise was fully paired, so nothing flows back to the creator.
	creatorPairAfter, err := token.BalanceOf(ctx, pairAddr, creator)
	require.NoError(t, err)
	require.Equal(t, "0", new(big.Int).Sub(creatorPairAfter, creatorPairBefore).String())

	// Deleting the record makes finalization single-shot.
	_, err = contract.Project(ctx, tokenAddr)
	require.ErrorContains(t, err, "project not found")

	err = contract.FinalizeProject(ctx, tokenAddr)
	require.ErrorContains(t, err, "project not found")

	// Buyer withdrawal closes the loop: every unit of supply is accounted
	// for across the buyer, the liquidity pair and the vesting wallets.
	require.NoError(t, contract.WithdrawTokens(ctx, proj.Crowdsale))

	total := big.NewInt(0)
	for _, account := range []string{buyer, pair.LiquidityToken, proj.VestingWallet, config.FeeVestingWallet} {
		balance, err := token.BalanceOf(ctx, tokenAddr, account)
		require.NoError(t, err)
		total.Add(total, balance)
	}
	require.Equal(t, "10000", total.String())
}

func TestFinalizeProjectCapsLiquidityAtReserve(t *testing.T) {
	t.Parallel()
	c := &clock{now: 1000000}
	ctx := newTransactionContext(c)
	contract := newContract()
	pairAddr, config := newFactory(t, ctx, contract)

	setUserID(ctx, creator)
	require.NoError(t, contract.Approve(ctx, pairAddr, config.Address, "10"))
	require.NoError(t, contract.Transfer(ctx, pairAddr, buyer, "2000"))

	tokenAddr, err := contract.CreateProject(ctx, baseInput(c))
	require.NoError(t, err)

	proj, err := contract.Project(ctx, tokenAddr)
	require.NoError(t, err)

	// A 1200 pair raise exceeds the 1000 unit reserve.
	c.now += 10
	setUserID(ctx, buyer)
	require.NoError(t, contract.Approve(ctx, pairAddr, proj.Crowdsale, "1200"))
	require.NoError(t, contract.BuyTokens(ctx, proj.Crowdsale, buyer, "1200"))

	c.now += 1000
	creatorPairBefore, err := token.BalanceOf(ctx, pairAddr, creator)
	require.NoError(t, err)

	err = contract.FinalizeProject(ctx, tokenAddr)
	require.NoError(t, err)

	// Only 1000 pair units are paired, with 2000 tokens, for
	// floor(sqrt(2000*1000)) = 1414 liquidity.
	pair, err := router.GetPair(ctx, tokenAddr, pairAddr)
	require.NoError(t, err)
	require.NotNil(t, pair)

	liquidity, err := token.BalanceOf(ctx, pair.LiquidityToken, proj.VestingWallet)
	require.NoError(t, err)
	require.Equal(t, "1414", liquidity.String())

	// The 200 pair units above the reserve go straight to the creator.
	creatorPairAfter, err := token.BalanceOf(ctx, pairAddr, creator)
	require.NoError(t, err)
	require.Equal(t, "200", new(big.Int).Sub(creatorPairAfter, creatorPairBefore).String())

	// Unsold supply 1600 joins the vested remainder; the reserve was spent
	// in full.
	vested, err := token.BalanceOf(ctx, tokenAddr, proj.VestingWallet)
	require.NoError(t, err)
	require.Equal(t, "5100", vested.String())
}

func TestFinalizeProjectUnknownToken(t *testing.T) {
	t.Parallel()
	c := &clock{now: 1000000}
	ctx := newTransactionContext(c)
	contract := newContract()
	newFactory(t, ctx, contract)

	err := contract.FinalizeProject(ctx, creator)
	require.ErrorContains(t, err, "project not found")
}
