/*
SPDX-License-Identifier: Apache-2.0
*/

// Package project hosts the deployable contract. It exposes the fungible
// ledger, vesting wallets and crowdsales as chaincode operations and adds
// the project factory tying them together: one call launches a token, its
// sale and its creator's vesting wallet, and one call finalizes the sale
// into locked liquidity.
package project

import (
	"math/big"
	"net/http"

	"github.com/p2eengineering/kalp-sdk-public/kalpsdk"

	"github.com/marcelmiro/astrano-contracts/ccerror"
	"github.com/marcelmiro/astrano-contracts/crowdsale"
	"github.com/marcelmiro/astrano-contracts/router"
	"github.com/marcelmiro/astrano-contracts/token"
	"github.com/marcelmiro/astrano-contracts/vesting"
)

type SmartContract struct {
	kalpsdk.Contract
	Router router.Router
}

// ProjectInput carries everything CreateProject needs. Amount fields are
// decimal strings; FeeAmount is paid in the configured pair token and must
// cover the creation fee.
type ProjectInput struct {
	TokenName                  string `json:"tokenName"`
	TokenSymbol                string `json:"tokenSymbol"`
	TokenTotalSupply           string `json:"tokenTotalSupply"`
	CrowdsaleRate              string `json:"crowdsaleRate"`
	CrowdsaleCap               string `json:"crowdsaleCap"`
	CrowdsaleIndividualCap     string `json:"crowdsaleIndividualCap"`
	CrowdsaleMinPurchaseAmount string `json:"crowdsaleMinPurchaseAmount"`
	CrowdsaleGoal              string `json:"crowdsaleGoal"`
	CrowdsaleOpeningTime       uint64 `json:"crowdsaleOpeningTime"`
	CrowdsaleClosingTime       uint64 `json:"crowdsaleClosingTime"`
	TokenLockStartIn           uint64 `json:"tokenLockStartIn"`
	TokenLockDuration          uint64 `json:"tokenLockDuration"`
	LiquidityRate              string `json:"liquidityRate"`
	LiquidityLockStartIn       uint64 `json:"liquidityLockStartIn"`
	LiquidityLockDuration      uint64 `json:"liquidityLockDuration"`
	LiquidityPercentage        uint64 `json:"liquidityPercentage"`
	FeeAmount                  string `json:"feeAmount"`
}

func parseAmount(entity, value string) (*big.Int, error) {
	amount, ok := new(big.Int).SetString(value, 10)
	if !ok || amount.Sign() < 0 {
		return nil, ccerror.New(http.StatusBadRequest, token.ErrInvalidAmount(entity, value).Error(), nil)
	}
	return amount, nil
}

func requireConfig(ctx kalpsdk.TransactionContextInterface) (*Config, error) {
	config, err := GetConfig(ctx)
	if err != nil {
		return nil, err
	}
	if config == nil {
		return nil, ccerror.New(http.StatusConflict, ErrNotInitialized.Error(), nil)
	}
	return config, nil
}

func requireOwner(ctx kalpsdk.TransactionContextInterface) (*Config, error) {
	config, err := requireConfig(ctx)
	if err != nil {
		return nil, err
	}

	signer, err := token.GetUserID(ctx)
	if err != nil {
		return nil, ccerror.New(http.StatusBadRequest, "failed to get client id", err)
	}
	if signer != config.Owner {
		return nil, ccerror.New(http.StatusForbidden, ErrCallerNotOwner.Error(), nil)
	}

	return config, nil
}

// Initialize writes the factory configuration and creates the fee vesting
// wallet. The transaction signer becomes the factory owner. It can only
// run once.
func (s *SmartContract) Initialize(ctx kalpsdk.TransactionContextInterface, wallet, creationFee string, tokenFee, feeVestingStartIn, feeVestingDuration uint64, pairToken string) error {
	existing, err := GetConfig(ctx)
	if err != nil {
		return err
	}
	if existing != nil {
		return ccerror.New(http.StatusConflict, ErrAlreadyInitialized.Error(), nil)
	}

	signer, err := token.GetUserID(ctx)
	if err != nil {
		return ccerror.New(http.StatusBadRequest, "failed to get client id", err)
	}

	if token.IsZeroAddress(wallet) {
		return ccerror.New(http.StatusBadRequest, ErrWalletZeroAddress.Error(), nil)
	}
	if token.IsZeroAddress(pairToken) {
		return ccerror.New(http.StatusBadRequest, ErrPairTokenZeroAddress.Error(), nil)
	}
	if tokenFee > feeDenominator {
		return ccerror.New(http.StatusBadRequest, ErrTokenFeeTooHigh.Error(), nil)
	}
	if _, err := parseAmount("creationFee", creationFee); err != nil {
		return err
	}

	feeVestingWallet, err := vesting.CreateWallet(ctx, wallet)
	if err != nil {
		return err
	}

	return SetConfig(ctx, &Config{
		Owner:              signer,
		Address:            token.NewContractAddress(ctx, "factory"),
		Wallet:             wallet,
		FeeVestingWallet:   feeVestingWallet,
		FeeVestingStartIn:  feeVestingStartIn,
		FeeVestingDuration: feeVestingDuration,
		CreationFee:        creationFee,
		TokenFee:           tokenFee,
		PairToken:          pairToken,
	})
}

// Config returns the factory configuration.
func (s *SmartContract) Config(ctx kalpsdk.TransactionContextInterface) (*Config, error) {
	return requireConfig(ctx)
}

// TransferOwnership hands the factory over to newOwner.
func (s *SmartContract) TransferOwnership(ctx kalpsdk.TransactionContextInterface, newOwner string) error {
	config, err := requireOwner(ctx)
	if err != nil {
		return err
	}
	if token.IsZeroAddress(newOwner) {
		return ccerror.New(http.StatusBadRequest, ErrOwnerZeroAddress.Error(), nil)
	}

	config.Owner = newOwner
	return SetConfig(ctx, config)
}

// SetWallet updates the account receiving creation fees.
func (s *SmartContract) SetWallet(ctx kalpsdk.TransactionContextInterface, wallet string) error {
	config, err := requireOwner(ctx)
	if err != nil {
		return err
	}
	if token.IsZeroAddress(wallet) {
		return ccerror.New(http.StatusBadRequest, ErrWalletZeroAddress.Error(), nil)
	}

	config.Wallet = wallet
	return SetConfig(ctx, config)
}

// SetFeeVestingWallet points the token fee cut at another vesting wallet.
func (s *SmartContract) SetFeeVestingWallet(ctx kalpsdk.TransactionContextInterface, id string) error {
	config, err := requireOwner(ctx)
	if err != nil {
		return err
	}
	if _, err := vesting.GetWallet(ctx, id); err != nil {
		return err
	}

	config.FeeVestingWallet = id
	return SetConfig(ctx, config)
}

// SetCreationFee updates the flat pair token fee charged per project.
func (s *SmartContract) SetCreationFee(ctx kalpsdk.TransactionContextInterface, creationFee string) error {
	config, err := requireOwner(ctx)
	if err != nil {
		return err
	}
	if _, err := parseAmount("creationFee", creationFee); err != nil {
		return err
	}

	config.CreationFee = creationFee
	return SetConfig(ctx, config)
}

// SetTokenFee updates the supply cut, in basis points, taken per project.
func (s *SmartContract) SetTokenFee(ctx kalpsdk.TransactionContextInterface, tokenFee uint64) error {
	config, err := requireOwner(ctx)
	if err != nil {
		return err
	}
	if tokenFee > feeDenominator {
		return ccerror.New(http.StatusBadRequest, ErrTokenFeeTooHigh.Error(), nil)
	}

	config.TokenFee = tokenFee
	return SetConfig(ctx, config)
}

// SetPairToken updates the asset future projects raise and pay fees in.
// Existing projects keep the pair token they were created with.
func (s *SmartContract) SetPairToken(ctx kalpsdk.TransactionContextInterface, pairToken string) error {
	config, err := requireOwner(ctx)
	if err != nil {
		return err
	}
	if _, err := token.GetToken(ctx, pairToken); err != nil {
		return err
	}

	config.PairToken = pairToken
	return SetConfig(ctx, config)
}

// CreateProject launches a token, its crowdsale and the creator's vesting
// wallet in one transaction and returns the token address. The signer pays
// the creation fee in pair tokens via a prior allowance to the factory
// address. The supply splits into the sale cap, the liquidity reserve, the
// token fee and the vested remainder; nothing is left loose.
func (s *SmartContract) CreateProject(ctx kalpsdk.TransactionContextInterface, in ProjectInput) (string, error) {
	config, err := requireConfig(ctx)
	if err != nil {
		return "", err
	}

	creator, err := token.GetUserID(ctx)
	if err != nil {
		return "", ccerror.New(http.StatusBadRequest, "failed to get client id", err)
	}

	feeAmount, err := parseAmount("feeAmount", in.FeeAmount)
	if err != nil {
		return "", err
	}
	creationFee, err := parseAmount("creationFee", config.CreationFee)
	if err != nil {
		return "", err
	}
	if feeAmount.Cmp(creationFee) < 0 {
		return "", ccerror.New(http.StatusBadRequest, ErrInsufficientFunds.Error(), nil)
	}

	liquidityRate, err := parseAmount("liquidityRate", in.LiquidityRate)
	if err != nil {
		return "", err
	}
	if liquidityRate.Sign() == 0 {
		return "", ccerror.New(http.StatusBadRequest, ErrLiquidityRateIsZero.Error(), nil)
	}
	if in.LiquidityPercentage > 100 {
		return "", ccerror.New(http.StatusBadRequest, ErrLiquidityPercentage.Error(), nil)
	}
	if in.LiquidityLockStartIn == 0 {
		return "", ccerror.New(http.StatusBadRequest, ErrLiquidityLockStartIsZero.Error(), nil)
	}
	if in.LiquidityLockDuration == 0 {
		return "", ccerror.New(http.StatusBadRequest, ErrLiquidityLockDurationIsZero.Error(), nil)
	}

	totalSupply, err := parseAmount("tokenTotalSupply", in.TokenTotalSupply)
	if err != nil {
		return "", err
	}
	cap, err := parseAmount("crowdsaleCap", in.CrowdsaleCap)
	if err != nil {
		return "", err
	}
	rate, err := parseAmount("crowdsaleRate", in.CrowdsaleRate)
	if err != nil {
		return "", err
	}
	if rate.Sign() == 0 {
		return "", ccerror.New(http.StatusBadRequest, crowdsale.ErrRateIsZero.Error(), nil)
	}

	tokenFeeAmount := new(big.Int).Mul(totalSupply, new(big.Int).SetUint64(config.TokenFee))
	tokenFeeAmount.Div(tokenFeeAmount, big.NewInt(feeDenominator))

	// The liquidity reserve covers pairing the configured percentage of a
	// fully raised sale at the liquidity rate.
	maxLiquidityPairAmount := new(big.Int).Div(cap, rate)
	maxLiquidityPairAmount.Mul(maxLiquidityPairAmount, new(big.Int).SetUint64(in.LiquidityPercentage))
	maxLiquidityPairAmount.Div(maxLiquidityPairAmount, big.NewInt(100))
	liquidityAmount := new(big.Int).Mul(maxLiquidityPairAmount, liquidityRate)

	required := new(big.Int).Add(tokenFeeAmount, cap)
	required.Add(required, liquidityAmount)
	if totalSupply.Cmp(required) < 0 {
		return "", ccerror.New(http.StatusBadRequest, ErrInsufficientTokenSupply.Error(), nil)
	}
	vestingAmount := new(big.Int).Sub(totalSupply, required)

	err = token.TransferFrom(ctx, config.PairToken, config.Address, creator, config.Wallet, feeAmount)
	if err != nil {
		return "", err
	}

	tokenAddr, err := token.Create(ctx, in.TokenName, in.TokenSymbol, totalSupply.String(), config.Address)
	if err != nil {
		return "", err
	}

	crowdsaleID, err := crowdsale.Create(ctx, &crowdsale.Input{
		Token:             tokenAddr,
		PairToken:         config.PairToken,
		Owner:             creator,
		Finalizer:         config.Address,
		Rate:              rate.String(),
		Cap:               cap.String(),
		IndividualCap:     in.CrowdsaleIndividualCap,
		MinPurchaseAmount: in.CrowdsaleMinPurchaseAmount,
		Goal:              in.CrowdsaleGoal,
		OpeningTime:       in.CrowdsaleOpeningTime,
		ClosingTime:       in.CrowdsaleClosingTime,
	})
	if err != nil {
		return "", err
	}

	err = token.Transfer(ctx, tokenAddr, config.Address, crowdsaleID, cap)
	if err != nil {
		return "", err
	}

	vestingWallet, err := vesting.CreateWallet(ctx, creator)
	if err != nil {
		return "", err
	}

	if vestingAmount.Sign() > 0 {
		err = token.Approve(ctx, tokenAddr, config.Address, vestingWallet, vestingAmount)
		if err != nil {
			return "", err
		}
		err = vesting.Deposit(ctx, vestingWallet, tokenAddr, config.Address, vestingAmount, in.TokenLockStartIn, in.TokenLockDuration)
		if err != nil {
			return "", err
		}
	}

	if tokenFeeAmount.Sign() > 0 {
		err = token.Approve(ctx, tokenAddr, config.Address, config.FeeVestingWallet, tokenFeeAmount)
		if err != nil {
			return "", err
		}
		err = vesting.Deposit(ctx, config.FeeVestingWallet, tokenAddr, config.Address, tokenFeeAmount, config.FeeVestingStartIn, config.FeeVestingDuration)
		if err != nil {
			return "", err
		}
	}

	err = SetProject(ctx, tokenAddr, &Project{
		Creator:                creator,
		Token:                  tokenAddr,
		PairToken:              config.PairToken,
		Crowdsale:              crowdsaleID,
		VestingWallet:          vestingWallet,
		TokenLockStartIn:       in.TokenLockStartIn,
		TokenLockDuration:      in.TokenLockDuration,
		LiquidityRate:          liquidityRate.String(),
		MaxLiquidityPairAmount: maxLiquidityPairAmount.String(),
		LiquidityLockStartIn:   in.LiquidityLockStartIn,
		LiquidityLockDuration:  in.LiquidityLockDuration,
	})
	if err != nil {
		return "", err
	}

	err = EmitProjectCreated(ctx, ProjectCreatedEvent{
		Creator:       creator,
		Token:         tokenAddr,
		Crowdsale:     crowdsaleID,
		VestingWallet: vestingWallet,
	})
	if err != nil {
		return "", err
	}

	return tokenAddr, nil
}

// Project returns the live record for a project token.
func (s *SmartContract) Project(ctx kalpsdk.TransactionContextInterface, tokenAddr string) (*Project, error) {
	return GetProject(ctx, tokenAddr)
}

// FinalizeProject concludes a project whose sale succeeded: the raise is
// locked as liquidity up to the reserve fixed at creation, the creator's
// vesting wallet
// receives the leftover supply and the liquidity tokens, and the rest of
// the raise goes straight to the creator. The project record is deleted up
// front, so a second call fails with project not found.
func (s *SmartContract) FinalizeProject(ctx kalpsdk.TransactionContextInterface, tokenAddr string) error {
	config, err := requireConfig(ctx)
	if err != nil {
		return err
	}
	project, err := GetProject(ctx, tokenAddr)
	if err != nil {
		return err
	}

	closed, err := crowdsale.HasClosed(ctx, project.Crowdsale)
	if err != nil {
		return err
	}
	if !closed {
		return ccerror.New(http.StatusConflict, ErrCrowdsaleNotClosed.Error(), nil)
	}

	pairRaised, err := token.GetBalance(ctx, project.PairToken, project.Crowdsale)
	if err != nil {
		return err
	}

	err = DeleteProject(ctx, tokenAddr)
	if err != nil {
		return err
	}

	err = crowdsale.Finalize(ctx, project.Crowdsale, config.Address)
	if err != nil {
		return err
	}

	if pairRaised.Sign() > 0 {
		err = token.TransferFrom(ctx, project.PairToken, config.Address, project.Crowdsale, config.Address, pairRaised)
		if err != nil {
			return err
		}
	}

	liquidityRate, err := parseAmount("liquidityRate", project.LiquidityRate)
	if err != nil {
		return err
	}
	maxLiquidityPairAmount, err := parseAmount("maxLiquidityPairAmount", project.MaxLiquidityPairAmount)
	if err != nil {
		return err
	}

	// Pair as much of the raise as the reserve fixed at creation covers.
	liquidityPairAmount := new(big.Int).Set(pairRaised)
	if liquidityPairAmount.Cmp(maxLiquidityPairAmount) > 0 {
		liquidityPairAmount.Set(maxLiquidityPairAmount)
	}
	liquidityTokenAmount := new(big.Int).Mul(liquidityPairAmount, liquidityRate)

	var liquidityPair string
	liquidity := big.NewInt(0)
	if liquidityPairAmount.Sign() > 0 && liquidityTokenAmount.Sign() > 0 {
		liquidityPair, liquidity, err = s.Router.AddLiquidity(ctx, config.Address, project.Token, liquidityTokenAmount, project.PairToken, liquidityPairAmount)
		if err != nil {
			return err
		}

		err = token.Approve(ctx, liquidityPair, config.Address, project.VestingWallet, liquidity)
		if err != nil {
			return err
		}
		err = vesting.Deposit(ctx, project.VestingWallet, liquidityPair, config.Address, liquidity, project.LiquidityLockStartIn, project.LiquidityLockDuration)
		if err != nil {
			return err
		}
	}

	// Unsold supply plus the unspent share of the liquidity reserve.
	remainingTokenAmount, err := token.GetBalance(ctx, project.Token, config.Address)
	if err != nil {
		return err
	}
	if remainingTokenAmount.Sign() > 0 {
		err = token.Approve(ctx, project.Token, config.Address, project.VestingWallet, remainingTokenAmount)
		if err != nil {
			return err
		}
		err = vesting.Deposit(ctx, project.VestingWallet, project.Token, config.Address, remainingTokenAmount, project.TokenLockStartIn, project.TokenLockDuration)
		if err != nil {
			return err
		}
	}

	remainingPairTokenAmount := new(big.Int).Sub(pairRaised, liquidityPairAmount)
	if remainingPairTokenAmount.Sign() > 0 {
		err = token.Transfer(ctx, project.PairToken, config.Address, project.Creator, remainingPairTokenAmount)
		if err != nil {
			return err
		}
	}

	return EmitProjectFinalized(ctx, ProjectFinalizedEvent{
		Token:                    project.Token,
		PairTokenAmount:          pairRaised.String(),
		LiquidityPair:            liquidityPair,
		LiquidityAmount:          liquidity.String(),
		RemainingTokenAmount:     remainingTokenAmount.String(),
		RemainingPairTokenAmount: remainingPairTokenAmount.String(),
	})
}
