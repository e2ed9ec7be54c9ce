/*
SPDX-License-Identifier: Apache-2.0
*/

package project

import (
	"net/http"

	"github.com/p2eengineering/kalp-sdk-public/kalpsdk"

	"github.com/marcelmiro/astrano-contracts/ccerror"
	"github.com/marcelmiro/astrano-contracts/crowdsale"
	"github.com/marcelmiro/astrano-contracts/token"
	"github.com/marcelmiro/astrano-contracts/vesting"
)

func signer(ctx kalpsdk.TransactionContextInterface) (string, error) {
	id, err := token.GetUserID(ctx)
	if err != nil {
		return "", ccerror.New(http.StatusBadRequest, "failed to get client id", err)
	}
	return id, nil
}

// CreateToken issues a standalone asset with the signer as initial holder.
func (s *SmartContract) CreateToken(ctx kalpsdk.TransactionContextInterface, name, symbol, totalSupply string) (string, error) {
	holder, err := signer(ctx)
	if err != nil {
		return "", err
	}
	return token.Create(ctx, name, symbol, totalSupply, holder)
}

func (s *SmartContract) TokenInfo(ctx kalpsdk.TransactionContextInterface, address string) (*token.Token, error) {
	return token.GetToken(ctx, address)
}

func (s *SmartContract) BalanceOf(ctx kalpsdk.TransactionContextInterface, address, account string) (string, error) {
	balance, err := token.BalanceOf(ctx, address, account)
	if err != nil {
		return "", err
	}
	return balance.String(), nil
}

func (s *SmartContract) Allowance(ctx kalpsdk.TransactionContextInterface, address, owner, spender string) (string, error) {
	allowance, err := token.Allowance(ctx, address, owner, spender)
	if err != nil {
		return "", err
	}
	return allowance.String(), nil
}

// Transfer moves amount of the signer's balance to recipient.
func (s *SmartContract) Transfer(ctx kalpsdk.TransactionContextInterface, address, recipient, amount string) error {
	from, err := signer(ctx)
	if err != nil {
		return err
	}
	value, err := parseAmount("amount", amount)
	if err != nil {
		return err
	}
	return token.Transfer(ctx, address, from, recipient, value)
}

// Approve grants spender an allowance over the signer's balance.
func (s *SmartContract) Approve(ctx kalpsdk.TransactionContextInterface, address, spender, amount string) error {
	owner, err := signer(ctx)
	if err != nil {
		return err
	}
	value, err := parseAmount("amount", amount)
	if err != nil {
		return err
	}
	return token.Approve(ctx, address, owner, spender, value)
}

// TransferFrom moves amount from sender to recipient, consuming the
// signer's allowance.
func (s *SmartContract) TransferFrom(ctx kalpsdk.TransactionContextInterface, address, sender, recipient, amount string) error {
	spender, err := signer(ctx)
	if err != nil {
		return err
	}
	value, err := parseAmount("amount", amount)
	if err != nil {
		return err
	}
	return token.TransferFrom(ctx, address, spender, sender, recipient, value)
}

// CreateVestingWallet registers a standalone vesting wallet.
func (s *SmartContract) CreateVestingWallet(ctx kalpsdk.TransactionContextInterface, beneficiary string) (string, error) {
	return vesting.CreateWallet(ctx, beneficiary)
}

// DepositVesting pulls amount of tokenAddr from the signer into the
// wallet. Requires a prior allowance to the wallet address.
func (s *SmartContract) DepositVesting(ctx kalpsdk.TransactionContextInterface, id, tokenAddr, amount string, startIn, duration uint64) error {
	from, err := signer(ctx)
	if err != nil {
		return err
	}
	value, err := parseAmount("amount", amount)
	if err != nil {
		return err
	}
	return vesting.Deposit(ctx, id, tokenAddr, from, value, startIn, duration)
}

func (s *SmartContract) ReleasableAmount(ctx kalpsdk.TransactionContextInterface, id, tokenAddr string) (string, error) {
	releasable, _, err := vesting.Releasable(ctx, id, tokenAddr)
	if err != nil {
		return "", err
	}
	return releasable.String(), nil
}

// ReleaseVesting pays everything currently due out to the beneficiary and
// returns the released amount.
func (s *SmartContract) ReleaseVesting(ctx kalpsdk.TransactionContextInterface, id, tokenAddr string) (string, error) {
	released, err := vesting.Release(ctx, id, tokenAddr)
	if err != nil {
		return "", err
	}
	return released.String(), nil
}

func (s *SmartContract) VestingBeneficiary(ctx kalpsdk.TransactionContextInterface, id string) (string, error) {
	return vesting.Beneficiary(ctx, id)
}

// SetVestingBeneficiary reassigns the signer's wallet to newBeneficiary.
func (s *SmartContract) SetVestingBeneficiary(ctx kalpsdk.TransactionContextInterface, id, newBeneficiary string) error {
	caller, err := signer(ctx)
	if err != nil {
		return err
	}
	return vesting.SetBeneficiary(ctx, id, caller, newBeneficiary)
}

func (s *SmartContract) VestingStart(ctx kalpsdk.TransactionContextInterface, id, tokenAddr string) (uint64, error) {
	return vesting.Start(ctx, id, tokenAddr)
}

func (s *SmartContract) VestingDuration(ctx kalpsdk.TransactionContextInterface, id, tokenAddr string) (uint64, error) {
	return vesting.Duration(ctx, id, tokenAddr)
}

func (s *SmartContract) VestingReleased(ctx kalpsdk.TransactionContextInterface, id, tokenAddr string) (string, error) {
	released, err := vesting.Released(ctx, id, tokenAddr)
	if err != nil {
		return "", err
	}
	return released.String(), nil
}

// CreateCrowdsale registers a standalone sale. Empty owner or finalizer
// default to the signer.
func (s *SmartContract) CreateCrowdsale(ctx kalpsdk.TransactionContextInterface, in crowdsale.Input) (string, error) {
	caller, err := signer(ctx)
	if err != nil {
		return "", err
	}
	if token.IsZeroAddress(in.Owner) {
		in.Owner = caller
	}
	if token.IsZeroAddress(in.Finalizer) {
		in.Finalizer = caller
	}
	return crowdsale.Create(ctx, &in)
}

func (s *SmartContract) CrowdsaleInfo(ctx kalpsdk.TransactionContextInterface, id string) (*crowdsale.Crowdsale, error) {
	return crowdsale.GetCrowdsale(ctx, id)
}

func (s *SmartContract) CrowdsaleBalanceOf(ctx kalpsdk.TransactionContextInterface, id, account string) (string, error) {
	balance, err := crowdsale.GetBalance(ctx, id, account)
	if err != nil {
		return "", err
	}
	return balance.String(), nil
}

func (s *SmartContract) ContributionOf(ctx kalpsdk.TransactionContextInterface, id, account string) (string, error) {
	contribution, err := crowdsale.GetContribution(ctx, id, account)
	if err != nil {
		return "", err
	}
	return contribution.String(), nil
}

func (s *SmartContract) IsCrowdsaleOpen(ctx kalpsdk.TransactionContextInterface, id string) (bool, error) {
	return crowdsale.IsOpen(ctx, id)
}

func (s *SmartContract) HasCrowdsaleClosed(ctx kalpsdk.TransactionContextInterface, id string) (bool, error) {
	return crowdsale.HasClosed(ctx, id)
}

// BuyTokens purchases on behalf of beneficiary with amount pair tokens
// pulled from the signer. Requires a prior allowance to the sale address.
func (s *SmartContract) BuyTokens(ctx kalpsdk.TransactionContextInterface, id, beneficiary, amount string) error {
	buyer, err := signer(ctx)
	if err != nil {
		return err
	}
	value, err := parseAmount("amount", amount)
	if err != nil {
		return err
	}
	return crowdsale.Buy(ctx, id, buyer, beneficiary, value)
}

// FinalizeCrowdsale concludes a standalone sale. The signer must be its
// finalizer.
func (s *SmartContract) FinalizeCrowdsale(ctx kalpsdk.TransactionContextInterface, id string) error {
	caller, err := signer(ctx)
	if err != nil {
		return err
	}
	return crowdsale.Finalize(ctx, id, caller)
}

// WithdrawTokens pays out the signer's purchased tokens after
// finalization.
func (s *SmartContract) WithdrawTokens(ctx kalpsdk.TransactionContextInterface, id string) error {
	beneficiary, err := signer(ctx)
	if err != nil {
		return err
	}
	return crowdsale.WithdrawTokens(ctx, id, beneficiary)
}

// ClaimRefund returns the signer's contribution from a failed sale.
func (s *SmartContract) ClaimRefund(ctx kalpsdk.TransactionContextInterface, id string) error {
	beneficiary, err := signer(ctx)
	if err != nil {
		return err
	}
	return crowdsale.ClaimRefund(ctx, id, beneficiary)
}

// WithdrawExpiredTokens sweeps an expired sale's token custody to its
// owner, who must be the signer.
func (s *SmartContract) WithdrawExpiredTokens(ctx kalpsdk.TransactionContextInterface, id string) error {
	caller, err := signer(ctx)
	if err != nil {
		return err
	}
	return crowdsale.WithdrawExpiredTokens(ctx, id, caller)
}
