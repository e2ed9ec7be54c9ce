/*
SPDX-License-Identifier: Apache-2.0
*/

// Package crowdsale implements a time-boxed, capped token sale. Buyers pay
// in a pair asset at a fixed rate and are credited ledger tokens they can
// withdraw once the sale is finalized; if the goal is missed (or the
// finalizer never acts within the expiry window) contributions become
// refundable instead.
package crowdsale

import (
	"math/big"
	"net/http"

	"github.com/p2eengineering/kalp-sdk-public/kalpsdk"

	"github.com/marcelmiro/astrano-contracts/ccerror"
	"github.com/marcelmiro/astrano-contracts/token"
)

// Input carries the construction parameters of a sale. Rate, cap,
// individual cap, min purchase amount and goal are decimal strings; cap,
// individual cap and goal are token units, min purchase amount pair units.
type Input struct {
	Token             string `json:"token"`
	PairToken         string `json:"pairToken"`
	Owner             string `json:"owner"`
	Finalizer         string `json:"finalizer"`
	Rate              string `json:"rate"`
	Cap               string `json:"cap"`
	IndividualCap     string `json:"individualCap"`
	MinPurchaseAmount string `json:"minPurchaseAmount"`
	Goal              string `json:"goal"`
	OpeningTime       uint64 `json:"openingTime"`
	ClosingTime       uint64 `json:"closingTime"`
}

// Create validates the input atomically and registers a new sale, returning
// its custodial account address. The sale only becomes operational once its
// token custody is funded up to the cap.
func Create(ctx kalpsdk.TransactionContextInterface, in *Input) (string, error) {
	if token.IsZeroAddress(in.Token) {
		return "", ccerror.New(http.StatusBadRequest, ErrTokenZeroAddress.Error(), nil)
	}
	if token.IsZeroAddress(in.PairToken) {
		return "", ccerror.New(http.StatusBadRequest, ErrPairTokenZeroAddress.Error(), nil)
	}
	if token.IsZeroAddress(in.Owner) {
		return "", ccerror.New(http.StatusBadRequest, ErrOwnerZeroAddress.Error(), nil)
	}
	if token.IsZeroAddress(in.Finalizer) {
		return "", ccerror.New(http.StatusBadRequest, ErrFinalizerZeroAddress.Error(), nil)
	}

	rate, ok := new(big.Int).SetString(in.Rate, 10)
	if !ok || rate.Sign() < 0 {
		return "", ccerror.New(http.StatusBadRequest, token.ErrInvalidAmount("rate", in.Rate).Error(), nil)
	}
	cap, ok := new(big.Int).SetString(in.Cap, 10)
	if !ok || cap.Sign() < 0 {
		return "", ccerror.New(http.StatusBadRequest, token.ErrInvalidAmount("cap", in.Cap).Error(), nil)
	}
	individualCap, ok := new(big.Int).SetString(in.IndividualCap, 10)
	if !ok || individualCap.Sign() < 0 {
		return "", ccerror.New(http.StatusBadRequest, token.ErrInvalidAmount("individualCap", in.IndividualCap).Error(), nil)
	}
	minPurchaseAmount, ok := new(big.Int).SetString(in.MinPurchaseAmount, 10)
	if !ok || minPurchaseAmount.Sign() < 0 {
		return "", ccerror.New(http.StatusBadRequest, token.ErrInvalidAmount("minPurchaseAmount", in.MinPurchaseAmount).Error(), nil)
	}
	goal, ok := new(big.Int).SetString(in.Goal, 10)
	if !ok || goal.Sign() < 0 {
		return "", ccerror.New(http.StatusBadRequest, token.ErrInvalidAmount("goal", in.Goal).Error(), nil)
	}

	if rate.Sign() == 0 {
		return "", ccerror.New(http.StatusBadRequest, ErrRateIsZero.Error(), nil)
	}
	if cap.Sign() == 0 {
		return "", ccerror.New(http.StatusBadRequest, ErrCapIsZero.Error(), nil)
	}
	if goal.Cmp(cap) > 0 {
		return "", ccerror.New(http.StatusBadRequest, ErrGoalGreaterThanCap.Error(), nil)
	}
	if rate.Cmp(cap) > 0 {
		return "", ccerror.New(http.StatusBadRequest, ErrRateGreaterThanCap.Error(), nil)
	}

	now, err := token.TxTime(ctx)
	if err != nil {
		return "", err
	}
	if in.OpeningTime < now {
		return "", ccerror.New(http.StatusBadRequest, ErrOpeningTimeInPast.Error(), nil)
	}
	if in.OpeningTime >= in.ClosingTime {
		return "", ccerror.New(http.StatusBadRequest, ErrInvalidTimeWindow.Error(), nil)
	}

	if _, err := token.GetToken(ctx, in.Token); err != nil {
		return "", err
	}
	if _, err := token.GetToken(ctx, in.PairToken); err != nil {
		return "", err
	}

	id := token.NewContractAddress(ctx, crowdsaleKeyPrefix+in.Token)

	err = SetCrowdsale(ctx, id, &Crowdsale{
		Token:             in.Token,
		PairToken:         in.PairToken,
		Owner:             in.Owner,
		Finalizer:         in.Finalizer,
		Rate:              rate.String(),
		Cap:               cap.String(),
		IndividualCap:     individualCap.String(),
		MinPurchaseAmount: minPurchaseAmount.String(),
		Goal:              goal.String(),
		OpeningTime:       in.OpeningTime,
		ClosingTime:       in.ClosingTime,
		TokensSold:        "0",
		Contributors:      0,
		Finalized:         false,
	})
	if err != nil {
		return "", err
	}

	err = EmitCrowdsaleCreated(ctx, CrowdsaleCreatedEvent{
		Crowdsale:   id,
		Token:       in.Token,
		PairToken:   in.PairToken,
		Rate:        rate.String(),
		Cap:         cap.String(),
		Goal:        goal.String(),
		OpeningTime: in.OpeningTime,
		ClosingTime: in.ClosingTime,
	})
	if err != nil {
		return "", err
	}

	return id, nil
}

func isOpen(cs *Crowdsale, now uint64, sold, cap *big.Int) bool {
	return now >= cs.OpeningTime && now <= cs.ClosingTime && sold.Cmp(cap) < 0
}

func hasClosed(cs *Crowdsale, now uint64, sold, cap *big.Int) bool {
	return now > cs.ClosingTime || sold.Cmp(cap) >= 0
}

func amounts(cs *Crowdsale) (sold, cap *big.Int, err error) {
	sold, ok := new(big.Int).SetString(cs.TokensSold, 10)
	if !ok {
		return nil, nil, ccerror.New(http.StatusInternalServerError, "failed to parse tokensSold", nil)
	}
	cap, ok = new(big.Int).SetString(cs.Cap, 10)
	if !ok {
		return nil, nil, ccerror.New(http.StatusInternalServerError, "failed to parse cap", nil)
	}
	return sold, cap, nil
}

// IsOpen reports whether the sale currently accepts purchases.
func IsOpen(ctx kalpsdk.TransactionContextInterface, id string) (bool, error) {
	cs, err := GetCrowdsale(ctx, id)
	if err != nil {
		return false, err
	}
	now, err := token.TxTime(ctx)
	if err != nil {
		return false, err
	}
	sold, cap, err := amounts(cs)
	if err != nil {
		return false, err
	}
	return isOpen(cs, now, sold, cap), nil
}

// HasClosed reports whether the sale has ended, by time or by selling out.
func HasClosed(ctx kalpsdk.TransactionContextInterface, id string) (bool, error) {
	cs, err := GetCrowdsale(ctx, id)
	if err != nil {
		return false, err
	}
	now, err := token.TxTime(ctx)
	if err != nil {
		return false, err
	}
	sold, cap, err := amounts(cs)
	if err != nil {
		return false, err
	}
	return hasClosed(cs, now, sold, cap), nil
}

// Buy pulls amount pair tokens from buyer via allowance and credits
// beneficiary with amount*rate ledger tokens. A purchase that would break
// the cap, the individual cap or the custodial token balance fails whole.
func Buy(ctx kalpsdk.TransactionContextInterface, id, buyer, beneficiary string, amount *big.Int) error {
	cs, err := GetCrowdsale(ctx, id)
	if err != nil {
		return err
	}

	now, err := token.TxTime(ctx)
	if err != nil {
		return err
	}
	sold, cap, err := amounts(cs)
	if err != nil {
		return err
	}

	if !isOpen(cs, now, sold, cap) {
		return ccerror.New(http.StatusConflict, ErrNotOpen.Error(), nil)
	}
	if token.IsZeroAddress(beneficiary) {
		return ccerror.New(http.StatusBadRequest, ErrZeroBeneficiary.Error(), nil)
	}
	if amount.Sign() <= 0 {
		return ccerror.New(http.StatusBadRequest, ErrAmountIsZero.Error(), nil)
	}

	minPurchaseAmount, ok := new(big.Int).SetString(cs.MinPurchaseAmount, 10)
	if !ok {
		return ccerror.New(http.StatusInternalServerError, "failed to parse minPurchaseAmount", nil)
	}
	if amount.Cmp(minPurchaseAmount) < 0 {
		return ccerror.New(http.StatusBadRequest, ErrUnderMinPurchase.Error(), nil)
	}

	rate, ok := new(big.Int).SetString(cs.Rate, 10)
	if !ok {
		return ccerror.New(http.StatusInternalServerError, "failed to parse rate", nil)
	}
	tokenAmount := new(big.Int).Mul(amount, rate)

	newSold := new(big.Int).Add(sold, tokenAmount)
	if newSold.Cmp(cap) > 0 {
		return ccerror.New(http.StatusBadRequest, ErrCapExceeded.Error(), nil)
	}

	balance, err := GetBalance(ctx, id, beneficiary)
	if err != nil {
		return err
	}

	individualCap, ok := new(big.Int).SetString(cs.IndividualCap, 10)
	if !ok {
		return ccerror.New(http.StatusInternalServerError, "failed to parse individualCap", nil)
	}
	newBalance := new(big.Int).Add(balance, tokenAmount)
	if individualCap.Sign() > 0 && newBalance.Cmp(individualCap) > 0 {
		return ccerror.New(http.StatusBadRequest, ErrIndividualCapExceeded.Error(), nil)
	}

	custody, err := token.GetBalance(ctx, cs.Token, id)
	if err != nil {
		return err
	}
	if custody.Cmp(newSold) < 0 {
		return ccerror.New(http.StatusBadRequest, ErrInsufficientBalance.Error(), nil)
	}

	if balance.Sign() == 0 {
		cs.Contributors++
	}
	cs.TokensSold = newSold.String()
	err = SetCrowdsale(ctx, id, cs)
	if err != nil {
		return err
	}

	err = SetBalance(ctx, id, beneficiary, newBalance)
	if err != nil {
		return err
	}

	contribution, err := GetContribution(ctx, id, beneficiary)
	if err != nil {
		return err
	}
	err = SetContribution(ctx, id, beneficiary, contribution.Add(contribution, amount))
	if err != nil {
		return err
	}

	err = token.TransferFrom(ctx, cs.PairToken, id, buyer, id, amount)
	if err != nil {
		return err
	}

	return EmitTokensPurchased(ctx, TokensPurchasedEvent{
		Crowdsale:   id,
		Buyer:       buyer,
		Beneficiary: beneficiary,
		Amount:      amount.String(),
		TokenAmount: tokenAmount.String(),
	})
}

// Finalize concludes a successful sale. Only the finalizer may call it,
// only once, only while the finalization window is open, and only when the
// sale has closed with its goal met or has sold out. It grants the
// finalizer an allowance over the raised pair tokens and hands the unsold
// ledger tokens back to it.
func Finalize(ctx kalpsdk.TransactionContextInterface, id, caller string) error {
	cs, err := GetCrowdsale(ctx, id)
	if err != nil {
		return err
	}

	if caller != cs.Finalizer {
		return ccerror.New(http.StatusBadRequest, ErrCallerNotFinalizer.Error(), nil)
	}
	if cs.Finalized {
		return ccerror.New(http.StatusConflict, ErrAlreadyFinalized.Error(), nil)
	}

	now, err := token.TxTime(ctx)
	if err != nil {
		return err
	}
	sold, cap, err := amounts(cs)
	if err != nil {
		return err
	}
	goal, ok := new(big.Int).SetString(cs.Goal, 10)
	if !ok {
		return ccerror.New(http.StatusInternalServerError, "failed to parse goal", nil)
	}

	capReached := sold.Cmp(cap) >= 0
	if !capReached {
		if !hasClosed(cs, now, sold, cap) {
			return ccerror.New(http.StatusConflict, ErrNotClosed.Error(), nil)
		}
		if sold.Cmp(goal) < 0 {
			return ccerror.New(http.StatusConflict, ErrGoalNotReached.Error(), nil)
		}
	}
	if now > cs.ClosingTime+finalizeExpiryDuration {
		return ccerror.New(http.StatusConflict, ErrFinalizeExpired.Error(), nil)
	}

	cs.Finalized = true
	err = SetCrowdsale(ctx, id, cs)
	if err != nil {
		return err
	}

	pairBalance, err := token.GetBalance(ctx, cs.PairToken, id)
	if err != nil {
		return err
	}
	err = token.Approve(ctx, cs.PairToken, id, cs.Finalizer, pairBalance)
	if err != nil {
		return err
	}

	custody, err := token.GetBalance(ctx, cs.Token, id)
	if err != nil {
		return err
	}
	unsold := new(big.Int).Sub(custody, sold)
	if unsold.Sign() > 0 {
		err = token.Transfer(ctx, cs.Token, id, cs.Finalizer, unsold)
		if err != nil {
			return err
		}
	}

	return EmitCrowdsaleFinalized(ctx, CrowdsaleFinalizedEvent{
		Crowdsale:    id,
		TokensSold:   sold.String(),
		UnsoldAmount: unsold.String(),
	})
}

// WithdrawTokens pays out the ledger tokens credited to beneficiary.
// Allowed only once the sale has been finalized.
func WithdrawTokens(ctx kalpsdk.TransactionContextInterface, id, beneficiary string) error {
	cs, err := GetCrowdsale(ctx, id)
	if err != nil {
		return err
	}

	if !cs.Finalized {
		return ccerror.New(http.StatusConflict, ErrNotFinalized.Error(), nil)
	}

	balance, err := GetBalance(ctx, id, beneficiary)
	if err != nil {
		return err
	}
	if balance.Sign() == 0 {
		return ccerror.New(http.StatusBadRequest, ErrNoTokensDue.Error(), nil)
	}

	err = SetBalance(ctx, id, beneficiary, big.NewInt(0))
	if err != nil {
		return err
	}

	err = token.Transfer(ctx, cs.Token, id, beneficiary, balance)
	if err != nil {
		return err
	}

	return EmitTokensWithdrawn(ctx, TokensWithdrawnEvent{
		Crowdsale:   id,
		Beneficiary: beneficiary,
		Amount:      balance.String(),
	})
}

// ClaimRefund returns beneficiary's pair-token contribution. Refunds are
// due when the sale closed under its goal, or once the finalization window
// expired without the sale being finalized.
func ClaimRefund(ctx kalpsdk.TransactionContextInterface, id, beneficiary string) error {
	cs, err := GetCrowdsale(ctx, id)
	if err != nil {
		return err
	}

	now, err := token.TxTime(ctx)
	if err != nil {
		return err
	}
	sold, cap, err := amounts(cs)
	if err != nil {
		return err
	}
	goal, ok := new(big.Int).SetString(cs.Goal, 10)
	if !ok {
		return ccerror.New(http.StatusInternalServerError, "failed to parse goal", nil)
	}

	goalMissed := hasClosed(cs, now, sold, cap) && sold.Cmp(goal) < 0
	expired := now > cs.ClosingTime+finalizeExpiryDuration && !cs.Finalized
	if !goalMissed && !expired {
		return ccerror.New(http.StatusConflict, ErrRefundsNotDue.Error(), nil)
	}

	contribution, err := GetContribution(ctx, id, beneficiary)
	if err != nil {
		return err
	}
	if contribution.Sign() == 0 {
		return ccerror.New(http.StatusBadRequest, ErrNoTokensDue.Error(), nil)
	}

	err = SetContribution(ctx, id, beneficiary, big.NewInt(0))
	if err != nil {
		return err
	}
	err = SetBalance(ctx, id, beneficiary, big.NewInt(0))
	if err != nil {
		return err
	}

	err = token.Transfer(ctx, cs.PairToken, id, beneficiary, contribution)
	if err != nil {
		return err
	}

	return EmitRefundClaimed(ctx, RefundClaimedEvent{
		Crowdsale:   id,
		Beneficiary: beneficiary,
		Amount:      contribution.String(),
	})
}

// WithdrawExpiredTokens sweeps the sale's remaining ledger-token custody to
// the owner once the sale can no longer conclude successfully: the goal was
// missed, or the finalization window lapsed.
func WithdrawExpiredTokens(ctx kalpsdk.TransactionContextInterface, id, caller string) error {
	cs, err := GetCrowdsale(ctx, id)
	if err != nil {
		return err
	}

	if caller != cs.Owner {
		return ccerror.New(http.StatusBadRequest, ErrCallerNotOwner.Error(), nil)
	}

	now, err := token.TxTime(ctx)
	if err != nil {
		return err
	}
	sold, cap, err := amounts(cs)
	if err != nil {
		return err
	}
	goal, ok := new(big.Int).SetString(cs.Goal, 10)
	if !ok {
		return ccerror.New(http.StatusInternalServerError, "failed to parse goal", nil)
	}

	goalMissed := hasClosed(cs, now, sold, cap) && sold.Cmp(goal) < 0
	expired := now > cs.ClosingTime+finalizeExpiryDuration && !cs.Finalized
	if !goalMissed && !expired {
		return ccerror.New(http.StatusConflict, ErrNotExpired.Error(), nil)
	}

	custody, err := token.GetBalance(ctx, cs.Token, id)
	if err != nil {
		return err
	}
	if custody.Sign() == 0 {
		return ccerror.New(http.StatusBadRequest, ErrNoTokensToWithdraw.Error(), nil)
	}

	err = token.Transfer(ctx, cs.Token, id, cs.Owner, custody)
	if err != nil {
		return err
	}

	return EmitExpiredTokensWithdrawn(ctx, ExpiredTokensWithdrawnEvent{
		Crowdsale: id,
		Owner:     cs.Owner,
		Amount:    custody.String(),
	})
}
