/*
SPDX-License-Identifier: Apache-2.0
*/

package crowdsale

import (
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"

	"github.com/p2eengineering/kalp-sdk-public/kalpsdk"

	"github.com/marcelmiro/astrano-contracts/ccerror"
)

const (
	crowdsaleKeyPrefix    = "crowdsale_"
	balanceKeyPrefix      = "crowdsalebalance_"
	contributionKeyPrefix = "crowdsalecontribution_"

	// finalizeExpiryDuration is how long after closing the finalizer may
	// still conclude a successful sale. Past it the sale resolves through
	// refunds and the expiry sweep instead.
	finalizeExpiryDuration = 30 * 24 * 60 * 60
)

// Crowdsale is the full state of one sale. Amount fields are decimal
// strings; rate converts pair units into token units, and cap, individual
// cap and tokensSold are all counted in token units.
type Crowdsale struct {
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
	TokensSold        string `json:"tokensSold"`
	Contributors      uint64 `json:"contributors"`
	Finalized         bool   `json:"finalized"`
}

func GetCrowdsale(ctx kalpsdk.TransactionContextInterface, id string) (*Crowdsale, error) {
	crowdsaleKey := crowdsaleKeyPrefix + id
	crowdsaleAsBytes, err := ctx.GetState(crowdsaleKey)
	if err != nil {
		return nil, ccerror.New(http.StatusInternalServerError, fmt.Sprintf("failed to get crowdsale with Key %s", crowdsaleKey), err)
	}
	if crowdsaleAsBytes == nil {
		return nil, ccerror.New(http.StatusNotFound, ErrCrowdsaleNotFound(id).Error(), nil)
	}

	var crowdsale Crowdsale
	err = json.Unmarshal(crowdsaleAsBytes, &crowdsale)
	if err != nil {
		return nil, ccerror.New(http.StatusInternalServerError, "failed to unmarshal crowdsale", err)
	}

	return &crowdsale, nil
}

func SetCrowdsale(ctx kalpsdk.TransactionContextInterface, id string, crowdsale *Crowdsale) error {
	crowdsaleKey := crowdsaleKeyPrefix + id
	crowdsaleAsBytes, err := json.Marshal(crowdsale)
	if err != nil {
		return ccerror.New(http.StatusInternalServerError, "failed to marshal crowdsale", err)
	}

	err = ctx.PutStateWithoutKYC(crowdsaleKey, crowdsaleAsBytes)
	if err != nil {
		return ccerror.New(http.StatusInternalServerError, "failed to set crowdsale", err)
	}

	return nil
}

// GetBalance returns the ledger tokens credited to account, withdrawable
// after finalization.
func GetBalance(ctx kalpsdk.TransactionContextInterface, id, account string) (*big.Int, error) {
	balanceKey := fmt.Sprintf("%s%s_%s", balanceKeyPrefix, id, account)
	balanceAsBytes, err := ctx.GetState(balanceKey)
	if err != nil {
		return nil, ccerror.New(http.StatusInternalServerError, fmt.Sprintf("failed to get crowdsale balance with Key %s", balanceKey), err)
	}

	balance := big.NewInt(0)
	if balanceAsBytes != nil {
		_, success := balance.SetString(string(balanceAsBytes), 10)
		if !success {
			return nil, ccerror.New(http.StatusInternalServerError, fmt.Sprintf("failed to parse crowdsale balance for account %s", account), nil)
		}
	}

	return balance, nil
}

func SetBalance(ctx kalpsdk.TransactionContextInterface, id, account string, balance *big.Int) error {
	balanceKey := fmt.Sprintf("%s%s_%s", balanceKeyPrefix, id, account)

	err := ctx.PutStateWithoutKYC(balanceKey, []byte(balance.String()))
	if err != nil {
		return ccerror.New(http.StatusInternalServerError, fmt.Sprintf("failed to set crowdsale balance for account %s", account), err)
	}

	return nil
}

// GetContribution returns the pair tokens account has paid in, refundable
// when the sale fails.
func GetContribution(ctx kalpsdk.TransactionContextInterface, id, account string) (*big.Int, error) {
	contributionKey := fmt.Sprintf("%s%s_%s", contributionKeyPrefix, id, account)
	contributionAsBytes, err := ctx.GetState(contributionKey)
	if err != nil {
		return nil, ccerror.New(http.StatusInternalServerError, fmt.Sprintf("failed to get contribution with Key %s", contributionKey), err)
	}

	contribution := big.NewInt(0)
	if contributionAsBytes != nil {
		_, success := contribution.SetString(string(contributionAsBytes), 10)
		if !success {
			return nil, ccerror.New(http.StatusInternalServerError, fmt.Sprintf("failed to parse contribution for account %s", account), nil)
		}
	}

	return contribution, nil
}

func SetContribution(ctx kalpsdk.TransactionContextInterface, id, account string, contribution *big.Int) error {
	contributionKey := fmt.Sprintf("%s%s_%s", contributionKeyPrefix, id, account)

	err := ctx.PutStateWithoutKYC(contributionKey, []byte(contribution.String()))
	if err != nil {
		return ccerror.New(http.StatusInternalServerError, fmt.Sprintf("failed to set contribution for account %s", account), err)
	}

	return nil
}
