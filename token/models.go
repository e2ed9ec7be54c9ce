/*
SPDX-License-Identifier: Apache-2.0
*/

package token

import (
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"

	"github.com/p2eengineering/kalp-sdk-public/kalpsdk"

	"github.com/marcelmiro/astrano-contracts/ccerror"
)

// Token is the immutable metadata of a fungible asset. The full supply is
// minted once at creation; balances move only through transfers.
type Token struct {
	Name        string `json:"name"`
	Symbol      string `json:"symbol"`
	TotalSupply string `json:"totalSupply"`
}

func GetToken(ctx kalpsdk.TransactionContextInterface, address string) (*Token, error) {
	tokenKey := tokenKeyPrefix + address
	tokenAsBytes, err := ctx.GetState(tokenKey)
	if err != nil {
		return nil, ccerror.New(http.StatusInternalServerError, fmt.Sprintf("failed to get token with Key %s", tokenKey), err)
	}
	if tokenAsBytes == nil {
		return nil, ccerror.New(http.StatusNotFound, ErrTokenNotFound(address).Error(), nil)
	}

	var token Token
	err = json.Unmarshal(tokenAsBytes, &token)
	if err != nil {
		return nil, ccerror.New(http.StatusInternalServerError, "failed to unmarshal token", err)
	}

	return &token, nil
}

func SetToken(ctx kalpsdk.TransactionContextInterface, address string, token *Token) error {
	tokenKey := tokenKeyPrefix + address
	tokenAsBytes, err := json.Marshal(token)
	if err != nil {
		return ccerror.New(http.StatusInternalServerError, "failed to marshal token", err)
	}

	err = ctx.PutStateWithoutKYC(tokenKey, tokenAsBytes)
	if err != nil {
		return ccerror.New(http.StatusInternalServerError, "failed to set token", err)
	}

	return nil
}

func GetBalance(ctx kalpsdk.TransactionContextInterface, address, account string) (*big.Int, error) {
	balanceKey := fmt.Sprintf("%s%s_%s", balanceKeyPrefix, address, account)
	balanceAsBytes, err := ctx.GetState(balanceKey)
	if err != nil {
		return nil, ccerror.New(http.StatusInternalServerError, fmt.Sprintf("failed to get balance with Key %s", balanceKey), err)
	}

	balance := big.NewInt(0)
	if balanceAsBytes != nil {
		_, success := balance.SetString(string(balanceAsBytes), 10)
		if !success {
			return nil, ccerror.New(http.StatusInternalServerError, fmt.Sprintf("failed to parse balance for account %s", account), nil)
		}
	}

	return balance, nil
}

func SetBalance(ctx kalpsdk.TransactionContextInterface, address, account string, balance *big.Int) error {
	balanceKey := fmt.Sprintf("%s%s_%s", balanceKeyPrefix, address, account)

	err := ctx.PutStateWithoutKYC(balanceKey, []byte(balance.String()))
	if err != nil {
		return ccerror.New(http.StatusInternalServerError, fmt.Sprintf("failed to set balance for account %s", account), err)
	}

	return nil
}

func GetAllowance(ctx kalpsdk.TransactionContextInterface, address, owner, spender string) (*big.Int, error) {
	allowanceKey := fmt.Sprintf("%s%s_%s_%s", allowanceKeyPrefix, address, owner, spender)
	allowanceAsBytes, err := ctx.GetState(allowanceKey)
	if err != nil {
		return nil, ccerror.New(http.StatusInternalServerError, fmt.Sprintf("failed to get allowance with Key %s", allowanceKey), err)
	}

	allowance := big.NewInt(0)
	if allowanceAsBytes != nil {
		_, success := allowance.SetString(string(allowanceAsBytes), 10)
		if !success {
			return nil, ccerror.New(http.StatusInternalServerError, fmt.Sprintf("failed to parse allowance for owner %s", owner), nil)
		}
	}

	return allowance, nil
}

func SetAllowance(ctx kalpsdk.TransactionContextInterface, address, owner, spender string, allowance *big.Int) error {
	allowanceKey := fmt.Sprintf("%s%s_%s_%s", allowanceKeyPrefix, address, owner, spender)

	err := ctx.PutStateWithoutKYC(allowanceKey, []byte(allowance.String()))
	if err != nil {
		return ccerror.New(http.StatusInternalServerError, fmt.Sprintf("failed to set allowance for owner %s", owner), err)
	}

	return nil
}
