/*
SPDX-License-Identifier: Apache-2.0
*/

package project

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/p2eengineering/kalp-sdk-public/kalpsdk"

	"github.com/marcelmiro/astrano-contracts/ccerror"
)

const (
	configKey        = "factoryconfig"
	projectKeyPrefix = "project_"

	// feeDenominator expresses TokenFee in basis points.
	feeDenominator = 10000
)

// Config is the factory's singleton configuration, written once on
// Initialize. Address is the factory's own custodial account; Wallet
// receives creation fees and FeeVestingWallet the token fee cut.
type Config struct {
	Owner              string `json:"owner"`
	Address            string `json:"address"`
	Wallet             string `json:"wallet"`
	FeeVestingWallet   string `json:"feeVestingWallet"`
	FeeVestingStartIn  uint64 `json:"feeVestingStartIn"`
	FeeVestingDuration uint64 `json:"feeVestingDuration"`
	CreationFee        string `json:"creationFee"`
	TokenFee           uint64 `json:"tokenFee"`
	PairToken          string `json:"pairToken"`
}

// Project ties together the contracts created for one launch, plus the
// parameters finalization needs. The record is deleted when the project is
// finalized, which is what makes FinalizeProject single-shot.
type Project struct {
	Creator                string `json:"creator"`
	Token                  string `json:"token"`
	PairToken              string `json:"pairToken"`
	Crowdsale              string `json:"crowdsale"`
	VestingWallet          string `json:"vestingWallet"`
	TokenLockStartIn       uint64 `json:"tokenLockStartIn"`
	TokenLockDuration      uint64 `json:"tokenLockDuration"`
	LiquidityRate          string `json:"liquidityRate"`
	MaxLiquidityPairAmount string `json:"maxLiquidityPairAmount"`
	LiquidityLockStartIn   uint64 `json:"liquidityLockStartIn"`
	LiquidityLockDuration  uint64 `json:"liquidityLockDuration"`
}

// GetConfig returns nil without error when the factory has not been
// initialized yet.
func GetConfig(ctx kalpsdk.TransactionContextInterface) (*Config, error) {
	configAsBytes, err := ctx.GetState(configKey)
	if err != nil {
		return nil, ccerror.New(http.StatusInternalServerError, "failed to get factory config", err)
	}
	if configAsBytes == nil {
		return nil, nil
	}

	var config Config
	err = json.Unmarshal(configAsBytes, &config)
	if err != nil {
		return nil, ccerror.New(http.StatusInternalServerError, "failed to unmarshal factory config", err)
	}

	return &config, nil
}

func SetConfig(ctx kalpsdk.TransactionContextInterface, config *Config) error {
	configAsBytes, err := json.Marshal(config)
	if err != nil {
		return ccerror.New(http.StatusInternalServerError, "failed to marshal factory config", err)
	}

	err = ctx.PutStateWithoutKYC(configKey, configAsBytes)
	if err != nil {
		return ccerror.New(http.StatusInternalServerError, "failed to set factory config", err)
	}

	return nil
}

func GetProject(ctx kalpsdk.TransactionContextInterface, tokenAddr string) (*Project, error) {
	projectKey := projectKeyPrefix + tokenAddr
	projectAsBytes, err := ctx.GetState(projectKey)
	if err != nil {
		return nil, ccerror.New(http.StatusInternalServerError, fmt.Sprintf("failed to get project with Key %s", projectKey), err)
	}
	if projectAsBytes == nil {
		return nil, ccerror.New(http.StatusNotFound, ErrProjectNotFound.Error(), nil)
	}

	var project Project
	err = json.Unmarshal(projectAsBytes, &project)
	if err != nil {
		return nil, ccerror.New(http.StatusInternalServerError, "failed to unmarshal project", err)
	}

	return &project, nil
}

func SetProject(ctx kalpsdk.TransactionContextInterface, tokenAddr string, project *Project) error {
	projectKey := projectKeyPrefix + tokenAddr
	projectAsBytes, err := json.Marshal(project)
	if err != nil {
		return ccerror.New(http.StatusInternalServerError, "failed to marshal project", err)
	}

	err = ctx.PutStateWithoutKYC(projectKey, projectAsBytes)
	if err != nil {
		return ccerror.New(http.StatusInternalServerError, "failed to set project", err)
	}

	return nil
}

func DeleteProject(ctx kalpsdk.TransactionContextInterface, tokenAddr string) error {
	projectKey := projectKeyPrefix + tokenAddr

	err := ctx.DelStateWithoutKYC(projectKey)
	if err != nil {
		return ccerror.New(http.StatusInternalServerError, "failed to delete project", err)
	}

	return nil
}
