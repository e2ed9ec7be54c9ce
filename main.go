/*
SPDX-License-Identifier: Apache-2.0
*/

package main

import (
	"log"

	"github.com/p2eengineering/kalp-sdk-public/kalpsdk"

	"github.com/marcelmiro/astrano-contracts/project"
	"github.com/marcelmiro/astrano-contracts/router"
)

func main() {
	contract := kalpsdk.Contract{IsPayableContract: false}
	contract.Logger = kalpsdk.NewLogger()
	chaincode, err := kalpsdk.NewChaincode(&project.SmartContract{
		Contract: contract,
		Router:   &router.PairRouter{},
	})
	if err != nil {
		log.Panicf("Error creating astrano chaincode: %v", err)
	}

	if err := chaincode.Start(); err != nil {
		log.Panicf("Error starting astrano chaincode: %v", err)
	}
}
