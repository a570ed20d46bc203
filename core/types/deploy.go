// Copyright 2025 The aleoscan Authors
// This file is part of the aleoscan library.
//
// The aleoscan library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The aleoscan library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the aleoscan library. If not, see <http://www.gnu.org/licenses/>.

package types

import "fmt"

// DeployOutcome is the confirmed outcome of a deploy transaction. It is a
// closed variant: AcceptedDeploy and RejectedDeploy are the only
// implementations, and consumers are expected to switch over both.
type DeployOutcome interface {
	// Transaction returns the id of the deploy transaction.
	Transaction() string

	isDeployOutcome()
}

// AcceptedDeploy is a deploy transaction confirmed into a block.
type AcceptedDeploy struct {
	TransactionID string    `json:"transactionId"`
	Program       ProgramID `json:"program"`
	Owner         string    `json:"owner"`
	Signature     string    `json:"signature"`
}

// RejectedDeploy is a deploy transaction included in a block but rejected at
// finalization. The original program never enters the catalog.
type RejectedDeploy struct {
	TransactionID string    `json:"transactionId"`
	Program       ProgramID `json:"program"`
	Reason        string    `json:"reason"`
}

func (d *AcceptedDeploy) Transaction() string { return d.TransactionID }
func (d *RejectedDeploy) Transaction() string { return d.TransactionID }

func (d *AcceptedDeploy) isDeployOutcome() {}
func (d *RejectedDeploy) isDeployOutcome() {}

// DeployedProgram returns the program id of an accepted deploy outcome, or
// false for a rejected one. The switch is exhaustive over the closed variant
// set and panics on foreign implementations.
func DeployedProgram(outcome DeployOutcome) (ProgramID, bool) {
	switch d := outcome.(type) {
	case *AcceptedDeploy:
		return d.Program, true
	case *RejectedDeploy:
		return "", false
	default:
		panic(fmt.Sprintf("unknown deploy outcome %T", outcome))
	}
}
