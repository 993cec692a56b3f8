package engine

import "github.com/sengdao/splitkip/internal/models"

// Settlement is a proposed transfer: From pays Amount to To.
// Settlements are derived from a balance snapshot and never stored.
type Settlement struct {
	From   string  `json:"from"`
	To     string  `json:"to"`
	Amount float64 `json:"amount"`
}

type side struct {
	name   string
	amount float64
}

// ComputeSettlements reduces the participants' balance snapshot to a greedy
// list of transfers that would zero every balance.
//
// Participants with a negative balance are creditors (they are owed money),
// positive balances are debtors. Both sides keep the participants' setup
// order rather than sorting by magnitude. A two-pointer sweep then matches
// the current creditor against the current debtor with
// min(creditor remaining, debtor remaining), advancing a pointer once its
// side drops below Epsilon. If the two sides do not cancel exactly the sweep
// simply stops when one side is exhausted, leaving any sub-Epsilon residual
// unsettled.
//
// Pure function: identical input yields identical output, no mutation.
func ComputeSettlements(users []models.UserShare) []Settlement {
	if len(users) == 0 {
		return []Settlement{}
	}

	var creditors, debtors []side
	for _, u := range users {
		switch {
		case u.CurrentBalance < 0:
			creditors = append(creditors, side{name: u.UserName, amount: -u.CurrentBalance})
		case u.CurrentBalance > 0:
			debtors = append(debtors, side{name: u.UserName, amount: u.CurrentBalance})
		}
	}

	settlements := []Settlement{}
	i, j := 0, 0
	for i < len(creditors) && j < len(debtors) {
		creditor := &creditors[i]
		debtor := &debtors[j]

		settle := min(creditor.amount, debtor.amount)
		if settle > Epsilon {
			settlements = append(settlements, Settlement{
				From:   debtor.name,
				To:     creditor.name,
				Amount: settle,
			})
		}

		creditor.amount -= settle
		debtor.amount -= settle

		if creditor.amount < Epsilon {
			i++
		}
		if debtor.amount < Epsilon {
			j++
		}
	}

	return settlements
}
