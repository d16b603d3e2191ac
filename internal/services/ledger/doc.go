/*
Package ledger applies investments to an account's gold holding.

An investment converts an LKR amount to grams at the configured price, credits the
balance, appends one investment transaction and optionally records an automatic
payment rule. All of it happens inside one AccountRepository.Mutate call, so
concurrent investments on the same account are applied one at a time and none is
lost.

Usage:

	svc := ledger.NewService(repo, cache, ledger.Config{
	    PricePerGramLKR:  11000,
	    MinInvestmentLKR: 100,
	}, nil)

	result, err := svc.Invest(ctx, accountID, ledger.InvestRequest{
	    AmountLKR:  1100,
	    SaveAsAuto: true,
	    Frequency:  models.FrequencyMonthly,
	})

Error Handling:

- ErrInvalidAmount: amount is NaN, infinite, or below the minimum
- ErrInvalidFrequency: an automatic payment was requested with an unknown frequency
- ErrAccountNotFound: no such account

Validation failures are reported before the store is touched. Store failures are
returned wrapped and leave the account unchanged.

Metrics:

The default collector feeds the goldnest_ledger_* prometheus series: applied
investments, LKR and gram volume, and failures by reason.
*/
package ledger
