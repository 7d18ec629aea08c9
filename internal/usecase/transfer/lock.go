package transfer

import "github.com/simaogato/bankledger-backend/internal/domain"

// lockOrder returns the two accounts in the global acquisition order: ascending ID.
// When a and b are the same account both results are that account.
func lockOrder(a, b *domain.Account) (first, second *domain.Account) {
	if a == b || a.ID <= b.ID {
		return a, b
	}
	return b, a
}
