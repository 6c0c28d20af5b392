/*
Package ledger stores token balances of accounts.

Ledger maps account script hashes to non-negative balances. Accounts without
an entry hold zero, and entries that drop to zero are removed, so there is no
distinct "unset" state. Every balance is bounded by MaxBalance, the largest
integer representable in NeoVM.

Credit and Debit are primitives: a sole credit or debit changes the sum of all
balances and must only be used by code that keeps its own total in sync. Move
is the transfer primitive, it debits one account and credits another by the
same amount and so leaves the sum unchanged.

Amounts passed to Ledger methods must be non-negative. Ledger is not safe for
concurrent use.
*/
package ledger
