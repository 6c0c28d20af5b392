/*
Package token implements fungible token accounting: balances of accounts and
allowances of spenders over those balances.

Token is created once with the whole initial supply credited to the creator.
The supply never changes afterwards, the sum of all balances equals it between
any two calls.

Mutating methods

Transfer moves value from the caller to another account. Approve sets the
amount a spender may move out of the caller's balance, replacing the previous
value. TransferFrom moves value on behalf of an owner within the allowance of
the calling spender.

Every mutating method receives the identity of the caller explicitly. Token
does not authenticate it, the host is responsible for passing a genuine one.

Each method validates everything before changing anything: on failure the
state is exactly as it was before the call. Failures are reported as errors
wrapping one of ErrInsufficientBalance, ErrAllowanceExceeded, ErrOverflow or
ErrInvalidAmount.

Allowance race

Approve overwrites. A spender who sees a pending Approve changing its
allowance from N to M may spend N before it lands and M after, moving N+M in
total. This is the conventional behavior of fungible token standards and it
is kept as is. Owners who want to change a non-zero allowance should set it to
zero first.

Concurrency

Token is safe for concurrent use. All calls are serialized by a single lock
per token instance, queries may run in parallel with each other.
*/
package token
