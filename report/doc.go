/*
Package report exports token state for human inspection.

A report is identified by ID and consists of two files in a directory:

	'<label>-<step>-token.json': token metadata and total supply
	'<label>-<step>-ledger.csv': balances and allowances

Amounts in both files are decimal strings formatted with the token's
precision, accounts are Neo N3 addresses. Reports are write-once: creating a
report with an existing ID fails.

Reports are audit snapshots, nothing restores token state from them. Read is
provided to inspect and verify written reports.
*/
package report
