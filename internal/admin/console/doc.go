// Package console provides the interactive administrator console.
//
// The console opens the configured account store, asks for the admin
// password without echo and then runs a small REPL over the same account
// service the web panel uses:
//
//	list            show every account
//	verify <id>     mark the payment verified
//	reset <id>      reset the password to the configured default
//	delete <id>     delete the account after confirmation
//	help            show available commands
//	exit | quit     leave the console
//
// The console is started via App.Run(ctx), which blocks until the operator
// exits or stdin is closed.
package console
