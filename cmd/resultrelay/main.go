package main

import (
	"resultrelay/cmd/resultrelay/commands"
	"resultrelay/lib/serviceutil"
)

func main() {
	ctx := serviceutil.SignalContext()
	commands.ExecuteContext(ctx)
}
