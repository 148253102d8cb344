// mpvlens: a terminal debug overlay for mpv.
//
// Usage:
//
//	mpvlens [flags]
//	mpvlens <command> [flags]
//
// Commands:
//
//	exec      Run one mpv command line
//	get       Print a property as a tree
//	record    Archive mpv log messages until interrupted
//	logs      Query archived log messages
//	history   Print or clear the console history
//	version   Print version information
//
// mpv must be started with --input-ipc-server=<socket>.
package main

import (
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
