package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/mrlokans/bookstore/internal/cli"
)

// Version information - set at build time via ldflags
var (
	Version = "dev"
	Commit  = "unknown"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

// run dispatches the command line and returns the process exit code.
func run(args []string) int {
	if len(args) > 0 && args[0] == "shell" {
		args = args[1:]
	}

	if len(args) > 0 {
		switch args[0] {
		case "help":
			printUsage()
			return 0
		case "version":
			fmt.Printf("bookstore %s (%s)\n", Version, Commit)
			return 0
		}
	}

	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", args[0])
		printUsage()
		return 1
	}

	cmd := cli.NewShellCommand()
	if err := cmd.ParseFlags(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	if err := cmd.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func printUsage() {
	fmt.Fprintf(os.Stderr, "Usage: %s [command] [options]\n\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "Commands:\n")
	fmt.Fprintf(os.Stderr, "  shell     Run the interactive catalog menu (default if no command given)\n")
	fmt.Fprintf(os.Stderr, "  version   Print version information\n")
	fmt.Fprintf(os.Stderr, "  help      Show this message\n")
	fmt.Fprintf(os.Stderr, "\nShell options:\n")
	fmt.Fprintf(os.Stderr, "  -db, -backup-dir, -export-dir, -backup-schedule\n")
	fmt.Fprintf(os.Stderr, "\nEnvironment:\n")
	fmt.Fprintf(os.Stderr, "  DATABASE_PATH, BACKUP_DIR, BACKUP_RETENTION, BACKUP_SCHEDULE,\n")
	fmt.Fprintf(os.Stderr, "  EXPORT_DIR, EXPORT_FILE_NAME, LOG_LEVEL, LOG_FORMAT, LOG_FILE\n")
	fmt.Fprintf(os.Stderr, "\nUse '%s -h' for details on shell options.\n", os.Args[0])
}
