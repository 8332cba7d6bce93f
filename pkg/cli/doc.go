/*
Package cli provides command-line helpers used by the costlens command.

Errors:

Command failures are wrapped in CommandError and configuration problems in
ConfigError. ExitCode maps an error to the process exit status:

	if err := rootCmd.Execute(); err != nil {
		os.Exit(cli.ExitCode(err))
	}

Output:

ResolveFormat combines the --format flag with the configured format, and
OpenOutput opens the -o destination, falling back to stdout:

	format, err := cli.ResolveFormat(flagFormat, cfg.Output.Format)
	out, err := cli.OpenOutput(path, os.Stdout)
	defer out.Close()

Signal Handling:

For graceful shutdown on SIGINT/SIGTERM:

	ctx := cli.SetupSignalHandler()
	// Use ctx for operations that should be cancelled on shutdown
*/
package cli
