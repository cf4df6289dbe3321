package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"go162/internal/app"
)

func main() {
	var config app.Config

	rootCmd := &cobra.Command{
		Use:   "go162",
		Short: "AIS AIVDM/AIVDO decoder",
		Long: `AIS decoder for NMEA 0183 AIVDM/AIVDO sentences.

Reads sentences from a file or stdin, reassembles multipart messages,
validates checksums and prints the decoded messages. Recognized binary
application payloads (Area Notice, Meteo/Hydro) can be decoded as well.

Example usage:
  go162 --input sentences.txt --decode-binary
  cat sentences.txt | go162 --verbose`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if config.ShowVersion {
				app.ShowVersion()
				return nil
			}

			application := app.NewApplication(config)
			return application.Run()
		},
	}

	rootCmd.Flags().StringVarP(&config.InputFile, "input", "i", "-", "Input file of NMEA sentences (- for stdin)")
	rootCmd.Flags().DurationVarP(&config.MessageTimeout, "timeout", "t", app.DefaultMessageTimeout, "Multipart message timeout")
	rootCmd.Flags().IntVarP(&config.MaxGroups, "max-groups", "g", app.DefaultMaxGroups, "Maximum buffered fragment groups")
	rootCmd.Flags().BoolVarP(&config.DecodeBinary, "decode-binary", "b", false, "Decode recognized binary application payloads")
	rootCmd.Flags().StringVarP(&config.LogDir, "log-dir", "l", "", "Directory for rotated decoded-output logs")
	rootCmd.Flags().BoolVarP(&config.LogRotateUTC, "utc", "u", true, "Use UTC for log rotation")
	rootCmd.Flags().BoolVarP(&config.Verbose, "verbose", "v", false, "Verbose logging")
	rootCmd.Flags().BoolVar(&config.ShowVersion, "version", false, "Show version information")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
