// Command joinplay runs join scenario scripts and prints the enter, update
// and exit selections as they evolve.
//
//	joinplay run internal/scenario/testdata/names.yaml
//	joinplay run --watch --debug my.yaml
//	joinplay eases
package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"
)

var (
	debugFlag   bool
	watchFlag   bool
	noColorFlag bool

	rootCmd = &cobra.Command{
		Use:   "joinplay",
		Short: "Run join scenarios and inspect ease curves",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if noColorFlag || os.Getenv("NO_COLOR") != "" {
				disableColor()
			}
		},
		SilenceUsage: true,
	}

	runCmd = &cobra.Command{
		Use:   "run <script>",
		Short: "Execute a scenario script and dump each step",
		Args:  cobra.ExactArgs(1),
		RunE:  runScript,
	}

	easesCmd = &cobra.Command{
		Use:   "eases",
		Short: "List the registered ease curves with sample values",
		Args:  cobra.NoArgs,
		Run:   listEases,
	}
)

func init() {
	rootCmd.PersistentFlags().BoolVar(&noColorFlag, "no-color", false, "disable colored output")
	runCmd.Flags().BoolVar(&debugFlag, "debug", false, "log engine stats after every bind and advance")
	runCmd.Flags().BoolVarP(&watchFlag, "watch", "w", false, "re-run the script whenever it changes")

	rootCmd.AddCommand(runCmd, easesCmd)
}

func main() {
	log.SetFlags(0)
	log.SetPrefix("joinplay: ")
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
