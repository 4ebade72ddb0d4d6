package cmd

import (
	"claimgate/src/confirmer"
	"claimgate/src/utils/logger"

	"github.com/spf13/cobra"
)

func init() {
	RootCmd.AddCommand(confirmerCmd)
}

var confirmerCmd = &cobra.Command{
	Use:   "confirmer",
	Short: "Settle recorded transactions against chain receipts",
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		controller, err := confirmer.NewController(conf)
		if err != nil {
			return
		}

		err = controller.Start()
		if err != nil {
			return
		}

		select {
		case <-controller.CtxRunning.Done():
		case <-applicationCtx.Done():
		}

		controller.StopWait()

		return
	},
	PostRunE: func(cmd *cobra.Command, args []string) (err error) {
		log := logger.NewSublogger("root-cmd")
		log.Debug("Finished confirmer command")
		applicationCtxCancel()
		return
	},
}
