package cmd

import (
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/isometry/gh-issue-bridge/internal/config"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func cmdLambda() *cobra.Command {
	cmd := &cobra.Command{
		Use: "lambda",
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger = logger.With("mode", config.ModeLambda)
			rtm, err := setupRuntime(cmd)
			if err != nil {
				return errors.Wrap(err, "failed to setup lambda")
			}

			logger.Info("lambda starting...", "payloadType", config.Lambda.PayloadType)
			lambda.StartWithOptions(rtm.Lambda,
				lambda.WithContext(cmd.Context()))
			return nil
		},
	}

	bindEnvMap(cmd, lambdaEnvMapString)
	return cmd
}
