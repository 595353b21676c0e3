package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// Version is the release version stamped into the banner.
var Version = "1.0.0"

var rootCmd = &cobra.Command{
	Use:   "hashlock",
	Short: "hashlock is a forward-auth session broker",
	Long: `A credential-gated session broker that sits in front of another HTTP
service via a reverse proxy's auth_request hook. It authenticates a user once
(username/password form, or a pre-shared hash token) and issues a session
cookie that subsequent requests present for authorization.`,
}

func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
