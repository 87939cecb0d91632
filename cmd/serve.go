package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/networkupstools/nut-hcl/pkg/daemon"
	"github.com/pkg/browser"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// The `serve` command launches a long-running web server exposing the
// table to the website.
var serveCmd = &cobra.Command{
	Use: "serve",
	Example: `  // basic launch
  nut-hcl serve
  // listen on all interfaces and open the data file in a browser
  nut-hcl serve -e 0.0.0.0:8080 --open
  // launch with a custom configuration
  nut-hcl serve -c custom-settings.yml`,
	Short: "Serve the compatibility table over HTTP",
	Long:  "Exposes the table as JSON under /records, a vendor summary under /vendors and the website data file under /ups_data.js.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		records, err := loadRecords()
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		cfg := daemon.Config{
			Endpoint: viper.GetString("serve.endpoint"),
			Timeout:  time.Duration(viper.GetInt("serve.timeout")) * time.Second,
		}
		if viper.GetBool("serve.open") {
			go openBrowser(cfg.Endpoint)
		}
		return daemon.Run(ctx, cfg, records)
	},
}

func openBrowser(endpoint string) {
	// give the listener a moment to come up
	time.Sleep(500 * time.Millisecond)
	host := endpoint
	if strings.HasPrefix(host, ":") || strings.HasPrefix(host, "0.0.0.0:") {
		host = "localhost:" + host[strings.LastIndex(host, ":")+1:]
	}
	url := fmt.Sprintf("http://%s/records", host)
	if err := browser.OpenURL(url); err != nil {
		log.Warn().Err(err).Str("url", url).Msg("failed to open browser")
	}
}

func init() {
	addFlag("serve.endpoint", serveCmd, "endpoint", "e", "localhost:8080", "Address for the server to listen on")
	addFlag("serve.open", serveCmd, "open", "", false, "Open the served table in a web browser")
	addFlag("serve.timeout", serveCmd, "timeout", "t", 60, "Set the request timeout in seconds")

	rootCmd.AddCommand(serveCmd)
}
