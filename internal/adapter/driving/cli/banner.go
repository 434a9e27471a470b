package cli

import (
	"fmt"

	"github.com/fatih/color"

	"github.com/diillson/cloud-insights-reports/pkg/version"
)

// displayWelcomeBanner exibe o banner de boas-vindas com a versão.
func displayWelcomeBanner() {
	banner := `
   _____ _                 _   _____           _       _     _
  / ____| |               | | |_   _|         (_)     | |   | |
 | |    | | ___  _   _  __| |   | |  _ __  ___ _  __ _| |__ | |_ ___
 | |    | |/ _ \| | | |/ _' |   | | | '_ \/ __| |/ _' | '_ \| __/ __|
 | |____| | (_) | |_| | (_| |  _| |_| | | \__ \ | (_| | | | | |_\__ \
  \_____|_|\___/ \__,_|\__,_| |_____|_| |_|___/_|\__, |_| |_|\__|___/
                                                  __/ |
                                                 |___/
`
	red := color.New(color.FgRed, color.Bold).SprintFunc()
	blue := color.New(color.FgBlue, color.Bold).SprintFunc()

	fmt.Println(red(banner))
	fmt.Println(blue(fmt.Sprintf("Cloud Insights Reports CLI (v%s)", version.FormatVersion())))
}
