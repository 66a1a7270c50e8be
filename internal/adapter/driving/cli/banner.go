package cli

import (
	"fmt"

	"github.com/fatih/color"

	"github.com/diillson/aws-finops-trends/pkg/version"
)

// displayWelcomeBanner exibe o banner de boas-vindas com informações de versão.
func displayWelcomeBanner() {
	banner := `
     _____ _                 _____                    _
    |  ___(_)_ __   ___  _ _|_   _| __ ___ _ __   __| |___
    | |_  | | '_ \ / _ \| '_ \| || '__/ _ \ '_ \ / _' / __|
    |  _| | | | | | (_) | |_) | || | |  __/ | | | (_| \__ \
    |_|   |_|_| |_|\___/| .__/|_||_|  \___|_| |_|\__,_|___/
                        |_|
    `
	red := color.New(color.FgRed, color.Bold).SprintFunc()
	blue := color.New(color.FgBlue, color.Bold).SprintFunc()

	fmt.Println(red(banner))
	fmt.Println(blue(fmt.Sprintf("AWS FinOps Trends CLI (v%s)", version.FormatVersion())))
}
