package cli

import (
	"fmt"

	"github.com/diillson/consumption-fraud-go/pkg/version"
	"github.com/fatih/color"
)

// displayWelcomeBanner exibe o banner de boas-vindas com informações de versão.
func displayWelcomeBanner(versionStr string) {
	banner := `
         _____                     _  __     __            _ _      _
        |  ___| __ __ _ _   _  __| | \ \   / /__ _ __ __| (_) ___| |_
        | |_ | '__/ _` + "`" + ` | | | |/ _` + "`" + ` |  \ \ / / _ \ '__/ _` + "`" + ` | |/ __| __|
        |  _|| | | (_| | |_| | (_| |   \ V /  __/ | | (_| | | (__| |_
        |_|  |_|  \__,_|\__,_|\__,_|    \_/ \___|_|  \__,_|_|\___|\__|
        `
	red := color.New(color.FgRed, color.Bold).SprintFunc()
	blue := color.New(color.FgBlue, color.Bold).SprintFunc()

	fmt.Println(red(banner))

	// Obtem a string formatada da versão através do pacote version
	formattedVersion := version.FormatVersion()
	fmt.Println(blue(fmt.Sprintf("Consumption Fraud Verdict CLI (v%s)", formattedVersion)))
}
