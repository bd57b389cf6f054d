package cli

import (
	"fmt"

	"github.com/diillson/finanzas-dashboard-go/pkg/console"
	"github.com/diillson/finanzas-dashboard-go/pkg/version"
)

// displayWelcomeBanner exibe o banner de boas-vindas com informações de versão.
func displayWelcomeBanner(versionStr string) {
	banner := `
     /$$$$$$$$ /$$
    | $$_____/|__/
    | $$       /$$ /$$$$$$$   /$$$$$$  /$$$$$$$  /$$$$$$$$  /$$$$$$   /$$$$$$$
    | $$$$$   | $$| $$__  $$ |____  $$| $$__  $$|____ /$$/ |____  $$ /$$_____/
    | $$__/   | $$| $$  \ $$  /$$$$$$$| $$  \ $$   /$$$$/   /$$$$$$$|  $$$$$$
    | $$      | $$| $$  | $$ /$$__  $$| $$  | $$  /$$__/   /$$__  $$ \____  $$
    | $$      | $$| $$  | $$|  $$$$$$$| $$  | $$ /$$$$$$$$|  $$$$$$$ /$$$$$$$/
    |__/      |__/|__/  |__/ \_______/|__/  |__/|________/ \_______/|_______/
    `
	fmt.Println(console.BrightGreen(banner))

	formattedVersion := version.FormatVersion()
	fmt.Println(console.BrightCyan(fmt.Sprintf("Finanzas Dashboard CLI (v%s)", formattedVersion)))
}

// checkLatestVersion verifica se uma versão mais recente está disponível.
func checkLatestVersion(currentVersion string) {
	version.CheckLatestVersion(currentVersion)
}
