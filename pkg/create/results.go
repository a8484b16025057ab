package create

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/jaspreet-dot-casa/lxcup/pkg/provision"
)

// PrintResult prints the provisioning outcome to the terminal (outside alt-screen).
func PrintResult(result *provision.Result) {
	fmt.Println()

	if result == nil {
		fmt.Println(errorStyle.Render("Provisioning did not complete."))
		return
	}

	if result.Success {
		fmt.Println(successStyle.Render("  Container Ready!"))
		fmt.Println()
		fmt.Printf("  Duration: %s\n", result.Duration.Round(time.Second))
		fmt.Println()

		if len(result.Outputs) > 0 {
			fmt.Println(subtitleStyle.Render("  Details:"))

			orderedKeys := []string{"ip", "url", "storage", "template", "run_id"}
			printedKeys := make(map[string]bool)

			fmt.Printf("    CTID: %d\n", result.CTID)
			fmt.Printf("    Hostname: %s\n", result.Hostname)
			for _, key := range orderedKeys {
				if value, ok := result.Outputs[key]; ok {
					fmt.Printf("    %s: %s\n", formatOutputLabel(key), value)
					printedKeys[key] = true
				}
			}
			for key, value := range result.Outputs {
				if !printedKeys[key] {
					fmt.Printf("    %s: %s\n", formatOutputLabel(key), value)
				}
			}
		}

		fmt.Println()
		fmt.Println(dimStyle.Render("  To enter the container:"))
		fmt.Printf("    pct enter %d\n", result.CTID)
	} else {
		fmt.Println(errorStyle.Render("  Provisioning Failed"))
		fmt.Println()
		if result.Error != nil {
			fmt.Printf("  Error: %s\n", result.Error)
		}
		if len(result.Logs) > 0 {
			fmt.Println()
			fmt.Println(dimStyle.Render("  Installer output:"))
			for _, line := range result.Logs {
				fmt.Printf("    %s\n", line)
			}
		}
	}

	fmt.Println()
}

// formatOutputLabel formats an output key as a human-readable label.
func formatOutputLabel(key string) string {
	switch key {
	case "ip":
		return "IP Address"
	case "url":
		return "Web UI"
	case "storage":
		return "Storage Pool"
	case "template":
		return "OS Template"
	case "run_id":
		return "Run ID"
	default:
		caser := cases.Title(language.English)
		return caser.String(strings.ReplaceAll(key, "_", " "))
	}
}
