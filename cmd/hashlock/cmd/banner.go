package cmd

import (
	"fmt"
)

const banner = `
  _    _           _     _                _
 | |  | |         | |   | |              | |
 | |__| | __ _ ___| |__ | |     ___   ___| | __
 |  __  |/ _` + "`" + ` / __| '_ \| |    / _ \ / __| |/ /
 | |  | | (_| \__ \ | | | |___| (_) | (__|   <
 |_|  |_|\__,_|___/_| |_|______\___/ \___|_|\_\

`

func printBanner() {
	fmt.Printf("\x1b[34m%s\x1b[0m", banner)
	fmt.Printf("\x1b[32m  Forward-Auth Session Broker - Version %s\x1b[0m\n\n", Version)
}
