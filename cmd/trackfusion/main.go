// cmd/trackfusion/main.go
package main

import (
	"fmt"
	"os"

	"github.com/kallerwest/trackfusion/cmd/trackfusion/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
