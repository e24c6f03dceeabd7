// SPDX-License-Identifier: MPL-2.0

package main

import cmd "github.com/invoke-go/invoke/cmd/invoke"

func main() {
	cmd.Execute()
}
