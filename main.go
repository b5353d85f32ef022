// SPDX-License-Identifier: MPL-2.0

package main

import "github.com/packwrap/packwrap/cmd/packwrap"

func main() {
	cmd.Execute()
}
