// SPDX-License-Identifier: MPL-2.0

package main

import cmd "github.com/volprobe/volprobe/cmd/volprobe"

func main() {
	cmd.Execute()
}
