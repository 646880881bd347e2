// Copyright © 2026 The octls authors

package main

import "github.com/octls/octls/cmd"

func main() {
	cmd.Execute()
}
