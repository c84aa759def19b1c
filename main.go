/*
Copyright © 2026 Veldrane
*/
package main

import "github.com/veldrane/grim-arbiter/cmd"

func main() {
	cmd.Execute()
}
