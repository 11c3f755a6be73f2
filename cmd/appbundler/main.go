package main

import "github.com/oshokin/appbundler/cmd/appbundler/cmd"

func main() {
	cmd.Execute()
}
